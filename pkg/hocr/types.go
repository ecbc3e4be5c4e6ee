package hocr

// Document is a parsed hOCR document
type Document struct {
	Title    string            // Document title
	Language string            // Document language
	Metadata map[string]string // ocr-system, ocr-capabilities and similar meta tags
	Pages    []Page            // Pages in document order
}

// Page is one page of recognized text
// Corresponds to hOCR element with class: 'ocr_page'
type Page struct {
	ID         string      // Unique identifier
	PageNumber int         // ppageno property, zero-based as written by Tesseract
	ImageName  string      // Source image filename
	BBox       BoundingBox // Page coordinates
	Words      []Word      // Words in reading order
}

// Word is a recognized word with bounding box
// Corresponds to hOCR element with class: 'ocrx_word'
type Word struct {
	ID         string      // Unique identifier
	Text       string      // The actual text content
	BBox       BoundingBox // Word coordinates
	Confidence float64     // Recognition confidence (0-100)
}

// BoundingBox represents a rectangle in image pixels.
// X1, Y1 is the top-left corner and X2, Y2 the bottom-right corner.
type BoundingBox struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// NewBoundingBox creates a bounding box from the four values of an hOCR 'bbox' property
func NewBoundingBox(x1, y1, x2, y2 float64) BoundingBox {
	return BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Height of the box
func (b BoundingBox) Height() float64 { return b.Y2 - b.Y1 }
