// Package hocr reads hOCR, the HTML-based format OCR engines use to report recognized
// words with their positions, and turns it into agenda fragments.
//
// Scanned agendas carry no text layer. Running them through an OCR engine that emits
// hOCR (Tesseract, ocrmypdf) gives word boxes that feed the same line reconstruction as
// a digital PDF.
//
// Key Types:
//
// - Document: Parsed hOCR document
// - Page: One page with class 'ocr_page' and its words
// - Word: One recognized word with class 'ocrx_word'
// - BoundingBox: Rectangle in image pixels, origin at the top-left corner
//
// Main Functions:
//
// - Parse: Parses hOCR HTML into the object model
// - Pages: Converts parsed pages into agenda pages with a bottom-up vertical axis
package hocr
