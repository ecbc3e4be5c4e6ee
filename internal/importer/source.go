package importer

import (
	"bytes"
	"fmt"
	"strings"
)

// Source names where the positioned fragments of an agenda come from
type Source string

const (
	SourceAuto  Source = "auto"  // Detected from the content
	SourcePDF   Source = "pdf"   // Text layer of a digital PDF
	SourceHOCR  Source = "hocr"  // hOCR output of an OCR engine
	SourceDocAI Source = "docai" // Google Document AI OCR of a scanned PDF
)

// Sources lists the accepted source names
var Sources = []Source{SourceAuto, SourcePDF, SourceHOCR, SourceDocAI}

// ParseSource validates a source name. An empty name means auto detection.
func ParseSource(s string) (Source, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SourceAuto, nil
	}
	for _, src := range Sources {
		if string(src) == s {
			return src, nil
		}
	}
	return "", fmt.Errorf("unknown source %q (want auto, pdf, hocr or docai)", s)
}

// Detect guesses the source of a document from its first bytes.
// Anything that is not hOCR is read as a PDF, whose reader reports unreadable input.
func Detect(data []byte) Source {
	head := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if bytes.HasPrefix(head, []byte("%PDF-")) {
		return SourcePDF
	}
	if len(head) > 8192 {
		head = head[:8192]
	}
	if bytes.Contains(head, []byte("ocr_page")) || bytes.Contains(head, []byte("ocr-system")) {
		return SourceHOCR
	}
	return SourcePDF
}
