// Package gdocai reads agenda fragments from Google Document AI.
//
// Scanned agendas have no text layer to read. This package sends the PDF to a Document AI
// OCR processor and converts the recognized tokens, whose positions come back as
// vertices normalized to the page size, into agenda fragments in page units.
//
// Main Functions:
//
// - ProcessDocument: Sends a document to Google Document AI for processing
// - PagesFromProto: Converts a Document AI response into agenda pages
// - Pages: ProcessDocument followed by PagesFromProto
// - ToJSON: Dumps a response for debugging
//
// Usage Requirements:
//
// - Google Cloud project with Document AI API enabled
// - Document AI processor configured for OCR
// - Authentication via GOOGLE_APPLICATION_CREDENTIALS or Config.CredentialsFile
package gdocai

import (
	"context"
	"fmt"

	"github.com/gardar/agendapdf/pkg/agenda"
)

// Pages processes a PDF with Document AI and returns its agenda pages.
// A response without any token is reported as agenda.ErrUnreadable.
func Pages(ctx context.Context, pdfBytes []byte, cfg *Config) ([]agenda.Page, error) {
	rawDoc, err := ProcessDocument(ctx, pdfBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agenda.ErrUnreadable, err)
	}

	pages := PagesFromProto(rawDoc)
	for _, p := range pages {
		if len(p.Fragments) > 0 {
			return pages, nil
		}
	}
	return nil, fmt.Errorf("%w: Document AI recognized no text", agenda.ErrUnreadable)
}
