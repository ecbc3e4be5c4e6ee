package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gardar/agendapdf/pkg/agenda"
	"github.com/gardar/agendapdf/pkg/gdocai"
	"github.com/gardar/agendapdf/pkg/hocr"
	"github.com/gardar/agendapdf/pkg/pdftext"
)

// ErrDocumentAIDisabled is returned for the docai source when Document AI is not configured
var ErrDocumentAIDisabled = errors.New("document ai is not configured")

func (im *Importer) readPDF(ctx context.Context, data []byte) ([]agenda.Page, error) {
	pages, err := pdftext.Extract(ctx, data)
	if err == nil || !errors.Is(err, agenda.ErrUnreadable) {
		return pages, err
	}
	if ok, lerr := pdftext.HasTextLayer(data); lerr == nil && !ok {
		return nil, fmt.Errorf("%w; the PDF looks scanned, retry with source hocr or docai", err)
	}
	return nil, err
}

func (im *Importer) readHOCR(_ context.Context, data []byte) ([]agenda.Page, error) {
	doc, err := hocr.Parse(data)
	if err != nil {
		return nil, err
	}
	pages := hocr.Pages(doc, im.minConfidence)
	for _, p := range pages {
		if len(p.Fragments) > 0 {
			return pages, nil
		}
	}
	return nil, fmt.Errorf("%w: no recognized word above confidence %.0f", agenda.ErrUnreadable, im.minConfidence)
}

func (im *Importer) readDocAI(ctx context.Context, data []byte) ([]agenda.Page, error) {
	if im.docai == nil {
		return nil, ErrDocumentAIDisabled
	}
	if err := im.docai.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentAIDisabled, err)
	}
	return gdocai.Pages(ctx, data, im.docai)
}
