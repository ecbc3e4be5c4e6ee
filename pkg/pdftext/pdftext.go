// Package pdftext reads positioned text fragments from a PDF's text layer.
//
// Agenda exports are digital PDFs: every cell is drawn by a text-showing operator in the
// page content stream. This package reads the PDF with pdfcpu, interprets the text
// operators of each page and reports where each run of text starts, in PDF user space
// (points, origin at the bottom-left corner, Y growing upward).
//
// Glyph widths are estimated rather than read from the fonts, so positions after the
// first run of a text object are approximate. The start of every run positioned with
// Td, TD, Tm or T* is exact, which is what the agenda layout relies on.
//
// Main Functions:
//
// - Extract: Reads every page of a PDF into agenda pages
// - HasTextLayer: Reports whether a PDF carries any text, to route scans to OCR
// - Interpret: Runs the text interpreter on one decoded content stream
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"runtime"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"golang.org/x/sync/errgroup"

	"github.com/gardar/agendapdf/pkg/agenda"
)

var disableConfigDir sync.Once

// Extract reads the text layer of every page.
// A PDF that cannot be read, or that has no text at all, yields agenda.ErrUnreadable.
func Extract(ctx context.Context, data []byte) ([]agenda.Page, error) {
	streams, err := pageStreams(data)
	if err != nil {
		return nil, err
	}

	pages := make([]agenda.Page, len(streams))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, stream := range streams {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			pages[i] = agenda.Page{Number: i + 1, Fragments: Interpret(stream)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, p := range pages {
		if len(p.Fragments) > 0 {
			return pages, nil
		}
	}
	return nil, fmt.Errorf("%w: no text layer found", agenda.ErrUnreadable)
}

// HasTextLayer reports whether any page of the PDF shows text.
// Scanned agendas answer false and need an OCR source instead.
func HasTextLayer(data []byte) (bool, error) {
	streams, err := pageStreams(data)
	if err != nil {
		return false, err
	}
	for _, stream := range streams {
		if len(Interpret(stream)) > 0 {
			return true, nil
		}
	}
	return false, nil
}

// pageStreams reads the PDF and returns the decoded content of each page, in page order.
// pdfcpu contexts are not shared across goroutines, so streams are fetched sequentially.
func pageStreams(data []byte) ([][]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty PDF data", agenda.ErrUnreadable)
	}
	disableConfigDir.Do(api.DisableConfigDir)

	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", agenda.ErrUnreadable, err)
	}

	streams := make([][]byte, pdfCtx.PageCount)
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", agenda.ErrUnreadable, pageNr, err)
		}
		if r == nil {
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", agenda.ErrUnreadable, pageNr, err)
		}
		streams[pageNr-1] = content
	}
	return streams, nil
}
