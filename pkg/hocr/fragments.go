package hocr

import (
	"strings"

	"github.com/gardar/agendapdf/pkg/agenda"
)

// Pages converts a parsed document into agenda pages.
// hOCR boxes grow downward from the top of the image, agenda fragments grow upward, so
// each word is placed at the distance of its bottom edge from the page's bottom edge.
// Words below minConfidence are dropped; pass 0 to keep them all.
func Pages(doc Document, minConfidence float64) []agenda.Page {
	pages := make([]agenda.Page, 0, len(doc.Pages))
	for i, p := range doc.Pages {
		page := agenda.Page{Number: i + 1}
		bottom := p.BBox.Y2
		if bottom == 0 {
			bottom = lowestEdge(p.Words)
		}
		for _, w := range p.Words {
			text := strings.TrimSpace(w.Text)
			if text == "" || w.Confidence < minConfidence {
				continue
			}
			page.Fragments = append(page.Fragments, agenda.Fragment{
				Text: text,
				X:    w.BBox.X1,
				Y:    bottom - w.BBox.Y2,
			})
		}
		pages = append(pages, page)
	}
	return pages
}

// lowestEdge is the page bottom fallback for pages without a bbox
func lowestEdge(words []Word) float64 {
	var bottom float64
	for _, w := range words {
		bottom = max(bottom, w.BBox.Y2)
	}
	return bottom
}
