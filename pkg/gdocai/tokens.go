package gdocai

import (
	"math"
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"

	"github.com/gardar/agendapdf/pkg/agenda"
)

// PagesFromProto converts every token of a Document AI response into a fragment.
// Document AI measures from the top-left corner; fragments are placed at the distance of
// the token's bottom edge from the bottom of the page.
func PagesFromProto(doc *documentaipb.Document) []agenda.Page {
	if doc == nil {
		return nil
	}
	runes := []rune(doc.GetText())
	pages := make([]agenda.Page, 0, len(doc.GetPages()))
	for i, page := range doc.GetPages() {
		number := int(page.GetPageNumber())
		if number == 0 {
			number = i + 1
		}
		out := agenda.Page{Number: number}
		height := page.GetDimension().GetHeight()

		for _, token := range page.GetTokens() {
			text := strings.TrimSpace(textFromLayout(token.GetLayout(), runes))
			if text == "" {
				continue
			}
			box, ok := tokenBox(token.GetLayout(), page.GetDimension())
			if !ok {
				continue
			}
			out.Fragments = append(out.Fragments, agenda.Fragment{
				Text: text,
				X:    box.minX,
				Y:    float64(height) - box.maxY,
			})
		}
		pages = append(pages, out)
	}
	return pages
}

// box is an axis-aligned rectangle in page units
type box struct {
	minX, minY, maxX, maxY float64
}

// tokenBox converts a layout's bounding polygon to page units.
// Normalized vertices are scaled by the page dimension; absolute vertices are used as is.
func tokenBox(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) (box, bool) {
	poly := layout.GetBoundingPoly()
	b := box{minX: math.Inf(1), minY: math.Inf(1), maxX: math.Inf(-1), maxY: math.Inf(-1)}
	extend := func(x, y float64) {
		b.minX, b.maxX = min(b.minX, x), max(b.maxX, x)
		b.minY, b.maxY = min(b.minY, y), max(b.maxY, y)
	}

	switch {
	case len(poly.GetNormalizedVertices()) > 0 && dim != nil:
		w, h := float64(dim.GetWidth()), float64(dim.GetHeight())
		for _, v := range poly.GetNormalizedVertices() {
			extend(float64(v.GetX())*w, float64(v.GetY())*h)
		}
	case len(poly.GetVertices()) > 0:
		for _, v := range poly.GetVertices() {
			extend(float64(v.GetX()), float64(v.GetY()))
		}
	default:
		return box{}, false
	}
	return b, true
}
