package gdocai

import (
	"strings"

	"cloud.google.com/go/documentai/apiv1/documentaipb"
)

// textFromLayout extracts text from a layout's text anchor segments.
// Segment indices count runes of the document text.
func textFromLayout(layout *documentaipb.Document_Page_Layout, runes []rune) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	result := strings.Builder{}
	totalRunes := len(runes)

	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > totalRunes {
			end = totalRunes
		}
		if start > end {
			start = end
		}
		result.WriteString(string(runes[start:end]))
	}
	return result.String()
}
