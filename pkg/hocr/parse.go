package hocr

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/agendapdf/pkg/agenda"
)

// Parse converts raw hOCR data into a Document.
// Data declared as ISO-8859-1 or Windows-1252 is decoded to UTF-8 first.
func Parse(data []byte) (Document, error) {
	doc := Document{Metadata: make(map[string]string)}

	decoded, err := decode(data)
	if err != nil {
		return doc, err
	}

	root, err := html.Parse(bytes.NewReader(decoded))
	if err != nil {
		return doc, fmt.Errorf("%w: invalid hOCR: %v", agenda.ErrUnreadable, err)
	}

	extractDocumentMeta(&doc, root)

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocr_page") {
			doc.Pages = append(doc.Pages, processPage(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(root)

	if len(doc.Pages) == 0 {
		return doc, fmt.Errorf("%w: no ocr_page elements found in hOCR data", agenda.ErrUnreadable)
	}
	return doc, nil
}

// decode converts legacy single-byte encodings to UTF-8
func decode(data []byte) ([]byte, error) {
	var decoder *charmap.Charmap
	switch declaredCharset(data) {
	case "iso-8859-1", "latin1", "latin-1":
		decoder = charmap.ISO8859_1
	case "windows-1252", "cp1252":
		decoder = charmap.Windows1252
	default:
		return data, nil
	}
	decoded, err := decoder.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hOCR: %w", err)
	}
	return decoded, nil
}

// declaredCharset returns the lower-cased charset of the first meta declaration, if any
func declaredCharset(data []byte) string {
	lower := bytes.ToLower(data)
	i := bytes.Index(lower, []byte("charset="))
	if i < 0 {
		return ""
	}
	rest := lower[i+len("charset="):]
	rest = bytes.TrimLeft(rest, `"'`)
	end := bytes.IndexAny(rest, `"'; >/`)
	if end < 0 {
		end = len(rest)
	}
	return string(rest[:end])
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil when the title has no complete bbox property
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// extractDocumentMeta extracts document-level metadata from the head section
func extractDocumentMeta(doc *Document, root *html.Node) {
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttrVal(n, "lang"); lang != "" {
					doc.Language = lang
				}
			case "title":
				if n.FirstChild != nil {
					doc.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name, content := getAttrVal(n, "name"), getAttrVal(n, "content")
				switch {
				case name == "" || content == "":
				case strings.HasPrefix(name, "ocr-"):
					doc.Metadata[name] = content
				case name == "dc.language":
					doc.Language = content
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
}

// processPage extracts the page properties and every word below it.
// Areas, paragraphs and lines are flattened: agenda rows are rebuilt from word positions.
func processPage(n *html.Node) Page {
	page := Page{ID: getAttrVal(n, "id")}

	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		page.BBox = *bbox
	}
	props := ParseTitle(title)
	if image, ok := props["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(strings.Join(image, " "), `"`)
	}
	if ppageno, ok := props["ppageno"]; ok && len(ppageno) > 0 {
		page.PageNumber, _ = strconv.Atoi(ppageno[0])
	}

	var collectWords func(*html.Node)
	collectWords = func(node *html.Node) {
		if node.Type == html.ElementNode && hasClass(node, "ocrx_word") {
			if word, ok := processWord(node); ok {
				page.Words = append(page.Words, word)
			}
			return
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			collectWords(c)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectWords(c)
	}
	return page
}

// processWord extracts a word's text and properties; words without a box are skipped
func processWord(n *html.Node) (Word, bool) {
	word := Word{ID: getAttrVal(n, "id")}

	title := getAttrVal(n, "title")
	bbox := ParseBoundingBoxFromTitle(title)
	if bbox == nil {
		return word, false
	}
	word.BBox = *bbox

	if conf, ok := ParseTitle(title)["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}

	word.Text = extractTextContent(n)
	return word, true
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		text.WriteString(extractTextContent(c))
	}
	return strings.TrimSpace(text.String())
}

// hasClass reports whether the node's class list contains class
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
