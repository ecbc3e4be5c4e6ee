package agenda

import (
	"cmp"
	"iter"
	"math"
	"slices"
	"strings"
)

// Lines reconstructs the visual lines of a document from its positioned fragments.
//
// Each page is processed on its own, in the order given: fragments are sorted top to bottom
// (descending Y) and left to right (ascending X), then walked once. A fragment opens a new line
// when its Y is more than tolerance away from the Y of the first fragment of the current line;
// otherwise it joins that line. The reference Y sticks to the first fragment of a line, so
// grouping depends on the sort and is never re-clustered. Fragments of a line are joined
// with single spaces from left to right.
//
// The sequence is lazy: a page is sorted only when iteration reaches it.
func Lines(pages []Page, tolerance float64) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		for _, page := range pages {
			for _, text := range pageLines(page.Fragments, tolerance) {
				if !yield(Line{Page: page.Number, Text: text}) {
					return
				}
			}
		}
	}
}

// Text reconstructs the lines of a document and joins them with line breaks
func Text(pages []Page, tolerance float64) string {
	var builder strings.Builder
	for line := range Lines(pages, tolerance) {
		builder.WriteString(line.Text)
		builder.WriteString("\n")
	}
	return builder.String()
}

// pageLines groups the fragments of a single page into line texts
func pageLines(fragments []Fragment, tolerance float64) []string {
	// Drop empty and whitespace-only fragments
	kept := make([]Fragment, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) != "" {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return nil
	}

	// Top of the page first, then left to right
	slices.SortStableFunc(kept, func(a, b Fragment) int {
		if c := cmp.Compare(b.Y, a.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})

	var lines []string
	current := []Fragment{kept[0]}
	refY := kept[0].Y

	for _, f := range kept[1:] {
		if math.Abs(f.Y-refY) > tolerance {
			lines = append(lines, joinLine(current))
			current = []Fragment{f}
			refY = f.Y
			continue
		}
		current = append(current, f)
	}

	// Flush the last line of the page
	lines = append(lines, joinLine(current))
	return lines
}

// joinLine space-joins the fragments of one line from left to right.
// Baseline jitter inside a row can put a right-hand fragment first in the global sort,
// so the row is re-sorted by X; the grouping itself is left untouched.
func joinLine(fragments []Fragment) string {
	slices.SortStableFunc(fragments, func(a, b Fragment) int {
		return cmp.Compare(a.X, b.X)
	})
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}
