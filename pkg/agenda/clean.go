package agenda

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// timeRangeRe opens a new record: "08:00 - 08:15" or "08:00 -" (hyphen or en dash)
	timeRangeRe = regexp.MustCompile(`\b(\d{1,2}:\d{2})\s*[-–]\s*(?:\d{1,2}:\d{2}\b)?`)

	// leadingTimeRe is the wrapped end time repeated at the start of a continuation line
	leadingTimeRe = regexp.MustCompile(`^\s*\d{1,2}:\d{2}\b`)

	// phoneRe is deliberately loose: optional (area code), optional mobile 9, 4+4 digits
	phoneRe = regexp.MustCompile(`(?:\(?\d{2}\)?\s?)?9?\s?\d{4}[-.\s]?\d{4}`)

	dateRe = regexp.MustCompile(`\b(\d{2}/\d{2}/\d{4})\b`)

	// doctorRe captures the name run after a doctor label; underscores stand for spaces
	doctorRe = regexp.MustCompile(`(?i)(?:\bDra?\.|\bM[ée]dic[oa]\b|\bPrestador\b)\s*:?\s*([\p{L}_][\p{L}_.']*(?:[ \t]+[\p{L}_][\p{L}_.']*)*)`)

	// doctorStopRe marks where a doctor name run bleeds into the next label of the header
	doctorStopRe = regexp.MustCompile(`(?i)\s+(?:data|dia|hor[áa]rio|per[íi]odo|especialidade|crm|unidade|local)\b.*$`)

	doctorLabelRe = regexp.MustCompile(`(?i)(?:\bDra?\.|\bM[ée]dic[oa]\b|\bPrestador\b)`)

	leadingDashRe = regexp.MustCompile(`^\s*[-–—]+`)
	dashRe        = regexp.MustCompile(`[-–—]+`)
	digitsRe      = regexp.MustCompile(`\d+`)
)

// layoutArtifact is a token the print template leaves next to patient names
const layoutArtifact = "PP"

// normalizeTime pads a one-digit hour: "8:00" becomes "08:00"
func normalizeTime(t string) string {
	if len(t) == 4 {
		return "0" + t
	}
	return t
}

// extractPhones removes every phone-like run from s and returns them joined by " / "
func extractPhones(s string) (string, string) {
	phones := phoneRe.FindAllString(s, -1)
	if len(phones) == 0 {
		return s, ""
	}
	for i, p := range phones {
		phones[i] = strings.TrimSpace(p)
	}
	return phoneRe.ReplaceAllString(s, " "), strings.Join(phones, " / ")
}

// cleanName turns the remainder of a line into a patient name
func cleanName(s string) string {
	s = dashRe.ReplaceAllString(s, " ")
	s = digitsRe.ReplaceAllString(s, " ")
	s = collapseSpaces(s)
	s = trimNonLetters(s)
	s = stripArtifact(s)
	return trimNonLetters(s)
}

// collapseSpaces replaces every whitespace run by a single space and trims the ends
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// trimNonLetters strips everything that is not a letter from both ends
func trimNonLetters(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// stripArtifact drops a stray "PP" token when it is the first or last word
func stripArtifact(s string) string {
	words := strings.Fields(s)
	if len(words) > 0 && words[0] == layoutArtifact {
		words = words[1:]
	}
	if len(words) > 0 && words[len(words)-1] == layoutArtifact {
		words = words[:len(words)-1]
	}
	return strings.Join(words, " ")
}

// hasLetter reports whether s contains at least one letter
func hasLetter(s string) bool {
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

// TruncateName keeps at most n whitespace-separated tokens of a name.
// Applying it twice gives the same result as applying it once.
func TruncateName(name string, n int) string {
	words := strings.Fields(name)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
