package agenda

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultStatus is assigned when a record carries no recognized status
const DefaultStatus = "Agendado"

// Parser extracts appointments from reconstructed agenda text.
// A Parser holds no per-document state and is safe for concurrent use.
type Parser struct {
	layout   Layout
	keywords Keywords
	order    []field
	statuses *Table // Status keywords
	fields   *Table // Insurance, procedure and noise keywords in one table
	junk     []string
	logger   zerolog.Logger
}

// Option configures a Parser
type Option func(*Parser)

// WithLayout replaces the default layout
func WithLayout(layout Layout) Option {
	return func(p *Parser) { p.layout = layout }
}

// WithKeywords replaces the default keyword tables
func WithKeywords(keywords Keywords) Option {
	return func(p *Parser) { p.keywords = keywords }
}

// WithLogger sets the logger used to trace dropped lines at debug level
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Parser) { p.logger = logger }
}

// NewParser creates a parser. It fails only when the layout is unusable.
func NewParser(opts ...Option) (*Parser, error) {
	p := &Parser{
		layout:   DefaultLayout(),
		keywords: DefaultKeywords(),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	if err := p.layout.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	p.order = p.layout.stripOrder()
	p.statuses = newCategoryTable(CategoryStatus, p.keywords.Statuses)

	var fields []Keyword
	for _, group := range []struct {
		category Category
		terms    []string
	}{
		{CategoryInsurance, p.keywords.Insurance},
		{CategoryProcedure, p.keywords.Procedures},
		{CategoryNoise, p.keywords.Noise},
		{CategoryNoise, p.keywords.Organization},
	} {
		for _, term := range group.terms {
			fields = append(fields, Keyword{Term: term, Category: group.category})
		}
	}
	p.fields = NewTable(fields)
	p.junk = p.keywords.junkTerms()
	return p, nil
}

// Layout returns the layout the parser was built with
func (p *Parser) Layout() Layout {
	return p.layout
}

// Keywords returns the keyword tables the parser was built with
func (p *Parser) Keywords() Keywords {
	return p.keywords
}

// parseState is the per-document state threaded through one parse pass
type parseState struct {
	doctor  string
	date    string
	records []Appointment
	current int // Index of the record continuation lines attach to, -1 for none
}

// ParsePages reconstructs the lines of the pages and parses them
func (p *Parser) ParsePages(pages []Page) Result {
	return p.ParseLines(func(yield func(string) bool) {
		for line := range Lines(pages, p.layout.LineTolerance) {
			if !yield(line.Text) {
				return
			}
		}
	})
}

// Parse extracts appointments from the full text of an agenda, one line per row
func (p *Parser) Parse(text string) Result {
	return p.ParseLines(func(yield func(string) bool) {
		for _, line := range strings.Split(text, "\n") {
			if !yield(line) {
				return
			}
		}
	})
}

// ParseLines extracts appointments from a sequence of reconstructed lines.
// It never fails: lines that fit no known shape are dropped.
func (p *Parser) ParseLines(seq iter.Seq[string]) Result {
	var lines []string
	for line := range seq {
		lines = append(lines, strings.TrimRight(line, "\r"))
	}

	state := &parseState{current: -1}
	state.doctor, state.date = p.scanMetadata(lines)

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if loc := timeRangeRe.FindStringSubmatchIndex(line); loc != nil {
			p.newRecord(state, i, line, loc)
			continue
		}
		p.continuation(state, i, line)
	}

	return p.finish(state)
}

// scanMetadata finds the document date and doctor in the header lines
func (p *Parser) scanMetadata(lines []string) (doctor, date string) {
	limit := min(p.layout.MetadataLines, len(lines))
	for _, line := range lines[:limit] {
		if date == "" {
			if m := dateRe.FindStringSubmatch(line); m != nil {
				date = m[1]
			}
		}
		if doctor == "" {
			if m := doctorRe.FindStringSubmatch(line); m != nil {
				doctor = cleanDoctor(m[1])
			}
		}
		if doctor != "" && date != "" {
			break
		}
	}
	return doctor, date
}

// cleanDoctor turns a captured doctor run into a display name
func cleanDoctor(raw string) string {
	name := strings.ReplaceAll(raw, "_", " ")
	name = doctorStopRe.ReplaceAllString(name, "")
	name = collapseSpaces(name)
	return strings.TrimRight(name, ".")
}

// newRecord handles a line that carries a time range
func (p *Parser) newRecord(state *parseState, idx int, line string, loc []int) {
	if containsAny(line, p.keywords.DocumentNoise) {
		p.drop(idx, line, "document noise")
		return
	}

	rec := Appointment{
		Time:   normalizeTime(line[loc[2]:loc[3]]),
		Status: DefaultStatus,
		Doctor: state.doctor,
		Date:   state.date,
	}

	rest := line[:loc[0]] + " " + line[loc[1]:]
	rest = leadingDashRe.ReplaceAllString(rest, "")

	for _, f := range p.order {
		switch f {
		case fieldStatus:
			var status string
			rest, status = p.stripStatus(rest)
			if status != "" {
				rec.Status = status
			}
		case fieldContact:
			rest, rec.Contact = extractPhones(rest)
		case fieldKeywords:
			var matches []Match
			rest, matches = stripKeywords(rest, p.fields)
			rec.Insurance = firstOf(matches, CategoryInsurance)
			rec.Procedure = firstOf(matches, CategoryProcedure)
		}
	}

	name := cleanName(rest)
	free := isFreeSlot(name)
	if !free && utf8.RuneCountInString(name) <= 2 {
		p.drop(idx, line, "name too short")
		return
	}

	rec.FullName = name
	rec.Free = free
	state.records = append(state.records, rec)
	state.current = len(state.records) - 1
}

// continuation handles a line without a time range: the wrapped tail of the
// previous record's patient name, or noise printed between rows
func (p *Parser) continuation(state *parseState, idx int, line string) {
	if state.current < 0 {
		p.drop(idx, line, "no record to continue")
		return
	}
	if p.isLineNoise(line) {
		p.drop(idx, line, "line noise")
		return
	}

	rest := leadingTimeRe.ReplaceAllString(line, "")
	if containsAny(rest, p.junk) {
		p.drop(idx, line, "junk term")
		return
	}

	rest, _ = extractPhones(rest)
	rest, _ = p.stripStatus(rest)
	rest = cleanName(rest)
	if utf8.RuneCountInString(rest) <= 1 || !hasLetter(rest) {
		p.drop(idx, line, "nothing left")
		return
	}

	rec := &state.records[state.current]
	if rec.Free {
		// Free slots are terminal
		p.drop(idx, line, "free slot")
		return
	}
	rec.FullName = rec.FullName + " " + rest
}

// isLineNoise reports report metadata, doctor labels and date lines
func (p *Parser) isLineNoise(line string) bool {
	return containsAny(line, p.keywords.LineNoise) ||
		doctorLabelRe.MatchString(line) ||
		dateRe.MatchString(line)
}

// stripStatus removes every status keyword and returns the first one in Title Case
func (p *Parser) stripStatus(s string) (string, string) {
	rest, matches := stripKeywords(s, p.statuses)
	if len(matches) == 0 {
		return rest, ""
	}
	// Casers keep state between calls and cannot be shared across goroutines
	return rest, cases.Title(language.BrazilianPortuguese).String(matches[0].Text)
}

// finish splits free slots from appointments, drops junk names and truncates names
func (p *Parser) finish(state *parseState) Result {
	result := Result{
		Doctor:       state.doctor,
		Date:         state.date,
		Appointments: []Appointment{},
		FreeSlots:    []Appointment{},
	}

	for _, rec := range state.records {
		if isFreeSlot(rec.FullName) {
			rec.Free = true
			rec.PatientName = rec.FullName
			result.FreeSlots = append(result.FreeSlots, rec)
			continue
		}
		if equalsAny(rec.FullName, p.junk) || utf8.RuneCountInString(rec.FullName) <= 2 {
			p.logger.Debug().Str("name", rec.FullName).Str("time", rec.Time).Msg("appointment dropped")
			continue
		}
		rec.PatientName = TruncateName(rec.FullName, p.layout.MaxNameTokens)
		result.Appointments = append(result.Appointments, rec)
	}

	p.logger.Debug().
		Int("appointments", len(result.Appointments)).
		Int("free_slots", len(result.FreeSlots)).
		Msg("agenda parsed")
	return result
}

// drop traces a line that contributed nothing
func (p *Parser) drop(idx int, line, reason string) {
	p.logger.Debug().Int("line", idx+1).Str("reason", reason).Str("text", line).Msg("line dropped")
}
