package agenda

import (
	"cmp"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Category tells what kind of column a keyword belongs to
type Category string

const (
	CategoryStatus    Category = "status"
	CategoryInsurance Category = "insurance"
	CategoryProcedure Category = "procedure"
	CategoryNoise     Category = "noise"
)

// Keywords holds the term lists that drive field extraction.
// Every list can be replaced from a YAML file with LoadKeywords.
type Keywords struct {
	Statuses      []string `yaml:"statuses"`       // Appointment status values
	Insurance     []string `yaml:"insurance"`      // Insurance carriers
	Procedures    []string `yaml:"procedures"`     // Event and procedure types
	Noise         []string `yaml:"noise"`          // Administrative and coverage terms
	Organization  []string `yaml:"organization"`   // Names of the clinic itself
	DocumentNoise []string `yaml:"document_noise"` // Markers that reject a time-range line
	LineNoise     []string `yaml:"line_noise"`     // Markers that reject a continuation line
}

// DefaultKeywords returns the keyword tables of the clinic agenda template
func DefaultKeywords() Keywords {
	return Keywords{
		Statuses: []string{
			"Confirmado", "Realizado", "Falta", "Agendado", "Desistencia", "Desistência",
			"Cancelado", "Atendido", "Em Atendimento",
		},
		Insurance: []string{
			"Unimed", "Bradesco Saúde", "Bradesco", "Amil", "SulAmérica", "SulAmerica",
			"Particular", "Cassi", "Geap", "Porto Seguro", "Hapvida", "NotreDame",
			"Intermédica", "Intermedica", "Golden Cross", "Cabesp", "Postal Saúde",
			"Saúde Caixa", "Mediservice", "Prevent Senior", "Omint", "Allianz", "Care Plus",
			"São Francisco", "Economus", "Funcesp",
		},
		Procedures: []string{
			"Retorno de Consulta", "Primeira Consulta", "Consulta", "Retorno",
			"Teleconsulta", "Exame", "Procedimento", "Avaliação", "Avaliacao", "Cirurgia",
			"Pós-operatório", "Pos-operatorio", "Curativo", "Infiltração", "Infiltracao",
			"Ultrassom", "Eletrocardiograma", "Encaixe", "Revisão", "Revisao",
		},
		Noise: []string{
			"Convênio", "Convenio", "Plano", "Enfermaria", "Apartamento", "Ambulatorial",
			"Hospitalar", "Básico", "Basico", "Especial", "Executivo", "Nacional",
			"Regional", "Coparticipação", "Coparticipacao",
		},
		Organization: []string{
			"Clínica", "Clinica",
		},
		DocumentNoise: []string{
			"página", "pagina", "relatório", "relatorio", "agenda do dia",
			"bloqueio", "total", "quantidade", "impresso em", "emitido em",
		},
		LineNoise: []string{
			"relatório", "relatorio", "impresso", "emitido", "página", "pagina",
			"usuário:", "usuario:", "data:",
		},
	}
}

// LoadKeywords reads keyword tables from a YAML file.
// Lists missing from the file keep their default values.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("failed to read keywords file: %w", err)
	}

	var loaded Keywords
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Keywords{}, fmt.Errorf("failed to parse keywords file: %w", err)
	}

	kw := DefaultKeywords()
	override := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	override(&kw.Statuses, loaded.Statuses)
	override(&kw.Insurance, loaded.Insurance)
	override(&kw.Procedures, loaded.Procedures)
	override(&kw.Noise, loaded.Noise)
	override(&kw.Organization, loaded.Organization)
	override(&kw.DocumentNoise, loaded.DocumentNoise)
	override(&kw.LineNoise, loaded.LineNoise)
	return kw, nil
}

// junkTerms lists the terms that can never be part of a patient name
func (k Keywords) junkTerms() []string {
	var terms []string
	terms = append(terms, k.Insurance...)
	terms = append(terms, k.Procedures...)
	terms = append(terms, k.Noise...)
	terms = append(terms, k.Organization...)
	return terms
}

// Keyword is one term of a keyword table
type Keyword struct {
	Term     string
	Category Category
}

// Match is one keyword occurrence found by stripKeywords
type Match struct {
	Keyword Keyword // Table entry that matched
	Text    string  // Matched text as it appears in the input
}

// Table is a compiled keyword table. Terms are ordered longest first so that
// "Retorno de Consulta" wins over "Retorno" and "Consulta" at the same position.
type Table struct {
	keywords []Keyword
	byFold   map[string]Keyword
	pattern  *regexp.Regexp
}

// NewTable compiles a keyword table. Empty terms are ignored; when a term appears twice
// the first category wins.
func NewTable(keywords []Keyword) *Table {
	t := &Table{byFold: make(map[string]Keyword)}
	for _, kw := range keywords {
		term := strings.TrimSpace(kw.Term)
		if term == "" {
			continue
		}
		key := strings.ToLower(term)
		if _, dup := t.byFold[key]; dup {
			continue
		}
		kw.Term = term
		t.byFold[key] = kw
		t.keywords = append(t.keywords, kw)
	}

	slices.SortStableFunc(t.keywords, func(a, b Keyword) int {
		return cmp.Compare(utf8.RuneCountInString(b.Term), utf8.RuneCountInString(a.Term))
	})

	if len(t.keywords) == 0 {
		return t
	}
	alternatives := make([]string, len(t.keywords))
	for i, kw := range t.keywords {
		alternatives[i] = regexp.QuoteMeta(kw.Term)
	}
	t.pattern = regexp.MustCompile(`(?i)\b(?:` + strings.Join(alternatives, "|") + `)\b`)
	return t
}

// newCategoryTable builds a table where every term has the same category
func newCategoryTable(category Category, terms ...[]string) *Table {
	var keywords []Keyword
	for _, list := range terms {
		for _, term := range list {
			keywords = append(keywords, Keyword{Term: term, Category: category})
		}
	}
	return NewTable(keywords)
}

// Terms returns the table terms, longest first
func (t *Table) Terms() []string {
	terms := make([]string, len(t.keywords))
	for i, kw := range t.keywords {
		terms[i] = kw.Term
	}
	return terms
}

// stripKeywords removes every occurrence of the table's terms from input.
// Matches are returned in the order they appear in input. Each removed occurrence is
// replaced by a space so that the surrounding words stay apart.
func stripKeywords(input string, t *Table) (string, []Match) {
	if t == nil || t.pattern == nil {
		return input, nil
	}
	locs := t.pattern.FindAllStringIndex(input, -1)
	if len(locs) == 0 {
		return input, nil
	}

	matches := make([]Match, 0, len(locs))
	var cleaned strings.Builder
	last := 0
	for _, loc := range locs {
		text := input[loc[0]:loc[1]]
		kw, ok := t.byFold[strings.ToLower(text)]
		if !ok {
			// Case folding disagreed with ToLower; fall back to a linear scan
			for _, candidate := range t.keywords {
				if strings.EqualFold(candidate.Term, text) {
					kw = candidate
					break
				}
			}
		}
		matches = append(matches, Match{Keyword: kw, Text: text})
		cleaned.WriteString(input[last:loc[0]])
		cleaned.WriteString(" ")
		last = loc[1]
	}
	cleaned.WriteString(input[last:])
	return cleaned.String(), matches
}

// firstOf returns the term of the first match with the given category
func firstOf(matches []Match, category Category) string {
	for _, m := range matches {
		if m.Keyword.Category == category {
			return m.Keyword.Term
		}
	}
	return ""
}

// containsAny reports whether s contains any of the markers, ignoring case
func containsAny(s string, markers []string) bool {
	lower := strings.ToLower(s)
	for _, marker := range markers {
		marker = strings.ToLower(strings.TrimSpace(marker))
		if marker != "" && strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// equalsAny reports whether s equals any of the terms, ignoring case
func equalsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(term)) {
			return true
		}
	}
	return false
}
