package agenda

import (
	"fmt"
)

// Column names one column of the printed agenda
type Column string

const (
	ColumnTime      Column = "time"
	ColumnPatient   Column = "patient"
	ColumnEvent     Column = "event"
	ColumnInsurance Column = "insurance"
	ColumnContact   Column = "contact"
	ColumnStatus    Column = "status"
)

// DefaultColumns is the column order of the clinic agenda print template:
// TIME | PATIENT DESCRIPTION | EVENT TYPE | INSURANCE | CONTACT | STATUS
var DefaultColumns = []Column{
	ColumnTime,
	ColumnPatient,
	ColumnEvent,
	ColumnInsurance,
	ColumnContact,
	ColumnStatus,
}

// DefaultLineTolerance is the vertical distance, in page units, under which two fragments
// belong to the same printed row. It is tuned to the font size of the agenda print template.
const DefaultLineTolerance = 8.0

// Layout holds the constants tied to one family of source documents
type Layout struct {
	LineTolerance float64  `yaml:"line_tolerance" mapstructure:"line_tolerance" json:"line_tolerance"` // Same-row vertical tolerance
	MetadataLines int      `yaml:"metadata_lines" mapstructure:"metadata_lines" json:"metadata_lines"` // Lines scanned for doctor and date
	MaxNameTokens int      `yaml:"max_name_tokens" mapstructure:"max_name_tokens" json:"max_name_tokens"` // Tokens kept in PatientName
	Columns       []Column `yaml:"columns" mapstructure:"columns" json:"columns"`                     // Declared column order
}

// DefaultLayout returns the layout of the clinic agenda print template
func DefaultLayout() Layout {
	columns := make([]Column, len(DefaultColumns))
	copy(columns, DefaultColumns)
	return Layout{
		LineTolerance: DefaultLineTolerance,
		MetadataLines: 15,
		MaxNameTokens: 2,
		Columns:       columns,
	}
}

// Validate checks that the layout can drive the extractor.
// The time column must come first because the time range is what opens a record,
// and a patient column must exist because the name is what remains after stripping.
func (l Layout) Validate() error {
	if l.LineTolerance <= 0 {
		return fmt.Errorf("line tolerance must be positive, got %v", l.LineTolerance)
	}
	if l.MetadataLines < 0 {
		return fmt.Errorf("metadata lines must not be negative, got %d", l.MetadataLines)
	}
	if l.MaxNameTokens < 1 {
		return fmt.Errorf("max name tokens must be at least 1, got %d", l.MaxNameTokens)
	}
	if len(l.Columns) == 0 {
		return fmt.Errorf("layout declares no columns")
	}

	seen := make(map[Column]bool)
	for _, c := range l.Columns {
		switch c {
		case ColumnTime, ColumnPatient, ColumnEvent, ColumnInsurance, ColumnContact, ColumnStatus:
		default:
			return fmt.Errorf("unknown column %q", c)
		}
		if seen[c] {
			return fmt.Errorf("column %q declared twice", c)
		}
		seen[c] = true
	}

	if l.Columns[0] != ColumnTime {
		return fmt.Errorf("first column must be %q, got %q", ColumnTime, l.Columns[0])
	}
	if !seen[ColumnPatient] {
		return fmt.Errorf("layout has no %q column", ColumnPatient)
	}
	return nil
}

// field is one stripping pass of the new-record path
type field int

const (
	fieldStatus field = iota
	fieldContact
	fieldKeywords
)

// stripOrder derives the order of the stripping passes from the declared columns.
// Columns are consumed from the right edge of the row inward; event and insurance share
// the combined keyword pass, which runs once.
func (l Layout) stripOrder() []field {
	var order []field
	keywords := false
	for i := len(l.Columns) - 1; i >= 0; i-- {
		switch l.Columns[i] {
		case ColumnStatus:
			order = append(order, fieldStatus)
		case ColumnContact:
			order = append(order, fieldContact)
		case ColumnEvent, ColumnInsurance:
			if !keywords {
				order = append(order, fieldKeywords)
				keywords = true
			}
		}
	}
	return order
}
