package agenda

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Layout)
		wantErr string
	}{
		{"default", func(*Layout) {}, ""},
		{"zero tolerance", func(l *Layout) { l.LineTolerance = 0 }, "line tolerance"},
		{"negative metadata", func(l *Layout) { l.MetadataLines = -1 }, "metadata lines"},
		{"no name tokens", func(l *Layout) { l.MaxNameTokens = 0 }, "name tokens"},
		{"no columns", func(l *Layout) { l.Columns = nil }, "no columns"},
		{"unknown column", func(l *Layout) { l.Columns = []Column{ColumnTime, ColumnPatient, "room"} }, "unknown column"},
		{"duplicate", func(l *Layout) { l.Columns = []Column{ColumnTime, ColumnPatient, ColumnPatient} }, "twice"},
		{"time not first", func(l *Layout) { l.Columns = []Column{ColumnPatient, ColumnTime} }, "first column"},
		{"no patient", func(l *Layout) { l.Columns = []Column{ColumnTime, ColumnStatus} }, "patient"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := DefaultLayout()
			tt.mutate(&l)
			err := l.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLayout_StripOrder(t *testing.T) {
	assert.Equal(t, []field{fieldStatus, fieldContact, fieldKeywords}, DefaultLayout().stripOrder())

	l := DefaultLayout()
	l.Columns = []Column{ColumnTime, ColumnPatient, ColumnStatus, ColumnInsurance, ColumnContact, ColumnEvent}
	assert.Equal(t, []field{fieldKeywords, fieldContact, fieldStatus}, l.stripOrder())
}

func TestDefaultLayout_DoesNotShareColumns(t *testing.T) {
	l := DefaultLayout()
	l.Columns[0] = ColumnStatus
	assert.Equal(t, ColumnTime, DefaultColumns[0])
}
