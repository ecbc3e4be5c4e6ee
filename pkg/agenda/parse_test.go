package agenda

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	p, err := NewParser(opts...)
	require.NoError(t, err)
	return p
}

func TestParse_EndToEnd(t *testing.T) {
	text := strings.Join([]string{
		"Dr. Orlando_Costa",
		"Data: 25/11/2025",
		"08:00 - 08:15 JOAO PEREIRA SILVA (14) 99887-7766 Unimed Confirmado",
		"08:20",
		"PEREIRA ADICIONAL",
		"08:30 - 08:45 LIVRE",
	}, "\n")

	r := newTestParser(t).Parse(text)

	assert.Equal(t, "Orlando Costa", r.Doctor)
	assert.Equal(t, "25/11/2025", r.Date)

	require.Len(t, r.Appointments, 1)
	a := r.Appointments[0]
	assert.Equal(t, "08:00", a.Time)
	assert.Equal(t, "JOAO PEREIRA", a.PatientName)
	assert.Equal(t, "JOAO PEREIRA SILVA PEREIRA ADICIONAL", a.FullName)
	assert.Equal(t, "(14) 99887-7766", a.Contact)
	assert.Equal(t, "Unimed", a.Insurance)
	assert.Equal(t, "Confirmado", a.Status)
	assert.Equal(t, "Orlando Costa", a.Doctor)
	assert.Equal(t, "25/11/2025", a.Date)
	assert.False(t, a.Free)

	require.Len(t, r.FreeSlots, 1)
	assert.Equal(t, "08:30", r.FreeSlots[0].Time)
	assert.True(t, r.FreeSlots[0].Free)
}

func TestParse_NewRecordDiscriminator(t *testing.T) {
	text := "09:00 - 09:15 MARIA SILVA Confirmado\n09:15 SILVA CONTINUED"

	r := newTestParser(t, WithLayout(Layout{
		LineTolerance: DefaultLineTolerance,
		MetadataLines: 15,
		MaxNameTokens: 10,
		Columns:       DefaultColumns,
	})).Parse(text)

	require.Len(t, r.Appointments, 1)
	a := r.Appointments[0]
	assert.Equal(t, "09:00", a.Time)
	assert.Equal(t, "Confirmado", a.Status)
	assert.Contains(t, a.PatientName, "MARIA SILVA")
	assert.Equal(t, "MARIA SILVA SILVA CONTINUED", a.FullName)
}

func TestParse_TimeRangeShapes(t *testing.T) {
	tests := []struct {
		line string
		time string
		name string
	}{
		{"08:00 - 08:15 ANA SOUZA", "08:00", "ANA SOUZA"},
		{"08:00-08:15 ANA SOUZA", "08:00", "ANA SOUZA"},
		{"08:00 – 08:15 ANA SOUZA", "08:00", "ANA SOUZA"},
		{"08:00 - ANA SOUZA", "08:00", "ANA SOUZA"},
		{"8:05 - 8:20 ANA SOUZA", "08:05", "ANA SOUZA"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r := p.Parse(tt.line)
			require.Len(t, r.Appointments, 1)
			assert.Equal(t, tt.time, r.Appointments[0].Time)
			assert.Equal(t, tt.name, r.Appointments[0].PatientName)
		})
	}
}

func TestParse_BareTimeDoesNotOpenRecord(t *testing.T) {
	r := newTestParser(t).Parse("08:00 ANA SOUZA Confirmado")
	assert.Empty(t, r.Appointments)
	assert.Empty(t, r.FreeSlots)
}

func TestParse_StatusHandling(t *testing.T) {
	tests := []struct {
		line   string
		status string
	}{
		{"10:00 - 10:15 ANA SOUZA", "Agendado"},
		{"10:00 - 10:15 ANA SOUZA CONFIRMADO", "Confirmado"},
		{"10:00 - 10:15 ANA SOUZA em atendimento", "Em Atendimento"},
		{"10:00 - 10:15 ANA SOUZA Falta Cancelado", "Falta"},
		{"10:00 - 10:15 ANA SOUZA Desistência", "Desistência"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r := p.Parse(tt.line)
			require.Len(t, r.Appointments, 1)
			assert.Equal(t, tt.status, r.Appointments[0].Status)
			assert.Equal(t, "ANA SOUZA", r.Appointments[0].PatientName)
		})
	}
}

func TestParse_MultipleContacts(t *testing.T) {
	r := newTestParser(t).Parse("11:00 - 11:15 PAULO LIMA (11) 98765-4321 / 3456-7890 Agendado")

	require.Len(t, r.Appointments, 1)
	a := r.Appointments[0]
	assert.Equal(t, "(11) 98765-4321 / 3456-7890", a.Contact)
	assert.Equal(t, "PAULO LIMA", a.PatientName)
}

func TestParse_LongestKeywordWins(t *testing.T) {
	r := newTestParser(t).Parse("14:00 - 14:20 CARLOS ALBERTO Retorno de Consulta Particular Confirmado")

	require.Len(t, r.Appointments, 1)
	a := r.Appointments[0]
	assert.Equal(t, "Retorno de Consulta", a.Procedure)
	assert.Equal(t, "Particular", a.Insurance)
	assert.Equal(t, "CARLOS ALBERTO", a.PatientName)
}

func TestParse_FirstKeywordInTextOrder(t *testing.T) {
	r := newTestParser(t).Parse("14:00 - 14:20 BEATRIZ NUNES Exame Unimed Consulta Bradesco")

	require.Len(t, r.Appointments, 1)
	assert.Equal(t, "Exame", r.Appointments[0].Procedure)
	assert.Equal(t, "Unimed", r.Appointments[0].Insurance)
}

func TestParse_FreeSlotExemption(t *testing.T) {
	r := newTestParser(t).Parse("14:00 - 14:15 LIVRE\n14:15 - 14:30 ANA SOUZA")

	require.Len(t, r.FreeSlots, 1)
	assert.Equal(t, "14:00", r.FreeSlots[0].Time)
	assert.Contains(t, r.FreeSlots[0].PatientName, "LIVRE")

	require.Len(t, r.Appointments, 1)
	assert.Equal(t, "ANA SOUZA", r.Appointments[0].PatientName)

	s := Summarize(r)
	assert.Equal(t, 1, s.TotalCount)
	assert.Equal(t, "14:00", s.FreeSlotsText)
}

func TestParse_FreeSlotIsNotExtended(t *testing.T) {
	r := newTestParser(t).Parse("14:00 - 14:15 LIVRE\nFULANO DE TAL")

	require.Len(t, r.FreeSlots, 1)
	assert.Equal(t, "LIVRE", r.FreeSlots[0].FullName)
}

func TestParse_RejectsDocumentNoise(t *testing.T) {
	text := strings.Join([]string{
		"12:00 - 13:00 BLOQUEIO almoço",
		"Página 1 de 2 08:00 - 18:00",
		"Total de pacientes 10:00 -",
	}, "\n")

	r := newTestParser(t).Parse(text)
	assert.Empty(t, r.Appointments)
	assert.Empty(t, r.FreeSlots)
}

func TestParse_ContinuationRules(t *testing.T) {
	tests := []struct {
		name string
		next string
		want string
	}{
		{"plain tail", "DE OLIVEIRA", "ANA SOUZA DE OLIVEIRA"},
		{"wrapped end time", "10:15 DE OLIVEIRA", "ANA SOUZA DE OLIVEIRA"},
		{"junk term", "Unimed Nacional", "ANA SOUZA"},
		{"report metadata", "Relatório impresso em 25/11/2025", "ANA SOUZA"},
		{"doctor label", "Dra. Helena Prado", "ANA SOUZA"},
		{"date line", "26/11/2025", "ANA SOUZA"},
		{"digits only", "123 456", "ANA SOUZA"},
		{"phone and status stripped", "DE OLIVEIRA (11) 91234-5678 Confirmado", "ANA SOUZA DE OLIVEIRA"},
		{"layout artifact", "PP DE OLIVEIRA", "ANA SOUZA DE OLIVEIRA"},
		{"single letter", "X", "ANA SOUZA"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := p.Parse("10:00 - 10:15 ANA SOUZA\n" + tt.next)
			require.Len(t, r.Appointments, 1)
			assert.Equal(t, tt.want, r.Appointments[0].FullName)
		})
	}
}

func TestParse_ContinuationWithoutRecordIsDropped(t *testing.T) {
	r := newTestParser(t).Parse("FULANO DE TAL\n10:00 - 10:15 ANA SOUZA")

	require.Len(t, r.Appointments, 1)
	assert.Equal(t, "ANA SOUZA", r.Appointments[0].FullName)
}

func TestParse_NameCleanup(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"10:00 - 10:15 - ANA SOUZA", "ANA SOUZA"},
		{"10:00 - 10:15 PP ANA SOUZA", "ANA SOUZA"},
		{"10:00 - 10:15 ANA SOUZA PP", "ANA SOUZA"},
		{"10:00 - 10:15 ANA 123 SOUZA", "ANA SOUZA"},
		{"10:00 - 10:15 ...ANA   SOUZA;;", "ANA SOUZA"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			r := p.Parse(tt.line)
			require.Len(t, r.Appointments, 1)
			assert.Equal(t, tt.want, r.Appointments[0].FullName)
		})
	}
}

func TestParse_ShortOrJunkNamesAreDropped(t *testing.T) {
	text := strings.Join([]string{
		"10:00 - 10:15 AB",
		"10:15 - 10:30 Unimed Confirmado",
		"10:30 - 10:45 12345",
	}, "\n")

	r := newTestParser(t).Parse(text)
	assert.Empty(t, r.Appointments)
}

func TestParse_EmptyInput(t *testing.T) {
	r := newTestParser(t).Parse("")

	assert.NotNil(t, r.Appointments)
	assert.Empty(t, r.Appointments)
	assert.Empty(t, r.FreeSlots)
	assert.Empty(t, r.Doctor)
	assert.Empty(t, r.Date)
}

func TestParse_MetadataOnlyInHeader(t *testing.T) {
	lines := []string{"AGENDA"}
	for i := 0; i < 15; i++ {
		lines = append(lines, "")
	}
	lines = append(lines, "Médico: Fulano_de_Tal", "01/02/2025")

	r := newTestParser(t).Parse(strings.Join(lines, "\n"))
	assert.Empty(t, r.Doctor)
	assert.Empty(t, r.Date)
}

func TestParse_DoctorLabels(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"Dr. Orlando_Costa", "Orlando Costa"},
		{"Dra. Helena Prado", "Helena Prado"},
		{"Médico: Ricardo_Alves Data: 25/11/2025", "Ricardo Alves"},
		{"Prestador: MARIANA_LOPES_DIAS", "MARIANA LOPES DIAS"},
		{"Medico Joana Reis", "Joana Reis"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.line).Doctor)
		})
	}
}

func TestParsePages(t *testing.T) {
	pages := []Page{
		{Number: 1, Fragments: []Fragment{
			{Text: "Dr. Orlando_Costa", X: 20, Y: 800},
			{Text: "25/11/2025", X: 300, Y: 801},
			{Text: "08:00 - 08:15", X: 20, Y: 760},
			{Text: "JOAO PEREIRA", X: 90, Y: 759},
			{Text: "Unimed", X: 300, Y: 760},
			{Text: "(14) 99887-7766", X: 380, Y: 761},
			{Text: "Confirmado", X: 480, Y: 760},
		}},
		{Number: 2, Fragments: []Fragment{
			{Text: "08:30 - 08:45", X: 20, Y: 800},
			{Text: "LIVRE", X: 90, Y: 800},
		}},
	}

	r := newTestParser(t).ParsePages(pages)
	assert.Equal(t, "Orlando Costa", r.Doctor)
	assert.Equal(t, "25/11/2025", r.Date)
	require.Len(t, r.Appointments, 1)
	assert.Equal(t, "JOAO PEREIRA", r.Appointments[0].PatientName)
	assert.Equal(t, "(14) 99887-7766", r.Appointments[0].Contact)
	require.Len(t, r.FreeSlots, 1)
	assert.Equal(t, "08:30", r.FreeSlots[0].Time)
}

func TestParse_CustomColumnOrder(t *testing.T) {
	// Status printed left of the name, no event column
	layout := DefaultLayout()
	layout.Columns = []Column{ColumnTime, ColumnStatus, ColumnPatient, ColumnContact, ColumnInsurance}

	r := newTestParser(t, WithLayout(layout)).Parse("08:00 - 08:15 Confirmado ANA SOUZA 3456-7890 Amil")
	require.Len(t, r.Appointments, 1)
	a := r.Appointments[0]
	assert.Equal(t, "Confirmado", a.Status)
	assert.Equal(t, "3456-7890", a.Contact)
	assert.Equal(t, "Amil", a.Insurance)
	assert.Equal(t, "ANA SOUZA", a.PatientName)
}

func TestNewParser_InvalidLayout(t *testing.T) {
	layout := DefaultLayout()
	layout.LineTolerance = 0

	_, err := NewParser(WithLayout(layout))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line tolerance")
}

func TestTruncateName(t *testing.T) {
	names := []string{"", "ANA", "ANA SOUZA", "JOAO PEREIRA SILVA", "  MARIA   DA  SILVA  "}
	for _, n := range names {
		once := TruncateName(n, 2)
		assert.Equal(t, once, TruncateName(once, 2), n)
	}
	assert.Equal(t, "JOAO PEREIRA", TruncateName("JOAO PEREIRA SILVA", 2))
	assert.Equal(t, "MARIA DA", TruncateName("  MARIA   DA  SILVA  ", 2))
}
