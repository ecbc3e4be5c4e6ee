package pdftext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/agendapdf/pkg/agenda"
)

func texts(fragments []agenda.Fragment) []string {
	out := make([]string, len(fragments))
	for i, f := range fragments {
		out[i] = f.Text
	}
	return out
}

func TestInterpret_Td(t *testing.T) {
	got := Interpret([]byte("BT /F1 10 Tf 50 780 Td (08:00 - 08:15) Tj 100 0 Td (ANA SOUZA) Tj ET"))
	assert.Equal(t, []agenda.Fragment{
		{Text: "08:00 - 08:15", X: 50, Y: 780},
		{Text: "ANA SOUZA", X: 150, Y: 780},
	}, got)
}

func TestInterpret_LeadingOperators(t *testing.T) {
	got := Interpret([]byte(`BT 12 TL 50 700 Td (A1) Tj T* (A2) Tj (A3) ' 0 -20 TD (A4) Tj T* (A5) Tj 3 1 (A6) " ET`))
	require.Len(t, got, 6)
	wantY := []float64{700, 688, 676, 656, 636, 616}
	for i, f := range got {
		assert.Equal(t, 50.0, f.X, f.Text)
		assert.Equal(t, wantY[i], f.Y, f.Text)
	}
	assert.Equal(t, []string{"A1", "A2", "A3", "A4", "A5", "A6"}, texts(got))
}

func TestInterpret_Matrices(t *testing.T) {
	got := Interpret([]byte(
		"q 1 0 0 1 100 200 cm BT 1 0 0 1 10 20 Tm (X) Tj ET Q\n" +
			"BT 1 0 0 1 10 20 Tm (Y) Tj ET\n" +
			"q 2 0 0 2 0 0 cm BT 1 0 0 1 10 20 Tm (Z) Tj ET Q"))
	assert.Equal(t, []agenda.Fragment{
		{Text: "X", X: 110, Y: 220},
		{Text: "Y", X: 10, Y: 20},
		{Text: "Z", X: 20, Y: 40},
	}, got)
}

func TestInterpret_TJ(t *testing.T) {
	got := Interpret([]byte("BT /F1 10 Tf 10 10 Td [(AN) -20 (A) -500 (SOUZA)] TJ [( ) (Falta)] TJ ET"))
	require.Len(t, got, 2)
	assert.Equal(t, agenda.Fragment{Text: "ANA SOUZA", X: 10, Y: 10}, got[0])
	assert.Equal(t, "Falta", got[1].Text)
	assert.Greater(t, got[1].X, got[0].X, "pen advances past the first array")
}

func TestInterpret_Strings(t *testing.T) {
	got := Interpret([]byte(
		"BT 0 0 Td <4A6F E36F> Tj (Concei\\347\\343o \\(PP\\)) Tj <FEFF00C1> Tj ( ) Tj (a\\\nb) Tj <414> Tj ET"))
	assert.Equal(t, []string{"João", "Conceição (PP)", "Á", "ab", "A@"}, texts(got))
}

func TestInterpret_SkipsNonText(t *testing.T) {
	stream := "% comment (not text) Tj\n" +
		"/Span <</ActualText (x) /Nested <</A 1>> >> BDC BT 1 1 Td (in) Tj ET EMC\n" +
		"q BI /W 1 /H 1 /BPC 8 /CS /G ID \xff(Tj EI\nQ\n" +
		"0 0 m 10 10 l S\n" +
		"BT 5 5 Td (after) Tj ET"
	assert.Equal(t, []string{"in", "after"}, texts(Interpret([]byte(stream))))
}

func TestInterpret_Malformed(t *testing.T) {
	assert.Empty(t, Interpret(nil))
	assert.NotPanics(t, func() {
		Interpret([]byte("BT Td Tj ] ) > { (unterminated"))
		Interpret([]byte("[ (a) <<"))
		Interpret([]byte("Q Q Q cm Tm TJ"))
	})
}
