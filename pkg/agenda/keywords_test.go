package agenda

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTable_LongestFirst(t *testing.T) {
	table := NewTable([]Keyword{
		{Term: "Retorno", Category: CategoryProcedure},
		{Term: "Consulta", Category: CategoryProcedure},
		{Term: "Retorno de Consulta", Category: CategoryProcedure},
		{Term: "  ", Category: CategoryNoise},
		{Term: "retorno", Category: CategoryNoise},
	})

	assert.Equal(t, []string{"Retorno de Consulta", "Consulta", "Retorno"}, table.Terms())
}

func TestStripKeywords(t *testing.T) {
	table := NewTable([]Keyword{
		{Term: "Retorno", Category: CategoryProcedure},
		{Term: "Consulta", Category: CategoryProcedure},
		{Term: "Retorno de Consulta", Category: CategoryProcedure},
		{Term: "Unimed", Category: CategoryInsurance},
	})

	cleaned, matches := stripKeywords("ANA unimed Retorno de Consulta e Consulta", table)
	require.Len(t, matches, 3)
	assert.Equal(t, "unimed", matches[0].Text)
	assert.Equal(t, Keyword{Term: "Unimed", Category: CategoryInsurance}, matches[0].Keyword)
	assert.Equal(t, "Retorno de Consulta", matches[1].Keyword.Term)
	assert.Equal(t, "Consulta", matches[2].Keyword.Term)
	assert.Equal(t, "ANA e", collapseSpaces(cleaned))

	assert.Equal(t, "Retorno de Consulta", firstOf(matches, CategoryProcedure))
	assert.Equal(t, "Unimed", firstOf(matches, CategoryInsurance))
	assert.Empty(t, firstOf(matches, CategoryStatus))
}

func TestStripKeywords_WholeWordsOnly(t *testing.T) {
	table := NewTable([]Keyword{{Term: "Amil", Category: CategoryInsurance}})

	cleaned, matches := stripKeywords("CAMILA AMILTON Amil", table)
	require.Len(t, matches, 1)
	assert.Equal(t, "CAMILA AMILTON", collapseSpaces(cleaned))
}

func TestStripKeywords_EmptyTable(t *testing.T) {
	cleaned, matches := stripKeywords("ANA SOUZA", NewTable(nil))
	assert.Equal(t, "ANA SOUZA", cleaned)
	assert.Nil(t, matches)
}

func TestLoadKeywords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keywords.yaml")
	data := []byte("insurance:\n  - Saúde Total\n  - Vida Mais\norganization:\n  - Instituto Ortopédico\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	kw, err := LoadKeywords(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Saúde Total", "Vida Mais"}, kw.Insurance)
	assert.Equal(t, []string{"Instituto Ortopédico"}, kw.Organization)
	assert.Equal(t, DefaultKeywords().Statuses, kw.Statuses)

	p, err := NewParser(WithKeywords(kw))
	require.NoError(t, err)
	r := p.Parse("09:00 - 09:20 RAFAEL MOTA Vida Mais Instituto Ortopédico")
	require.Len(t, r.Appointments, 1)
	assert.Equal(t, "Vida Mais", r.Appointments[0].Insurance)
	assert.Equal(t, "RAFAEL MOTA", r.Appointments[0].PatientName)
}

func TestLoadKeywords_Errors(t *testing.T) {
	_, err := LoadKeywords(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("statuses: [unterminated"), 0644))
	_, err = LoadKeywords(path)
	assert.Error(t, err)
}
