package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/agendapdf/internal/importer"
)

// mockImporter implements Importer
type mockImporter struct {
	calls int32
	delay time.Duration
}

func (m *mockImporter) ImportFile(ctx context.Context, path string, source importer.Source) (*importer.Outcome, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if strings.Contains(path, "bad") {
		return nil, errors.New("import error")
	}
	return &importer.Outcome{Name: filepath.Base(path), Source: source}, nil
}

func TestBatchProcessor_ProcessFiles(t *testing.T) {
	imp := &mockImporter{}
	processor := NewBatchProcessor(imp, 3)

	paths := []string{"a.pdf", "bad.pdf", "c.pdf", "d.pdf", "e.pdf", "f.pdf", "g.pdf", "h.pdf"}
	results := processor.ProcessFiles(context.Background(), paths, importer.SourcePDF)

	require.Len(t, results, len(paths))
	assert.Equal(t, int32(len(paths)), atomic.LoadInt32(&imp.calls))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, paths[i], r.Path)
		if paths[i] == "bad.pdf" {
			assert.Error(t, r.GetError())
			assert.Nil(t, r.Outcome)
			continue
		}
		require.NoError(t, r.GetError())
		assert.Equal(t, paths[i], r.Outcome.Name)
		assert.Equal(t, importer.SourcePDF, r.Outcome.Source)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	results := NewBatchProcessor(&mockImporter{}, 2).ProcessFiles(context.Background(), nil, importer.SourceAuto)
	assert.Empty(t, results)
}

func TestBatchProcessor_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	paths := []string{"a.pdf", "b.pdf", "c.pdf"}
	results := NewBatchProcessor(&mockImporter{delay: time.Second}, 1).ProcessFiles(ctx, paths, importer.SourcePDF)

	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
		assert.Error(t, r.GetError())
	}
}

func TestReadPathsFromFile(t *testing.T) {
	list := filepath.Join(t.TempDir(), "agendas.txt")
	content := "# monday\nagenda-1.pdf\n\n  agenda-2.pdf  \nagenda-1.pdf\n"
	require.NoError(t, os.WriteFile(list, []byte(content), 0o644))

	paths, err := ReadPathsFromFile(list)
	require.NoError(t, err)
	assert.Equal(t, []string{"agenda-1.pdf", "agenda-2.pdf"}, paths)

	_, err = ReadPathsFromFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestBatchProcessor_ProcessList(t *testing.T) {
	list := filepath.Join(t.TempDir(), "agendas.txt")
	require.NoError(t, os.WriteFile(list, []byte("x.pdf\ny.pdf\n"), 0o644))

	results, err := NewBatchProcessor(&mockImporter{}, 2).ProcessList(context.Background(), list, importer.SourceAuto)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "y.pdf", results[1].Outcome.Name)
}
