package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gardar/agendapdf/internal/importer"
)

// errNotRun marks files left in the queue when the batch was canceled
var errNotRun = errors.New("not processed")

// Importer defines the interface for importing one agenda file
type Importer interface {
	ImportFile(ctx context.Context, path string, source importer.Source) (*importer.Outcome, error)
}

// ImportJob represents one file import
type ImportJob struct {
	Index    int
	Path     string
	Source   importer.Source
	Importer Importer
}

// Execute executes the import job
func (j *ImportJob) Execute(ctx context.Context) Result {
	out, err := j.Importer.ImportFile(ctx, j.Path, j.Source)
	return &ImportResult{
		Index:   j.Index,
		Path:    j.Path,
		Outcome: out,
		Error:   err,
	}
}

// ImportResult represents the result of an import job
type ImportResult struct {
	Index   int
	Path    string
	Outcome *importer.Outcome
	Error   error
}

// GetError returns the error from the import result
func (r *ImportResult) GetError() error {
	return r.Error
}

// BatchProcessor imports multiple files concurrently
type BatchProcessor struct {
	importer    Importer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(imp Importer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		importer:    imp,
		concurrency: concurrency,
	}
}

// ProcessFiles imports every path and returns one result per path, in input order
func (b *BatchProcessor) ProcessFiles(ctx context.Context, paths []string, source importer.Source) []*ImportResult {
	if len(paths) == 0 {
		return []*ImportResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for i, path := range paths {
		if !pool.Submit(&ImportJob{Index: i, Path: path, Source: source, Importer: b.importer}) {
			break
		}
	}

	ordered := make([]*ImportResult, len(paths))
	for _, result := range pool.Wait() {
		r := result.(*ImportResult)
		ordered[r.Index] = r
	}

	for i, r := range ordered {
		if r != nil {
			continue
		}
		err := errNotRun
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", errNotRun, ctx.Err())
		}
		ordered[i] = &ImportResult{Index: i, Path: paths[i], Error: err}
	}
	return ordered
}

// ProcessList reads paths from a list file and imports them concurrently
func (b *BatchProcessor) ProcessList(ctx context.Context, listPath string, source importer.Source) ([]*ImportResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessFiles(ctx, paths, source), nil
}

// ReadPathsFromFile reads file paths from a list file (one per line)
func ReadPathsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}
