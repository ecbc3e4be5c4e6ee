package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gardar/agendapdf/internal/importer"
	"github.com/gardar/agendapdf/internal/worker"
)

type batchOptions struct {
	source    string
	fromFile  string
	workers   int
	outputDir string
	timeout   time.Duration
}

// batchLine is one line of the JSON lines written to stdout
type batchLine struct {
	Path    string            `json:"path"`
	Error   string            `json:"error,omitempty"`
	Outcome *importer.Outcome `json:"outcome,omitempty"`
}

func (a *app) newBatchCommand() *cobra.Command {
	var opts batchOptions

	cmd := &cobra.Command{
		Use:   "batch [files...]",
		Short: "Parse many agendas in parallel",
		Long: `Batch imports many agendas concurrently:
- Read paths from the arguments and/or a list file (one per line)
- Import files in parallel with a bounded worker pool
- Write one JSON file per agenda to --output-dir, or JSON lines to stdout

Example:
  agendapdf batch agendas/*.pdf
  agendapdf batch --from-file monday.txt --workers 8 --output-dir ./parsed`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "auto", "fragment source (auto, pdf, hocr, docai)")
	cmd.Flags().StringVar(&opts.fromFile, "from-file", "", "file listing agenda paths, one per line")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "number of concurrent workers (default: config workers)")
	cmd.Flags().StringVar(&opts.outputDir, "output-dir", "", "directory for one JSON file per agenda")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Minute, "total timeout for the batch")
	return cmd
}

func (a *app) runBatch(cmd *cobra.Command, args []string, opts batchOptions) error {
	source, err := importer.ParseSource(opts.source)
	if err != nil {
		return err
	}

	paths := append([]string(nil), args...)
	if opts.fromFile != "" {
		listed, err := worker.ReadPathsFromFile(opts.fromFile)
		if err != nil {
			return err
		}
		paths = append(paths, listed...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no agenda files given")
	}

	workers := opts.workers
	if workers <= 0 {
		workers = a.cfg.Workers
	}
	if opts.outputDir != "" {
		if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	im, err := a.newImporter(nil)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	a.logger.Info().Int("files", len(paths)).Int("workers", workers).Msg("Starting batch")
	results := worker.NewBatchProcessor(im, workers).ProcessFiles(ctx, paths, source)

	enc := json.NewEncoder(cmd.OutOrStdout())
	failures := 0
	for _, r := range results {
		if r.Error != nil {
			failures++
			a.logger.Error().Err(r.Error).Str("file", r.Path).Msg("Failed to import agenda")
			if opts.outputDir == "" {
				if err := enc.Encode(batchLine{Path: r.Path, Error: r.Error.Error()}); err != nil {
					return err
				}
			}
			continue
		}

		if opts.outputDir == "" {
			if err := enc.Encode(batchLine{Path: r.Path, Outcome: r.Outcome}); err != nil {
				return err
			}
			continue
		}
		if err := writeOutcome(opts.outputDir, r.Index, r.Path, r.Outcome); err != nil {
			failures++
			a.logger.Error().Err(err).Str("file", r.Path).Msg("Failed to write outcome")
		}
	}

	a.logger.Info().
		Int("total", len(results)).
		Int("succeeded", len(results)-failures).
		Int("failed", failures).
		Msg("Batch complete")
	if failures > 0 {
		return fmt.Errorf("%d of %d agendas failed", failures, len(results))
	}
	return nil
}

// writeOutcome saves one outcome as <index>-<base name>.json so that equal base names never collide
func writeOutcome(dir string, index int, path string, out *importer.Outcome) error {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	target := filepath.Join(dir, fmt.Sprintf("%03d-%s.json", index+1, base))

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(target, append(data, '\n'), 0644)
}
