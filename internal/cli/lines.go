package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/gardar/agendapdf/internal/importer"
	"github.com/gardar/agendapdf/pkg/agenda"
	"github.com/gardar/agendapdf/pkg/gdocai"
)

type linesOptions struct {
	source       string
	asJSON       bool
	dumpResponse string
}

func (a *app) newLinesCommand() *cobra.Command {
	var opts linesOptions

	cmd := &cobra.Command{
		Use:   "lines <file>",
		Short: "Print the reconstructed lines of an agenda",
		Long: `Lines prints the text lines rebuilt from the positioned fragments of an agenda,
before any appointment is extracted. Use it to tune layout.line_tolerance and to see
why a row was not recognized.

Example:
  agendapdf lines agenda.pdf
  agendapdf lines scan.pdf --source docai --dump-response response.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLines(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "auto", "fragment source (auto, pdf, hocr, docai)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print lines as JSON with page numbers")
	cmd.Flags().StringVar(&opts.dumpResponse, "dump-response", "", "save the raw Document AI response as JSON (docai source)")
	return cmd
}

func (a *app) runLines(cmd *cobra.Command, path string, opts linesOptions) error {
	source, err := importer.ParseSource(opts.source)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var lines []agenda.Line
	if opts.dumpResponse != "" {
		if source != importer.SourceDocAI {
			return fmt.Errorf("--dump-response needs --source docai")
		}
		lines, err = a.docaiLines(cmd.Context(), data, opts.dumpResponse)
	} else {
		var im *importer.Importer
		if im, err = a.newImporter(nil); err != nil {
			return err
		}
		lines, err = im.Lines(cmd.Context(), data, source)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(lines)
	}
	page := 0
	for _, l := range lines {
		if l.Page != page {
			page = l.Page
			fmt.Fprintf(w, "--- page %d ---\n", page)
		}
		fmt.Fprintln(w, l.Text)
	}
	return nil
}

// docaiLines runs Document AI once, saves the raw response and rebuilds the lines from it
func (a *app) docaiLines(ctx context.Context, data []byte, dumpPath string) ([]agenda.Line, error) {
	if err := a.cfg.DocumentAI.Validate(); err != nil {
		return nil, err
	}
	doc, err := gdocai.ProcessDocument(ctx, data, &a.cfg.DocumentAI)
	if err != nil {
		return nil, err
	}

	raw, err := gdocai.ToJSON(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	if err := os.WriteFile(dumpPath, []byte(raw), 0644); err != nil {
		return nil, fmt.Errorf("failed to write response: %w", err)
	}
	a.logger.Info().Str("file", dumpPath).Msg("Saved Document AI response")

	pages := gdocai.PagesFromProto(doc)
	return slices.Collect(agenda.Lines(pages, a.cfg.Layout.LineTolerance)), nil
}
