package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gardar/agendapdf/internal/importer"
	"github.com/gardar/agendapdf/pkg/report"
)

// Output formats of the parse command
const (
	formatJSON     = "json"
	formatText     = "text"
	formatMessages = "messages"
	formatPDF      = "pdf"
)

type parseOptions struct {
	source string
	format string
	output string
	title  string
}

func (a *app) newParseCommand() *cobra.Command {
	var opts parseOptions

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse one agenda",
		Long: `Parse reads one agenda and prints the extracted appointments.

Formats:
  json      result, summary and messages as JSON (default)
  text      a readable table of the appointments and the day summary
  messages  the patient confirmation messages followed by the summary
  pdf       a printable PDF report (requires --output or a redirected stdout)

Example:
  agendapdf parse agenda.pdf
  agendapdf parse agenda.pdf --format messages
  agendapdf parse scan.hocr --source hocr --format text
  agendapdf parse agenda.pdf --format pdf --output report.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.source, "source", "auto", "fragment source (auto, pdf, hocr, docai)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatJSON, "output format (json, text, messages, pdf)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().StringVar(&opts.title, "title", "", "report title (pdf format)")
	return cmd
}

func (a *app) runParse(cmd *cobra.Command, path string, opts parseOptions) error {
	source, err := importer.ParseSource(opts.source)
	if err != nil {
		return err
	}
	switch opts.format {
	case formatJSON, formatText, formatMessages, formatPDF:
	default:
		return fmt.Errorf("unknown format %q", opts.format)
	}

	im, err := a.newImporter(nil)
	if err != nil {
		return err
	}
	out, err := im.ImportFile(cmd.Context(), path, source)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if opts.output != "" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	switch opts.format {
	case formatText:
		return writeText(w, out)
	case formatMessages:
		return writeMessages(w, out)
	case formatPDF:
		cfg := report.DefaultConfig()
		if opts.title != "" {
			cfg.Title = opts.title
		}
		return report.Render(w, out.Result, out.Summary, cfg)
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
}

func writeText(w io.Writer, out *importer.Outcome) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Médico: %s\nData:   %s\n\n", out.Result.Doctor, out.Result.Date)
	for _, a := range out.Result.Appointments {
		fmt.Fprintf(&b, "%-6s %-32s %-14s %s\n", a.Time, a.FullName, a.Status, a.Contact)
	}
	if len(out.Result.Appointments) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(out.SummaryText)
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeMessages(w io.Writer, out *importer.Outcome) error {
	var b strings.Builder
	for _, m := range out.Messages {
		fmt.Fprintf(&b, "# %s %s", m.Time, m.Patient)
		if m.Contact != "" {
			fmt.Fprintf(&b, " (%s)", m.Contact)
		}
		fmt.Fprintf(&b, "\n%s\n\n", m.Text)
	}
	b.WriteString(out.SummaryText)
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
