// agendapdf turns printed clinic agendas into appointment records, a day summary and patient
// confirmation messages.
//
// Usage:
//
//	agendapdf parse agenda.pdf [--format json|text|messages|pdf] [--source auto|pdf|hocr|docai]
//	agendapdf lines agenda.pdf
//	agendapdf batch agendas/*.pdf --output-dir ./parsed
//	agendapdf serve --addr :8080
//	agendapdf config show
//
// Scanned agendas carry no text layer. Run them through an OCR engine that writes hOCR and
// parse the hOCR file, or configure a Document AI OCR processor and use --source docai:
//
//	documentai:
//	  project_id: "your-gcp-project-id"
//	  location: "us"
//	  processor_id: "your-processor-id"
//
// The tool uses the GOOGLE_APPLICATION_CREDENTIALS environment variable, or
// documentai.credentials_file, for authentication with Google Cloud.
package main

import (
	"fmt"
	"os"

	"github.com/gardar/agendapdf/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
