package gdocai

import (
	"context"
	"fmt"
	"os"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// Processor is the part of the Document AI client used here
type Processor interface {
	ProcessDocument(ctx context.Context, req *documentaipb.ProcessRequest, opts ...gax.CallOption) (*documentaipb.ProcessResponse, error)
}

// ProcessDocument sends PDF bytes to Google Document AI for processing
// and returns the raw Document proto response
func ProcessDocument(ctx context.Context, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	credentials := cfg.CredentialsFile
	if credentials == "" {
		credentials = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}
	opts := []option.ClientOption{option.WithEndpoint(cfg.Endpoint())}
	if credentials != "" {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Document AI client: %w", err)
	}
	defer client.Close()

	return ProcessWith(ctx, client, pdfBytes, cfg)
}

// ProcessWith runs the request on an existing client
func ProcessWith(ctx context.Context, client Processor, pdfBytes []byte, cfg *Config) (*documentaipb.Document, error) {
	req := &documentaipb.ProcessRequest{
		Name: cfg.ProcessorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  pdfBytes,
				MimeType: "application/pdf",
			},
		},
		SkipHumanReview: true,
	}

	resp, err := client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to process document: %w", err)
	}
	return resp.GetDocument(), nil
}
