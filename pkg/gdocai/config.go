package gdocai

import (
	"errors"
	"fmt"
)

// Config identifies the Document AI processor used for OCR
type Config struct {
	ProjectID       string `mapstructure:"project_id" yaml:"project_id"`
	Location        string `mapstructure:"location" yaml:"location"`         // e.g. "us" or "eu"
	ProcessorID     string `mapstructure:"processor_id" yaml:"processor_id"` // OCR processor
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`
}

// Validate checks that the processor can be addressed
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("document AI is not configured")
	}
	var missing []string
	if c.ProjectID == "" {
		missing = append(missing, "project_id")
	}
	if c.Location == "" {
		missing = append(missing, "location")
	}
	if c.ProcessorID == "" {
		missing = append(missing, "processor_id")
	}
	if len(missing) > 0 {
		return fmt.Errorf("document AI config is missing %v", missing)
	}
	return nil
}

// Endpoint returns the regional API endpoint
func (c *Config) Endpoint() string {
	return fmt.Sprintf("%s-documentai.googleapis.com:443", c.Location)
}

// ProcessorName returns the resource name of the processor
func (c *Config) ProcessorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}
