package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gardar/agendapdf/pkg/agenda"
	"github.com/gardar/agendapdf/pkg/gdocai"
)

// EnvPrefix is the prefix of the environment variables read by Load
const EnvPrefix = "AGENDAPDF"

// Config holds every setting of the CLI and the HTTP service
type Config struct {
	Log          LogConfig     `mapstructure:"log" yaml:"log"`
	Layout       agenda.Layout `mapstructure:"layout" yaml:"layout"`
	KeywordsFile string        `mapstructure:"keywords_file" yaml:"keywords_file"`
	TemplatesDir string        `mapstructure:"templates_dir" yaml:"templates_dir"`
	Cache        CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Workers      int           `mapstructure:"workers" yaml:"workers"`
	Server       ServerConfig  `mapstructure:"server" yaml:"server"`
	OCR          OCRConfig     `mapstructure:"ocr" yaml:"ocr"`
	DocumentAI   gdocai.Config `mapstructure:"documentai" yaml:"documentai"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // "json" or "text"
}

// CacheConfig holds settings of the parsed-document cache
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled" yaml:"enabled"`
	TTL             time.Duration `mapstructure:"ttl" yaml:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" yaml:"cleanup_interval"`
	Dir             string        `mapstructure:"dir" yaml:"dir"` // Adds a disk layer below memory when set
}

// ServerConfig holds HTTP service settings
type ServerConfig struct {
	Addr           string        `mapstructure:"addr" yaml:"addr"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// OCRConfig holds settings of the OCR sources
type OCRConfig struct {
	MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"` // hOCR words below are dropped
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Log:    LogConfig{Level: "info", Format: "json"},
		Layout: agenda.DefaultLayout(),
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             30 * time.Minute,
			CleanupInterval: 10 * time.Minute,
		},
		Workers: 4,
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: 20 << 20,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   60 * time.Second,
		},
		OCR:        OCRConfig{MinConfidence: 30},
		DocumentAI: gdocai.Config{Location: "us"},
	}
}

// SetDefaults registers every key with its default value, so that environment variables
// can override keys absent from the config file.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	columns := make([]string, len(d.Layout.Columns))
	for i, c := range d.Layout.Columns {
		columns[i] = string(c)
	}

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("layout.line_tolerance", d.Layout.LineTolerance)
	v.SetDefault("layout.metadata_lines", d.Layout.MetadataLines)
	v.SetDefault("layout.max_name_tokens", d.Layout.MaxNameTokens)
	v.SetDefault("layout.columns", columns)
	v.SetDefault("keywords_file", "")
	v.SetDefault("templates_dir", "")
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)
	v.SetDefault("cache.dir", "")
	v.SetDefault("workers", d.Workers)
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("ocr.min_confidence", d.OCR.MinConfidence)
	v.SetDefault("documentai.project_id", "")
	v.SetDefault("documentai.location", d.DocumentAI.Location)
	v.SetDefault("documentai.processor_id", "")
	v.SetDefault("documentai.credentials_file", "")
}

// BindEnv makes AGENDAPDF_* variables override config keys; "server.addr" reads
// AGENDAPDF_SERVER_ADDR.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load decodes and validates the configuration held by v
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail late
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return fmt.Errorf("invalid layout: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive, got %v", c.Cache.TTL)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max_upload_bytes must be positive, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

// Keywords returns the keyword tables, read from KeywordsFile when set
func (c Config) Keywords() (agenda.Keywords, error) {
	if c.KeywordsFile == "" {
		return agenda.DefaultKeywords(), nil
	}
	return agenda.LoadKeywords(c.KeywordsFile)
}
