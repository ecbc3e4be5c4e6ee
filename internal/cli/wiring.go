package cli

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gardar/agendapdf/internal/cache"
	"github.com/gardar/agendapdf/internal/importer"
	"github.com/gardar/agendapdf/internal/metrics"
	"github.com/gardar/agendapdf/pkg/agenda"
	"github.com/gardar/agendapdf/pkg/messages"
)

// newImporter wires the import pipeline from the loaded configuration.
// A nil registerer disables metrics.
func (a *app) newImporter(reg prometheus.Registerer) (*importer.Importer, error) {
	keywords, err := a.cfg.Keywords()
	if err != nil {
		return nil, err
	}
	parser, err := agenda.NewParser(
		agenda.WithLayout(a.cfg.Layout),
		agenda.WithKeywords(keywords),
		agenda.WithLogger(a.logger.With().Str("component", "parser").Logger()),
	)
	if err != nil {
		return nil, err
	}

	renderer, err := a.renderer()
	if err != nil {
		return nil, err
	}

	opts := importer.Options{
		Parser:        parser,
		Renderer:      renderer,
		Logger:        a.logger.With().Str("component", "importer").Logger(),
		MinConfidence: a.cfg.OCR.MinConfidence,
		DocumentAI:    &a.cfg.DocumentAI,
	}
	if a.cfg.Cache.Enabled {
		opts.Cache = cache.New(a.cfg.Cache.TTL, a.cfg.Cache.CleanupInterval, a.cfg.Cache.Dir)
		opts.CacheTTL = a.cfg.Cache.TTL
	}
	if reg != nil {
		opts.Metrics = metrics.New(reg)
	}
	return importer.New(opts)
}

func (a *app) renderer() (*messages.Renderer, error) {
	if a.cfg.TemplatesDir == "" {
		return messages.Default()
	}
	r, err := messages.New(os.DirFS(a.cfg.TemplatesDir))
	if err != nil {
		return nil, fmt.Errorf("templates_dir %s: %w", a.cfg.TemplatesDir, err)
	}
	return r, nil
}
