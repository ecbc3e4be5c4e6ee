// Package importer turns agenda documents into parsed results.
//
// An Importer reads positioned fragments from one of the sources, reconstructs the
// lines, extracts the appointments, folds the summary and renders the patient messages.
// Outcomes are cached by content hash so that re-submitting the same document is free.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gardar/agendapdf/internal/cache"
	"github.com/gardar/agendapdf/internal/metrics"
	"github.com/gardar/agendapdf/pkg/agenda"
	"github.com/gardar/agendapdf/pkg/gdocai"
	"github.com/gardar/agendapdf/pkg/messages"
)

// Outcome is everything produced from one agenda document
type Outcome struct {
	ID          string             `json:"id"`
	Name        string             `json:"name,omitempty"`
	Source      Source             `json:"source"`
	Result      agenda.Result      `json:"result"`
	Summary     agenda.Summary     `json:"summary"`
	SummaryText string             `json:"summary_text"`
	Messages    []messages.Message `json:"messages"`
	Cached      bool               `json:"cached"`
}

// Options configures an Importer
type Options struct {
	Parser        *agenda.Parser     // Required
	Renderer      *messages.Renderer // Defaults to the embedded templates
	Cache         cache.Cache        // Nil disables caching
	CacheTTL      time.Duration      // Zero uses the cache default
	Metrics       *metrics.ImportMetrics
	Logger        zerolog.Logger
	DocumentAI    *gdocai.Config // Nil or incomplete disables the docai source
	MinConfidence float64        // hOCR words below are dropped
}

// reader turns document bytes into agenda pages
type reader func(ctx context.Context, data []byte) ([]agenda.Page, error)

// Importer runs the import pipeline. It is safe for concurrent use.
type Importer struct {
	parser        *agenda.Parser
	renderer      *messages.Renderer
	cache         cache.Cache
	cacheTTL      time.Duration
	metrics       *metrics.ImportMetrics
	logger        zerolog.Logger
	docai         *gdocai.Config
	minConfidence float64
	readers       map[Source]reader
	variant       string
}

// New creates an importer
func New(opts Options) (*Importer, error) {
	if opts.Parser == nil {
		return nil, errors.New("importer needs a parser")
	}
	renderer := opts.Renderer
	if renderer == nil {
		var err error
		if renderer, err = messages.Default(); err != nil {
			return nil, err
		}
	}

	im := &Importer{
		parser:        opts.Parser,
		renderer:      renderer,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
		metrics:       opts.Metrics,
		logger:        opts.Logger,
		docai:         opts.DocumentAI,
		minConfidence: opts.MinConfidence,
		// Parses of the same bytes differ only by layout and keyword tables
		variant: fmt.Sprintf("%v|%v", opts.Parser.Layout(), opts.Parser.Keywords()),
	}
	im.readers = map[Source]reader{
		SourcePDF:   im.readPDF,
		SourceHOCR:  im.readHOCR,
		SourceDocAI: im.readDocAI,
	}
	return im, nil
}

// Pages reads the agenda pages of a document and reports the source actually used
func (im *Importer) Pages(ctx context.Context, data []byte, source Source) ([]agenda.Page, Source, error) {
	if source == SourceAuto || source == "" {
		source = Detect(data)
	}
	read, ok := im.readers[source]
	if !ok {
		return nil, source, fmt.Errorf("unknown source %q", source)
	}
	pages, err := read(ctx, data)
	return pages, source, err
}

// Lines reads a document and returns its reconstructed lines without parsing them
func (im *Importer) Lines(ctx context.Context, data []byte, source Source) ([]agenda.Line, error) {
	pages, _, err := im.Pages(ctx, data, source)
	if err != nil {
		return nil, err
	}
	return slices.Collect(agenda.Lines(pages, im.parser.Layout().LineTolerance)), nil
}

// Import runs the whole pipeline on one document.
// Only unreadable documents fail; an agenda without appointments is a valid outcome.
func (im *Importer) Import(ctx context.Context, name string, data []byte, source Source) (*Outcome, error) {
	start := time.Now()
	if source == SourceAuto || source == "" {
		source = Detect(data)
	}
	logger := im.logger.With().Str("document", name).Str("source", string(source)).Logger()

	key := cache.Key(data, string(source)+"|"+im.variant)
	if out, ok := im.cached(key, logger); ok {
		out.ID = uuid.NewString()
		out.Name = name
		im.metrics.ObserveDocument(string(source), outcomeOf(out.Result))
		logger.Debug().Msg("Served agenda from cache")
		return out, nil
	}

	pages, source, err := im.Pages(ctx, data, source)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, agenda.ErrUnreadable) {
			outcome = metrics.OutcomeUnreadable
		}
		im.metrics.ObserveDocument(string(source), outcome)
		logger.Warn().Err(err).Msg("Failed to read agenda")
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	res := im.parser.ParsePages(pages)
	sum := agenda.Summarize(res)
	msgs, err := im.renderer.Confirmations(res)
	if err != nil {
		return nil, fmt.Errorf("failed to render messages: %w", err)
	}
	text, err := im.renderer.Summary(sum)
	if err != nil {
		return nil, fmt.Errorf("failed to render summary: %w", err)
	}

	out := &Outcome{
		ID:          uuid.NewString(),
		Name:        name,
		Source:      source,
		Result:      res,
		Summary:     sum,
		SummaryText: text,
		Messages:    msgs,
	}
	im.store(key, out, logger)

	elapsed := time.Since(start)
	im.metrics.ObserveDocument(string(source), outcomeOf(res))
	im.metrics.ObserveAppointments(len(res.Appointments), len(res.FreeSlots))
	im.metrics.ObserveDuration(string(source), elapsed)
	logger.Info().
		Int("pages", len(pages)).
		Int("appointments", len(res.Appointments)).
		Int("free_slots", len(res.FreeSlots)).
		Dur("duration", elapsed).
		Msg("Imported agenda")
	return out, nil
}

// ImportFile imports the document stored at path
func (im *Importer) ImportFile(ctx context.Context, path string, source Source) (*Outcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return im.Import(ctx, filepath.Base(path), data, source)
}

func (im *Importer) cached(key string, logger zerolog.Logger) (*Outcome, bool) {
	if im.cache == nil {
		return nil, false
	}
	raw, ok := im.cache.Get(key)
	im.metrics.ObserveCache(ok)
	if !ok {
		return nil, false
	}
	var out Outcome
	if err := json.Unmarshal(raw, &out); err != nil {
		logger.Warn().Err(err).Msg("Dropping undecodable cache entry")
		_ = im.cache.Delete(key)
		return nil, false
	}
	out.Cached = true
	return &out, true
}

func (im *Importer) store(key string, out *Outcome, logger zerolog.Logger) {
	if im.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to encode outcome for cache")
		return
	}
	if err := im.cache.Set(key, raw, im.cacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache outcome")
	}
}

func outcomeOf(res agenda.Result) string {
	if len(res.Appointments) == 0 && len(res.FreeSlots) == 0 {
		return metrics.OutcomeEmpty
	}
	return metrics.OutcomeParsed
}
