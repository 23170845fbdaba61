package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/mailfacts/internal/cache"
	"github.com/ppiankov/mailfacts/internal/extract"
	"github.com/ppiankov/mailfacts/internal/logger"
	"github.com/ppiankov/mailfacts/internal/model"
	"github.com/ppiankov/mailfacts/internal/source"
)

// Pipeline orchestrates retrieval, extraction and reporting for one message
type Pipeline struct {
	registry *source.Registry
	analyzer *extract.Analyzer
	cache    *cache.RecordCache
	renderer *Renderer
	config   *model.Config
	now      func() time.Time
}

// NewPipeline creates a new pipeline with the given configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	return &Pipeline{
		registry: source.NewRegistry(),
		analyzer: extract.NewAnalyzer(),
		cache:    cache.New(cfg.Cache),
		renderer: NewRenderer(cfg.Output.IncludeFooter, cfg.Lookup.CompaniesHouseBaseURL),
		config:   cfg,
		now:      time.Now,
	}
}

// Registry returns the source adapters used to open stored messages
func (p *Pipeline) Registry() *source.Registry {
	return p.registry
}

// Renderer returns the renderer configured for this pipeline
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// Analyze resolves subject and body from src and extracts facts. If either
// cannot be retrieved the extraction core is not invoked.
func (p *Pipeline) Analyze(ctx context.Context, src source.MailSource) (*model.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	subject, err := src.Subject(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: subject: %w", source.ErrUnreadable, err)
	}

	body, err := src.Body(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: body: %w", source.ErrUnreadable, err)
	}

	info := &model.MessageInfo{Subject: subject}
	if is, ok := src.(source.InfoSource); ok {
		if mi, err := is.Info(ctx); err == nil {
			info = &mi
		} else {
			logger.Debug("message info unavailable", "error", err)
		}
	}

	input := model.NewRawInput(subject, body)
	content := input.Content()

	record, cached := p.cache.Get(content)
	if !cached {
		record = p.analyzer.Analyze(input)
		if err := p.cache.Put(content, record); err != nil {
			logger.Warn("cache write failed", "error", err)
		}
	}
	logger.Debug("extraction finished", "bytes", len(content), "cached", cached, "empty", record.IsEmpty())

	return &model.Report{
		ID:         uuid.NewString(),
		AnalyzedAt: p.now().UTC(),
		Message:    info,
		Record:     record,
		Lookups:    CompanyLookups(p.config.Lookup.CompaniesHouseBaseURL, record.Company.RegistrationNumbers),
		Cached:     cached,
	}, nil
}

// AnalyzeFile opens a stored message and analyzes it
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) (*model.Report, error) {
	src, err := p.registry.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	report, err := p.Analyze(ctx, src)
	if err != nil {
		return nil, err
	}
	report.Source = path
	return report, nil
}

// RenderReport renders the report to the specified outputs. A jsonPath of
// "-" writes JSON to stdout instead of the terminal summary.
func (p *Pipeline) RenderReport(report *model.Report, jsonPath string, mdPath string) error {
	verbose := p.config.Output.Verbose

	if jsonPath == "-" {
		if err := p.renderer.WriteJSON(os.Stdout, report); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
	} else if jsonPath != "" {
		if err := p.renderer.RenderJSON(report, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}

	if mdPath != "" {
		if err := p.renderer.RenderMarkdown(report, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}

	if jsonPath != "-" {
		p.renderer.RenderSummary(report)
	}

	return nil
}
