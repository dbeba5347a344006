package document

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxPages  int    // 0 = no limit
}

type ExtractionResult struct {
	Text          string
	Pages         int // pages found in the document
	PagesWithText int // pages that contributed text
	SourceType    string
	Method        string // "pdf-text" | "plain-text"
	Duration      time.Duration
	Warnings      []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	return &Extractor{cfg: cfg, runner: commandRunner{logger: logger}, logger: logger}
}

// WithRunner swaps the command runner; used by tests.
func (e *Extractor) WithRunner(r Runner) *Extractor {
	e.runner = r
	return e
}

// Extract picks a strategy based on file extension.
func (e *Extractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("starting text extraction", "path", path, "ext", ext)

	var (
		res ExtractionResult
		err error
	)
	switch constants.MapExtToFormat(ext) {
	case constants.PDF:
		res, err = e.extractPDF(ctx, path)
	case constants.TXT:
		res, err = e.extractPlain(path)
	default:
		e.logger.Error("unsupported document extension", "extension", ext)
		return ExtractionResult{}, common.NewAppError("UNSUPPORTED_FORMAT",
			fmt.Sprintf("unsupported extension: %q", ext), common.ErrDocument)
	}
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}

	e.logger.Info("document.extract.ok",
		"path", path,
		"method", res.Method,
		"pages", res.Pages,
		"pages_with_text", res.PagesWithText,
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}
