package extract

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/quotation-engine/internal/document"
)

type DocumentAdapter struct {
	e *document.Extractor
}

func NewDocumentAdapter(e *document.Extractor, _ *slog.Logger) *DocumentAdapter {
	return &DocumentAdapter{e: e}
}

func (a *DocumentAdapter) Extract(ctx context.Context, path string) (TextExtractionResult, error) {
	r, err := a.e.Extract(ctx, path)
	return TextExtractionResult{
		Text:          r.Text,
		Pages:         r.Pages,
		PagesWithText: r.PagesWithText,
		SourceType:    r.SourceType,
		Method:        r.Method,
		Duration:      r.Duration,
		Warnings:      r.Warnings,
	}, err
}
