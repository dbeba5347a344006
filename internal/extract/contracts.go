package extract

import (
	"context"
	"time"
)

// TextExtractor is Stage 1: file -> text.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (TextExtractionResult, error)
}

type TextExtractionResult struct {
	Text          string
	Pages         int
	PagesWithText int
	SourceType    string // "PDF" | "TXT"
	Method        string // "pdf-text" | "plain-text"
	Duration      time.Duration
	Warnings      []string
}

// FieldExtractor is Stage 2: text -> proposal fields.
type FieldExtractor interface {
	ExtractFields(text string) ProposalFields
}
