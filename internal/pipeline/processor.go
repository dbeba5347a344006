package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/entity"
	"github.com/joseph-ayodele/quotation-engine/internal/extract"
	"github.com/joseph-ayodele/quotation-engine/internal/quote"
	"github.com/joseph-ayodele/quotation-engine/internal/repository"
)

// Processor coordinates text extraction, field extraction and quoting for one document.
type Processor struct {
	logger         *slog.Logger
	textExtractor  extract.TextExtractor
	fieldExtractor extract.FieldExtractor
	quoter         *quote.Quoter
	quotations     repository.QuotationRepository // nil disables persistence
}

func NewProcessor(
	logger *slog.Logger,
	textExtractor extract.TextExtractor,
	fieldExtractor extract.FieldExtractor,
	quoter *quote.Quoter,
	quotations repository.QuotationRepository,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if fieldExtractor == nil {
		fieldExtractor = extract.NewRegexFieldExtractor(nil)
	}
	return &Processor{
		logger:         logger,
		textExtractor:  textExtractor,
		fieldExtractor: fieldExtractor,
		quoter:         quoter,
		quotations:     quotations,
	}
}

// Result is what one document produced.
type Result struct {
	Quotation *entity.Quotation
	Fields    extract.ProposalFields
	Text      extract.TextExtractionResult
}

// Process reads the document at path and returns its quotation. When a store is
// configured the quotation is persisted; failures are recorded as FAILED rows.
func (p *Processor) Process(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	id := uuid.New()

	text, err := p.textExtractor.Extract(ctx, path)
	if err != nil {
		p.logger.Error("processor.extract.failed", "quotation_id", id, "path", path, "err", err)
		p.recordFailure(ctx, id, path, err)
		return Result{Text: text}, fmt.Errorf("extract text from %s: %w", path, err)
	}
	for _, w := range text.Warnings {
		p.logger.Warn("processor.extract.warning", "quotation_id", id, "path", path, "warning", w)
	}

	fields := p.fieldExtractor.ExtractFields(text.Text)
	if err := extract.ValidateFields(fields); err != nil {
		p.logger.Error("processor.fields.invalid", "quotation_id", id, "err", err)
		p.recordFailure(ctx, id, path, err)
		return Result{Text: text, Fields: fields}, fmt.Errorf("validate fields: %w", err)
	}
	p.logger.Debug("processor.fields", "quotation_id", id,
		constants.FieldCedant, fields.Get(constants.FieldCedant),
		constants.FieldBroker, fields.Get(constants.FieldBroker),
		constants.FieldPeriodOfCover, fields.Get(constants.FieldPeriodOfCover),
		constants.FieldGrossFees, fields.Get(constants.FieldGrossFees),
	)

	amount, err := p.quoter.Quote(fields)
	if err != nil {
		p.logger.Error("processor.quote.failed", "quotation_id", id, "err", err)
		p.recordFailure(ctx, id, path, err)
		return Result{Text: text, Fields: fields}, fmt.Errorf("quote: %w", err)
	}

	q := quotationFromFields(id, path, fields)
	q.Amount = amount
	q.Status = constants.QuotationStatusIssued
	q.CreatedAt = time.Now().UTC()

	if p.quotations != nil {
		if err := p.quotations.Create(ctx, q); err != nil {
			return Result{Quotation: q, Fields: fields, Text: text}, fmt.Errorf("store quotation: %w", err)
		}
	}

	p.logger.Info("processor.quote.ok",
		"quotation_id", q.ID,
		"path", path,
		"pages", text.Pages,
		"amount", q.Amount.StringFixed(2),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return Result{Quotation: q, Fields: fields, Text: text}, nil
}

func (p *Processor) recordFailure(ctx context.Context, id uuid.UUID, path string, cause error) {
	if p.quotations == nil {
		return
	}
	q := quotationFromFields(id, path, nil)
	q.Status = constants.QuotationStatusFailed
	msg := cause.Error()
	q.ErrorMessage = &msg
	if err := p.quotations.Create(ctx, q); err != nil {
		p.logger.Error("processor.record_failure.failed", "quotation_id", id, "err", err)
	}
}

func quotationFromFields(id uuid.UUID, path string, fields extract.ProposalFields) *entity.Quotation {
	return &entity.Quotation{
		ID:            id,
		DocumentPath:  path,
		Cedant:        fields.Get(constants.FieldCedant),
		Broker:        fields.Get(constants.FieldBroker),
		PeriodOfCover: fields.Get(constants.FieldPeriodOfCover),
		GrossFees:     fields.Get(constants.FieldGrossFees),
	}
}
