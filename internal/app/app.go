package app

import (
	"context"
	"log/slog"

	"github.com/joseph-ayodele/quotation-engine/internal/common"
	"github.com/joseph-ayodele/quotation-engine/internal/document"
	"github.com/joseph-ayodele/quotation-engine/internal/extract"
	"github.com/joseph-ayodele/quotation-engine/internal/model"
	"github.com/joseph-ayodele/quotation-engine/internal/pipeline"
	"github.com/joseph-ayodele/quotation-engine/internal/quote"
	"github.com/joseph-ayodele/quotation-engine/internal/repository"
)

// App holds the components every binary shares.
type App struct {
	Config     *common.Config
	Logger     *slog.Logger
	Model      *model.Model
	Processor  *pipeline.Processor
	Quotations repository.QuotationRepository // nil when DB_URL is unset
	db         *repository.DB
}

// TrainConfig maps the environment model settings onto the trainer's.
func TrainConfig(cfg common.ModelConfig) model.TrainConfig {
	tc := model.DefaultTrainConfig()
	tc.Seed = cfg.Seed
	tc.Epochs = cfg.Epochs
	tc.BatchSize = cfg.BatchSize
	tc.Samples = cfg.Samples
	return tc
}

// OpenStore opens the quotation store, or returns nils when no DSN is configured.
func OpenStore(ctx context.Context, cfg common.DatabaseConfig, logger *slog.Logger) (*repository.DB, repository.QuotationRepository, error) {
	if cfg.DSN == "" {
		logger.Debug("quotation store disabled")
		return nil, nil, nil
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.DSN,
		MaxConns:        int32(cfg.MaxOpenConns),
		MaxConnLifetime: cfg.MaxConnLifetime,
		DialTimeout:     cfg.DialTimeout,
	}, logger)
	if err != nil {
		return nil, nil, common.WrapError(err, "open quotation store")
	}
	return db, repository.NewQuotationRepository(db, logger), nil
}

// New trains the model and wires the processing pipeline. Training runs to completion
// before New returns.
func New(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m, _, err := model.Train(ctx, TrainConfig(cfg.Model), logger)
	if err != nil {
		return nil, common.WrapError(err, "train model")
	}

	db, quotations, err := OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	docs := document.NewExtractor(document.Config{
		Pdftotext: cfg.Document.Pdftotext,
		MaxPages:  cfg.Document.MaxPages,
	}, logger)
	proc := pipeline.NewProcessor(logger,
		extract.NewDocumentAdapter(docs, logger),
		extract.NewRegexFieldExtractor(extract.DefaultPatterns),
		quote.NewQuoter(m, quote.GrossFeesEncoder{}, logger),
		quotations,
	)

	return &App{
		Config:     cfg,
		Logger:     logger,
		Model:      m,
		Processor:  proc,
		Quotations: quotations,
		db:         db,
	}, nil
}

// Close releases the quotation store, if any.
func (a *App) Close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		a.Logger.Error("close quotation store", "error", err)
	}
}
