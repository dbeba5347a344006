package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/quotation-engine/internal/repository"
)

// Service is a tiny façade over the quotation repository that produces XLSX bytes.
type Service struct {
	quotations repository.QuotationRepository
	logger     *slog.Logger
}

func NewService(repo repository.QuotationRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{quotations: repo, logger: logger}
}

// SheetName is the worksheet quotations are written to.
const SheetName = "Quotations"

// Headers is the first row of the export.
var Headers = []string{
	"Quotation ID",
	"Created At",
	"Status",
	"Document",
	"Cedant",
	"Broker",
	"Period of Cover",
	"Gross Fees",
	"Amount (KSh)",
}

// ExportQuotationsXLSX returns an XLSX workbook (as bytes) with every stored quotation, newest first.
func (s *Service) ExportQuotationsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	recs, err := s.quotations.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("query quotations: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("xlsx close", "error", cerr)
		}
	}()

	// rename the default sheet rather than leaving an empty Sheet1 behind
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, err
	}

	for i, h := range Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}

	for i, q := range recs {
		row := i + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(SheetName, cell, v)
		}
		write(1, q.ID.String())
		write(2, q.CreatedAt.UTC().Format(time.RFC3339))
		write(3, string(q.Status))
		write(4, q.DocumentPath)
		write(5, q.Cedant)
		write(6, q.Broker)
		write(7, q.PeriodOfCover)
		write(8, q.GrossFees)
		write(9, q.Amount.StringFixed(2))
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetName, "A", "A", 38) // uuid
	_ = f.SetColWidth(SheetName, "B", "B", 22) // timestamp
	_ = f.SetColWidth(SheetName, "D", "D", 48) // path
	_ = f.SetColWidth(SheetName, "E", "G", 28)
	_ = f.SetColWidth(SheetName, "H", "I", 16) // amounts

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(recs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
