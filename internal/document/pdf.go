package document

import (
	"context"
	"fmt"
	"strings"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	res := ExtractionResult{SourceType: constants.PDF, Method: "pdf-text"}

	// pdftotext -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		res.Warnings = append(res.Warnings, tail(string(errb), 1<<10))
		return res, common.NewAppError("PDF_PARSE", fmt.Sprintf("pdftotext %s", path),
			fmt.Errorf("%w: %v", common.ErrDocument, err))
	}

	pages := splitPages(string(out))
	res.Pages = len(pages)
	res.Text, res.PagesWithText = joinPages(pages, e.cfg.MaxPages)
	if strings.TrimSpace(res.Text) == "" {
		res.Warnings = append(res.Warnings, "no extractable text on any page")
	}
	return res, nil
}
