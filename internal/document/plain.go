package document

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

// extractPlain reads a text document whose pages are separated by form feeds.
func (e *Extractor) extractPlain(path string) (res ExtractionResult, err error) {
	res = ExtractionResult{SourceType: constants.TXT, Method: "plain-text"}

	f, err := os.Open(path)
	if err != nil {
		return res, common.NewAppError("DOCUMENT_OPEN", path, fmt.Errorf("%w: %v", common.ErrDocument, err))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("close document", "path", path, "error", cerr)
		}
	}()

	raw, err := io.ReadAll(f)
	if err != nil {
		return res, common.NewAppError("DOCUMENT_READ", path, fmt.Errorf("%w: %v", common.ErrDocument, err))
	}
	if len(raw) == 0 {
		return res, common.NewAppError("DOCUMENT_EMPTY", path, common.ErrDocument)
	}

	pages := splitPages(string(raw))
	res.Pages = len(pages)
	res.Text, res.PagesWithText = joinPages(pages, e.cfg.MaxPages)
	if strings.TrimSpace(res.Text) == "" {
		res.Warnings = append(res.Warnings, "no extractable text on any page")
	}
	return res, nil
}
