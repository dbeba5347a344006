package document

import "strings"

// pageBreak is the form feed pdftotext emits after every page.
const pageBreak = "\f"

// splitPages cuts raw document text into pages on form feeds.
func splitPages(raw string) []string {
	pages := strings.Split(raw, pageBreak)
	// pdftotext terminates the final page with a form feed too
	if n := len(pages); n > 1 && pages[n-1] == "" {
		pages = pages[:n-1]
	}
	return pages
}

// joinPages concatenates page text in order, skipping pages that yielded no text.
// No separator is inserted, so the last word of one page can run into the next.
func joinPages(pages []string, maxPages int) (text string, withText int) {
	if maxPages > 0 && len(pages) > maxPages {
		pages = pages[:maxPages]
	}
	var b strings.Builder
	for _, p := range pages {
		if p == "" {
			continue
		}
		b.WriteString(p)
		withText++
	}
	return b.String(), withText
}
