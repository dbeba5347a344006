package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotation-engine/constants"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
)

type stubRunner struct {
	stdout []byte
	stderr []byte
	err    error

	name string
	args []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.name = name
	s.args = args
	return s.stdout, s.stderr, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractPDFConcatenatesPagesWithoutSeparator(t *testing.T) {
	r := &stubRunner{stdout: []byte("Cedant: Acme Ltd\nBro\fker: XYZ\n\f\fGross Fees: 10\n\f")}
	e := NewExtractor(Config{}, quietLogger()).WithRunner(r)

	res, err := e.Extract(context.Background(), "/tmp/proposal.PDF")
	require.NoError(t, err)

	assert.Equal(t, "pdftotext", r.name)
	assert.Equal(t, []string{"-enc", "UTF-8", "-eol", "unix", "/tmp/proposal.PDF", "-"}, r.args)
	assert.Equal(t, "Cedant: Acme Ltd\nBroker: XYZ\nGross Fees: 10\n", res.Text)
	assert.Equal(t, 4, res.Pages)
	assert.Equal(t, 3, res.PagesWithText)
	assert.Equal(t, constants.PDF, res.SourceType)
	assert.Equal(t, "pdf-text", res.Method)
	assert.Empty(t, res.Warnings)
}

func TestExtractPDFNoTextOnAnyPage(t *testing.T) {
	r := &stubRunner{stdout: []byte("\f\f\f")}
	e := NewExtractor(Config{}, quietLogger()).WithRunner(r)

	res, err := e.Extract(context.Background(), "scan.pdf")
	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
	assert.Equal(t, 0, res.PagesWithText)
	assert.Contains(t, res.Warnings, "no extractable text on any page")
}

func TestExtractPDFRunnerFailure(t *testing.T) {
	r := &stubRunner{stderr: []byte("Syntax Error: Couldn't find trailer dictionary"), err: errors.New("exit status 1")}
	e := NewExtractor(Config{Pdftotext: "/usr/bin/pdftotext"}, quietLogger()).WithRunner(r)

	_, err := e.Extract(context.Background(), "broken.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDocument)
	assert.Equal(t, "/usr/bin/pdftotext", r.name)

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PDF_PARSE", appErr.Code)
}

func TestExtractPDFMaxPages(t *testing.T) {
	r := &stubRunner{stdout: []byte("one\ftwo\fthree\f")}
	e := NewExtractor(Config{MaxPages: 2}, quietLogger()).WithRunner(r)

	res, err := e.Extract(context.Background(), "p.pdf")
	require.NoError(t, err)
	assert.Equal(t, "onetwo", res.Text)
	assert.Equal(t, 3, res.Pages)
}

func TestExtractPlainText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "proposal.txt")
	require.NoError(t, os.WriteFile(path, []byte("Cedant: Acme\f\fBroker: XYZ"), 0o600))

	res, err := NewExtractor(Config{}, quietLogger()).Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Cedant: AcmeBroker: XYZ", res.Text)
	assert.Equal(t, 3, res.Pages)
	assert.Equal(t, 2, res.PagesWithText)
	assert.Equal(t, constants.TXT, res.SourceType)
}

func TestExtractPlainTextErrors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))

	e := NewExtractor(Config{}, quietLogger())

	_, err := e.Extract(context.Background(), empty)
	assert.ErrorIs(t, err, common.ErrDocument)

	_, err = e.Extract(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, common.ErrDocument)
}

func TestExtractUnsupportedExtension(t *testing.T) {
	_, err := NewExtractor(Config{}, quietLogger()).Extract(context.Background(), "proposal.docx")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrDocument)
	assert.Contains(t, err.Error(), `"docx"`)
}

func TestSplitPages(t *testing.T) {
	assert.Equal(t, []string{""}, splitPages(""))
	assert.Equal(t, []string{"a"}, splitPages("a\f"))
	assert.Equal(t, []string{"a", "", "b"}, splitPages("a\f\fb"))
}
