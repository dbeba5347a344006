package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/quotation-engine/internal/app"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
	"github.com/joseph-ayodele/quotation-engine/internal/quote"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run prints the quotation line to stdout and returns the process exit code.
// Logs and usage go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("quote", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: quote [document-path]\n\nThe path defaults to $DOCUMENT_PATH, then %q.\n", common.DefaultDocumentPath)
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg := common.LoadConfig()
	if fs.NArg() > 0 {
		cfg.Document.Path = fs.Arg(0)
	}
	logger := common.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer a.Close()

	res, err := a.Processor.Process(ctx, cfg.Document.Path)
	if err != nil {
		logger.Error("quotation failed", "path", cfg.Document.Path, "error", err)
		return 1
	}

	fmt.Fprintln(stdout, quote.FormatLine(res.Quotation.Amount))
	return 0
}
