package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joseph-ayodele/quotation-engine/internal/app"
	"github.com/joseph-ayodele/quotation-engine/internal/common"
	"github.com/joseph-ayodele/quotation-engine/internal/export"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	cfg := common.LoadConfig()
	out := flag.String("out", cfg.Export.Path, "output XLSX file path")
	flag.Parse()

	logger := common.NewLogger(cfg.LogLevel)
	if cfg.Database.DSN == "" {
		printError("Error: DB_URL is required\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, quotations, err := app.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("close store", "error", cerr)
		}
	}()

	b, err := export.NewService(quotations, logger).ExportQuotationsXLSX(ctx)
	if err != nil {
		logger.Error("export failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, b, 0o644); err != nil {
		logger.Error("write export", "path", *out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("Exported quotations to %s\n", *out)
}
