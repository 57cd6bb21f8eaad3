package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/angelofallars/timebill/app"
	"github.com/angelofallars/timebill/internal/config"
	"github.com/angelofallars/timebill/internal/render/pdf"
	"github.com/angelofallars/timebill/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	logger := cfg.Logger()
	slog.SetDefault(logger)

	renderer, err := pdf.New(pdf.Options{FontDir: cfg.FontDir})
	if err != nil {
		logger.Warn("falling back to core fonts", "fontDir", cfg.FontDir, "err", err)
		renderer, err = pdf.New(pdf.Options{})
		if err != nil {
			logger.Error("creating pdf renderer failed", "err", err)
			os.Exit(1)
		}
	}

	svcInvoice := service.NewInvoice(logger, renderer)

	app := app.New(logger, svcInvoice).
		WithHost(cfg.Host).
		WithPort(cfg.Port).
		WithMaxUpload(cfg.MaxUploadMB).
		WithDefaultRate(cfg.DefaultHourlyRate)

	// Run the server
	err = app.Serve()
	if err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
