// Package main renders a document payload from disk into a PDF artifact.
// Useful for local preview and for batch generation without the API server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"docpress/internal/config"
	"docpress/internal/domain/document"
	"docpress/internal/infrastructure/http/v1/dto"
	"docpress/internal/render"
	"docpress/pkg/logger"
	"docpress/pkg/sequence"
)

func main() {
	var (
		inputPath = flag.String("input", "", "path to the document payload JSON (required)")
		outDir    = flag.String("out", "", "output directory (default: ARTIFACTS_DIR)")
		finalize  = flag.Bool("finalize", false, "allocate a permanent number before rendering")
	)
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*inputPath, *outDir, *finalize); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func run(inputPath, outDir string, finalize bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: true})
	if err != nil {
		return err
	}

	ctx := context.Background()

	payload, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read payload: %w", err)
	}

	var req dto.CreateDocumentRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}
	if req.Type == "" {
		return fmt.Errorf("payload is missing the document type")
	}

	taxRate, err := cfg.ParsedTaxRate()
	if err != nil {
		return err
	}
	policy := document.TaxPolicy{Rate: taxRate, Include: cfg.IncludeTax}

	allocator := sequence.New(sequence.NewFileStore(cfg.CountersFile))
	service := document.NewService(document.NewMemoryRepository(), allocator)

	rec := document.NewRecord(document.Type(req.Type), req.Customer.ToCustomer())
	rec.Items = dto.ToItems(req.Items)
	if req.IssuedDate != nil {
		rec.IssuedDate = *req.IssuedDate
	}
	rec.DueDate = req.DueDate
	rec.ValidUntil = req.ValidUntil
	rec.Responsibilities = req.Responsibilities
	rec.Terms = req.Terms
	if req.CurrencyRate.Sign() > 0 {
		rec.CurrencyRate = req.CurrencyRate
	}

	if err := service.CreateDraft(ctx, rec, policy); err != nil {
		return err
	}

	if finalize {
		rec, err = service.Finalize(ctx, rec.ID)
		if err != nil {
			return err
		}
		log.Infow("number allocated", "number", rec.Number)
	}

	settings, err := cfg.RenderSettings()
	if err != nil {
		return err
	}
	renderer := render.New(settings, cfg.RenderCompany())

	artifact, err := renderer.Render(ctx, rec)
	if err != nil {
		return err
	}

	dir := outDir
	if dir == "" {
		dir = cfg.ArtifactsDir
	}

	path, err := render.WriteArtifact(artifact, dir)
	if err != nil {
		return err
	}

	log.Infow("artifact written", "path", path, "pages", artifact.Pages)
	return nil
}
