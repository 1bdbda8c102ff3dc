package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/agenthands/tranche/internal/core"
	"github.com/agenthands/tranche/internal/server"
)

// One-shot runner: reads a manifest of documents, runs the pipeline once and
// writes the run report as JSON.
func main() {
	manifestPath := flag.String("manifest", "", "path to a JSON manifest of documents")
	outPath := flag.String("out", "", "write the run report here instead of stdout")
	flag.Parse()

	if *manifestPath == "" {
		log.Fatal("usage: runner -manifest documents.json [-out report.json]")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	data, err := os.ReadFile(*manifestPath)
	if err != nil {
		logger.Fatal("failed to read manifest", zap.Error(err))
	}
	var inputs []core.Input
	if err := json.Unmarshal(data, &inputs); err != nil {
		logger.Fatal("failed to parse manifest", zap.Error(err))
	}

	srv, err := server.NewServer()
	if err != nil {
		logger.Fatal("failed to initialize pipeline", zap.Error(err))
	}

	report, err := srv.Pipeline.Run(context.Background(), inputs)
	if err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}

	encoded, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Fatal("failed to encode report", zap.Error(err))
	}

	if *outPath != "" {
		if err := os.WriteFile(*outPath, encoded, 0o644); err != nil {
			logger.Fatal("failed to write report", zap.Error(err))
		}
		logger.Info("report written", zap.String("path", *outPath))
		return
	}
	os.Stdout.Write(encoded)
	os.Stdout.Write([]byte("\n"))
}
