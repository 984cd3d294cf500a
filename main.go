package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fundflow/config"
	"fundflow/logger"
	"fundflow/pipeline"
	"fundflow/processor"
	"fundflow/reader/yahoo"
	"fundflow/writer"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "config/config.yml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"service": cfg.Fundflow.Name,
		"version": cfg.Fundflow.Version,
		"env":     config.AppEnvironment(),
	}).Info("starting fundflow")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(cfg.Logging.Level) == "report" {
		logger.InitCloudWatch(cfg.Storage.S3.Region, "Fundflow", "Fundflow")
		logger.StartReport(ctx, log, 30*time.Second)
	}

	// Stop the run between securities on SIGINT/SIGTERM.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.WithFields(logger.Fields{"signal": sig.String()}).Info("shutdown signal received")
		cancel()
	}()

	lists, err := config.LoadTickerLists(cfg.Storage.ListsDir, cfg.Storage.TickerFile)
	if err != nil {
		log.WithError(err).Error("Failed to load ticker lists")
		os.Exit(1)
	}
	if len(lists.Unique()) == 0 {
		log.Warn("ticker universe is empty; nothing to do")
	}

	source := yahoo.NewClient(cfg)
	assembler := processor.NewAssembler(cfg, source)

	snapshotWriter, err := writer.NewSnapshotWriter(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to create snapshot writer")
		os.Exit(1)
	}

	runner := pipeline.NewRunner(cfg, assembler, snapshotWriter, lists)

	result, err := runner.Run(ctx)
	if err != nil {
		log.WithError(err).Error("Run failed")
		os.Exit(1)
	}

	log.WithFields(logger.Fields{
		"run_id":    result.RunID,
		"processed": result.Processed,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	}).Info("fundflow finished")

	if result.Processed == 0 && result.Failed > 0 {
		os.Exit(1)
	}
}
