// Package pipeline drives a full normalization run: one security at a time,
// throttled against the provider, with per-security failure isolation.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	appconfig "fundflow/config"
	"fundflow/logger"
	"fundflow/models"
	"fundflow/processor"
)

// SnapshotSink receives the assembled snapshots and the final manifest.
type SnapshotSink interface {
	Write(ctx context.Context, snap *models.NormalizedSnapshot) (string, error)
	WriteManifest(ctx context.Context, manifest *models.Manifest) error
}

// Runner walks the ticker universe sequentially. Securities never run
// concurrently; the limiter enforces the configured pause between fetches.
type Runner struct {
	config    *appconfig.Config
	assembler *processor.Assembler
	sink      SnapshotSink
	lists     *appconfig.TickerLists
	limiter   *rate.Limiter
	log       *logger.Log
}

// Result summarizes a run. Skipped counts securities dropped by policy
// (no price, zero revenue under discard); Failed counts provider or write
// errors. Neither aborts the run.
type Result struct {
	RunID     string
	Processed int
	Skipped   int
	Failed    int
}

func NewRunner(cfg *appconfig.Config, assembler *processor.Assembler, sink SnapshotSink, lists *appconfig.TickerLists) *Runner {
	log := logger.GetLogger()

	limiter := rate.NewLimiter(rate.Every(cfg.Pipeline.FetchDelay), 1)

	log.WithComponent("runner").WithFields(logger.Fields{
		"universe_size": len(lists.Unique()),
		"fetch_delay":   cfg.Pipeline.FetchDelay,
	}).Info("runner initialized")

	return &Runner{
		config:    cfg,
		assembler: assembler,
		sink:      sink,
		lists:     lists,
		limiter:   limiter,
		log:       log,
	}
}

// Run processes every ticker in the universe, then writes the list
// manifest. A canceled context stops the run between securities; the
// manifest is still written for what completed.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{RunID: uuid.New().String()}
	log := r.log.WithComponent("runner").WithFields(logger.Fields{"run_id": result.RunID})

	tickers := r.lists.Unique()

	log.WithFields(logger.Fields{"tickers": len(tickers)}).Info("starting run")

	for i, ticker := range tickers {
		if i > 0 {
			if err := r.limiter.Wait(ctx); err != nil {
				log.WithFields(logger.Fields{"completed": i}).Warn("run interrupted")
				break
			}
		}
		if ctx.Err() != nil {
			break
		}

		snap, err := r.assembler.Assemble(ctx, ticker)
		if err != nil {
			if errors.Is(err, processor.ErrNoPrice) || errors.Is(err, processor.ErrZeroRevenue) {
				result.Skipped++
				log.WithFields(logger.Fields{"ticker": ticker, "reason": err.Error()}).Warn("security skipped")
				continue
			}
			result.Failed++
			log.WithError(err).WithFields(logger.Fields{"ticker": ticker}).Error("security failed")
			continue
		}

		if _, err := r.sink.Write(ctx, snap); err != nil {
			result.Failed++
			log.WithError(err).WithFields(logger.Fields{"ticker": snap.Ticker}).Error("snapshot write failed")
			continue
		}

		result.Processed++
	}

	manifest := &models.Manifest{
		RunID:       result.RunID,
		Lists:       r.lists.Lists,
		LastUpdated: models.Timestamp(time.Now()),
	}
	if err := r.sink.WriteManifest(ctx, manifest); err != nil {
		return result, fmt.Errorf("writing manifest: %w", err)
	}

	log.WithFields(logger.Fields{
		"processed": result.Processed,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	}).Info("run complete")

	return result, nil
}
