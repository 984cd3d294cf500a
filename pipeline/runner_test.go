package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	appconfig "fundflow/config"
	"fundflow/models"
	"fundflow/processor"
)

// fakeSource hands out canned payloads per ticker and fails anything it
// does not know.
type fakeSource struct {
	infos map[string]*models.InfoSnapshot
}

func (s *fakeSource) Info(ctx context.Context, ticker string) (*models.InfoSnapshot, error) {
	info, ok := s.infos[ticker]
	if !ok {
		return nil, errors.New("provider down")
	}
	return info, nil
}

func (s *fakeSource) Statements(ctx context.Context, ticker string) (*models.StatementBundle, error) {
	return &models.StatementBundle{
		Income: &models.RawStatementTable{Rows: map[string]models.StatementRow{
			"Total Revenue": {100, 100, 100, 100},
		}},
		CashFlow: &models.RawStatementTable{Rows: map[string]models.StatementRow{}},
		Balance:  &models.RawStatementTable{Rows: map[string]models.StatementRow{}},
	}, nil
}

func (s *fakeSource) ExchangeRate(ctx context.Context, currency string) (float64, error) {
	return 1.0, nil
}

// memorySink collects writes in memory.
type memorySink struct {
	snaps    []*models.NormalizedSnapshot
	manifest *models.Manifest
	writeErr error
}

func (m *memorySink) Write(ctx context.Context, snap *models.NormalizedSnapshot) (string, error) {
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.snaps = append(m.snaps, snap)
	return snap.Ticker + ".json", nil
}

func (m *memorySink) WriteManifest(ctx context.Context, manifest *models.Manifest) error {
	m.manifest = manifest
	return nil
}

func runnerConfig() *appconfig.Config {
	return &appconfig.Config{
		Pipeline: appconfig.PipelineConfig{
			FetchDelay:        time.Millisecond,
			ReferenceCurrency: "USD",
			ZeroRevenuePolicy: appconfig.ZeroRevenueWarn,
		},
	}
}

func price(v float64) *float64 { return &v }

func TestRunIsolatesFailures(t *testing.T) {
	src := &fakeSource{infos: map[string]*models.InfoSnapshot{
		"AAPL": {ShortName: "Apple", CurrentPrice: price(210)},
		"MSFT": {ShortName: "Microsoft", CurrentPrice: price(420)},
		"DEAD": {ShortName: "Dead Co"},
	}}
	lists := &appconfig.TickerLists{Lists: map[string][]string{
		"core": {"AAPL", "MSFT", "DEAD", "GONE"},
	}}
	sink := &memorySink{}

	cfg := runnerConfig()
	r := NewRunner(cfg, processor.NewAssembler(cfg, src), sink, lists)

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// DEAD has no price, GONE has no provider data.
	if result.Processed != 2 {
		t.Errorf("expected 2 processed, got %d", result.Processed)
	}
	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", result.Skipped)
	}
	if result.Failed != 1 {
		t.Errorf("expected 1 failed, got %d", result.Failed)
	}
	if len(sink.snaps) != 2 {
		t.Fatalf("expected 2 snapshots written, got %d", len(sink.snaps))
	}
}

func TestRunWritesManifest(t *testing.T) {
	src := &fakeSource{infos: map[string]*models.InfoSnapshot{
		"AAPL": {ShortName: "Apple", CurrentPrice: price(210)},
	}}
	lists := &appconfig.TickerLists{Lists: map[string][]string{
		"core": {"AAPL", "GONE"},
		"tech": {"AAPL"},
	}}
	sink := &memorySink{}

	cfg := runnerConfig()
	r := NewRunner(cfg, processor.NewAssembler(cfg, src), sink, lists)

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sink.manifest == nil {
		t.Fatal("expected manifest to be written")
	}
	if sink.manifest.RunID != result.RunID {
		t.Errorf("manifest run id %q does not match result %q", sink.manifest.RunID, result.RunID)
	}
	// The manifest carries the loaded lists whole, failed members included.
	if len(sink.manifest.Lists) != 2 {
		t.Fatalf("expected both lists in manifest, got %v", sink.manifest.Lists)
	}
	core := sink.manifest.Lists["core"]
	if len(core) != 2 || core[0] != "AAPL" || core[1] != "GONE" {
		t.Errorf("expected core list [AAPL GONE], got %v", core)
	}
	if sink.manifest.LastUpdated == "" {
		t.Error("expected manifest timestamp")
	}
}

func TestRunWriteFailureCountsAsFailed(t *testing.T) {
	src := &fakeSource{infos: map[string]*models.InfoSnapshot{
		"AAPL": {ShortName: "Apple", CurrentPrice: price(210)},
	}}
	lists := &appconfig.TickerLists{Lists: map[string][]string{"core": {"AAPL"}}}
	sink := &memorySink{writeErr: errors.New("disk full")}

	cfg := runnerConfig()
	r := NewRunner(cfg, processor.NewAssembler(cfg, src), sink, lists)

	result, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Failed != 1 || result.Processed != 0 {
		t.Errorf("expected write failure to count as failed, got %+v", result)
	}
	if sink.manifest == nil {
		t.Error("expected manifest despite write failures")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	src := &fakeSource{infos: map[string]*models.InfoSnapshot{
		"AAPL": {ShortName: "Apple", CurrentPrice: price(210)},
		"MSFT": {ShortName: "Microsoft", CurrentPrice: price(420)},
	}}
	lists := &appconfig.TickerLists{Lists: map[string][]string{"core": {"AAPL", "MSFT"}}}
	sink := &memorySink{}

	cfg := runnerConfig()
	cfg.Pipeline.FetchDelay = time.Hour
	r := NewRunner(cfg, processor.NewAssembler(cfg, src), sink, lists)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan *Result, 1)
	go func() {
		result, _ := r.Run(ctx)
		done <- result
	}()

	// Let the first ticker complete, then cancel during the delay.
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case result := <-done:
		if result.Processed != 1 {
			t.Errorf("expected 1 processed before cancel, got %d", result.Processed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not stop after cancel")
	}

	if sink.manifest == nil {
		t.Error("expected manifest from the interrupted run")
	}
}
