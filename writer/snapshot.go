// Package writer persists normalized snapshots as per-security JSON files
// under the configured data directory, with an optional S3 mirror.
package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	appconfig "fundflow/config"
	"fundflow/logger"
	"fundflow/models"
)

// SnapshotWriter writes one JSON document per security. Files land under
// Storage.DataDir named "<TICKER>.json"; writes replace any previous run's
// file for the same ticker.
type SnapshotWriter struct {
	config *appconfig.Config
	mirror *s3Mirror
	log    *logger.Log
}

// NewSnapshotWriter prepares the data directory and, when enabled, the S3
// mirror client.
func NewSnapshotWriter(cfg *appconfig.Config) (*SnapshotWriter, error) {
	log := logger.GetLogger()

	if err := os.MkdirAll(cfg.Storage.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory %s: %w", cfg.Storage.DataDir, err)
	}

	w := &SnapshotWriter{
		config: cfg,
		log:    log,
	}

	if cfg.Storage.S3.Enabled {
		mirror, err := newS3Mirror(context.Background(), cfg)
		if err != nil {
			return nil, fmt.Errorf("initializing s3 mirror: %w", err)
		}
		w.mirror = mirror
	}

	log.WithComponent("snapshot_writer").WithFields(logger.Fields{
		"data_dir":   cfg.Storage.DataDir,
		"s3_enabled": cfg.Storage.S3.Enabled,
	}).Info("snapshot writer initialized")

	return w, nil
}

// Write persists a single snapshot and returns the path written.
func (w *SnapshotWriter) Write(ctx context.Context, snap *models.NormalizedSnapshot) (string, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot for %s: %w", snap.Ticker, err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.config.Storage.DataDir, snap.Ticker+".json")
	if err := atomicWrite(path, data); err != nil {
		return "", fmt.Errorf("writing snapshot for %s: %w", snap.Ticker, err)
	}

	logger.IncrementSnapshotWrite(int64(len(data)))
	w.log.WithComponent("snapshot_writer").WithFields(logger.Fields{
		"ticker":    snap.Ticker,
		"path":      path,
		"file_size": len(data),
	}).Debug("snapshot written")

	if w.mirror != nil {
		if err := w.mirror.put(ctx, snap.Ticker+".json", data); err != nil {
			w.log.WithComponent("snapshot_writer").WithError(err).WithFields(logger.Fields{
				"ticker": snap.Ticker,
			}).Warn("s3 mirror upload failed")
		}
	}

	return path, nil
}

// atomicWrite stages the document in a temp file and renames it into place
// so readers never observe a half-written snapshot.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
