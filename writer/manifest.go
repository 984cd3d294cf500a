package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"fundflow/logger"
	"fundflow/models"
)

// WriteManifest persists the run manifest next to the snapshot files. The
// manifest records the run id and the full ticker list map, and is
// rewritten whole on each run.
func (w *SnapshotWriter) WriteManifest(ctx context.Context, manifest *models.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	data = append(data, '\n')

	path := filepath.Join(w.config.Storage.DataDir, w.config.Storage.ManifestFile)
	if err := atomicWrite(path, data); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}

	w.log.WithComponent("manifest").WithFields(logger.Fields{
		"run_id":    manifest.RunID,
		"path":      path,
		"lists":     len(manifest.Lists),
		"file_size": len(data),
	}).Info("manifest written")

	if w.mirror != nil {
		if err := w.mirror.put(ctx, w.config.Storage.ManifestFile, data); err != nil {
			w.log.WithComponent("manifest").WithError(err).Warn("s3 mirror upload failed")
		}
	}

	return nil
}
