// Package fitfile downloads raw FIT recordings and verifies them before they
// reach disk.
package fitfile

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/muktihari/fit/decoder"
	"github.com/rs/zerolog"

	"github.com/gitjpk/strydcmd/internal/domain"
)

// Source provides the raw FIT binary for one activity.
type Source interface {
	FITFile(ctx context.Context, activityID int64) ([]byte, error)
}

// Downloader fetches FIT files into a local directory. A file is written only
// after the payload decodes cleanly, so the directory never holds a corrupt
// download.
type Downloader struct {
	source Source
	dir    string
	logger zerolog.Logger
}

// NewDownloader builds a Downloader writing into dir.
func NewDownloader(source Source, dir string, logger zerolog.Logger) *Downloader {
	return &Downloader{source: source, dir: dir, logger: logger}
}

// Download fetches, verifies, and stores one activity's FIT file, returning
// the path written.
func (d *Downloader) Download(ctx context.Context, activityID int64) (string, error) {
	data, err := d.source.FITFile(ctx, activityID)
	if err != nil {
		return "", err
	}

	if err := Verify(data); err != nil {
		return "", domain.NewActivityError(activityID,
			fmt.Errorf("%w: fit payload does not decode: %v", domain.ErrMalformedPayload, err))
	}

	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return "", domain.NewActivityError(activityID, fmt.Errorf("create fit directory: %w", err))
	}

	path := filepath.Join(d.dir, fmt.Sprintf("%d.fit", activityID))
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", domain.NewActivityError(activityID, fmt.Errorf("write fit file: %w", err))
	}

	d.logger.Info().
		Int64("activity_id", activityID).
		Str("path", path).
		Int("bytes", len(data)).
		Msg("fit file downloaded")
	return path, nil
}

// Verify decodes the payload end to end and reports the first error.
func Verify(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty fit payload")
	}
	dec := decoder.New(bytes.NewReader(data))
	for dec.Next() {
		if _, err := dec.Decode(); err != nil {
			return err
		}
	}
	return nil
}
