package fitfile

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/muktihari/fit/encoder"
	"github.com/muktihari/fit/profile/mesgdef"
	"github.com/muktihari/fit/profile/typedef"
	"github.com/muktihari/fit/proto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gitjpk/strydcmd/internal/domain"
)

type stubSource struct {
	payloads map[int64][]byte
	errs     map[int64]error
}

func (s *stubSource) FITFile(_ context.Context, id int64) ([]byte, error) {
	if err, ok := s.errs[id]; ok {
		return nil, err
	}
	return s.payloads[id], nil
}

func validFIT(t *testing.T) []byte {
	t.Helper()

	started := time.Date(2025, 8, 1, 6, 0, 0, 0, time.UTC)
	fit := &proto.FIT{}

	fileID := mesgdef.NewFileId(nil).
		SetType(typedef.FileActivity).
		SetManufacturer(typedef.ManufacturerDevelopment).
		SetProduct(1).
		SetTimeCreated(started)
	fit.Messages = append(fit.Messages, fileID.ToMesg(nil))

	activity := mesgdef.NewActivity(nil).
		SetTimestamp(started).
		SetType(typedef.ActivityManual).
		SetNumSessions(1)
	fit.Messages = append(fit.Messages, activity.ToMesg(nil))

	var buf bytes.Buffer
	require.NoError(t, encoder.New(&buf).Encode(fit))
	return buf.Bytes()
}

func TestDownloadWritesVerifiedFile(t *testing.T) {
	payload := validFIT(t)
	source := &stubSource{payloads: map[int64][]byte{12: payload}}
	dir := filepath.Join(t.TempDir(), "fit_files")

	dl := NewDownloader(source, dir, zerolog.Nop())
	path, err := dl.Download(context.Background(), 12)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "12.fit"), path)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, payload, written)
}

func TestDownloadRejectsCorruptPayload(t *testing.T) {
	source := &stubSource{payloads: map[int64][]byte{5: []byte("not a fit file")}}
	dir := t.TempDir()

	dl := NewDownloader(source, dir, zerolog.Nop())
	_, err := dl.Download(context.Background(), 5)
	require.ErrorIs(t, err, domain.ErrMalformedPayload)

	var actErr *domain.ActivityError
	require.ErrorAs(t, err, &actErr)
	require.Equal(t, int64(5), actErr.ActivityID)

	// Nothing gets written for a payload that fails verification.
	entries, readErr := os.ReadDir(dir)
	require.NoError(t, readErr)
	require.Empty(t, entries)
}

func TestDownloadPropagatesSourceError(t *testing.T) {
	source := &stubSource{errs: map[int64]error{9: domain.NewActivityError(9, domain.ErrNotFound)}}

	dl := NewDownloader(source, t.TempDir(), zerolog.Nop())
	_, err := dl.Download(context.Background(), 9)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyEmptyPayload(t *testing.T) {
	require.Error(t, Verify(nil))
}
