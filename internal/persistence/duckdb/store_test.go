package duckdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitjpk/strydcmd/internal/domain"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "activities.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int64) *int64     { return &v }
func ptrS(v string) *string   { return &v }

func makeRows(id int64, powerSamples int) *domain.Rows {
	rows := &domain.Rows{
		Activity: domain.ActivityRecord{
			ID:         id,
			Name:       ptrS("Morning Run"),
			Type:       ptrS("run"),
			Timestamp:  1754000000,
			Date:       "2025-07-31 22:13:20",
			MovingTime: ptrI(1800),
			Distance:   ptrF(6000),
			Tags:       []string{"base", "easy"},
			SyncedAt:   1754003600,
		},
		Zones: []domain.ZoneRow{
			{ActivityID: id, ZoneIndex: 0, Name: "Easy", PowerLow: 0, PowerHigh: 200, Seconds: 1200, Percent: 66.7},
			{ActivityID: id, ZoneIndex: 1, Name: "Moderate", PowerLow: 200, PowerHigh: 250, Seconds: 600, Percent: 33.3},
		},
		Cardio: []domain.CardioSample{
			{ActivityID: id, SampleIndex: 0, Timestamp: ptrI(1754000000), HeartRate: ptrF(132)},
		},
		GPS: []domain.GPSPoint{
			{ActivityID: id, Seq: 0, Timestamp: ptrI(1754000000), Lat: 52.37, Lng: 4.89},
		},
		Laps: []domain.LapRow{
			{ActivityID: id, LapIndex: 1, Timestamp: ptrI(1754000600), Trigger: ptrI(0)},
		},
	}
	for i := 0; i < powerSamples; i++ {
		ts := int64(1754000000 + i)
		rows.Power = append(rows.Power, domain.PowerSample{
			ActivityID:  id,
			SampleIndex: i,
			Timestamp:   &ts,
			TotalPower:  ptrF(250 + float64(i)),
		})
	}
	return rows
}

func tableCount(t *testing.T, store *Store, table string, activityID int64) int {
	t.Helper()
	col := "activity_id"
	if table == "activities" {
		col = "id"
	}
	var count int
	err := store.conn.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM `+table+` WHERE `+col+` = ?`, activityID).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestOpenIsIdempotentAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "activities.db")

	store, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, store.Upsert(ctx, makeRows(1, 2)))
	require.NoError(t, store.Close())

	store, err = Open(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	count, err := store.ActivityCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	ok, err := store.Exists(ctx, 42)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Upsert(ctx, makeRows(42, 3)))

	ok, err = store.Exists(ctx, 42)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestUpsertPersistsAllFamilies(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.Upsert(ctx, makeRows(7, 5)))

	require.Equal(t, 1, tableCount(t, store, "activities", 7))
	require.Equal(t, 2, tableCount(t, store, "zones_distribution", 7))
	require.Equal(t, 5, tableCount(t, store, "timeseries_power", 7))
	require.Equal(t, 1, tableCount(t, store, "timeseries_cardio", 7))
	require.Equal(t, 1, tableCount(t, store, "gps_points", 7))
	require.Equal(t, 1, tableCount(t, store, "laps", 7))

	var tags string
	err := store.conn.QueryRowContext(ctx, `SELECT tags FROM activities WHERE id = 7`).Scan(&tags)
	require.NoError(t, err)
	require.Equal(t, "base,easy", tags)
}

func TestUpsertReplacesChildRowsCompletely(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.Upsert(ctx, makeRows(9, 6)))
	require.Equal(t, 6, tableCount(t, store, "timeseries_power", 9))

	// A resync with fewer samples must not leave stale rows behind.
	require.NoError(t, store.Upsert(ctx, makeRows(9, 2)))
	require.Equal(t, 2, tableCount(t, store, "timeseries_power", 9))
	require.Equal(t, 1, tableCount(t, store, "activities", 9))

	count, err := store.ActivityCount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestUpsertRollsBackOnMidWriteFailure(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	rows := makeRows(11, 3)
	// Duplicate sample index violates the child primary key partway through
	// the write; the whole activity must roll back.
	rows.Power[2].SampleIndex = rows.Power[1].SampleIndex

	err := store.Upsert(ctx, rows)
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrPersistence)

	var actErr *domain.ActivityError
	require.ErrorAs(t, err, &actErr)
	require.Equal(t, int64(11), actErr.ActivityID)

	require.Equal(t, 0, tableCount(t, store, "activities", 11))
	require.Equal(t, 0, tableCount(t, store, "timeseries_power", 11))
	require.Equal(t, 0, tableCount(t, store, "zones_distribution", 11))

	ok, err := store.Exists(ctx, 11)
	require.NoError(t, err)
	require.False(t, ok)
}
