package duckdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListRecordsRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.Upsert(ctx, makeRows(20, 2)))
	require.NoError(t, store.Upsert(ctx, makeRows(21, 2)))

	records, err := store.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	rec := records[0]
	require.Equal(t, int64(20), rec.ID)
	require.NotNil(t, rec.Name)
	require.Equal(t, "Morning Run", *rec.Name)
	require.NotNil(t, rec.Distance)
	require.Equal(t, 6000.0, *rec.Distance)
	require.Equal(t, []string{"base", "easy"}, rec.Tags)
	require.Nil(t, rec.Description)
	require.Nil(t, rec.AveragePower)
}

func TestListZonesGroupsByActivity(t *testing.T) {
	ctx := context.Background()
	store := testStore(t)

	require.NoError(t, store.Upsert(ctx, makeRows(30, 1)))
	require.NoError(t, store.Upsert(ctx, makeRows(31, 1)))

	zones, err := store.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 2)
	require.Len(t, zones[30], 2)
	require.Equal(t, "Easy", zones[30][0].Name)
	require.Equal(t, int64(600), zones[30][1].Seconds)
}
