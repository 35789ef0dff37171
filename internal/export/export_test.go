package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/gitjpk/strydcmd/internal/domain"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }

func exportFixture() ([]domain.ActivityRecord, map[int64][]domain.ZoneRow) {
	activities := []domain.ActivityRecord{
		{
			ID:           1,
			Date:         "2025-07-31 06:00:00",
			Name:         str("Long Run"),
			Type:         str("run"),
			Distance:     f64(16000),
			MovingTime:   i64(5400),
			AveragePower: f64(240),
			Tags:         []string{"long", "base"},
			SyncedAt:     1754003600,
		},
		{
			ID:       2,
			Date:     "2025-08-01 06:00:00",
			SyncedAt: 1754090000,
		},
	}
	zones := map[int64][]domain.ZoneRow{
		1: {
			{ActivityID: 1, ZoneIndex: 0, Name: "Easy", Seconds: 3600, Percent: 66.7},
			{ActivityID: 1, ZoneIndex: 2, Name: "Threshold", Seconds: 1800, Percent: 33.3},
		},
	}
	return activities, zones
}

func TestBuildRecordsFlattensZones(t *testing.T) {
	activities, zones := exportFixture()
	records := BuildRecords(activities, zones)
	require.Len(t, records, 2)

	rec := records[0]
	require.Equal(t, int64(1), rec.ID)
	require.Equal(t, "Long Run", rec.Name)
	require.Equal(t, "long,base", rec.Tags)
	require.NotNil(t, rec.ZoneEasyMin)
	require.Equal(t, 60.0, *rec.ZoneEasyMin)
	require.Equal(t, 66.7, *rec.ZoneEasyPct)
	require.Equal(t, 30.0, *rec.ZoneThresholdMin)
	require.Nil(t, rec.ZoneModerateMin)

	// No zones for the second activity.
	require.Nil(t, records[1].ZoneEasyMin)
	require.Empty(t, records[1].Name)
}

func TestWriteCSV(t *testing.T) {
	activities, zones := exportFixture()
	records := BuildRecords(activities, zones)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, csvHeader, rows[0])

	header := rows[0]
	first := rows[1]
	byCol := func(name string) string {
		for i, h := range header {
			if h == name {
				return first[i]
			}
		}
		t.Fatalf("column %s not in header", name)
		return ""
	}
	require.Equal(t, "1", byCol("id"))
	require.Equal(t, "Long Run", byCol("name"))
	require.Equal(t, "16000", byCol("distance_m"))
	require.Equal(t, "60", byCol("zone_easy_min"))

	// Missing optionals render empty, not zero.
	second := rows[2]
	for i, h := range header {
		if h == "distance_m" {
			require.Empty(t, second[i])
		}
	}
}

func TestWriteJSON(t *testing.T) {
	activities, zones := exportFixture()
	records := BuildRecords(activities, zones)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, records))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	require.Equal(t, "Long Run", decoded[0]["name"])
	require.EqualValues(t, 16000, decoded[0]["distance_m"])
	require.Nil(t, decoded[1]["distance_m"])
}

func TestWriteParquet(t *testing.T) {
	activities, zones := exportFixture()
	records := BuildRecords(activities, zones)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatParquet, records))

	data := buf.Bytes()
	require.True(t, bytes.HasPrefix(data, []byte("PAR1")))
	require.True(t, bytes.HasSuffix(data, []byte("PAR1")))
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"csv", "json", "parquet"} {
		format, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, Format(name), format)
	}
	_, err := ParseFormat("xlsx")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "xlsx"))
}
