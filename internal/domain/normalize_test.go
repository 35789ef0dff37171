package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }
func i64(v int64) *int64     { return &v }
func str(v string) *string   { return &v }

func sampleDetail() *ActivityDetail {
	return &ActivityDetail{
		ID:         9001,
		Name:       str("Morning Run"),
		Type:       str("run"),
		Timestamp:  1754000000,
		MovingTime: i64(1800),
		Distance:   f64(6000),
		Tags:       []string{"easy", "trail"},
		Zones: []Zone{
			{Name: "Easy", PowerLow: 0, PowerHigh: 180},
			{Name: "Moderate", PowerLow: 180, PowerHigh: 230},
		},
		SecondsInZones: []int64{900, 900},
		TimestampList:  []int64{1754000000, 1754000001, 1754000002},
		TotalPowerList: []*float64{f64(210), f64(215), f64(212)},
		SpeedList:      []*float64{f64(3.2), f64(3.3), f64(3.1)},
		HeartRateList:  []*float64{f64(140), nil, f64(145)},
		ElevationList:  []*float64{f64(12.5), f64(12.7), f64(13.0)},
		GroundTimeList: []*float64{f64(240), f64(238), f64(241)},
		LocList: []*GeoPoint{
			{Lat: 52.1, Lng: 4.3},
			nil,
			{Lat: 52.2, Lng: 4.4},
		},
		Events: &ActivityEvents{Laps: []LapEvent{
			{Timestamp: i64(1754000000), Trigger: i64(0), WorkoutStep: i64(1)},
			{Timestamp: i64(1754000900), Trigger: i64(1)},
		}},
		StartPoint: &GeoPoint{Lat: 52.1, Lng: 4.3},
		EndPoint:   &GeoPoint{Lat: 52.2, Lng: 4.4},
		Map:        &MapInfo{Polyline: str("abc"), SummaryPolyline: str("ab")},
		DeviceInfo: &DeviceInfo{DeviceModel: str("Stryd Pod")},
	}
}

func TestNormalizeBuildsAllRowFamilies(t *testing.T) {
	syncedAt := time.Unix(1754100000, 0)

	rows, err := Normalize(sampleDetail(), syncedAt)
	require.NoError(t, err)

	require.Equal(t, int64(9001), rows.Activity.ID)
	require.Equal(t, "Morning Run", *rows.Activity.Name)
	require.Equal(t, int64(1754100000), rows.Activity.SyncedAt)
	require.Equal(t, []string{"easy", "trail"}, rows.Activity.Tags)
	require.Equal(t, "abc", *rows.Activity.Polyline)
	require.Equal(t, 52.1, *rows.Activity.StartLat)
	require.Equal(t, "Stryd Pod", *rows.Activity.DeviceModel)

	require.Len(t, rows.Zones, 2)
	require.Equal(t, 0, rows.Zones[0].ZoneIndex)
	require.Equal(t, 1, rows.Zones[1].ZoneIndex)
	require.InDelta(t, 50.0, rows.Zones[0].Percent, 0.001)

	require.Len(t, rows.Power, 3)
	require.Len(t, rows.Kinematics, 3)
	require.Len(t, rows.Cardio, 3)
	require.Nil(t, rows.Cardio[1].HeartRate)
	require.Len(t, rows.Biomechanics, 3)
	require.Len(t, rows.Elevation, 3)

	// The nil loc entry is dropped and the sequence stays dense.
	require.Len(t, rows.GPS, 2)
	require.Equal(t, 0, rows.GPS[0].Seq)
	require.Equal(t, 1, rows.GPS[1].Seq)
	require.Equal(t, 52.2, rows.GPS[1].Lat)

	require.Len(t, rows.Laps, 2)
	require.Equal(t, 1, rows.Laps[0].LapIndex)
	require.Equal(t, 2, rows.Laps[1].LapIndex)
	require.Nil(t, rows.Laps[1].WorkoutStep)
}

func TestNormalizeFamiliesKeepIndependentLengths(t *testing.T) {
	detail := &ActivityDetail{
		ID:        42,
		Timestamp: 1754000000,
	}
	detail.TimestampList = make([]int64, 600)
	detail.TotalPowerList = make([]*float64, 600)
	for i := range detail.TotalPowerList {
		detail.TimestampList[i] = 1754000000 + int64(i)
		detail.TotalPowerList[i] = f64(float64(200 + i%30))
	}
	detail.LocList = make([]*GeoPoint, 120)
	for i := range detail.LocList {
		detail.LocList[i] = &GeoPoint{Lat: 52.0 + float64(i)*0.0001, Lng: 4.3}
	}
	detail.HeartRateList = []*float64{f64(130), f64(131)}

	rows, err := Normalize(detail, time.Now())
	require.NoError(t, err)

	require.Len(t, rows.Power, 600)
	require.Len(t, rows.GPS, 120)
	require.Len(t, rows.Cardio, 2)
	require.Empty(t, rows.Kinematics)
	require.Empty(t, rows.Elevation)

	// Monotonically increasing sample indices per family.
	for i, s := range rows.Power {
		require.Equal(t, i, s.SampleIndex)
	}
	for i, p := range rows.GPS {
		require.Equal(t, i, p.Seq)
	}
}

func TestNormalizeSamplesBeyondSharedClockKeepNilTimestamp(t *testing.T) {
	detail := &ActivityDetail{
		ID:             7,
		Timestamp:      1754000000,
		TimestampList:  []int64{1754000000},
		HeartRateList:  []*float64{f64(120), f64(121), f64(122)},
		RRIntervalList: nil,
	}

	rows, err := Normalize(detail, time.Now())
	require.NoError(t, err)
	require.Len(t, rows.Cardio, 3)
	require.NotNil(t, rows.Cardio[0].Timestamp)
	require.Nil(t, rows.Cardio[1].Timestamp)
	require.Nil(t, rows.Cardio[2].Timestamp)
}

func TestNormalizeRejectsStructurallyBrokenPayloads(t *testing.T) {
	_, err := Normalize(nil, time.Now())
	require.ErrorIs(t, err, ErrMalformedPayload)

	_, err = Normalize(&ActivityDetail{Timestamp: 1754000000, TotalPowerList: []*float64{f64(1)}}, time.Now())
	require.ErrorIs(t, err, ErrMalformedPayload)

	_, err = Normalize(&ActivityDetail{ID: 5, Timestamp: 1754000000}, time.Now())
	require.ErrorIs(t, err, ErrMalformedPayload)
}

func TestNormalizeMissingOptionalFieldsStayNil(t *testing.T) {
	detail := &ActivityDetail{
		ID:            11,
		Timestamp:     1754000000,
		TimestampList: []int64{1754000000},
		SpeedList:     []*float64{f64(3.0)},
	}

	rows, err := Normalize(detail, time.Now())
	require.NoError(t, err)

	rec := rows.Activity
	require.Nil(t, rec.Name)
	require.Nil(t, rec.Distance)
	require.Nil(t, rec.Polyline)
	require.Nil(t, rec.StartLat)
	require.Nil(t, rec.DeviceModel)
	require.Empty(t, rec.Tags)
	require.Empty(t, rows.Zones)
	require.Empty(t, rows.Laps)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	syncedAt := time.Unix(1754100000, 0)

	first, err := Normalize(sampleDetail(), syncedAt)
	require.NoError(t, err)
	second, err := Normalize(sampleDetail(), syncedAt)
	require.NoError(t, err)

	require.Equal(t, first, second)
}
