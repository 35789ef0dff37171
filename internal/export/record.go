// Package export renders persisted activities as CSV, JSON, or Parquet for
// analysis outside the store.
package export

import (
	"strings"

	"github.com/gitjpk/strydcmd/internal/domain"
)

// Record is the flattened per-activity export row. Optional vendor fields
// stay nil and render as empty (CSV), null (JSON), or optional (Parquet).
type Record struct {
	ID         int64  `json:"id" parquet:"name=id, type=INT64"`
	Date       string `json:"date" parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Name       string `json:"name" parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Type       string `json:"type" parquet:"name=type, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Feel       string `json:"feel" parquet:"name=feel, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Tags       string `json:"tags" parquet:"name=tags, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`

	DistanceM     *float64 `json:"distance_m" parquet:"name=distance_m, type=DOUBLE, repetitiontype=OPTIONAL"`
	MovingTimeS   *int64   `json:"moving_time_s" parquet:"name=moving_time_s, type=INT64, repetitiontype=OPTIONAL"`
	ElapsedTimeS  *int64   `json:"elapsed_time_s" parquet:"name=elapsed_time_s, type=INT64, repetitiontype=OPTIONAL"`
	AveragePowerW *float64 `json:"average_power_w" parquet:"name=average_power_w, type=DOUBLE, repetitiontype=OPTIONAL"`
	MaxPowerW     *float64 `json:"max_power_w" parquet:"name=max_power_w, type=DOUBLE, repetitiontype=OPTIONAL"`
	FTPW          *float64 `json:"ftp_w" parquet:"name=ftp_w, type=DOUBLE, repetitiontype=OPTIONAL"`
	AverageHR     *float64 `json:"average_hr" parquet:"name=average_hr, type=DOUBLE, repetitiontype=OPTIONAL"`
	MaxHR         *float64 `json:"max_hr" parquet:"name=max_hr, type=DOUBLE, repetitiontype=OPTIONAL"`
	AverageCad    *float64 `json:"average_cadence" parquet:"name=average_cadence, type=DOUBLE, repetitiontype=OPTIONAL"`
	AvgSpeedMPS   *float64 `json:"average_speed_mps" parquet:"name=average_speed_mps, type=DOUBLE, repetitiontype=OPTIONAL"`
	MaxSpeedMPS   *float64 `json:"max_speed_mps" parquet:"name=max_speed_mps, type=DOUBLE, repetitiontype=OPTIONAL"`
	ElevGainM     *float64 `json:"elevation_gain_m" parquet:"name=elevation_gain_m, type=DOUBLE, repetitiontype=OPTIONAL"`
	ElevLossM     *float64 `json:"elevation_loss_m" parquet:"name=elevation_loss_m, type=DOUBLE, repetitiontype=OPTIONAL"`
	Calories      *int64   `json:"calories" parquet:"name=calories, type=INT64, repetitiontype=OPTIONAL"`
	Stress        *float64 `json:"stress" parquet:"name=stress, type=DOUBLE, repetitiontype=OPTIONAL"`
	RPE           *int64   `json:"rpe" parquet:"name=rpe, type=INT64, repetitiontype=OPTIONAL"`

	ZoneEasyMin       *float64 `json:"zone_easy_min" parquet:"name=zone_easy_min, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneEasyPct       *float64 `json:"zone_easy_pct" parquet:"name=zone_easy_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneModerateMin   *float64 `json:"zone_moderate_min" parquet:"name=zone_moderate_min, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneModeratePct   *float64 `json:"zone_moderate_pct" parquet:"name=zone_moderate_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneThresholdMin  *float64 `json:"zone_threshold_min" parquet:"name=zone_threshold_min, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneThresholdPct  *float64 `json:"zone_threshold_pct" parquet:"name=zone_threshold_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneIntervalMin   *float64 `json:"zone_interval_min" parquet:"name=zone_interval_min, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneIntervalPct   *float64 `json:"zone_interval_pct" parquet:"name=zone_interval_pct, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneRepetitionMin *float64 `json:"zone_repetition_min" parquet:"name=zone_repetition_min, type=DOUBLE, repetitiontype=OPTIONAL"`
	ZoneRepetitionPct *float64 `json:"zone_repetition_pct" parquet:"name=zone_repetition_pct, type=DOUBLE, repetitiontype=OPTIONAL"`

	SyncedAt int64 `json:"synced_at" parquet:"name=synced_at, type=INT64"`
}

// BuildRecords flattens activity records with their zone distributions into
// export rows, preserving input order.
func BuildRecords(activities []domain.ActivityRecord, zones map[int64][]domain.ZoneRow) []Record {
	records := make([]Record, 0, len(activities))
	for i := range activities {
		records = append(records, buildRecord(&activities[i], zones[activities[i].ID]))
	}
	return records
}

func buildRecord(a *domain.ActivityRecord, zones []domain.ZoneRow) Record {
	rec := Record{
		ID:            a.ID,
		Date:          a.Date,
		Name:          strOrEmpty(a.Name),
		Type:          strOrEmpty(a.Type),
		Feel:          strOrEmpty(a.Feel),
		Tags:          strings.Join(a.Tags, ","),
		DistanceM:     a.Distance,
		MovingTimeS:   a.MovingTime,
		ElapsedTimeS:  a.ElapsedTime,
		AveragePowerW: a.AveragePower,
		MaxPowerW:     a.MaxPower,
		FTPW:          a.FTP,
		AverageHR:     a.AverageHeartRate,
		MaxHR:         a.MaxHeartRate,
		AverageCad:    a.AverageCadence,
		AvgSpeedMPS:   a.AverageSpeed,
		MaxSpeedMPS:   a.MaxSpeed,
		ElevGainM:     a.TotalElevationGain,
		ElevLossM:     a.TotalElevationLoss,
		Calories:      a.Calories,
		Stress:        a.Stress,
		RPE:           a.RPE,
		SyncedAt:      a.SyncedAt,
	}

	for _, z := range zones {
		minutes := float64(z.Seconds) / 60
		pct := z.Percent
		switch strings.ToLower(z.Name) {
		case "easy":
			rec.ZoneEasyMin, rec.ZoneEasyPct = &minutes, &pct
		case "moderate":
			rec.ZoneModerateMin, rec.ZoneModeratePct = &minutes, &pct
		case "threshold":
			rec.ZoneThresholdMin, rec.ZoneThresholdPct = &minutes, &pct
		case "interval":
			rec.ZoneIntervalMin, rec.ZoneIntervalPct = &minutes, &pct
		case "repetition":
			rec.ZoneRepetitionMin, rec.ZoneRepetitionPct = &minutes, &pct
		}
	}
	return rec
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
