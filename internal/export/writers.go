package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/goccy/go-json"
)

// Format names a supported export encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatCSV, FormatJSON, FormatParquet:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unknown export format %q, want csv, json or parquet", name)
	}
}

// Write renders records in the requested format.
func Write(w io.Writer, format Format, records []Record) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatJSON:
		return writeJSON(w, records)
	case FormatParquet:
		data, err := marshalParquet(records)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

var csvHeader = []string{
	"id", "date", "name", "type", "feel", "tags",
	"distance_m", "moving_time_s", "elapsed_time_s",
	"average_power_w", "max_power_w", "ftp_w",
	"average_hr", "max_hr", "average_cadence",
	"average_speed_mps", "max_speed_mps",
	"elevation_gain_m", "elevation_loss_m",
	"calories", "stress", "rpe",
	"zone_easy_min", "zone_easy_pct",
	"zone_moderate_min", "zone_moderate_pct",
	"zone_threshold_min", "zone_threshold_pct",
	"zone_interval_min", "zone_interval_pct",
	"zone_repetition_min", "zone_repetition_pct",
	"synced_at",
}

func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10), r.Date, r.Name, r.Type, r.Feel, r.Tags,
			fmtF(r.DistanceM), fmtI(r.MovingTimeS), fmtI(r.ElapsedTimeS),
			fmtF(r.AveragePowerW), fmtF(r.MaxPowerW), fmtF(r.FTPW),
			fmtF(r.AverageHR), fmtF(r.MaxHR), fmtF(r.AverageCad),
			fmtF(r.AvgSpeedMPS), fmtF(r.MaxSpeedMPS),
			fmtF(r.ElevGainM), fmtF(r.ElevLossM),
			fmtI(r.Calories), fmtF(r.Stress), fmtI(r.RPE),
			fmtF(r.ZoneEasyMin), fmtF(r.ZoneEasyPct),
			fmtF(r.ZoneModerateMin), fmtF(r.ZoneModeratePct),
			fmtF(r.ZoneThresholdMin), fmtF(r.ZoneThresholdPct),
			fmtF(r.ZoneIntervalMin), fmtF(r.ZoneIntervalPct),
			fmtF(r.ZoneRepetitionMin), fmtF(r.ZoneRepetitionPct),
			strconv.FormatInt(r.SyncedAt, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for activity %d: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func fmtF(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtI(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func writeJSON(w io.Writer, records []Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if records == nil {
		records = []Record{}
	}
	return enc.Encode(records)
}
