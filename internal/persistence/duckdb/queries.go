package duckdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitjpk/strydcmd/internal/domain"
)

const recordColumns = `
	id, user_id, name, description, type, feel, rpe, timestamp, start_time, date,
	moving_time, elapsed_time, clock_time, time_zone, distance,
	total_elevation_gain, total_elevation_loss, min_elevation, max_elevation,
	average_speed, max_speed, average_cadence, min_cadence, max_cadence,
	average_stride_length, min_stride_length, max_stride_length,
	average_power, max_power, ftp, critical_impact,
	average_heart_rate, max_heart_rate, calories,
	average_ground_time, min_ground_time, max_ground_time, average_ground_time_balance,
	average_oscillation, min_oscillation, max_oscillation,
	average_vertical_ratio, average_vertical_oscillation_balance,
	average_leg_spring, average_leg_spring_stiffness_balance,
	average_impact_loading_rate_balance, max_vertical_stiffness,
	stress, lower_body_stress, stryds,
	source, surface_type, recording_mode, sport_type, power_type, weight, height,
	temperature, dew_point, humidity, wind_speed, wind_bearing, wind_gust, icon,
	location_city, location_country, location_state, tags,
	workout_id, workout_source, workout_source_id, file_path, map_image_link,
	polyline, summary_polyline, start_lat, start_lng, end_lat, end_lng,
	device_id, device_model, device_sw_rev, device_fw_rev,
	watch_product_id, watch_manufacturer, created, updated, synced_at`

// ListRecords returns every persisted activity ordered oldest first. Export
// and listing both read through here so they always agree with what a sync
// run wrote.
func (s *Store) ListRecords(ctx context.Context) ([]domain.ActivityRecord, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM activities ORDER BY timestamp ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: list activities: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan activity: %v", domain.ErrPersistence, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list activities: %v", domain.ErrPersistence, err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.ActivityRecord, error) {
	var rec domain.ActivityRecord
	var tags *string

	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.Name, &rec.Description, &rec.Type, &rec.Feel, &rec.RPE,
		&rec.Timestamp, &rec.StartTime, &rec.Date,
		&rec.MovingTime, &rec.ElapsedTime, &rec.ClockTime, &rec.TimeZone, &rec.Distance,
		&rec.TotalElevationGain, &rec.TotalElevationLoss, &rec.MinElevation, &rec.MaxElevation,
		&rec.AverageSpeed, &rec.MaxSpeed, &rec.AverageCadence, &rec.MinCadence, &rec.MaxCadence,
		&rec.AverageStrideLen, &rec.MinStrideLen, &rec.MaxStrideLen,
		&rec.AveragePower, &rec.MaxPower, &rec.FTP, &rec.CriticalImpact,
		&rec.AverageHeartRate, &rec.MaxHeartRate, &rec.Calories,
		&rec.AverageGroundTime, &rec.MinGroundTime, &rec.MaxGroundTime, &rec.AverageGroundTimeBalance,
		&rec.AverageOscillation, &rec.MinOscillation, &rec.MaxOscillation,
		&rec.AverageVerticalRatio, &rec.AverageVertOscBalance,
		&rec.AverageLegSpring, &rec.AverageLegSpringBalance,
		&rec.AverageImpactLRBalance, &rec.MaxVerticalStiffness,
		&rec.Stress, &rec.LowerBodyStress, &rec.Stryds,
		&rec.Source, &rec.SurfaceType, &rec.RecordingMode, &rec.SportType, &rec.PowerType, &rec.Weight, &rec.Height,
		&rec.Temperature, &rec.DewPoint, &rec.Humidity, &rec.WindSpeed, &rec.WindBearing, &rec.WindGust, &rec.Icon,
		&rec.LocationCity, &rec.LocationCountry, &rec.LocationState, &tags,
		&rec.WorkoutID, &rec.WorkoutSource, &rec.WorkoutSourceID, &rec.FilePath, &rec.MapImageLink,
		&rec.Polyline, &rec.SummaryPolyline, &rec.StartLat, &rec.StartLng, &rec.EndLat, &rec.EndLng,
		&rec.DeviceID, &rec.DeviceModel, &rec.DeviceSWRev, &rec.DeviceFWRev,
		&rec.WatchProductID, &rec.WatchManufacturer, &rec.Created, &rec.Updated, &rec.SyncedAt,
	)
	if err != nil {
		return domain.ActivityRecord{}, err
	}

	if tags != nil && *tags != "" {
		rec.Tags = strings.Split(*tags, ",")
	}
	return rec, nil
}

// ListZones returns zone distribution rows grouped by activity id.
func (s *Store) ListZones(ctx context.Context) (map[int64][]domain.ZoneRow, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT activity_id, zone_index, zone_name, power_low, power_high, seconds, percentage
		 FROM zones_distribution ORDER BY activity_id, zone_index`)
	if err != nil {
		return nil, fmt.Errorf("%w: list zones: %v", domain.ErrPersistence, err)
	}
	defer rows.Close()

	zones := make(map[int64][]domain.ZoneRow)
	for rows.Next() {
		var z domain.ZoneRow
		if err := rows.Scan(&z.ActivityID, &z.ZoneIndex, &z.Name, &z.PowerLow, &z.PowerHigh, &z.Seconds, &z.Percent); err != nil {
			return nil, fmt.Errorf("%w: scan zone: %v", domain.ErrPersistence, err)
		}
		zones[z.ActivityID] = append(zones[z.ActivityID], z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list zones: %v", domain.ErrPersistence, err)
	}
	return zones, nil
}
