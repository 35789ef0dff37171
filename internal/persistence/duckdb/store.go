// Package duckdb provides the DuckDB-backed relational mirror of synced
// activities. The database is a single local file with a single writer; the
// engine's file lock rejects a second concurrent read-write open rather than
// risking corruption.
package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/gitjpk/strydcmd/internal/domain"
)

// Store wraps the DuckDB connection and exposes the sync store contract.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (creating if needed) the database file and guarantees the schema
// exists before first use. Callers must Close on every exit path.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	conn, err := sql.Open("duckdb", path+"?access_mode=read_write")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection: the store has exactly one writer and interleaving
	// schema or close operations with writes is never allowed.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	store := &Store{conn: conn, path: path}
	if err := store.createSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return store, nil
}

// Close flushes and releases the database file.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path reports the database file location.
func (s *Store) Path() string { return s.path }

func (s *Store) createSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Exists reports whether an activity is already persisted. This is the skip
// gate of the sync loop and stays an indexed primary-key lookup.
func (s *Store) Exists(ctx context.Context, activityID int64) (bool, error) {
	var one int
	err := s.conn.QueryRowContext(ctx, `SELECT 1 FROM activities WHERE id = ?`, activityID).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("%w: exists check for %d: %v", domain.ErrPersistence, activityID, err)
	}
	return true, nil
}

// ActivityCount returns the number of persisted activities.
func (s *Store) ActivityCount(ctx context.Context) (int64, error) {
	var count int64
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM activities`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: count activities: %v", domain.ErrPersistence, err)
	}
	return count, nil
}

// Upsert atomically replaces the activity row and all of its children inside
// one transaction. Any failure rolls back the whole activity: a forced resync
// can never leave a prior run's child rows behind, and an interrupted write
// can never leave a partial activity committed.
func (s *Store) Upsert(ctx context.Context, rows *domain.Rows) (err error) {
	activityID := rows.Activity.ID

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return persistErr(activityID, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = deleteActivity(ctx, tx, activityID); err != nil {
		return err
	}
	if err = insertActivity(ctx, tx, &rows.Activity); err != nil {
		return err
	}
	if err = insertChildren(ctx, tx, rows); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return persistErr(activityID, err)
	}
	return nil
}

func persistErr(activityID int64, err error) error {
	return domain.NewActivityError(activityID, fmt.Errorf("%w: %v", domain.ErrPersistence, err))
}

func deleteActivity(ctx context.Context, tx *sql.Tx, activityID int64) error {
	for _, table := range childTables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE activity_id = ?`, activityID); err != nil {
			return persistErr(activityID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, activityID); err != nil {
		return persistErr(activityID, err)
	}
	return nil
}

func insertActivity(ctx context.Context, tx *sql.Tx, rec *domain.ActivityRecord) error {
	const stmt = `INSERT INTO activities (
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
		watch_product_id, watch_manufacturer, created, updated, synced_at
	) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`

	_, err := tx.ExecContext(ctx, stmt,
		rec.ID, rec.UserID, rec.Name, rec.Description, rec.Type, rec.Feel, rec.RPE,
		rec.Timestamp, rec.StartTime, rec.Date,
		rec.MovingTime, rec.ElapsedTime, rec.ClockTime, rec.TimeZone, rec.Distance,
		rec.TotalElevationGain, rec.TotalElevationLoss, rec.MinElevation, rec.MaxElevation,
		rec.AverageSpeed, rec.MaxSpeed, rec.AverageCadence, rec.MinCadence, rec.MaxCadence,
		rec.AverageStrideLen, rec.MinStrideLen, rec.MaxStrideLen,
		rec.AveragePower, rec.MaxPower, rec.FTP, rec.CriticalImpact,
		rec.AverageHeartRate, rec.MaxHeartRate, rec.Calories,
		rec.AverageGroundTime, rec.MinGroundTime, rec.MaxGroundTime, rec.AverageGroundTimeBalance,
		rec.AverageOscillation, rec.MinOscillation, rec.MaxOscillation,
		rec.AverageVerticalRatio, rec.AverageVertOscBalance,
		rec.AverageLegSpring, rec.AverageLegSpringBalance,
		rec.AverageImpactLRBalance, rec.MaxVerticalStiffness,
		rec.Stress, rec.LowerBodyStress, rec.Stryds,
		rec.Source, rec.SurfaceType, rec.RecordingMode, rec.SportType, rec.PowerType, rec.Weight, rec.Height,
		rec.Temperature, rec.DewPoint, rec.Humidity, rec.WindSpeed, rec.WindBearing, rec.WindGust, rec.Icon,
		rec.LocationCity, rec.LocationCountry, rec.LocationState, strings.Join(rec.Tags, ","),
		rec.WorkoutID, rec.WorkoutSource, rec.WorkoutSourceID, rec.FilePath, rec.MapImageLink,
		rec.Polyline, rec.SummaryPolyline, rec.StartLat, rec.StartLng, rec.EndLat, rec.EndLng,
		rec.DeviceID, rec.DeviceModel, rec.DeviceSWRev, rec.DeviceFWRev,
		rec.WatchProductID, rec.WatchManufacturer, rec.Created, rec.Updated, rec.SyncedAt,
	)
	if err != nil {
		return persistErr(rec.ID, err)
	}
	return nil
}

func insertChildren(ctx context.Context, tx *sql.Tx, rows *domain.Rows) error {
	id := rows.Activity.ID

	if err := execBatch(ctx, tx, id,
		`INSERT INTO zones_distribution (activity_id, zone_index, zone_name, power_low, power_high, seconds, percentage)
		 VALUES (?,?,?,?,?,?,?)`,
		len(rows.Zones), func(i int) []any {
			z := rows.Zones[i]
			return []any{z.ActivityID, z.ZoneIndex, z.Name, z.PowerLow, z.PowerHigh, z.Seconds, z.Percent}
		}); err != nil {
		return err
	}

	if err := execBatch(ctx, tx, id,
		`INSERT INTO timeseries_power (activity_id, sample_index, timestamp, total_power, horizontal_power, vertical_power, air_power, elevation_power)
		 VALUES (?,?,?,?,?,?,?,?)`,
		len(rows.Power), func(i int) []any {
			p := rows.Power[i]
			return []any{p.ActivityID, p.SampleIndex, p.Timestamp, p.TotalPower, p.HorizontalPower, p.VerticalPower, p.AirPower, p.ElevationPower}
		}); err != nil {
		return err
	}

	if err := execBatch(ctx, tx, id,
		`INSERT INTO timeseries_kinematics (activity_id, sample_index, timestamp, speed, distance, cadence, stride_length)
		 VALUES (?,?,?,?,?,?,?)`,
		len(rows.Kinematics), func(i int) []any {
			k := rows.Kinematics[i]
			return []any{k.ActivityID, k.SampleIndex, k.Timestamp, k.Speed, k.Distance, k.Cadence, k.StrideLen}
		}); err != nil {
		return err
	}

	if err := execBatch(ctx, tx, id,
		`INSERT INTO timeseries_cardio (activity_id, sample_index, timestamp, heart_rate, rr_interval)
		 VALUES (?,?,?,?,?)`,
		len(rows.Cardio), func(i int) []any {
			c := rows.Cardio[i]
			return []any{c.ActivityID, c.SampleIndex, c.Timestamp, c.HeartRate, c.RRInterval}
		}); err != nil {
		return err
	}

	if err := execBatch(ctx, tx, id,
		`INSERT INTO timeseries_biomechanics (activity_id, sample_index, timestamp, ground_time, ground_time_balance, oscillation, vertical_oscillation_balance, leg_spring, leg_spring_stiffness_balance, impact, impact_loading_rate_balance, vertical_ratio)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		len(rows.Biomechanics), func(i int) []any {
			b := rows.Biomechanics[i]
			return []any{b.ActivityID, b.SampleIndex, b.Timestamp, b.GroundTime, b.GroundTimeBalance, b.Oscillation, b.VertOscBalance, b.LegSpring, b.LegSpringBalance, b.Impact, b.ImpactLRBalance, b.VerticalRatio}
		}); err != nil {
		return err
	}

	if err := execBatch(ctx, tx, id,
		`INSERT INTO timeseries_elevation (activity_id, sample_index, timestamp, elevation, grade)
		 VALUES (?,?,?,?,?)`,
		len(rows.Elevation), func(i int) []any {
			e := rows.Elevation[i]
			return []any{e.ActivityID, e.SampleIndex, e.Timestamp, e.Elevation, e.Grade}
		}); err != nil {
		return err
	}

	if err := execBatch(ctx, tx, id,
		`INSERT INTO gps_points (activity_id, seq, timestamp, lat, lng)
		 VALUES (?,?,?,?,?)`,
		len(rows.GPS), func(i int) []any {
			g := rows.GPS[i]
			return []any{g.ActivityID, g.Seq, g.Timestamp, g.Lat, g.Lng}
		}); err != nil {
		return err
	}

	return execBatch(ctx, tx, id,
		`INSERT INTO laps (activity_id, lap_index, timestamp, trigger, workout_step)
		 VALUES (?,?,?,?,?)`,
		len(rows.Laps), func(i int) []any {
			l := rows.Laps[i]
			return []any{l.ActivityID, l.LapIndex, l.Timestamp, l.Trigger, l.WorkoutStep}
		})
}

// execBatch inserts n rows through one prepared statement inside the
// transaction.
func execBatch(ctx context.Context, tx *sql.Tx, activityID int64, query string, n int, args func(int) []any) error {
	if n == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return persistErr(activityID, err)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if _, err := stmt.ExecContext(ctx, args(i)...); err != nil {
			return persistErr(activityID, err)
		}
	}
	return nil
}
