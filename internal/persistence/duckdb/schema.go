package duckdb

// Schema for the local activity mirror. The parent table is keyed by the
// vendor activity id; every child table carries a composite key on
// (activity_id, <ordering index>) plus an activity_id index so one activity's
// rows can be replaced efficiently during a forced resync.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		id BIGINT PRIMARY KEY,
		user_id VARCHAR,
		name VARCHAR,
		description VARCHAR,
		type VARCHAR,
		feel VARCHAR,
		rpe BIGINT,
		timestamp BIGINT,
		start_time BIGINT,
		date VARCHAR,
		moving_time BIGINT,
		elapsed_time BIGINT,
		clock_time BIGINT,
		time_zone VARCHAR,
		distance DOUBLE,
		total_elevation_gain DOUBLE,
		total_elevation_loss DOUBLE,
		min_elevation DOUBLE,
		max_elevation DOUBLE,
		average_speed DOUBLE,
		max_speed DOUBLE,
		average_cadence DOUBLE,
		min_cadence DOUBLE,
		max_cadence DOUBLE,
		average_stride_length DOUBLE,
		min_stride_length DOUBLE,
		max_stride_length DOUBLE,
		average_power DOUBLE,
		max_power DOUBLE,
		ftp DOUBLE,
		critical_impact DOUBLE,
		average_heart_rate DOUBLE,
		max_heart_rate DOUBLE,
		calories BIGINT,
		average_ground_time DOUBLE,
		min_ground_time DOUBLE,
		max_ground_time DOUBLE,
		average_ground_time_balance DOUBLE,
		average_oscillation DOUBLE,
		min_oscillation DOUBLE,
		max_oscillation DOUBLE,
		average_vertical_ratio DOUBLE,
		average_vertical_oscillation_balance DOUBLE,
		average_leg_spring DOUBLE,
		average_leg_spring_stiffness_balance DOUBLE,
		average_impact_loading_rate_balance DOUBLE,
		max_vertical_stiffness DOUBLE,
		stress DOUBLE,
		lower_body_stress DOUBLE,
		stryds DOUBLE,
		source VARCHAR,
		surface_type VARCHAR,
		recording_mode VARCHAR,
		sport_type BIGINT,
		power_type VARCHAR,
		weight BIGINT,
		height BIGINT,
		temperature BIGINT,
		dew_point BIGINT,
		humidity BIGINT,
		wind_speed DOUBLE,
		wind_bearing BIGINT,
		wind_gust BIGINT,
		icon VARCHAR,
		location_city VARCHAR,
		location_country VARCHAR,
		location_state VARCHAR,
		tags VARCHAR,
		workout_id VARCHAR,
		workout_source VARCHAR,
		workout_source_id VARCHAR,
		file_path VARCHAR,
		map_image_link VARCHAR,
		polyline VARCHAR,
		summary_polyline VARCHAR,
		start_lat DOUBLE,
		start_lng DOUBLE,
		end_lat DOUBLE,
		end_lng DOUBLE,
		device_id VARCHAR,
		device_model VARCHAR,
		device_sw_rev VARCHAR,
		device_fw_rev VARCHAR,
		watch_product_id VARCHAR,
		watch_manufacturer VARCHAR,
		created BIGINT,
		updated BIGINT,
		synced_at BIGINT
	)`,

	`CREATE TABLE IF NOT EXISTS zones_distribution (
		activity_id BIGINT,
		zone_index INTEGER,
		zone_name VARCHAR,
		power_low BIGINT,
		power_high BIGINT,
		seconds BIGINT,
		percentage DOUBLE,
		PRIMARY KEY (activity_id, zone_index)
	)`,

	`CREATE TABLE IF NOT EXISTS timeseries_power (
		activity_id BIGINT,
		sample_index INTEGER,
		timestamp BIGINT,
		total_power DOUBLE,
		horizontal_power DOUBLE,
		vertical_power DOUBLE,
		air_power DOUBLE,
		elevation_power DOUBLE,
		PRIMARY KEY (activity_id, sample_index)
	)`,

	`CREATE TABLE IF NOT EXISTS timeseries_kinematics (
		activity_id BIGINT,
		sample_index INTEGER,
		timestamp BIGINT,
		speed DOUBLE,
		distance DOUBLE,
		cadence DOUBLE,
		stride_length DOUBLE,
		PRIMARY KEY (activity_id, sample_index)
	)`,

	`CREATE TABLE IF NOT EXISTS timeseries_cardio (
		activity_id BIGINT,
		sample_index INTEGER,
		timestamp BIGINT,
		heart_rate DOUBLE,
		rr_interval DOUBLE,
		PRIMARY KEY (activity_id, sample_index)
	)`,

	`CREATE TABLE IF NOT EXISTS timeseries_biomechanics (
		activity_id BIGINT,
		sample_index INTEGER,
		timestamp BIGINT,
		ground_time DOUBLE,
		ground_time_balance DOUBLE,
		oscillation DOUBLE,
		vertical_oscillation_balance DOUBLE,
		leg_spring DOUBLE,
		leg_spring_stiffness_balance DOUBLE,
		impact DOUBLE,
		impact_loading_rate_balance DOUBLE,
		vertical_ratio DOUBLE,
		PRIMARY KEY (activity_id, sample_index)
	)`,

	`CREATE TABLE IF NOT EXISTS timeseries_elevation (
		activity_id BIGINT,
		sample_index INTEGER,
		timestamp BIGINT,
		elevation DOUBLE,
		grade DOUBLE,
		PRIMARY KEY (activity_id, sample_index)
	)`,

	`CREATE TABLE IF NOT EXISTS gps_points (
		activity_id BIGINT,
		seq INTEGER,
		timestamp BIGINT,
		lat DOUBLE,
		lng DOUBLE,
		PRIMARY KEY (activity_id, seq)
	)`,

	`CREATE TABLE IF NOT EXISTS laps (
		activity_id BIGINT,
		lap_index INTEGER,
		timestamp BIGINT,
		trigger BIGINT,
		workout_step BIGINT,
		PRIMARY KEY (activity_id, lap_index)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_type ON activities(type)`,
	`CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON activities(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_zones_activity ON zones_distribution(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ts_power_activity ON timeseries_power(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ts_kinematics_activity ON timeseries_kinematics(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ts_cardio_activity ON timeseries_cardio(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ts_biomechanics_activity ON timeseries_biomechanics(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ts_elevation_activity ON timeseries_elevation(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_gps_activity ON gps_points(activity_id)`,
	`CREATE INDEX IF NOT EXISTS idx_laps_activity ON laps(activity_id)`,
}

// childTables lists every table whose rows are owned by one activity, in the
// order they are purged during a replace.
var childTables = []string{
	"zones_distribution",
	"timeseries_power",
	"timeseries_kinematics",
	"timeseries_cardio",
	"timeseries_biomechanics",
	"timeseries_elevation",
	"gps_points",
	"laps",
}
