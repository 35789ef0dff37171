// Package domain defines the Stryd payload shapes, the normalized relational
// rows derived from them, and the error taxonomy shared across the sync engine.
package domain

// ActivitySummary is one lightweight calendar entry. It is never persisted;
// the syncer consumes it only to decide what to fetch, and the console and
// export surfaces render it directly.
type ActivitySummary struct {
	ID                 int64    `json:"id"`
	Timestamp          int64    `json:"timestamp"`
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	Feel               string   `json:"feel"`
	RPE                int64    `json:"rpe"`
	Source             string   `json:"source"`
	SurfaceType        string   `json:"surface_type"`
	RecordingMode      string   `json:"recording_mode"`
	Distance           float64  `json:"distance"`
	MovingTime         int64    `json:"moving_time"`
	TotalElevationGain float64  `json:"total_elevation_gain"`
	TotalElevationLoss float64  `json:"total_elevation_loss"`
	AverageSpeed       float64  `json:"average_speed"`
	AveragePower       float64  `json:"average_power"`
	AverageHeartRate   float64  `json:"average_heart_rate"`
	FTP                float64  `json:"ftp"`
	CriticalImpact     float64  `json:"critical_impact"`
	Tags               []string `json:"tags"`
	Zones              []Zone   `json:"zones"`
	SecondsInZones     []int64  `json:"seconds_in_zones"`
}

// Zone is one configured power band as reported by the vendor.
type Zone struct {
	Name      string  `json:"name"`
	PowerLow  float64 `json:"power_low"`
	PowerHigh float64 `json:"power_high"`
}

// GeoPoint is a single coordinate pair from the vendor payload.
type GeoPoint struct {
	Lat float64 `json:"Lat"`
	Lng float64 `json:"Lng"`
}

// MapInfo carries the encoded track polylines.
type MapInfo struct {
	Polyline        *string `json:"polyline"`
	SummaryPolyline *string `json:"summary_polyline"`
}

// DeviceInfo identifies the recording pod.
type DeviceInfo struct {
	DeviceID    *string `json:"device_id"`
	DeviceModel *string `json:"device_model"`
	DeviceSWRev *string `json:"device_sw_rev"`
	DeviceFWRev *string `json:"device_fw_rev"`
}

// WatchInfo identifies the paired watch, when one was used.
type WatchInfo struct {
	ProductID    *string `json:"product_id"`
	Manufacturer *string `json:"manufacturer"`
}

// LapEvent is one lap marker from the events block.
type LapEvent struct {
	Timestamp   *int64 `json:"timestamp"`
	Trigger     *int64 `json:"trigger"`
	WorkoutStep *int64 `json:"workout_step"`
}

// ActivityEvents groups the event markers embedded in a detail payload.
type ActivityEvents struct {
	Laps []LapEvent `json:"laps"`
}

// ActivityDetail is the full per-activity record returned by the vendor.
// Every field except the id and the series container may be absent depending
// on device and activity type, so optional fields are pointers and decode to
// nil rather than a fabricated zero.
type ActivityDetail struct {
	ID          int64   `json:"id"`
	UserID      *string `json:"user_id"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Type        *string `json:"type"`
	Feel        *string `json:"feel"`
	RPE         *int64  `json:"rpe"`
	Timestamp   int64   `json:"timestamp"`
	StartTime   *int64  `json:"start_time"`
	MovingTime  *int64  `json:"moving_time"`
	ElapsedTime *int64  `json:"elapsed_time"`
	ClockTime   *int64  `json:"clock_time"`
	TimeZone    *string `json:"time_zone"`

	Distance           *float64 `json:"distance"`
	TotalElevationGain *float64 `json:"total_elevation_gain"`
	TotalElevationLoss *float64 `json:"total_elevation_loss"`
	MinElevation       *float64 `json:"min_elevation"`
	MaxElevation       *float64 `json:"max_elevation"`
	AverageSpeed       *float64 `json:"average_speed"`
	MaxSpeed           *float64 `json:"max_speed"`
	AverageCadence     *float64 `json:"average_cadence"`
	MinCadence         *float64 `json:"min_cadence"`
	MaxCadence         *float64 `json:"max_cadence"`
	AverageStrideLen   *float64 `json:"average_stride_length"`
	MinStrideLen       *float64 `json:"min_stride_length"`
	MaxStrideLen       *float64 `json:"max_stride_length"`
	AveragePower       *float64 `json:"average_power"`
	MaxPower           *float64 `json:"max_power"`
	FTP                *float64 `json:"ftp"`
	CriticalImpact     *float64 `json:"critical_impact"`
	AverageHeartRate   *float64 `json:"average_heart_rate"`
	MaxHeartRate       *float64 `json:"max_heart_rate"`
	Calories           *int64   `json:"calories"`

	AverageGroundTime        *float64 `json:"average_ground_time"`
	MinGroundTime            *float64 `json:"min_ground_time"`
	MaxGroundTime            *float64 `json:"max_ground_time"`
	AverageGroundTimeBalance *float64 `json:"average_ground_time_balance"`
	AverageOscillation       *float64 `json:"average_oscillation"`
	MinOscillation           *float64 `json:"min_oscillation"`
	MaxOscillation           *float64 `json:"max_oscillation"`
	AverageVerticalRatio     *float64 `json:"average_vertical_ratio"`
	AverageVertOscBalance    *float64 `json:"average_vertical_oscillation_balance"`
	AverageLegSpring         *float64 `json:"average_leg_spring"`
	AverageLegSpringBalance  *float64 `json:"average_leg_spring_stiffness_balance"`
	AverageImpactLRBalance   *float64 `json:"average_impact_loading_rate_balance"`
	MaxVerticalStiffness     *float64 `json:"max_vertical_stiffness"`
	Stress                   *float64 `json:"stress"`
	LowerBodyStress          *float64 `json:"lower_body_stress"`
	Stryds                   *float64 `json:"stryds"`

	Source        *string `json:"source"`
	SurfaceType   *string `json:"surface_type"`
	RecordingMode *string `json:"recording_mode"`
	SportType     *int64  `json:"sport_type"`
	PowerType     *string `json:"power_type"`
	Weight        *int64  `json:"weight"`
	Height        *int64  `json:"height"`

	Temperature *int64   `json:"temperature"`
	DewPoint    *int64   `json:"dewPoint"`
	Humidity    *int64   `json:"humidity"`
	WindSpeed   *float64 `json:"windSpeed"`
	WindBearing *int64   `json:"windBearing"`
	WindGust    *int64   `json:"windGust"`
	Icon        *string  `json:"icon"`

	LocationCity    *string `json:"location_city"`
	LocationCountry *string `json:"location_country"`
	LocationState   *string `json:"location_state"`

	Tags []string `json:"tags"`

	WorkoutID       *string `json:"workout_id"`
	WorkoutSource   *string `json:"workout_source"`
	WorkoutSourceID *string `json:"workout_source_id"`
	FilePath        *string `json:"file_path"`
	MapImageLink    *string `json:"map_image_link"`

	Map        *MapInfo    `json:"map"`
	StartPoint *GeoPoint   `json:"start_point"`
	EndPoint   *GeoPoint   `json:"end_point"`
	DeviceInfo *DeviceInfo `json:"device_info"`
	WatchInfo  *WatchInfo  `json:"watch_info"`

	Created *int64 `json:"created"`
	Updated *int64 `json:"updated"`

	Zones          []Zone  `json:"zones"`
	SecondsInZones []int64 `json:"seconds_in_zones"`

	TimestampList []int64 `json:"timestamp_list"`

	TotalPowerList     []*float64 `json:"total_power_list"`
	HorizontalPowerLst []*float64 `json:"horizontal_power_list"`
	VerticalPowerList  []*float64 `json:"vertical_power_list"`
	AirPowerList       []*float64 `json:"air_power_list"`
	ElevationPowerList []*float64 `json:"elevation_power_list"`

	SpeedList     []*float64 `json:"speed_list"`
	DistanceList  []*float64 `json:"distance_list"`
	CadenceList   []*float64 `json:"cadence_list"`
	StrideLenList []*float64 `json:"stride_length_list"`

	HeartRateList  []*float64 `json:"heart_rate_list"`
	RRIntervalList []*float64 `json:"rr_interval_list"`

	GroundTimeList        []*float64 `json:"ground_time_list"`
	GroundTimeBalanceList []*float64 `json:"ground_time_balance_list"`
	OscillationList       []*float64 `json:"oscillation_list"`
	VertOscBalanceList    []*float64 `json:"vertical_oscillation_balance_list"`
	LegSpringList         []*float64 `json:"leg_spring_list"`
	LegSpringBalanceList  []*float64 `json:"leg_spring_stiffness_balance_list"`
	ImpactList            []*float64 `json:"impact_list"`
	ImpactLRBalanceList   []*float64 `json:"impact_loading_rate_balance_list"`
	VerticalRatioList     []*float64 `json:"vertical_ratio_list"`

	ElevationList []*float64 `json:"elevation_list"`
	GradeList     []*float64 `json:"grade_list"`

	LocList []*GeoPoint `json:"loc_list"`

	Events *ActivityEvents `json:"events"`
}
