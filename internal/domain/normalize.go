package domain

import (
	"fmt"
	"time"
)

// ActivityRecord is the canonical persisted row for one activity. Optional
// vendor fields stay nil and map to SQL NULL; they are never fabricated.
type ActivityRecord struct {
	ID          int64
	UserID      *string
	Name        *string
	Description *string
	Type        *string
	Feel        *string
	RPE         *int64
	Timestamp   int64
	StartTime   *int64
	Date        string
	MovingTime  *int64
	ElapsedTime *int64
	ClockTime   *int64
	TimeZone    *string

	Distance           *float64
	TotalElevationGain *float64
	TotalElevationLoss *float64
	MinElevation       *float64
	MaxElevation       *float64
	AverageSpeed       *float64
	MaxSpeed           *float64
	AverageCadence     *float64
	MinCadence         *float64
	MaxCadence         *float64
	AverageStrideLen   *float64
	MinStrideLen       *float64
	MaxStrideLen       *float64
	AveragePower       *float64
	MaxPower           *float64
	FTP                *float64
	CriticalImpact     *float64
	AverageHeartRate   *float64
	MaxHeartRate       *float64
	Calories           *int64

	AverageGroundTime        *float64
	MinGroundTime            *float64
	MaxGroundTime            *float64
	AverageGroundTimeBalance *float64
	AverageOscillation       *float64
	MinOscillation           *float64
	MaxOscillation           *float64
	AverageVerticalRatio     *float64
	AverageVertOscBalance    *float64
	AverageLegSpring         *float64
	AverageLegSpringBalance  *float64
	AverageImpactLRBalance   *float64
	MaxVerticalStiffness     *float64
	Stress                   *float64
	LowerBodyStress          *float64
	Stryds                   *float64

	Source        *string
	SurfaceType   *string
	RecordingMode *string
	SportType     *int64
	PowerType     *string
	Weight        *int64
	Height        *int64

	Temperature *int64
	DewPoint    *int64
	Humidity    *int64
	WindSpeed   *float64
	WindBearing *int64
	WindGust    *int64
	Icon        *string

	LocationCity    *string
	LocationCountry *string
	LocationState   *string

	Tags []string

	WorkoutID       *string
	WorkoutSource   *string
	WorkoutSourceID *string
	FilePath        *string
	MapImageLink    *string
	Polyline        *string
	SummaryPolyline *string

	StartLat *float64
	StartLng *float64
	EndLat   *float64
	EndLng   *float64

	DeviceID           *string
	DeviceModel        *string
	DeviceSWRev        *string
	DeviceFWRev        *string
	WatchProductID     *string
	WatchManufacturer  *string

	Created  *int64
	Updated  *int64
	SyncedAt int64
}

// ZoneRow is one power band with the time the activity spent inside it.
// Zone indices within an activity are unique and ordered.
type ZoneRow struct {
	ActivityID int64
	ZoneIndex  int
	Name       string
	PowerLow   int64
	PowerHigh  int64
	Seconds    int64
	Percent    float64
}

// PowerSample is one row of the power time-series family.
type PowerSample struct {
	ActivityID      int64
	SampleIndex     int
	Timestamp       *int64
	TotalPower      *float64
	HorizontalPower *float64
	VerticalPower   *float64
	AirPower        *float64
	ElevationPower  *float64
}

// KinematicsSample is one row of the kinematics family.
type KinematicsSample struct {
	ActivityID  int64
	SampleIndex int
	Timestamp   *int64
	Speed       *float64
	Distance    *float64
	Cadence     *float64
	StrideLen   *float64
}

// CardioSample is one row of the cardio family.
type CardioSample struct {
	ActivityID  int64
	SampleIndex int
	Timestamp   *int64
	HeartRate   *float64
	RRInterval  *float64
}

// BiomechanicsSample is one row of the biomechanics family.
type BiomechanicsSample struct {
	ActivityID        int64
	SampleIndex       int
	Timestamp         *int64
	GroundTime        *float64
	GroundTimeBalance *float64
	Oscillation       *float64
	VertOscBalance    *float64
	LegSpring         *float64
	LegSpringBalance  *float64
	Impact            *float64
	ImpactLRBalance   *float64
	VerticalRatio     *float64
}

// ElevationSample is one row of the elevation family.
type ElevationSample struct {
	ActivityID  int64
	SampleIndex int
	Timestamp   *int64
	Elevation   *float64
	Grade       *float64
}

// GPSPoint is one row of the GPS track, ordered by sequence index.
type GPSPoint struct {
	ActivityID int64
	Seq        int
	Timestamp  *int64
	Lat        float64
	Lng        float64
}

// LapRow is one lap marker, ordered by lap index.
type LapRow struct {
	ActivityID  int64
	LapIndex    int
	Timestamp   *int64
	Trigger     *int64
	WorkoutStep *int64
}

// Rows holds the complete normalized decomposition of one detail payload.
// The five series families are independently indexed: each keeps its own
// sample count and no alignment or interpolation is performed across them.
type Rows struct {
	Activity     ActivityRecord
	Zones        []ZoneRow
	Power        []PowerSample
	Kinematics   []KinematicsSample
	Cardio       []CardioSample
	Biomechanics []BiomechanicsSample
	Elevation    []ElevationSample
	GPS          []GPSPoint
	Laps         []LapRow
}

// SampleCounts reports per-family row counts, mostly for progress logging.
func (r *Rows) SampleCounts() map[string]int {
	return map[string]int{
		"power":        len(r.Power),
		"kinematics":   len(r.Kinematics),
		"cardio":       len(r.Cardio),
		"biomechanics": len(r.Biomechanics),
		"elevation":    len(r.Elevation),
		"gps":          len(r.GPS),
	}
}

// Normalize maps one detail payload into typed table rows. It is a pure
// function of the payload: missing optional fields stay nil, series families
// keep their own lengths, and it fails only when the payload is missing its
// activity id or carries no time-series family at all.
func Normalize(detail *ActivityDetail, syncedAt time.Time) (*Rows, error) {
	if detail == nil {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformedPayload)
	}
	if detail.ID == 0 {
		return nil, fmt.Errorf("%w: missing activity id", ErrMalformedPayload)
	}

	rows := &Rows{
		Activity:     buildRecord(detail, syncedAt),
		Zones:        buildZones(detail),
		Power:        buildPower(detail),
		Kinematics:   buildKinematics(detail),
		Cardio:       buildCardio(detail),
		Biomechanics: buildBiomechanics(detail),
		Elevation:    buildElevation(detail),
		GPS:          buildGPS(detail),
		Laps:         buildLaps(detail),
	}

	if len(rows.Power) == 0 && len(rows.Kinematics) == 0 && len(rows.Cardio) == 0 &&
		len(rows.Biomechanics) == 0 && len(rows.Elevation) == 0 {
		return nil, fmt.Errorf("%w: activity %d has no time-series family", ErrMalformedPayload, detail.ID)
	}

	return rows, nil
}

func buildRecord(d *ActivityDetail, syncedAt time.Time) ActivityRecord {
	rec := ActivityRecord{
		ID:          d.ID,
		UserID:      d.UserID,
		Name:        d.Name,
		Description: d.Description,
		Type:        d.Type,
		Feel:        d.Feel,
		RPE:         d.RPE,
		Timestamp:   d.Timestamp,
		StartTime:   d.StartTime,
		Date:        time.Unix(d.Timestamp, 0).UTC().Format("2006-01-02 15:04:05"),
		MovingTime:  d.MovingTime,
		ElapsedTime: d.ElapsedTime,
		ClockTime:   d.ClockTime,
		TimeZone:    d.TimeZone,

		Distance:           d.Distance,
		TotalElevationGain: d.TotalElevationGain,
		TotalElevationLoss: d.TotalElevationLoss,
		MinElevation:       d.MinElevation,
		MaxElevation:       d.MaxElevation,
		AverageSpeed:       d.AverageSpeed,
		MaxSpeed:           d.MaxSpeed,
		AverageCadence:     d.AverageCadence,
		MinCadence:         d.MinCadence,
		MaxCadence:         d.MaxCadence,
		AverageStrideLen:   d.AverageStrideLen,
		MinStrideLen:       d.MinStrideLen,
		MaxStrideLen:       d.MaxStrideLen,
		AveragePower:       d.AveragePower,
		MaxPower:           d.MaxPower,
		FTP:                d.FTP,
		CriticalImpact:     d.CriticalImpact,
		AverageHeartRate:   d.AverageHeartRate,
		MaxHeartRate:       d.MaxHeartRate,
		Calories:           d.Calories,

		AverageGroundTime:        d.AverageGroundTime,
		MinGroundTime:            d.MinGroundTime,
		MaxGroundTime:            d.MaxGroundTime,
		AverageGroundTimeBalance: d.AverageGroundTimeBalance,
		AverageOscillation:       d.AverageOscillation,
		MinOscillation:           d.MinOscillation,
		MaxOscillation:           d.MaxOscillation,
		AverageVerticalRatio:     d.AverageVerticalRatio,
		AverageVertOscBalance:    d.AverageVertOscBalance,
		AverageLegSpring:         d.AverageLegSpring,
		AverageLegSpringBalance:  d.AverageLegSpringBalance,
		AverageImpactLRBalance:   d.AverageImpactLRBalance,
		MaxVerticalStiffness:     d.MaxVerticalStiffness,
		Stress:                   d.Stress,
		LowerBodyStress:          d.LowerBodyStress,
		Stryds:                   d.Stryds,

		Source:        d.Source,
		SurfaceType:   d.SurfaceType,
		RecordingMode: d.RecordingMode,
		SportType:     d.SportType,
		PowerType:     d.PowerType,
		Weight:        d.Weight,
		Height:        d.Height,

		Temperature: d.Temperature,
		DewPoint:    d.DewPoint,
		Humidity:    d.Humidity,
		WindSpeed:   d.WindSpeed,
		WindBearing: d.WindBearing,
		WindGust:    d.WindGust,
		Icon:        d.Icon,

		LocationCity:    d.LocationCity,
		LocationCountry: d.LocationCountry,
		LocationState:   d.LocationState,

		Tags: append([]string(nil), d.Tags...),

		WorkoutID:       d.WorkoutID,
		WorkoutSource:   d.WorkoutSource,
		WorkoutSourceID: d.WorkoutSourceID,
		FilePath:        d.FilePath,
		MapImageLink:    d.MapImageLink,

		Created:  d.Created,
		Updated:  d.Updated,
		SyncedAt: syncedAt.Unix(),
	}

	if d.Map != nil {
		rec.Polyline = d.Map.Polyline
		rec.SummaryPolyline = d.Map.SummaryPolyline
	}
	if d.StartPoint != nil {
		lat, lng := d.StartPoint.Lat, d.StartPoint.Lng
		rec.StartLat, rec.StartLng = &lat, &lng
	}
	if d.EndPoint != nil {
		lat, lng := d.EndPoint.Lat, d.EndPoint.Lng
		rec.EndLat, rec.EndLng = &lat, &lng
	}
	if d.DeviceInfo != nil {
		rec.DeviceID = d.DeviceInfo.DeviceID
		rec.DeviceModel = d.DeviceInfo.DeviceModel
		rec.DeviceSWRev = d.DeviceInfo.DeviceSWRev
		rec.DeviceFWRev = d.DeviceInfo.DeviceFWRev
	}
	if d.WatchInfo != nil {
		rec.WatchProductID = d.WatchInfo.ProductID
		rec.WatchManufacturer = d.WatchInfo.Manufacturer
	}

	return rec
}

func buildZones(d *ActivityDetail) []ZoneRow {
	n := len(d.Zones)
	if len(d.SecondsInZones) < n {
		n = len(d.SecondsInZones)
	}
	if n == 0 {
		return nil
	}

	var movingTime int64
	if d.MovingTime != nil {
		movingTime = *d.MovingTime
	}

	zones := make([]ZoneRow, 0, n)
	for i := 0; i < n; i++ {
		seconds := d.SecondsInZones[i]
		var pct float64
		if movingTime > 0 {
			pct = float64(seconds) / float64(movingTime) * 100
		}
		zones = append(zones, ZoneRow{
			ActivityID: d.ID,
			ZoneIndex:  i,
			Name:       d.Zones[i].Name,
			PowerLow:   int64(d.Zones[i].PowerLow),
			PowerHigh:  int64(d.Zones[i].PowerHigh),
			Seconds:    seconds,
			Percent:    pct,
		})
	}
	return zones
}

// tsAt returns the shared sample clock value for index i, when one exists.
// Families longer than the clock keep their extra samples with a nil timestamp.
func tsAt(list []int64, i int) *int64 {
	if i < len(list) {
		v := list[i]
		return &v
	}
	return nil
}

func at(list []*float64, i int) *float64 {
	if i < len(list) {
		return list[i]
	}
	return nil
}

func maxLen(lists ...int) int {
	m := 0
	for _, n := range lists {
		if n > m {
			m = n
		}
	}
	return m
}

func buildPower(d *ActivityDetail) []PowerSample {
	n := maxLen(len(d.TotalPowerList), len(d.HorizontalPowerLst), len(d.VerticalPowerList),
		len(d.AirPowerList), len(d.ElevationPowerList))
	samples := make([]PowerSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, PowerSample{
			ActivityID:      d.ID,
			SampleIndex:     i,
			Timestamp:       tsAt(d.TimestampList, i),
			TotalPower:      at(d.TotalPowerList, i),
			HorizontalPower: at(d.HorizontalPowerLst, i),
			VerticalPower:   at(d.VerticalPowerList, i),
			AirPower:        at(d.AirPowerList, i),
			ElevationPower:  at(d.ElevationPowerList, i),
		})
	}
	return samples
}

func buildKinematics(d *ActivityDetail) []KinematicsSample {
	n := maxLen(len(d.SpeedList), len(d.DistanceList), len(d.CadenceList), len(d.StrideLenList))
	samples := make([]KinematicsSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, KinematicsSample{
			ActivityID:  d.ID,
			SampleIndex: i,
			Timestamp:   tsAt(d.TimestampList, i),
			Speed:       at(d.SpeedList, i),
			Distance:    at(d.DistanceList, i),
			Cadence:     at(d.CadenceList, i),
			StrideLen:   at(d.StrideLenList, i),
		})
	}
	return samples
}

func buildCardio(d *ActivityDetail) []CardioSample {
	n := maxLen(len(d.HeartRateList), len(d.RRIntervalList))
	samples := make([]CardioSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, CardioSample{
			ActivityID:  d.ID,
			SampleIndex: i,
			Timestamp:   tsAt(d.TimestampList, i),
			HeartRate:   at(d.HeartRateList, i),
			RRInterval:  at(d.RRIntervalList, i),
		})
	}
	return samples
}

func buildBiomechanics(d *ActivityDetail) []BiomechanicsSample {
	n := maxLen(len(d.GroundTimeList), len(d.GroundTimeBalanceList), len(d.OscillationList),
		len(d.VertOscBalanceList), len(d.LegSpringList), len(d.LegSpringBalanceList),
		len(d.ImpactList), len(d.ImpactLRBalanceList), len(d.VerticalRatioList))
	samples := make([]BiomechanicsSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, BiomechanicsSample{
			ActivityID:        d.ID,
			SampleIndex:       i,
			Timestamp:         tsAt(d.TimestampList, i),
			GroundTime:        at(d.GroundTimeList, i),
			GroundTimeBalance: at(d.GroundTimeBalanceList, i),
			Oscillation:       at(d.OscillationList, i),
			VertOscBalance:    at(d.VertOscBalanceList, i),
			LegSpring:         at(d.LegSpringList, i),
			LegSpringBalance:  at(d.LegSpringBalanceList, i),
			Impact:            at(d.ImpactList, i),
			ImpactLRBalance:   at(d.ImpactLRBalanceList, i),
			VerticalRatio:     at(d.VerticalRatioList, i),
		})
	}
	return samples
}

func buildElevation(d *ActivityDetail) []ElevationSample {
	n := maxLen(len(d.ElevationList), len(d.GradeList))
	samples := make([]ElevationSample, 0, n)
	for i := 0; i < n; i++ {
		samples = append(samples, ElevationSample{
			ActivityID:  d.ID,
			SampleIndex: i,
			Timestamp:   tsAt(d.TimestampList, i),
			Elevation:   at(d.ElevationList, i),
			Grade:       at(d.GradeList, i),
		})
	}
	return samples
}

func buildGPS(d *ActivityDetail) []GPSPoint {
	points := make([]GPSPoint, 0, len(d.LocList))
	seq := 0
	for i, loc := range d.LocList {
		if loc == nil {
			continue
		}
		points = append(points, GPSPoint{
			ActivityID: d.ID,
			Seq:        seq,
			Timestamp:  tsAt(d.TimestampList, i),
			Lat:        loc.Lat,
			Lng:        loc.Lng,
		})
		seq++
	}
	return points
}

func buildLaps(d *ActivityDetail) []LapRow {
	if d.Events == nil || len(d.Events.Laps) == 0 {
		return nil
	}
	laps := make([]LapRow, 0, len(d.Events.Laps))
	for i, lap := range d.Events.Laps {
		laps = append(laps, LapRow{
			ActivityID:  d.ID,
			LapIndex:    i + 1,
			Timestamp:   lap.Timestamp,
			Trigger:     lap.Trigger,
			WorkoutStep: lap.WorkoutStep,
		})
	}
	return laps
}
