// Package fitdec decodes binary device activity logs into the canonical
// model. The binary format is read-only for this project: fitdec has no
// encoding counterpart.
package fitdec

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tormoder/fit"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/segment"
	"github.com/bcarlson/sportconv/units"
	"github.com/bcarlson/sportconv/vocab"
)

// Decode parses a binary activity log into canonical activities. Structural
// problems are reported as error diagnostics on c and decoding continues
// best-effort; the returned error is non-nil only when nothing usable could
// be recovered.
func Decode(data []byte, c *diag.Collector) ([]model.Activity, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		c.Error(diag.CategoryDecodeError, "file", "decode activity log: %v", err)
		return nil, fmt.Errorf("decode activity log: %w", err)
	}

	activity, err := decoded.Activity()
	if err != nil {
		c.Error(diag.CategoryDecodeError, "file", "activity file expected: %v", err)
		return nil, fmt.Errorf("activity file expected: %w", err)
	}

	series, route := buildSampleSeries(activity.Records, c)
	devices := deviceInfo(decoded)

	if len(activity.Sessions) == 0 {
		c.Error(diag.CategoryDecodeError, "file", "activity file has no session message")
		partial := partialFromRecords(series, route, devices)
		if partial == nil {
			return nil, fmt.Errorf("activity file has no session message and no samples")
		}
		return partial, nil
	}

	sessions := make([]segment.SessionSummary, 0, len(activity.Sessions))
	for i, sess := range activity.Sessions {
		if sess == nil {
			continue
		}
		sessions = append(sessions, summarizeSession(i, sess, activity.Laps, activity.Lengths, series, c))
	}

	activities := segment.Group(sessions, c)
	for i := range activities {
		activities[i].Route = route
		activities[i].Devices = devices
		activities[i].Telemetry = mergeTelemetry(sessions)
	}
	return activities, nil
}

func summarizeSession(idx int, sess *fit.SessionMsg, laps []*fit.LapMsg, lengths []*fit.LengthMsg, series *model.TimeSeries, c *diag.Collector) segment.SessionSummary {
	path := fmt.Sprintf("session[%d]", idx)
	sport := vocab.ResolveSport(uint8(sess.Sport), uint8(sess.SubSport), c, path+".sport")

	start := validTimeOrZero(sess.StartTime)
	end := validTimeOrZero(sess.Timestamp)
	if start.IsZero() && series != nil && series.Len() > 0 {
		c.Error(diag.CategoryDecodeError, path+".start_time",
			"session has no start time, using first sample timestamp")
		start = series.Timestamps()[0]
	}

	total := safePositive(sess.GetTotalTimerTimeScaled())
	if total == 0 {
		total = safePositive(sess.GetTotalElapsedTimeScaled())
	}
	if total == 0 && !start.IsZero() && end.After(start) {
		total = end.Sub(start).Seconds()
	}

	summary := segment.SessionSummary{
		Sport:        sport,
		StartTime:    start,
		TotalSeconds: total,
		Telemetry:    sessionTelemetry(sess, series, total),
	}

	pool := 0.0
	if sport == model.SportSwimming {
		pool = poolLengthMeters(sess, laps, start, end, c, path)
	}

	setIdx := 0
	for _, lap := range laps {
		if lap == nil {
			continue
		}
		lapStart := validTimeOrZero(lap.StartTime)
		if !within(lapStart, start, end) {
			continue
		}
		summary.Sets = append(summary.Sets, lapSet(setIdx, lap, lengths, pool, series, sport, c, path))
		setIdx++
	}

	if len(summary.Sets) == 0 {
		// No lap messages; keep the samples on one whole-session set.
		set := model.Set{
			StartTime: start,
			Seconds:   total,
			DistanceM: safePositive(sess.GetTotalDistanceScaled()),
		}
		if s := sliceSeries(series, start, end); s != nil {
			set.Series = s
		}
		summary.Sets = []model.Set{set}
	}
	return summary
}

func lapSet(idx int, lap *fit.LapMsg, lengths []*fit.LengthMsg, pool float64, series *model.TimeSeries, sport model.Sport, c *diag.Collector, sessionPath string) model.Set {
	path := fmt.Sprintf("%s.set[%d]", sessionPath, idx)

	start := validTimeOrZero(lap.StartTime)
	end := validTimeOrZero(lap.Timestamp)

	seconds := safePositive(lap.GetTotalTimerTimeScaled())
	if seconds == 0 {
		seconds = safePositive(lap.GetTotalElapsedTimeScaled())
	}

	set := model.Set{
		StartTime: start,
		Seconds:   seconds,
		DistanceM: safePositive(lap.GetTotalDistanceScaled()),
		Telemetry: lapTelemetry(lap),
		Series:    sliceSeries(series, start, end),
	}

	if sport == model.SportSwimming {
		raws := rawLengths(lengths, start, end, c, path)
		set.SwimLengths = segment.DeriveLengths(raws, c, path)
		if set.DistanceM == 0 && pool > 0 {
			active := 0
			for _, l := range set.SwimLengths {
				if l.Active {
					active++
				}
			}
			set.DistanceM = pool * float64(active)
		}
	}
	return set
}

func rawLengths(lengths []*fit.LengthMsg, start, end time.Time, c *diag.Collector, path string) []segment.RawLength {
	var raws []segment.RawLength
	for i, l := range lengths {
		if l == nil {
			continue
		}
		ts := validTimeOrZero(l.StartTime)
		if !within(ts, start, end) {
			continue
		}
		active := l.LengthType == fit.LengthTypeActive
		raw := segment.RawLength{
			SourceIndex: i,
			Stroke:      model.StrokeUnknown,
			Seconds:     safePositive(l.GetTotalTimerTimeScaled()),
			Active:      active,
		}
		if raw.Seconds == 0 {
			raw.Seconds = safePositive(l.GetTotalElapsedTimeScaled())
		}
		if active {
			raw.Stroke = vocab.ResolveStroke(uint8(l.SwimStroke), c, fmt.Sprintf("%s.length[%d]", path, i))
			if n := validU16(l.TotalStrokes); n > 0 {
				raw.StrokeCount = model.Int(int(n))
			}
		}
		raws = append(raws, raw)
	}
	return raws
}

// poolLengthMeters prefers the declared pool length and falls back to
// classifying the average distance per active lap.
func poolLengthMeters(sess *fit.SessionMsg, laps []*fit.LapMsg, start, end time.Time, c *diag.Collector, path string) float64 {
	if pl := safePositive(sess.GetPoolLengthScaled()); pl > 0 {
		return pl
	}

	total := 0.0
	count := 0
	for _, lap := range laps {
		if lap == nil || !within(validTimeOrZero(lap.StartTime), start, end) {
			continue
		}
		if d := safePositive(lap.GetTotalDistanceScaled()); d > 0 {
			total += d
			count++
		}
	}
	avg := 0.0
	if count > 0 {
		avg = total / float64(count)
	}
	return segment.ClassifyPoolLength(avg, c, path+".pool_length").Length
}

// buildSampleSeries turns raw samples into one columnar series for the whole
// file plus the positional track. Sets later slice the series by time range.
func buildSampleSeries(records []*fit.RecordMsg, c *diag.Collector) (*model.TimeSeries, *model.Route) {
	ordered := make([]*fit.RecordMsg, 0, len(records))
	for _, rec := range records {
		if rec == nil || validTimeOrZero(rec.Timestamp).IsZero() {
			continue
		}
		ordered = append(ordered, rec)
	}
	if len(ordered) == 0 {
		return nil, nil
	}

	for i := 1; i < len(ordered); i++ {
		if ordered[i].Timestamp.Before(ordered[i-1].Timestamp) {
			c.Error(diag.CategoryConsistencyViolation, fmt.Sprintf("record[%d].timestamp", i),
				"sample timestamps are not monotonically non-decreasing")
			sort.SliceStable(ordered, func(a, b int) bool {
				return ordered[a].Timestamp.Before(ordered[b].Timestamp)
			})
			break
		}
	}

	b := model.NewSeriesBuilder()
	var points []model.RoutePoint

	for _, rec := range ordered {
		b.StartSample(rec.Timestamp)

		if rec.HeartRate != math.MaxUint8 {
			b.Set(model.MetricHeartRate, float64(rec.HeartRate))
		}
		if rec.Power != math.MaxUint16 {
			b.Set(model.MetricPower, float64(rec.Power))
		}
		if cad, ok := extractCadence(rec); ok {
			b.Set(model.MetricCadence, cad)
		}
		if spd, ok := extractSpeed(rec); ok {
			b.Set(model.MetricSpeed, spd)
		}
		if d := safePositive(rec.GetDistanceScaled()); d > 0 {
			b.Set(model.MetricDistance, d)
		}
		alt, hasAlt := extractAltitude(rec)
		if hasAlt {
			b.Set(model.MetricAltitude, alt)
		}
		if rec.Temperature != math.MaxInt8 {
			b.Set(model.MetricTemperature, float64(rec.Temperature))
		}

		reportUnmappedFields(rec, c)

		if pt, ok := routePoint(rec, alt, hasAlt, c); ok {
			points = append(points, pt)
		}
	}

	series, err := b.Series()
	if err != nil {
		c.Error(diag.CategoryDecodeError, "records", "assemble sample series: %v", err)
		return nil, model.NewRoute(points)
	}
	return series, model.NewRoute(points)
}

func routePoint(rec *fit.RecordMsg, alt float64, hasAlt bool, c *diag.Collector) (model.RoutePoint, bool) {
	latRaw := rec.PositionLat.Semicircles()
	lonRaw := rec.PositionLong.Semicircles()
	if latRaw == math.MaxInt32 || lonRaw == math.MaxInt32 {
		return model.RoutePoint{}, false
	}
	if latRaw == 0 && lonRaw == 0 {
		return model.RoutePoint{}, false
	}

	lat, latClamped := units.Degrees(int64(latRaw))
	lon, lonClamped := units.Degrees(int64(lonRaw))
	if latClamped || lonClamped {
		c.WarnOnce("position_out_of_range", diag.CategoryConsistencyViolation, "records",
			"position outside representable angle range, clamped")
	}

	pt := model.RoutePoint{Lat: lat, Lon: lon, Time: rec.Timestamp}
	if hasAlt {
		pt.ElevationM = model.Float(alt)
	}
	return pt, true
}

// reportUnmappedFields reports recorded source fields the canonical model has
// no home for, once per field name per run.
func reportUnmappedFields(rec *fit.RecordMsg, c *diag.Collector) {
	if rec.VerticalOscillation != math.MaxUint16 {
		c.WarnOnce("record_field:vertical_oscillation", diag.CategoryMappingGap, "records",
			"vertical oscillation samples have no canonical field, dropped")
	}
	if rec.StanceTime != math.MaxUint16 {
		c.WarnOnce("record_field:stance_time", diag.CategoryMappingGap, "records",
			"stance time samples have no canonical field, dropped")
	}
	if rec.Grade != math.MaxInt16 {
		c.WarnOnce("record_field:grade", diag.CategoryMappingGap, "records",
			"grade samples have no canonical field, dropped")
	}
	if uint8(rec.LeftRightBalance) != math.MaxUint8 {
		c.WarnOnce("record_field:left_right_balance", diag.CategoryMappingGap, "records",
			"left/right balance samples have no canonical field, dropped")
	}
}

func sessionTelemetry(sess *fit.SessionMsg, series *model.TimeSeries, totalSeconds float64) model.Telemetry {
	t := model.Telemetry{}

	avgHR := float64(validU8(sess.AvgHeartRate))
	if avgHR == 0 {
		avgHR = columnAvg(seriesColumn(series, model.MetricHeartRate))
	}
	setMetric(&t.AvgHeartRate, avgHR)

	maxHR := float64(validU8(sess.MaxHeartRate))
	if maxHR == 0 {
		maxHR = columnMax(seriesColumn(series, model.MetricHeartRate))
	}
	setMetric(&t.MaxHeartRate, maxHR)

	avgPower := float64(validU16(sess.AvgPower))
	if avgPower == 0 {
		avgPower = columnAvg(seriesColumn(series, model.MetricPower))
	}
	setMetric(&t.AvgPower, avgPower)

	maxPower := float64(validU16(sess.MaxPower))
	if maxPower == 0 {
		maxPower = columnMax(seriesColumn(series, model.MetricPower))
	}
	setMetric(&t.MaxPower, maxPower)

	avgCad := cadenceFromAny(sess.GetAvgCadence())
	if avgCad == 0 {
		avgCad = columnAvg(seriesColumn(series, model.MetricCadence))
	}
	setMetric(&t.AvgCadence, avgCad)

	maxCad := cadenceFromAny(sess.GetMaxCadence())
	if maxCad == 0 {
		maxCad = columnMax(seriesColumn(series, model.MetricCadence))
	}
	setMetric(&t.MaxCadence, maxCad)

	distance := safePositive(sess.GetTotalDistanceScaled())
	avgSpeed := safePositive(sess.GetEnhancedAvgSpeedScaled())
	if avgSpeed == 0 {
		avgSpeed = safePositive(sess.GetAvgSpeedScaled())
	}
	if avgSpeed == 0 && totalSeconds > 0 && distance > 0 {
		avgSpeed = distance / totalSeconds
	}
	setMetric(&t.AvgSpeed, avgSpeed)

	maxSpeed := safePositive(sess.GetEnhancedMaxSpeedScaled())
	if maxSpeed == 0 {
		maxSpeed = safePositive(sess.GetMaxSpeedScaled())
	}
	if maxSpeed == 0 {
		maxSpeed = columnMax(seriesColumn(series, model.MetricSpeed))
	}
	setMetric(&t.MaxSpeed, maxSpeed)

	setMetric(&t.AscentM, float64(validU16(sess.TotalAscent)))
	setMetric(&t.DescentM, float64(validU16(sess.TotalDescent)))
	setMetric(&t.Calories, float64(validU16(sess.TotalCalories)))

	if sess.AvgTemperature != math.MaxInt8 {
		t.AvgTempC = model.Float(float64(sess.AvgTemperature))
	}
	return t
}

func lapTelemetry(lap *fit.LapMsg) model.Telemetry {
	t := model.Telemetry{}
	setMetric(&t.AvgHeartRate, float64(validU8(lap.AvgHeartRate)))
	setMetric(&t.MaxHeartRate, float64(validU8(lap.MaxHeartRate)))
	setMetric(&t.AvgPower, float64(validU16(lap.AvgPower)))
	setMetric(&t.MaxPower, float64(validU16(lap.MaxPower)))
	setMetric(&t.AvgCadence, cadenceFromAny(lap.GetAvgCadence()))
	setMetric(&t.MaxCadence, cadenceFromAny(lap.GetMaxCadence()))

	avgSpeed := safePositive(lap.GetEnhancedAvgSpeedScaled())
	if avgSpeed == 0 {
		avgSpeed = safePositive(lap.GetAvgSpeedScaled())
	}
	setMetric(&t.AvgSpeed, avgSpeed)

	maxSpeed := safePositive(lap.GetEnhancedMaxSpeedScaled())
	if maxSpeed == 0 {
		maxSpeed = safePositive(lap.GetMaxSpeedScaled())
	}
	setMetric(&t.MaxSpeed, maxSpeed)

	setMetric(&t.AscentM, float64(validU16(lap.TotalAscent)))
	setMetric(&t.DescentM, float64(validU16(lap.TotalDescent)))
	setMetric(&t.Calories, float64(validU16(lap.TotalCalories)))

	if lap.AvgTemperature != math.MaxInt8 {
		t.AvgTempC = model.Float(float64(lap.AvgTemperature))
	}
	return t
}

// mergeTelemetry rolls session telemetry up to the activity. Additive fields
// sum, peak fields take the maximum, and averages are kept only when a single
// session contributes them.
func mergeTelemetry(sessions []segment.SessionSummary) model.Telemetry {
	if len(sessions) == 1 {
		return sessions[0].Telemetry
	}
	t := model.Telemetry{}
	for _, s := range sessions {
		sumMetric(&t.Calories, s.Telemetry.Calories)
		sumMetric(&t.AscentM, s.Telemetry.AscentM)
		sumMetric(&t.DescentM, s.Telemetry.DescentM)
		maxMetric(&t.MaxHeartRate, s.Telemetry.MaxHeartRate)
		maxMetric(&t.MaxPower, s.Telemetry.MaxPower)
		maxMetric(&t.MaxCadence, s.Telemetry.MaxCadence)
		maxMetric(&t.MaxSpeed, s.Telemetry.MaxSpeed)
	}
	return t
}

func deviceInfo(decoded *fit.File) []model.DeviceInfo {
	id := decoded.FileId
	info := model.DeviceInfo{SerialNumber: validU32(id.SerialNumber)}
	if uint16(id.Manufacturer) != math.MaxUint16 {
		info.Manufacturer = fmt.Sprint(id.Manufacturer)
	}
	if uint16(id.Product) != math.MaxUint16 {
		info.Product = fmt.Sprint(id.GetProduct())
	}
	if info == (model.DeviceInfo{}) {
		return nil
	}
	return []model.DeviceInfo{info}
}

// partialFromRecords keeps sample data visible when the file has no session
// structure at all.
func partialFromRecords(series *model.TimeSeries, route *model.Route, devices []model.DeviceInfo) []model.Activity {
	if series == nil || series.Len() == 0 {
		return nil
	}
	stamps := series.Timestamps()
	start := stamps[0]
	total := stamps[len(stamps)-1].Sub(start).Seconds()
	return []model.Activity{{
		StartTime:    start,
		TotalSeconds: total,
		Sport:        model.SportOther,
		Route:        route,
		Devices:      devices,
		Segments: []model.Segment{{
			Sport:        model.SportOther,
			StartTime:    start,
			TotalSeconds: total,
			Sets: []model.Set{{
				StartTime: start,
				Seconds:   total,
				Series:    series,
			}},
		}},
	}}
}

func extractCadence(rec *fit.RecordMsg) (float64, bool) {
	cad256 := safePositive(rec.GetCadence256Scaled())
	if cad256 > 0 {
		return cad256, true
	}
	if rec.Cadence == math.MaxUint8 {
		return 0, false
	}
	return float64(rec.Cadence), true
}

func extractSpeed(rec *fit.RecordMsg) (float64, bool) {
	speed := rec.GetEnhancedSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, true
	}
	speed = rec.GetSpeedScaled()
	if isFinite(speed) && speed >= 0 {
		return speed, true
	}
	return 0, false
}

func extractAltitude(rec *fit.RecordMsg) (float64, bool) {
	alt := rec.GetEnhancedAltitudeScaled()
	if isFinite(alt) {
		return alt, true
	}
	alt = rec.GetAltitudeScaled()
	if isFinite(alt) {
		return alt, true
	}
	return 0, false
}

// sliceSeries extracts the samples within [start, end], end inclusive.
func sliceSeries(series *model.TimeSeries, start, end time.Time) *model.TimeSeries {
	if series == nil || series.Len() == 0 || start.IsZero() {
		return nil
	}
	i := series.IndexAtOrAfter(start)
	j := series.Len()
	if !end.IsZero() {
		j = series.IndexAtOrAfter(end)
		stamps := series.Timestamps()
		for j < series.Len() && stamps[j].Equal(end) {
			j++
		}
	}
	if j <= i {
		return nil
	}
	return series.Slice(i, j)
}

func within(ts, start, end time.Time) bool {
	if ts.IsZero() {
		return false
	}
	if !start.IsZero() && ts.Before(start) {
		return false
	}
	if !end.IsZero() && ts.After(end) {
		return false
	}
	return true
}

func setMetric(dst **float64, v float64) {
	if v > 0 {
		*dst = model.Float(v)
	}
}

func sumMetric(dst **float64, v *float64) {
	if v == nil {
		return
	}
	if *dst == nil {
		*dst = model.Float(*v)
		return
	}
	**dst += *v
}

func maxMetric(dst **float64, v *float64) {
	if v == nil {
		return
	}
	if *dst == nil || *v > **dst {
		*dst = model.Float(*v)
	}
}
