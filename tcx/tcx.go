// Package tcx reads and writes the lap-structured XML interchange format.
// It is the richer of the two XML targets: heart rate, power, cadence and
// multi-lap structure all survive a round trip.
package tcx

import "encoding/xml"

const (
	databaseNamespace  = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	extensionNamespace = "http://www.garmin.com/xmlschemas/ActivityExtension/v2"
)

type trainingCenterDatabase struct {
	XMLName    xml.Name   `xml:"TrainingCenterDatabase"`
	Namespace  string     `xml:"xmlns,attr,omitempty"`
	Activities activities `xml:"Activities"`
}

type activities struct {
	Activity []activity `xml:"Activity"`
}

type activity struct {
	Sport string `xml:"Sport,attr"`
	ID    string `xml:"Id"`
	Laps  []lap  `xml:"Lap"`
	Notes string `xml:"Notes,omitempty"`
}

type lap struct {
	StartTime        string     `xml:"StartTime,attr"`
	TotalTimeSeconds float64    `xml:"TotalTimeSeconds"`
	DistanceMeters   float64    `xml:"DistanceMeters"`
	MaximumSpeed     *float64   `xml:"MaximumSpeed,omitempty"`
	Calories         int        `xml:"Calories"`
	AverageHeartRate *heartRate `xml:"AverageHeartRateBpm,omitempty"`
	MaximumHeartRate *heartRate `xml:"MaximumHeartRateBpm,omitempty"`
	Cadence          *int       `xml:"Cadence,omitempty"`
	TriggerMethod    string     `xml:"TriggerMethod,omitempty"`
	Track            *track     `xml:"Track,omitempty"`
}

type heartRate struct {
	Value int `xml:"Value"`
}

type track struct {
	Trackpoints []trackpoint `xml:"Trackpoint"`
}

type trackpoint struct {
	Time           string      `xml:"Time"`
	Position       *position   `xml:"Position,omitempty"`
	AltitudeMeters *float64    `xml:"AltitudeMeters,omitempty"`
	DistanceMeters *float64    `xml:"DistanceMeters,omitempty"`
	HeartRateBpm   *heartRate  `xml:"HeartRateBpm,omitempty"`
	Cadence        *int        `xml:"Cadence,omitempty"`
	Extensions     *extensions `xml:"Extensions,omitempty"`
}

type position struct {
	LatitudeDegrees  float64 `xml:"LatitudeDegrees"`
	LongitudeDegrees float64 `xml:"LongitudeDegrees"`
}

type extensions struct {
	TPX *tpx `xml:"TPX,omitempty"`
}

type tpx struct {
	Namespace string   `xml:"xmlns,attr,omitempty"`
	Speed     *float64 `xml:"Speed,omitempty"`
	Watts     *float64 `xml:"Watts,omitempty"`
}
