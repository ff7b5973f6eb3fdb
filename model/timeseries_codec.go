package model

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// timeSeriesRepr is the serialized shape of a TimeSeries. Unset cells are
// nulls; math.NaN never reaches the wire.
type timeSeriesRepr struct {
	Timestamps []time.Time           `yaml:"timestamps" json:"timestamps"`
	Metrics    map[string][]*float64 `yaml:"metrics" json:"metrics"`
}

func (ts *TimeSeries) repr() timeSeriesRepr {
	metrics := make(map[string][]*float64, len(ts.columns))
	for _, name := range ts.MetricNames() {
		col := ts.columns[name]
		cells := make([]*float64, len(col))
		for i, v := range col {
			if !IsUnset(v) {
				value := v
				cells[i] = &value
			}
		}
		metrics[name] = cells
	}
	return timeSeriesRepr{Timestamps: ts.timestamps, Metrics: metrics}
}

func fromRepr(repr timeSeriesRepr) (*TimeSeries, error) {
	columns := make(map[string][]float64, len(repr.Metrics))
	for name, cells := range repr.Metrics {
		col := make([]float64, len(cells))
		for i, cell := range cells {
			if cell == nil {
				col[i] = Unset
			} else {
				col[i] = *cell
			}
		}
		columns[name] = col
	}
	// Construction, not later validation, enforces the length invariant for
	// deserialized series too.
	return NewTimeSeries(repr.Timestamps, columns)
}

func (ts *TimeSeries) MarshalYAML() (any, error) {
	return ts.repr(), nil
}

func (ts *TimeSeries) UnmarshalYAML(node *yaml.Node) error {
	var repr timeSeriesRepr
	if err := node.Decode(&repr); err != nil {
		return err
	}
	built, err := fromRepr(repr)
	if err != nil {
		return err
	}
	*ts = *built
	return nil
}

func (ts *TimeSeries) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.repr())
}

func (ts *TimeSeries) UnmarshalJSON(data []byte) error {
	var repr timeSeriesRepr
	if err := json.Unmarshal(data, &repr); err != nil {
		return err
	}
	built, err := fromRepr(repr)
	if err != nil {
		return err
	}
	*ts = *built
	return nil
}
