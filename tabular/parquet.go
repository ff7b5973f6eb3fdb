package tabular

import (
	"fmt"
	"time"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

type parquetRow struct {
	TSUTCISO      string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	ElapsedS      float64 `parquet:"name=elapsed_s, type=DOUBLE"`
	ActivityIndex int64   `parquet:"name=activity_index, type=INT64"`
	HRBPM         float64 `parquet:"name=heart_rate_bpm, type=DOUBLE"`
	PowerW        float64 `parquet:"name=power_w, type=DOUBLE"`
	CadenceRPM    float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	SpeedMPS      float64 `parquet:"name=speed_mps, type=DOUBLE"`
	DistanceM     float64 `parquet:"name=distance_m, type=DOUBLE"`
	AltitudeM     float64 `parquet:"name=altitude_m, type=DOUBLE"`
	TemperatureC  float64 `parquet:"name=temperature_c, type=DOUBLE"`
}

// EncodeParquet writes the same flattened rows as EncodeCSV in columnar
// binary form. Unset metric cells are written as NaN, matching the in-memory
// series representation.
func EncodeParquet(acts []model.Activity, c *diag.Collector) ([]byte, error) {
	rows := collectRows(acts)
	if len(rows) == 0 {
		c.Error(diag.CategoryEncodeUnsupported, "file", "no time-series data to export")
		return nil, fmt.Errorf("no time-series data to export")
	}

	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(parquetRow), 4)
	if err != nil {
		return nil, fmt.Errorf("open writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		out := parquetRow{
			TSUTCISO:      row.Time.UTC().Format(time.RFC3339),
			ElapsedS:      row.ElapsedS,
			ActivityIndex: int64(row.ActivityIndex),
			HRBPM:         row.Metrics[model.MetricHeartRate],
			PowerW:        row.Metrics[model.MetricPower],
			CadenceRPM:    row.Metrics[model.MetricCadence],
			SpeedMPS:      row.Metrics[model.MetricSpeed],
			DistanceM:     row.Metrics[model.MetricDistance],
			AltitudeM:     row.Metrics[model.MetricAltitude],
			TemperatureC:  row.Metrics[model.MetricTemperature],
		}
		if err := pw.Write(out); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("write row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finish writer: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, fmt.Errorf("close buffer: %w", err)
	}
	return append([]byte(nil), fw.Bytes()...), nil
}
