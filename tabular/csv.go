package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
)

// EncodeCSV writes one row per time-series sample with a fixed column order:
// timestamp, elapsed seconds, then every modeled per-sample metric. Unset
// values become empty cells, never zeros. An input whose telemetry is
// aggregate-only is a hard failure, not an empty file.
func EncodeCSV(acts []model.Activity, c *diag.Collector) ([]byte, error) {
	rows := collectRows(acts)
	if len(rows) == 0 {
		c.Error(diag.CategoryEncodeUnsupported, "file", "no time-series data to export")
		return nil, fmt.Errorf("no time-series data to export")
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := append([]string{"timestamp", "elapsed_s"}, model.SampleMetrics...)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(header))
	for _, row := range rows {
		record[0] = row.Time.UTC().Format(time.RFC3339)
		record[1] = formatCell(row.ElapsedS)
		for i, name := range model.SampleMetrics {
			v := row.Metrics[name]
			if model.IsUnset(v) {
				record[2+i] = ""
				continue
			}
			record[2+i] = formatCell(v)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush rows: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
