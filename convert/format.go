package convert

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
)

// Format identifies one interchange format the pipeline can read or write.
type Format string

const (
	FormatFIT     Format = "fit"
	FormatTCX     Format = "tcx"
	FormatGPX     Format = "gpx"
	FormatYAML    Format = "yaml"
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// ParseFormat normalizes a user-supplied format name. File extensions with a
// leading dot are accepted.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "fit":
		return FormatFIT, nil
	case "tcx":
		return FormatTCX, nil
	case "gpx":
		return FormatGPX, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	case "parquet":
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected fit|tcx|gpx|yaml|csv|parquet)", s)
	}
}

// Decodable reports whether the format can serve as a conversion source.
func (f Format) Decodable() bool {
	switch f {
	case FormatFIT, FormatTCX, FormatGPX, FormatYAML:
		return true
	default:
		return false
	}
}

// Encodable reports whether the format can serve as a conversion target. The
// binary device log is read-only.
func (f Format) Encodable() bool {
	return f != FormatFIT && f != ""
}

// DetectFormat guesses the source format from the file name extension, then
// from content. The binary device log carries a ".FIT" signature at byte 8
// of its header; the XML formats are told apart by their root element.
func DetectFormat(name string, data []byte) (Format, bool) {
	if ext := filepath.Ext(name); ext != "" {
		if f, err := ParseFormat(ext); err == nil {
			return f, true
		}
	}

	if len(data) >= 12 && bytes.Equal(data[8:12], []byte(".FIT")) {
		return FormatFIT, true
	}

	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	switch {
	case bytes.Contains(head, []byte("<TrainingCenterDatabase")):
		return FormatTCX, true
	case bytes.Contains(head, []byte("<gpx")):
		return FormatGPX, true
	case bytes.Contains(head, []byte("format_version:")):
		return FormatYAML, true
	}
	return "", false
}
