package convert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bcarlson/sportconv/diag"
	"github.com/bcarlson/sportconv/model"
	"github.com/bcarlson/sportconv/validate"
)

const tcxFixture = `<?xml version="1.0"?>
<TrainingCenterDatabase>
  <Activities>
    <Activity Sport="Biking">
      <Id>2026-05-10T09:00:00Z</Id>
      <Lap StartTime="2026-05-10T09:00:00Z">
        <TotalTimeSeconds>600</TotalTimeSeconds>
        <DistanceMeters>4000</DistanceMeters>
        <Track>
          <Trackpoint>
            <Time>2026-05-10T09:00:00Z</Time>
            <HeartRateBpm><Value>130</Value></HeartRateBpm>
          </Trackpoint>
          <Trackpoint>
            <Time>2026-05-10T09:00:01Z</Time>
            <HeartRateBpm><Value>132</Value></HeartRateBpm>
          </Trackpoint>
        </Track>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

func TestRunTCXToYAML(t *testing.T) {
	res, err := Run([]byte(tcxFixture), Options{From: FormatTCX, To: FormatYAML})
	require.NoError(t, err)
	require.Equal(t, diag.OutcomeOK, res.Outcome)
	require.NotEmpty(t, res.Output)
	require.Len(t, res.Activities, 1)
	require.Equal(t, model.SportCycling, res.Activities[0].Sport)
	require.Contains(t, string(res.Output), "format_version: 1")
	require.NotEmpty(t, res.RunID)
}

func TestRunDetectsFormatFromContent(t *testing.T) {
	res, err := Run([]byte(tcxFixture), Options{To: FormatCSV, InputName: "ride.bin"})
	require.NoError(t, err)
	require.True(t, res.Outcome.Success())
	require.Contains(t, string(res.Output), "timestamp,")
}

func TestRunStrictBlocksLoss(t *testing.T) {
	// GPX output drops the heart-rate data, which is loss.
	relaxed, err := Run([]byte(tcxFixture), Options{From: FormatTCX, To: FormatGPX})
	require.Error(t, err) // no positions in the fixture

	fixtureWithPos := `<?xml version="1.0"?>
<TrainingCenterDatabase>
  <Activities>
    <Activity Sport="Biking">
      <Id>2026-05-10T09:00:00Z</Id>
      <Lap StartTime="2026-05-10T09:00:00Z">
        <TotalTimeSeconds>600</TotalTimeSeconds>
        <Track>
          <Trackpoint>
            <Time>2026-05-10T09:00:00Z</Time>
            <Position><LatitudeDegrees>47.6</LatitudeDegrees><LongitudeDegrees>-122.33</LongitudeDegrees></Position>
            <HeartRateBpm><Value>130</Value></HeartRateBpm>
          </Trackpoint>
        </Track>
      </Lap>
    </Activity>
  </Activities>
</TrainingCenterDatabase>`

	relaxed, err = Run([]byte(fixtureWithPos), Options{From: FormatTCX, To: FormatGPX})
	require.NoError(t, err)
	require.Equal(t, diag.OutcomeLoss, relaxed.Outcome)
	require.Equal(t, 1, relaxed.Outcome.ExitCode())

	strict, err := Run([]byte(fixtureWithPos), Options{From: FormatTCX, To: FormatGPX, Strict: true})
	require.NoError(t, err)
	require.Equal(t, diag.OutcomeBlocked, strict.Outcome)
	require.Equal(t, 3, strict.Outcome.ExitCode())

	// Strict mode reclassifies the run; the diagnostics are the same.
	require.Equal(t, len(relaxed.Diagnostics), len(strict.Diagnostics))
	for i := range relaxed.Diagnostics {
		require.Equal(t, relaxed.Diagnostics[i].Category, strict.Diagnostics[i].Category)
		require.Equal(t, relaxed.Diagnostics[i].Message, strict.Diagnostics[i].Message)
	}
}

func TestRunRejectsBinaryTarget(t *testing.T) {
	res, err := Run([]byte(tcxFixture), Options{From: FormatTCX, To: FormatFIT})
	require.Error(t, err)
	require.Equal(t, diag.OutcomeFailed, res.Outcome)
	require.Equal(t, 2, res.Outcome.ExitCode())
}

func TestRunRejectsUndetectableInput(t *testing.T) {
	res, err := Run([]byte("garbage"), Options{To: FormatYAML})
	require.Error(t, err)
	require.Equal(t, diag.OutcomeFailed, res.Outcome)
	require.NotEmpty(t, res.Diagnostics)
}

func TestRunWithValidator(t *testing.T) {
	res, err := Run([]byte(tcxFixture), Options{
		From:      FormatTCX,
		To:        FormatYAML,
		Validator: validate.Structural{},
	})
	require.NoError(t, err)
	require.Equal(t, diag.OutcomeOK, res.Outcome)
}

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"fit":     FormatFIT,
		".FIT":    FormatFIT,
		"tcx":     FormatTCX,
		"yml":     FormatYAML,
		".yaml":   FormatYAML,
		"csv":     FormatCSV,
		"parquet": FormatParquet,
		" gpx ":   FormatGPX,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}
	_, err := ParseFormat("xlsx")
	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	fitHeader := append([]byte{14, 0x20, 0x08, 0, 0, 0, 0, 0}, []byte(".FIT")...)
	f, ok := DetectFormat("mystery", fitHeader)
	require.True(t, ok)
	require.Equal(t, FormatFIT, f)

	f, ok = DetectFormat("", []byte(tcxFixture))
	require.True(t, ok)
	require.Equal(t, FormatTCX, f)

	f, ok = DetectFormat("ride.gpx", nil)
	require.True(t, ok)
	require.Equal(t, FormatGPX, f)

	f, ok = DetectFormat("", []byte("format_version: 1\nactivities: []\n"))
	require.True(t, ok)
	require.Equal(t, FormatYAML, f)

	_, ok = DetectFormat("notes.txt", []byte("plain text"))
	require.False(t, ok)
}

func TestRunBatchPreservesOrder(t *testing.T) {
	items := make([]BatchItem, 6)
	for i := range items {
		items[i] = BatchItem{Name: fmt.Sprintf("ride%d.tcx", i), Data: []byte(tcxFixture)}
	}
	items[3].Data = []byte("broken")

	results := RunBatch(items, Options{To: FormatYAML}, 3)
	require.Len(t, results, len(items))
	for i, r := range results {
		require.Equal(t, items[i].Name, r.Name)
		if i == 3 {
			require.Error(t, r.Err)
			require.Equal(t, diag.OutcomeFailed, r.Result.Outcome)
			continue
		}
		require.NoError(t, r.Err)
		require.Equal(t, diag.OutcomeOK, r.Result.Outcome)
	}
}
