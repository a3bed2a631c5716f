package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kass/geoconv/pkg/convert"
	"github.com/kass/geoconv/pkg/gzd"
	"github.com/kass/geoconv/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"detect", "convert", "batch", "zones", "serve", "bench"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	for _, name := range []string{"config", "log-level", "log-format"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestBatchCommand_Flags(t *testing.T) {
	flag := batchCmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "jsonl", flag.DefValue)
	assert.NotNil(t, batchCmd.Flags().ShorthandLookup("w"))
	assert.NotNil(t, batchCmd.Flags().Lookup("postgis-dsn"))
}

const batchInputText = `52.52, 13.405

33T 500000 4649776
Berlin
32U MV 12345
89, 0
`

func TestRunBatchJSONL(t *testing.T) {
	var out bytes.Buffer
	conv := convert.New(convert.DefaultOptions())
	require.NoError(t, runBatch(context.Background(), strings.NewReader(batchInputText), &out, conv, 3, "jsonl", nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)

	var records []batchRecord
	for _, l := range lines {
		var r batchRecord
		require.NoError(t, json.Unmarshal([]byte(l), &r))
		records = append(records, r)
	}

	assert.Equal(t, []int{1, 3, 4, 5, 6}, []int{records[0].Line, records[1].Line, records[2].Line, records[3].Line, records[4].Line})

	require.NotNil(t, records[0].Result)
	assert.Equal(t, "33U UU 91779 20072", records[0].Result.MGRS)
	require.NotNil(t, records[1].Result)
	assert.Equal(t, "33T", records[1].Result.Zone)
	assert.Nil(t, records[2].Result)
	assert.Contains(t, records[2].Error, "geocoding")
	assert.NotEmpty(t, records[3].Error)
	require.NotNil(t, records[4].Result)
	assert.NotEmpty(t, records[4].Result.Warnings)
}

func TestRunBatchCSV(t *testing.T) {
	var out bytes.Buffer
	conv := convert.New(convert.DefaultOptions())
	require.NoError(t, runBatch(context.Background(), strings.NewReader(batchInputText), &out, conv, 2, "csv", nil))

	rows, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"1", "52.52, 13.405", "geographic", "52.520000", "13.405000", "33U 391779 5820072", "33U UU 91779 20072", "33U", ""}, rows[1])
	assert.Equal(t, "Berlin", rows[3][1])
	assert.NotEmpty(t, rows[3][8])
}

func TestRunBatchErrors(t *testing.T) {
	conv := convert.New(convert.DefaultOptions())

	err := runBatch(context.Background(), strings.NewReader("1, 2"), &bytes.Buffer{}, conv, 1, "xml", nil)
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = runBatch(ctx, strings.NewReader("1, 2\n3, 4"), &bytes.Buffer{}, conv, 1, "jsonl", nil)
	assert.ErrorContains(t, err, "context canceled")
}

type memorySink struct {
	results []convert.Result
	err     error
}

func (m *memorySink) Insert(_ context.Context, results []convert.Result) error {
	m.results = append(m.results, results...)
	return m.err
}

func TestRunBatchSink(t *testing.T) {
	conv := convert.New(convert.DefaultOptions())

	sink := &memorySink{}
	require.NoError(t, runBatch(context.Background(), strings.NewReader(batchInputText), &bytes.Buffer{}, conv, 2, "jsonl", sink))
	require.Len(t, sink.results, 3)
	assert.Equal(t, "52.52, 13.405", sink.results[0].Input)
	assert.Equal(t, "89, 0", sink.results[2].Input)

	var out bytes.Buffer
	failing := &memorySink{err: errors.New("connection refused")}
	err := runBatch(context.Background(), strings.NewReader("1, 2"), &out, conv, 1, "jsonl", failing)
	assert.ErrorContains(t, err, "connection refused")
	assert.Empty(t, out.String())
}

func TestWriteResult(t *testing.T) {
	res, err := convert.Convert("52.52, 13.405")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, res, "text"))
	assert.Contains(t, buf.String(), "MGRS:        33U UU 91779 20072")
	assert.Contains(t, buf.String(), "Input:       52.52, 13.405 (geographic)")

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, "wkt"))
	assert.True(t, strings.HasPrefix(buf.String(), "POINT"))

	buf.Reset()
	require.NoError(t, writeResult(&buf, res, "json"))
	assert.Contains(t, buf.String(), `"zone": "33U"`)

	for _, output := range []string{"yaml", "geojson"} {
		buf.Reset()
		require.NoError(t, writeResult(&buf, res, output))
		assert.NotEmpty(t, buf.String())
	}

	assert.Error(t, writeResult(&buf, res, "kml"))
}

func TestWriteTextColour(t *testing.T) {
	assert.Equal(t, plain, terminalPalette(&bytes.Buffer{}))

	res, err := convert.Convert("89, 0")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeText(&buf, res, ansi))
	assert.Contains(t, buf.String(), ansi.label+"Decimal:")
	assert.Contains(t, buf.String(), ansi.warn+"Warning:")
	assert.Contains(t, buf.String(), ansi.reset)
}

func TestLookupZones(t *testing.T) {
	idx := gzd.Default()

	zones, err := lookupZones(idx, "", `59°54'N 5°30'E`)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, "32V", zones[0].Designator())

	zones, err = lookupZones(idx, "6,47,15,55", "")
	require.NoError(t, err)
	assert.Len(t, zones, 4)

	zones, err = lookupZones(idx, "", "")
	require.NoError(t, err)
	assert.Len(t, zones, 1197)

	_, err = lookupZones(idx, "", "89, 0")
	assert.Error(t, err)
	_, err = lookupZones(idx, "15,47,6,55", "")
	assert.ErrorIs(t, err, models.ErrMalformedInput)

	var buf bytes.Buffer
	require.NoError(t, writeZones(&buf, zones[:2], "text"))
	assert.Equal(t, 2, strings.Count(buf.String(), "\n"))
	assert.Error(t, writeZones(&buf, zones, "kml"))
}

func TestRunBenchmark(t *testing.T) {
	stats, err := runBenchmark(context.Background(), 300, 4, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(300), stats.Points)
	assert.Zero(t, stats.Failures)
	assert.Less(t, stats.MaxUTMError, 1.0)
	assert.Less(t, stats.MaxMGRSError, 1.5)

	// more workers than points
	stats, err = runBenchmark(context.Background(), 3, 8, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Points)
}

func TestDistance(t *testing.T) {
	a := models.GeographicCoordinate{Lat: 0, Lon: 0}
	assert.InDelta(t, 111195, distance(a, models.GeographicCoordinate{Lat: 1, Lon: 0}), 1)
	assert.Zero(t, distance(a, a))
}
