package metrics

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkSummary(t *testing.T) {
	sink := NewSink()
	sink.Record(Metric{Operation: OperationList, Success: true, RTTMs: 40})
	sink.Record(Metric{Operation: OperationDetail, Success: true, RTTMs: 10})
	sink.Record(Metric{Operation: OperationDetail, Success: true, RTTMs: 30})
	sink.Record(Metric{Operation: OperationDetail, Success: false, StatusCode: 500, Error: "unexpected status 500"})
	sink.Record(Metric{Operation: OperationSprite, Success: false, Error: "context deadline exceeded (Client.Timeout exceeded)"})
	sink.Record(Metric{Operation: OperationSprite, Success: false, Error: "dial tcp: connect: connection refused"})

	summary := sink.Summary()
	assert.Equal(t, 6, summary.TotalOperations)
	assert.Equal(t, 3, summary.SuccessfulOps)
	assert.Equal(t, 3, summary.FailedOps)
	assert.Equal(t, 1, summary.HTTPErrors)
	assert.Equal(t, 1, summary.TimeoutCount)
	assert.Equal(t, 1, summary.ConnectionFailures)

	assert.Equal(t, 10.0, summary.MinRTT)
	assert.Equal(t, 40.0, summary.MaxRTT)
	assert.InDelta(t, 26.667, summary.AvgRTT, 0.001)
	assert.Equal(t, 30.0, summary.P50RTT)
	assert.Equal(t, 40.0, summary.P90RTT)
	assert.Equal(t, 40.0, summary.P99RTT)
	assert.Equal(t, 3, summary.RTTBuckets["lt_50ms"])

	detail := summary.ByOperation[OperationDetail]
	require.NotNil(t, detail)
	assert.Equal(t, 3, detail.Count)
	assert.Equal(t, 2, detail.Success)
	assert.Equal(t, 1, detail.Failed)
	assert.Equal(t, 20.0, detail.AvgRTT)
}

func TestSummaryIsACopy(t *testing.T) {
	sink := NewSink()
	sink.Record(Metric{Operation: OperationList, Success: true, RTTMs: 5})

	summary := sink.Summary()
	summary.ByOperation[OperationList].Count = 99
	summary.RTTBuckets["lt_50ms"] = 99

	again := sink.Summary()
	assert.Equal(t, 1, again.ByOperation[OperationList].Count)
	assert.Equal(t, 1, again.RTTBuckets["lt_50ms"])
}

func TestObserveFetch(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sink := NewSink()
	sink.now = func() time.Time { return fixed }

	sink.ObserveFetch("DETAIL", "https://api.test/pokemon/1", 200, 12*time.Millisecond, nil)
	sink.ObserveFetch("SPRITE", "https://img.test/1.png", 404, time.Millisecond, errors.New("unexpected status 404"))

	got := sink.Metrics()
	require.Len(t, got, 2)
	assert.Equal(t, Metric{
		Timestamp:  fixed,
		Operation:  OperationDetail,
		URL:        "https://api.test/pokemon/1",
		Success:    true,
		RTTMs:      12,
		StatusCode: 200,
	}, got[0])
	assert.False(t, got[1].Success)
	assert.Equal(t, "unexpected status 404", got[1].Error)
}

func TestSinkConcurrentRecord(t *testing.T) {
	sink := NewSink()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sink.ObserveFetch("DETAIL", "u", 200, time.Millisecond, nil)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, sink.Summary().TotalOperations)
}

func TestWriterCSVAndJSON(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "metrics.csv")
	jsonPath := filepath.Join(dir, "metrics.json")

	w, err := NewWriter(csvPath, jsonPath)
	require.NoError(t, err)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, w.WriteAll([]Metric{
		{Timestamp: ts, Operation: OperationList, URL: "https://api.test/pokemon/?limit=2", Success: true, RTTMs: 12.5, StatusCode: 200},
		{Timestamp: ts, Operation: OperationDetail, URL: "https://api.test/pokemon/2/", Error: "connection refused"},
	}))
	require.NoError(t, w.Close())

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"2026-01-02T03:04:05Z", "LIST", "https://api.test/pokemon/?limit=2", "true", "12.500", "200", ""}, records[1])
	assert.Equal(t, []string{"2026-01-02T03:04:05Z", "DETAIL", "https://api.test/pokemon/2/", "false", "", "", "connection refused"}, records[2])

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var decoded []Metric
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, OperationDetail, decoded[1].Operation)
}

func TestNewWriterBadPath(t *testing.T) {
	_, err := NewWriter(filepath.Join(t.TempDir(), "missing", "m.csv"), "")
	assert.Error(t, err)
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t, "Total Requests: 0\n", FormatSummary(NewSink().Summary()))

	sink := NewSink()
	sink.Record(Metric{Operation: OperationList, Success: true, RTTMs: 40})
	sink.Record(Metric{Operation: OperationDetail, Success: false, StatusCode: 404})
	out := FormatSummary(sink.Summary())

	assert.Contains(t, out, "Total Requests: 2")
	assert.Contains(t, out, "Successful: 1 (50.0%)")
	assert.Contains(t, out, "HTTP Errors: 1")
	assert.Contains(t, out, "P50: 40.000 ms")
	assert.Contains(t, out, "DETAIL: 1 requests (0 success, 1 failed)")
	assert.Contains(t, out, "LIST: 1 requests (1 success, 0 failed) - RTT: min=40.000ms")
	assert.Less(t, strings.Index(out, "DETAIL:"), strings.Index(out, "LIST:"))
}

