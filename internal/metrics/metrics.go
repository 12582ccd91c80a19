package metrics

// Metrics collection for upstream API calls

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// OperationType names the kind of upstream call.
type OperationType string

const (
	OperationList   OperationType = "LIST"
	OperationDetail OperationType = "DETAIL"
	OperationSprite OperationType = "SPRITE"
)

// Metric is one upstream call.
type Metric struct {
	Timestamp  time.Time
	Operation  OperationType
	URL        string
	Success    bool
	RTTMs      float64
	StatusCode int
	Error      string
}

// Sink collects and aggregates metrics. It is safe for concurrent use and
// satisfies the API client's observer hook.
type Sink struct {
	mu      sync.RWMutex
	metrics []Metric
	summary *Summary
	now     func() time.Time
}

// Summary contains aggregated statistics
type Summary struct {
	TotalOperations    int
	SuccessfulOps      int
	FailedOps          int
	TimeoutCount       int
	ConnectionFailures int
	HTTPErrors         int
	MinRTT             float64
	MaxRTT             float64
	AvgRTT             float64
	P50RTT             float64
	P90RTT             float64
	P99RTT             float64
	RTTBuckets         map[string]int
	ByOperation        map[OperationType]*OperationStats
}

// OperationStats contains statistics for one operation type
type OperationStats struct {
	Count   int
	Success int
	Failed  int
	MinRTT  float64
	MaxRTT  float64
	AvgRTT  float64
	SumRTT  float64
}

func newSummary() *Summary {
	return &Summary{
		RTTBuckets:  make(map[string]int),
		ByOperation: make(map[OperationType]*OperationStats),
	}
}

// NewSink creates a new metrics sink
func NewSink() *Sink {
	return &Sink{
		metrics: make([]Metric, 0),
		summary: newSummary(),
		now:     time.Now,
	}
}

// ObserveFetch records one upstream call.
func (s *Sink) ObserveFetch(op, url string, status int, rtt time.Duration, err error) {
	m := Metric{
		Timestamp:  s.now(),
		Operation:  OperationType(op),
		URL:        url,
		Success:    err == nil,
		RTTMs:      float64(rtt) / float64(time.Millisecond),
		StatusCode: status,
	}
	if err != nil {
		m.Error = err.Error()
	}
	s.Record(m)
}

// Record records a new metric
func (s *Sink) Record(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, m)
	s.updateSummary(m)
}

// Metrics returns a copy of all recorded metrics
func (s *Sink) Metrics() []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Metric, len(s.metrics))
	copy(out, s.metrics)
	return out
}

// Summary returns a deep copy of the aggregated summary with percentiles
// computed over the recorded RTTs.
func (s *Sink) Summary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := *s.summary
	summary.RTTBuckets = make(map[string]int, len(s.summary.RTTBuckets))
	for k, v := range s.summary.RTTBuckets {
		summary.RTTBuckets[k] = v
	}
	summary.ByOperation = make(map[OperationType]*OperationStats, len(s.summary.ByOperation))
	for op, stats := range s.summary.ByOperation {
		cp := *stats
		summary.ByOperation[op] = &cp
	}

	rtts := make([]float64, 0, len(s.metrics))
	for _, m := range s.metrics {
		if m.Success && m.RTTMs > 0 {
			rtts = append(rtts, m.RTTMs)
		}
	}
	p := computePercentiles(rtts)
	summary.P50RTT, summary.P90RTT, summary.P99RTT = p[0], p[1], p[2]
	return &summary
}

func (s *Sink) updateSummary(m Metric) {
	s.summary.TotalOperations++

	if m.Success {
		s.summary.SuccessfulOps++
	} else {
		s.summary.FailedOps++
		lower := strings.ToLower(m.Error)
		switch {
		case m.StatusCode != 0:
			s.summary.HTTPErrors++
		case strings.Contains(lower, "timeout") || strings.Contains(lower, "deadline"):
			s.summary.TimeoutCount++
		case strings.Contains(lower, "connect") || strings.Contains(lower, "no such host"):
			s.summary.ConnectionFailures++
		}
	}

	if m.Success && m.RTTMs > 0 {
		if s.summary.MinRTT == 0 || m.RTTMs < s.summary.MinRTT {
			s.summary.MinRTT = m.RTTMs
		}
		if m.RTTMs > s.summary.MaxRTT {
			s.summary.MaxRTT = m.RTTMs
		}
		total := s.summary.AvgRTT * float64(s.summary.SuccessfulOps-1)
		s.summary.AvgRTT = (total + m.RTTMs) / float64(s.summary.SuccessfulOps)
		incrementBucket(s.summary.RTTBuckets, m.RTTMs)
	}

	opStats, ok := s.summary.ByOperation[m.Operation]
	if !ok {
		opStats = &OperationStats{}
		s.summary.ByOperation[m.Operation] = opStats
	}
	opStats.Count++
	if !m.Success {
		opStats.Failed++
		return
	}
	opStats.Success++
	if m.RTTMs > 0 {
		if opStats.MinRTT == 0 || m.RTTMs < opStats.MinRTT {
			opStats.MinRTT = m.RTTMs
		}
		if m.RTTMs > opStats.MaxRTT {
			opStats.MaxRTT = m.RTTMs
		}
		opStats.SumRTT += m.RTTMs
		opStats.AvgRTT = opStats.SumRTT / float64(opStats.Success)
	}
}

func incrementBucket(buckets map[string]int, value float64) {
	switch {
	case value < 50:
		buckets["lt_50ms"]++
	case value < 100:
		buckets["50_100ms"]++
	case value < 250:
		buckets["100_250ms"]++
	case value < 500:
		buckets["250_500ms"]++
	case value < 1000:
		buckets["500_1000ms"]++
	default:
		buckets["gt_1s"]++
	}
}

func computePercentiles(values []float64) [3]float64 {
	var result [3]float64
	if len(values) == 0 {
		return result
	}
	sort.Float64s(values)
	result[0] = percentile(values, 0.50)
	result[1] = percentile(values, 0.90)
	result[2] = percentile(values, 0.99)
	return result
}

// nearest-rank
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
