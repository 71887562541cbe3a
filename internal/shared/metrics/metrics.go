package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

var (
	started   = newCounterVec()
	succeeded = newCounterVec()
	failed    = newCounterVec()

	pipelineDuration = newHistogram([]float64{1000, 2500, 5000, 10000, 20000, 30000, 60000, 120000})
	compileDuration  = newHistogram([]float64{250, 500, 1000, 2000, 5000, 10000, 30000})
)

// IncStarted counts a generate or edit request entering the pipeline.
func IncStarted(kind string) { started.inc(kind) }

// IncSucceeded counts a completed pipeline run.
func IncSucceeded(kind string) { succeeded.inc(kind) }

// IncFailed counts a failed pipeline run by the stage that failed.
func IncFailed(kind, stage string) { failed.inc(kind + "|" + stage) }

// ObservePipelineMs records the end-to-end duration of one run.
func ObservePipelineMs(value float64) { pipelineDuration.Observe(clamp(value)) }

// ObserveCompileMs records a LaTeX compiler invocation.
func ObserveCompileMs(value float64) { compileDuration.Observe(clamp(value)) }

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounterVec(&buf, "resume_generations_started_total", "Pipeline runs started", []string{"kind"}, started.snapshot())
	writeCounterVec(&buf, "resume_generations_succeeded_total", "Pipeline runs completed", []string{"kind"}, succeeded.snapshot())
	writeCounterVec(&buf, "resume_generations_failed_total", "Pipeline runs failed", []string{"kind", "stage"}, failed.snapshot())
	writeHistogram(&buf, "resume_pipeline_duration_ms", "Pipeline duration in milliseconds", pipelineDuration.Snapshot())
	writeHistogram(&buf, "resume_compile_duration_ms", "LaTeX compile duration in milliseconds", compileDuration.Snapshot())
	return buf.String()
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

type counterVec struct {
	mu     sync.Mutex
	values map[string]uint64
}

func newCounterVec() *counterVec {
	return &counterVec{values: make(map[string]uint64)}
}

func (v *counterVec) inc(key string) {
	v.mu.Lock()
	v.values[key]++
	v.mu.Unlock()
}

func (v *counterVec) snapshot() map[string]uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make(map[string]uint64, len(v.values))
	for k, n := range v.values {
		out[k] = n
	}
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe adds a value to the first bucket that holds it; Render accumulates.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounterVec(buf *bytes.Buffer, name, help string, labels []string, values map[string]uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(buf, "%s{%s} %d\n", name, labelPairs(labels, k), values[k])
	}
}

func labelPairs(labels []string, key string) string {
	parts := splitKey(key, len(labels))
	var b bytes.Buffer
	for i, label := range labels {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%q", label, parts[i])
	}
	return b.String()
}

func splitKey(key string, n int) []string {
	out := make([]string, n)
	idx := 0
	start := 0
	for i := 0; i < len(key) && idx < n-1; i++ {
		if key[i] == '|' {
			out[idx] = key[start:i]
			idx++
			start = i + 1
		}
	}
	out[idx] = key[start:]
	return out
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
