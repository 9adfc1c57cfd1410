package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	ideasCreatedTotal  atomic.Uint64
	ideasRejectedTotal atomic.Uint64
	ideasNotFoundTotal atomic.Uint64
	storeErrorsTotal   atomic.Uint64

	storeOpDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 5000})
)

// IncIdeasCreated increments the created counter.
func IncIdeasCreated() {
	ideasCreatedTotal.Add(1)
}

// IncIdeasRejected increments the validation rejection counter.
func IncIdeasRejected() {
	ideasRejectedTotal.Add(1)
}

// IncIdeasNotFound increments the lookup miss counter.
func IncIdeasNotFound() {
	ideasNotFoundTotal.Add(1)
}

// IncStoreErrors increments the store failure counter.
func IncStoreErrors() {
	storeErrorsTotal.Add(1)
}

// ObserveStoreSince records the time elapsed since start as a store operation duration.
func ObserveStoreSince(start time.Time) {
	value := float64(time.Since(start).Microseconds()) / 1000.0
	if value < 0 {
		value = 0
	}
	storeOpDuration.Observe(value)
}

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
	writeCounter(&buf, "ideas_created_total", "Total idea submissions stored", ideasCreatedTotal.Load())
	writeCounter(&buf, "ideas_rejected_total", "Total idea submissions rejected by validation", ideasRejectedTotal.Load())
	writeCounter(&buf, "ideas_not_found_total", "Total lookups for unknown ideas", ideasNotFoundTotal.Load())
	writeCounter(&buf, "store_errors_total", "Total failed store operations", storeErrorsTotal.Load())
	writeHistogram(&buf, "store_op_duration_ms", "Store operation duration in milliseconds", storeOpDuration.Snapshot())
	return buf.String()
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

// Observe counts value in the first bucket whose bound covers it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
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
