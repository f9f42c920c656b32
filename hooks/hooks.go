// Package hooks provides production-ready Logger and NodeHook
// implementations, adapted from the teacher's hooks package but
// retargeted to per-node execution events (spec §4.H) instead of
// per-pipeline-step events.
package hooks

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Skryldev/imagegraph/graph"
)

// Logger is a minimal structured logging interface, kept independent of
// slog so callers can plug in any backend the rest of the pack uses.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
}

// SlogLogger wraps the standard library slog.Logger to satisfy Logger.
type SlogLogger struct {
	log *slog.Logger
}

// NewSlogLogger creates a logger backed by slog.
func NewSlogLogger(l *slog.Logger) *SlogLogger { return &SlogLogger{log: l} }

func (s *SlogLogger) Debug(msg string, fields ...interface{}) { s.log.Debug(msg, fields...) }
func (s *SlogLogger) Info(msg string, fields ...interface{})  { s.log.Info(msg, fields...) }
func (s *SlogLogger) Warn(msg string, fields ...interface{})  { s.log.Warn(msg, fields...) }
func (s *SlogLogger) Error(msg string, fields ...interface{}) { s.log.Error(msg, fields...) }

// NodeHook is an optional observer invoked around each node's execute
// callback, the per-node analogue of the teacher's pipeline Hook.
type NodeHook interface {
	BeforeNode(jobID uint64, nodeID int, nodeType graph.NodeType)
	AfterNode(jobID uint64, nodeID int, nodeType graph.NodeType, d time.Duration, err error)
}

// LoggingHook logs before/after each node execution.
type LoggingHook struct {
	logger Logger
}

// NewLoggingHook creates a LoggingHook.
func NewLoggingHook(l Logger) *LoggingHook { return &LoggingHook{logger: l} }

func (h *LoggingHook) BeforeNode(jobID uint64, nodeID int, nodeType graph.NodeType) {
	h.logger.Debug("node.execute.start", "job_id", jobID, "node_id", nodeID, "type", nodeType.String())
}

func (h *LoggingHook) AfterNode(jobID uint64, nodeID int, nodeType graph.NodeType, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("node.execute.error",
			"job_id", jobID, "node_id", nodeID, "type", nodeType.String(),
			"duration_us", d.Microseconds(), "error", err.Error())
		return
	}
	h.logger.Debug("node.execute.done",
		"job_id", jobID, "node_id", nodeID, "type", nodeType.String(),
		"duration_us", d.Microseconds())
}

// MetricsCollector receives performance observations from the engine.
type MetricsCollector interface {
	RecordNodeDuration(nodeType string, d time.Duration)
	RecordNodeError(nodeType string)
	RecordPassCount(jobID uint64, passes int)
}

// InMemoryMetrics accumulates metrics under a sync.RWMutex; safe for
// concurrent use.
type InMemoryMetrics struct {
	mu sync.RWMutex

	nodeDurationsUs map[string]int64
	nodeCalls       map[string]int64
	nodeErrors      map[string]int64
	passCounts      []int
}

// NewInMemoryMetrics creates an empty metrics store.
func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{
		nodeDurationsUs: make(map[string]int64),
		nodeCalls:       make(map[string]int64),
		nodeErrors:      make(map[string]int64),
	}
}

func (m *InMemoryMetrics) RecordNodeDuration(nodeType string, d time.Duration) {
	m.mu.Lock()
	m.nodeDurationsUs[nodeType] += d.Microseconds()
	m.nodeCalls[nodeType]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordNodeError(nodeType string) {
	m.mu.Lock()
	m.nodeErrors[nodeType]++
	m.mu.Unlock()
}

func (m *InMemoryMetrics) RecordPassCount(jobID uint64, passes int) {
	m.mu.Lock()
	m.passCounts = append(m.passCounts, passes)
	m.mu.Unlock()
}

// Snapshot returns a copy of current metrics.
func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snap := MetricsSnapshot{
		NodeDurationsUs: make(map[string]int64, len(m.nodeDurationsUs)),
		NodeCalls:       make(map[string]int64, len(m.nodeCalls)),
		NodeErrors:      make(map[string]int64, len(m.nodeErrors)),
	}
	for k, v := range m.nodeDurationsUs {
		snap.NodeDurationsUs[k] = v
	}
	for k, v := range m.nodeCalls {
		snap.NodeCalls[k] = v
	}
	for k, v := range m.nodeErrors {
		snap.NodeErrors[k] = v
	}
	return snap
}

// MetricsSnapshot is an immutable point-in-time copy of metrics.
type MetricsSnapshot struct {
	NodeDurationsUs map[string]int64
	NodeCalls       map[string]int64
	NodeErrors      map[string]int64
}

// MetricsHook feeds node execution events into a MetricsCollector.
type MetricsHook struct {
	collector MetricsCollector
}

// NewMetricsHook creates a MetricsHook.
func NewMetricsHook(c MetricsCollector) *MetricsHook { return &MetricsHook{collector: c} }

func (h *MetricsHook) BeforeNode(uint64, int, graph.NodeType) {}

func (h *MetricsHook) AfterNode(_ uint64, _ int, nodeType graph.NodeType, d time.Duration, err error) {
	h.collector.RecordNodeDuration(nodeType.String(), d)
	if err != nil {
		h.collector.RecordNodeError(nodeType.String())
	}
}
