package hooks

import (
	"testing"
	"time"

	"github.com/Skryldev/imagegraph/graph"
)

type recordingLogger struct {
	debugs, errors int
}

func (r *recordingLogger) Debug(msg string, fields ...interface{}) { r.debugs++ }
func (r *recordingLogger) Info(msg string, fields ...interface{})  {}
func (r *recordingLogger) Warn(msg string, fields ...interface{})  {}
func (r *recordingLogger) Error(msg string, fields ...interface{}) { r.errors++ }

func TestLoggingHookLogsStartAndDone(t *testing.T) {
	l := &recordingLogger{}
	h := NewLoggingHook(l)
	h.BeforeNode(1, 0, graph.NTScale)
	h.AfterNode(1, 0, graph.NTScale, time.Millisecond, nil)
	if l.debugs != 2 {
		t.Fatalf("expected 2 debug logs (start+done), got %d", l.debugs)
	}
	if l.errors != 0 {
		t.Fatalf("expected no error logs on success, got %d", l.errors)
	}
}

func TestLoggingHookLogsErrorOnFailure(t *testing.T) {
	l := &recordingLogger{}
	h := NewLoggingHook(l)
	h.AfterNode(1, 0, graph.NTScale, time.Millisecond, errOops)
	if l.errors != 1 {
		t.Fatalf("expected 1 error log, got %d", l.errors)
	}
}

var errOops = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }

func TestMetricsHookAccumulatesDurationsAndErrors(t *testing.T) {
	m := NewInMemoryMetrics()
	h := NewMetricsHook(m)

	h.AfterNode(1, 0, graph.NTScale, 10*time.Millisecond, nil)
	h.AfterNode(1, 1, graph.NTScale, 20*time.Millisecond, nil)
	h.AfterNode(1, 2, graph.NTCrop, 5*time.Millisecond, errOops)

	snap := m.Snapshot()
	if snap.NodeCalls["scale"] != 2 {
		t.Fatalf("expected 2 scale calls recorded, got %d", snap.NodeCalls["scale"])
	}
	if snap.NodeDurationsUs["scale"] != 30000 {
		t.Fatalf("expected 30000us total for scale, got %d", snap.NodeDurationsUs["scale"])
	}
	if snap.NodeErrors["crop"] != 1 {
		t.Fatalf("expected 1 crop error recorded, got %d", snap.NodeErrors["crop"])
	}
}

func TestInMemoryMetricsRecordsPassCounts(t *testing.T) {
	m := NewInMemoryMetrics()
	m.RecordPassCount(1, 3)
	m.RecordPassCount(2, 5)
	if len(m.passCounts) != 2 || m.passCounts[0] != 3 || m.passCounts[1] != 5 {
		t.Fatalf("expected pass counts [3 5], got %v", m.passCounts)
	}
	_ = m.Snapshot()
}
