package debugdump

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/graph"
)

func TestRecordPassWritesDotAndFrames(t *testing.T) {
	dir := t.TempDir()
	rec, err := New(dir, 99)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	g := graph.New()
	canvas, _ := g.CreateNode(graph.NTCreateCanvas, 0)
	bm, _ := bitmap.New(2, 2, bitmap.FormatBGRA32)
	g.Nodes[canvas].Result = bm
	sink, _ := g.CreateNode(graph.NTFlipHorizontalMutate, 0)
	g.CreateEdge(canvas, sink, graph.EdgeInput)

	rec.RecordPass(g, 0)

	dotPath := filepath.Join(dir, "job_99_graph_version_0.dot")
	if _, err := os.Stat(dotPath); err != nil {
		t.Fatalf("expected dot file: %v", err)
	}
	framePath := filepath.Join(dir, "node_frames", "job_99_node_0.png")
	if _, err := os.Stat(framePath); err != nil {
		t.Fatalf("expected frame png for the node with a Result: %v", err)
	}
	// sink has no Result yet, so it must not get a frame file.
	if _, err := os.Stat(filepath.Join(dir, "node_frames", "job_99_node_1.png")); err == nil {
		t.Fatalf("did not expect a frame for a node without a Result")
	}
}

func TestRecordPassStopsAfterMaxVersions(t *testing.T) {
	dir := t.TempDir()
	rec, err := New(dir, 1)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	g := graph.New()
	g.CreateNode(graph.NTCreateCanvas, 0)

	for i := 0; i < maxVersions+5; i++ {
		rec.RecordPass(g, i)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	dotCount := 0
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".dot" {
			dotCount++
		}
	}
	if dotCount != maxVersions {
		t.Fatalf("expected recording to stop at %d versions, got %d dot files", maxVersions, dotCount)
	}
}
