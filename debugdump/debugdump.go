// Package debugdump implements the optional per-pass graph/frame
// snapshotting of spec.md §6: ".dot files and .png frame snapshots under
// working directory paths job_<N>_graph_version_<V>.dot and
// node_frames/job_<N>_node_<ID>.png (up to 100 versions); production
// should disable these." It implements engine.Recorder so Context.Execute
// can drive it with zero coupling when recording is disabled (a nil
// Recorder, the default).
package debugdump

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/Skryldev/imagegraph/graph"
)

const maxVersions = 100

// Recorder writes one .dot graph snapshot and one .png frame per live
// primitive node with a Result, per engine pass.
type Recorder struct {
	Dir      string
	JobID    uint64
	versions int
}

// New creates a Recorder rooted at dir for the given job id. dir is
// created if it doesn't already exist.
func New(dir string, jobID uint64) (*Recorder, error) {
	if err := os.MkdirAll(filepath.Join(dir, "node_frames"), 0o755); err != nil {
		return nil, fmt.Errorf("debugdump: mkdir %s: %w", dir, err)
	}
	return &Recorder{Dir: dir, JobID: jobID}, nil
}

// RecordPass implements engine.Recorder.
func (r *Recorder) RecordPass(g *graph.Graph, pass int) {
	if r.versions >= maxVersions {
		return
	}
	r.versions++

	dotPath := filepath.Join(r.Dir, fmt.Sprintf("job_%d_graph_version_%d.dot", r.JobID, pass))
	if err := writeDot(dotPath, g); err != nil {
		return
	}

	for id := range g.Nodes {
		n := &g.Nodes[id]
		if !g.IsLiveNode(id) || n.Result == nil {
			continue
		}
		framePath := filepath.Join(r.Dir, "node_frames", fmt.Sprintf("job_%d_node_%d.png", r.JobID, id))
		writeFrame(framePath, n)
	}
}

func writeDot(path string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintln(f, "digraph graph_version {")
	for id := range g.Nodes {
		n := &g.Nodes[id]
		if !g.IsLiveNode(id) {
			continue
		}
		fmt.Fprintf(f, "  n%d [label=\"%d: %s\\nstate=%v\"];\n", id, id, n.Type.String(), n.State)
	}
	for i := range g.Edges {
		e := &g.Edges[i]
		if !g.IsLiveEdge(i) {
			continue
		}
		style := "solid"
		if e.Kind == graph.EdgeCanvas {
			style = "dashed"
		}
		fmt.Fprintf(f, "  n%d -> n%d [style=%s];\n", e.From, e.To, style)
	}
	fmt.Fprintln(f, "}")
	return nil
}

func writeFrame(path string, n *graph.Node) {
	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()
	_ = png.Encode(f, n.Result.ToImage())
}
