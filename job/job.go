// Package job implements the Job/Resource model of spec §3 "Job": the
// externally-visible unit of work bound to exactly one graph and one
// jobctx.Context (design note, non-goal "no concurrent multiple graphs
// within one job context").
package job

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/bitmap"
	"github.com/Skryldev/imagegraph/graph"
)

// Direction distinguishes a resource bound for graph input from one
// collecting graph output.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// Kind identifies the backing medium of a Resource.
type Kind int

const (
	KindBuffer Kind = iota // caller-owned in-memory byte buffer
	KindBitmap             // caller-owned pre-decoded bitmap
	KindFile               // named object on a storage.Adapter
)

// CodecState tracks the lazy, at-most-once codec instantiation for a
// resource (spec §4.A "decoder/encoder state is created once per resource
// and reused for the lifetime of the job").
type CodecState int

const (
	CodecStateUnopened CodecState = iota
	CodecStateOpen
	CodecStateClosed
)

// Resource is a job-owned handle binding external bytes/bitmaps to a
// ResourcePlaceholder node in the graph (spec §4.A/§4.G "resource
// insertion").
type Resource struct {
	Direction         Direction
	Kind              Kind
	PlaceholderID     int // graph node id of the NTBitmapBGRAPointer that BindResources splices in for this resource
	GraphPlaceholderID int // caller-assigned logical id, stable across AddInputBuffer/AddOutputBuffer calls
	Codec             CodecState

	Buffer []byte         // KindBuffer
	Path   string         // KindFile: storage key/path
	Bitmap *bitmap.Bitmap // KindBitmap: caller-owned, already decoded

	// Format is the target container for an output resource (e.g.
	// "jpeg", "png"), a string so this package stays ignorant of the
	// codec package's concrete Format type.
	Format string
}

// Job is one unit of work: a graph plus the resources bound to its
// ResourcePlaceholder nodes. GraphVersion increments on every structural
// edit, invalidating any cached walk order (spec §4.B).
type Job struct {
	ID           uint64
	Graph        *graph.Graph
	Resources    []*Resource
	GraphVersion int

	// MaxPasses bounds the engine's flatten/optimize fixpoint loop before
	// it gives up with MaximumGraphPassesExceeded (spec §4.E). Default 6,
	// matching the original engine's hardcoded ceiling.
	MaxPasses int

	// RecordingEnabled gates per-pass debug snapshotting (package
	// debugdump); off by default, since recording is a diagnostic,
	// never a correctness, concern.
	RecordingEnabled bool
}

const defaultMaxPasses = 6

// New returns a Job wrapping a fresh, empty Graph.
func New(id uint64) *Job {
	return &Job{
		ID:        id,
		Graph:     graph.New(),
		MaxPasses: defaultMaxPasses,
	}
}

// AddResource appends a resource and bumps GraphVersion, since binding a
// resource always adds or rewires at least one node.
func (j *Job) AddResource(r *Resource) {
	j.Resources = append(j.Resources, r)
	j.GraphVersion++
}

// FindResourceByPlaceholder returns the resource bound to the given
// caller-assigned placeholder id, or nil.
func (j *Job) FindResourceByPlaceholder(graphPlaceholderID int) *Resource {
	for _, r := range j.Resources {
		if r.GraphPlaceholderID == graphPlaceholderID {
			return r
		}
	}
	return nil
}

// FindResourceByNode returns the resource bound to the given graph node
// id, or nil.
func (j *Job) FindResourceByNode(nodeID int) *Resource {
	for _, r := range j.Resources {
		if r.PlaceholderID == nodeID {
			return r
		}
	}
	return nil
}

// Touch bumps GraphVersion, called by any engine phase that mutates the
// graph's node/edge arrays out from under this job.
func (j *Job) Touch() { j.GraphVersion++ }

// ErrNoSuchPlaceholder is returned when a caller references a graph
// placeholder id with no bound resource.
var ErrNoSuchPlaceholder = apperrors.New(apperrors.KindInvalidArgument, "job.resolve_placeholder", apperrors.ErrEmptyInput)
