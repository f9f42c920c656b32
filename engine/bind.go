package engine

import (
	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/graph"
	"github.com/Skryldev/imagegraph/job"
	"github.com/Skryldev/imagegraph/nodedef"
)

// findPlaceholder returns the first live NTResourcePlaceholder node
// carrying the given caller-assigned id, or -1. placeholderID == -1
// matches the first placeholder of any id, mirroring
// flow_job_find_first_node_with_placeholder_id's placeholder_id==-1 case.
func findPlaceholder(g *graph.Graph, placeholderID int32) int {
	for id := range g.Nodes {
		if !g.IsLiveNode(id) || g.Nodes[id].Type != graph.NTResourcePlaceholder {
			continue
		}
		if placeholderID == -1 {
			return id
		}
		info := nodedef.UnmarshalResourcePlaceholder(g.InfoBytesFor(id))
		if info.GraphPlaceholderID == placeholderID {
			return id
		}
	}
	return -1
}

// BindResources replaces every NTResourcePlaceholder node bound to a
// job.Resource of KindBitmap with a concrete NTBitmapBGRAPointer node,
// splicing its edges in place — the analogue of
// flow_job_insert_resources_into_graph. Resources of KindBuffer/KindFile
// are consumed directly by NTDecoder/NTEncoder's own
// GraphPlaceholderID field and never need this rewrite.
func BindResources(g *graph.Graph, resources []*job.Resource) error {
	for _, r := range resources {
		if r.Kind != job.KindBitmap {
			continue
		}
		for {
			match := findPlaceholder(g, int32(r.GraphPlaceholderID))
			if match < 0 {
				break
			}
			replacement, err := g.CreateNode(graph.NTBitmapBGRAPointer, 4)
			if err != nil {
				return err
			}
			nodedef.InfoResourcePlaceholder{GraphPlaceholderID: int32(r.GraphPlaceholderID)}.Marshal(g.InfoBytesFor(replacement))
			if err := g.DuplicateEdgesToAnotherNode(match, replacement, true, true); err != nil {
				return err
			}
			g.DeleteNode(match)
			r.PlaceholderID = replacement
		}
	}
	if findPlaceholder(g, -1) >= 0 {
		return apperrors.New(apperrors.KindGraphCouldNotBeCompleted, "engine.bind_resources", apperrors.ErrEmptyInput)
	}
	return nil
}
