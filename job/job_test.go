package job

import "testing"

func TestNewSetsDefaultMaxPasses(t *testing.T) {
	j := New(1)
	if j.MaxPasses != defaultMaxPasses {
		t.Fatalf("expected default MaxPasses %d, got %d", defaultMaxPasses, j.MaxPasses)
	}
	if j.Graph == nil {
		t.Fatalf("expected a non-nil graph")
	}
}

func TestAddResourceBumpsGraphVersionAndIsFindable(t *testing.T) {
	j := New(1)
	before := j.GraphVersion
	j.AddResource(&Resource{Kind: KindBuffer, GraphPlaceholderID: 5, Buffer: []byte("hi")})
	if j.GraphVersion != before+1 {
		t.Fatalf("expected GraphVersion to increment, got %d -> %d", before, j.GraphVersion)
	}
	r := j.FindResourceByPlaceholder(5)
	if r == nil || string(r.Buffer) != "hi" {
		t.Fatalf("expected to find the resource registered under placeholder 5, got %+v", r)
	}
	if j.FindResourceByPlaceholder(999) != nil {
		t.Fatalf("expected no resource for an unregistered placeholder id")
	}
}

func TestFindResourceByNode(t *testing.T) {
	j := New(1)
	j.AddResource(&Resource{PlaceholderID: 3, GraphPlaceholderID: 1})
	if j.FindResourceByNode(3) == nil {
		t.Fatalf("expected to find the resource bound to node id 3")
	}
	if j.FindResourceByNode(4) != nil {
		t.Fatalf("expected no resource bound to node id 4")
	}
}

func TestTouchBumpsGraphVersionWithoutAddingResource(t *testing.T) {
	j := New(1)
	before := j.GraphVersion
	j.Touch()
	if j.GraphVersion != before+1 {
		t.Fatalf("expected Touch to bump GraphVersion")
	}
	if len(j.Resources) != 0 {
		t.Fatalf("expected Touch not to add a resource")
	}
}
