package registry

import "testing"

func TestParseNode(t *testing.T) {
	id, meta, ok := parseNode(Prefix+"node-1", []byte(`{"addr":"10.0.0.1:50051","cpu":12.5,"ram":40,"rooms":3}`))
	if !ok {
		t.Fatal("expected parseNode to succeed")
	}
	if id != "node-1" {
		t.Fatalf("expected id node-1, got %q", id)
	}
	if meta.Addr != "10.0.0.1:50051" || meta.CPUPercent != 12.5 || meta.Rooms != 3 {
		t.Fatalf("unexpected metadata: %+v", meta)
	}
}

func TestParseNodeRejectsEmptyID(t *testing.T) {
	if _, _, ok := parseNode(Prefix, []byte(`{}`)); ok {
		t.Fatal("expected parseNode to reject a key with no id suffix")
	}
}

func TestParseNodeRejectsInvalidJSON(t *testing.T) {
	if _, _, ok := parseNode(Prefix+"node-1", []byte(`not json`)); ok {
		t.Fatal("expected parseNode to reject invalid JSON")
	}
}

func TestRegistryLeastLoadedEmpty(t *testing.T) {
	r := &Registry{nodes: make(map[string]NodeMetadata)}
	if _, _, ok := r.LeastLoaded(); ok {
		t.Fatal("expected LeastLoaded to report no nodes when empty")
	}
}

func TestRegistryLeastLoadedPicksLowestCPU(t *testing.T) {
	r := &Registry{nodes: map[string]NodeMetadata{
		"a": {CPUPercent: 80},
		"b": {CPUPercent: 15},
		"c": {CPUPercent: 42},
	}}

	id, meta, ok := r.LeastLoaded()
	if !ok || id != "b" || meta.CPUPercent != 15 {
		t.Fatalf("expected node b with cpu 15, got id=%q meta=%+v ok=%v", id, meta, ok)
	}
}
