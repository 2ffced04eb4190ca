package ops_test

import (
	"encoding/json"
	"errors"
	"testing"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/google/go-cmp/cmp"

	"github.com/boardkit/boardsync"
	"github.com/boardkit/boardsync/ops"
	"github.com/boardkit/boardsync/snapshot"
)

func patchBase(t *testing.T) *snapshot.Board {
	t.Helper()
	b, err := snapshot.Decode([]byte(`{
		"name": "Sprint 12",
		"backgroundImage": "bg.png",
		"pluginData": {"theme": "dark", "a/b~c": 1},
		"columns": [
			{"id": "c1", "title": "Todo", "pluginData": {}, "cards": [{"id": "k1"}]},
			{"id": "c2", "title": "Doing", "pluginData": {}, "cards": []},
			{"id": "c3", "title": "Done", "pluginData": {"wip": 3}, "cards": []}
		]
	}`))
	if err != nil {
		t.Fatalf("decode base: %v", err)
	}
	return b
}

// The exported RFC 6902 patch applied to the serialized base must land
// on the same document as applying the operations natively.
func TestToJSONPatchAgreesWithApply(t *testing.T) {
	base := patchBase(t)
	list := ops.List{
		ops.BoardName{Value: "Sprint 13"},
		ops.BoardBackgroundImage{Value: ptr("bg2.png")},
		ops.BoardPluginData{Key: "theme", Value: json.RawMessage(`"light"`)},
		ops.BoardPluginData{Key: "a/b~c", Value: snapshot.Null()},
		ops.ColumnRemove{ColumnID: "c2"},
		ops.ColumnAdd{Column: snapshot.Column{ID: "c4", Title: "Review"}, Index: 1},
		ops.ColumnReorder{OrderedIDs: []string{"c4", "c3", "c1"}},
		ops.ColumnTitle{ColumnID: "c1", Value: "Backlog"},
		ops.ColumnPluginData{ColumnID: "c3", Key: "wip", Value: snapshot.Null()},
		ops.ColumnCards{ColumnID: "c4", Cards: []snapshot.Card{snapshot.Card(`{"id":"k9"}`)}},
	}

	want, err := boardsync.Apply(base, list)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	raw, err := ops.ToJSONPatch(base, list)
	if err != nil {
		t.Fatalf("ToJSONPatch: %v", err)
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		t.Fatalf("DecodePatch: %v", err)
	}
	got, err := patch.Apply([]byte(snapshot.Canon(base)))
	if err != nil {
		t.Fatalf("patch apply: %v", err)
	}

	// Plugin-data key order is not observable through a JSON Patch
	// consumer, so compare structurally rather than byte for byte.
	if diff := cmp.Diff(jsonTree(t, snapshot.Canon(want)), jsonTree(t, string(got))); diff != "" {
		t.Errorf("patched document disagrees with Apply (-want +got):\n%s", diff)
	}
}

func TestToJSONPatchReorderMoves(t *testing.T) {
	base := patchBase(t)
	raw, err := ops.ToJSONPatch(base, ops.List{
		ops.ColumnReorder{OrderedIDs: []string{"c3", "c1", "c2"}},
	})
	if err != nil {
		t.Fatalf("ToJSONPatch: %v", err)
	}
	want := `[{"op":"move","from":"/columns/2","path":"/columns/0"}]`
	if diff := cmp.Diff(jsonTree(t, want), jsonTree(t, string(raw))); diff != "" {
		t.Errorf("patch (-want +got):\n%s", diff)
	}
}

func TestToJSONPatchPointerEscaping(t *testing.T) {
	base := patchBase(t)
	raw, err := ops.ToJSONPatch(base, ops.List{
		ops.BoardPluginData{Key: "a/b~c", Value: snapshot.Null()},
	})
	if err != nil {
		t.Fatalf("ToJSONPatch: %v", err)
	}
	want := `[{"op":"remove","path":"/pluginData/a~1b~0c"}]`
	if diff := cmp.Diff(jsonTree(t, want), jsonTree(t, string(raw))); diff != "" {
		t.Errorf("patch (-want +got):\n%s", diff)
	}
}

func TestToJSONPatchUnknownColumn(t *testing.T) {
	base := patchBase(t)
	_, err := ops.ToJSONPatch(base, ops.List{
		ops.ColumnTitle{ColumnID: "nope", Value: "x"},
	})
	if !errors.Is(err, ops.ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
}

func TestToJSONPatchReorderMismatch(t *testing.T) {
	base := patchBase(t)
	_, err := ops.ToJSONPatch(base, ops.List{
		ops.ColumnReorder{OrderedIDs: []string{"c1"}},
	})
	if err == nil {
		t.Error("expected error for short reorder")
	}
}

func ptr(s string) *string { return &s }

func jsonTree(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", s, err)
	}
	return v
}
