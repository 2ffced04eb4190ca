package ops

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"

	"github.com/boardkit/boardsync/snapshot"
)

// ToJSONPatch exports an operation list as an RFC 6902 JSON Patch
// against the serialized form of base, for consumers that speak
// standard JSON Patch instead of the board vocabulary.  Column
// operations are id-scoped while JSON Pointer paths are index-scoped,
// so the conversion tracks the column order the same way an applier
// would: adds append, and each column:reorder becomes the move
// operations that rearrange /columns into the declared order.
func ToJSONPatch(base *snapshot.Board, list List) (json.RawMessage, error) {
	ids := make([]string, 0)
	if base != nil {
		for _, col := range base.Columns {
			ids = append(ids, col.ID)
		}
	}
	patch := make([]rfcOp, 0, len(list))
	for i, op := range list {
		var err error
		patch, ids, err = appendRFC(patch, ids, op)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i, op.Kind(), err)
		}
	}
	return json.Marshal(patch)
}

type rfcOp struct {
	Op    string          `json:"op"`
	From  string          `json:"from,omitempty"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

func appendRFC(patch []rfcOp, ids []string, op Op) ([]rfcOp, []string, error) {
	switch o := op.(type) {
	case BoardName:
		patch = append(patch, rfcOp{Op: "replace", Path: "/name", Value: canon(o.Value)})

	case BoardBackgroundImage:
		patch = append(patch, rfcOp{Op: "replace", Path: "/backgroundImage", Value: canon(o.Value)})

	case BoardPluginData:
		patch = append(patch, keyRFC("/pluginData", o.Key, o.Value))

	case ColumnAdd:
		patch = append(patch, rfcOp{Op: "add", Path: "/columns/-", Value: canon(o.Column)})
		ids = append(ids, o.Column.ID)

	case ColumnRemove:
		i := slices.Index(ids, o.ColumnID)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, o.ColumnID)
		}
		patch = append(patch, rfcOp{Op: "remove", Path: columnPath(i)})
		ids = slices.Delete(ids, i, i+1)

	case ColumnReorder:
		if len(o.OrderedIDs) != len(ids) {
			return nil, nil, fmt.Errorf("reorder lists %d columns, target has %d", len(o.OrderedIDs), len(ids))
		}
		cur := slices.Clone(ids)
		for j, id := range o.OrderedIDs {
			i := slices.Index(cur, id)
			if i < 0 {
				return nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, id)
			}
			if i == j {
				continue
			}
			patch = append(patch, rfcOp{Op: "move", From: columnPath(i), Path: columnPath(j)})
			cur = slices.Insert(slices.Delete(cur, i, i+1), j, id)
		}
		ids = slices.Clone(o.OrderedIDs)

	case ColumnTitle:
		i := slices.Index(ids, o.ColumnID)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, o.ColumnID)
		}
		patch = append(patch, rfcOp{Op: "replace", Path: columnPath(i) + "/title", Value: canon(o.Value)})

	case ColumnPluginData:
		i := slices.Index(ids, o.ColumnID)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, o.ColumnID)
		}
		patch = append(patch, keyRFC(columnPath(i)+"/pluginData", o.Key, o.Value))

	case ColumnCards:
		i := slices.Index(ids, o.ColumnID)
		if i < 0 {
			return nil, nil, fmt.Errorf("%w: %q", ErrUnknownColumn, o.ColumnID)
		}
		cards := o.Cards
		if cards == nil {
			cards = []snapshot.Card{}
		}
		patch = append(patch, rfcOp{Op: "replace", Path: columnPath(i) + "/cards", Value: canon(cards)})

	default:
		return nil, nil, fmt.Errorf("%w: %T", ErrUnknownOp, op)
	}
	return patch, ids, nil
}

// keyRFC maps a plugin-data key operation: null deletes, anything else
// adds (which for object members also replaces).
func keyRFC(container, key string, value json.RawMessage) rfcOp {
	path := container + "/" + escapePointer(key)
	if snapshot.IsNull(value) {
		return rfcOp{Op: "remove", Path: path}
	}
	return rfcOp{Op: "add", Path: path, Value: value}
}

func columnPath(i int) string {
	return "/columns/" + strconv.Itoa(i)
}

func canon(v any) json.RawMessage {
	return json.RawMessage(snapshot.Canon(v))
}

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapePointer(key string) string {
	return pointerEscaper.Replace(key)
}
