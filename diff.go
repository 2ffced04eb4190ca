// Package boardsync computes and applies the operation streams that
// keep Kanban board replicas in sync.  [Diff] turns a pair of board
// snapshots into the minimal ordered operation list describing the
// transition; [Apply] is its dual, replaying such a list onto a
// snapshot.  The operation vocabulary itself lives in
// [github.com/boardkit/boardsync/ops].
package boardsync

import (
	"encoding/json"
	"slices"

	"github.com/boardkit/boardsync/ops"
	"github.com/boardkit/boardsync/snapshot"
)

// Diff produces the ordered operation list describing the transition
// from old to new.  If the snapshots are canonically equal, Diff
// returns an empty list.
//
// Diff is a pure function: it never mutates its inputs, its output
// aliases neither of them, and concurrent calls on independent snapshot
// pairs need no coordination.  It is total over well-formed snapshots:
// a nil board and absent pluginData/columns/cards are treated as empty
// on either side, and nothing else is validated.
//
// Operations are emitted in a fixed order, which appliers rely on:
//
//   - board:name, then board:backgroundImage, on strict inequality;
//
//   - board:pluginData per changed or added key in new's insertion
//     order, then per deleted key (with an explicit null value) in
//     old's insertion order; keys are compared individually so an
//     untouched key never produces an operation;
//
//   - column:remove for each id present only in old, in old order;
//
//   - column:add for each id present only in new, in new order,
//     carrying the full column and its index in the new array;
//
//   - exactly one column:reorder whenever the ordered id sequences
//     differ, including when the difference is solely due to the adds
//     and removes above, since appliers add by appending and need the
//     reorder to reach final positions;
//
//   - per column present in both snapshots, in new order:
//     column:title, column:pluginData (as for the board, scoped by
//     columnId), and a single whole-list column:cards if the
//     serialized card arrays differ at all.
//
// Structured values (pluginData values, card arrays) are compared by
// canonical serialization, so two payloads that serialize differently
// are different even when structurally alike; see
// [snapshot.RawEqual].
func Diff(old, new *snapshot.Board) ops.List {
	if old == nil {
		old = &snapshot.Board{}
	}
	if new == nil {
		new = &snapshot.Board{}
	}
	res := ops.List{}

	if old.Name != new.Name {
		res = append(res, ops.BoardName{Value: new.Name})
	}
	if !stringPtrEqual(old.BackgroundImage, new.BackgroundImage) {
		res = append(res, ops.BoardBackgroundImage{Value: snapshot.CloneString(new.BackgroundImage)})
	}
	res = appendPluginDataOps(res, old.PluginData, new.PluginData, func(key string, value json.RawMessage) ops.Op {
		return ops.BoardPluginData{Key: key, Value: value}
	})

	oldIDs := columnIDs(old.Columns)
	newIDs := columnIDs(new.Columns)

	for _, col := range old.Columns {
		if !slices.Contains(newIDs, col.ID) {
			res = append(res, ops.ColumnRemove{ColumnID: col.ID})
		}
	}
	added := make(map[string]bool)
	for i, col := range new.Columns {
		if !slices.Contains(oldIDs, col.ID) {
			res = append(res, ops.ColumnAdd{Column: col.Clone(), Index: i})
			added[col.ID] = true
		}
	}
	if !slices.Equal(oldIDs, newIDs) {
		res = append(res, ops.ColumnReorder{OrderedIDs: newIDs})
	}

	oldByID := make(map[string]*snapshot.Column, len(old.Columns))
	for i := range old.Columns {
		oldByID[old.Columns[i].ID] = &old.Columns[i]
	}
	for i := range new.Columns {
		nc := &new.Columns[i]
		if added[nc.ID] {
			continue
		}
		oc := oldByID[nc.ID]
		if oc.Title != nc.Title {
			res = append(res, ops.ColumnTitle{ColumnID: nc.ID, Value: nc.Title})
		}
		res = appendPluginDataOps(res, oc.PluginData, nc.PluginData, func(key string, value json.RawMessage) ops.Op {
			return ops.ColumnPluginData{ColumnID: nc.ID, Key: key, Value: value}
		})
		if !snapshot.CardsEqual(oc.Cards, nc.Cards) {
			cards := snapshot.CloneCards(nc.Cards)
			if cards == nil {
				cards = []snapshot.Card{}
			}
			res = append(res, ops.ColumnCards{ColumnID: nc.ID, Cards: cards})
		}
	}
	return res
}

// appendPluginDataOps emits one operation per differing key: changed
// and added keys first, in new's insertion order, then deleted keys
// with an explicit null value, in old's insertion order.
func appendPluginDataOps(res ops.List, old, new snapshot.PluginData, mk func(key string, value json.RawMessage) ops.Op) ops.List {
	for _, e := range new {
		if ov, ok := old.Get(e.Key); ok && snapshot.RawEqual(ov, e.Value) {
			continue
		}
		res = append(res, mk(e.Key, append(json.RawMessage(nil), e.Value...)))
	}
	for _, e := range old {
		if _, ok := new.Get(e.Key); ok {
			continue
		}
		res = append(res, mk(e.Key, snapshot.Null()))
	}
	return res
}

func columnIDs(cols []snapshot.Column) []string {
	ids := make([]string, 0, len(cols))
	for _, col := range cols {
		ids = append(ids, col.ID)
	}
	return ids
}

func stringPtrEqual(a, b *string) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}
