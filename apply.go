package boardsync

import (
	"fmt"

	"github.com/boardkit/boardsync/ops"
	"github.com/boardkit/boardsync/snapshot"
)

// Apply replays an operation list onto a board snapshot and returns the
// resulting snapshot.  The input board is never mutated.
//
// Apply implements the receiving side of the operation contract:
//
//   - column:add appends; the column:reorder that accompanies every
//     membership change settles final positions;
//   - column:reorder rearranges the columns into the declared id order
//     and fails when the declared ids do not match the board's;
//   - column-scoped operations fail with [ops.ErrUnknownColumn] when
//     their columnId is not present;
//   - a pluginData operation with a null value deletes the key,
//     anything else sets it, preserving key insertion order;
//   - column:cards replaces the whole card list.
//
// For any well-formed pair of snapshots, Apply(old, Diff(old, new)) is
// canonically equal to new.
func Apply(board *snapshot.Board, list ops.List) (*snapshot.Board, error) {
	res := board.Clone()
	for i, op := range list {
		if err := applyOp(res, op); err != nil {
			return nil, fmt.Errorf("applying operation %d (%s): %w", i, op.Kind(), err)
		}
	}
	return res, nil
}

func applyOp(b *snapshot.Board, op ops.Op) error {
	switch o := op.(type) {
	case ops.BoardName:
		b.Name = o.Value

	case ops.BoardBackgroundImage:
		b.BackgroundImage = snapshot.CloneString(o.Value)

	case ops.BoardPluginData:
		b.PluginData = applyPluginData(b.PluginData, o.Key, o.Value)

	case ops.ColumnAdd:
		if columnIndex(b.Columns, o.Column.ID) >= 0 {
			return fmt.Errorf("column %q already present", o.Column.ID)
		}
		b.Columns = append(b.Columns, o.Column.Clone())

	case ops.ColumnRemove:
		i := columnIndex(b.Columns, o.ColumnID)
		if i < 0 {
			return fmt.Errorf("%w: %q", ops.ErrUnknownColumn, o.ColumnID)
		}
		b.Columns = append(b.Columns[:i], b.Columns[i+1:]...)

	case ops.ColumnReorder:
		return reorderColumns(b, o.OrderedIDs)

	case ops.ColumnTitle:
		col, err := findColumn(b, o.ColumnID)
		if err != nil {
			return err
		}
		col.Title = o.Value

	case ops.ColumnPluginData:
		col, err := findColumn(b, o.ColumnID)
		if err != nil {
			return err
		}
		col.PluginData = applyPluginData(col.PluginData, o.Key, o.Value)

	case ops.ColumnCards:
		col, err := findColumn(b, o.ColumnID)
		if err != nil {
			return err
		}
		col.Cards = snapshot.CloneCards(o.Cards)

	default:
		return fmt.Errorf("%w: %T", ops.ErrUnknownOp, op)
	}
	return nil
}

// applyPluginData implements the explicit-null deletion signaling: a
// null value deletes the key, anything else sets it.
func applyPluginData(p snapshot.PluginData, key string, value []byte) snapshot.PluginData {
	if snapshot.IsNull(value) {
		return p.Delete(key)
	}
	return p.Set(key, value)
}

func reorderColumns(b *snapshot.Board, orderedIDs []string) error {
	if len(orderedIDs) != len(b.Columns) {
		return fmt.Errorf("reorder lists %d columns, board has %d", len(orderedIDs), len(b.Columns))
	}
	cols := make([]snapshot.Column, 0, len(orderedIDs))
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if seen[id] {
			return fmt.Errorf("duplicate column id %q in reorder", id)
		}
		seen[id] = true
		i := columnIndex(b.Columns, id)
		if i < 0 {
			return fmt.Errorf("%w: %q", ops.ErrUnknownColumn, id)
		}
		cols = append(cols, b.Columns[i])
	}
	b.Columns = cols
	return nil
}

func findColumn(b *snapshot.Board, id string) (*snapshot.Column, error) {
	i := columnIndex(b.Columns, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ops.ErrUnknownColumn, id)
	}
	return &b.Columns[i], nil
}

func columnIndex(cols []snapshot.Column, id string) int {
	for i := range cols {
		if cols[i].ID == id {
			return i
		}
	}
	return -1
}
