// Package ops defines the operation vocabulary shared by the board
// differ and every applier of its output: nine positional, declarative
// instructions that together describe any transition between two board
// snapshots.
//
// The vocabulary is closed.  Producers and consumers of an operation
// log must agree on these shapes exactly; the wire form of each
// operation is a JSON object tagged by a "type" field (see the codec in
// this package), and decoding an unknown type is an error rather than a
// skip.
//
// Each operation carries everything needed to apply it independently,
// with one exception: operations scoped by a columnId require that the
// column already exist in the target, which holds whenever operations
// are applied in the order they were emitted.
package ops

import (
	"encoding/json"
	"errors"

	"github.com/boardkit/boardsync/snapshot"
)

// Kind tags an operation on the wire.
type Kind string

const (
	KindBoardName            Kind = "board:name"
	KindBoardBackgroundImage Kind = "board:backgroundImage"
	KindBoardPluginData      Kind = "board:pluginData"
	KindColumnAdd            Kind = "column:add"
	KindColumnRemove         Kind = "column:remove"
	KindColumnReorder        Kind = "column:reorder"
	KindColumnTitle          Kind = "column:title"
	KindColumnPluginData     Kind = "column:pluginData"
	KindColumnCards          Kind = "column:cards"
)

var (
	// ErrUnknownOp reports a wire operation whose type tag is not in
	// the vocabulary.
	ErrUnknownOp = errors.New("unknown operation type")

	// ErrUnknownColumn reports a column-scoped operation whose columnId
	// is not present in the target.
	ErrUnknownColumn = errors.New("unknown column id")
)

// Op is one operation.  The set of implementations is closed; a switch
// over the concrete types below is exhaustive.
type Op interface {
	Kind() Kind
	isOp()
}

// List is an ordered sequence of operations.  Order matters for replay
// and is fixed by the differ; nothing re-sorts a list.
type List []Op

// BoardName sets the board's name.
type BoardName struct {
	Value string
}

// BoardBackgroundImage sets the board's background image.  nil clears
// it (null on the wire).
type BoardBackgroundImage struct {
	Value *string
}

// BoardPluginData sets or deletes one board-level plugin-data key.  A
// null Value deletes the key: deletion is signaled explicitly because
// an omitted value would be indistinguishable from "unchanged" under
// serialization equality.
type BoardPluginData struct {
	Key   string
	Value json.RawMessage
}

// ColumnAdd introduces a full new column.  Index is the column's
// position in the new snapshot; appliers append and rely on the
// column:reorder that accompanies every membership change to settle
// final positions.
type ColumnAdd struct {
	Column snapshot.Column
	Index  int
}

// ColumnRemove deletes a column by id.
type ColumnRemove struct {
	ColumnID string
}

// ColumnReorder declares the complete column order by id.  It is
// emitted whenever the ordered id sequences of two snapshots differ,
// including when the difference is solely due to adds or removes.
type ColumnReorder struct {
	OrderedIDs []string
}

// ColumnTitle sets a column's title.
type ColumnTitle struct {
	ColumnID string
	Value    string
}

// ColumnPluginData sets or deletes one column-level plugin-data key;
// same null-deletes contract as BoardPluginData.
type ColumnPluginData struct {
	ColumnID string
	Key      string
	Value    json.RawMessage
}

// ColumnCards replaces a column's entire card list.  Card-level changes
// are never split: any difference in a column's cards, whether content,
// order, addition, or removal, collapses into one of these.
type ColumnCards struct {
	ColumnID string
	Cards    []snapshot.Card
}

func (BoardName) Kind() Kind            { return KindBoardName }
func (BoardBackgroundImage) Kind() Kind { return KindBoardBackgroundImage }
func (BoardPluginData) Kind() Kind      { return KindBoardPluginData }
func (ColumnAdd) Kind() Kind            { return KindColumnAdd }
func (ColumnRemove) Kind() Kind         { return KindColumnRemove }
func (ColumnReorder) Kind() Kind        { return KindColumnReorder }
func (ColumnTitle) Kind() Kind          { return KindColumnTitle }
func (ColumnPluginData) Kind() Kind     { return KindColumnPluginData }
func (ColumnCards) Kind() Kind          { return KindColumnCards }

func (BoardName) isOp()            {}
func (BoardBackgroundImage) isOp() {}
func (BoardPluginData) isOp()      {}
func (ColumnAdd) isOp()            {}
func (ColumnRemove) isOp()         {}
func (ColumnReorder) isOp()        {}
func (ColumnTitle) isOp()          {}
func (ColumnPluginData) isOp()     {}
func (ColumnCards) isOp()          {}
