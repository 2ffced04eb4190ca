// Package snapshot defines the plain-data representation of a Kanban
// board at one instant: no live references, no functions, nothing that
// cannot round-trip through JSON.
//
// Snapshots are the currency of the diff engine: a caller captures a
// board by value before and after a batch of mutations and hands the
// two captures to [github.com/boardkit/boardsync.Diff].  Snapshots are
// treated as immutable by everything in this module; anything that
// needs to keep or change one clones it first.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
)

// Card is an opaque card payload.  Cards are never inspected
// field-by-field: a column's card list is compared and replaced as a
// whole, so whatever a card carries beyond its id is preserved
// verbatim.
type Card = json.RawMessage

// Board is a full board snapshot.
//
// BackgroundImage distinguishes null from the empty string; both occur
// in the wild and they are not the same value.
type Board struct {
	Name            string     `json:"name"`
	BackgroundImage *string    `json:"backgroundImage"`
	PluginData      PluginData `json:"pluginData"`
	Columns         []Column   `json:"columns"`
}

// Column is one column of a board.  ID is the stable identity: two
// columns are the same column iff their ids match, regardless of
// title or content.
type Column struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	PluginData PluginData `json:"pluginData"`
	Cards      []Card     `json:"cards"`
}

// MarshalJSON renders absent containers as empty ones, so that a board
// serializes the same way whether its columns slice is nil or empty.
func (b Board) MarshalJSON() ([]byte, error) {
	type board Board
	bb := board(b)
	if bb.Columns == nil {
		bb.Columns = []Column{}
	}
	return json.Marshal(bb)
}

func (c Column) MarshalJSON() ([]byte, error) {
	type column Column
	cc := column(c)
	if cc.Cards == nil {
		cc.Cards = []Card{}
	}
	return json.Marshal(cc)
}

// Clone returns a deep, independent copy.  Clone of nil is an empty
// board, matching the treatment of absent snapshots as empty.
func (b *Board) Clone() *Board {
	if b == nil {
		return &Board{}
	}
	res := &Board{
		Name:            b.Name,
		BackgroundImage: CloneString(b.BackgroundImage),
		PluginData:      b.PluginData.Clone(),
	}
	if b.Columns != nil {
		res.Columns = make([]Column, len(b.Columns))
		for i := range b.Columns {
			res.Columns[i] = b.Columns[i].Clone()
		}
	}
	return res
}

func (c Column) Clone() Column {
	return Column{
		ID:         c.ID,
		Title:      c.Title,
		PluginData: c.PluginData.Clone(),
		Cards:      CloneCards(c.Cards),
	}
}

// CloneCards copies a card list, including the backing bytes of each
// card.
func CloneCards(cards []Card) []Card {
	if cards == nil {
		return nil
	}
	res := make([]Card, len(cards))
	for i, card := range cards {
		res[i] = append(Card(nil), card...)
	}
	return res
}

// CloneString copies an optional string.
func CloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Decode loads a board snapshot from JSON.  Missing fields decode to
// their empty values; this is the only place shape validation happens,
// the diff engine itself validates nothing.
func Decode(d []byte) (*Board, error) {
	b := &Board{}
	if err := json.Unmarshal(d, b); err != nil {
		return nil, fmt.Errorf("decoding board snapshot: %w", err)
	}
	return b, nil
}

// DecodeYAML loads a board snapshot from YAML by converting the
// document to JSON first, preserving mapping order.
func DecodeYAML(d []byte) (*Board, error) {
	j, err := yaml.YAMLToJSON(d)
	if err != nil {
		return nil, fmt.Errorf("decoding board snapshot: %w", err)
	}
	return Decode(j)
}

func compact(raw json.RawMessage) json.RawMessage {
	buf := bytes.NewBuffer(nil)
	if err := json.Compact(buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}
