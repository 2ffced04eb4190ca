package ops

import (
	"fmt"

	"github.com/segmentio/encoding/json"

	"github.com/boardkit/boardsync/snapshot"
)

// Wire form: each operation is a JSON object with a "type" tag plus the
// type-specific fields below.  A list is a JSON array of such objects,
// in emission order.

type wireBoardName struct {
	Type  Kind   `json:"type"`
	Value string `json:"value"`
}

type wireBoardBackgroundImage struct {
	Type  Kind    `json:"type"`
	Value *string `json:"value"`
}

type wireBoardPluginData struct {
	Type  Kind            `json:"type"`
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type wireColumnAdd struct {
	Type   Kind            `json:"type"`
	Column snapshot.Column `json:"column"`
	Index  int             `json:"index"`
}

type wireColumnRemove struct {
	Type     Kind   `json:"type"`
	ColumnID string `json:"columnId"`
}

type wireColumnReorder struct {
	Type       Kind     `json:"type"`
	OrderedIDs []string `json:"orderedIds"`
}

type wireColumnTitle struct {
	Type     Kind   `json:"type"`
	ColumnID string `json:"columnId"`
	Value    string `json:"value"`
}

type wireColumnPluginData struct {
	Type     Kind            `json:"type"`
	ColumnID string          `json:"columnId"`
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
}

type wireColumnCards struct {
	Type     Kind            `json:"type"`
	ColumnID string          `json:"columnId"`
	Cards    []snapshot.Card `json:"cards"`
}

func (o BoardName) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireBoardName{o.Kind(), o.Value})
}

func (o BoardBackgroundImage) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireBoardBackgroundImage{o.Kind(), o.Value})
}

func (o BoardPluginData) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireBoardPluginData{o.Kind(), o.Key, rawOrNull(o.Value)})
}

func (o ColumnAdd) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireColumnAdd{o.Kind(), o.Column, o.Index})
}

func (o ColumnRemove) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireColumnRemove{o.Kind(), o.ColumnID})
}

func (o ColumnReorder) MarshalJSON() ([]byte, error) {
	ids := o.OrderedIDs
	if ids == nil {
		ids = []string{}
	}
	return json.Marshal(wireColumnReorder{o.Kind(), ids})
}

func (o ColumnTitle) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireColumnTitle{o.Kind(), o.ColumnID, o.Value})
}

func (o ColumnPluginData) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireColumnPluginData{o.Kind(), o.ColumnID, o.Key, rawOrNull(o.Value)})
}

func (o ColumnCards) MarshalJSON() ([]byte, error) {
	cards := o.Cards
	if cards == nil {
		cards = []snapshot.Card{}
	}
	return json.Marshal(wireColumnCards{o.Kind(), o.ColumnID, cards})
}

func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return snapshot.Null()
	}
	return raw
}

// Decode decodes one wire operation into its concrete type.
func Decode(d []byte) (Op, error) {
	var head struct {
		Type Kind `json:"type"`
	}
	if err := json.Unmarshal(d, &head); err != nil {
		return nil, fmt.Errorf("decoding operation: %w", err)
	}
	switch head.Type {
	case KindBoardName:
		var w wireBoardName
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return BoardName{Value: w.Value}, nil
	case KindBoardBackgroundImage:
		var w wireBoardBackgroundImage
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return BoardBackgroundImage{Value: w.Value}, nil
	case KindBoardPluginData:
		var w wireBoardPluginData
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return BoardPluginData{Key: w.Key, Value: rawOrNull(w.Value)}, nil
	case KindColumnAdd:
		var w wireColumnAdd
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return ColumnAdd{Column: w.Column, Index: w.Index}, nil
	case KindColumnRemove:
		var w wireColumnRemove
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return ColumnRemove{ColumnID: w.ColumnID}, nil
	case KindColumnReorder:
		var w wireColumnReorder
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		if w.OrderedIDs == nil {
			w.OrderedIDs = []string{}
		}
		return ColumnReorder{OrderedIDs: w.OrderedIDs}, nil
	case KindColumnTitle:
		var w wireColumnTitle
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return ColumnTitle{ColumnID: w.ColumnID, Value: w.Value}, nil
	case KindColumnPluginData:
		var w wireColumnPluginData
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return ColumnPluginData{ColumnID: w.ColumnID, Key: w.Key, Value: rawOrNull(w.Value)}, nil
	case KindColumnCards:
		var w wireColumnCards
		if err := json.Unmarshal(d, &w); err != nil {
			return nil, err
		}
		return ColumnCards{ColumnID: w.ColumnID, Cards: w.Cards}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownOp, head.Type)
}

// MarshalJSON renders the list as a JSON array; an empty list renders
// as [], never null.
func (l List) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Op(l))
}

func (l *List) UnmarshalJSON(d []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(d, &raws); err != nil {
		return fmt.Errorf("decoding operation list: %w", err)
	}
	res := make(List, 0, len(raws))
	for i, raw := range raws {
		op, err := Decode(raw)
		if err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
		res = append(res, op)
	}
	*l = res
	return nil
}
