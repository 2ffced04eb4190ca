package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// Entry is one key of a plugin-data bag.  Value holds the canonical
// (compacted) serialized form of whatever the owning plugin stored.
type Entry struct {
	Key   string
	Value json.RawMessage
}

// PluginData is an opaque per-plugin key-value bag attached to a board
// or a column.  It preserves key insertion order: the order keys appear
// in the serialized document is observable downstream, so a Go map
// cannot represent it.  Keys are diffed individually so an unrelated
// plugin's untouched key never produces operations.
type PluginData []Entry

// Get returns the value stored under key.  An explicit null value and
// an absent key are different things; the bool return tells them apart.
func (p PluginData) Get(key string) (json.RawMessage, bool) {
	for i := range p {
		if p[i].Key == key {
			return p[i].Value, true
		}
	}
	return nil, false
}

// Set stores value under key, canonicalized.  An existing key keeps its
// position and takes the new value; a new key is appended.  The receiver
// may be modified; callers use the returned bag.
func (p PluginData) Set(key string, value json.RawMessage) PluginData {
	value = compact(value)
	for i := range p {
		if p[i].Key == key {
			p[i].Value = value
			return p
		}
	}
	return append(p, Entry{Key: key, Value: value})
}

// Delete removes key, if present.
func (p PluginData) Delete(key string) PluginData {
	for i := range p {
		if p[i].Key == key {
			return slices.Delete(p, i, i+1)
		}
	}
	return p
}

func (p PluginData) Clone() PluginData {
	if p == nil {
		return nil
	}
	res := make(PluginData, len(p))
	for i, e := range p {
		res[i] = Entry{Key: e.Key, Value: append(json.RawMessage(nil), e.Value...)}
	}
	return res
}

// MarshalJSON renders the bag as a JSON object in insertion order.  A
// nil bag renders as {}.
func (p PluginData) MarshalJSON() ([]byte, error) {
	buf := bytes.NewBuffer([]byte{'{'})
	for i, e := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		if len(e.Value) == 0 {
			buf.WriteString("null")
		} else {
			buf.Write(e.Value)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object preserving document order.
// Values are compacted at ingest so later comparisons are byte
// comparisons.  A duplicate key keeps its first position and takes the
// last value, matching object-literal semantics.  null decodes to an
// empty bag.
func (p *PluginData) UnmarshalJSON(d []byte) error {
	dec := json.NewDecoder(bytes.NewReader(d))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decoding pluginData: %w", err)
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decoding pluginData: expected object, got %v", tok)
	}
	out := PluginData{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decoding pluginData: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decoding pluginData: expected key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("decoding pluginData key %q: %w", key, err)
		}
		out = out.Set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decoding pluginData: %w", err)
	}
	*p = out
	return nil
}
