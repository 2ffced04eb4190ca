package snapshot

import (
	"encoding/json"
	"testing"
)

type pluginDataTest struct {
	name string
	in   string
	out  string
}

var pluginDataTests = []pluginDataTest{
	{
		name: "order preserved",
		in:   `{"z":1,"a":2,"m":3}`,
		out:  `{"z":1,"a":2,"m":3}`,
	},
	{
		name: "values compacted at ingest",
		in:   `{"a": { "x" : 1 }}`,
		out:  `{"a":{"x":1}}`,
	},
	{
		name: "duplicate key keeps first position and last value",
		in:   `{"a":1,"b":2,"a":3}`,
		out:  `{"a":3,"b":2}`,
	},
	{
		name: "null decodes to empty bag",
		in:   `null`,
		out:  `{}`,
	},
	{
		name: "explicit null value survives",
		in:   `{"a":null}`,
		out:  `{"a":null}`,
	},
}

func TestPluginDataRoundTrip(t *testing.T) {
	for _, tt := range pluginDataTests {
		t.Run(tt.name, func(t *testing.T) {
			var p PluginData
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got := Canon(p); got != tt.out {
				t.Errorf("got %s, want %s", got, tt.out)
			}
		})
	}
}

func TestPluginDataRejectsNonObject(t *testing.T) {
	for _, in := range []string{`[1]`, `"x"`, `3`} {
		var p PluginData
		if err := json.Unmarshal([]byte(in), &p); err == nil {
			t.Errorf("%s accepted as pluginData", in)
		}
	}
}

func TestPluginDataSetGetDelete(t *testing.T) {
	var p PluginData
	p = p.Set("a", json.RawMessage(`1`))
	p = p.Set("b", json.RawMessage(` {"x": 2} `))
	p = p.Set("a", json.RawMessage(`9`))

	if v, ok := p.Get("a"); !ok || string(v) != "9" {
		t.Errorf("Get(a) = %s, %v", v, ok)
	}
	if v, ok := p.Get("b"); !ok || string(v) != `{"x":2}` {
		t.Errorf("Get(b) = %s, %v (want compacted)", v, ok)
	}
	if got := Canon(p); got != `{"a":9,"b":{"x":2}}` {
		t.Errorf("set order lost: %s", got)
	}
	p = p.Delete("a")
	if _, ok := p.Get("a"); ok {
		t.Error("Delete(a) left the key behind")
	}
	if _, ok := p.Get("missing"); ok {
		t.Error("Get of absent key reported presence")
	}
}

func TestCloneIndependence(t *testing.T) {
	b, err := Decode([]byte(`{"name":"A","backgroundImage":"bg","pluginData":{"k":{"n":1}},"columns":[{"id":"c1","title":"T","pluginData":{"w":3},"cards":[{"id":"k1"}]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	before := Canon(b)
	c := b.Clone()
	c.Name = "B"
	*c.BackgroundImage = "other"
	c.PluginData = c.PluginData.Set("k", json.RawMessage(`2`))
	c.Columns[0].Title = "X"
	c.Columns[0].Cards[0][0] = 'X'
	if Canon(b) != before {
		t.Errorf("clone shares state with original: %s", Canon(b))
	}
}

func TestEqualTreatsAbsentAsEmpty(t *testing.T) {
	a, _ := Decode([]byte(`{"name":"A"}`))
	b, _ := Decode([]byte(`{"name":"A","pluginData":{},"columns":[]}`))
	if !Equal(a, b) {
		t.Errorf("absent and empty containers compare unequal:\n%s\n%s", Canon(a), Canon(b))
	}
	if !Equal(nil, &Board{}) {
		t.Error("nil board is not the empty board")
	}
}

func TestRawEqual(t *testing.T) {
	if !RawEqual(json.RawMessage(`{"a": 1}`), json.RawMessage(`{"a":1}`)) {
		t.Error("whitespace made values unequal")
	}
	if RawEqual(json.RawMessage(`{"a":1,"b":2}`), json.RawMessage(`{"b":2,"a":1}`)) {
		t.Error("key order ignored; serialization equality is order-sensitive")
	}
	if RawEqual(json.RawMessage(`null`), json.RawMessage(`0`)) {
		t.Error("null equals zero")
	}
}

func TestCardsEqual(t *testing.T) {
	if !CardsEqual(nil, []Card{}) {
		t.Error("nil and empty card lists compare unequal")
	}
	a := []Card{Card(`{"id":"k1"}`)}
	b := []Card{Card(`{ "id": "k1" }`)}
	if !CardsEqual(a, b) {
		t.Error("whitespace made card lists unequal")
	}
	if CardsEqual(a, []Card{Card(`{"id":"k2"}`)}) {
		t.Error("different cards compare equal")
	}
}

func TestDecodeYAML(t *testing.T) {
	src := []byte(`
name: Board
backgroundImage: bg.png
pluginData:
  z: 1
  a: 2
columns:
  - id: c1
    title: Todo
    cards:
      - id: k1
`)
	b, err := DecodeYAML(src)
	if err != nil {
		t.Fatalf("DecodeYAML: %v", err)
	}
	if b.Name != "Board" || b.BackgroundImage == nil || *b.BackgroundImage != "bg.png" {
		t.Errorf("scalars: %s", Canon(b))
	}
	if got := Canon(b.PluginData); got != `{"z":1,"a":2}` {
		t.Errorf("pluginData order not preserved: %s", got)
	}
	if len(b.Columns) != 1 || b.Columns[0].ID != "c1" || len(b.Columns[0].Cards) != 1 {
		t.Errorf("columns: %s", Canon(b))
	}
}

func TestIsNull(t *testing.T) {
	for _, raw := range []json.RawMessage{nil, json.RawMessage(`null`), json.RawMessage(" null ")} {
		if !IsNull(raw) {
			t.Errorf("IsNull(%q) = false", raw)
		}
	}
	for _, raw := range []json.RawMessage{json.RawMessage(`0`), json.RawMessage(`"null"`), json.RawMessage(`{}`)} {
		if IsNull(raw) {
			t.Errorf("IsNull(%q) = true", raw)
		}
	}
}
