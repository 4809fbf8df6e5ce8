package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/model"
)

func TestNodeJSONShape(t *testing.T) {
	b := newBuilder(t)
	doc := b.Doc(b.H(2, "Hi ", b.T("there", b.Link("https://example.com"))))

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	want := `{
		"type": "doc",
		"content": [{
			"type": "heading",
			"attrs": {"level": 2},
			"content": [
				{"type": "text", "text": "Hi "},
				{"type": "text", "text": "there", "marks": [
					{"type": "link", "attrs": {"href": "https://example.com", "title": null}}
				]}
			]
		}]
	}`
	assert.JSONEq(t, want, string(data))
}

func TestNodeJSONRoundTrip(t *testing.T) {
	b := newBuilder(t)
	docs := []*model.Node{
		b.Doc(b.P()),
		b.Doc(b.P("Hello ", b.T("world", b.Strong(), b.Em()), b.Img("a.png"), b.BR())),
		b.Doc(b.Blockquote(b.P("q")), b.HR(), b.OL(b.LI(b.P("one"), b.UL(b.LI(b.P("two")))))),
		b.Doc(b.Pre("func main() {}")),
	}

	for _, doc := range docs {
		data, err := json.Marshal(doc)
		require.NoError(t, err)

		got, err := b.S.NodeFromJSON(data)
		require.NoError(t, err)
		if !got.Eq(doc) {
			t.Errorf("round trip = %s, want %s", got, doc)
		}
	}
}

func TestNodeFromJSONErrors(t *testing.T) {
	b := newBuilder(t)

	tests := []struct {
		name string
		data string
	}{
		{"malformed", `{"type":`},
		{"unknown node type", `{"type":"doc","content":[{"type":"table"}]}`},
		{"unknown mark type", `{"type":"doc","content":[{"type":"paragraph","content":[{"type":"text","text":"x","marks":[{"type":"blink"}]}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.S.NodeFromJSON([]byte(tt.data)); err == nil {
				t.Error("NodeFromJSON should fail")
			}
		})
	}
}

func TestNodeFromJSONRevalidates(t *testing.T) {
	s, warnings := collectWarnings(t)

	data := `{"type":"doc","content":[{"type":"heading","attrs":{"level":3,"align":"left"},"content":[{"type":"text","text":"x"}]}]}`
	doc, err := s.NodeFromJSON([]byte(data))
	require.NoError(t, err)

	h := doc.Child(0)
	assert.EqualValues(t, 3, h.Attr("level"))
	assert.Nil(t, h.Attr("align"))
	require.Len(t, *warnings, 1)
	assert.Equal(t, model.WarnUnknownAttr, (*warnings)[0].Kind)
	assert.NotEmpty(t, h.ID(), "decoded blocks get fresh ids")
}
