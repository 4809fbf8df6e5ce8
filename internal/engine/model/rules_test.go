package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/richedit/internal/engine/model"
)

func TestParseRulePriority(t *testing.T) {
	s, err := model.NewSchema(&model.SchemaSpec{
		Nodes: []*model.NodeSpec{
			{Name: "doc", Content: "block+"},
			{Name: "paragraph", Content: "text*", Group: "block", ParseRules: []model.ParseRule{
				{Tag: "div"},
				{Tag: "p"},
			}},
			{Name: "note", Content: "text*", Group: "block", ParseRules: []model.ParseRule{
				{Tag: "div", Priority: 70},
				{Tag: "div", Context: "note/"},
			}},
			{Name: "text", Inline: true},
		},
		Marks: []*model.MarkSpec{
			{Name: "bold", ParseRules: []model.ParseRule{{Style: "font-weight", Priority: 10}}},
		},
	}, model.WithLogger(discardLogger()))
	require.NoError(t, err)

	rules := s.ParseRules()
	require.Len(t, rules, 5)
	assert.Equal(t, 70, rules[0].EffectivePriority())
	assert.Equal(t, "note", rules[0].NodeType().Name())
	assert.Equal(t, "paragraph", rules[1].NodeType().Name(), "equal priority keeps declaration order")
	assert.Equal(t, "bold", rules[4].MarkType().Name())

	assert.Equal(t, "note", s.MatchTag("div", []string{"doc"}).NodeType().Name())
	assert.Equal(t, "paragraph", s.MatchTag("P", []string{"doc"}).NodeType().Name())
	assert.Nil(t, s.MatchTag("span", []string{"doc"}))
	assert.Equal(t, "bold", s.MatchStyle("font-weight=700", nil).MarkType().Name())
}

func TestParseRuleContext(t *testing.T) {
	s, err := model.NewSchema(&model.SchemaSpec{
		Nodes: []*model.NodeSpec{
			{Name: "doc", Content: "block+"},
			{Name: "list", Content: "item+", Group: "block"},
			{Name: "item", Content: "text*", ParseRules: []model.ParseRule{
				{Tag: "li", Context: "list/", Priority: 60},
			}},
			{Name: "paragraph", Content: "text*", Group: "block", ParseRules: []model.ParseRule{
				{Tag: "li"},
			}},
			{Name: "text", Inline: true},
		},
	}, model.WithLogger(discardLogger()))
	require.NoError(t, err)

	assert.Equal(t, "item", s.MatchTag("li", []string{"doc", "list"}).NodeType().Name())
	assert.Equal(t, "paragraph", s.MatchTag("li", []string{"doc"}).NodeType().Name())
}
