package story

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptRand returns a fixed sequence of Intn draws.
type scriptRand struct {
	ints []int
	pos  int
}

func (s *scriptRand) Intn(n int) int {
	v := s.ints[s.pos%len(s.ints)]
	s.pos++
	return v % n
}

func (s *scriptRand) Float64() float64 { return 0 }

func TestNodeRefUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected NodeRef
	}{
		{
			name:     "single string",
			input:    `"cliff_top"`,
			expected: NodeRef{"cliff_top"},
		},
		{
			name:     "list of candidates",
			input:    `["cliff_top", "rockfall"]`,
			expected: NodeRef{"cliff_top", "rockfall"},
		},
		{
			name:     "empty list",
			input:    `[]`,
			expected: NodeRef{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ref NodeRef
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ref))
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestNodeRefMarshalSingleAsString(t *testing.T) {
	data, err := json.Marshal(NodeRef{"cliff_top"})
	require.NoError(t, err)
	assert.Equal(t, `"cliff_top"`, string(data))

	data, err = json.Marshal(NodeRef{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b"]`, string(data))
}

func TestNodeRefResolve(t *testing.T) {
	assert.Equal(t, "", NodeRef{}.Resolve(&scriptRand{ints: []int{0}}))
	assert.Equal(t, "only", NodeRef{"only"}.Resolve(&scriptRand{ints: []int{5}}))

	ref := NodeRef{"a", "b", "c"}
	assert.Equal(t, "b", ref.Resolve(&scriptRand{ints: []int{1}}))
	assert.Equal(t, "c", ref.Resolve(&scriptRand{ints: []int{2}}))
}

func TestTextVariants(t *testing.T) {
	var single TextVariants
	require.NoError(t, json.Unmarshal([]byte(`"the fog rolls in"`), &single))
	assert.Equal(t, TextVariants{"the fog rolls in"}, single)

	var multi TextVariants
	require.NoError(t, json.Unmarshal([]byte(`["one", "two"]`), &multi))
	assert.Equal(t, "two", multi.Pick(&scriptRand{ints: []int{1}}))
	assert.Equal(t, "", TextVariants{}.Pick(&scriptRand{ints: []int{0}}))
}

func TestItemListUnmarshal(t *testing.T) {
	var single ItemList
	require.NoError(t, json.Unmarshal([]byte(`"rusted_lantern"`), &single))
	assert.Equal(t, ItemList{"rusted_lantern"}, single)

	var multi ItemList
	require.NoError(t, json.Unmarshal([]byte(`["key", "rope"]`), &multi))
	assert.Equal(t, ItemList{"key", "rope"}, multi)
}

func TestDiceSpecSides(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "standard NdS", input: `"1d20"`, expected: 20},
		{name: "six sided", input: `"1d6"`, expected: 6},
		{name: "bare number", input: `8`, expected: 8},
		{name: "numeric string", input: `"12"`, expected: 12},
		{name: "uppercase", input: `"1D10"`, expected: 10},
		{name: "garbage defaults to d20", input: `"banana"`, expected: 20},
		{name: "zero sides defaults to d20", input: `"1d0"`, expected: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var spec DiceSpec
			require.NoError(t, json.Unmarshal([]byte(tt.input), &spec))
			assert.Equal(t, tt.expected, spec.Sides())
		})
	}
}

func TestDiceSpecSidesZeroValue(t *testing.T) {
	var spec DiceSpec
	assert.Equal(t, DefaultSides, spec.Sides())
}

func TestTargetUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantAttr  string
		wantValue int
	}{
		{name: "literal int", input: `15`, wantValue: 15},
		{name: "numeric string is literal", input: `"15"`, wantValue: 15},
		{name: "attribute name", input: `"perception"`, wantAttr: "perception"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target Target
			require.NoError(t, json.Unmarshal([]byte(tt.input), &target))
			assert.Equal(t, tt.wantAttr, target.Attr)
			assert.Equal(t, tt.wantValue, target.Value)
			assert.Equal(t, tt.wantAttr != "", target.IsAttr())
		})
	}
}

func TestChoiceUnmarshalFull(t *testing.T) {
	raw := `{
		"text": "Force the hatch",
		"condition": {"has_item": "crowbar", "min_sanity": 30},
		"effect": {"sanity": -5, "add_item": ["splinters"], "update_stats": {"resolve": 1}},
		"roll": {
			"dice": "1d6",
			"bonus_stat": "resolve",
			"target": "perception",
			"condition": "gt",
			"success_node": "lamp_room",
			"failure_node": ["cliff_top", "rockfall"]
		},
		"next_node": "dummy"
	}`

	var choice Choice
	require.NoError(t, json.Unmarshal([]byte(raw), &choice))

	assert.Equal(t, "Force the hatch", choice.Text)
	require.NotNil(t, choice.Condition)
	assert.Equal(t, ItemList{"crowbar"}, choice.Condition.HasItem)
	require.NotNil(t, choice.Condition.MinSanity)
	assert.Equal(t, 30, *choice.Condition.MinSanity)

	require.NotNil(t, choice.Effect)
	assert.Equal(t, -5, choice.Effect.Sanity)
	assert.Equal(t, ItemList{"splinters"}, choice.Effect.AddItem)
	assert.Equal(t, map[string]int{"resolve": 1}, choice.Effect.UpdateStats)

	require.NotNil(t, choice.Roll)
	assert.Equal(t, 6, choice.Roll.Dice.Sides())
	assert.Equal(t, "resolve", choice.Roll.BonusStat)
	assert.Equal(t, "perception", choice.Roll.Target.Attr)
	assert.Equal(t, NodeRef{"lamp_room"}, choice.Roll.SuccessNode)
	assert.Equal(t, NodeRef{"cliff_top", "rockfall"}, choice.Roll.FailureNode)
	assert.Equal(t, NodeRef{DummyNode}, choice.NextNode)
}
