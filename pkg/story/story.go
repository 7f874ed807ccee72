package story

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultSides is the die used when a roll omits its dice spec or the
// spec cannot be parsed.
const DefaultSides = 20

// DummyNode is the placeholder next_node used by roll-bearing choices.
// The engine never routes to it; the roll's success/failure nodes win.
const DummyNode = "dummy"

// Rand is the source of randomness for all content draws (text variants,
// node sets). The engine injects a shared implementation so tests can
// supply deterministic sequences.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Chapter is an independently loaded collection of nodes. Chapters are
// read-only content; gameplay never mutates them.
type Chapter struct {
	ID           string          `json:"-"` // filename without .json
	StartNode    NodeRef         `json:"start_node"`
	InitialState *InitialState   `json:"initial_state,omitempty"`
	Nodes        map[string]Node `json:"nodes"`
}

// InitialState seeds a play session that begins in this chapter.
type InitialState struct {
	Sanity    *int           `json:"sanity,omitempty"`
	Inventory []string       `json:"inventory,omitempty"`
	Stats     map[string]int `json:"stats,omitempty"`
}

// Node is one narrative beat. Text may carry several variants; one is
// drawn each time the node is rendered.
type Node struct {
	Text    TextVariants `json:"text"`
	Visual  string       `json:"visual,omitempty"`
	Choices []Choice     `json:"choices"`
}

// Choice is a player-selectable option. When Roll is set, the destination
// lives inside the roll and NextNode is typically the dummy placeholder.
type Choice struct {
	Text        string     `json:"text"`
	Condition   *Condition `json:"condition,omitempty"`
	Effect      *Effect    `json:"effect,omitempty"`
	Roll        *Roll      `json:"roll,omitempty"`
	NextChapter string     `json:"next_chapter,omitempty"`
	NextNode    NodeRef    `json:"next_node,omitempty"`
}

// Condition gates choice visibility. All present clauses must hold.
type Condition struct {
	HasItem   ItemList `json:"has_item,omitempty"`
	MinSanity *int     `json:"min_sanity,omitempty"`
	MaxSanity *int     `json:"max_sanity,omitempty"`
}

// Effect mutates player state. Reset discards everything else and
// restarts the session from the canonical first chapter.
type Effect struct {
	Sanity      int            `json:"sanity,omitempty"`
	AddItem     ItemList       `json:"add_item,omitempty"`
	UpdateStats map[string]int `json:"update_stats,omitempty"`
	Reset       bool           `json:"reset,omitempty"`
}

// Roll is a randomized success/failure branch.
type Roll struct {
	Dice        DiceSpec `json:"dice,omitempty"`
	BonusStat   string   `json:"bonus_stat,omitempty"`
	Target      Target   `json:"target"`
	Condition   string   `json:"condition,omitempty"`
	SuccessNode NodeRef  `json:"success_node,omitempty"`
	FailureNode NodeRef  `json:"failure_node,omitempty"`
}

// Event is a random interrupt injected between a choice and its real
// destination.
type Event struct {
	Text   string  `json:"text"`
	Visual string  `json:"visual,omitempty"`
	Effect *Effect `json:"effect,omitempty"`
}

// NodeRef is a node destination: a single node id or a set of candidates,
// one of which is drawn at transition time. Empty means "use the target
// chapter's start node".
type NodeRef []string

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (r *NodeRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = NodeRef{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*r = NodeRef(list)
	return nil
}

// MarshalJSON emits a bare string for single-id refs, keeping stored
// player state compact.
func (r NodeRef) MarshalJSON() ([]byte, error) {
	if len(r) == 1 {
		return json.Marshal(r[0])
	}
	return json.Marshal([]string(r))
}

// IsEmpty reports whether the ref names no node at all.
func (r NodeRef) IsEmpty() bool {
	return len(r) == 0
}

// Resolve draws one candidate. A single-id ref needs no randomness.
func (r NodeRef) Resolve(rng Rand) string {
	switch len(r) {
	case 0:
		return ""
	case 1:
		return r[0]
	default:
		return r[rng.Intn(len(r))]
	}
}

// TextVariants is narrative text: a single string or a set of candidates,
// one drawn per render.
type TextVariants []string

func (t *TextVariants) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TextVariants{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*t = TextVariants(list)
	return nil
}

func (t TextVariants) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// Pick draws one variant for rendering.
func (t TextVariants) Pick(rng Rand) string {
	switch len(t) {
	case 0:
		return ""
	case 1:
		return t[0]
	default:
		return t[rng.Intn(len(t))]
	}
}

// ItemList is one item id or several. Conditions require all listed
// items; effects add each one.
type ItemList []string

func (il *ItemList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*il = ItemList{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*il = ItemList(list)
	return nil
}

func (il ItemList) MarshalJSON() ([]byte, error) {
	if len(il) == 1 {
		return json.Marshal(il[0])
	}
	return json.Marshal([]string(il))
}

// DiceSpec is a dice expression: "NdS", a bare number, or a numeric
// string. Only the number of sides matters; every roll throws one die.
type DiceSpec struct {
	raw string
}

func (d *DiceSpec) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		d.raw = s
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	d.raw = strconv.Itoa(n)
	return nil
}

func (d DiceSpec) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.raw)
}

// String returns the raw spec as written in the content file.
func (d DiceSpec) String() string {
	return d.raw
}

// Sides parses the expression into a die size, defaulting to 20 on an absent
// or unparseable spec.
func (d DiceSpec) Sides() int {
	raw := strings.TrimSpace(strings.ToLower(d.raw))
	if raw == "" {
		return DefaultSides
	}
	if idx := strings.Index(raw, "d"); idx >= 0 {
		raw = raw[idx+1:]
	}
	sides, err := strconv.Atoi(raw)
	if err != nil || sides <= 0 {
		return DefaultSides
	}
	return sides
}

// Target is a roll target: a literal integer or the name of a player
// attribute resolved at roll time.
type Target struct {
	Attr  string
	Value int
}

func (t *Target) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		t.Value = n
		t.Attr = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		t.Value = n
		t.Attr = ""
		return nil
	}
	t.Attr = s
	return nil
}

func (t Target) MarshalJSON() ([]byte, error) {
	if t.Attr != "" {
		return json.Marshal(t.Attr)
	}
	return json.Marshal(t.Value)
}

// IsAttr reports whether the target names an attribute rather than a
// literal value.
func (t Target) IsAttr() bool {
	return t.Attr != ""
}
