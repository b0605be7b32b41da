package view

import (
	"sort"

	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/engine"
)

// CardNode is the headless presenter's stand-in for a rendered card.
type CardNode struct {
	Card     Card
	Hidden   bool
	Spans    []engine.Span
	Actions  []CardAction
	handlers map[CardAction]func(string)
}

// Listeners returns how many handlers are attached to the card.
func (n *CardNode) Listeners() int {
	return len(n.handlers)
}

// Headless is an in-memory Presenter used by tests and non-browser hosts.
// It keeps a node per card and lets callers trigger bound actions the way
// a click would.
type Headless struct {
	nodes      map[string]*CardNode
	categories map[core.Category]bool
	emptyTerm  string
	emptyShown bool

	Inserts int
	Removes int
}

var _ Presenter = (*Headless)(nil)

func NewHeadless() *Headless {
	return &Headless{
		nodes:      make(map[string]*CardNode),
		categories: make(map[core.Category]bool),
	}
}

func (h *Headless) InsertCard(c Card) {
	// Re-insertion of an existing card would duplicate nodes in a real
	// presenter; keep first-wins semantics so tests catch it via Inserts.
	h.Inserts++
	if _, exists := h.nodes[c.Tool.ID]; exists {
		return
	}
	h.nodes[c.Tool.ID] = &CardNode{
		Card:     c,
		Spans:    c.Spans,
		handlers: make(map[CardAction]func(string)),
	}
}

func (h *Headless) RemoveCard(id string) {
	h.Removes++
	delete(h.nodes, id)
}

func (h *Headless) SetHidden(id string, hidden bool) {
	if n, ok := h.nodes[id]; ok {
		n.Hidden = hidden
	}
}

func (h *Headless) SetHighlights(id string, spans []engine.Span) {
	if n, ok := h.nodes[id]; ok {
		n.Spans = spans
	}
}

func (h *Headless) SetControls(id string, actions []CardAction) {
	if n, ok := h.nodes[id]; ok {
		n.Actions = actions
	}
}

func (h *Headless) BindAction(id string, action CardAction, handler func(string)) {
	if n, ok := h.nodes[id]; ok {
		n.handlers[action] = handler
	}
}

func (h *Headless) UnbindActions(id string) {
	if n, ok := h.nodes[id]; ok {
		n.handlers = make(map[CardAction]func(string))
	}
}

func (h *Headless) SetCategoryVisible(c core.Category, visible bool) {
	h.categories[c] = visible
}

func (h *Headless) ShowEmptyState(term string) {
	h.emptyShown = true
	h.emptyTerm = term
}

func (h *Headless) HideEmptyState() {
	h.emptyShown = false
	h.emptyTerm = ""
}

// Card returns the node for a tool ID, or nil.
func (h *Headless) Card(id string) *CardNode {
	return h.nodes[id]
}

// CardIDs returns the IDs of all materialized cards, sorted for stable
// assertions.
func (h *Headless) CardIDs() []string {
	ids := make([]string, 0, len(h.nodes))
	for id := range h.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Click triggers a bound action the way a user interaction would. It
// reports whether a handler was attached.
func (h *Headless) Click(id string, action CardAction) bool {
	n, ok := h.nodes[id]
	if !ok {
		return false
	}
	fn, ok := n.handlers[action]
	if !ok {
		return false
	}
	fn(id)
	return true
}

func (h *Headless) CategoryVisible(c core.Category) bool {
	return h.categories[c]
}

func (h *Headless) EmptyStateVisible() (bool, string) {
	return h.emptyShown, h.emptyTerm
}
