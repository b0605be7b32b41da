// Package view translates derived visible sets into concrete presentation
// operations. It owns no authoritative state; it diffs consecutive visible
// sets and applies the minimal changes through a Presenter port so the
// same reconciler drives a DOM, a server-rendered page, or a headless test
// double.
package view

import (
	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/engine"
)

// CardAction is a mutation affordance rendered on a card.
type CardAction string

const (
	ActionEdit   CardAction = "edit"
	ActionDelete CardAction = "delete"
)

// Card is everything a presenter needs to render one tool.
type Card struct {
	Tool  core.Tool
	Spans []engine.Span
}

// Presenter is the capability surface the reconciler drives. Implementations
// must treat every call as idempotent-safe plumbing: the reconciler decides
// what changes, the presenter only applies it.
type Presenter interface {
	// InsertCard materializes a new card with transition-in styling.
	InsertCard(c Card)
	// RemoveCard tears a card down. Any handlers bound to the card's
	// actions are gone after this call.
	RemoveCard(id string)

	SetHidden(id string, hidden bool)
	SetHighlights(id string, spans []engine.Span)

	// SetControls replaces the card's action affordances wholesale.
	SetControls(id string, actions []CardAction)
	// BindAction attaches a handler to one of the card's actions.
	BindAction(id string, action CardAction, handler func(toolID string))
	// UnbindActions detaches every handler bound to the card.
	UnbindActions(id string)

	SetCategoryVisible(c core.Category, visible bool)

	// ShowEmptyState renders the single "no results" indicator for the
	// given term. HideEmptyState removes it.
	ShowEmptyState(term string)
	HideEmptyState()
}
