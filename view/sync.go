package view

import (
	"github.com/dmonteiro/curio/core"
	"github.com/dmonteiro/curio/engine"
)

// ActionHandlers are the callbacks wired onto owned cards' edit and delete
// affordances.
type ActionHandlers struct {
	Edit   func(toolID string)
	Delete func(toolID string)
}

// Sync applies the minimal presentation changes between consecutive
// visible sets. It tracks which cards exist and which have handlers bound
// so repeated add/remove cycles never leak listeners.
type Sync struct {
	p        Presenter
	handlers ActionHandlers

	prev       *engine.VisibleSet
	viewer     string
	bound      map[string]bool
	surfaces   map[string]*Surface
	emptyShown bool
}

func New(p Presenter, handlers ActionHandlers) *Sync {
	return &Sync{
		p:        p,
		handlers: handlers,
		bound:    make(map[string]bool),
		surfaces: make(map[string]*Surface),
	}
}

// Reconcile diffs the previously applied visible set against next and
// applies insertions, removals, hidden/highlight toggles, category
// visibility, and the empty-state indicator. viewerID gates which cards
// get mutation affordances.
func (s *Sync) Reconcile(next *engine.VisibleSet, viewerID string) {
	prevItems := map[string]*engine.VisibleTool{}
	if s.prev != nil {
		prevItems = s.prev.Items
	}

	// Insertions and in-place updates, in authoritative order.
	for _, id := range next.Order {
		item := next.Items[id]
		before, existed := prevItems[id]
		if !existed {
			s.p.InsertCard(Card{Tool: item.Tool, Spans: item.Spans})
			s.p.SetHidden(id, !item.MatchesSearch)
			s.RenderOwnershipControls(item.Tool, viewerID)
			continue
		}
		if before.MatchesSearch != item.MatchesSearch {
			s.p.SetHidden(id, !item.MatchesSearch)
		}
		s.p.SetHighlights(id, item.Spans)
		// Refresh affordances when the record changed in place (edit) or
		// the viewer changed: a card that survives an auth change must
		// not keep the previous viewer's controls.
		if before.Tool != item.Tool || viewerID != s.viewer {
			s.RenderOwnershipControls(item.Tool, viewerID)
		}
	}

	// Removals: detach handlers before tearing the card down.
	if s.prev != nil {
		for _, id := range s.prev.Order {
			if _, still := next.Items[id]; still {
				continue
			}
			if s.bound[id] {
				s.p.UnbindActions(id)
				delete(s.bound, id)
			}
			delete(s.surfaces, id)
			s.p.RemoveCard(id)
		}
	}

	s.applyCategoriesAndEmptyState(next)
	s.prev = next
	s.viewer = viewerID
}

// RenderOwnershipControls renders edit/delete affordances on a card iff
// the tool belongs to the viewer. Idempotent: calling twice with the same
// arguments never duplicates buttons or handlers.
func (s *Sync) RenderOwnershipControls(t core.Tool, viewerID string) {
	owned := viewerID != "" && t.OwnerUserID == viewerID
	if !owned {
		s.p.SetControls(t.ID, nil)
		if s.bound[t.ID] {
			s.p.UnbindActions(t.ID)
			delete(s.bound, t.ID)
		}
		return
	}

	s.p.SetControls(t.ID, []CardAction{ActionEdit, ActionDelete})
	if s.bound[t.ID] {
		return
	}
	if s.handlers.Edit != nil {
		s.p.BindAction(t.ID, ActionEdit, s.handlers.Edit)
	}
	if s.handlers.Delete != nil {
		s.p.BindAction(t.ID, ActionDelete, s.handlers.Delete)
	}
	s.bound[t.ID] = true
}

// Surface returns the open-state machine for the given modal or card
// overlay, creating it on first use.
func (s *Sync) Surface(id string) *Surface {
	surf, ok := s.surfaces[id]
	if !ok {
		surf = &Surface{}
		s.surfaces[id] = surf
	}
	return surf
}

func (s *Sync) applyCategoriesAndEmptyState(next *engine.VisibleSet) {
	noResults := next.Empty() && next.Term != ""

	for _, c := range core.Categories {
		visible := next.CategoryVisible(c) && !noResults
		s.p.SetCategoryVisible(c, visible)
	}

	switch {
	case noResults && !s.emptyShown:
		s.p.ShowEmptyState(next.Term)
		s.emptyShown = true
	case noResults && s.emptyShown:
		// Term changed while still empty: refresh the indicator text.
		s.p.ShowEmptyState(next.Term)
	case !noResults && s.emptyShown:
		s.p.HideEmptyState()
		s.emptyShown = false
	}
}
