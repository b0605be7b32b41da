// Package engine computes which directory entries are visible for a given
// viewer and search term. It is pure: no I/O, no clocks, no side effects.
// Callers feed it an already-resident tool list and read back a derived
// visible set; identical inputs always produce identical output.
package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dmonteiro/curio/core"
)

// MatchField identifies which text field a highlight span falls in.
type MatchField int

const (
	MatchName MatchField = iota
	MatchDescription
)

// Span is a highlight range in the original (unfolded) text of a field.
// The search term is always treated as literal text; spans are computed by
// substring offset, never by compiling the term as a pattern.
type Span struct {
	Field MatchField
	Start int
	End   int
}

// VisibleTool is one entry of the derived visible set.
type VisibleTool struct {
	Tool          core.Tool
	MatchesSearch bool
	Visible       bool
	Spans         []Span
}

// VisibleSet is the derived, non-authoritative mapping from tool ID to
// visibility state. Order preserves the insertion order of the
// authoritative list; there is no relevance re-sorting.
type VisibleSet struct {
	Order    []string
	Items    map[string]*VisibleTool
	Term     string
	ViewerID string

	categoryVisible map[core.Category]bool
}

// VisibleIDs returns the IDs of fully visible tools in authoritative order.
func (s *VisibleSet) VisibleIDs() []string {
	out := make([]string, 0, len(s.Order))
	for _, id := range s.Order {
		if s.Items[id].Visible {
			out = append(out, id)
		}
	}
	return out
}

// CategoryVisible reports whether the category container should render.
// A category shows when it has at least one visible tool, or when the
// search term is empty and it holds any tool the viewer may see at all.
func (s *VisibleSet) CategoryVisible(c core.Category) bool {
	return s.categoryVisible[c]
}

// Empty reports whether nothing is visible. Together with a non-empty
// term this is the "no results" condition.
func (s *VisibleSet) Empty() bool {
	for _, id := range s.Order {
		if s.Items[id].Visible {
			return false
		}
	}
	return true
}

// Filter holds the in-memory tool list and the current search term.
// It is not safe for concurrent use; the owning controller serializes
// access.
type Filter struct {
	tools []core.Tool
	term  string
}

func New() *Filter {
	return &Filter{}
}

// SetToolSet replaces the authoritative in-memory list. The slice is
// copied; previous filter results are invalidated.
func (f *Filter) SetToolSet(tools []core.Tool) {
	f.tools = make([]core.Tool, len(tools))
	copy(f.tools, tools)
}

// SetSearchTerm stores the normalized (trimmed, case-folded) term.
func (f *Filter) SetSearchTerm(term string) {
	f.term = strings.ToLower(strings.TrimSpace(term))
}

// Term returns the normalized search term currently in effect.
func (f *Filter) Term() string {
	return f.term
}

// ComputeVisibility derives the visible set for the given viewer. An empty
// viewerID means "not signed in". A tool is visible iff the term is empty
// or a case-insensitive substring of its name or description, and the
// ownership rule holds: admin tools and system tools are visible to
// everyone, custom tools only to their owner.
func (f *Filter) ComputeVisibility(viewerID string) *VisibleSet {
	set := &VisibleSet{
		Order:           make([]string, 0, len(f.tools)),
		Items:           make(map[string]*VisibleTool, len(f.tools)),
		Term:            f.term,
		ViewerID:        viewerID,
		categoryVisible: make(map[core.Category]bool, len(core.Categories)),
	}

	for _, t := range f.tools {
		if !t.VisibleTo(viewerID) {
			// Other users' custom tools are never materialized at all.
			continue
		}

		matches, spans := f.match(&t)
		set.Order = append(set.Order, t.ID)
		set.Items[t.ID] = &VisibleTool{
			Tool:          t,
			MatchesSearch: matches,
			Visible:       matches,
			Spans:         spans,
		}

		if matches || f.term == "" {
			set.categoryVisible[t.Category] = true
		}
	}

	return set
}

// match reports whether the tool matches the current term and where the
// term occurs. Matching is plain substring over case-folded text; an empty
// term matches everything and highlights nothing.
func (f *Filter) match(t *core.Tool) (bool, []Span) {
	if f.term == "" {
		return true, nil
	}

	var spans []Span
	if start, end, ok := indexFold(t.Name, f.term); ok {
		spans = append(spans, Span{Field: MatchName, Start: start, End: end})
	}
	if start, end, ok := indexFold(t.Description, f.term); ok {
		spans = append(spans, Span{Field: MatchDescription, Start: start, End: end})
	}
	return len(spans) > 0, spans
}

// indexFold locates the first case-insensitive occurrence of the
// already-lowered term in s. The returned byte range indexes s itself,
// so spans stay correct when case folding changes a rune's byte length.
func indexFold(s, term string) (start, end int, ok bool) {
	for i := 0; i < len(s); {
		if n, match := foldedPrefixLen(s[i:], term); match {
			return i, i + n, true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return 0, 0, false
}

// foldedPrefixLen reports how many bytes of s lower-fold to term.
func foldedPrefixLen(s, term string) (int, bool) {
	i := 0
	for _, want := range term {
		r, size := utf8.DecodeRuneInString(s[i:])
		if size == 0 {
			return 0, false
		}
		if unicode.ToLower(r) != want {
			return 0, false
		}
		i += size
	}
	return i, true
}
