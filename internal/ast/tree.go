// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package ast

// Tree is the flat sequence of top-level items a compile unit reduces
// to: DECL (globals), FNDEF, STDEF, plus reserved slots the parser
// synthesizes for itself (e.g. the lazy-list setter helper, §6
// `lazylists`). A global symbol's Loc is the index in Items of its
// DECL/FNDEF/STDEF; the dead-code pass keeps this invariant intact via
// LocMap when it deletes an item.
type Tree struct {
	Items []*Node

	// Scopes is the symbol table: Scopes[0] is always the global scope
	// and always contains the "default" state.
	Scopes []*Scope
}

// NewTree starts a Tree with just the global scope pushed.
func NewTree() *Tree {
	return &Tree{Scopes: []*Scope{NewScope(NoLoc)}}
}

// PushScope adds a new scope nested under parent and returns its index.
func (t *Tree) PushScope(parent int) int {
	t.Scopes = append(t.Scopes, NewScope(parent))
	return len(t.Scopes) - 1
}

// Lookup searches scope and its ancestors for name, returning the
// Symbol and the scope index it was found in, or (nil, NoLoc).
func (t *Tree) Lookup(scope int, name string) (*Symbol, int) {
	for scope != NoLoc {
		sc := t.Scopes[scope]
		if sym, ok := sc.Symbols[name]; ok {
			return sym, scope
		}
		scope = sc.Parent
	}
	return nil, NoLoc
}

// LocMap renumbers the Loc field of every global DECL/FNDEF/STDEF
// symbol in Scopes[0] after Items has had entries removed, matching the
// dead-code pass's RemoveDeadCode location-shift bookkeeping (§4.5.3).
func (t *Tree) LocMap(removed map[int]bool) {
	shift := 0
	newLoc := make(map[int]int, len(t.Items))
	for i := range t.Items {
		if removed[i] {
			shift++
			continue
		}
		newLoc[i] = i - shift
	}
	out := t.Items[:0]
	for i, it := range t.Items {
		if removed[i] {
			continue
		}
		out = append(out, it)
	}
	t.Items = out

	for _, sym := range t.Scopes[0].Symbols {
		if sym.Loc == NoLoc {
			continue
		}
		if nl, ok := newLoc[sym.Loc]; ok {
			sym.Loc = nl
		} else {
			sym.Loc = NoLoc
		}
	}
}
