// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package symtab implements the symbol table (C4): lookup over the
// scope stack maintained by the parser as it enters and leaves blocks,
// function parameter lists, and event handlers, plus the Partial/Full
// lookup-mode distinction of §4.4.
package symtab

import "github.com/playbymail/lslopt/internal/ast"

// Table tracks the currently visible scopes as a stack of indices into
// an ast.Tree, mirroring "a scope-stack (indices, not pointers)" from
// §3.
type Table struct {
	Tree  *ast.Tree
	Stack []int // Stack[0] is scope 0 (global); Stack[len-1] is innermost
}

func New(tree *ast.Tree) *Table {
	return &Table{Tree: tree, Stack: []int{0}}
}

// Push enters a new scope nested under the current innermost scope and
// makes it the new innermost scope.
func (t *Table) Push() int {
	parent := t.Stack[len(t.Stack)-1]
	idx := t.Tree.PushScope(parent)
	t.Stack = append(t.Stack, idx)
	return idx
}

// Pop leaves the innermost scope.
func (t *Table) Pop() {
	t.Stack = t.Stack[:len(t.Stack)-1]
}

// Current returns the innermost scope index.
func (t *Table) Current() int {
	return t.Stack[len(t.Stack)-1]
}

// Partial walks the scope stack top-down (innermost first), down to and
// including Stack[0], and never consults the temp-globals map, so a
// global declared later in the file is not visible through it.
func (t *Table) Partial(name string) (*ast.Symbol, int, bool) {
	for i := len(t.Stack) - 1; i >= 0; i-- {
		scope := t.Stack[i]
		if sym, ok := t.Tree.Scopes[scope].Symbols[name]; ok {
			return sym, scope, true
		}
	}
	return nil, -1, false
}

// PartialLabel is the jump-resolution variant of Partial: it restricts
// matches to label-kind symbols, since labels and variables can share a
// name without conflict.
func (t *Table) PartialLabel(name string) (*ast.Symbol, int, bool) {
	for i := len(t.Stack) - 1; i >= 0; i-- {
		scope := t.Stack[i]
		if sym, ok := t.Tree.Scopes[scope].Symbols[name]; ok && sym.Kind == ast.KindLabel {
			return sym, scope, true
		}
	}
	return nil, -1, false
}

// PartialLabelIn walks up the scope-parent chain starting at scope
// (rather than the live parser stack), used to resolve a jump whose
// label wasn't yet declared when the jump statement was parsed.
func (t *Table) PartialLabelIn(scope int, name string) (*ast.Symbol, int, bool) {
	for s := scope; s != ast.NoLoc; s = t.Tree.Scopes[s].Parent {
		if sym, ok := t.Tree.Scopes[s].Symbols[name]; ok && sym.Kind == ast.KindLabel {
			return sym, s, true
		}
	}
	return nil, -1, false
}

// Full behaves like Partial, then additionally falls back to scope 0
// and finally to tempGlobals (the C2 scan, which is what resolves a
// forward reference to a global declared later in the file), unless
// allowForwardRef is
// false, matching the "unless forward refs are disallowed in the
// current position" rule.
func (t *Table) Full(name string, tempGlobals map[string]*ast.Symbol, allowForwardRef bool) (*ast.Symbol, int, bool) {
	if sym, scope, ok := t.Partial(name); ok {
		return sym, scope, true
	}
	if sym, ok := t.Tree.Scopes[0].Symbols[name]; ok {
		return sym, 0, true
	}
	if !allowForwardRef {
		return nil, -1, false
	}
	if sym, ok := tempGlobals[name]; ok {
		return sym, 0, true
	}
	return nil, -1, false
}

// AddSymbol inserts a new Symbol into scope's table. Variable and label
// kinds receive their Scope field set to scope, matching "Kinds 'v' and
// 'l' receive their Scope field" in §4.4.
func (t *Table) AddSymbol(kind ast.SymbolKind, scope int, name string, typ ast.Type) *ast.Symbol {
	sym := &ast.Symbol{Name: name, Kind: kind, Type: typ, Loc: ast.NoLoc}
	if kind == ast.KindVar || kind == ast.KindLabel {
		sym.Scope = scope
	}
	t.Tree.Scopes[scope].Symbols[name] = sym
	return sym
}
