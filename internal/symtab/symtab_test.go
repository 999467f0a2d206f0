// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package symtab_test

import (
	"testing"

	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/symtab"
)

func TestPushPopCurrent(t *testing.T) {
	tree := ast.NewTree()
	tab := symtab.New(tree)
	if tab.Current() != 0 {
		t.Fatalf("expected initial current scope 0, got %d", tab.Current())
	}
	child := tab.Push()
	if tab.Current() != child {
		t.Fatalf("expected current scope to be the pushed scope %d, got %d", child, tab.Current())
	}
	if tree.Scopes[child].Parent != 0 {
		t.Errorf("expected the pushed scope's parent to be 0, got %d", tree.Scopes[child].Parent)
	}
	tab.Pop()
	if tab.Current() != 0 {
		t.Errorf("expected current scope to return to 0 after Pop, got %d", tab.Current())
	}
}

func TestPartialFindsInnermostShadow(t *testing.T) {
	tree := ast.NewTree()
	tab := symtab.New(tree)
	tab.AddSymbol(ast.KindVar, 0, "x", ast.TypeInteger)

	child := tab.Push()
	tab.AddSymbol(ast.KindVar, child, "x", ast.TypeString)

	sym, scope, ok := tab.Partial("x")
	if !ok || scope != child || sym.Type != ast.TypeString {
		t.Errorf("expected Partial to find the innermost shadowing 'x', got sym=%#v scope=%d ok=%v", sym, scope, ok)
	}
}

func TestPartialLabelOnlyMatchesLabelKind(t *testing.T) {
	tree := ast.NewTree()
	tab := symtab.New(tree)
	tab.AddSymbol(ast.KindVar, 0, "done", ast.TypeInteger)

	if _, _, ok := tab.PartialLabel("done"); ok {
		t.Errorf("expected PartialLabel to ignore a variable named 'done'")
	}

	tab.AddSymbol(ast.KindLabel, 0, "done", ast.TypeNone)
	if _, _, ok := tab.PartialLabel("done"); !ok {
		t.Errorf("expected PartialLabel to find the label 'done'")
	}
}

func TestPartialLabelInWalksScopeParentsNotLiveStack(t *testing.T) {
	tree := ast.NewTree()
	tab := symtab.New(tree)
	outer := tab.Push()
	tab.AddSymbol(ast.KindLabel, outer, "top", ast.TypeNone)
	inner := tab.Push()
	tab.Pop()
	tab.Pop()

	// The live stack no longer includes outer/inner, but PartialLabelIn
	// walks the scope's own Parent chain regardless of the parser's
	// current position, which is exactly why it exists (resolving a
	// forward jump to a label declared later in the same block).
	if _, scope, ok := tab.PartialLabelIn(inner, "top"); !ok || scope != outer {
		t.Errorf("expected PartialLabelIn to find 'top' in the ancestor scope %d, got scope=%d ok=%v", outer, scope, ok)
	}
}

func TestFullFallsBackToTempGlobalsOnlyWhenForwardRefAllowed(t *testing.T) {
	tree := ast.NewTree()
	tab := symtab.New(tree)

	temp := map[string]*ast.Symbol{"fwd": {Name: "fwd", Kind: ast.KindVar, Type: ast.TypeInteger}}
	if _, _, ok := tab.Full("fwd", temp, false); ok {
		t.Errorf("expected Full to refuse the temp-globals fallback when allowForwardRef is false")
	}
	if _, scope, ok := tab.Full("fwd", temp, true); !ok || scope != 0 {
		t.Errorf("expected Full to resolve 'fwd' via tempGlobals when allowForwardRef is true, got scope=%d ok=%v", scope, ok)
	}
	if _, _, ok := tab.Full("missing", temp, true); ok {
		t.Errorf("expected Full to report false for a name absent from every fallback")
	}
}

func TestAddSymbolSetsScopeOnlyForVarAndLabel(t *testing.T) {
	tree := ast.NewTree()
	tab := symtab.New(tree)
	child := tab.Push()

	v := tab.AddSymbol(ast.KindVar, child, "v", ast.TypeInteger)
	if v.Scope != child {
		t.Errorf("expected a variable's Scope field set to %d, got %d", child, v.Scope)
	}
	lbl := tab.AddSymbol(ast.KindLabel, child, "done", ast.TypeNone)
	if lbl.Scope != child {
		t.Errorf("expected a label's Scope field set to %d, got %d", child, lbl.Scope)
	}

	fn := tab.AddSymbol(ast.KindFunc, child, "f", ast.TypeNone)
	if fn.Scope != 0 {
		t.Errorf("expected a function's Scope field to stay at its zero value, got %d", fn.Scope)
	}
	if fn.Loc != ast.NoLoc {
		t.Errorf("expected a freshly added symbol's Loc to start at NoLoc, got %d", fn.Loc)
	}
}
