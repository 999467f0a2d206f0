// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package deadcode_test

import (
	"testing"

	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/constfold"
	"github.com/playbymail/lslopt/internal/deadcode"
	"github.com/playbymail/lslopt/internal/parser"
)

func parseAndFold(t *testing.T, src string) *ast.Tree {
	t.Helper()
	p := parser.New([]byte(src), parser.Options{}, nil)
	tree, err := p.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return constfold.New(p.Scopes()).Fold(tree)
}

func hasGlobal(tree *ast.Tree, name string) bool {
	for _, item := range tree.Items {
		if item.Tag == ast.DECL && item.Name == name {
			return true
		}
	}
	return false
}

func findFunc(tree *ast.Tree, name string) *ast.Node {
	for _, item := range tree.Items {
		if item.Tag == ast.FNDEF && item.Name == name {
			return item
		}
	}
	return nil
}

func TestRemoveDeadCodeDropsUnreferencedGlobal(t *testing.T) {
	tree := parseAndFold(t, `
integer unused = 5;

default
{
    state_entry()
    {
    }
}
`)
	deadcode.New(tree).RemoveDeadCode()

	if hasGlobal(tree, "unused") {
		t.Errorf("expected unreferenced global %q to be removed", "unused")
	}
	if _, ok := tree.Scopes[0].Symbols["unused"]; ok {
		t.Errorf("expected symbol %q to be removed from global scope", "unused")
	}
}

// TestRemoveDeadCodeSubstitutesSingleWriterConst exercises §4.5.2:
// a global written exactly once with a constant value has every read
// replaced by that constant, and (being fully accounted for) its own
// declaration dropped.
func TestRemoveDeadCodeSubstitutesSingleWriterConst(t *testing.T) {
	tree := parseAndFold(t, `
integer x = 7;

integer getX()
{
    return x;
}

default
{
    state_entry()
    {
        integer y = getX();
    }
}
`)
	deadcode.New(tree).RemoveDeadCode()

	if hasGlobal(tree, "x") {
		t.Errorf("expected single-writer-const global %q to be removed", "x")
	}

	getX := findFunc(tree, "getX")
	if getX == nil {
		t.Fatalf("expected getX to survive (it's called from state_entry)")
	}
	body := getX.Ch[0]
	if len(body.Ch) != 1 || body.Ch[0].Tag != ast.RETURN {
		t.Fatalf("expected a single surviving return statement, got %#v", body.Ch)
	}
	ret := body.Ch[0]
	if len(ret.Ch) != 1 || ret.Ch[0].Tag != ast.CONST || ret.Ch[0].Value != int32(7) {
		t.Errorf("expected the return to read x's substituted constant 7, got %#v", ret.Ch)
	}
}

// TestRemoveDeadCodeDropsUnreachableStatement exercises the
// reachability walk: a declaration following an unconditional return is
// never executed and gets deleted outright (unlike a trailing return
// itself, which CleanNode deliberately keeps per its isFnDef carve-out).
func TestRemoveDeadCodeDropsUnreachableStatement(t *testing.T) {
	tree := parseAndFold(t, `
integer getValue()
{
    return 5;
    integer z = 6;
}

default
{
    state_entry()
    {
        integer y = getValue();
    }
}
`)
	deadcode.New(tree).RemoveDeadCode()

	getValue := findFunc(tree, "getValue")
	if getValue == nil {
		t.Fatalf("expected getValue to survive (it's called from state_entry)")
	}
	body := getValue.Ch[0]
	if len(body.Ch) != 1 {
		t.Fatalf("expected the unreachable declaration after 'return' to be dropped, got %d statements", len(body.Ch))
	}
	if body.Ch[0].Tag != ast.RETURN {
		t.Fatalf("expected the surviving statement to be the return, got %#v", body.Ch[0])
	}
}
