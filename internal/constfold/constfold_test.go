// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package constfold_test

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/constfold"
	"github.com/playbymail/lslopt/internal/parser"
)

// foldDecl parses a single global declaration, folds it, and returns
// the folded initializer expression.
func foldDecl(t *testing.T, decl string) *ast.Node {
	t.Helper()
	src := decl + "\ndefault\n{\n    state_entry()\n    {\n    }\n}\n"
	p := parser.New([]byte(src), parser.Options{}, nil)
	tree, err := p.Parse()
	if err != nil {
		t.Fatalf("parse %q: %v", decl, err)
	}
	folded := constfold.New(p.Scopes()).Fold(tree)
	global := folded.Items[0]
	if global.Tag != ast.DECL || len(global.Ch) != 1 {
		t.Fatalf("expected a single-initializer global DECL, got %#v", global)
	}
	return global.Ch[0]
}

func TestFoldIntegerArithmetic(t *testing.T) {
	got := foldDecl(t, "integer x = 2 + 3 * 4;")
	if got.Tag != ast.CONST {
		t.Fatalf("expected a folded CONST, got tag %q", got.Tag)
	}
	if diff := deep.Equal(got.Value, int32(14)); diff != nil {
		t.Errorf("unexpected folded value: %v", diff)
	}
}

func TestFoldDivisionByZeroIsNotFolded(t *testing.T) {
	got := foldDecl(t, "integer x = 10 / 0;")
	if got.Tag != ast.DIV {
		t.Fatalf("expected division by a literal zero to stay unfolded, got tag %q", got.Tag)
	}
}

func TestFoldVectorLiteralIntoConst(t *testing.T) {
	got := foldDecl(t, "vector v = <1.0, 2.0, 3.0>;")
	if got.Tag != ast.CONST {
		t.Fatalf("expected a folded CONST vector, got tag %q", got.Tag)
	}
	want := ast.Vector{1, 2, 3}
	if diff := deep.Equal(got.Value, want); diff != nil {
		t.Errorf("unexpected folded vector: %v", diff)
	}
}

func TestFoldVectorCrossProduct(t *testing.T) {
	got := foldDecl(t, "vector v = <1.0, 0.0, 0.0> % <0.0, 1.0, 0.0>;")
	if got.Tag != ast.CONST {
		t.Fatalf("expected a folded CONST, got tag %q", got.Tag)
	}
	want := ast.Vector{0, 0, 1}
	if diff := deep.Equal(got.Value, want); diff != nil {
		t.Errorf("unexpected cross product: %v", diff)
	}
}

func TestFoldBooleanShortCircuit(t *testing.T) {
	// The right operand isn't constant, so the whole expression can
	// only fold when the left operand alone determines the result.
	got := foldDecl(t, "integer x = 0 && (1 / 0);")
	if got.Tag != ast.CONST {
		t.Fatalf("expected short-circuited CONST, got tag %q", got.Tag)
	}
	if diff := deep.Equal(got.Value, int32(0)); diff != nil {
		t.Errorf("unexpected value: %v", diff)
	}
}

func TestFoldStringConcat(t *testing.T) {
	got := foldDecl(t, `string s = "foo" + "bar";`)
	if got.Tag != ast.CONST {
		t.Fatalf("expected folded CONST, got tag %q", got.Tag)
	}
	if diff := deep.Equal(got.Value, "foobar"); diff != nil {
		t.Errorf("unexpected value: %v", diff)
	}
}
