// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package emit_test

import (
	"strings"
	"testing"

	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/emit"
	"github.com/playbymail/lslopt/internal/parser"
)

func TestFormatValueInteger(t *testing.T) {
	if got := emit.FormatValue(ast.TypeInteger, int32(-7)); got != "-7" {
		t.Errorf("got %q, want -7", got)
	}
}

func TestFormatValueWholeNumberFloatKeepsDecimalPoint(t *testing.T) {
	// A whole-number float must still render with a decimal point, or
	// re-lexing the emitted source would read it back as an integer
	// literal (see internal/compiler's round-trip test).
	got := emit.FormatValue(ast.TypeFloat, float32(1))
	if !strings.Contains(got, ".") {
		t.Errorf("got %q, want a literal containing a decimal point", got)
	}
}

func TestFormatValueString(t *testing.T) {
	got := emit.FormatValue(ast.TypeString, "hi\tthere")
	if got != `"hi\tthere"` {
		t.Errorf("got %q, want a quoted, escaped string literal", got)
	}
}

func TestFormatValueVector(t *testing.T) {
	got := emit.FormatValue(ast.TypeVector, ast.Vector{1, 2.5, 0})
	if got != "<1.0, 2.5, 0.0>" {
		t.Errorf("got %q, want <1.0, 2.5, 0.0>", got)
	}
}

func TestFormatValueList(t *testing.T) {
	got := emit.FormatValue(ast.TypeList, []ast.Value{int32(1), "a"})
	if got != `[1, "a"]` {
		t.Errorf("got %q, want [1, \"a\"]", got)
	}
}

// TestSourceEmitsIfElseAndWhile exercises writeStmt/writeBranch for the
// statement forms with no direct expression-level test elsewhere.
func TestSourceEmitsIfElseAndWhile(t *testing.T) {
	src := `
default
{
    state_entry()
    {
        integer i = 0;
        while (i < 3)
        {
            if (i == 1)
            {
                i = i + 1;
            }
            else
            {
                i = i + 2;
            }
        }
    }
}
`
	p := parser.New([]byte(src), parser.Options{}, nil)
	tree, err := p.Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	out := emit.Source(tree)
	for _, want := range []string{"while (", "if (", "else"} {
		if !strings.Contains(out, want) {
			t.Errorf("emitted source missing %q:\n%s", want, out)
		}
	}
}

// TestWholeNumberFloatLiteralRoundTripsAsFloat guards formatFloat's
// fix: emitting and re-parsing a whole-number float must not turn it
// into an integer-typed literal on the second pass.
func TestWholeNumberFloatLiteralRoundTripsAsFloat(t *testing.T) {
	src := "default\n{\n    state_entry()\n    {\n        float f = 2.0;\n    }\n}\n"
	p1 := parser.New([]byte(src), parser.Options{}, nil)
	tree1, err := p1.Parse()
	if err != nil {
		t.Fatalf("first parse: %v", err)
	}
	out := emit.Source(tree1)

	p2 := parser.New([]byte(out), parser.Options{}, nil)
	tree2, err := p2.Parse()
	if err != nil {
		t.Fatalf("re-parse: %v\n--- emitted ---\n%s", err, out)
	}

	decl := findFloatDecl(t, tree2)
	if decl.Ch[0].Tag != ast.CONST || decl.Ch[0].T != ast.TypeFloat {
		t.Errorf("expected the re-parsed initializer to stay a float CONST, got %#v", decl.Ch[0])
	}
}

func findFloatDecl(t *testing.T, tree *ast.Tree) *ast.Node {
	t.Helper()
	for _, item := range tree.Items {
		if item.Tag != ast.STDEF || item.Name != "default" {
			continue
		}
		for _, ev := range item.Ch {
			if ev.Name != "state_entry" {
				continue
			}
			body := ev.Ch[len(ev.Ch)-1]
			for _, stmt := range body.Ch {
				if stmt.Tag == ast.DECL && stmt.Name == "f" {
					return stmt
				}
			}
		}
	}
	t.Fatalf("declaration of 'f' not found")
	return nil
}
