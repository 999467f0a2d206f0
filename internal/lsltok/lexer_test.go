// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package lsltok_test

import (
	"testing"

	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/lsltok"
)

func allTokens(l *lsltok.Lexer) []lsltok.Token {
	var toks []lsltok.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == lsltok.EOF {
			return toks
		}
	}
}

func TestLexKeywordsAndIdents(t *testing.T) {
	l := lsltok.New([]byte("default state x _y2"), lsltok.Options{})
	toks := allTokens(l)
	want := []lsltok.Kind{lsltok.KwDefault, lsltok.KwState, lsltok.IDENT, lsltok.IDENT, lsltok.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexTypeKeywordNormalizesQuaternion(t *testing.T) {
	l := lsltok.New([]byte("quaternion"), lsltok.Options{})
	tok := l.Next()
	if tok.Kind != lsltok.TYPE || tok.Text != "rotation" {
		t.Fatalf("got %s %q, want TYPE \"rotation\"", tok.Kind, tok.Text)
	}
}

func TestLexSwitchCaseGatedByOption(t *testing.T) {
	src := []byte("switch case")
	if toks := allTokens(lsltok.New(src, lsltok.Options{})); toks[0].Kind != lsltok.IDENT {
		t.Errorf("expected 'switch' to lex as IDENT when EnableSwitch is off, got %s", toks[0].Kind)
	}
	if toks := allTokens(lsltok.New(src, lsltok.Options{EnableSwitch: true})); toks[0].Kind != lsltok.KwSwitch {
		t.Errorf("expected 'switch' to lex as KwSwitch when EnableSwitch is on, got %s", toks[0].Kind)
	}
}

func TestLexBreakContinueGatedBySwitchOrBreakCont(t *testing.T) {
	src := []byte("break continue")
	if toks := allTokens(lsltok.New(src, lsltok.Options{})); toks[0].Kind != lsltok.IDENT {
		t.Errorf("expected 'break' to lex as IDENT with no gating option, got %s", toks[0].Kind)
	}
	if toks := allTokens(lsltok.New(src, lsltok.Options{BreakCont: true})); toks[0].Kind != lsltok.KwBreak {
		t.Errorf("expected 'break' to lex as KwBreak with BreakCont set, got %s", toks[0].Kind)
	}
	if toks := allTokens(lsltok.New(src, lsltok.Options{EnableSwitch: true})); toks[0].Kind != lsltok.KwBreak {
		t.Errorf("expected 'break' to lex as KwBreak with EnableSwitch set, got %s", toks[0].Kind)
	}
}

func TestLexIntegerLiteral(t *testing.T) {
	tok := lsltok.New([]byte("12345"), lsltok.Options{}).Next()
	if tok.Kind != lsltok.INTEGER_VALUE || tok.Value != int32(12345) {
		t.Fatalf("got %s %v, want INTEGER_VALUE 12345", tok.Kind, tok.Value)
	}
}

func TestLexHexIntegerLiteral(t *testing.T) {
	tok := lsltok.New([]byte("0xFF"), lsltok.Options{}).Next()
	if tok.Kind != lsltok.INTEGER_VALUE || tok.Value != int32(255) {
		t.Fatalf("got %s %v, want INTEGER_VALUE 255", tok.Kind, tok.Value)
	}
}

func TestLexHexIntegerOverflowSaturatesToNegativeOne(t *testing.T) {
	// More than 8 hex digits overflows int32; the lexer saturates to -1
	// rather than truncating silently.
	tok := lsltok.New([]byte("0x123456789"), lsltok.Options{}).Next()
	if tok.Kind != lsltok.INTEGER_VALUE || tok.Value != int32(-1) {
		t.Fatalf("got %s %v, want INTEGER_VALUE -1", tok.Kind, tok.Value)
	}
}

func TestLexFloatLiteral(t *testing.T) {
	tok := lsltok.New([]byte("3.25"), lsltok.Options{}).Next()
	if tok.Kind != lsltok.FLOAT_VALUE || tok.Value != float32(3.25) {
		t.Fatalf("got %s %v, want FLOAT_VALUE 3.25", tok.Kind, tok.Value)
	}
}

func TestLexFloatLiteralWithExponent(t *testing.T) {
	tok := lsltok.New([]byte("1.5e2"), lsltok.Options{}).Next()
	if tok.Kind != lsltok.FLOAT_VALUE || tok.Value != float32(150) {
		t.Fatalf("got %s %v, want FLOAT_VALUE 150", tok.Kind, tok.Value)
	}
}

func TestLexLeadingDotFloatLiteral(t *testing.T) {
	tok := lsltok.New([]byte(".5"), lsltok.Options{}).Next()
	if tok.Kind != lsltok.FLOAT_VALUE || tok.Value != float32(0.5) {
		t.Fatalf("got %s %v, want FLOAT_VALUE 0.5", tok.Kind, tok.Value)
	}
}

func TestLexBareDotIsDotToken(t *testing.T) {
	tok := lsltok.New([]byte("."), lsltok.Options{}).Next()
	if tok.Kind != lsltok.DOT {
		t.Fatalf("got %s, want DOT", tok.Kind)
	}
}

func TestLexStringWithEscapes(t *testing.T) {
	tok := lsltok.New([]byte(`"a\nb\tc\"d"`), lsltok.Options{}).Next()
	if tok.Kind != lsltok.STRING_VALUE {
		t.Fatalf("got %s, want STRING_VALUE", tok.Kind)
	}
	want := "a\nb    c\"d"
	if tok.Value != want {
		t.Errorf("got %q, want %q", tok.Value, want)
	}
}

func TestLexUnterminatedStringRollsBackAndReLexes(t *testing.T) {
	// A bare unterminated '"' isn't a valid string; the lexer rolls
	// back to the opening quote and re-lexes from there instead of
	// erroring. '"' has no punctuation token of its own, so it's
	// silently skipped and the following identifier is returned.
	tok := lsltok.New([]byte(`"abc`), lsltok.Options{}).Next()
	if tok.Kind != lsltok.IDENT || tok.Text != "abc" {
		t.Fatalf("got %s %q, want IDENT \"abc\"", tok.Kind, tok.Text)
	}
}

func TestLexLineComment(t *testing.T) {
	toks := allTokens(lsltok.New([]byte("integer x; // trailing comment\nfloat y;"), lsltok.Options{}))
	var kinds []lsltok.Kind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []lsltok.Kind{lsltok.TYPE, lsltok.IDENT, lsltok.SEMI, lsltok.TYPE, lsltok.IDENT, lsltok.SEMI, lsltok.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(kinds), kinds, len(want))
	}
	for i, k := range want {
		if kinds[i] != k {
			t.Errorf("token %d: got %s, want %s", i, kinds[i], k)
		}
	}
}

func TestLexBlockComment(t *testing.T) {
	l := lsltok.New([]byte("/* comment\nspanning lines */ integer"), lsltok.Options{})
	tok := l.Next()
	if tok.Kind != lsltok.TYPE || tok.Text != "integer" {
		t.Fatalf("got %s %q, want TYPE \"integer\"", tok.Kind, tok.Text)
	}
}

func TestLexUnterminatedBlockCommentSetsErr(t *testing.T) {
	l := lsltok.New([]byte("/* never closed"), lsltok.Options{})
	tok := l.Next()
	if tok.Kind != lsltok.EOF {
		t.Fatalf("got %s, want EOF", tok.Kind)
	}
	if l.Err() != lsltok.ErrUnterminatedComment {
		t.Errorf("got err %v, want ErrUnterminatedComment", l.Err())
	}
}

func TestLexTwoCharOperators(t *testing.T) {
	l := lsltok.New([]byte("== != >= <= && || << >>"), lsltok.Options{})
	toks := allTokens(l)
	want := []lsltok.Kind{
		lsltok.EQ, lsltok.NE, lsltok.GE, lsltok.LE, lsltok.AND, lsltok.OR, lsltok.SHL, lsltok.SHR, lsltok.EOF,
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexExtendedAssignmentGatesCompoundOperators(t *testing.T) {
	src := []byte("<<= >>=")
	toks := allTokens(lsltok.New(src, lsltok.Options{}))
	if toks[0].Kind != lsltok.SHL || toks[0].Text != "<<" {
		t.Errorf("without ExtendedAssignment, expected '<<=' to split into SHL '=' tokens, got %s %q", toks[0].Kind, toks[0].Text)
	}

	toks = allTokens(lsltok.New(src, lsltok.Options{ExtendedAssignment: true}))
	want := []lsltok.Kind{lsltok.SHLASSIGN, lsltok.SHRASSIGN, lsltok.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestLexEventNameRecognizedFromEventsTable(t *testing.T) {
	l := lsltok.New([]byte("touch_start"), lsltok.Options{})
	l.Events = map[string]bool{"touch_start": true}
	tok := l.Next()
	if tok.Kind != lsltok.EVENT_NAME {
		t.Fatalf("got %s, want EVENT_NAME", tok.Kind)
	}
}

func TestLexConstantFromConstantsTable(t *testing.T) {
	l := lsltok.New([]byte("PI"), lsltok.Options{})
	l.Constants = map[string]ast.Value{"PI": float32(3.14159)}
	tok := l.Next()
	if tok.Kind != lsltok.FLOAT_VALUE {
		t.Fatalf("got %s, want FLOAT_VALUE for a float-valued constant", tok.Kind)
	}
	if tok.Value != float32(3.14159) {
		t.Errorf("got %v, want 3.14159", tok.Value)
	}
}

func TestLexProcessPreRecordsLineDirective(t *testing.T) {
	l := lsltok.New([]byte("#line 42 \"foo.lsl\"\ninteger x;"), lsltok.Options{ProcessPre: true})
	tok := l.Next()
	if tok.Kind != lsltok.TYPE {
		t.Fatalf("got %s, want TYPE (directive line consumed)", tok.Kind)
	}
	if len(l.Directives) != 1 {
		t.Fatalf("got %d directives, want 1", len(l.Directives))
	}
	d := l.Directives[0]
	if d.Line != 42 || d.File != "foo.lsl" {
		t.Errorf("got %+v, want Line=42 File=foo.lsl", d)
	}
}

func TestLexUnrecognizedCharacterIsSkipped(t *testing.T) {
	// '$' isn't in singleSymbols; the lexer silently skips it rather
	// than erroring, matching the original's permissive behavior.
	toks := allTokens(lsltok.New([]byte("$ integer"), lsltok.Options{}))
	if toks[0].Kind != lsltok.TYPE {
		t.Fatalf("got %s, want the unrecognized '$' to be skipped and 'integer' lexed next", toks[0].Kind)
	}
}
