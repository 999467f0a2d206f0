// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser

import "github.com/playbymail/lslopt/internal/ast"

// implicitCasts lists the (from, to) type pairs LSL converts silently:
// integer<->float widening/narrowing and the string/key domain blur.
// Grounded on lslparse.py's autocastcheck/CastNode checks scattered
// through the expression-parsing methods (e.g. Parse_factor promoting
// integer to float).
var implicitCasts = map[ast.Type]map[ast.Type]bool{
	ast.TypeInteger: {ast.TypeFloat: true},
	ast.TypeFloat:   {ast.TypeInteger: true},
	ast.TypeString:  {ast.TypeKey: true},
	ast.TypeKey:     {ast.TypeString: true},
}

func canImplicitCast(from, to ast.Type) bool {
	if from == to {
		return true
	}
	return implicitCasts[from][to]
}

// autocastCheck wraps expr in a CAST node if its type differs from
// want but an implicit conversion exists; it raises KindNoConversion
// otherwise. Mirrors autocastcheck in the original.
func (p *Parser) autocastCheck(expr *ast.Node, want ast.Type) *ast.Node {
	if expr.T == want {
		return expr
	}
	if !canImplicitCast(expr.T, want) {
		panic(newError(p, KindNoConversion, ""))
	}
	return p.castTo(expr, want)
}

func (p *Parser) castTo(expr *ast.Node, want ast.Type) *ast.Node {
	if expr.T == want {
		return expr
	}
	return &ast.Node{Tag: ast.CAST, T: want, Ch: []*ast.Node{expr}, SEF: expr.SEF}
}

// explicitCastAllowed reports whether a (from, to) pair is a legal
// explicit cast target, used when the `explicitcast` option widens
// what Parse_unary_expression's '(' TYPE ')' accepts beyond the
// implicit set.
func explicitCastAllowed(from, to ast.Type) bool {
	if from == to {
		return true
	}
	if canImplicitCast(from, to) {
		return true
	}
	// Anything can be cast to string; integer/float/key/string can be
	// cast to integer/float with truncation/parsing semantics; list
	// accepts anything as a single-element wrap.
	switch to {
	case ast.TypeString:
		return true
	case ast.TypeList:
		return true
	case ast.TypeInteger, ast.TypeFloat:
		return from == ast.TypeString || from == ast.TypeKey
	case ast.TypeKey:
		return from == ast.TypeString
	}
	return false
}
