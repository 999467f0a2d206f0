// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/lsltok"
)

// parseExpression implements `expression`, the entry point for every
// expression context: assignment, then the || / && chain, grounded on
// Parse_expression/Parse_assignment in lslparse.py.
func (p *Parser) parseExpression() *ast.Node {
	return p.parseAssignment()
}

// assignOps maps an assignment token to the compound-assignment Tag it
// produces; ASSIGN itself is handled separately since it needs no
// matching arithmetic operator.
var assignOps = map[lsltok.Kind]ast.Tag{
	lsltok.ADDASSIGN: ast.ASSIGNADD, lsltok.SUBASSIGN: ast.ASSIGNSUB,
	lsltok.MULASSIGN: ast.ASSIGNMUL, lsltok.DIVASSIGN: ast.ASSIGNDIV,
	lsltok.MODASSIGN: ast.ASSIGNMOD,
	lsltok.ANDASSIGN: ast.ASSIGNAND, lsltok.ORASSIGN: ast.ASSIGNOR,
	lsltok.XORASSIGN: ast.ASSIGNXOR,
	lsltok.SHLASSIGN: ast.ASSIGNSHL, lsltok.SHRASSIGN: ast.ASSIGNSHR,
}

// parseAssignment implements `Parse_assignment`: a single lvalue check
// on the left side, right-associative chaining via recursion back into
// itself for the right-hand side.
func (p *Parser) parseAssignment() *ast.Node {
	left := p.parseOrExpr()

	if p.tok.Kind == lsltok.ASSIGN {
		p.next()
		p.requireLValue(left)
		right := p.parseAssignment()
		right = p.autocastCheck(right, left.T)
		return &ast.Node{Tag: ast.ASSIGN, T: left.T, Ch: []*ast.Node{left, right}}
	}
	if tag, ok := assignOps[p.tok.Kind]; ok {
		if !p.opts.ExtendedAssignment && (tag == ast.ASSIGNAND || tag == ast.ASSIGNOR ||
			tag == ast.ASSIGNXOR || tag == ast.ASSIGNSHL || tag == ast.ASSIGNSHR) {
			panic(p.errf(KindSyntax))
		}
		p.next()
		p.requireLValue(left)
		right := p.parseAssignment()
		resultType := binOpType(string(tag), left.T, right.T)
		return &ast.Node{Tag: tag, T: resultType, Ch: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) requireLValue(n *ast.Node) {
	if n.Tag != ast.IDENT && n.Tag != ast.FLD && n.Tag != ast.SUBIDX {
		panic(p.errf(KindSyntax))
	}
}

// parseOrExpr / parseAndExpr implement the `||`/`&&` level, grounded
// directly on Parse_expression.
func (p *Parser) parseOrExpr() *ast.Node {
	left := p.parseAndExpr()
	for p.tok.Kind == lsltok.OR {
		p.next()
		right := p.parseAndExpr()
		left = &ast.Node{Tag: ast.BOOLOR, T: ast.TypeInteger, Ch: []*ast.Node{left, right}}
	}
	return left
}

func (p *Parser) parseAndExpr() *ast.Node {
	left := p.parseBitboolTerm()
	for p.tok.Kind == lsltok.AND {
		p.next()
		right := p.parseBitboolTerm()
		left = &ast.Node{Tag: ast.BOOLAND, T: ast.TypeInteger, Ch: []*ast.Node{left, right}}
	}
	return left
}

// parseBitboolTerm implements Parse_bitbool_term (`|`).
func (p *Parser) parseBitboolTerm() *ast.Node {
	left := p.parseBitxorTerm()
	for p.tok.Kind == lsltok.BITOR {
		p.next()
		right := p.parseBitxorTerm()
		left = p.intBinOp(ast.BITOR, left, right)
	}
	return left
}

// parseBitxorTerm implements Parse_bitxor_term (`^`).
func (p *Parser) parseBitxorTerm() *ast.Node {
	left := p.parseBitboolFactor()
	for p.tok.Kind == lsltok.BITXOR {
		p.next()
		right := p.parseBitboolFactor()
		left = p.intBinOp(ast.BITXOR, left, right)
	}
	return left
}

// parseBitboolFactor implements Parse_bitbool_factor (`&`).
func (p *Parser) parseBitboolFactor() *ast.Node {
	left := p.parseComparison()
	for p.tok.Kind == lsltok.BITAND {
		p.next()
		right := p.parseComparison()
		left = p.intBinOp(ast.BITAND, left, right)
	}
	return left
}

// intBinOp builds a bitwise binary op, requiring both sides be
// (castable to) integer, matching the original's strict integer-only
// rule for `&`/`|`/`^`.
func (p *Parser) intBinOp(tag ast.Tag, left, right *ast.Node) *ast.Node {
	left = p.autocastCheck(left, ast.TypeInteger)
	right = p.autocastCheck(right, ast.TypeInteger)
	return &ast.Node{Tag: tag, T: ast.TypeInteger, Ch: []*ast.Node{left, right}}
}

// parseComparison implements Parse_comparison (`==`, `!=`).
func (p *Parser) parseComparison() *ast.Node {
	left := p.parseInequality()
	for p.tok.Kind == lsltok.EQ || p.tok.Kind == lsltok.NE {
		tag := ast.EQ
		if p.tok.Kind == lsltok.NE {
			tag = ast.NE
		}
		p.next()
		right := p.parseInequality()
		left, right = p.unifyOperands(left, right)
		left = &ast.Node{Tag: tag, T: ast.TypeInteger, Ch: []*ast.Node{left, right}}
	}
	return left
}

// parseInequality implements Parse_inequality (`<`, `<=`, `>`, `>=`).
func (p *Parser) parseInequality() *ast.Node {
	left := p.parseShift()
	for {
		var tag ast.Tag
		switch p.tok.Kind {
		case lsltok.LT:
			tag = ast.LT
		case lsltok.LE:
			tag = ast.LE
		case lsltok.GT:
			tag = ast.GT
		case lsltok.GE:
			tag = ast.GE
		default:
			return left
		}
		p.next()
		right := p.parseShift()
		left, right = p.unifyOperands(left, right)
		left = &ast.Node{Tag: tag, T: ast.TypeInteger, Ch: []*ast.Node{left, right}}
	}
}

// parseShift implements Parse_shift (`<<`, `>>`): both operands must be
// integer.
func (p *Parser) parseShift() *ast.Node {
	left := p.parseTerm()
	for p.tok.Kind == lsltok.SHL || p.tok.Kind == lsltok.SHR {
		tag := ast.SHL
		if p.tok.Kind == lsltok.SHR {
			tag = ast.SHR
		}
		p.next()
		right := p.parseTerm()
		left = p.intBinOp(tag, left, right)
	}
	return left
}

// parseTerm implements Parse_term (`+`, `-`): the widest set of special
// cases (vector/rotation arithmetic, list concatenation/absorption,
// string/key concatenation gated by allowkeyconcat).
func (p *Parser) parseTerm() *ast.Node {
	left := p.parseFactor()
	for p.tok.Kind == lsltok.ADD || p.tok.Kind == lsltok.SUB {
		tag := ast.ADD
		if p.tok.Kind == lsltok.SUB {
			tag = ast.SUB
		}
		p.next()
		right := p.parseFactor()
		left = p.addSub(tag, left, right)
	}
	return left
}

func (p *Parser) addSub(tag ast.Tag, left, right *ast.Node) *ast.Node {
	lt, rt := left.T, right.T

	// List absorbs anything on either side; '-' is not defined for lists.
	if lt == ast.TypeList || rt == ast.TypeList {
		if tag == ast.SUB {
			panic(p.errf(KindTypeMismatch))
		}
		return &ast.Node{Tag: tag, T: ast.TypeList, Ch: []*ast.Node{left, right}}
	}

	if lt == rt {
		if lt == ast.TypeKey && tag == ast.ADD {
			if !p.opts.AllowKeyConcat {
				panic(p.errf(KindTypeMismatch))
			}
			return &ast.Node{Tag: tag, T: ast.TypeString,
				Ch: []*ast.Node{p.castTo(left, ast.TypeString), p.castTo(right, ast.TypeString)}}
		}
		return &ast.Node{Tag: tag, T: lt, Ch: []*ast.Node{left, right}}
	}

	// integer/float promotion.
	if isNumeric(lt) && isNumeric(rt) {
		left, right = p.unifyOperands(left, right)
		return &ast.Node{Tag: tag, T: left.T, Ch: []*ast.Node{left, right}}
	}

	panic(p.errf(KindTypeMismatch))
}

// parseFactor implements Parse_factor (`*`, `/`, `%`): `%` requires
// matching integer or vector operands; `*`/`/` additionally support
// vector*float scaling and vector*rotation/rotation*rotation.
func (p *Parser) parseFactor() *ast.Node {
	left := p.parseUnary()
	for p.tok.Kind == lsltok.MUL || p.tok.Kind == lsltok.DIV || p.tok.Kind == lsltok.MOD {
		var tag ast.Tag
		switch p.tok.Kind {
		case lsltok.MUL:
			tag = ast.MUL
		case lsltok.DIV:
			tag = ast.DIV
		default:
			tag = ast.MOD
		}
		p.next()
		right := p.parseUnary()
		left = p.mulDivMod(tag, left, right)
	}
	return left
}

func (p *Parser) mulDivMod(tag ast.Tag, left, right *ast.Node) *ast.Node {
	lt, rt := left.T, right.T

	if tag == ast.MOD {
		if lt == ast.TypeVector && rt == ast.TypeVector {
			return &ast.Node{Tag: tag, T: ast.TypeVector, Ch: []*ast.Node{left, right}}
		}
		left = p.autocastCheck(left, ast.TypeInteger)
		right = p.autocastCheck(right, ast.TypeInteger)
		return &ast.Node{Tag: tag, T: ast.TypeInteger, Ch: []*ast.Node{left, right}}
	}

	switch {
	case lt == ast.TypeVector && rt == ast.TypeVector:
		if tag != ast.MUL {
			panic(p.errf(KindTypeMismatch))
		}
		return &ast.Node{Tag: tag, T: ast.TypeFloat, Ch: []*ast.Node{left, right}} // dot product
	case lt == ast.TypeVector && isNumeric(rt):
		right = p.autocastCheck(right, ast.TypeFloat)
		return &ast.Node{Tag: tag, T: ast.TypeVector, Ch: []*ast.Node{left, right}}
	case isNumeric(lt) && rt == ast.TypeVector && tag == ast.MUL:
		left = p.autocastCheck(left, ast.TypeFloat)
		return &ast.Node{Tag: tag, T: ast.TypeVector, Ch: []*ast.Node{left, right}}
	case lt == ast.TypeVector && rt == ast.TypeRotation:
		return &ast.Node{Tag: tag, T: ast.TypeVector, Ch: []*ast.Node{left, right}}
	case lt == ast.TypeRotation && rt == ast.TypeRotation:
		return &ast.Node{Tag: tag, T: ast.TypeRotation, Ch: []*ast.Node{left, right}}
	case isNumeric(lt) && isNumeric(rt):
		left, right = p.unifyOperands(left, right)
		return &ast.Node{Tag: tag, T: left.T, Ch: []*ast.Node{left, right}}
	}
	panic(p.errf(KindTypeMismatch))
}

func isNumeric(t ast.Type) bool { return t == ast.TypeInteger || t == ast.TypeFloat }

// unifyOperands promotes an integer/float pair to a common float type,
// matching the original's `if t1 != t2: ... CastNode`. Non-numeric pairs
// pass through unchanged for callers that only unify to compare.
func (p *Parser) unifyOperands(left, right *ast.Node) (*ast.Node, *ast.Node) {
	if left.T == right.T {
		return left, right
	}
	if isNumeric(left.T) && isNumeric(right.T) {
		return p.castTo(left, ast.TypeFloat), p.castTo(right, ast.TypeFloat)
	}
	if canImplicitCast(left.T, right.T) {
		return p.castTo(left, right.T), right
	}
	if canImplicitCast(right.T, left.T) {
		return left, p.castTo(right, left.T)
	}
	return left, right
}

// binOpType resolves the result type of a compound assignment: LSL's
// `OP=` forms always keep the lvalue's own type (§4.3), unlike their
// non-assigning counterparts which may promote or widen.
func binOpType(opText string, lt, rt ast.Type) ast.Type {
	return lt
}

// parseUnary implements Parse_unary_expression: prefix `-`, `!`, `~`,
// `++`/`--`, and the `(TYPE)` cast syntax.
func (p *Parser) parseUnary() *ast.Node {
	switch p.tok.Kind {
	case lsltok.SUB:
		p.next()
		operand := p.parseUnary()
		if operand.Tag == ast.CONST {
			return negateConst(operand)
		}
		return &ast.Node{Tag: ast.NEG, T: operand.T, Ch: []*ast.Node{operand}}

	case lsltok.NOT:
		p.next()
		operand := p.parseUnary()
		operand = p.autocastCheck(operand, ast.TypeInteger)
		return &ast.Node{Tag: ast.BOOLNOT, T: ast.TypeInteger, Ch: []*ast.Node{operand}}

	case lsltok.BITNOT:
		p.next()
		operand := p.parseUnary()
		operand = p.autocastCheck(operand, ast.TypeInteger)
		return &ast.Node{Tag: ast.BITNOT, T: ast.TypeInteger, Ch: []*ast.Node{operand}}

	case lsltok.INC, lsltok.DEC:
		tag := ast.PREINC
		if p.tok.Kind == lsltok.DEC {
			tag = ast.PREDEC
		}
		p.next()
		operand := p.parseUnary()
		p.requireLValue(operand)
		return &ast.Node{Tag: tag, T: operand.T, Ch: []*ast.Node{operand}}

	case lsltok.LPAREN:
		if p.peekIsCast() {
			return p.parseCastExpr()
		}
	}
	return p.parsePostfix()
}

// peekIsCast reports whether the current '(' begins a `(TYPE)` cast
// rather than a parenthesized expression; it only needs one token of
// lookahead since a TYPE token can never start a sub-expression itself.
func (p *Parser) peekIsCast() bool {
	save := *p.lx
	saveTok := p.tok
	p.next()
	isType := p.tok.Kind == lsltok.TYPE
	*p.lx = save
	p.tok = saveTok
	return isType
}

func (p *Parser) parseCastExpr() *ast.Node {
	p.next() // '('
	want := ast.Type(p.tok.Text)
	p.next()
	p.expect(lsltok.RPAREN)
	p.next()
	operand := p.parseUnary()
	if want == operand.T {
		return operand
	}
	if canImplicitCast(operand.T, want) {
		return p.castTo(operand, want)
	}
	if p.opts.ExplicitCast && explicitCastAllowed(operand.T, want) {
		return p.castTo(operand, want)
	}
	panic(newError(p, KindNoConversion, ""))
}

func negateConst(n *ast.Node) *ast.Node {
	switch v := n.Value.(type) {
	case int32:
		return ast.Const(n.T, -v)
	case float32:
		return ast.Const(n.T, -v)
	case ast.Vector:
		return ast.Const(n.T, ast.Vector{-v[0], -v[1], -v[2]})
	case ast.Rotation:
		return ast.Const(n.T, ast.Rotation{-v[0], -v[1], -v[2], -v[3]})
	default:
		return &ast.Node{Tag: ast.NEG, T: n.T, Ch: []*ast.Node{n}}
	}
}

// parsePostfix implements the trailing `++`/`--`, `.field`, and `[idx]`
// productions layered on top of a primary expression.
func (p *Parser) parsePostfix() *ast.Node {
	n := p.parsePrimary()
	for {
		switch p.tok.Kind {
		case lsltok.INC, lsltok.DEC:
			tag := ast.POSTINC
			if p.tok.Kind == lsltok.DEC {
				tag = ast.POSTDEC
			}
			p.requireLValue(n)
			p.next()
			n = &ast.Node{Tag: tag, T: n.T, Ch: []*ast.Node{n}}

		case lsltok.DOT:
			p.next()
			p.expect(lsltok.IDENT)
			fld := p.tok.Text
			if (n.T != ast.TypeVector && n.T != ast.TypeRotation) || !validField(n.T, fld) {
				panic(p.errf(KindInvalidField))
			}
			p.next()
			n = &ast.Node{Tag: ast.FLD, T: ast.TypeFloat, Fld: fld[0], Ch: []*ast.Node{n}}

		case lsltok.LBRACK:
			if !p.opts.LazyLists || n.T != ast.TypeList {
				return n
			}
			n = p.parseLazyListIndex(n)

		default:
			return n
		}
	}
}

// parseLazyListIndex implements the `lazylists` (§4.3, §6) `[idx]`
// production on a list-typed lvalue: a bare `list[i]` is a read,
// producing a SUBIDX node; `list[i] = v` desugars into a call to a
// lazily-injected lazy_list_set helper, grounded on the tail of
// Parse_unary_postfix_expression (lines ~1018-1194).
func (p *Parser) parseLazyListIndex(lvalue *ast.Node) *ast.Node {
	p.next() // '['
	idx := p.parseExpression()
	p.expect(lsltok.RBRACK)
	p.next()

	if p.tok.Kind != lsltok.ASSIGN {
		return &ast.Node{Tag: ast.SUBIDX, T: ast.TypeNone, Ch: []*ast.Node{lvalue, idx}}
	}

	idx = p.autocastCheck(idx, ast.TypeInteger)
	p.next() // '='
	rhs := p.autocastCheck(p.parseExpression(), ast.TypeList)

	p.ensureLazyListSetHelper()
	call := &ast.Node{Tag: ast.FNCALL, T: ast.TypeList, Name: lazyListSetName,
		Ch: []*ast.Node{lvalue.Copy(), idx, rhs}}
	return &ast.Node{Tag: ast.ASSIGN, T: ast.TypeList, Ch: []*ast.Node{lvalue, call}}
}

// lazyListSetName is the synthesized helper's name; the original names
// it identically (lazy_list_set).
const lazyListSetName = "lazy_list_set"

// ensureLazyListSetHelper lazily injects, at most once per compile, the
//
//	list lazy_list_set(list L, integer i, list v)
//	{
//	    while (llGetListLength(L) < i)
//	        L = L + 0;
//	    return llListReplaceList(L, v, i, i);
//	}
//
// helper function into global scope, grounded on the hand-built FNDEF
// Parse_unary_postfix_expression synthesizes (lines ~1045-1180).
func (p *Parser) ensureLazyListSetHelper() {
	if _, ok := p.tree.Scopes[0].Symbols[lazyListSetName]; ok {
		return
	}

	pscope := p.scopes.Push()
	p.scopes.AddSymbol(ast.KindVar, pscope, "L", ast.TypeList).Param = true
	p.scopes.AddSymbol(ast.KindVar, pscope, "i", ast.TypeInteger).Param = true
	p.scopes.AddSymbol(ast.KindVar, pscope, "v", ast.TypeList).Param = true

	bscope := p.scopes.Push()

	lRead := &ast.Node{Tag: ast.IDENT, T: ast.TypeList, Name: "L", Scope: pscope}
	iRead := &ast.Node{Tag: ast.IDENT, T: ast.TypeInteger, Name: "i", Scope: pscope}
	vRead := &ast.Node{Tag: ast.IDENT, T: ast.TypeList, Name: "v", Scope: pscope}

	cond := &ast.Node{Tag: ast.LT, T: ast.TypeInteger, Ch: []*ast.Node{
		{Tag: ast.FNCALL, T: ast.TypeInteger, Name: "llGetListLength", Ch: []*ast.Node{lRead.Copy()}},
		iRead.Copy(),
	}}
	grow := &ast.Node{Tag: ast.ASSIGN, T: ast.TypeList, Ch: []*ast.Node{
		{Tag: ast.IDENT, T: ast.TypeList, Name: "L", Scope: pscope},
		{Tag: ast.ADD, T: ast.TypeList, Ch: []*ast.Node{lRead.Copy(), ast.Const(ast.TypeInteger, int32(0))}},
	}}
	whileLoop := &ast.Node{Tag: ast.WHILE, Ch: []*ast.Node{cond,
		{Tag: ast.EXPR, X: ast.ExecTrue, Ch: []*ast.Node{grow}}}}

	ret := &ast.Node{Tag: ast.RETURN, LIR: true, Ch: []*ast.Node{
		{Tag: ast.FNCALL, T: ast.TypeList, Name: "llListReplaceList",
			Ch: []*ast.Node{lRead.Copy(), vRead.Copy(), iRead.Copy(), iRead.Copy()}},
	}}

	body := &ast.Node{Tag: ast.BLOCK, Scope: bscope, LIR: true, Ch: []*ast.Node{whileLoop, ret}}

	p.scopes.Pop() // bscope
	p.scopes.Pop() // pscope

	sym := p.scopes.AddSymbol(ast.KindFunc, 0, lazyListSetName, ast.TypeList)
	sym.ParamTypes = []ast.Type{ast.TypeList, ast.TypeInteger, ast.TypeList}
	sym.ParamNames = []string{"L", "i", "v"}
	sym.Loc = len(p.tree.Items)

	p.tree.Items = append(p.tree.Items, &ast.Node{
		Tag: ast.FNDEF, T: ast.TypeList, Name: lazyListSetName, Scope: 0,
		PScope: pscope, PNames: sym.ParamNames, Returns: true,
		Ch: []*ast.Node{body},
	})
}

func validField(t ast.Type, fld string) bool {
	if len(fld) != 1 {
		return false
	}
	switch fld[0] {
	case 'x', 'y', 'z':
		return true
	case 's':
		return t == ast.TypeRotation
	}
	return false
}

// parsePrimary implements `primary_expression`: literals, identifiers,
// function calls, vector/rotation/list literals, and parenthesized
// sub-expressions.
func (p *Parser) parsePrimary() *ast.Node {
	switch p.tok.Kind {
	case lsltok.INTEGER_VALUE:
		v := p.tok.Value
		p.next()
		return ast.Const(ast.TypeInteger, v)

	case lsltok.FLOAT_VALUE:
		v := p.tok.Value
		p.next()
		return ast.Const(ast.TypeFloat, v)

	case lsltok.STRING_VALUE:
		v := p.tok.Value
		p.next()
		return ast.Const(ast.TypeString, v)

	case lsltok.LPAREN:
		p.next()
		inner := p.parseExpression()
		p.expect(lsltok.RPAREN)
		p.next()
		return inner

	case lsltok.LT:
		return p.parseVectorOrRotation()

	case lsltok.LBRACK:
		return p.parseListLiteral()

	case lsltok.IDENT:
		return p.parseIdentOrCall()

	default:
		panic(p.errf(KindSyntax))
	}
}

// parseVectorOrRotation implements the '<' branch of
// Parse_unary_postfix_expression: the first two components are plain
// expressions separated by ','; the remaining one or two components
// (deciding vector vs. rotation) come from parseVectorRotationTail's
// disambiguation against the closing '>'.
func (p *Parser) parseVectorOrRotation() *ast.Node {
	p.next() // '<'
	x := p.autocastCheck(p.parseExpression(), ast.TypeFloat)
	p.expect(lsltok.COMMA)
	p.next()
	y := p.autocastCheck(p.parseExpression(), ast.TypeFloat)
	p.expect(lsltok.COMMA)
	p.next()

	vals := append([]*ast.Node{x, y}, p.parseVectorRotationTail()...)
	p.expect(lsltok.GT)
	p.next()

	if len(vals) == 3 {
		return &ast.Node{Tag: ast.VECTOR, T: ast.TypeVector, Ch: vals}
	}
	return &ast.Node{Tag: ast.ROTATION, T: ast.TypeRotation, Ch: vals}
}

// parseVectorRotationTail implements Parse_vector_rotation_tail: it
// tentatively tries to read a full expression followed by ',', which
// only succeeds when this is a rotation's z component (with an s
// component still to come); on failure it backtracks and the lone
// remaining component is read as the closing inequality-vs-'>' chain,
// grounded on lslparse.py lines 770-843.
func (p *Parser) parseVectorRotationTail() []*ast.Node {
	var ret []*ast.Node
	if third, ok := p.tryParseRotationZ(); ok {
		ret = append(ret, p.autocastCheck(third, ast.TypeFloat))
	}
	last := p.parseVectorRotationInequality()
	ret = append(ret, p.autocastCheck(last, ast.TypeFloat))
	return ret
}

// tryParseRotationZ attempts `expression ','`, consuming the comma on
// success. A *Error panic (from either the expression or the expected
// comma) backtracks the lexer/token state to before the attempt, the Go
// analogue of the original's `try ... except EParse: self.pos = pos`.
func (p *Parser) tryParseRotationZ() (node *ast.Node, ok bool) {
	save := *p.lx
	saveTok := p.tok
	defer func() {
		if r := recover(); r != nil {
			if _, isParseErr := r.(*Error); isParseErr {
				*p.lx = save
				p.tok = saveTok
				node, ok = nil, false
				return
			}
			panic(r)
		}
	}()
	expr := p.parseExpression()
	p.expect(lsltok.COMMA)
	p.next()
	return expr, true
}

// vectorRotationCloseSet is the set of token kinds that can legally
// start a right-hand comparison operand; if '>' isn't followed by one
// of these, it closes the vector/rotation literal instead of continuing
// an inequality chain, grounded on Parse_vector_rotation_tail's
// "nexttype not in (...)" check (lines ~805-825).
var vectorRotationCloseSet = map[lsltok.Kind]bool{
	lsltok.IDENT: true, lsltok.INTEGER_VALUE: true, lsltok.FLOAT_VALUE: true,
	lsltok.STRING_VALUE: true, lsltok.INC: true, lsltok.DEC: true,
	lsltok.NOT: true, lsltok.BITNOT: true, lsltok.LPAREN: true,
	lsltok.LBRACK: true, lsltok.LT: true,
}

// parseVectorRotationInequality implements the `inequality = Parse_shift()`
// loop: each `<`/`<=`/`>=` is an ordinary comparison, but a `>` is only
// consumed as one when the token after it can start an expression;
// otherwise it's left unconsumed for parseVectorOrRotation to close the
// literal with.
func (p *Parser) parseVectorRotationInequality() *ast.Node {
	left := p.parseShift()
	for {
		var tag ast.Tag
		switch p.tok.Kind {
		case lsltok.LT:
			tag = ast.LT
		case lsltok.LE:
			tag = ast.LE
		case lsltok.GE:
			tag = ast.GE
		case lsltok.GT:
			if !vectorRotationCloseSet[p.peekKind()] {
				return left
			}
			tag = ast.GT
		default:
			return left
		}
		p.next()
		right := p.parseShift()
		left, right = p.unifyOperands(left, right)
		left = &ast.Node{Tag: tag, T: ast.TypeInteger, Ch: []*ast.Node{left, right}}
	}
}

// peekKind reports the kind of the token that follows the current one,
// without disturbing parser state.
func (p *Parser) peekKind() lsltok.Kind {
	save := *p.lx
	next := p.lx.Next()
	*p.lx = save
	return next.Kind
}

// parseListLiteral implements `'[' optional_expr_list ']'`.
func (p *Parser) parseListLiteral() *ast.Node {
	p.next() // '['
	var elems []*ast.Node
	if p.tok.Kind != lsltok.RBRACK {
		elems = append(elems, p.parseExpression())
		for p.tok.Kind == lsltok.COMMA {
			p.next()
			elems = append(elems, p.parseExpression())
		}
	}
	p.expect(lsltok.RBRACK)
	p.next()
	return &ast.Node{Tag: ast.LIST, T: ast.TypeList, Ch: elems}
}

// parseIdentOrCall resolves an identifier against the live scope stack,
// the temp-globals scan, and the stdlib function table, in that order,
// building either an IDENT read or an FNCALL.
func (p *Parser) parseIdentOrCall() *ast.Node {
	name := p.tok.Text
	p.next()

	if p.tok.Kind == lsltok.LPAREN {
		return p.parseCall(name)
	}

	sym, scope, ok := p.scopes.Full(name, p.tempGlobalSymbols(), !p.disallowGlobalVars)
	if !ok {
		panic(p.errf(KindUndefined))
	}
	sym.R++
	return &ast.Node{Tag: ast.IDENT, T: sym.Type, Name: name, Scope: scope}
}

// tempGlobalSymbols adapts the C2 scan's Entry map into the
// *ast.Symbol shape symtab.Table.Full expects, used only for the
// forward-reference fallback.
func (p *Parser) tempGlobalSymbols() map[string]*ast.Symbol {
	if len(p.temp) == 0 {
		return nil
	}
	out := make(map[string]*ast.Symbol, len(p.temp))
	for name, e := range p.temp {
		out[name] = &ast.Symbol{Name: name, Kind: e.Kind, Type: e.Type, ParamTypes: e.ParamTypes, Loc: ast.NoLoc}
	}
	return out
}

func (p *Parser) parseCall(name string) *ast.Node {
	p.next() // '('
	var args []*ast.Node
	if p.tok.Kind != lsltok.RPAREN {
		args = append(args, p.parseExpression())
		for p.tok.Kind == lsltok.COMMA {
			p.next()
			args = append(args, p.parseExpression())
		}
	}
	p.expect(lsltok.RPAREN)
	p.next()

	retType, paramTypes, ok := p.lookupCallable(name)
	if !ok {
		panic(p.errf(KindUndefined))
	}
	if len(paramTypes) != len(args) {
		panic(p.errf(KindFunctionMismatch))
	}
	for i, pt := range paramTypes {
		args[i] = p.autocastCheck(args[i], pt)
	}
	return &ast.Node{Tag: ast.FNCALL, T: retType, Name: name, Ch: args}
}
