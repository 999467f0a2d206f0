// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/lsltok"
)

type pendingJump struct {
	name  string
	scope int
	node  *ast.Node
}

// parseCodeBlock implements `code_block: '{' statement* '}'`, pushing a
// new scope and computing the LIR (last-is-return) annotation from its
// final statement, per §3.
func (p *Parser) parseCodeBlock(returnType ast.Type) *ast.Node {
	p.expect(lsltok.LBRACE)
	p.next()
	scope := p.scopes.Push()
	var stmts []*ast.Node
	for p.tok.Kind != lsltok.RBRACE {
		if p.tok.Kind == lsltok.EOF {
			panic(p.errf(KindUnexpectedEOF))
		}
		stmts = append(stmts, p.parseStatement(returnType))
	}
	p.next()
	p.scopes.Pop()

	block := &ast.Node{Tag: ast.BLOCK, Scope: scope, Ch: stmts}
	if n := len(stmts); n > 0 {
		block.LIR = stmts[n-1].Tag == ast.RETURN || (stmts[n-1].Tag == ast.BLOCK && stmts[n-1].LIR)
	}
	return block
}

// parseStatement implements `statement` (§4.3's grammar, condensed).
func (p *Parser) parseStatement(returnType ast.Type) *ast.Node {
	switch p.tok.Kind {
	case lsltok.LBRACE:
		return p.parseCodeBlock(returnType)

	case lsltok.SEMI:
		p.next()
		return &ast.Node{Tag: ast.EMPTY}

	case lsltok.AT:
		return p.parseLabel()

	case lsltok.KwJump:
		return p.parseJump()

	case lsltok.KwReturn:
		return p.parseReturn(returnType)

	case lsltok.KwIf:
		return p.parseIf(returnType)

	case lsltok.KwWhile:
		return p.parseWhile(returnType)

	case lsltok.KwDo:
		return p.parseDo(returnType)

	case lsltok.KwFor:
		return p.parseFor(returnType)

	case lsltok.KwBreak:
		return p.parseBreak()

	case lsltok.KwContinue:
		return p.parseContinue()

	case lsltok.KwSwitch:
		return p.parseSwitch(returnType)

	case lsltok.KwState:
		return p.parseStateChange()

	case lsltok.KwCase, lsltok.KwDefault:
		return p.parseCase(returnType)

	case lsltok.TYPE:
		return p.parseDeclStatement()

	default:
		expr := p.parseExpression()
		p.expect(lsltok.SEMI)
		p.next()
		return &ast.Node{Tag: ast.EXPR, X: ast.ExecTrue, Ch: []*ast.Node{expr}}
	}
}

func (p *Parser) parseLabel() *ast.Node {
	p.next()
	p.expect(lsltok.IDENT)
	name := p.tok.Text
	scope := p.scopes.Current()
	if _, ok := p.tree.Scopes[scope].Symbols[name]; ok {
		panic(p.errf(KindAlreadyDefined))
	}
	if !p.opts.DupLabels && p.localLabels[name] {
		panic(p.errf(KindDuplicateLabel))
	}
	p.localLabels[name] = true
	sym := p.scopes.AddSymbol(ast.KindLabel, scope, name, ast.TypeNone)
	sym.Ref = 0
	p.next()
	p.expect(lsltok.SEMI)
	p.next()
	return &ast.Node{Tag: ast.LABEL, Name: name, Scope: scope}
}

func (p *Parser) parseJump() *ast.Node {
	p.next()
	p.expect(lsltok.IDENT)
	name := p.tok.Text
	node := &ast.Node{Tag: ast.JUMP, Name: name}
	if sym, scope, ok := p.scopes.PartialLabel(name); ok {
		node.Scope = scope
		sym.Ref++
	} else {
		p.pendingJumps = append(p.pendingJumps, pendingJump{name, p.scopes.Current(), node})
	}
	p.next()
	p.expect(lsltok.SEMI)
	p.next()
	return node
}

// parseStateChange implements `state_statement: 'state' IDENT ';'`,
// matching lslparse.py's Parse_statement "state" arm: it's only legal
// inside an event handler, never inside a global function (§4.3
// "Global functions can't change state").
func (p *Parser) parseStateChange() *ast.Node {
	if p.inFunction {
		panic(p.errf(KindCantChangeState))
	}
	p.next()
	p.expect(lsltok.IDENT)
	name := p.tok.Text
	p.next()
	p.expect(lsltok.SEMI)
	p.next()
	return &ast.Node{Tag: ast.STSW, Name: name, X: ast.ExecFalse}
}

func (p *Parser) parseReturn(returnType ast.Type) *ast.Node {
	p.next()
	if p.tok.Kind == lsltok.SEMI {
		p.next()
		if returnType != ast.TypeNone {
			panic(p.errf(KindReturnIsEmpty))
		}
		return &ast.Node{Tag: ast.RETURN, LIR: true}
	}
	value := p.parseExpression()
	p.expect(lsltok.SEMI)
	p.next()
	if returnType == ast.TypeNone {
		panic(p.errf(KindReturnShouldBeEmpty))
	}
	return &ast.Node{Tag: ast.RETURN, LIR: true, Ch: []*ast.Node{p.autocastCheck(value, returnType)}}
}

func (p *Parser) parseIf(returnType ast.Type) *ast.Node {
	p.next()
	p.expect(lsltok.LPAREN)
	p.next()
	cond := p.parseExpression()
	p.expect(lsltok.RPAREN)
	p.next()
	then := p.parseStatement(returnType)
	ret := &ast.Node{Tag: ast.IF, Ch: []*ast.Node{cond, then}}
	if p.tok.Kind == lsltok.KwElse {
		p.next()
		els := p.parseStatement(returnType)
		ret.Ch = append(ret.Ch, els)
		ret.LIR = then.LIR && els.LIR
	}
	return ret
}

func (p *Parser) parseWhile(returnType ast.Type) *ast.Node {
	p.next()
	p.expect(lsltok.LPAREN)
	p.next()
	cond := p.parseExpression()
	p.expect(lsltok.RPAREN)
	p.next()
	p.loopDepth++
	body := p.parseStatement(returnType)
	p.loopDepth--
	return &ast.Node{Tag: ast.WHILE, Ch: []*ast.Node{cond, body}}
}

func (p *Parser) parseDo(returnType ast.Type) *ast.Node {
	p.next()
	p.loopDepth++
	body := p.parseStatement(returnType)
	p.loopDepth--
	if p.tok.Kind != lsltok.KwWhile {
		panic(p.errf(KindSyntax))
	}
	p.next()
	p.expect(lsltok.LPAREN)
	p.next()
	cond := p.parseExpression()
	p.expect(lsltok.RPAREN)
	p.next()
	p.expect(lsltok.SEMI)
	p.next()
	return &ast.Node{Tag: ast.DO, Ch: []*ast.Node{body, cond}}
}

func (p *Parser) parseFor(returnType ast.Type) *ast.Node {
	p.next()
	p.expect(lsltok.LPAREN)
	p.next()
	init := p.parseExprList()
	p.expect(lsltok.SEMI)
	p.next()
	var cond *ast.Node
	if p.tok.Kind != lsltok.SEMI {
		cond = p.parseExpression()
	}
	p.expect(lsltok.SEMI)
	p.next()
	step := p.parseExprList()
	p.expect(lsltok.RPAREN)
	p.next()
	p.loopDepth++
	body := p.parseStatement(returnType)
	p.loopDepth--

	ch := []*ast.Node{{Tag: ast.EXPRLIST, Ch: init}, cond, {Tag: ast.EXPRLIST, Ch: step}, body}
	return &ast.Node{Tag: ast.FOR, Ch: ch}
}

func (p *Parser) parseExprList() []*ast.Node {
	var out []*ast.Node
	if p.tok.Kind == lsltok.SEMI || p.tok.Kind == lsltok.RPAREN {
		return out
	}
	out = append(out, p.parseExpression())
	for p.tok.Kind == lsltok.COMMA {
		p.next()
		out = append(out, p.parseExpression())
	}
	return out
}

func (p *Parser) parseBreak() *ast.Node {
	if !p.opts.EnableSwitch && !p.opts.BreakCont {
		panic(p.errBreak())
	}
	if p.loopDepth == 0 && p.switchDepth == 0 {
		panic(p.errBreak())
	}
	p.next()
	p.expect(lsltok.SEMI)
	p.next()
	return &ast.Node{Tag: ast.BREAK}
}

func (p *Parser) parseContinue() *ast.Node {
	if !p.opts.BreakCont {
		panic(p.errf(KindInvalidCont))
	}
	if p.loopDepth == 0 {
		panic(p.errf(KindInvalidCont))
	}
	p.next()
	p.expect(lsltok.SEMI)
	p.next()
	return &ast.Node{Tag: ast.CONTINUE}
}

func (p *Parser) parseSwitch(returnType ast.Type) *ast.Node {
	if !p.opts.EnableSwitch {
		panic(p.errf(KindSyntax))
	}
	p.next()
	p.expect(lsltok.LPAREN)
	p.next()
	cond := p.parseExpression()
	p.expect(lsltok.RPAREN)
	p.next()
	p.switchDepth++
	sawDefault := false
	body := p.parseSwitchBlock(returnType, &sawDefault)
	p.switchDepth--
	if p.opts.ErrMissingDefault && !sawDefault {
		panic(p.errf(KindMissingDefault))
	}
	return &ast.Node{Tag: ast.SWITCH, Ch: []*ast.Node{cond, body}}
}

func (p *Parser) parseSwitchBlock(returnType ast.Type, sawDefault *bool) *ast.Node {
	p.expect(lsltok.LBRACE)
	p.next()
	scope := p.scopes.Push()
	var stmts []*ast.Node
	for p.tok.Kind != lsltok.RBRACE {
		if p.tok.Kind == lsltok.EOF {
			panic(p.errf(KindUnexpectedEOF))
		}
		if p.tok.Kind == lsltok.KwDefault {
			if *sawDefault {
				panic(p.errf(KindManyDefaults))
			}
			*sawDefault = true
		}
		stmts = append(stmts, p.parseStatement(returnType))
	}
	p.next()
	p.scopes.Pop()
	return &ast.Node{Tag: ast.BLOCK, Scope: scope, Ch: stmts}
}

func (p *Parser) parseCase(returnType ast.Type) *ast.Node {
	if !p.opts.EnableSwitch {
		label := "case"
		if p.tok.Kind == lsltok.KwDefault {
			label = "default"
		}
		panic(p.errCase(KindInvalidCase, label))
	}
	if p.switchDepth == 0 {
		label := "case"
		if p.tok.Kind == lsltok.KwDefault {
			label = "default"
		}
		panic(p.errCaseNotAllowed(label))
	}
	isDefault := p.tok.Kind == lsltok.KwDefault
	p.next()
	var value *ast.Node
	if !isDefault {
		value = p.parseExpression()
	}
	p.expect(lsltok.COLON)
	p.next()
	tag := ast.CASE
	if isDefault {
		tag = ast.DEFAULTCASE
	}
	n := &ast.Node{Tag: tag}
	if value != nil {
		n.Ch = []*ast.Node{value}
	}
	return n
}

// parseDeclStatement implements `declaration_statement`. It is reached
// via parseStatement, including from the single-statement arms of
// if/else/while/do/for without a block; a declaration there is
// accepted like one inside a block (KindDeclarationScope is not raised).
func (p *Parser) parseDeclStatement() *ast.Node {
	typ := ast.Type(p.tok.Text)
	p.next()
	p.expect(lsltok.IDENT)
	name := p.tok.Text
	scope := p.scopes.Current()
	if _, ok := p.tree.Scopes[scope].Symbols[name]; ok {
		panic(p.errf(KindAlreadyDefined))
	}
	p.next()
	var value *ast.Node
	if p.tok.Kind == lsltok.ASSIGN {
		p.next()
		value = p.autocastCheck(p.parseExpression(), typ)
	}
	p.expect(lsltok.SEMI)
	p.next()

	p.scopes.AddSymbol(ast.KindVar, scope, name, typ)
	decl := &ast.Node{Tag: ast.DECL, T: typ, Name: name, Scope: scope}
	if value != nil {
		decl.Ch = []*ast.Node{value}
	}
	return decl
}
