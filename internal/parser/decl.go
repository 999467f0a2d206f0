// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package parser

import (
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/lsltok"
)

// parseGlobals implements the `globals` production: a sequence of
// variable and function definitions at scope 0, grounded on
// Parse_globals.
func (p *Parser) parseGlobals() {
	for p.tok.Kind == lsltok.TYPE || p.tok.Kind == lsltok.IDENT {
		var typ ast.Type
		hasType := p.tok.Kind == lsltok.TYPE
		if hasType {
			typ = ast.Type(p.tok.Text)
			p.next()
			p.expect(lsltok.IDENT)
		}
		name := p.tok.Text
		p.next()

		switch p.tok.Kind {
		case lsltok.ASSIGN, lsltok.SEMI:
			if !hasType {
				panic(p.errf(KindSyntax))
			}
			p.parseGlobalVar(name, typ)
		case lsltok.LPAREN:
			p.parseFuncDef(name, typ)
		default:
			panic(p.errf(KindSyntax))
		}
	}
}

func (p *Parser) parseGlobalVar(name string, typ ast.Type) {
	var value *ast.Node
	if p.tok.Kind == lsltok.ASSIGN {
		p.next()
		p.disallowGlobalVars = true
		value = p.parseExpression()
		p.disallowGlobalVars = false
		p.expect(lsltok.SEMI)
		value = p.autocastCheck(value, typ)
	} else {
		p.expect(lsltok.SEMI)
	}

	sym := p.addGlobalOrPanic(ast.KindVar, name, typ)
	decl := &ast.Node{Tag: ast.DECL, T: typ, Name: name, Scope: 0}
	if value != nil {
		decl.Ch = []*ast.Node{value}
	}
	sym.Loc = len(p.tree.Items)
	p.tree.Items = append(p.tree.Items, decl)
	p.next()
}

func (p *Parser) parseFuncDef(name string, typ ast.Type) {
	p.next() // consume '('
	scope := p.scopes.Push()
	paramTypes, paramNames := p.parseParamList()
	p.expect(lsltok.RPAREN)
	p.next()

	forceInline := false
	if p.opts.EnableInline && p.tok.Kind == lsltok.IDENT && p.tok.Text == "inline" {
		p.next()
		forceInline = true
	}

	p.localLabels = map[string]bool{}
	p.inFunction = true
	body := p.parseCodeBlock(typ)
	p.inFunction = false
	p.localLabels = nil

	if typ != ast.TypeNone && !body.LIR {
		panic(p.errf(KindCodePathWithoutReturn))
	}

	sym := p.addGlobalOrPanic(ast.KindFunc, name, typ)
	sym.ParamTypes = paramTypes
	sym.ParamNames = paramNames
	sym.Inline = forceInline
	sym.Loc = len(p.tree.Items)

	p.tree.Items = append(p.tree.Items, &ast.Node{
		Tag: ast.FNDEF, T: typ, Name: name, Scope: 0,
		PScope: scope, PNames: paramNames, Returns: typ != ast.TypeNone,
		Ch: []*ast.Node{body},
	})
	p.scopes.Pop()
}

// parseParamList implements `optional_param_list`.
func (p *Parser) parseParamList() ([]ast.Type, []string) {
	var types []ast.Type
	var names []string
	if p.tok.Kind != lsltok.TYPE {
		return types, names
	}
	for {
		typ := ast.Type(p.tok.Text)
		p.next()
		p.expect(lsltok.IDENT)
		name := p.tok.Text
		scope := p.scopes.Current()
		if _, ok := p.tree.Scopes[scope].Symbols[name]; ok {
			panic(p.errf(KindAlreadyDefined))
		}
		types = append(types, typ)
		names = append(names, name)
		sym := p.scopes.AddSymbol(ast.KindVar, scope, name, typ)
		sym.Param = true
		p.next()
		if p.tok.Kind != lsltok.COMMA {
			break
		}
		p.next()
		p.expect(lsltok.TYPE)
	}
	return types, names
}

// parseStates implements `states`: a mandatory `default` state
// followed by zero or more named states.
func (p *Parser) parseStates() {
	for {
		var name string
		switch p.tok.Kind {
		case lsltok.KwDefault:
			name = "default"
		case lsltok.KwState:
			p.next()
			p.expect(lsltok.IDENT)
			name = p.tok.Text
		default:
			return
		}
		if _, ok := p.tree.Scopes[0].Symbols[name]; ok {
			panic(p.errf(KindAlreadyDefined))
		}
		sym := p.scopes.AddSymbol(ast.KindState, 0, name, ast.TypeNone)
		sym.Loc = len(p.tree.Items)
		p.next()
		p.expect(lsltok.LBRACE)
		p.next()

		events := p.parseEvents()

		p.expect(lsltok.RBRACE)
		p.tree.Items = append(p.tree.Items, &ast.Node{Tag: ast.STDEF, Name: name, Scope: 0, Ch: events})
		p.next()
	}
}

// parseEvents implements `events`: one or more event handler bodies.
func (p *Parser) parseEvents() []*ast.Node {
	if p.tok.Kind != lsltok.EVENT_NAME {
		panic(p.errf(KindSyntax))
	}
	seen := map[string]bool{}
	var ret []*ast.Node
	for p.tok.Kind == lsltok.EVENT_NAME {
		name := p.tok.Text
		if seen[name] {
			panic(p.errf(KindAlreadyDefined))
		}
		seen[name] = true
		p.next()
		p.expect(lsltok.LPAREN)
		p.next()
		scope := p.scopes.Push()
		paramTypes, paramNames := p.parseParamList()
		p.expect(lsltok.RPAREN)
		p.next()
		if ev, ok := eventSignature(name); ok && !sameTypes(ev, paramTypes) {
			panic(p.errf(KindSyntax))
		}
		p.localLabels = map[string]bool{}
		body := p.parseCodeBlock(ast.TypeNone)
		p.localLabels = nil
		ret = append(ret, &ast.Node{
			Tag: ast.FNDEF, Name: name, PScope: scope,
			PNames: paramNames, Ch: []*ast.Node{body},
		})
		_ = paramTypes
		p.scopes.Pop()
	}
	return ret
}

func sameTypes(a, b []ast.Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
