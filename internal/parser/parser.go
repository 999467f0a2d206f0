// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package parser implements the parser and type checker (C3): a
// recursive-descent parser that builds a typed internal/ast.Tree while
// resolving names against internal/symtab, unioning the temp-globals
// scan (C2) and internal/stdlib's library tables for forward
// references. Grounded throughout on
// original_source/lslopt/lslparse.py's `parser` class.
package parser

import (
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/lsltok"
	"github.com/playbymail/lslopt/internal/stdlib"
	"github.com/playbymail/lslopt/internal/symtab"
	"github.com/playbymail/lslopt/internal/tempglobals"
)

// Options is the subset of the §6 option set that changes parsing
// and type-checking behavior (the rest, e.g. `inline`/`optimize`,
// belong to later passes).
type Options struct {
	// EnableSwitch/BreakCont/ExtendedAssignment live on lsltok.Options
	// and are promoted from here: they gate lexer-level keyword
	// recognition (does "switch"/"break"/"continue" tokenize as a
	// keyword at all, does "<<=" lex as one token) as well as the
	// parser-level checks below, so there is exactly one copy of each,
	// not a parser-side shadow that could drift out of sync with what
	// the lexer was actually built with.
	lsltok.Options

	ExtendedGlobalExpr bool
	ExtendedTypeCast   bool
	ExplicitCast       bool
	AllowKeyConcat     bool
	ErrMissingDefault  bool
	LazyLists          bool
	DupLabels          bool
	FuncOverride       bool
	AllowVoid          bool
	EMap               bool
	Filename           string
}

// Parser holds all mutable state for one compile unit's parse.
type Parser struct {
	lx  *lsltok.Lexer
	tok lsltok.Token

	opts   Options
	format Format

	tree   *ast.Tree
	scopes *symtab.Table
	temp   map[string]tempglobals.Entry

	localLabels        map[string]bool
	disallowGlobalVars bool
	inFunction         bool
	pendingJumps       []pendingJump

	// loop/switch nesting, used to validate break/continue/case.
	loopDepth   int
	switchDepth int
}

// New creates a Parser over src. temp is the C2 scan result, already
// unioned by the caller with anything from a previous compile-session
// cache; it may be nil.
func New(src []byte, opts Options, temp map[string]tempglobals.Entry) *Parser {
	format := FormatPlain
	if opts.EMap {
		format = FormatEMap
	} else if opts.Filename != "" {
		format = FormatFilename
	}
	p := &Parser{
		lx:     lsltok.New(src, opts.Options),
		opts:   opts,
		format: format,
		tree:   ast.NewTree(),
		temp:   temp,
	}
	p.scopes = symtab.New(p.tree)
	p.lx.Events = eventNames()
	p.lx.Constants = stdlib.Constants
	return p
}

func eventNames() map[string]bool {
	m := make(map[string]bool, len(stdlib.Events))
	for name := range stdlib.Events {
		m[name] = true
	}
	return m
}

func (p *Parser) next() { p.tok = p.lx.Next() }

func (p *Parser) expect(k lsltok.Kind) {
	if p.tok.Kind != k {
		panic(p.errf(KindSyntax))
	}
}

// errLineCol resolves the current token's position against the
// lexer's #line directive list, matching GetErrLineCol.
func (p *Parser) errLineCol() (line, col int, filename string) {
	filename = "<stdin>"
	if p.opts.EMap {
		filename = p.opts.Filename
	}
	line, col = p.tok.Pos.Line, p.tok.Pos.Col
	for i := len(p.lx.Directives) - 1; i >= 0; i-- {
		d := p.lx.Directives[i]
		if d.AtLine <= p.tok.Pos.Line-1 {
			line = d.Line + (p.tok.Pos.Line - 1 - d.AtLine)
			filename = d.File
			break
		}
	}
	if !p.opts.EMap && p.opts.Filename != "" && filename == "<stdin>" {
		filename = p.opts.Filename
	}
	return line, col, filename
}

// Scopes returns the symbol table built during Parse, for the later
// pipeline stages (internal/constfold, internal/deadcode) that resolve
// names against it directly rather than re-walking the tree.
func (p *Parser) Scopes() *symtab.Table { return p.scopes }

// Parse runs the whole pipeline described by §4.3: globals then
// states, recovering a fatal *Error into a plain error return (there is
// no retry or partial success, per §7).
func (p *Parser) Parse() (tree *ast.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	p.next()
	p.parseGlobals()
	p.expect(lsltok.KwDefault)
	p.parseStates()
	p.resolvePendingJumps()
	return p.tree, nil
}

// resolvePendingJumps retries each jump collected during parsing whose
// label wasn't yet in scope (a forward reference within the same
// function), mirroring jump_lookups in the original. A jump that still
// can't find its label is undefined.
func (p *Parser) resolvePendingJumps() {
	for _, pj := range p.pendingJumps {
		sym, scope, ok := p.scopes.PartialLabelIn(pj.scope, pj.name)
		if !ok {
			panic(newError(p, KindUndefined, "undefined label: "+pj.name))
		}
		pj.node.Scope = scope
		sym.Ref++
	}
}

// addGlobalOrPanic adds a global-scope Symbol, raising KindAlreadyDefined on
// collision unless `funcoverride` legally permits replacing a prior
// user-defined function (§6 `funcoverride`).
func (p *Parser) addGlobalOrPanic(kind ast.SymbolKind, name string, typ ast.Type) *ast.Symbol {
	if _, ok := p.tree.Scopes[0].Symbols[name]; ok {
		if p.opts.FuncOverride && kind == ast.KindFunc {
			if prior := p.tree.Scopes[0].Symbols[name]; prior.Kind == ast.KindFunc && prior.Loc != ast.NoLoc {
				p.tree.Items[prior.Loc] = &ast.Node{Tag: ast.LAMBDA}
				delete(p.tree.Scopes[0].Symbols, name)
				return p.scopes.AddSymbol(kind, 0, name, typ)
			}
		}
		panic(p.errf(KindAlreadyDefined))
	}
	return p.scopes.AddSymbol(kind, 0, name, typ)
}

func (p *Parser) lookupCallable(name string) (ast.Type, []ast.Type, bool) {
	if sym, ok := p.tree.Scopes[0].Symbols[name]; ok && sym.Kind == ast.KindFunc {
		return sym.Type, sym.ParamTypes, true
	}
	if e, ok := p.temp[name]; ok && e.Kind == ast.KindFunc {
		return e.Type, e.ParamTypes, true
	}
	if fn, ok := stdlib.Functions[name]; ok {
		return fn.ReturnType, fn.ParamTypes, true
	}
	return ast.TypeNone, nil, false
}
