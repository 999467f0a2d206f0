// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package tempglobals implements the temp-globals scanner (C2): a
// single fast pass over the token stream that records a coarse
// name→{Kind,Type,ParamTypes} map good enough to let the parser (C3)
// resolve forward references to globals declared later in the file.
// The parser does not modify this map; once it declares the real
// symbol in scope 0, lookups find that symbol before the entry here.
package tempglobals

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/lsltok"
)

// Entry is one provisional global symbol, unset ParamTypes meaning "not
// a function".
type Entry struct {
	Kind       ast.SymbolKind
	Type       ast.Type
	ParamTypes []ast.Type
	Unseen     bool // set by Scan on every entry; nothing clears it
}

// Cache memoizes Scan results by source content hash so re-running the
// batch compiler over an unchanged file skips the pre-scan entirely.
// Grounded on the teacher's file-hash-for-identity pattern (formerly
// internal/stdlib's SHA1-based FindInput), repurposed here as an
// in-memory LRU rather than a directory index.
type Cache struct {
	lru *lru.Cache[string, map[string]Entry]
}

func NewCache(size int) (*Cache, error) {
	c, err := lru.New[string, map[string]Entry](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

func hashOf(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// ScanCached returns a cached scan result for src if present, otherwise
// scans, stores, and returns a fresh one.
func (c *Cache) ScanCached(src []byte, opts lsltok.Options) map[string]Entry {
	key := hashOf(src)
	if c != nil {
		if v, ok := c.lru.Get(key); ok {
			return v
		}
	}
	result := Scan(src, opts)
	if c != nil {
		c.lru.Add(key, result)
	}
	return result
}

// Scan performs the C2 traversal and returns the provisional global map.
func Scan(src []byte, opts lsltok.Options) map[string]Entry {
	lx := lsltok.New(src, opts)
	out := make(map[string]Entry)

	for {
		tok := lx.Next()
		if tok.Kind == lsltok.EOF {
			break
		}

		// A global function or variable always starts with either a
		// TYPE token or bare IDENT (implicit integer-like void isn't
		// legal at global scope but we tolerate it defensively), and
		// the grammar at scope 0 is `globals states`: anything that
		// isn't TYPE/IDENT at this point must be a state/default
		// keyword or the start of a state block, which we skip over
		// by brace-matching.
		switch tok.Kind {
		case lsltok.TYPE, lsltok.IDENT:
			scanDecl(lx, tok, out)
		case lsltok.KwState, lsltok.KwDefault:
			skipState(lx)
		}
	}
	return out
}

// scanDecl handles one `TYPE? IDENT ...` global declaration: a function
// if followed by '(', else a variable declaration whose body (up to the
// terminating ';') is skipped without interpretation.
func scanDecl(lx *lsltok.Lexer, first lsltok.Token, out map[string]Entry) {
	var typ ast.Type
	name := first.Text
	if first.Kind == lsltok.TYPE {
		typ = ast.Type(first.Text)
		next := lx.Next()
		if next.Kind != lsltok.IDENT {
			return // malformed; let C3 raise the real diagnostic
		}
		name = next.Text
	}

	tok := lx.Next()
	if tok.Kind == lsltok.LPAREN {
		params := scanParamTypes(lx)
		out[name] = Entry{Kind: ast.KindFunc, Type: typ, ParamTypes: params, Unseen: true}
		skipBraceBody(lx)
		return
	}

	out[name] = Entry{Kind: ast.KindVar, Type: typ, Unseen: true}
	skipToSemi(lx, tok)
}

func scanParamTypes(lx *lsltok.Lexer) []ast.Type {
	var types []ast.Type
	for {
		tok := lx.Next()
		switch tok.Kind {
		case lsltok.RPAREN, lsltok.EOF:
			return types
		case lsltok.TYPE:
			types = append(types, ast.Type(tok.Text))
		}
	}
}

// skipBraceBody consumes tokens through the matching '}' of a function
// body (brace-matching, per §4.2), tolerating a bodiless prototype
// ended by ';' instead.
func skipBraceBody(lx *lsltok.Lexer) {
	depth := 0
	started := false
	for {
		tok := lx.Next()
		switch tok.Kind {
		case lsltok.EOF:
			return
		case lsltok.SEMI:
			if !started {
				return
			}
		case lsltok.LBRACE:
			depth++
			started = true
		case lsltok.RBRACE:
			depth--
			if started && depth == 0 {
				return
			}
		}
	}
}

// skipToSemi consumes tokens up to and including the next top-level ';'.
func skipToSemi(lx *lsltok.Lexer, first lsltok.Token) {
	if first.Kind == lsltok.SEMI {
		return
	}
	for {
		tok := lx.Next()
		if tok.Kind == lsltok.SEMI || tok.Kind == lsltok.EOF {
			return
		}
	}
}

// skipState brace-matches through an entire state/default block,
// including its nested event handler bodies.
func skipState(lx *lsltok.Lexer) {
	// Consume the state name (absent for `default`).
	tok := lx.Next()
	if tok.Kind == lsltok.IDENT {
		tok = lx.Next()
	}
	if tok.Kind != lsltok.LBRACE {
		return
	}
	depth := 1
	for depth > 0 {
		tok = lx.Next()
		switch tok.Kind {
		case lsltok.EOF:
			return
		case lsltok.LBRACE:
			depth++
		case lsltok.RBRACE:
			depth--
		}
	}
}
