// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package compiler orchestrates the full pipeline described by §2's
// data flow: C2's temp-globals scan feeds C3's parse, whose symbol
// table feeds C6's constant fold, which feeds C5's dead-code pass,
// which feeds C7's last pass, whose tree is handed to internal/emit.
// Grounded on internal/runners.RunFile's stage-sequencing style (one
// log line per stage, first error wins, no partial success per §7).
package compiler

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/playbymail/lslopt/internal/constfold"
	"github.com/playbymail/lslopt/internal/deadcode"
	"github.com/playbymail/lslopt/internal/emit"
	"github.com/playbymail/lslopt/internal/lastpass"
	"github.com/playbymail/lslopt/internal/parser"
	"github.com/playbymail/lslopt/internal/tempglobals"
)

// Options is the full §6 toggle set for one compile unit. Compile
// never reads the source for pragmas; it only sees the set it is
// given. internal/config.ApplyPragmas can layer `#pragma OPT ±name`
// lines onto a config.Options_t, but neither command-line front end
// calls it, so a pragma in a source file does not change the options a
// compile runs with.
type Options struct {
	parser.Options

	// ShrinkNames and Inline are accepted here for the §6 table's sake,
	// but no pass reads them: internal/deadcode and internal/lastpass
	// perform no identifier renaming and no inline expansion.
	ShrinkNames bool
	Inline      bool

	// Optimize gates C6/C5/C7 as a unit, matching §6's "enable all
	// optimization passes" description: with it off, Compile returns
	// the parsed-and-typechecked tree emitted verbatim.
	Optimize bool

	// ListAdd is lastpass.Options.ListAdd (the 'optlistadd' rewrite).
	// It has an effect only when Optimize is set, since the last pass
	// runs only then.
	ListAdd bool
}

// Result is one file's compile outcome, the input internal/reports
// turns into the human-facing optimization summary.
type Result struct {
	SessionID    uuid.UUID
	Source       string
	UsedLibFuncs map[string]bool
	InputSize    int
	OutputSize   int
}

// Compile runs lex (implicit in tempglobals.Scan/parser.New) →
// temp-globals scan (C2) → parse/typecheck (C3) → constant fold and
// library-aware optimization (C6) → dead-code pass (C5) → last pass
// (C7) → emit, over a single source file. cache may be nil, in which
// case C2 always re-scans.
func Compile(src []byte, opts Options, cache *tempglobals.Cache) (*Result, error) {
	id := uuid.New()

	log.Printf("%s: scanning temp globals...\n", id)
	temp := cache.ScanCached(src, opts.Options.Options)

	log.Printf("%s: parsing...\n", id)
	p := parser.New(src, opts.Options, temp)
	tree, err := p.Parse()
	if err != nil {
		log.Printf("%s: error parsing: %v\n", id, err)
		return nil, fmt.Errorf("parse: %w", err)
	}

	usedLibFuncs := map[string]bool{}
	if opts.Optimize {
		log.Printf("%s: folding constants...\n", id)
		tree = constfold.New(p.Scopes()).Fold(tree)

		log.Printf("%s: removing dead code...\n", id)
		deadcode.New(tree).RemoveDeadCode()

		log.Printf("%s: running last pass...\n", id)
		usedLibFuncs = lastpass.New(tree, lastpass.Options{ListAdd: opts.ListAdd}).Run()
	}

	log.Printf("%s: emitting...\n", id)
	out := emit.Source(tree)
	log.Printf("%s: compiled successfully\n", id)

	return &Result{
		SessionID:    id,
		Source:       out,
		UsedLibFuncs: usedLibFuncs,
		InputSize:    len(src),
		OutputSize:   len(out),
	}, nil
}
