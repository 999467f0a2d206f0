// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package runners implements the multi-file batch driver: collect every
// `.lsl` file under a path, compile each independently, and report the
// outcome, continuing past a single file's failure the way the
// teacher's turn-report batch runner does.
package runners

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/playbymail/lslopt/internal/compiler"
	"github.com/playbymail/lslopt/internal/reports"
	"github.com/playbymail/lslopt/internal/tempglobals"
)

// Run walks path (a single file or a directory) collecting every
// `.lsl` source file, sorted for deterministic output (§8's
// determinism property extends to batch ordering, not just per-file
// compilation), compiles each with opts, and returns one Report per
// file plus the first unexpected (non-compile) error encountered while
// walking.
func Run(path string, opts compiler.Options, cache *tempglobals.Cache) ([]*reports.Report, error) {
	log.Printf("%s: collecting source files...\n", path)
	files, err := collectSources(path)
	if err != nil {
		log.Printf("%s: error collecting source files: %v\n", path, err)
		return nil, err
	}
	if len(files) == 0 {
		log.Printf("%s: no .lsl files found\n", path)
		return nil, nil
	}
	log.Printf("%s: found %3d source files\n", path, len(files))

	var out []*reports.Report
	for _, name := range files {
		out = append(out, RunFile(name, opts, cache))
	}
	return out, nil
}

// RunFile compiles one file, never returning an error itself — a
// failed compile is recorded as a Failed report, so Run can continue
// past a single file's failure.
func RunFile(name string, opts compiler.Options, cache *tempglobals.Cache) *reports.Report {
	when := time.Now()
	log.Printf("%s: reading...\n", name)
	src, err := os.ReadFile(name)
	if err != nil {
		log.Printf("%s: error reading: %v\n", name, err)
		return reports.FromError(name, err, when)
	}

	opts.Options.Filename = name
	log.Printf("%s: compiling...\n", name)
	res, err := compiler.Compile(src, opts, cache)
	if err != nil {
		log.Printf("%s: error compiling: %v\n", name, err)
		return reports.FromError(name, err, when)
	}
	log.Printf("%s: compiled successfully\n", name)
	return reports.FromResult(name, res, when)
}

// CollectSources returns every `.lsl` file under path, sorted
// lexically, or path itself if it names a single file. Exported so
// callers that need to inspect the file list before compiling (a
// session-cache lookup, for instance) don't have to re-walk it.
func CollectSources(path string) ([]string, error) {
	return collectSources(path)
}

// collectSources returns every `.lsl` file under path, sorted
// lexically, or path itself if it names a single file.
func collectSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(p) == ".lsl" {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
