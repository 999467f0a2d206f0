// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package stdlib holds the LSL standard-library metadata tables: event
// names, predefined constants, and function signatures that the
// temp-globals scanner (C2) and parser (C3) union with user-declared
// globals, plus the type-compatibility tables the library-aware
// optimizer (C6) needs. The tables here are a pragmatic, representative
// subset of the full Second Life function library — the library itself
// is named in spec.md §1 as an out-of-scope external collaborator; this
// package exists so the compiler has something concrete to compile
// against, grounded on original_source/lslopt/lslfuncopt.py's tables
// for the parts the optimizer depends on exactly.
package stdlib
