// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package ast defines the typed abstract syntax tree and symbol records
// shared by every pass of the LSL compiler: the parser builds it, the
// dead-code pass marks and rewrites it, the library-aware optimizer and
// last pass mutate it in place, and the emitter walks it to produce
// output source. Every node carries a discriminating Tag plus optional
// analysis annotations (X, SEF, LIR, Orig) that later passes set; a zero
// value for an annotation means "not yet computed", never "false".
package ast
