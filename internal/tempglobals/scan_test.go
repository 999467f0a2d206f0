// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package tempglobals_test

import (
	"testing"

	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/lsltok"
	"github.com/playbymail/lslopt/internal/tempglobals"
)

func TestScanRecordsGlobalVariable(t *testing.T) {
	out := tempglobals.Scan([]byte(`integer counter = 0;

default
{
    state_entry()
    {
    }
}
`), lsltok.Options{})

	entry, ok := out["counter"]
	if !ok {
		t.Fatalf("expected 'counter' to be recorded, got %#v", out)
	}
	if entry.Kind != ast.KindVar || entry.Type != ast.TypeInteger || !entry.Unseen {
		t.Errorf("got %#v, want a KindVar/TypeInteger/Unseen entry", entry)
	}
}

func TestScanRecordsGlobalFunctionWithParamTypes(t *testing.T) {
	out := tempglobals.Scan([]byte(`integer add(integer a, integer b)
{
    return a + b;
}

default
{
    state_entry()
    {
    }
}
`), lsltok.Options{})

	entry, ok := out["add"]
	if !ok {
		t.Fatalf("expected 'add' to be recorded, got %#v", out)
	}
	if entry.Kind != ast.KindFunc || entry.Type != ast.TypeInteger {
		t.Errorf("got %#v, want KindFunc/TypeInteger", entry)
	}
	if len(entry.ParamTypes) != 2 || entry.ParamTypes[0] != ast.TypeInteger || entry.ParamTypes[1] != ast.TypeInteger {
		t.Errorf("got ParamTypes %#v, want [integer integer]", entry.ParamTypes)
	}
}

func TestScanSkipsStateBlockBodies(t *testing.T) {
	out := tempglobals.Scan([]byte(`default
{
    state_entry()
    {
        integer notAGlobal = 1;
    }
}
`), lsltok.Options{})

	if _, ok := out["notAGlobal"]; ok {
		t.Errorf("expected a local declared inside a state block to be skipped, got %#v", out)
	}
}

func TestScanCachedReturnsSameResultOnRepeatedSource(t *testing.T) {
	cache, err := tempglobals.NewCache(8)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	src := []byte(`integer x = 1;

default
{
    state_entry()
    {
    }
}
`)
	first := cache.ScanCached(src, lsltok.Options{})
	second := cache.ScanCached(src, lsltok.Options{})

	if len(first) != len(second) {
		t.Fatalf("expected both scans to agree on entry count, got %d and %d", len(first), len(second))
	}
	if _, ok := second["x"]; !ok {
		t.Errorf("expected cached result to still contain 'x'")
	}
}
