// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package arith_test

import (
	"testing"

	"github.com/playbymail/lslopt/internal/arith"
	"github.com/playbymail/lslopt/internal/ast"
)

func TestLlCloudAlwaysZero(t *testing.T) {
	fn := arith.Predictable["llCloud"]
	got, ok := fn([]ast.Value{ast.Vector{1, 2, 3}})
	if !ok || got != float32(0) {
		t.Errorf("got %v, %v, want 0.0, true", got, ok)
	}
}

func TestLlGetOwnerKeyNullForInvalidKey(t *testing.T) {
	fn := arith.Predictable["llGetOwnerKey"]

	got, ok := fn([]ast.Value{ast.Key("not-a-key")})
	if !ok || got != ast.Key(arith.NullKey) {
		t.Errorf("invalid key: got %v, %v, want NULL_KEY, true", got, ok)
	}

	_, ok = fn([]ast.Value{ast.Key("12345678-1234-1234-1234-123456789abc")})
	if ok {
		t.Errorf("expected a valid, non-null key to be unpredictable (depends on sim state)")
	}
}

func TestLlEdgeOfWorldPredictableOnlyForZeroHorizontalDir(t *testing.T) {
	fn := arith.Predictable["llEdgeOfWorld"]

	got, ok := fn([]ast.Value{ast.Vector{0, 0, 0}, ast.Vector{0, 0, 5}})
	if !ok || got != int32(1) {
		t.Errorf("zero horizontal dir: got %v, %v, want 1, true", got, ok)
	}

	_, ok = fn([]ast.Value{ast.Vector{0, 0, 0}, ast.Vector{1, 0, 0}})
	if ok {
		t.Errorf("expected a nonzero horizontal dir to be unpredictable")
	}
}

func TestLlGetEnvEmptyForUnknownSettingOnly(t *testing.T) {
	fn := arith.Predictable["llGetEnv"]

	got, ok := fn([]ast.Value{"not_a_real_setting"})
	if !ok || got != "" {
		t.Errorf("unknown setting: got %v, %v, want \"\", true", got, ok)
	}

	_, ok = fn([]ast.Value{"sim_version"})
	if ok {
		t.Errorf("expected a recognized setting to be unpredictable (depends on sim state)")
	}
}

func TestLlGetExperienceErrorMessageClampsOutOfRangeToUnknown(t *testing.T) {
	fn := arith.Predictable["llGetExperienceErrorMessage"]

	got, ok := fn([]ast.Value{int32(0)})
	if !ok || got != "no error" {
		t.Errorf("errno 0: got %v, %v, want \"no error\", true", got, ok)
	}

	got, ok = fn([]ast.Value{int32(999)})
	if !ok || got != "unknown error id" {
		t.Errorf("out-of-range errno: got %v, %v, want \"unknown error id\", true", got, ok)
	}
}

func TestLlGetExperienceListAlwaysEmpty(t *testing.T) {
	fn := arith.Predictable["llGetExperienceList"]
	got, ok := fn(nil)
	list, isList := got.([]ast.Value)
	if !ok || !isList || len(list) != 0 {
		t.Errorf("got %v, %v, want an empty list, true", got, ok)
	}
}
