// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package arith is a pragmatic stand-in for the Arith kernel spec.md
// §1 names as out of scope: a full runtime-accurate evaluator for every
// LSL built-in function. Instead it implements the narrower,
// genuinely useful subset the constant folder (internal/constfold)
// actually needs — library calls whose result is predictable for
// certain constant arguments regardless of simulator state — grounded
// on original_source/lslopt/lslextrafuncs.py's per-function
// "predictable for these inputs, ErrCantCompute otherwise" pattern.
package arith

import "github.com/playbymail/lslopt/internal/ast"

// cantComputeErr is the type of ErrCantCompute. A PredictableFunc
// reports arguments outside the predictable case by returning
// ok=false; the caller (constfold) then leaves the call as a runtime
// FNCALL.
type cantComputeErr struct{}

func (cantComputeErr) Error() string { return "cannot compute at compile time" }

// ErrCantCompute is the sentinel PredictableFunc implementations
// return via the ok=false result; kept as a typed value so callers can
// use errors.Is if ever needed, matching ELSLCantCompute's role as a
// plain marker exception in the original.
var ErrCantCompute = cantComputeErr{}

// PredictableFunc evaluates one library call's constant arguments,
// returning (value, true) if the result is known regardless of
// simulator state, or (nil, false) if it depends on state the compiler
// can't see.
type PredictableFunc func(args []ast.Value) (ast.Value, bool)

// Predictable is the table of functions with a known-safe compile-time
// shortcut for some or all inputs. Grounded on the function bodies in
// lslextrafuncs.py.
var Predictable = map[string]PredictableFunc{
	// llCloud always returns 0.0 regardless of the position argument.
	"llCloud": func(args []ast.Value) (ast.Value, bool) {
		return float32(0), true
	},

	// llGetOwnerKey(id): NULL_KEY iff id isn't a valid, non-null key;
	// otherwise depends on simulator state.
	"llGetOwnerKey": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return ast.Key(NullKey), true
		}
		return nil, false
	},
	"llGetAgentInfo": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return int32(0), true
		}
		return nil, false
	},
	"llGetAgentLanguage": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return "", true
		}
		return nil, false
	},
	"llGetAgentSize": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return ast.Vector{0, 0, 0}, true
		}
		return nil, false
	},
	"llGetDisplayName": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return "", true
		}
		return nil, false
	},
	"llGetAnimation": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return "", true
		}
		return nil, false
	},
	"llGetAnimationList": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return []ast.Value{}, true
		}
		return nil, false
	},
	"llGetBoundingBox": func(args []ast.Value) (ast.Value, bool) {
		if id, ok := singleKeyArg(args); ok && !ast.Cond(ast.Key(id)) {
			return []ast.Value{}, true
		}
		return nil, false
	},
	"llGetInventoryKey": func(args []ast.Value) (ast.Value, bool) {
		if len(args) != 1 {
			return nil, false
		}
		if s, ok := args[0].(string); ok && s == "" {
			return ast.Key(NullKey), true
		}
		return nil, false
	},

	// llEdgeOfWorld(pos, dir): always 1 (TRUE) when dir's horizontal
	// components are both zero, since "no direction" trivially can't
	// cross any edge.
	"llEdgeOfWorld": func(args []ast.Value) (ast.Value, bool) {
		if len(args) != 2 {
			return nil, false
		}
		dir, ok := args[1].(ast.Vector)
		if !ok {
			return nil, false
		}
		if dir[0] == 0 && dir[1] == 0 {
			return int32(1), true
		}
		return nil, false
	},

	// llGetEnv(name): empty string for any name outside the known
	// settings list; a recognized name depends on simulator state.
	"llGetEnv": func(args []ast.Value) (ast.Value, bool) {
		if len(args) != 1 {
			return nil, false
		}
		s, ok := args[0].(string)
		if !ok {
			return nil, false
		}
		if !envSettings[s] {
			return "", true
		}
		return nil, false
	},

	// llGetExperienceList always returns an empty list: the function
	// is unimplemented in the simulator.
	"llGetExperienceList": func(args []ast.Value) (ast.Value, bool) {
		return []ast.Value{}, true
	},

	// llGetExperienceErrorMessage(n) is a pure table lookup, always
	// computable.
	"llGetExperienceErrorMessage": func(args []ast.Value) (ast.Value, bool) {
		if len(args) != 1 {
			return nil, false
		}
		n, ok := args[0].(int32)
		if !ok {
			return nil, false
		}
		if n < -1 || int(n) >= len(xpErrorMessages) {
			n = -1
		}
		return xpErrorMessages[n+1], true
	},
}

// NullKey is NULL_KEY's literal value, duplicated here rather than
// imported from internal/stdlib to keep this package dependency-free
// of the library metadata tables (it only needs the one constant).
const NullKey = "00000000-0000-0000-0000-000000000000"

func singleKeyArg(args []ast.Value) (string, bool) {
	if len(args) != 1 {
		return "", false
	}
	switch v := args[0].(type) {
	case ast.Key:
		return string(v), true
	case string:
		return v, true
	default:
		return "", false
	}
}

var envSettings = map[string]bool{
	"agent_limit": true, "dynamic_pathfinding": true, "estate_id": true,
	"estate_name": true, "frame_number": true, "region_cpu_ratio": true,
	"region_idle": true, "region_product_name": true, "region_product_sku": true,
	"region_start_time": true, "sim_channel": true, "sim_version": true,
	"simulator_hostname": true, "region_max_prims": true, "region_object_bonus": true,
}

// xpErrorMessages is indexed by (errno+1), since errno ranges -1..18.
var xpErrorMessages = []string{
	"unknown error id", "no error", "exceeded throttle", "experiences are disabled",
	"invalid parameters", "operation not permitted",
	"script not associated with an experience", "not found", "invalid experience",
	"experience is disabled", "experience is suspended", "unknown error",
	"experience data quota exceeded", "key-value store is disabled",
	"key-value store communication failed", "key doesn't exist", "retry update",
	"experience content rating too high", "not allowed to run in current location",
	"experience permissions request timed out",
}
