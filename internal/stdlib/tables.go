// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package stdlib

import "github.com/playbymail/lslopt/internal/ast"

// SensorFunctions is the set of library functions whose last float
// argument is a sensor arc, clamped to 4.0 when it exceeds the usable
// range (§4.6, SUPPLEMENTED FEATURES #2).
var SensorFunctions = map[string]bool{
	"llSensor": true, "llSensorRepeat": true,
}

// NoKeyOptimizationFunctions lists functions where replacing an invalid
// key constant argument with an empty string would change behavior, so
// the key-canonicalization optimization in libopt must skip them.
var NoKeyOptimizationFunctions = map[string]bool{
	"llMessageLinked": true, "llRemoteDataReply": true,
}

// SensorArcCutoff and SensorArcClamp implement the "not quite PI"
// cutoff from the original: a sensor arc constant greater than the
// cutoff is clamped to the full-circle value, matching the comment
// "not sure why 3.14159 was chosen over the real cutoff" in the
// original source.
const (
	SensorArcCutoff = 3.14159
	SensorArcClamp  = 4.0
)

// ObjDetailsTypes gives the LSL type letter of each llGetObjectDetails
// return-list entry, indexed by the OBJECT_* constant value. Taken
// verbatim from lslfuncopt.py's objDetailsTypes string (index 0 is
// unused; last defined index is 40, OBJECT_ANIMATED_SLOTS_AVAILABLE).
const ObjDetailsTypes = "issvrvkkkiiififfffkiiiiiiffkiviiksiisiiii"

// PrimParamsTypes gives, for each PRIM_* constant used with
// llGetPrimitiveParams/llGetLinkPrimitiveParams, the LSL type letters
// of the values it expands to in the return list; "" means the entry
// is unassigned (can't be folded), and '*' means the arity depends on
// other state so prediction must stop at that entry. Index 0 is
// unassigned. Taken verbatim from lslfuncopt.py's primParamsTypes
// tuple.
var PrimParamsTypes = []string{
	"" /* 0 unassigned */, "i*" /* 1 PRIM_TYPE_LEGACY */, "i" /* 2 PRIM_MATERIAL */, "i", /* 3 PRIM_PHYSICS */
	"i", /* 4 PRIM_TEMP_ON_REZ */
	"i", /* 5 PRIM_PHANTOM */
	"v", /* 6 PRIM_POSITION */
	"v", /* 7 PRIM_SIZE */
	"r", /* 8 PRIM_ROTATION */
	"i*", /* 9 PRIM_TYPE */
	"", "", "", "", /* 10-13 unassigned */
	"", "", "", /* 14-16 unassigned */
	"svvf", /* 17 PRIM_TEXTURE */
	"vf", /* 18 PRIM_COLOR */
	"ii", /* 19 PRIM_BUMP_SHINY */
	"i", /* 20 PRIM_FULLBRIGHT */
	"iiffffv", /* 21 PRIM_FLEXIBLE */
	"i", /* 22 PRIM_TEXGEN */
	"ivfff", /* 23 PRIM_POINT_LIGHT */
	"", /* 24 unassigned */
	"f", /* 25 PRIM_GLOW */
	"svf", /* 26 PRIM_TEXT */
	"s", /* 27 PRIM_NAME */
	"s", /* 28 PRIM_DESC */
	"r", /* 29 PRIM_ROT_LOCAL */
	"i", /* 30 PRIM_PHYSICS_SHAPE_TYPE */
	"", /* 31 unassigned */
	"vff", /* 32 PRIM_OMEGA */
	"v", /* 33 PRIM_POS_LOCAL */
	"", /* 34 PRIM_LINK_TARGET */
	"v", /* 35 PRIM_SLICE */
	"svvfvii", /* 36 PRIM_SPECULAR */
	"svvf", /* 37 PRIM_NORMAL */
	"ii", /* 38 PRIM_ALPHA_MODE */
	"i", /* 39 PRIM_ALLOW_UNSIT */
	"i", /* 40 PRIM_SCRIPTED_SIT_ONLY */
	"ivv", /* 41 PRIM_SIT_TARGET */
	"sfff", /* 42 PRIM_PROJECTOR */
}

// PrimParamsUnassigned reports whether index idx of PrimParamsTypes is
// the "False" sentinel from the original (an empty string here, since
// Go has no tri-state string).
func PrimParamsUnassigned(idx int) bool {
	return idx < 0 || idx >= len(PrimParamsTypes) || PrimParamsTypes[idx] == ""
}

// PrimParamsArgs lists the PRIM_* indices whose llGetPrimitiveParams
// expansion takes a face ('F') or link ('L') argument first, meaning
// reading past them has side effects (an out-of-range argument raises
// a runtime error), so the optimizer must not assume pure expansion.
var PrimParamsArgs = map[int]byte{
	17: 'F', 18: 'F', 19: 'F', 20: 'F', 22: 'F', 25: 'F', 34: 'L', 36: 'F', 37: 'F', 38: 'F',
}

// ListCompat is the set of (extractor-type-letter, element-type-letter)
// pairs for which folding a constant list element through an
// llList2XXX call is safe, taken verbatim from lslfuncopt.py's
// listCompat frozenset.
var ListCompat = map[string]bool{
	"ss": true, "sk": true, "si": true, "sf": true, "sv": true, "sr": true,
	"ks": true, "kk": true,
	"is": true, "ii": true, "if": true,
	"fs": true, "fi": true, "ff": true,
	"vv": true, "rr": true,
}

// DefaultListVals is the value an llList2XXX call folds to when the
// index is provably out of range or the element's type is known to be
// incompatible, keyed by function name.
var DefaultListVals = map[string]ast.Value{
	"llList2Integer": int32(0),
	"llList2Float":   float32(0),
	"llList2String":  "",
	"llList2Key":     ast.Key(""),
	"llList2Vector":  ast.Vector{0, 0, 0},
	"llList2Rot":     ast.Rotation{0, 0, 0, 1},
}
