// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package stdlib

import "github.com/playbymail/lslopt/internal/ast"

// Function describes one library function's call signature, the shape
// C2's temp-globals union and C3's FNCALL type-checking both need.
// Pure marks a function that has no observable side effect (emits no
// chat/dialog/sensor-request/message/timer-reset, mutates no prim
// state) even though its result may still depend on simulator state
// the compiler can't see; the constant folder uses Pure, not
// predictability, to decide SEF (§3 "SEF").
type Function struct {
	Name       string
	ReturnType ast.Type // TypeNone for a void function
	ParamTypes []ast.Type
	Pure       bool
}

// Functions is a representative subset of the Second Life function
// library: every function referenced by the library-aware optimizer
// (§4.6) plus a sampling of common scalar/string/list/communication
// calls, enough to exercise the compiler end to end. It is not the
// complete ~350-entry library, which spec.md §1 places out of scope.
var Functions = map[string]Function{
	"llGetListLength":  {Name: "llGetListLength", ReturnType: ast.TypeInteger, ParamTypes: []ast.Type{ast.TypeList}, Pure: true},
	"llDumpList2String": {Name: "llDumpList2String", ReturnType: ast.TypeString,
		ParamTypes: []ast.Type{ast.TypeList, ast.TypeString}, Pure: true},
	"llList2String": {Name: "llList2String", ReturnType: ast.TypeString, ParamTypes: []ast.Type{ast.TypeList, ast.TypeInteger}, Pure: true},
	"llList2Key":     {Name: "llList2Key", ReturnType: ast.TypeKey, ParamTypes: []ast.Type{ast.TypeList, ast.TypeInteger}, Pure: true},
	"llList2Integer": {Name: "llList2Integer", ReturnType: ast.TypeInteger, ParamTypes: []ast.Type{ast.TypeList, ast.TypeInteger}, Pure: true},
	"llList2Float":   {Name: "llList2Float", ReturnType: ast.TypeFloat, ParamTypes: []ast.Type{ast.TypeList, ast.TypeInteger}, Pure: true},
	"llList2Vector":  {Name: "llList2Vector", ReturnType: ast.TypeVector, ParamTypes: []ast.Type{ast.TypeList, ast.TypeInteger}, Pure: true},
	"llList2Rot":     {Name: "llList2Rot", ReturnType: ast.TypeRotation, ParamTypes: []ast.Type{ast.TypeList, ast.TypeInteger}, Pure: true},
	"llDeleteSubList": {Name: "llDeleteSubList", ReturnType: ast.TypeList,
		ParamTypes: []ast.Type{ast.TypeList, ast.TypeInteger, ast.TypeInteger}, Pure: true},
	"llListReplaceList": {Name: "llListReplaceList", ReturnType: ast.TypeList,
		ParamTypes: []ast.Type{ast.TypeList, ast.TypeList, ast.TypeInteger, ast.TypeInteger}, Pure: true},
	"llGetObjectDetails": {Name: "llGetObjectDetails", ReturnType: ast.TypeList,
		ParamTypes: []ast.Type{ast.TypeKey, ast.TypeList}, Pure: true},
	"llGetPrimitiveParams": {Name: "llGetPrimitiveParams", ReturnType: ast.TypeList, ParamTypes: []ast.Type{ast.TypeList}, Pure: true},
	"llGetLinkPrimitiveParams": {Name: "llGetLinkPrimitiveParams", ReturnType: ast.TypeList,
		ParamTypes: []ast.Type{ast.TypeInteger, ast.TypeList}, Pure: true},
	// llDialog/llSensor/llSensorRepeat/llMessageLinked/llRemoteDataReply
	// are not Pure: each dispatches a simulator-visible event (a dialog
	// box, a sensor sweep, a linked-message broadcast, an HTTP-style
	// reply) that the constant folder must never assume away.
	"llDialog": {Name: "llDialog",
		ParamTypes: []ast.Type{ast.TypeKey, ast.TypeString, ast.TypeList, ast.TypeInteger}},
	"llSensor": {Name: "llSensor",
		ParamTypes: []ast.Type{ast.TypeString, ast.TypeKey, ast.TypeInteger, ast.TypeFloat, ast.TypeFloat}},
	"llSensorRepeat": {Name: "llSensorRepeat",
		ParamTypes: []ast.Type{ast.TypeString, ast.TypeKey, ast.TypeInteger, ast.TypeFloat, ast.TypeFloat, ast.TypeFloat}},
	"llMessageLinked": {Name: "llMessageLinked",
		ParamTypes: []ast.Type{ast.TypeInteger, ast.TypeInteger, ast.TypeString, ast.TypeKey}},
	"llRemoteDataReply": {Name: "llRemoteDataReply",
		ParamTypes: []ast.Type{ast.TypeKey, ast.TypeKey, ast.TypeString, ast.TypeInteger}},
	"llGetOwnerKey":  {Name: "llGetOwnerKey", ReturnType: ast.TypeKey, ParamTypes: []ast.Type{ast.TypeKey}, Pure: true},
	"llOwnerSay":     {Name: "llOwnerSay", ParamTypes: []ast.Type{ast.TypeString}},
	"llSay":          {Name: "llSay", ParamTypes: []ast.Type{ast.TypeInteger, ast.TypeString}},
	"llAbs":          {Name: "llAbs", ReturnType: ast.TypeInteger, ParamTypes: []ast.Type{ast.TypeInteger}, Pure: true},
	"llFabs":         {Name: "llFabs", ReturnType: ast.TypeFloat, ParamTypes: []ast.Type{ast.TypeFloat}, Pure: true},
	"llStringLength": {Name: "llStringLength", ReturnType: ast.TypeInteger, ParamTypes: []ast.Type{ast.TypeString}, Pure: true},
	"llSetTimerEvent": {Name: "llSetTimerEvent", ParamTypes: []ast.Type{ast.TypeFloat}},
	"llResetScript":   {Name: "llResetScript"},
}

// Constants is a representative subset of predefined LSL constants.
var Constants = map[string]ast.Value{
	"TRUE":         int32(1),
	"FALSE":        int32(0),
	"NULL_KEY":     ast.Key(""),
	"EOF":          "\n\n\n",
	"ZERO_VECTOR":  ast.Vector{0, 0, 0},
	"ZERO_ROTATION": ast.Rotation{0, 0, 0, 1},
	"PI":           float32(3.14159265),
	"PI_BY_TWO":    float32(1.57079633),
	"TWO_PI":       float32(6.28318530),
	"DEG_TO_RAD":   float32(0.01745329),
	"RAD_TO_DEG":   float32(57.2957795),
	"SQRT2":        float32(1.41421356),
}
