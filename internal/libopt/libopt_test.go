// Copyright (c) 2024 Michael D Henderson. All rights reserved.

package libopt_test

import (
	"testing"

	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/libopt"
	"github.com/playbymail/lslopt/internal/stdlib"
)

func constNode(t ast.Type, v ast.Value) *ast.Node {
	return &ast.Node{Tag: ast.CONST, T: t, Value: v, SEF: true}
}

func TestOptimizeArgsClampsSensorArc(t *testing.T) {
	args := []*ast.Node{
		{Tag: ast.IDENT, Name: "name"}, {Tag: ast.IDENT, Name: "key"},
		{Tag: ast.IDENT, Name: "type"}, {Tag: ast.IDENT, Name: "range"},
		constNode(ast.TypeFloat, float32(3.2)),
	}
	node := &ast.Node{Tag: ast.FNCALL, Name: "llSensor", Ch: args}
	libopt.OptimizeArgs(node, []ast.Type{ast.TypeString, ast.TypeKey, ast.TypeInteger, ast.TypeFloat, ast.TypeFloat}, false)

	if got := args[4].Value.(float32); got != float32(stdlib.SensorArcClamp) {
		t.Errorf("got arc %v, want clamped to %v", got, stdlib.SensorArcClamp)
	}
}

func TestOptimizeArgsLeavesSensorArcUnclampedBelowCutoff(t *testing.T) {
	args := []*ast.Node{
		{Tag: ast.IDENT}, {Tag: ast.IDENT}, {Tag: ast.IDENT}, {Tag: ast.IDENT},
		constNode(ast.TypeFloat, float32(1.0)),
	}
	node := &ast.Node{Tag: ast.FNCALL, Name: "llSensor", Ch: args}
	libopt.OptimizeArgs(node, []ast.Type{ast.TypeString, ast.TypeKey, ast.TypeInteger, ast.TypeFloat, ast.TypeFloat}, false)

	if got := args[4].Value.(float32); got != float32(1.0) {
		t.Errorf("got arc %v, want unchanged 1.0", got)
	}
}

func TestOptimizeArgsNullsInvalidKeyConstant(t *testing.T) {
	args := []*ast.Node{constNode(ast.TypeKey, ast.Key("not-a-uuid"))}
	node := &ast.Node{Tag: ast.FNCALL, Name: "llGetOwnerKey", Ch: args}
	libopt.OptimizeArgs(node, []ast.Type{ast.TypeKey}, false)

	if args[0].Value != "" || args[0].T != ast.TypeString {
		t.Errorf("got value=%v T=%s, want empty string retyped TypeString", args[0].Value, args[0].T)
	}
}

func TestOptimizeArgsSkipsUserDefinedFunctions(t *testing.T) {
	args := []*ast.Node{constNode(ast.TypeKey, ast.Key("not-a-uuid"))}
	node := &ast.Node{Tag: ast.FNCALL, Name: "getKey", Ch: args}
	libopt.OptimizeArgs(node, []ast.Type{ast.TypeKey}, true)

	if args[0].T != ast.TypeKey {
		t.Errorf("expected a user-defined function's args to be left untouched, got T=%s", args[0].T)
	}
}

func TestOptimizeFuncGetListLengthRewritesToNotEmptyCheck(t *testing.T) {
	listArg := &ast.Node{Tag: ast.IDENT, Name: "l", T: ast.TypeList}
	node := &ast.Node{Tag: ast.FNCALL, Name: "llGetListLength", T: ast.TypeInteger, Ch: []*ast.Node{listArg}}

	got := libopt.OptimizeFunc(node, nil, nil)
	if got == nil || got.Tag != ast.NE || len(got.Ch) != 2 {
		t.Fatalf("expected an NE comparison, got %#v", got)
	}
	if got.Ch[0] != listArg {
		t.Errorf("expected the rewrite to reuse the original list argument node")
	}
}

func TestOptimizeFuncList2IntegerFoldsCompatibleElement(t *testing.T) {
	listArg := &ast.Node{Tag: ast.IDENT, Name: "l", T: ast.TypeList}
	idxArg := constNode(ast.TypeInteger, int32(1))
	node := &ast.Node{Tag: ast.FNCALL, Name: "llList2Integer", T: ast.TypeInteger, SEF: true, Ch: []*ast.Node{listArg, idxArg}}

	length := func(n *ast.Node) (int, bool) { return 3, true }
	elem := func(n *ast.Node, idx int) (ast.Value, bool) {
		if idx == 1 {
			return int32(42), true
		}
		return nil, false
	}

	got := libopt.OptimizeFunc(node, length, elem)
	if got == nil || got.Tag != ast.CONST || got.Value != int32(42) {
		t.Fatalf("expected a folded CONST 42, got %#v", got)
	}
}

func TestOptimizeFuncList2IntegerOutOfRangeFoldsToDefault(t *testing.T) {
	listArg := &ast.Node{Tag: ast.IDENT, Name: "l", T: ast.TypeList}
	idxArg := constNode(ast.TypeInteger, int32(99))
	node := &ast.Node{Tag: ast.FNCALL, Name: "llList2Integer", T: ast.TypeInteger, SEF: true, Ch: []*ast.Node{listArg, idxArg}}

	length := func(n *ast.Node) (int, bool) { return 3, true }
	elem := func(n *ast.Node, idx int) (ast.Value, bool) { return nil, false }

	got := libopt.OptimizeFunc(node, length, elem)
	if got == nil || got.Tag != ast.CONST || got.Value != int32(0) {
		t.Fatalf("expected the out-of-range index to fold to the default value 0, got %#v", got)
	}
}

func TestOptimizeFuncNegativeIndexWrapsFromEnd(t *testing.T) {
	listArg := &ast.Node{Tag: ast.IDENT, Name: "l", T: ast.TypeList}
	idxArg := constNode(ast.TypeInteger, int32(-1))
	node := &ast.Node{Tag: ast.FNCALL, Name: "llList2Integer", T: ast.TypeInteger, SEF: true, Ch: []*ast.Node{listArg, idxArg}}

	length := func(n *ast.Node) (int, bool) { return 3, true }
	elem := func(n *ast.Node, idx int) (ast.Value, bool) {
		if idx == 2 {
			return int32(7), true
		}
		return nil, false
	}

	got := libopt.OptimizeFunc(node, length, elem)
	if got == nil || got.Value != int32(7) {
		t.Fatalf("expected index -1 to resolve to the last element (idx 2), got %#v", got)
	}
}

func TestOptimizeFuncDialogElidesDefaultOKButton(t *testing.T) {
	buttons := &ast.Node{Tag: ast.IDENT, Name: "b", T: ast.TypeList}
	node := &ast.Node{
		Tag: ast.FNCALL, Name: "llDialog",
		Ch:  []*ast.Node{{Tag: ast.IDENT}, {Tag: ast.IDENT}, buttons},
	}

	length := func(n *ast.Node) (int, bool) { return 1, true }
	elem := func(n *ast.Node, idx int) (ast.Value, bool) { return "OK", true }

	got := libopt.OptimizeFunc(node, length, elem)
	if got != nil {
		t.Fatalf("expected llDialog to rewrite in place and return nil, got %#v", got)
	}
	if node.Ch[2] == buttons || node.Ch[2].Tag != ast.CONST {
		t.Fatalf("expected the button list argument replaced with an empty CONST list, got %#v", node.Ch[2])
	}
}

func TestOptimizeFuncDeleteSubListWholeRangeFoldsToEmptyList(t *testing.T) {
	list := &ast.Node{Tag: ast.IDENT, Name: "l", T: ast.TypeList, SEF: true}
	node := &ast.Node{
		Tag: ast.FNCALL, Name: "llDeleteSubList",
		Ch:  []*ast.Node{list, constNode(ast.TypeInteger, int32(0)), constNode(ast.TypeInteger, int32(-1))},
	}

	got := libopt.OptimizeFunc(node, nil, nil)
	if got == nil || got.Tag != ast.CONST || got.T != ast.TypeList {
		t.Fatalf("expected a folded empty-list CONST, got %#v", got)
	}
	elems, ok := got.Value.([]ast.Value)
	if !ok || len(elems) != 0 {
		t.Errorf("expected an empty list value, got %#v", got.Value)
	}
}
