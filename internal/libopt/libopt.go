// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package libopt implements the library-aware optimizer (C6): a set of
// FNCALL-specific rewrites that only the constant folder (internal/
// constfold) can apply, because they depend on knowing which built-in
// function is being called and what its library semantics guarantee.
// Grounded verbatim on original_source/lslopt/lslfuncopt.py's
// OptimizeArgs/OptimizeFunc.
package libopt

import (
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/stdlib"
)

// ListElement returns the constant Value at index idx of a LIST/CONST
// list node, or (nil, false) if the node isn't a fully-constant list or
// idx is out of range. The constant folder supplies this (it already
// walks LIST/CONST nodes); libopt only consumes it.
type ListElement func(node *ast.Node, idx int) (ast.Value, bool)

// ListLength returns the length of a LIST/CONST list node, or
// (0, false) if it isn't known at compile time.
type ListLength func(node *ast.Node) (int, bool)

// OptimizeArgs implements the argument-side rewrites applied to every
// FNCALL before OptimizeFunc runs: the sensor-arc clamp and replacing
// an invalid/null key constant argument with "" (the literal the
// simulator treats identically, and which is one byte shorter once
// serialized), grounded on OptimizeArgs (lslfuncopt.py lines 30-56).
// isUDF must be true for a user-defined function (Loc is set on its
// Symbol), in which case no library-specific rewrite applies.
func OptimizeArgs(node *ast.Node, paramTypes []ast.Type, isUDF bool) {
	if node.Tag != ast.FNCALL || isUDF {
		return
	}
	name := node.Name
	args := node.Ch

	if stdlib.SensorFunctions[name] && len(args) > 4 {
		if c := args[4]; c.Tag == ast.CONST && c.T == ast.TypeFloat {
			if f, ok := c.Value.(float32); ok && f > stdlib.SensorArcCutoff {
				c.Value = float32(stdlib.SensorArcClamp)
			}
		}
	}

	if !stdlib.NoKeyOptimizationFunctions[name] {
		for i, t := range paramTypes {
			if i >= len(args) || t != ast.TypeKey {
				continue
			}
			arg := args[i]
			if arg.Tag != ast.CONST {
				continue
			}
			if k, ok := arg.Value.(ast.Key); ok && !ast.Cond(k) {
				arg.Value = ""
				arg.T = ast.TypeString
			}
		}
	}
}

// listExtractFuncs is the llList2XXX family libopt specializes,
// mapping name to the LSL type-letter it extracts (node.T's first
// letter in the original).
var listExtractFuncs = map[string]byte{
	"llList2String": 's', "llList2Key": 'k', "llList2Integer": 'i',
	"llList2Float": 'f', "llList2Vector": 'v', "llList2Rot": 'r',
}

// OptimizeFunc implements the subset of OptimizeFunc (lslfuncopt.py
// lines 151-430) ported to this compiler: llGetListLength's
// not-empty-check rewrite, llList2XXX constant-list-element folding,
// llDialog's default-OK-button elision, and llDeleteSubList/
// llListReplaceList's whole-list-removal shortcut. Returns a
// replacement node, or nil if no rewrite applies (the caller keeps the
// original FNCALL). len/elem give the constant folder's list
// introspection, since only it has the machinery to evaluate a LIST
// node that isn't itself a single CONST.
func OptimizeFunc(node *ast.Node, length ListLength, elem ListElement) *ast.Node {
	if node.Tag != ast.FNCALL {
		return nil
	}
	name := node.Name
	args := node.Ch

	if name == "llGetListLength" && len(args) == 1 {
		empty := &ast.Node{Tag: ast.CONST, T: ast.TypeList, Value: []ast.Value{}, SEF: true}
		return &ast.Node{Tag: ast.NE, T: ast.TypeInteger, Ch: []*ast.Node{args[0], empty}, SEF: args[0].SEF}
	}

	if letter, ok := listExtractFuncs[name]; ok && len(args) == 2 && args[1].Tag == ast.CONST {
		idx, ok := args[1].Value.(int32)
		if !ok {
			return nil
		}
		listArg := args[0]
		n, lenOK := length(listArg)
		if !lenOK {
			return nil
		}
		i := int(idx)
		if i < 0 {
			i += n
		}
		if i < 0 || i >= n {
			if node.SEF {
				return &ast.Node{Tag: ast.CONST, T: node.T, Value: stdlib.DefaultListVals[name], SEF: true}
			}
			return nil
		}
		val, ok := elem(listArg, i)
		if !ok || !node.SEF {
			return nil
		}
		vt := ast.TypeOf(val)
		if !stdlib.ListCompat[string(letter)+string(vt[0])] {
			return &ast.Node{Tag: ast.CONST, T: node.T, Value: stdlib.DefaultListVals[name], SEF: true}
		}
		return &ast.Node{Tag: ast.CONST, T: node.T, Value: recast(val, node.T), SEF: true}
	}

	if name == "llDialog" && len(args) == 3 {
		if n, ok := length(args[2]); ok && n == 1 {
			if v, ok := elem(args[2], 0); ok {
				if s, ok := v.(string); ok && s == "OK" {
					empty := &ast.Node{Tag: ast.CONST, T: ast.TypeList, Value: []ast.Value{}, SEF: true}
					node.Ch[2] = empty
				}
			}
		}
		return nil
	}

	if isWholeListRemoval(name, args) {
		a, b := args[len(args)-2], args[len(args)-1]
		if args[0].SEF && a.Tag == ast.CONST && b.Tag == ast.CONST {
			av, aok := a.Value.(int32)
			bv, bok := b.Value.(int32)
			if aok && bok && av == 0 && bv == -1 {
				return &ast.Node{Tag: ast.CONST, T: ast.TypeList, Value: []ast.Value{}, SEF: true}
			}
		}
	}
	return nil
}

func isWholeListRemoval(name string, args []*ast.Node) bool {
	if name == "llDeleteSubList" && len(args) == 3 {
		return true
	}
	if name == "llListReplaceList" && len(args) == 4 {
		if args[1].Tag == ast.CONST {
			if l, ok := args[1].Value.([]ast.Value); ok && len(l) == 0 {
				return true
			}
		}
	}
	return false
}

// recast narrows a Value extracted from a list to the precise LSL
// representation node.T demands (e.g. a list of ints read as
// llList2Float must become a float32), matching InternalTypecast's
// role in the original.
func recast(v ast.Value, want ast.Type) ast.Value {
	switch want {
	case ast.TypeFloat:
		switch x := v.(type) {
		case int32:
			return float32(x)
		case float32:
			return x
		}
	case ast.TypeInteger:
		switch x := v.(type) {
		case int32:
			return x
		case float32:
			return int32(x)
		}
	case ast.TypeString:
		if s, ok := v.(string); ok {
			return s
		}
		if k, ok := v.(ast.Key); ok {
			return string(k)
		}
	case ast.TypeKey:
		if s, ok := v.(string); ok {
			return ast.Key(s)
		}
		if k, ok := v.(ast.Key); ok {
			return k
		}
	}
	return v
}
