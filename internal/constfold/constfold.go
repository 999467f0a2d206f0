// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package constfold implements the library-aware constant folder (C6):
// a post-order tree walk that evaluates CONST-operand expressions at
// compile time, propagates the SEF annotation bottom-up, and invokes
// internal/libopt and internal/arith for FNCALL-specific rewrites.
// Grounded on original_source/lslopt/lslfuncopt.py's FoldTree/
// OptimizeArgs/OptimizeFunc driver loop (the recursive walk itself,
// referenced there via self.FoldTree but defined in the optimizer's
// main module, which is outside the retrieval pack; the walk below is
// written from that call-site's contract — fold children first, then
// try to collapse the parent — rather than transcribed).
package constfold

import (
	"github.com/playbymail/lslopt/internal/arith"
	"github.com/playbymail/lslopt/internal/ast"
	"github.com/playbymail/lslopt/internal/libopt"
	"github.com/playbymail/lslopt/internal/stdlib"
	"github.com/playbymail/lslopt/internal/symtab"
)

// Folder holds the lookup a single pass needs to resolve a symbol's
// callable metadata (ParamTypes, and whether it's a UDF vs a library
// call), so OptimizeArgs/Predictable fire only where they're safe to.
type Folder struct {
	scopes *symtab.Table
}

// New returns a Folder consulting scopes to resolve FNCALL callees.
func New(scopes *symtab.Table) *Folder {
	return &Folder{scopes: scopes}
}

// Fold walks every top-level item in tree (global DECL initializers,
// FNDEF bodies, STDEF's per-event FNDEF bodies), replacing each with
// its folded form, and returns the same tree for chaining. fold already
// recurses into a node's children before trying to collapse the node
// itself, so driving it from the DECL/FNDEF/STDEF item is enough to
// reach every statement and expression in the compile unit.
func (f *Folder) Fold(tree *ast.Tree) *ast.Tree {
	for i, item := range tree.Items {
		tree.Items[i] = f.fold(item)
	}
	return tree
}

// fold recursively folds node's children, then tries to collapse node
// itself into a CONST, returning whatever node should now appear in
// the tree (node itself if nothing could be folded).
func (f *Folder) fold(node *ast.Node) *ast.Node {
	if node == nil {
		return nil
	}
	for i, ch := range node.Ch {
		node.Ch[i] = f.fold(ch)
	}

	switch node.Tag {
	case ast.CONST:
		node.SEF = true
		return node
	case ast.FNCALL:
		return f.foldCall(node)
	case ast.NEG, ast.BOOLNOT, ast.BITNOT:
		return f.foldUnary(node)
	case ast.CAST:
		return f.foldCast(node)
	case ast.ADD, ast.SUB, ast.MUL, ast.DIV, ast.MOD,
		ast.SHL, ast.SHR, ast.BITAND, ast.BITOR, ast.BITXOR,
		ast.EQ, ast.NE, ast.LT, ast.LE, ast.GT, ast.GE,
		ast.BOOLAND, ast.BOOLOR:
		return f.foldBinary(node)
	case ast.VECTOR:
		return f.foldVector(node)
	case ast.ROTATION:
		return f.foldRotation(node)
	default:
		node.SEF = allSEF(node.Ch)
		return node
	}
}

func allSEF(ch []*ast.Node) bool {
	for _, c := range ch {
		if c == nil || !c.SEF {
			return false
		}
	}
	return true
}

func (f *Folder) foldUnary(node *ast.Node) *ast.Node {
	x := node.Ch[0]
	node.SEF = x.SEF
	if x.Tag != ast.CONST {
		return node
	}
	switch node.Tag {
	case ast.NEG:
		if v, ok := negate(x.Value); ok {
			return ast.Const(node.T, v)
		}
	case ast.BOOLNOT:
		return ast.Const(ast.TypeInteger, boolToInt(!ast.Cond(x.Value)))
	case ast.BITNOT:
		if v, ok := x.Value.(int32); ok {
			return ast.Const(ast.TypeInteger, ^v)
		}
	}
	return node
}

func negate(v ast.Value) (ast.Value, bool) {
	switch x := v.(type) {
	case int32:
		return -x, true
	case float32:
		return -x, true
	case ast.Vector:
		return ast.Vector{-x[0], -x[1], -x[2]}, true
	case ast.Rotation:
		return ast.Rotation{-x[0], -x[1], -x[2], -x[3]}, true
	default:
		return nil, false
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func (f *Folder) foldCast(node *ast.Node) *ast.Node {
	x := node.Ch[0]
	node.SEF = x.SEF
	if x.Tag != ast.CONST {
		return node
	}
	if v, ok := cast(x.Value, node.T); ok {
		return ast.Const(node.T, v)
	}
	return node
}

// cast implements the explicit/implicit LSL conversions the folder can
// fully evaluate at compile time; conversions that can fail at runtime
// in ways the compiler shouldn't silently paper over (malformed
// string-to-key/vector/rotation parses) are left unfolded.
func cast(v ast.Value, want ast.Type) (ast.Value, bool) {
	switch want {
	case ast.TypeInteger:
		switch x := v.(type) {
		case int32:
			return x, true
		case float32:
			return int32(x), true
		}
	case ast.TypeFloat:
		switch x := v.(type) {
		case int32:
			return float32(x), true
		case float32:
			return x, true
		}
	case ast.TypeString:
		switch x := v.(type) {
		case string:
			return x, true
		case ast.Key:
			return string(x), true
		case int32, float32:
			return ast.FormatValue(x), true
		}
	case ast.TypeKey:
		switch x := v.(type) {
		case string:
			return ast.Key(x), true
		case ast.Key:
			return x, true
		}
	}
	return nil, false
}

// foldVector/foldRotation collapse a <x,y,z[,s]> literal whose
// components are all now CONST floats into a single CONST Vector/
// Rotation value; the dead-code pass's single-writer substitution for
// vector/rotation declarations only fires against a CONST writer, so
// this keeps a fully-constant literal eligible for that.
func (f *Folder) foldVector(node *ast.Node) *ast.Node {
	node.SEF = allSEF(node.Ch)
	v := ast.Vector{}
	for i, ch := range node.Ch {
		f32, ok := componentFloat(ch)
		if !ok {
			return node
		}
		v[i] = f32
	}
	return ast.Const(ast.TypeVector, v)
}

func (f *Folder) foldRotation(node *ast.Node) *ast.Node {
	node.SEF = allSEF(node.Ch)
	r := ast.Rotation{}
	for i, ch := range node.Ch {
		f32, ok := componentFloat(ch)
		if !ok {
			return node
		}
		r[i] = f32
	}
	return ast.Const(ast.TypeRotation, r)
}

func componentFloat(ch *ast.Node) (float32, bool) {
	if ch.Tag != ast.CONST {
		return 0, false
	}
	switch x := ch.Value.(type) {
	case float32:
		return x, true
	case int32:
		return float32(x), true
	default:
		return 0, false
	}
}

func (f *Folder) foldBinary(node *ast.Node) *ast.Node {
	l, r := node.Ch[0], node.Ch[1]
	node.SEF = l.SEF && r.SEF

	switch node.Tag {
	case ast.BOOLAND:
		if l.Tag == ast.CONST {
			if !ast.Cond(l.Value) {
				return ast.Const(ast.TypeInteger, int32(0))
			}
			if r.Tag == ast.CONST {
				return ast.Const(ast.TypeInteger, boolToInt(ast.Cond(r.Value)))
			}
		}
		return node
	case ast.BOOLOR:
		if l.Tag == ast.CONST {
			if ast.Cond(l.Value) {
				return ast.Const(ast.TypeInteger, int32(1))
			}
			if r.Tag == ast.CONST {
				return ast.Const(ast.TypeInteger, boolToInt(ast.Cond(r.Value)))
			}
		}
		return node
	}

	if l.Tag != ast.CONST || r.Tag != ast.CONST {
		return node
	}
	v, ok := evalBinary(node.Tag, l.Value, r.Value)
	if !ok {
		return node
	}
	return ast.Const(resultType(node.Tag, node.T, v), v)
}

func resultType(tag ast.Tag, declared ast.Type, v ast.Value) ast.Type {
	switch tag {
	case ast.EQ, ast.NE, ast.LT, ast.LE, ast.GT, ast.GE:
		return ast.TypeInteger
	default:
		t := ast.TypeOf(v)
		if t == ast.TypeNone {
			return declared
		}
		return t
	}
}

// evalBinary computes a binary operator over two compile-time
// constants, grounded on the arithmetic/comparison/concatenation rules
// LSL defines for its scalar, vector, rotation, string, and list types
// (vector*vector is a dot product, vector%vector a cross product,
// list+X is list concatenation, integer division/modulo truncate
// toward zero); returns ok=false for any combination the folder
// shouldn't try to guess (e.g. division, left unfolded only when a
// divisor is the constant zero, so the runtime error is preserved
// rather than silently computed).
func evalBinary(tag ast.Tag, lv, rv ast.Value) (ast.Value, bool) {
	switch l := lv.(type) {
	case int32:
		switch r := rv.(type) {
		case int32:
			return evalIntInt(tag, l, r)
		case float32:
			return evalFloatFloat(tag, float32(l), r)
		}
	case float32:
		switch r := rv.(type) {
		case int32:
			return evalFloatFloat(tag, l, float32(r))
		case float32:
			return evalFloatFloat(tag, l, r)
		}
	case string:
		if r, ok := rv.(string); ok {
			return evalString(tag, l, r)
		}
	case ast.Vector:
		switch r := rv.(type) {
		case ast.Vector:
			return evalVecVec(tag, l, r)
		case int32:
			return evalVecScalar(tag, l, float32(r))
		case float32:
			return evalVecScalar(tag, l, r)
		}
	case ast.Rotation:
		if r, ok := rv.(ast.Rotation); ok {
			return evalRotRot(tag, l, r)
		}
	case []ast.Value:
		if r, ok := rv.([]ast.Value); ok && tag == ast.ADD {
			out := make([]ast.Value, 0, len(l)+len(r))
			out = append(out, l...)
			out = append(out, r...)
			return out, true
		}
	}
	if tag == ast.MUL {
		if r, ok := rv.(ast.Vector); ok {
			switch l := lv.(type) {
			case int32:
				return evalVecScalar(tag, r, float32(l))
			case float32:
				return evalVecScalar(tag, r, l)
			}
		}
	}
	return nil, false
}

func evalIntInt(tag ast.Tag, l, r int32) (ast.Value, bool) {
	switch tag {
	case ast.ADD:
		return l + r, true
	case ast.SUB:
		return l - r, true
	case ast.MUL:
		return l * r, true
	case ast.DIV:
		if r == 0 {
			return nil, false
		}
		return l / r, true
	case ast.MOD:
		if r == 0 {
			return nil, false
		}
		return l % r, true
	case ast.BITAND:
		return l & r, true
	case ast.BITOR:
		return l | r, true
	case ast.BITXOR:
		return l ^ r, true
	case ast.SHL:
		return l << (uint32(r) & 31), true
	case ast.SHR:
		return l >> (uint32(r) & 31), true
	case ast.EQ:
		return boolToInt(l == r), true
	case ast.NE:
		return boolToInt(l != r), true
	case ast.LT:
		return boolToInt(l < r), true
	case ast.LE:
		return boolToInt(l <= r), true
	case ast.GT:
		return boolToInt(l > r), true
	case ast.GE:
		return boolToInt(l >= r), true
	default:
		return nil, false
	}
}

func evalFloatFloat(tag ast.Tag, l, r float32) (ast.Value, bool) {
	switch tag {
	case ast.ADD:
		return l + r, true
	case ast.SUB:
		return l - r, true
	case ast.MUL:
		return l * r, true
	case ast.DIV:
		if r == 0 {
			return nil, false
		}
		return l / r, true
	case ast.EQ:
		return boolToInt(l == r), true
	case ast.NE:
		return boolToInt(l != r), true
	case ast.LT:
		return boolToInt(l < r), true
	case ast.LE:
		return boolToInt(l <= r), true
	case ast.GT:
		return boolToInt(l > r), true
	case ast.GE:
		return boolToInt(l >= r), true
	default:
		return nil, false
	}
}

func evalString(tag ast.Tag, l, r string) (ast.Value, bool) {
	switch tag {
	case ast.ADD:
		return l + r, true
	case ast.EQ:
		return boolToInt(l == r), true
	case ast.NE:
		return boolToInt(l != r), true
	default:
		return nil, false
	}
}

func evalVecVec(tag ast.Tag, l, r ast.Vector) (ast.Value, bool) {
	switch tag {
	case ast.ADD:
		return ast.Vector{l[0] + r[0], l[1] + r[1], l[2] + r[2]}, true
	case ast.SUB:
		return ast.Vector{l[0] - r[0], l[1] - r[1], l[2] - r[2]}, true
	case ast.MUL:
		return l[0]*r[0] + l[1]*r[1] + l[2]*r[2], true // dot product
	case ast.MOD:
		return ast.Vector{
			l[1]*r[2] - l[2]*r[1],
			l[2]*r[0] - l[0]*r[2],
			l[0]*r[1] - l[1]*r[0],
		}, true // cross product
	case ast.EQ:
		return boolToInt(l == r), true
	case ast.NE:
		return boolToInt(l != r), true
	default:
		return nil, false
	}
}

func evalVecScalar(tag ast.Tag, v ast.Vector, s float32) (ast.Value, bool) {
	switch tag {
	case ast.MUL:
		return ast.Vector{v[0] * s, v[1] * s, v[2] * s}, true
	case ast.DIV:
		if s == 0 {
			return nil, false
		}
		return ast.Vector{v[0] / s, v[1] / s, v[2] / s}, true
	default:
		return nil, false
	}
}

func evalRotRot(tag ast.Tag, l, r ast.Rotation) (ast.Value, bool) {
	switch tag {
	case ast.EQ:
		return boolToInt(l == r), true
	case ast.NE:
		return boolToInt(l != r), true
	default:
		return nil, false
	}
}

// foldCall applies OptimizeArgs, then tries internal/arith's
// predictable-function table, then internal/libopt's FNCALL-specific
// rewrites, in that order (argument canonicalization must happen
// first, since both later steps read the already-canonicalized args).
func (f *Folder) foldCall(node *ast.Node) *ast.Node {
	node.SEF = allSEF(node.Ch)
	if fn, ok := stdlib.Functions[node.Name]; ok {
		node.SEF = node.SEF && fn.Pure
	} else {
		node.SEF = false
	}

	paramTypes, isUDF := f.calleeInfo(node.Name)
	libopt.OptimizeArgs(node, paramTypes, isUDF)

	if !isUDF && node.SEF {
		if pf, ok := arith.Predictable[node.Name]; ok {
			args := make([]ast.Value, 0, len(node.Ch))
			allConst := true
			for _, ch := range node.Ch {
				if ch.Tag != ast.CONST {
					allConst = false
					break
				}
				args = append(args, ch.Value)
			}
			if allConst {
				if v, ok := pf(args); ok {
					return ast.Const(node.T, v)
				}
			}
		}
	}

	if !isUDF {
		if repl := libopt.OptimizeFunc(node, listLength, listElement); repl != nil {
			return repl
		}
	}
	return node
}

func (f *Folder) calleeInfo(name string) ([]ast.Type, bool) {
	if sym, ok := f.scopes.Tree.Scopes[0].Symbols[name]; ok && sym.Kind == ast.KindFunc {
		return sym.ParamTypes, true
	}
	if fn, ok := stdlib.Functions[name]; ok {
		return fn.ParamTypes, false
	}
	return nil, false
}

// listLength/listElement give internal/libopt read access to a fully
// constant LIST/CONST node without exposing the rest of the AST to it.
func listLength(node *ast.Node) (int, bool) {
	if node.Tag != ast.CONST || node.T != ast.TypeList {
		return 0, false
	}
	l, ok := node.Value.([]ast.Value)
	if !ok {
		return 0, false
	}
	return len(l), true
}

func listElement(node *ast.Node, idx int) (ast.Value, bool) {
	if node.Tag != ast.CONST || node.T != ast.TypeList {
		return nil, false
	}
	l, ok := node.Value.([]ast.Value)
	if !ok || idx < 0 || idx >= len(l) {
		return nil, false
	}
	return l[idx], true
}
