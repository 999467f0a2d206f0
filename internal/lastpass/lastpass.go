// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package lastpass implements the final tree rewrite (C7): two
// transformations deliberately kept separate from the rest of the
// pipeline because each would otherwise confuse an earlier stage.
// Grounded on original_source/lslopt/lsllastpass.py's lastpass class.
package lastpass

import "github.com/playbymail/lslopt/internal/ast"

// Options gates the list-literal-to-chained-addition rewrite, mirroring
// the original's 'optlistadd' flag (§6).
type Options struct {
	ListAdd bool
}

// Pass runs the final rewrite over a Tree. usedLibFuncs accumulates
// every library (non-user-defined) function name seen in a FNCALL,
// surfaced for internal/reports the way the original hands
// {'libfuncs': ...} back to its caller.
type Pass struct {
	tree *ast.Tree
	opts Options

	globalMode bool // true only while walking a global DECL initializer
	stChAreBad bool // current subtree: is a state switch here suspect?
	badStCh    bool // this function: was a suspect state switch found?

	usedLibFuncs map[string]bool
}

// New returns a Pass over tree configured by opts.
func New(tree *ast.Tree, opts Options) *Pass {
	return &Pass{tree: tree, opts: opts, usedLibFuncs: map[string]bool{}}
}

// Run walks every top-level item and returns the set of library
// function names referenced anywhere in the tree.
func (p *Pass) Run() map[string]bool {
	for idx, item := range p.tree.Items {
		if item.Tag == ast.DECL {
			p.globalMode = true
			p.recursiveLastPass(p.tree.Items, idx)
			p.globalMode = false
		} else {
			p.recursiveLastPass(p.tree.Items, idx)
		}
	}
	return p.usedLibFuncs
}

// recursiveLastPass visits parent[index] pre-order, recurses into its
// (possibly just-replaced) children, then visits it post-order,
// snapshotting and restoring stChAreBad around the whole call the way
// the original copies and restores its subinfo dict per call.
func (p *Pass) recursiveLastPass(parent []*ast.Node, index int) {
	saved := p.stChAreBad
	p.preOrder(parent, index)

	if node := parent[index]; node.Ch != nil {
		for idx := 0; idx < len(node.Ch); idx++ {
			p.recursiveLastPass(node.Ch, idx)
		}
	}

	p.postOrder(parent, index)
	p.stChAreBad = saved
}

func (p *Pass) preOrder(parent []*ast.Node, index int) {
	if p.tryListAdd(parent, index) {
		return
	}

	node := parent[index]
	switch node.Tag {
	case ast.FNDEF:
		p.stChAreBad = p.isUserDefined(node)
		p.badStCh = false
		return

	case ast.IF:
		if len(node.Ch) == 2 {
			p.stChAreBad = false
		}
		return

	case ast.DO, ast.FOR, ast.WHILE:
		p.stChAreBad = false
		return

	case ast.STSW:
		if p.stChAreBad {
			p.badStCh = true
		}
		return

	case ast.FNCALL:
		if !p.isUserDefined(node) {
			p.usedLibFuncs[node.Name] = true
		}
	}
}

func (p *Pass) postOrder(parent []*ast.Node, index int) {
	node := parent[index]
	if node.Tag != ast.FNDEF {
		return
	}
	if p.isUserDefined(node) && p.badStCh {
		body := node.Ch[0]
		scope := p.tree.PushScope(body.Scope)
		wrapped := &ast.Node{
			Tag: ast.BLOCK, Scope: scope, X: ast.ExecTrue,
			Ch: []*ast.Node{
				{Tag: ast.IF, X: ast.ExecTrue, Ch: []*ast.Node{
					ast.Const(ast.TypeInteger, int32(1)),
					body,
				}},
			},
		}
		if node.Returns {
			wrapped.Ch = append(wrapped.Ch, &ast.Node{
				Tag: ast.RETURN, X: ast.ExecFalse,
				Ch: []*ast.Node{ast.Const(node.T, ast.DefaultValue(node.T))},
			})
		}
		node.Ch[0] = wrapped
	}
	p.badStCh = false
}

// isUserDefined reports whether a FNDEF node is a global function
// (registered in scope 0 as KindFunc) rather than an event handler
// (never registered there under its own name). Stands in for the
// original's `hasattr(node, 'scope')`, which the parser sets only on
// global function defs, never on event handlers (lslparse.py: "no
// scope as these are reserved words").
func (p *Pass) isUserDefined(node *ast.Node) bool {
	sym, ok := p.tree.Scopes[0].Symbols[node.Name]
	return ok && sym.Kind == ast.KindFunc
}

// tryListAdd implements the optlistadd rewrite: a SEF list literal (or
// a 'ListExpr + list-literal' addition) is flattened into a chain of
// binary '+' nodes, each adding one element — [a,b,c] becomes
// (list)a+b+c, and ListExpr+[a,b] becomes ListExpr+a+b. Left-associated,
// matching the original exactly including its double pre/post-order
// visit of the replacement subtree (RecursiveLastPass is called again
// on the same index from inside the pre-order step, then the caller's
// own recursion runs a second time over the now-replaced node — a
// harmless quirk of the original, not something introduced here).
func (p *Pass) tryListAdd(parent []*ast.Node, index int) bool {
	if !p.opts.ListAdd || p.globalMode {
		return false
	}
	node := parent[index]

	var listnode, left *ast.Node
	switch {
	case node.Tag == ast.CONST && node.T == ast.TypeList:
		listnode = node
	case node.Tag == ast.LIST:
		listnode = node
	case node.Tag == ast.ADD && len(node.Ch) == 2 && node.Ch[0].T == ast.TypeList &&
		((node.Ch[1].Tag == ast.CONST && node.Ch[1].T == ast.TypeList) || node.Ch[1].Tag == ast.LIST):
		listnode = node.Ch[1]
		left = node.Ch[0]
	default:
		return false
	}
	if !listnode.SEF {
		return false
	}

	if listnode.Tag == ast.CONST {
		elems, _ := listnode.Value.([]ast.Value)
		for _, v := range elems {
			elemnode := ast.Const(ast.TypeOf(v), v)
			left = chainAdd(left, elemnode)
		}
	} else {
		for _, elem := range listnode.Ch {
			left = chainAdd(left, elem)
		}
	}

	if left == nil {
		return false // empty list literal: nothing to flatten
	}
	parent[index] = left
	p.recursiveLastPass(parent, index)
	return true
}

func chainAdd(left, elem *ast.Node) *ast.Node {
	if left == nil {
		return castToList(elem)
	}
	return &ast.Node{Tag: ast.ADD, T: ast.TypeList, SEF: true, X: ast.ExecTrue, Ch: []*ast.Node{left, elem}}
}

func castToList(n *ast.Node) *ast.Node {
	if n.T == ast.TypeList {
		return n
	}
	return &ast.Node{Tag: ast.CAST, T: ast.TypeList, Ch: []*ast.Node{n}, SEF: n.SEF, X: ast.ExecTrue}
}
