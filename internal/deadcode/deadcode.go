// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package deadcode implements the dead-code pass (C5): a reachability
// marking walk (MarkReferences) followed by a tree rewrite (CleanNode/
// RemoveDeadCode) that drops unreached statements, unreferenced
// globals and states, and substitutes single-use constant
// declarations at their one read site. Grounded on
// original_source/lslopt/lsldeadcode.py's deadcode class end to end.
package deadcode

import "github.com/playbymail/lslopt/internal/ast"

// stopFunctions names library calls that never return control to the
// caller, mirroring the original's per-function 'stop' marker (absent
// from the representative internal/stdlib.Functions table, so kept
// local to this pass rather than invented as a stdlib-wide concept).
var stopFunctions = map[string]bool{
	"llResetScript": true,
}

// Pass holds the one piece of mutable, cross-call state the walk
// needs: the tree it's marking and rewriting.
type Pass struct {
	tree *ast.Tree
}

// New returns a Pass over tree.
func New(tree *ast.Tree) *Pass {
	return &Pass{tree: tree}
}

// MarkReferences marks node and everything reachable from it as
// executed (Node.X), and updates each referenced Symbol's read/write/
// field/label-ref counters, returning whether control falls through to
// node's successor (false for RETURN/JUMP/STSW and for a
// provably-infinite loop). Grounded on MarkReferences (lines 26-260).
func (p *Pass) MarkReferences(node *ast.Node) bool {
	if node.X != ast.ExecAbsent {
		return node.X == ast.ExecTrue
	}

	switch node.Tag {
	case ast.STSW:
		node.X = ast.ExecFalse
		sym := p.tree.Scopes[0].Symbols[node.Name]
		if item := p.tree.Items[sym.Loc]; item.X == ast.ExecAbsent {
			p.MarkReferences(item)
		}
		return false

	case ast.JUMP:
		node.X = ast.ExecFalse
		sym := p.tree.Scopes[node.Scope].Symbols[node.Name]
		sym.R++
		return false

	case ast.RETURN:
		node.X = ast.ExecFalse
		if len(node.Ch) > 0 {
			p.MarkReferences(node.Ch[0])
		}
		return false

	case ast.IF:
		node.X = ast.ExecProvisional
		p.MarkReferences(node.Ch[0])
		cond := node.Ch[0]
		if cond.Tag == ast.CONST {
			if ast.Cond(cond.Value) {
				cont := p.MarkReferences(node.Ch[1])
				node.X = execOf(cont)
				return cont
			}
			if len(node.Ch) == 3 {
				cont := p.MarkReferences(node.Ch[2])
				node.X = execOf(cont)
				return cont
			}
		} else {
			cont := p.MarkReferences(node.Ch[1])
			if len(node.Ch) == 3 {
				if !cont {
					cont = p.MarkReferences(node.Ch[2])
					node.X = execOf(cont)
					return cont
				}
				p.MarkReferences(node.Ch[2])
			}
		}
		node.X = ast.ExecTrue
		return true

	case ast.WHILE:
		node.X = ast.ExecProvisional
		p.MarkReferences(node.Ch[0])
		if node.Ch[0].Tag == ast.CONST {
			if ast.Cond(node.Ch[0].Value) {
				p.MarkReferences(node.Ch[1])
				node.X = ast.ExecFalse
				return false
			}
		} else {
			p.MarkReferences(node.Ch[1])
		}
		node.X = ast.ExecTrue
		return true

	case ast.DO:
		node.X = ast.ExecProvisional
		if !p.MarkReferences(node.Ch[0]) {
			node.X = ast.ExecFalse
			return false
		}
		p.MarkReferences(node.Ch[1])
		proceeds := !(node.Ch[1].Tag == ast.CONST && ast.Cond(node.Ch[1].Value))
		node.X = execOf(proceeds)
		return proceeds

	case ast.FOR:
		node.X = ast.ExecProvisional
		p.MarkReferences(node.Ch[0])
		p.MarkReferences(node.Ch[1])
		if node.Ch[1].Tag == ast.CONST {
			if ast.Cond(node.Ch[1].Value) {
				node.X = ast.ExecFalse
				p.MarkReferences(node.Ch[3])
				p.MarkReferences(node.Ch[2])
				return false
			}
			node.X = ast.ExecTrue
		} else {
			node.X = ast.ExecTrue
			p.MarkReferences(node.Ch[3])
			p.MarkReferences(node.Ch[2])
		}
		node.Ch[2].X = ast.ExecTrue
		return true

	case ast.BLOCK:
		node.X = ast.ExecProvisional
		continues := true
		for _, stmt := range node.Ch {
			if continues || stmt.Tag == ast.LABEL {
				continues = p.MarkReferences(stmt)
			}
		}
		node.X = execOf(continues)
		return continues

	case ast.FNCALL:
		node.X = ast.ExecProvisional
		sym := p.tree.Scopes[0].Symbols[node.Name]
		var fdef *ast.Node
		isUDF := sym != nil && sym.Kind == ast.KindFunc
		if isUDF {
			fdef = p.tree.Items[sym.Loc]
		}
		for i := len(node.Ch) - 1; i >= 0; i-- {
			p.MarkReferences(node.Ch[i])
			if fdef != nil {
				psym := p.tree.Scopes[fdef.PScope].Symbols[fdef.PNames[i]]
				// Every call-site argument is treated as a write to
				// the callee's parameter, but single-writer tracking
				// for it is deliberately disabled (forced to "written
				// more than once"): tracking it properly needs a CFG
				// this pass doesn't build.
				psym.WriteCount = 2
			}
		}
		if isUDF {
			if fdef.X == ast.ExecAbsent {
				p.MarkReferences(fdef)
			}
			node.X = fdef.X
		} else {
			node.X = execOf(!stopFunctions[node.Name])
		}
		return node.X == ast.ExecTrue

	case ast.DECL:
		sym := p.tree.Scopes[node.Scope].Symbols[node.Name]
		if len(node.Ch) > 0 {
			sym.Writer, sym.WriteCount = node.Ch[0], 1
		} else {
			sym.Writer = ast.Const(node.T, ast.DefaultValue(node.T))
			sym.WriteCount = 1
		}
		node.X = ast.ExecTrue
		if len(node.Ch) > 0 {
			init := node.Ch[0]
			if init.Orig != nil {
				orig := init.Orig
				p.MarkReferences(orig)
				init.X = orig.X
				if orig.Tag == ast.LIST {
					p.keepListLiteralRefs(orig)
				}
			} else {
				p.MarkReferences(init)
			}
		}
		return true
	}

	node.X = ast.ExecProvisional
	if ast.AssignOps[node.Tag] || ast.IncDecOps[node.Tag] {
		ident := node.Ch[0]
		if ident.Tag == ast.FLD {
			ident = ident.Ch[0]
		}
		sym := p.tree.Scopes[ident.Scope].Symbols[ident.Name]
		if ident.Scope == 0 {
			if g := p.tree.Items[sym.Loc]; g.X == ast.ExecAbsent {
				p.MarkReferences(g)
			}
		}
		sym.WriteCount = 2 // at least the second write now.

		if node.Tag == ast.ASSIGN {
			p.MarkReferences(node.Ch[1])
			node.X = ast.ExecTrue
			return true
		}
	} else if node.Tag == ast.FLD {
		p.tree.Scopes[node.Ch[0].Scope].Symbols[node.Ch[0].Name].Fld = true
	} else if node.Tag == ast.IDENT {
		sym := p.tree.Scopes[node.Scope].Symbols[node.Name]
		if sym.WriteCount == 0 && node.Scope == 0 {
			if g := p.tree.Items[sym.Loc]; g.X == ast.ExecAbsent {
				p.MarkReferences(g)
			}
		}
		sym.R++
	}

	node.X = ast.ExecTrue
	for _, ch := range node.Ch {
		p.MarkReferences(ch)
	}
	return true
}

func execOf(proceeds bool) ast.ExecState {
	if proceeds {
		return ast.ExecTrue
	}
	return ast.ExecFalse
}

// keepListLiteralRefs adds fake writes to globals that appear inside a
// pre-flattening list literal's original subtree, so a global whose
// only apparent use is inside the flattened form (no longer a direct
// IDENT read once the list is a single CONST) doesn't get deleted
// (mirrors the Issue #3 fix in MarkReferences' DECL handling).
func (p *Pass) keepListLiteralRefs(orig *ast.Node) {
	for _, sub := range orig.Ch {
		switch sub.Tag {
		case ast.IDENT:
			sym := p.tree.Scopes[0].Symbols[sub.Name]
			sym.WriteCount = 2
			p.tree.Items[sym.Loc].X = ast.ExecTrue
		case ast.VECTOR, ast.ROTATION:
			for _, comp := range sub.Ch {
				if comp.Tag == ast.IDENT {
					sym := p.tree.Scopes[0].Symbols[comp.Name]
					sym.WriteCount = 2
					p.tree.Items[sym.Loc].X = ast.ExecTrue
				}
			}
		}
	}
}

// okToRemove reports whether curnode's symbol (an IDENT, or the
// IDENT/DECL naming a variable) can be simplified away: a never-read
// symbol can always be dropped; a symbol written exactly once with a
// CONST value can have that constant substituted at each read (subject
// to per-type thresholds matching spec.md's DCR rules) or have its sole
// declaration removed outright. Grounded on OKtoRemoveSymbol (lines
// 282-383); the expression-inlining branch for a non-CONST single
// writer is intentionally NOT implemented here, matching the
// original's own `if True or not self.shrinknames or not node.SEF:
// return False` — that branch is dead code upstream too, not a cut we
// introduced.
func (p *Pass) okToRemove(curnode *ast.Node) (*ast.Symbol, bool) {
	sym := p.tree.Scopes[curnode.Scope].Symbols[curnode.Name]
	if sym.R == 0 {
		return sym, true
	}
	if sym.WriteCount != 1 {
		return nil, false
	}
	writer := sym.Writer
	if writer.Tag != ast.CONST {
		return nil, false
	}
	switch curnode.T {
	case ast.TypeInteger, ast.TypeString, ast.TypeKey:
		return sym, true
	case ast.TypeFloat:
		if sym.R <= 3 {
			return sym, true
		}
	case ast.TypeVector, ast.TypeRotation:
		if sym.R <= 1 {
			return sym, true
		}
	case ast.TypeList:
		if l, ok := writer.Value.([]ast.Value); ok && len(l) <= 4 && sym.R <= 1 {
			return sym, true
		}
	}
	return nil, false
}

var fieldOrder = "xyzs"

// CleanNode recursively deletes curnode's never-executed children
// (keeping a mandatory but dead sub-statement as ';' rather than
// leaving it absent), and substitutes any read of a removable symbol
// with its constant value. isFnDef is true when curnode is a function
// body's top BLOCK, the one case where a trailing, unreached RETURN is
// kept rather than deleted (a workaround for the dangling-return issue
// the original notes at its call site). Grounded on CleanNode (lines
// 388-478).
func (p *Pass) CleanNode(curnode *ast.Node, isFnDef bool) {
	if curnode.Ch == nil || (curnode.Tag == ast.DECL && curnode.Scope == 0) {
		return
	}

	start := 0
	if ast.AssignOps[curnode.Tag] {
		start = 1 // don't recurse into the lvalue
	}

	index := start
	for index < len(curnode.Ch) {
		node := curnode.Ch[index]

		if node.X == ast.ExecAbsent {
			deleted := node
			keep := curnode.Tag == ast.RETURN ||
				(deleted.Tag == ast.RETURN && index == len(curnode.Ch)-1 && isFnDef)
			if !keep {
				curnode.Ch = append(curnode.Ch[:index], curnode.Ch[index+1:]...)
				if deleted.Tag == ast.JUMP {
					sym := p.tree.Scopes[deleted.Scope].Symbols[deleted.Name]
					sym.Ref--
				}
				continue
			}
		}

		switch node.Tag {
		case ast.DECL:
			if sym, ok := p.okToRemove(node); ok {
				_ = sym
				if len(node.Ch) == 0 || node.Ch[0].SEF {
					curnode.Ch = append(curnode.Ch[:index], curnode.Ch[index+1:]...)
					continue
				}
				node = castTo(node.Ch[0], node.T)
				node = &ast.Node{Tag: ast.EXPR, T: curnode.Ch[index].T, Ch: []*ast.Node{node}, X: ast.ExecTrue}
				curnode.Ch[index] = node
			}

		case ast.FLD:
			if sym, ok := p.okToRemove(node.Ch[0]); ok {
				value := sym.Writer
				value.X = ast.ExecTrue
				fieldIdx := indexOfByte(fieldOrder, node.Fld)
				var repl *ast.Node
				var sef bool
				if value.Tag == ast.CONST {
					var component float32
					switch v := value.Value.(type) {
					case ast.Vector:
						component = v[fieldIdx]
					case ast.Rotation:
						component = v[fieldIdx]
					}
					repl = castTo(ast.Const(ast.TypeFloat, component), ast.TypeFloat)
					sef = true
				} else {
					sef = value.SEF
					repl = castTo(value.Ch[fieldIdx], ast.TypeFloat)
				}
				repl.SEF = sef
				curnode.Ch[index] = repl
				node = repl
			}

		case ast.IDENT:
			if sym, ok := p.okToRemove(node); ok {
				replacement := sym.Writer.Copy()
				replacement.Orig = nil
				replacement.X = ast.ExecTrue
				if replacement.T != node.T {
					replacement = castTo(replacement, node.T)
				}
				curnode.Ch[index] = replacement
				node = replacement
			}

		default:
			if ast.AssignOps[node.Tag] {
				ident := node.Ch[0]
				if ident.Tag == ast.FLD {
					ident = ident.Ch[0]
				}
				if _, ok := p.okToRemove(ident); ok {
					replacement := castTo(node.Ch[1], node.T)
					curnode.Ch[index] = replacement
					node = replacement
				}
			} else if node.Tag == ast.IF || node.Tag == ast.WHILE || node.Tag == ast.DO || node.Tag == ast.FOR {
				idx := 1
				switch node.Tag {
				case ast.FOR:
					idx = 3
				case ast.DO:
					idx = 0
				}
				if node.Ch[idx].X == ast.ExecAbsent {
					node.Ch[idx] = &ast.Node{Tag: ast.EMPTY, X: ast.ExecTrue, SEF: true}
				}
				if node.Tag == ast.DO && node.Ch[1].X == ast.ExecAbsent {
					node.Ch[1] = &ast.Node{Tag: ast.CONST, T: ast.TypeInteger, Value: int32(0), X: ast.ExecTrue, SEF: true}
				}
			}
		}

		p.CleanNode(node, curnode.Tag == ast.FNDEF)
		index++
	}
}

func indexOfByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// castTo wraps n in a CAST node targeting want, folding the cast
// immediately if n is already CONST. Kept local to this package rather
// than sharing internal/constfold's: the two run in different pipeline
// stages and each needs only the narrow subset its own rewrites
// produce (float/vector-component and declaration-initializer casts
// here; the full arithmetic cast table there).
func castTo(n *ast.Node, want ast.Type) *ast.Node {
	if n.T == want {
		return n
	}
	if n.Tag == ast.CONST {
		if v, ok := constCast(n.Value, want); ok {
			return ast.Const(want, v)
		}
	}
	return &ast.Node{Tag: ast.CAST, T: want, Ch: []*ast.Node{n}, SEF: n.SEF, X: ast.ExecTrue}
}

func constCast(v ast.Value, want ast.Type) (ast.Value, bool) {
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

// RemoveDeadCode runs the whole pass: marks reachability from the
// default state, deletes unreferenced top-level items (tracking the
// Loc renumbering via ast.Tree.LocMap), and recursively cleans every
// surviving item. Grounded on RemoveDeadCode (lines 518-580).
func (p *Pass) RemoveDeadCode() {
	defSym := p.tree.Scopes[0].Symbols["default"]
	statedef := p.tree.Items[defSym.Loc]
	p.MarkReferences(statedef)

	removed := map[int]bool{}
	var globalDeletions []string
	for idx, node := range p.tree.Items {
		delete := node.X == ast.ExecAbsent
		if !delete && node.Tag == ast.DECL {
			if _, ok := p.okToRemove(node); ok {
				delete = true
			}
		}
		if delete {
			if node.Tag == ast.DECL || node.Tag == ast.STDEF {
				globalDeletions = append(globalDeletions, node.Name)
			}
			removed[idx] = true
			continue
		}
		p.CleanNode(node, false)
	}

	p.tree.LocMap(removed)

	for _, name := range globalDeletions {
		delete(p.tree.Scopes[0].Symbols, name)
	}
}
