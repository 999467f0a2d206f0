// Copyright (c) 2024 Michael D Henderson. All rights reserved.

// Package emit is a minimal stand-in for the pretty-printer spec.md §1
// places out of scope ("the core hands a typed AST to an external
// printer"). It exists only so the pipeline has something to feed back
// into the parser for the idempotence property (§8): re-parsing its
// output with identical options must yield a byte-identical tree. It
// makes no attempt at the original's layout/readability concerns
// (indentation choices, comment preservation, line wrapping) — those
// belong to the real printer this package is standing in for.
package emit

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playbymail/lslopt/internal/ast"
)

// Source renders tree as compilable LSL source text.
func Source(tree *ast.Tree) string {
	var b strings.Builder
	for _, item := range tree.Items {
		writeTopLevel(&b, item)
	}
	return b.String()
}

func writeTopLevel(b *strings.Builder, node *ast.Node) {
	switch node.Tag {
	case ast.DECL:
		writeDecl(b, node)
		b.WriteString(";\n")
	case ast.FNDEF:
		if node.T != ast.TypeNone {
			b.WriteString(string(node.T))
			b.WriteByte(' ')
		}
		b.WriteString(node.Name)
		writeParamList(b, node.PNames)
		b.WriteByte('\n')
		writeBlock(b, node.Ch[0], 0)
		b.WriteByte('\n')
	case ast.STDEF:
		if node.Name == "default" {
			b.WriteString("default\n{\n")
		} else {
			fmt.Fprintf(b, "state %s\n{\n", node.Name)
		}
		for _, ev := range node.Ch {
			b.WriteString("    ")
			b.WriteString(ev.Name)
			writeParamList(b, ev.PNames)
			b.WriteByte('\n')
			writeBlock(b, ev.Ch[0], 1)
		}
		b.WriteString("}\n")
	}
}

func writeParamList(b *strings.Builder, names []string) {
	b.WriteByte('(')
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(n)
	}
	b.WriteByte(')')
}

func writeDecl(b *strings.Builder, node *ast.Node) {
	b.WriteString(string(node.T))
	b.WriteByte(' ')
	b.WriteString(node.Name)
	if len(node.Ch) > 0 {
		b.WriteString(" = ")
		writeExpr(b, node.Ch[0])
	}
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("    ")
	}
}

func writeBlock(b *strings.Builder, block *ast.Node, depth int) {
	indent(b, depth)
	b.WriteString("{\n")
	for _, stmt := range block.Ch {
		writeStmt(b, stmt, depth+1)
	}
	indent(b, depth)
	b.WriteString("}\n")
}

func writeStmt(b *strings.Builder, node *ast.Node, depth int) {
	indent(b, depth)
	switch node.Tag {
	case ast.EMPTY:
		b.WriteString(";\n")
	case ast.LABEL:
		fmt.Fprintf(b, "@%s;\n", node.Name)
	case ast.JUMP:
		fmt.Fprintf(b, "jump %s;\n", node.Name)
	case ast.STSW:
		fmt.Fprintf(b, "state %s;\n", node.Name)
	case ast.RETURN:
		if len(node.Ch) > 0 {
			b.WriteString("return ")
			writeExpr(b, node.Ch[0])
			b.WriteString(";\n")
		} else {
			b.WriteString("return;\n")
		}
	case ast.DECL:
		writeDecl(b, node)
		b.WriteString(";\n")
	case ast.BLOCK:
		b.WriteString("\n")
		writeBlock(b, node, depth)
	case ast.IF:
		b.WriteString("if (")
		writeExpr(b, node.Ch[0])
		b.WriteString(")\n")
		writeBranch(b, node.Ch[1], depth)
		if len(node.Ch) == 3 {
			indent(b, depth)
			b.WriteString("else\n")
			writeBranch(b, node.Ch[2], depth)
		}
	case ast.WHILE:
		b.WriteString("while (")
		writeExpr(b, node.Ch[0])
		b.WriteString(")\n")
		writeBranch(b, node.Ch[1], depth)
	case ast.DO:
		b.WriteString("do\n")
		writeBranch(b, node.Ch[0], depth)
		indent(b, depth)
		b.WriteString("while (")
		writeExpr(b, node.Ch[1])
		b.WriteString(");\n")
	case ast.FOR:
		b.WriteString("for (")
		writeExprList(b, node.Ch[0])
		b.WriteString("; ")
		writeExpr(b, node.Ch[1])
		b.WriteString("; ")
		writeExprList(b, node.Ch[2])
		b.WriteString(")\n")
		writeBranch(b, node.Ch[3], depth)
	case ast.EXPR:
		writeExpr(b, node.Ch[0])
		b.WriteString(";\n")
	case ast.EXPRLIST:
		writeExprList(b, node)
		b.WriteString(";\n")
	default:
		writeExpr(b, node)
		b.WriteString(";\n")
	}
}

// writeBranch renders a control-flow target statement, adding its own
// indentation unless it's a block (which indents itself).
func writeBranch(b *strings.Builder, node *ast.Node, depth int) {
	if node.Tag == ast.BLOCK {
		writeBlock(b, node, depth)
		return
	}
	writeStmt(b, node, depth+1)
}

func writeExprList(b *strings.Builder, node *ast.Node) {
	for i, ch := range node.Ch {
		if i > 0 {
			b.WriteString(", ")
		}
		writeExpr(b, ch)
	}
}

func writeExpr(b *strings.Builder, node *ast.Node) {
	switch node.Tag {
	case ast.CONST:
		b.WriteString(FormatValue(node.T, node.Value))
	case ast.IDENT:
		b.WriteString(node.Name)
	case ast.FLD:
		writeExpr(b, node.Ch[0])
		b.WriteByte('.')
		b.WriteByte(node.Fld)
	case ast.SUBIDX:
		writeExpr(b, node.Ch[0])
		b.WriteByte('[')
		writeExpr(b, node.Ch[1])
		b.WriteByte(']')
	case ast.LIST:
		b.WriteByte('[')
		writeExprList(b, node)
		b.WriteByte(']')
	case ast.VECTOR:
		b.WriteByte('<')
		writeExprList(b, node)
		b.WriteByte('>')
	case ast.ROTATION:
		b.WriteByte('<')
		writeExprList(b, node)
		b.WriteByte('>')
	case ast.CAST:
		fmt.Fprintf(b, "(%s)", node.T)
		writeAtom(b, node.Ch[0])
	case ast.NEG:
		b.WriteByte('-')
		writeAtom(b, node.Ch[0])
	case ast.BOOLNOT, ast.BITNOT:
		b.WriteString(string(node.Tag))
		writeAtom(b, node.Ch[0])
	case ast.FNCALL:
		b.WriteString(node.Name)
		b.WriteByte('(')
		writeExprList(b, node)
		b.WriteByte(')')
	case ast.PREINC:
		b.WriteString("++")
		writeExpr(b, node.Ch[0])
	case ast.PREDEC:
		b.WriteString("--")
		writeExpr(b, node.Ch[0])
	case ast.POSTINC:
		writeExpr(b, node.Ch[0])
		b.WriteString("++")
	case ast.POSTDEC:
		writeExpr(b, node.Ch[0])
		b.WriteString("--")
	default:
		if ast.AssignOps[node.Tag] {
			writeExpr(b, node.Ch[0])
			fmt.Fprintf(b, " %s ", node.Tag)
			writeExpr(b, node.Ch[1])
			return
		}
		// Binary operator.
		writeAtom(b, node.Ch[0])
		fmt.Fprintf(b, " %s ", node.Tag)
		writeAtom(b, node.Ch[1])
	}
}

// writeAtom parenthesizes a sub-expression unless it is already
// atomic, a simple enough heuristic for round-trip idempotence since
// the tree carries no original-source operator precedence to preserve.
func writeAtom(b *strings.Builder, node *ast.Node) {
	switch node.Tag {
	case ast.CONST, ast.IDENT, ast.FLD, ast.FNCALL, ast.LIST, ast.VECTOR, ast.ROTATION, ast.CAST:
		writeExpr(b, node)
	default:
		b.WriteByte('(')
		writeExpr(b, node)
		b.WriteByte(')')
	}
}

// FormatValue renders a compile-time Value as an LSL literal of type t.
func FormatValue(t ast.Type, v ast.Value) string {
	switch t {
	case ast.TypeInteger:
		return strconv.Itoa(int(v.(int32)))
	case ast.TypeFloat:
		return formatFloat(v.(float32))
	case ast.TypeString:
		return strconv.Quote(v.(string))
	case ast.TypeKey:
		return strconv.Quote(string(v.(ast.Key)))
	case ast.TypeVector:
		vec := v.(ast.Vector)
		return fmt.Sprintf("<%s, %s, %s>", formatFloat(vec[0]), formatFloat(vec[1]), formatFloat(vec[2]))
	case ast.TypeRotation:
		rot := v.(ast.Rotation)
		return fmt.Sprintf("<%s, %s, %s, %s>", formatFloat(rot[0]), formatFloat(rot[1]), formatFloat(rot[2]), formatFloat(rot[3]))
	case ast.TypeList:
		elems, _ := v.([]ast.Value)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = FormatValue(ast.TypeOf(e), e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprintf("%v", v)
}

// formatFloat renders f so it re-lexes as FLOAT_VALUE rather than
// INTEGER_VALUE: 'g' formatting drops the decimal point for whole
// numbers (1.0 -> "1"), which would otherwise introduce a spurious
// CAST on a second parse and break the §8 round-trip property.
func formatFloat(f float32) string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 32)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
