package main

import (
	"strconv"
	"strings"
)

// NodeKind discriminates AST nodes.
type NodeKind string

const (
	// statements
	NodeBlock    NodeKind = "NodeBlock"
	NodeIf       NodeKind = "NodeIf"
	NodeWhile    NodeKind = "NodeWhile"
	NodeBreak    NodeKind = "NodeBreak"
	NodeContinue NodeKind = "NodeContinue"
	NodeVar      NodeKind = "NodeVar"
	NodeAssign   NodeKind = "NodeAssign"
	NodeReturn   NodeKind = "NodeReturn"
	NodeFunction NodeKind = "NodeFunction"
	NodeGetter   NodeKind = "NodeGetter"
	NodeSetter   NodeKind = "NodeSetter"

	// expressions
	NodeIdent     NodeKind = "NodeIdent"
	NodeIntLit    NodeKind = "NodeIntLit"
	NodeFloatLit  NodeKind = "NodeFloatLit"
	NodeStringLit NodeKind = "NodeStringLit"
	NodeBoolLit   NodeKind = "NodeBoolLit"
	NodeNullLit   NodeKind = "NodeNullLit"
	NodeBinary    NodeKind = "NodeBinary"
	NodeUnary     NodeKind = "NodeUnary"
	NodeTernary   NodeKind = "NodeTernary"
	NodeIs        NodeKind = "NodeIs"
	NodeCall      NodeKind = "NodeCall"
)

// ASTNode is a node in the parsed tree. One struct covers every kind; the
// meaning of each field depends on Kind:
//
//	NodeIdent, NodeVar, NodeAssign, NodeCall,
//	NodeFunction, NodeGetter, NodeSetter: String is the identifier name
//	NodeIs:      String is the tested type name ("Num", "String", "Null")
//	NodeBinary:  Op is "+", "-", "*", "/", "..", "<", "<=", ">", ">=",
//	             "==", "!=", "and", "or"
//	NodeUnary:   Op is "not" (prefix !) or "not-null" (postfix !)
//	NodeIntLit / NodeFloatLit / NodeBoolLit: Integer / Float / Bool value
//
// Semantic analysis annotates nodes in place: ScopePath on blocks and
// callables (Pass 1), TypeTag on expressions and CodegenName on
// declarations, references and calls (Pass 2).
type ASTNode struct {
	Kind     NodeKind
	String   string
	Op       string
	Integer  int64
	Float    float64
	Bool     bool
	Children []*ASTNode

	// NodeFunction / NodeSetter parameters, in order.
	ParamNames []string

	// annotations
	ScopePath         string
	TypeTag           TypeTag
	CodegenName       string
	ParamCodegenNames []string
	Sym               *Symbol
}

// Program is a parsed source file: one import line plus classes.
type Program struct {
	ImportPath  string
	ImportAlias string
	Classes     []*Class
}

// Class is one class definition; Body is a NodeBlock holding the members.
type Class struct {
	Name string
	Body *ASTNode
}

// ToSExpr renders a node as an s-expression, used by parser tests and the
// tokens/debug output.
func ToSExpr(node *ASTNode) string {
	if node == nil {
		return "()"
	}
	switch node.Kind {
	case NodeIdent:
		return node.String
	case NodeIntLit:
		return strconv.FormatInt(node.Integer, 10)
	case NodeFloatLit:
		return strconv.FormatFloat(node.Float, 'g', -1, 64)
	case NodeStringLit:
		return strconv.Quote(node.String)
	case NodeBoolLit:
		return strconv.FormatBool(node.Bool)
	case NodeNullLit:
		return "null"
	case NodeBinary:
		return "(" + node.Op + " " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[1]) + ")"
	case NodeUnary:
		return "(" + node.Op + " " + ToSExpr(node.Children[0]) + ")"
	case NodeTernary:
		return "(?: " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[1]) + " " + ToSExpr(node.Children[2]) + ")"
	case NodeIs:
		return "(is " + ToSExpr(node.Children[0]) + " " + node.String + ")"
	case NodeCall:
		parts := []string{"call", node.String}
		for _, arg := range node.Children {
			parts = append(parts, ToSExpr(arg))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case NodeBlock:
		parts := []string{"block"}
		for _, child := range node.Children {
			parts = append(parts, ToSExpr(child))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case NodeVar:
		return "(var " + node.String + ")"
	case NodeAssign:
		return "(= " + node.String + " " + ToSExpr(node.Children[0]) + ")"
	case NodeIf:
		s := "(if " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[1])
		if len(node.Children) > 2 && node.Children[2] != nil {
			s += " " + ToSExpr(node.Children[2])
		}
		return s + ")"
	case NodeWhile:
		return "(while " + ToSExpr(node.Children[0]) + " " + ToSExpr(node.Children[1]) + ")"
	case NodeBreak:
		return "(break)"
	case NodeContinue:
		return "(continue)"
	case NodeReturn:
		if len(node.Children) > 0 {
			return "(return " + ToSExpr(node.Children[0]) + ")"
		}
		return "(return)"
	case NodeFunction:
		return "(func " + node.String + " (" + strings.Join(node.ParamNames, " ") + ") " + ToSExpr(node.Children[0]) + ")"
	case NodeGetter:
		return "(get " + node.String + " " + ToSExpr(node.Children[0]) + ")"
	case NodeSetter:
		return "(set " + node.String + " (" + strings.Join(node.ParamNames, " ") + ") " + ToSExpr(node.Children[0]) + ")"
	default:
		return "(?)"
	}
}
