package main

import (
	"fmt"
	"strings"
)

// pass2 re-walks the program with a fresh scope stack, re-entering each
// frame at the path Pass 1 stamped. It resolves every identifier, validates
// every call against the now-complete registry, infers expression types
// bottom-up and learns variable types from assignments. Declarations are
// replayed in source order so shadowing resolves exactly as in Pass 1.
type pass2 struct {
	*analyzer
	scopes ScopeStack
}

// codegenName flattens a scope path into a unique backend identifier:
// x declared in scope "1.2" becomes "x_12".
func codegenName(name, path string) string {
	return name + "_" + strings.ReplaceAll(path, ".", "")
}

func (p *pass2) run(prog *Program) error {
	defer p.scopes.Dispose()

	for _, cls := range prog.Classes {
		root := cls.Body
		if root == nil {
			continue
		}
		if err := p.scopes.PushRoot(root.ScopePath); err != nil {
			return err
		}
		for _, n := range root.Children {
			if err := p.visitNode(n); err != nil {
				p.scopes.Pop()
				return err
			}
		}
		if !p.scopes.Pop() {
			return internalError("scope stack underflow")
		}
	}
	return nil
}

func (p *pass2) visitBlock(blk *ASTNode) error {
	if blk == nil {
		return nil
	}
	if err := p.scopes.PushAt(blk.ScopePath); err != nil {
		return err
	}
	for _, n := range blk.Children {
		if err := p.visitNode(n); err != nil {
			p.scopes.Pop()
			return err
		}
	}
	if !p.scopes.Pop() {
		return internalError("scope stack underflow")
	}
	return nil
}

func (p *pass2) visitNode(n *ASTNode) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeBlock:
		return p.visitBlock(n)

	case NodeVar:
		if !p.scopes.DeclareLocal(n.String, SymVariable, true) {
			return internalError("redeclaration of '%s' survived the first pass", n.String)
		}
		sym := p.scopes.LookupInCurrent(n.String)
		sym.Decl = n
		sym.CodegenName = codegenName(n.String, sym.ScopePath)
		n.Sym = sym
		n.CodegenName = sym.CodegenName
		return nil

	case NodeAssign:
		return p.resolveAssign(n)

	case NodeIf:
		if _, err := p.typeExpr(n.Children[0]); err != nil {
			return err
		}
		if err := p.visitBlock(n.Children[1]); err != nil {
			return err
		}
		if len(n.Children) > 2 {
			return p.visitBlock(n.Children[2])
		}
		return nil

	case NodeWhile:
		if _, err := p.typeExpr(n.Children[0]); err != nil {
			return err
		}
		return p.visitBlock(n.Children[1])

	case NodeBreak, NodeContinue:
		return nil

	case NodeReturn:
		if len(n.Children) > 0 {
			_, err := p.typeExpr(n.Children[0])
			return err
		}
		return nil

	case NodeCall:
		_, err := p.typeCall(n)
		return err

	case NodeFunction:
		n.CodegenName = fmt.Sprintf("%s_%d", n.String, len(n.ParamNames))
		return p.visitCallable(n, n.ParamNames)

	case NodeGetter:
		n.CodegenName = "get_" + n.String
		return p.visitCallable(n, nil)

	case NodeSetter:
		n.CodegenName = "set_" + n.String
		return p.visitCallable(n, n.ParamNames)
	}
	return nil
}

func (p *pass2) visitCallable(n *ASTNode, params []string) error {
	if err := p.scopes.PushAt(n.ScopePath); err != nil {
		return err
	}
	n.ParamCodegenNames = n.ParamCodegenNames[:0]
	for _, param := range params {
		if !p.scopes.DeclareLocal(param, SymParameter, true) {
			p.scopes.Pop()
			return internalError("parameter '%s' redeclaration survived the first pass", param)
		}
		sym := p.scopes.LookupInCurrent(param)
		sym.CodegenName = codegenName(param, sym.ScopePath)
		n.ParamCodegenNames = append(n.ParamCodegenNames, sym.CodegenName)
	}

	body := n.Children[0]
	for _, stmt := range body.Children {
		if err := p.visitNode(stmt); err != nil {
			p.scopes.Pop()
			return err
		}
	}

	if !p.scopes.Pop() {
		return internalError("scope stack underflow")
	}
	return nil
}

// resolveAssign resolves the target, types the value, then feeds the value
// type back into whatever the target is: a local's symbol, the global
// registry, or nothing for a setter call.
func (p *pass2) resolveAssign(n *ASTNode) error {
	name := n.String

	if isGlobalName(name) {
		p.globals.Record(name)
		t, err := p.typeExpr(n.Children[0])
		if err != nil {
			return err
		}
		p.globals.Learn(name, t)
		n.CodegenName = name
		n.TypeTag = p.globals.TypeOf(name)
		return nil
	}

	if sym := p.scopes.Lookup(name); sym != nil {
		t, err := p.typeExpr(n.Children[0])
		if err != nil {
			return err
		}
		sym.Type = learnAssign(sym.Type, t)
		n.Sym = sym
		n.CodegenName = sym.CodegenName
		n.TypeTag = sym.Type
		return nil
	}

	if p.funcs.Find(accessorKey(name, true)) != nil {
		if _, err := p.typeExpr(n.Children[0]); err != nil {
			return err
		}
		n.CodegenName = "set_" + name
		return nil
	}

	return defError("undefined variable '%s' in assignment", name)
}

// ---------------------------------------------------------------------------
// Expression typing
// ---------------------------------------------------------------------------

// typeExpr infers the expression's type bottom-up, annotating the node. An
// operand of Unknown or Void type suppresses the operator check; the result
// is then Unknown, except for operators whose result is Bool regardless.
func (p *pass2) typeExpr(e *ASTNode) (TypeTag, error) {
	if e == nil {
		return TypeUnknown, nil
	}
	t, err := p.typeExprInner(e)
	if err != nil {
		return TypeUnknown, err
	}
	e.TypeTag = t
	return t, nil
}

func (p *pass2) typeExprInner(e *ASTNode) (TypeTag, error) {
	switch e.Kind {
	case NodeIntLit:
		return TypeInt, nil
	case NodeFloatLit:
		return TypeDouble, nil
	case NodeStringLit:
		return TypeString, nil
	case NodeBoolLit:
		return TypeBool, nil
	case NodeNullLit:
		return TypeNull, nil

	case NodeIdent:
		return p.resolveIdent(e)

	case NodeUnary:
		if _, err := p.typeExpr(e.Children[0]); err != nil {
			return TypeUnknown, err
		}
		return TypeBool, nil

	case NodeCall:
		return p.typeCall(e)

	case NodeTernary:
		for _, child := range e.Children {
			if _, err := p.typeExpr(child); err != nil {
				return TypeUnknown, err
			}
		}
		// branch types are not merged
		return TypeUnknown, nil

	case NodeIs:
		if len(e.Children) > 1 {
			return TypeUnknown, exprTypeError("right side of 'is' must be Num, String or Null")
		}
		if _, err := p.typeExpr(e.Children[0]); err != nil {
			return TypeUnknown, err
		}
		return TypeBool, nil

	case NodeBinary:
		return p.typeBinary(e)
	}
	return TypeUnknown, nil
}

// resolveIdent resolves a name in order: visible local or parameter, then
// property getter, then the global naming convention. A property with only a
// setter cannot be read.
func (p *pass2) resolveIdent(e *ASTNode) (TypeTag, error) {
	name := e.String

	if sym := p.scopes.Lookup(name); sym != nil {
		e.Sym = sym
		e.CodegenName = sym.CodegenName
		return sym.Type, nil
	}

	if getter := p.funcs.Find(accessorKey(name, false)); getter != nil {
		e.CodegenName = "get_" + name
		return getter.Type, nil
	}
	if p.funcs.Find(accessorKey(name, true)) != nil {
		return TypeUnknown, defError("property '%s' has no getter", name)
	}

	if isGlobalName(name) {
		p.globals.Record(name)
		e.CodegenName = name
		return p.globals.TypeOf(name), nil
	}

	return TypeUnknown, defError("undefined variable '%s'", name)
}

// typeCall validates the call against the registry and annotates the node
// with its backend label. Builtin calls yield the builtin's return type;
// user calls yield Unknown.
func (p *pass2) typeCall(e *ASTNode) (TypeTag, error) {
	for _, arg := range e.Children {
		if _, err := p.typeExpr(arg); err != nil {
			return TypeUnknown, err
		}
	}

	name := e.String
	arity := len(e.Children)

	if IsBuiltinName(name) {
		sym := p.funcs.Find(funcKey(name, arity))
		if sym == nil {
			return TypeUnknown, argCountError("wrong number of arguments for %s", name)
		}
		e.CodegenName = name
		return sym.Type, nil
	}

	if sym := p.funcs.Find(funcKey(name, arity)); sym != nil {
		e.CodegenName = fmt.Sprintf("%s_%d", name, arity)
		e.Sym = sym
		return sym.Type, nil
	}
	if p.funcs.Find(sentinelKey(name)) != nil {
		return TypeUnknown, argCountError("wrong number of arguments for %s", name)
	}
	return TypeUnknown, defError("undefined function '%s'", name)
}

func (p *pass2) typeBinary(e *ASTNode) (TypeTag, error) {
	l, err := p.typeExpr(e.Children[0])
	if err != nil {
		return TypeUnknown, err
	}
	r, err := p.typeExpr(e.Children[1])
	if err != nil {
		return TypeUnknown, err
	}

	if !isTyped(l) || !isTyped(r) {
		switch e.Op {
		case "<", "<=", ">", ">=", "==", "!=", "and", "or":
			return TypeBool, nil
		}
		return TypeUnknown, nil
	}

	switch e.Op {
	case "+":
		t, ok := addResult(l, r)
		if !ok {
			return TypeUnknown, exprTypeError("invalid operands for '+': %s and %s", l, r)
		}
		return t, nil

	case "-", "/":
		t, ok := arithResult(l, r)
		if !ok {
			return TypeUnknown, exprTypeError("invalid operands for '%s': %s and %s", e.Op, l, r)
		}
		return t, nil

	case "*":
		t, ok := mulResult(l, r)
		if !ok {
			return TypeUnknown, exprTypeError("invalid operands for '*': %s and %s", l, r)
		}
		return t, nil

	case "..":
		t, ok := concatResult(l, r)
		if !ok {
			return TypeUnknown, exprTypeError("invalid operands for '..': %s and %s", l, r)
		}
		return t, nil

	case "<", "<=", ">", ">=":
		t, ok := relationalResult(l, r)
		if !ok {
			return TypeUnknown, exprTypeError("invalid operands for '%s': %s and %s", e.Op, l, r)
		}
		return t, nil

	case "==", "!=":
		return TypeBool, nil

	case "and", "or":
		t, ok := logicalResult(l, r)
		if !ok {
			return TypeUnknown, exprTypeError("invalid operands for '%s': %s and %s", e.Op, l, r)
		}
		return t, nil
	}
	return TypeUnknown, internalError("unknown binary operator %q", e.Op)
}
