package main

import (
	"fmt"
	"strconv"
)

// Registry key helpers. Callables live in one table under composite keys:
// "name#arity" for functions, "get:p"/"set:p" for accessors, and a "@name"
// sentinel marking that at least one user overload of name exists (used in
// Pass 2 to tell "undefined" apart from "wrong arity").

func funcKey(name string, arity int) string {
	return fmt.Sprintf("%s#%d", name, arity)
}

func accessorKey(name string, setter bool) string {
	if setter {
		return "set:" + name
	}
	return "get:" + name
}

func sentinelKey(name string) string {
	return "@" + name
}

// isGlobalName reports whether an identifier follows the global naming
// convention: two leading underscores.
func isGlobalName(name string) bool {
	return len(name) > 2 && name[0] == '_' && name[1] == '_'
}

// pass1 collects callable headers and walks bodies, declaring locals and
// performing the checks that need no type information: redeclaration,
// break/continue context, opportunistic call arity and literal-only
// expression shapes. Its scope stack is discarded when the pass ends.
type pass1 struct {
	*analyzer
	scopes    ScopeStack
	loopDepth int
	seenMain  bool
}

func (p *pass1) run(prog *Program) error {
	defer p.scopes.Dispose()

	if err := p.collectHeaders(prog); err != nil {
		return err
	}
	if !p.seenMain {
		return defError("missing main() with 0 parameters")
	}

	for i, cls := range prog.Classes {
		root := cls.Body
		if root == nil {
			continue
		}
		label := strconv.Itoa(i + 1)
		if err := p.scopes.PushRoot(label); err != nil {
			return err
		}
		root.ScopePath = label
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

// ---------------------------------------------------------------------------
// Step 1: header collection
// ---------------------------------------------------------------------------

// collectHeaders records every function/getter/setter signature of every
// class. It recurses into nested blocks but never into callable bodies.
func (p *pass1) collectHeaders(prog *Program) error {
	for _, cls := range prog.Classes {
		if err := p.collectFromBlock(cls.Body, cls.Name); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass1) collectFromBlock(blk *ASTNode, className string) error {
	if blk == nil {
		return nil
	}
	for _, n := range blk.Children {
		switch n.Kind {
		case NodeFunction:
			arity := len(n.ParamNames)
			if err := p.insertSignature(n.String, arity, className); err != nil {
				return err
			}
			if err := p.checkAndMarkMain(n.String, arity); err != nil {
				return err
			}
		case NodeGetter:
			if err := p.insertAccessor(n.String, false, className); err != nil {
				return err
			}
		case NodeSetter:
			if err := p.insertAccessor(n.String, true, className); err != nil {
				return err
			}
		case NodeBlock:
			if err := p.collectFromBlock(n, className); err != nil {
				return err
			}
		}
	}
	return nil
}

// insertSignature records a user function under "name#arity". A duplicate
// (name, arity) under the same owning class is a redefinition; the same
// signature under a different class is silently shared.
func (p *pass1) insertSignature(name string, arity int, className string) error {
	key := funcKey(name, arity)
	if existing := p.funcs.Find(key); existing != nil {
		if existing.ScopePath == className {
			return redefError("duplicate function signature %s in class %s", key, className)
		}
		return nil
	}
	if !p.funcs.Insert(key, SymFunction, false) {
		return internalError("function registry full")
	}
	sym := p.funcs.Get(key)
	sym.Name = name
	sym.Arity = arity
	sym.ScopePath = className
	sym.Global = true

	// overload sentinel, one per distinct base name
	if !p.funcs.Insert(sentinelKey(name), SymFunction, true) {
		return internalError("function registry full")
	}
	return nil
}

// insertAccessor records a getter (arity 0) or setter (arity 1) under
// "get:name"/"set:name" with the same per-class uniqueness rule.
func (p *pass1) insertAccessor(name string, setter bool, className string) error {
	key := accessorKey(name, setter)
	if existing := p.funcs.Find(key); existing != nil {
		if existing.ScopePath == className {
			if setter {
				return redefError("duplicate setter for '%s' in class %s", name, className)
			}
			return redefError("duplicate getter for '%s' in class %s", name, className)
		}
		return nil
	}
	kind := SymGetter
	arity := 0
	if setter {
		kind = SymSetter
		arity = 1
	}
	if !p.funcs.Insert(key, kind, false) {
		return internalError("function registry full")
	}
	sym := p.funcs.Get(key)
	sym.Name = name
	sym.Arity = arity
	sym.ScopePath = className
	sym.Global = true
	return nil
}

func (p *pass1) checkAndMarkMain(name string, arity int) error {
	if name != "main" {
		return nil
	}
	if arity != 0 {
		return defError("main() must have 0 parameters")
	}
	p.seenMain = true
	return nil
}

// ---------------------------------------------------------------------------
// Step 2: body walk
// ---------------------------------------------------------------------------

func (p *pass1) visitBlock(blk *ASTNode) error {
	if blk == nil {
		return nil
	}
	if err := p.scopes.PushChild(); err != nil {
		return err
	}
	blk.ScopePath = p.scopes.CurrentPath()
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

func (p *pass1) visitNode(n *ASTNode) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case NodeBlock:
		return p.visitBlock(n)

	case NodeVar:
		if !p.scopes.DeclareLocal(n.String, SymVariable, true) {
			return redefError("variable '%s' already declared in this scope", n.String)
		}
		sym := p.scopes.LookupInCurrent(n.String)
		sym.Decl = n
		n.Sym = sym
		return p.indexSymbol(SymVariable, n.String, 0)

	case NodeAssign:
		if err := p.checkAssignTarget(n.String); err != nil {
			return err
		}
		return p.visitExpression(n.Children[0])

	case NodeIf:
		if err := p.visitExpression(n.Children[0]); err != nil {
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
		if err := p.visitExpression(n.Children[0]); err != nil {
			return err
		}
		p.loopDepth++
		err := p.visitBlock(n.Children[1])
		p.loopDepth--
		return err

	case NodeBreak:
		if p.loopDepth <= 0 {
			return flowError("break outside of loop")
		}
		return nil

	case NodeContinue:
		if p.loopDepth <= 0 {
			return flowError("continue outside of loop")
		}
		return nil

	case NodeReturn:
		if len(n.Children) > 0 {
			return p.visitExpression(n.Children[0])
		}
		return nil

	case NodeCall:
		return p.visitExpression(n)

	case NodeFunction:
		return p.visitCallable(n, SymFunction, n.ParamNames)

	case NodeGetter:
		return p.visitCallable(n, SymGetter, nil)

	case NodeSetter:
		return p.visitCallable(n, SymSetter, n.ParamNames)
	}
	return nil
}

// visitCallable registers the callable in the enclosing scope, then opens a
// single merged frame holding both its parameters and its top-level body
// statements. The body block contributes no frame of its own.
func (p *pass1) visitCallable(n *ASTNode, kind SymbolKind, params []string) error {
	// A second overload of the same base name is not a redeclaration here;
	// signature uniqueness is the registry's job.
	if existing := p.scopes.LookupInCurrent(n.String); existing == nil {
		if !p.scopes.DeclareLocal(n.String, SymFunction, true) {
			return internalError("cannot declare callable '%s'", n.String)
		}
	} else if existing.Kind != SymFunction {
		return redefError("'%s' already declared in this scope", n.String)
	}

	switch kind {
	case SymGetter:
		if err := p.indexAccessor(n.String, false); err != nil {
			return err
		}
		if err := p.registerLate(accessorKey(n.String, false), n.String, SymGetter, 0); err != nil {
			return err
		}
	case SymSetter:
		if err := p.indexAccessor(n.String, true); err != nil {
			return err
		}
		if err := p.registerLate(accessorKey(n.String, true), n.String, SymSetter, 1); err != nil {
			return err
		}
	default:
		if err := p.indexSymbol(SymFunction, n.String, len(params)); err != nil {
			return err
		}
		if err := p.registerLate(funcKey(n.String, len(params)), n.String, SymFunction, len(params)); err != nil {
			return err
		}
		if !p.funcs.Insert(sentinelKey(n.String), SymFunction, true) {
			return internalError("function registry full")
		}
	}

	if err := p.scopes.PushChild(); err != nil {
		return err
	}
	n.ScopePath = p.scopes.CurrentPath()

	for _, param := range params {
		if !p.scopes.DeclareLocal(param, SymParameter, true) {
			p.scopes.Pop()
			return redefError("parameter '%s' redeclared in the same scope", param)
		}
		if err := p.indexSymbol(SymParameter, param, 0); err != nil {
			p.scopes.Pop()
			return err
		}
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

// registerLate records a callable encountered inside a function body.
// Header collection never descends into callable bodies, so nested callables
// enter the registry here; for class members it is an idempotent no-op.
func (p *pass1) registerLate(key, name string, kind SymbolKind, arity int) error {
	if p.funcs.Find(key) != nil {
		return nil
	}
	if !p.funcs.Insert(key, kind, false) {
		return internalError("function registry full")
	}
	sym := p.funcs.Get(key)
	sym.Name = name
	sym.Arity = arity
	sym.ScopePath = p.scopes.CurrentPath()
	return nil
}

// checkAssignTarget validates an assignment's left side: a visible local or
// parameter, a property with a setter, or a global-convention name.
func (p *pass1) checkAssignTarget(name string) error {
	if isGlobalName(name) {
		p.globals.Record(name)
		return nil
	}
	if p.scopes.Lookup(name) != nil {
		return nil
	}
	if p.funcs.Find(accessorKey(name, true)) != nil {
		return nil
	}
	return defError("assignment to undefined variable '%s'", name)
}

// ---------------------------------------------------------------------------
// Early expression checks
// ---------------------------------------------------------------------------

func (p *pass1) visitExpression(e *ASTNode) error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case NodeIntLit, NodeFloatLit, NodeStringLit, NodeBoolLit, NodeNullLit, NodeIdent:
		return nil

	case NodeUnary:
		return p.visitExpression(e.Children[0])

	case NodeCall:
		for _, arg := range e.Children {
			if err := p.visitExpression(arg); err != nil {
				return err
			}
		}
		return p.checkCall(e)

	case NodeTernary, NodeIs:
		for _, child := range e.Children {
			if err := p.visitExpression(child); err != nil {
				return err
			}
		}
		return nil

	case NodeBinary:
		if err := p.visitExpression(e.Children[0]); err != nil {
			return err
		}
		if err := p.visitExpression(e.Children[1]); err != nil {
			return err
		}
		return checkLiteralBinary(e)
	}
	return nil
}

// checkCall validates call arity opportunistically: builtins must match an
// installed signature now, user calls fail only when some overload of the
// name is already known at a different arity. Unknown names wait for Pass 2.
func (p *pass1) checkCall(e *ASTNode) error {
	name := e.String
	arity := len(e.Children)

	if IsBuiltinName(name) {
		if p.funcs.Find(funcKey(name, arity)) == nil {
			return argCountError("wrong number of arguments for %s", name)
		}
		return p.checkBuiltinLiteralArgs(e)
	}

	if p.funcs.Find(funcKey(name, arity)) != nil {
		return nil
	}
	if p.funcs.Find(sentinelKey(name)) != nil {
		return argCountError("wrong number of arguments for %s", name)
	}
	return nil // header not known yet, defer to Pass 2
}

// checkBuiltinLiteralArgs validates literal arguments against the builtin's
// parameter kinds; non-literal arguments defer to Pass 2.
func (p *pass1) checkBuiltinLiteralArgs(e *ASTNode) error {
	spec := BuiltinParamSpec(e.String)
	for i, arg := range e.Children {
		if i >= len(spec) {
			break
		}
		kind := litKindOf(arg)
		switch spec[i] {
		case ParamString:
			if kind == litNum {
				return argCountError("%s: argument %d must be a string", e.String, i+1)
			}
		case ParamNumber:
			if kind == litString {
				return argCountError("%s: argument %d must be a number", e.String, i+1)
			}
		}
	}
	return nil
}

// litKind is the coarse kind of a pure literal expression.
type litKind int

const (
	litUnknown litKind = iota
	litNum
	litString
)

// litKindOf reduces an expression to its literal kind, recursing through
// operators whose operands are themselves pure literals. Anything touching
// an identifier or call is litUnknown and defers to Pass 2.
func litKindOf(e *ASTNode) litKind {
	if e == nil {
		return litUnknown
	}
	switch e.Kind {
	case NodeIntLit, NodeFloatLit:
		return litNum
	case NodeStringLit:
		return litString
	case NodeBinary:
		l := litKindOf(e.Children[0])
		r := litKindOf(e.Children[1])
		if l == litUnknown || r == litUnknown {
			return litUnknown
		}
		switch e.Op {
		case "+":
			if l == r {
				return l
			}
		case "-", "/":
			if l == litNum && r == litNum {
				return litNum
			}
		case "*":
			if l == litNum && r == litNum {
				return litNum
			}
			if l == litString && e.Children[1].Kind == NodeIntLit {
				return litString
			}
		case "..":
			if l == litString && r == litString {
				return litString
			}
		}
		return litUnknown
	}
	return litUnknown
}

// checkLiteralBinary applies the literal-only fast checks: when both
// operands reduce to literals of known kind, the operator must belong to its
// fixed legal set. Note the repetition asymmetry: this early check accepts
// string repetition only as <string> * <integer literal>.
func checkLiteralBinary(e *ASTNode) error {
	switch e.Op {
	case "+", "-", "*", "/", "<", "<=", ">", ">=":
	default:
		return nil
	}

	l := litKindOf(e.Children[0])
	r := litKindOf(e.Children[1])
	if l == litUnknown || r == litUnknown {
		return nil
	}

	switch e.Op {
	case "+":
		if !(l == litNum && r == litNum) && !(l == litString && r == litString) {
			return exprTypeError("invalid literal '+' operands")
		}
	case "-", "/":
		if !(l == litNum && r == litNum) {
			return exprTypeError("invalid literal '%s' operands", e.Op)
		}
	case "*":
		ok := (l == litNum && r == litNum) ||
			(l == litString && e.Children[1].Kind == NodeIntLit)
		if !ok {
			return exprTypeError("invalid literal '*' operands")
		}
	case "<", "<=", ">", ">=":
		if !(l == litNum && r == litNum) {
			return exprTypeError("relational operators require numeric literals")
		}
	}
	return nil
}
