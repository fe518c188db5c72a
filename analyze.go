package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// analyzer carries the state shared by both passes: the callable registry,
// the program-wide symbol index used by the -sym dump, and the global name
// registry.
type analyzer struct {
	cfg     BuiltinsConfig
	funcs   *SymbolTable
	symbols *SymbolTable
	globals *GlobalRegistry
}

// Analysis is the result of a successful semantic run.
type Analysis struct {
	Funcs   *SymbolTable
	Symbols *SymbolTable
	Globals *GlobalRegistry
}

// Analyze runs both semantic passes over a parsed program. On the first
// violation it stops and returns a *CompileError whose code is the process
// exit status.
func Analyze(prog *Program, cfg BuiltinsConfig) (*Analysis, error) {
	a := &analyzer{
		cfg:     cfg,
		funcs:   NewSymbolTable(),
		symbols: NewSymbolTable(),
		globals: NewGlobalRegistry(),
	}
	if err := InstallBuiltins(a.funcs, cfg); err != nil {
		return nil, err
	}
	a.indexBuiltins()

	p1 := &pass1{analyzer: a}
	if err := p1.run(prog); err != nil {
		return nil, err
	}

	p2 := &pass2{analyzer: a}
	if err := p2.run(prog); err != nil {
		return nil, err
	}

	return &Analysis{Funcs: a.funcs, Symbols: a.symbols, Globals: a.globals}, nil
}

// AnalyzeSource parses and analyzes a whole source buffer. The buffer need
// not carry the 0 terminator the lexer wants; one is appended here.
func AnalyzeSource(src []byte, cfg BuiltinsConfig) (*Program, *Analysis, error) {
	Init(append(src, 0))
	prog, err := ParseProgram()
	if err != nil {
		return nil, nil, err
	}
	res, err := Analyze(prog, cfg)
	if err != nil {
		return prog, nil, err
	}
	return prog, res, nil
}

// ---------------------------------------------------------------------------
// Symbol index
// ---------------------------------------------------------------------------

// The index keys symbols by "<scope path>::<name>" so the whole program fits
// in one flat table; accessors get a "@get"/"@set" suffix because a property
// may carry both.

func (a *analyzer) indexBuiltins() {
	a.funcs.ForEach(func(key string, sym *Symbol) {
		if !IsBuiltinName(sym.Name) {
			return
		}
		idx := "global::" + sym.Name
		if a.symbols.Insert(idx, SymFunction, true) {
			entry := a.symbols.Get(idx)
			entry.Name = sym.Name
			entry.Arity = sym.Arity
			entry.Type = sym.Type
			entry.Global = true
			entry.ScopePath = "global"
		}
	})
}

func (p *pass1) indexSymbol(kind SymbolKind, name string, arity int) error {
	path := p.scopes.CurrentPath()
	key := path + "::" + name
	if !p.symbols.Insert(key, kind, true) {
		return internalError("symbol index full")
	}
	sym := p.symbols.Get(key)
	sym.Name = name
	sym.Kind = kind
	sym.Arity = arity
	sym.ScopePath = path
	return nil
}

func (p *pass1) indexAccessor(name string, setter bool) error {
	path := p.scopes.CurrentPath()
	kind := SymGetter
	suffix := "@get"
	arity := 0
	if setter {
		kind = SymSetter
		suffix = "@set"
		arity = 1
	}
	key := path + "::" + name + suffix
	if !p.symbols.Insert(key, kind, true) {
		return internalError("symbol index full")
	}
	sym := p.symbols.Get(key)
	sym.Name = name
	sym.Kind = kind
	sym.Arity = arity
	sym.ScopePath = path
	return nil
}

// DumpSymbols writes the symbol index grouped by scope path, sorted for
// stable output.
func (r *Analysis) DumpSymbols(w io.Writer) {
	type row struct {
		scope string
		name  string
		kind  SymbolKind
		arity int
	}
	var rows []row
	r.Symbols.ForEach(func(key string, sym *Symbol) {
		rows = append(rows, row{scope: sym.ScopePath, name: sym.Name, kind: sym.Kind, arity: sym.Arity})
	})
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].scope != rows[j].scope {
			return scopeLess(rows[i].scope, rows[j].scope)
		}
		if rows[i].name != rows[j].name {
			return rows[i].name < rows[j].name
		}
		return rows[i].arity < rows[j].arity
	})

	prev := ""
	first := true
	for _, rw := range rows {
		if first || rw.scope != prev {
			if !first {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "scope %s:\n", rw.scope)
			prev = rw.scope
			first = false
		}
		switch rw.kind {
		case SymFunction:
			fmt.Fprintf(w, "  %-24s %s/%d\n", rw.name, rw.kind, rw.arity)
		case SymSetter:
			fmt.Fprintf(w, "  %-24s %s/1\n", rw.name, rw.kind)
		default:
			fmt.Fprintf(w, "  %-24s %s\n", rw.name, rw.kind)
		}
	}

	if len(r.Globals.Names()) > 0 {
		if !first {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, "globals:")
		for _, name := range r.Globals.Names() {
			fmt.Fprintf(w, "  %-24s %s\n", name, r.Globals.TypeOf(name))
		}
	}
}

// scopeLess orders "global" first, then scope paths by numeric segments.
func scopeLess(a, b string) bool {
	if a == "global" || b == "global" {
		return a == "global" && b != "global"
	}
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] != bs[i] {
			if len(as[i]) != len(bs[i]) {
				return len(as[i]) < len(bs[i])
			}
			return as[i] < bs[i]
		}
	}
	return len(as) < len(bs)
}

// ---------------------------------------------------------------------------
// Global registry
// ---------------------------------------------------------------------------

// GlobalRegistry tracks identifiers that follow the global naming
// convention, in first-appearance order, with the type learned from their
// assignments.
type GlobalRegistry struct {
	names []string
	types map[string]TypeTag
}

func NewGlobalRegistry() *GlobalRegistry {
	return &GlobalRegistry{types: make(map[string]TypeTag)}
}

func (g *GlobalRegistry) Reset() {
	g.names = g.names[:0]
	g.types = make(map[string]TypeTag)
}

// Record notes a global's existence. Repeated records are no-ops.
func (g *GlobalRegistry) Record(name string) {
	if _, ok := g.types[name]; ok {
		return
	}
	g.types[name] = TypeUnknown
	g.names = append(g.names, name)
}

// Learn folds an assigned value type into the global's learned type.
func (g *GlobalRegistry) Learn(name string, t TypeTag) {
	g.Record(name)
	g.types[name] = learnAssign(g.types[name], t)
}

func (g *GlobalRegistry) TypeOf(name string) TypeTag {
	if t, ok := g.types[name]; ok {
		return t
	}
	return TypeUnknown
}

// Names returns the recorded globals in first-appearance order.
func (g *GlobalRegistry) Names() []string {
	out := make([]string, len(g.names))
	copy(out, g.names)
	return out
}

func (g *GlobalRegistry) Len() int {
	return len(g.names)
}
