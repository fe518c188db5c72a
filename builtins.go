package main

import "strings"

// ParamKind is the coarse compile-time constraint on one builtin parameter.
type ParamKind int

const (
	ParamAny ParamKind = iota
	ParamString
	ParamNumber
)

func (k ParamKind) String() string {
	switch k {
	case ParamString:
		return "string"
	case ParamNumber:
		return "number"
	default:
		return "any"
	}
}

// BuiltinsConfig toggles optional builtins.
type BuiltinsConfig struct {
	ExtReadBool bool // enables Std.read_bool
	ExtIsInt    bool // enables Std.is_int
}

// builtinNamespace prefixes every builtin's fully-qualified name; it matches
// the alias forced by the import line.
const builtinNamespace = "Std."

type builtinRow struct {
	qname        string
	arity        int
	params       []ParamKind
	returns      TypeTag
	needReadBool bool
	needIsInt    bool
}

var builtinRows = []builtinRow{
	// I/O
	{qname: "Std.read_str", arity: 0, returns: TypeString},
	{qname: "Std.read_num", arity: 0, returns: TypeDouble},
	{qname: "Std.write", arity: 1, params: []ParamKind{ParamAny}, returns: TypeVoid},

	// conversions / numeric helpers
	{qname: "Std.floor", arity: 1, params: []ParamKind{ParamNumber}, returns: TypeInt},
	{qname: "Std.str", arity: 1, params: []ParamKind{ParamAny}, returns: TypeString},

	// strings
	{qname: "Std.length", arity: 1, params: []ParamKind{ParamString}, returns: TypeInt},
	{qname: "Std.substring", arity: 3, params: []ParamKind{ParamString, ParamNumber, ParamNumber}, returns: TypeString},
	{qname: "Std.strcmp", arity: 2, params: []ParamKind{ParamString, ParamString}, returns: TypeInt},
	{qname: "Std.ord", arity: 2, params: []ParamKind{ParamString, ParamNumber}, returns: TypeInt},
	{qname: "Std.chr", arity: 1, params: []ParamKind{ParamNumber}, returns: TypeString},

	// extensions
	{qname: "Std.read_bool", arity: 0, returns: TypeBool, needReadBool: true},
	{qname: "Std.is_int", arity: 1, params: []ParamKind{ParamAny}, returns: TypeBool, needIsInt: true},
}

// InstallBuiltins seeds the enabled builtins into the callable registry under
// "<qname>#<arity>" keys. Idempotent per key, like every registry insert.
func InstallBuiltins(registry *SymbolTable, cfg BuiltinsConfig) error {
	for _, row := range builtinRows {
		if row.needReadBool && !cfg.ExtReadBool {
			continue
		}
		if row.needIsInt && !cfg.ExtIsInt {
			continue
		}
		key := funcKey(row.qname, row.arity)
		if registry.Find(key) != nil {
			continue
		}
		if !registry.Insert(key, SymFunction, true) {
			return internalError("builtin registry full while installing %s", key)
		}
		sym := registry.Get(key)
		sym.Name = row.qname
		sym.Arity = row.arity
		sym.Type = row.returns
		sym.Global = true
	}
	return nil
}

// IsBuiltinName reports whether name lives in the builtin namespace.
func IsBuiltinName(name string) bool {
	return strings.HasPrefix(name, builtinNamespace)
}

// BuiltinParamSpec returns the ordered parameter kinds of a builtin, or nil
// when qname is not a known builtin.
func BuiltinParamSpec(qname string) []ParamKind {
	for _, row := range builtinRows {
		if row.qname == qname {
			return row.params
		}
	}
	return nil
}
