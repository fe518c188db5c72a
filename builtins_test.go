package main

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestInstallBuiltinsCore(t *testing.T) {
	funcs := NewSymbolTable()
	be.Err(t, InstallBuiltins(funcs, BuiltinsConfig{}), nil)

	tests := []struct {
		key     string
		returns TypeTag
	}{
		{"Std.read_str#0", TypeString},
		{"Std.read_num#0", TypeDouble},
		{"Std.write#1", TypeVoid},
		{"Std.floor#1", TypeInt},
		{"Std.str#1", TypeString},
		{"Std.length#1", TypeInt},
		{"Std.substring#3", TypeString},
		{"Std.strcmp#2", TypeInt},
		{"Std.ord#2", TypeInt},
		{"Std.chr#1", TypeString},
	}

	for _, test := range tests {
		sym := funcs.Find(test.key)
		be.True(t, sym != nil)
		be.Equal(t, sym.Type, test.returns)
		be.True(t, sym.Global)
	}

	// extensions are off by default
	be.True(t, funcs.Find("Std.read_bool#0") == nil)
	be.True(t, funcs.Find("Std.is_int#1") == nil)
}

func TestInstallBuiltinsExtensions(t *testing.T) {
	funcs := NewSymbolTable()
	cfg := BuiltinsConfig{ExtReadBool: true, ExtIsInt: true}
	be.Err(t, InstallBuiltins(funcs, cfg), nil)

	rb := funcs.Find("Std.read_bool#0")
	be.True(t, rb != nil)
	be.Equal(t, rb.Type, TypeBool)

	ii := funcs.Find("Std.is_int#1")
	be.True(t, ii != nil)
	be.Equal(t, ii.Type, TypeBool)
}

func TestIsBuiltinName(t *testing.T) {
	be.True(t, IsBuiltinName("Std.write"))
	be.True(t, IsBuiltinName("Std.length"))
	be.True(t, !IsBuiltinName("write"))
	be.True(t, !IsBuiltinName("Other.write"))
}

func TestBuiltinParamSpec(t *testing.T) {
	be.Equal(t, BuiltinParamSpec("Std.substring"), []ParamKind{ParamString, ParamNumber, ParamNumber})
	be.Equal(t, BuiltinParamSpec("Std.write"), []ParamKind{ParamAny})
	be.True(t, BuiltinParamSpec("Std.nothing") == nil)
	be.True(t, BuiltinParamSpec("Std.read_str") == nil)
}
