package main

import (
	"fmt"
	"testing"

	"github.com/nalgeon/be"
)

func TestSymbolTableInsertAndFind(t *testing.T) {
	st := NewSymbolTable()
	be.Equal(t, st.Len(), 0)

	ok := st.Insert("x", SymVariable, true)
	be.True(t, ok)
	be.Equal(t, st.Len(), 1)

	sym := st.Find("x")
	be.True(t, sym != nil)
	be.Equal(t, sym.Kind, SymVariable)
	be.Equal(t, sym.Defined, true)
	be.Equal(t, sym.Type, TypeUnknown)
}

func TestSymbolTableFindMissing(t *testing.T) {
	st := NewSymbolTable()
	st.Insert("x", SymVariable, true)
	be.True(t, st.Find("y") == nil)
}

func TestSymbolTableInsertIsIdempotent(t *testing.T) {
	st := NewSymbolTable()
	st.Insert("x", SymVariable, true)
	sym := st.Find("x")
	sym.Type = TypeInt

	// second insert under the same key must not disturb the entry
	ok := st.Insert("x", SymFunction, false)
	be.True(t, ok)
	be.Equal(t, st.Len(), 1)

	again := st.Find("x")
	be.Equal(t, again.Kind, SymVariable)
	be.Equal(t, again.Type, TypeInt)
}

func TestSymbolTableCompositeKeys(t *testing.T) {
	st := NewSymbolTable()
	st.Insert("f#1", SymFunction, false)
	st.Insert("f#2", SymFunction, false)
	st.Insert("get:p", SymGetter, false)
	st.Insert("set:p", SymSetter, false)

	be.Equal(t, st.Len(), 4)
	be.True(t, st.Find("f#1") != nil)
	be.True(t, st.Find("f#2") != nil)
	be.True(t, st.Find("f#3") == nil)
	be.True(t, st.Find("get:p") != nil)
	be.True(t, st.Find("set:p") != nil)
}

func TestSymbolTableManyKeys(t *testing.T) {
	st := NewSymbolTable()
	for i := 0; i < 1000; i++ {
		ok := st.Insert(fmt.Sprintf("sym%d", i), SymVariable, true)
		be.True(t, ok)
	}
	be.Equal(t, st.Len(), 1000)
	for i := 0; i < 1000; i++ {
		be.True(t, st.Find(fmt.Sprintf("sym%d", i)) != nil)
	}
	be.True(t, st.Find("sym1000") == nil)
}

func TestSymbolTableFullRejectsNewKeys(t *testing.T) {
	st := NewSymbolTable()
	for i := 0; i < symtableCapacity; i++ {
		ok := st.Insert(fmt.Sprintf("k%d", i), SymVariable, true)
		be.True(t, ok)
	}
	be.Equal(t, st.Len(), symtableCapacity)

	// table is full: a fresh key fails, an existing key still no-ops fine
	be.True(t, !st.Insert("overflow", SymVariable, true))
	be.True(t, st.Insert("k0", SymVariable, true))
}

func TestSymbolTableForEach(t *testing.T) {
	st := NewSymbolTable()
	st.Insert("a", SymVariable, true)
	st.Insert("b", SymParameter, true)

	seen := map[string]SymbolKind{}
	st.ForEach(func(key string, sym *Symbol) {
		seen[key] = sym.Kind
	})
	be.Equal(t, len(seen), 2)
	be.Equal(t, seen["a"], SymVariable)
	be.Equal(t, seen["b"], SymParameter)
}
