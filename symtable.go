package main

// SymbolKind classifies a symbol table entry.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymConstant
	SymFunction
	SymParameter
	SymGlobal
	SymGetter
	SymSetter
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "var"
	case SymConstant:
		return "const"
	case SymFunction:
		return "fun"
	case SymParameter:
		return "param"
	case SymGlobal:
		return "global"
	case SymGetter:
		return "getter"
	case SymSetter:
		return "setter"
	default:
		return "sym"
	}
}

// Symbol is the metadata stored for one key. For callables, Arity holds the
// parameter count and ScopePath the owning class scope; for locals, ScopePath
// is the textual scope-ID path of the declaring block. Decl is a non-owning
// back-reference to the declaring AST node so resolved codegen names can be
// copied forward; the AST's owner controls the node's lifetime.
type Symbol struct {
	Name        string
	Kind        SymbolKind
	Type        TypeTag
	Defined     bool
	Global      bool
	Arity       int
	ScopePath   string
	Decl        *ASTNode
	CodegenName string
}

type stEntry struct {
	key      string
	sym      *Symbol
	occupied bool
}

// symtableCapacity is fixed at init; tables never resize. Sized so that even
// the registry of a large program stays far below the load where linear
// probing degrades.
const symtableCapacity = 4093

// SymbolTable is an open-addressed hash map from string keys to symbols.
// Collisions resolve by linear probing with wraparound. The table is
// append-only: there is no removal, so probe chains never break.
type SymbolTable struct {
	entries []stEntry
	size    int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make([]stEntry, symtableCapacity)}
}

// FNV-1a; same role as the original's multiplicative string hash.
func stHash(key string) uint32 {
	var h uint32 = 2166136261
	for i := 0; i < len(key); i++ {
		h ^= uint32(key[i])
		h *= 16777619
	}
	return h
}

// Find returns the symbol stored under key, or nil. The probe scans until a
// free slot, a match, or one full cycle of the table.
func (st *SymbolTable) Find(key string) *Symbol {
	idx := stHash(key) % uint32(len(st.entries))
	for i := 0; i < len(st.entries); i++ {
		e := &st.entries[(int(idx)+i)%len(st.entries)]
		if !e.occupied {
			return nil
		}
		if e.key == key {
			return e.sym
		}
	}
	return nil
}

// Insert adds a fresh symbol under key. Idempotent: if the key already
// exists, the table is left untouched and the original entry survives.
// Returns false only when the table is full.
func (st *SymbolTable) Insert(key string, kind SymbolKind, defined bool) bool {
	idx := stHash(key) % uint32(len(st.entries))
	for i := 0; i < len(st.entries); i++ {
		e := &st.entries[(int(idx)+i)%len(st.entries)]
		if e.occupied {
			if e.key == key {
				return true // no-op on existing key
			}
			continue
		}
		e.key = key
		e.sym = &Symbol{Name: key, Kind: kind, Defined: defined, Type: TypeUnknown}
		e.occupied = true
		st.size++
		return true
	}
	return false
}

// Get returns the symbol data for key, or nil. Kept separate from Find to
// mirror the entry/data split of the original table API.
func (st *SymbolTable) Get(key string) *Symbol {
	return st.Find(key)
}

// Len reports the number of stored symbols.
func (st *SymbolTable) Len() int {
	return st.size
}

// ForEach invokes fn for every stored entry, in table order.
func (st *SymbolTable) ForEach(fn func(key string, sym *Symbol)) {
	for i := range st.entries {
		if st.entries[i].occupied {
			fn(st.entries[i].key, st.entries[i].sym)
		}
	}
}
