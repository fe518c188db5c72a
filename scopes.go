package main

import "strconv"

// maxScopeDepth bounds lexical nesting; exceeding it is an internal error
// rather than a silent truncation.
const maxScopeDepth = 32

// scopeFrame is one lexical block: its local symbol table, its textual
// scope-ID path ("1", "1.2", ...) and the running counter used to number
// child scopes in document order. Table and path travel in one frame and are
// pushed/popped atomically, so the two can never drift apart.
type scopeFrame struct {
	table      *SymbolTable
	path       string
	childCount int
}

// ScopeStack is a strict LIFO of scope frames; the top frame is the
// innermost active scope.
type ScopeStack struct {
	frames []*scopeFrame
}

// Depth returns the number of active frames.
func (s *ScopeStack) Depth() int {
	return len(s.frames)
}

func (s *ScopeStack) top() *scopeFrame {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// PushRoot opens a root frame with an explicit path label ("1", "2", ...
// one per class, in document order).
func (s *ScopeStack) PushRoot(label string) error {
	return s.push(label)
}

// PushChild opens a child frame labeled "<parent>.<n>" where n is the
// parent's next child number, starting at 1.
func (s *ScopeStack) PushChild() error {
	parent := s.top()
	if parent == nil {
		return s.push("1")
	}
	parent.childCount++
	return s.push(parent.path + "." + strconv.Itoa(parent.childCount))
}

// PushAt opens a child frame with a path recorded during an earlier pass,
// keeping the parent's child counter in sync.
func (s *ScopeStack) PushAt(path string) error {
	if parent := s.top(); parent != nil {
		parent.childCount++
	}
	return s.push(path)
}

func (s *ScopeStack) push(path string) error {
	if len(s.frames) >= maxScopeDepth {
		return internalError("scope nesting deeper than %d levels", maxScopeDepth)
	}
	s.frames = append(s.frames, &scopeFrame{table: NewSymbolTable(), path: path})
	return nil
}

// Pop discards the top frame and all of its locals.
func (s *ScopeStack) Pop() bool {
	if len(s.frames) == 0 {
		return false
	}
	s.frames[len(s.frames)-1] = nil
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// CurrentPath returns the active scope-ID path, or "global" outside any frame.
func (s *ScopeStack) CurrentPath() string {
	if f := s.top(); f != nil {
		return f.path
	}
	return "global"
}

// DeclareLocal declares name in the current frame. It fails only when the
// name already exists in this frame; shadowing an outer frame is always
// permitted.
func (s *ScopeStack) DeclareLocal(name string, kind SymbolKind, defined bool) bool {
	f := s.top()
	if f == nil {
		return false
	}
	if f.table.Find(name) != nil {
		return false
	}
	if !f.table.Insert(name, kind, defined) {
		return false
	}
	sym := f.table.Get(name)
	sym.Name = name
	sym.ScopePath = f.path
	return true
}

// LookupInCurrent searches only the innermost frame.
func (s *ScopeStack) LookupInCurrent(name string) *Symbol {
	if f := s.top(); f != nil {
		return f.table.Find(name)
	}
	return nil
}

// Lookup searches innermost to outermost, returning the first match
// (shadowing semantics).
func (s *ScopeStack) Lookup(name string) *Symbol {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if sym := s.frames[i].table.Find(name); sym != nil {
			return sym
		}
	}
	return nil
}

// Dispose pops every remaining frame. The stack is reusable afterwards.
func (s *ScopeStack) Dispose() {
	for s.Pop() {
	}
}
