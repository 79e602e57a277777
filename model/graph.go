package model

import (
	"sort"

	"github.com/teranos/tsbindgen/errors"
)

// NamespaceSymbol holds the top-level types of one namespace in order.
type NamespaceSymbol struct {
	Name  string
	Types []*TypeSymbol
}

// SymbolGraph is the namespace -> type -> member model. A graph is never
// modified after construction: every shape pass builds a new one.
type SymbolGraph struct {
	Namespaces []*NamespaceSymbol

	index  map[StableID]*TypeSymbol
	byName map[string][]StableID
}

// NewGraph indexes namespaces (nested types included) into a graph.
func NewGraph(namespaces []*NamespaceSymbol) *SymbolGraph {
	g := &SymbolGraph{
		Namespaces: namespaces,
		index:      make(map[StableID]*TypeSymbol),
		byName:     make(map[string][]StableID),
	}
	var add func(t *TypeSymbol)
	add = func(t *TypeSymbol) {
		g.index[t.ID] = t
		g.byName[t.ID.FullName] = append(g.byName[t.ID.FullName], t.ID)
		for _, n := range t.NestedTypes {
			add(n)
		}
	}
	for _, ns := range namespaces {
		for _, t := range ns.Types {
			add(t)
		}
	}
	return g
}

// Lookup finds a type by identity in O(1).
func (g *SymbolGraph) Lookup(id StableID) (*TypeSymbol, bool) {
	t, ok := g.index[id]
	return t, ok
}

// LookupRef finds the definition behind a Named or Nested reference.
func (g *SymbolGraph) LookupRef(ref TypeReference) (*TypeSymbol, bool) {
	id, ok := DefinitionID(ref)
	if !ok {
		return nil, false
	}
	return g.Lookup(id)
}

// LookupFullName returns every identity with the given full name, across
// assemblies, in index order.
func (g *SymbolGraph) LookupFullName(fullName string) []StableID {
	return g.byName[fullName]
}

// TypeCount returns the number of indexed types, nested included.
func (g *SymbolGraph) TypeCount() int {
	return len(g.index)
}

// AllTypes returns every type in namespace order, each nested type directly
// after its declaring type.
func (g *SymbolGraph) AllTypes() []*TypeSymbol {
	out := make([]*TypeSymbol, 0, len(g.index))
	var visit func(t *TypeSymbol)
	visit = func(t *TypeSymbol) {
		out = append(out, t)
		for _, n := range t.NestedTypes {
			visit(n)
		}
	}
	for _, ns := range g.Namespaces {
		for _, t := range ns.Types {
			visit(t)
		}
	}
	return out
}

// Namespace returns the namespace with the given name.
func (g *SymbolGraph) Namespace(name string) (*NamespaceSymbol, bool) {
	for _, ns := range g.Namespaces {
		if ns.Name == name {
			return ns, true
		}
	}
	return nil, false
}

// Transform builds a new graph from deep copies of every type. fn sees each
// copy (nested types after their parent was visited) and may modify it, or
// return nil to drop it. The receiver is left untouched.
func (g *SymbolGraph) Transform(fn func(t *TypeSymbol) *TypeSymbol) *SymbolGraph {
	var apply func(t *TypeSymbol) *TypeSymbol
	apply = func(t *TypeSymbol) *TypeSymbol {
		kept := fn(t)
		if kept == nil {
			return nil
		}
		nested := kept.NestedTypes[:0:0]
		for _, n := range kept.NestedTypes {
			if r := apply(n); r != nil {
				nested = append(nested, r)
			}
		}
		kept.NestedTypes = nested
		return kept
	}

	namespaces := make([]*NamespaceSymbol, 0, len(g.Namespaces))
	for _, ns := range g.Namespaces {
		out := &NamespaceSymbol{Name: ns.Name}
		for _, t := range ns.Types {
			if r := apply(t.Clone()); r != nil {
				out.Types = append(out.Types, r)
			}
		}
		namespaces = append(namespaces, out)
	}
	return NewGraph(namespaces)
}

// Clone returns a deep copy of the graph.
func (g *SymbolGraph) Clone() *SymbolGraph {
	return g.Transform(func(t *TypeSymbol) *TypeSymbol { return t })
}

// WithTypes returns a new graph with extra top-level types appended to the
// named namespaces (created in sorted order when missing).
func (g *SymbolGraph) WithTypes(additions map[string][]*TypeSymbol) *SymbolGraph {
	if len(additions) == 0 {
		return g
	}
	next := g.Clone()
	names := make([]string, 0, len(additions))
	for name := range additions {
		names = append(names, name)
	}
	sort.Strings(names)

	namespaces := next.Namespaces
	for _, name := range names {
		ns, ok := next.Namespace(name)
		if !ok {
			ns = &NamespaceSymbol{Name: name}
			namespaces = append(namespaces, ns)
		}
		ns.Types = append(ns.Types, additions[name]...)
	}
	return NewGraph(namespaces)
}

// BaseChain returns the in-graph base classes of t, nearest first. The walk
// stops at the first type outside the graph or at a cycle; cyclic reports
// whether a cycle was found.
func (g *SymbolGraph) BaseChain(t *TypeSymbol) (chain []*TypeSymbol, cyclic bool) {
	seen := map[StableID]bool{t.ID: true}
	ref := t.BaseType
	for ref != nil {
		base, ok := g.LookupRef(ref)
		if !ok {
			return chain, false
		}
		if seen[base.ID] {
			return chain, true
		}
		seen[base.ID] = true
		chain = append(chain, base)
		ref = base.BaseType
	}
	return chain, false
}

// Placeholders lists every Placeholder still present, as "type: debug-name".
func (g *SymbolGraph) Placeholders() []string {
	var found []string
	for _, t := range g.AllTypes() {
		ForEachRef(t, func(ref TypeReference) {
			Walk(ref, func(r TypeReference) bool {
				if p, ok := r.(PlaceholderRef); ok {
					found = append(found, t.ID.String()+": "+p.DebugName)
				}
				return true
			})
		})
	}
	return found
}

// Validate checks the well-formedness invariants. A failure is a bug in an
// earlier stage, never bad input.
func (g *SymbolGraph) Validate() error {
	if ph := g.Placeholders(); len(ph) > 0 {
		return errors.WithDetailf(
			errors.NewInvariantf("%d placeholder reference(s) survived graph construction", len(ph)),
			"first: %s", ph[0])
	}
	return nil
}
