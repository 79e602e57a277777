// Package plan decides how a shaped graph is laid out for emission: which
// module each type lands in, in which order, and what each module imports.
// It reads the graph and the renamer and changes neither, except for
// reserving import aliases.
package plan

import (
	"sort"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
	"github.com/teranos/tsbindgen/renamer"
)

// GlobalModule is the directory of types declared outside any namespace.
const GlobalModule = "_global"

// Plan is the emission layout of one build.
type Plan struct {
	Modules []*Module
	Facade  bool

	byNamespace map[string]*Module
}

// Module is one output module: the types of one namespace in emission order.
type Module struct {
	Namespace string
	Types     []*model.TypeSymbol
	Imports   []Import

	locals  map[model.StableID]string
	aliases map[string]string
}

// Import is everything a module takes from one other namespace.
type Import struct {
	Namespace string
	Path      string
	// Alias is set when the namespace is imported as a runtime value, which
	// an extends clause requires.
	Alias string
	Types []TypeImport
}

// TypeImport is one type imported by name. Local differs from Name when the
// name is already taken in the importing module.
type TypeImport struct {
	ID    model.StableID
	Name  string
	Local string
}

// ModuleDir returns the output directory of a namespace.
func ModuleDir(namespace string) string {
	if namespace == "" {
		return GlobalModule
	}
	return namespace
}

// Build lays out g. Type names must already be reserved in r.
func Build(g *model.SymbolGraph, p *policy.Policy, r *renamer.Renamer) *Plan {
	log := logger.ComponentLogger("plan")
	pl := &Plan{
		Facade:      p.Emission.Mode == policy.ModeFacade,
		byNamespace: make(map[string]*Module),
	}

	for _, ns := range g.Namespaces {
		if len(ns.Types) == 0 {
			continue
		}
		mod, ok := pl.byNamespace[ns.Name]
		if !ok {
			mod = &Module{
				Namespace: ns.Name,
				locals:    make(map[model.StableID]string),
				aliases:   make(map[string]string),
			}
			pl.byNamespace[ns.Name] = mod
			pl.Modules = append(pl.Modules, mod)
		}
		for _, t := range ns.Types {
			mod.Types = append(mod.Types, flatten(t)...)
		}
	}
	sort.Slice(pl.Modules, func(i, j int) bool {
		return pl.Modules[i].Namespace < pl.Modules[j].Namespace
	})

	if p.Emission.SortOrder == policy.SortAlphabetical {
		for _, mod := range pl.Modules {
			sortTypes(mod.Types, r)
		}
	}

	if !pl.Facade {
		for _, mod := range pl.Modules {
			planImports(g, p, r, mod)
			log.Debugw("planned module",
				logger.FieldNamespace, mod.Namespace,
				logger.FieldCount, len(mod.Types),
				"imports", len(mod.Imports))
		}
	}
	return pl
}

// Module returns the module of a namespace.
func (p *Plan) Module(namespace string) (*Module, bool) {
	m, ok := p.byNamespace[namespace]
	return m, ok
}

// LocalName returns the name a type imported from another namespace is
// bound to inside m.
func (m *Module) LocalName(id model.StableID) (string, bool) {
	name, ok := m.locals[id]
	return name, ok
}

// ValueAlias returns the alias a namespace is imported under as a value.
func (m *Module) ValueAlias(namespace string) (string, bool) {
	alias, ok := m.aliases[namespace]
	return alias, ok
}

// flatten lists t followed by its nested types, depth first.
func flatten(t *model.TypeSymbol) []*model.TypeSymbol {
	out := []*model.TypeSymbol{t}
	for _, n := range t.NestedTypes {
		out = append(out, flatten(n)...)
	}
	return out
}

func sortTypes(types []*model.TypeSymbol, r *renamer.Renamer) {
	name := func(t *model.TypeSymbol) string {
		if n, ok := r.GetFinalTypeName(t.ID.String()); ok {
			return n
		}
		return renamer.TypeBaseName(t.ID.FullName)
	}
	sort.SliceStable(types, func(i, j int) bool {
		a, b := name(types[i]), name(types[j])
		if a != b {
			return a < b
		}
		return types[i].ID.String() < types[j].ID.String()
	})
}
