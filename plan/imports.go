package plan

import (
	"sort"
	"strings"

	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
	"github.com/teranos/tsbindgen/renamer"
)

const importSource = "plan.imports"

// planImports collects the cross-namespace references of mod and reserves a
// local name for each imported type and an alias for each namespace imported
// as a value. The module's own type names are reserved first, so imports
// never shadow a local declaration.
func planImports(g *model.SymbolGraph, p *policy.Policy, r *renamer.Renamer, mod *Module) {
	scope := renamer.ImportScope(mod.Namespace)
	for _, t := range mod.Types {
		r.Reserve(renamer.Request{
			Scope:     scope,
			Key:       t.ID.String(),
			Requested: finalTypeName(r, t.ID),
			Kind:      renamer.AliasName,
			Reason:    "local declaration",
			Source:    importSource,
		})
	}

	byNS := make(map[string]*Import)
	typeSeen := make(map[model.StableID]bool)
	imp := func(ns string) *Import {
		i, ok := byNS[ns]
		if !ok {
			i = &Import{Namespace: ns, Path: "../" + ModuleDir(ns) + "/index"}
			byNS[ns] = i
		}
		return i
	}

	use := func(ref model.TypeReference, value bool) {
		id, ok := model.DefinitionID(ref)
		if !ok {
			return
		}
		def, ok := g.Lookup(id)
		if !ok || def.Namespace == mod.Namespace {
			return
		}
		i := imp(def.Namespace)
		if value {
			if i.Alias == "" {
				i.Alias = r.Reserve(renamer.Request{
					Scope:     scope,
					Key:       "ns:" + def.Namespace,
					Requested: strings.ReplaceAll(def.Namespace, ".", "_"),
					Kind:      renamer.AliasName,
					Reason:    "value import",
					Source:    importSource,
				})
				mod.aliases[def.Namespace] = i.Alias
			}
			return
		}
		if typeSeen[id] {
			return
		}
		typeSeen[id] = true
		i.Types = append(i.Types, TypeImport{ID: id, Name: finalTypeName(r, id)})
	}

	for _, t := range mod.Types {
		for _, u := range printedRefs(t, p) {
			walkNamed(u.ref, u.value, use)
		}
	}

	namespaces := make([]string, 0, len(byNS))
	for ns := range byNS {
		namespaces = append(namespaces, ns)
	}
	sort.Strings(namespaces)

	for _, ns := range namespaces {
		i := byNS[ns]
		sort.Slice(i.Types, func(a, b int) bool { return i.Types[a].Name < i.Types[b].Name })
		for k := range i.Types {
			ti := &i.Types[k]
			ti.Local = r.Reserve(renamer.Request{
				Scope:     scope,
				Key:       ti.ID.String(),
				Requested: ti.Name,
				Kind:      renamer.AliasName,
				Reason:    "type import",
				Source:    importSource,
			})
			mod.locals[ti.ID] = ti.Local
		}
		mod.Imports = append(mod.Imports, *i)
	}
}

// walkNamed calls fn for every type definition ref names. Only the
// outermost definition of ref is in value position; type arguments never
// are. A nested reference names its own definition, not its declaring type.
func walkNamed(ref model.TypeReference, value bool, fn func(model.TypeReference, bool)) {
	switch r := ref.(type) {
	case model.NamedRef:
		if !model.IsPrimitive(r) {
			fn(r, value)
		}
		for _, a := range r.TypeArguments {
			walkNamed(a, false, fn)
		}
	case model.NestedRef:
		fn(r, value)
		for _, a := range r.TypeArguments {
			walkNamed(a, false, fn)
		}
	case model.ArrayRef:
		walkNamed(r.Element, false, fn)
	case model.PointerRef:
		walkNamed(r.Pointee, false, fn)
	case model.ByRefRef:
		walkNamed(r.Referenced, false, fn)
	}
}

func finalTypeName(r *renamer.Renamer, id model.StableID) string {
	if name, ok := r.GetFinalTypeName(id.String()); ok {
		return name
	}
	return renamer.TypeBaseName(id.FullName)
}
