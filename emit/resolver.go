package emit

import (
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/plan"
	"github.com/teranos/tsbindgen/renamer"
)

// Resolver names type definitions at a print site. arity is the generic
// arity of an in-graph definition, 0 otherwise.
type Resolver interface {
	Resolve(ref model.TypeReference, valuePosition bool) (name string, arity int)
}

// GraphResolver resolves names for declarations of one namespace.
//
// Precedence: primitives first, then the namespace alias of a value import
// for extends clauses, then in-graph definitions through the renamer (local
// import names for other namespaces), and finally external types by their
// sanitized simple name, namespace-qualified in facade mode.
type GraphResolver struct {
	Graph     *model.SymbolGraph
	Renamer   *renamer.Renamer
	Module    *plan.Module
	Namespace string
	Facade    bool

	log *zap.SugaredLogger
}

// NewGraphResolver creates a resolver for the declarations of mod.
func NewGraphResolver(g *model.SymbolGraph, r *renamer.Renamer, mod *plan.Module, facade bool) *GraphResolver {
	return &GraphResolver{
		Graph:     g,
		Renamer:   r,
		Module:    mod,
		Namespace: mod.Namespace,
		Facade:    facade,
		log:       logger.ComponentLogger("emit.resolver"),
	}
}

// Resolve implements Resolver.
func (r *GraphResolver) Resolve(ref model.TypeReference, valuePosition bool) (string, int) {
	if prim, ok := model.PrimitiveName(ref); ok {
		return prim, 0
	}
	id, ok := model.DefinitionID(ref)
	if !ok {
		return unknownType, 0
	}

	def, inGraph := r.Graph.Lookup(id)
	if !inGraph {
		return r.external(id), 0
	}

	final, ok := r.Renamer.GetFinalTypeName(id.String())
	if !ok {
		r.log.Warnw("type has no reserved name", logger.FieldStableID, id.String())
		final = renamer.TypeBaseName(id.FullName)
	}
	arity := len(def.GenericParameters)

	switch {
	case def.Namespace == r.Namespace:
		return final, arity
	case r.Facade:
		return qualify(def.Namespace) + "." + final, arity
	}
	if valuePosition {
		if alias, ok := r.Module.ValueAlias(def.Namespace); ok {
			return alias + "." + final, arity
		}
	}
	if local, ok := r.Module.LocalName(id); ok {
		return local, arity
	}
	r.log.Debugw("type not imported", logger.FieldStableID, id.String(), logger.FieldNamespace, r.Namespace)
	return final, arity
}

func (r *GraphResolver) external(id model.StableID) string {
	base := renamer.TypeBaseName(id.FullName)
	if !r.Facade {
		return base
	}
	if ns := externalNamespace(id.FullName); ns != "" {
		return qualify(ns) + "." + base
	}
	return base
}

// externalNamespace is the namespace part of a full type name.
func externalNamespace(full string) string {
	if plus := strings.IndexByte(full, '+'); plus >= 0 {
		full = full[:plus]
	}
	if dot := strings.LastIndexByte(full, '.'); dot >= 0 {
		return full[:dot]
	}
	return ""
}

// qualify turns a namespace into a dotted identifier path.
func qualify(namespace string) string {
	parts := strings.Split(namespace, ".")
	for i, p := range parts {
		parts[i] = renamer.SanitizeIdentifier(p)
	}
	return strings.Join(parts, ".")
}
