package shape

import (
	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
)

// ConstraintClosure applies the constraint policy to type and method
// generic parameters. Under StrictClosure a constraint naming a type that is
// neither in the graph nor a primitive is dropped (TBG1003); the "first"
// merge strategy keeps only the first constraint of each parameter.
func ConstraintClosure(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	strict := env.Policy.Constraints.StrictClosure
	first := env.Policy.Constraints.MergeStrategy == policy.MergeFirst
	if !strict && !first {
		return g
	}

	closeParams := func(gps []model.GenericParameter, where string) {
		for i := range gps {
			gp := &gps[i]
			kept := gp.Constraints[:0]
			for _, c := range gp.Constraints {
				if strict && !constraintResolves(g, c) {
					env.Diags.Report(diag.UnresolvedConstraint, where,
						"constraint %s on %s is outside the graph; dropped", model.CanonicalTypeName(c), gp.Name)
					continue
				}
				kept = append(kept, c)
			}
			if first && len(kept) > 1 {
				kept = kept[:1]
			}
			gp.Constraints = kept
		}
	}

	return g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		closeParams(t.GenericParameters, t.ID.String())
		for _, m := range t.Members.Methods {
			closeParams(m.GenericParameters, m.ID.String())
		}
		return t
	})
}

// constraintResolves reports whether every named type in c is printable
// from the graph.
func constraintResolves(g *model.SymbolGraph, c model.TypeReference) bool {
	ok := true
	model.Walk(c, func(r model.TypeReference) bool {
		switch r.(type) {
		case model.NamedRef, model.NestedRef:
			if model.IsPrimitive(r) {
				return true
			}
			if _, found := g.LookupRef(r); !found {
				ok = false
			}
		}
		return ok
	})
	return ok
}
