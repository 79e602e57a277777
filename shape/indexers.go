package shape

import (
	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// PlanIndexers normalizes indexers. A type with a single indexer keyed by a
// string or number keeps it as an indexed property when the policy allows.
// Otherwise each indexer becomes a get_<MethodName>/set_<MethodName> pair
// (Provenance IndexerNormalized). The pairs are reserved after the type's
// own methods, so a user method of the same name keeps its name. With method
// synthesis disabled the indexers are dropped (TBG4003).
func PlanIndexers(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	pol := env.Policy.Indexers
	synthesized := 0

	out := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		var indexers []*model.PropertySymbol
		for _, p := range t.Members.Properties {
			if p.IsIndexer() && p.EmitScope != model.ViewOnly {
				indexers = append(indexers, p)
			}
		}
		if len(indexers) == 0 {
			return t
		}
		if len(indexers) == 1 && pol.EmitPropertyWhenSingle && indexableKey(indexers[0]) {
			return t
		}

		converted := make(map[model.Member]bool, len(indexers))
		for _, p := range indexers {
			converted[p] = true
		}
		removeMembers(&t.Members, func(m model.Member) bool { return converted[m] })

		if !pol.EmitMethodsWhenMultiple {
			env.Diags.Report(diag.IndexerConflict, t.ID.String(),
				"%d indexer(s) cannot be expressed as one indexed property and method synthesis is disabled; dropped",
				len(indexers))
			return t
		}

		for _, p := range indexers {
			for _, m := range accessors(p, pol.MethodName) {
				rehome(m, t)
				t.Members.Methods = append(t.Members.Methods, m)
				synthesized++
			}
		}
		return t
	})

	if synthesized > 0 {
		log.Debugw("synthesized indexer accessors", logger.FieldCount, synthesized)
	}
	return out
}

// indexableKey reports a single string or number key.
func indexableKey(p *model.PropertySymbol) bool {
	if len(p.IndexParameters) != 1 {
		return false
	}
	name, ok := model.PrimitiveName(p.IndexParameters[0].Type)
	return ok && (name == "string" || name == "number")
}

func accessors(p *model.PropertySymbol, methodName string) []*model.MethodSymbol {
	base := model.MemberInfo{
		Visibility:      p.Visibility,
		Provenance:      model.IndexerNormalized,
		EmitScope:       p.EmitScope,
		IsStatic:        p.IsStatic,
		SourceID:        p.ID,
		SourceInterface: p.SourceInterface,
		Doc:             p.Doc,
	}
	var out []*model.MethodSymbol
	if p.HasGetter {
		info := base
		info.Name = "get_" + methodName
		out = append(out, &model.MethodSymbol{
			MemberInfo: info,
			Parameters: append([]model.Parameter(nil), p.IndexParameters...),
			ReturnType: p.Type,
			IsVirtual:  p.IsVirtual,
			IsOverride: p.IsOverride,
		})
	}
	if p.HasSetter {
		info := base
		info.Name = "set_" + methodName
		params := append([]model.Parameter(nil), p.IndexParameters...)
		params = append(params, model.Parameter{Name: "value", Type: p.Type})
		out = append(out, &model.MethodSymbol{
			MemberInfo: info,
			Parameters: params,
			IsVirtual:  p.IsVirtual,
			IsOverride: p.IsOverride,
		})
	}
	return out
}
