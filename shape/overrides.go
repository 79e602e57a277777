package shape

import (
	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// SuppressOverrideConflicts keeps derived classes assignable to their
// emitted base. An instance member that shadows a base member with an
// incompatible shape is dropped (TBG3004); the base declaration is inherited
// implicitly. When a derived class declares some overloads of a base method
// name, the missing base overloads are copied down (Provenance
// BaseOverload) so the overload set stays a superset of the base's.
//
// Hidden ("new") members that MarkHiddenMembers renamed and view members
// are left alone. Without
// Classes.KeepExtends no base is emitted and the pass does nothing.
func SuppressOverrideConflicts(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	if !env.Policy.Classes.KeepExtends {
		return g
	}
	suppressed, copied := 0, 0

	out := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		if !hasInstanceSurface(t) || t.BaseType == nil {
			return t
		}
		base := inheritedMembers(g, t)
		if len(base) == 0 {
			return t
		}

		drop := make(map[model.Member]bool)
		for _, m := range t.Members.All() {
			info := m.Info()
			if info.IsStatic || info.EmitScope == model.ViewOnly || info.Provenance == model.HiddenNew {
				continue
			}
			if _, ctor := m.(*model.ConstructorSymbol); ctor {
				continue
			}
			if b, ok := incompatibleBase(m, base); ok {
				env.Diags.Report(diag.StructuralConformance, info.ID.String(),
					"%s is incompatible with %s declared by %s; derived declaration suppressed",
					info.Name, signatureOf(b.member), b.owner.ID)
				drop[m] = true
			}
		}
		if len(drop) > 0 {
			removeMembers(&t.Members, func(m model.Member) bool { return drop[m] })
			suppressed += len(drop)
		}

		copied += copyBaseOverloads(t, base)
		return t
	})

	if suppressed+copied > 0 {
		log.Debugw("override conformance",
			logger.FieldCount, suppressed,
			"base_overloads", copied)
	}
	return out
}

// copyBaseOverloads appends the base overloads of every method name t
// declares that t does not already cover.
func copyBaseOverloads(t *model.TypeSymbol, base []inherited) int {
	have := make(map[string]map[string]bool)
	for _, m := range t.Members.Methods {
		if m.IsStatic || m.EmitScope == model.ViewOnly || m.Provenance == model.HiddenNew {
			continue
		}
		if have[m.Name] == nil {
			have[m.Name] = make(map[string]bool)
		}
		have[m.Name][paramKey(m, nil)] = true
	}

	n := 0
	for _, b := range base {
		bm, ok := b.member.(*model.MethodSymbol)
		if !ok || bm.IsStatic || bm.EmitScope == model.ViewOnly || bm.Provenance == model.HiddenNew {
			continue
		}
		keys, declared := have[bm.Name]
		if !declared {
			continue
		}
		key := paramKey(bm, b.typeArgs)
		if keys[key] {
			continue
		}
		keys[key] = true

		c := bm.Clone()
		substituteMember(c, b.typeArgs)
		c.Provenance = model.BaseOverload
		c.EmitScope = model.ClassSurface
		c.SourceID = bm.ID
		rehome(c, t)
		t.Members.Methods = append(t.Members.Methods, c)
		n++
	}
	return n
}
