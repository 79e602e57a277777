package shape

import (
	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// MarkHiddenMembers tags "new" members that hide a base member of an
// incompatible type with Provenance HiddenNew. The renamer appends the
// hidden-member suffix when names are reserved, so the base member stays
// reachable under its own name. Without a suffix nothing is marked, and
// SuppressOverrideConflicts drops the incompatible member instead.
func MarkHiddenMembers(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	if env.Policy.HiddenSuffix() == "" {
		return g
	}
	marked := 0
	out := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		if !hasInstanceSurface(t) || t.BaseType == nil {
			return t
		}
		base := inheritedMembers(g, t)
		if len(base) == 0 {
			return t
		}
		for _, m := range t.Members.All() {
			info := m.Info()
			if info.IsStatic || info.EmitScope == model.ViewOnly || !declaredNew(m) {
				continue
			}
			if _, ok := incompatibleBase(m, base); ok {
				info.Provenance = model.HiddenNew
				marked++
			}
		}
		return t
	})
	if marked > 0 {
		log.Debugw("marked hidden members", logger.FieldCount, marked)
	}
	return out
}

func declaredNew(m model.Member) bool {
	switch v := m.(type) {
	case *model.MethodSymbol:
		return v.IsNew
	case *model.PropertySymbol:
		return v.IsNew
	case *model.FieldSymbol:
		return v.IsNew
	case *model.EventSymbol:
		return v.IsNew
	}
	return false
}

// incompatibleBase finds an instance base member with m's name that m
// cannot stand in for: a different member kind, a method with the same
// parameters but another return type, or a value of another type.
func incompatibleBase(m model.Member, base []inherited) (inherited, bool) {
	name := m.Info().Name
	for _, b := range base {
		bi := b.member.Info()
		if bi.IsStatic || bi.Name != name || bi.EmitScope == model.ViewOnly {
			continue
		}
		if _, ctor := b.member.(*model.ConstructorSymbol); ctor {
			continue
		}

		if mm, ok := m.(*model.MethodSymbol); ok {
			bm, ok := b.member.(*model.MethodSymbol)
			if !ok {
				return b, true
			}
			if paramKey(mm, nil) != paramKey(bm, b.typeArgs) {
				continue
			}
			if !model.SameType(mm.ReturnType, substituted(bm.ReturnType, b.typeArgs)) {
				return b, true
			}
			continue
		}

		mt, _ := valueType(m)
		bt, ok := valueType(b.member)
		if !ok {
			return b, true
		}
		if !model.SameType(mt, substituted(bt, b.typeArgs)) {
			return b, true
		}
	}
	return inherited{}, false
}

func substituted(ref model.TypeReference, typeArgs []model.TypeReference) model.TypeReference {
	if ref == nil {
		return nil
	}
	return model.Substitute(ref, typeArgs, nil)
}
