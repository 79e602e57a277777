package shape

import (
	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// StaticSuffix is the semantic suffix given to conflicting static members
// when static renames are allowed.
const StaticSuffix = "_static"

// AnalyzeStaticSide reports static members that share a name with a static
// member of a base class but not its signature (TBG4002). The static side of
// an emitted class must be assignable to its base's static side, which such
// members break. Nothing is renamed unless Renaming.StaticConflict is
// "rename" and Renaming.AllowStaticMemberRename is set; then every static
// member of that name on the derived type gets the "_static" suffix.
func AnalyzeStaticSide(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	rename := env.Policy.StaticRenameAllowed()
	found := 0

	out := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		if t.BaseType == nil || t.IsStaticContainer() {
			return t
		}
		chain, _ := g.BaseChain(t)
		if len(chain) == 0 {
			return t
		}

		baseSigs := make(map[string]map[string]model.StableID)
		for _, b := range chain {
			for _, m := range b.Members.All() {
				info := m.Info()
				if !info.IsStatic || info.EmitScope == model.ViewOnly {
					continue
				}
				if _, ctor := m.(*model.ConstructorSymbol); ctor {
					continue
				}
				if baseSigs[info.Name] == nil {
					baseSigs[info.Name] = make(map[string]model.StableID)
				}
				if _, ok := baseSigs[info.Name][signatureOf(m)]; !ok {
					baseSigs[info.Name][signatureOf(m)] = b.ID
				}
			}
		}
		if len(baseSigs) == 0 {
			return t
		}

		conflicting := make(map[string]bool)
		for _, m := range t.Members.All() {
			info := m.Info()
			if !info.IsStatic || info.EmitScope == model.ViewOnly || conflicting[info.Name] {
				continue
			}
			if _, ctor := m.(*model.ConstructorSymbol); ctor {
				continue
			}
			sigs, ok := baseSigs[info.Name]
			if !ok {
				continue
			}
			if _, same := sigs[signatureOf(m)]; same {
				continue
			}
			var owner model.StableID
			for _, id := range sigs {
				if owner.IsZero() || id.String() < owner.String() {
					owner = id
				}
			}
			conflicting[info.Name] = true
			env.Diags.Report(diag.StaticSideVariance, info.ID.String(),
				"static %s differs from the static member of the same name on %s", info.Name, owner)
		}
		found += len(conflicting)

		if rename && len(conflicting) > 0 {
			for _, m := range t.Members.All() {
				info := m.Info()
				if info.IsStatic && conflicting[info.Name] {
					info.SemanticSuffix = StaticSuffix
				}
			}
		}
		return t
	})

	if found > 0 {
		log.Debugw("static-side conflicts", logger.FieldCount, found, "renamed", rename)
	}
	return out
}
