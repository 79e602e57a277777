package shape

import (
	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// Surfaces assigns every original member its emit scope: static members go
// to the static surface, explicit interface implementations to a view (or
// are dropped when views are disabled), the rest to the class surface.
func Surfaces(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	views := env.Policy.Classes.SynthesizeExplicitImpl
	dropped := 0
	out := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		removeMembers(&t.Members, func(m model.Member) bool {
			info := m.Info()
			switch {
			case info.IsExplicitImpl():
				if !views {
					dropped++
					return true
				}
				info.EmitScope = model.ViewOnly
			case info.IsStatic:
				info.EmitScope = model.StaticSurface
			default:
				info.EmitScope = model.ClassSurface
			}
			return false
		})
		return t
	})
	if dropped > 0 {
		log.Debugw("dropped explicit implementations", logger.FieldCount, dropped)
	}
	return out
}
