package shape

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/renamer"
)

const namesSource = "shape.names"

// ReserveNames registers every emitted identifier with the renamer: type
// names per namespace, then the members of each type. Original members are
// reserved before copied and synthesized ones so that a user member keeps its
// name when a synthesized one would collide with it. The graph is returned
// unchanged; emit reads the names back through NameKey and ScopeOf.
func ReserveNames(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	r := env.Renamer
	types := g.AllTypes()
	sort.SliceStable(types, func(i, j int) bool {
		if types[i].Synthetic != types[j].Synthetic {
			return !types[i].Synthetic
		}
		return types[i].ID.String() < types[j].ID.String()
	})

	for _, t := range types {
		reason := "type"
		if t.Synthetic {
			reason = "extension bucket"
		}
		r.Reserve(renamer.Request{
			Scope:        renamer.NamespaceScope(t.Namespace),
			Key:          t.ID.String(),
			Requested:    t.ID.FullName,
			Kind:         renamer.TypeName,
			ExplicitKeys: []string{t.ClrFullName},
			Reason:       reason,
			Source:       namesSource,
		})
	}

	members := 0
	for _, t := range types {
		members += reserveMembers(r, t)
	}
	log.Debugw("reserved names", logger.FieldCount, len(types), "members", members)
	return g
}

func reserveMembers(r *renamer.Renamer, t *model.TypeSymbol) int {
	all := t.Members.All()
	ordered := make([]model.Member, 0, len(all))
	for _, m := range all {
		if m.Info().Provenance == model.Original {
			ordered = append(ordered, m)
		}
	}
	for _, m := range all {
		if m.Info().Provenance != model.Original {
			ordered = append(ordered, m)
		}
	}

	n := 0
	views := make(map[model.StableID]bool)
	for _, m := range ordered {
		if _, ctor := m.(*model.ConstructorSymbol); ctor {
			continue
		}
		info := m.Info()
		if info.EmitScope == model.ViewOnly && !views[info.SourceInterface] {
			views[info.SourceInterface] = true
			r.Reserve(renamer.Request{
				Scope:     renamer.InstanceScope(t.ID),
				Key:       ViewKey(info.SourceInterface),
				Requested: ViewPrefix + renamer.TypeBaseName(info.SourceInterface.FullName),
				Kind:      renamer.AliasName,
				Reason:    "interface view",
				Source:    namesSource,
			})
		}
		r.Reserve(renamer.Request{
			Scope:        ScopeOf(t, m),
			Key:          NameKey(t, m),
			Requested:    RequestedName(m),
			Kind:         renamer.MemberName,
			ExplicitKeys: []string{info.ID.String(), MemberNameKey(t, m)},
			HiddenNew:    info.Provenance == model.HiddenNew,
			Suffix:       info.SemanticSuffix,
			Reason:       info.Provenance.String(),
			Source:       namesSource,
		})
		n++
	}
	return n
}

// ViewPrefix starts the name of the property exposing an interface view.
const ViewPrefix = "As_"

// ViewKey is the reservation key of the view property for iface.
func ViewKey(iface model.StableID) string {
	return "view:" + iface.String()
}

// RequestedName is the source name of a member, without the interface
// qualifier explicit implementations carry.
func RequestedName(m model.Member) string {
	name := m.Info().Name
	if i := strings.LastIndexByte(name, '.'); i >= 0 && i < len(name)-1 {
		name = name[i+1:]
	}
	return name
}

// MemberNameKey is the explicit-map key naming every member called
// RequestedName(m) on t, overloads included ("Asm:Ns.Type::Name").
func MemberNameKey(t *model.TypeSymbol, m model.Member) string {
	return t.ID.String() + "::" + RequestedName(m)
}

// ScopeOf returns the scope a member's name is reserved in.
func ScopeOf(t *model.TypeSymbol, m model.Member) renamer.Scope {
	info := m.Info()
	if info.EmitScope == model.ViewOnly {
		return renamer.ViewScope(t.ID, info.SourceInterface)
	}
	return renamer.MemberScope(t.ID, info.IsStatic)
}

// NameKey returns the identity a member's name is reserved under. Overloads
// share the key of their group; synthesized indexer accessors and properties,
// fields and events use their own identity.
func NameKey(t *model.TypeSymbol, m model.Member) string {
	info := m.Info()
	meth, ok := m.(*model.MethodSymbol)
	if !ok || info.Provenance == model.IndexerNormalized {
		return info.ID.String()
	}
	key := model.OverloadGroupKey(t.ID, RequestedName(meth))
	if info.Provenance == model.HiddenNew {
		key += "#new"
	}
	if info.SemanticSuffix != "" {
		key += "#" + strings.TrimPrefix(info.SemanticSuffix, "_")
	}
	return key
}
