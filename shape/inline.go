package shape

import (
	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
)

// ifaceUse is an implemented interface with the arguments that close it in
// the implementing type's frame.
type ifaceUse struct {
	sym      *model.TypeSymbol
	typeArgs []model.TypeReference
}

// interfaceClosure walks refs and their parent interfaces breadth first,
// closing each parent over its child's arguments. Interfaces outside the
// graph are reported (when diags is non-nil) and skipped.
func interfaceClosure(g *model.SymbolGraph, refs []model.TypeReference, owner string, diags *diag.Collector) []ifaceUse {
	var out []ifaceUse
	seen := make(map[string]bool)
	queue := append([]model.TypeReference(nil), refs...)
	for len(queue) > 0 {
		ref := queue[0]
		queue = queue[1:]

		key := model.CanonicalTypeName(ref)
		if seen[key] {
			continue
		}
		seen[key] = true

		sym, ok := g.LookupRef(ref)
		if !ok {
			if diags != nil {
				diags.Report(diag.InterfaceNotFound, owner,
					"interface %s is not in the graph; its members are not inlined", key)
			}
			continue
		}
		if sym.Kind != model.KindInterface {
			continue
		}
		args := model.TypeArgumentsOf(ref)
		out = append(out, ifaceUse{sym: sym, typeArgs: args})
		for _, parent := range sym.Interfaces {
			queue = append(queue, model.Substitute(parent, args, nil))
		}
	}
	return out
}

// baseInterfaceKeys returns the closed interfaces every in-graph base class
// of t already implements.
func baseInterfaceKeys(g *model.SymbolGraph, t *model.TypeSymbol) map[string]bool {
	keys := make(map[string]bool)
	seen := map[model.StableID]bool{t.ID: true}
	ref := t.BaseType
	args := model.TypeArgumentsOf(ref)
	for ref != nil {
		base, ok := g.LookupRef(ref)
		if !ok || seen[base.ID] {
			break
		}
		seen[base.ID] = true

		closed := make([]model.TypeReference, len(base.Interfaces))
		for i, r := range base.Interfaces {
			closed[i] = model.Substitute(r, args, nil)
		}
		for _, use := range interfaceClosure(g, closed, "", nil) {
			keys[model.CanonicalTypeName(closedRef(use))] = true
		}

		next := base.BaseType
		nextArgs := model.TypeArgumentsOf(next)
		substituted := make([]model.TypeReference, len(nextArgs))
		for i, a := range nextArgs {
			substituted[i] = model.Substitute(a, args, nil)
		}
		ref, args = next, substituted
	}
	return keys
}

func closedRef(use ifaceUse) model.TypeReference {
	return model.NamedRef{
		FullName:      use.sym.ID.FullName,
		Assembly:      use.sym.ID.AssemblyName,
		TypeArguments: use.typeArgs,
	}
}

// InlineInterfaces copies the instance members of every implemented
// interface (transitively, generic arguments substituted) onto the
// implementing type, unless a member with the identical signature is already
// there. Members an explicit implementation covers stay off the class
// surface. Copies carry Provenance FromInterface and an identity declared by
// the implementing type.
func InlineInterfaces(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	if !env.Policy.Interfaces.InlineAll {
		return g
	}
	keepExtends := env.Policy.Classes.KeepExtends
	copied := 0

	out := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		if t.IsStaticContainer() || t.Kind == model.KindEnum || t.Kind == model.KindDelegate || len(t.Interfaces) == 0 {
			return t
		}

		var inheritedIfaces map[string]bool
		if keepExtends && hasInstanceSurface(t) {
			inheritedIfaces = baseInterfaceKeys(g, t)
		}

		present := make(map[string]bool)
		explicit := make(map[model.StableID]map[string]bool)
		for _, m := range t.Members.All() {
			info := m.Info()
			if info.EmitScope == model.ViewOnly {
				if explicit[info.SourceInterface] == nil {
					explicit[info.SourceInterface] = make(map[string]bool)
				}
				explicit[info.SourceInterface][unqualifiedSignature(m)] = true
				continue
			}
			if !info.IsStatic {
				present[signatureOf(m)] = true
			}
		}

		for _, use := range interfaceClosure(g, t.Interfaces, t.ID.String(), env.Diags) {
			if inheritedIfaces[model.CanonicalTypeName(closedRef(use))] {
				continue
			}
			for _, m := range use.sym.Members.All() {
				if _, ctor := m.(*model.ConstructorSymbol); ctor {
					continue
				}
				if _, field := m.(*model.FieldSymbol); field {
					continue
				}
				if m.Info().IsStatic {
					continue
				}

				c := cloneMember(m)
				substituteMember(c, use.typeArgs)
				sig := signatureOf(c)
				if explicit[use.sym.ID][sig] || present[sig] {
					continue
				}

				info := c.Info()
				info.Provenance = model.FromInterface
				info.EmitScope = model.ClassSurface
				info.SourceInterface = use.sym.ID
				info.SourceID = model.MemberStableID{}
				rehome(c, t)

				present[sig] = true
				appendMember(&t.Members, c)
				copied++
			}
		}
		return t
	})

	log.Debugw("inlined interface members", logger.FieldCount, copied)
	return out
}

// unqualifiedSignature is the signature of m under its name without the
// interface qualifier an explicit implementation may carry.
func unqualifiedSignature(m model.Member) string {
	if RequestedName(m) == m.Info().Name {
		return signatureOf(m)
	}
	c := cloneMember(m)
	c.Info().Name = RequestedName(m)
	return signatureOf(c)
}
