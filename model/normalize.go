package model

import (
	"github.com/teranos/tsbindgen/diag"
)

// Normalize prepares a loaded graph for shaping. It computes every member
// identity from its canonical signature, resolves Placeholder references
// left over by the loader, and cuts circular base chains. Irregular input
// is reported to diags and degraded, never rejected.
func Normalize(g *SymbolGraph, diags *diag.Collector) *SymbolGraph {
	resolved := g.Transform(func(t *TypeSymbol) *TypeSymbol {
		RewriteRefs(t, func(ref TypeReference) TypeReference {
			return resolvePlaceholders(g, t, ref, diags)
		})
		assignMemberIDs(t, diags)
		checkGenericParams(t, diags)
		return t
	})
	return cutBaseCycles(resolved, diags)
}

func resolvePlaceholders(g *SymbolGraph, owner *TypeSymbol, ref TypeReference, diags *diag.Collector) TypeReference {
	if !ContainsPlaceholder(ref) {
		return ref
	}
	return MapRef(ref, func(r TypeReference) TypeReference {
		p, ok := r.(PlaceholderRef)
		if !ok {
			return r
		}
		if !p.Target.IsZero() {
			if t, ok := g.Lookup(p.Target); ok {
				return NamedRef{FullName: t.ID.FullName, Assembly: t.ID.AssemblyName, IsValueType: t.IsValueType}
			}
		}
		name := p.DebugName
		if name == "" {
			name = p.Target.FullName
		}
		if ids := g.LookupFullName(name); len(ids) == 1 {
			t, _ := g.Lookup(ids[0])
			return NamedRef{FullName: t.ID.FullName, Assembly: t.ID.AssemblyName, IsValueType: t.IsValueType}
		}
		diags.Report(diag.UnresolvedType, owner.ID.String(),
			"reference %q does not resolve to exactly one type; treated as external", name)
		return NamedRef{FullName: name, Assembly: p.Target.AssemblyName}
	})
}

// assignMemberIDs fills member identities and drops exact duplicates.
func assignMemberIDs(t *TypeSymbol, diags *diag.Collector) {
	seen := make(map[string]bool)
	tokens := make(map[int32]string)
	missing := 0

	keep := func(info *MemberInfo, sig string) bool {
		info.ID = MemberStableID{
			AssemblyName:       t.ID.AssemblyName,
			DeclaringFullName:  t.ID.FullName,
			MemberName:         info.Name,
			CanonicalSignature: sig,
			MetadataToken:      info.ID.MetadataToken,
		}
		if seen[sig] {
			diags.Report(diag.DuplicateMember, info.ID.String(), "duplicate member %s dropped", sig)
			return false
		}
		seen[sig] = true
		if tok := info.ID.MetadataToken; tok != 0 {
			if other, ok := tokens[tok]; ok {
				diags.Report(diag.BindingAmbiguity, info.ID.String(),
					"metadata token 0x%08x shared with %s", uint32(tok), other)
			} else {
				tokens[tok] = sig
			}
		} else {
			missing++
		}
		return true
	}

	m := &t.Members
	ctors := m.Constructors[:0]
	for _, c := range m.Constructors {
		if keep(&c.MemberInfo, c.Signature()) {
			ctors = append(ctors, c)
		}
	}
	m.Constructors = ctors

	methods := m.Methods[:0]
	for _, meth := range m.Methods {
		if keep(&meth.MemberInfo, meth.Signature()) {
			methods = append(methods, meth)
		}
	}
	m.Methods = methods

	props := m.Properties[:0]
	for _, p := range m.Properties {
		if keep(&p.MemberInfo, p.Signature()) {
			props = append(props, p)
		}
	}
	m.Properties = props

	fields := m.Fields[:0]
	for _, f := range m.Fields {
		if keep(&f.MemberInfo, f.Signature()) {
			fields = append(fields, f)
		}
	}
	m.Fields = fields

	events := m.Events[:0]
	for _, e := range m.Events {
		if keep(&e.MemberInfo, e.Signature()) {
			events = append(events, e)
		}
	}
	m.Events = events

	if missing > 0 && missing < m.Len() {
		diags.Report(diag.MissingMetadataToken, t.ID.String(),
			"%d of %d members carry no metadata token", missing, m.Len())
	}
}

// checkGenericParams reports generic parameter references whose position is
// not declared in scope. The printer later demotes them.
func checkGenericParams(t *TypeSymbol, diags *diag.Collector) {
	typeArity := len(t.GenericParameters)
	check := func(ref TypeReference, methodArity int, where string) {
		Walk(ref, func(r TypeReference) bool {
			gp, ok := r.(GenericParamRef)
			if !ok {
				return true
			}
			limit := typeArity
			if gp.Method {
				limit = methodArity
			}
			if gp.Position < 0 || gp.Position >= limit {
				diags.Report(diag.UnresolvedGenericParameter, where,
					"generic parameter %s (position %d) is not declared in scope", gp.Name, gp.Position)
			}
			return true
		})
	}

	check(t.BaseType, 0, t.ID.String())
	for _, i := range t.Interfaces {
		check(i, 0, t.ID.String())
	}
	for _, meth := range t.Members.Methods {
		arity := len(meth.GenericParameters)
		for _, p := range meth.Parameters {
			check(p.Type, arity, meth.ID.String())
		}
		check(meth.ReturnType, arity, meth.ID.String())
	}
	for _, p := range t.Members.Properties {
		check(p.Type, 0, p.ID.String())
	}
	for _, f := range t.Members.Fields {
		check(f.Type, 0, f.ID.String())
	}
}

// cutBaseCycles clears the base type of the first type found closing each
// circular inheritance chain, in graph order.
func cutBaseCycles(g *SymbolGraph, diags *diag.Collector) *SymbolGraph {
	cut := make(map[StableID]bool)
	for _, t := range g.AllTypes() {
		seen := map[StableID]bool{t.ID: true}
		cur := t
		for cur.BaseType != nil && !cut[cur.ID] {
			base, ok := g.LookupRef(cur.BaseType)
			if !ok {
				break
			}
			if seen[base.ID] {
				cut[cur.ID] = true
				diags.Report(diag.CircularInheritance, cur.ID.String(),
					"base type %s closes an inheritance cycle; base dropped", base.ID)
				break
			}
			seen[base.ID] = true
			cur = base
		}
	}
	if len(cut) == 0 {
		return g
	}
	return g.Transform(func(t *TypeSymbol) *TypeSymbol {
		if cut[t.ID] {
			t.BaseType = nil
		}
		return t
	})
}
