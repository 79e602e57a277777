package shape

import (
	"github.com/teranos/tsbindgen/model"
)

// inherited is a member of a base class seen from a derived type: typeArgs
// close the owner's generic parameters in the derived type's frame.
type inherited struct {
	owner    *model.TypeSymbol
	member   model.Member
	typeArgs []model.TypeReference
}

// inheritedMembers lists the members of every in-graph base class of t,
// nearest first.
func inheritedMembers(g *model.SymbolGraph, t *model.TypeSymbol) []inherited {
	var out []inherited
	seen := map[model.StableID]bool{t.ID: true}
	ref := t.BaseType
	args := model.TypeArgumentsOf(ref)
	for ref != nil {
		base, ok := g.LookupRef(ref)
		if !ok || seen[base.ID] {
			break
		}
		seen[base.ID] = true
		for _, m := range base.Members.All() {
			out = append(out, inherited{owner: base, member: m, typeArgs: args})
		}

		next := base.BaseType
		nextArgs := model.TypeArgumentsOf(next)
		closed := make([]model.TypeReference, len(nextArgs))
		for i, a := range nextArgs {
			closed[i] = model.Substitute(a, args, nil)
		}
		ref, args = next, closed
	}
	return out
}

// valueType returns the declared type of a property, field or event.
func valueType(m model.Member) (model.TypeReference, bool) {
	switch v := m.(type) {
	case *model.PropertySymbol:
		return v.Type, true
	case *model.FieldSymbol:
		return v.Type, true
	case *model.EventSymbol:
		return v.HandlerType, true
	}
	return nil, false
}

// paramKey encodes name, generic arity and parameters of a method, without
// its return type, after closing type-level parameters with typeArgs.
func paramKey(m *model.MethodSymbol, typeArgs []model.TypeReference) string {
	types := model.ParameterTypes(m.Parameters)
	for i, t := range types {
		types[i] = model.Substitute(t, typeArgs, nil)
	}
	return model.CanonicalizeMethod(m.Name, len(m.GenericParameters), types, nil)
}

// signatureOf recomputes the canonical signature of any member.
func signatureOf(m model.Member) string {
	switch v := m.(type) {
	case *model.MethodSymbol:
		return v.Signature()
	case *model.PropertySymbol:
		return v.Signature()
	case *model.FieldSymbol:
		return v.Signature()
	case *model.EventSymbol:
		return v.Signature()
	case *model.ConstructorSymbol:
		return v.Signature()
	}
	return ""
}

// rehome gives a copied member an identity declared by t. The source
// identity is kept in SourceID unless one is already set.
func rehome(m model.Member, t *model.TypeSymbol) {
	info := m.Info()
	if info.SourceID.IsZero() {
		info.SourceID = info.ID
	}
	info.ID = model.MemberStableID{
		AssemblyName:       t.ID.AssemblyName,
		DeclaringFullName:  t.ID.FullName,
		MemberName:         info.Name,
		CanonicalSignature: signatureOf(m),
	}
}

// cloneMember deep-copies any member variant.
func cloneMember(m model.Member) model.Member {
	switch v := m.(type) {
	case *model.MethodSymbol:
		return v.Clone()
	case *model.PropertySymbol:
		return v.Clone()
	case *model.FieldSymbol:
		return v.Clone()
	case *model.EventSymbol:
		return v.Clone()
	case *model.ConstructorSymbol:
		return v.Clone()
	}
	return m
}

// substituteMember closes type-level generic parameters in a member's
// signature, in place. Only call it on copies.
func substituteMember(m model.Member, typeArgs []model.TypeReference) {
	if len(typeArgs) == 0 {
		return
	}
	sub := func(r model.TypeReference) model.TypeReference {
		if r == nil {
			return nil
		}
		return model.Substitute(r, typeArgs, nil)
	}
	subParams := func(ps []model.Parameter) {
		for i := range ps {
			ps[i].Type = sub(ps[i].Type)
		}
	}
	switch v := m.(type) {
	case *model.MethodSymbol:
		subParams(v.Parameters)
		v.ReturnType = sub(v.ReturnType)
		for i := range v.GenericParameters {
			for j := range v.GenericParameters[i].Constraints {
				v.GenericParameters[i].Constraints[j] = sub(v.GenericParameters[i].Constraints[j])
			}
		}
	case *model.PropertySymbol:
		subParams(v.IndexParameters)
		v.Type = sub(v.Type)
	case *model.FieldSymbol:
		v.Type = sub(v.Type)
	case *model.EventSymbol:
		v.HandlerType = sub(v.HandlerType)
	case *model.ConstructorSymbol:
		subParams(v.Parameters)
	}
}

// appendMember adds m to the matching collection of c.
func appendMember(c *model.MemberCollection, m model.Member) {
	switch v := m.(type) {
	case *model.MethodSymbol:
		c.Methods = append(c.Methods, v)
	case *model.PropertySymbol:
		c.Properties = append(c.Properties, v)
	case *model.FieldSymbol:
		c.Fields = append(c.Fields, v)
	case *model.EventSymbol:
		c.Events = append(c.Events, v)
	case *model.ConstructorSymbol:
		c.Constructors = append(c.Constructors, v)
	}
}

// removeMembers drops every member for which drop returns true.
func removeMembers(c *model.MemberCollection, drop func(model.Member) bool) {
	c.Constructors = filter(c.Constructors, drop)
	c.Methods = filter(c.Methods, drop)
	c.Properties = filter(c.Properties, drop)
	c.Fields = filter(c.Fields, drop)
	c.Events = filter(c.Events, drop)
}

func filter[M model.Member](members []M, drop func(model.Member) bool) []M {
	out := members[:0]
	for _, m := range members {
		if !drop(m) {
			out = append(out, m)
		}
	}
	return out
}

// hasInstanceSurface reports types whose members print on an instance
// surface that can inherit.
func hasInstanceSurface(t *model.TypeSymbol) bool {
	return (t.Kind == model.KindClass || t.Kind == model.KindStruct) && !t.IsStaticContainer()
}
