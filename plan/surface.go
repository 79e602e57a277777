package plan

import (
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
)

// implicitBases are never printed in an extends clause.
var implicitBases = map[string]bool{
	"System.Object":            true,
	"System.ValueType":         true,
	"System.Enum":              true,
	"System.MulticastDelegate": true,
	"System.Delegate":          true,
}

// Heritage returns the base and interface references printed in t's
// declaration header. Interfaces are only listed when they were not inlined.
func Heritage(t *model.TypeSymbol, p *policy.Policy) (base model.TypeReference, ifaces []model.TypeReference) {
	switch t.Kind {
	case model.KindEnum, model.KindDelegate, model.KindStaticNamespace:
		return nil, nil
	}
	if t.IsStaticContainer() || t.Synthetic {
		return nil, nil
	}
	if p.Classes.KeepExtends && t.Kind != model.KindInterface && t.BaseType != nil {
		if id, ok := model.DefinitionID(t.BaseType); !ok || !implicitBases[id.FullName] {
			base = t.BaseType
		}
	}
	if !p.Interfaces.InlineAll {
		ifaces = t.Interfaces
	}
	return base, ifaces
}

// EmittedMembers lists the members printed for t, in collection order.
func EmittedMembers(t *model.TypeSymbol) []model.Member {
	var out []model.Member
	for _, m := range t.Members.All() {
		info := m.Info()
		if info.Visibility != model.Public && info.Visibility != model.Protected {
			continue
		}
		_, ctor := m.(*model.ConstructorSymbol)
		switch {
		case t.Kind == model.KindEnum:
			f, ok := m.(*model.FieldSymbol)
			if !ok || !(f.IsConst || f.IsStatic) {
				continue
			}
		case t.Kind == model.KindDelegate:
			if meth, ok := m.(*model.MethodSymbol); !ok || meth.Name != "Invoke" {
				continue
			}
		case t.Kind == model.KindInterface:
			if ctor || info.IsStatic {
				continue
			}
		case t.IsStaticContainer():
			if ctor || !info.IsStatic {
				continue
			}
		default:
			if ctor && info.IsStatic {
				continue
			}
		}
		out = append(out, m)
	}
	return out
}

// refUse is one reference a declaration prints; value marks the extends
// clause.
type refUse struct {
	ref   model.TypeReference
	value bool
}

// printedRefs lists every reference emit prints for t.
func printedRefs(t *model.TypeSymbol, p *policy.Policy) []refUse {
	var out []refUse
	add := func(ref model.TypeReference) {
		if ref != nil {
			out = append(out, refUse{ref: ref})
		}
	}
	base, ifaces := Heritage(t, p)
	if base != nil {
		out = append(out, refUse{ref: base, value: true})
	}
	for _, i := range ifaces {
		add(i)
	}
	for _, gp := range t.GenericParameters {
		for _, c := range gp.Constraints {
			add(c)
		}
	}
	for _, m := range EmittedMembers(t) {
		switch v := m.(type) {
		case *model.MethodSymbol:
			for _, gp := range v.GenericParameters {
				for _, c := range gp.Constraints {
					add(c)
				}
			}
			for _, prm := range v.Parameters {
				add(prm.Type)
			}
			add(v.ReturnType)
		case *model.ConstructorSymbol:
			for _, prm := range v.Parameters {
				add(prm.Type)
			}
		case *model.PropertySymbol:
			for _, prm := range v.IndexParameters {
				add(prm.Type)
			}
			add(v.Type)
		case *model.FieldSymbol:
			if t.Kind != model.KindEnum {
				add(v.Type)
			}
		case *model.EventSymbol:
			add(v.HandlerType)
		}
	}
	return out
}
