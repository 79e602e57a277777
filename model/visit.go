package model

// ForEachRef calls fn for every top-level reference a type owns: base type,
// interfaces, generic constraints and all member signatures. Nested types
// are not visited.
func ForEachRef(t *TypeSymbol, fn func(TypeReference)) {
	emit := func(ref TypeReference) {
		if ref != nil {
			fn(ref)
		}
	}
	emit(t.BaseType)
	for _, i := range t.Interfaces {
		emit(i)
	}
	emit(t.ExtensionReceiver)
	for _, gp := range t.GenericParameters {
		for _, c := range gp.Constraints {
			emit(c)
		}
	}
	m := &t.Members
	for _, c := range m.Constructors {
		for _, p := range c.Parameters {
			emit(p.Type)
		}
	}
	for _, meth := range m.Methods {
		for _, gp := range meth.GenericParameters {
			for _, c := range gp.Constraints {
				emit(c)
			}
		}
		for _, p := range meth.Parameters {
			emit(p.Type)
		}
		emit(meth.ReturnType)
	}
	for _, p := range m.Properties {
		for _, ip := range p.IndexParameters {
			emit(ip.Type)
		}
		emit(p.Type)
	}
	for _, f := range m.Fields {
		emit(f.Type)
	}
	for _, e := range m.Events {
		emit(e.HandlerType)
	}
}

// RewriteRefs replaces every reference a type owns with fn(ref), in place.
// Callers must only use it on a copy (see SymbolGraph.Transform).
func RewriteRefs(t *TypeSymbol, fn func(TypeReference) TypeReference) {
	rw := func(ref TypeReference) TypeReference {
		if ref == nil {
			return nil
		}
		return fn(ref)
	}
	rwParams := func(ps []Parameter) {
		for i := range ps {
			ps[i].Type = rw(ps[i].Type)
		}
	}
	rwGenerics := func(gps []GenericParameter) {
		for i := range gps {
			for j := range gps[i].Constraints {
				gps[i].Constraints[j] = rw(gps[i].Constraints[j])
			}
		}
	}

	t.BaseType = rw(t.BaseType)
	for i := range t.Interfaces {
		t.Interfaces[i] = rw(t.Interfaces[i])
	}
	t.ExtensionReceiver = rw(t.ExtensionReceiver)
	rwGenerics(t.GenericParameters)

	m := &t.Members
	for _, c := range m.Constructors {
		rwParams(c.Parameters)
	}
	for _, meth := range m.Methods {
		rwGenerics(meth.GenericParameters)
		rwParams(meth.Parameters)
		meth.ReturnType = rw(meth.ReturnType)
	}
	for _, p := range m.Properties {
		rwParams(p.IndexParameters)
		p.Type = rw(p.Type)
	}
	for _, f := range m.Fields {
		f.Type = rw(f.Type)
	}
	for _, e := range m.Events {
		e.HandlerType = rw(e.HandlerType)
	}
}
