package model

// Clones copy every slice a pass may append to or reorder. TypeReference
// values are immutable and shared.

func cloneParams(ps []Parameter) []Parameter {
	if ps == nil {
		return nil
	}
	out := make([]Parameter, len(ps))
	copy(out, ps)
	return out
}

func cloneGenericParams(gps []GenericParameter) []GenericParameter {
	if gps == nil {
		return nil
	}
	out := make([]GenericParameter, len(gps))
	for i, gp := range gps {
		gp.Constraints = append([]TypeReference(nil), gp.Constraints...)
		out[i] = gp
	}
	return out
}

// Clone returns a deep copy of the method.
func (m *MethodSymbol) Clone() *MethodSymbol {
	c := *m
	c.GenericParameters = cloneGenericParams(m.GenericParameters)
	c.Parameters = cloneParams(m.Parameters)
	return &c
}

// Clone returns a deep copy of the property.
func (p *PropertySymbol) Clone() *PropertySymbol {
	c := *p
	c.IndexParameters = cloneParams(p.IndexParameters)
	return &c
}

// Clone returns a copy of the field.
func (f *FieldSymbol) Clone() *FieldSymbol {
	c := *f
	return &c
}

// Clone returns a copy of the event.
func (e *EventSymbol) Clone() *EventSymbol {
	c := *e
	return &c
}

// Clone returns a deep copy of the constructor.
func (c *ConstructorSymbol) Clone() *ConstructorSymbol {
	d := *c
	d.Parameters = cloneParams(c.Parameters)
	return &d
}

// Clone returns a deep copy of the collection.
func (c *MemberCollection) Clone() MemberCollection {
	var out MemberCollection
	for _, m := range c.Constructors {
		out.Constructors = append(out.Constructors, m.Clone())
	}
	for _, m := range c.Methods {
		out.Methods = append(out.Methods, m.Clone())
	}
	for _, m := range c.Properties {
		out.Properties = append(out.Properties, m.Clone())
	}
	for _, m := range c.Fields {
		out.Fields = append(out.Fields, m.Clone())
	}
	for _, m := range c.Events {
		out.Events = append(out.Events, m.Clone())
	}
	return out
}

// Clone returns a deep copy of the type, nested types included.
func (t *TypeSymbol) Clone() *TypeSymbol {
	c := *t
	c.GenericParameters = cloneGenericParams(t.GenericParameters)
	c.Interfaces = append([]TypeReference(nil), t.Interfaces...)
	c.Members = t.Members.Clone()
	c.NestedTypes = nil
	for _, n := range t.NestedTypes {
		c.NestedTypes = append(c.NestedTypes, n.Clone())
	}
	return &c
}
