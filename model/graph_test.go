package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/errors"
)

func typeSym(asm, ns, name string) *TypeSymbol {
	full := ns + "." + name
	return &TypeSymbol{
		ID:          StableID{AssemblyName: asm, FullName: full},
		ClrFullName: full,
		Namespace:   ns,
		Name:        name,
	}
}

func TestGraph_LookupAndNested(t *testing.T) {
	outer := typeSym("A", "Ns", "Outer")
	inner := typeSym("A", "Ns", "Outer+Inner")
	inner.DeclaringType = outer.ID
	outer.NestedTypes = []*TypeSymbol{inner}

	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{outer}}})
	assert.Equal(t, 2, g.TypeCount())

	got, ok := g.Lookup(inner.ID)
	require.True(t, ok)
	assert.Same(t, inner, got)
	assert.Equal(t, []StableID{outer.ID}, g.LookupFullName("Ns.Outer"))
	assert.Len(t, g.AllTypes(), 2)
}

func TestGraph_TransformDoesNotMutateInput(t *testing.T) {
	ty := typeSym("A", "Ns", "T")
	ty.Members.Methods = []*MethodSymbol{{MemberInfo: MemberInfo{Name: "M"}}}
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{ty}}})

	next := g.Transform(func(t *TypeSymbol) *TypeSymbol {
		t.Members.Methods[0].Name = "Renamed"
		t.Members.Methods = append(t.Members.Methods, &MethodSymbol{MemberInfo: MemberInfo{Name: "Extra"}})
		return t
	})

	assert.Equal(t, "M", ty.Members.Methods[0].Name)
	assert.Len(t, ty.Members.Methods, 1)

	copied, _ := next.Lookup(ty.ID)
	assert.NotSame(t, ty, copied)
	assert.Len(t, copied.Members.Methods, 2)
}

func TestGraph_TransformDrop(t *testing.T) {
	a, b := typeSym("A", "Ns", "A"), typeSym("A", "Ns", "B")
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{a, b}}})
	next := g.Transform(func(t *TypeSymbol) *TypeSymbol {
		if t.Name == "A" {
			return nil
		}
		return t
	})
	_, ok := next.Lookup(a.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, next.TypeCount())
	assert.Equal(t, 2, g.TypeCount())
}

func TestGraph_WithTypes(t *testing.T) {
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{typeSym("A", "Ns", "A")}}})
	next := g.WithTypes(map[string][]*TypeSymbol{
		"Ns":    {typeSym("A", "Ns", "B")},
		"Other": {typeSym("A", "Other", "C")},
	})
	assert.Equal(t, 1, g.TypeCount())
	assert.Equal(t, 3, next.TypeCount())
	_, ok := next.Namespace("Other")
	assert.True(t, ok)
}

func TestGraph_ValidateRejectsPlaceholder(t *testing.T) {
	ty := typeSym("A", "Ns", "Node`1")
	ty.Members.Fields = []*FieldSymbol{{MemberInfo: MemberInfo{Name: "Next"}, Type: PlaceholderRef{DebugName: "Ns.Node`1"}}}
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{ty}}})

	err := g.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsInvariantViolation(err))
}

func TestNormalize_ResolvesPlaceholderAndAssignsIDs(t *testing.T) {
	node := typeSym("A", "Ns", "Node`1")
	node.GenericParameters = []GenericParameter{{Name: "T", Position: 0}}
	node.Members.Fields = []*FieldSymbol{
		{MemberInfo: MemberInfo{Name: "Next"}, Type: PlaceholderRef{DebugName: "Ns.Node`1"}},
		{MemberInfo: MemberInfo{Name: "Value"}, Type: GenericParamRef{Name: "T", Position: 0}},
	}
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{node}}})

	diags := diag.NewCollector()
	out := Normalize(g, diags)
	require.NoError(t, out.Validate())

	got, _ := out.Lookup(node.ID)
	assert.Equal(t, "A:Ns.Node`1::Next:Ns.Node`1", got.Members.Fields[0].ID.String())
	assert.Equal(t, "A:Ns.Node`1::Value:!0", got.Members.Fields[1].ID.String())
	assert.Equal(t, 0, diags.Count(diag.UnresolvedType))

	assert.IsType(t, PlaceholderRef{}, node.Members.Fields[0].Type, "input graph is untouched")
}

func TestNormalize_UnresolvedPlaceholderDegrades(t *testing.T) {
	ty := typeSym("A", "Ns", "T")
	ty.Members.Fields = []*FieldSymbol{{MemberInfo: MemberInfo{Name: "X"}, Type: PlaceholderRef{DebugName: "Missing.Type"}}}
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{ty}}})

	diags := diag.NewCollector()
	out := Normalize(g, diags)
	require.NoError(t, out.Validate())
	assert.Equal(t, 1, diags.Count(diag.UnresolvedType))
}

func TestNormalize_DuplicatesAndTokens(t *testing.T) {
	ty := typeSym("A", "Ns", "T")
	ty.Members.Methods = []*MethodSymbol{
		{MemberInfo: MemberInfo{Name: "M", ID: MemberStableID{MetadataToken: 1}}},
		{MemberInfo: MemberInfo{Name: "M", ID: MemberStableID{MetadataToken: 2}}},
		{MemberInfo: MemberInfo{Name: "N", ID: MemberStableID{MetadataToken: 1}}},
	}
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{ty}}})

	diags := diag.NewCollector()
	out := Normalize(g, diags)
	got, _ := out.Lookup(ty.ID)
	assert.Len(t, got.Members.Methods, 2)
	assert.Equal(t, 1, diags.Count(diag.DuplicateMember))
	assert.Equal(t, 1, diags.Count(diag.BindingAmbiguity))
}

func TestNormalize_CutsBaseCycle(t *testing.T) {
	a, b := typeSym("A", "Ns", "A"), typeSym("A", "Ns", "B")
	a.BaseType = Named("A", "Ns.B")
	b.BaseType = Named("A", "Ns.A")
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{a, b}}})

	diags := diag.NewCollector()
	out := Normalize(g, diags)
	assert.Equal(t, 1, diags.Count(diag.CircularInheritance))

	na, _ := out.Lookup(a.ID)
	_, cyclic := out.BaseChain(na)
	assert.False(t, cyclic)
}

func TestNormalize_UndeclaredGenericParameter(t *testing.T) {
	ty := typeSym("A", "Ns", "T")
	ty.Members.Methods = []*MethodSymbol{{
		MemberInfo: MemberInfo{Name: "M"},
		ReturnType: GenericParamRef{Name: "U", Position: 0, Method: true},
	}}
	g := NewGraph([]*NamespaceSymbol{{Name: "Ns", Types: []*TypeSymbol{ty}}})

	diags := diag.NewCollector()
	Normalize(g, diags)
	assert.Equal(t, 1, diags.Count(diag.UnresolvedGenericParameter))
}
