package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	str  = Named("System.Private.CoreLib", "System.String")
	i32  = Named("System.Private.CoreLib", "System.Int32")
	list = func(arg TypeReference) NamedRef {
		return NamedRef{Assembly: "System.Private.CoreLib", FullName: "System.Collections.Generic.List`1", TypeArguments: []TypeReference{arg}}
	}
)

func TestCanonicalTypeName(t *testing.T) {
	tests := []struct {
		name string
		ref  TypeReference
		want string
	}{
		{"named", str, "System.String"},
		{"closed generic drops arity", list(str), "System.Collections.Generic.List<System.String>"},
		{"open generic keeps arity", Named("A", "Ns.List`1"), "Ns.List`1"},
		{"type generic", GenericParamRef{Name: "T", Position: 0}, "!0"},
		{"method generic", GenericParamRef{Name: "U", Position: 1, Method: true}, "!!1"},
		{"array", ArrayRef{Element: i32, Rank: 1}, "System.Int32[]"},
		{"rank 2 array", ArrayRef{Element: i32, Rank: 2}, "System.Int32[,]"},
		{"pointer", PointerRef{Pointee: i32}, "System.Int32*"},
		{"byref", ByRefRef{Referenced: str}, "System.String&"},
		{"nested", NestedRef{Declaring: list(str), Name: "Enumerator"}, "System.Collections.Generic.List<System.String>+Enumerator"},
		{"whitespace", Named("A", "Ns. Foo"), "Ns.Foo"},
		{"void", nil, "System.Void"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalTypeName(tt.ref))
		})
	}
}

func TestCanonicalizeMethod_StructurallyIdentical(t *testing.T) {
	a := CanonicalizeMethod("Add", 0, []TypeReference{list(str)}, nil)
	b := CanonicalizeMethod("Add", 0, []TypeReference{list(Named("System.Private.CoreLib", "System.String"))}, nil)
	assert.Equal(t, a, b)
	assert.Equal(t, "Add(System.Collections.Generic.List<System.String>):System.Void", a)
}

func TestCanonicalizeMethod_NestedGenericArgumentDiffers(t *testing.T) {
	a := CanonicalizeMethod("Add", 0, []TypeReference{list(list(str))}, nil)
	b := CanonicalizeMethod("Add", 0, []TypeReference{list(list(i32))}, nil)
	assert.NotEqual(t, a, b)
}

func TestCanonicalizeMethod_Distinctions(t *testing.T) {
	rank1 := CanonicalizeMethod("M", 0, []TypeReference{ArrayRef{Element: i32, Rank: 1}}, nil)
	rank2 := CanonicalizeMethod("M", 0, []TypeReference{ArrayRef{Element: i32, Rank: 2}}, nil)
	byRef := CanonicalizeMethod("M", 0, []TypeReference{ByRefRef{Referenced: i32}}, nil)
	ptr := CanonicalizeMethod("M", 0, []TypeReference{PointerRef{Pointee: i32}}, nil)
	assert.Len(t, map[string]bool{rank1: true, rank2: true, byRef: true, ptr: true}, 4)

	first := CanonicalizeMethod("Swap", 2, []TypeReference{
		GenericParamRef{Name: "T", Position: 0, Method: true},
		GenericParamRef{Name: "U", Position: 1, Method: true},
	}, nil)
	swapped := CanonicalizeMethod("Swap", 2, []TypeReference{
		GenericParamRef{Name: "T", Position: 1, Method: true},
		GenericParamRef{Name: "U", Position: 0, Method: true},
	}, nil)
	assert.NotEqual(t, first, swapped)
}

func TestCanonicalizeMethod_GenericNamesIgnored(t *testing.T) {
	a := CanonicalizeMethod("Id", 1, []TypeReference{GenericParamRef{Name: "T", Position: 0, Method: true}}, GenericParamRef{Name: "T", Position: 0, Method: true})
	b := CanonicalizeMethod("Id`1", 1, []TypeReference{GenericParamRef{Name: "TItem", Position: 0, Method: true}}, GenericParamRef{Name: "TItem", Position: 0, Method: true})
	assert.Equal(t, "Id`1(!!0):!!0", a)
	assert.Equal(t, a, b)
}

func TestCanonicalizeOthers(t *testing.T) {
	assert.Equal(t, ".ctor(System.String)", CanonicalizeConstructor([]TypeReference{str}))
	assert.Equal(t, "Item[System.String]:System.Int32", CanonicalizeProperty("Item", []TypeReference{str}, i32))
	assert.Equal(t, "Count:System.Int32", CanonicalizeProperty("Count", nil, i32))
	assert.Equal(t, "Value:System.Int32", CanonicalizeField("Value", i32))
	assert.Equal(t, "Changed:System.EventHandler", CanonicalizeEvent("Changed", Named("A", "System.EventHandler")))
}

func TestArity(t *testing.T) {
	assert.Equal(t, 2, Arity("Dictionary`2"))
	assert.Equal(t, 0, Arity("String"))
	assert.Equal(t, "Dictionary", StripArity("Dictionary`2"))
	assert.Equal(t, "Odd`x", StripArity("Odd`x"))
}

func TestMemberStableID_String(t *testing.T) {
	id := MemberStableID{AssemblyName: "Asm", DeclaringFullName: "Ns.T", MemberName: "M", CanonicalSignature: "M():System.Void", MetadataToken: 5}
	other := id
	other.MetadataToken = 9
	assert.Equal(t, "Asm:Ns.T::M():System.Void", id.String())
	assert.True(t, id.SameIdentity(other))
	assert.Equal(t, StableID{AssemblyName: "Asm", FullName: "Ns.T"}, id.Declaring())
}

func TestParseStableID(t *testing.T) {
	id, err := ParseStableID("Asm:Ns.T`1")
	assert.NoError(t, err)
	assert.Equal(t, StableID{AssemblyName: "Asm", FullName: "Ns.T`1"}, id)

	_, err = ParseStableID("nocolon")
	assert.Error(t, err)
}

func TestSubstitute(t *testing.T) {
	ref := list(GenericParamRef{Name: "T", Position: 0})
	out := Substitute(ref, []TypeReference{str}, nil)
	assert.Equal(t, "System.Collections.Generic.List<System.String>", CanonicalTypeName(out))
	assert.Equal(t, "System.Collections.Generic.List<!0>", CanonicalTypeName(ref), "input is untouched")

	method := GenericParamRef{Name: "U", Position: 0, Method: true}
	assert.Equal(t, method, Substitute(method, []TypeReference{str}, nil))
}
