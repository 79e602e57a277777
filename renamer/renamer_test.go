package renamer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/model"
)

var owner = model.StableID{AssemblyName: "Asm", FullName: "Ns.Widget"}

func member(key, name string) Request {
	return Request{Scope: InstanceScope(owner), Key: key, Requested: name, Kind: MemberName}
}

func TestReserve_DistinctKeysNeverShareName(t *testing.T) {
	r := New(Options{}, diag.NewCollector())
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		final := r.Reserve(member(fmt.Sprintf("k%d", i), "Value"))
		assert.False(t, seen[final], "final name %s assigned twice", final)
		seen[final] = true
	}
	assert.Equal(t, map[string]bool{"Value": true, "Value1": true, "Value2": true, "Value3": true, "Value4": true}, seen)
}

func TestReserve_Idempotent(t *testing.T) {
	r := New(Options{}, nil)
	first := r.Reserve(member("a", "Value"))
	r.Reserve(member("b", "Value"))
	again := r.Reserve(member("a", "Value"))

	assert.Equal(t, first, again)
	assert.Len(t, r.Decisions(), 2)
}

func TestReserve_RequestChangeReleasesOldName(t *testing.T) {
	r := New(Options{}, nil)
	assert.Equal(t, "Value", r.Reserve(member("a", "Value")))
	assert.Equal(t, "Other", r.Reserve(member("a", "Other")))
	assert.Equal(t, "Value", r.Reserve(member("b", "Value")))
}

func TestReserve_SmallestUnusedSuffix(t *testing.T) {
	r := New(Options{}, nil)
	r.Reserve(member("x", "get_Item"))
	r.Reserve(member("y", "get_Item2"))
	assert.Equal(t, "get_Item1", r.Reserve(member("z", "get_Item")))
	assert.Equal(t, "get_Item3", r.Reserve(member("w", "get_Item")))
}

func TestReserve_StaticAndInstanceScopesDisjoint(t *testing.T) {
	r := New(Options{}, nil)
	inst := r.Reserve(Request{Scope: InstanceScope(owner), Key: "i", Requested: "Create", Kind: MemberName})
	stat := r.Reserve(Request{Scope: StaticScope(owner), Key: "s", Requested: "Create", Kind: MemberName})
	assert.Equal(t, "Create", inst)
	assert.Equal(t, "Create", stat)
}

func TestReserve_DecisionOrder(t *testing.T) {
	diags := diag.NewCollector()
	r := New(Options{
		Explicit:        map[string]string{"explicit": "Renamed", "group-member": "ByMember"},
		Style:           StyleCamel,
		HiddenNewSuffix: "_new",
	}, diags)

	// explicit wins over style and semantic rules
	req := member("explicit", "GetValue")
	req.HiddenNew = true
	assert.Equal(t, "Renamed", r.Reserve(req))

	// explicit via secondary key
	req = member("group", "Run")
	req.ExplicitKeys = []string{"group-member"}
	assert.Equal(t, "ByMember", r.Reserve(req))

	// style then semantic
	req = member("hidden", "Foo")
	req.HiddenNew = true
	assert.Equal(t, "foo_new", r.Reserve(req))

	// explicit name taken: suffix and TBG6002
	r.Reserve(member("squatter", "Taken"))
	r2 := New(Options{Explicit: map[string]string{"late": "Taken"}}, diags)
	r2.Reserve(member("squatter", "Taken"))
	assert.Equal(t, "Taken1", r2.Reserve(member("late", "Other")))
	assert.Equal(t, 1, diags.Count(diag.ExplicitRenameIgnored))

	decisions := r.Decisions()
	require.NotEmpty(t, decisions)
	assert.Equal(t, StrategyExplicit, decisions[0].Strategy)
	assert.Equal(t, StrategySemantic, decisions[2].Strategy)
}

func TestReserve_ConflictReported(t *testing.T) {
	diags := diag.NewCollector()
	r := New(Options{}, diags)
	r.Reserve(member("a", "M"))
	r.Reserve(member("b", "M"))
	assert.Equal(t, 1, diags.Count(diag.RenameConflict))

	d := r.Decisions()[1]
	assert.Equal(t, StrategySuffix, d.Strategy)
	assert.Equal(t, "M", d.Requested)
	assert.Equal(t, "M1", d.Final)
}

func TestReserve_TypeNames(t *testing.T) {
	r := New(Options{Style: StyleCamel}, nil)
	scope := NamespaceScope("Ns")

	assert.Equal(t, "List_1", r.Reserve(Request{Scope: scope, Key: "Asm:Ns.List`1", Requested: "Ns.List`1", Kind: TypeName}))
	assert.Equal(t, "List", r.Reserve(Request{Scope: scope, Key: "Asm:Ns.List", Requested: "Ns.List", Kind: TypeName}))
	assert.Equal(t, "Outer_Inner", r.Reserve(Request{Scope: scope, Key: "Asm:Ns.Outer+Inner", Requested: "Ns.Outer+Inner", Kind: TypeName}))
	assert.Equal(t, "string_", r.Reserve(Request{Scope: scope, Key: "Asm:Ns.string", Requested: "string", Kind: TypeName}))

	name, ok := r.GetFinalTypeName("Asm:Ns.List`1")
	require.True(t, ok)
	assert.Equal(t, "List_1", name)

	_, ok = r.GetFinalTypeName("Asm:Ns.Missing")
	assert.False(t, ok)
}

func TestReserve_Concurrent(t *testing.T) {
	r := New(Options{}, nil)
	var wg sync.WaitGroup
	results := make([]string, 64)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Reserve(member(fmt.Sprintf("k%d", i), "Same"))
		}(i)
	}
	wg.Wait()

	unique := map[string]bool{}
	for _, name := range results {
		unique[name] = true
	}
	assert.Len(t, unique, 64)
}

func TestGetFinalMemberName(t *testing.T) {
	r := New(Options{}, nil)
	r.Reserve(member("k", "Run"))
	name, ok := r.GetFinalMemberName(InstanceScope(owner), "k")
	assert.True(t, ok)
	assert.Equal(t, "Run", name)

	_, ok = r.GetFinalMemberName(StaticScope(owner), "k")
	assert.False(t, ok)
	assert.True(t, r.IsTaken(InstanceScope(owner), "Run"))
}

func TestCasing(t *testing.T) {
	tests := []struct{ in, camel, pascal string }{
		{"GetValue", "getValue", "GetValue"},
		{"IOStream", "ioStream", "IOStream"},
		{"ID", "id", "ID"},
		{"x", "x", "X"},
		{"get_Item", "get_Item", "GetItem"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.camel, ToCamelCase(tt.in), tt.in)
		assert.Equal(t, tt.pascal, ToPascalCase(tt.in), tt.in)
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "_1st", SanitizeIdentifier("1st"))
	assert.Equal(t, "a_b", SanitizeIdentifier("a-b"))
	assert.Equal(t, "Café", SanitizeIdentifier("Café"))
	assert.Equal(t, "Dictionary_2_KeyCollection", TypeBaseName("System.Collections.Generic.Dictionary`2+KeyCollection"))
}

func TestReserve_SharedKeyExplicitConflict(t *testing.T) {
	diags := diag.NewCollector()
	r := New(Options{Explicit: map[string]string{"overload-2": "runWith", "overload-3": "Run"}}, diags)

	first := member("group", "Run")
	first.ExplicitKeys = []string{"overload-1"}
	assert.Equal(t, "Run", r.Reserve(first))

	agreeing := member("group", "Run")
	agreeing.ExplicitKeys = []string{"overload-3"}
	assert.Equal(t, "Run", r.Reserve(agreeing))
	assert.Equal(t, 0, diags.Count(diag.ExplicitRenameIgnored))

	second := member("group", "Run")
	second.ExplicitKeys = []string{"overload-2"}
	assert.Equal(t, "Run", r.Reserve(second))
	assert.Equal(t, 1, diags.Count(diag.ExplicitRenameIgnored))
}
