package emit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/plan"
	"github.com/teranos/tsbindgen/policy"
	"github.com/teranos/tsbindgen/shape"
)

func typeIn(ns, name string, kind model.TypeKind) *model.TypeSymbol {
	full := ns + "." + name
	return &model.TypeSymbol{
		ID:          model.StableID{AssemblyName: "Lib", FullName: full},
		ClrFullName: full,
		Namespace:   ns,
		Name:        name,
		Kind:        kind,
	}
}

func refTo(t *model.TypeSymbol) model.NamedRef {
	return model.NamedRef{FullName: t.ID.FullName, Assembly: t.ID.AssemblyName}
}

func meth(name string, ret model.TypeReference, params ...model.Parameter) *model.MethodSymbol {
	return &model.MethodSymbol{MemberInfo: model.MemberInfo{Name: name}, ReturnType: ret, Parameters: params}
}

func param(name string, typ model.TypeReference) model.Parameter {
	return model.Parameter{Name: name, Type: typ}
}

// sample builds a two-namespace graph exercising every declaration shape.
func sample() []*model.NamespaceSymbol {
	base := typeIn("Core", "Base", model.KindClass)
	base.Members.Properties = []*model.PropertySymbol{{MemberInfo: model.MemberInfo{Name: "Foo"}, Type: str, HasGetter: true}}

	disposable := typeIn("Core", "IDisposable", model.KindInterface)
	disposable.Members.Methods = []*model.MethodSymbol{meth("Dispose", nil)}

	derived := typeIn("App", "Derived", model.KindClass)
	derived.Doc = "A derived type."
	derived.BaseType = refTo(base)
	derived.Interfaces = []model.TypeReference{refTo(disposable)}
	foo := &model.PropertySymbol{MemberInfo: model.MemberInfo{Name: "Foo"}, Type: i32, HasGetter: true, IsNew: true}
	derived.Members.Properties = []*model.PropertySymbol{foo}
	dispose := meth("Core.IDisposable.Dispose", nil)
	dispose.SourceInterface = disposable.ID
	read := meth("Read", i32, param("buffer", model.PointerRef{Pointee: i32}), param("function", i32))
	derived.Members.Methods = []*model.MethodSymbol{dispose, read}
	derived.Members.Constructors = []*model.ConstructorSymbol{{Parameters: []model.Parameter{param("size", i32)}}}

	bag := typeIn("App", "Bag", model.KindClass)
	bag.Members.Properties = []*model.PropertySymbol{{
		MemberInfo:      model.MemberInfo{Name: "Item"},
		Type:            i32,
		IndexParameters: []model.Parameter{param("key", str)},
		HasGetter:       true,
		HasSetter:       true,
	}}

	color := typeIn("App", "Color", model.KindEnum)
	color.Members.Fields = []*model.FieldSymbol{
		{MemberInfo: model.MemberInfo{Name: "value__"}, Type: i32},
		{MemberInfo: model.MemberInfo{Name: "Red", IsStatic: true}, Type: refTo(color), IsConst: true, ConstValue: "0"},
		{MemberInfo: model.MemberInfo{Name: "Green", IsStatic: true}, Type: refTo(color), IsConst: true, ConstValue: "1"},
	}

	handler := typeIn("App", "Handler", model.KindDelegate)
	handler.Members.Methods = []*model.MethodSymbol{
		meth("Invoke", nil, param("sender", model.Named(corlib, "System.Object")), param("count", i32)),
	}

	box := typeIn("App", "Box`1", model.KindClass)
	box.GenericParameters = []model.GenericParameter{{Name: "T", Position: 0}}
	box.Members.Methods = []*model.MethodSymbol{meth("Stray", model.GenericParamRef{Name: "Q", Position: 3})}

	first := meth("First", model.GenericParamRef{Name: "TItem", Position: 0, Method: true},
		param("source", model.NamedRef{FullName: box.ID.FullName, Assembly: "Lib",
			TypeArguments: []model.TypeReference{model.GenericParamRef{Name: "TItem", Position: 0, Method: true}}}))
	first.IsStatic, first.IsExtension = true, true
	first.GenericParameters = []model.GenericParameter{{Name: "TItem", Position: 0}}
	util := typeIn("App", "Util", model.KindStaticNamespace)
	parse := meth("Parse", i32, param("s", str))
	parse.IsStatic = true
	util.Members.Methods = []*model.MethodSymbol{parse, first}

	return []*model.NamespaceSymbol{
		{Name: "Core", Types: []*model.TypeSymbol{base, disposable}},
		{Name: "App", Types: []*model.TypeSymbol{derived, bag, color, handler, box, util}},
	}
}

func generate(t *testing.T, p *policy.Policy) (*Output, *shape.Env) {
	t.Helper()
	if p == nil {
		p = policy.Default()
	}
	diags := diag.NewCollector()
	env := shape.NewEnv(p, diags)
	g, _, err := shape.Run(model.Normalize(model.NewGraph(sample()), diags), env)
	require.NoError(t, err)
	out, err := Emit(g, plan.Build(g, p, env.Renamer), env)
	require.NoError(t, err)
	return out, env
}

func TestEmit_Files(t *testing.T) {
	out, _ := generate(t, nil)
	assert.Equal(t, []string{
		"App/bindings.json",
		"App/index.d.ts",
		"App/metadata.json",
		"Core/bindings.json",
		"Core/index.d.ts",
		"Core/metadata.json",
		SupportPath,
		"index.d.ts",
		"renames.json",
	}, out.Paths())
}

func TestEmit_ModuleDeclarations(t *testing.T) {
	out, _ := generate(t, nil)
	app := string(out.Files["App/index.d.ts"])

	for _, want := range []string{
		"// Namespace: App\n",
		`import type { ptr, ref } from "../_support/types";`,
		`import * as Core from "../Core/index";`,
		"/** A derived type. */\nexport class Derived extends Core.Base {",
		"    constructor(size: number);",
		"    readonly Foo_new: number;",
		"    Read(buffer: ptr<number>, function_: number): number;",
		"    readonly As_IDisposable: {\n        Dispose(): void;\n    };",
		"export class Bag {\n    [key: string]: number;\n}",
		"export enum Color {\n    Green = 1,\n    Red = 0,\n}",
		"export type Handler = (sender: unknown, count: number) => void;",
		"export class Box_1<T> {\n    Stray(): unknown;\n}",
		"export abstract class Util {",
		"    static Parse(s: string): number;",
		"export interface __Ext_Box_1<T> {\n    First(): T;\n}",
	} {
		assert.Contains(t, app, want)
	}
	assert.NotContains(t, app, "value__")
	assert.NotContains(t, app, "implements")

	core := string(out.Files["Core/index.d.ts"])
	assert.Contains(t, core, "export class Base {\n    readonly Foo: string;\n}")
	assert.Contains(t, core, "export interface IDisposable {\n    Dispose(): void;\n}")
	assert.NotContains(t, core, "import")
}

func TestEmit_BarrelAndSupport(t *testing.T) {
	out, _ := generate(t, nil)
	index := string(out.Files["index.d.ts"])
	assert.Contains(t, index, "export * as App from \"./App/index\";\nexport * as Core from \"./Core/index\";\n")
	assert.Contains(t, string(out.Files[SupportPath]), "export type ptr<T>")
}

func TestEmit_MetadataAndBindings(t *testing.T) {
	out, _ := generate(t, nil)

	var doc NamespaceMetadata
	require.NoError(t, json.Unmarshal(out.Files["App/metadata.json"], &doc))
	assert.Equal(t, "App", doc.Namespace)
	assert.NotEmpty(t, doc.GeneratorVersion)

	var bag *TypeMetadata
	for i := range doc.Types {
		if doc.Types[i].StableID == "Lib:App.Bag" {
			bag = &doc.Types[i]
		}
	}
	require.NotNil(t, bag)
	assert.Equal(t, "class", bag.Kind)
	require.Len(t, bag.Members.Properties, 1)
	assert.Equal(t, "Lib:App.Bag::Item[System.String]:System.Int32", bag.Members.Properties[0].StableID)

	var bindings map[string]Binding
	require.NoError(t, json.Unmarshal(out.Files["App/bindings.json"], &bindings))
	b, ok := bindings["Lib:App.Derived::Foo:System.Int32"]
	require.True(t, ok)
	assert.Equal(t, "Foo_new", b.Name)
	assert.Equal(t, "property", b.Kind)

	var ext *TypeMetadata
	for i := range doc.Types {
		if doc.Types[i].Synthetic {
			ext = &doc.Types[i]
		}
	}
	require.NotNil(t, ext)
	require.Len(t, ext.Members.Methods, 1)
	assert.Equal(t, "synthesized", ext.Members.Methods[0].Provenance)
	assert.True(t, strings.HasPrefix(ext.Members.Methods[0].SourceID, "Lib:App.Util::First"))
}

func TestEmit_Deterministic(t *testing.T) {
	first, _ := generate(t, nil)
	second, _ := generate(t, nil)
	require.Equal(t, first.Paths(), second.Paths())
	for _, p := range first.Paths() {
		assert.Equal(t, string(first.Files[p]), string(second.Files[p]), p)
	}
}

func TestEmit_Facade(t *testing.T) {
	p := policy.Default()
	p.Emission.Mode = policy.ModeFacade
	out, _ := generate(t, p)

	assert.NotContains(t, out.Paths(), "App/index.d.ts")
	index := string(out.Files["index.d.ts"])
	assert.Contains(t, index, "export declare namespace App {\n")
	assert.Contains(t, index, "    export class Derived extends Core.Base {")
	assert.Contains(t, index, `import type { ptr, ref } from "./_support/types";`)
}

func TestEmit_ExplicitInterfacesWhenNotInlined(t *testing.T) {
	p := policy.Default()
	p.Interfaces.InlineAll = false
	out, _ := generate(t, p)
	app := string(out.Files["App/index.d.ts"])
	assert.Contains(t, app, "export class Derived extends Core.Base implements IDisposable {")
	assert.Contains(t, app, `import type { IDisposable } from "../Core/index";`)
}

func TestOutput_WriteAndCompare(t *testing.T) {
	out, _ := generate(t, nil)
	existing := t.TempDir()
	fresh := t.TempDir()
	require.NoError(t, out.WriteTo(existing))
	require.NoError(t, out.WriteTo(fresh))

	res, err := CompareDirectories(fresh, existing)
	require.NoError(t, err)
	assert.True(t, res.UpToDate)

	require.NoError(t, os.WriteFile(filepath.Join(existing, "App", "index.d.ts"), []byte("changed\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(existing, "old.d.ts"), []byte("x\n"), 0644))
	require.NoError(t, os.Remove(filepath.Join(existing, "renames.json")))

	res, err = CompareDirectories(fresh, existing)
	require.NoError(t, err)
	assert.False(t, res.UpToDate)
	assert.Equal(t, []string{"App/index.d.ts", "old.d.ts (stale)", "renames.json (missing)"}, res.Differences)
}

func TestCompareDirectories_IgnoresGeneratorHeader(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(a, "x.d.ts"), []byte("// Generated by tsbindgen 1.0.0. Do not edit.\nexport class A {}\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(b, "x.d.ts"), []byte("// Generated by tsbindgen 0.9.0. Do not edit.\nexport class A {}\n"), 0644))

	res, err := CompareDirectories(a, b)
	require.NoError(t, err)
	assert.True(t, res.UpToDate)
}
