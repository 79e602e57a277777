package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
)

const widgets = `
assembly: Lib
namespaces:
  - name: Lib
    types:
      - name: Widget
        properties:
          - {name: Name, type: System.String}
        methods:
          - name: Run
          - name: Stop
      - name: Gadget
        interfaces: [Lib.IMissing]
`

func writeInput(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "lib.yaml"), []byte(content), 0644))
	return dir
}

func TestRun(t *testing.T) {
	res, err := Run(context.Background(), Options{Inputs: []string{writeInput(t, widgets)}})
	require.NoError(t, err)

	assert.NotEmpty(t, res.BuildID)
	assert.Equal(t, 2, res.Types)
	assert.NotEmpty(t, res.Passes)
	assert.Contains(t, res.Output.Paths(), "Lib/index.d.ts")
	decl := string(res.Output.Files["Lib/index.d.ts"])
	assert.Contains(t, decl, "export class Widget {")
	assert.Contains(t, decl, "    Run(): void;")

	var codes []diag.Code
	for _, d := range res.Diagnostics {
		codes = append(codes, d.Code)
	}
	assert.Contains(t, codes, diag.UnresolvedType)
}

func TestRun_FailOnStillReturnsOutput(t *testing.T) {
	p := policy.Default()
	p.Diagnostics.FailOn = []string{string(diag.UnresolvedType)}

	res, err := Run(context.Background(), Options{Inputs: []string{writeInput(t, widgets)}, Policy: p})
	require.Error(t, err)
	assert.True(t, errors.IsBuildFailed(err))
	require.NotNil(t, res)
	assert.Contains(t, res.Output.Paths(), "Lib/index.d.ts")
}

func TestRun_InvalidPolicy(t *testing.T) {
	p := policy.Default()
	p.Emission.SortOrder = "random"
	_, err := Run(context.Background(), Options{Inputs: []string{writeInput(t, widgets)}, Policy: p})
	assert.ErrorIs(t, err, errors.ErrInvalidPolicy)
}

func TestRun_MissingInput(t *testing.T) {
	_, err := Run(context.Background(), Options{Inputs: []string{filepath.Join(t.TempDir(), "nope.yaml")}})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestContractFromPreviousBuild(t *testing.T) {
	first, err := Run(context.Background(), Options{Inputs: []string{writeInput(t, widgets)}})
	require.NoError(t, err)
	previous := t.TempDir()
	require.NoError(t, WriteOutput(first.Output, previous))

	grown := widgets + `
      - name: Sprocket
        methods:
          - name: Spin
`
	second, err := Run(context.Background(), Options{
		Inputs:   []string{writeInput(t, grown)},
		Contract: previous,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Types)
	assert.NotContains(t, string(second.Output.Files["Lib/index.d.ts"]), "Sprocket")
}

func TestWriteOutput_RefusesForeignDirectory(t *testing.T) {
	res, err := Run(context.Background(), Options{Inputs: []string{writeInput(t, widgets)}})
	require.NoError(t, err)

	dir := t.TempDir()
	keep := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(keep, []byte("mine"), 0644))

	err = WriteOutput(res.Output, dir)
	assert.True(t, errors.IsInvalidInputError(err))
	_, statErr := os.Stat(keep)
	assert.NoError(t, statErr)
}

func TestLoadContract_NotFound(t *testing.T) {
	_, err := LoadContract(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestGenerate_FromGraph(t *testing.T) {
	thing := &model.TypeSymbol{
		ID:          model.StableID{AssemblyName: "A", FullName: "N.Thing"},
		ClrFullName: "N.Thing",
		Namespace:   "N",
		Name:        "Thing",
	}
	g := model.NewGraph([]*model.NamespaceSymbol{{Name: "N", Types: []*model.TypeSymbol{thing}}})

	res, err := Generate(context.Background(), g, nil, nil)
	require.NoError(t, err)
	assert.Contains(t, string(res.Output.Files["N/index.d.ts"]), "export class Thing {\n}")
}

func TestWriteOutputAndCheck(t *testing.T) {
	opts := Options{Inputs: []string{writeInput(t, widgets)}}
	res, err := Run(context.Background(), opts)
	require.NoError(t, err)

	out := t.TempDir()
	stale := filepath.Join(out, "Old", "index.d.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(out, "index.d.ts"), []byte("x"), 0644))

	require.NoError(t, WriteOutput(res.Output, out))
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))

	check, _, err := Check(context.Background(), opts, out)
	require.NoError(t, err)
	assert.True(t, check.UpToDate, check.Differences)

	require.NoError(t, os.WriteFile(filepath.Join(out, "Lib", "index.d.ts"), []byte("edited\n"), 0644))
	check, _, err = Check(context.Background(), opts, out)
	require.NoError(t, err)
	assert.False(t, check.UpToDate)
	assert.Equal(t, []string{"Lib/index.d.ts"}, check.Differences)
}

// extract writes every file of a txtar archive below a temp directory.
func extract(t *testing.T, archive string) string {
	t.Helper()
	ar, err := txtar.ParseFile(archive)
	require.NoError(t, err)
	dir := t.TempDir()
	for _, f := range ar.Files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f.Name), f.Data, 0644))
	}
	return dir
}

func TestRun_CrossAssemblyImports(t *testing.T) {
	dir := extract(t, filepath.Join("testdata", "two_assemblies.txtar"))

	res, err := Run(context.Background(), Options{Inputs: []string{dir}})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Types)
	assert.Empty(t, res.Diagnostics)

	app := string(res.Output.Files["App/index.d.ts"])
	assert.Contains(t, app, `import * as Core from "../Core/index";`)
	assert.Contains(t, app, "export class Derived extends Core.Base {")
	assert.Contains(t, app, `import type { Level } from "../Core/index";`)
	assert.Contains(t, app, "readonly Level: Level;")
}
