package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
)

const graph = `
assembly: Lib
namespaces:
  - name: Lib
    types:
      - name: Widget
        methods:
          - {name: Run, returns: System.Int32}
`

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitOutdated, ExitCode(errors.Wrap(ErrOutOfDate, "types")))
	assert.Equal(t, ExitError, ExitCode(errors.ErrNotFound))
}

func TestGenerateThenCheck(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "lib.yaml")
	require.NoError(t, os.WriteFile(input, []byte(graph), 0644))
	policyPath := filepath.Join(dir, policy.FileName)
	require.NoError(t, policy.Save(policy.Default(), policyPath))
	out := filepath.Join(dir, "types")

	root := &cobra.Command{Use: "tsbindgen", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().CountP("verbose", "v", "")
	root.PersistentFlags().StringP("policy", "p", "", "")
	root.AddCommand(GenerateCmd, CheckCmd)

	run := func(args ...string) error {
		root.SetArgs(args)
		return root.Execute()
	}

	require.NoError(t, run("generate", input, "-o", out, "-p", policyPath))
	decl, err := os.ReadFile(filepath.Join(out, "Lib", "index.d.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(decl), "Run(): number;")

	require.NoError(t, run("check", input, "-o", out, "-p", policyPath))

	require.NoError(t, os.WriteFile(filepath.Join(out, "Lib", "index.d.ts"), []byte("stale\n"), 0644))
	err = run("check", input, "-o", out, "-p", policyPath)
	assert.ErrorIs(t, err, ErrOutOfDate)

	err = run("generate", input, "-o", out, "-p", policyPath, "--mode", "bogus")
	assert.ErrorIs(t, err, errors.ErrInvalidPolicy)
}

func TestFormatDiagnostics_PlainWithoutColor(t *testing.T) {
	items := []diag.Diagnostic{{Code: diag.UnresolvedType, Severity: diag.SevWarning, Message: "gone", Location: "Lib:Ns.T"}}
	plain := formatDiagnostics(items, false)
	assert.Equal(t, diag.FormatPlain(items), plain)
	assert.NotContains(t, plain, "\x1b[")
}

func TestWriteGraph(t *testing.T) {
	thing := &model.TypeSymbol{
		ID:        model.StableID{AssemblyName: "Lib", FullName: "Ns.Thing"},
		Namespace: "Ns",
		Name:      "Thing",
	}
	thing.Members.Methods = []*model.MethodSymbol{{MemberInfo: model.MemberInfo{
		Name: "Run",
		ID:   model.MemberStableID{AssemblyName: "Lib", DeclaringFullName: "Ns.Thing", MemberName: "Run", CanonicalSignature: "Run():System.Void"},
	}}}
	g := model.NewGraph([]*model.NamespaceSymbol{{Name: "Ns", Types: []*model.TypeSymbol{thing}}})

	var buf bytes.Buffer
	writeGraph(&buf, "names", g)
	out := buf.String()
	assert.Contains(t, out, "== graph-dump after names (1 types)")
	assert.Contains(t, out, "class Lib:Ns.Thing")
	assert.Contains(t, out, "  Lib:Ns.Thing::Run():System.Void [original, ")

	assert.Nil(t, graphDumper(3))
	assert.NotNil(t, graphDumper(4))
}
