package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/model"
)

func sampleGraph() *model.SymbolGraph {
	str := model.Named("System.Private.CoreLib", "System.String")
	widget := &model.TypeSymbol{
		ID: model.StableID{AssemblyName: "Lib", FullName: "Lib.Widget"}, Namespace: "Lib", Name: "Widget",
		Members: model.MemberCollection{
			Methods:    []*model.MethodSymbol{{MemberInfo: model.MemberInfo{Name: "Run"}}, {MemberInfo: model.MemberInfo{Name: "Stop"}}},
			Properties: []*model.PropertySymbol{{MemberInfo: model.MemberInfo{Name: "Name"}, Type: str}},
			Fields:     []*model.FieldSymbol{{MemberInfo: model.MemberInfo{Name: "Count"}, Type: str}},
		},
	}
	hidden := &model.TypeSymbol{ID: model.StableID{AssemblyName: "Lib", FullName: "Lib.Hidden"}, Namespace: "Lib", Name: "Hidden"}
	internal := &model.TypeSymbol{ID: model.StableID{AssemblyName: "Lib", FullName: "Lib.Internal.Helper"}, Namespace: "Lib.Internal", Name: "Helper"}
	g := model.NewGraph([]*model.NamespaceSymbol{
		{Name: "Lib", Types: []*model.TypeSymbol{widget, hidden}},
		{Name: "Lib.Internal", Types: []*model.TypeSymbol{internal}},
	})
	return model.Normalize(g, diag.NewCollector())
}

func TestFilterGraph(t *testing.T) {
	g := sampleGraph()
	c := New("", []string{"Lib:Lib.Widget"}, []string{
		"Lib:Lib.Widget::Run():System.Void",
		"Lib:Lib.Widget::Name:System.String",
	})

	out := FilterGraph(g, c)

	require.Len(t, out.Namespaces, 1, "empty namespace dropped")
	assert.Equal(t, "Lib", out.Namespaces[0].Name)
	require.Len(t, out.Namespaces[0].Types, 1)

	w := out.Namespaces[0].Types[0]
	require.Len(t, w.Members.Methods, 1)
	assert.Equal(t, "Run", w.Members.Methods[0].Name)
	assert.Len(t, w.Members.Properties, 1)
	assert.Empty(t, w.Members.Fields, "collections filter independently")

	assert.Equal(t, 3, g.TypeCount(), "input graph untouched")
}

func TestLoad_TOMLAndJSON(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "contract.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
generator_version = "0.9.1"
types = ["Lib:Lib.Widget"]
members = ["Lib:Lib.Widget::Run():System.Void"]
`), 0644))

	c, err := Load(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, "0.9.1", c.GeneratorVersion)
	assert.True(t, c.AllowsType("Lib:Lib.Widget"))
	assert.True(t, c.AllowsMember("Lib:Lib.Widget::Run():System.Void"))

	jsonPath := filepath.Join(dir, "contract.json")
	require.NoError(t, c.Save(jsonPath))
	again, err := Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, c.Types, again.Types)

	emptyPath := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyPath, []byte(`{"types": []}`), 0644))
	_, err = Load(emptyPath)
	assert.Error(t, err)
}

func TestFromMetadata(t *testing.T) {
	dir := t.TempDir()
	nsDir := filepath.Join(dir, "Lib")
	require.NoError(t, os.MkdirAll(nsDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(nsDir, "metadata.json"), []byte(`{
  "namespace": "Lib",
  "generatorVersion": "0.9.0",
  "types": [
    {"stableId": "Lib:Lib.Widget", "name": "Widget", "kind": "class",
     "members": {"methods": [{"stableId": "Lib:Lib.Widget::Run():System.Void"}], "properties": [], "fields": [], "events": []}}
  ]
}`), 0644))

	paths, err := MetadataFiles(dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	c, err := FromMetadata(paths)
	require.NoError(t, err)
	assert.Equal(t, "0.9.0", c.GeneratorVersion)
	assert.Equal(t, []string{"Lib:Lib.Widget"}, c.Types)
	assert.True(t, c.AllowsMember("Lib:Lib.Widget::Run():System.Void"))
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		written, current string
		mismatch         bool
	}{
		{"0.9.0", "0.9.4", false},
		{"0.9.3", "0.10.0", true},
		{"1.2.0", "1.5.0", false},
		{"1.2.0", "2.0.0", true},
		{"", "3.0.0", false},
	}
	for _, tt := range tests {
		diags := diag.NewCollector()
		CheckVersion(New(tt.written, []string{"x"}, nil), semver.MustParse(tt.current), diags)
		assert.Equal(t, tt.mismatch, diags.Has(diag.BindingAmbiguity), "%s vs %s", tt.written, tt.current)
	}
}
