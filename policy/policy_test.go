package policy

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/tsbindgen/errors"
)

func TestDefault(t *testing.T) {
	p := Default()

	assert.True(t, p.Interfaces.InlineAll)
	assert.Equal(t, DiamondOverloads, p.Interfaces.DiamondResolution)
	assert.Equal(t, "_new", p.Classes.HiddenMemberSuffix)
	assert.Equal(t, "Item", p.Indexers.MethodName)
	assert.True(t, p.Indexers.EmitPropertyWhenSingle)
	assert.Equal(t, TransformNone, p.Emission.NameTransform)
	assert.Equal(t, ModeNamespaced, p.Emission.Mode)
	assert.Equal(t, StaticAnalyze, p.Renaming.StaticConflict)
	assert.Equal(t, "_new", p.HiddenSuffix())
	assert.False(t, p.StaticRenameAllowed())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Policy)
		wantErr bool
	}{
		{"defaults", func(p *Policy) {}, false},
		{"unknown diamond strategy", func(p *Policy) { p.Interfaces.DiamondResolution = "merge" }, true},
		{"unknown mode", func(p *Policy) { p.Emission.Mode = "flat" }, true},
		{"empty indexer method name", func(p *Policy) { p.Indexers.MethodName = "" }, true},
		{"empty suffix with suffix mode", func(p *Policy) { p.Classes.HiddenMemberSuffix = "" }, true},
		{"empty suffix with hidden none", func(p *Policy) {
			p.Classes.HiddenMemberSuffix = ""
			p.Renaming.HiddenNew = HiddenNone
		}, false},
		{"bad fail-on code", func(p *Policy) { p.Diagnostics.FailOn = []string{"E42"} }, true},
		{"good fail-on code", func(p *Policy) { p.Diagnostics.FailOn = []string{"TBG3001"} }, false},
		{"duplicate explicit rename", func(p *Policy) {
			p.Renaming.ExplicitMap = []ExplicitRename{{ID: "A:T", Name: "X"}, {ID: "A:T", Name: "Y"}}
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errors.ErrInvalidPolicy))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHiddenSuffixNone(t *testing.T) {
	p := Default()
	p.Renaming.HiddenNew = HiddenNone
	assert.Equal(t, "", p.HiddenSuffix())
}

const sampleTOML = `
[interfaces]
diamond_resolution = "first-wins"

[emission]
name_transform = "camelCase"
mode = "facade"

[diagnostics]
fail_on = ["TBG3001", "TBG4003"]

[[renaming.explicit_map]]
id = "Lib:Lib.Widget"
name = "Gadget"

[[renaming.explicit_map]]
id = "Lib:Lib.Widget::Run"
name = "execute"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, sampleTOML)

	p, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, DiamondFirstWins, p.Interfaces.DiamondResolution)
	assert.Equal(t, TransformCamel, p.Emission.NameTransform)
	assert.Equal(t, ModeFacade, p.Emission.Mode)
	assert.Equal(t, []string{"TBG3001", "TBG4003"}, p.Diagnostics.FailOn)
	assert.True(t, p.Interfaces.InlineAll, "unset keys keep defaults")
	assert.Equal(t, map[string]string{
		"Lib:Lib.Widget":      "Gadget",
		"Lib:Lib.Widget::Run": "execute",
	}, p.Renaming.Explicit())
}

func TestLoadFromFile_Invalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, "[emission]\nsort_order = \"random\"\n")
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidPolicy))
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), FileName, sampleTOML)
	t.Setenv("TSBINDGEN_EMISSION_SORT_ORDER", "declaration")

	p, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, SortDeclaration, p.Emission.SortOrder)
}

func TestLoadWithViper_Isolated(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("indexers.method_name", "At")

	p, err := LoadWithViper(v)
	require.NoError(t, err)
	assert.Equal(t, "At", p.Indexers.MethodName)
}

func TestFindUpward(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, FileName, "")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	assert.Equal(t, path, findUpward(nested))
}

func TestSave_RoundTripWithBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	p := Default()
	p.Emission.Mode = ModeFacade
	p.Renaming.ExplicitMap = []ExplicitRename{{ID: "A:Ns.T", Name: "Tee"}}
	require.NoError(t, Save(p, path))
	require.NoError(t, Save(p, path))

	_, err := os.Stat(path + ".back1")
	assert.NoError(t, err, "second save backs up the first")

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, ModeFacade, loaded.Emission.Mode)
	assert.Equal(t, "Tee", loaded.Renaming.Explicit()["A:Ns.T"])
}

func TestWatcher_DebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "")

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	w.debouncePeriod = 20 * time.Millisecond

	fired := make(chan []string, 4)
	w.OnChange(func(changed []string) { fired <- changed })
	w.Start()
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("[emission]\n"), 0644))
	require.NoError(t, os.WriteFile(path+".back1", []byte("x"), 0644))

	select {
	case changed := <-fired:
		assert.Equal(t, []string{path}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not report the change")
	}
}
