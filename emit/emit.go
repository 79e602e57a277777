// Package emit renders a shaped and planned graph to TypeScript declaration
// files plus the JSON documents that accompany them. Emit never changes the
// graph; every identifier it prints is read back from the renamer.
package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/tsbindgen/errors"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/plan"
	"github.com/teranos/tsbindgen/shape"
	"github.com/teranos/tsbindgen/version"
)

// Output file names.
const (
	ModuleFile   = "index.d.ts"
	MetadataFile = "metadata.json"
	BindingsFile = "bindings.json"
	RenamesFile  = "renames.json"
	IndexFile    = "index.d.ts"
)

// Output holds every generated file by slash-separated relative path.
type Output struct {
	Files map[string][]byte
}

// Paths returns the file paths in sorted order.
func (o *Output) Paths() []string {
	paths := make([]string, 0, len(o.Files))
	for p := range o.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteTo writes every file below dir, creating directories as needed.
func (o *Output) WriteTo(dir string) error {
	for _, p := range o.Paths() {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", p)
		}
		if err := os.WriteFile(full, o.Files[p], 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", p)
		}
	}
	return nil
}

// Emit renders g as laid out by pl.
func Emit(g *model.SymbolGraph, pl *plan.Plan, env *shape.Env) (*Output, error) {
	log := logger.ComponentLogger("emit")
	out := &Output{Files: make(map[string][]byte)}
	generator := "tsbindgen " + version.Version

	supportUsed := false
	if pl.Facade {
		text, used := facadeFile(g, pl, env, generator)
		out.Files[IndexFile] = []byte(text)
		supportUsed = used
	} else {
		for _, mod := range pl.Modules {
			text, used := moduleFile(g, mod, env, generator)
			out.Files[plan.ModuleDir(mod.Namespace)+"/"+ModuleFile] = []byte(text)
			supportUsed = supportUsed || used
		}
		out.Files[IndexFile] = []byte(barrelIndex(pl.Modules, env.Renamer, generator))
	}
	if supportUsed {
		out.Files[SupportPath] = []byte(supportPrelude(generator))
	}

	for _, mod := range pl.Modules {
		doc, bindings := buildMetadata(mod, env.Renamer, version.Version)
		dir := plan.ModuleDir(mod.Namespace)
		if err := putJSON(out, dir+"/"+MetadataFile, doc); err != nil {
			return nil, err
		}
		if err := putJSON(out, dir+"/"+BindingsFile, bindings); err != nil {
			return nil, err
		}
	}
	if err := putJSON(out, RenamesFile, env.Renamer.Decisions()); err != nil {
		return nil, err
	}

	log.Debugw("emitted", logger.FieldCount, len(out.Files))
	return out, nil
}

func putJSON(out *Output, path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", path)
	}
	out.Files[path] = append(data, '\n')
	return nil
}

// moduleFile renders the declaration file of one namespace module.
func moduleFile(g *model.SymbolGraph, mod *plan.Module, env *shape.Env, generator string) (string, bool) {
	printer := NewPrinter(NewGraphResolver(g, env.Renamer, mod, false))
	w := newDeclWriter(printer, env.Renamer, env.Policy, "")
	for i, t := range mod.Types {
		if i > 0 {
			w.sb.WriteByte('\n')
		}
		w.writeType(t)
	}

	var sb strings.Builder
	header(&sb, generator)
	sb.WriteString("// Namespace: " + displayNamespace(mod.Namespace) + "\n\n")
	imports := false
	if printer.UsesSupport() {
		sb.WriteString(`import type { ptr, ref } from "../_support/types";` + "\n")
		imports = true
	}
	for _, imp := range mod.Imports {
		if len(imp.Types) > 0 {
			names := make([]string, len(imp.Types))
			for i, ti := range imp.Types {
				names[i] = ti.Name
				if ti.Local != ti.Name {
					names[i] += " as " + ti.Local
				}
			}
			sb.WriteString(fmt.Sprintf("import type { %s } from %q;\n", strings.Join(names, ", "), imp.Path))
			imports = true
		}
		if imp.Alias != "" {
			sb.WriteString(fmt.Sprintf("import * as %s from %q;\n", imp.Alias, imp.Path))
			imports = true
		}
	}
	if imports {
		sb.WriteByte('\n')
	}
	sb.WriteString(w.sb.String())
	return sb.String(), printer.UsesSupport()
}

// facadeFile renders every module into one file of namespace blocks.
func facadeFile(g *model.SymbolGraph, pl *plan.Plan, env *shape.Env, generator string) (string, bool) {
	var body strings.Builder
	used := false
	for i, mod := range pl.Modules {
		if i > 0 {
			body.WriteByte('\n')
		}
		printer := NewPrinter(NewGraphResolver(g, env.Renamer, mod, true))
		indent := ""
		if mod.Namespace != "" {
			body.WriteString("export declare namespace " + qualify(mod.Namespace) + " {\n")
			indent = indentUnit
		}
		w := newDeclWriter(printer, env.Renamer, env.Policy, indent)
		for j, t := range mod.Types {
			if j > 0 {
				w.sb.WriteByte('\n')
			}
			w.writeType(t)
		}
		body.WriteString(w.sb.String())
		if mod.Namespace != "" {
			body.WriteString("}\n")
		}
		used = used || printer.UsesSupport()
	}

	var sb strings.Builder
	header(&sb, generator)
	sb.WriteByte('\n')
	if used {
		sb.WriteString(`import type { ptr, ref } from "./_support/types";` + "\n\n")
	}
	sb.WriteString(body.String())
	return sb.String(), used
}

func displayNamespace(ns string) string {
	if ns == "" {
		return "(global)"
	}
	return ns
}
