package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teranos/tsbindgen/plan"
	"github.com/teranos/tsbindgen/renamer"
)

// SupportPath is the prelude declaring the pointer and by-ref wrappers.
const SupportPath = "_support/types.d.ts"

func header(sb *strings.Builder, generator string) {
	sb.WriteString("// Generated by " + generator + ". Do not edit.\n")
}

func supportPrelude(generator string) string {
	var sb strings.Builder
	header(&sb, generator)
	sb.WriteString(`
declare const __brand: unique symbol;

/** Unmanaged pointer. Opaque; T documents the pointee. */
export type ptr<T> = { readonly [__brand]: "ptr"; readonly __element?: T };

/** Managed reference (ref, out, in). Opaque; T documents the referenced type. */
export type ref<T> = { readonly [__brand]: "ref"; readonly __element?: T };
`)
	return sb.String()
}

// barrelIndex re-exports every namespace module under an alias reserved in
// the renamer.
func barrelIndex(modules []*plan.Module, r *renamer.Renamer, generator string) string {
	type entry struct{ alias, path string }
	entries := make([]entry, 0, len(modules))
	for _, m := range modules {
		alias := r.Reserve(renamer.Request{
			Scope:     renamer.ImportScope("<index>"),
			Key:       "ns:" + m.Namespace,
			Requested: strings.ReplaceAll(plan.ModuleDir(m.Namespace), ".", "_"),
			Kind:      renamer.AliasName,
			Reason:    "barrel export",
			Source:    "emit.index",
		})
		entries = append(entries, entry{alias: alias, path: "./" + plan.ModuleDir(m.Namespace) + "/index"})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].path < entries[j].path })

	var sb strings.Builder
	header(&sb, generator)
	sb.WriteByte('\n')
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("export * as %s from %q;\n", e.alias, e.path))
	}
	return sb.String()
}
