// Package policy holds GenerationPolicy, the immutable configuration value
// every shaping and renaming decision is traced back to.
package policy

// Policy is the generation policy. It is built once (Load, Default) and
// handed down the pipeline by pointer; nothing writes to it afterwards.
type Policy struct {
	Interfaces  InterfacesPolicy  `mapstructure:"interfaces" toml:"interfaces"`
	Classes     ClassesPolicy     `mapstructure:"classes" toml:"classes"`
	Indexers    IndexersPolicy    `mapstructure:"indexers" toml:"indexers"`
	Constraints ConstraintsPolicy `mapstructure:"constraints" toml:"constraints"`
	Emission    EmissionPolicy    `mapstructure:"emission" toml:"emission"`
	Diagnostics DiagnosticsPolicy `mapstructure:"diagnostics" toml:"diagnostics"`
	Renaming    RenamingPolicy    `mapstructure:"renaming" toml:"renaming"`
}

// Diamond resolution strategies
const (
	DiamondOverloads = "overloads"
	DiamondFirstWins = "first-wins"
	DiamondError     = "error"
)

// InterfacesPolicy controls interface inlining and diamond resolution
type InterfacesPolicy struct {
	InlineAll         bool   `mapstructure:"inline_all" toml:"inline_all"`
	DiamondResolution string `mapstructure:"diamond_resolution" toml:"diamond_resolution"`
}

// ClassesPolicy controls class surfaces
type ClassesPolicy struct {
	KeepExtends            bool   `mapstructure:"keep_extends" toml:"keep_extends"`
	HiddenMemberSuffix     string `mapstructure:"hidden_member_suffix" toml:"hidden_member_suffix"`
	SynthesizeExplicitImpl bool   `mapstructure:"synthesize_explicit_impl" toml:"synthesize_explicit_impl"`
}

// IndexersPolicy controls indexer planning
type IndexersPolicy struct {
	EmitPropertyWhenSingle  bool   `mapstructure:"emit_property_when_single" toml:"emit_property_when_single"`
	EmitMethodsWhenMultiple bool   `mapstructure:"emit_methods_when_multiple" toml:"emit_methods_when_multiple"`
	MethodName              string `mapstructure:"method_name" toml:"method_name"`
}

// Constraint merge strategies
const (
	MergeIntersection = "intersection"
	MergeFirst        = "first"
)

// ConstraintsPolicy controls generic constraint closure
type ConstraintsPolicy struct {
	StrictClosure bool   `mapstructure:"strict_closure" toml:"strict_closure"`
	MergeStrategy string `mapstructure:"merge_strategy" toml:"merge_strategy"`
}

// Name transforms
const (
	TransformNone   = "none"
	TransformCamel  = "camelCase"
	TransformPascal = "pascalCase"
)

// Sort orders
const (
	SortAlphabetical = "alphabetical"
	SortDeclaration  = "declaration"
)

// Output modes
const (
	ModeNamespaced = "namespaced"
	ModeFacade     = "facade"
)

// EmissionPolicy controls printing
type EmissionPolicy struct {
	NameTransform   string `mapstructure:"name_transform" toml:"name_transform"`
	SortOrder       string `mapstructure:"sort_order" toml:"sort_order"`
	EmitDocComments bool   `mapstructure:"emit_doc_comments" toml:"emit_doc_comments"`
	Mode            string `mapstructure:"mode" toml:"mode"`
}

// DiagnosticsPolicy lists codes that fail the build or are raised to warnings
type DiagnosticsPolicy struct {
	FailOn []string `mapstructure:"fail_on" toml:"fail_on"`
	WarnOn []string `mapstructure:"warn_on" toml:"warn_on"`
}

// Static conflict handling
const (
	StaticAnalyze = "analyze"
	StaticRename  = "rename"
)

// Hidden-member handling
const (
	HiddenSuffix = "suffix"
	HiddenNone   = "none"
)

// ExplicitRename overrides the name of one identity. ID is a type identity
// ("Asm:Ns.Type"), a member identity ("Asm:Ns.Type::Sig") or a member name
// on a type ("Asm:Ns.Type::Name", all overloads).
type ExplicitRename struct {
	ID   string `mapstructure:"id" toml:"id"`
	Name string `mapstructure:"name" toml:"name"`
}

// RenamingPolicy controls the renamer
type RenamingPolicy struct {
	StaticConflict          string           `mapstructure:"static_conflict" toml:"static_conflict"`
	HiddenNew               string           `mapstructure:"hidden_new" toml:"hidden_new"`
	ExplicitMap             []ExplicitRename `mapstructure:"explicit_map" toml:"explicit_map"`
	AllowStaticMemberRename bool             `mapstructure:"allow_static_member_rename" toml:"allow_static_member_rename"`
}

// Explicit returns the explicit map keyed by identity. Later entries win.
func (r RenamingPolicy) Explicit() map[string]string {
	out := make(map[string]string, len(r.ExplicitMap))
	for _, e := range r.ExplicitMap {
		out[e.ID] = e.Name
	}
	return out
}

// HiddenSuffix returns the suffix appended to hidden members, or "" when
// hidden members keep their name.
func (p *Policy) HiddenSuffix() string {
	if p.Renaming.HiddenNew == HiddenNone {
		return ""
	}
	return p.Classes.HiddenMemberSuffix
}

// StaticRenameAllowed reports whether static-side conflicts may be renamed.
func (p *Policy) StaticRenameAllowed() bool {
	return p.Renaming.StaticConflict == StaticRename && p.Renaming.AllowStaticMemberRename
}
