package policy

import "github.com/spf13/viper"

// Default policy values
const (
	DefaultHiddenMemberSuffix = "_new"
	DefaultIndexerMethodName  = "Item"
)

// SetDefaults configures default values for every policy option
func SetDefaults(v *viper.Viper) {
	v.SetDefault("interfaces.inline_all", true)
	v.SetDefault("interfaces.diamond_resolution", DiamondOverloads)

	v.SetDefault("classes.keep_extends", true)
	v.SetDefault("classes.hidden_member_suffix", DefaultHiddenMemberSuffix)
	v.SetDefault("classes.synthesize_explicit_impl", true)

	v.SetDefault("indexers.emit_property_when_single", true)
	v.SetDefault("indexers.emit_methods_when_multiple", true)
	v.SetDefault("indexers.method_name", DefaultIndexerMethodName)

	v.SetDefault("constraints.strict_closure", false)
	v.SetDefault("constraints.merge_strategy", MergeIntersection)

	v.SetDefault("emission.name_transform", TransformNone)
	v.SetDefault("emission.sort_order", SortAlphabetical)
	v.SetDefault("emission.emit_doc_comments", true)
	v.SetDefault("emission.mode", ModeNamespaced)

	v.SetDefault("diagnostics.fail_on", []string{})
	v.SetDefault("diagnostics.warn_on", []string{})

	v.SetDefault("renaming.static_conflict", StaticAnalyze)
	v.SetDefault("renaming.hidden_new", HiddenSuffix)
	v.SetDefault("renaming.allow_static_member_rename", false)
}

// Default returns the policy with every default applied.
func Default() *Policy {
	v := viper.New()
	SetDefaults(v)
	p, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode
		panic(err)
	}
	return p
}
