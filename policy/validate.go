package policy

import (
	"strings"

	"github.com/teranos/tsbindgen/errors"
)

// Validate checks that every enumerated option holds a known value
func (p *Policy) Validate() error {
	checks := []struct {
		key     string
		value   string
		allowed []string
	}{
		{"interfaces.diamond_resolution", p.Interfaces.DiamondResolution, []string{DiamondOverloads, DiamondFirstWins, DiamondError}},
		{"constraints.merge_strategy", p.Constraints.MergeStrategy, []string{MergeIntersection, MergeFirst}},
		{"emission.name_transform", p.Emission.NameTransform, []string{TransformNone, TransformCamel, TransformPascal}},
		{"emission.sort_order", p.Emission.SortOrder, []string{SortAlphabetical, SortDeclaration}},
		{"emission.mode", p.Emission.Mode, []string{ModeNamespaced, ModeFacade}},
		{"renaming.static_conflict", p.Renaming.StaticConflict, []string{StaticAnalyze, StaticRename}},
		{"renaming.hidden_new", p.Renaming.HiddenNew, []string{HiddenSuffix, HiddenNone}},
	}
	for _, c := range checks {
		if !contains(c.allowed, c.value) {
			return errors.WithHintf(
				errors.NewPolicyErrorf("%s: unknown value %q", c.key, c.value),
				"allowed values: %s", strings.Join(c.allowed, ", "))
		}
	}

	if p.Indexers.MethodName == "" {
		return errors.NewPolicyErrorf("indexers.method_name cannot be empty")
	}
	if p.Renaming.HiddenNew == HiddenSuffix && p.Classes.HiddenMemberSuffix == "" {
		return errors.WithHint(
			errors.NewPolicyErrorf("classes.hidden_member_suffix cannot be empty when renaming.hidden_new = %q", HiddenSuffix),
			`set renaming.hidden_new = "none" to keep hidden member names`)
	}

	for _, list := range [][]string{p.Diagnostics.FailOn, p.Diagnostics.WarnOn} {
		for _, code := range list {
			if !isDiagnosticCode(code) {
				return errors.NewPolicyErrorf("diagnostics: %q is not a TBGnnnn code", code)
			}
		}
	}

	seen := make(map[string]bool, len(p.Renaming.ExplicitMap))
	for _, e := range p.Renaming.ExplicitMap {
		if e.ID == "" || e.Name == "" {
			return errors.NewPolicyErrorf("renaming.explicit_map entries need both id and name")
		}
		if seen[e.ID] {
			return errors.NewPolicyErrorf("renaming.explicit_map: %q listed twice", e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func isDiagnosticCode(code string) bool {
	code = strings.TrimSpace(code)
	if len(code) != 7 || !strings.HasPrefix(code, "TBG") {
		return false
	}
	for _, r := range code[3:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
