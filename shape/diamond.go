package shape

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/logger"
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/policy"
)

// ResolveDiamonds handles members that two interfaces contribute under one
// name with incompatible shapes: methods with the same parameters but a
// different return type, or properties and events of different types. Every
// such conflict raises TBG3001. "overloads" keeps all methods as overloads;
// "first-wins" and "error" keep the first contributor only ("error" reports
// at error severity). Properties and events cannot overload, so only the
// first is ever kept.
func ResolveDiamonds(g *model.SymbolGraph, env *Env, log *zap.SugaredLogger) *model.SymbolGraph {
	strategy := env.Policy.Interfaces.DiamondResolution
	severity := diag.DiamondInheritance.DefaultSeverity()
	if strategy == policy.DiamondError {
		severity = diag.SevError
	}

	return g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		drop := make(map[model.Member]bool)

		var order []string
		methods := make(map[string][]*model.MethodSymbol)
		for _, m := range t.Members.Methods {
			if m.Provenance != model.FromInterface {
				continue
			}
			key := paramKey(m, nil)
			if _, ok := methods[key]; !ok {
				order = append(order, key)
			}
			methods[key] = append(methods[key], m)
		}
		for _, key := range order {
			group := methods[key]
			if len(group) < 2 {
				continue
			}
			members := make([]model.Member, len(group))
			for i, m := range group {
				members[i] = m
			}
			env.Diags.ReportWith(severity, diag.DiamondInheritance, t.ID.String(),
				"%s is contributed with different return types by %s; strategy %s",
				group[0].Name, contributors(members), strategy)

			for i, m := range group {
				m.Provenance = model.DiamondResolved
				if i > 0 && strategy != policy.DiamondOverloads {
					drop[m] = true
				}
			}
		}

		valueGroups := make(map[string][]model.Member)
		var names []string
		collect := func(m model.Member) {
			if m.Info().Provenance != model.FromInterface {
				return
			}
			name := m.Info().Name
			if _, ok := valueGroups[name]; !ok {
				names = append(names, name)
			}
			valueGroups[name] = append(valueGroups[name], m)
		}
		for _, p := range t.Members.Properties {
			if !p.IsIndexer() {
				collect(p)
			}
		}
		for _, e := range t.Members.Events {
			collect(e)
		}
		for _, name := range names {
			group := valueGroups[name]
			if len(group) < 2 {
				continue
			}
			env.Diags.ReportWith(severity, diag.DiamondInheritance, t.ID.String(),
				"%s is contributed with different types by %s; keeping the first", name, contributors(group))
			for i, m := range group {
				m.Info().Provenance = model.DiamondResolved
				if i > 0 {
					drop[m] = true
				}
			}
		}

		if len(drop) > 0 {
			removeMembers(&t.Members, func(m model.Member) bool { return drop[m] })
			log.Debugw("dropped diamond members", logger.FieldType, t.ID.String(), logger.FieldCount, len(drop))
		}
		return t
	})
}

func contributors(members []model.Member) string {
	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.Info().SourceInterface.FullName)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
