package contract

import (
	"github.com/Masterminds/semver/v3"

	"github.com/teranos/tsbindgen/diag"
	"github.com/teranos/tsbindgen/model"
)

// FilterGraph keeps only the types and members the contract allows. Each
// member collection is filtered on its own, and namespaces left without
// types disappear. Members must already carry identities (model.Normalize).
func FilterGraph(g *model.SymbolGraph, c *Contract) *model.SymbolGraph {
	filtered := g.Transform(func(t *model.TypeSymbol) *model.TypeSymbol {
		if !c.AllowsType(t.ID.String()) {
			return nil
		}
		m := &t.Members
		m.Constructors = keep(m.Constructors, c)
		m.Methods = keep(m.Methods, c)
		m.Properties = keep(m.Properties, c)
		m.Fields = keep(m.Fields, c)
		m.Events = keep(m.Events, c)
		return t
	})

	namespaces := make([]*model.NamespaceSymbol, 0, len(filtered.Namespaces))
	for _, ns := range filtered.Namespaces {
		if len(ns.Types) > 0 {
			namespaces = append(namespaces, ns)
		}
	}
	return model.NewGraph(namespaces)
}

func keep[M model.Member](members []M, c *Contract) []M {
	out := members[:0]
	for _, m := range members {
		if c.AllowsMember(m.Info().ID.String()) {
			out = append(out, m)
		}
	}
	return out
}

// CheckVersion reports TBG7002 when the contract was written by a generator
// outside the current ^major.minor line.
func CheckVersion(c *Contract, current *semver.Version, diags *diag.Collector) {
	if c.GeneratorVersion == "" {
		return
	}
	written, err := semver.NewVersion(c.GeneratorVersion)
	if err != nil {
		diags.Report(diag.BindingAmbiguity, "",
			"contract generator version %q is not a semantic version", c.GeneratorVersion)
		return
	}
	constraint, err := semver.NewConstraint("^" + semver.New(written.Major(), written.Minor(), 0, "", "").String())
	if err != nil {
		return
	}
	if !constraint.Check(current) {
		diags.Report(diag.BindingAmbiguity, "",
			"contract written by generator %s, current generator %s is outside %s",
			written, current, constraint)
	}
}
