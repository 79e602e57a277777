package emit

import (
	"github.com/teranos/tsbindgen/model"
	"github.com/teranos/tsbindgen/plan"
	"github.com/teranos/tsbindgen/renamer"
	"github.com/teranos/tsbindgen/shape"
)

// NamespaceMetadata is the metadata.json document of one module. It is also
// the input contract.FromMetadata reads back.
type NamespaceMetadata struct {
	GeneratorVersion string         `json:"generatorVersion"`
	Namespace        string         `json:"namespace"`
	Types            []TypeMetadata `json:"types"`
}

// TypeMetadata describes one emitted type.
type TypeMetadata struct {
	StableID  string          `json:"stableId"`
	ClrName   string          `json:"clrName"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	Synthetic bool            `json:"synthetic,omitempty"`
	Members   MembersMetadata `json:"members"`
}

// MembersMetadata groups member entries by variant.
type MembersMetadata struct {
	Constructors []MemberMetadata `json:"constructors"`
	Methods      []MemberMetadata `json:"methods"`
	Properties   []MemberMetadata `json:"properties"`
	Fields       []MemberMetadata `json:"fields"`
	Events       []MemberMetadata `json:"events"`
}

// MemberMetadata describes one emitted member.
type MemberMetadata struct {
	StableID   string `json:"stableId"`
	ClrName    string `json:"clrName"`
	Name       string `json:"name"`
	Static     bool   `json:"static,omitempty"`
	Provenance string `json:"provenance"`
	EmitScope  string `json:"emitScope"`
	SourceID   string `json:"sourceId,omitempty"`
}

// Binding correlates an emitted member with the runtime member it calls.
type Binding struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	ClrName       string `json:"clrName"`
	Kind          string `json:"kind"`
	Static        bool   `json:"static,omitempty"`
	Target        string `json:"target,omitempty"`
	MetadataToken int32  `json:"metadataToken,omitempty"`
}

func memberKind(m model.Member) string {
	switch m.(type) {
	case *model.ConstructorSymbol:
		return "constructor"
	case *model.MethodSymbol:
		return "method"
	case *model.PropertySymbol:
		return "property"
	case *model.FieldSymbol:
		return "field"
	case *model.EventSymbol:
		return "event"
	}
	return "unknown"
}

// buildMetadata collects the metadata and bindings documents of mod.
func buildMetadata(mod *plan.Module, r *renamer.Renamer, version string) (NamespaceMetadata, map[string]Binding) {
	doc := NamespaceMetadata{
		GeneratorVersion: version,
		Namespace:        mod.Namespace,
		Types:            make([]TypeMetadata, 0, len(mod.Types)),
	}
	bindings := make(map[string]Binding)

	for _, t := range mod.Types {
		name, ok := r.GetFinalTypeName(t.ID.String())
		if !ok {
			name = renamer.TypeBaseName(t.ID.FullName)
		}
		tm := TypeMetadata{
			StableID:  t.ID.String(),
			ClrName:   t.ClrFullName,
			Name:      name,
			Kind:      t.Kind.String(),
			Synthetic: t.Synthetic,
			Members: MembersMetadata{
				Constructors: []MemberMetadata{},
				Methods:      []MemberMetadata{},
				Properties:   []MemberMetadata{},
				Fields:       []MemberMetadata{},
				Events:       []MemberMetadata{},
			},
		}

		for _, m := range plan.EmittedMembers(t) {
			info := m.Info()
			memberName := "constructor"
			if _, ctor := m.(*model.ConstructorSymbol); !ctor {
				if n, ok := r.GetFinalMemberName(shape.ScopeOf(t, m), shape.NameKey(t, m)); ok {
					memberName = n
				} else {
					memberName = shape.RequestedName(m)
				}
			}
			entry := MemberMetadata{
				StableID:   info.ID.String(),
				ClrName:    info.Name,
				Name:       memberName,
				Static:     info.IsStatic,
				Provenance: info.Provenance.String(),
				EmitScope:  info.EmitScope.String(),
			}
			if !info.SourceID.IsZero() {
				entry.SourceID = info.SourceID.String()
			}

			switch m.(type) {
			case *model.ConstructorSymbol:
				tm.Members.Constructors = append(tm.Members.Constructors, entry)
			case *model.MethodSymbol:
				tm.Members.Methods = append(tm.Members.Methods, entry)
			case *model.PropertySymbol:
				tm.Members.Properties = append(tm.Members.Properties, entry)
			case *model.FieldSymbol:
				tm.Members.Fields = append(tm.Members.Fields, entry)
			case *model.EventSymbol:
				tm.Members.Events = append(tm.Members.Events, entry)
			}

			b := Binding{
				Type:          t.ID.String(),
				Name:          memberName,
				ClrName:       info.Name,
				Kind:          memberKind(m),
				Static:        info.IsStatic,
				MetadataToken: info.ID.MetadataToken,
			}
			if !info.SourceID.IsZero() {
				b.Target = info.SourceID.String()
			}
			bindings[info.ID.String()] = b
		}
		doc.Types = append(doc.Types, tm)
	}
	return doc, bindings
}
