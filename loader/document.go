// Package loader decodes graph documents into a SymbolGraph.
//
// A graph document is YAML (JSON also decodes) describing the types of one
// assembly:
//
//	assembly: Lib
//	namespaces:
//	  - name: App
//	    types:
//	      - name: Box
//	        kind: class
//	        generics: [T]
//	        base: Core.Base
//	        methods:
//	          - name: Get
//	            params: [{name: index, type: System.Int32}]
//	            returns: "!0"
//
// Type references use a compact CLR-style syntax:
//
//	Ns.List`1[System.String]   closed generic
//	!0 / !!0                   type / method generic parameter by position
//	T                          generic parameter by name, when declared in scope
//	T[]  T[,]  T*  T&          array, rank-2 array, pointer, by-ref
//	Outer+Inner                nested type
//	Asm:Ns.Name                reference pinned to an assembly
//
// Loading runs in two passes. The first decodes every document and turns each
// named reference into a Placeholder. The second backfills placeholders from
// the full set of loaded types; whatever stays unresolved is left for
// model.Normalize to degrade.
package loader

import (
	"gopkg.in/yaml.v3"

	"github.com/teranos/tsbindgen/errors"
)

// Document is one decoded graph document.
type Document struct {
	Source     string         `yaml:"-"`
	Assembly   string         `yaml:"assembly"`
	Namespaces []NamespaceDoc `yaml:"namespaces"`
}

// NamespaceDoc lists the top-level types of one namespace.
type NamespaceDoc struct {
	Name  string    `yaml:"name"`
	Types []TypeDoc `yaml:"types"`
}

// TypeDoc describes one type definition.
type TypeDoc struct {
	Name       string       `yaml:"name"`
	Kind       string       `yaml:"kind"`
	Visibility string       `yaml:"visibility,omitempty"`
	Abstract   bool         `yaml:"abstract,omitempty"`
	Sealed     bool         `yaml:"sealed,omitempty"`
	Static     bool         `yaml:"static,omitempty"`
	ValueType  bool         `yaml:"valueType,omitempty"`
	Doc        string       `yaml:"doc,omitempty"`
	Generics   []GenericDoc `yaml:"generics,omitempty"`
	Base       string       `yaml:"base,omitempty"`
	Interfaces []string     `yaml:"interfaces,omitempty"`

	Constructors []ConstructorDoc `yaml:"constructors,omitempty"`
	Methods      []MethodDoc      `yaml:"methods,omitempty"`
	Properties   []PropertyDoc    `yaml:"properties,omitempty"`
	Fields       []FieldDoc       `yaml:"fields,omitempty"`
	Events       []EventDoc       `yaml:"events,omitempty"`
	Nested       []TypeDoc        `yaml:"nested,omitempty"`
}

// GenericDoc declares a generic parameter. A bare string is shorthand for a
// parameter without constraints.
type GenericDoc struct {
	Name        string   `yaml:"name"`
	Constraints []string `yaml:"constraints,omitempty"`
}

// UnmarshalYAML accepts either "T" or {name: T, constraints: [...]}.
func (g *GenericDoc) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		g.Name = node.Value
		return nil
	}
	type plain GenericDoc
	return node.Decode((*plain)(g))
}

// MemberDoc holds the fields every member shares.
type MemberDoc struct {
	Name       string `yaml:"name"`
	Visibility string `yaml:"visibility,omitempty"`
	Static     bool   `yaml:"static,omitempty"`
	Doc        string `yaml:"doc,omitempty"`
	Token      int32  `yaml:"token,omitempty"`
	// Implements names the interface an explicit implementation belongs to.
	Implements string `yaml:"implements,omitempty"`
}

// ParamDoc is a method, constructor or indexer parameter.
type ParamDoc struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	Params   bool   `yaml:"params,omitempty"`
	Optional bool   `yaml:"optional,omitempty"`
}

// ConstructorDoc describes a constructor.
type ConstructorDoc struct {
	MemberDoc `yaml:",inline"`
	Params    []ParamDoc `yaml:"params,omitempty"`
}

// MethodDoc describes a method.
type MethodDoc struct {
	MemberDoc `yaml:",inline"`
	Generics  []GenericDoc `yaml:"generics,omitempty"`
	Params    []ParamDoc   `yaml:"params,omitempty"`
	Returns   string       `yaml:"returns,omitempty"`
	Virtual   bool         `yaml:"virtual,omitempty"`
	Abstract  bool         `yaml:"abstract,omitempty"`
	Override  bool         `yaml:"override,omitempty"`
	New       bool         `yaml:"new,omitempty"`
	Extension bool         `yaml:"extension,omitempty"`
}

// PropertyDoc describes a property or indexer.
type PropertyDoc struct {
	MemberDoc `yaml:",inline"`
	Type      string     `yaml:"type"`
	Index     []ParamDoc `yaml:"index,omitempty"`
	// Get defaults to true.
	Get      *bool `yaml:"get,omitempty"`
	Set      bool  `yaml:"set,omitempty"`
	Virtual  bool  `yaml:"virtual,omitempty"`
	Override bool  `yaml:"override,omitempty"`
	New      bool  `yaml:"new,omitempty"`
}

// FieldDoc describes a field or enum constant.
type FieldDoc struct {
	MemberDoc `yaml:",inline"`
	// Type defaults to the declaring enum for enum constants.
	Type     string `yaml:"type,omitempty"`
	ReadOnly bool   `yaml:"readonly,omitempty"`
	Const    bool   `yaml:"const,omitempty"`
	Value    string `yaml:"value,omitempty"`
	New      bool   `yaml:"new,omitempty"`
}

// EventDoc describes an event.
type EventDoc struct {
	MemberDoc `yaml:",inline"`
	Type      string `yaml:"type"`
	New       bool   `yaml:"new,omitempty"`
}

// Decode parses one graph document. source names it in errors.
func Decode(data []byte, source string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.NewInvalidInputf("failed to parse graph document %s: %v", source, err)
	}
	if doc.Assembly == "" {
		return nil, errors.WithHint(
			errors.NewInvalidInputf("graph document %s has no assembly", source),
			"add a top-level 'assembly:' key")
	}
	doc.Source = source
	return &doc, nil
}
