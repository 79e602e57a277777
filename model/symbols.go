package model

import "strings"

// TypeKind classifies a type definition.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindInterface
	KindEnum
	KindDelegate
	KindStruct
	// KindStaticNamespace is a static-only container (C# static class).
	KindStaticNamespace
)

var typeKindNames = []string{"class", "interface", "enum", "delegate", "struct", "static"}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "unknown"
}

// ParseTypeKind maps a kind name back to its value.
func ParseTypeKind(s string) (TypeKind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "staticnamespace" {
		return KindStaticNamespace, true
	}
	for i, n := range typeKindNames {
		if n == s {
			return TypeKind(i), true
		}
	}
	return KindClass, false
}

// Visibility of a type or member.
type Visibility int

const (
	Public Visibility = iota
	Protected
	Internal
	Private
)

var visibilityNames = []string{"public", "protected", "internal", "private"}

func (v Visibility) String() string {
	if int(v) < len(visibilityNames) {
		return visibilityNames[v]
	}
	return "unknown"
}

// ParseVisibility maps a visibility name back to its value. Empty means public.
func ParseVisibility(s string) (Visibility, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Public, true
	}
	for i, n := range visibilityNames {
		if n == s {
			return Visibility(i), true
		}
	}
	return Public, false
}

// Provenance records why a member exists on a type's final surface.
type Provenance int

const (
	Original Provenance = iota
	FromInterface
	Synthesized
	HiddenNew
	BaseOverload
	DiamondResolved
	IndexerNormalized
)

var provenanceNames = []string{
	"original", "from-interface", "synthesized", "hidden-new",
	"base-overload", "diamond-resolved", "indexer-normalized",
}

func (p Provenance) String() string {
	if int(p) < len(provenanceNames) {
		return provenanceNames[p]
	}
	return "unknown"
}

// EmitScope selects the surface a member is printed on.
type EmitScope int

const (
	ClassSurface EmitScope = iota
	StaticSurface
	ViewOnly
)

var emitScopeNames = []string{"class", "static", "view"}

func (s EmitScope) String() string {
	if int(s) < len(emitScopeNames) {
		return emitScopeNames[s]
	}
	return "unknown"
}

// Modifiers of a type definition.
type Modifiers struct {
	Abstract bool
	Sealed   bool
	Static   bool
}

// GenericParameter declared on a type or method.
type GenericParameter struct {
	Name        string
	Position    int
	Constraints []TypeReference
}

// Parameter of a method, constructor or indexer. Type is a ByRefRef for
// ref/out parameters.
type Parameter struct {
	Name     string
	Type     TypeReference
	IsParams bool
	Optional bool
}

// MemberInfo is the part every member variant shares.
type MemberInfo struct {
	ID         MemberStableID
	Name       string
	Visibility Visibility
	Provenance Provenance
	EmitScope  EmitScope
	IsStatic   bool
	// SourceID is the identity of the member this one was copied or
	// synthesized from (interface member, indexer property).
	SourceID MemberStableID
	// SourceInterface is set for members inlined from, or explicitly
	// implementing, an interface.
	SourceInterface StableID
	// SemanticSuffix is appended to the requested name when names are
	// reserved (static-side renames).
	SemanticSuffix string
	Doc            string
}

// Info exposes the shared part of any member.
func (m *MemberInfo) Info() *MemberInfo { return m }

// IsExplicitImpl reports a member that explicitly implements an interface
// member and is not reachable from the type's own surface.
func (m *MemberInfo) IsExplicitImpl() bool {
	return m.Provenance == Original && !m.SourceInterface.IsZero()
}

// Member is implemented by every member variant.
type Member interface {
	Info() *MemberInfo
}

// MethodSymbol is a method, including extension methods.
type MethodSymbol struct {
	MemberInfo
	GenericParameters []GenericParameter
	Parameters        []Parameter
	ReturnType        TypeReference
	IsVirtual         bool
	IsAbstract        bool
	IsOverride        bool
	IsNew             bool
	IsExtension       bool
}

// Signature computes the canonical signature of the method.
func (m *MethodSymbol) Signature() string {
	return CanonicalizeMethod(m.Name, len(m.GenericParameters), ParameterTypes(m.Parameters), m.ReturnType)
}

// PropertySymbol is a property; IndexParameters is non-empty for indexers.
type PropertySymbol struct {
	MemberInfo
	Type            TypeReference
	IndexParameters []Parameter
	HasGetter       bool
	HasSetter       bool
	IsVirtual       bool
	IsOverride      bool
	IsNew           bool
}

// Signature computes the canonical signature of the property.
func (p *PropertySymbol) Signature() string {
	return CanonicalizeProperty(p.Name, ParameterTypes(p.IndexParameters), p.Type)
}

// IsIndexer reports whether the property takes index parameters.
func (p *PropertySymbol) IsIndexer() bool {
	return len(p.IndexParameters) > 0
}

// FieldSymbol is a field or enum constant.
type FieldSymbol struct {
	MemberInfo
	Type       TypeReference
	IsReadOnly bool
	IsConst    bool
	ConstValue string
	IsNew      bool
}

// Signature computes the canonical signature of the field.
func (f *FieldSymbol) Signature() string {
	return CanonicalizeField(f.Name, f.Type)
}

// EventSymbol is an event.
type EventSymbol struct {
	MemberInfo
	HandlerType TypeReference
	IsNew       bool
}

// Signature computes the canonical signature of the event.
func (e *EventSymbol) Signature() string {
	return CanonicalizeEvent(e.Name, e.HandlerType)
}

// ConstructorSymbol is an instance or static constructor.
type ConstructorSymbol struct {
	MemberInfo
	Parameters []Parameter
}

// Signature computes the canonical signature of the constructor.
func (c *ConstructorSymbol) Signature() string {
	return CanonicalizeConstructor(ParameterTypes(c.Parameters))
}

// MemberCollection groups members by variant, each in declaration order.
type MemberCollection struct {
	Constructors []*ConstructorSymbol
	Methods      []*MethodSymbol
	Properties   []*PropertySymbol
	Fields       []*FieldSymbol
	Events       []*EventSymbol
}

// Len returns the total member count.
func (c *MemberCollection) Len() int {
	return len(c.Constructors) + len(c.Methods) + len(c.Properties) + len(c.Fields) + len(c.Events)
}

// All returns every member in a fixed variant order.
func (c *MemberCollection) All() []Member {
	out := make([]Member, 0, c.Len())
	for _, m := range c.Constructors {
		out = append(out, m)
	}
	for _, m := range c.Fields {
		out = append(out, m)
	}
	for _, m := range c.Properties {
		out = append(out, m)
	}
	for _, m := range c.Methods {
		out = append(out, m)
	}
	for _, m := range c.Events {
		out = append(out, m)
	}
	return out
}

// TypeSymbol is a type definition.
type TypeSymbol struct {
	ID          StableID
	ClrFullName string
	Namespace   string
	// Name is the simple CLR name, arity marker included ("List`1").
	Name              string
	Kind              TypeKind
	Visibility        Visibility
	Modifiers         Modifiers
	IsValueType       bool
	GenericParameters []GenericParameter
	BaseType          TypeReference
	Interfaces        []TypeReference
	Members           MemberCollection
	NestedTypes       []*TypeSymbol
	// DeclaringType is zero for top-level types.
	DeclaringType StableID
	Doc           string

	// Synthetic marks types created by shaping (extension buckets).
	Synthetic bool
	// ExtensionReceiver is the receiver an extension bucket extends.
	ExtensionReceiver TypeReference
}

// IsStaticContainer reports whether the type is a static-only container.
func (t *TypeSymbol) IsStaticContainer() bool {
	return t.Kind == KindStaticNamespace || t.Modifiers.Static
}

// SelfReference builds the reference a type uses to name itself, closed
// over its own generic parameters.
func (t *TypeSymbol) SelfReference() NamedRef {
	ref := NamedRef{FullName: t.ID.FullName, Assembly: t.ID.AssemblyName, IsValueType: t.IsValueType}
	for _, gp := range t.GenericParameters {
		ref.TypeArguments = append(ref.TypeArguments, GenericParamRef{Name: gp.Name, Position: gp.Position})
	}
	return ref
}
