package model

// TypeReference is a closed union over the reference shapes a CLR signature
// can contain. Only this package can add variants.
type TypeReference interface {
	isTypeReference()
}

// NamedRef references a type definition, closed over TypeArguments when the
// definition is generic.
type NamedRef struct {
	FullName      string
	Assembly      string
	TypeArguments []TypeReference
	IsValueType   bool
}

// GenericParamRef references a generic parameter by position. Method is true
// for method-level parameters. Name is kept for printing only.
type GenericParamRef struct {
	Name     string
	Position int
	Method   bool
}

// ArrayRef is an array of Rank dimensions.
type ArrayRef struct {
	Element TypeReference
	Rank    int
}

// PointerRef is an unmanaged pointer.
type PointerRef struct {
	Pointee TypeReference
}

// ByRefRef is a managed reference (ref/out/in parameter).
type ByRefRef struct {
	Referenced TypeReference
}

// NestedRef references a type nested inside Declaring.
type NestedRef struct {
	Declaring     TypeReference
	Name          string
	TypeArguments []TypeReference
}

// PlaceholderRef breaks construction-time cycles. It must be replaced before
// a graph is considered well-formed. Target is zero when only DebugName is
// known.
type PlaceholderRef struct {
	DebugName string
	Target    StableID
}

func (NamedRef) isTypeReference()        {}
func (GenericParamRef) isTypeReference() {}
func (ArrayRef) isTypeReference()        {}
func (PointerRef) isTypeReference()      {}
func (ByRefRef) isTypeReference()        {}
func (NestedRef) isTypeReference()       {}
func (PlaceholderRef) isTypeReference()  {}

// ID returns the identity of the referenced definition.
func (n NamedRef) ID() StableID {
	return StableID{AssemblyName: n.Assembly, FullName: n.FullName}
}

// ID returns the identity of the nested definition ("Outer+Inner").
func (n NestedRef) ID() StableID {
	outer, ok := DefinitionID(n.Declaring)
	if !ok {
		return StableID{FullName: n.Name}
	}
	return StableID{AssemblyName: outer.AssemblyName, FullName: outer.FullName + "+" + n.Name}
}

// Named is shorthand for a non-generic NamedRef.
func Named(assembly, fullName string) NamedRef {
	return NamedRef{Assembly: assembly, FullName: fullName}
}

// DefinitionID returns the definition identity behind Named and Nested
// references, ignoring type arguments.
func DefinitionID(ref TypeReference) (StableID, bool) {
	switch r := ref.(type) {
	case NamedRef:
		return r.ID(), true
	case NestedRef:
		id := r.ID()
		return id, id.AssemblyName != "" || id.FullName != ""
	}
	return StableID{}, false
}

// TypeArgumentsOf returns the type arguments of Named and Nested references.
func TypeArgumentsOf(ref TypeReference) []TypeReference {
	switch r := ref.(type) {
	case NamedRef:
		return r.TypeArguments
	case NestedRef:
		return r.TypeArguments
	}
	return nil
}

// Walk visits ref and every reference nested in it, depth first. Returning
// false from fn stops descent below that node.
func Walk(ref TypeReference, fn func(TypeReference) bool) {
	if ref == nil || !fn(ref) {
		return
	}
	switch r := ref.(type) {
	case NamedRef:
		for _, a := range r.TypeArguments {
			Walk(a, fn)
		}
	case ArrayRef:
		Walk(r.Element, fn)
	case PointerRef:
		Walk(r.Pointee, fn)
	case ByRefRef:
		Walk(r.Referenced, fn)
	case NestedRef:
		Walk(r.Declaring, fn)
		for _, a := range r.TypeArguments {
			Walk(a, fn)
		}
	}
}

// MapRef rebuilds ref bottom-up, replacing every node with fn(node). The
// input is never modified.
func MapRef(ref TypeReference, fn func(TypeReference) TypeReference) TypeReference {
	if ref == nil {
		return nil
	}
	switch r := ref.(type) {
	case NamedRef:
		r.TypeArguments = mapRefs(r.TypeArguments, fn)
		return fn(r)
	case ArrayRef:
		r.Element = MapRef(r.Element, fn)
		return fn(r)
	case PointerRef:
		r.Pointee = MapRef(r.Pointee, fn)
		return fn(r)
	case ByRefRef:
		r.Referenced = MapRef(r.Referenced, fn)
		return fn(r)
	case NestedRef:
		r.Declaring = MapRef(r.Declaring, fn)
		r.TypeArguments = mapRefs(r.TypeArguments, fn)
		return fn(r)
	default:
		return fn(ref)
	}
}

func mapRefs(refs []TypeReference, fn func(TypeReference) TypeReference) []TypeReference {
	if refs == nil {
		return nil
	}
	out := make([]TypeReference, len(refs))
	for i, a := range refs {
		out[i] = MapRef(a, fn)
	}
	return out
}

// ContainsPlaceholder reports whether a Placeholder occurs anywhere in ref.
func ContainsPlaceholder(ref TypeReference) bool {
	found := false
	Walk(ref, func(r TypeReference) bool {
		if _, ok := r.(PlaceholderRef); ok {
			found = true
		}
		return !found
	})
	return found
}

// Substitute replaces generic parameters by position. typeArgs closes
// type-level parameters, methodArgs closes method-level parameters; positions
// without an argument are left untouched.
func Substitute(ref TypeReference, typeArgs, methodArgs []TypeReference) TypeReference {
	if len(typeArgs) == 0 && len(methodArgs) == 0 {
		return ref
	}
	return MapRef(ref, func(r TypeReference) TypeReference {
		gp, ok := r.(GenericParamRef)
		if !ok {
			return r
		}
		args := typeArgs
		if gp.Method {
			args = methodArgs
		}
		if gp.Position >= 0 && gp.Position < len(args) && args[gp.Position] != nil {
			return args[gp.Position]
		}
		return r
	})
}

// SameType compares two references structurally.
func SameType(a, b TypeReference) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return CanonicalTypeName(a) == CanonicalTypeName(b)
}
