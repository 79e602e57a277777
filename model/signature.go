package model

import (
	"strconv"
	"strings"
)

// Canonical signature encoding:
//
//	type names    Ns.List<System.String>   (arity marker dropped once arguments are present)
//	open generic  Ns.List`1                (no arguments: arity marker kept)
//	generics      !0 type-level, !!0 method-level (by position, never by name)
//	arrays        T[] rank 1, T[,] rank 2
//	pointer/byref T* and T&
//	nested        Outer<A>+Inner
//	methods       Name`1(A,B):R
//	constructors  .ctor(A,B)
//	properties    Name[K]:T or Name:T
//	fields/events Name:T

// CanonicalTypeName renders a reference in canonical form.
func CanonicalTypeName(ref TypeReference) string {
	var sb strings.Builder
	writeCanonical(&sb, ref)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, ref TypeReference) {
	switch r := ref.(type) {
	case nil:
		sb.WriteString("System.Void")
	case NamedRef:
		sb.WriteString(normalizeTypeName(r.FullName, len(r.TypeArguments) > 0))
		writeCanonicalArgs(sb, r.TypeArguments)
	case GenericParamRef:
		if r.Method {
			sb.WriteString("!!")
		} else {
			sb.WriteString("!")
		}
		sb.WriteString(strconv.Itoa(r.Position))
	case ArrayRef:
		writeCanonical(sb, r.Element)
		sb.WriteByte('[')
		for i := 1; i < r.Rank; i++ {
			sb.WriteByte(',')
		}
		sb.WriteByte(']')
	case PointerRef:
		writeCanonical(sb, r.Pointee)
		sb.WriteByte('*')
	case ByRefRef:
		writeCanonical(sb, r.Referenced)
		sb.WriteByte('&')
	case NestedRef:
		writeCanonical(sb, r.Declaring)
		sb.WriteByte('+')
		sb.WriteString(normalizeTypeName(r.Name, len(r.TypeArguments) > 0))
		writeCanonicalArgs(sb, r.TypeArguments)
	case PlaceholderRef:
		sb.WriteByte('?')
		sb.WriteString(stripSpace(r.DebugName))
	}
}

func writeCanonicalArgs(sb *strings.Builder, args []TypeReference) {
	if len(args) == 0 {
		return
	}
	sb.WriteByte('<')
	for i, a := range args {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeCanonical(sb, a)
	}
	sb.WriteByte('>')
}

// normalizeTypeName removes whitespace and, when the reference carries its
// own arguments, the `N arity markers of every nesting segment.
func normalizeTypeName(name string, hasArgs bool) string {
	name = stripSpace(name)
	if !hasArgs {
		return name
	}
	segments := strings.Split(name, "+")
	for i, s := range segments {
		segments[i] = StripArity(s)
	}
	return strings.Join(segments, "+")
}

// StripArity removes a trailing `N generic arity marker.
func StripArity(name string) string {
	if i := strings.LastIndexByte(name, '`'); i >= 0 {
		if _, err := strconv.Atoi(name[i+1:]); err == nil {
			return name[:i]
		}
	}
	return name
}

// Arity returns the generic arity encoded in a trailing `N marker.
func Arity(name string) int {
	if i := strings.LastIndexByte(name, '`'); i >= 0 {
		if n, err := strconv.Atoi(name[i+1:]); err == nil {
			return n
		}
	}
	return 0
}

func stripSpace(s string) string {
	if !strings.ContainsAny(s, " \t\r\n") {
		return s
	}
	return strings.Join(strings.Fields(s), "")
}

// CanonicalizeMethod encodes a method signature.
func CanonicalizeMethod(name string, genericArity int, params []TypeReference, ret TypeReference) string {
	var sb strings.Builder
	sb.WriteString(StripArity(stripSpace(name)))
	if genericArity > 0 {
		sb.WriteByte('`')
		sb.WriteString(strconv.Itoa(genericArity))
	}
	writeParamList(&sb, '(', ')', params)
	sb.WriteByte(':')
	writeCanonical(&sb, ret)
	return sb.String()
}

// CanonicalizeConstructor encodes a constructor signature.
func CanonicalizeConstructor(params []TypeReference) string {
	var sb strings.Builder
	sb.WriteString(".ctor")
	writeParamList(&sb, '(', ')', params)
	return sb.String()
}

// CanonicalizeProperty encodes a property signature. Indexers carry their
// parameter list in brackets.
func CanonicalizeProperty(name string, indexParams []TypeReference, typ TypeReference) string {
	var sb strings.Builder
	sb.WriteString(stripSpace(name))
	if len(indexParams) > 0 {
		writeParamList(&sb, '[', ']', indexParams)
	}
	sb.WriteByte(':')
	writeCanonical(&sb, typ)
	return sb.String()
}

// CanonicalizeField encodes a field signature.
func CanonicalizeField(name string, typ TypeReference) string {
	return stripSpace(name) + ":" + CanonicalTypeName(typ)
}

// CanonicalizeEvent encodes an event signature.
func CanonicalizeEvent(name string, handler TypeReference) string {
	return stripSpace(name) + ":" + CanonicalTypeName(handler)
}

func writeParamList(sb *strings.Builder, open, close byte, params []TypeReference) {
	sb.WriteByte(open)
	for i, p := range params {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeCanonical(sb, p)
	}
	sb.WriteByte(close)
}

// ParameterTypes extracts the types of a parameter list.
func ParameterTypes(params []Parameter) []TypeReference {
	out := make([]TypeReference, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}
