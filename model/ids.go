// Package model holds the symbol graph that every stage of tsbindgen reads:
// identities, type references, namespaces, types and members.
//
// Identities (StableID, MemberStableID) never depend on a display name. They
// are computed once by Load/Normalize and survive every shape pass, so they
// are the only valid join key between passes, the renamer and the emitter.
package model

import (
	"strings"

	"github.com/teranos/tsbindgen/errors"
)

// StableID is the immutable identity of a type.
type StableID struct {
	AssemblyName string
	FullName     string
}

// String renders the identity as "Assembly:Full.Name".
func (id StableID) String() string {
	return id.AssemblyName + ":" + id.FullName
}

// IsZero reports whether the identity is unset.
func (id StableID) IsZero() bool {
	return id.AssemblyName == "" && id.FullName == ""
}

// ParseStableID parses the "Assembly:Full.Name" form produced by String.
func ParseStableID(s string) (StableID, error) {
	i := strings.Index(s, ":")
	if i <= 0 || i == len(s)-1 {
		return StableID{}, errors.NewInvalidInputf("malformed type identity %q", s)
	}
	return StableID{AssemblyName: s[:i], FullName: s[i+1:]}, nil
}

// MemberStableID is the immutable identity of a member. CanonicalSignature
// already includes the member name (see CanonicalizeMethod and friends).
type MemberStableID struct {
	AssemblyName       string
	DeclaringFullName  string
	MemberName         string
	CanonicalSignature string
	// MetadataToken is 0 when the loader had no token for the member.
	MetadataToken int32
}

// String renders "Assembly:Declaring.Type::Signature". The metadata token is
// not part of the identity string.
func (id MemberStableID) String() string {
	return id.AssemblyName + ":" + id.DeclaringFullName + "::" + id.CanonicalSignature
}

// Declaring returns the identity of the declaring type.
func (id MemberStableID) Declaring() StableID {
	return StableID{AssemblyName: id.AssemblyName, FullName: id.DeclaringFullName}
}

// IsZero reports whether the identity is unset.
func (id MemberStableID) IsZero() bool {
	return id.CanonicalSignature == "" && id.MemberName == ""
}

// SameIdentity compares two member identities ignoring the metadata token.
func (id MemberStableID) SameIdentity(other MemberStableID) bool {
	return id.String() == other.String()
}

// OverloadGroupKey identifies all overloads of a method name on one type.
// Overloads share one emitted name, so the renamer reserves methods under
// this key instead of the per-signature identity.
func OverloadGroupKey(declaring StableID, name string) string {
	return declaring.String() + "::" + name + "(*)"
}
