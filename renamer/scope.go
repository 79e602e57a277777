package renamer

import "github.com/teranos/tsbindgen/model"

// ScopeKind selects a reservation table family.
type ScopeKind int

const (
	// KindNamespace holds top-level type names of one namespace.
	KindNamespace ScopeKind = iota
	// KindInstance holds instance member names of one type.
	KindInstance
	// KindStatic holds static member names of one type. It never shares a
	// table with KindInstance.
	KindStatic
	// KindImportAlias holds import aliases of one namespace module.
	KindImportAlias
	// KindView holds members of one explicit interface view on a type.
	KindView
)

var scopeKindNames = []string{"namespace", "instance", "static", "import", "view"}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "unknown"
}

// Scope is one reservation table: a kind plus the owner it belongs to.
type Scope struct {
	Kind  ScopeKind
	Owner string
}

func (s Scope) String() string {
	return s.Kind.String() + "(" + s.Owner + ")"
}

// NamespaceScope is the scope of type names in a namespace.
func NamespaceScope(namespace string) Scope {
	return Scope{Kind: KindNamespace, Owner: namespace}
}

// InstanceScope is the scope of instance members of a type.
func InstanceScope(t model.StableID) Scope {
	return Scope{Kind: KindInstance, Owner: t.String()}
}

// StaticScope is the scope of static members of a type.
func StaticScope(t model.StableID) Scope {
	return Scope{Kind: KindStatic, Owner: t.String()}
}

// ImportScope is the scope of aliases imported into a namespace module.
func ImportScope(namespace string) Scope {
	return Scope{Kind: KindImportAlias, Owner: namespace}
}

// ViewScope is the scope of one interface view on a type.
func ViewScope(t model.StableID, iface model.StableID) Scope {
	return Scope{Kind: KindView, Owner: t.String() + "=>" + iface.String()}
}

// MemberScope picks the instance or static scope for a member.
func MemberScope(t model.StableID, static bool) Scope {
	if static {
		return StaticScope(t)
	}
	return InstanceScope(t)
}
