package diag

// Code identifies a class of finding. Codes are stable strings so policies
// can list them in Diagnostics.FailOn / WarnOn.
type Code string

// Resolution
const (
	UnresolvedType             Code = "TBG1001"
	UnresolvedGenericParameter Code = "TBG1002"
	UnresolvedConstraint       Code = "TBG1003"
)

// Naming conflicts
const (
	UnresolvedNamingConflict Code = "TBG2001"
	AmbiguousOverload        Code = "TBG2002"
	DuplicateMember          Code = "TBG2003"
)

// Inheritance
const (
	DiamondInheritance    Code = "TBG3001"
	CircularInheritance   Code = "TBG3002"
	InterfaceNotFound     Code = "TBG3003"
	StructuralConformance Code = "TBG3004"
)

// Target compatibility
const (
	CovarianceUnsupported Code = "TBG4001"
	StaticSideVariance    Code = "TBG4002"
	IndexerConflict       Code = "TBG4003"
	UnrepresentableMember Code = "TBG4004"
)

// Policy
const (
	PolicyViolation Code = "TBG5001"
)

// Renaming
const (
	RenameConflict        Code = "TBG6001"
	ExplicitRenameIgnored Code = "TBG6002"
)

// Metadata
const (
	MissingMetadataToken Code = "TBG7001"
	BindingAmbiguity     Code = "TBG7002"
)

// Category groups codes along the error taxonomy.
type Category string

const (
	CategoryResolution  Category = "resolution"
	CategoryNaming      Category = "naming"
	CategoryInheritance Category = "inheritance"
	CategoryTarget      Category = "target-compatibility"
	CategoryPolicy      Category = "policy"
	CategoryRenaming    Category = "renaming"
	CategoryMetadata    Category = "metadata"
	CategoryUnknown     Category = "unknown"
)

// Category derives the taxonomy category from the code's thousands digit.
func (c Code) Category() Category {
	if len(c) < 4 {
		return CategoryUnknown
	}
	switch c[3] {
	case '1':
		return CategoryResolution
	case '2':
		return CategoryNaming
	case '3':
		return CategoryInheritance
	case '4':
		return CategoryTarget
	case '5':
		return CategoryPolicy
	case '6':
		return CategoryRenaming
	case '7':
		return CategoryMetadata
	}
	return CategoryUnknown
}

// defaultSeverity is used by the Collector helpers when a caller does not
// pick one explicitly.
var defaultSeverity = map[Code]Severity{
	UnresolvedType:             SevWarning,
	UnresolvedGenericParameter: SevWarning,
	UnresolvedConstraint:       SevInfo,
	UnresolvedNamingConflict:   SevWarning,
	AmbiguousOverload:          SevInfo,
	DuplicateMember:            SevInfo,
	DiamondInheritance:         SevWarning,
	CircularInheritance:        SevError,
	InterfaceNotFound:          SevInfo,
	StructuralConformance:      SevInfo,
	CovarianceUnsupported:      SevInfo,
	StaticSideVariance:         SevWarning,
	IndexerConflict:            SevWarning,
	UnrepresentableMember:      SevInfo,
	PolicyViolation:            SevError,
	RenameConflict:             SevInfo,
	ExplicitRenameIgnored:      SevWarning,
	MissingMetadataToken:       SevInfo,
	BindingAmbiguity:           SevWarning,
}

// DefaultSeverity returns the severity a code is reported with by default.
func (c Code) DefaultSeverity() Severity {
	if s, ok := defaultSeverity[c]; ok {
		return s
	}
	return SevWarning
}
