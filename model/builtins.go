package model

// primitives maps runtime primitive full names to their declaration-file
// spelling.
var primitives = map[string]string{
	"System.String":  "string",
	"System.Char":    "string",
	"System.Boolean": "boolean",
	"System.Byte":    "number",
	"System.SByte":   "number",
	"System.Int16":   "number",
	"System.UInt16":  "number",
	"System.Int32":   "number",
	"System.UInt32":  "number",
	"System.Int64":   "number",
	"System.UInt64":  "number",
	"System.Single":  "number",
	"System.Double":  "number",
	"System.Decimal": "number",
	"System.IntPtr":  "number",
	"System.UIntPtr": "number",
	"System.Object":  "unknown",
	"System.Void":    "void",
}

// PrimitiveName returns the built-in spelling of a primitive reference.
func PrimitiveName(ref TypeReference) (string, bool) {
	n, ok := ref.(NamedRef)
	if !ok || len(n.TypeArguments) > 0 {
		return "", false
	}
	name, ok := primitives[n.FullName]
	return name, ok
}

// IsPrimitive reports whether ref names a built-in primitive.
func IsPrimitive(ref TypeReference) bool {
	_, ok := PrimitiveName(ref)
	return ok
}
