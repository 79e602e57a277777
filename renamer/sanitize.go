package renamer

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/teranos/tsbindgen/model"
)

// reservedWords cannot name a type, alias or binding in a declaration file.
var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "enum": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "implements": true, "interface": true, "let": true,
	"package": true, "private": true, "protected": true, "public": true,
	"static": true, "yield": true, "await": true,
	"any": true, "boolean": true, "number": true, "string": true, "symbol": true,
	"never": true, "unknown": true, "object": true, "undefined": true, "bigint": true,
}

// IsReserved reports whether name is a reserved word or built-in type name.
func IsReserved(name string) bool {
	return reservedWords[name]
}

// SanitizeIdentifier makes s a valid identifier: NFC-normalized, with every
// rune outside letters, digits, '_' and '$' replaced by '_', and a leading
// digit prefixed with '_'.
func SanitizeIdentifier(s string) string {
	s = norm.NFC.String(s)
	if s == "" {
		return "_"
	}
	var sb strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsLetter(r), r == '_', r == '$':
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// TypeBaseName derives the requested display name of a CLR type name:
// namespace dropped, arity markers become "_N" and nesting becomes '_'
// ("Ns.Dictionary`2+KeyCollection" -> "Dictionary_2_KeyCollection").
func TypeBaseName(clrName string) string {
	end := len(clrName)
	if plus := strings.IndexByte(clrName, '+'); plus >= 0 {
		end = plus
	}
	if i := strings.LastIndexByte(clrName[:end], '.'); i >= 0 {
		clrName = clrName[i+1:]
	}
	segments := strings.Split(clrName, "+")
	for i, seg := range segments {
		if n := model.Arity(seg); n > 0 {
			seg = model.StripArity(seg) + "_" + strconv.Itoa(n)
		}
		segments[i] = seg
	}
	return SanitizeIdentifier(strings.Join(segments, "_"))
}
