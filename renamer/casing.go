package renamer

import (
	"strings"
	"unicode"
)

// Style is an identifier case convention applied to member names.
type Style string

const (
	StyleNone   Style = "none"
	StyleCamel  Style = "camelCase"
	StylePascal Style = "pascalCase"
)

// ApplyStyle converts a CLR member name to the given convention.
func ApplyStyle(s string, style Style) string {
	switch style {
	case StyleCamel:
		return ToCamelCase(s)
	case StylePascal:
		return ToPascalCase(s)
	}
	return s
}

// ToCamelCase lowercases the leading word of a PascalCase name.
// Leading acronyms are lowercased as a whole, keeping the capital that
// starts the next word (e.g., "IOStream" -> "ioStream", "ID" -> "id").
func ToCamelCase(s string) string {
	runes := []rune(s)
	if len(runes) == 0 || !unicode.IsUpper(runes[0]) {
		return s
	}
	end := 0
	for end < len(runes) && unicode.IsUpper(runes[end]) {
		end++
	}
	// Keep the last capital of an acronym when a lowercase word follows
	if end > 1 && end < len(runes) && unicode.IsLower(runes[end]) {
		end--
	}
	for i := 0; i < end; i++ {
		runes[i] = unicode.ToLower(runes[i])
	}
	return string(runes)
}

// ToPascalCase capitalizes the first letter of each snake_case or kebab-case
// part. A name without separators only gets its first letter raised.
func ToPascalCase(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-'
	})
	if len(parts) == 0 {
		return s
	}

	var result strings.Builder
	for _, part := range parts {
		runes := []rune(part)
		result.WriteRune(unicode.ToUpper(runes[0]))
		result.WriteString(string(runes[1:]))
	}
	return result.String()
}
