package anchor

import (
	"strings"
	"unicode"
)

// SnakeCase converts camelCase, PascalCase and kebab-case identifiers to snake_case. Already snake
// identifiers are returned unchanged.
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == ' ':
			b.WriteRune('_')
		case unicode.IsUpper(r):
			if i > 0 && runes[i-1] != '_' && runes[i-1] != '-' {
				prevLower := unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
					b.WriteRune('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalName is the key used to compare program, instruction and account names regardless of
// the spelling used by the caller.
func CanonicalName(s string) string {
	return SnakeCase(strings.TrimSpace(s))
}
