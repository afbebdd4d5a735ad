// Package naming provides shared string case conversion utilities.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English, cases.NoLower)

// ToPascalCase converts a string to PascalCase.
// Separators (underscore, hyphen, dot, slash, space) trigger capitalization of the next letter.
// Example: "user_profile" -> "UserProfile"
// Example: "payment-runs" -> "PaymentRuns"
func ToPascalCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(s))
	capitalizeNext := true

	for _, r := range s {
		if r == '_' || r == '-' || r == '.' || r == '/' || r == ' ' {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			result.WriteString(titleCaser.String(string(r)))
			capitalizeNext = false
		} else {
			result.WriteRune(r)
		}
	}

	return result.String()
}

// ToSnakeCase converts a string to snake_case.
// Uppercase letters are prefixed with underscore and lowercased.
// Existing separators (hyphen, dot, slash, space) are converted to underscores.
// Example: "UserProfile" -> "user_profile"
func ToSnakeCase(s string) string {
	if s == "" {
		return ""
	}

	var result strings.Builder
	prevSep := true // suppress a leading separator
	for _, r := range s {
		switch {
		case r == '_' || r == '-' || r == '.' || r == '/' || r == ' ':
			if !prevSep {
				result.WriteRune('_')
				prevSep = true
			}
		case unicode.IsUpper(r):
			if !prevSep {
				result.WriteRune('_')
			}
			result.WriteRune(unicode.ToLower(r))
			prevSep = false
		default:
			result.WriteRune(r)
			prevSep = false
		}
	}

	return result.String()
}

// ToKebabCase converts a string to kebab-case.
// Like snake_case but with hyphens instead of underscores.
// Example: "getPaymentRun" -> "get-payment-run"
func ToKebabCase(s string) string {
	return strings.ReplaceAll(ToSnakeCase(s), "_", "-")
}
