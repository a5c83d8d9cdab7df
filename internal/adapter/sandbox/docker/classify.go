package docker

import (
	"strings"
	"unicode/utf8"

	"gitlab.com/ticket-raiser/judge/internal/domain"
)

// errorPatterns is checked in order; the first marker found in stderr wins
var errorPatterns = []struct {
	marker    string
	errorType domain.ErrorType
}{
	{marker: "SyntaxError", errorType: domain.ErrorTypeSyntaxError},
	{marker: "NameError", errorType: domain.ErrorTypeNameError},
	{marker: "TypeError", errorType: domain.ErrorTypeTypeError},
	{marker: "ValueError", errorType: domain.ErrorTypeValueError},
	{marker: "IndexError", errorType: domain.ErrorTypeIndexError},
	{marker: "ZeroDivisionError", errorType: domain.ErrorTypeZeroDivisionError},
}

func classify(stderr string) domain.ErrorType {
	for _, p := range errorPatterns {
		if strings.Contains(stderr, p.marker) {
			return p.errorType
		}
	}
	return domain.ErrorTypeRuntime
}

// truncate keeps the first limit runes of s
func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
