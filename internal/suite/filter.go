package suite

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern represents a compiled filter condition supporting substring and
// regex matching. Patterns wrapped in slashes compile as regular expressions;
// anything else matches case-insensitively as a substring.
type Pattern struct {
	raw   string
	regex *regexp.Regexp
	lower string
}

// Compile transforms raw pattern strings into Pattern values.
func Compile(patterns []string) ([]Pattern, error) {
	result := make([]Pattern, 0, len(patterns))
	for _, raw := range patterns {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.HasPrefix(raw, "/") && strings.HasSuffix(raw, "/") && len(raw) >= 2 {
			expr := raw[1 : len(raw)-1]
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, fmt.Errorf("compile regexp %q: %w", raw, err)
			}
			result = append(result, Pattern{raw: raw, regex: re})
			continue
		}
		result = append(result, Pattern{raw: raw, lower: strings.ToLower(raw)})
	}
	return result, nil
}

// Match reports whether the pattern matches the supplied string.
func (p Pattern) Match(s string) bool {
	if s == "" {
		return false
	}
	if p.regex != nil {
		return p.regex.MatchString(s)
	}
	return strings.Contains(strings.ToLower(s), p.lower)
}

// Filter applies only/skip patterns to definitions, preserving order. A step
// matches when any pattern matches its name or command.
func Filter(defs []Definition, only, skip []Pattern) []Definition {
	if len(defs) == 0 {
		return nil
	}
	result := make([]Definition, 0, len(defs))
	for _, def := range defs {
		if len(only) > 0 && !matchesStep(def, only) {
			continue
		}
		if len(skip) > 0 && matchesStep(def, skip) {
			continue
		}
		result = append(result, def)
	}
	return result
}

func matchesStep(def Definition, patterns []Pattern) bool {
	for _, pattern := range patterns {
		if pattern.Match(def.Name) || pattern.Match(def.Command) {
			return true
		}
	}
	return false
}
