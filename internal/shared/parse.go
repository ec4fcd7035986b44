package shared

import (
	"regexp"
	"strings"
)

// ParseFlags builds Rules from the raw --shared-package flag values. Each
// value prefixed with "!" becomes an exclude rule (the "!" is stripped
// first); the remainder becomes an include rule. A value surrounded by
// "/.../" is compiled as a regex; anything else is a literal name. Passing
// no values at all falls back to Default().
func ParseFlags(values []string) (Rules, error) {
	if len(values) == 0 {
		return Default(), nil
	}

	var rules Rules
	for _, raw := range values {
		exclude := strings.HasPrefix(raw, "!")
		body := strings.TrimPrefix(raw, "!")

		m, err := parseMatcher(body)
		if err != nil {
			return Rules{}, err
		}

		if exclude {
			rules.Exclude = append(rules.Exclude, m)
		} else {
			rules.Include = append(rules.Include, m)
		}
	}
	return rules, nil
}

func parseMatcher(body string) (Matcher, error) {
	if len(body) >= 2 && strings.HasPrefix(body, "/") && strings.HasSuffix(body, "/") {
		pattern := body[1 : len(body)-1]
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Matcher{}, err
		}
		return NewRegex(re), nil
	}
	return NewLiteral(body), nil
}
