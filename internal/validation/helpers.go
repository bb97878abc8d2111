package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	domainErrors "github.com/thomas-vilte/devrecap/internal/errors"
)

// ValidateRequired fails when any field is absent or nil in obj.
func ValidateRequired(obj map[string]interface{}, fields []string, name string) error {
	var missing []string
	for _, f := range fields {
		if v, ok := obj[f]; !ok || v == nil {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return domainErrors.NewValidationError(domainErrors.KindMissingFields, strings.Join(missing, ","),
			fmt.Sprintf("%s missing required fields: %s", name, strings.Join(missing, ", ")))
	}
	return nil
}

// SafeGet walks obj along a dot-separated path of map keys and returns def
// as soon as a segment is missing or an intermediate value is not a map.
func SafeGet(obj interface{}, path string, def interface{}) interface{} {
	current := obj
	for _, key := range strings.Split(path, ".") {
		m, ok := asMap(current)
		if !ok {
			return def
		}
		v, ok := m[key]
		if !ok {
			return def
		}
		current = v
	}
	return current
}

// SafeTruncate cuts s so the result, suffix included, is at most maxLength
// runes. Anything that is not a non-empty string yields "".
func SafeTruncate(s interface{}, maxLength int, suffix ...string) string {
	str, ok := s.(string)
	if !ok || str == "" {
		return ""
	}
	if utf8.RuneCountInString(str) <= maxLength {
		return str
	}

	sfx := "..."
	if len(suffix) > 0 {
		sfx = suffix[0]
	}
	sfxRunes := []rune(sfx)
	if maxLength <= len(sfxRunes) {
		return string(sfxRunes[:max(maxLength, 0)])
	}
	return string([]rune(str)[:maxLength-len(sfxRunes)]) + sfx
}

func asMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok && m != nil
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case []map[string]interface{}:
		out := make([]interface{}, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	case []string:
		out := make([]interface{}, len(s))
		for i, m := range s {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

// str returns v if it is a string and "" otherwise.
func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func toInt(v interface{}) int {
	switch n := v.(type) {
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	case string:
		return 0
	}
	i, _ := integral(v)
	return int(i)
}

// text renders a present value the way it should appear in a record.
func text(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
