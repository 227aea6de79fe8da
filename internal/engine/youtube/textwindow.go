package youtube

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Between returns the part of haystack between the first occurrence of left
// and the next occurrence of right after it. An empty right returns
// everything after left. Missing delimiters yield "".
func Between(haystack, left, right string) string {
	pos := strings.Index(haystack, left)
	if pos < 0 {
		return ""
	}
	rest := haystack[pos+len(left):]
	if right == "" {
		return rest
	}
	end := strings.Index(rest, right)
	if end < 0 {
		return ""
	}
	return rest[:end]
}

// CutAfterJSON returns the leading JSON object or array of s, dropping
// whatever follows the matching closing bracket. Brackets inside string
// literals are ignored.
func CutAfterJSON(s string) (string, error) {
	if s == "" {
		return "", ErrUnsupportedFormat
	}
	var open, closing byte
	switch s[0] {
	case '{':
		open, closing = '{', '}'
	case '[':
		open, closing = '[', ']'
	default:
		return "", fmt.Errorf("%w but got: %q", ErrUnsupportedFormat, s[0])
	}

	inString := false
	escaped := false
	depth := 0

	// Multi-byte UTF-8 sequences never contain ASCII bytes, so a byte scan is safe.
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' && !escaped {
			inString = !inString
			continue
		}
		escaped = c == '\\' && !escaped
		if inString {
			continue
		}
		switch c {
		case open:
			depth++
		case closing:
			depth--
		}
		if depth == 0 {
			return s[:i+1], nil
		}
	}
	return "", ErrUnbalancedBrackets
}

// JSONAfter locates left in haystack and returns the JSON document that
// starts right after it.
func JSONAfter(haystack, left string) (json.RawMessage, error) {
	pos := strings.Index(haystack, left)
	if pos < 0 {
		return nil, fmt.Errorf("%w: %q", errMarkerNotFound, left)
	}
	cut, err := CutAfterJSON(haystack[pos+len(left):])
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(cut)) {
		return nil, fmt.Errorf("invalid json after %q", left)
	}
	return json.RawMessage(cut), nil
}
