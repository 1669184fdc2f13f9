package pipeline

import (
	"encoding/json"
	"strings"
)

// firstJSONObject locates the first balanced {...} substring in raw and
// decodes it. Model responses routinely surround the JSON with prose or
// Markdown fences, so everything outside the braces is ignored. When a
// balanced candidate fails to decode, scanning resumes at the next opening
// brace. The second return value is false when raw contains no decodable
// object.
func firstJSONObject(raw string) (map[string]interface{}, bool) {
	for start := 0; start < len(raw); {
		idx := strings.IndexByte(raw[start:], '{')
		if idx == -1 {
			return nil, false
		}
		open := start + idx

		end, balanced := matchingBrace(raw, open)
		if balanced {
			var obj map[string]interface{}
			if err := json.Unmarshal([]byte(raw[open:end+1]), &obj); err == nil {
				return obj, true
			}
		}
		start = open + 1
	}
	return nil, false
}

// matchingBrace returns the index of the brace closing the object opened at
// raw[open], honoring JSON string literals and escape sequences.
func matchingBrace(raw string, open int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := open; i < len(raw); i++ {
		c := raw[i]
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
