package extract

import (
	"encoding/json"
	"strings"
)

// Normalize strips markdown fence markup from a raw model response and
// returns the first balanced JSON object inside it, ready for parsing.
// Returns "" when no object can be found.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ReplaceAll(raw, "\r\n", "\n")

	// Fences commonly emitted by models despite the prompt.
	for _, fence := range []string{"```json", "```JSON", "```", "`json", "`"} {
		s = strings.ReplaceAll(s, fence, "")
	}

	start := strings.Index(s, "{")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := strings.TrimSpace(s[start : i+1])
				var tmp any
				if json.Unmarshal([]byte(candidate), &tmp) == nil {
					return candidate
				}
				// best effort: hand the candidate to the parser anyway
				return candidate
			}
		}
	}
	return ""
}
