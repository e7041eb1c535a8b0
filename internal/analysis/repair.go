package analysis

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pdflens/pdflens/internal/common"
)

var (
	fencedJSONRe   = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	lineCommentRe  = regexp.MustCompile(`(?m)//.*?$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)
	trailingObjRe  = regexp.MustCompile(`,\s*}`)
	trailingArrRe  = regexp.MustCompile(`,\s*]`)
)

// ParseLooseJSON extracts a JSON object from model output that may wrap it in
// prose or markdown or leave it slightly malformed. Repair steps, in order:
// direct parse, fenced code block, balanced-brace scan, then comment and
// trailing-comma stripping with unbalanced braces closed.
func ParseLooseJSON(content string) (map[string]any, error) {
	if m, ok := tryParse(content); ok {
		return m, nil
	}

	if match := fencedJSONRe.FindStringSubmatch(content); match != nil {
		if m, ok := tryParse(match[1]); ok {
			return m, nil
		}
	}

	if candidate := balancedObject(content); candidate != "" {
		if m, ok := tryParse(candidate); ok {
			return m, nil
		}
	}

	cleaned := lineCommentRe.ReplaceAllString(content, "")
	cleaned = blockCommentRe.ReplaceAllString(cleaned, "")
	cleaned = trailingObjRe.ReplaceAllString(cleaned, "}")
	cleaned = trailingArrRe.ReplaceAllString(cleaned, "]")
	cleaned = closeUnbalanced(cleaned)
	if candidate := balancedObject(cleaned); candidate != "" {
		cleaned = candidate
	}
	if m, ok := tryParse(cleaned); ok {
		return m, nil
	}

	preview := content
	if len(preview) > 200 {
		preview = preview[:200]
	}
	return nil, fmt.Errorf("no JSON object in content %q: %w", preview, common.ErrUnparseable)
}

func tryParse(s string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(s)), &m); err != nil {
		return nil, false
	}
	return m, true
}

// balancedObject returns the first brace-balanced {...} span, respecting
// string literals and escapes.
func balancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

func closeUnbalanced(s string) string {
	var braces, brackets int
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			braces++
		case c == '}':
			braces--
		case c == '[':
			brackets++
		case c == ']':
			brackets--
		}
	}
	if brackets > 0 {
		s += strings.Repeat("]", brackets)
	}
	if braces > 0 {
		s += strings.Repeat("}", braces)
	}
	return s
}
