package analysis

import (
	"errors"
	"testing"

	"github.com/pdflens/pdflens/internal/common"
)

func TestParseLooseJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantKey string
	}{
		{
			"clean object",
			`{"doc_language": "en"}`,
			"doc_language",
		},
		{
			"fenced block",
			"Here is the result:\n```json\n{\"volume\": {\"word_count\": 10}}\n```\nDone.",
			"volume",
		},
		{
			"fence without language tag",
			"```\n{\"category\": {\"label\": \"Science\"}}\n```",
			"category",
		},
		{
			"object inside prose",
			`The analysis follows. {"topics": []} That is all.`,
			"topics",
		},
		{
			"nested braces in prose",
			`Result: {"a": {"b": {"c": 1}}} trailing text`,
			"a",
		},
		{
			"trailing comma",
			`{"complexity": {"score": 40,},}`,
			"complexity",
		},
		{
			"line comments",
			"{\n// model commentary\n\"doc_language\": \"ru\"\n}",
			"doc_language",
		},
		{
			"block comment",
			`{"doc_language": "en" /* detected */}`,
			"doc_language",
		},
		{
			"unclosed braces",
			`{"volume": {"word_count": 5`,
			"volume",
		},
		{
			"braces inside strings ignored",
			`{"notes": "uses { and } literally", "score": 1}`,
			"notes",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseLooseJSON(tt.content)
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if _, ok := m[tt.wantKey]; !ok {
				t.Errorf("parsed object %v missing key %q", m, tt.wantKey)
			}
		})
	}
}

func TestParseLooseJSONUnparseable(t *testing.T) {
	for _, content := range []string{
		"no json here at all",
		"",
		"[1, 2, 3]",
	} {
		_, err := ParseLooseJSON(content)
		if !errors.Is(err, common.ErrUnparseable) {
			t.Errorf("ParseLooseJSON(%q) err = %v, want ErrUnparseable", content, err)
		}
	}
}
