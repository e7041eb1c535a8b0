package gigachat

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestGenerateRefreshesTokenOn401(t *testing.T) {
	var tokenFetches atomic.Int32
	auth := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := tokenFetches.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-" + string(rune('0'+n)),
			"expires_in":   1800,
		})
	}))
	defer auth.Close()

	var chatCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chatCalls.Add(1)
		if r.Header.Get("Authorization") == "Bearer tok-1" {
			http.Error(w, "token expired", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": `{"answer":true}`}},
			},
		})
	}))
	defer api.Close()

	c := NewClient(Config{
		AuthKey: "test-key",
		Scope:   "TEST_SCOPE",
		Model:   "test-model",
		APIBase: api.URL,
		AuthURL: auth.URL,
	}, nil, nil)

	content, err := c.Generate(context.Background(), "prompt", "system")
	if err != nil {
		t.Fatalf("Generate() err = %v", err)
	}
	if content != `{"answer":true}` {
		t.Errorf("content = %q", content)
	}
	if got := tokenFetches.Load(); got != 2 {
		t.Errorf("token fetched %d times, want refresh after 401", got)
	}
	if got := chatCalls.Load(); got != 2 {
		t.Errorf("chat endpoint hit %d times, want one retry", got)
	}
}

func TestExtractContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			"openai shape",
			`{"choices":[{"message":{"content":"hello"}}]}`,
			"hello",
		},
		{
			"flat content field",
			`{"content":" flat "}`,
			"flat",
		},
		{
			"text field",
			`{"text":"plain"}`,
			"plain",
		},
		{
			"bare string",
			`"just a string"`,
			"just a string",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractContent([]byte(tt.raw))
			if err != nil {
				t.Fatalf("err = %v", err)
			}
			if got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractContentEmpty(t *testing.T) {
	for _, raw := range []string{`{}`, `{"choices":[]}`, `""`} {
		if _, err := extractContent([]byte(raw)); err == nil {
			t.Errorf("extractContent(%s) = nil error, want failure", raw)
		}
	}
}

func TestGenerateTrimsContent(t *testing.T) {
	got, err := extractContent([]byte(`{"choices":[{"message":{"content":"  padded  "}}]}`))
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if got != "padded" || strings.ContainsAny(got, " \n") {
		t.Errorf("content = %q, want trimmed", got)
	}
}
