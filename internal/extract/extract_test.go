package extract

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdflens/pdflens/internal/common"
)

func TestCountWordsAndChars(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantWords int
	}{
		{"plain", "hello wide world", 3},
		{"url dropped", "see https://example.com/doc for details", 3},
		{"single chars dropped", "a b word another", 2},
		{"empty", "", 0},
		{"cyrillic", "привет большой мир", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			words, _ := CountWordsAndChars(tt.text)
			if words != tt.wantWords {
				t.Errorf("words = %d, want %d", words, tt.wantWords)
			}
		})
	}
}

func TestCountWordsAndCharsCharCount(t *testing.T) {
	_, chars := CountWordsAndChars("ab  cd\n ef")
	if chars != 6 {
		t.Errorf("chars = %d, want 6 non-space runes", chars)
	}
}

func TestEstimateTotalWords(t *testing.T) {
	tests := []struct {
		name      string
		w1, pages int
		byteSize  int
		want      int
	}{
		{"first page density", 200, 10, 0, 2000},
		{"density clamped low", 35, 10, 0, 600},
		{"density clamped high", 1500, 10, 0, 9000},
		{"byte size fallback", 10, 10, 36000, 6000},
		{"flat per page", 5, 10, 0, 3000},
		{"no pages", 0, 0, 0, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTotalWords(tt.w1, tt.pages, tt.byteSize); got != tt.want {
				t.Errorf("EstimateTotalWords(%d, %d, %d) = %d, want %d",
					tt.w1, tt.pages, tt.byteSize, got, tt.want)
			}
		})
	}
}

func TestAvgCharsPerWordClamped(t *testing.T) {
	if got := AvgCharsPerWord("ab ab ab", 3); got != 4.5 {
		t.Errorf("short words = %v, want clamp to 4.5", got)
	}
	if got := AvgCharsPerWord("abcdefghijklmnop", 1); got != 6.5 {
		t.Errorf("long words = %v, want clamp to 6.5", got)
	}
}

func TestFromBytesRejectsNonPDF(t *testing.T) {
	e := NewExtractor(common.ExtractConfig{}, common.ReadTimeConfig{}, nil)
	_, err := e.FromBytes(context.Background(), []byte("<html>not a pdf</html>"), "page.html")
	if !errors.Is(err, common.ErrNotAPDF) {
		t.Fatalf("err = %v, want ErrNotAPDF", err)
	}
}

func TestDownloadBytesNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := downloadBytes(context.Background(), srv.Client(), srv.URL+"/doc.pdf", 1<<20, 5*time.Second)
	if !errors.Is(err, common.ErrDownload) {
		t.Fatalf("err = %v, want ErrDownload", err)
	}
}

func TestDownloadBytesSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	_, err := downloadBytes(context.Background(), srv.Client(), srv.URL+"/big.pdf", 1024, 5*time.Second)
	if !errors.Is(err, common.ErrDownload) {
		t.Fatalf("err = %v, want ErrDownload for oversized body", err)
	}
}

func TestDownloadBytesBadURL(t *testing.T) {
	for _, u := range []string{"ftp://example.com/doc.pdf", "not a url", ""} {
		_, err := downloadBytes(context.Background(), http.DefaultClient, u, 1<<20, time.Second)
		if !errors.Is(err, common.ErrDownload) {
			t.Errorf("downloadBytes(%q) err = %v, want ErrDownload", u, err)
		}
	}
}

func TestSourceNameFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://example.com/papers/attention.pdf", "attention.pdf"},
		{"https://example.com/files/my%20doc.pdf?dl=1", "my doc.pdf"},
		{"https://example.com/", ""},
	}
	for _, tt := range tests {
		if got := sourceNameFromURL(tt.url); got != tt.want {
			t.Errorf("sourceNameFromURL(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
