package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/pdflens/pdflens/internal/common"
)

// downloadBytes fetches a document over HTTP(S), following redirects and
// rejecting non-2xx responses. The body is capped at maxBytes.
func downloadBytes(ctx context.Context, client *http.Client, rawURL string, maxBytes int64, timeout time.Duration) ([]byte, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid download URL %q: %w", rawURL, common.ErrDownload)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return nil, fmt.Errorf("unsupported URL scheme %q: %w", parsed.Scheme, common.ErrDownload)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", common.ErrDownload)
	}
	req.Header.Set("User-Agent", "pdflens/1.0")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %v: %w", rawURL, err, common.ErrDownload)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("HTTP %d for URL %s: %w", resp.StatusCode, rawURL, common.ErrDownload)
	}

	lr := &io.LimitedReader{R: resp.Body, N: maxBytes + 1}
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, fmt.Errorf("read body: %v: %w", err, common.ErrDownload)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("document exceeds %dMB limit: %w", maxBytes/(1<<20), common.ErrDownload)
	}
	return data, nil
}

// sourceNameFromURL derives a human-friendly name from the URL path.
func sourceNameFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(base); err == nil {
		return unescaped
	}
	return base
}
