package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidURL is returned for any raw input that cannot be repaired into a
// usable http(s) URL. Malformed input never panics or leaks parser errors.
var ErrInvalidURL = errors.New("invalid url")

// Normalize trims a user-supplied URL, prepends https:// when no scheme is
// present, and verifies a host component exists. The returned string is the
// input unchanged apart from the prepended scheme.
func Normalize(raw string) (string, string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	if !hasHTTPScheme(trimmed) {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return trimmed, host, nil
}

// DisplayName derives a presentable business name from the URL host:
// "https://blue-bottle-coffee.com/menu" becomes "Blue Bottle Coffee".
// Returns "" when nothing sensible can be derived.
func DisplayName(raw string) string {
	_, host, err := Normalize(raw)
	if err != nil {
		return ""
	}
	label := firstLabel(normalizeHost(host))
	if label == "" {
		return ""
	}
	label = strings.ReplaceAll(label, "-", " ")
	label = strings.ReplaceAll(label, "_", " ")
	return cases.Title(language.Und).String(label)
}

func hasHTTPScheme(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func normalizeHost(host string) string {
	host = strings.ToLower(host)
	host = strings.TrimPrefix(host, "www.")
	return host
}

func firstLabel(host string) string {
	if host == "" {
		return ""
	}
	if i := strings.IndexByte(host, '.'); i > 0 {
		return host[:i]
	}
	if strings.HasPrefix(host, ".") {
		return ""
	}
	return host
}
