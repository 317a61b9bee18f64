package probe

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidURL is returned by Normalize for input that cannot be turned into
// an absolute http or https URL.
var ErrInvalidURL = errors.New("invalid URL")

// schemePrefix matches an explicit "scheme://" at the very start, so a "://"
// inside a path or query does not count.
var schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.-]*://`)

// Normalize trims raw, defaults the scheme to https when none is given and
// validates the result. Scheme and host are lowercased, so applying Normalize
// to its own output returns the same URL.
func Normalize(raw string) (*url.URL, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidURL)
	}
	if !schemePrefix.MatchString(s) {
		// "mailto:x@y" names a scheme; "localhost:8080" is a host and port.
		if u, err := url.Parse(s); err == nil && u.Opaque != "" && !isHTTPScheme(u.Scheme) && !isHostPort(s) {
			return nil, fmt.Errorf("%w: %q: unsupported scheme %q", ErrInvalidURL, raw, strings.ToLower(u.Scheme))
		}
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: %q: unsupported scheme %q", ErrInvalidURL, raw, u.Scheme)
	}
	if !u.IsAbs() || u.Hostname() == "" {
		return nil, fmt.Errorf("%w: %q: missing host", ErrInvalidURL, raw)
	}
	u.Host = strings.ToLower(u.Host)
	return u, nil
}

func isHTTPScheme(scheme string) bool {
	return strings.EqualFold(scheme, "http") || strings.EqualFold(scheme, "https")
}

// isHostPort reports whether s starts with host:port, up to the first
// path, query or fragment delimiter.
func isHostPort(s string) bool {
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	host, port, err := net.SplitHostPort(s)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}
