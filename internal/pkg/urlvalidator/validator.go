package urlvalidator

import (
	"net"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"linkpreview/internal/domain"
)

// InvalidURLMessage is reported for every rejected url parameter
const InvalidURLMessage = "Invalid URL format. URL must start with http:// or https://"

// maxURLLength matches the longest URL common browsers accept
const maxURLLength = 2083

// ValidateQueryURL checks the url query parameter of a preview request.
// It returns nil when raw is an absolute http or https URL with an explicit
// scheme and a valid host.
func ValidateQueryURL(raw string) domain.ValidationErrors {
	if err := Check(raw); err != "" {
		return domain.ValidationErrors{{
			Type:     "field",
			Value:    raw,
			Msg:      InvalidURLMessage,
			Path:     "url",
			Location: "query",
		}}
	}
	return nil
}

// Check returns a short reason when raw is not an acceptable preview URL,
// or "" when it is
func Check(raw string) string {
	if raw == "" {
		return "empty URL"
	}
	if len(raw) > maxURLLength {
		return "URL too long"
	}
	if strings.IndexFunc(raw, unicode.IsSpace) >= 0 {
		return "URL contains whitespace"
	}

	// The scheme must be spelled out; "example.com" or "//example.com" are rejected
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "missing scheme"
	}
	switch strings.ToLower(scheme) {
	case "http", "https":
	default:
		return "unsupported scheme"
	}
	if rest == "" {
		return "no host found"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "unparseable URL"
	}
	if u.Host == "" {
		return "no host found"
	}

	if port := u.Port(); port != "" {
		n, err := strconv.Atoi(port)
		if err != nil || n <= 0 || n > 65535 {
			return "invalid port"
		}
	} else if strings.HasSuffix(u.Host, ":") {
		return "invalid port"
	}

	host := u.Hostname()
	if net.ParseIP(host) != nil {
		return ""
	}
	if !isFQDN(host) {
		return "invalid host"
	}

	return ""
}

// isFQDN reports whether host is a dotted domain name with an alphabetic TLD
func isFQDN(host string) bool {
	host = strings.TrimSuffix(host, ".")
	labels := strings.Split(host, ".")
	if len(labels) < 2 {
		return false
	}

	tld := labels[len(labels)-1]
	if !validTLD(tld) {
		return false
	}

	for _, label := range labels {
		if label == "" || len(label) > 63 {
			return false
		}
		if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
		for _, r := range label {
			if r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
				return false
			}
		}
	}

	return true
}

func validTLD(tld string) bool {
	if strings.HasPrefix(strings.ToLower(tld), "xn--") {
		return len(tld) > 4
	}
	if len([]rune(tld)) < 2 {
		return false
	}
	for _, r := range tld {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
