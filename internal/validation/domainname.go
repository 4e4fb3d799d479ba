package validation

import (
	"strings"
)

const maxDomainLength = 253

// CheckDomainName validates a candidate custom domain. It returns a
// human-readable message for the offending rule, or "" when the name is
// acceptable. localDomain is the service's own reserved domain; candidates
// equal to it or nested under it are refused.
func CheckDomainName(name, localDomain string) string {
	candidate := strings.TrimSpace(name)
	if candidate == "" {
		return "The domain field is required."
	}
	if strings.Contains(candidate, "://") {
		return "The domain must not include a protocol."
	}
	if !IsFQDN(candidate) {
		return "The domain must be a valid domain name."
	}
	lower := strings.ToLower(candidate)
	local := strings.ToLower(strings.TrimSpace(localDomain))
	if local != "" && (lower == local || strings.HasSuffix(lower, "."+local)) {
		return "The domain cannot be the local domain or a subdomain of it."
	}
	return ""
}

// IsFQDN reports whether name is a well-formed fully-qualified domain name.
// A trailing dot with an empty final label (for example "example.") is not
// accepted, and the name must carry at least two labels.
func IsFQDN(name string) bool {
	if len(name) > maxDomainLength {
		return false
	}
	labels := strings.Split(name, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if !validLabel(label) {
			return false
		}
	}
	// The top-level label must be alphabetic, ruling out dotted IPs.
	tld := labels[len(labels)-1]
	for i := 0; i < len(tld); i++ {
		if !isAlpha(tld[i]) {
			return false
		}
	}
	return true
}

func validLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for i := 0; i < len(label); i++ {
		c := label[i]
		if !isAlpha(c) && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
