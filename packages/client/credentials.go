package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Credentials controls when cookies and the CSRF token accompany a request.
type Credentials int

const (
	// CredentialsSameOrigin sends credentials only to the client origin.
	CredentialsSameOrigin Credentials = iota
	// CredentialsOmit never sends credentials.
	CredentialsOmit
	// CredentialsInclude sends credentials to every host.
	CredentialsInclude
)

func (c Credentials) String() string {
	switch c {
	case CredentialsSameOrigin:
		return "same-origin"
	case CredentialsOmit:
		return "omit"
	case CredentialsInclude:
		return "include"
	default:
		return "unknown"
	}
}

// ParseCredentials parses the names produced by Credentials.String.
// An empty string selects the same-origin default.
func ParseCredentials(s string) (Credentials, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "same-origin":
		return CredentialsSameOrigin, nil
	case "omit":
		return CredentialsOmit, nil
	case "include":
		return CredentialsInclude, nil
	default:
		return 0, fmt.Errorf("unknown credentials policy %q", s)
	}
}

// allows reports whether credentials may be attached to a request for u.
func (c Credentials) allows(origin, u *url.URL) bool {
	switch c {
	case CredentialsInclude:
		return true
	case CredentialsSameOrigin:
		return sameOrigin(origin, u)
	default:
		return false
	}
}

func sameOrigin(a, b *url.URL) bool {
	if a == nil || b == nil || a.Host == "" {
		return false
	}
	return strings.EqualFold(a.Scheme, b.Scheme) &&
		strings.EqualFold(a.Hostname(), b.Hostname()) &&
		effectivePort(a) == effectivePort(b)
}

func effectivePort(u *url.URL) string {
	if p := u.Port(); p != "" {
		return p
	}
	switch strings.ToLower(u.Scheme) {
	case "https":
		return "443"
	case "http":
		return "80"
	}
	return ""
}

// credentialJar filters a cookie jar through the credentials policy, so
// cookies are neither sent to nor stored from hosts the policy excludes.
type credentialJar struct {
	jar    http.CookieJar
	policy Credentials
	origin *url.URL
}

func (j *credentialJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if j.policy.allows(j.origin, u) {
		j.jar.SetCookies(u, cookies)
	}
}

func (j *credentialJar) Cookies(u *url.URL) []*http.Cookie {
	if !j.policy.allows(j.origin, u) {
		return nil
	}
	return j.jar.Cookies(u)
}
