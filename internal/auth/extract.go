package auth

import "strings"

// Cookie names accepted besides the configured session cookie. The first two
// are kept for compatibility with tokens minted before the cookie rename; the
// last carries the identity provider's access token.
const (
	legacyAuthCookie    = "auth"
	legacyTokenCookie   = "token"
	providerTokenCookie = "sb-access-token"
)

// RequestCredentials is the credential-bearing slice of a request, detached
// from the transport so extraction stays a pure function.
type RequestCredentials struct {
	Authorization string
	Cookies       map[string]string
}

// CandidateExtractor produces the ordered list of credential candidates for a
// request. It only parses; nothing is validated here.
type CandidateExtractor struct {
	sessionCookie string
}

// NewCandidateExtractor builds an extractor using the configured session
// cookie name.
func NewCandidateExtractor(sessionCookie string) *CandidateExtractor {
	if sessionCookie == "" {
		sessionCookie = "portal_session"
	}
	return &CandidateExtractor{sessionCookie: sessionCookie}
}

// CookieNames lists every cookie the extractor reads, in precedence order.
func (e *CandidateExtractor) CookieNames() []string {
	return []string{e.sessionCookie, legacyAuthCookie, legacyTokenCookie, providerTokenCookie}
}

// Candidates returns candidate token strings, highest precedence first:
// Authorization bearer header, session cookie, legacy cookies, provider
// cookie. A malformed Authorization header is skipped, not an error.
// Duplicate values are emitted once.
func (e *CandidateExtractor) Candidates(rc RequestCredentials) []string {
	var out []string
	seen := make(map[string]struct{}, 5)

	add := func(token string) {
		token = strings.TrimSpace(token)
		if token == "" {
			return
		}
		if _, dup := seen[token]; dup {
			return
		}
		seen[token] = struct{}{}
		out = append(out, token)
	}

	if header := strings.TrimSpace(rc.Authorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			add(parts[1])
		}
	}

	for _, name := range e.CookieNames() {
		add(rc.Cookies[name])
	}

	return out
}
