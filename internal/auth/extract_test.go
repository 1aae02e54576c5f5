package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidatesPrecedence(t *testing.T) {
	e := NewCandidateExtractor("portal_session")

	rc := RequestCredentials{
		Authorization: "Bearer header-token",
		Cookies: map[string]string{
			"portal_session":  "session-token",
			"auth":            "legacy-auth-token",
			"token":           "legacy-token",
			"sb-access-token": "provider-token",
		},
	}

	got := e.Candidates(rc)
	assert.Equal(t, []string{
		"header-token",
		"session-token",
		"legacy-auth-token",
		"legacy-token",
		"provider-token",
	}, got)
}

func TestCandidatesMalformedHeaderSkipped(t *testing.T) {
	e := NewCandidateExtractor("portal_session")

	cases := map[string]string{
		"no scheme":       "just-a-token",
		"wrong scheme":    "Basic dXNlcjpwYXNz",
		"empty token":     "Bearer ",
		"whitespace only": "   ",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			got := e.Candidates(RequestCredentials{
				Authorization: header,
				Cookies:       map[string]string{"portal_session": "cookie-token"},
			})
			assert.Equal(t, []string{"cookie-token"}, got)
		})
	}
}

func TestCandidatesBearerCaseInsensitive(t *testing.T) {
	e := NewCandidateExtractor("portal_session")

	got := e.Candidates(RequestCredentials{Authorization: "bearer lower-token"})
	assert.Equal(t, []string{"lower-token"}, got)
}

func TestCandidatesDeduplicates(t *testing.T) {
	e := NewCandidateExtractor("portal_session")

	got := e.Candidates(RequestCredentials{
		Authorization: "Bearer same-token",
		Cookies: map[string]string{
			"portal_session": "same-token",
			"auth":           "other-token",
			"token":          "other-token",
		},
	})
	assert.Equal(t, []string{"same-token", "other-token"}, got)
}

func TestCandidatesEmptyRequest(t *testing.T) {
	e := NewCandidateExtractor("")
	assert.Empty(t, e.Candidates(RequestCredentials{}))
}

func TestCookieNamesDefaultSessionCookie(t *testing.T) {
	e := NewCandidateExtractor("")
	assert.Equal(t, []string{"portal_session", "auth", "token", "sb-access-token"}, e.CookieNames())
}
