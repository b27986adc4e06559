package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {}

// BearerAuth implements Bearer token authentication, used with Jira
// personal access tokens.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// BasicAuth implements HTTP basic authentication, used with Jira Cloud
// API tokens.
type BasicAuth struct {
	User  string
	Token string
}

// Apply implements the Authenticator interface for BasicAuth.
func (a *BasicAuth) Apply(req *http.Request) {
	req.SetBasicAuth(a.User, a.Token)
}

// ForCredentials picks basic auth when a user is set and a bearer token
// otherwise. No token means no authentication.
func ForCredentials(user, token string) Authenticator {
	switch {
	case token == "":
		return &NoAuth{}
	case user != "":
		return &BasicAuth{User: user, Token: token}
	default:
		return &BearerAuth{Token: token}
	}
}
