package transport

import (
	"net/http"
	"testing"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	// Should not have any authentication headers
	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{Token: "jira-pat"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	authHeader := req.Header.Get("Authorization")
	expected := "Bearer jira-pat"
	if authHeader != expected {
		t.Errorf("Expected Authorization header '%s', got '%s'", expected, authHeader)
	}
}

// TestBearerAuthEmptyToken tests that an empty token sets no header.
func TestBearerAuthEmptyToken(t *testing.T) {
	req := &http.Request{Header: make(http.Header)}

	(&BearerAuth{}).Apply(req)

	if req.Header.Get("Authorization") != "" {
		t.Error("Should not have Authorization header")
	}
}

// TestBasicAuth tests HTTP basic authentication.
func TestBasicAuth(t *testing.T) {
	auth := &BasicAuth{User: "jdoe@example.com", Token: "api-token"}
	req := &http.Request{Header: make(http.Header)}

	auth.Apply(req)

	user, pass, ok := req.BasicAuth()
	if !ok {
		t.Fatal("Expected basic auth credentials")
	}
	if user != "jdoe@example.com" || pass != "api-token" {
		t.Errorf("Expected jdoe@example.com/api-token, got %s/%s", user, pass)
	}
}

// TestForCredentials tests authenticator selection.
func TestForCredentials(t *testing.T) {
	tests := []struct {
		name  string
		user  string
		token string
		want  string
	}{
		{"no token", "jdoe", "", "*transport.NoAuth"},
		{"token only", "", "pat", "*transport.BearerAuth"},
		{"user and token", "jdoe", "pat", "*transport.BasicAuth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForCredentials(tt.user, tt.token)
			var name string
			switch got.(type) {
			case *NoAuth:
				name = "*transport.NoAuth"
			case *BearerAuth:
				name = "*transport.BearerAuth"
			case *BasicAuth:
				name = "*transport.BasicAuth"
			}
			if name != tt.want {
				t.Errorf("Expected %s, got %T", tt.want, got)
			}
		})
	}
}
