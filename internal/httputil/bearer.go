// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import "net/http"

// BearerTransport adds an Authorization bearer token to every request.
// Hosted Ollama endpoints behind a proxy expect one.
type BearerTransport struct {
	Base  http.RoundTripper
	Token string
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.Token == "" {
		return base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("Authorization", "Bearer "+t.Token)
	return base.RoundTrip(r)
}

// WithBearer wraps c's transport with token. An empty token leaves c as is.
func WithBearer(c *http.Client, token string) *http.Client {
	if token == "" {
		return c
	}
	c.Transport = &BearerTransport{Base: c.Transport, Token: token}
	return c
}
