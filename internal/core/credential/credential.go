// Package credential defines how components obtain the bearer token used for
// remote calls. Components only read credentials, they never write them.
package credential

import "errors"

// ErrMissing is returned when an operation requires a credential and none is
// available. It is always detected before any network call is made.
var ErrMissing = errors.New("not authenticated")

// Provider supplies the current bearer token. An empty token means the user
// is unauthenticated.
type Provider interface {
	Token() string
}

// Static is a Provider backed by a fixed token.
type Static string

// Token returns the static token.
func (s Static) Token() string { return string(s) }

// Authenticated reports whether p currently holds a token.
func Authenticated(p Provider) bool {
	return p != nil && p.Token() != ""
}

// Chain returns the first non-empty token from the given providers.
type Chain []Provider

// Token implements Provider.
func (c Chain) Token() string {
	for _, p := range c {
		if p == nil {
			continue
		}
		if tok := p.Token(); tok != "" {
			return tok
		}
	}
	return ""
}
