// Package auth resolves the Iterable API key to use for a request.
//
// A single deployment can serve many callers, each supplying their own
// upstream credential per request, while a single-tenant deployment can rely
// on a process-level default. Resolution is stateless: nothing is cached and
// nothing survives the request. The key itself must never be logged or
// echoed — log the Source tag instead.
package auth

import (
	"context"
	"net/http"
	"net/url"
)

// Credential carrier names on the inbound request.
const (
	QueryParam = "api_key"
	HeaderName = "X-Iterable-Api-Key"
)

// Source identifies where a credential came from.
type Source string

const (
	SourceQuery       Source = "query"
	SourceHeader      Source = "header"
	SourceEnvironment Source = "environment"
)

// Credential is the upstream API key for one request.
type Credential struct {
	Key    string
	Source Source
}

// Resolve picks the credential for a request. Precedence, first non-empty
// wins: query parameter, dedicated header, process-level default. The second
// return is false when no source yields a key; callers must reject protected
// routes in that case rather than forward an empty credential upstream.
func Resolve(query url.Values, header http.Header, envDefault string) (Credential, bool) {
	if key := query.Get(QueryParam); key != "" {
		return Credential{Key: key, Source: SourceQuery}, true
	}
	if key := header.Get(HeaderName); key != "" {
		return Credential{Key: key, Source: SourceHeader}, true
	}
	if envDefault != "" {
		return Credential{Key: envDefault, Source: SourceEnvironment}, true
	}
	return Credential{}, false
}

// Context plumbing. The server's credential middleware stores the resolved
// credential here and the MCP tool handlers read it back; both packages
// import auth instead of each other.

type contextKey string

const keyCredential contextKey = "iterable_credential"

// WithCredential returns a new context carrying the resolved credential.
func WithCredential(ctx context.Context, cred Credential) context.Context {
	return context.WithValue(ctx, keyCredential, cred)
}

// CredentialFromContext extracts the request's credential from the context.
func CredentialFromContext(ctx context.Context) (Credential, bool) {
	if v, ok := ctx.Value(keyCredential).(Credential); ok {
		return v, true
	}
	return Credential{}, false
}
