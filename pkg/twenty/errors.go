package twenty

import (
	"errors"
	"fmt"
)

// Kind classifies a client failure so callers can map it to an actionable
// message without parsing error strings.
type Kind string

const (
	// KindNotConfigured means no base URL was provided.
	KindNotConfigured Kind = "not_configured"
	// KindUnauthenticated means no token was available for the request.
	KindUnauthenticated Kind = "unauthenticated"
	// KindAuthFailed means the server rejected the token (401/403).
	KindAuthFailed Kind = "authentication_failed"
	// KindUnreachable means the request never got an HTTP response
	// (DNS failure, connection refused, TLS failure).
	KindUnreachable Kind = "unreachable"
	// KindEndpointNotFound means the GraphQL endpoint returned 404.
	KindEndpointNotFound Kind = "endpoint_not_found"
	// KindServerError means the server returned a 5xx status.
	KindServerError Kind = "server_error"
	// KindHTTP covers any other non-2xx status.
	KindHTTP Kind = "http_error"
	// KindGraphQL means the response carried a GraphQL errors array.
	KindGraphQL Kind = "graphql_error"
)

// Error is a classified client failure. Message is human-readable; BaseURL
// and Status are set where they aid diagnosis.
type Error struct {
	Kind    Kind
	Message string
	BaseURL string
	Status  int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("twenty: %s (HTTP %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("twenty: %s: %s", e.Kind, e.Message)
}

// KindOf returns the Kind of the first *Error in err's chain, or "" when the
// error is not a classified client failure.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return ""
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

func notConfiguredErr() *Error {
	return &Error{Kind: KindNotConfigured, Message: "CRM base URL is not configured"}
}

func unauthenticatedErr() *Error {
	return &Error{Kind: KindUnauthenticated, Message: "no authentication token set"}
}

func unreachableErr(baseURL string) *Error {
	return &Error{
		Kind:    KindUnreachable,
		Message: fmt.Sprintf("cannot connect to %s: check the URL and that the instance is accessible", baseURL),
		BaseURL: baseURL,
	}
}

func httpStatusErr(baseURL string, status int) *Error {
	switch {
	case status == 401 || status == 403:
		return &Error{
			Kind:    KindAuthFailed,
			Message: "authentication failed: log in to the Twenty instance",
			BaseURL: baseURL,
			Status:  status,
		}
	case status == 404:
		return &Error{
			Kind:    KindEndpointNotFound,
			Message: fmt.Sprintf("GraphQL endpoint not found at %s/graphql", baseURL),
			BaseURL: baseURL,
			Status:  status,
		}
	case status >= 500:
		return &Error{
			Kind:    KindServerError,
			Message: "server error: try again later",
			BaseURL: baseURL,
			Status:  status,
		}
	default:
		return &Error{
			Kind:    KindHTTP,
			Message: fmt.Sprintf("unexpected HTTP status %d", status),
			BaseURL: baseURL,
			Status:  status,
		}
	}
}

func graphQLErr(message string) *Error {
	return &Error{Kind: KindGraphQL, Message: message}
}
