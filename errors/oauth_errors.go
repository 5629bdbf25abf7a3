package errors

import "fmt"

// OAuth2Error is the structured error body returned by the OAuth2
// endpoints. Code is stable and machine-readable.
type OAuth2Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
	State       string `json:"state,omitempty"`
}

func (e *OAuth2Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Standard OAuth2 error codes.
const (
	InvalidRequest       = "invalid_request"
	InvalidGrant         = "invalid_grant"
	InvalidToken         = "invalid_token"
	TokenExpired         = "token_expired"
	UnsupportedGrantType = "unsupported_grant_type"
	ServerError          = "server_error"
)

// NewInvalidRequest reports malformed or missing client input (HTTP 400).
func NewInvalidRequest(description string) *OAuth2Error {
	return &OAuth2Error{Code: InvalidRequest, Description: description}
}

// NewInvalidGrant reports a failed, expired or unknown credential
// (HTTP 401). Code and refresh-token lookup misses map here so clients
// cannot probe for token existence.
func NewInvalidGrant(description string) *OAuth2Error {
	return &OAuth2Error{Code: InvalidGrant, Description: description}
}

// NewInvalidToken reports an access token failing signature or format
// checks (HTTP 401). The holder must re-authenticate.
func NewInvalidToken() *OAuth2Error {
	return &OAuth2Error{Code: InvalidToken, Description: "The access token is invalid"}
}

// NewTokenExpired reports an expired but otherwise valid access token
// (HTTP 401). The holder should use the refresh flow.
func NewTokenExpired() *OAuth2Error {
	return &OAuth2Error{Code: TokenExpired, Description: "The access token has expired"}
}

// NewServerError reports a provider or store I/O failure (HTTP 500).
// Callers may retry without discarding credentials.
func NewServerError(description string) *OAuth2Error {
	return &OAuth2Error{Code: ServerError, Description: description}
}

// NewUnsupportedGrantType reports a grant type outside
// authorization_code and refresh_token.
func NewUnsupportedGrantType() *OAuth2Error {
	return &OAuth2Error{
		Code:        UnsupportedGrantType,
		Description: "The authorization grant type is not supported",
	}
}
