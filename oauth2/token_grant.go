package oauth2

// TokenGrant is the response body returned when a temporary credential
// set is successfully authorised. The field set and JSON keys are the
// wire contract consumed by registered clients and must not change.
type TokenGrant struct {
	// AccessToken grants access to protected resources.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// ExpiresIn is the lifetime in seconds of the access token.
	// Fixed at 3600 for the credential authorisation flow.
	ExpiresIn int `json:"expires_in"`

	// RefreshToken is an opaque token used to obtain new access tokens.
	// Lifespan: Long-lived, bound to the authorised credential set.
	RefreshToken string `json:"refresh_token"`
}
