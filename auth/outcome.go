package auth

import "github.com/jrsteele09/go-credential-server/oauth2"

// RejectionKind classifies why an authorisation attempt was refused.
// Kinds are part of the engine's contract with the transport layer,
// which maps them onto wire error responses.
type RejectionKind string

const (
	RejectionCredentialNotFound        RejectionKind = "credential_not_found"
	RejectionClientNotFound            RejectionKind = "client_not_found"
	RejectionAuthenticationFailed      RejectionKind = "authentication_failed"
	RejectionNotTemporaryStage         RejectionKind = "not_temporary_stage"
	RejectionPrincipalNotAuthenticated RejectionKind = "principal_not_authenticated"
	RejectionStoreUnavailable          RejectionKind = "store_unavailable"
)

// Rejection carries the kind plus a human-readable message for the
// host application's error response.
type Rejection struct {
	Kind    RejectionKind
	Message string
}

// Outcome is the result of one authorisation attempt: either a token
// grant or a rejection, never both.
type Outcome struct {
	Grant     *oauth2.TokenGrant
	Rejection *Rejection
}

// Granted reports whether the attempt produced a token grant.
func (o Outcome) Granted() bool {
	return o.Grant != nil
}

func granted(grant *oauth2.TokenGrant) Outcome {
	return Outcome{Grant: grant}
}

func rejected(kind RejectionKind, message string) Outcome {
	return Outcome{Rejection: &Rejection{Kind: kind, Message: message}}
}
