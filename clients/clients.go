package clients

import "github.com/jrsteele09/go-credential-server/identity"

// Client represents a registered third-party application requesting
// delegated access. Immutable once loaded from the repo.
type Client struct {
	ID          string `json:"id"`
	Description string `json:"description"`

	// Identity is the principal operating the client. It drives the
	// authentication step of the credential authorisation flow.
	Identity *identity.Principal `json:"identity"`
}
