package identity

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrAuthenticationFailed means the supplied authentication material
	// did not verify against the identity.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrNotFound means the principal does not exist.
	ErrNotFound = errors.New("principal not found")
)

// Principal is the authenticated resource-owner identity on whose
// behalf access is being granted.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Guest    bool   `json:"guest"` // anonymous/guest principals can never authorise credentials
}

// Anonymous reports whether p cannot act as a signed-in resource
// owner. A nil principal ("no principal") and a guest principal are
// distinct states but both anonymous.
func (p *Principal) Anonymous() bool {
	return p == nil || p.Guest || p.ID == ""
}

// Provider authenticates an identity from opaque authentication
// material. The material's interpretation belongs to the provider
// (a password, an upstream ID token, ...).
type Provider interface {
	Authenticate(ctx context.Context, identity *Principal, material string) error
}

// Repo looks up registered principals.
type Repo interface {
	GetByID(ctx context.Context, id string) (*Principal, error)
	GetByUsername(ctx context.Context, username string) (*Principal, error)
}
