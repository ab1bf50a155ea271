package clients

import (
	"context"

	"github.com/pkg/errors"
)

// ErrNotFound means the client id does not resolve to a registered
// application.
var ErrNotFound = errors.New("client not found")

type Repo interface {
	Upsert(ctx context.Context, clientData *Client) error
	Get(ctx context.Context, clientID string) (*Client, error)
}
