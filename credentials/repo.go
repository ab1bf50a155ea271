package credentials

import (
	"context"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound means the secret does not resolve to a credential set.
	ErrNotFound = errors.New("credential set not found")

	// ErrNotTemporary means the credential set has already been
	// authorised or otherwise consumed.
	ErrNotTemporary = errors.New("credential set is not temporary")

	// ErrStageConflict means a save lost the race against a concurrent
	// authorisation of the same credential set.
	ErrStageConflict = errors.New("credential stage conflict")
)

// Repo is the durable store of credential sets, keyed by client secret.
//
// Save must be linearizable per secret with respect to concurrent
// authorisation attempts: persisting an authorised credential is
// conditional on the stored stage still being StageTemporary, and a
// lost race fails with ErrStageConflict. Re-saving an identical
// already-committed authorisation is accepted, so a retried save never
// double-authorises.
type Repo interface {
	LoadBySecret(ctx context.Context, secret string) (*Credential, error)
	Save(ctx context.Context, credential *Credential) error
}
