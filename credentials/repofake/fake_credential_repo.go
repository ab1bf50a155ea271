package fakecredentialrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-credential-server/credentials"
	"github.com/pkg/errors"
)

var _ credentials.Repo = (*FakeCredentialRepo)(nil)

// FakeCredentialRepo is an in-memory credentials.Repo. Suitable for
// tests and single-instance deployments.
type FakeCredentialRepo struct {
	records map[string]credentials.Credential
	lock    sync.RWMutex
}

func NewFakeCredentialRepo() *FakeCredentialRepo {
	return &FakeCredentialRepo{
		records: make(map[string]credentials.Credential),
	}
}

func (r *FakeCredentialRepo) LoadBySecret(ctx context.Context, secret string) (*credentials.Credential, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[FakeCredentialRepo.LoadBySecret]")
	}

	r.lock.RLock()
	defer r.lock.RUnlock()

	record, ok := r.records[secret]
	if !ok {
		return nil, credentials.ErrNotFound
	}
	return &record, nil
}

// Save persists the credential set. An authorised credential only
// replaces a stored temporary one; if another authorisation committed
// first, the save fails with credentials.ErrStageConflict unless the
// incoming record is identical to the committed one (idempotent retry).
func (r *FakeCredentialRepo) Save(ctx context.Context, credential *credentials.Credential) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "[FakeCredentialRepo.Save]")
	}
	if credential == nil || credential.Secret == "" {
		return errors.New("[FakeCredentialRepo.Save] credential secret is required")
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	stored, exists := r.records[credential.Secret]
	if exists && credential.Stage == credentials.StageAuthorized && stored.Stage == credentials.StageAuthorized {
		if stored != *credential {
			return credentials.ErrStageConflict
		}
	}

	r.records[credential.Secret] = *credential
	return nil
}
