package fakeclientrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-credential-server/clients"
	"github.com/pkg/errors"
)

var _ clients.Repo = (*FakeClientRepo)(nil)

type FakeClientRepo struct {
	clients map[string]*clients.Client
	lock    sync.RWMutex
}

func NewFakeClientRepo() *FakeClientRepo {
	return &FakeClientRepo{
		clients: make(map[string]*clients.Client),
	}
}

func (r *FakeClientRepo) Upsert(ctx context.Context, clientData *clients.Client) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "[FakeClientRepo.Upsert]")
	}

	r.lock.Lock()
	defer r.lock.Unlock()
	if clientData.ID == "" {
		clientData.ID = uuid.New().String()
	}
	r.clients[clientData.ID] = clientData
	return nil
}

func (r *FakeClientRepo) Get(ctx context.Context, clientID string) (*clients.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[FakeClientRepo.Get]")
	}

	r.lock.RLock()
	defer r.lock.RUnlock()
	client, ok := r.clients[clientID]
	if !ok {
		return nil, clients.ErrNotFound
	}
	return client, nil
}
