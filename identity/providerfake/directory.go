package providerfake

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	_ identity.Provider = (*Directory)(nil)
	_ identity.Repo     = (*Directory)(nil)
)

// Directory is an in-memory identity.Provider and identity.Repo.
// Principals are registered with a password, stored as a bcrypt hash,
// and the authentication material is treated as that password.
type Directory struct {
	principals map[string]identity.Principal // keyed by principal ID
	hashes     map[string]string             // principal ID -> bcrypt hash
	lock       sync.RWMutex
}

func NewDirectory() *Directory {
	return &Directory{
		principals: make(map[string]identity.Principal),
		hashes:     make(map[string]string),
	}
}

// Register adds a principal with its password. Guest principals are
// registered without a password and can never authenticate.
func (d *Directory) Register(principal identity.Principal, password string) error {
	if principal.ID == "" {
		return errors.New("[Directory.Register] principal id is required")
	}

	var hash string
	if !principal.Guest {
		hashed, err := HashPassword(password)
		if err != nil {
			return errors.Wrap(err, "[Directory.Register] HashPassword")
		}
		hash = hashed
	}

	d.lock.Lock()
	defer d.lock.Unlock()
	d.principals[principal.ID] = principal
	d.hashes[principal.ID] = hash
	return nil
}

func (d *Directory) Authenticate(ctx context.Context, principal *identity.Principal, material string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "[Directory.Authenticate]")
	}
	if principal == nil {
		return identity.ErrAuthenticationFailed
	}

	d.lock.RLock()
	hash, ok := d.hashes[principal.ID]
	d.lock.RUnlock()

	if !ok || hash == "" || !CheckPasswordHash(material, hash) {
		return identity.ErrAuthenticationFailed
	}
	return nil
}

func (d *Directory) GetByID(ctx context.Context, id string) (*identity.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[Directory.GetByID]")
	}

	d.lock.RLock()
	defer d.lock.RUnlock()

	principal, ok := d.principals[id]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return &principal, nil
}

func (d *Directory) GetByUsername(ctx context.Context, username string) (*identity.Principal, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "[Directory.GetByUsername]")
	}

	d.lock.RLock()
	defer d.lock.RUnlock()

	for _, principal := range d.principals {
		if principal.Username == username {
			p := principal
			return &p, nil
		}
	}
	return nil, identity.ErrNotFound
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
