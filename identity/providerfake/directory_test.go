package providerfake_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/jrsteele09/go-credential-server/identity/providerfake"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	directory := providerfake.NewDirectory()
	principal := identity.Principal{ID: "user-1", Username: "john.doe"}
	require.NoError(t, directory.Register(principal, "password123"))

	ctx := context.Background()
	require.NoError(t, directory.Authenticate(ctx, &principal, "password123"))

	err := directory.Authenticate(ctx, &principal, "wrong")
	require.ErrorIs(t, err, identity.ErrAuthenticationFailed)

	err = directory.Authenticate(ctx, &identity.Principal{ID: "unknown"}, "password123")
	require.ErrorIs(t, err, identity.ErrAuthenticationFailed)

	err = directory.Authenticate(ctx, nil, "password123")
	require.ErrorIs(t, err, identity.ErrAuthenticationFailed)
}

func TestGuestsNeverAuthenticate(t *testing.T) {
	directory := providerfake.NewDirectory()
	guest := identity.Principal{ID: "guest-1", Username: "guest", Guest: true}
	require.NoError(t, directory.Register(guest, ""))

	err := directory.Authenticate(context.Background(), &guest, "")
	require.ErrorIs(t, err, identity.ErrAuthenticationFailed)
}

func TestLookups(t *testing.T) {
	directory := providerfake.NewDirectory()
	principal := identity.Principal{ID: "user-1", Username: "john.doe"}
	require.NoError(t, directory.Register(principal, "password123"))

	ctx := context.Background()

	byID, err := directory.GetByID(ctx, "user-1")
	require.NoError(t, err)
	require.Equal(t, principal, *byID)

	byUsername, err := directory.GetByUsername(ctx, "john.doe")
	require.NoError(t, err)
	require.Equal(t, principal, *byUsername)

	_, err = directory.GetByID(ctx, "missing")
	require.ErrorIs(t, err, identity.ErrNotFound)
	_, err = directory.GetByUsername(ctx, "missing")
	require.ErrorIs(t, err, identity.ErrNotFound)
}

func TestAnonymous(t *testing.T) {
	var none *identity.Principal
	require.True(t, none.Anonymous())
	require.True(t, (&identity.Principal{ID: "g", Guest: true}).Anonymous())
	require.True(t, (&identity.Principal{}).Anonymous())
	require.False(t, (&identity.Principal{ID: "user-1"}).Anonymous())
}
