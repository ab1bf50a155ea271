package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"

	"github.com/jrsteele09/go-credential-server/auth"
	"github.com/jrsteele09/go-credential-server/clients"
	fakeclientrepo "github.com/jrsteele09/go-credential-server/clients/fakerepo"
	"github.com/jrsteele09/go-credential-server/credentials"
	fakecredentialrepo "github.com/jrsteele09/go-credential-server/credentials/repofake"
	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/jrsteele09/go-credential-server/identity/oidcprovider"
	"github.com/jrsteele09/go-credential-server/identity/providerfake"
	"github.com/jrsteele09/go-credential-server/internal/config"
)

const (
	devClientID    = "dev-client"
	devClientOwner = "dev-owner"
)

// bootstrapStores wires the in-memory stores. Principals authenticate
// against the local directory unless an upstream OIDC issuer is
// configured. In DEV a client, its operating identity and a temporary
// credential set are seeded so the authorise endpoint can be exercised
// out of the box.
func bootstrapStores(c config.Config) (auth.Repos, identity.Provider, identity.Repo, error) {
	directory := providerfake.NewDirectory()
	clientRepo := fakeclientrepo.NewFakeClientRepo()
	credentialRepo := fakecredentialrepo.NewFakeCredentialRepo()

	repos := auth.Repos{
		Credentials: credentialRepo,
		Clients:     clientRepo,
	}

	ctx := context.Background()

	provider := identity.Provider(directory)
	if issuer := c.GetOIDCIssuer(); issuer != "" {
		federated, err := oidcprovider.New(ctx, issuer, c.GetOIDCClientID(), c.GetOIDCClientSecret(), c.GetOIDCRedirectURL())
		if err != nil {
			return auth.Repos{}, nil, nil, fmt.Errorf("oidcprovider.New: %w", err)
		}
		provider = federated
	}

	if c.GetEnv() != "DEV" {
		return repos, provider, directory, nil
	}

	ownerPassword, err := randomSecret()
	if err != nil {
		return auth.Repos{}, nil, nil, fmt.Errorf("generate owner password: %w", err)
	}
	owner := identity.Principal{ID: devClientOwner, Username: "dev-owner"}
	if err := directory.Register(owner, ownerPassword); err != nil {
		return auth.Repos{}, nil, nil, fmt.Errorf("register owner: %w", err)
	}

	if err := clientRepo.Upsert(ctx, &clients.Client{
		ID:          devClientID,
		Description: "Development client",
		Identity:    &owner,
	}); err != nil {
		return auth.Repos{}, nil, nil, fmt.Errorf("seed client: %w", err)
	}

	clientSecret, err := randomSecret()
	if err != nil {
		return auth.Repos{}, nil, nil, fmt.Errorf("generate client secret: %w", err)
	}
	if err := credentialRepo.Save(ctx, &credentials.Credential{
		Secret: clientSecret,
		Stage:  credentials.StageTemporary,
	}); err != nil {
		return auth.Repos{}, nil, nil, fmt.Errorf("seed credential: %w", err)
	}

	log.Printf("Bootstrap: seeded DEV client\n")
	log.Printf("   Client ID:      %s\n", devClientID)
	log.Printf("   Client Secret:  %s\n", clientSecret)
	log.Printf("   Owner Password: %s\n", ownerPassword)

	return repos, provider, directory, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
