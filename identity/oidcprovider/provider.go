// Package oidcprovider authenticates principals against an upstream
// OpenID Connect issuer. The authentication material is a raw ID token
// minted by the upstream issuer for the principal being authenticated.
package oidcprovider

import (
	"context"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

var _ identity.Provider = (*Provider)(nil)

type Provider struct {
	oidcProvider *oidc.Provider
	oauth2Config *oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// New discovers the upstream issuer and prepares the token verifier
// and the oauth2 exchange configuration.
func New(ctx context.Context, issuerURL, clientID, clientSecret, redirectURL string) (*Provider, error) {
	oidcProvider, err := oidc.NewProvider(ctx, issuerURL)
	if err != nil {
		return nil, errors.Wrap(err, "[oidcprovider.New] oidc.NewProvider")
	}

	return &Provider{
		oidcProvider: oidcProvider,
		oauth2Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

// Authenticate verifies the raw ID token against the upstream issuer
// and checks that its subject is the identity being authenticated.
func (p *Provider) Authenticate(ctx context.Context, principal *identity.Principal, material string) error {
	if principal == nil || material == "" {
		return identity.ErrAuthenticationFailed
	}

	idToken, err := p.verifier.Verify(ctx, material)
	if err != nil {
		return errors.Wrap(identity.ErrAuthenticationFailed, err.Error())
	}

	var claims struct {
		Sub               string `json:"sub"`
		PreferredUsername string `json:"preferred_username"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return errors.Wrap(err, "[Provider.Authenticate] Claims")
	}

	if claims.Sub != principal.ID && claims.PreferredUsername != principal.Username {
		return identity.ErrAuthenticationFailed
	}
	return nil
}

// Exchange trades an upstream authorization code for the raw ID token
// that can then be used as authentication material.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	oauth2Token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", errors.Wrap(err, "[Provider.Exchange] oauth2Config.Exchange")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return "", errors.New("[Provider.Exchange] no ID token in response")
	}
	return rawIDToken, nil
}

// AuthCodeURL builds the upstream authorization URL for interactive
// sign-in against the federated issuer.
func (p *Provider) AuthCodeURL(state, nonce string) string {
	return p.oauth2Config.AuthCodeURL(state, oidc.Nonce(nonce))
}
