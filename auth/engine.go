package auth

import (
	"context"
	goerrors "errors"
	"time"

	"github.com/jrsteele09/go-credential-server/clients"
	"github.com/jrsteele09/go-credential-server/credentials"
	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/jrsteele09/go-credential-server/oauth2"
	"github.com/jrsteele09/go-credential-server/token"
	"github.com/pkg/errors"
)

// Client-visible rejection messages.
const (
	msgCredentialNotFound  = "The client secret does not resolve to a credential set."
	msgClientNotFound      = "Unknown client application."
	msgAuthFailed          = "Client authentication failed."
	msgNotTemporary        = "The token is not for a temporary credentials set."
	msgMustSignIn          = "You must first sign in."
	msgStoreUnavailable    = "The credential store is temporarily unavailable. Retry the request."
	msgTokenGenerationFail = "Token generation failed. Retry the request."
)

const (
	defaultStoreTimeout = 5 * time.Second
	tokenExpirySeconds  = 3600
)

// AuthorisationRequest is the inbound data driving one authorisation
// attempt. AuthenticationMaterial is opaque and passed through to the
// identity provider unchanged.
type AuthorisationRequest struct {
	ClientID               string
	ClientSecret           string
	AuthenticationMaterial string
}

// Repos holds the store dependencies for the Engine.
type Repos struct {
	Credentials credentials.Repo // Store of credential sets, keyed by secret
	Clients     clients.Repo     // Store of registered client applications
}

// Engine authorises temporary credential sets for signed-in resource
// owners. It is stateless and safe for concurrent use; the only shared
// mutable state is the credential record behind the credentials repo.
type Engine struct {
	repos        Repos
	provider     identity.Provider
	tokens       token.Generator
	storeTimeout time.Duration
	expiresIn    int
}

// EngineOption defines a function type to modify the Engine instance.
type EngineOption func(*Engine)

// WithStoreTimeout bounds each credential/client store call. A store
// call that exceeds the timeout is reported as a StoreUnavailable
// rejection, never as not-found.
func WithStoreTimeout(timeout time.Duration) EngineOption {
	return func(e *Engine) {
		e.storeTimeout = timeout
	}
}

// WithTokenExpiry overrides the advertised access-token lifetime
// (primarily for testing; the protocol fixes it at 3600).
func WithTokenExpiry(seconds int) EngineOption {
	return func(e *Engine) {
		e.expiresIn = seconds
	}
}

// NewEngine initializes a new Engine with required collaborators.
func NewEngine(repos Repos, provider identity.Provider, tokens token.Generator, options ...EngineOption) (*Engine, error) {
	if repos.Credentials == nil {
		return nil, errors.New("[NewEngine] Credentials repo is required")
	}
	if repos.Clients == nil {
		return nil, errors.New("[NewEngine] Clients repo is required")
	}
	if provider == nil {
		return nil, errors.New("[NewEngine] identity provider is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewEngine] token generator is required")
	}

	engine := &Engine{
		repos:        repos,
		provider:     provider,
		tokens:       tokens,
		storeTimeout: defaultStoreTimeout,
		expiresIn:    tokenExpirySeconds,
	}

	for _, opt := range options {
		opt(engine)
	}

	return engine, nil
}

// Authorise executes the fixed validation/transition sequence for one
// authorisation attempt. principal is the currently signed-in resource
// owner, resolved by the host application before invocation; nil means
// no principal.
//
// The step order is part of the protocol's security contract:
// credential existence is confirmed before the client id is trusted,
// the stage check precedes the principal check so a consumed
// credential is rejected regardless of who is signed in, and the
// transition is the last action so no partial state is persisted on
// any earlier failure.
func (e *Engine) Authorise(ctx context.Context, req AuthorisationRequest, principal *identity.Principal) Outcome {
	// Step 1: load the credential set for the supplied secret.
	credential, outcome := e.loadCredential(ctx, req.ClientSecret)
	if outcome != nil {
		return *outcome
	}

	// Step 2: resolve the client application.
	client, outcome := e.fetchClient(ctx, req.ClientID)
	if outcome != nil {
		return *outcome
	}

	// Step 3: authenticate the client's identity with the material
	// carried on the request. Failure semantics belong to the provider;
	// any failure is terminal for this request.
	if err := e.provider.Authenticate(ctx, client.Identity, req.AuthenticationMaterial); err != nil {
		return rejected(RejectionAuthenticationFailed, msgAuthFailed)
	}

	// Step 4: the credential set must still be temporary. Guards
	// against replay of already-consumed credentials.
	if credential.Stage != credentials.StageTemporary {
		return rejected(RejectionNotTemporaryStage, msgNotTemporary)
	}

	// Step 5: authorisation requires a real, signed-in resource owner.
	if principal.Anonymous() {
		return rejected(RejectionPrincipalNotAuthenticated, msgMustSignIn)
	}

	// Step 6: transition the credential set and persist it.
	pair, err := e.tokens.Generate(principal.ID, client.ID)
	if err != nil {
		return rejected(RejectionStoreUnavailable, msgTokenGenerationFail)
	}
	if err := credential.Authorise(principal.ID, pair.AccessToken, pair.RefreshToken); err != nil {
		return rejected(RejectionNotTemporaryStage, msgNotTemporary)
	}
	if outcome := e.saveCredential(ctx, credential); outcome != nil {
		return *outcome
	}

	// Step 7: emit the token grant.
	return granted(&oauth2.TokenGrant{
		AccessToken:  pair.AccessToken,
		ExpiresIn:    e.expiresIn,
		RefreshToken: pair.RefreshToken,
	})
}

func (e *Engine) loadCredential(ctx context.Context, secret string) (*credentials.Credential, *Outcome) {
	storeCtx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	credential, err := e.repos.Credentials.LoadBySecret(storeCtx, secret)
	switch {
	case goerrors.Is(err, credentials.ErrNotFound):
		outcome := rejected(RejectionCredentialNotFound, msgCredentialNotFound)
		return nil, &outcome
	case err != nil:
		outcome := rejected(RejectionStoreUnavailable, msgStoreUnavailable)
		return nil, &outcome
	}
	return credential, nil
}

func (e *Engine) fetchClient(ctx context.Context, clientID string) (*clients.Client, *Outcome) {
	storeCtx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	client, err := e.repos.Clients.Get(storeCtx, clientID)
	switch {
	case goerrors.Is(err, clients.ErrNotFound):
		outcome := rejected(RejectionClientNotFound, msgClientNotFound)
		return nil, &outcome
	case err != nil:
		outcome := rejected(RejectionStoreUnavailable, msgStoreUnavailable)
		return nil, &outcome
	}
	return client, nil
}

func (e *Engine) saveCredential(ctx context.Context, credential *credentials.Credential) *Outcome {
	storeCtx, cancel := context.WithTimeout(ctx, e.storeTimeout)
	defer cancel()

	err := e.repos.Credentials.Save(storeCtx, credential)
	switch {
	// A lost race against a concurrent authorisation of the same
	// credential set is reported as not-temporary, not retried.
	case goerrors.Is(err, credentials.ErrStageConflict):
		outcome := rejected(RejectionNotTemporaryStage, msgNotTemporary)
		return &outcome
	case err != nil:
		outcome := rejected(RejectionStoreUnavailable, msgStoreUnavailable)
		return &outcome
	}
	return nil
}
