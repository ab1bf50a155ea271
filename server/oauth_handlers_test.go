package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jrsteele09/go-credential-server/auth"
	"github.com/jrsteele09/go-credential-server/clients"
	fakeclientrepo "github.com/jrsteele09/go-credential-server/clients/fakerepo"
	"github.com/jrsteele09/go-credential-server/credentials"
	fakecredentialrepo "github.com/jrsteele09/go-credential-server/credentials/repofake"
	"github.com/jrsteele09/go-credential-server/identity"
	"github.com/jrsteele09/go-credential-server/identity/providerfake"
	"github.com/jrsteele09/go-credential-server/internal/config"
	"github.com/jrsteele09/go-credential-server/server"
	"github.com/jrsteele09/go-credential-server/server/loginsession"
	"github.com/jrsteele09/go-credential-server/token/opaque"
	"github.com/stretchr/testify/require"
)

const (
	testClientID      = "test-client-1"
	testClientSecret  = "abc"
	testOwnerPassword = "client-password"
	testUsername      = "john.doe"
	testUserPassword  = "password123"
)

type serverFixture struct {
	server         *server.Server
	credentialRepo *fakecredentialrepo.FakeCredentialRepo
}

func setupServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	credentialRepo := fakecredentialrepo.NewFakeCredentialRepo()
	clientRepo := fakeclientrepo.NewFakeClientRepo()
	directory := providerfake.NewDirectory()
	ctx := context.Background()

	owner := identity.Principal{ID: "client-owner-1", Username: "client-owner"}
	require.NoError(t, directory.Register(owner, testOwnerPassword))
	require.NoError(t, clientRepo.Upsert(ctx, &clients.Client{
		ID:          testClientID,
		Description: "Test client",
		Identity:    &owner,
	}))

	user := identity.Principal{ID: "user42", Username: testUsername}
	require.NoError(t, directory.Register(user, testUserPassword))

	require.NoError(t, credentialRepo.Save(ctx, &credentials.Credential{
		Secret: testClientSecret,
		Stage:  credentials.StageTemporary,
	}))

	srv, err := server.New(
		config.New(),
		auth.Repos{Credentials: credentialRepo, Clients: clientRepo},
		directory,
		directory,
		opaque.New(),
		loginsession.NewInMemoryLoginSessionRepo(),
	)
	require.NoError(t, err)

	return &serverFixture{server: srv, credentialRepo: credentialRepo}
}

func (f *serverFixture) login(t *testing.T) *http.Cookie {
	t.Helper()

	form := url.Values{"username": {testUsername}, "password": {testUserPassword}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "session_id" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func (f *serverFixture) authorise(t *testing.T, form url.Values, sessionCookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/oauth/authorise", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if sessionCookie != nil {
		req.AddCookie(sessionCookie)
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func validForm() url.Values {
	return url.Values{
		"client_id":     {testClientID},
		"client_secret": {testClientSecret},
		"password":      {testOwnerPassword},
	}
}

func TestAuthoriseCredentialsSuccess(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.login(t)

	rec := f.authorise(t, validForm(), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	// Exact wire contract keys.
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 3)
	require.Contains(t, body, "access_token")
	require.Contains(t, body, "refresh_token")
	require.Equal(t, float64(3600), body["expires_in"])
	require.NotEmpty(t, body["access_token"])
	require.NotEmpty(t, body["refresh_token"])

	stored, err := f.credentialRepo.LoadBySecret(context.Background(), testClientSecret)
	require.NoError(t, err)
	require.Equal(t, credentials.StageAuthorized, stored.Stage)
	require.Equal(t, body["access_token"], stored.AccessToken)
}

func TestAuthoriseCredentialsWithoutSignIn(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.authorise(t, validForm(), nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "access_denied", body["error"])
	require.Equal(t, "You must first sign in.", body["error_description"])

	stored, err := f.credentialRepo.LoadBySecret(context.Background(), testClientSecret)
	require.NoError(t, err)
	require.Equal(t, credentials.StageTemporary, stored.Stage)
}

func TestAuthoriseCredentialsConsumedCredential(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.login(t)

	first := f.authorise(t, validForm(), cookie)
	require.Equal(t, http.StatusOK, first.Code)

	second := f.authorise(t, validForm(), cookie)
	require.Equal(t, http.StatusBadRequest, second.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	require.Equal(t, "invalid_grant", body["error"])
	require.Equal(t, "The token is not for a temporary credentials set.", body["error_description"])
}

func TestAuthoriseCredentialsUnknownSecret(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.login(t)

	form := validForm()
	form.Set("client_secret", "unknown")
	rec := f.authorise(t, form, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "invalid_client", body["error"])
}

func TestAuthoriseCredentialsMissingParameters(t *testing.T) {
	f := setupServerFixture(t)

	rec := f.authorise(t, url.Values{"client_id": {testClientID}}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "invalid_request", body["error"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := setupServerFixture(t)

	form := url.Values{"username": {testUsername}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	f := setupServerFixture(t)
	cookie := f.login(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The credential authorisation now runs without a principal.
	authRec := f.authorise(t, validForm(), cookie)
	require.Equal(t, http.StatusUnauthorized, authRec.Code)
}
