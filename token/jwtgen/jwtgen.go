package jwtgen

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-credential-server/token"
	"github.com/pkg/errors"
)

const refreshTokenBytes = 32 // 256 bits

var _ token.Generator = (*Generator)(nil)

// Generator mints JWT access tokens signed with a shared HMAC secret
// alongside opaque refresh tokens. The access token carries the
// authorised principal as its subject and the client as its audience.
type Generator struct {
	secret       []byte
	issuer       string
	audience     string
	accessExpiry time.Duration
	nowFunc      func() time.Time
}

type GeneratorOption func(*Generator)

func WithAccessExpiry(expiry time.Duration) GeneratorOption {
	return func(g *Generator) {
		g.accessExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		g.nowFunc = now
	}
}

func New(secret []byte, issuer, audience string, options ...GeneratorOption) (*Generator, error) {
	if len(secret) == 0 {
		return nil, errors.New("[jwtgen.New] signing secret is required")
	}

	g := &Generator{
		secret:       secret,
		issuer:       issuer,
		audience:     audience,
		accessExpiry: time.Hour,
		nowFunc:      time.Now,
	}

	for _, opt := range options {
		opt(g)
	}

	return g, nil
}

func (g *Generator) Generate(principalID, clientID string) (token.Pair, error) {
	claims := jwt.MapClaims{
		"iss": g.issuer,
		"sub": principalID,
		"aud": g.audience,
		"azp": clientID,
		"iat": g.nowFunc().Unix(),
		"exp": g.nowFunc().Add(g.accessExpiry).Unix(),
		"jti": uuid.New().String(),
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return token.Pair{}, errors.Wrap(err, "[Generator.Generate] SignedString")
	}

	refreshBytes := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(refreshBytes); err != nil {
		return token.Pair{}, errors.Wrap(err, "[Generator.Generate] rand.Read")
	}

	return token.Pair{AccessToken: access, RefreshToken: hex.EncodeToString(refreshBytes)}, nil
}
