package opaque

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/jrsteele09/go-credential-server/token"
	"github.com/pkg/errors"
)

const tokenBytes = 32 // 256 bits

var _ token.Generator = (*Generator)(nil)

// Generator mints opaque random token pairs. Values carry no claims
// and are only meaningful to the credential store that persists them.
type Generator struct{}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Generate(principalID, clientID string) (token.Pair, error) {
	access, err := randomToken()
	if err != nil {
		return token.Pair{}, errors.Wrap(err, "[Generator.Generate] access token")
	}
	refresh, err := randomToken()
	if err != nil {
		return token.Pair{}, errors.Wrap(err, "[Generator.Generate] refresh token")
	}
	return token.Pair{AccessToken: access, RefreshToken: refresh}, nil
}

func randomToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "rand.Read")
	}
	return hex.EncodeToString(b), nil
}
