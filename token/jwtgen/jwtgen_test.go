package jwtgen_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-credential-server/token/jwtgen"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "0123456789abcdef0123456789abcdef"
	testIssuer   = "com.testissuer"
	testAudience = "api"
)

func TestGenerateSignedAccessToken(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	generator, err := jwtgen.New([]byte(testSecret), testIssuer, testAudience,
		jwtgen.WithNowFunc(func() time.Time { return now }),
		jwtgen.WithAccessExpiry(time.Hour),
	)
	require.NoError(t, err)

	pair, err := generator.Generate("user42", "client-1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.RefreshToken)
	require.Len(t, pair.RefreshToken, 64)

	parsed, err := jwt.Parse(pair.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return now }))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, testIssuer, claims["iss"])
	require.Equal(t, "user42", claims["sub"])
	require.Equal(t, testAudience, claims["aud"])
	require.Equal(t, "client-1", claims["azp"])
	require.Equal(t, float64(now.Unix()), claims["iat"])
	require.Equal(t, float64(now.Add(time.Hour).Unix()), claims["exp"])
	require.NotEmpty(t, claims["jti"])
}

func TestGenerateUniqueTokenIDs(t *testing.T) {
	generator, err := jwtgen.New([]byte(testSecret), testIssuer, testAudience)
	require.NoError(t, err)

	first, err := generator.Generate("user42", "client-1")
	require.NoError(t, err)
	second, err := generator.Generate("user42", "client-1")
	require.NoError(t, err)

	require.NotEqual(t, first.AccessToken, second.AccessToken)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := jwtgen.New(nil, testIssuer, testAudience)
	require.Error(t, err)
}
