package config

import "time"

type OAuthConfig interface {
	GetStoreTimeout() time.Duration
	GetSessionTTL() time.Duration
	GetSigningSecret() string
	GetIssuer() string
	GetAudience() string
	GetOIDCIssuer() string
	GetOIDCClientID() string
	GetOIDCClientSecret() string
	GetOIDCRedirectURL() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetStoreTimeout() time.Duration {
	return getDuration("STORE_TIMEOUT", 5*time.Second)
}

func (OAuth) GetSessionTTL() time.Duration {
	return getDuration("SESSION_TTL", 12*time.Hour)
}

// GetSigningSecret returns the HMAC secret for JWT access tokens.
// Empty means opaque tokens are issued instead.
func (OAuth) GetSigningSecret() string {
	return GetEnv("SIGNING_SECRET", "")
}

func (OAuth) GetIssuer() string {
	return GetEnv("ISSUER", "com.credentialserver")
}

func (OAuth) GetAudience() string {
	return GetEnv("AUDIENCE", "api")
}

// GetOIDCIssuer returns the upstream OIDC issuer URL. Empty means
// principals authenticate against the local directory instead.
func (OAuth) GetOIDCIssuer() string {
	return GetEnv("OIDC_ISSUER", "")
}

func (OAuth) GetOIDCClientID() string {
	return GetEnv("OIDC_CLIENT_ID", "")
}

func (OAuth) GetOIDCClientSecret() string {
	return GetEnv("OIDC_CLIENT_SECRET", "")
}

func (OAuth) GetOIDCRedirectURL() string {
	return GetEnv("OIDC_REDIRECT_URL", "")
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := GetEnv(key, "")
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
