package credentials

import "github.com/pkg/errors"

// Stage is the lifecycle stage of a credential set.
type Stage int

const (
	// StageTemporary marks a credential set issued before resource-owner
	// authorisation. Not yet usable for API access.
	StageTemporary Stage = iota

	// StageAuthorized marks a credential set bound to an authenticated
	// principal and upgraded with live access/refresh tokens.
	StageAuthorized
)

func (s Stage) String() string {
	switch s {
	case StageTemporary:
		return "temporary"
	case StageAuthorized:
		return "authorized"
	}
	return "unknown"
}

// Credential is one OAuth credential set through its lifecycle.
// While the stage is StageTemporary, PrincipalID, AccessToken and
// RefreshToken are all empty; once StageAuthorized, all are set.
type Credential struct {
	Secret       string `json:"secret"`
	Stage        Stage  `json:"stage"`
	CallbackURL  string `json:"callbackURL,omitempty"` // carried for record completeness, redirect flow disabled
	PrincipalID  string `json:"principalId,omitempty"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// Authorise binds the credential set to the resource owner and
// upgrades it with live token values. The transition happens exactly
// once: a credential set that is no longer temporary is rejected with
// ErrNotTemporary and left unchanged.
func (c *Credential) Authorise(principalID, accessToken, refreshToken string) error {
	if c.Stage != StageTemporary {
		return ErrNotTemporary
	}
	if principalID == "" {
		return errors.New("[Credential.Authorise] principal id is required")
	}
	if accessToken == "" || refreshToken == "" {
		return errors.New("[Credential.Authorise] token values are required")
	}

	c.PrincipalID = principalID
	c.AccessToken = accessToken
	c.RefreshToken = refreshToken
	c.Stage = StageAuthorized
	return nil
}
