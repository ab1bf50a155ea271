package loginsession

import "time"

// Session is one signed-in resource-owner session. The session cookie
// maps to this record, which in turn names the principal the engine
// authorises credentials for.
type Session struct {
	ID          string
	PrincipalID string
	Username    string

	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type Repo interface {
	Upsert(sessionID string, session Session) error
	Get(sessionID string) (Session, error)
	Delete(sessionID string) error
}
