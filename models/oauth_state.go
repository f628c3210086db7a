package models

import "time"

// OAuthState correlates a provider redirect round-trip with the user that started it.
// A state is redeemable once.
type OAuthState struct {
	State     string    `db:"state"      json:"state"`
	UserID    string    `db:"user_id"    json:"user_id"`
	Service   Service   `db:"service"    json:"service"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// IsExpired reports whether the state is older than ttl at now
func (s *OAuthState) IsExpired(ttl time.Duration, now time.Time) bool {
	return now.Sub(s.CreatedAt) > ttl
}
