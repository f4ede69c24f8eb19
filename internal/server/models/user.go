// Package models holds the entities persisted in the key-value store and the
// derived read-only views assembled from them.
package models

import "time"

// User is the credential record stored as a hash at user:<username>.
type User struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session is the bearer-token record stored as a hash at session:<token>.
// The backing key carries a store TTL; ExpiresAt is additionally checked on
// validation in case the physical eviction has not happened yet.
type Session struct {
	Token     string
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}
