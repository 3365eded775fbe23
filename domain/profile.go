package domain

import "time"

// Profile holds the public counters of an account.
type Profile struct {
	DID         string
	Handle      string
	DisplayName string
	Followers   int
	Following   int
	PostsCount  int
}

// Follow is an account followed by the authenticated user.
type Follow struct {
	DID       string
	Handle    string
	CreatedAt time.Time
}
