package domain

import "time"

// Share is a public, unauthenticated access record granting a stable link to
// one album. Its ID equals the album's ShareID.
//
// ExpiresAt is recorded but never enforced anywhere; expiry was left inert in
// the data model and requests against an expired share still succeed.
type Share struct {
	ID        string     `json:"id"`
	AlbumID   int        `json:"albumId"`
	CreatedAt time.Time  `json:"createdAt"`
	ExpiresAt *time.Time `json:"expiresAt"`
}
