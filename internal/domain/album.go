package domain

import (
	"slices"
	"time"
)

// Album represents a named grouping of photos.
// PhotoIDs is the forward side of the album↔photo mapping. ShareID is
// generated once at creation (slugified title plus a random suffix) and is
// preserved verbatim across updates, even if an update supplies a different
// value.
type Album struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PhotoIDs    []int     `json:"photoIds"`
	CoverPhoto  int       `json:"coverPhoto,omitempty"`
	ShareID     string    `json:"shareId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// AddPhoto adds a photo id to the album if not already present.
func (a *Album) AddPhoto(photoID int) bool {
	if slices.Contains(a.PhotoIDs, photoID) {
		return false
	}
	a.PhotoIDs = append(a.PhotoIDs, photoID)
	return true
}

// RemovePhoto removes a photo id from the album.
func (a *Album) RemovePhoto(photoID int) bool {
	for i, id := range a.PhotoIDs {
		if id == photoID {
			a.PhotoIDs = append(a.PhotoIDs[:i], a.PhotoIDs[i+1:]...)
			return true
		}
	}
	return false
}

// ContainsPhoto checks if a photo id is in this album.
func (a *Album) ContainsPhoto(photoID int) bool {
	return slices.Contains(a.PhotoIDs, photoID)
}
