package domain

import (
	"slices"
	"time"
)

// Photo represents a single uploaded image and its metadata.
// AlbumIDs is the back-reference side of the album↔photo mapping; it is
// only ever mutated by album operations and photo deletion, never directly
// through a photo update.
type Photo struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Tags        []string  `json:"tags"`
	Filename    string    `json:"filename"`
	Filepath    string    `json:"filepath"`
	UploadDate  time.Time `json:"uploadDate"`
	AlbumIDs    []int     `json:"albumIds"`
	IsFavorite  bool      `json:"isFavorite,omitempty"`
	BlurHash    string    `json:"blurHash,omitempty"`
}

// AddAlbum records membership in an album. Adding an album the photo is
// already linked to is a no-op, not a duplicate.
func (p *Photo) AddAlbum(albumID int) bool {
	if slices.Contains(p.AlbumIDs, albumID) {
		return false
	}
	p.AlbumIDs = append(p.AlbumIDs, albumID)
	return true
}

// RemoveAlbum strips an album id from the photo's back-references.
func (p *Photo) RemoveAlbum(albumID int) bool {
	for i, id := range p.AlbumIDs {
		if id == albumID {
			p.AlbumIDs = append(p.AlbumIDs[:i], p.AlbumIDs[i+1:]...)
			return true
		}
	}
	return false
}

// InAlbum checks if the photo is linked to an album.
func (p *Photo) InAlbum(albumID int) bool {
	return slices.Contains(p.AlbumIDs, albumID)
}

// HasTag checks if the photo carries a tag. Tags are stored normalized
// (lowercase, trimmed), so the lookup normalizes nothing.
func (p *Photo) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}
