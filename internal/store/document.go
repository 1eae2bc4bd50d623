package store

import (
	"github.com/shoeboxapp/shoebox-server/internal/domain"
)

// Document is the single aggregate persisted structure holding all
// collections. Every operation loads the whole document, mutates it, and
// persists it back; there is no partial read or write.
type Document struct {
	Users  []*domain.User  `json:"users"`
	Photos []*domain.Photo `json:"photos"`
	Albums []*domain.Album `json:"albums"`
	Shares []*domain.Share `json:"shares"`
}

// NewDocument creates an empty document with all collections initialized, so
// the persisted form always contains the four top-level arrays.
func NewDocument() *Document {
	return &Document{
		Users:  []*domain.User{},
		Photos: []*domain.Photo{},
		Albums: []*domain.Album{},
		Shares: []*domain.Share{},
	}
}

// normalize replaces nil collections with empty slices after a load, so the
// repositories never have to nil-check before appending.
func (d *Document) normalize() {
	if d.Users == nil {
		d.Users = []*domain.User{}
	}
	if d.Photos == nil {
		d.Photos = []*domain.Photo{}
	}
	if d.Albums == nil {
		d.Albums = []*domain.Album{}
	}
	if d.Shares == nil {
		d.Shares = []*domain.Share{}
	}
}

// Identifier assignment is max(existing ids)+1, or 1 for an empty
// collection. The caller must hold the store's write lock so the computed id
// is atomic with the insert.

// NextUserID returns the next user identifier.
func (d *Document) NextUserID() int {
	next := 1
	for _, u := range d.Users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}

// NextPhotoID returns the next photo identifier.
func (d *Document) NextPhotoID() int {
	next := 1
	for _, p := range d.Photos {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// NextAlbumID returns the next album identifier.
func (d *Document) NextAlbumID() int {
	next := 1
	for _, a := range d.Albums {
		if a.ID >= next {
			next = a.ID + 1
		}
	}
	return next
}

// FindUser returns the user with the given id, or nil.
func (d *Document) FindUser(id int) *domain.User {
	for _, u := range d.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FindUserByEmail returns the user with the given email (exact,
// case-sensitive match), or nil.
func (d *Document) FindUserByEmail(email string) *domain.User {
	for _, u := range d.Users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// FindPhoto returns the photo with the given id, or nil.
func (d *Document) FindPhoto(id int) *domain.Photo {
	for _, p := range d.Photos {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// FindAlbum returns the album with the given id, or nil.
func (d *Document) FindAlbum(id int) *domain.Album {
	for _, a := range d.Albums {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// FindAlbumByShareID returns the album with the given share id, or nil.
func (d *Document) FindAlbumByShareID(shareID string) *domain.Album {
	for _, a := range d.Albums {
		if a.ShareID == shareID {
			return a
		}
	}
	return nil
}

// FindShare returns the share with the given id, or nil.
func (d *Document) FindShare(id string) *domain.Share {
	for _, s := range d.Shares {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// removePhotoAt deletes the photo at index i preserving collection order.
func (d *Document) removePhotoAt(i int) {
	d.Photos = append(d.Photos[:i], d.Photos[i+1:]...)
}

// removeAlbumAt deletes the album at index i preserving collection order.
func (d *Document) removeAlbumAt(i int) {
	d.Albums = append(d.Albums[:i], d.Albums[i+1:]...)
}
