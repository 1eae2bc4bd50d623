// Package search provides full-text photo search using Bleve.
// Photos are indexed by title, description, and tags with fuzzy matching
// and tag faceting for browse-style filtering.
package search

import (
	"strconv"

	"github.com/shoeboxapp/shoebox-server/internal/domain"
)

// PhotoDocument is the document structure for the Bleve index.
type PhotoDocument struct {
	ID          string   `json:"id"` // Photo ID as a string (Bleve keys are strings)
	UserID      int      `json:"user_id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Filename    string   `json:"filename,omitempty"`
	IsFavorite  bool     `json:"is_favorite"`
	UploadDate  int64    `json:"upload_date"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *PhotoDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"user_id":     d.UserID,
		"title":       d.Title,
		"is_favorite": d.IsFavorite,
		"upload_date": d.UploadDate,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Filename != "" {
		m["filename"] = d.Filename
	}

	return m
}

// PhotoToDocument converts a domain Photo to its indexed form.
func PhotoToDocument(p *domain.Photo) *PhotoDocument {
	return &PhotoDocument{
		ID:          strconv.Itoa(p.ID),
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        p.Tags,
		Filename:    p.Filename,
		IsFavorite:  p.IsFavorite,
		UploadDate:  p.UploadDate.UnixMilli(),
	}
}
