// Package main provides a read-only inspection tool for the document store.
//
// It prints collection counts and verifies the invariants the API relies on:
// every album photo id resolves to a photo carrying the back-reference, every
// photo album id resolves to an album containing the photo, and shares and
// album share ids mirror each other.
//
// Usage:
//
//	DOCUMENT_PATH=~/Shoebox/data/shoebox.json go run ./cmd/dbinspect
//	STORE_BACKEND=badger BADGER_PATH=~/Shoebox/data/badger go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shoeboxapp/shoebox-server/internal/store"
)

func main() {
	backend, err := openBackend()
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer backend.Close()

	doc, err := backend.Load(context.Background())
	if err != nil {
		log.Fatalf("Failed to load document: %v", err)
	}

	fmt.Println("=== Document Inspection ===")
	fmt.Println()
	fmt.Printf("Users:  %d\n", len(doc.Users))
	fmt.Printf("Photos: %d\n", len(doc.Photos))
	fmt.Printf("Albums: %d\n", len(doc.Albums))
	fmt.Printf("Shares: %d\n", len(doc.Shares))
	fmt.Println()

	for _, album := range doc.Albums {
		fmt.Printf("Album %d %q: %d photos, share %s\n",
			album.ID, album.Title, len(album.PhotoIDs), album.ShareID)
	}
	fmt.Println()

	problems := checkConsistency(doc)
	if len(problems) == 0 {
		fmt.Println("All album/photo/share links are consistent.")
		return
	}

	fmt.Printf("Found %d consistency problems:\n", len(problems))
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	os.Exit(1)
}

func openBackend() (store.Backend, error) {
	if os.Getenv("STORE_BACKEND") == "badger" {
		path := os.Getenv("BADGER_PATH")
		if path == "" {
			path = os.ExpandEnv("$HOME/Shoebox/data/badger")
		}
		fmt.Printf("Opening badger store at: %s\n", path)
		return store.NewBadgerBackend(path)
	}

	path := os.Getenv("DOCUMENT_PATH")
	if path == "" {
		path = os.ExpandEnv("$HOME/Shoebox/data/shoebox.json")
	}
	fmt.Printf("Opening document at: %s\n", path)
	return store.NewFileBackend(path)
}

func checkConsistency(doc *store.Document) []string {
	var problems []string

	for _, album := range doc.Albums {
		for _, photoID := range album.PhotoIDs {
			photo := doc.FindPhoto(photoID)
			if photo == nil {
				problems = append(problems,
					fmt.Sprintf("album %d lists missing photo %d", album.ID, photoID))
				continue
			}
			if !photo.InAlbum(album.ID) {
				problems = append(problems,
					fmt.Sprintf("album %d lists photo %d but the photo has no back-reference", album.ID, photoID))
			}
		}

		if album.ShareID != "" && doc.FindShare(album.ShareID) == nil {
			problems = append(problems,
				fmt.Sprintf("album %d has share id %q with no share record", album.ID, album.ShareID))
		}
	}

	for _, photo := range doc.Photos {
		for _, albumID := range photo.AlbumIDs {
			album := doc.FindAlbum(albumID)
			if album == nil {
				problems = append(problems,
					fmt.Sprintf("photo %d references missing album %d", photo.ID, albumID))
				continue
			}
			if !album.ContainsPhoto(photo.ID) {
				problems = append(problems,
					fmt.Sprintf("photo %d references album %d but the album does not contain it", photo.ID, albumID))
			}
		}
	}

	for _, share := range doc.Shares {
		album := doc.FindAlbum(share.AlbumID)
		if album == nil {
			problems = append(problems,
				fmt.Sprintf("share %q points at missing album %d", share.ID, share.AlbumID))
			continue
		}
		if album.ShareID != share.ID {
			problems = append(problems,
				fmt.Sprintf("share %q points at album %d whose share id is %q", share.ID, share.AlbumID, album.ShareID))
		}
	}

	return problems
}
