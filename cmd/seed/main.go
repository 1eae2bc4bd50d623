// Package main provides a tool to seed the document store with demo data.
//
// This creates a demo user (if requested), a spread of tagged photos, and a
// couple of albums so list, search, and sharing features have something to
// show during development. Photo records point at placeholder filenames; no
// image files are written.
//
// Usage:
//
//	DOCUMENT_PATH=~/Shoebox/data/shoebox.json go run ./cmd/seed
//	DOCUMENT_PATH=~/Shoebox/data/shoebox.json go run ./cmd/seed --create-user
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/shoeboxapp/shoebox-server/internal/auth"
	"github.com/shoeboxapp/shoebox-server/internal/domain"
	"github.com/shoeboxapp/shoebox-server/internal/store"
)

var createUser = flag.Bool("create-user", false, "Create a demo user if the store has none")

var (
	photoTitles = []string{
		"Golden hour at the pier", "Backyard barbecue", "First snow",
		"Market day", "Sunday hike", "City lights", "Lake reflections",
		"Birthday cake", "Old town alley", "Morning coffee",
	}
	tagPool = []string{"family", "travel", "nature", "food", "friends", "city", "beach", "winter"}
)

func main() {
	flag.Parse()

	docPath := os.Getenv("DOCUMENT_PATH")
	if docPath == "" {
		docPath = os.ExpandEnv("$HOME/Shoebox/data/shoebox.json")
	}

	fmt.Printf("Opening document at: %s\n", docPath)

	backend, err := store.NewFileBackend(docPath)
	if err != nil {
		log.Fatalf("Failed to open document: %v", err)
	}

	ctx := context.Background()
	if err := backend.Init(ctx); err != nil {
		log.Fatalf("Failed to initialize document: %v", err)
	}

	s := store.New(backend, slog.New(slog.DiscardHandler))
	defer s.Close()

	if *createUser {
		createDemoUser(ctx, s)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	if len(users) == 0 {
		log.Fatal("No users found. Run with --create-user or register one first.")
	}

	fmt.Printf("Found %d users\n", len(users))

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, user := range users {
		fmt.Printf("\nSeeding data for user: %s (id %d)\n", user.Username, user.ID)
		seedUser(ctx, s, user, rng)
	}

	fmt.Println("\nDone.")
}

func createDemoUser(ctx context.Context, s *store.Store) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to list users: %v", err)
	}
	if len(users) > 0 {
		fmt.Println("Users already exist, skipping demo user")
		return
	}

	hash, err := auth.HashPassword("password123")
	if err != nil {
		log.Fatalf("Failed to hash demo password: %v", err)
	}

	user, err := s.CreateUser(ctx, &domain.User{
		Username:     "demo",
		Email:        "demo@shoebox.local",
		PasswordHash: hash,
	})
	if err != nil {
		log.Fatalf("Failed to create demo user: %v", err)
	}

	fmt.Printf("Created demo user %q (id %d), password \"password123\"\n", user.Email, user.ID)
}

func seedUser(ctx context.Context, s *store.Store, user *domain.User, rng *rand.Rand) {
	photoIDs := make([]int, 0, len(photoTitles))

	for i, title := range photoTitles {
		tags := pickTags(rng)
		photo, err := s.CreatePhoto(ctx, &domain.Photo{
			UserID:     user.ID,
			Title:      title,
			Tags:       tags,
			Filename:   fmt.Sprintf("seed-%d-%d.jpg", user.ID, i),
			Filepath:   fmt.Sprintf("uploads/seed-%d-%d.jpg", user.ID, i),
			UploadDate: time.Now().AddDate(0, 0, -rng.Intn(365)),
			IsFavorite: rng.Intn(4) == 0,
		})
		if err != nil {
			log.Printf("Failed to create photo %q: %v", title, err)
			continue
		}
		photoIDs = append(photoIDs, photo.ID)
	}

	fmt.Printf("  Created %d photos\n", len(photoIDs))

	if len(photoIDs) < 4 {
		return
	}

	albums := []struct {
		title string
		ids   []int
	}{
		{"Favorites so far", photoIDs[:len(photoIDs)/2]},
		{"Summer collection", photoIDs[len(photoIDs)/2:]},
	}

	for _, a := range albums {
		album, err := s.CreateAlbum(ctx, &domain.Album{
			UserID:   user.ID,
			Title:    a.title,
			PhotoIDs: a.ids,
		})
		if err != nil {
			log.Printf("Failed to create album %q: %v", a.title, err)
			continue
		}
		fmt.Printf("  Created album %q with %d photos (share: %s)\n",
			album.Title, len(album.PhotoIDs), album.ShareID)
	}
}

func pickTags(rng *rand.Rand) []string {
	n := 1 + rng.Intn(3)
	picked := make([]string, 0, n)
	for _, idx := range rng.Perm(len(tagPool))[:n] {
		picked = append(picked, tagPool[idx])
	}
	return picked
}
