// Package watch is the list manager shared by the watchlist and the watched
// list. One Service instance is built per list kind; the only difference
// between the two is the backing table.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/movietrack-api/internal/domain"
)

type AddEntryRequest struct {
	MovieID int    `json:"id" validate:"required"`
	Title   string `json:"title" validate:"required"`
	Poster  string `json:"poster" validate:"required,url"`
}

type Service interface {
	Add(ctx context.Context, userID string, req AddEntryRequest) error
	List(ctx context.Context, userID string) ([]domain.ListEntry, error)
	Remove(ctx context.Context, userID string, movieID int) error
	Clear(ctx context.Context, userID string) error
}

type listStore interface {
	Get(ctx context.Context, userID string) (*domain.ListDocument, error)
	Put(ctx context.Context, doc *domain.ListDocument) error
}

type service struct {
	repo listStore
}

func NewService(repo listStore) Service {
	return &service{repo: repo}
}

// Add appends the movie with a server-assigned timestamp. Duplicate movie
// ids within one list are rejected, not merged.
func (s *service) Add(ctx context.Context, userID string, req AddEntryRequest) error {
	if req.MovieID == 0 || req.Title == "" || req.Poster == "" {
		return fmt.Errorf("missing required fields: %w", domain.ErrBadRequest)
	}
	doc, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		doc = &domain.ListDocument{UserID: userID}
	}
	for _, e := range doc.Movies {
		if e.MovieID == req.MovieID {
			return fmt.Errorf("movie already in list: %w", domain.ErrConflict)
		}
	}
	doc.Movies = append(doc.Movies, domain.ListEntry{
		MovieID: req.MovieID,
		Title:   req.Title,
		Poster:  req.Poster,
		AddedAt: time.Now().UTC().Format(time.RFC3339Nano),
	})
	return s.repo.Put(ctx, doc)
}

// List returns the user's entries most recent first. A user with no list
// document gets an empty slice, not an error.
func (s *service) List(ctx context.Context, userID string) ([]domain.ListEntry, error) {
	doc, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.ListEntry{}, nil
		}
		return nil, err
	}
	movies := make([]domain.ListEntry, len(doc.Movies))
	copy(movies, doc.Movies)
	sort.SliceStable(movies, func(i, j int) bool {
		return movies[i].At().After(movies[j].At())
	})
	return movies, nil
}

// Remove filters the movie out and rewrites the document. Removing an id
// that is not present succeeds with no change; a user with no document at
// all is not found.
func (s *service) Remove(ctx context.Context, userID string, movieID int) error {
	doc, err := s.repo.Get(ctx, userID)
	if err != nil {
		return err
	}
	kept := doc.Movies[:0]
	for _, e := range doc.Movies {
		if e.MovieID != movieID {
			kept = append(kept, e)
		}
	}
	doc.Movies = kept
	return s.repo.Put(ctx, doc)
}

// Clear rewrites the document with an empty sequence regardless of prior
// state, creating it if the user never had one.
func (s *service) Clear(ctx context.Context, userID string) error {
	doc, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		doc = &domain.ListDocument{UserID: userID}
	}
	doc.Movies = []domain.ListEntry{}
	return s.repo.Put(ctx, doc)
}
