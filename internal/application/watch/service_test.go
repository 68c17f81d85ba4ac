package watch

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/movietrack-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeListStore mimics the version-conditioned repo: Put fails with conflict
// when the caller's read version no longer matches the stored one.
type fakeListStore struct {
	docs map[string]domain.ListDocument
}

func newFakeListStore() *fakeListStore {
	return &fakeListStore{docs: make(map[string]domain.ListDocument)}
}

func (f *fakeListStore) Get(_ context.Context, userID string) (*domain.ListDocument, error) {
	doc, ok := f.docs[userID]
	if !ok {
		return nil, fmt.Errorf("list not found: %w", domain.ErrNotFound)
	}
	out := doc
	out.Movies = append([]domain.ListEntry(nil), doc.Movies...)
	return &out, nil
}

func (f *fakeListStore) Put(_ context.Context, doc *domain.ListDocument) error {
	stored, exists := f.docs[doc.UserID]
	if exists && stored.Version != doc.Version {
		return fmt.Errorf("list modified concurrently: %w", domain.ErrConflict)
	}
	if !exists && doc.Version != 0 {
		return fmt.Errorf("list modified concurrently: %w", domain.ErrConflict)
	}
	next := *doc
	next.Movies = append([]domain.ListEntry(nil), doc.Movies...)
	next.Version = doc.Version + 1
	f.docs[doc.UserID] = next
	return nil
}

func addReq(movieID int) AddEntryRequest {
	return AddEntryRequest{
		MovieID: movieID,
		Title:   fmt.Sprintf("Movie %d", movieID),
		Poster:  fmt.Sprintf("https://img.example.com/%d.jpg", movieID),
	}
}

func TestAdd_MissingFields(t *testing.T) {
	svc := NewService(newFakeListStore())
	for _, req := range []AddEntryRequest{
		{Title: "T", Poster: "https://p"},
		{MovieID: 1, Poster: "https://p"},
		{MovieID: 1, Title: "T"},
	} {
		err := svc.Add(context.Background(), "u1", req)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrBadRequest))
	}
}

func TestAdd_FirstEntryCreatesDocument(t *testing.T) {
	store := newFakeListStore()
	svc := NewService(store)

	require.NoError(t, svc.Add(context.Background(), "u1", addReq(42)))

	doc, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, doc.Movies, 1)
	assert.Equal(t, 42, doc.Movies[0].MovieID)
	assert.False(t, doc.Movies[0].At().IsZero())
}

func TestAdd_DuplicateMovieID_Conflict(t *testing.T) {
	store := newFakeListStore()
	svc := NewService(store)

	require.NoError(t, svc.Add(context.Background(), "u1", addReq(42)))
	err := svc.Add(context.Background(), "u1", addReq(42))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))

	doc, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, doc.Movies, 1)
}

func TestList_AbsentDocument_EmptyNotError(t *testing.T) {
	svc := NewService(newFakeListStore())
	movies, err := svc.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, movies)
	assert.Empty(t, movies)
}

func TestList_SortedMostRecentFirst(t *testing.T) {
	store := newFakeListStore()
	now := time.Now().UTC()
	store.docs["u1"] = domain.ListDocument{
		UserID:  "u1",
		Version: 1,
		Movies: []domain.ListEntry{
			{MovieID: 1, AddedAt: now.Add(-2 * time.Hour).Format(time.RFC3339Nano)},
			{MovieID: 2, AddedAt: now.Format(time.RFC3339Nano)},
			{MovieID: 3, AddedAt: now.Add(-time.Hour).Format(time.RFC3339Nano)},
		},
	}
	svc := NewService(store)

	movies, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	ids := []int{movies[0].MovieID, movies[1].MovieID, movies[2].MovieID}
	assert.Equal(t, []int{2, 3, 1}, ids)
}

func TestList_UnparseableTimestampSortsLast(t *testing.T) {
	store := newFakeListStore()
	store.docs["u1"] = domain.ListDocument{
		UserID:  "u1",
		Version: 1,
		Movies: []domain.ListEntry{
			{MovieID: 1, AddedAt: "garbage"},
			{MovieID: 2, AddedAt: time.Now().UTC().Format(time.RFC3339Nano)},
		},
	}
	svc := NewService(store)

	movies, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, movies[0].MovieID)
	assert.Equal(t, 1, movies[1].MovieID)
}

func TestRemove_AbsentDocument_NotFound(t *testing.T) {
	svc := NewService(newFakeListStore())
	err := svc.Remove(context.Background(), "nobody", 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestRemove_NonPresentID_Idempotent(t *testing.T) {
	store := newFakeListStore()
	svc := NewService(store)
	require.NoError(t, svc.Add(context.Background(), "u1", addReq(10)))

	require.NoError(t, svc.Remove(context.Background(), "u1", 999))

	doc, err := store.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, doc.Movies, 1)
}

func TestClear_AbsentDocument_Succeeds(t *testing.T) {
	store := newFakeListStore()
	svc := NewService(store)

	require.NoError(t, svc.Clear(context.Background(), "nobody"))

	movies, err := svc.List(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestListLifecycle_EndToEnd(t *testing.T) {
	store := newFakeListStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "u1", addReq(10)))
	require.NoError(t, svc.Add(ctx, "u1", addReq(20)))

	movies, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, movies, 2)
	// Most recent insertion first; equal timestamps fall back to the stable
	// original order, so 20 may not strictly precede 10 only if the two
	// writes landed in the same nanosecond.
	assert.ElementsMatch(t, []int{movies[0].MovieID, movies[1].MovieID}, []int{10, 20})

	require.NoError(t, svc.Remove(ctx, "u1", 10))
	movies, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, 20, movies[0].MovieID)

	require.NoError(t, svc.Clear(ctx, "u1"))
	movies, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, movies)
}

func TestAdd_ConcurrentRewrite_SurfacesConflict(t *testing.T) {
	store := newFakeListStore()
	svc := NewService(store)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, "u1", addReq(10)))

	// Simulate a write that lands between this add's read and its rewrite.
	stale, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, svc.Add(ctx, "u1", addReq(20)))

	stale.Movies = append(stale.Movies, domain.ListEntry{MovieID: 30, Title: "M", Poster: "https://p"})
	err = store.Put(ctx, stale)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}
