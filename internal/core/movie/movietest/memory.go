// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package movietest provides an in-memory [movie.Repository] for tests.
package movietest

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/core/movie"
	"github.com/taibuivan/cinemateca/internal/platform/apperr"
)

// Repository is a goroutine-safe in-memory movie store.
type Repository struct {
	mu     sync.Mutex
	movies map[string]*movie.Movie // by id
	now    func() time.Time

	// Actors resolves slugs for [Repository.FindAllContainingActor] the way
	// the join against the actor table does, so renames are seen at once.
	// Nil resolves no actor.
	Actors actor.Repository
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{
		movies: map[string]*movie.Movie{},
		now:    time.Now,
	}
}

// ForgetActor drops the actor from every cast, as deleting the actor row does.
func (repository *Repository) ForgetActor(actorID string) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, stored := range repository.movies {
		stored.Actors = slices.DeleteFunc(stored.Actors, func(ref movie.ActorRef) bool {
			return ref.ActorID == actorID
		})
	}
}

// Len returns the number of stored movies.
func (repository *Repository) Len() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.movies)
}

func clone(source *movie.Movie) *movie.Movie {
	copied := *source
	copied.Genre = slices.Clone(source.Genre)
	copied.CountryOfProduction = slices.Clone(source.CountryOfProduction)
	copied.Actors = slices.Clone(source.Actors)
	if copied.Actors == nil {
		copied.Actors = []movie.ActorRef{}
	}
	copied.ReleaseYear = copied.ReleaseDate.Year()
	return &copied
}

func (repository *Repository) bySlug(movieSlug string) *movie.Movie {
	for _, stored := range repository.movies {
		if stored.Slug == movieSlug {
			return stored
		}
	}
	return nil
}

func (repository *Repository) slugTaken(movieSlug, selfID string) bool {
	other := repository.bySlug(movieSlug)
	return other != nil && other.ID != selfID
}

func (repository *Repository) Create(_ context.Context, created *movie.Movie) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.slugTaken(created.Slug, created.ID) {
		return apperr.Duplicate("Movie", "title", created.Title)
	}

	created.CreatedAt = repository.now()
	created.UpdatedAt = created.CreatedAt
	repository.movies[created.ID] = clone(created)
	return nil
}

func (repository *Repository) Update(_ context.Context, updated *movie.Movie) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.movies[updated.ID]
	if !ok {
		return apperr.NotFound("Movie")
	}
	if repository.slugTaken(updated.Slug, updated.ID) {
		return apperr.Duplicate("Movie", "title", updated.Title)
	}

	next := clone(updated)
	if updated.Actors == nil {
		next.Actors = slices.Clone(stored.Actors)
	}
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = repository.now()
	repository.movies[updated.ID] = next
	return nil
}

func (repository *Repository) FindBySlug(_ context.Context, movieSlug string) (*movie.Movie, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if stored := repository.bySlug(movieSlug); stored != nil {
		return clone(stored), nil
	}
	return nil, apperr.NotFound("Movie")
}

func (repository *Repository) FindByID(_ context.Context, id string) (*movie.Movie, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if stored, ok := repository.movies[id]; ok {
		return clone(stored), nil
	}
	return nil, apperr.NotFound("Movie")
}

func (repository *Repository) FindAll(context context.Context) ([]*movie.Movie, error) {
	return repository.FindPaginated(context, 0, 0, movie.DefaultSort)
}

func (repository *Repository) FindPaginated(_ context.Context, skip, limit int, order movie.Sort) ([]*movie.Movie, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return page(repository.sorted(movie.Filter{}, order), skip, limit), nil
}

func (repository *Repository) Search(_ context.Context, query movie.Query, skip, limit int) ([]*movie.Movie, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matches := repository.sorted(query.Filter, query.Sort)
	return page(matches, skip, limit), len(matches), nil
}

func (repository *Repository) Count(_ context.Context, filter movie.Filter) (int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return len(repository.sorted(filter, movie.DefaultSort)), nil
}

func (repository *Repository) DistinctValues(_ context.Context, field string) ([]string, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	seen := map[string]struct{}{}
	for _, stored := range repository.movies {
		var values []string
		switch field {
		case movie.DistinctGenre:
			values = stored.Genre
		case movie.DistinctCountry:
			values = stored.CountryOfProduction
		case movie.DistinctAgeRating:
			values = []string{stored.AgeRating}
		default:
			return nil, apperr.BadRequest("Unknown filter field")
		}
		for _, value := range values {
			seen[value] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for value := range seen {
		out = append(out, value)
	}
	sort.Strings(out)
	return out, nil
}

func (repository *Repository) DeleteBySlug(_ context.Context, movieSlug string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored := repository.bySlug(movieSlug)
	if stored == nil {
		return apperr.NotFound("Movie")
	}
	delete(repository.movies, stored.ID)
	return nil
}

func (repository *Repository) FindByActorID(_ context.Context, actorID string) ([]*movie.Movie, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	return repository.containing(actorID), nil
}

func (repository *Repository) FindAllContainingActor(context context.Context, actorSlug string) ([]*movie.Movie, error) {
	if repository.Actors == nil {
		return []*movie.Movie{}, nil
	}

	member, err := repository.Actors.FindBySlug(context, actorSlug)
	if apperr.IsNotFound(err) {
		return []*movie.Movie{}, nil
	}
	if err != nil {
		return nil, err
	}

	repository.mu.Lock()
	defer repository.mu.Unlock()
	return repository.containing(member.ID), nil
}

func (repository *Repository) AddActor(_ context.Context, movieID string, ref movie.ActorRef) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.movies[movieID]
	if !ok {
		return apperr.NotFound("Movie")
	}
	if stored.HasActor(ref.ActorID) {
		return apperr.Conflict("Actor is already in this movie")
	}
	stored.Actors = append(stored.Actors, ref)
	return nil
}

func (repository *Repository) UpdateActorRole(_ context.Context, movieID, actorID, role string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.movies[movieID]
	if !ok {
		return apperr.NotFound("Movie")
	}
	for index := range stored.Actors {
		if stored.Actors[index].ActorID == actorID {
			stored.Actors[index].Role = role
			return nil
		}
	}
	return apperr.NotFound("Cast entry")
}

func (repository *Repository) RemoveActor(_ context.Context, movieID, actorID string) (bool, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.movies[movieID]
	if !ok {
		return false, nil
	}
	before := len(stored.Actors)
	stored.Actors = slices.DeleteFunc(stored.Actors, func(ref movie.ActorRef) bool {
		return ref.ActorID == actorID
	})
	return len(stored.Actors) < before, nil
}

// containing must be called with the lock held.
func (repository *Repository) containing(actorID string) []*movie.Movie {
	out := []*movie.Movie{}
	for _, stored := range repository.sorted(movie.Filter{}, movie.DefaultSort) {
		if stored.HasActor(actorID) {
			out = append(out, stored)
		}
	}
	return out
}

// sorted must be called with the lock held.
func (repository *Repository) sorted(filter movie.Filter, order movie.Sort) []*movie.Movie {
	out := []*movie.Movie{}
	for _, stored := range repository.movies {
		if filter.Matches(stored) {
			out = append(out, clone(stored))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		left, right := out[i], out[j]
		var less, equal bool
		switch order.Field {
		case movie.SortTitle:
			a, b := strings.ToLower(left.Title), strings.ToLower(right.Title)
			less, equal = a < b, a == b
		case movie.SortCreatedAt:
			less, equal = left.CreatedAt.Before(right.CreatedAt), left.CreatedAt.Equal(right.CreatedAt)
		default:
			less, equal = left.ReleaseDate.Before(right.ReleaseDate), left.ReleaseDate.Equal(right.ReleaseDate)
		}
		if equal {
			less = left.ID < right.ID
		}
		if order.Descending {
			return !less
		}
		return less
	})
	return out
}

func page(movies []*movie.Movie, skip, limit int) []*movie.Movie {
	if skip >= len(movies) {
		return []*movie.Movie{}
	}
	movies = movies[skip:]
	if limit > 0 && limit < len(movies) {
		movies = movies[:limit]
	}
	return movies
}
