// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package actortest provides an in-memory [actor.Repository] for tests.
package actortest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/platform/apperr"
)

// Repository is a goroutine-safe in-memory actor store.
//
// OnDelete, when set, runs after an actor row is removed so tests can mirror
// the cast cleanup the database does with ON DELETE CASCADE.
type Repository struct {
	mu       sync.Mutex
	actors   map[string]*actor.Actor // by id
	OnDelete func(actorID string)
}

// New returns an empty repository.
func New() *Repository {
	return &Repository{actors: map[string]*actor.Actor{}}
}

// Len returns the number of stored actors.
func (repository *Repository) Len() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.actors)
}

func clone(source *actor.Actor) *actor.Actor {
	copied := *source
	if source.DateOfDeath != nil {
		death := *source.DateOfDeath
		copied.DateOfDeath = &death
	}
	return &copied
}

func (repository *Repository) bySlug(actorSlug string) *actor.Actor {
	for _, stored := range repository.actors {
		if stored.Slug == actorSlug {
			return stored
		}
	}
	return nil
}

func (repository *Repository) Create(_ context.Context, created *actor.Actor) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if other := repository.bySlug(created.Slug); other != nil {
		return apperr.Duplicate("Actor", "name", created.Name)
	}

	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	repository.actors[created.ID] = clone(created)
	return nil
}

func (repository *Repository) Update(_ context.Context, updated *actor.Actor) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.actors[updated.ID]
	if !ok {
		return apperr.NotFound("Actor")
	}
	if other := repository.bySlug(updated.Slug); other != nil && other.ID != updated.ID {
		return apperr.Duplicate("Actor", "name", updated.Name)
	}

	next := clone(updated)
	next.CreatedAt = stored.CreatedAt
	next.UpdatedAt = time.Now()
	repository.actors[updated.ID] = next
	return nil
}

func (repository *Repository) FindBySlug(_ context.Context, actorSlug string) (*actor.Actor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if stored := repository.bySlug(actorSlug); stored != nil {
		return clone(stored), nil
	}
	return nil, apperr.NotFound("Actor")
}

func (repository *Repository) FindByID(_ context.Context, id string) (*actor.Actor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if stored, ok := repository.actors[id]; ok {
		return clone(stored), nil
	}
	return nil, apperr.NotFound("Actor")
}

func (repository *Repository) FindByIDs(_ context.Context, ids []string) ([]*actor.Actor, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	out := []*actor.Actor{}
	for _, id := range ids {
		if stored, ok := repository.actors[id]; ok {
			out = append(out, clone(stored))
		}
	}
	return out, nil
}

func (repository *Repository) FindAll(context context.Context) ([]*actor.Actor, error) {
	actors, _, err := repository.List(context, actor.Filter{}, 0, 0)
	return actors, err
}

func (repository *Repository) List(_ context.Context, filter actor.Filter, skip, limit int) ([]*actor.Actor, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(filter.Query))
	matches := []*actor.Actor{}
	for _, stored := range repository.actors {
		if needle == "" || strings.Contains(strings.ToLower(stored.Name), needle) {
			matches = append(matches, clone(stored))
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		left, right := strings.ToLower(matches[i].Name), strings.ToLower(matches[j].Name)
		if left == right {
			return matches[i].ID < matches[j].ID
		}
		return left < right
	})

	total := len(matches)
	if skip >= total {
		return []*actor.Actor{}, total, nil
	}
	matches = matches[skip:]
	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return matches, total, nil
}

func (repository *Repository) DeleteBySlug(_ context.Context, actorSlug string) error {
	repository.mu.Lock()
	stored := repository.bySlug(actorSlug)
	if stored == nil {
		repository.mu.Unlock()
		return apperr.NotFound("Actor")
	}
	delete(repository.actors, stored.ID)
	onDelete := repository.OnDelete
	repository.mu.Unlock()

	if onDelete != nil {
		onDelete(stored.ID)
	}
	return nil
}
