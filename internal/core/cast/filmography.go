// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cast

import (
	"context"

	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/core/movie"
)

// Filmography implements [actor.Filmography] over the movie store.
type Filmography struct {
	movies movie.Repository
}

// NewFilmography constructs a [Filmography].
func NewFilmography(movies movie.Repository) *Filmography {
	return &Filmography{movies: movies}
}

// Appearances lists the actor's movies, newest release first, with their role in each.
func (filmography *Filmography) Appearances(context context.Context, actorID string) ([]actor.Appearance, error) {
	movies, err := filmography.movies.FindByActorID(context, actorID)
	if err != nil {
		return nil, err
	}

	appearances := make([]actor.Appearance, 0, len(movies))
	for _, credited := range movies {
		appearance := actor.Appearance{
			Slug:        credited.Slug,
			Title:       credited.Title,
			ReleaseYear: credited.ReleaseYear,
			Poster:      credited.Poster,
		}
		for _, ref := range credited.Actors {
			if ref.ActorID == actorID {
				appearance.Role = ref.Role
				break
			}
		}
		appearances = append(appearances, appearance)
	}
	return appearances, nil
}
