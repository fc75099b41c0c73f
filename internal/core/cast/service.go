// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cast manages the movie-actor relationship across both aggregates.

Core Responsibility:

  - Linking: Add an existing actor to a movie, change their role, or create
    and edit an actor from a movie page.
  - Unlinking: Remove an actor from a movie. When that movie was the actor's
    only one, the actor and their portrait are deleted as well.
  - Resolution: Expand a movie's {actorId, role} list into actor details.

Reference counting and removal for one actor run under a per-actor lock, so
two concurrent removals cannot both see a count of two and leave an orphan.
Deleting a movie does not cascade to its actors.
*/
package cast

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/core/movie"
	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/ctxutil"
	"github.com/taibuivan/cinemateca/internal/platform/lock"
	"github.com/taibuivan/cinemateca/internal/platform/sanitize"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
	"github.com/taibuivan/cinemateca/internal/platform/validate"
)

// # Payloads

// AddInput links an existing actor to a movie.
type AddInput struct {
	ActorID string `json:"actorId" validate:"required,uuid"`
	Role    string `json:"role" validate:"required,max=200"`
}

// Entry describes one cast link after a change.
type Entry struct {
	ActorSlug  string `json:"actorSlug"`
	ActorName  string `json:"actorName"`
	MovieSlug  string `json:"movieSlug"`
	MovieTitle string `json:"movieTitle"`
	Role       string `json:"role"`
}

// Removal is the outcome of removing an actor from a movie.
type Removal struct {
	Removed      bool   `json:"removed"`
	ActorDeleted bool   `json:"actorDeleted"`
	ActorName    string `json:"name"`
	MovieTitle   string `json:"movieTitle"`
	OtherMovies  int    `json:"otherMovies"`
	Message      string `json:"message"`
}

// # Service Layer

// Service coordinates the movie and actor stores for cast changes.
type Service struct {
	movies movie.Repository
	actors actor.Repository
	people *actor.Service
	images storage.ImageStore
	locker lock.Locker
}

// NewService constructs a new [Service].
func NewService(movies movie.Repository, actors actor.Repository, people *actor.Service, images storage.ImageStore, locker lock.Locker) *Service {
	return &Service{
		movies: movies,
		actors: actors,
		people: people,
		images: images,
		locker: locker,
	}
}

// # Linking

/*
AddActorToMovie appends an existing actor to the end of a movie's cast.

Parameters:
  - context: context.Context
  - movieSlug: string
  - input: AddInput

Returns:
  - *Entry
  - error: VALIDATION_ERROR, NOT_FOUND for either side, CONFLICT if already cast
*/
func (service *Service) AddActorToMovie(context context.Context, movieSlug string, input AddInput) (*Entry, error) {
	input.Role = sanitize.Text(input.Role)
	input.ActorID = strings.TrimSpace(input.ActorID)
	if err := validate.Struct(context, input); err != nil {
		return nil, err
	}

	target, err := service.movies.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, err
	}
	member, err := service.actors.FindByID(context, input.ActorID)
	if err != nil {
		return nil, err
	}

	// A concurrent last-movie removal must not delete the actor mid-add
	release, err := service.locker.Lock(context, member.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	if member, err = service.actors.FindByID(context, member.ID); err != nil {
		return nil, err
	}
	if target.HasActor(member.ID) {
		return nil, alreadyCast(member.Name, target.Title)
	}

	if err := service.movies.AddActor(context, target.ID, movie.ActorRef{ActorID: member.ID, Role: input.Role}); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "cast_actor_added",
		slog.String("movie_id", target.ID),
		slog.String("actor_id", member.ID),
	)

	return &Entry{
		ActorSlug:  member.Slug,
		ActorName:  member.Name,
		MovieSlug:  target.Slug,
		MovieTitle: target.Title,
		Role:       input.Role,
	}, nil
}

// UpdateRole replaces the role an actor plays in a movie.
func (service *Service) UpdateRole(context context.Context, movieSlug, actorSlug, role string) (*Entry, error) {
	role = sanitize.Text(role)

	validator := &validate.Validator{}
	actor.CheckRole(validator, role)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	target, member, err := service.resolve(context, movieSlug, actorSlug)
	if err != nil {
		return nil, err
	}

	if err := service.movies.UpdateActorRole(context, target.ID, member.ID, role); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "cast_role_updated",
		slog.String("movie_id", target.ID),
		slog.String("actor_id", member.ID),
	)

	return &Entry{
		ActorSlug:  member.Slug,
		ActorName:  member.Name,
		MovieSlug:  target.Slug,
		MovieTitle: target.Title,
		Role:       role,
	}, nil
}

/*
CreateActorInMovie creates a new actor and casts them in a movie.

Description: The actor fields and the role are validated together before
anything is written. If linking fails the new actor is deleted again.

Parameters:
  - context: context.Context
  - movieSlug: string
  - role: string
  - input: actor.CreateInput

Returns:
  - *actor.Casted
  - error: VALIDATION_ERROR, NOT_FOUND, CONFLICT or storage failures
*/
func (service *Service) CreateActorInMovie(context context.Context, movieSlug, role string, input actor.CreateInput) (*actor.Casted, error) {
	role = sanitize.Text(role)
	if err := service.people.Rules().ValidateInMovie(input.Input, role).Err(); err != nil {
		return nil, err
	}

	target, err := service.movies.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, err
	}

	saved, err := service.people.Create(context, input)
	if err != nil {
		return nil, err
	}

	if err := service.movies.AddActor(context, target.ID, movie.ActorRef{ActorID: saved.ID, Role: role}); err != nil {
		if _, undoErr := service.people.Delete(ctxutil.Detach(context), saved.Slug); undoErr != nil {
			ctxutil.GetLogger(context).ErrorContext(context, "cast_create_rollback_failed",
				slog.String("actor_id", saved.ID),
				slog.Any("error", undoErr),
			)
		}
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "cast_actor_added",
		slog.String("movie_id", target.ID),
		slog.String("actor_id", saved.ID),
	)

	return &actor.Casted{Saved: *saved, MovieSlug: target.Slug, MovieTitle: target.Title}, nil
}

/*
UpdateActorInMovie edits an actor and their role in one movie.

Parameters:
  - context: context.Context
  - movieSlug: string
  - actorSlug: string (current slug)
  - role: string
  - input: actor.UpdateInput

Returns:
  - *actor.Casted
  - error: VALIDATION_ERROR, NOT_FOUND (also when the actor is not cast), CONFLICT
*/
func (service *Service) UpdateActorInMovie(context context.Context, movieSlug, actorSlug, role string, input actor.UpdateInput) (*actor.Casted, error) {
	role = sanitize.Text(role)
	if err := service.people.Rules().ValidateInMovie(input.Input, role).Err(); err != nil {
		return nil, err
	}

	target, member, err := service.resolve(context, movieSlug, actorSlug)
	if err != nil {
		return nil, err
	}

	saved, err := service.people.Update(context, member.Slug, input)
	if err != nil {
		return nil, err
	}

	if err := service.movies.UpdateActorRole(context, target.ID, saved.ID, role); err != nil {
		return nil, err
	}

	return &actor.Casted{Saved: *saved, MovieSlug: target.Slug, MovieTitle: target.Title}, nil
}

// # Unlinking

/*
RemoveActorFromMovie takes an actor out of a movie's cast.

Description: The actor's movies are counted before anything changes. When
this movie was the only one, the actor record is deleted and then their
portrait file. The sequence holds the actor's lock throughout, and the
actor is re-read once the lock is held.

Parameters:
  - context: context.Context
  - movieSlug: string
  - actorSlug: string

Returns:
  - *Removal: Whether the actor was deleted and the message to show
  - error: NOT_FOUND for the actor, the movie, or an actor not in the cast
*/
func (service *Service) RemoveActorFromMovie(context context.Context, movieSlug, actorSlug string) (*Removal, error) {
	member, err := service.actors.FindBySlug(context, actorSlug)
	if err != nil {
		return nil, err
	}

	release, err := service.locker.Lock(context, member.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Renames take the same lock, so the slug read here stays current
	if member, err = service.actors.FindByID(context, member.ID); err != nil {
		return nil, err
	}

	target, err := service.movies.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, err
	}
	if !target.HasActor(member.ID) {
		return nil, apperr.NotFound("Cast entry")
	}

	// Count before mutating
	appearances, err := service.movies.FindAllContainingActor(context, member.Slug)
	if err != nil {
		return nil, err
	}

	removed, err := service.movies.RemoveActor(context, target.ID, member.ID)
	if err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context)
	logger.InfoContext(context, "cast_actor_removed",
		slog.String("movie_id", target.ID),
		slog.String("actor_id", member.ID),
	)

	if len(appearances) <= 1 {
		if err := service.actors.DeleteBySlug(context, member.Slug); err != nil && !apperr.IsNotFound(err) {
			return nil, err
		}
		storage.DeleteQuietly(context, service.images, member.Portrait)

		logger.WarnContext(context, "actor_cascade_deleted",
			slog.String("actor_id", member.ID),
			slog.String("slug", member.Slug),
		)

		return &Removal{
			Removed:      removed,
			ActorDeleted: true,
			ActorName:    member.Name,
			MovieTitle:   target.Title,
			Message:      fmt.Sprintf("%s removed from %s and deleted completely (was only in this movie)", member.Name, target.Title),
		}, nil
	}

	others := max(len(appearances)-1, 0)
	return &Removal{
		Removed:     removed,
		ActorName:   member.Name,
		MovieTitle:  target.Title,
		OtherMovies: others,
		Message:     fmt.Sprintf("%s removed from %s (still appears in %d other movies)", member.Name, target.Title, others),
	}, nil
}

// # Resolution

/*
ResolveCast expands a movie's cast into actor details in billing order.

Description: Cast entries whose actor no longer exists are skipped.

Parameters:
  - context: context.Context
  - target: *movie.Movie

Returns:
  - []movie.CastMember
  - error: Storage failures
*/
func (service *Service) ResolveCast(context context.Context, target *movie.Movie) ([]movie.CastMember, error) {
	members := []movie.CastMember{}
	if len(target.Actors) == 0 {
		return members, nil
	}

	ids := make([]string, 0, len(target.Actors))
	for _, ref := range target.Actors {
		ids = append(ids, ref.ActorID)
	}

	found, err := service.actors.FindByIDs(context, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*actor.Actor, len(found))
	for _, person := range found {
		byID[person.ID] = person
	}

	for _, ref := range target.Actors {
		person, ok := byID[ref.ActorID]
		if !ok {
			continue
		}
		members = append(members, movie.CastMember{
			ID:          person.ID,
			Slug:        person.Slug,
			Name:        person.Name,
			Portrait:    person.Portrait,
			Description: person.Description,
			Role:        ref.Role,
		})
	}
	return members, nil
}

// Cast resolves the cast of the movie with the given slug.
func (service *Service) Cast(context context.Context, movieSlug string) ([]movie.CastMember, error) {
	target, err := service.movies.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, err
	}
	return service.ResolveCast(context, target)
}

// # Helpers

// resolve loads both sides of a cast link and checks the actor is cast.
func (service *Service) resolve(context context.Context, movieSlug, actorSlug string) (*movie.Movie, *actor.Actor, error) {
	target, err := service.movies.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, nil, err
	}
	member, err := service.actors.FindBySlug(context, actorSlug)
	if err != nil {
		return nil, nil, err
	}
	if !target.HasActor(member.ID) {
		return nil, nil, apperr.NotFound("Cast entry")
	}
	return target, member, nil
}

func alreadyCast(name, title string) error {
	conflict := apperr.Conflict(fmt.Sprintf("%s is already in %s", name, title))
	conflict.Details = []apperr.FieldError{{Field: "actorId", Type: "duplicate", Message: conflict.Message}}
	return conflict
}
