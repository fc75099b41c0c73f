// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package actor

import (
	"context"
	"log/slog"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/ctxutil"
	"github.com/taibuivan/cinemateca/internal/platform/lock"
	"github.com/taibuivan/cinemateca/internal/platform/sanitize"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
	"github.com/taibuivan/cinemateca/pkg/pagination"
	"github.com/taibuivan/cinemateca/pkg/slug"
	"github.com/taibuivan/cinemateca/pkg/uuid"
)

// # Service Layer

// Options tunes listing behaviour and names the actor lock.
type Options struct {
	PageSize   int
	MaxButtons int

	// Locker is the per-actor lock shared with the cast service. Updates
	// hold it so a rename never interleaves with a cast removal. Defaults
	// to an in-process lock.
	Locker lock.Locker
}

// Service orchestrates the business logic for actors.
type Service struct {
	repo        Repository
	images      storage.ImageStore
	filmography Filmography
	rules       Rules
	options     Options
}

// NewService constructs a new [Service]. filmography may be nil, in which
// case actor details list no movies.
func NewService(repo Repository, images storage.ImageStore, filmography Filmography, rules Rules, options Options) *Service {
	if options.PageSize < 1 {
		options.PageSize = pagination.DefaultLimit
	}
	if options.MaxButtons < 1 {
		options.MaxButtons = pagination.DefaultButtons
	}
	if options.Locker == nil {
		options.Locker = lock.NewLocal()
	}
	return &Service{
		repo:        repo,
		images:      images,
		filmography: filmography,
		rules:       rules,
		options:     options,
	}
}

// Rules returns the validation rules the service applies.
func (service *Service) Rules() Rules {
	return service.rules
}

// # Discovery

// SearchResult is one page of actors with its pagination window.
type SearchResult struct {
	Actors []*Actor
	Total  int
	Window pagination.Window
}

// Search lists actors whose name contains query, a page at a time.
func (service *Service) Search(context context.Context, query string, page int) (*SearchResult, error) {
	window := pagination.Paginate(page, 0, service.options.PageSize, service.options.MaxButtons)

	actors, total, err := service.repo.List(context, Filter{Query: query}, window.Skip, window.Limit)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Actors: actors,
		Total:  total,
		Window: pagination.Paginate(page, total, service.options.PageSize, service.options.MaxButtons),
	}, nil
}

// Choices lists every actor by name for the cast picker.
func (service *Service) Choices(context context.Context) ([]Choice, error) {
	actors, err := service.repo.FindAll(context)
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, 0, len(actors))
	for _, actor := range actors {
		choices = append(choices, Choice{ID: actor.ID, Slug: actor.Slug, Name: actor.Name})
	}
	return choices, nil
}

// Get returns the actor stored under slug.
func (service *Service) Get(context context.Context, actorSlug string) (*Actor, error) {
	return service.repo.FindBySlug(context, actorSlug)
}

/*
Detail returns an actor with their age and the movies they appear in.

Parameters:
  - context: context.Context
  - actorSlug: string

Returns:
  - *Detail
  - error: NOT_FOUND or storage failures
*/
func (service *Service) Detail(context context.Context, actorSlug string) (*Detail, error) {
	actor, err := service.repo.FindBySlug(context, actorSlug)
	if err != nil {
		return nil, err
	}

	var movies []Appearance
	if service.filmography != nil {
		if movies, err = service.filmography.Appearances(context, actor.ID); err != nil {
			return nil, err
		}
	}

	return describe(actor, movies, service.rules.now()), nil
}

// Portrait opens the portrait image of the actor stored under slug.
func (service *Service) Portrait(context context.Context, actorSlug string) (*storage.Object, error) {
	actor, err := service.repo.FindBySlug(context, actorSlug)
	if err != nil {
		return nil, err
	}
	if actor.Portrait == "" {
		return nil, apperr.NotFound("Portrait")
	}
	return service.images.Open(context, actor.Portrait)
}

// # Actor Management

/*
Create validates and stores a new actor with an optional portrait.

Description: The slug is derived from the name and must be free. A portrait
is stored before the record and removed again if the insert fails.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Saved: Identity of the new actor
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Saved, error) {
	fields := clean(input.Input)

	validator, dates := service.rules.check(fields)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	actor := build(fields, dates)
	actor.ID = uuid.New()

	if err := service.ensureSlugFree(context, actor.Slug, "", actor.Name); err != nil {
		return nil, err
	}

	// Optional portrait
	if input.Portrait != nil {
		actor.Portrait = storage.FileName(actor.Name, 0, uuid.New(), input.Portrait.Extension)
		if err := service.images.Save(context, actor.Portrait, input.Portrait.Reader(), input.Portrait.ContentType); err != nil {
			return nil, err
		}
	}

	if err := service.repo.Create(context, actor); err != nil {
		storage.DeleteQuietly(context, service.images, actor.Portrait)
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "actor_created",
		slog.String("actor_id", actor.ID),
		slog.String("slug", actor.Slug),
	)

	return &Saved{ID: actor.ID, Slug: actor.Slug, Name: actor.Name}, nil
}

/*
Update validates and applies changes to an existing actor.

Description: The slug follows the name. The update runs under the actor's
lock. An uploaded portrait is stored under a fresh name and replaces the
stored one; without an upload, RemovePortrait drops it. Files that are no
longer referenced are deleted after the record is saved.

Parameters:
  - context: context.Context
  - actorSlug: string (current slug)
  - input: UpdateInput

Returns:
  - *Saved: Identity after the update
  - error: NOT_FOUND, VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Update(context context.Context, actorSlug string, input UpdateInput) (*Saved, error) {
	existing, err := service.repo.FindBySlug(context, actorSlug)
	if err != nil {
		return nil, err
	}

	release, err := service.options.Locker.Lock(context, existing.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	// Re-read under the lock
	if existing, err = service.repo.FindByID(context, existing.ID); err != nil {
		return nil, err
	}

	fields := clean(input.Input)

	validator, dates := service.rules.check(fields)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	actor := build(fields, dates)
	actor.ID = existing.ID
	actor.Portrait = existing.Portrait

	if err := service.ensureSlugFree(context, actor.Slug, existing.ID, actor.Name); err != nil {
		return nil, err
	}

	// Portrait replacement or removal
	uploaded := ""
	switch {
	case input.Portrait != nil:
		uploaded = storage.FileName(actor.Name, 0, uuid.New(), input.Portrait.Extension)
		if err := service.images.Save(context, uploaded, input.Portrait.Reader(), input.Portrait.ContentType); err != nil {
			return nil, err
		}
		actor.Portrait = uploaded
	case input.RemovePortrait:
		actor.Portrait = ""
	}

	if err := service.repo.Update(context, actor); err != nil {
		storage.DeleteQuietly(context, service.images, uploaded)
		return nil, err
	}

	if existing.Portrait != actor.Portrait {
		storage.DeleteQuietly(context, service.images, existing.Portrait)
	}

	ctxutil.GetLogger(context).InfoContext(context, "actor_updated",
		slog.String("actor_id", actor.ID),
		slog.String("slug", actor.Slug),
	)

	return &Saved{ID: actor.ID, Slug: actor.Slug, Name: actor.Name}, nil
}

/*
Delete removes an actor, their cast entries and then their portrait file.

Parameters:
  - context: context.Context
  - actorSlug: string

Returns:
  - *Deleted: Name of the removed actor
  - error: NOT_FOUND or storage failures
*/
func (service *Service) Delete(context context.Context, actorSlug string) (*Deleted, error) {
	actor, err := service.repo.FindBySlug(context, actorSlug)
	if err != nil {
		return nil, err
	}

	if err := service.repo.DeleteBySlug(context, actorSlug); err != nil {
		return nil, err
	}

	storage.DeleteQuietly(context, service.images, actor.Portrait)

	ctxutil.GetLogger(context).WarnContext(context, "actor_deleted",
		slog.String("actor_id", actor.ID),
		slog.String("slug", actor.Slug),
	)

	return &Deleted{Name: actor.Name}, nil
}

// # Helpers

func (service *Service) ensureSlugFree(context context.Context, actorSlug, selfID, name string) error {
	other, err := service.repo.FindBySlug(context, actorSlug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if other.ID == selfID {
		return nil
	}
	return apperr.Duplicate(entity, "name", name)
}

// clean strips markup from the free-text fields.
func clean(input Input) Input {
	return Input{
		Name:         sanitize.Text(input.Name),
		Description:  sanitize.Text(input.Description),
		DateOfBirth:  sanitize.Text(input.DateOfBirth),
		DateOfDeath:  sanitize.Text(input.DateOfDeath),
		PlaceOfBirth: sanitize.Text(input.PlaceOfBirth),
	}
}

func build(input Input, dates Dates) *Actor {
	return &Actor{
		Slug:         slug.Actor(input.Name),
		Name:         input.Name,
		Description:  input.Description,
		DateOfBirth:  dates.Birth,
		DateOfDeath:  dates.Death,
		PlaceOfBirth: input.PlaceOfBirth,
	}
}
