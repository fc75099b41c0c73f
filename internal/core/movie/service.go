// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/ctxutil"
	"github.com/taibuivan/cinemateca/internal/platform/sanitize"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
	"github.com/taibuivan/cinemateca/pkg/pagination"
	"github.com/taibuivan/cinemateca/pkg/slug"
	"github.com/taibuivan/cinemateca/pkg/uuid"
)

// # Service Layer

// Options tunes listing behaviour.
type Options struct {
	PageSize   int
	MaxButtons int
}

// Service orchestrates the business logic for movies.
type Service struct {
	repo    Repository
	images  storage.ImageStore
	cache   OptionsCache
	rules   Rules
	options Options
}

// NewService constructs a new [Service]. cache may be nil.
func NewService(repo Repository, images storage.ImageStore, cache OptionsCache, rules Rules, options Options) *Service {
	if options.PageSize < 1 {
		options.PageSize = pagination.DefaultLimit
	}
	if options.MaxButtons < 1 {
		options.MaxButtons = pagination.DefaultButtons
	}
	return &Service{
		repo:    repo,
		images:  images,
		cache:   cache,
		rules:   rules,
		options: options,
	}
}

// Rules returns the validation rules the service applies.
func (service *Service) Rules() Rules {
	return service.rules
}

// # Discovery

// SearchResult is one page of search results with its pagination window.
type SearchResult struct {
	Movies []*Movie
	Total  int
	Window pagination.Window
}

/*
Search runs a filtered, sorted and paginated movie search.

Description: Parameters are normalised by [BuildQuery], so malformed input
degrades to "no filter" rather than failing. Pages before the first are
treated as page one.

Parameters:
  - context: context.Context
  - params: SearchParams
  - page: int (1-indexed)

Returns:
  - *SearchResult: Matching movies, total count and the page window
  - error: Storage failures
*/
func (service *Service) Search(context context.Context, params SearchParams, page int) (*SearchResult, error) {
	query := BuildQuery(params)

	window := pagination.Paginate(page, 0, service.options.PageSize, service.options.MaxButtons)

	var (
		movies []*Movie
		total  int
		err    error
	)
	if query.Filter.IsEmpty() {
		movies, total, err = service.browse(context, query.Sort, window)
	} else {
		movies, total, err = service.repo.Search(context, query, window.Skip, window.Limit)
	}
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Movies: movies,
		Total:  total,
		Window: pagination.Paginate(page, total, service.options.PageSize, service.options.MaxButtons),
	}, nil
}

// browse pages through the whole catalogue when no filter is active.
func (service *Service) browse(context context.Context, order Sort, window pagination.Window) ([]*Movie, int, error) {
	total, err := service.repo.Count(context, Filter{})
	if err != nil {
		return nil, 0, err
	}

	movies, err := service.repo.FindPaginated(context, window.Skip, window.Limit, order)
	if err != nil {
		return nil, 0, err
	}
	return movies, total, nil
}

// Choices lists every movie for pickers, newest release first.
func (service *Service) Choices(context context.Context) ([]Choice, error) {
	movies, err := service.repo.FindAll(context)
	if err != nil {
		return nil, err
	}

	choices := make([]Choice, 0, len(movies))
	for _, movie := range movies {
		choices = append(choices, Choice{Slug: movie.Slug, Title: movie.Title, ReleaseYear: movie.ReleaseDate.Year()})
	}
	return choices, nil
}

/*
FilterOptions lists the genres, countries and age ratings in use.

Description: Results are cached until the next catalogue write. The full
vocabulary is attached so a form can offer every accepted value.

Parameters:
  - context: context.Context

Returns:
  - *FilterOptions
  - error: Storage failures
*/
func (service *Service) FilterOptions(context context.Context) (*FilterOptions, error) {
	if service.cache != nil {
		if cached, ok := service.cache.Get(context); ok {
			return cached, nil
		}
	}

	genres, err := service.repo.DistinctValues(context, DistinctGenre)
	if err != nil {
		return nil, err
	}
	countries, err := service.repo.DistinctValues(context, DistinctCountry)
	if err != nil {
		return nil, err
	}
	ratings, err := service.repo.DistinctValues(context, DistinctAgeRating)
	if err != nil {
		return nil, err
	}

	vocabulary := service.rules.Vocabulary
	options := &FilterOptions{
		Genres:        genres,
		Countries:     countries,
		AgeRatings:    ratings,
		AllGenres:     vocabulary.Genres,
		AllCountries:  vocabulary.Countries,
		AllAgeRatings: vocabulary.AgeRatings,
	}

	if service.cache != nil {
		service.cache.Set(context, options)
	}
	return options, nil
}

// Get returns the movie stored under slug.
func (service *Service) Get(context context.Context, movieSlug string) (*Movie, error) {
	return service.repo.FindBySlug(context, movieSlug)
}

// Poster opens the poster image of the movie stored under slug.
func (service *Service) Poster(context context.Context, movieSlug string) (*storage.Object, error) {
	movie, err := service.repo.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, err
	}
	if movie.Poster == "" {
		return nil, apperr.NotFound("Poster")
	}
	return service.images.Open(context, movie.Poster)
}

// # Movie Management

/*
Create validates and stores a new movie with its poster.

Description: All field rules run before any write. The slug is derived from
the title and release year and must be free. The poster is stored first and
removed again if the database insert fails.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Saved: Identity of the new movie
  - error: VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Saved, error) {
	fields := clean(input.Input)

	validator, releaseDate := service.rules.check(fields, PosterState{Uploaded: input.Poster != nil})
	if err := validator.Err(); err != nil {
		return nil, err
	}

	movie := build(fields, releaseDate)
	movie.ID = uuid.New()

	if err := service.ensureSlugFree(context, movie.Slug, "", movie.Title); err != nil {
		return nil, err
	}

	// Poster upload
	movie.Poster = storage.FileName(movie.Title, movie.ReleaseYear, uuid.New(), input.Poster.Extension)
	if err := service.images.Save(context, movie.Poster, input.Poster.Reader(), input.Poster.ContentType); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, movie); err != nil {
		storage.DeleteQuietly(context, service.images, movie.Poster)
		return nil, err
	}

	service.invalidate(context)
	ctxutil.GetLogger(context).InfoContext(context, "movie_created",
		slog.String("movie_id", movie.ID),
		slog.String("slug", movie.Slug),
	)

	return &Saved{ID: movie.ID, Slug: movie.Slug, Title: movie.Title}, nil
}

/*
Update validates and applies changes to an existing movie.

Description: The slug follows the new title and year. A new poster is
stored under a fresh name and the old file is removed once the record is
saved; if the save fails the new file is discarded instead. Without an
upload the current poster file is kept as is. The cast is replaced only when the
input carries one.

Parameters:
  - context: context.Context
  - movieSlug: string (current slug)
  - input: UpdateInput

Returns:
  - *Saved: Identity after the update (the slug may have changed)
  - error: NOT_FOUND, VALIDATION_ERROR, CONFLICT or storage failures
*/
func (service *Service) Update(context context.Context, movieSlug string, input UpdateInput) (*Saved, error) {
	existing, err := service.repo.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, err
	}

	fields := clean(input.Input)

	validator, releaseDate := service.rules.check(fields, PosterState{
		Uploaded: input.Poster != nil,
		Existing: existing.Poster,
	})
	if err := validator.Err(); err != nil {
		return nil, err
	}

	movie := build(fields, releaseDate)
	movie.ID = existing.ID
	movie.Poster = existing.Poster

	if err := service.ensureSlugFree(context, movie.Slug, existing.ID, movie.Title); err != nil {
		return nil, err
	}

	// Poster replacement
	uploaded := ""
	if input.Poster != nil {
		uploaded = storage.FileName(movie.Title, movie.ReleaseYear, uuid.New(), input.Poster.Extension)
		if err := service.images.Save(context, uploaded, input.Poster.Reader(), input.Poster.ContentType); err != nil {
			return nil, err
		}
		movie.Poster = uploaded
	}

	if err := service.repo.Update(context, movie); err != nil {
		storage.DeleteQuietly(context, service.images, uploaded)
		return nil, err
	}

	if existing.Poster != movie.Poster {
		storage.DeleteQuietly(context, service.images, existing.Poster)
	}

	service.invalidate(context)
	ctxutil.GetLogger(context).InfoContext(context, "movie_updated",
		slog.String("movie_id", movie.ID),
		slog.String("slug", movie.Slug),
	)

	return &Saved{ID: movie.ID, Slug: movie.Slug, Title: movie.Title}, nil
}

/*
Delete removes a movie and then its poster file.

Description: Actors cast in the movie are kept, even when this was their
only movie. Removing an actor through the cast endpoints is what deletes
orphaned actors.

Parameters:
  - context: context.Context
  - movieSlug: string

Returns:
  - *Deleted: Title of the removed movie
  - error: NOT_FOUND or storage failures
*/
func (service *Service) Delete(context context.Context, movieSlug string) (*Deleted, error) {
	movie, err := service.repo.FindBySlug(context, movieSlug)
	if err != nil {
		return nil, err
	}

	if err := service.repo.DeleteBySlug(context, movieSlug); err != nil {
		return nil, err
	}

	storage.DeleteQuietly(context, service.images, movie.Poster)

	service.invalidate(context)
	ctxutil.GetLogger(context).WarnContext(context, "movie_deleted",
		slog.String("movie_id", movie.ID),
		slog.String("slug", movie.Slug),
	)

	return &Deleted{Title: movie.Title}, nil
}

// # Helpers

// ensureSlugFree fails with a Duplicate when another movie already owns slug.
func (service *Service) ensureSlugFree(context context.Context, movieSlug, selfID, title string) error {
	other, err := service.repo.FindBySlug(context, movieSlug)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if other.ID == selfID {
		return nil
	}
	return apperr.Duplicate(entity, "title", title)
}

func (service *Service) invalidate(context context.Context) {
	if service.cache != nil {
		service.cache.Invalidate(context)
	}
}

// clean strips markup from the free-text fields and trims list entries.
func clean(input Input) Input {
	out := Input{
		Title:               sanitize.Text(input.Title),
		Description:         sanitize.Text(input.Description),
		Genre:               sanitize.Texts(input.Genre),
		CountryOfProduction: sanitize.Texts(input.CountryOfProduction),
		ReleaseDate:         strings.TrimSpace(input.ReleaseDate),
		AgeRating:           strings.TrimSpace(input.AgeRating),
	}

	if input.Actors != nil {
		out.Actors = make([]ActorRef, 0, len(input.Actors))
		for _, ref := range input.Actors {
			out.Actors = append(out.Actors, ActorRef{
				ActorID: strings.TrimSpace(ref.ActorID),
				Role:    sanitize.Text(ref.Role),
			})
		}
	}
	return out
}

// build assembles a movie from validated input.
func build(input Input, releaseDate time.Time) *Movie {
	movie := &Movie{
		Title:               input.Title,
		Description:         input.Description,
		Genre:               input.Genre,
		CountryOfProduction: input.CountryOfProduction,
		ReleaseDate:         releaseDate,
		AgeRating:           input.AgeRating,
		Actors:              input.Actors,
	}
	movie.ReleaseYear = releaseDate.Year()
	movie.Slug = slug.Movie(movie.Title, movie.ReleaseYear)
	return movie
}
