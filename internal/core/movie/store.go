// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import "context"

// Distinct-value fields accepted by [Repository.DistinctValues].
const (
	DistinctGenre     = "genre"
	DistinctCountry   = "country"
	DistinctAgeRating = "ageRating"
)

// # Movie Data Access

// Repository defines the data access contract for the movie aggregate,
// including the movie side of the cast relationship.
type Repository interface {

	/*
		Create persists a new movie and its cast.

		Parameters:
		  - context: context.Context
		  - movie: *Movie (ID and Slug already assigned)

		Returns:
		  - error: CONFLICT on a slug collision, NOT_FOUND for an unknown cast member
	*/
	Create(context context.Context, movie *Movie) error

	/*
		Update replaces the mutable fields of the movie identified by movie.ID.
		The cast is replaced only when movie.Actors is non-nil.

		Parameters:
		  - context: context.Context
		  - movie: *Movie

		Returns:
		  - error: CONFLICT on a slug collision, NOT_FOUND if the movie is gone
	*/
	Update(context context.Context, movie *Movie) error

	// FindBySlug returns the movie with its cast, or NOT_FOUND.
	FindBySlug(context context.Context, slug string) (*Movie, error)

	// FindByID returns the movie with its cast, or NOT_FOUND.
	FindByID(context context.Context, id string) (*Movie, error)

	// FindAll returns every movie, newest release first.
	FindAll(context context.Context) ([]*Movie, error)

	// FindPaginated returns one unfiltered page in the given order.
	FindPaginated(context context.Context, skip, limit int, sort Sort) ([]*Movie, error)

	/*
		Search returns one page of movies matching query and the total match count.

		Parameters:
		  - context: context.Context
		  - query: Query (from [BuildQuery])
		  - skip: int
		  - limit: int

		Returns:
		  - []*Movie: The page, in query.Sort order
		  - int: Total number of matches across all pages
		  - error: Storage failures
	*/
	Search(context context.Context, query Query, skip, limit int) ([]*Movie, int, error)

	// Count returns the number of movies matching filter.
	Count(context context.Context, filter Filter) (int, error)

	// DistinctValues lists the values of a Distinct* field carried by at least one movie, sorted.
	DistinctValues(context context.Context, field string) ([]string, error)

	// DeleteBySlug removes the movie and its cast rows. Actors are untouched.
	DeleteBySlug(context context.Context, slug string) error

	// # Cast Relationship

	// FindByActorID lists the movies whose cast includes the actor.
	FindByActorID(context context.Context, actorID string) ([]*Movie, error)

	// FindAllContainingActor lists the movies whose cast includes the actor with the given slug.
	FindAllContainingActor(context context.Context, actorSlug string) ([]*Movie, error)

	// AddActor appends ref to the end of the movie's cast.
	// Returns CONFLICT if the actor is already cast.
	AddActor(context context.Context, movieID string, ref ActorRef) error

	// UpdateActorRole replaces the role of a cast entry. Returns NOT_FOUND if the actor is not cast.
	UpdateActorRole(context context.Context, movieID, actorID, role string) error

	// RemoveActor drops the actor from the cast and reports whether an entry was removed.
	RemoveActor(context context.Context, movieID, actorID string) (bool, error)
}

// OptionsCache keeps the distinct filter values between catalogue writes.
type OptionsCache interface {
	// Get returns the cached options and whether they were present.
	Get(context context.Context) (*FilterOptions, bool)

	// Set stores options.
	Set(context context.Context, options *FilterOptions)

	// Invalidate drops the cached options after a write.
	Invalidate(context context.Context)
}
