// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package actor

import "context"

// # Actor Data Access

// Repository defines the data access contract for actors.
type Repository interface {
	// Create persists a new actor. Returns CONFLICT on a slug collision.
	Create(context context.Context, actor *Actor) error

	// Update replaces the mutable fields of the actor identified by actor.ID.
	Update(context context.Context, actor *Actor) error

	// FindBySlug returns the actor or NOT_FOUND.
	FindBySlug(context context.Context, slug string) (*Actor, error)

	// FindByID returns the actor or NOT_FOUND.
	FindByID(context context.Context, id string) (*Actor, error)

	// FindByIDs returns the actors that exist among ids, in no particular order.
	FindByIDs(context context.Context, ids []string) ([]*Actor, error)

	// FindAll returns every actor ordered by name.
	FindAll(context context.Context) ([]*Actor, error)

	/*
		List returns one page of actors matching filter, ordered by name, and
		the total match count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - skip: int
		  - limit: int

		Returns:
		  - []*Actor
		  - int: Total number of matches
		  - error
	*/
	List(context context.Context, filter Filter, skip, limit int) ([]*Actor, int, error)

	// DeleteBySlug removes the actor and every cast entry that references it.
	DeleteBySlug(context context.Context, slug string) error
}

// Filmography lists the movies an actor appears in.
type Filmography interface {
	Appearances(context context.Context, actorID string) ([]Appearance, error)
}
