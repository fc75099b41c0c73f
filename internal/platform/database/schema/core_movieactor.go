// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CoreMovieActorTable represents the 'core.movieactor' join table.
// Position keeps the billing order of a movie's cast.
type CoreMovieActorTable struct {
	Table    string
	MovieID  string
	ActorID  string
	Role     string
	Position string
}

// CoreMovieActor is the schema definition for core.movieactor
var CoreMovieActor = CoreMovieActorTable{
	Table:    "core.movieactor",
	MovieID:  "movieid",
	ActorID:  "actorid",
	Role:     "role",
	Position: "position",
}
