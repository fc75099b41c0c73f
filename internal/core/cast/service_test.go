// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cast_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/core/actor/actortest"
	"github.com/taibuivan/cinemateca/internal/core/cast"
	"github.com/taibuivan/cinemateca/internal/core/movie"
	"github.com/taibuivan/cinemateca/internal/core/movie/movietest"
	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/lock"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
	"github.com/taibuivan/cinemateca/internal/platform/storage/storagetest"
	"github.com/taibuivan/cinemateca/pkg/uuid"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

type fixture struct {
	movies  *movietest.Repository
	actors  *actortest.Repository
	images  *storagetest.Memory
	people  *actor.Service
	service *cast.Service
}

func newFixture() *fixture {
	movies := movietest.New()
	actors := actortest.New()
	actors.OnDelete = movies.ForgetActor
	movies.Actors = actors
	images := storagetest.NewMemory()
	locker := lock.NewLocal()

	rules := actor.Rules{Now: func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }}
	people := actor.NewService(actors, images, cast.NewFilmography(movies), rules, actor.Options{PageSize: 10, Locker: locker})

	return &fixture{
		movies:  movies,
		actors:  actors,
		images:  images,
		people:  people,
		service: cast.NewService(movies, actors, people, images, locker),
	}
}

func actorInput(name string) actor.Input {
	return actor.Input{
		Name:         name,
		Description:  "A working actor with a long career on stage and on screen across several decades.",
		DateOfBirth:  "1964-09-02",
		PlaceOfBirth: "Beirut, Lebanon",
	}
}

// addPerson creates an actor with a portrait.
func (f *fixture) addPerson(t *testing.T, name string) *actor.Saved {
	t.Helper()
	portrait, err := storage.ReadUpload(actor.FieldPortrait, "portrait.png", bytes.NewReader(pngBytes))
	require.NoError(t, err)

	saved, err := f.people.Create(context.Background(), actor.CreateInput{Input: actorInput(name), Portrait: portrait})
	require.NoError(t, err)
	return saved
}

func (f *fixture) addMovie(t *testing.T, title string, year int) *movie.Movie {
	t.Helper()
	created := &movie.Movie{
		ID:          uuid.New(),
		Slug:        fmt.Sprintf("%s_%d", title, year),
		Title:       title,
		ReleaseDate: time.Date(year, 3, 1, 0, 0, 0, 0, time.UTC),
		Genre:       []string{"Drama"},
	}
	require.NoError(t, f.movies.Create(context.Background(), created))
	return created
}

/*
TestService_RemoveCascade removes an actor from three movies in turn. The
actor survives until their last movie and is then deleted with their portrait.
*/
func TestService_RemoveCascade(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	person := f.addPerson(t, "Keanu Reeves")
	titles := []string{"m1", "m2", "m3"}
	for index, title := range titles {
		f.addMovie(t, title, 1999+index)
		_, err := f.service.AddActorToMovie(ctx, fmt.Sprintf("%s_%d", title, 1999+index), cast.AddInput{ActorID: person.ID, Role: "Neo"})
		require.NoError(t, err)
	}

	tests := []struct {
		movieSlug    string
		actorDeleted bool
		otherMovies  int
		message      string
	}{
		{"m1_1999", false, 2, "Keanu Reeves removed from m1 (still appears in 2 other movies)"},
		{"m2_2000", false, 1, "Keanu Reeves removed from m2 (still appears in 1 other movies)"},
		{"m3_2001", true, 0, "Keanu Reeves removed from m3 and deleted completely (was only in this movie)"},
	}

	for _, tt := range tests {
		removal, err := f.service.RemoveActorFromMovie(ctx, tt.movieSlug, person.Slug)
		require.NoError(t, err, tt.movieSlug)
		assert.True(t, removal.Removed)
		assert.Equal(t, tt.actorDeleted, removal.ActorDeleted)
		assert.Equal(t, tt.otherMovies, removal.OtherMovies)
		assert.Equal(t, tt.message, removal.Message)
	}

	assert.Equal(t, 0, f.actors.Len())
	assert.Empty(t, f.images.Names())

	_, err := f.service.RemoveActorFromMovie(ctx, "m3_2001", person.Slug)
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_RemoveAfterRename counts appearances under the current name, so an
actor renamed from the movie page is still cascaded when their last movie goes.
*/
func TestService_RemoveAfterRename(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	person := f.addPerson(t, "Keanu Reeves")
	target := f.addMovie(t, "Speed", 1994)
	_, err := f.service.AddActorToMovie(ctx, target.Slug, cast.AddInput{ActorID: person.ID, Role: "Jack"})
	require.NoError(t, err)

	renamed, err := f.service.UpdateActorInMovie(ctx, target.Slug, person.Slug, "Jack Traven", actor.UpdateInput{Input: actorInput("Keanu Charles Reeves")})
	require.NoError(t, err)
	require.Equal(t, "keanu-charles-reeves", renamed.Slug)

	removal, err := f.service.RemoveActorFromMovie(ctx, target.Slug, renamed.Slug)
	require.NoError(t, err)
	assert.True(t, removal.ActorDeleted)
	assert.Equal(t, 0, removal.OtherMovies)
	assert.Equal(t, "Keanu Charles Reeves removed from Speed and deleted completely (was only in this movie)", removal.Message)
	assert.Equal(t, 0, f.actors.Len())
	assert.Empty(t, f.images.Names())

	stored, err := f.movies.FindBySlug(ctx, target.Slug)
	require.NoError(t, err)
	assert.Empty(t, stored.Actors)
}

/*
TestService_RemoveKeepsRenamedActorWithOtherMovies reports the other movies of a
renamed actor and keeps them.
*/
func TestService_RemoveKeepsRenamedActorWithOtherMovies(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	person := f.addPerson(t, "Keanu Reeves")
	speed := f.addMovie(t, "Speed", 1994)
	matrix := f.addMovie(t, "Matrix", 1999)
	for _, target := range []*movie.Movie{speed, matrix} {
		_, err := f.service.AddActorToMovie(ctx, target.Slug, cast.AddInput{ActorID: person.ID, Role: "Lead"})
		require.NoError(t, err)
	}

	renamed, err := f.service.UpdateActorInMovie(ctx, speed.Slug, person.Slug, "Jack", actor.UpdateInput{Input: actorInput("Keanu Charles Reeves")})
	require.NoError(t, err)

	removal, err := f.service.RemoveActorFromMovie(ctx, speed.Slug, renamed.Slug)
	require.NoError(t, err)
	assert.False(t, removal.ActorDeleted)
	assert.Equal(t, 1, removal.OtherMovies)
	assert.Equal(t, 1, f.actors.Len())
}

/*
TestService_RemoveConcurrent removes one actor from both of their movies at
once. Exactly one removal sees the last reference and deletes the actor.
*/
func TestService_RemoveConcurrent(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	person := f.addPerson(t, "Anna Karina")
	movies := []*movie.Movie{f.addMovie(t, "vivre", 1962), f.addMovie(t, "alphaville", 1965)}
	for _, target := range movies {
		_, err := f.service.AddActorToMovie(ctx, target.Slug, cast.AddInput{ActorID: person.ID, Role: "Lead"})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	results := make([]*cast.Removal, len(movies))
	for index, target := range movies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			removal, err := f.service.RemoveActorFromMovie(ctx, target.Slug, person.Slug)
			assert.NoError(t, err)
			results[index] = removal
		}()
	}
	wg.Wait()

	deleted := 0
	for _, removal := range results {
		require.NotNil(t, removal)
		if removal.ActorDeleted {
			deleted++
		}
	}
	assert.Equal(t, 1, deleted)
	assert.Equal(t, 0, f.actors.Len())
}

/*
TestService_AddActorToMovie covers the add-existing-actor failure paths.
*/
func TestService_AddActorToMovie(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	person := f.addPerson(t, "Keanu Reeves")
	f.addMovie(t, "Speed", 1994)

	entry, err := f.service.AddActorToMovie(ctx, "Speed_1994", cast.AddInput{ActorID: person.ID, Role: " Jack Traven "})
	require.NoError(t, err)
	assert.Equal(t, "Jack Traven", entry.Role)
	assert.Equal(t, "Speed", entry.MovieTitle)

	tests := []struct {
		name      string
		movieSlug string
		input     cast.AddInput
		code      string
	}{
		{"Already cast", "Speed_1994", cast.AddInput{ActorID: person.ID, Role: "Jack"}, apperr.CodeConflict},
		{"Unknown movie", "speed-2_1997", cast.AddInput{ActorID: person.ID, Role: "Jack"}, apperr.CodeNotFound},
		{"Unknown actor", "Speed_1994", cast.AddInput{ActorID: uuid.New(), Role: "Jack"}, apperr.CodeNotFound},
		{"Malformed id", "Speed_1994", cast.AddInput{ActorID: "keanu", Role: "Jack"}, apperr.CodeValidation},
		{"Missing role", "Speed_1994", cast.AddInput{ActorID: person.ID, Role: "   "}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.AddActorToMovie(ctx, tt.movieSlug, tt.input)
			assert.True(t, apperr.HasCode(err, tt.code), "got %v", err)
		})
	}
}

/*
TestService_UpdateRole changes a role and rejects actors outside the cast.
*/
func TestService_UpdateRole(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	cast1 := f.addPerson(t, "Keanu Reeves")
	outsider := f.addPerson(t, "Sandra Bullock")
	target := f.addMovie(t, "Speed", 1994)
	_, err := f.service.AddActorToMovie(ctx, target.Slug, cast.AddInput{ActorID: cast1.ID, Role: "Jack"})
	require.NoError(t, err)

	entry, err := f.service.UpdateRole(ctx, target.Slug, cast1.Slug, "Jack Traven")
	require.NoError(t, err)
	assert.Equal(t, "Jack Traven", entry.Role)

	stored, err := f.movies.FindBySlug(ctx, target.Slug)
	require.NoError(t, err)
	assert.Equal(t, []movie.ActorRef{{ActorID: cast1.ID, Role: "Jack Traven"}}, stored.Actors)

	_, err = f.service.UpdateRole(ctx, target.Slug, outsider.Slug, "Annie")
	assert.True(t, apperr.IsNotFound(err))

	_, err = f.service.UpdateRole(ctx, target.Slug, cast1.Slug, "")
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}

/*
TestService_ResolveCast keeps billing order and skips missing actors.
*/
func TestService_ResolveCast(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	first := f.addPerson(t, "Keanu Reeves")
	second := f.addPerson(t, "Sandra Bullock")
	target := f.addMovie(t, "Speed", 1994)

	target.Actors = []movie.ActorRef{
		{ActorID: second.ID, Role: "Annie"},
		{ActorID: uuid.New(), Role: "Ghost"},
		{ActorID: first.ID, Role: "Jack"},
	}

	members, err := f.service.ResolveCast(ctx, target)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Sandra Bullock", members[0].Name)
	assert.Equal(t, "Annie", members[0].Role)
	assert.Equal(t, "Keanu Reeves", members[1].Name)
	assert.True(t, strings.HasPrefix(members[1].Portrait, "keanu-reeves-"))
	assert.True(t, f.images.Has(members[1].Portrait))

	empty, err := f.service.ResolveCast(ctx, &movie.Movie{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

/*
TestService_CreateActorInMovie creates and casts in one step, validating the
role together with the actor fields.
*/
func TestService_CreateActorInMovie(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	target := f.addMovie(t, "Speed", 1994)

	// 1. Missing role and bad name fail together, nothing is written
	bad := actorInput("sandra bullock")
	_, err := f.service.CreateActorInMovie(ctx, target.Slug, "", actor.CreateInput{Input: bad})
	require.True(t, apperr.HasCode(err, apperr.CodeValidation))
	fields := map[string]bool{}
	for _, detail := range apperr.As(err).Details {
		fields[detail.Field] = true
	}
	assert.True(t, fields[actor.FieldRole])
	assert.True(t, fields[actor.FieldName])
	assert.Equal(t, 0, f.actors.Len())

	// 2. Unknown movie writes nothing either
	_, err = f.service.CreateActorInMovie(ctx, "nope_2000", "Annie", actor.CreateInput{Input: actorInput("Sandra Bullock")})
	assert.True(t, apperr.IsNotFound(err))
	assert.Equal(t, 0, f.actors.Len())

	// 3. Success
	casted, err := f.service.CreateActorInMovie(ctx, target.Slug, "Annie", actor.CreateInput{Input: actorInput("Sandra Bullock")})
	require.NoError(t, err)
	assert.Equal(t, "sandra-bullock", casted.Slug)
	assert.Equal(t, "Speed", casted.MovieTitle)

	stored, err := f.movies.FindBySlug(ctx, target.Slug)
	require.NoError(t, err)
	assert.Equal(t, []movie.ActorRef{{ActorID: casted.ID, Role: "Annie"}}, stored.Actors)

	// 4. Editing from the movie page renames and recasts
	edited := actorInput("Sandra Annette Bullock")
	updated, err := f.service.UpdateActorInMovie(ctx, target.Slug, casted.Slug, "Annie Porter", actor.UpdateInput{Input: edited})
	require.NoError(t, err)
	assert.Equal(t, "sandra-annette-bullock", updated.Slug)

	stored, err = f.movies.FindBySlug(ctx, target.Slug)
	require.NoError(t, err)
	assert.Equal(t, "Annie Porter", stored.Actors[0].Role)
}

/*
TestFilmography_Appearances lists the movies an actor is cast in with their roles.
*/
func TestFilmography_Appearances(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	person := f.addPerson(t, "Keanu Reeves")
	for _, target := range []*movie.Movie{f.addMovie(t, "Speed", 1994), f.addMovie(t, "Matrix", 1999)} {
		_, err := f.service.AddActorToMovie(ctx, target.Slug, cast.AddInput{ActorID: person.ID, Role: target.Title + " lead"})
		require.NoError(t, err)
	}
	f.addMovie(t, "Heat", 1995)

	appearances, err := cast.NewFilmography(f.movies).Appearances(ctx, person.ID)
	require.NoError(t, err)
	require.Len(t, appearances, 2)
	assert.Equal(t, "Matrix", appearances[0].Title)
	assert.Equal(t, "Matrix lead", appearances[0].Role)
	assert.Equal(t, 1994, appearances[1].ReleaseYear)

	detail, err := f.people.Detail(ctx, person.Slug)
	require.NoError(t, err)
	assert.True(t, detail.HasMovies)
	assert.Len(t, detail.Movies, 2)
}
