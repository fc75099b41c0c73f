// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package actor_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/core/actor/actortest"
	"github.com/taibuivan/cinemateca/internal/platform/apperr"
	"github.com/taibuivan/cinemateca/internal/platform/storage"
	"github.com/taibuivan/cinemateca/internal/platform/storage/storagetest"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}, make([]byte, 32)...)
)

func upload(t *testing.T, content []byte) *storage.Upload {
	t.Helper()
	portrait, err := storage.ReadUpload(actor.FieldPortrait, "portrait", bytes.NewReader(content))
	require.NoError(t, err)
	return portrait
}

type staticFilmography map[string][]actor.Appearance

func (films staticFilmography) Appearances(_ context.Context, actorID string) ([]actor.Appearance, error) {
	return films[actorID], nil
}

type fixture struct {
	repo    *actortest.Repository
	images  *storagetest.Memory
	films   staticFilmography
	service *actor.Service
}

func newFixture() *fixture {
	repo := actortest.New()
	images := storagetest.NewMemory()
	films := staticFilmography{}
	return &fixture{
		repo:    repo,
		images:  images,
		films:   films,
		service: actor.NewService(repo, images, films, fixedRules(), actor.Options{PageSize: 2}),
	}
}

/*
TestService_CreateAndDetail stores an actor and derives their age and movies.
*/
func TestService_CreateAndDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	saved, err := f.service.Create(ctx, actor.CreateInput{Input: validInput(), Portrait: upload(t, jpegBytes)})
	require.NoError(t, err)
	assert.Equal(t, "keanu-reeves", saved.Slug)
	stored, err := f.service.Get(ctx, "keanu-reeves")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Portrait, "keanu-reeves-"))
	assert.True(t, strings.HasSuffix(stored.Portrait, ".jpg"))
	assert.True(t, f.images.Has(stored.Portrait))

	f.films[saved.ID] = []actor.Appearance{{Slug: "the-matrix_1999", Title: "The Matrix", ReleaseYear: 1999, Role: "Neo"}}

	detail, err := f.service.Detail(ctx, "keanu-reeves")
	require.NoError(t, err)
	assert.True(t, detail.Alive)
	require.NotNil(t, detail.Age)
	assert.Equal(t, 61, *detail.Age)
	assert.Nil(t, detail.AgeAtDeath)
	assert.True(t, detail.HasMovies)
	assert.Equal(t, "Neo", detail.Movies[0].Role)
}

/*
TestService_CreateWithoutPortrait accepts a missing portrait and derives ages at death.
*/
func TestService_CreateWithoutPortrait(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	input := validInput()
	input.Name = "Heath Ledger"
	input.DateOfBirth = "1979-04-04"
	input.DateOfDeath = "2008-01-22"

	_, err := f.service.Create(ctx, actor.CreateInput{Input: input})
	require.NoError(t, err)
	assert.Empty(t, f.images.Names())

	detail, err := f.service.Detail(ctx, "heath-ledger")
	require.NoError(t, err)
	assert.False(t, detail.Alive)
	assert.Nil(t, detail.Age)
	require.NotNil(t, detail.AgeAtDeath)
	assert.Equal(t, 28, *detail.AgeAtDeath)
	assert.Empty(t, detail.Movies)
	assert.False(t, detail.HasMovies)

	_, err = f.service.Portrait(ctx, "heath-ledger")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_CreateDuplicate rejects a name whose slug is taken.
*/
func TestService_CreateDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.Create(ctx, actor.CreateInput{Input: validInput()})
	require.NoError(t, err)

	again := validInput()
	again.Name = "Keanu  REEVES!"
	_, err = f.service.Create(ctx, actor.CreateInput{Input: again, Portrait: upload(t, pngBytes)})
	require.True(t, apperr.HasCode(err, apperr.CodeConflict))
	assert.Equal(t, "name", apperr.As(err).Details[0].Field)
	assert.Empty(t, f.images.Names())
}

/*
TestService_UpdatePortrait replaces, keeps and removes the portrait.
*/
func TestService_UpdatePortrait(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.Create(ctx, actor.CreateInput{Input: validInput(), Portrait: upload(t, jpegBytes)})
	require.NoError(t, err)

	// 1. Replace with a PNG under a new name
	renamed := validInput()
	renamed.Name = "Keanu Charles Reeves"
	saved, err := f.service.Update(ctx, "keanu-reeves", actor.UpdateInput{Input: renamed, Portrait: upload(t, pngBytes)})
	require.NoError(t, err)
	assert.Equal(t, "keanu-charles-reeves", saved.Slug)
	replaced, err := f.service.Get(ctx, "keanu-charles-reeves")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(replaced.Portrait, "keanu-charles-reeves-"))
	assert.Equal(t, []string{replaced.Portrait}, f.images.Names())

	// 2. No upload keeps it
	_, err = f.service.Update(ctx, "keanu-charles-reeves", actor.UpdateInput{Input: renamed})
	require.NoError(t, err)
	stored, err := f.service.Get(ctx, "keanu-charles-reeves")
	require.NoError(t, err)
	assert.Equal(t, replaced.Portrait, stored.Portrait)

	// 3. Removal deletes the file
	_, err = f.service.Update(ctx, "keanu-charles-reeves", actor.UpdateInput{Input: renamed, RemovePortrait: true})
	require.NoError(t, err)
	stored, err = f.service.Get(ctx, "keanu-charles-reeves")
	require.NoError(t, err)
	assert.Empty(t, stored.Portrait)
	assert.Empty(t, f.images.Names())
}

/*
TestService_RenameThenRecreate gives a recreated actor its own portrait file,
leaving the portrait of the renamed actor in place.
*/
func TestService_RenameThenRecreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.Create(ctx, actor.CreateInput{Input: validInput(), Portrait: upload(t, jpegBytes)})
	require.NoError(t, err)

	renamed := validInput()
	renamed.Name = "Keanu Charles Reeves"
	_, err = f.service.Update(ctx, "keanu-reeves", actor.UpdateInput{Input: renamed})
	require.NoError(t, err)

	_, err = f.service.Create(ctx, actor.CreateInput{Input: validInput(), Portrait: upload(t, jpegBytes)})
	require.NoError(t, err)

	first, err := f.service.Get(ctx, "keanu-charles-reeves")
	require.NoError(t, err)
	second, err := f.service.Get(ctx, "keanu-reeves")
	require.NoError(t, err)
	assert.NotEqual(t, first.Portrait, second.Portrait)

	_, err = f.service.Delete(ctx, "keanu-reeves")
	require.NoError(t, err)

	object, err := f.service.Portrait(ctx, "keanu-charles-reeves")
	require.NoError(t, err)
	defer object.Body.Close()
	assert.Equal(t, "image/jpeg", object.ContentType)
	assert.Equal(t, []string{first.Portrait}, f.images.Names())
}

/*
TestService_UpdateFailureKeepsPortrait leaves the stored portrait untouched
when the record cannot be written, and discards the new upload.
*/
func TestService_UpdateFailureKeepsPortrait(t *testing.T) {
	ctx := context.Background()
	repo := &failingUpdates{Repository: actortest.New()}
	images := storagetest.NewMemory()
	service := actor.NewService(repo, images, staticFilmography{}, fixedRules(), actor.Options{})

	_, err := service.Create(ctx, actor.CreateInput{Input: validInput(), Portrait: upload(t, jpegBytes)})
	require.NoError(t, err)
	before, err := service.Get(ctx, "keanu-reeves")
	require.NoError(t, err)

	_, err = service.Update(ctx, "keanu-reeves", actor.UpdateInput{Input: validInput(), Portrait: upload(t, pngBytes)})
	require.Error(t, err)

	assert.Equal(t, []string{before.Portrait}, images.Names())
	object, err := service.Portrait(ctx, "keanu-reeves")
	require.NoError(t, err)
	defer object.Body.Close()
	assert.Equal(t, "image/jpeg", object.ContentType)
}

// failingUpdates rejects every update.
type failingUpdates struct {
	*actortest.Repository
}

func (repository *failingUpdates) Update(context.Context, *actor.Actor) error {
	return errors.New("connection reset")
}

/*
TestService_Delete removes the record and the portrait.
*/
func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	_, err := f.service.Create(ctx, actor.CreateInput{Input: validInput(), Portrait: upload(t, pngBytes)})
	require.NoError(t, err)

	deleted, err := f.service.Delete(ctx, "keanu-reeves")
	require.NoError(t, err)
	assert.Equal(t, "Keanu Reeves", deleted.Name)
	assert.Equal(t, 0, f.repo.Len())
	assert.Empty(t, f.images.Names())

	_, err = f.service.Delete(ctx, "keanu-reeves")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_Search pages a case-insensitive name search.
*/
func TestService_Search(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	for _, name := range []string{"Anna Karina", "Jean-Paul Belmondo", "Anna Magnani", "Annabella Sciorra"} {
		input := validInput()
		input.Name = name
		_, err := f.service.Create(ctx, actor.CreateInput{Input: input})
		require.NoError(t, err, fmt.Sprintf("create %s", name))
	}

	result, err := f.service.Search(ctx, "anna", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	require.Len(t, result.Actors, 2)
	assert.Equal(t, "Anna Karina", result.Actors[0].Name)
	assert.Equal(t, 2, result.Window.TotalPages)

	result, err = f.service.Search(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)
	assert.Equal(t, "Annabella Sciorra", result.Actors[0].Name)

	choices, err := f.service.Choices(ctx)
	require.NoError(t, err)
	require.Len(t, choices, 4)
	assert.Equal(t, "anna-karina", choices[0].Slug)
	assert.NotEmpty(t, choices[0].ID)
}
