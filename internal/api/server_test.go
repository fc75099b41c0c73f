// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/cinemateca/internal/api"
	"github.com/taibuivan/cinemateca/internal/core/actor"
	"github.com/taibuivan/cinemateca/internal/core/actor/actortest"
	"github.com/taibuivan/cinemateca/internal/core/cast"
	"github.com/taibuivan/cinemateca/internal/core/movie"
	"github.com/taibuivan/cinemateca/internal/core/movie/movietest"
	"github.com/taibuivan/cinemateca/internal/platform/config"
	"github.com/taibuivan/cinemateca/internal/platform/lock"
	"github.com/taibuivan/cinemateca/internal/platform/storage/storagetest"
)

func newServer(t *testing.T) http.Handler {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	movies := movietest.New()
	actors := actortest.New()
	actors.OnDelete = movies.ForgetActor
	movies.Actors = actors
	images := storagetest.NewMemory()
	locker := lock.NewLocal()

	movieService := movie.NewService(movies, images, nil, movie.NewRules(movie.DefaultVocabulary()), movie.Options{})
	actorService := actor.NewService(actors, images, cast.NewFilmography(movies), actor.NewRules(), actor.Options{Locker: locker})
	castService := cast.NewService(movies, actors, actorService, images, locker)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		Database: func(context.Context) error { return nil },
		Cache:    func(context.Context) error { return errors.New("connection refused") },
	}, slog.Default())

	cfg := &config.Config{ServerPort: "0", Environment: "development", MaxUploadBytes: 1 << 20}
	server := api.NewServer(ctx, cfg, slog.Default(), api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Movie:     movie.NewHandler(movieService, castService),
		Cast:      cast.NewHandler(castService),
		Actor:     actor.NewHandler(actorService, castService),
	})
	return server.Handler()
}

/*
TestServer_Routes checks the route groups and probes are mounted where clients expect.
*/
func TestServer_Routes(t *testing.T) {
	handler := newServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"Liveness", "/health", http.StatusOK, "cinemateca-api"},
		{"Readiness degraded", "/ready", http.StatusServiceUnavailable, "connection refused"},
		{"Movie search", "/api/v1/movies", http.StatusOK, `"movies":[]`},
		{"Filter options", "/api/v1/movies/filters", http.StatusOK, "Science Fiction"},
		{"Movie picker", "/api/v1/movies/options", http.StatusOK, `"data":[]`},
		{"Missing movie", "/api/v1/movies/heat_1995", http.StatusNotFound, "NOT_FOUND"},
		{"Cast of missing movie", "/api/v1/movies/heat_1995/actors", http.StatusNotFound, "NOT_FOUND"},
		{"Actor search", "/api/v1/actors", http.StatusOK, `"actors":[]`},
		{"Actor picker", "/api/v1/actors/options", http.StatusOK, `"data":[]`},
		{"Missing actor", "/api/v1/actors/al-pacino", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code, recorder.Body.String())
			assert.Contains(t, recorder.Body.String(), tt.body)
		})
	}
}
