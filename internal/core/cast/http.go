// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cast

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/cinemateca/internal/core/actor"
	requestutil "github.com/taibuivan/cinemateca/internal/platform/request"
	"github.com/taibuivan/cinemateca/internal/platform/respond"
)

// # HTTP Handler

// Handler serves the cast endpoints nested under a movie.
type Handler struct {
	service *Service
}

// NewHandler constructs a cast [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

/*
RegisterRoutes adds the cast endpoints to the movie router.

Description: The movie router is mounted at /movies, so these paths share
its {slug} parameter.
*/
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{slug}/actors", handler.listCast)
	router.Post("/{slug}/actors", handler.addActor)
	router.Post("/{slug}/actors/new", handler.createActor)
	router.Put("/{slug}/actors/{actorSlug}", handler.updateActor)
	router.Patch("/{slug}/actors/{actorSlug}", handler.updateRole)
	router.Delete("/{slug}/actors/{actorSlug}", handler.removeActor)
}

// # Requests

type roleRequest struct {
	Role string `json:"role"`
}

// # Handlers

func (handler *Handler) listCast(writer http.ResponseWriter, request *http.Request) {
	members, err := handler.service.Cast(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, members)
}

func (handler *Handler) addActor(writer http.ResponseWriter, request *http.Request) {
	var input AddInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.AddActorToMovie(request.Context(), requestutil.Param(request, "slug"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, actor.Mutation{
		Slug:     entry.ActorSlug,
		Name:     entry.ActorName,
		Message:  fmt.Sprintf("%s has been added to %s!", entry.ActorName, entry.MovieTitle),
		Redirect: "/movies/" + entry.MovieSlug,
	})
}

func (handler *Handler) createActor(writer http.ResponseWriter, request *http.Request) {
	input, err := actor.ReadInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	portrait, err := requestutil.Upload(request, actor.FieldPortrait)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	casted, err := handler.service.CreateActorInMovie(request.Context(), requestutil.Param(request, "slug"),
		requestutil.FormText(request, actor.FieldRole), actor.CreateInput{Input: input, Portrait: portrait})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, actor.Mutation{
		Slug:     casted.Slug,
		Name:     casted.Name,
		Message:  fmt.Sprintf("%s has been added to %s!", casted.Name, casted.MovieTitle),
		Redirect: "/movies/" + casted.MovieSlug,
	})
}

func (handler *Handler) updateActor(writer http.ResponseWriter, request *http.Request) {
	input, err := actor.ReadUpdate(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	casted, err := handler.service.UpdateActorInMovie(request.Context(),
		requestutil.Param(request, "slug"),
		requestutil.Param(request, "actorSlug"),
		requestutil.FormText(request, actor.FieldRole),
		input,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, actor.Mutation{
		Slug:     casted.Slug,
		Name:     casted.Name,
		Message:  fmt.Sprintf("%s has been updated in %s!", casted.Name, casted.MovieTitle),
		Redirect: "/movies/" + casted.MovieSlug,
	})
}

func (handler *Handler) updateRole(writer http.ResponseWriter, request *http.Request) {
	var body roleRequest
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.UpdateRole(request.Context(),
		requestutil.Param(request, "slug"),
		requestutil.Param(request, "actorSlug"),
		body.Role,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, entry)
}

func (handler *Handler) removeActor(writer http.ResponseWriter, request *http.Request) {
	removal, err := handler.service.RemoveActorFromMovie(request.Context(),
		requestutil.Param(request, "slug"),
		requestutil.Param(request, "actorSlug"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, removal)
}
