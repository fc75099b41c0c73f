// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package actor

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/cinemateca/internal/platform/request"
	"github.com/taibuivan/cinemateca/internal/platform/respond"
	"github.com/taibuivan/cinemateca/pkg/convert"
	"github.com/taibuivan/cinemateca/pkg/pagination"
	"github.com/taibuivan/cinemateca/pkg/query"
)

// MovieCasting creates an actor straight into a movie's cast.
type MovieCasting interface {
	CreateActorInMovie(context context.Context, movieSlug, role string, input CreateInput) (*Casted, error)
}

// # HTTP Handler

// Handler serves the actor endpoints.
type Handler struct {
	service *Service
	casting MovieCasting
}

// NewHandler returns an actor handler. casting may be nil, in which case a
// movieSlug sent on create is ignored.
func NewHandler(service *Service, casting MovieCasting) *Handler {
	return &Handler{service: service, casting: casting}
}

// Routes returns a [chi.Router] with the actor endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.searchActors)
	router.Get("/options", handler.choices)
	router.Get("/{slug}", handler.getActor)
	router.Get("/{slug}/portrait", handler.getPortrait)

	router.Post("/", handler.createActor)
	router.Put("/{slug}", handler.updateActor)
	router.Delete("/{slug}", handler.deleteActor)

	return router
}

// # Responses

type searchResponse struct {
	Actors []*Actor `json:"actors"`
	Total  int      `json:"total"`
	pagination.Window
}

// Mutation is the body returned by create and update.
type Mutation struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// Removal is the body returned by delete.
type Removal struct {
	Success  bool   `json:"success"`
	Name     string `json:"name"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// # Handlers

func (handler *Handler) searchActors(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	page := pagination.FromRequest(request, pagination.DefaultLimit).Page

	result, err := handler.service.Search(request.Context(), query.Text(values, "q"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, searchResponse{Actors: result.Actors, Total: result.Total, Window: result.Window})
}

func (handler *Handler) choices(writer http.ResponseWriter, request *http.Request) {
	choices, err := handler.service.Choices(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, choices)
}

func (handler *Handler) getActor(writer http.ResponseWriter, request *http.Request) {
	detail, err := handler.service.Detail(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, detail)
}

func (handler *Handler) getPortrait(writer http.ResponseWriter, request *http.Request) {
	object, err := handler.service.Portrait(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Image(writer, request, object)
}

func (handler *Handler) createActor(writer http.ResponseWriter, request *http.Request) {
	input, err := ReadInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	portrait, err := requestutil.Upload(request, FieldPortrait)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// Created from a movie page: join the cast in the same step
	movieSlug := requestutil.FormText(request, FieldMovieSlug)
	if movieSlug != "" && handler.casting != nil {
		casted, err := handler.casting.CreateActorInMovie(request.Context(), movieSlug,
			requestutil.FormText(request, FieldRole), CreateInput{Input: input, Portrait: portrait})
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.Created(writer, Mutation{
			Slug:     casted.Slug,
			Name:     casted.Name,
			Message:  fmt.Sprintf("%s has been added to %s!", casted.Name, casted.MovieTitle),
			Redirect: "/movies/" + casted.MovieSlug,
		})
		return
	}

	saved, err := handler.service.Create(request.Context(), CreateInput{Input: input, Portrait: portrait})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, Mutation{
		Slug:     saved.Slug,
		Name:     saved.Name,
		Message:  fmt.Sprintf("%s has been created successfully!", saved.Name),
		Redirect: "/actors/" + saved.Slug,
	})
}

func (handler *Handler) updateActor(writer http.ResponseWriter, request *http.Request) {
	input, err := ReadUpdate(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	saved, err := handler.service.Update(request.Context(), requestutil.Param(request, "slug"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Mutation{
		Slug:     saved.Slug,
		Name:     saved.Name,
		Message:  fmt.Sprintf("%s has been updated successfully!", saved.Name),
		Redirect: "/actors/" + saved.Slug,
	})
}

func (handler *Handler) deleteActor(writer http.ResponseWriter, request *http.Request) {
	deleted, err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Removal{
		Success:  true,
		Name:     deleted.Name,
		Message:  "Actor deleted successfully",
		Redirect: "/actors",
	})
}

// # Form Decoding

// ReadInput parses the actor form fields.
func ReadInput(request *http.Request) (Input, error) {
	if err := requestutil.ParseForm(request); err != nil {
		return Input{}, err
	}

	return Input{
		Name:         requestutil.FormText(request, FieldName),
		Description:  requestutil.FormText(request, FieldDescription),
		DateOfBirth:  requestutil.FormText(request, FieldDateOfBirth),
		DateOfDeath:  requestutil.FormText(request, FieldDateOfDeath),
		PlaceOfBirth: requestutil.FormText(request, FieldPlaceOfBirth),
	}, nil
}

// ReadUpdate parses an actor edit form including the portrait controls.
func ReadUpdate(request *http.Request) (UpdateInput, error) {
	input, err := ReadInput(request)
	if err != nil {
		return UpdateInput{}, err
	}

	portrait, err := requestutil.Upload(request, FieldPortrait)
	if err != nil {
		return UpdateInput{}, err
	}

	return UpdateInput{
		Input:          input,
		Portrait:       portrait,
		RemovePortrait: convert.ToBool(requestutil.FormText(request, "removePortrait")),
	}, nil
}
