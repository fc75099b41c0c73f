// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package movie

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/cinemateca/internal/platform/request"
	"github.com/taibuivan/cinemateca/internal/platform/respond"
	"github.com/taibuivan/cinemateca/pkg/pagination"
	"github.com/taibuivan/cinemateca/pkg/query"
)

// # Cast Resolution

// CastMember is an actor as shown on a movie page, with their role in it.
type CastMember struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Portrait    string `json:"portrait,omitempty"`
	Description string `json:"description"`
	Role        string `json:"role"`
}

// CastResolver expands a movie's cast references into actor details.
type CastResolver interface {
	ResolveCast(context context.Context, movie *Movie) ([]CastMember, error)
}

// # HTTP Handler

// Handler serves the movie endpoints.
type Handler struct {
	service *Service
	cast    CastResolver
}

// NewHandler returns a movie handler. cast may be nil, in which case movie
// details carry no resolved cast.
func NewHandler(service *Service, cast CastResolver) *Handler {
	return &Handler{service: service, cast: cast}
}

// Routes returns a [chi.Router] with the movie endpoints. The cast
// endpoints under /{slug}/actors are added by package cast.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Discovery
	router.Get("/", handler.searchMovies)
	router.Get("/filters", handler.filterOptions)
	router.Get("/options", handler.choices)
	router.Get("/{slug}", handler.getMovie)
	router.Get("/{slug}/poster", handler.getPoster)

	// ## Catalogue Management
	router.Post("/", handler.createMovie)
	router.Put("/{slug}", handler.updateMovie)
	router.Delete("/{slug}", handler.deleteMovie)

	return router
}

// # Responses

type searchResponse struct {
	Movies []*Movie `json:"movies"`
	Total  int      `json:"total"`
	pagination.Window
}

type detailResponse struct {
	*Movie
	Cast          []CastMember `json:"cast"`
	GenresText    string       `json:"genresText"`
	CountriesText string       `json:"countriesText"`
}

// Mutation is the body returned by create and update.
type Mutation struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// Removal is the body returned by delete.
type Removal struct {
	Success  bool   `json:"success"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// # Handlers

func (handler *Handler) searchMovies(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()

	params := SearchParams{
		Query:     query.Text(values, "q"),
		Genre:     query.Multi(values, "genre"),
		Country:   query.Multi(values, "country"),
		AgeRating: query.Multi(values, "ageRating"),
		SortBy:    query.Text(values, "sortBy"),
		SortOrder: query.Text(values, "sortOrder"),
	}

	result, err := handler.service.Search(request.Context(), params, pagination.FromRequest(request, pagination.DefaultLimit).Page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, searchResponse{Movies: result.Movies, Total: result.Total, Window: result.Window})
}

func (handler *Handler) filterOptions(writer http.ResponseWriter, request *http.Request) {
	options, err := handler.service.FilterOptions(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, options)
}

func (handler *Handler) choices(writer http.ResponseWriter, request *http.Request) {
	choices, err := handler.service.Choices(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, choices)
}

func (handler *Handler) getMovie(writer http.ResponseWriter, request *http.Request) {
	movie, err := handler.service.Get(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	cast := []CastMember{}
	if handler.cast != nil {
		if cast, err = handler.cast.ResolveCast(request.Context(), movie); err != nil {
			respond.Error(writer, request, err)
			return
		}
	}

	respond.OK(writer, detailResponse{
		Movie:         movie,
		Cast:          cast,
		GenresText:    strings.Join(movie.Genre, ", "),
		CountriesText: strings.Join(movie.CountryOfProduction, ", "),
	})
}

func (handler *Handler) createMovie(writer http.ResponseWriter, request *http.Request) {
	input, err := readInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	poster, err := requestutil.Upload(request, FieldPoster)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	saved, err := handler.service.Create(request.Context(), CreateInput{Input: input, Poster: poster})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, Mutation{
		Slug:     saved.Slug,
		Title:    saved.Title,
		Message:  fmt.Sprintf("%s has been created successfully!", saved.Title),
		Redirect: "/movies/" + saved.Slug,
	})
}

func (handler *Handler) updateMovie(writer http.ResponseWriter, request *http.Request) {
	input, err := readInput(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	poster, err := requestutil.Upload(request, FieldPoster)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	saved, err := handler.service.Update(request.Context(), requestutil.Param(request, "slug"), UpdateInput{Input: input, Poster: poster})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Mutation{
		Slug:     saved.Slug,
		Title:    saved.Title,
		Message:  fmt.Sprintf("%s has been updated successfully!", saved.Title),
		Redirect: "/movies/" + saved.Slug,
	})
}

func (handler *Handler) deleteMovie(writer http.ResponseWriter, request *http.Request) {
	deleted, err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Removal{
		Success:  true,
		Title:    deleted.Title,
		Message:  "Movie deleted successfully",
		Redirect: "/movies?deleted=" + url.QueryEscape(deleted.Title),
	})
}

func (handler *Handler) getPoster(writer http.ResponseWriter, request *http.Request) {
	object, err := handler.service.Poster(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Image(writer, request, object)
}

// # Form Decoding

// readInput parses the movie form fields.
func readInput(request *http.Request) (Input, error) {
	if err := requestutil.ParseForm(request); err != nil {
		return Input{}, err
	}

	return Input{
		Title:               requestutil.FormText(request, FieldTitle),
		Description:         requestutil.FormText(request, FieldDescription),
		Genre:               requestutil.FormValues(request, FieldGenre),
		CountryOfProduction: requestutil.FormValues(request, FieldCountryOfProduction),
		ReleaseDate:         requestutil.FormText(request, FieldReleaseDate),
		AgeRating:           requestutil.FormText(request, FieldAgeRating),
		Actors:              readCast(request),
	}, nil
}

// readCast pairs the actorId and actorRole form fields by position.
// It returns nil when the form carries no cast fields, which keeps the
// stored cast. Pairs missing either half are dropped.
func readCast(request *http.Request) []ActorRef {
	ids := requestutil.FormRaw(request, FieldActorID)
	roles := requestutil.FormRaw(request, FieldActorRole)
	if len(ids) == 0 && len(roles) == 0 {
		return nil
	}

	cast := []ActorRef{}
	for index := 0; index < len(ids) && index < len(roles); index++ {
		id, role := strings.TrimSpace(ids[index]), strings.TrimSpace(roles[index])
		if id == "" || role == "" {
			continue
		}
		cast = append(cast, ActorRef{ActorID: id, Role: role})
	}
	return cast
}
