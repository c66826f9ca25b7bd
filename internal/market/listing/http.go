// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package listing

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	requestutil "github.com/taibuivan/unimart/internal/platform/request"
	"github.com/taibuivan/unimart/internal/platform/respond"
	"github.com/taibuivan/unimart/pkg/pagination"
	"github.com/taibuivan/unimart/pkg/query"
	"github.com/taibuivan/unimart/pkg/uuid"
)

// Handler implements the HTTP layer for listings.
type Handler struct {
	service *Service
}

// NewHandler constructs a new listing [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] mounted under /api/listings.
//
// # Access
//
// GET /search is public. Every other route relies on the access policy to
// reject anonymous callers before the handler runs.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Discovery
	router.Get("/search", handler.search)
	router.Get("/", handler.browse)
	router.Get("/{id}", handler.get)

	// Mutation
	router.Post("/", handler.create)
	router.Delete("/{id}", handler.remove)

	return router
}

/*
GET /api/listings/search.

Request:
  - q: string (keyword, matched against title and description)
  - category: string (comma separated, e.g. BOOKS,ELECTRONICS)
  - page, limit: int

Response:
  - 200: []Listing with pagination meta
  - 400: Unknown category
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)

	result, err := handler.service.Search(request.Context(), filterFromRequest(request), paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, result.Total))
}

/*
GET /api/listings.

Request:
  - q, category, page, limit: as for search
  - seller: UUID of a seller, or "me" for the caller's own listings

Response:
  - 200: []Listing with pagination meta
  - 400: Invalid seller or category
  - 401: Authentication required
*/
func (handler *Handler) browse(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter := filterFromRequest(request)
	switch seller := request.URL.Query().Get("seller"); {
	case seller == "":
	case seller == "me":
		filter.SellerID = principal.AccountID
	case uuid.Valid(seller):
		filter.SellerID = seller
	default:
		respond.Error(writer, request, apperr.FieldError("seller", "Must be a valid UUID or \"me\""))
		return
	}

	paginationParams := pagination.FromRequest(request)
	result, err := handler.service.Browse(request.Context(), filter, paginationParams)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, result.Items, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, result.Total))
}

/*
GET /api/listings/{id}.

Response:
  - 200: Listing
  - 400: Invalid id or listing not found
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := listingID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listing)
}

/*
POST /api/listings.

Request:
  - body: CreateInput

Response:
  - 201: Listing
  - 400: Invalid JSON or validation failure
  - 401: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input CreateInput
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	listing, err := handler.service.Create(request.Context(), principal, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, listing)
}

/*
DELETE /api/listings/{id}.

Response:
  - 204: Deleted
  - 400: Invalid id or listing not found
  - 401: Authentication required
  - 403: Caller is neither the seller nor an administrator
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := listingID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), principal, id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// filterFromRequest reads the shared q and category parameters.
func filterFromRequest(request *http.Request) Filter {
	values := request.URL.Query()

	var categories []Category
	for _, category := range query.UpperSlice(values.Get("category")) {
		categories = append(categories, Category(category))
	}

	return Filter{
		Query:      query.Text(values.Get("q"), MaxQueryLength),
		Categories: categories,
	}
}

func listingID(request *http.Request) (string, error) {
	id := requestutil.Param(request, "id")
	if !uuid.Valid(id) {
		return "", apperr.FieldError("id", "Must be a valid UUID")
	}
	return id, nil
}
