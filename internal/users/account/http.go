// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/unimart/internal/platform/apperr"
	"github.com/taibuivan/unimart/internal/platform/middleware"
	requestutil "github.com/taibuivan/unimart/internal/platform/request"
	"github.com/taibuivan/unimart/internal/platform/respond"
	"github.com/taibuivan/unimart/internal/platform/sec"
	"github.com/taibuivan/unimart/internal/platform/validate"
	"github.com/taibuivan/unimart/pkg/uuid"
)

// Handler implements the HTTP layer for account management.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns the caller-facing endpoints, mounted under /api/users.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Get("/me", handler.getMe)
	return router
}

// AdminRoutes returns the moderation endpoints, mounted under /api/admin/users.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.RoleAdmin))
	router.Patch("/{id}/status", handler.changeStatus)
	return router
}

/*
GET /api/users/me.

Description: Retrieves the account of the authenticated caller.

Response:
  - 200: Account
  - 401: Authentication required
*/
func (handler *Handler) getMe(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.Profile(request.Context(), principal)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}

// changeStatusRequest is the JSON payload for status changes.
type changeStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE SUSPENDED DEACTIVATED"`
}

/*
PATCH /api/admin/users/{id}/status.

Request:
  - body: changeStatusRequest

Response:
  - 200: Account: the updated account
  - 400: Validation failure, unknown account, or self-targeting
  - 401: Authentication required
  - 403: Caller is not an administrator
*/
func (handler *Handler) changeStatus(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredAdmin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	accountID := requestutil.Param(request, "id")
	if !uuid.Valid(accountID) {
		respond.Error(writer, request, apperr.FieldError("id", "Must be a valid UUID"))
		return
	}

	var input changeStatusRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validate.Struct(&input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	account, err := handler.accountService.ChangeStatus(request.Context(), actor, accountID, sec.Status(input.Status))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, account)
}
