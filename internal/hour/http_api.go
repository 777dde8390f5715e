// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hour

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/respond"
)

// APIHandler serves the caller's hours as JSON.
type APIHandler struct {
	service *Service

	// audit wraps the create route; it records the request body.
	audit func(http.Handler) http.Handler
}

func NewAPIHandler(service *Service, audit func(http.Handler) http.Handler) *APIHandler {
	return &APIHandler{service: service, audit: audit}
}

// RegisterRoutes mounts the API under /api/hours.
func (handler *APIHandler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listMine)

	create := router
	if handler.audit != nil {
		create = router.With(handler.audit)
	}
	create.Post("/", handler.create)
}

/*
ListMine returns the records owned by the caller.

GET /api/hours

Response:
  - 200: []Hour
  - 401: Not authenticated
*/
func (handler *APIHandler) listMine(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	hours, err := handler.service.ListByOwner(request.Context(), identity.UserCode)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if hours == nil {
		hours = []*Hour{}
	}
	respond.OK(writer, hours)
}

/*
Create stores a record for the caller.

POST /api/hours

Request:
  - Body: Input

Response:
  - 201: Hour
  - 400: Validation failure
*/
func (handler *APIHandler) create(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	hour, err := handler.service.Insert(request.Context(), identity, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, hour)
}
