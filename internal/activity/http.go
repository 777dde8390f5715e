// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/view"
)

type Handler struct {
	service  *Service
	renderer *view.Renderer
}

func NewHandler(service *Service, renderer *view.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.showHistory)
}

func (handler *Handler) showHistory(writer http.ResponseWriter, request *http.Request) {
	days, err := handler.service.History(request.Context())
	if err != nil {
		respond.ServerError(writer, request, err, "Error cargando el historial de cambios.")
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageHistory, view.Data{
		"Title": "Historial de Cambios",
		"Days":  days,
	})
}
