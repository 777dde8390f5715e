// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hour

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/platform/middleware"
	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/session"
	"github.com/ascinsa/pms/internal/platform/view"
)

// PathList is the hour list and the fallback of every guard.
const PathList = "/hour/view-hours"

// Handler serves the hour log pages.
type Handler struct {
	service  *Service
	renderer *view.Renderer
}

func NewHandler(service *Service, renderer *view.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// RegisterRoutes mounts the pages under /hour.
//
// # Endpoints
//   - GET  /view-hours  : List.
//   - GET  /view/{id}   : Detail.
//   - GET  /log-hours   : Create form (writers).
//   - POST /log-hours   : Create (writers).
//   - GET  /edit/{id}   : Edit form (owner).
//   - POST /edit/{id}   : Update (owner).
//   - POST /delete/{id} : Delete (owner).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/view-hours", handler.list)
	router.Get("/view/{id}", handler.detail)

	router.Group(func(writers chi.Router) {
		writers.Use(middleware.RequireWriter(PathList))

		writers.Get("/log-hours", handler.showCreate)
		writers.Post("/log-hours", handler.create)

		writers.Group(func(owners chi.Router) {
			owners.Use(middleware.RequireOwner(handler.service.Owner, nil, PathList))

			owners.Get("/edit/{id}", handler.showEdit)
			owners.Post("/edit/{id}", handler.update)
			owners.Post("/delete/{id}", handler.delete)
		})
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	hours, err := handler.service.List(request.Context())
	if err != nil {
		respond.ServerError(writer, request, err, "Error al cargar las horas")
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageHourList, view.Data{
		"Title": "Ver Horas Registradas",
		"Hours": hours,
	})
}

func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, PathList, MessageNotFound)
		return
	}

	hour, err := handler.service.Get(request.Context(), id)
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.fail(writer, request, PathList, MessageNotFound)
			return
		}
		respond.ServerError(writer, request, err, "Error al cargar el registro")
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageHourDetail, view.Data{
		"Title": hour.Title,
		"Hour":  hour,
	})
}

func (handler *Handler) showCreate(writer http.ResponseWriter, request *http.Request) {
	handler.renderForm(writer, request, "Registrar Horas", "/hour/log-hours", handler.service.BlankInput(), true)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := formInput(request)
	if err != nil {
		handler.fail(writer, request, "/hour/log-hours", failureMessage("Error al registrar horas", err))
		return
	}

	hour, err := handler.service.Create(request.Context(), requestutil.Identity(request), input)
	if err != nil {
		handler.fail(writer, request, "/hour/log-hours", failureMessage("Error al registrar horas", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, fmt.Sprintf("Horas registradas exitosamente: %.2f horas", hour.HoursWorked))
	respond.Redirect(writer, request, PathList)
}

func (handler *Handler) showEdit(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, PathList, "No tienes permiso para editar este registro")
		return
	}

	hour, err := handler.service.owned(request.Context(), requestutil.Identity(request), id)
	if err != nil {
		handler.fail(writer, request, PathList, "No tienes permiso para editar este registro")
		return
	}

	handler.renderForm(writer, request, "Editar Horas", fmt.Sprintf("/hour/edit/%d", id), InputOf(hour), false)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, PathList, MessageNotFound)
		return
	}

	input, err := formInput(request)
	if err == nil {
		_, err = handler.service.Update(request.Context(), requestutil.Identity(request), id, input)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.fail(writer, request, PathList, "No tienes permiso para editar este registro")
			return
		}
		handler.fail(writer, request, fmt.Sprintf("/hour/edit/%d", id), failureMessage("Error al actualizar el registro", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Registro actualizado correctamente")
	respond.Redirect(writer, request, PathList)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err == nil {
		err = handler.service.Delete(request.Context(), requestutil.Identity(request), id)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.fail(writer, request, PathList, MessageNotFound)
			return
		}
		handler.fail(writer, request, PathList, "Error al eliminar el registro")
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Registro eliminado")
	respond.Redirect(writer, request, PathList)
}

// # Helpers

func (handler *Handler) renderForm(writer http.ResponseWriter, request *http.Request, title, action string, values Input, includeManagers bool) {
	bosses, err := handler.service.Bosses(request.Context(), includeManagers)
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "hour_bosses_unavailable", slog.String("error", err.Error()))
		bosses = directory.Roster{}
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageHourForm, view.Data{
		"Title":  title,
		"Action": action,
		"Values": values,
		"Bosses": bosses,
	})
}

func (handler *Handler) fail(writer http.ResponseWriter, request *http.Request, target, message string) {
	session.Flash(request.Context(), constants.FlashError, message)
	respond.Redirect(writer, request, target)
}

func formInput(request *http.Request) (Input, error) {
	form, err := requestutil.Form(request)
	if err != nil {
		return Input{}, err
	}

	return Input{
		Title:           requestutil.Value(form, FieldTitle),
		TaskDescription: requestutil.Value(form, FieldDescription),
		StartDate:       requestutil.Value(form, FieldStartDate),
		EndDate:         requestutil.Value(form, FieldEndDate),
		RequestedBy:     requestutil.Value(form, FieldRequestedBy),
		Extralaboral:    requestutil.Value(form, FieldExtralaboral),
		Reason:          requestutil.Value(form, FieldReason),
	}, nil
}

// failureMessage appends the first field problem of a validation error to base.
func failureMessage(base string, err error) string {
	if appError := apperr.As(err); appError != nil && len(appError.Details) > 0 {
		return base + ": " + appError.Details[0].Message
	}
	return base
}
