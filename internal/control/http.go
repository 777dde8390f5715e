// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package control

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/middleware"
	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/session"
	"github.com/ascinsa/pms/internal/platform/view"
)

// PathList is the item list and the fallback of every failure.
const PathList = "/control"

// Handler serves the internal control pages.
type Handler struct {
	service  *Service
	renderer *view.Renderer
}

func NewHandler(service *Service, renderer *view.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

// RegisterRoutes mounts the pages under /control.
//
// # Endpoints
//   - GET  /             : List.
//   - GET  /create       : Create form (writers).
//   - POST /create       : Create (writers).
//   - GET  /{id}         : Detail.
//   - GET  /{id}/edit    : Edit form (writers).
//   - POST /{id}/edit    : Update (writers).
//   - POST /{id}/delete  : Delete (writers).
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.list)
	router.Get("/{id}", handler.detail)

	router.Group(func(writers chi.Router) {
		writers.Use(middleware.RequireWriter(PathList))

		writers.Get("/create", handler.showCreate)
		writers.Post("/create", handler.create)
		writers.Get("/{id}/edit", handler.showEdit)
		writers.Post("/{id}/edit", handler.update)
		writers.Post("/{id}/delete", handler.delete)
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	controls, err := handler.service.List(request.Context())
	if err != nil {
		respond.ServerError(writer, request, err, "Error al cargar la lista de ítems")
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageControlList, view.Data{
		"Title":    "Lista de Ítems",
		"Controls": controls,
	})
}

func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	control, ok := handler.load(writer, request, "Error cargando el detalle")
	if !ok {
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageControlDetail, view.Data{
		"Title": "Detalle de Ítem",
		"Item":  control,
	})
}

func (handler *Handler) showCreate(writer http.ResponseWriter, request *http.Request) {
	handler.renderForm(writer, request, "Crear un Ítem", PathList+"/create", BlankInput())
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	input, err := formInput(request)
	if err == nil {
		_, err = handler.service.Create(request.Context(), requestutil.Identity(request), input)
	}
	if err != nil {
		handler.fail(writer, request, PathList+"/create", failureMessage("Error al crear el ítem", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Ítem creado exitosamente")
	respond.Redirect(writer, request, PathList)
}

func (handler *Handler) showEdit(writer http.ResponseWriter, request *http.Request) {
	control, ok := handler.load(writer, request, "Error al cargar el ítem para edición")
	if !ok {
		return
	}

	handler.renderForm(writer, request, "Editar Ítem", fmt.Sprintf("%s/%d/edit", PathList, control.ID), InputOf(control))
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
			handler.fail(writer, request, PathList, MessageNotFound)
			return
		}
		handler.fail(writer, request, fmt.Sprintf("%s/%d/edit", PathList, id), failureMessage("Error al actualizar el ítem", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Ítem actualizado correctamente")
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
		handler.fail(writer, request, PathList, "Error al eliminar el ítem")
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Ítem eliminado correctamente")
	respond.Redirect(writer, request, PathList)
}

// # Helpers

// load fetches the item named by the URL. A missing item flashes
// MessageNotFound, any other failure flashes failure; both redirect to the list.
func (handler *Handler) load(writer http.ResponseWriter, request *http.Request, failure string) (*Control, bool) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, PathList, MessageNotFound)
		return nil, false
	}

	control, err := handler.service.Get(request.Context(), id)
	if err != nil {
		message := failure
		if apperr.IsNotFound(err) {
			message = MessageNotFound
		} else {
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "control_load_failed",
				slog.Int64("control_id", id),
				slog.Any("error", err),
			)
		}
		handler.fail(writer, request, PathList, message)
		return nil, false
	}
	return control, true
}

func (handler *Handler) renderForm(writer http.ResponseWriter, request *http.Request, title, action string, values Input) {
	applicants, responsibles, err := handler.service.People(request.Context())
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "control_people_unavailable", slog.String("error", err.Error()))
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageControlForm, view.Data{
		"Title":        title,
		"Action":       action,
		"Values":       values,
		"Options":      FormOptions(),
		"Applicants":   applicants,
		"Responsibles": responsibles,
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
		Requirement:        requestutil.Value(form, FieldRequirement),
		Classifier:         requestutil.Value(form, FieldClassifier),
		Subclassifier:      requestutil.Value(form, FieldSubclassifier),
		Quantity:           requestutil.Value(form, FieldQuantity),
		Location:           requestutil.Value(form, FieldLocation),
		Floor:              requestutil.Value(form, FieldFloor),
		Detail:             requestutil.Value(form, FieldDetail),
		Priority:           requestutil.Value(form, FieldPriority),
		Area:               requestutil.Value(form, FieldArea),
		Applicant:          requestutil.Value(form, FieldApplicant),
		ResponsibleTI:      requestutil.JoinedValue(form, FieldResponsibleTI),
		ApproximateEndDate: requestutil.Value(form, FieldApproximateEndDate),
		ProgressPercentage: requestutil.Value(form, FieldProgressPercentage),
		Observations:       requestutil.Value(form, FieldObservations),
		Iframe:             requestutil.Value(form, FieldIframe),
	}, nil
}

func failureMessage(base string, err error) string {
	if appError := apperr.As(err); appError != nil && len(appError.Details) > 0 {
		return base + ": " + appError.Details[0].Message
	}
	return base
}
