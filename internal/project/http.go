// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

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

// PathIndex is the category index and the fallback of every guard.
const PathIndex = "/projects"

// Handler serves the project pages.
type Handler struct {
	service  *Service
	renderer *view.Renderer

	// audit builds the middleware recording a named action with the request
	// body; nil disables it.
	audit func(action string) func(http.Handler) http.Handler

	// override lets admins delete comments of others.
	override middleware.OwnerOverride
}

func NewHandler(service *Service, renderer *view.Renderer, audit func(action string) func(http.Handler) http.Handler, override middleware.OwnerOverride) *Handler {
	return &Handler{service: service, renderer: renderer, audit: audit, override: override}
}

// RegisterRoutes mounts the pages under /projects.
//
// # Endpoints
//   - GET  /                                          : Category index.
//   - GET  /{category}                                : List.
//   - GET  /{category}/create                         : Create form (admins).
//   - POST /{category}/create                         : Create (admins).
//   - GET  /{category}/{id}                           : Detail.
//   - GET  /{category}/{id}/edit                      : Edit form (admins).
//   - POST /{category}/{id}/edit                      : Update (admins).
//   - POST /{category}/{id}/delete                    : Delete (admins).
//   - POST /{category}/{id}/comments                  : Comment (writers).
//   - POST /{category}/{id}/comments/{commentId}/delete : Delete comment (author or admin).
//   - GET  /{category}/{id}/tasks/create              : Task form (staff).
//   - POST /{category}/{id}/tasks/create              : Create task (staff).
//   - GET  /{category}/{id}/tasks/{taskId}/edit       : Task edit form (staff).
//   - POST /{category}/{id}/tasks/{taskId}/edit       : Update task (staff).
//   - POST /{category}/{id}/tasks/{taskId}/delete     : Delete task (staff).
//   - POST /{category}/{id}/tasks/{taskId}/hours      : Log task hours, JSON (staff).
//   - GET  /{category}/{id}/tasks/{taskId}/hours/json : Task hours, JSON.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.index)

	router.Route("/{category}", func(category chi.Router) {
		category.Use(requireCategory)

		category.Get("/", handler.list)
		category.Get("/{id}", handler.detail)
		category.Get("/{id}/tasks/{taskId}/hours/json", handler.taskHours)

		category.Group(func(admins chi.Router) {
			admins.Use(middleware.RequireAdmin(PathIndex))

			admins.Get("/create", handler.showCreate)
			admins.Post("/create", handler.create)
			admins.Get("/{id}/edit", handler.showEdit)
			admins.Post("/{id}/edit", handler.update)
			admins.Post("/{id}/delete", handler.delete)
		})

		category.Group(func(writers chi.Router) {
			writers.Use(middleware.RequireWriter(PathIndex))

			handler.audited(writers, "add_comment").Post("/{id}/comments", handler.addComment)
			writers.With(middleware.RequireOwnerOf("commentId", handler.service.CommentAuthor, handler.override, PathIndex)).
				Post("/{id}/comments/{commentId}/delete", handler.deleteComment)
		})

		category.Group(func(staff chi.Router) {
			staff.Use(middleware.RequireStaff(PathIndex))

			staff.Get("/{id}/tasks/create", handler.showCreateTask)
			staff.Post("/{id}/tasks/create", handler.createTask)
			staff.Get("/{id}/tasks/{taskId}/edit", handler.showEditTask)
			staff.Post("/{id}/tasks/{taskId}/edit", handler.updateTask)
			staff.Post("/{id}/tasks/{taskId}/delete", handler.deleteTask)
			handler.audited(staff, "add_task_hour").Post("/{id}/tasks/{taskId}/hours", handler.addTaskHour)
		})
	})
}

func (handler *Handler) audited(router chi.Router, action string) chi.Router {
	if handler.audit == nil {
		return router
	}
	return router.With(handler.audit(action))
}

// requireCategory answers 404 for an unknown category slug.
func requireCategory(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, ok := LookupCategory(chi.URLParam(request, "category")); !ok {
			respond.Text(writer, http.StatusNotFound, MessageCategoryNotFound)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func (handler *Handler) index(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, view.PageProjectIndex, view.Data{
		"Title":      "Proyectos",
		"Categories": Categories,
	})
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)

	projects, err := handler.service.List(request.Context(), category.Slug)
	if err != nil {
		respond.ServerError(writer, request, err, "Error al cargar los proyectos")
		return
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageProjectList, view.Data{
		"Title":    category.Title,
		"Category": category,
		"Projects": projects,
	})
}

func (handler *Handler) detail(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, listPath(category), MessageNotFound)
		return
	}

	detail, err := handler.service.Detail(request.Context(), category.Slug, id)
	if err != nil {
		handler.loadFailed(writer, request, category, id, err, "Error al cargar el proyecto")
		return
	}

	_, responsibles, err := handler.service.People(request.Context())
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "project_people_unavailable", slog.String("error", err.Error()))
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageProjectDetail, view.Data{
		"Title":        detail.Project.Title,
		"Category":     category,
		"Detail":       detail,
		"Options":      FormOptions(),
		"Responsibles": responsibles,
	})
}

func (handler *Handler) showCreate(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	handler.renderForm(writer, request, category, "Crear Proyecto", listPath(category)+"/create", BlankInput(), false)
}

func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)

	input, err := formInput(request)
	if err == nil {
		_, err = handler.service.Create(request.Context(), requestutil.Identity(request), category.Slug, input)
	}
	if err != nil {
		handler.fail(writer, request, listPath(category)+"/create", failureMessage("Error al crear el proyecto", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Proyecto creado correctamente")
	respond.Redirect(writer, request, listPath(category))
}

func (handler *Handler) showEdit(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	project, ok := handler.load(writer, request, category)
	if !ok {
		return
	}

	handler.renderForm(writer, request, category, "Editar Proyecto", projectPath(category, project.ID)+"/edit", InputOf(project), true)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, listPath(category), MessageNotFound)
		return
	}

	input, err := formInput(request)
	if err == nil {
		_, err = handler.service.Update(request.Context(), requestutil.Identity(request), category.Slug, id, input)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.fail(writer, request, listPath(category), MessageNotFound)
			return
		}
		handler.fail(writer, request, projectPath(category, id)+"/edit", failureMessage("Error al actualizar el proyecto", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Proyecto actualizado correctamente")
	respond.Redirect(writer, request, projectPath(category, id))
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, err := requestutil.ID(request, "id")
	if err == nil {
		err = handler.service.Delete(request.Context(), requestutil.Identity(request), category.Slug, id)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.fail(writer, request, listPath(category), MessageNotFound)
			return
		}
		handler.fail(writer, request, listPath(category), "Error al eliminar el proyecto")
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, fmt.Sprintf("Proyecto #%d eliminado correctamente", id))
	respond.Redirect(writer, request, listPath(category))
}

// # Comments

func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, listPath(category), MessageNotFound)
		return
	}

	form, err := requestutil.Form(request)
	if err == nil {
		_, err = handler.service.AddComment(request.Context(), requestutil.Identity(request), category.Slug, id, requestutil.Value(form, FieldComment))
	}
	if err != nil {
		switch {
		case apperr.IsNotFound(err):
			handler.fail(writer, request, listPath(category), MessageNotFound)
		case isValidation(err):
			handler.fail(writer, request, projectPath(category, id), "No se pudo enviar el comentario.")
		default:
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "comment_create_failed",
				slog.Int64("project_id", id),
				slog.Any("error", err),
			)
			handler.fail(writer, request, projectPath(category, id), "Error al guardar el comentario.")
		}
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Comentario agregado correctamente.")
	respond.Redirect(writer, request, projectPath(category, id))
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, listPath(category), MessageNotFound)
		return
	}

	commentID, err := requestutil.ID(request, "commentId")
	if err == nil {
		err = handler.service.DeleteComment(request.Context(), requestutil.Identity(request), category.Slug, id, commentID)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.fail(writer, request, projectPath(category, id), MessageCommentNotFound)
			return
		}
		handler.fail(writer, request, projectPath(category, id), "Error al eliminar el comentario")
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Comentario eliminado correctamente")
	respond.Redirect(writer, request, projectPath(category, id))
}

// # Helpers

// load fetches the project named by the URL. Failures flash and redirect to
// the category list.
func (handler *Handler) load(writer http.ResponseWriter, request *http.Request, category Category) (*Project, bool) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, listPath(category), MessageNotFound)
		return nil, false
	}

	project, err := handler.service.Get(request.Context(), category.Slug, id)
	if err != nil {
		handler.loadFailed(writer, request, category, id, err, "Error al cargar el proyecto")
		return nil, false
	}
	return project, true
}

func (handler *Handler) loadFailed(writer http.ResponseWriter, request *http.Request, category Category, id int64, err error, failure string) {
	message := failure
	if apperr.IsNotFound(err) {
		message = MessageNotFound
	} else {
		ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "project_load_failed",
			slog.Int64("project_id", id),
			slog.Any("error", err),
		)
	}
	handler.fail(writer, request, listPath(category), message)
}

func (handler *Handler) renderForm(writer http.ResponseWriter, request *http.Request, category Category, title, action string, values Input, editing bool) {
	applicants, responsibles, err := handler.service.People(request.Context())
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "project_people_unavailable", slog.String("error", err.Error()))
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageProjectForm, view.Data{
		"Title":        title,
		"Action":       action,
		"Category":     category,
		"Editing":      editing,
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

// categoryOf returns the category of the URL, already checked by
// requireCategory.
func categoryOf(request *http.Request) Category {
	category, _ := LookupCategory(chi.URLParam(request, "category"))
	return category
}

func listPath(category Category) string {
	return PathIndex + "/" + category.Slug
}

func projectPath(category Category, id int64) string {
	return fmt.Sprintf("%s/%d", listPath(category), id)
}

func formInput(request *http.Request) (Input, error) {
	form, err := requestutil.Form(request)
	if err != nil {
		return Input{}, err
	}

	return Input{
		Title:              requestutil.Value(form, FieldTitle),
		Detail:             requestutil.Value(form, FieldDetail),
		Risk:               requestutil.Value(form, FieldRisk),
		Consequence:        requestutil.Value(form, FieldConsequence),
		Classifier:         requestutil.Value(form, FieldClassifier),
		Subclassifier:      requestutil.Value(form, FieldSubclassifier),
		Location:           requestutil.Value(form, FieldLocation),
		Floor:              requestutil.Value(form, FieldFloor),
		Priority:           requestutil.Value(form, FieldPriority),
		Area:               requestutil.Value(form, FieldArea),
		Applicant:          requestutil.Value(form, FieldApplicant),
		Responsible:        form[FieldResponsible],
		Status:             requestutil.Value(form, FieldStatus),
		StartDate:          requestutil.Value(form, FieldStartDate),
		EndDate:            requestutil.Value(form, FieldEndDate),
		DueDate:            requestutil.Value(form, FieldDueDate),
		ProgressPercentage: requestutil.Value(form, FieldProgressPercentage),
		Prod:               requestutil.Value(form, FieldProd),
		Observations:       requestutil.Value(form, FieldObservations),
	}, nil
}

func failureMessage(base string, err error) string {
	if appError := apperr.As(err); appError != nil && len(appError.Details) > 0 {
		return base + ": " + appError.Details[0].Message
	}
	return base
}

func isValidation(err error) bool {
	appError := apperr.As(err)
	return appError != nil && appError.HTTPStatus == http.StatusBadRequest
}
