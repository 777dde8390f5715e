// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/session"
	"github.com/ascinsa/pms/internal/platform/view"
)

// # Task Pages

func (handler *Handler) showCreateTask(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	project, ok := handler.load(writer, request, category)
	if !ok {
		return
	}

	handler.renderTaskForm(writer, request, category, project, "Crear Tarea",
		projectPath(category, project.ID)+"/tasks/create", BlankTaskInput(), false)
}

func (handler *Handler) createTask(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, listPath(category), MessageNotFound)
		return
	}

	input, err := taskFormInput(request)
	if err == nil {
		_, err = handler.service.CreateTask(request.Context(), requestutil.Identity(request), category.Slug, id, input)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.fail(writer, request, listPath(category), MessageNotFound)
			return
		}
		handler.fail(writer, request, projectPath(category, id)+"/tasks/create", failureMessage("Error al crear la tarea", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Tarea creada correctamente")
	respond.Redirect(writer, request, projectPath(category, id))
}

func (handler *Handler) showEditTask(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	project, ok := handler.load(writer, request, category)
	if !ok {
		return
	}

	taskID, err := requestutil.ID(request, "taskId")
	var task *Task
	if err == nil {
		task, err = handler.service.GetTask(request.Context(), category.Slug, project.ID, taskID)
	}
	if err != nil {
		handler.taskFailed(writer, request, category, project.ID, err, "Error al cargar la tarea")
		return
	}

	handler.renderTaskForm(writer, request, category, project, "Editar Tarea",
		fmt.Sprintf("%s/tasks/%d/edit", projectPath(category, project.ID), task.ID), TaskInputOf(task), true)
}

func (handler *Handler) updateTask(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, taskID, ok := handler.taskIDs(writer, request, category)
	if !ok {
		return
	}

	input, err := taskFormInput(request)
	if err == nil {
		_, err = handler.service.UpdateTask(request.Context(), requestutil.Identity(request), category.Slug, id, taskID, input)
	}
	if err != nil {
		if apperr.IsNotFound(err) {
			handler.taskFailed(writer, request, category, id, err, "")
			return
		}
		handler.fail(writer, request, fmt.Sprintf("%s/tasks/%d/edit", projectPath(category, id), taskID),
			failureMessage("Error al actualizar la tarea", err))
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, "Tarea actualizada correctamente")
	respond.Redirect(writer, request, projectPath(category, id))
}

func (handler *Handler) deleteTask(writer http.ResponseWriter, request *http.Request) {
	category := categoryOf(request)
	id, taskID, ok := handler.taskIDs(writer, request, category)
	if !ok {
		return
	}

	if err := handler.service.DeleteTask(request.Context(), requestutil.Identity(request), category.Slug, id, taskID); err != nil {
		handler.taskFailed(writer, request, category, id, err, "Error al eliminar la tarea")
		return
	}

	session.Flash(request.Context(), constants.FlashSuccess, fmt.Sprintf("Tarea #%d eliminada correctamente", taskID))
	respond.Redirect(writer, request, projectPath(category, id))
}

// # Task Hours

/*
AddTaskHour logs a span of work by the caller.

POST /projects/{category}/{id}/tasks/{taskId}/hours

Request:
  - Body: HourInput

Response:
  - 200: {"success": true}
  - 400: Validation failure
  - 404: Unknown project or task
*/
func (handler *Handler) addTaskHour(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, apperr.NotFound(MessageNotFound))
		return
	}
	taskID, err := requestutil.ID(request, "taskId")
	if err != nil {
		respond.Error(writer, request, apperr.NotFound(MessageTaskNotFound))
		return
	}

	var input HourInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if _, err := handler.service.AddTaskHour(request.Context(), identity, categoryOf(request).Slug, id, taskID, input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.JSON(writer, http.StatusOK, map[string]bool{"success": true})
}

/*
TaskHours lists the hours logged against a task, latest first.

GET /projects/{category}/{id}/tasks/{taskId}/hours/json

Response:
  - 200: []TaskHour
  - 404: Unknown project or task
*/
func (handler *Handler) taskHours(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, apperr.NotFound(MessageNotFound))
		return
	}
	taskID, err := requestutil.ID(request, "taskId")
	if err != nil {
		respond.Error(writer, request, apperr.NotFound(MessageTaskNotFound))
		return
	}

	hours, err := handler.service.TaskHours(request.Context(), categoryOf(request).Slug, id, taskID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	if hours == nil {
		hours = []*TaskHour{}
	}
	respond.OK(writer, hours)
}

// # Helpers

func (handler *Handler) taskIDs(writer http.ResponseWriter, request *http.Request, category Category) (int64, int64, bool) {
	id, err := requestutil.ID(request, "id")
	if err != nil {
		handler.fail(writer, request, listPath(category), MessageNotFound)
		return 0, 0, false
	}
	taskID, err := requestutil.ID(request, "taskId")
	if err != nil {
		handler.fail(writer, request, projectPath(category, id), MessageTaskNotFound)
		return 0, 0, false
	}
	return id, taskID, true
}

// taskFailed flashes the failure of a task route. A missing project goes back
// to the list, a missing task to its project.
func (handler *Handler) taskFailed(writer http.ResponseWriter, request *http.Request, category Category, id int64, err error, failure string) {
	appError := apperr.As(err)
	switch {
	case appError != nil && appError.Message == MessageTaskNotFound:
		handler.fail(writer, request, projectPath(category, id), MessageTaskNotFound)
	case apperr.IsNotFound(err):
		handler.fail(writer, request, listPath(category), appError.Message)
	default:
		handler.fail(writer, request, projectPath(category, id), failure)
	}
}

func (handler *Handler) renderTaskForm(writer http.ResponseWriter, request *http.Request, category Category, project *Project, title, action string, values TaskInput, editing bool) {
	_, responsibles, err := handler.service.People(request.Context())
	if err != nil {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "project_people_unavailable", slog.String("error", err.Error()))
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageProjectTaskForm, view.Data{
		"Title":        title,
		"Action":       action,
		"Category":     category,
		"Project":      project,
		"Editing":      editing,
		"Values":       values,
		"Options":      FormOptions(),
		"Responsibles": responsibles,
	})
}

func taskFormInput(request *http.Request) (TaskInput, error) {
	form, err := requestutil.Form(request)
	if err != nil {
		return TaskInput{}, err
	}

	return TaskInput{
		Title:       requestutil.Value(form, FieldTitle),
		Description: requestutil.Value(form, FieldDescription),
		Priority:    requestutil.Value(form, FieldPriority),
		Status:      requestutil.Value(form, FieldStatus),
		DueDate:     requestutil.Value(form, FieldDueDate),
		Responsible: form[FieldResponsible],
	}, nil
}
