// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/validate"
)

// # Tasks

// GetTask loads a task of a project of the given category.
func (service *Service) GetTask(context context.Context, category string, projectID, taskID int64) (*Task, error) {
	if _, err := service.Get(context, category, projectID); err != nil {
		return nil, err
	}

	task, err := service.repo.FindTask(context, projectID, taskID)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound(MessageTaskNotFound)
	}
	return task, err
}

// BlankTaskInput is the create form preset.
func BlankTaskInput() TaskInput {
	return TaskInput{Priority: TaskPriorities[1], Status: TaskStatusPending}
}

// TaskInputOf returns the form values of an existing task.
func TaskInputOf(task *Task) TaskInput {
	return TaskInput{
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     formatDate(task.DueDate),
		Responsible: append([]string(nil), task.Responsible...),
	}
}

// CreateTask adds a pending task to a project.
func (service *Service) CreateTask(context context.Context, identity *sec.Identity, category string, projectID int64, input TaskInput) (*Task, error) {
	if _, err := service.Get(context, category, projectID); err != nil {
		return nil, err
	}

	input = trimTaskInput(input)
	dueDate, badDue := parseDate(input.DueDate)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 255).
		OneOf(FieldPriority, input.Priority, TaskPriorities...).
		Custom(FieldDueDate, badDue, "Fecha inválida")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	task := &Task{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      TaskStatusPending,
		Responsible: input.Responsible,
		DueDate:     dueDate,
	}

	if err := service.repo.CreateTask(context, task); err != nil {
		return nil, err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("creó una nueva tarea %q", task.Title),
		fmt.Sprintf("ID del proyecto: %d", projectID),
	)

	service.logger.InfoContext(context, "task_created",
		slog.Int64("project_id", projectID),
		slog.Int64("task_id", task.ID),
	)
	return task, nil
}

/*
UpdateTask changes priority, status, responsibles and due date; title and
description are fixed at creation. The audit entry lists one line per change
and is skipped when nothing changed.
*/
func (service *Service) UpdateTask(context context.Context, identity *sec.Identity, category string, projectID, taskID int64, input TaskInput) (*Task, error) {
	old, err := service.GetTask(context, category, projectID, taskID)
	if err != nil {
		return nil, err
	}

	input = trimTaskInput(input)
	dueDate, badDue := parseDate(input.DueDate)

	validator := &validate.Validator{}
	validator.OneOf(FieldPriority, input.Priority, TaskPriorities...).
		OneOf(FieldStatus, input.Status, TaskStatuses...).
		Custom(FieldDueDate, badDue, "Fecha inválida")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	updated := *old
	updated.Priority = input.Priority
	updated.Status = input.Status
	updated.Responsible = input.Responsible
	updated.DueDate = dueDate

	changes := taskDiff(old, &updated)

	if err := service.repo.UpdateTask(context, &updated); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(MessageTaskNotFound)
		}
		return nil, err
	}

	if len(changes) > 0 {
		service.recorder.Record(context, identity.ActorLabel(),
			fmt.Sprintf("editó tarea ID %d", taskID),
			strings.Join(changes, "\n"),
		)
	}

	service.logger.InfoContext(context, "task_updated", slog.Int64("task_id", taskID), slog.Int("changes", len(changes)))
	return &updated, nil
}

// DeleteTask removes a task with its logged hours.
func (service *Service) DeleteTask(context context.Context, identity *sec.Identity, category string, projectID, taskID int64) error {
	old, err := service.GetTask(context, category, projectID, taskID)
	if err != nil {
		return err
	}

	if err := service.repo.DeleteTask(context, projectID, taskID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound(MessageTaskNotFound)
		}
		return err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("eliminó tarea %q", old.Title),
		fmt.Sprintf("ID de la tarea: %d", taskID),
	)

	service.logger.WarnContext(context, "task_deleted", slog.Int64("task_id", taskID))
	return nil
}

// # Task Hours

func (service *Service) TaskHours(context context.Context, category string, projectID, taskID int64) ([]*TaskHour, error) {
	if _, err := service.GetTask(context, category, projectID, taskID); err != nil {
		return nil, err
	}
	return service.repo.ListTaskHours(context, taskID)
}

/*
AddTaskHour logs a span of work by identity against a task. The span is
measured in hours rounded to two decimals. The route records the audit entry.
*/
func (service *Service) AddTaskHour(context context.Context, identity *sec.Identity, category string, projectID, taskID int64, input HourInput) (*TaskHour, error) {
	if _, err := service.GetTask(context, category, projectID, taskID); err != nil {
		return nil, err
	}

	start, badStart := parseInstant(input.HourStart)
	end, badEnd := parseInstant(input.HourEnd)

	validator := &validate.Validator{}
	validator.Required(FieldHourStart, input.HourStart).
		Required(FieldHourEnd, input.HourEnd).
		Custom(FieldHourStart, badStart, "Fecha inválida").
		Custom(FieldHourEnd, badEnd, "Fecha inválida")
	if !badStart && !badEnd {
		validator.NotBefore(FieldHourEnd, end, start)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hour := &TaskHour{
		TaskID:     taskID,
		UserCode:   identity.UserCode,
		HourStart:  start,
		HourEnd:    end,
		HoursTaken: math.Round(end.Sub(start).Hours()*100) / 100,
	}

	if err := service.repo.CreateTaskHour(context, hour); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "task_hour_created",
		slog.Int64("task_id", taskID),
		slog.String("user_code", hour.UserCode),
	)
	return hour, nil
}

// # Comments

// AddComment appends a comment by identity to a project thread.
func (service *Service) AddComment(context context.Context, identity *sec.Identity, category string, projectID int64, body string) (*Comment, error) {
	if _, err := service.Get(context, category, projectID); err != nil {
		return nil, err
	}

	body = strings.TrimSpace(body)
	validator := &validate.Validator{}
	if err := validator.Required(FieldComment, body).Err(); err != nil {
		return nil, err
	}

	comment := &Comment{ProjectID: projectID, UserCode: identity.UserCode, Body: body}
	if err := service.repo.CreateComment(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("project_id", projectID),
		slog.Int64("comment_id", comment.ID),
	)
	return comment, nil
}

// CommentAuthor returns the author code of a comment. It backs the ownership
// guard.
func (service *Service) CommentAuthor(context context.Context, id int64) (string, error) {
	comment, err := service.repo.FindComment(context, id)
	if err != nil {
		return "", err
	}
	return comment.UserCode, nil
}

// DeleteComment removes a comment of a project thread.
func (service *Service) DeleteComment(context context.Context, identity *sec.Identity, category string, projectID, commentID int64) error {
	if _, err := service.Get(context, category, projectID); err != nil {
		return err
	}

	comment, err := service.repo.FindComment(context, commentID)
	if apperr.IsNotFound(err) || (err == nil && comment.ProjectID != projectID) {
		return apperr.NotFound(MessageCommentNotFound)
	}
	if err != nil {
		return err
	}

	if err := service.repo.DeleteComment(context, commentID); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound(MessageCommentNotFound)
		}
		return err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("eliminó comentario ID %d", commentID),
		fmt.Sprintf("ID del proyecto: %d", projectID),
	)

	service.logger.WarnContext(context, "comment_deleted", slog.Int64("comment_id", commentID))
	return nil
}

// # Helpers

func trimTaskInput(input TaskInput) TaskInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Priority = strings.TrimSpace(input.Priority)
	input.Status = strings.TrimSpace(input.Status)
	input.DueDate = strings.TrimSpace(input.DueDate)
	input.Responsible = compact(input.Responsible)
	if input.Priority == "" {
		input.Priority = TaskPriorities[1]
	}
	return input
}

// parseInstant accepts RFC 3339 or a datetime-local value.
func parseInstant(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, validate.FormDateTime} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, false
		}
	}
	return time.Time{}, true
}

func taskDiff(old, updated *Task) []string {
	var changes []string

	if old.Priority != updated.Priority {
		changes = append(changes, fmt.Sprintf("Prioridad de %s a %s", old.Priority, updated.Priority))
	}
	if old.Status != updated.Status {
		changes = append(changes, fmt.Sprintf("Estado de %q a %q", old.Status, updated.Status))
	}
	if !sameCodes(old.Responsible, updated.Responsible) {
		changes = append(changes, "Responsables actualizados")
	}
	if before, after := formatDate(old.DueDate), formatDate(updated.DueDate); before != after {
		changes = append(changes, fmt.Sprintf("Fecha de vencimiento de %q a %q", before, after))
	}

	return changes
}
