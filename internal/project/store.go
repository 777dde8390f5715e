// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import "context"

// Repository persists projects and everything hanging from them. Every
// FindX and DeleteX returns apperr NOT_FOUND for a missing row.
type Repository interface {
	// List returns the projects of one category, newest id first.
	List(context context.Context, category string) ([]*Project, error)

	// ListAll returns every project, for the dashboard.
	ListAll(context context.Context) ([]*Project, error)

	FindByID(context context.Context, id int64) (*Project, error)

	// Create sets the generated ID and timestamps on project.
	Create(context context.Context, project *Project) error

	// Update rewrites every writable column of project.ID.
	Update(context context.Context, project *Project) error

	// Delete removes the project with its tasks, hours and comments.
	Delete(context context.Context, id int64) error

	// # Tasks

	ListTasks(context context.Context, projectID int64) ([]*Task, error)
	FindTask(context context.Context, projectID, taskID int64) (*Task, error)
	CreateTask(context context.Context, task *Task) error

	// UpdateTask rewrites priority, status, responsibles and due date.
	UpdateTask(context context.Context, task *Task) error

	DeleteTask(context context.Context, projectID, taskID int64) error

	// # Task Hours

	// ListTaskHours returns the hours of a task, latest start first.
	ListTaskHours(context context.Context, taskID int64) ([]*TaskHour, error)
	CreateTaskHour(context context.Context, hour *TaskHour) error

	// # Comments

	// ListComments returns a project thread, oldest first.
	ListComments(context context.Context, projectID int64) ([]*Comment, error)
	FindComment(context context.Context, id int64) (*Comment, error)
	CreateComment(context context.Context, comment *Comment) error
	DeleteComment(context context.Context, id int64) error
}
