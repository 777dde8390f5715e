// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/ascinsa/pms/internal/platform/database/schema"
	"github.com/ascinsa/pms/internal/platform/dberr"
)

// # Tasks

var taskColumns = strings.Join(schema.Task.Columns(), ", ")

func scanTask(row pgx.Row) (*Task, error) {
	task := &Task{}
	err := row.Scan(
		&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.Priority, &task.Status,
		&task.Responsible, &task.DueDate, &task.CreatedAt, &task.UpdatedAt,
	)
	return task, err
}

func responsibleOf(codes []string) []string {
	if codes == nil {
		return []string{}
	}
	return codes
}

func (repository *PostgresRepository) ListTasks(context context.Context, projectID int64) ([]*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		taskColumns, schema.Task.Table, schema.Task.ProjectID, schema.Task.ID,
	)

	rows, err := repository.db.Query(context, query, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_tasks")
	}
	defer rows.Close()

	var tasks []*Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "list_tasks")
		}
		tasks = append(tasks, task)
	}
	return tasks, dberr.Wrap(rows.Err(), "list_tasks")
}

func (repository *PostgresRepository) FindTask(context context.Context, projectID, taskID int64) (*Task, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2`,
		taskColumns, schema.Task.Table, schema.Task.ID, schema.Task.ProjectID,
	)

	task, err := scanTask(repository.db.QueryRow(context, query, taskID, projectID))
	if err != nil {
		return nil, dberr.Wrap(err, "find_task")
	}
	return task, nil
}

func (repository *PostgresRepository) CreateTask(context context.Context, task *Task) error {
	table := schema.Task
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s, %s
	`,
		table.Table, table.ProjectID, table.Title, table.Description, table.Priority, table.Status,
		table.Responsible, table.DueDate,
		table.ID, table.CreatedAt, table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		task.ProjectID, task.Title, task.Description, task.Priority, task.Status,
		responsibleOf(task.Responsible), task.DueDate,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	return dberr.Wrap(err, "create_task")
}

func (repository *PostgresRepository) UpdateTask(context context.Context, task *Task) error {
	table := schema.Task
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		table.Table,
		table.Priority, table.Status, table.Responsible, table.DueDate, table.UpdatedAt,
		table.ID, table.ProjectID,
		table.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		task.ID, task.ProjectID, task.Priority, task.Status, responsibleOf(task.Responsible), task.DueDate,
	).Scan(&task.UpdatedAt)
	return dberr.Wrap(err, "update_task")
}

func (repository *PostgresRepository) DeleteTask(context context.Context, projectID, taskID int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.Task.Table, schema.Task.ID, schema.Task.ProjectID,
	)
	return repository.exec(context, "delete_task", query, taskID, projectID)
}

// # Task Hours

func (repository *PostgresRepository) ListTaskHours(context context.Context, taskID int64) ([]*TaskHour, error) {
	table := schema.TaskHour
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
	`,
		table.ID, table.TaskID, table.UserCode, table.HourStart, table.HourEnd, table.HoursTaken,
		table.Table,
		table.TaskID,
		table.HourStart,
	)

	rows, err := repository.db.Query(context, query, taskID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_task_hours")
	}
	defer rows.Close()

	var hours []*TaskHour
	for rows.Next() {
		hour := &TaskHour{}
		if err := rows.Scan(&hour.ID, &hour.TaskID, &hour.UserCode, &hour.HourStart, &hour.HourEnd, &hour.HoursTaken); err != nil {
			return nil, dberr.Wrap(err, "list_task_hours")
		}
		hours = append(hours, hour)
	}
	return hours, dberr.Wrap(rows.Err(), "list_task_hours")
}

func (repository *PostgresRepository) CreateTaskHour(context context.Context, hour *TaskHour) error {
	table := schema.TaskHour
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING %s
	`,
		table.Table, table.TaskID, table.UserCode, table.HourStart, table.HourEnd, table.HoursTaken,
		table.ID,
	)

	err := repository.db.QueryRow(context, query,
		hour.TaskID, hour.UserCode, hour.HourStart, hour.HourEnd, hour.HoursTaken,
	).Scan(&hour.ID)
	return dberr.Wrap(err, "create_task_hour")
}

// # Comments

var commentColumns = strings.Join([]string{
	schema.ProjectComment.ID, schema.ProjectComment.ProjectID, schema.ProjectComment.UserCode,
	schema.ProjectComment.Comment, schema.ProjectComment.CreatedAt,
}, ", ")

func scanComment(row pgx.Row) (*Comment, error) {
	comment := &Comment{}
	err := row.Scan(&comment.ID, &comment.ProjectID, &comment.UserCode, &comment.Body, &comment.CreatedAt)
	return comment, err
}

func (repository *PostgresRepository) ListComments(context context.Context, projectID int64) ([]*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC, %s ASC`,
		commentColumns, schema.ProjectComment.Table, schema.ProjectComment.ProjectID,
		schema.ProjectComment.CreatedAt, schema.ProjectComment.ID,
	)

	rows, err := repository.db.Query(context, query, projectID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "list_comments")
		}
		comments = append(comments, comment)
	}
	return comments, dberr.Wrap(rows.Err(), "list_comments")
}

func (repository *PostgresRepository) FindComment(context context.Context, id int64) (*Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		commentColumns, schema.ProjectComment.Table, schema.ProjectComment.ID,
	)

	comment, err := scanComment(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_comment")
	}
	return comment, nil
}

func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	table := schema.ProjectComment
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`,
		table.Table, table.ProjectID, table.UserCode, table.Comment,
		table.ID, table.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, comment.ProjectID, comment.UserCode, comment.Body).
		Scan(&comment.ID, &comment.CreatedAt)
	return dberr.Wrap(err, "create_comment")
}

func (repository *PostgresRepository) DeleteComment(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ProjectComment.Table, schema.ProjectComment.ID)
	return repository.exec(context, "delete_comment", query, id)
}
