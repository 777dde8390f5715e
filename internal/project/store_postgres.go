// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ascinsa/pms/internal/platform/database/schema"
	"github.com/ascinsa/pms/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on pms_projects and its child
// tables. Responsible lists are stored as TEXT[].
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// projectColumns reads nullable text columns as empty strings.
var projectColumns = func() string {
	table := schema.Project
	text := func(column string) string { return fmt.Sprintf("COALESCE(%s, '')", column) }

	return strings.Join([]string{
		table.ID, table.Category, table.Title, text(table.Detail), text(table.Risk), text(table.Consequence),
		text(table.Classifier), text(table.Subclassifier), text(table.Location), text(table.Floor),
		text(table.Priority), text(table.Area), text(table.Applicant), table.Responsible, table.Status,
		table.StartDate, table.EndDate, table.DueDate, table.ProgressPercentage, table.Prod,
		text(table.Observations), table.CreatedAt, table.UpdatedAt,
	}, ", ")
}()

func scanProject(row pgx.Row) (*Project, error) {
	project := &Project{}
	err := row.Scan(
		&project.ID, &project.Category, &project.Title, &project.Detail, &project.Risk, &project.Consequence,
		&project.Classifier, &project.Subclassifier, &project.Location, &project.Floor,
		&project.Priority, &project.Area, &project.Applicant, &project.Responsible, &project.Status,
		&project.StartDate, &project.EndDate, &project.DueDate, &project.ProgressPercentage, &project.Prod,
		&project.Observations, &project.CreatedAt, &project.UpdatedAt,
	)
	return project, err
}

// projectValues returns the bind values in [schema.ProjectTable.Writable] order.
// Empty optional text is stored as NULL.
func projectValues(project *Project) []any {
	responsible := project.Responsible
	if responsible == nil {
		responsible = []string{}
	}
	return []any{
		project.Category, project.Title, nullable(project.Detail), nullable(project.Risk),
		nullable(project.Consequence), nullable(project.Classifier), nullable(project.Subclassifier),
		nullable(project.Location), nullable(project.Floor), nullable(project.Priority), nullable(project.Area),
		nullable(project.Applicant), responsible, project.Status,
		project.StartDate, project.EndDate, project.DueDate, project.ProgressPercentage, project.Prod,
		nullable(project.Observations),
	}
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func (repository *PostgresRepository) queryProjects(context context.Context, action, query string, args ...any) ([]*Project, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		projects = append(projects, project)
	}
	return projects, dberr.Wrap(rows.Err(), action)
}

func (repository *PostgresRepository) List(context context.Context, category string) ([]*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		projectColumns, schema.Project.Table, schema.Project.Category, schema.Project.ID,
	)
	return repository.queryProjects(context, "list_projects", query, category)
}

func (repository *PostgresRepository) ListAll(context context.Context) ([]*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s`,
		projectColumns, schema.Project.Table, schema.Project.ID,
	)
	return repository.queryProjects(context, "list_all_projects", query)
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Project, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		projectColumns, schema.Project.Table, schema.Project.ID,
	)

	project, err := scanProject(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_project")
	}
	return project, nil
}

func (repository *PostgresRepository) Create(context context.Context, project *Project) error {
	columns := schema.Project.Writable()
	placeholders := make([]string, len(columns))
	for index := range columns {
		placeholders[index] = fmt.Sprintf("$%d", index+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		RETURNING %s, %s, %s
	`,
		schema.Project.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		schema.Project.ID, schema.Project.CreatedAt, schema.Project.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, projectValues(project)...).
		Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	return dberr.Wrap(err, "create_project")
}

func (repository *PostgresRepository) Update(context context.Context, project *Project) error {
	columns := schema.Project.Writable()
	assignments := make([]string, len(columns))
	for index, column := range columns {
		assignments[index] = fmt.Sprintf("%s = $%d", column, index+2)
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s, %s = NOW()
		WHERE %s = $1
		RETURNING %s
	`,
		schema.Project.Table, strings.Join(assignments, ", "), schema.Project.UpdatedAt,
		schema.Project.ID,
		schema.Project.UpdatedAt,
	)

	args := append([]any{project.ID}, projectValues(project)...)
	err := repository.db.QueryRow(context, query, args...).Scan(&project.UpdatedAt)
	return dberr.Wrap(err, "update_project")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Project.Table, schema.Project.ID)
	return repository.exec(context, "delete_project", query, id)
}

// exec runs a single-row mutation and reports zero affected rows as NOT_FOUND.
func (repository *PostgresRepository) exec(context context.Context, action, query string, args ...any) error {
	command, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, action)
	}
	if command.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, action)
	}
	return nil
}
