// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package control

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ascinsa/pms/internal/platform/database/schema"
	"github.com/ascinsa/pms/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on pms_internal_controls.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// selectColumns reads nullable text columns as empty strings.
var selectColumns = func() string {
	table := schema.InternalControl
	text := func(column string) string { return fmt.Sprintf("COALESCE(%s, '')", column) }

	return strings.Join([]string{
		table.ID, table.Requirement, text(table.Classifier), text(table.Subclassifier), table.Quantity,
		text(table.Location), text(table.Floor), text(table.Detail), text(table.Priority), text(table.Area),
		text(table.Applicant), text(table.ResponsibleTI), table.ApproximateEndDate, table.ProgressPercentage,
		text(table.Observations), text(table.Iframe), table.CreatedAt, table.UpdatedAt,
	}, ", ")
}()

func scanControl(row pgx.Row) (*Control, error) {
	control := &Control{}
	err := row.Scan(
		&control.ID, &control.Requirement, &control.Classifier, &control.Subclassifier, &control.Quantity,
		&control.Location, &control.Floor, &control.Detail, &control.Priority, &control.Area,
		&control.Applicant, &control.ResponsibleTI, &control.ApproximateEndDate, &control.ProgressPercentage,
		&control.Observations, &control.Iframe, &control.CreatedAt, &control.UpdatedAt,
	)
	return control, err
}

// writableValues returns the bind values in [schema.InternalControlTable.Writable] order.
// Empty optional text is stored as NULL.
func writableValues(control *Control) []any {
	return []any{
		control.Requirement, nullable(control.Classifier), nullable(control.Subclassifier), control.Quantity,
		nullable(control.Location), nullable(control.Floor), nullable(control.Detail), nullable(control.Priority),
		nullable(control.Area), nullable(control.Applicant), nullable(control.ResponsibleTI),
		control.ApproximateEndDate, control.ProgressPercentage, nullable(control.Observations),
		nullable(control.Iframe),
	}
}

func nullable(value string) any {
	if value == "" {
		return nil
	}
	return value
}

/*
List returns every item, newest id first.
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Control, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC`,
		selectColumns, schema.InternalControl.Table, schema.InternalControl.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_controls")
	}
	defer rows.Close()

	var controls []*Control
	for rows.Next() {
		control, err := scanControl(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "list_controls")
		}
		controls = append(controls, control)
	}
	return controls, dberr.Wrap(rows.Err(), "list_controls")
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Control, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.InternalControl.Table, schema.InternalControl.ID,
	)

	control, err := scanControl(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_control")
	}
	return control, nil
}

func (repository *PostgresRepository) Create(context context.Context, control *Control) error {
	columns := schema.InternalControl.Writable()
	placeholders := make([]string, len(columns))
	for index := range columns {
		placeholders[index] = fmt.Sprintf("$%d", index+1)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES (%s)
		RETURNING %s, %s, %s
	`,
		schema.InternalControl.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
		schema.InternalControl.ID, schema.InternalControl.CreatedAt, schema.InternalControl.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query, writableValues(control)...).
		Scan(&control.ID, &control.CreatedAt, &control.UpdatedAt)
	return dberr.Wrap(err, "create_control")
}

func (repository *PostgresRepository) Update(context context.Context, control *Control) error {
	columns := schema.InternalControl.Writable()
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
		schema.InternalControl.Table, strings.Join(assignments, ", "), schema.InternalControl.UpdatedAt,
		schema.InternalControl.ID,
		schema.InternalControl.UpdatedAt,
	)

	args := append([]any{control.ID}, writableValues(control)...)
	err := repository.db.QueryRow(context, query, args...).Scan(&control.UpdatedAt)
	return dberr.Wrap(err, "update_control")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.InternalControl.Table, schema.InternalControl.ID,
	)

	command, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_control")
	}
	if command.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_control")
	}
	return nil
}
