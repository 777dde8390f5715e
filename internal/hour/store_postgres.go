// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hour

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ascinsa/pms/internal/platform/database/schema"
	"github.com/ascinsa/pms/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on pms_hour_control.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var selectColumns = strings.Join(schema.HourControl.Columns(), ", ")

func scanHour(row pgx.Row) (*Hour, error) {
	hour := &Hour{}
	err := row.Scan(
		&hour.ID, &hour.UserCode, &hour.FullName, &hour.Title, &hour.TaskDescription,
		&hour.DateBegin, &hour.DateClosure, &hour.HoursWorked, &hour.RequestedBy,
		&hour.Extralaboral, &hour.Reason, &hour.ImagePath, &hour.CreatedAt, &hour.UpdatedAt,
	)
	return hour, err
}

func (repository *PostgresRepository) query(context context.Context, action, query string, args ...any) ([]*Hour, error) {
	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var hours []*Hour
	for rows.Next() {
		hour, err := scanHour(rows)
		if err != nil {
			return nil, dberr.Wrap(err, action)
		}
		hours = append(hours, hour)
	}
	return hours, dberr.Wrap(rows.Err(), action)
}

/*
List returns every record, latest start first.
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Hour, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC`,
		selectColumns, schema.HourControl.Table, schema.HourControl.DateBegin,
	)
	return repository.query(context, "list_hours", query)
}

/*
ListByOwner returns the records of one user code, latest start first.
*/
func (repository *PostgresRepository) ListByOwner(context context.Context, userCode string) ([]*Hour, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		selectColumns, schema.HourControl.Table, schema.HourControl.UserCode, schema.HourControl.DateBegin,
	)
	return repository.query(context, "list_hours_by_owner", query, userCode)
}

func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Hour, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		selectColumns, schema.HourControl.Table, schema.HourControl.ID,
	)

	hour, err := scanHour(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_hour")
	}
	return hour, nil
}

/*
OwnerOf returns the recorded owner code, the only input of the ownership guard.
*/
func (repository *PostgresRepository) OwnerOf(context context.Context, id int64) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.HourControl.UserCode, schema.HourControl.Table, schema.HourControl.ID,
	)

	var owner string
	if err := repository.db.QueryRow(context, query, id).Scan(&owner); err != nil {
		return "", dberr.Wrap(err, "hour_owner")
	}
	return owner, nil
}

func (repository *PostgresRepository) Create(context context.Context, hour *Hour) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING %s, %s, %s
	`,
		schema.HourControl.Table,
		schema.HourControl.UserCode, schema.HourControl.FullName, schema.HourControl.Title,
		schema.HourControl.TaskDescription, schema.HourControl.DateBegin, schema.HourControl.DateClosure,
		schema.HourControl.HoursWorked, schema.HourControl.RequestedBy, schema.HourControl.Extralaboral,
		schema.HourControl.Reason, schema.HourControl.ImagePath,
		schema.HourControl.ID, schema.HourControl.CreatedAt, schema.HourControl.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		hour.UserCode, hour.FullName, hour.Title, hour.TaskDescription, hour.DateBegin, hour.DateClosure,
		hour.HoursWorked, hour.RequestedBy, hour.Extralaboral, hour.Reason, hour.ImagePath,
	).Scan(&hour.ID, &hour.CreatedAt, &hour.UpdatedAt)
	return dberr.Wrap(err, "create_hour")
}

func (repository *PostgresRepository) Update(context context.Context, hour *Hour) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = $9, %s = $10, %s = NOW()
		WHERE %s = $1 AND %s = $2
		RETURNING %s
	`,
		schema.HourControl.Table,
		schema.HourControl.Title, schema.HourControl.TaskDescription, schema.HourControl.DateBegin,
		schema.HourControl.DateClosure, schema.HourControl.HoursWorked, schema.HourControl.RequestedBy,
		schema.HourControl.Extralaboral, schema.HourControl.Reason, schema.HourControl.UpdatedAt,
		schema.HourControl.ID, schema.HourControl.UserCode,
		schema.HourControl.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		hour.ID, hour.UserCode, hour.Title, hour.TaskDescription, hour.DateBegin, hour.DateClosure,
		hour.HoursWorked, hour.RequestedBy, hour.Extralaboral, hour.Reason,
	).Scan(&hour.UpdatedAt)
	return dberr.Wrap(err, "update_hour")
}

func (repository *PostgresRepository) Delete(context context.Context, id int64, userCode string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 AND %s = $2`,
		schema.HourControl.Table, schema.HourControl.ID, schema.HourControl.UserCode,
	)

	command, err := repository.db.Exec(context, query, id, userCode)
	if err != nil {
		return dberr.Wrap(err, "delete_hour")
	}
	if command.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "delete_hour")
	}
	return nil
}
