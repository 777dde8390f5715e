// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ascinsa/pms/internal/platform/database/schema"
	"github.com/ascinsa/pms/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on pms_activity_logs.
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Append inserts one entry. The timestamp is assigned by the database.
*/
func (repository *PostgresRepository) Append(context context.Context, entry *Entry) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		RETURNING %s, %s
	`,
		schema.ActivityLog.Table, schema.ActivityLog.UserCode, schema.ActivityLog.Action, schema.ActivityLog.Details,
		schema.ActivityLog.ID, schema.ActivityLog.CreatedAt,
	)

	err := repository.db.QueryRow(context, query, entry.Actor, entry.Action, entry.Details).Scan(&entry.ID, &entry.CreatedAt)
	return dberr.Wrap(err, "append_activity")
}

/*
ListNewestFirst returns every entry ordered by creation time, newest first.
*/
func (repository *PostgresRepository) ListNewestFirst(context context.Context) ([]*Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		ORDER BY %s DESC, %s DESC
	`,
		schema.ActivityLog.ID, schema.ActivityLog.UserCode, schema.ActivityLog.Action,
		schema.ActivityLog.Details, schema.ActivityLog.CreatedAt,
		schema.ActivityLog.Table, schema.ActivityLog.CreatedAt, schema.ActivityLog.ID,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_activity")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(&entry.ID, &entry.Actor, &entry.Action, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_activity")
		}
		entries = append(entries, entry)
	}

	return entries, dberr.Wrap(rows.Err(), "list_activity")
}
