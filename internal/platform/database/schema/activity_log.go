// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns queried by the repositories,
// so SQL strings never repeat raw identifiers.
package schema

// ActivityLogTable represents the 'pms_activity_logs' table
type ActivityLogTable struct {
	Table     string
	ID        string
	UserCode  string
	Action    string
	Details   string
	CreatedAt string
}

// ActivityLog is the schema definition for pms_activity_logs
var ActivityLog = ActivityLogTable{
	Table:     "pms_activity_logs",
	ID:        "id",
	UserCode:  "user_code",
	Action:    "action",
	Details:   "details",
	CreatedAt: "created_at",
}

func (t ActivityLogTable) Columns() []string {
	return []string{t.ID, t.UserCode, t.Action, t.Details, t.CreatedAt}
}
