// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package activity keeps the append-only audit trail of the panel.

Every successful mutation (hour logs, internal controls, API writes) appends
one [Entry] through [Recorder.Record]. Entries are never updated or deleted;
the history page lists them newest first, grouped by day.
*/
package activity

import "time"

// Entry is one audit record.
type Entry struct {
	ID int64 `json:"id"`

	// Actor is the label of who acted: the full name, or the user code when
	// no name is known. Stored in the user_code column.
	Actor     string    `json:"user_code"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

// Day groups the rendered history lines of one calendar date (YYYY-MM-DD).
type Day struct {
	Date  string
	Lines []string
}
