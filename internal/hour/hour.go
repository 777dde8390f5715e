// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package hour manages the hour log: work sessions recorded by staff, each owned
by the user code that created it.

Only the owner may edit or delete a record; ownership is fixed at creation.
*/
package hour

import "time"

// # Domain Entities

// Hour is one logged work session.
type Hour struct {
	ID              int64     `json:"id"`
	UserCode        string    `json:"user_code"`
	FullName        string    `json:"full_name"`
	Title           string    `json:"title"`
	TaskDescription string    `json:"task_description"`
	DateBegin       time.Time `json:"date_begin"`
	DateClosure     time.Time `json:"date_closure"`
	HoursWorked     float64   `json:"hours_worked"`
	RequestedBy     string    `json:"requested_by"`
	Extralaboral    string    `json:"extralaboral"`
	Reason          string    `json:"reason"`
	ImagePath       *string   `json:"image_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Input is the submitted form, kept as strings so it can be shown back as typed.
// Dates use the datetime-local layout (2006-01-02T15:04).
type Input struct {
	Title           string `json:"title"`
	TaskDescription string `json:"task_description"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	RequestedBy     string `json:"requested_by"`
	Extralaboral    string `json:"extralaboral"`
	Reason          string `json:"reason"`
}

// # Field Identifiers

const (
	FieldTitle        = "title"
	FieldDescription  = "task_description"
	FieldStartDate    = "start_date"
	FieldEndDate      = "end_date"
	FieldRequestedBy  = "requested_by"
	FieldExtralaboral = "extralaboral"
	FieldReason       = "reason"
)

// Extralaboral answers.
const (
	ExtralaboralYes = "Si"
	ExtralaboralNo  = "No"
)
