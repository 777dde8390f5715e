// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package project manages the project portfolio: projects grouped in four fixed
categories, their tasks, the hours logged against each task, and the comment
thread of each project.

Permissions:

  - Admins create, edit and delete projects.
  - Admins and systems area staff manage tasks and log task hours.
  - Any writer comments; a comment is deleted by its author or an admin.
  - Read-only users browse everything.
*/
package project

import "time"

// Project is one portfolio entry. Applicant and Responsible hold user codes.
type Project struct {
	ID                 int64      `json:"id"`
	Category           string     `json:"category"`
	Title              string     `json:"title"`
	Detail             string     `json:"detail"`
	Risk               string     `json:"risk"`
	Consequence        string     `json:"consequence"`
	Classifier         string     `json:"classifier"`
	Subclassifier      string     `json:"subclassifier"`
	Location           string     `json:"location"`
	Floor              string     `json:"floor"`
	Priority           string     `json:"priority"`
	Area               string     `json:"area"`
	Applicant          string     `json:"applicant"`
	Responsible        []string   `json:"responsible"`
	Status             string     `json:"status"`
	StartDate          *time.Time `json:"start_date,omitempty"`
	EndDate            *time.Time `json:"end_date,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
	Prod               bool       `json:"prod"`
	Observations       string     `json:"observations"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Resolved from the directory for display; codes are kept when unknown.
	ApplicantName    string `json:"applicantName,omitempty"`
	ResponsibleNames string `json:"responsibleNames,omitempty"`
}

// PriorityLabel returns the display name of the stored priority code.
func (project Project) PriorityLabel() string {
	return labelOf(Priorities, project.Priority)
}

// AreaLabel returns the department name of the stored area code.
func (project Project) AreaLabel() string {
	if name, ok := AreaName(project.Area); ok {
		return name
	}
	return project.Area
}

// Task is one unit of work inside a project.
type Task struct {
	ID          int64      `json:"id"`
	ProjectID   int64      `json:"project_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	Responsible []string   `json:"responsible"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	ResponsibleNames string `json:"responsibleNames,omitempty"`
}

// Comment is one message of a project thread.
type Comment struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	UserCode  string    `json:"ascinsa_code"`
	Body      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	DisplayName string `json:"displayName,omitempty"`
	Initial     string `json:"initial,omitempty"`
}

// TaskHour is a span of work logged against a task.
type TaskHour struct {
	ID         int64     `json:"id"`
	TaskID     int64     `json:"task_id"`
	UserCode   string    `json:"user_code"`
	HourStart  time.Time `json:"hour_start"`
	HourEnd    time.Time `json:"hour_end"`
	HoursTaken float64   `json:"hours_taken"`
}

// Detail is a project with everything shown on its page.
type Detail struct {
	Project  *Project
	Tasks    []*Task
	Comments []*Comment
}

// # Inputs

// Input is the submitted project form. Values stay strings so a rejected form
// can be shown back as typed.
type Input struct {
	Title              string
	Detail             string
	Risk               string
	Consequence        string
	Classifier         string
	Subclassifier      string
	Location           string
	Floor              string
	Priority           string
	Area               string
	Applicant          string
	Responsible        []string
	Status             string
	StartDate          string
	EndDate            string
	DueDate            string
	ProgressPercentage string
	Prod               string
	Observations       string
}

// TaskInput is the submitted task form. Edits only change priority, status,
// responsibles and due date.
type TaskInput struct {
	Title       string
	Description string
	Priority    string
	Status      string
	DueDate     string
	Responsible []string
}

// HourInput is the JSON body of a task hour. Timestamps are RFC 3339 or
// datetime-local values.
type HourInput struct {
	HourStart string `json:"hour_start"`
	HourEnd   string `json:"hour_end"`
}

// # Field Identifiers

const (
	FieldTitle              = "title"
	FieldDetail             = "detail"
	FieldRisk               = "risk"
	FieldConsequence        = "consequence"
	FieldClassifier         = "classifier"
	FieldSubclassifier      = "subclassifier"
	FieldLocation           = "location"
	FieldFloor              = "floor"
	FieldPriority           = "priority"
	FieldArea               = "area"
	FieldApplicant          = "applicant"
	FieldResponsible        = "responsible"
	FieldStatus             = "status"
	FieldStartDate          = "start_date"
	FieldEndDate            = "end_date"
	FieldDueDate            = "due_date"
	FieldProgressPercentage = "progress_percentage"
	FieldProd               = "prod"
	FieldObservations       = "observations"
	FieldDescription        = "description"
	FieldComment            = "comment"
	FieldHourStart          = "hour_start"
	FieldHourEnd            = "hour_end"
)

// DateLayout is the layout of date inputs.
const DateLayout = "2006-01-02"
