// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ProjectTable represents the 'pms_projects' table
type ProjectTable struct {
	Table              string
	ID                 string
	Category           string
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
	Responsible        string
	Status             string
	StartDate          string
	EndDate            string
	DueDate            string
	ProgressPercentage string
	Prod               string
	Observations       string
	CreatedAt          string
	UpdatedAt          string
}

// Project is the schema definition for pms_projects
var Project = ProjectTable{
	Table:              "pms_projects",
	ID:                 "id",
	Category:           "category",
	Title:              "title",
	Detail:             "detail",
	Risk:               "risk",
	Consequence:        "consequence",
	Classifier:         "classifier",
	Subclassifier:      "subclassifier",
	Location:           "location",
	Floor:              "floor",
	Priority:           "priority",
	Area:               "area",
	Applicant:          "applicant",
	Responsible:        "responsible",
	Status:             "status",
	StartDate:          "start_date",
	EndDate:            "end_date",
	DueDate:            "due_date",
	ProgressPercentage: "progress_percentage",
	Prod:               "prod",
	Observations:       "observations",
	CreatedAt:          "created_at",
	UpdatedAt:          "updated_at",
}

// Writable lists the columns set by create and update, in bind order.
func (t ProjectTable) Writable() []string {
	return []string{
		t.Category, t.Title, t.Detail, t.Risk, t.Consequence, t.Classifier, t.Subclassifier,
		t.Location, t.Floor, t.Priority, t.Area, t.Applicant, t.Responsible, t.Status,
		t.StartDate, t.EndDate, t.DueDate, t.ProgressPercentage, t.Prod, t.Observations,
	}
}

// TaskTable represents the 'pms_tasks' table
type TaskTable struct {
	Table       string
	ID          string
	ProjectID   string
	Title       string
	Description string
	Priority    string
	Status      string
	Responsible string
	DueDate     string
	CreatedAt   string
	UpdatedAt   string
}

// Task is the schema definition for pms_tasks
var Task = TaskTable{
	Table:       "pms_tasks",
	ID:          "id",
	ProjectID:   "project_id",
	Title:       "title",
	Description: "description",
	Priority:    "priority",
	Status:      "status",
	Responsible: "responsible",
	DueDate:     "due_date",
	CreatedAt:   "created_at",
	UpdatedAt:   "updated_at",
}

func (t TaskTable) Columns() []string {
	return []string{
		t.ID, t.ProjectID, t.Title, t.Description, t.Priority, t.Status, t.Responsible, t.DueDate,
		t.CreatedAt, t.UpdatedAt,
	}
}

// ProjectCommentTable represents the 'pms_project_comments' table
type ProjectCommentTable struct {
	Table     string
	ID        string
	ProjectID string
	UserCode  string
	Comment   string
	CreatedAt string
}

// ProjectComment is the schema definition for pms_project_comments
var ProjectComment = ProjectCommentTable{
	Table:     "pms_project_comments",
	ID:        "id",
	ProjectID: "project_id",
	UserCode:  "ascinsa_code",
	Comment:   "comment",
	CreatedAt: "created_at",
}

// TaskHourTable represents the 'pms_task_hours' table
type TaskHourTable struct {
	Table      string
	ID         string
	TaskID     string
	UserCode   string
	HourStart  string
	HourEnd    string
	HoursTaken string
}

// TaskHour is the schema definition for pms_task_hours
var TaskHour = TaskHourTable{
	Table:      "pms_task_hours",
	ID:         "id",
	TaskID:     "task_id",
	UserCode:   "user_code",
	HourStart:  "hour_start",
	HourEnd:    "hour_end",
	HoursTaken: "hours_taken",
}
