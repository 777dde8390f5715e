// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// HourControlTable represents the 'pms_hour_control' table
type HourControlTable struct {
	Table           string
	ID              string
	UserCode        string
	FullName        string
	Title           string
	TaskDescription string
	DateBegin       string
	DateClosure     string
	HoursWorked     string
	RequestedBy     string
	Extralaboral    string
	Reason          string
	ImagePath       string
	CreatedAt       string
	UpdatedAt       string
}

// HourControl is the schema definition for pms_hour_control
var HourControl = HourControlTable{
	Table:           "pms_hour_control",
	ID:              "id",
	UserCode:        "user_code",
	FullName:        "full_name",
	Title:           "title",
	TaskDescription: "task_description",
	DateBegin:       "date_begin",
	DateClosure:     "date_closure",
	HoursWorked:     "hours_worked",
	RequestedBy:     "requested_by",
	Extralaboral:    "extralaboral",
	Reason:          "reason",
	ImagePath:       "image_path",
	CreatedAt:       "created_at",
	UpdatedAt:       "updated_at",
}

func (t HourControlTable) Columns() []string {
	return []string{
		t.ID, t.UserCode, t.FullName, t.Title, t.TaskDescription, t.DateBegin, t.DateClosure,
		t.HoursWorked, t.RequestedBy, t.Extralaboral, t.Reason, t.ImagePath, t.CreatedAt, t.UpdatedAt,
	}
}
