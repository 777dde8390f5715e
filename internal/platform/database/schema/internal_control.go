// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// InternalControlTable represents the 'pms_internal_controls' table
type InternalControlTable struct {
	Table              string
	ID                 string
	Requirement        string
	Classifier         string
	Subclassifier      string
	Quantity           string
	Location           string
	Floor              string
	Detail             string
	Priority           string
	Area               string
	Applicant          string
	ResponsibleTI      string
	ApproximateEndDate string
	ProgressPercentage string
	Observations       string
	Iframe             string
	CreatedAt          string
	UpdatedAt          string
}

// InternalControl is the schema definition for pms_internal_controls
var InternalControl = InternalControlTable{
	Table:              "pms_internal_controls",
	ID:                 "id",
	Requirement:        "requirement",
	Classifier:         "classifier",
	Subclassifier:      "subclassifier",
	Quantity:           "quantity",
	Location:           "location",
	Floor:              "floor",
	Detail:             "detail",
	Priority:           "priority",
	Area:               "area",
	Applicant:          "applicant",
	ResponsibleTI:      "responsible_ti",
	ApproximateEndDate: "approximate_end_date",
	ProgressPercentage: "progress_percentage",
	Observations:       "observations",
	Iframe:             "iframe",
	CreatedAt:          "created_at",
	UpdatedAt:          "updated_at",
}

// Writable lists the columns set by create and update, in bind order.
func (t InternalControlTable) Writable() []string {
	return []string{
		t.Requirement, t.Classifier, t.Subclassifier, t.Quantity, t.Location, t.Floor, t.Detail,
		t.Priority, t.Area, t.Applicant, t.ResponsibleTI, t.ApproximateEndDate, t.ProgressPercentage,
		t.Observations, t.Iframe,
	}
}
