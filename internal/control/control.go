// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package control manages the systems area's internal control items: the
infrastructure and software requirements the team tracks to completion.

Items are shared. Any authenticated writer may create, edit or delete them;
read-only users only browse.
*/
package control

import "time"

// Control is one tracked requirement.
type Control struct {
	ID                 int64      `json:"id"`
	Requirement        string     `json:"requirement"`
	Classifier         string     `json:"classifier"`
	Subclassifier      string     `json:"subclassifier"`
	Quantity           int        `json:"quantity"`
	Location           string     `json:"location"`
	Floor              string     `json:"floor"`
	Detail             string     `json:"detail"`
	Priority           string     `json:"priority"`
	Area               string     `json:"area"`
	Applicant          string     `json:"applicant"`
	ResponsibleTI      string     `json:"responsible_ti"`
	ApproximateEndDate *time.Time `json:"approximate_end_date,omitempty"`
	ProgressPercentage int        `json:"progress_percentage"`
	Observations       string     `json:"observations"`
	Iframe             string     `json:"iframe"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// PriorityLabel returns the display name of the stored priority code.
func (control Control) PriorityLabel() string {
	return labelOf(Priorities, control.Priority)
}

// Input is the submitted form. Values stay strings so a rejected form can be
// shown back as typed. ResponsibleTI joins multiple selections with commas.
type Input struct {
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
}

// # Field Identifiers

const (
	FieldRequirement        = "requirement"
	FieldClassifier         = "classifier"
	FieldSubclassifier      = "subclassifier"
	FieldQuantity           = "quantity"
	FieldLocation           = "location"
	FieldFloor              = "floor"
	FieldDetail             = "detail"
	FieldPriority           = "priority"
	FieldArea               = "area"
	FieldApplicant          = "applicant"
	FieldResponsibleTI      = "responsible_ti"
	FieldApproximateEndDate = "approximate_end_date"
	FieldProgressPercentage = "progress_percentage"
	FieldObservations       = "observations"
	FieldIframe             = "iframe"
)

// DateLayout is the layout of the approximate end date input.
const DateLayout = "2006-01-02"
