// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/validate"
)

// # Contracts

// Recorder appends audit entries. Implemented by activity.Recorder.
type Recorder interface {
	Record(context context.Context, actor, action, details string)
}

// RosterSource supplies the personnel behind applicants and responsibles.
type RosterSource interface {
	FetchRoster(context context.Context) (directory.Roster, error)
}

// User-facing texts for missing records.
const (
	MessageCategoryNotFound = "Categoría de proyecto no encontrada."
	MessageNotFound         = "Proyecto no encontrado"
	MessageTaskNotFound     = "Tarea no encontrada"
	MessageCommentNotFound  = "Comentario no encontrado"
)

// Service implements the project portfolio use cases.
type Service struct {
	repo        Repository
	recorder    Recorder
	roster      RosterSource
	systemsArea string
	logger      *slog.Logger
}

// NewService creates the project service. systemsArea selects the people
// offered as responsibles.
func NewService(repo Repository, recorder Recorder, roster RosterSource, systemsArea string, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		recorder:    recorder,
		roster:      roster,
		systemsArea: systemsArea,
		logger:      logger,
	}
}

// # Queries

// List returns the projects of a category with their people resolved to
// names. Codes are shown when the directory is unavailable.
func (service *Service) List(context context.Context, category string) ([]*Project, error) {
	found, ok := LookupCategory(category)
	if !ok {
		return nil, apperr.NotFound(MessageCategoryNotFound)
	}

	projects, err := service.repo.List(context, found.Slug)
	if err != nil {
		return nil, err
	}

	names := service.names(context)
	for _, project := range projects {
		decorate(project, names)
	}
	return projects, nil
}

// Get loads a project of the given category. A project filed under another
// category is reported missing.
func (service *Service) Get(context context.Context, category string, id int64) (*Project, error) {
	found, ok := LookupCategory(category)
	if !ok {
		return nil, apperr.NotFound(MessageCategoryNotFound)
	}

	project, err := service.repo.FindByID(context, id)
	if apperr.IsNotFound(err) || (err == nil && project.Category != found.Slug) {
		return nil, apperr.NotFound(MessageNotFound)
	}
	return project, err
}

/*
Detail returns a project with its tasks and its comment thread. Each comment
carries the author's display name and initial, falling back to the code.
*/
func (service *Service) Detail(context context.Context, category string, id int64) (*Detail, error) {
	project, err := service.Get(context, category, id)
	if err != nil {
		return nil, err
	}

	tasks, err := service.repo.ListTasks(context, id)
	if err != nil {
		return nil, err
	}

	comments, err := service.repo.ListComments(context, id)
	if err != nil {
		return nil, err
	}

	names := service.names(context)
	decorate(project, names)
	for _, task := range tasks {
		task.ResponsibleNames = joinNames(task.Responsible, names)
	}
	for _, comment := range comments {
		comment.DisplayName = comment.UserCode
		if name, ok := names[comment.UserCode]; ok {
			comment.DisplayName = name
		}
		comment.Initial = initial(comment.DisplayName)
	}

	return &Detail{Project: project, Tasks: tasks, Comments: comments}, nil
}

/*
People returns the form's personnel lists: applicants are heads, managers and
project executives; responsibles are the systems area staff with a position.
*/
func (service *Service) People(context context.Context) (applicants, responsibles directory.Roster, err error) {
	roster, err := service.roster.FetchRoster(context)
	if err != nil {
		return nil, nil, err
	}

	applicants = roster.WithPosition(directory.PositionChief, directory.PositionGeneralManager, directory.PositionProjectExecutive)
	for _, person := range roster.InArea(service.systemsArea) {
		if person.Position != "" {
			responsibles = append(responsibles, person)
		}
	}
	return applicants, responsibles, nil
}

// BlankInput is the create form preset.
func BlankInput() Input {
	return Input{
		Priority:           Priorities[0].Value,
		Status:             StatusPending,
		ProgressPercentage: "0",
		Prod:               "false",
	}
}

// InputOf returns the form values of an existing project.
func InputOf(project *Project) Input {
	return Input{
		Title:              project.Title,
		Detail:             project.Detail,
		Risk:               project.Risk,
		Consequence:        project.Consequence,
		Classifier:         project.Classifier,
		Subclassifier:      project.Subclassifier,
		Location:           project.Location,
		Floor:              project.Floor,
		Priority:           project.Priority,
		Area:               project.Area,
		Applicant:          project.Applicant,
		Responsible:        slices.Clone(project.Responsible),
		Status:             project.Status,
		StartDate:          formatDate(project.StartDate),
		EndDate:            formatDate(project.EndDate),
		DueDate:            formatDate(project.DueDate),
		ProgressPercentage: strconv.Itoa(project.ProgressPercentage),
		Prod:               strconv.FormatBool(project.Prod),
		Observations:       project.Observations,
	}
}

// # Commands

func (service *Service) Create(context context.Context, identity *sec.Identity, category string, input Input) (*Project, error) {
	found, ok := LookupCategory(category)
	if !ok {
		return nil, apperr.NotFound(MessageCategoryNotFound)
	}

	project, err := build(input)
	if err != nil {
		return nil, err
	}
	project.Category = found.Slug
	if project.Status == "" {
		project.Status = StatusPending
	}

	if err := service.repo.Create(context, project); err != nil {
		return nil, err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("creó un nuevo proyecto %q", project.Title),
		fmt.Sprintf("Categoría: %s", project.Category),
	)

	service.logger.InfoContext(context, "project_created",
		slog.Int64("project_id", project.ID),
		slog.String("category", project.Category),
	)
	return project, nil
}

/*
Update rewrites a project. Start date, due date and area are fixed at creation
and kept from the stored record. The audit entry lists the changed fields as
`<campo> de "<old>" a "<new>"` and is skipped when nothing changed.
*/
func (service *Service) Update(context context.Context, identity *sec.Identity, category string, id int64, input Input) (*Project, error) {
	old, err := service.Get(context, category, id)
	if err != nil {
		return nil, err
	}

	project, err := build(input)
	if err != nil {
		return nil, err
	}
	project.ID = id
	project.Category = old.Category
	project.StartDate = old.StartDate
	project.DueDate = old.DueDate
	project.Area = old.Area
	project.CreatedAt = old.CreatedAt
	if project.Status == "" {
		project.Status = old.Status
	}

	changes := diff(old, project)

	if err := service.repo.Update(context, project); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(MessageNotFound)
		}
		return nil, err
	}

	if len(changes) > 0 {
		service.recorder.Record(context, identity.ActorLabel(),
			fmt.Sprintf("editó proyecto %q", project.Title),
			strings.Join(changes, "; "),
		)
	}

	service.logger.InfoContext(context, "project_updated", slog.Int64("project_id", id), slog.Int("changes", len(changes)))
	return project, nil
}

// Delete removes a project with its tasks, hours and comments.
func (service *Service) Delete(context context.Context, identity *sec.Identity, category string, id int64) error {
	old, err := service.Get(context, category, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound(MessageNotFound)
		}
		return err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("eliminó proyecto %q", old.Title),
		fmt.Sprintf("ID del proyecto %d", id),
	)

	service.logger.WarnContext(context, "project_deleted", slog.Int64("project_id", id))
	return nil
}

// # Helpers

// names maps user codes to display names. A directory failure is logged and
// leaves codes in place.
func (service *Service) names(context context.Context) map[string]string {
	roster, err := service.roster.FetchRoster(context)
	if err != nil {
		service.logger.WarnContext(context, "project_names_unavailable", slog.String("error", err.Error()))
		return map[string]string{}
	}
	return roster.Names()
}

func decorate(project *Project, names map[string]string) {
	project.ApplicantName = project.Applicant
	if name, ok := names[project.Applicant]; ok {
		project.ApplicantName = name
	}
	project.ResponsibleNames = joinNames(project.Responsible, names)
}

func joinNames(codes []string, names map[string]string) string {
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		if name, ok := names[code]; ok {
			labels = append(labels, name)
			continue
		}
		labels = append(labels, code)
	}
	return strings.Join(labels, ", ")
}

func initial(name string) string {
	for _, letter := range name {
		return strings.ToUpper(string(letter))
	}
	return ""
}

// build validates input and converts it to a storable project.
func build(input Input) (*Project, error) {
	input = trimInput(input)

	startDate, badStart := parseDate(input.StartDate)
	endDate, badEnd := parseDate(input.EndDate)
	dueDate, badDue := parseDate(input.DueDate)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 255).
		Int(FieldProgressPercentage, input.ProgressPercentage).
		Custom(FieldStartDate, badStart, "Fecha inválida").
		Custom(FieldEndDate, badEnd, "Fecha inválida").
		Custom(FieldDueDate, badDue, "Fecha inválida").
		MaxLen(FieldApplicant, input.Applicant, 120).
		OneOf(FieldProd, input.Prod, "true", "false")

	if input.Priority != "" {
		validator.OneOf(FieldPriority, input.Priority, values(Priorities)...)
	}
	if input.Area != "" {
		_, known := AreaName(input.Area)
		validator.Custom(FieldArea, !known, "Área desconocida")
	}

	progress, _ := strconv.Atoi(input.ProgressPercentage)
	validator.Range(FieldProgressPercentage, progress, 0, 100)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &Project{
		Title:              input.Title,
		Detail:             input.Detail,
		Risk:               input.Risk,
		Consequence:        input.Consequence,
		Classifier:         input.Classifier,
		Subclassifier:      input.Subclassifier,
		Location:           input.Location,
		Floor:              input.Floor,
		Priority:           input.Priority,
		Area:               input.Area,
		Applicant:          input.Applicant,
		Responsible:        input.Responsible,
		Status:             input.Status,
		StartDate:          startDate,
		EndDate:            endDate,
		DueDate:            dueDate,
		ProgressPercentage: progress,
		Prod:               input.Prod == "true",
		Observations:       input.Observations,
	}, nil
}

func trimInput(input Input) Input {
	for _, field := range []*string{
		&input.Title, &input.Classifier, &input.Subclassifier, &input.Location, &input.Floor,
		&input.Priority, &input.Area, &input.Applicant, &input.Status, &input.StartDate,
		&input.EndDate, &input.DueDate, &input.ProgressPercentage, &input.Prod,
	} {
		*field = strings.TrimSpace(*field)
	}
	if input.ProgressPercentage == "" {
		input.ProgressPercentage = "0"
	}
	input.Prod = strings.ToLower(input.Prod)
	if input.Prod == "" || input.Prod == "0" || input.Prod == "off" {
		input.Prod = "false"
	}
	if input.Prod == "1" || input.Prod == "on" {
		input.Prod = "true"
	}
	input.Responsible = compact(input.Responsible)
	return input
}

// compact trims codes and drops blanks and repeats, keeping order.
func compact(codes []string) []string {
	kept := make([]string, 0, len(codes))
	for _, code := range codes {
		code = strings.TrimSpace(code)
		if code != "" && !slices.Contains(kept, code) {
			kept = append(kept, code)
		}
	}
	return kept
}

// parseDate reads an optional date input; bad reports a malformed one.
func parseDate(value string) (date *time.Time, bad bool) {
	if value == "" {
		return nil, false
	}
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return nil, true
	}
	return &parsed, false
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(DateLayout)
}

// diff compares the fields an edit may change, in form order.
func diff(old, updated *Project) []string {
	fields := []struct {
		label      string
		old, value string
	}{
		{"título", old.Title, updated.Title},
		{"detalle", old.Detail, updated.Detail},
		{"prioridad", old.Priority, updated.Priority},
		{"solicitante", old.Applicant, updated.Applicant},
		{"progreso", strconv.Itoa(old.ProgressPercentage), strconv.Itoa(updated.ProgressPercentage)},
		{"prod", strconv.FormatBool(old.Prod), strconv.FormatBool(updated.Prod)},
	}

	var changes []string
	for _, field := range fields {
		if field.old != field.value {
			changes = append(changes, fmt.Sprintf("%s de %q a %q", field.label, field.old, field.value))
		}
	}
	if !sameCodes(old.Responsible, updated.Responsible) {
		changes = append(changes, "responsables modificados")
	}
	return changes
}

// sameCodes compares two code lists ignoring order.
func sameCodes(left, right []string) bool {
	if len(left) != len(right) {
		return false
	}
	left, right = slices.Clone(left), slices.Clone(right)
	slices.Sort(left)
	slices.Sort(right)
	return slices.Equal(left, right)
}
