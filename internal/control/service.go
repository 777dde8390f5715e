// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package control

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/validate"
)

// Recorder appends audit entries. Implemented by activity.Recorder.
type Recorder interface {
	Record(context context.Context, actor, action, details string)
}

// RosterSource supplies the personnel lists of the item form.
type RosterSource interface {
	FetchRoster(context context.Context) (directory.Roster, error)
}

// MessageNotFound is the user-facing text for a missing item.
const MessageNotFound = "Ítem no encontrado"

// Service implements the internal control use cases.
type Service struct {
	repo        Repository
	recorder    Recorder
	roster      RosterSource
	systemsArea string
	logger      *slog.Logger
}

// NewService creates the control service. systemsArea selects the people
// offered as responsibles.
func NewService(repo Repository, recorder Recorder, roster RosterSource, systemsArea string, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, roster: roster, systemsArea: systemsArea, logger: logger}
}

// # Queries

func (service *Service) List(context context.Context) ([]*Control, error) {
	return service.repo.List(context)
}

func (service *Service) Get(context context.Context, id int64) (*Control, error) {
	control, err := service.repo.FindByID(context, id)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound(MessageNotFound)
	}
	return control, err
}

/*
People returns the form's personnel lists: applicants are the systems heads,
responsibles everyone in the systems area.
*/
func (service *Service) People(context context.Context) (applicants, responsibles directory.Roster, err error) {
	roster, err := service.roster.FetchRoster(context)
	if err != nil {
		return nil, nil, err
	}
	return roster.WithPosition(directory.PositionSystemsHead), roster.InArea(service.systemsArea), nil
}

// BlankInput is the create form preset.
func BlankInput() Input {
	return Input{
		Quantity:           "0",
		ProgressPercentage: "0",
		Area:               Areas[0],
	}
}

// InputOf returns the form values of an existing item.
func InputOf(control *Control) Input {
	return Input{
		Requirement:        control.Requirement,
		Classifier:         control.Classifier,
		Subclassifier:      control.Subclassifier,
		Quantity:           strconv.Itoa(control.Quantity),
		Location:           control.Location,
		Floor:              control.Floor,
		Detail:             control.Detail,
		Priority:           control.Priority,
		Area:               control.Area,
		Applicant:          control.Applicant,
		ResponsibleTI:      control.ResponsibleTI,
		ApproximateEndDate: formatDate(control.ApproximateEndDate),
		ProgressPercentage: strconv.Itoa(control.ProgressPercentage),
		Observations:       control.Observations,
		Iframe:             control.Iframe,
	}
}

// # Commands

func (service *Service) Create(context context.Context, identity *sec.Identity, input Input) (*Control, error) {
	control, err := build(input)
	if err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, control); err != nil {
		return nil, err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("creó un nuevo ítem de control: %q", control.Requirement),
		fmt.Sprintf("Detalles: Clasificador: %s, Subclasificador: %s, Prioridad: %s, Responsable: %s",
			control.Classifier, control.Subclassifier, control.Priority, control.ResponsibleTI),
	)

	service.logger.InfoContext(context, "control_created", slog.Int64("control_id", control.ID))
	return control, nil
}

/*
Update rewrites an item. The audit entry lists every changed field as
`- <Campo> de "<old>" a "<new>"` and is skipped when nothing changed.
*/
func (service *Service) Update(context context.Context, identity *sec.Identity, id int64, input Input) (*Control, error) {
	old, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}

	control, err := build(input)
	if err != nil {
		return nil, err
	}
	control.ID = id
	control.CreatedAt = old.CreatedAt

	changes := diff(InputOf(old), InputOf(control))

	if err := service.repo.Update(context, control); err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.NotFound(MessageNotFound)
		}
		return nil, err
	}

	if len(changes) > 0 {
		service.recorder.Record(context, identity.ActorLabel(),
			fmt.Sprintf("editó el ítem de control con ID %d", id),
			strings.Join(changes, "\n"),
		)
	}

	service.logger.InfoContext(context, "control_updated", slog.Int64("control_id", id), slog.Int("changes", len(changes)))
	return control, nil
}

func (service *Service) Delete(context context.Context, identity *sec.Identity, id int64) error {
	old, err := service.Get(context, id)
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
		fmt.Sprintf("eliminó el ítem de control: %q", old.Requirement),
		fmt.Sprintf("ID del ítem: %d", id),
	)

	service.logger.WarnContext(context, "control_deleted", slog.Int64("control_id", id))
	return nil
}

// # Helpers

// build validates input and converts it to a storable item.
func build(input Input) (*Control, error) {
	input = trimInput(input)

	var endDate *time.Time
	var badDate bool
	if input.ApproximateEndDate != "" {
		parsed, err := time.Parse(DateLayout, input.ApproximateEndDate)
		badDate = err != nil
		if err == nil {
			endDate = &parsed
		}
	}

	validator := &validate.Validator{}
	validator.Required(FieldRequirement, input.Requirement).
		MaxLen(FieldRequirement, input.Requirement, 255).
		Int(FieldQuantity, input.Quantity).
		Int(FieldProgressPercentage, input.ProgressPercentage).
		Custom(FieldApproximateEndDate, badDate, "Fecha inválida").
		MaxLen(FieldApplicant, input.Applicant, 120)

	if input.Floor != "" {
		validator.OneOf(FieldFloor, input.Floor, values(Floors)...)
	}
	if input.Priority != "" {
		validator.OneOf(FieldPriority, input.Priority, values(Priorities)...)
	}

	quantity, _ := strconv.Atoi(input.Quantity)
	progress, _ := strconv.Atoi(input.ProgressPercentage)
	validator.Custom(FieldQuantity, quantity < 0, "No puede ser negativo").
		Range(FieldProgressPercentage, progress, 0, 100)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	return &Control{
		Requirement:        input.Requirement,
		Classifier:         input.Classifier,
		Subclassifier:      input.Subclassifier,
		Quantity:           quantity,
		Location:           input.Location,
		Floor:              input.Floor,
		Detail:             input.Detail,
		Priority:           input.Priority,
		Area:               input.Area,
		Applicant:          input.Applicant,
		ResponsibleTI:      input.ResponsibleTI,
		ApproximateEndDate: endDate,
		ProgressPercentage: progress,
		Observations:       input.Observations,
		Iframe:             input.Iframe,
	}, nil
}

func trimInput(input Input) Input {
	for _, field := range []*string{
		&input.Requirement, &input.Classifier, &input.Subclassifier, &input.Quantity, &input.Location,
		&input.Floor, &input.Priority, &input.Area, &input.Applicant, &input.ResponsibleTI,
		&input.ApproximateEndDate, &input.ProgressPercentage, &input.Iframe,
	} {
		*field = strings.TrimSpace(*field)
	}
	if input.Quantity == "" {
		input.Quantity = "0"
	}
	if input.ProgressPercentage == "" {
		input.ProgressPercentage = "0"
	}
	return input
}

func formatDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.Format(DateLayout)
}

// diff compares two normalized inputs field by field, in form order.
func diff(old, updated Input) []string {
	fields := []struct {
		label      string
		old, value string
	}{
		{"Requerimiento", old.Requirement, updated.Requirement},
		{"Clasificador", old.Classifier, updated.Classifier},
		{"Subclasificador", old.Subclassifier, updated.Subclassifier},
		{"Cantidad", old.Quantity, updated.Quantity},
		{"Ubicación", old.Location, updated.Location},
		{"Piso", old.Floor, updated.Floor},
		{"Detalle", old.Detail, updated.Detail},
		{"Prioridad", old.Priority, updated.Priority},
		{"Área", old.Area, updated.Area},
		{"Solicitante", old.Applicant, updated.Applicant},
		{"Responsable TI", old.ResponsibleTI, updated.ResponsibleTI},
		{"Fecha aprox. de fin", old.ApproximateEndDate, updated.ApproximateEndDate},
		{"Progreso", old.ProgressPercentage, updated.ProgressPercentage},
		{"Observaciones", old.Observations, updated.Observations},
		{"Iframe", old.Iframe, updated.Iframe},
	}

	var changes []string
	for _, field := range fields {
		if field.old != field.value {
			changes = append(changes, fmt.Sprintf("- %s de %q a %q", field.label, field.old, field.value))
		}
	}
	return changes
}
