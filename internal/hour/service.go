// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package hour

import (
	"context"
	"fmt"
	"log/slog"
	"math"
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

// RosterSource supplies the personnel list for the "requested by" choices.
type RosterSource interface {
	FetchRoster(context context.Context) (directory.Roster, error)
}

// MessageNotFound is the user-facing text for a missing or foreign record.
const MessageNotFound = "Registro no encontrado"

// Service implements the hour log use cases.
type Service struct {
	repo     Repository
	recorder Recorder
	roster   RosterSource
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, recorder Recorder, roster RosterSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, roster: roster, logger: logger, now: time.Now}
}

// # Queries

func (service *Service) List(context context.Context) ([]*Hour, error) {
	return service.repo.List(context)
}

func (service *Service) ListByOwner(context context.Context, userCode string) ([]*Hour, error) {
	return service.repo.ListByOwner(context, userCode)
}

func (service *Service) Get(context context.Context, id int64) (*Hour, error) {
	hour, err := service.repo.FindByID(context, id)
	if apperr.IsNotFound(err) {
		return nil, apperr.NotFound(MessageNotFound)
	}
	return hour, err
}

// Owner returns the owner code of a record. It backs the ownership guard.
func (service *Service) Owner(context context.Context, id int64) (string, error) {
	return service.repo.OwnerOf(context, id)
}

// Summary totals the hours of one user for the home page.
type Summary struct {
	Entries   int
	Total     float64
	Extra     float64
	ThisMonth float64
}

/*
Summary adds up the records owned by userCode. Extra counts extralaboral
records; ThisMonth counts records starting in the current calendar month.
*/
func (service *Service) Summary(context context.Context, userCode string) (*Summary, error) {
	hours, err := service.repo.ListByOwner(context, userCode)
	if err != nil {
		return nil, err
	}

	now := service.now()
	summary := &Summary{Entries: len(hours)}
	for _, hour := range hours {
		summary.Total += hour.HoursWorked
		if hour.Extralaboral == ExtralaboralYes {
			summary.Extra += hour.HoursWorked
		}
		if begin := hour.DateBegin.In(now.Location()); begin.Year() == now.Year() && begin.Month() == now.Month() {
			summary.ThisMonth += hour.HoursWorked
		}
	}

	summary.Total = round2(summary.Total)
	summary.Extra = round2(summary.Extra)
	summary.ThisMonth = round2(summary.ThisMonth)
	return summary, nil
}

/*
Bosses lists who may request work. The create form offers heads and managers,
the edit form heads only.
*/
func (service *Service) Bosses(context context.Context, includeManagers bool) (directory.Roster, error) {
	roster, err := service.roster.FetchRoster(context)
	if err != nil {
		return nil, err
	}
	if includeManagers {
		return roster.WithPosition(directory.PositionHead, directory.PositionManager), nil
	}
	return roster.WithPosition(directory.PositionHead), nil
}

// BlankInput is the create form preset: one hour starting now.
func (service *Service) BlankInput() Input {
	start := service.now()
	return Input{
		StartDate:    start.Format(validate.FormDateTime),
		EndDate:      start.Add(time.Hour).Format(validate.FormDateTime),
		Extralaboral: ExtralaboralNo,
	}
}

// InputOf returns the form values of an existing record.
func InputOf(hour *Hour) Input {
	return Input{
		Title:           hour.Title,
		TaskDescription: hour.TaskDescription,
		StartDate:       hour.DateBegin.Format(validate.FormDateTime),
		EndDate:         hour.DateClosure.Format(validate.FormDateTime),
		RequestedBy:     hour.RequestedBy,
		Extralaboral:    hour.Extralaboral,
		Reason:          hour.Reason,
	}
}

// # Commands

/*
Insert validates input and stores a record owned by identity, without an
audit entry. Hours worked are the span between start and end, in hours,
rounded to two decimals.
*/
func (service *Service) Insert(context context.Context, identity *sec.Identity, input Input) (*Hour, error) {
	input = trimInput(input)
	begin, closure, err := parse(input)
	if err != nil {
		return nil, err
	}

	hour := &Hour{
		UserCode:        identity.UserCode,
		FullName:        identity.ActorLabel(),
		Title:           input.Title,
		TaskDescription: input.TaskDescription,
		DateBegin:       begin,
		DateClosure:     closure,
		HoursWorked:     span(begin, closure),
		RequestedBy:     input.RequestedBy,
		Extralaboral:    input.Extralaboral,
		Reason:          input.Reason,
	}

	if err := service.repo.Create(context, hour); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "hour_created",
		slog.Int64("hour_id", hour.ID),
		slog.String("user_code", hour.UserCode),
	)
	return hour, nil
}

// Create is [Service.Insert] followed by its audit entry.
func (service *Service) Create(context context.Context, identity *sec.Identity, input Input) (*Hour, error) {
	hour, err := service.Insert(context, identity, input)
	if err != nil {
		return nil, err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("creó un nuevo registro de horas: %q", hour.Title),
		fmt.Sprintf("Se trabajaron %.2f horas.", hour.HoursWorked),
	)
	return hour, nil
}

/*
Update rewrites a record owned by identity. The audit entry lists each changed
field and is skipped when nothing changed.
*/
func (service *Service) Update(context context.Context, identity *sec.Identity, id int64, input Input) (*Hour, error) {
	old, err := service.owned(context, identity, id)
	if err != nil {
		return nil, err
	}

	input = trimInput(input)
	begin, closure, err := parse(input)
	if err != nil {
		return nil, err
	}

	changes := diff(old, input)

	updated := *old
	updated.Title = input.Title
	updated.TaskDescription = input.TaskDescription
	updated.DateBegin = begin
	updated.DateClosure = closure
	updated.HoursWorked = span(begin, closure)
	updated.RequestedBy = input.RequestedBy
	updated.Extralaboral = input.Extralaboral
	updated.Reason = input.Reason

	if err := service.repo.Update(context, &updated); err != nil {
		return nil, err
	}

	if len(changes) > 0 {
		service.recorder.Record(context, identity.ActorLabel(),
			fmt.Sprintf("editó registro de horas ID %d", id),
			strings.Join(changes, "\n"),
		)
	}

	service.logger.InfoContext(context, "hour_updated", slog.Int64("hour_id", id), slog.Int("changes", len(changes)))
	return &updated, nil
}

// Delete removes a record owned by identity.
func (service *Service) Delete(context context.Context, identity *sec.Identity, id int64) error {
	old, err := service.owned(context, identity, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id, identity.UserCode); err != nil {
		if apperr.IsNotFound(err) {
			return apperr.NotFound(MessageNotFound)
		}
		return err
	}

	service.recorder.Record(context, identity.ActorLabel(),
		fmt.Sprintf("eliminó registro de horas: %q", old.Title),
		fmt.Sprintf("ID: %d", id),
	)

	service.logger.WarnContext(context, "hour_deleted", slog.Int64("hour_id", id))
	return nil
}

// owned loads a record and reports a foreign one as missing.
func (service *Service) owned(context context.Context, identity *sec.Identity, id int64) (*Hour, error) {
	hour, err := service.Get(context, id)
	if err != nil {
		return nil, err
	}
	if identity == nil || hour.UserCode != identity.UserCode {
		return nil, apperr.NotFound(MessageNotFound)
	}
	return hour, nil
}

// # Helpers

func trimInput(input Input) Input {
	input.Title = strings.TrimSpace(input.Title)
	input.StartDate = strings.TrimSpace(input.StartDate)
	input.EndDate = strings.TrimSpace(input.EndDate)
	input.RequestedBy = strings.TrimSpace(input.RequestedBy)
	input.Reason = strings.TrimSpace(input.Reason)
	if input.Extralaboral == "" {
		input.Extralaboral = ExtralaboralNo
	}
	return input
}

func parse(input Input) (time.Time, time.Time, error) {
	begin, _ := time.Parse(validate.FormDateTime, input.StartDate)
	closure, _ := time.Parse(validate.FormDateTime, input.EndDate)

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 255).
		DateTime(FieldStartDate, input.StartDate).
		DateTime(FieldEndDate, input.EndDate).
		NotBefore(FieldEndDate, closure, begin).
		MaxLen(FieldRequestedBy, input.RequestedBy, 120).
		OneOf(FieldExtralaboral, input.Extralaboral, ExtralaboralYes, ExtralaboralNo)

	if err := validator.Err(); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return begin, closure, nil
}

func span(begin, closure time.Time) float64 {
	return round2(closure.Sub(begin).Hours())
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// diff describes what input changes on old, one line per field.
func diff(old *Hour, input Input) []string {
	var changes []string

	if old.Title != input.Title {
		changes = append(changes, fmt.Sprintf("Título: %q → %q", old.Title, input.Title))
	}
	if old.TaskDescription != input.TaskDescription {
		changes = append(changes, "Descripción actualizada.")
	}
	if begin := old.DateBegin.Format(validate.FormDateTime); begin != input.StartDate {
		changes = append(changes, fmt.Sprintf("Inicio: %q → %q", begin, input.StartDate))
	}
	if closure := old.DateClosure.Format(validate.FormDateTime); closure != input.EndDate {
		changes = append(changes, fmt.Sprintf("Fin: %q → %q", closure, input.EndDate))
	}
	if old.RequestedBy != input.RequestedBy {
		changes = append(changes, fmt.Sprintf("Solicitado Por: %q → %q", old.RequestedBy, input.RequestedBy))
	}
	if old.Extralaboral != input.Extralaboral {
		changes = append(changes, fmt.Sprintf("Extralaboral: %q → %q", old.Extralaboral, input.Extralaboral))
	}
	if old.Reason != input.Reason {
		changes = append(changes, fmt.Sprintf("Razón: %q → %q", old.Reason, input.Reason))
	}

	return changes
}
