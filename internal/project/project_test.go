// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/project"
)

// # Fakes

type memoryRepository struct {
	mu       sync.Mutex
	nextID   int64
	projects map[int64]*project.Project
	tasks    map[int64]*project.Task
	hours    []*project.TaskHour
	comments map[int64]*project.Comment
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		projects: make(map[int64]*project.Project),
		tasks:    make(map[int64]*project.Task),
		comments: make(map[int64]*project.Comment),
	}
}

func (repository *memoryRepository) id() int64 {
	repository.nextID++
	return repository.nextID
}

func (repository *memoryRepository) List(_ context.Context, category string) ([]*project.Project, error) {
	all, _ := repository.ListAll(context.Background())
	var listed []*project.Project
	for _, row := range all {
		if row.Category == category {
			listed = append(listed, row)
		}
	}
	return listed, nil
}

func (repository *memoryRepository) ListAll(context.Context) ([]*project.Project, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	listed := make([]*project.Project, 0, len(repository.projects))
	for _, row := range repository.projects {
		copied := *row
		listed = append(listed, &copied)
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].ID > listed[j].ID })
	return listed, nil
}

func (repository *memoryRepository) FindByID(_ context.Context, id int64) (*project.Project, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	row, ok := repository.projects[id]
	if !ok {
		return nil, apperr.NotFound("Recurso no encontrado")
	}
	copied := *row
	return &copied, nil
}

func (repository *memoryRepository) Create(_ context.Context, row *project.Project) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	row.ID = repository.id()
	row.CreatedAt = time.Now()
	row.UpdatedAt = row.CreatedAt
	copied := *row
	repository.projects[row.ID] = &copied
	return nil
}

func (repository *memoryRepository) Update(_ context.Context, row *project.Project) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.projects[row.ID]; !ok {
		return apperr.NotFound("Recurso no encontrado")
	}
	copied := *row
	repository.projects[row.ID] = &copied
	return nil
}

func (repository *memoryRepository) Delete(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.projects[id]; !ok {
		return apperr.NotFound("Recurso no encontrado")
	}
	delete(repository.projects, id)
	for taskID, task := range repository.tasks {
		if task.ProjectID == id {
			delete(repository.tasks, taskID)
		}
	}
	return nil
}

func (repository *memoryRepository) ListTasks(_ context.Context, projectID int64) ([]*project.Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var listed []*project.Task
	for _, task := range repository.tasks {
		if task.ProjectID == projectID {
			copied := *task
			listed = append(listed, &copied)
		}
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].ID < listed[j].ID })
	return listed, nil
}

func (repository *memoryRepository) FindTask(_ context.Context, projectID, taskID int64) (*project.Task, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	task, ok := repository.tasks[taskID]
	if !ok || task.ProjectID != projectID {
		return nil, apperr.NotFound("Recurso no encontrado")
	}
	copied := *task
	return &copied, nil
}

func (repository *memoryRepository) CreateTask(_ context.Context, task *project.Task) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	task.ID = repository.id()
	copied := *task
	repository.tasks[task.ID] = &copied
	return nil
}

func (repository *memoryRepository) UpdateTask(_ context.Context, task *project.Task) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if stored, ok := repository.tasks[task.ID]; !ok || stored.ProjectID != task.ProjectID {
		return apperr.NotFound("Recurso no encontrado")
	}
	copied := *task
	repository.tasks[task.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteTask(_ context.Context, projectID, taskID int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if task, ok := repository.tasks[taskID]; !ok || task.ProjectID != projectID {
		return apperr.NotFound("Recurso no encontrado")
	}
	delete(repository.tasks, taskID)
	return nil
}

func (repository *memoryRepository) ListTaskHours(_ context.Context, taskID int64) ([]*project.TaskHour, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var listed []*project.TaskHour
	for _, hour := range repository.hours {
		if hour.TaskID == taskID {
			copied := *hour
			listed = append(listed, &copied)
		}
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].HourStart.After(listed[j].HourStart) })
	return listed, nil
}

func (repository *memoryRepository) CreateTaskHour(_ context.Context, hour *project.TaskHour) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	hour.ID = repository.id()
	copied := *hour
	repository.hours = append(repository.hours, &copied)
	return nil
}

func (repository *memoryRepository) ListComments(_ context.Context, projectID int64) ([]*project.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	var listed []*project.Comment
	for _, comment := range repository.comments {
		if comment.ProjectID == projectID {
			copied := *comment
			listed = append(listed, &copied)
		}
	}
	sort.Slice(listed, func(i, j int) bool { return listed[i].ID < listed[j].ID })
	return listed, nil
}

func (repository *memoryRepository) FindComment(_ context.Context, id int64) (*project.Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	comment, ok := repository.comments[id]
	if !ok {
		return nil, apperr.NotFound("Recurso no encontrado")
	}
	copied := *comment
	return &copied, nil
}

func (repository *memoryRepository) CreateComment(_ context.Context, comment *project.Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	comment.ID = repository.id()
	comment.CreatedAt = time.Now()
	copied := *comment
	repository.comments[comment.ID] = &copied
	return nil
}

func (repository *memoryRepository) DeleteComment(_ context.Context, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.comments[id]; !ok {
		return apperr.NotFound("Recurso no encontrado")
	}
	delete(repository.comments, id)
	return nil
}

func (repository *memoryRepository) counts() (projects, tasks, comments int) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.projects), len(repository.tasks), len(repository.comments)
}

type entry struct{ actor, action, details string }

type fakeRecorder struct {
	mu      sync.Mutex
	entries []entry
}

func (recorder *fakeRecorder) Record(_ context.Context, actor, action, details string) {
	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	recorder.entries = append(recorder.entries, entry{actor, action, details})
}

type staticRoster struct {
	roster directory.Roster
	err    error
}

func (source staticRoster) FetchRoster(context.Context) (directory.Roster, error) {
	return source.roster, source.err
}

// # Fixtures

var (
	eduardo = &sec.Identity{UserCode: "EJQ001", FullName: "Eduardo Jarez", Area: "004"}
	luis    = &sec.Identity{UserCode: "LJP001", FullName: "Luis Jara", Area: "004"}
	karla   = &sec.Identity{UserCode: "KVA001", FullName: "Karla Vidal", Area: "004"}
)

var people = directory.Roster{
	{UserCode: "HHC001", GivenName: "Hugo", PaternalSurname: "Huamán", Area: "004", Position: "JEFE DE SISTEMAS"},
	{UserCode: "VJA001", GivenName: "Vera", PaternalSurname: "Jaime", Area: "001", Position: "GERENTE GENERAL"},
	{UserCode: "RPZ001", GivenName: "Rosa", PaternalSurname: "Paz", Area: "002", Position: "EJECUTIVO DE PROYECTOS"},
	{UserCode: "LJP001", GivenName: "Luis", PaternalSurname: "Jara", Area: "004", Position: "ANALISTA"},
	{UserCode: "KVA001", GivenName: "karla", PaternalSurname: "Vidal", Area: "004", Position: "SOPORTE"},
	{UserCode: "NNN001", GivenName: "Nadia", PaternalSurname: "Nuñez", Area: "004"},
	{UserCode: "ABC001", GivenName: "Ana", PaternalSurname: "Bravo", Area: "003", Position: "ASISTENTE"},
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newService(repository project.Repository, recorder project.Recorder, roster staticRoster) *project.Service {
	return project.NewService(repository, recorder, roster, "004", discard())
}

func migration() project.Input {
	return project.Input{
		Title:              "Migración de correo",
		Detail:             "Pasar buzones al nuevo servidor",
		Priority:           "1",
		Area:               "004",
		Applicant:          "HHC001",
		Responsible:        []string{"LJP001", " KVA001 ", "LJP001", ""},
		StartDate:          "2026-03-02",
		DueDate:            "2026-06-30",
		ProgressPercentage: "10",
	}
}

func seedProject(t *testing.T, service *project.Service) *project.Project {
	t.Helper()
	created, err := service.Create(context.Background(), eduardo, "cartera1", migration())
	require.NoError(t, err)
	return created
}

// # Projects

/*
TestService_Create verifies defaults, responsible cleanup and the audit entry
of a new project.
*/
func TestService_Create(t *testing.T) {
	repository := newMemoryRepository()
	recorder := &fakeRecorder{}
	service := newService(repository, recorder, staticRoster{roster: people})

	created, err := service.Create(context.Background(), eduardo, "CARTERA1", migration())
	require.NoError(t, err)

	assert.Equal(t, "cartera1", created.Category)
	assert.Equal(t, project.StatusPending, created.Status)
	assert.Equal(t, []string{"LJP001", "KVA001"}, created.Responsible)
	assert.Equal(t, 10, created.ProgressPercentage)
	assert.False(t, created.Prod)
	require.NotNil(t, created.StartDate)
	assert.Equal(t, "2026-03-02", created.StartDate.Format(project.DateLayout))

	require.Len(t, recorder.entries, 1)
	assert.Equal(t, entry{"Eduardo Jarez", `creó un nuevo proyecto "Migración de correo"`, "Categoría: cartera1"}, recorder.entries[0])
}

func TestService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*project.Input)
		field string
	}{
		{"missing title", func(input *project.Input) { input.Title = "  " }, project.FieldTitle},
		{"progress above range", func(input *project.Input) { input.ProgressPercentage = "120" }, project.FieldProgressPercentage},
		{"progress not a number", func(input *project.Input) { input.ProgressPercentage = "diez" }, project.FieldProgressPercentage},
		{"unknown priority", func(input *project.Input) { input.Priority = "9" }, project.FieldPriority},
		{"unknown area", func(input *project.Input) { input.Area = "999" }, project.FieldArea},
		{"bad date", func(input *project.Input) { input.DueDate = "30/06/2026" }, project.FieldDueDate},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repository := newMemoryRepository()
			recorder := &fakeRecorder{}
			service := newService(repository, recorder, staticRoster{})

			input := migration()
			tc.edit(&input)
			_, err := service.Create(context.Background(), eduardo, "cartera1", input)

			appError := apperr.As(err)
			require.NotNil(t, appError)
			require.NotEmpty(t, appError.Details)
			assert.Equal(t, tc.field, appError.Details[0].Field)

			projects, _, _ := repository.counts()
			assert.Zero(t, projects)
			assert.Empty(t, recorder.entries)
		})
	}
}

func TestService_UnknownCategory(t *testing.T) {
	service := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{})

	_, err := service.Create(context.Background(), eduardo, "cartera9", migration())
	assert.True(t, apperr.IsNotFound(err))

	_, err = service.List(context.Background(), "cartera9")
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_Get_OtherCategory(t *testing.T) {
	service := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{})
	created := seedProject(t, service)

	_, err := service.Get(context.Background(), "cartera2", created.ID)
	require.True(t, apperr.IsNotFound(err))
	assert.Equal(t, project.MessageNotFound, apperr.As(err).Message)

	found, err := service.Get(context.Background(), "cartera1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, found.Title)
}

/*
TestService_Update_RecordsChanges verifies the fields fixed at creation are
kept and that the audit entry lists each change.
*/
func TestService_Update_RecordsChanges(t *testing.T) {
	repository := newMemoryRepository()
	recorder := &fakeRecorder{}
	service := newService(repository, recorder, staticRoster{})
	created := seedProject(t, service)

	input := migration()
	input.Title = "Migración de correo corporativo"
	input.ProgressPercentage = "40"
	input.Responsible = []string{"KVA001"}
	input.StartDate = "2027-01-01"
	input.DueDate = ""
	input.Area = "001"

	updated, err := service.Update(context.Background(), eduardo, "cartera1", created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", updated.StartDate.Format(project.DateLayout))
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2026-06-30", updated.DueDate.Format(project.DateLayout))
	assert.Equal(t, "004", updated.Area)
	assert.Equal(t, project.StatusPending, updated.Status)

	require.Len(t, recorder.entries, 2)
	assert.Equal(t, entry{
		"Eduardo Jarez",
		`editó proyecto "Migración de correo corporativo"`,
		`título de "Migración de correo" a "Migración de correo corporativo"; progreso de "10" a "40"; responsables modificados`,
	}, recorder.entries[1])

	// Resubmitting the same values records nothing.
	input.Responsible = []string{"KVA001"}
	_, err = service.Update(context.Background(), eduardo, "cartera1", created.ID, input)
	require.NoError(t, err)
	assert.Len(t, recorder.entries, 2)
}

func TestService_Delete(t *testing.T) {
	repository := newMemoryRepository()
	recorder := &fakeRecorder{}
	service := newService(repository, recorder, staticRoster{})
	created := seedProject(t, service)

	require.NoError(t, service.Delete(context.Background(), eduardo, "cartera1", created.ID))

	projects, _, _ := repository.counts()
	assert.Zero(t, projects)
	require.Len(t, recorder.entries, 2)
	assert.Equal(t, entry{"Eduardo Jarez", `eliminó proyecto "Migración de correo"`, "ID del proyecto 1"}, recorder.entries[1])

	err := service.Delete(context.Background(), eduardo, "cartera1", created.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestService_ListResolvesNames(t *testing.T) {
	service := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{roster: people})
	seedProject(t, service)

	projects, err := service.List(context.Background(), "cartera1")
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Hugo Huamán", projects[0].ApplicantName)
	assert.Equal(t, "Luis Jara, karla Vidal", projects[0].ResponsibleNames)

	down := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{err: directory.ErrUnavailable})
	seedProject(t, down)

	projects, err = down.List(context.Background(), "cartera1")
	require.NoError(t, err)
	assert.Equal(t, "HHC001", projects[0].ApplicantName)
	assert.Equal(t, "LJP001, KVA001", projects[0].ResponsibleNames)
}

func TestService_People(t *testing.T) {
	service := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{roster: people})

	applicants, responsibles, err := service.People(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"HHC001", "VJA001", "RPZ001"}, codes(applicants))
	assert.Equal(t, []string{"HHC001", "LJP001", "KVA001"}, codes(responsibles), "systems area with a position")
}

func codes(roster directory.Roster) []string {
	listed := make([]string, 0, len(roster))
	for _, person := range roster {
		listed = append(listed, person.UserCode)
	}
	return listed
}

// # Tasks

func TestService_TaskLifecycle(t *testing.T) {
	repository := newMemoryRepository()
	recorder := &fakeRecorder{}
	service := newService(repository, recorder, staticRoster{})
	created := seedProject(t, service)

	task, err := service.CreateTask(context.Background(), luis, "cartera1", created.ID, project.TaskInput{
		Title:       "Inventario de buzones",
		Description: "Listar buzones activos",
		Priority:    "Alta",
		Status:      project.TaskStatusDone,
		DueDate:     "2026-04-15",
		Responsible: []string{"LJP001"},
	})
	require.NoError(t, err)
	assert.Equal(t, project.TaskStatusPending, task.Status, "new tasks start pending")
	assert.Equal(t, entry{"Luis Jara", `creó una nueva tarea "Inventario de buzones"`, "ID del proyecto: 1"}, recorder.entries[1])

	updated, err := service.UpdateTask(context.Background(), luis, "cartera1", created.ID, task.ID, project.TaskInput{
		Title:       "Ignorado",
		Priority:    "Media",
		Status:      project.TaskStatusInProgress,
		DueDate:     "2026-04-30",
		Responsible: []string{"LJP001", "KVA001"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Inventario de buzones", updated.Title, "title is fixed at creation")
	assert.Equal(t, entry{
		"Luis Jara",
		"editó tarea ID 2",
		"Prioridad de Alta a Media\n" +
			`Estado de "Pendiente" a "En progreso"` + "\n" +
			"Responsables actualizados\n" +
			`Fecha de vencimiento de "2026-04-15" a "2026-04-30"`,
	}, recorder.entries[2])

	_, err = service.UpdateTask(context.Background(), luis, "cartera1", created.ID, task.ID, project.TaskInput{Priority: "Media", Status: "Archivada"})
	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, project.FieldStatus, appError.Details[0].Field)

	require.NoError(t, service.DeleteTask(context.Background(), luis, "cartera1", created.ID, task.ID))
	assert.Equal(t, entry{"Luis Jara", `eliminó tarea "Inventario de buzones"`, "ID de la tarea: 2"}, recorder.entries[3])

	_, tasks, _ := repository.counts()
	assert.Zero(t, tasks)
}

func TestService_TaskOfAnotherProject(t *testing.T) {
	service := newService(newMemoryRepository(), &fakeRecorder{}, staticRoster{})
	first := seedProject(t, service)
	second := seedProject(t, service)

	task, err := service.CreateTask(context.Background(), luis, "cartera1", first.ID, project.TaskInput{Title: "Backup"})
	require.NoError(t, err)

	_, err = service.GetTask(context.Background(), "cartera1", second.ID, task.ID)
	require.True(t, apperr.IsNotFound(err))
	assert.Equal(t, project.MessageTaskNotFound, apperr.As(err).Message)
}

/*
TestService_AddTaskHour verifies both timestamp formats, the two-decimal span,
and that the caller owns the entry.
*/
func TestService_AddTaskHour(t *testing.T) {
	repository := newMemoryRepository()
	service := newService(repository, &fakeRecorder{}, staticRoster{})
	created := seedProject(t, service)
	task, err := service.CreateTask(context.Background(), luis, "cartera1", created.ID, project.TaskInput{Title: "Backup"})
	require.NoError(t, err)

	hour, err := service.AddTaskHour(context.Background(), karla, "cartera1", created.ID, task.ID, project.HourInput{
		HourStart: "2026-03-09T08:00",
		HourEnd:   "2026-03-09T09:20",
	})
	require.NoError(t, err)
	assert.Equal(t, 1.33, hour.HoursTaken)
	assert.Equal(t, "KVA001", hour.UserCode)

	_, err = service.AddTaskHour(context.Background(), luis, "cartera1", created.ID, task.ID, project.HourInput{
		HourStart: "2026-03-10T13:00:00Z",
		HourEnd:   "2026-03-10T15:30:00Z",
	})
	require.NoError(t, err)

	hours, err := service.TaskHours(context.Background(), "cartera1", created.ID, task.ID)
	require.NoError(t, err)
	require.Len(t, hours, 2)
	assert.Equal(t, 2.5, hours[0].HoursTaken, "latest start first")
	assert.Equal(t, "LJP001", hours[0].UserCode)

	for name, input := range map[string]project.HourInput{
		"end before start": {HourStart: "2026-03-09T10:00", HourEnd: "2026-03-09T09:00"},
		"missing end":      {HourStart: "2026-03-09T10:00"},
		"bad start":        {HourStart: "ayer", HourEnd: "2026-03-09T09:00"},
	} {
		_, err := service.AddTaskHour(context.Background(), luis, "cartera1", created.ID, task.ID, input)
		appError := apperr.As(err)
		require.NotNil(t, appError, name)
		assert.Equal(t, "VALIDATION_ERROR", appError.Code, name)
	}
}

// # Comments

func TestService_Comments(t *testing.T) {
	repository := newMemoryRepository()
	recorder := &fakeRecorder{}
	service := newService(repository, recorder, staticRoster{roster: people})
	created := seedProject(t, service)
	other := seedProject(t, service)

	_, err := service.AddComment(context.Background(), karla, "cartera1", created.ID, "   ")
	require.NotNil(t, apperr.As(err))
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)

	first, err := service.AddComment(context.Background(), karla, "cartera1", created.ID, "Listo el inventario")
	require.NoError(t, err)
	_, err = service.AddComment(context.Background(), &sec.Identity{UserCode: "XYZ009"}, "cartera1", created.ID, "Visto")
	require.NoError(t, err)

	detail, err := service.Detail(context.Background(), "cartera1", created.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "karla Vidal", detail.Comments[0].DisplayName)
	assert.Equal(t, "K", detail.Comments[0].Initial)
	assert.Equal(t, "XYZ009", detail.Comments[1].DisplayName)
	assert.Equal(t, "X", detail.Comments[1].Initial)

	author, err := service.CommentAuthor(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, "KVA001", author)

	err = service.DeleteComment(context.Background(), eduardo, "cartera1", other.ID, first.ID)
	assert.True(t, apperr.IsNotFound(err), "comment of another project")

	entries := len(recorder.entries)
	require.NoError(t, service.DeleteComment(context.Background(), eduardo, "cartera1", created.ID, first.ID))
	require.Len(t, recorder.entries, entries+1)
	assert.Equal(t, entry{"Eduardo Jarez", "eliminó comentario ID 3", "ID del proyecto: 1"}, recorder.entries[entries])
}
