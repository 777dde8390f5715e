// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascinsa/pms/internal/activity"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/directory"
	"github.com/ascinsa/pms/internal/platform/metrics"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/view"
)

// # Fakes

type memoryRepository struct {
	mu      sync.Mutex
	entries []*activity.Entry
	fail    error
	clock   time.Time
}

func (repository *memoryRepository) Append(ctx context.Context, entry *activity.Entry) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.fail != nil {
		return repository.fail
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	repository.clock = repository.clock.Add(time.Minute)
	entry.ID = int64(len(repository.entries) + 1)
	entry.CreatedAt = repository.clock
	repository.entries = append(repository.entries, entry)
	return nil
}

func (repository *memoryRepository) ListNewestFirst(context.Context) ([]*activity.Entry, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if repository.fail != nil {
		return nil, repository.fail
	}
	listed := make([]*activity.Entry, 0, len(repository.entries))
	for index := len(repository.entries) - 1; index >= 0; index-- {
		listed = append(listed, repository.entries[index])
	}
	return listed, nil
}

func (repository *memoryRepository) len() int {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	return len(repository.entries)
}

type staticRoster struct {
	roster directory.Roster
	err    error
}

func (source staticRoster) FetchRoster(context.Context) (directory.Roster, error) {
	return source.roster, source.err
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// # Recorder

/*
TestRecorder_AppendOnly performs N recordings by several actors and checks the
log grew by exactly N with the right actor labels, never shrinking.
*/
func TestRecorder_AppendOnly(t *testing.T) {
	repository := &memoryRepository{}
	recorder := activity.NewRecorder(repository, nil)

	actors := []string{"Eduardo Jarez", "LJP001", "Karla Vidal"}
	const n = 12

	previous := 0
	for index := 0; index < n; index++ {
		recorder.Record(context.Background(), actors[index%len(actors)], "editó registro de horas ID 1", "")
		assert.GreaterOrEqual(t, repository.len(), previous)
		previous = repository.len()
	}

	require.Equal(t, n, repository.len())
	for index, entry := range repository.entries {
		assert.Equal(t, actors[index%len(actors)], entry.Actor)
	}
}

/*
TestRecorder_FailureIsSwallowed verifies a failed append is counted and logged
but never reaches the caller.
*/
func TestRecorder_FailureIsSwallowed(t *testing.T) {
	repository := &memoryRepository{fail: errors.New("connection reset")}
	collector := metrics.New()
	recorder := activity.NewRecorder(repository, collector)

	var logs strings.Builder
	ctx := ctxutil.WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&logs, nil)))

	assert.NotPanics(t, func() {
		recorder.Record(ctx, "LJP001", "eliminó registro de horas: \"x\"", "ID: 3")
	})

	assert.Equal(t, 0, repository.len())
	assert.Contains(t, logs.String(), "activity_write_failed")

	expected := `
# HELP pms_activity_write_failures_total Activity log entries that could not be persisted.
# TYPE pms_activity_write_failures_total counter
pms_activity_write_failures_total 1
`
	assert.NoError(t, testutil.GatherAndCompare(collector.Registry(), strings.NewReader(expected), "pms_activity_write_failures_total"))
}

/*
TestRecorder_OutlivesCancelledRequest checks that an entry recorded after the
client went away is still appended.
*/
func TestRecorder_OutlivesCancelledRequest(t *testing.T) {
	repository := &memoryRepository{}
	recorder := activity.NewRecorder(repository, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	recorder.Record(ctx, "Luis Jara", "creó un nuevo registro de horas: \"Backup\"", "")
	require.Equal(t, 1, repository.len())
	assert.Equal(t, "Luis Jara", repository.entries[0].Actor)
}

func TestRecorder_LogAction(t *testing.T) {
	repository := &memoryRepository{}
	recorder := activity.NewRecorder(repository, nil)

	status := http.StatusCreated
	var bodySeen string
	handler := recorder.LogAction("add_task_hour")(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		raw, _ := io.ReadAll(request.Body)
		bodySeen = string(raw)
		writer.WriteHeader(status)
	}))

	call := func() {
		request := httptest.NewRequest(http.MethodPost, "/api/hours", strings.NewReader(`{"title":"Backup"}`))
		identity := &sec.Identity{UserCode: "LJP001", FullName: "Luis Jara"}
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
		handler.ServeHTTP(httptest.NewRecorder(), request)
	}

	call()
	assert.Equal(t, `{"title":"Backup"}`, bodySeen, "the handler still reads the body")
	require.Equal(t, 1, repository.len())
	assert.Equal(t, "Luis Jara", repository.entries[0].Actor, "same actor label as service writes")
	assert.Equal(t, "add_task_hour", repository.entries[0].Action)
	assert.Equal(t, `{"title":"Backup"}`, repository.entries[0].Details)

	status = http.StatusBadRequest
	call()
	assert.Equal(t, 1, repository.len(), "failed requests are not recorded")
}

// # History

/*
TestService_History groups by day, newest first, and resolves roster codes.
*/
func TestService_History(t *testing.T) {
	day1 := time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	repository := &memoryRepository{entries: []*activity.Entry{
		{ID: 1, Actor: "Eduardo Jarez", Action: "creó un nuevo ítem de control: \"Switch\"", Details: "", CreatedAt: day1},
		{ID: 2, Actor: "LJP001", Action: "eliminó registro de horas: \"Backup\"", Details: "ID: 7", CreatedAt: day1.Add(time.Hour)},
		{ID: 3, Actor: "KVA001", Action: "editó registro de horas ID 8", Details: "Descripción actualizada.", CreatedAt: day2},
	}}
	roster := directory.Roster{{UserCode: "LJP001", GivenName: "Luis", PaternalSurname: "Jara"}}

	service := activity.NewService(repository, staticRoster{roster: roster}, discard())
	days, err := service.History(context.Background())
	require.NoError(t, err)

	require.Len(t, days, 2)
	assert.Equal(t, "2026-03-10", days[0].Date)
	assert.Equal(t, []string{"KVA001 editó registro de horas ID 8: Descripción actualizada."}, days[0].Lines)

	assert.Equal(t, "2026-03-09", days[1].Date)
	assert.Equal(t, []string{
		"Luis Jara eliminó registro de horas: \"Backup\": ID: 7",
		"Eduardo Jarez creó un nuevo ítem de control: \"Switch\"",
	}, days[1].Lines)
}

func TestService_History_RosterDown(t *testing.T) {
	repository := &memoryRepository{entries: []*activity.Entry{
		{ID: 1, Actor: "LJP001", Action: "editó el ítem de control con ID 2", CreatedAt: time.Now()},
	}}

	service := activity.NewService(repository, staticRoster{err: directory.ErrUnavailable}, discard())
	days, err := service.History(context.Background())
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, []string{"LJP001 editó el ítem de control con ID 2"}, days[0].Lines)
}

func TestHandler_History(t *testing.T) {
	renderer, err := view.New()
	require.NoError(t, err)

	repository := &memoryRepository{}
	activity.NewRecorder(repository, nil).Record(context.Background(), "Eduardo Jarez", "creó un nuevo registro de horas: \"Backup\"", "Se trabajaron 2.00 horas.")

	handler := activity.NewHandler(activity.NewService(repository, staticRoster{}, discard()), renderer)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Historial de Cambios")
	assert.Contains(t, recorder.Body.String(), "Se trabajaron 2.00 horas.")

	repository.fail = errors.New("db down")
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "Error cargando el historial de cambios.", recorder.Body.String())
}
