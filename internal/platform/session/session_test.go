// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
)

// # Test Doubles

type memoryStore struct {
	mu      sync.Mutex
	records map[string]session.Data
	deletes int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]session.Data)}
}

func (store *memoryStore) Load(_ context.Context, id string) (*session.Data, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	data, ok := store.records[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &data, nil
}

func (store *memoryStore) Save(_ context.Context, id string, data *session.Data, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	copied := *data
	if data.User != nil {
		user := *data.User
		copied.User = &user
	}
	store.records[id] = copied
	return nil
}

func (store *memoryStore) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.records, id)
	store.deletes++
	return nil
}

func (store *memoryStore) len() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.records)
}

func newManager(t *testing.T, store session.Store) *session.Manager {
	t.Helper()
	manager, err := session.NewManager(store, "session-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return manager
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	return nil
}

// # Tests

/*
TestManager_LoginRoundTrip stores a user on one request and reads it back on
the next through the signed cookie.
*/
func TestManager_LoginRoundTrip(t *testing.T) {
	store := newMemoryStore()
	manager := newManager(t, store)

	login := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		session.FromContext(request.Context()).SetUser(&session.User{UserCode: "EJQ001", Token: "tok", FullName: "Eduardo Jarez"})
		writer.WriteHeader(http.StatusFound)
	}))

	recorder := httptest.NewRecorder()
	login.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	cookie := sessionCookie(t, recorder)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Contains(t, cookie.Value, ".")
	assert.Equal(t, 1, store.len())

	var seen *session.User
	read := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = session.UserFromContext(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	read.ServeHTTP(recorder, request)

	require.NotNil(t, seen)
	assert.Equal(t, "EJQ001", seen.UserCode)
	assert.Equal(t, "tok", seen.Token)
	assert.Nil(t, sessionCookie(t, recorder), "an existing session is not re-issued")
}

/*
TestManager_Regenerate checks that a session fixed before login cannot be
reused after it: the record moves to a new identifier and the old one is gone.
*/
func TestManager_Regenerate(t *testing.T) {
	store := newMemoryStore()
	manager := newManager(t, store)

	visit := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		session.Flash(request.Context(), "error", "Inicia sesión")
	}))
	recorder := httptest.NewRecorder()
	visit.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/auth/login", nil))
	planted := sessionCookie(t, recorder)
	require.NotNil(t, planted)
	require.Equal(t, 1, store.len())

	var before string
	login := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		current := session.FromContext(request.Context())
		before = current.ID()
		current.Regenerate()
		current.SetUser(&session.User{UserCode: "LJP001", Token: "tok"})
		writer.WriteHeader(http.StatusFound)
	}))
	request := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	request.AddCookie(planted)
	recorder = httptest.NewRecorder()
	login.ServeHTTP(recorder, request)

	issued := sessionCookie(t, recorder)
	require.NotNil(t, issued, "a new cookie is issued")
	assert.NotEqual(t, planted.Value, issued.Value)
	assert.Equal(t, 1, store.len(), "the old record is deleted")

	_, err := store.Load(context.Background(), before)
	assert.ErrorIs(t, err, session.ErrNotFound)

	var seen *session.User
	read := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = session.UserFromContext(request.Context())
	}))

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(planted)
	read.ServeHTTP(httptest.NewRecorder(), request)
	assert.Nil(t, seen, "the pre-login cookie carries no user")

	request = httptest.NewRequest(http.MethodGet, "/", nil)
	request.AddCookie(issued)
	read.ServeHTTP(httptest.NewRecorder(), request)
	require.NotNil(t, seen)
	assert.Equal(t, "LJP001", seen.UserCode)
}

func TestManager_UntouchedSessionIsNotStored(t *testing.T) {
	store := newMemoryStore()
	manager := newManager(t, store)

	handler := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte("ok"))
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, 0, store.len())
	assert.Nil(t, sessionCookie(t, recorder))
}

/*
TestManager_TamperedCookie verifies that an unsigned or re-signed identifier
never reaches the store.
*/
func TestManager_TamperedCookie(t *testing.T) {
	store := newMemoryStore()
	store.records["01HZZZZZZZZZZZZZZZZZZZZZZZ"] = session.Data{User: &session.User{UserCode: "EJQ001"}}
	manager := newManager(t, store)

	for _, value := range []string{
		"01HZZZZZZZZZZZZZZZZZZZZZZZ",
		"01HZZZZZZZZZZZZZZZZZZZZZZZ.forged",
		".",
	} {
		var seen *session.User
		handler := manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			seen = session.UserFromContext(request.Context())
		}))

		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: value})
		handler.ServeHTTP(httptest.NewRecorder(), request)

		assert.Nil(t, seen, value)
	}
}

func TestManager_Destroy(t *testing.T) {
	store := newMemoryStore()
	manager := newManager(t, store)

	var cookie *http.Cookie
	{
		recorder := httptest.NewRecorder()
		manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			session.FromContext(request.Context()).SetUser(&session.User{UserCode: "LJP001"})
		})).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		cookie = sessionCookie(t, recorder)
		require.NotNil(t, cookie)
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	request.AddCookie(cookie)
	manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		current := session.FromContext(request.Context())
		current.Destroy()
		assert.True(t, current.Destroyed())
		http.Redirect(writer, request, "/auth/login", http.StatusFound)
	})).ServeHTTP(recorder, request)

	assert.Equal(t, 0, store.len())
	assert.Equal(t, 1, store.deletes)

	expired := sessionCookie(t, recorder)
	require.NotNil(t, expired)
	assert.Less(t, expired.MaxAge, 0)
}

func TestSession_FlashesAndFlags(t *testing.T) {
	store := newMemoryStore()
	manager := newManager(t, store)

	var cookie *http.Cookie
	recorder := httptest.NewRecorder()
	manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		current := session.FromContext(request.Context())
		current.SetUser(&session.User{UserCode: "MFD001", Token: "tok"})
		current.SetFlags(sec.Flags{OnlyView: true})
		current.AddFlash(constants.FlashError, "No tienes permiso para esta acción")
	})).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/hour/edit/1", nil))
	cookie = sessionCookie(t, recorder)
	require.NotNil(t, cookie)

	read := func() (flashes []string, user *session.User) {
		request := httptest.NewRequest(http.MethodGet, "/hour/view-hours", nil)
		request.AddCookie(cookie)
		manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current := session.FromContext(request.Context())
			flashes = current.Flashes(constants.FlashError)
			user = current.User()
		})).ServeHTTP(httptest.NewRecorder(), request)
		return flashes, user
	}

	flashes, user := read()
	assert.Equal(t, []string{"No tienes permiso para esta acción"}, flashes)
	assert.True(t, user.OnlyView)

	flashes, _ = read()
	assert.Empty(t, flashes, "flash messages are one-shot")
}

func TestSession_ClearToken(t *testing.T) {
	var empty session.Session
	empty.ClearToken()
	empty.SetFlags(sec.Flags{IsAdmin: true})
	assert.Nil(t, empty.User())
	assert.Equal(t, "", empty.Token())

	empty.SetUser(&session.User{UserCode: "EJQ001", Token: "tok", FullName: "Eduardo Jarez"})
	empty.ClearToken()
	assert.Equal(t, "", empty.Token())
	assert.Equal(t, "Eduardo Jarez", empty.User().FullName)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := session.NewManager(newMemoryStore(), "", slog.Default())
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "secret"))
}
