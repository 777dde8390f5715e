// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/middleware"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
)

var owners = map[int64]string{1: "LJP001", 2: "KVA001"}

func lookupOwner(_ context.Context, id int64) (string, error) {
	owner, ok := owners[id]
	if !ok {
		return "", apperr.NotFound("Registro no encontrado")
	}
	return owner, nil
}

// guarded mounts the guard on POST /hour/edit/{id} behind an identity for code.
func guarded(code string, override middleware.OwnerOverride, lookup middleware.OwnerLookup, reached *bool, flashes *[]string) http.Handler {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			if code != "" {
				ctx = ctxutil.WithIdentity(ctx, &sec.Identity{UserCode: code})
			}
			next.ServeHTTP(writer, request.WithContext(ctx))
			if current := session.FromContext(ctx); current != nil {
				*flashes = current.Flashes(constants.FlashError)
			}
		})
	})
	router.With(middleware.RequireOwner(lookup, override, "/hour/view-hours")).
		Post("/hour/edit/{id}", func(writer http.ResponseWriter, _ *http.Request) {
			*reached = true
			writer.WriteHeader(http.StatusNoContent)
		})
	return router
}

/*
TestRequireOwner_Invariant checks that for owner A only A may mutate, and that
every denial has the same flash and redirect.
*/
func TestRequireOwner_Invariant(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		path    string
		allowed bool
	}{
		{"owner", "LJP001", "/hour/edit/1", true},
		{"other owner's record", "KVA001", "/hour/edit/1", false},
		{"second owner", "KVA001", "/hour/edit/2", true},
		{"missing record", "LJP001", "/hour/edit/99", false},
		{"malformed id", "LJP001", "/hour/edit/abc", false},
		{"no identity", "", "/hour/edit/1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var reached bool
			var flashes []string
			handler := withSession(t, nil, guarded(tt.code, nil, lookupOwner, &reached, &flashes), nil)

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, tt.path, nil))

			assert.Equal(t, tt.allowed, reached)
			if tt.allowed {
				assert.Equal(t, http.StatusNoContent, recorder.Code)
				assert.Empty(t, flashes)
				return
			}
			assert.Equal(t, http.StatusFound, recorder.Code)
			assert.Equal(t, "/hour/view-hours", recorder.Header().Get("Location"))
			assert.Equal(t, []string{middleware.MessageNotAllowed}, flashes)
		})
	}
}

func TestRequireOwner_Override(t *testing.T) {
	isAdmin := func(identity *sec.Identity) bool { return identity.UserCode == "EJQ001" }

	var reached bool
	var flashes []string
	handler := withSession(t, nil, guarded("EJQ001", isAdmin, lookupOwner, &reached, &flashes), nil)
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/hour/edit/1", nil))

	assert.True(t, reached)
}

func TestRequireOwner_LookupFailure(t *testing.T) {
	failing := func(context.Context, int64) (string, error) { return "", errors.New("connection refused") }

	var reached bool
	var flashes []string
	recorder := httptest.NewRecorder()
	withSession(t, nil, guarded("LJP001", nil, failing, &reached, &flashes), nil).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/hour/edit/1", nil))

	assert.False(t, reached)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestRequireWriter(t *testing.T) {
	handler := middleware.RequireWriter("/control")(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))

	var flashes []string
	recorder := httptest.NewRecorder()
	readOnly := &session.User{UserCode: "MFD001", Flags: sec.Flags{OnlyView: true}}
	withSession(t, readOnly, handler, func(current *session.Session) {
		flashes = current.Flashes(constants.FlashError)
	}).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/control/create", nil))

	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/control", recorder.Header().Get("Location"))
	assert.Equal(t, []string{middleware.MessageNotAllowed}, flashes)

	recorder = httptest.NewRecorder()
	withSession(t, &session.User{UserCode: "LJP001"}, handler, nil).
		ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/control/create", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestRequireOwnerOf(t *testing.T) {
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := ctxutil.WithIdentity(request.Context(), &sec.Identity{UserCode: "KVA001"})
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	})
	router.With(middleware.RequireOwnerOf("commentId", lookupOwner, nil, "/projects")).
		Post("/projects/cartera1/{id}/comments/{commentId}/delete", func(writer http.ResponseWriter, _ *http.Request) {
			writer.WriteHeader(http.StatusNoContent)
		})
	handler := withSession(t, nil, router, nil)

	// Project 1 is owned by LJP001; the guard must look at the comment id.
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/projects/cartera1/1/comments/2/delete", nil))
	assert.Equal(t, http.StatusNoContent, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/projects/cartera1/2/comments/1/delete", nil))
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/projects", recorder.Header().Get("Location"))
}

func TestRequireAdmin(t *testing.T) {
	handler := middleware.RequireAdmin("/projects/cartera1")(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name string
		user *session.User
		want int
	}{
		{"admin", &session.User{UserCode: "EJQ001", Flags: sec.Flags{IsAdmin: true}}, http.StatusNoContent},
		{"area worker", &session.User{UserCode: "LJP001", Flags: sec.Flags{IsAreaWorker: true}}, http.StatusFound},
		{"read only", &session.User{UserCode: "MFD001", Flags: sec.Flags{OnlyView: true}}, http.StatusFound},
		{"no role", &session.User{UserCode: "ZZZ001"}, http.StatusFound},
		{"anonymous", nil, http.StatusFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var flashes []string
			recorder := httptest.NewRecorder()
			withSession(t, tc.user, handler, func(current *session.Session) {
				flashes = current.Flashes(constants.FlashError)
			}).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/projects/cartera1/create", nil))

			assert.Equal(t, tc.want, recorder.Code)
			if tc.want == http.StatusFound {
				assert.Equal(t, "/projects/cartera1", recorder.Header().Get("Location"))
				assert.Equal(t, []string{middleware.MessageNotAllowed}, flashes)
			}
		})
	}
}

func TestRequireStaff(t *testing.T) {
	handler := middleware.RequireStaff("/projects")(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name string
		user *session.User
		want int
	}{
		{"admin", &session.User{UserCode: "EJQ001", Flags: sec.Flags{IsAdmin: true}}, http.StatusNoContent},
		{"area worker", &session.User{UserCode: "LJP001", Flags: sec.Flags{IsAreaWorker: true}}, http.StatusNoContent},
		{"read only", &session.User{UserCode: "MFD001", Flags: sec.Flags{OnlyView: true}}, http.StatusFound},
		{"no role", &session.User{UserCode: "ZZZ001"}, http.StatusFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			withSession(t, tc.user, handler, nil).
				ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/projects/cartera1/1/tasks/create", nil))
			assert.Equal(t, tc.want, recorder.Code)
		})
	}
}
