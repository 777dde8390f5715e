// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
)

// # Fixtures

type discardStore struct{}

func (discardStore) Load(context.Context, string) (*session.Data, error) {
	return nil, session.ErrNotFound
}
func (discardStore) Save(context.Context, string, *session.Data, time.Duration) error { return nil }
func (discardStore) Delete(context.Context, string) error                             { return nil }

var systemsPolicy = sec.AreaPolicy{
	SuperAdminCode: "EJQ001",
	SystemsArea:    "004",
	Prefixes:       []string{"/projects", "/hour", "/docs", "/changelog"},
}

func newTokens(t *testing.T, now func() time.Time) *sec.TokenService {
	t.Helper()
	service, err := sec.NewTokenService("jwt-secret", constants.AuthIssuer, constants.TokenTTL, sec.WithClock(now))
	require.NoError(t, err)
	return service
}

func issue(t *testing.T, tokens *sec.TokenService, code, area string) string {
	t.Helper()
	token, _, err := tokens.Issue(sec.TokenPayload{UserCode: code, GivenName: "Test", PaternalSurname: code, Area: area})
	require.NoError(t, err)
	return token
}

// withSession runs next inside a fresh session seeded with user, and hands the
// session to inspect once the request is done.
func withSession(t *testing.T, user *session.User, next http.Handler, inspect func(*session.Session)) http.Handler {
	t.Helper()
	manager, err := session.NewManager(discardStore{}, "session-secret", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return manager.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		current := session.FromContext(request.Context())
		if user != nil {
			copied := *user
			current.SetUser(&copied)
		}
		next.ServeHTTP(writer, request)
		if inspect != nil {
			inspect(current)
		}
	}))
}

func tokenCookie(recorder *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.TokenCookieName {
			return cookie
		}
	}
	return nil
}
