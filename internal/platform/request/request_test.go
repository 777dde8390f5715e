// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/sec"
)

func withParam(request *http.Request, key, value string) *http.Request {
	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add(key, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
}

func TestID(t *testing.T) {
	request := withParam(httptest.NewRequest(http.MethodGet, "/hour/view/42", nil), "id", "42")
	id, err := requestutil.ID(request, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"abc", "0", "-1", ""} {
		request := withParam(httptest.NewRequest(http.MethodGet, "/hour/view/x", nil), "id", bad)
		_, err := requestutil.ID(request, "id")
		assert.True(t, apperr.IsNotFound(err), bad)
	}
}

func TestForm_JoinedValue(t *testing.T) {
	body := url.Values{
		"requirement":    {"  Cambio de UPS  "},
		"responsible_ti": {"KVA001", "", "LJP001"},
	}
	request := httptest.NewRequest(http.MethodPost, "/control/create", strings.NewReader(body.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	form, err := requestutil.Form(request)
	require.NoError(t, err)

	assert.Equal(t, "Cambio de UPS", requestutil.Value(form, "requirement"))
	assert.Equal(t, "KVA001,LJP001", requestutil.JoinedValue(form, "responsible_ti"))
	assert.Equal(t, "", requestutil.Value(form, "missing"))
}

func TestRequiredIdentity(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/protected", nil)

	_, err := requestutil.RequiredIdentity(request)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	identity := &sec.Identity{UserCode: "EJQ001"}
	request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
	got, err := requestutil.RequiredIdentity(request)
	require.NoError(t, err)
	assert.Same(t, identity, got)
}
