// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/middleware"
)

/*
TestRequestID verifies that a request ID is generated or preserved.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	// 1. Generated
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get("X-Request-ID"))

	// 2. Preserved
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "upstream-id")
	handler.ServeHTTP(httptest.NewRecorder(), request)
	assert.Equal(t, "upstream-id", seen)
}

func TestStructuredLogger_RecordsUserCode(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	handler := middleware.StructuredLogger(logger)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctxutil.GetTrace(request.Context()).UserCode = "LJP001"
		writer.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/control", nil))

	assert.Contains(t, buffer.String(), `"msg":"http_request_finished"`)
	assert.Contains(t, buffer.String(), `"user_code":"LJP001"`)
	assert.Contains(t, buffer.String(), `"status":418`)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/control", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "Something went wrong!", recorder.Body.String())

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/hours", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}

/*
TestIPLimiter exhausts the burst of one IP while another stays unaffected.
*/
func TestIPLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	limiter := middleware.NewIPLimiter(ctx, 0.001, 2)
	handler := limiter.Middleware(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNoContent)
	}))

	call := func(ip, path string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(http.MethodPost, path, nil)
		request.RemoteAddr = ip + ":40000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		return recorder
	}

	assert.Equal(t, http.StatusNoContent, call("10.0.0.1", "/auth/login").Code)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.1", "/auth/login").Code)

	throttled := call("10.0.0.1", "/auth/login")
	assert.Equal(t, http.StatusTooManyRequests, throttled.Code)
	assert.NotEmpty(t, throttled.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1", "/api/hours").Code)
	assert.Equal(t, http.StatusNoContent, call("10.0.0.2", "/auth/login").Code)
}

/*
TestRealIP checks that forwarding headers are ignored unless the peer is a
configured proxy.
*/
func TestRealIP(t *testing.T) {
	trusted, err := middleware.ParseTrustedProxies([]string{"10.0.0.0/8", " ", "192.0.2.1"})
	require.NoError(t, err)
	require.Len(t, trusted, 2)

	var seen string
	handler := middleware.TrustProxies(trusted)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
		seen = middleware.RealIP(request)
	}))

	call := func(remote string, headers map[string]string) string {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = remote
		for name, value := range headers {
			request.Header.Set(name, value)
		}
		handler.ServeHTTP(httptest.NewRecorder(), request)
		return seen
	}

	// Direct clients cannot choose their address.
	assert.Equal(t, "198.51.100.9", call("198.51.100.9:5555", nil))
	assert.Equal(t, "198.51.100.9", call("198.51.100.9:5555", map[string]string{"X-Real-IP": "203.0.113.7"}))
	assert.Equal(t, "198.51.100.9", call("198.51.100.9:5555", map[string]string{"X-Forwarded-For": "203.0.113.7"}))

	// Behind a trusted proxy the first untrusted hop from the right wins.
	assert.Equal(t, "203.0.113.7", call("10.1.2.3:443", map[string]string{"X-Forwarded-For": "1.1.1.1, 203.0.113.7, 10.0.0.5"}))
	assert.Equal(t, "198.51.100.2", call("192.0.2.1:443", map[string]string{"X-Real-IP": "198.51.100.2"}))
	assert.Equal(t, "10.1.2.3", call("10.1.2.3:443", map[string]string{"X-Forwarded-For": "not-an-ip"}))

	_, err = middleware.ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)
}

func TestRealIP_NoProxies(t *testing.T) {
	handler := middleware.TrustProxies(nil)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(middleware.RealIP(request)))
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.10:5555"
	request.Header.Set("X-Real-IP", "198.51.100.2")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "192.0.2.10", recorder.Body.String())
}

/*
TestCanonicalPath sends every non-canonical path to its canonical form before
any guard sees it.
*/
func TestCanonicalPath(t *testing.T) {
	var reached []string
	handler := middleware.CanonicalPath(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reached = append(reached, request.URL.Path)
		writer.WriteHeader(http.StatusNoContent)
	}))

	redirects := []struct {
		method   string
		target   string
		status   int
		location string
	}{
		{http.MethodGet, "//docs", http.StatusMovedPermanently, "/docs"},
		{http.MethodGet, "/./hour/view-hours?page=2", http.StatusMovedPermanently, "/hour/view-hours?page=2"},
		{http.MethodGet, "/api/../docs", http.StatusMovedPermanently, "/docs"},
		{http.MethodGet, "//changelog", http.StatusMovedPermanently, "/changelog"},
		{http.MethodPost, "/hour//create-hour", http.StatusPermanentRedirect, "/hour/create-hour"},
	}
	for _, tt := range redirects {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(tt.method, tt.target, nil))
		assert.Equal(t, tt.status, recorder.Code, tt.target)
		assert.Equal(t, tt.location, recorder.Header().Get("Location"), tt.target)
	}
	assert.Empty(t, reached)

	for _, target := range []string{"/", "/docs", "/hour/", "/control/edit/3"} {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusNoContent, recorder.Code, target)
	}
	assert.Equal(t, []string{"/", "/docs", "/hour/", "/control/edit/3"}, reached)

	assert.Equal(t, "/docs", middleware.CanonicalizePath("docs"))
	assert.Equal(t, "/", middleware.CanonicalizePath(""))
	assert.Equal(t, "/", middleware.CanonicalizePath("/../.."))
}
