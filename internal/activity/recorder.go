// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/metrics"
)

// maxLoggedBody bounds the request body copied into an entry by [Recorder.LogAction].
const maxLoggedBody = 64 << 10

// Recorder appends audit entries. It never reports failure to its caller.
type Recorder struct {
	repo    Repository
	metrics *metrics.Metrics
}

func NewRecorder(repo Repository, metrics *metrics.Metrics) *Recorder {
	return &Recorder{repo: repo, metrics: metrics}
}

// Record appends one entry for actor. It is called after the business write
// has succeeded; a failed append is logged and counted, and the caller goes on.
// The append outlives a cancelled request.
func (recorder *Recorder) Record(ctx context.Context, actor, action, details string) {
	entry := &Entry{Actor: actor, Action: action, Details: details}

	if err := recorder.repo.Append(context.WithoutCancel(ctx), entry); err != nil {
		recorder.metrics.AuditWriteFailed()
		ctxutil.GetLogger(ctx).ErrorContext(ctx, "activity_write_failed",
			slog.String("actor", actor),
			slog.String("action", action),
			slog.String("error", err.Error()),
		)
	}
}

// # HTTP

type statusCapture struct {
	http.ResponseWriter
	status int
}

func (capture *statusCapture) WriteHeader(code int) {
	if capture.status == 0 {
		capture.status = code
	}
	capture.ResponseWriter.WriteHeader(code)
}

func (capture *statusCapture) Write(body []byte) (int, error) {
	if capture.status == 0 {
		capture.status = http.StatusOK
	}
	return capture.ResponseWriter.Write(body)
}

func (capture *statusCapture) Unwrap() http.ResponseWriter {
	return capture.ResponseWriter
}

/*
LogAction records action for the authenticated user with the request body
as details, once the wrapped handler has answered with a non-error status.

The body is buffered and handed on untouched to the handler.
*/
func (recorder *Recorder) LogAction(action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			var body []byte
			if request.Body != nil {
				body, _ = io.ReadAll(io.LimitReader(request.Body, maxLoggedBody))
				request.Body = io.NopCloser(bytes.NewReader(body))
			}

			capture := &statusCapture{ResponseWriter: writer}
			next.ServeHTTP(capture, request)

			if capture.status >= http.StatusBadRequest {
				return
			}

			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				return
			}

			details := strings.TrimSpace(string(body))
			if details == "" {
				details = "{}"
			}
			recorder.Record(request.Context(), identity.ActorLabel(), action, details)
		})
	}
}
