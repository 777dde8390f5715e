// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// # Safety
//
// It is used to store and retrieve per-request values (identity, session,
// request ID, logger). Using a private, unexported type for keys prevents
// collisions with third-party packages that might also use context for storage.
package ctxkey

// key is an unexported type used for context keys to ensure type safety.
type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyIdentity is the context key for the verified [sec.Identity].
	KeyIdentity key = "identity"

	// KeySession is the context key for the loaded server-side session.
	KeySession key = "session"

	// KeyViewUser is the context key for the session user republished for views.
	KeyViewUser key = "view_user"

	// KeyTrace is the context key for the mutable per-request trace record.
	KeyTrace key = "trace"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"
)
