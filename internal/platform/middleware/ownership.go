// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
)

// MessageNotAllowed is flashed when a guard turns a mutation away.
const MessageNotAllowed = "No tienes permiso para esta acción"

// # Ownership Guard

// OwnerLookup returns the recorded owner code of the resource with id.
// A missing resource must be reported as an apperr NOT_FOUND.
type OwnerLookup func(context context.Context, id int64) (string, error)

// OwnerOverride lets an identity mutate records it does not own.
type OwnerOverride func(identity *sec.Identity) bool

/*
RequireOwner lets a request through only when the authenticated user code
equals the owner code recorded on the resource named by the `id` URL param.

A malformed id, a missing resource and an owner mismatch are all denied the
same way: an error flash and a redirect to fallback. override may be nil.
*/
func RequireOwner(lookup OwnerLookup, override OwnerOverride, fallback string) func(http.Handler) http.Handler {
	return RequireOwnerOf("id", lookup, override, fallback)
}

// RequireOwnerOf is [RequireOwner] for a resource named by the param URL param.
func RequireOwnerOf(param string, lookup OwnerLookup, override OwnerOverride, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())
			if identity == nil {
				deny(writer, request, fallback)
				return
			}

			if override != nil && override(identity) {
				next.ServeHTTP(writer, request)
				return
			}

			id, err := requestutil.ID(request, param)
			if err != nil {
				deny(writer, request, fallback)
				return
			}

			owner, err := lookup(request.Context(), id)
			if err != nil {
				if !apperr.IsNotFound(err) {
					respond.ServerError(writer, request, err, "Error al verificar el propietario")
					return
				}
				deny(writer, request, fallback)
				return
			}

			if owner != identity.UserCode {
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "ownership_denied",
					slog.Int64("resource_id", id),
					slog.String("user_code", identity.UserCode),
				)
				deny(writer, request, fallback)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Read-Only Guard

// RequireWriter turns away session users flagged read-only.
func RequireWriter(fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if user := session.UserFromContext(request.Context()); user != nil && user.OnlyView {
				deny(writer, request, fallback)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

// # Role Guards

// RequireAdmin lets only admins through.
func RequireAdmin(fallback string) func(http.Handler) http.Handler {
	return requireFlags(func(flags sec.Flags) bool { return flags.IsAdmin }, fallback)
}

// RequireStaff lets admins and systems area workers through, unless flagged
// read-only.
func RequireStaff(fallback string) func(http.Handler) http.Handler {
	return requireFlags(func(flags sec.Flags) bool {
		return (flags.IsAdmin || flags.IsAreaWorker) && !flags.OnlyView
	}, fallback)
}

func requireFlags(allowed func(flags sec.Flags) bool, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user := session.UserFromContext(request.Context())
			if user == nil || !allowed(user.Flags) {
				code := ""
				if user != nil {
					code = user.UserCode
				}
				ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "role_denied",
					slog.String("user_code", code),
					slog.String("path", request.URL.Path),
				)
				deny(writer, request, fallback)
				return
			}
			next.ServeHTTP(writer, request)
		})
	}
}

func deny(writer http.ResponseWriter, request *http.Request, fallback string) {
	if current := session.FromContext(request.Context()); current != nil {
		current.AddFlash(constants.FlashError, MessageNotAllowed)
	}
	respond.Redirect(writer, request, fallback)
}
