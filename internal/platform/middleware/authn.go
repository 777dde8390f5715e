// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	"github.com/ascinsa/pms/internal/platform/metrics"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/sec"
	"github.com/ascinsa/pms/internal/platform/session"
	"github.com/ascinsa/pms/internal/platform/view"
)

// TokenVerifier defines the interface for validating identity tokens.
// Implemented by sec.TokenService.
type TokenVerifier interface {
	VerifyToken(token string) (*sec.Identity, error)
}

// Rejection causes, used as the auth_rejected metric label.
const (
	CauseMissing = "missing"
	CauseInvalid = "invalid"
	CauseExpired = "expired"
)

// # Token Carriers

// Carrier finds a candidate token in one place of the request. An empty
// result means "not present here, try the next carrier".
type Carrier struct {
	Name string
	Find func(request *http.Request) string
}

// CookieCarrier reads the `token` cookie.
func CookieCarrier() Carrier {
	return Carrier{Name: "cookie", Find: func(request *http.Request) string {
		cookie, err := request.Cookie(constants.TokenCookieName)
		if err != nil {
			return ""
		}
		return cookie.Value
	}}
}

// BearerCarrier reads `Authorization: Bearer <token>`.
func BearerCarrier() Carrier {
	return Carrier{Name: "bearer", Find: func(request *http.Request) string {
		header := request.Header.Get(constants.HeaderAuthorization)
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}}
}

// SessionCarrier reads the token kept on the session user.
func SessionCarrier() Carrier {
	return Carrier{Name: "session", Find: func(request *http.Request) string {
		if current := session.FromContext(request.Context()); current != nil {
			return current.Token()
		}
		return ""
	}}
}

// DefaultCarriers returns the lookup order: cookie, then bearer header, then session.
func DefaultCarriers() []Carrier {
	return []Carrier{CookieCarrier(), BearerCarrier(), SessionCarrier()}
}

// LocateToken walks carriers in order and returns the first non-empty token
// and the name of the carrier that held it.
func LocateToken(request *http.Request, carriers []Carrier) (string, string) {
	for _, carrier := range carriers {
		if token := carrier.Find(request); token != "" {
			return token, carrier.Name
		}
	}
	return "", ""
}

// # Authentication

// AuthOptions configures [Authenticate].
type AuthOptions struct {
	Verifier TokenVerifier
	Policy   sec.AreaPolicy

	// Carriers defaults to [DefaultCarriers] when empty.
	Carriers []Carrier

	SecureCookie bool
	Metrics      *metrics.Metrics
}

/*
Authenticate re-derives the identity from a token on every request.

Flow:
 1. Locate the token through the carrier list.
 2. Verify signature and expiry.
 3. Publish the identity into the context.
 4. Turn away identities outside the systems area from the restricted prefixes.

Every rejection (missing, invalid, expired) has the same side effects: the
token cookie is cleared, the session token is dropped, and the client is sent
to the login page, or answered 401 on API routes.
*/
func Authenticate(options AuthOptions) func(http.Handler) http.Handler {
	carriers := options.Carriers
	if len(carriers) == 0 {
		carriers = DefaultCarriers()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token, carrier := LocateToken(request, carriers)
			if token == "" {
				reject(writer, request, options, CauseMissing)
				return
			}

			identity, err := options.Verifier.VerifyToken(token)
			if err != nil {
				cause := CauseInvalid
				if errors.Is(err, sec.ErrTokenExpired) {
					cause = CauseExpired
				}
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(), "token_rejected",
					slog.String("carrier", carrier),
					slog.String("cause", cause),
				)
				reject(writer, request, options, cause)
				return
			}

			if trace := ctxutil.GetTrace(request.Context()); trace != nil {
				trace.UserCode = identity.UserCode
			}

			if options.Policy.Blocks(identity, CanonicalizePath(request.URL.Path)) {
				respond.Redirect(writer, request, constants.PathHome)
				return
			}

			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func reject(writer http.ResponseWriter, request *http.Request, options AuthOptions, cause string) {
	http.SetCookie(writer, session.ClearedTokenCookie(options.SecureCookie))
	if current := session.FromContext(request.Context()); current != nil {
		current.ClearToken()
	}
	options.Metrics.AuthRejected(cause)

	if IsAPIRequest(request) {
		respond.Error(writer, request, apperr.Unauthorized("Autenticación requerida"))
		return
	}
	respond.Redirect(writer, request, constants.PathLogin)
}

// # Session Gate

var (
	publicPaths = map[string]struct{}{
		constants.PathLogin:  {},
		constants.PathLogout: {},
		"/favicon.ico":       {},
		"/health":            {},
		"/ready":             {},
		"/metrics":           {},
	}
	publicPrefixes = []string{"/css/", "/js/", "/img/", "/vendor/", apiPrefix}
)

// IsPublicPath reports whether path bypasses the session gate. The path is
// canonicalized first.
func IsPublicPath(path string) bool {
	path = CanonicalizePath(path)
	if _, ok := publicPaths[path]; ok {
		return true
	}
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequireSession sends requests without a session user to the login page,
// except for the public paths.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if IsPublicPath(request.URL.Path) || session.UserFromContext(request.Context()) != nil {
			next.ServeHTTP(writer, request)
			return
		}
		respond.Redirect(writer, request, constants.PathLogin)
	})
}

// # Role Derivation

// DeriveRoles recomputes the role flags of the session user from its code
// and republishes the user for the views. Without a session user it only
// publishes nil.
func DeriveRoles(table *sec.RoleTable) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			current := session.FromContext(request.Context())

			var user *session.User
			if current != nil {
				if user = current.User(); user != nil {
					current.SetFlags(table.Derive(user.UserCode))
				}
			}

			ctx := view.WithUser(request.Context(), user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
