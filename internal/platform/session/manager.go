// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
)

// Manager binds a [Store] to HTTP requests through the `sessionId` cookie.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	secure bool
	logger *slog.Logger

	now func() time.Time
}

// Option configures a [Manager].
type Option func(*Manager)

// WithSecureCookie sets the Secure attribute on the session cookie.
func WithSecureCookie(secure bool) Option {
	return func(manager *Manager) { manager.secure = secure }
}

// WithTTL overrides the record lifetime in the store.
func WithTTL(ttl time.Duration) Option {
	return func(manager *Manager) {
		if ttl > 0 {
			manager.ttl = ttl
		}
	}
}

// NewManager creates a session manager. secret signs the cookie value.
func NewManager(store Store, secret string, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, errors.New("session: secret must not be empty")
	}

	manager := &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    constants.DefaultSessionTTL,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(manager)
	}

	return manager, nil
}

// # Middleware

// Middleware loads the session named by the cookie, or prepares a fresh one,
// and persists changes before the response is written.
func (manager *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		session := manager.load(request)

		committing := &commitWriter{
			ResponseWriter: writer,
			commit:         func() { manager.commit(writer, request, session) },
		}

		next.ServeHTTP(committing, request.WithContext(NewContext(request.Context(), session)))

		// Handlers that never wrote still need their changes stored.
		committing.once.Do(committing.commit)
	})
}

func (manager *Manager) load(request *http.Request) *Session {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil {
		return newSession(manager.newID(), nil, true)
	}

	id, ok := manager.unsign(cookie.Value)
	if !ok {
		ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_cookie_rejected")
		return newSession(manager.newID(), nil, true)
	}

	data, err := manager.store.Load(request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "session_load_failed",
				slog.Any("error", err),
			)
		}
		return newSession(manager.newID(), nil, true)
	}

	return newSession(id, data, false)
}

// commit runs exactly once per request, before the first byte of the body.
func (manager *Manager) commit(writer http.ResponseWriter, request *http.Request, session *Session) {
	logger := ctxutil.GetLogger(request.Context())

	if session.destroyed {
		if !session.isNew {
			if err := manager.store.Delete(request.Context(), session.id); err != nil {
				logger.ErrorContext(request.Context(), "session_delete_failed", slog.Any("error", err))
			}
		}
		http.SetCookie(writer, manager.cookie("", -1))
		return
	}

	if !session.dirty {
		return
	}

	previous := ""
	if session.regenerate {
		if !session.isNew {
			previous = session.id
		}
		session.id = manager.newID()
		session.isNew = true
		session.regenerate = false
	}

	if err := manager.store.Save(request.Context(), session.id, &session.data, manager.ttl); err != nil {
		logger.ErrorContext(request.Context(), "session_save_failed", slog.Any("error", err))
		return
	}
	session.dirty = false

	if previous != "" {
		if err := manager.store.Delete(request.Context(), previous); err != nil {
			logger.ErrorContext(request.Context(), "session_delete_failed", slog.Any("error", err))
		}
	}

	if session.isNew {
		http.SetCookie(writer, manager.cookie(manager.sign(session.id), 0))
		session.isNew = false
	}
}

// # Cookie

func (manager *Manager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   manager.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// newID returns a sortable identifier with 80 bits of crypto/rand entropy.
func (manager *Manager) newID() string {
	return ulid.MustNew(ulid.Timestamp(manager.now()), rand.Reader).String()
}

func (manager *Manager) sign(id string) string {
	return id + "." + manager.mac(id)
}

func (manager *Manager) unsign(value string) (string, bool) {
	id, signature, found := strings.Cut(value, ".")
	if !found || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(signature), []byte(manager.mac(id))) {
		return "", false
	}
	return id, true
}

func (manager *Manager) mac(id string) string {
	hash := hmac.New(sha256.New, manager.secret)
	hash.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(hash.Sum(nil))
}

// # Response Writer

// commitWriter runs commit before the wrapped writer sends headers.
type commitWriter struct {
	http.ResponseWriter
	commit func()
	once   sync.Once
}

func (writer *commitWriter) WriteHeader(statusCode int) {
	writer.once.Do(writer.commit)
	writer.ResponseWriter.WriteHeader(statusCode)
}

func (writer *commitWriter) Write(body []byte) (int, error) {
	writer.once.Do(writer.commit)
	return writer.ResponseWriter.Write(body)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (writer *commitWriter) Unwrap() http.ResponseWriter {
	return writer.ResponseWriter
}
