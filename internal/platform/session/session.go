// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session keeps the server-side half of a login: the directory profile,
the issued token, the derived role flags and one-shot flash messages.

Records live in a [Store] keyed by an opaque identifier. The identifier
travels in the `sessionId` cookie, signed with the session secret so the
server only loads identifiers it minted.

Lifecycle:

  - [Manager.Middleware] loads (or prepares) the session for every request.
  - Handlers mutate it through [Session] methods, which mark it dirty.
  - Dirty sessions are persisted right before the first response byte.
  - [Session.Regenerate] moves the record to a new identifier.
  - [Session.Destroy] removes the record and expires the cookie.
*/
package session

import (
	"context"

	"github.com/ascinsa/pms/internal/platform/ctxkey"
	"github.com/ascinsa/pms/internal/platform/sec"
)

// # Session User

// User is the session-held view of a logged-in person.
//
// Token is authoritative for nothing: authentication always re-derives the
// identity from the token itself. Flags are trusted for rendering and for the
// read-only gate.
type User struct {
	UserCode        string `json:"cod_ascinsa"`
	GivenName       string `json:"pnombre"`
	PaternalSurname string `json:"apaterno"`
	MaternalSurname string `json:"amaterno,omitempty"`
	Area            string `json:"area"`
	Position        string `json:"puesto"`

	// Profile holds every other directory field returned at login.
	Profile map[string]any `json:"profile,omitempty"`

	Token    string `json:"token,omitempty"`
	FullName string `json:"fullName"`

	sec.Flags
}

// Data is the persisted shape of a session.
type Data struct {
	User  *User               `json:"user,omitempty"`
	Flash map[string][]string `json:"flash,omitempty"`
}

// # Session Handle

// Session is the per-request handle on a session record. It is not safe for
// concurrent use; a request owns its handle.
type Session struct {
	id        string
	data      Data
	isNew     bool
	dirty     bool
	destroyed bool

	// regenerate asks commit for a fresh identifier.
	regenerate bool
}

func newSession(id string, data *Data, isNew bool) *Session {
	session := &Session{id: id, isNew: isNew}
	if data != nil {
		session.data = *data
	}
	return session
}

// ID returns the unsigned session identifier.
func (session *Session) ID() string { return session.id }

// User returns the session user, or nil before login.
func (session *Session) User() *User { return session.data.User }

// SetUser replaces the session user.
func (session *Session) SetUser(user *User) {
	session.data.User = user
	session.dirty = true
}

// Token returns the session-stored token, if any.
func (session *Session) Token() string {
	if session.data.User == nil {
		return ""
	}
	return session.data.User.Token
}

// ClearToken removes the token from the session user and leaves the rest of
// the profile in place.
func (session *Session) ClearToken() {
	if session.data.User == nil || session.data.User.Token == "" {
		return
	}
	session.data.User.Token = ""
	session.dirty = true
}

// SetFlags stores role flags on the session user. A session without a user
// is left untouched.
func (session *Session) SetFlags(flags sec.Flags) {
	if session.data.User == nil || session.data.User.Flags == flags {
		return
	}
	session.data.User.Flags = flags
	session.dirty = true
}

// AddFlash queues a one-shot message under kind ("success", "error").
func (session *Session) AddFlash(kind, message string) {
	if session.data.Flash == nil {
		session.data.Flash = make(map[string][]string)
	}
	session.data.Flash[kind] = append(session.data.Flash[kind], message)
	session.dirty = true
}

// Flashes returns and removes the queued messages of kind.
func (session *Session) Flashes(kind string) []string {
	messages := session.data.Flash[kind]
	if len(messages) == 0 {
		return nil
	}
	delete(session.data.Flash, kind)
	session.dirty = true
	return messages
}

// Regenerate keeps the data but moves it to a fresh identifier on commit. The
// old record is deleted and the cookie reissued. Call it whenever privilege
// changes, such as at login.
func (session *Session) Regenerate() {
	session.regenerate = true
	session.dirty = true
}

// Destroy marks the session for deletion. The record is removed and the
// cookie expired when the response is committed.
func (session *Session) Destroy() {
	session.data = Data{}
	session.destroyed = true
}

// Destroyed reports whether Destroy was called.
func (session *Session) Destroyed() bool { return session.destroyed }

// # Context

// NewContext returns a copy of ctx carrying session.
func NewContext(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, session)
}

// FromContext returns the request session, or nil outside [Manager.Middleware].
func FromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(ctxkey.KeySession).(*Session)
	return session
}

// Flash queues a one-shot message on the request session, if any.
func Flash(ctx context.Context, kind, message string) {
	if session := FromContext(ctx); session != nil {
		session.AddFlash(kind, message)
	}
}

// UserFromContext returns the session user, or nil.
func UserFromContext(ctx context.Context) *User {
	if session := FromContext(ctx); session != nil {
		return session.User()
	}
	return nil
}
