// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ascinsa/pms/internal/platform/apperr"
	"github.com/ascinsa/pms/internal/platform/constants"
	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/session"
	"github.com/ascinsa/pms/internal/platform/view"
)

// # Definitions & Constructors

// Handler implements the login and logout pages.
type Handler struct {
	authService  *Service
	renderer     *view.Renderer
	secureCookie bool

	// throttle guards credential submissions; nil disables it.
	throttle func(http.Handler) http.Handler
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, renderer *view.Renderer, secureCookie bool, throttle func(http.Handler) http.Handler) *Handler {
	return &Handler{authService: service, renderer: renderer, secureCookie: secureCookie, throttle: throttle}
}

// RegisterRoutes mounts the handler under /auth.
//
// # Endpoints
//   - GET  /login  : Login form.
//   - POST /login  : Verifies credentials and opens the session.
//   - GET  /logout : Destroys the session.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/login", handler.showLogin)

	submit := router
	if handler.throttle != nil {
		submit = router.With(handler.throttle)
	}
	submit.Post("/login", handler.login)

	router.Get("/logout", handler.logout)
}

func (handler *Handler) showLogin(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, view.PageLogin, view.Data{
		"Title":    "Iniciar Sesión",
		"Error":    "",
		"Username": "",
	})
}

/*
Login opens a session.

POST /auth/login

Request:
  - Form: username, password

Response:
  - 302 to "/" with the session user and the token cookie set.
  - The form again with the error message otherwise.
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	form, err := requestutil.Form(request)
	if err != nil {
		handler.renderError(writer, request, "", err)
		return
	}

	username := strings.TrimSpace(requestutil.Value(form, "username"))
	password := request.PostFormValue("password")

	user, err := handler.authService.Login(request.Context(), username, password)
	if err != nil {
		handler.renderError(writer, request, username, err)
		return
	}

	if current := session.FromContext(request.Context()); current != nil {
		current.Regenerate()
		current.SetUser(user)
	}
	http.SetCookie(writer, session.TokenCookie(user.Token, handler.secureCookie))

	respond.Redirect(writer, request, constants.PathHome)
}

func (handler *Handler) renderError(writer http.ResponseWriter, request *http.Request, username string, err error) {
	appError := apperr.As(err)
	if appError == nil {
		appError = apperr.Upstream(err)
	}

	handler.renderer.Render(writer, request, appError.HTTPStatus, view.PageLogin, view.Data{
		"Title":    "Iniciar Sesión",
		"Error":    appError.Message,
		"Username": username,
	})
}

/*
Logout destroys the session, then clears the token cookie, then sends the
browser to the login page.

GET /auth/logout
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if current := session.FromContext(request.Context()); current != nil {
		current.Destroy()
	}
	http.SetCookie(writer, session.ClearedTokenCookie(handler.secureCookie))

	respond.Redirect(writer, request, constants.PathLogin)
}
