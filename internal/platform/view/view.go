// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package view renders the panel's server-side pages.

Every page is parsed once at startup together with the shared layout. Render
adds the request locals every page expects: the session user (with role
flags), and the one-shot success/error flash messages.
*/
package view

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/ascinsa/pms/internal/platform/constants"
	"github.com/ascinsa/pms/internal/platform/ctxkey"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/session"
)

//go:embed templates
var files embed.FS

// Page names accepted by [Renderer.Render].
const (
	PageLogin           = "auth/login"
	PageHome            = "home"
	PageHourList        = "hour/list"
	PageHourDetail      = "hour/detail"
	PageHourForm        = "hour/form"
	PageControlList     = "control/list"
	PageControlDetail   = "control/detail"
	PageControlForm     = "control/form"
	PageProjectIndex    = "project/index"
	PageProjectList     = "project/list"
	PageProjectDetail   = "project/detail"
	PageProjectForm     = "project/form"
	PageProjectTaskForm = "project/task_form"
	PageHistory         = "history"
	PageMarkdown        = "markdown"
	PageChecking        = "checking"
)

var pages = []string{
	PageLogin, PageHome,
	PageHourList, PageHourDetail, PageHourForm,
	PageControlList, PageControlDetail, PageControlForm,
	PageProjectIndex, PageProjectList, PageProjectDetail, PageProjectForm, PageProjectTaskForm,
	PageHistory, PageMarkdown, PageChecking,
}

// Data is the page-specific template input.
type Data map[string]any

// Renderer holds the parsed page set.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page against the shared layout.
func New() (*Renderer, error) {
	root, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, err
	}

	renderer := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		parsed, err := template.New("layout.html").Funcs(funcs).ParseFS(root, "layout.html", page+".html")
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", page, err)
		}
		renderer.pages[page] = parsed
	}

	return renderer, nil
}

// Render executes page with data plus the request locals and writes it with
// status. Output is buffered so a template error still yields a clean 500.
func (renderer *Renderer) Render(writer http.ResponseWriter, request *http.Request, status int, page string, data Data) {
	parsed, ok := renderer.pages[page]
	if !ok {
		respond.ServerError(writer, request, fmt.Errorf("view: unknown page %q", page), "Error al mostrar la página")
		return
	}

	locals := Data{
		"User":       UserFromContext(request.Context()),
		"SuccessMsg": nil,
		"ErrorMsg":   nil,
		"Path":       request.URL.Path,
	}
	if current := session.FromContext(request.Context()); current != nil {
		locals["SuccessMsg"] = current.Flashes(constants.FlashSuccess)
		locals["ErrorMsg"] = current.Flashes(constants.FlashError)
	}
	for key, value := range data {
		locals[key] = value
	}

	var buffer bytes.Buffer
	if err := parsed.Execute(&buffer, locals); err != nil {
		respond.ServerError(writer, request, err, "Error al mostrar la página")
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	_, _ = buffer.WriteTo(writer)
}

// # View User

// WithUser publishes the session user for templates.
func WithUser(ctx context.Context, user *session.User) context.Context {
	return context.WithValue(ctx, ctxkey.KeyViewUser, user)
}

// UserFromContext returns the published session user, or nil.
func UserFromContext(ctx context.Context) *session.User {
	user, _ := ctx.Value(ctxkey.KeyViewUser).(*session.User)
	return user
}

// # Template Functions

var funcs = template.FuncMap{
	"datetime": func(value time.Time) string {
		if value.IsZero() {
			return ""
		}
		return value.Format("02/01/2006 15:04")
	},
	"formtime": func(value time.Time) string {
		if value.IsZero() {
			return ""
		}
		return value.Format("2006-01-02T15:04")
	},
	"date": func(value *time.Time) string {
		if value == nil || value.IsZero() {
			return ""
		}
		return value.Format("2006-01-02")
	},
	"lines": func(value string) []string {
		return strings.Split(value, "\n")
	},
	"canWrite": func(user *session.User) bool {
		return user != nil && !user.OnlyView
	},
	"isAdmin": func(user *session.User) bool {
		return user != nil && user.IsAdmin
	},
	"isStaff": func(user *session.User) bool {
		return user != nil && (user.IsAdmin || user.IsAreaWorker) && !user.OnlyView
	},
	"owns": func(user *session.User, userCode string) bool {
		return user != nil && user.UserCode == userCode
	},
	"has": func(list []string, item string) bool {
		return slices.Contains(list, item)
	},
	"contains": func(list, item string) bool {
		for _, part := range strings.Split(list, ",") {
			if part == item {
				return true
			}
		}
		return false
	},
}
