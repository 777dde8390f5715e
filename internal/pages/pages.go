// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pages serves the panel's informational pages: the home dashboard, the
Markdown documentation and changelog, and the daily equipment checklist.

Every page body is embedded in the binary and prepared once at startup.
*/
package pages

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/ascinsa/pms/internal/hour"
	"github.com/ascinsa/pms/internal/platform/ctxutil"
	requestutil "github.com/ascinsa/pms/internal/platform/request"
	"github.com/ascinsa/pms/internal/platform/respond"
	"github.com/ascinsa/pms/internal/platform/view"
	"github.com/ascinsa/pms/internal/project"
)

//go:embed content
var content embed.FS

// Check is one equipment row of the daily checklist.
type Check struct {
	Name     string `yaml:"name"`
	Location string `yaml:"location"`
}

// ProjectSummary supplies the portfolio counters. Implemented by project.Service.
type ProjectSummary interface {
	Summary(context context.Context) (*project.Summary, error)
}

// HourSummary supplies one user's hour totals. Implemented by hour.Service.
type HourSummary interface {
	Summary(context context.Context, userCode string) (*hour.Summary, error)
}

// Handler serves the informational pages.
type Handler struct {
	renderer  *view.Renderer
	projects  ProjectSummary
	hours     HourSummary
	docs      template.HTML
	changelog template.HTML
	checks    []Check
}

// NewHandler renders the embedded Markdown and loads the checklist. projects
// and hours may be nil; the dashboard then shows the profile only.
func NewHandler(renderer *view.Renderer, projects ProjectSummary, hours HourSummary) (*Handler, error) {
	markdown := goldmark.New(goldmark.WithExtensions(extension.GFM, extension.DefinitionList))

	docs, err := renderMarkdown(markdown, "content/docs.md")
	if err != nil {
		return nil, err
	}
	changelog, err := renderMarkdown(markdown, "content/changelog.md")
	if err != nil {
		return nil, err
	}

	raw, err := content.ReadFile("content/checks.yaml")
	if err != nil {
		return nil, err
	}
	var checks []Check
	if err := yaml.Unmarshal(raw, &checks); err != nil {
		return nil, fmt.Errorf("pages: parse checks.yaml: %w", err)
	}

	return &Handler{
		renderer:  renderer,
		projects:  projects,
		hours:     hours,
		docs:      docs,
		changelog: changelog,
		checks:    checks,
	}, nil
}

// RegisterRoutes mounts the pages at the root.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.home)
	router.Get("/docs", handler.markdown("Documentación", handler.docs))
	router.Get("/changelog", handler.markdown("Historial de Cambios", handler.changelog))
	router.Get("/checking", handler.checking)
}

// home shows the profile with the dashboard. A failing counter source is
// logged and its panel left out.
func (handler *Handler) home(writer http.ResponseWriter, request *http.Request) {
	identity := requestutil.Identity(request)
	logger := ctxutil.GetLogger(request.Context())
	data := view.Data{
		"Title":    "Inicio",
		"Identity": identity,
	}

	if handler.projects != nil {
		summary, err := handler.projects.Summary(request.Context())
		if err != nil {
			logger.WarnContext(request.Context(), "dashboard_projects_unavailable", slog.Any("error", err))
		} else {
			data["Dashboard"] = summary
		}
	}

	if handler.hours != nil && identity != nil {
		summary, err := handler.hours.Summary(request.Context(), identity.UserCode)
		if err != nil {
			logger.WarnContext(request.Context(), "dashboard_hours_unavailable", slog.Any("error", err))
		} else {
			data["Hours"] = summary
		}
	}

	handler.renderer.Render(writer, request, http.StatusOK, view.PageHome, data)
}

func (handler *Handler) markdown(title string, body template.HTML) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		handler.renderer.Render(writer, request, http.StatusOK, view.PageMarkdown, view.Data{
			"Title": title,
			"Body":  body,
		})
	}
}

func (handler *Handler) checking(writer http.ResponseWriter, request *http.Request) {
	handler.renderer.Render(writer, request, http.StatusOK, view.PageChecking, view.Data{
		"Title":  "Control Diario de Equipos Críticos",
		"Checks": handler.checks,
	})
}

/*
Protected echoes the verified identity of a token holder.

GET /api/protected

Response:
  - 200: {"message": "...", "user": Identity}
  - 401: Not authenticated
*/
func Protected(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.JSON(writer, http.StatusOK, map[string]any{
		"message": "This is a protected API endpoint.",
		"user":    identity,
	})
}

// The embedded sources are trusted, so the HTML is not sanitized again.
func renderMarkdown(markdown goldmark.Markdown, name string) (template.HTML, error) {
	source, err := content.ReadFile(name)
	if err != nil {
		return "", err
	}

	var buffer bytes.Buffer
	if err := markdown.Convert(source, &buffer); err != nil {
		return "", fmt.Errorf("pages: render %s: %w", name, err)
	}
	return template.HTML(buffer.String()), nil
}
