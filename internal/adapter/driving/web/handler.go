// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/repocard/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/repocard/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/repocard/internal/application"
	"github.com/ericfisherdev/repocard/internal/domain/model"
)

const defaultBlockID = "default"

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	cardSvc  *application.CardService
	sessions *application.EditorSessions
	iconBase string
	logger   *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. iconBase is
// the URL prefix of the stat icons, without a trailing slash.
func NewHandler(
	cardSvc *application.CardService,
	sessions *application.EditorSessions,
	iconBase string,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		cardSvc:  cardSvc,
		sessions: sessions,
		iconBase: iconBase,
		logger:   logger,
	}
}

// Editor renders the block editor page for the block named by the block
// query parameter. A block without a session renders idle; sessions are only
// created by Preview, behind the CSRF check.
func (h *Handler) Editor(w http.ResponseWriter, r *http.Request) {
	blockID := r.URL.Query().Get("block")
	if blockID == "" {
		blockID = defaultBlockID
	}

	token := csrfToken(w, r)
	snap := application.IdleSnapshot()
	if session, ok := h.sessions.Lookup(blockID); ok {
		snap = session.Snapshot()
	}
	page := toEditorViewModel(blockID, snap, token, h.iconBase)

	h.render(w, r, templates.Layout("GitHub Repo Card", pages.Editor(page)), "editor")
}

// Card renders the published, cached card for the url query parameter as an
// HTML fragment. Errors are part of the card, so the status is always 200
// once the toggles parse.
func (h *Handler) Card(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	display, err := model.ParseDisplayConfig(query.Get)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	view := h.cardSvc.Card(r.Context(), query.Get("url"), display)

	h.render(w, r, CardFragment(view, h.iconBase), "card")
}

// Preview applies the submitted editor form to the block's session and
// returns the live preview card. The URL is refetched only when it changed;
// toggles alone never fetch. If a fetch for the block is still in flight the
// response waits for it, so a toggle change during a fetch still returns the
// fetched card.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	if !validateCSRF(r) {
		http.Error(w, "invalid CSRF token", http.StatusForbidden)
		return
	}

	blockID := r.PathValue("id")
	session := h.sessions.Get(blockID)

	session.SetDisplay(displayFromCheckboxes(r))

	repoURL := r.PostFormValue("repo_url")
	if repoURL != session.Snapshot().Attributes.RepoURL {
		if applied := session.SetURL(r.Context(), repoURL); !applied {
			h.logger.Debug("preview superseded by newer input", "block", blockID, "url", repoURL)
		}
	}

	if err := session.Wait(r.Context()); err != nil {
		h.logger.Debug("preview client went away", "block", blockID, "error", err)
		return
	}

	snap := session.Snapshot()
	if snap.InputDisabled {
		w.Header().Set("X-Repo-Card-Fetching", "true")
	}

	h.render(w, r, CardFragment(snap.Card, h.iconBase), "preview")
}

// displayFromCheckboxes reads the toggles of a submitted form. A checkbox is
// on when present with any value other than "false".
func displayFromCheckboxes(r *http.Request) model.DisplayConfig {
	var display model.DisplayConfig
	for _, t := range model.DisplayToggles {
		v := r.PostFormValue(t.Name)
		t.Set(&display, v != "" && v != "false")
	}
	return display
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, c templ.Component, name string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render "+name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
