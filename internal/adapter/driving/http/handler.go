// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ericfisherdev/repocard/internal/application"
	"github.com/ericfisherdev/repocard/internal/domain/model"
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	cardSvc *application.CardService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(cardSvc *application.CardService, logger *slog.Logger) *Handler {
	return &Handler{
		cardSvc: cardSvc,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers the JSON API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/card", h.GetCard)
	mux.HandleFunc("GET /api/v1/health", h.Health)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// GetCard renders the cached card for the url query parameter. Stat toggles
// are read from the contributors, stars, watchers, forks and issues
// parameters and default to true.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	display, err := DisplayFromQuery(query)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state := h.cardSvc.Render(r.Context(), model.BlockAttributes{
		RepoURL: query.Get("url"),
		Display: display,
	})
	view := application.RenderCard(state)

	status := http.StatusOK
	if state.Phase == model.RenderError {
		status = statusForKind(state.ErrorKind)
	}

	writeJSON(w, status, NewCardResponse(state, view))
}

// Health reports that the server is up.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// DisplayFromQuery builds a DisplayConfig from boolean query parameters.
// Absent parameters keep their default of true.
func DisplayFromQuery(query url.Values) (model.DisplayConfig, error) {
	return model.ParseDisplayConfig(query.Get)
}
