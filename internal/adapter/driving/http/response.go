package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/repocard/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// healthResponse is the body of the health endpoint.
type healthResponse struct {
	Status string `json:"status"`
}

// CardResponse is the JSON representation of a rendered card.
type CardResponse struct {
	State       string              `json:"state"`
	ErrorKind   string              `json:"error_kind,omitempty"`
	Message     string              `json:"message,omitempty"`
	Header      *CardHeaderResponse `json:"header,omitempty"`
	Owner       string              `json:"owner,omitempty"`
	Description string              `json:"description,omitempty"`
	Stats       []StatResponse      `json:"stats"`
}

// CardHeaderResponse is the JSON representation of a card header.
type CardHeaderResponse struct {
	AvatarURL   string `json:"avatar_url"`
	AvatarAlt   string `json:"avatar_alt"`
	DisplayName string `json:"display_name"`
	LinkURL     string `json:"link_url"`
}

// StatResponse is the JSON representation of one stat entry.
type StatResponse struct {
	Icon  string `json:"icon"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// NewCardResponse converts a render state and its view to the response body.
func NewCardResponse(state model.RenderState, view model.CardView) CardResponse {
	resp := CardResponse{
		State:     string(view.State),
		ErrorKind: string(state.ErrorKind),
		Message:   view.Message,
		Stats:     make([]StatResponse, 0, len(view.Stats)),
	}

	if view.State == model.RenderReady {
		resp.Header = &CardHeaderResponse{
			AvatarURL:   view.Header.AvatarURL,
			AvatarAlt:   view.Header.AvatarAlt,
			DisplayName: view.Header.DisplayName,
			LinkURL:     view.Header.LinkURL,
		}
		resp.Owner = view.Owner
		resp.Description = view.Description
	}

	for _, s := range view.Stats {
		resp.Stats = append(resp.Stats, StatResponse{Icon: s.IconKey, Count: s.Count, Label: s.Label})
	}

	return resp
}

// statusForKind maps an error kind to the HTTP status of the API response.
func statusForKind(kind model.ErrorKind) int {
	switch kind {
	case model.ErrorKindInvalidFormat:
		return http.StatusBadRequest
	case model.ErrorKindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
