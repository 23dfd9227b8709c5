package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/couchcryptid/nyc-building-report/internal/domain"
	"github.com/couchcryptid/nyc-building-report/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
)

const (
	headerAppToken  = "X-App-Token"
	headerSessionID = "X-Session-ID"

	// newSessionID in the path asks the server to mint a session id.
	newSessionID = "new"

	maxSuggestions = 10
)

type handlers struct {
	searcher pipeline.ReportSearcher
	sessions *pipeline.SessionStore
	registry func() *domain.Registry
	logger   *slog.Logger
}

type searchBody struct {
	Address string `json:"address"`
}

type suggestionsResponse struct {
	Suggestions []domain.RegistryEntry `json:"suggestions"`
}

func (h *handlers) handleReport(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.URL.Query().Get("address"))
	if address == "" {
		writeError(w, http.StatusBadRequest, "address query parameter is required")
		return
	}

	report, err := h.searcher.Search(r.Context(), searchRequest(r, address))
	if err != nil {
		h.writeSearchError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (h *handlers) handleSessionSearch(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	address := strings.TrimSpace(body.Address)
	if address == "" {
		writeError(w, http.StatusBadRequest, "address is required")
		return
	}

	id := chi.URLParam(r, "id")
	if id == newSessionID {
		id = ""
	}
	session := h.sessions.GetOrCreate(id)
	w.Header().Set(headerSessionID, session.ID())

	report, err := session.Search(r.Context(), searchRequest(r, address))
	if err != nil {
		h.writeSearchError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (h *handlers) handleSessionReport(w http.ResponseWriter, r *http.Request) {
	session, ok := h.sessions.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
		return
	}
	report, ok := session.Current()
	if !ok {
		writeError(w, http.StatusNotFound, "no report for this session")
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, report)
}

func (h *handlers) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	entries := h.registry().Suggest(q, maxSuggestions)
	if entries == nil {
		entries = []domain.RegistryEntry{}
	}
	sharedobs.WriteJSON(w, http.StatusOK, suggestionsResponse{Suggestions: entries})
}

func (h *handlers) writeSearchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAddressUnresolvable):
		writeError(w, http.StatusUnprocessableEntity, "could not resolve a house number and street from the address")
	case errors.Is(err, pipeline.ErrSuperseded):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("search failed", "error", err)
		writeError(w, http.StatusInternalServerError, "search failed")
	}
}

// searchRequest forwards the caller's app token as opaque credentials.
func searchRequest(r *http.Request, address string) pipeline.SearchRequest {
	return pipeline.SearchRequest{
		Address:     address,
		Credentials: domain.Credentials{AppToken: r.Header.Get(headerAppToken)},
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	sharedobs.WriteJSON(w, status, map[string]string{"error": msg})
}
