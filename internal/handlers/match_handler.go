package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"homeMatch/internal/models"
	"homeMatch/internal/services"
)

type MatchHandler struct {
	Service *services.MatchService
}

// GetMatchesForCounterparty serves the landlord-facing feed, best score
// first.
func (h *MatchHandler) GetMatchesForCounterparty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":counterparty_id"))
	if err != nil || id == 0 {
		http.Error(w, "Invalid counterparty_id", http.StatusBadRequest)
		return
	}
	matches, err := h.Service.GetMatchesForCounterparty(r.Context(), id)
	if err != nil {
		log.Printf("GetMatchesForCounterparty error: %v", err)
		http.Error(w, "Failed to get matches", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(matches)
}

func (h *MatchHandler) GetMatchesForRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":request_id"))
	if err != nil || id == 0 {
		http.Error(w, "Invalid request_id", http.StatusBadRequest)
		return
	}
	matches, err := h.Service.GetMatchesForRequest(r.Context(), id)
	if err != nil {
		log.Printf("GetMatchesForRequest error: %v", err)
		http.Error(w, "Failed to get matches", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(matches)
}

func (h *MatchHandler) MarkViewed(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil || id == 0 {
		http.Error(w, "Invalid match ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.MarkViewed(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrMatchNotFound) {
			http.Error(w, "Match not found", http.StatusNotFound)
			return
		}
		log.Printf("MarkViewed error: %v", err)
		http.Error(w, "Failed to mark match viewed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
