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

type PoolHandler struct {
	Service *services.MatchService
}

type poolResponse struct {
	Request    models.RentalRequest `json:"request"`
	MatchCount int                  `json:"match_count"`
}

// CreateRequest adds a rental request to the pool and matches it
// synchronously.
func (h *PoolHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req models.RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	created, count, err := h.Service.CreateRequest(r.Context(), req)
	if err != nil {
		log.Printf("CreateRequest error: %v", err)
		http.Error(w, "Failed to create rental request", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(poolResponse{Request: created, MatchCount: count})
}

// UpdateRequest edits a pooled request and re-matches it.
func (h *PoolHandler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil || id == 0 {
		http.Error(w, "Invalid or missing request ID", http.StatusBadRequest)
		return
	}

	var req models.RentalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	req.ID = id

	updated, count, err := h.Service.UpdateRequest(r.Context(), req)
	if err != nil {
		if errors.Is(err, models.ErrRequestNotFound) {
			http.Error(w, "Rental request not found", http.StatusNotFound)
			return
		}
		log.Printf("UpdateRequest error: %v", err)
		http.Error(w, "Failed to update rental request", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(poolResponse{Request: updated, MatchCount: count})
}

// DeleteRequest removes a request from the pool together with its matches.
func (h *PoolHandler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil || id == 0 {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	if err := h.Service.DeleteRequest(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrRequestNotFound) {
			http.Error(w, "Rental request not found", http.StatusNotFound)
			return
		}
		log.Printf("DeleteRequest error: %v", err)
		http.Error(w, "Failed to delete rental request", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddToPool re-runs matching for an existing request.
func (h *PoolHandler) AddToPool(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get(":id"))
	if err != nil || id == 0 {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}
	count, err := h.Service.AddToPool(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrRequestNotFound):
			http.Error(w, "Rental request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrRequestNotInPool):
			http.Error(w, "Rental request is not active", http.StatusConflict)
		default:
			log.Printf("AddToPool error: %v", err)
			http.Error(w, "Failed to match rental request", http.StatusInternalServerError)
		}
		return
	}
	json.NewEncoder(w).Encode(map[string]int{"match_count": count})
}
