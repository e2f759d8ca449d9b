package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"homeMatch/internal/models"
	"homeMatch/internal/services"
)

// EventHandler receives signals from external collaborators: the property
// CRUD, the offer workflow and the trust pipeline.
type EventHandler struct {
	Service *services.MatchService
}

type propertyChangedEvent struct {
	PropertyID int `json:"property_id"`
}

type offerAcceptedEvent struct {
	RequestID int `json:"request_id"`
}

type trustChangedEvent struct {
	CounterpartyID int `json:"counterparty_id"`
}

// PropertyChanged enqueues scoped rescans for the requests a changed
// property can affect.
func (h *EventHandler) PropertyChanged(w http.ResponseWriter, r *http.Request) {
	var event propertyChangedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.PropertyID == 0 {
		http.Error(w, "Invalid event", http.StatusBadRequest)
		return
	}
	queued, err := h.Service.HandlePropertyChanged(r.Context(), event.PropertyID)
	if err != nil {
		if errors.Is(err, models.ErrPropertyNotFound) {
			http.Error(w, "Property not found", http.StatusNotFound)
			return
		}
		log.Printf("PropertyChanged error: %v", err)
		http.Error(w, "Failed to schedule rescan", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]int{"queued": queued})
}

// OfferAccepted transitions the request out of the pool and clears its
// matches.
func (h *EventHandler) OfferAccepted(w http.ResponseWriter, r *http.Request) {
	var event offerAcceptedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.RequestID == 0 {
		http.Error(w, "Invalid event", http.StatusBadRequest)
		return
	}
	if err := h.Service.HandleOfferAccepted(r.Context(), event.RequestID); err != nil {
		switch {
		case errors.Is(err, models.ErrRequestNotFound):
			http.Error(w, "Rental request not found", http.StatusNotFound)
		case errors.Is(err, models.ErrPoolTransition):
			http.Error(w, "Request cannot leave the pool from its current status", http.StatusConflict)
		default:
			log.Printf("OfferAccepted error: %v", err)
			http.Error(w, "Failed to process acceptance", http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}

// TrustChanged rescans requests matched with a counterparty whose tier
// changed materially.
func (h *EventHandler) TrustChanged(w http.ResponseWriter, r *http.Request) {
	var event trustChangedEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil || event.CounterpartyID == 0 {
		http.Error(w, "Invalid event", http.StatusBadRequest)
		return
	}
	queued, err := h.Service.HandleTrustChanged(r.Context(), event.CounterpartyID)
	if err != nil {
		log.Printf("TrustChanged error: %v", err)
		http.Error(w, "Failed to schedule rescan", http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]int{"queued": queued})
}
