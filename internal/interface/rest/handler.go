// Package rest exposes the aggregator over HTTP with JSON bodies.
package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"flightdata-service/internal/domain/entity"
	"flightdata-service/internal/usecase"
	"flightdata-service/pkg/logger"
)

// Handler serves the flight-data API.
type Handler struct {
	aggregator *usecase.FlightAggregator
	logger     logger.Logger
}

// NewHandler creates the HTTP handler.
func NewHandler(aggregator *usecase.FlightAggregator, logger logger.Logger) *Handler {
	return &Handler{
		aggregator: aggregator,
		logger:     logger,
	}
}

// Register mounts the API routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /search", h.search)
	mux.HandleFunc("GET /flight", h.getFlight)
	mux.HandleFunc("GET /live", h.liveFlights)
	mux.HandleFunc("GET /flights", h.listUserFlights)
	mux.HandleFunc("POST /flights", h.addUserFlight)
	mux.HandleFunc("DELETE /flights/{id}", h.deleteUserFlight)
	mux.HandleFunc("GET /trips", h.listTrips)
	mux.HandleFunc("POST /trips", h.addTrip)
	mux.HandleFunc("POST /trips/{id}/flights", h.addFlightToTrip)
	mux.HandleFunc("DELETE /trips/{id}", h.deleteTrip)
}

type searchResponse struct {
	Flights       []entity.Flight `json:"flights"`
	ProviderError string          `json:"providerError,omitempty"`
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	flights := h.aggregator.Search(r.Context(), query)
	resp := searchResponse{Flights: flights}
	if err := h.aggregator.LastError(); err != nil {
		resp.ProviderError = err.Error()
	}
	if resp.Flights == nil {
		resp.Flights = []entity.Flight{}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getFlight(w http.ResponseWriter, r *http.Request) {
	number := r.URL.Query().Get("number")
	if number == "" {
		h.writeError(w, http.StatusBadRequest, "number is required")
		return
	}

	var date *time.Time
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = &parsed
	}

	flight := h.aggregator.GetFlight(r.Context(), number, date)
	if flight == nil {
		h.writeError(w, http.StatusNotFound, "flight not found")
		return
	}
	h.writeJSON(w, http.StatusOK, flight)
}

func (h *Handler) liveFlights(w http.ResponseWriter, r *http.Request) {
	flights, err := h.aggregator.LiveFlights(r.Context())
	if err != nil {
		h.logger.Error("Live flights lookup failed", "error", err)
		h.writeError(w, http.StatusBadGateway, "live flight data unavailable")
		return
	}
	if flights == nil {
		flights = []entity.Flight{}
	}
	h.writeJSON(w, http.StatusOK, flights)
}

func (h *Handler) listUserFlights(w http.ResponseWriter, r *http.Request) {
	flights := h.aggregator.UserFlights()
	if flights == nil {
		flights = []entity.Flight{}
	}
	h.writeJSON(w, http.StatusOK, flights)
}

func (h *Handler) addUserFlight(w http.ResponseWriter, r *http.Request) {
	var flight entity.Flight
	if err := json.NewDecoder(r.Body).Decode(&flight); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid flight body")
		return
	}
	if flight.FlightNumber == "" {
		h.writeError(w, http.StatusBadRequest, "flightNumber is required")
		return
	}

	saved, err := h.aggregator.AddUserFlight(r.Context(), flight)
	if err != nil {
		h.logger.Error("Failed to persist user flight", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to save flight")
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *Handler) deleteUserFlight(w http.ResponseWriter, r *http.Request) {
	if err := h.aggregator.DeleteUserFlight(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addTripRequest struct {
	Name    string          `json:"name"`
	Flights []entity.Flight `json:"flights"`
}

func (h *Handler) listTrips(w http.ResponseWriter, r *http.Request) {
	var trips []entity.Trip
	switch r.URL.Query().Get("scope") {
	case "past":
		trips = h.aggregator.PastTrips()
	default:
		trips = h.aggregator.UpcomingTrips()
	}
	if trips == nil {
		trips = []entity.Trip{}
	}
	h.writeJSON(w, http.StatusOK, trips)
}

func (h *Handler) addTrip(w http.ResponseWriter, r *http.Request) {
	var req addTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid trip body")
		return
	}
	if req.Name == "" {
		h.writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	trip := h.aggregator.AddTrip(req.Name, req.Flights)
	h.writeJSON(w, http.StatusCreated, trip)
}

func (h *Handler) addFlightToTrip(w http.ResponseWriter, r *http.Request) {
	var flight entity.Flight
	if err := json.NewDecoder(r.Body).Decode(&flight); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid flight body")
		return
	}

	if err := h.aggregator.AddFlightToTrip(r.PathValue("id"), flight); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteTrip(w http.ResponseWriter, r *http.Request) {
	if err := h.aggregator.DeleteTrip(r.PathValue("id")); err != nil {
		h.writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
