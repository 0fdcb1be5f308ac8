// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/eventlite/eventlite/internal/model"
	"github.com/eventlite/eventlite/internal/service"
	"github.com/go-chi/chi/v5"
)

// EventHandler holds all HTTP handlers for the event registration API.
// Handlers log through the request-scoped logger so every line carries
// the correlation ID.
type EventHandler struct {
	svc *service.EventService
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Message: msg})
}

// decodeJSON reads a request body into dst. An empty body decodes to
// the zero value, which the falsy-field rules then treat as "nothing
// provided".
func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// ListEvents handles GET /events
// Returns the full event collection, unfiltered and unpaginated.
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.ListEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load events")
		return
	}
	if events == nil {
		events = []model.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.svc.CreateEvent(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "All fields are required: title, description, date, location")
			return
		}
		LoggerFromContext(r.Context()).Error().Err(err).Msg("create event")
		writeError(w, http.StatusInternalServerError, "Failed to save event")
		return
	}

	writeJSON(w, http.StatusOK, model.EventResponse{
		Success: true,
		Message: "Event created",
		Event:   event,
	})
}

// UpdateEvent handles PUT /events/{id}
// Only non-empty fields overwrite the stored ones.
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	// A non-numeric id coerces to 0 and falls out as not found.
	id, _ := strconv.Atoi(chi.URLParam(r, "id"))

	var req model.UpdateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.svc.UpdateEvent(r.Context(), id, req)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			writeError(w, http.StatusNotFound, "Event not found")
			return
		}
		LoggerFromContext(r.Context()).Error().Err(err).Int("event_id", id).Msg("update event")
		writeError(w, http.StatusInternalServerError, "Failed to update event")
		return
	}

	writeJSON(w, http.StatusOK, model.EventResponse{
		Success: true,
		Message: "Event updated",
		Event:   event,
	})
}

// Register handles POST /register
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reg, err := h.svc.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			writeError(w, http.StatusNotFound, "Event not found")
		case errors.Is(err, service.ErrAlreadyRegistered):
			writeError(w, http.StatusBadRequest, "Already registered for this event")
		default:
			LoggerFromContext(r.Context()).Error().Err(err).Int("event_id", int(req.EventID)).Msg("register")
			writeError(w, http.StatusInternalServerError, "Failed to complete registration")
		}
		return
	}

	writeJSON(w, http.StatusOK, model.RegisterResponse{
		Success:        true,
		Message:        "Registered for " + reg.EventTitle,
		RegistrationID: reg.ID,
	})
}

// Cancel handles POST /cancel
func (h *EventHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req model.CancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	title, err := h.svc.Cancel(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			writeError(w, http.StatusNotFound, "Event not found or no attendees")
		case errors.Is(err, service.ErrRegistrationNotFound):
			writeError(w, http.StatusNotFound, "Registration not found")
		default:
			LoggerFromContext(r.Context()).Error().Err(err).Int("event_id", int(req.EventID)).Msg("cancel")
			writeError(w, http.StatusInternalServerError, "Failed to complete cancellation")
		}
		return
	}

	writeJSON(w, http.StatusOK, model.CancelResponse{
		Success: true,
		Message: "Cancelled registration for " + title,
	})
}

// ListRegistrations handles GET /registrations
// An administrative, unauthenticated dump of every registration record.
func (h *EventHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.svc.ListRegistrations(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load registrations")
		return
	}
	if regs == nil {
		regs = []model.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
