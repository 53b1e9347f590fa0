// Package handler provides HTTP handlers for the WanderMate API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wandermate/wandermate/internal/api/models"
	"github.com/wandermate/wandermate/internal/api/response"
	"github.com/wandermate/wandermate/internal/profile"
	"github.com/wandermate/wandermate/internal/session"
)

// SessionHandler handles travel session endpoints.
type SessionHandler struct {
	sessions *session.Service
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *session.Service) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// CreateSession handles POST /v1/sessions - start a new trip search.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var input models.SessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	sess, err := h.sessions.Create(r.Context(), session.CreateInput{
		UserID:          input.UserID,
		DestinationName: input.Destination,
		Budget:          input.Budget,
		StartDate:       input.StartDate,
		EndDate:         input.EndDate,
	})
	if err != nil {
		var vErr *session.ValidationError
		switch {
		case errors.As(err, &vErr):
			response.BadRequest(w, r, "validation failed", []models.FieldError{
				{Field: vErr.Field, Message: vErr.Message},
			})
		case errors.Is(err, session.ErrUnknownDestination):
			response.BadRequest(w, r, "destination could not be resolved", []models.FieldError{
				{Field: "destination", Message: "unknown place name"},
			})
		case errors.Is(err, profile.ErrProfileNotFound):
			response.NotFound(w, r, "user profile")
		default:
			response.InternalError(w, r, "internal server error")
		}
		return
	}

	response.Created(w, r, "/v1/sessions/"+sess.UserID, models.Session{
		TravelSession:    sess,
		ExpiresInSeconds: int64(h.sessions.TTL().Seconds()),
	})
}

// GetSession handles GET /v1/sessions/{userId} - fetch the active search.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	sess, err := h.sessions.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			response.NotFound(w, r, "travel session")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}

	response.JSON(w, r, http.StatusOK, models.Session{
		TravelSession:    sess,
		ExpiresInSeconds: int64(h.sessions.TTL().Seconds()),
	})
}

// DeleteSession handles DELETE /v1/sessions/{userId} - end the search early.
func (h *SessionHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.sessions.Delete(r.Context(), userID); err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.NoContent(w, r)
}
