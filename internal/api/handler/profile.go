package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wandermate/wandermate/internal/api/models"
	"github.com/wandermate/wandermate/internal/api/response"
	"github.com/wandermate/wandermate/internal/profile"
)

// ProfileHandler handles user profile endpoints.
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile handles GET /v1/profiles/{userId}.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	p, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			response.NotFound(w, r, "user profile")
			return
		}
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, p)
}

// UpsertProfile handles PUT /v1/profiles/{userId}.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}
	p.UserID = userID

	if fieldErrors := validateProfile(&p); len(fieldErrors) > 0 {
		response.BadRequest(w, r, "validation failed", fieldErrors)
		return
	}

	saved, err := h.profiles.Upsert(r.Context(), &p)
	if err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.JSON(w, r, http.StatusOK, saved)
}

// DeleteProfile handles DELETE /v1/profiles/{userId}.
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.profiles.Delete(r.Context(), userID); err != nil {
		response.InternalError(w, r, "internal server error")
		return
	}
	response.NoContent(w, r)
}

func validateProfile(p *profile.Profile) []models.FieldError {
	var fieldErrors []models.FieldError

	if p.Age < 0 || p.Age > 120 {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "age", Message: "must be between 0 and 120",
		})
	}
	if (p.HomeLat == nil) != (p.HomeLon == nil) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "homeLat", Message: "homeLat and homeLon must be set together",
		})
	}
	if p.HomeLat != nil && (*p.HomeLat < -90 || *p.HomeLat > 90) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "homeLat", Message: "must be between -90 and 90",
		})
	}
	if p.HomeLon != nil && (*p.HomeLon < -180 || *p.HomeLon > 180) {
		fieldErrors = append(fieldErrors, models.FieldError{
			Field: "homeLon", Message: "must be between -180 and 180",
		})
	}
	return fieldErrors
}
