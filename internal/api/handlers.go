package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"roombook/internal/domain"
	"roombook/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

type createResourceRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type updateResourceRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

// createBookingRequest is checked by the booking service, not here.
type createBookingRequest struct {
	ResourceID string    `json:"resource_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// decodeBody reads a JSON body and applies the struct's validate tags.
func (s *HTTPServer) decodeBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return domain.NewValidation("invalid JSON body")
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return domain.NewValidation(describeFieldError(verrs[0]))
		}
		return domain.NewValidation("invalid request")
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if s.health != nil {
		if err := s.health.Ping(r.Context()); err != nil {
			s.logger.Error().Err(err).Msg("Health check failed")
			writeJSON(w, http.StatusServiceUnavailable, statusResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	session, err := s.services.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		Role:      session.Role,
		Email:     session.Email,
		ExpiresAt: session.ExpiresAt,
	})
}

func (s *HTTPServer) handleListResources(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	resources, err := s.services.Resources.GetActiveResources(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if resources == nil {
		resources = []*models.Resource{}
	}
	writeJSON(w, http.StatusOK, resources)
}

func (s *HTTPServer) handleCreateResource(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createResourceRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resource, err := s.services.Resources.CreateResource(r.Context(), req.Name, req.Description)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resource)
}

func (s *HTTPServer) handleUpdateResource(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateResourceRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	id := ps.ByName("id")
	if err := s.services.Resources.SetResourceActive(r.Context(), id, *req.IsActive); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "is_active": *req.IsActive})
}

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createBookingRequest
	if err := s.decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	identity, _ := IdentityFromContext(r.Context())
	booking, err := s.services.Bookings.CreateBooking(r.Context(), identity.UserID, identity.Email, req.ResourceID, req.Start, req.End)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) handleListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	identity, _ := IdentityFromContext(r.Context())
	bookings, err := s.services.Bookings.ListBookingsForUser(r.Context(), identity.UserID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if bookings == nil {
		bookings = []*models.Booking{}
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handleCancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	identity, _ := IdentityFromContext(r.Context())
	err := s.services.Bookings.CancelBooking(r.Context(), ps.ByName("id"), identity.UserID, identity.Role, identity.Email)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "cancelled"})
}

func (s *HTTPServer) handleListAudit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := models.AuditFilter{EntityID: strings.TrimSpace(query.Get("entity_id"))}

	var err error
	if filter.From, err = parseTimeParam(query.Get("from")); err != nil {
		writeError(w, domain.NewValidation("from must be an RFC 3339 timestamp"))
		return
	}
	if filter.To, err = parseTimeParam(query.Get("to")); err != nil {
		writeError(w, domain.NewValidation("to must be an RFC 3339 timestamp"))
		return
	}

	events, err := s.services.Bookings.ListAuditEvents(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if events == nil {
		events = []*models.AuditEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

func (s *HTTPServer) handleDevSeed(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := s.services.Seed.Seed(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "seeded"})
}

func parseTimeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// writeServiceError logs internal failures before mapping err to a reply.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if domain.KindOf(err) == domain.KindInternal {
		s.logger.Error().
			Err(err).
			Str("request_id", RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).
			Msg("Request failed")
	}
	writeError(w, err)
}
