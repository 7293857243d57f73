// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service methods,
// and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bloodbridge/matching-service/internal/apperrors"
	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/bloodbridge/matching-service/internal/service"
	"github.com/bloodbridge/matching-service/internal/validation"
	"github.com/bloodbridge/matching-service/pkg/logger/sl"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultBankRadiusKm = 50

// Server holds the dependencies for the HTTP server, including the logger and service interfaces.
type Server struct {
	log             *slog.Logger
	matchingService service.MatchingService
	requestService  service.BloodRequestService
	bankService     service.BloodBankService
	donorService    service.DonorService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	ms service.MatchingService,
	rs service.BloodRequestService,
	bs service.BloodBankService,
	ds service.DonorService,
) *Server {
	return &Server{
		log:             log,
		matchingService: ms,
		requestService:  rs,
		bankService:     bs,
		donorService:    ds,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api/v1", func(r chi.Router) {
		r.Post("/matches/find", s.PostMatchesFind)
		r.Get("/compatibility/{bloodType}", s.GetCompatibility)

		r.Post("/requests", s.PostRequests)
		r.Get("/requests", s.GetRequests)
		r.Post("/requests/{requestID}/status", s.PostRequestStatus)

		r.Get("/blood-banks/nearby", s.GetBloodBanksNearby)

		r.Put("/donors/{userID}/availability", s.PutDonorAvailability)
	})

	return mux
}

func (s *Server) PostMatchesFind(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostMatchesFind"

	var req findMatchesRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	bt, err := bloodtype.Parse(req.BloodType)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	resp, err := s.matchingService.FindMatches(r.Context(), domain.MatchQuery{
		RequestID:  req.RequestID,
		BloodType:  bt,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Urgency:    domain.ParseUrgency(req.Urgency),
		MaxResults: req.MaxResults,
		UseAI:      req.UseAI,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) GetCompatibility(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetCompatibility"

	resp, err := s.matchingService.Compatibility(r.Context(), chi.URLParam(r, "bloodType"))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, resp)
}

func (s *Server) PostRequests(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostRequests"

	var req createBloodRequestRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	bt, err := bloodtype.Parse(req.BloodType)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	created, err := s.requestService.Create(r.Context(), domain.BloodRequest{
		RequesterID:  req.RequesterID,
		PatientName:  req.PatientName,
		BloodType:    bt,
		UnitsNeeded:  req.UnitsNeeded,
		Urgency:      domain.ParseUrgency(req.Urgency),
		HospitalName: req.HospitalName,
		City:         req.City,
		State:        req.State,
		ContactPhone: req.ContactPhone,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Notes:        req.Notes,
		RequiredBy:   req.RequiredBy,
	})
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusCreated, created)
}

func (s *Server) GetRequests(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetRequests"

	requests, err := s.requestService.ListRecent(r.Context())
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"requests": requests})
}

func (s *Server) PostRequestStatus(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PostRequestStatus"

	var req updateRequestStatusRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	updated, err := s.requestService.UpdateStatus(r.Context(),
		chi.URLParam(r, "requestID"), domain.RequestStatus(req.Status))
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, updated)
}

func (s *Server) GetBloodBanksNearby(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.GetBloodBanksNearby"

	lat, err := parseFloatParam(r, "lat")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	lon, err := parseFloatParam(r, "lon")
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	radiusKm := float64(defaultBankRadiusKm)
	if raw := r.URL.Query().Get("radius_km"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			s.handleServiceError(w, r, op,
				fmt.Errorf("%w: radius_km must be a positive number", apperrors.ErrInvalidRequest))
			return
		}
	}

	onlyVerified := r.URL.Query().Get("verified") == "true"

	banks, err := s.bankService.Nearby(r.Context(), lat, lon, radiusKm, onlyVerified)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, map[string]any{"blood_banks": banks})
}

func (s *Server) PutDonorAvailability(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.PutDonorAvailability"

	var req setDonorAvailabilityRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	result, err := s.donorService.SetAvailability(r.Context(),
		chi.URLParam(r, "userID"), *req.IsAvailable)
	if err != nil {
		s.handleServiceError(w, r, op, err)
		return
	}

	s.respond(w, http.StatusOK, result)
}

func parseFloatParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: query parameter '%s' is required", apperrors.ErrInvalidRequest, name)
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: query parameter '%s' must be a number", apperrors.ErrInvalidRequest, name)
	}

	return value, nil
}

// respond is a helper function to encode data to JSON and write it to the response.
// It centralizes setting the Content-Type header and writing the status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.log.Error("failed to encode response", sl.Err(err))
		}
	}
}

// respondError is a convenience wrapper around respond for sending simple error messages.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.respond(w, code, map[string]string{"error": message})
}

// decodeAndValidate is a helper that deserializes a JSON request body into a struct
// and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// handleServiceError provides centralized error handling for all HTTP handlers.
// It logs the internal error and maps it to a user-friendly HTTP response.
func (s *Server) handleServiceError(w http.ResponseWriter, _ *http.Request, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var (
		bloodTypeErr  *apperrors.InvalidBloodTypeError
		validationErr *validation.ValidationError
	)

	switch {
	case errors.As(err, &validationErr):
		wrappedErr := fmt.Errorf("%w: %s", apperrors.ErrValidation, validationErr.Error())
		s.respondError(w, http.StatusBadRequest, wrappedErr.Error())
	case errors.As(err, &bloodTypeErr):
		s.respondError(w, http.StatusBadRequest, bloodTypeErr.Error())
	case errors.Is(err, apperrors.ErrInvalidBloodType):
		s.respondError(w, http.StatusBadRequest, "invalid blood type")
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, apperrors.ErrDonorStoreUnavailable):
		s.respondError(w, http.StatusBadGateway, "donor store unavailable")
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
