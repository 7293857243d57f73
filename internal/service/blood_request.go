package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/bloodbridge/matching-service/internal/repository"
	"github.com/bloodbridge/matching-service/pkg/api"
	"github.com/google/uuid"
)

// recentRequestsLimit caps the request feed at the newest entries.
const recentRequestsLimit = 50

type BloodRequestService interface {
	Create(ctx context.Context, req domain.BloodRequest) (*api.BloodRequest, error)
	ListRecent(ctx context.Context) ([]api.BloodRequest, error)
	UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*api.BloodRequest, error)
}

type BloodRequestServiceImpl struct {
	log  *slog.Logger
	repo repository.BloodRequestRepository
}

func NewBloodRequestService(log *slog.Logger, repo repository.BloodRequestRepository) *BloodRequestServiceImpl {
	return &BloodRequestServiceImpl{log: log, repo: repo}
}

func (s *BloodRequestServiceImpl) Create(ctx context.Context, req domain.BloodRequest) (*api.BloodRequest, error) {
	const op = "internal.service.bloodrequest.Create"

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.UnitsNeeded <= 0 {
		req.UnitsNeeded = 1
	}

	created, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("blood request created",
		slog.String("op", op),
		slog.String("request_id", created.ID),
		slog.String("urgency", string(created.Urgency)),
	)

	resp := toAPIBloodRequest(created)

	return &resp, nil
}

func (s *BloodRequestServiceImpl) ListRecent(ctx context.Context) ([]api.BloodRequest, error) {
	const op = "internal.service.bloodrequest.ListRecent"

	requests, err := s.repo.ListRecent(ctx, recentRequestsLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]api.BloodRequest, 0, len(requests))
	for i := range requests {
		out = append(out, toAPIBloodRequest(&requests[i]))
	}

	return out, nil
}

func (s *BloodRequestServiceImpl) UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*api.BloodRequest, error) {
	const op = "internal.service.bloodrequest.UpdateStatus"

	updated, err := s.repo.UpdateStatus(ctx, requestID, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("blood request status updated",
		slog.String("op", op),
		slog.String("request_id", requestID),
		slog.String("status", string(status)),
	)

	resp := toAPIBloodRequest(updated)

	return &resp, nil
}

func toAPIBloodRequest(r *domain.BloodRequest) api.BloodRequest {
	return api.BloodRequest{
		ID:           r.ID,
		PatientName:  r.PatientName,
		BloodType:    string(r.BloodType),
		UnitsNeeded:  r.UnitsNeeded,
		Urgency:      string(r.Urgency),
		Status:       string(r.Status),
		HospitalName: r.HospitalName,
		City:         r.City,
		State:        r.State,
		ContactPhone: r.ContactPhone,
		Notes:        r.Notes,
		RequiredBy:   r.RequiredBy,
		CreatedAt:    r.CreatedAt,
		FulfilledAt:  r.FulfilledAt,
	}
}
