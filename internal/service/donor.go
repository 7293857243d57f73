package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bloodbridge/matching-service/internal/repository"
	"github.com/bloodbridge/matching-service/pkg/api"
)

type DonorService interface {
	SetAvailability(ctx context.Context, userID string, isAvailable bool) (*api.DonorAvailability, error)
}

type DonorServiceImpl struct {
	log  *slog.Logger
	repo repository.DonorRepository
}

func NewDonorService(log *slog.Logger, repo repository.DonorRepository) *DonorServiceImpl {
	return &DonorServiceImpl{log: log, repo: repo}
}

func (s *DonorServiceImpl) SetAvailability(ctx context.Context, userID string, isAvailable bool) (*api.DonorAvailability, error) {
	const op = "internal.service.donor.SetAvailability"

	donor, err := s.repo.SetAvailability(ctx, userID, isAvailable)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("donor availability updated",
		slog.String("op", op),
		slog.String("donor_id", userID),
		slog.Bool("is_available", isAvailable),
	)

	return &api.DonorAvailability{
		DonorID:     donor.UserID,
		IsAvailable: donor.IsAvailable,
	}, nil
}
