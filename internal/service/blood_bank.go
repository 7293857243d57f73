package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/bloodbridge/matching-service/internal/geo"
	"github.com/bloodbridge/matching-service/internal/repository"
	"github.com/bloodbridge/matching-service/pkg/api"
)

type BloodBankService interface {
	Nearby(ctx context.Context, lat, lon, radiusKm float64, onlyVerified bool) ([]api.BloodBank, error)
}

type BloodBankServiceImpl struct {
	log  *slog.Logger
	repo repository.BloodBankRepository
}

func NewBloodBankService(log *slog.Logger, repo repository.BloodBankRepository) *BloodBankServiceImpl {
	return &BloodBankServiceImpl{log: log, repo: repo}
}

// Nearby returns blood banks within radiusKm of the given point, nearest
// first, each annotated with distance and an estimated travel time.
func (s *BloodBankServiceImpl) Nearby(ctx context.Context, lat, lon, radiusKm float64, onlyVerified bool) ([]api.BloodBank, error) {
	const op = "internal.service.bloodbank.Nearby"

	banks, err := s.repo.List(ctx, onlyVerified)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make([]api.BloodBank, 0, len(banks))
	for _, b := range banks {
		distance := geo.DistanceKm(lat, lon, b.Latitude, b.Longitude)
		if distance > radiusKm {
			continue
		}

		out = append(out, api.BloodBank{
			ID:            b.ID,
			Name:          b.Name,
			Address:       b.Address,
			City:          b.City,
			State:         b.State,
			Phone:         b.Phone,
			Latitude:      b.Latitude,
			Longitude:     b.Longitude,
			IsVerified:    b.IsVerified,
			Is24x7:        b.Is24x7,
			Rating:        b.Rating,
			DistanceKm:    distance,
			TravelTimeMin: geo.TravelTimeMinutes(distance),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})

	s.log.Debug("nearby blood banks resolved",
		slog.String("op", op),
		slog.Int("total", len(banks)),
		slog.Int("within_radius", len(out)),
	)

	return out, nil
}
