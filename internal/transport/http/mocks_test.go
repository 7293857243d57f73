package http

import (
	"context"

	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/bloodbridge/matching-service/internal/service"
	"github.com/bloodbridge/matching-service/pkg/api"
	"github.com/stretchr/testify/mock"
)

type MatchingServiceMock struct {
	mock.Mock
}

var _ service.MatchingService = (*MatchingServiceMock)(nil)

func (m *MatchingServiceMock) FindMatches(ctx context.Context, query domain.MatchQuery) (*api.MatchResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.MatchResponse), args.Error(1)
}

func (m *MatchingServiceMock) Compatibility(ctx context.Context, rawType string) (*api.CompatibilityResponse, error) {
	args := m.Called(ctx, rawType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.CompatibilityResponse), args.Error(1)
}

type BloodRequestServiceMock struct {
	mock.Mock
}

var _ service.BloodRequestService = (*BloodRequestServiceMock)(nil)

func (m *BloodRequestServiceMock) Create(ctx context.Context, req domain.BloodRequest) (*api.BloodRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.BloodRequest), args.Error(1)
}

func (m *BloodRequestServiceMock) ListRecent(ctx context.Context) ([]api.BloodRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.BloodRequest), args.Error(1)
}

func (m *BloodRequestServiceMock) UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*api.BloodRequest, error) {
	args := m.Called(ctx, requestID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.BloodRequest), args.Error(1)
}

type BloodBankServiceMock struct {
	mock.Mock
}

var _ service.BloodBankService = (*BloodBankServiceMock)(nil)

func (m *BloodBankServiceMock) Nearby(ctx context.Context, lat, lon, radiusKm float64, onlyVerified bool) ([]api.BloodBank, error) {
	args := m.Called(ctx, lat, lon, radiusKm, onlyVerified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]api.BloodBank), args.Error(1)
}

type DonorServiceMock struct {
	mock.Mock
}

var _ service.DonorService = (*DonorServiceMock)(nil)

func (m *DonorServiceMock) SetAvailability(ctx context.Context, userID string, isAvailable bool) (*api.DonorAvailability, error) {
	args := m.Called(ctx, userID, isAvailable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*api.DonorAvailability), args.Error(1)
}
