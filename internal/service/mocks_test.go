package service

import (
	"context"

	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/bloodbridge/matching-service/internal/insight"
	"github.com/bloodbridge/matching-service/internal/repository"
	"github.com/stretchr/testify/mock"
)

type DonorRepositoryMock struct {
	mock.Mock
}

var _ repository.DonorRepository = (*DonorRepositoryMock)(nil)

func (m *DonorRepositoryMock) ListAvailableByBloodTypes(ctx context.Context, types []bloodtype.Type) ([]domain.Donor, error) {
	args := m.Called(ctx, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.Donor), args.Error(1)
}

func (m *DonorRepositoryMock) SetAvailability(ctx context.Context, userID string, isAvailable bool) (*domain.Donor, error) {
	args := m.Called(ctx, userID, isAvailable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.Donor), args.Error(1)
}

type MatchRepositoryMock struct {
	mock.Mock
}

var _ repository.MatchRepository = (*MatchRepositoryMock)(nil)

func (m *MatchRepositoryMock) UpsertMatches(ctx context.Context, records []domain.MatchRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

type BloodRequestRepositoryMock struct {
	mock.Mock
}

var _ repository.BloodRequestRepository = (*BloodRequestRepositoryMock)(nil)

func (m *BloodRequestRepositoryMock) Create(ctx context.Context, req domain.BloodRequest) (*domain.BloodRequest, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}

func (m *BloodRequestRepositoryMock) ListRecent(ctx context.Context, limit uint64) ([]domain.BloodRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.BloodRequest), args.Error(1)
}

func (m *BloodRequestRepositoryMock) UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*domain.BloodRequest, error) {
	args := m.Called(ctx, requestID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.BloodRequest), args.Error(1)
}

type BloodBankRepositoryMock struct {
	mock.Mock
}

var _ repository.BloodBankRepository = (*BloodBankRepositoryMock)(nil)

func (m *BloodBankRepositoryMock) List(ctx context.Context, onlyVerified bool) ([]domain.BloodBank, error) {
	args := m.Called(ctx, onlyVerified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]domain.BloodBank), args.Error(1)
}

type AnnotatorMock struct {
	mock.Mock
}

var _ insight.Annotator = (*AnnotatorMock)(nil)

func (m *AnnotatorMock) Summarize(ctx context.Context, req insight.SummaryRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
