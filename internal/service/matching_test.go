package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bloodbridge/matching-service/internal/apperrors"
	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/bloodbridge/matching-service/internal/insight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }
func stringPtr(v string) *string    { return &v }

func availableDonor(id string, bt bloodtype.Type) domain.Donor {
	return domain.Donor{
		UserID:           id,
		BloodType:        bt,
		IsAvailable:      true,
		ReliabilityScore: float64Ptr(8),
		EligibilityScore: 90,
		FullName:         "Donor " + id,
	}
}

func newMatchingService(donors *DonorRepositoryMock, matches *MatchRepositoryMock, annotator insight.Annotator) *MatchingServiceImpl {
	return NewMatchingService(testLogger(), donors, matches, annotator)
}

func TestFindMatches_InvalidBloodType(t *testing.T) {
	svc := newMatchingService(new(DonorRepositoryMock), new(MatchRepositoryMock), nil)

	_, err := svc.FindMatches(context.Background(), domain.MatchQuery{BloodType: "X+"})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidBloodType)
}

func TestFindMatches_DonorStoreUnavailable(t *testing.T) {
	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), nil)

	_, err := svc.FindMatches(context.Background(), domain.MatchQuery{BloodType: bloodtype.APos})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDonorStoreUnavailable)
}

func TestFindMatches_NoDonorsIsSuccess(t *testing.T) {
	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything,
		[]bloodtype.Type{bloodtype.ONeg, bloodtype.OPos, bloodtype.ANeg, bloodtype.APos}).
		Return([]domain.Donor{}, nil)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), nil)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{BloodType: bloodtype.APos})

	require.NoError(t, err)
	assert.Empty(t, resp.Matches)
	assert.Zero(t, resp.TotalCompatible)
	assert.Equal(t, []string{"O-", "O+", "A-", "A+"}, resp.CompatibleTypes)
	assert.Nil(t, resp.Insight)
}

func TestFindMatches_TruncatesButCountsAllCompatible(t *testing.T) {
	donors := make([]domain.Donor, 0, 15)
	for i := 0; i < 15; i++ {
		donors = append(donors, availableDonor(fmt.Sprintf("donor-%02d", i), bloodtype.APos))
	}

	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return(donors, nil)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), nil)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{BloodType: bloodtype.APos})

	require.NoError(t, err)
	assert.Len(t, resp.Matches, 10)
	assert.Equal(t, 15, resp.TotalCompatible)
}

func TestFindMatches_RankingOrder(t *testing.T) {
	near := availableDonor("donor-near", bloodtype.APos)
	near.Latitude = float64Ptr(0)
	near.Longitude = float64Ptr(0.02)

	far := availableDonor("donor-far", bloodtype.APos)
	far.Latitude = float64Ptr(0)
	far.Longitude = float64Ptr(0.06)

	// Same score as the others except for the compatible-not-exact type.
	weaker := availableDonor("donor-weaker", bloodtype.ONeg)
	weaker.Latitude = float64Ptr(0)
	weaker.Longitude = float64Ptr(0.02)

	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{far, weaker, near}, nil)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), nil)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{
		BloodType: bloodtype.APos,
		Latitude:  float64Ptr(0),
		Longitude: float64Ptr(0),
	})

	require.NoError(t, err)
	require.Len(t, resp.Matches, 3)
	assert.Equal(t, "donor-near", resp.Matches[0].DonorID)
	assert.Equal(t, "donor-far", resp.Matches[1].DonorID)
	assert.Equal(t, "donor-weaker", resp.Matches[2].DonorID)
	assert.GreaterOrEqual(t, resp.Matches[0].MatchScore, resp.Matches[1].MatchScore)
}

func TestFindMatches_SkipsDonorWithUnknownBloodType(t *testing.T) {
	valid := availableDonor("donor-valid", bloodtype.APos)
	corrupt := availableDonor("donor-corrupt", "Z+")

	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{corrupt, valid}, nil)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), nil)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{BloodType: bloodtype.APos})

	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Equal(t, "donor-valid", resp.Matches[0].DonorID)
	assert.Equal(t, 1, resp.TotalCompatible)
}

func TestFindMatches_TieBreakByDonorID(t *testing.T) {
	a := availableDonor("donor-a", bloodtype.APos)
	b := availableDonor("donor-b", bloodtype.APos)

	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{b, a}, nil)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), nil)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{BloodType: bloodtype.APos})

	require.NoError(t, err)
	require.Len(t, resp.Matches, 2)
	assert.Equal(t, resp.Matches[0].MatchScore, resp.Matches[1].MatchScore)
	assert.Equal(t, "donor-a", resp.Matches[0].DonorID)
	assert.Equal(t, "donor-b", resp.Matches[1].DonorID)
}

func TestFindMatches_WithInsight(t *testing.T) {
	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{availableDonor("donor-1", bloodtype.APos)}, nil)

	annotator := new(AnnotatorMock)
	annotator.On("Summarize", mock.Anything, mock.MatchedBy(func(req insight.SummaryRequest) bool {
		return req.BloodType == "A+" && len(req.Matches) == 1 && req.Matches[0].Rank == 1 &&
			req.Matches[0].Reliability != nil && *req.Matches[0].Reliability == 8
	})).Return("One strong exact match available.", nil)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), annotator)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{
		BloodType: bloodtype.APos,
		UseAI:     true,
	})

	require.NoError(t, err)
	require.NotNil(t, resp.Insight)
	assert.Equal(t, "One strong exact match available.", *resp.Insight)
	assert.Empty(t, resp.InsightStatus)
	annotator.AssertExpectations(t)
}

func TestFindMatches_InsightFailureIsNotFatal(t *testing.T) {
	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{availableDonor("donor-1", bloodtype.APos)}, nil)

	annotator := new(AnnotatorMock)
	annotator.On("Summarize", mock.Anything, mock.Anything).
		Return("", apperrors.ErrInsightUnavailable)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), annotator)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{
		BloodType: bloodtype.APos,
		UseAI:     true,
	})

	require.NoError(t, err)
	require.Len(t, resp.Matches, 1)
	assert.Nil(t, resp.Insight)
	assert.Empty(t, resp.InsightStatus)
}

func TestFindMatches_InsightRateLimitedIsAdvisory(t *testing.T) {
	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{availableDonor("donor-1", bloodtype.APos)}, nil)

	annotator := new(AnnotatorMock)
	annotator.On("Summarize", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("wrapped: %w", apperrors.ErrInsightRateLimited))

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), annotator)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{
		BloodType: bloodtype.APos,
		UseAI:     true,
	})

	require.NoError(t, err)
	assert.Nil(t, resp.Insight)
	assert.Equal(t, "rate_limited", resp.InsightStatus)
}

func TestFindMatches_InsightSkippedWithoutFlag(t *testing.T) {
	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{availableDonor("donor-1", bloodtype.APos)}, nil)

	annotator := new(AnnotatorMock)

	svc := newMatchingService(donorRepo, new(MatchRepositoryMock), annotator)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{BloodType: bloodtype.APos})

	require.NoError(t, err)
	assert.Nil(t, resp.Insight)
	annotator.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
}

func TestFindMatches_PersistsTopFive(t *testing.T) {
	donors := make([]domain.Donor, 0, 8)
	for i := 0; i < 8; i++ {
		donors = append(donors, availableDonor(fmt.Sprintf("donor-%d", i), bloodtype.APos))
	}

	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return(donors, nil)

	matchRepo := new(MatchRepositoryMock)
	matchRepo.On("UpsertMatches", mock.Anything, mock.MatchedBy(func(records []domain.MatchRecord) bool {
		if len(records) != 5 {
			return false
		}
		for _, r := range records {
			if r.RequestID != "req-1" || r.Status != "pending" || r.MatchScore <= 0 {
				return false
			}
		}
		return true
	})).Return(nil)

	svc := newMatchingService(donorRepo, matchRepo, nil)

	_, err := svc.FindMatches(context.Background(), domain.MatchQuery{
		BloodType: bloodtype.APos,
		RequestID: stringPtr("req-1"),
	})

	require.NoError(t, err)
	matchRepo.AssertExpectations(t)
}

func TestFindMatches_PersistenceFailureIsNotFatal(t *testing.T) {
	donorRepo := new(DonorRepositoryMock)
	donorRepo.On("ListAvailableByBloodTypes", mock.Anything, mock.Anything).
		Return([]domain.Donor{availableDonor("donor-1", bloodtype.APos)}, nil)

	matchRepo := new(MatchRepositoryMock)
	matchRepo.On("UpsertMatches", mock.Anything, mock.Anything).
		Return(errors.New("disk full"))

	svc := newMatchingService(donorRepo, matchRepo, nil)

	resp, err := svc.FindMatches(context.Background(), domain.MatchQuery{
		BloodType: bloodtype.APos,
		RequestID: stringPtr("req-1"),
	})

	require.NoError(t, err)
	assert.Len(t, resp.Matches, 1)
}

func TestCompatibility(t *testing.T) {
	svc := newMatchingService(new(DonorRepositoryMock), new(MatchRepositoryMock), nil)

	resp, err := svc.Compatibility(context.Background(), "AB+")

	require.NoError(t, err)
	assert.Equal(t, "AB+", resp.BloodType)
	assert.Len(t, resp.CompatibleDonors, 8)
	assert.Equal(t, []string{"AB+"}, resp.CanDonateTo)
}

func TestCompatibility_InvalidType(t *testing.T) {
	svc := newMatchingService(new(DonorRepositoryMock), new(MatchRepositoryMock), nil)

	_, err := svc.Compatibility(context.Background(), "H2O")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidBloodType)

	var typed *apperrors.InvalidBloodTypeError
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, "H2O", typed.Value)
}
