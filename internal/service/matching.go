package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/bloodbridge/matching-service/internal/apperrors"
	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/bloodbridge/matching-service/internal/insight"
	"github.com/bloodbridge/matching-service/internal/matching"
	"github.com/bloodbridge/matching-service/internal/repository"
	"github.com/bloodbridge/matching-service/pkg/api"
	"github.com/bloodbridge/matching-service/pkg/logger/sl"
)

const (
	defaultMaxResults = 10
	insightTopMatches = 3
	persistTopMatches = 5
	persistedStatus   = "pending"
)

type MatchingService interface {
	FindMatches(ctx context.Context, query domain.MatchQuery) (*api.MatchResponse, error)
	Compatibility(ctx context.Context, rawType string) (*api.CompatibilityResponse, error)
}

type MatchingServiceImpl struct {
	log       *slog.Logger
	donors    repository.DonorRepository
	matches   repository.MatchRepository
	annotator insight.Annotator
}

// NewMatchingService wires the ranking pipeline. annotator may be nil, in
// which case requests asking for an insight get ranked matches without one.
func NewMatchingService(
	log *slog.Logger,
	donors repository.DonorRepository,
	matches repository.MatchRepository,
	annotator insight.Annotator,
) *MatchingServiceImpl {
	return &MatchingServiceImpl{
		log:       log,
		donors:    donors,
		matches:   matches,
		annotator: annotator,
	}
}

// scoredDonor pairs a candidate with its score breakdown for ranking.
type scoredDonor struct {
	donor  domain.Donor
	result matching.Result
}

func (s *MatchingServiceImpl) FindMatches(ctx context.Context, query domain.MatchQuery) (*api.MatchResponse, error) {
	const op = "internal.service.matching.FindMatches"
	log := s.log.With(slog.String("op", op), slog.String("blood_type", string(query.BloodType)))

	compatibleTypes, err := bloodtype.CompatibleDonorTypes(query.BloodType)
	if err != nil {
		return nil, err
	}

	donors, err := s.donors.ListAvailableByBloodTypes(ctx, compatibleTypes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, apperrors.ErrDonorStoreUnavailable, err)
	}

	scored := make([]scoredDonor, 0, len(donors))
	for _, d := range donors {
		// A bad donor record excludes that one donor, never the batch.
		if _, parseErr := bloodtype.Parse(string(d.BloodType)); parseErr != nil {
			log.Warn("skipping donor with unknown blood type",
				slog.String("donor_id", d.UserID),
				slog.String("donor_blood_type", string(d.BloodType)),
			)
			continue
		}

		res := matching.Score(d, query)
		if res.Score > 0 {
			scored = append(scored, scoredDonor{donor: d, result: res})
		}
	}

	// Score descending, then nearest first (known distances before unknown),
	// then donor ID for a stable total order.
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.result.Score != b.result.Score {
			return a.result.Score > b.result.Score
		}
		if less, decided := lessByDistance(a.result.DistanceKm, b.result.DistanceKm); decided {
			return less
		}
		return a.donor.UserID < b.donor.UserID
	})

	totalCompatible := len(scored)

	maxResults := query.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	log.Info("ranking finished",
		slog.Int("candidates", len(donors)),
		slog.Int("compatible", totalCompatible),
		slog.Int("returned", len(scored)),
	)

	resp := &api.MatchResponse{
		Matches:         make([]api.DonorMatch, 0, len(scored)),
		TotalCompatible: totalCompatible,
		CompatibleTypes: bloodtype.Strings(compatibleTypes),
	}
	for _, sd := range scored {
		resp.Matches = append(resp.Matches, toAPIDonorMatch(sd))
	}

	s.runSideEffects(ctx, query, scored, resp)

	return resp, nil
}

// runSideEffects annotates and persists the ranking. Both are best effort
// and run concurrently; neither can fail the response.
func (s *MatchingServiceImpl) runSideEffects(ctx context.Context, query domain.MatchQuery, scored []scoredDonor, resp *api.MatchResponse) {
	var wg sync.WaitGroup

	if query.UseAI && s.annotator != nil && len(scored) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.annotate(ctx, query, scored, resp)
		}()
	}

	if query.RequestID != nil && len(scored) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.persistMatches(ctx, *query.RequestID, scored)
		}()
	}

	wg.Wait()
}

func (s *MatchingServiceImpl) annotate(ctx context.Context, query domain.MatchQuery, scored []scoredDonor, resp *api.MatchResponse) {
	const op = "internal.service.matching.annotate"

	top := scored
	if len(top) > insightTopMatches {
		top = top[:insightTopMatches]
	}

	req := insight.SummaryRequest{
		BloodType:   string(query.BloodType),
		Urgency:     string(query.Urgency),
		HasLocation: query.Latitude != nil && query.Longitude != nil,
	}
	for i, sd := range top {
		req.Matches = append(req.Matches, insight.MatchSummary{
			Rank:        i + 1,
			Score:       sd.result.Score,
			BloodType:   string(sd.donor.BloodType),
			DistanceKm:  sd.result.DistanceKm,
			Reliability: sd.donor.ReliabilityScore,
		})
	}

	summary, err := s.annotator.Summarize(ctx, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsightRateLimited) {
			resp.InsightStatus = api.InsightStatusRateLimited
		}

		s.log.Warn("insight annotation failed", slog.String("op", op), sl.Err(err))

		return
	}

	resp.Insight = &summary
}

func (s *MatchingServiceImpl) persistMatches(ctx context.Context, requestID string, scored []scoredDonor) {
	const op = "internal.service.matching.persistMatches"

	top := scored
	if len(top) > persistTopMatches {
		top = top[:persistTopMatches]
	}

	records := make([]domain.MatchRecord, 0, len(top))
	for _, sd := range top {
		records = append(records, domain.MatchRecord{
			RequestID:  requestID,
			DonorID:    sd.donor.UserID,
			MatchScore: sd.result.Score,
			DistanceKm: sd.result.DistanceKm,
			Status:     persistedStatus,
		})
	}

	if err := s.matches.UpsertMatches(ctx, records); err != nil {
		s.log.Error("failed to persist matches",
			slog.String("op", op),
			slog.String("request_id", requestID),
			sl.Err(err),
		)
	}
}

func (s *MatchingServiceImpl) Compatibility(ctx context.Context, rawType string) (*api.CompatibilityResponse, error) {
	bt, err := bloodtype.Parse(rawType)
	if err != nil {
		return nil, err
	}

	donors, err := bloodtype.CompatibleDonorTypes(bt)
	if err != nil {
		return nil, err
	}

	targets, err := bloodtype.DonationTargets(bt)
	if err != nil {
		return nil, err
	}

	return &api.CompatibilityResponse{
		BloodType:        string(bt),
		CompatibleDonors: bloodtype.Strings(donors),
		CanDonateTo:      bloodtype.Strings(targets),
	}, nil
}

// lessByDistance orders known distances ascending and before unknown ones.
// The second return is false when both are unknown or equal.
func lessByDistance(a, b *float64) (bool, bool) {
	switch {
	case a != nil && b != nil:
		if *a == *b {
			return false, false
		}
		return *a < *b, true
	case a != nil:
		return true, true
	case b != nil:
		return false, true
	default:
		return false, false
	}
}

func toAPIDonorMatch(sd scoredDonor) api.DonorMatch {
	return api.DonorMatch{
		DonorID:          sd.donor.UserID,
		BloodType:        string(sd.donor.BloodType),
		MatchScore:       sd.result.Score,
		ScoreFactors:     sd.result.Factors,
		DistanceKm:       sd.result.DistanceKm,
		ReliabilityScore: sd.donor.ReliabilityScore,
		TotalDonations:   sd.donor.TotalDonations,
		LastDonationDate: sd.donor.LastDonationDate,
		EligibilityScore: sd.donor.EligibilityScore,
		Profile: api.DonorProfile{
			FullName: sd.donor.FullName,
			Phone:    sd.donor.Phone,
			City:     sd.donor.City,
			State:    sd.donor.State,
		},
	}
}
