// Package matching computes the weighted suitability score of a single donor
// for a blood request. Scoring is additive out of a soft maximum near 100:
// blood compatibility dominates, then proximity, then donor track record.
package matching

import (
	"math"

	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/bloodbridge/matching-service/internal/geo"
)

// Factor keys used in the score breakdown. A key is present only when the
// factor contributed to the total.
const (
	FactorBloodCompatibility = "bloodCompatibility"
	FactorDistance           = "distance"
	FactorReliability        = "reliability"
	FactorAvailability       = "availability"
	FactorEligibility        = "eligibility"
	FactorUrgencyBoost       = "urgencyBoost"
)

const (
	exactTypePoints      = 40
	compatibleTypePoints = 30

	// Assigned when either side has no coordinates.
	defaultDistancePoints = 15

	availabilityPoints = 5
	urgencyBoostPoints = 10

	// Stored reliability of 0 is treated the same as missing.
	defaultReliability = 5.0
)

// Result is the outcome of scoring one donor. A rejected donor has Score 0,
// an empty factor map and no distance; the pipeline drops those.
type Result struct {
	Score      int
	Factors    map[string]int
	DistanceKm *float64
}

// Score evaluates a donor against a match query. Incompatible blood types
// short-circuit: no other factor is computed.
func Score(d domain.Donor, q domain.MatchQuery) Result {
	factors := make(map[string]int)

	if !bloodtype.CanDonate(d.BloodType, q.BloodType) {
		return Result{Score: 0, Factors: factors, DistanceKm: nil}
	}

	if d.BloodType == q.BloodType {
		factors[FactorBloodCompatibility] = exactTypePoints
	} else {
		factors[FactorBloodCompatibility] = compatibleTypePoints
	}

	var distance *float64

	if q.Latitude != nil && q.Longitude != nil && d.Latitude != nil && d.Longitude != nil {
		km := geo.DistanceKm(*q.Latitude, *q.Longitude, *d.Latitude, *d.Longitude)
		distance = &km
		factors[FactorDistance] = distancePoints(km)
	} else {
		factors[FactorDistance] = defaultDistancePoints
	}

	reliability := defaultReliability
	if d.ReliabilityScore != nil && *d.ReliabilityScore > 0 {
		reliability = *d.ReliabilityScore
	}

	factors[FactorReliability] = int(math.Round(reliability / 10 * 20))

	if d.IsAvailable {
		factors[FactorAvailability] = availabilityPoints
	}

	switch {
	case d.EligibilityScore >= 80:
		factors[FactorEligibility] = 5
	case d.EligibilityScore >= 60:
		factors[FactorEligibility] = 3
	}

	// The boost needs a real computed distance; the flat default never
	// qualifies.
	if q.Urgency == domain.UrgencyEmergency && distance != nil && *distance <= 10 {
		factors[FactorUrgencyBoost] = urgencyBoostPoints
	}

	score := 0
	for _, points := range factors {
		score += points
	}

	return Result{Score: score, Factors: factors, DistanceKm: distance}
}

// distancePoints maps a computed distance onto the proximity brackets,
// checked in ascending order with inclusive thresholds.
func distancePoints(km float64) int {
	switch {
	case km <= 5:
		return 30
	case km <= 10:
		return 25
	case km <= 25:
		return 20
	case km <= 50:
		return 15
	case km <= 100:
		return 10
	default:
		return 5
	}
}
