// Package api defines the JSON wire types exposed by the HTTP layer.
// Services return these so the transport layer only has to encode them.
package api

import "time"

type DonorProfile struct {
	FullName string  `json:"full_name"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
	State    *string `json:"state"`
}

// DonorMatch is one scored donor in a match response. ScoreFactors carries
// only the factors that actually contributed.
type DonorMatch struct {
	DonorID          string         `json:"donor_id"`
	BloodType        string         `json:"blood_type"`
	MatchScore       int            `json:"match_score"`
	ScoreFactors     map[string]int `json:"score_factors"`
	DistanceKm       *float64       `json:"distance_km"`
	ReliabilityScore *float64       `json:"reliability_score"`
	TotalDonations   int            `json:"total_donations"`
	LastDonationDate *time.Time     `json:"last_donation_date"`
	EligibilityScore float64        `json:"eligibility_score"`
	Profile          DonorProfile   `json:"profile"`
}

// InsightStatusRateLimited marks an outcome whose insight was skipped because
// the upstream model reported rate limiting. The match list is unaffected.
const InsightStatusRateLimited = "rate_limited"

type MatchResponse struct {
	Matches         []DonorMatch `json:"matches"`
	TotalCompatible int          `json:"total_compatible"`
	CompatibleTypes []string     `json:"compatible_types"`
	Insight         *string      `json:"insight"`
	InsightStatus   string       `json:"insight_status,omitempty"`
}

type CompatibilityResponse struct {
	BloodType        string   `json:"blood_type"`
	CompatibleDonors []string `json:"compatible_donors"`
	CanDonateTo      []string `json:"can_donate_to"`
}

type BloodRequest struct {
	ID           string     `json:"id"`
	PatientName  string     `json:"patient_name"`
	BloodType    string     `json:"blood_type"`
	UnitsNeeded  int        `json:"units_needed"`
	Urgency      string     `json:"urgency"`
	Status       string     `json:"status"`
	HospitalName *string    `json:"hospital_name"`
	City         string     `json:"city"`
	State        string     `json:"state"`
	ContactPhone string     `json:"contact_phone"`
	Notes        *string    `json:"notes"`
	RequiredBy   *time.Time `json:"required_by"`
	CreatedAt    time.Time  `json:"created_at"`
	FulfilledAt  *time.Time `json:"fulfilled_at"`
}

type BloodBank struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Address       string   `json:"address"`
	City          string   `json:"city"`
	State         string   `json:"state"`
	Phone         string   `json:"phone"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	IsVerified    bool     `json:"is_verified"`
	Is24x7        bool     `json:"is_24x7"`
	Rating        *float64 `json:"rating"`
	DistanceKm    float64  `json:"distance_km"`
	TravelTimeMin int      `json:"travel_time_min"`
}

type DonorAvailability struct {
	DonorID     string `json:"donor_id"`
	IsAvailable bool   `json:"is_available"`
}
