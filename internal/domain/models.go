package domain

import (
	"time"

	"github.com/bloodbridge/matching-service/internal/bloodtype"
)

type Urgency string

const (
	UrgencyNormal    Urgency = "normal"
	UrgencyUrgent    Urgency = "urgent"
	UrgencyEmergency Urgency = "emergency"
)

type RequestStatus string

const (
	RequestStatusActive    RequestStatus = "active"
	RequestStatusFulfilled RequestStatus = "fulfilled"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// Donor is one candidate at scoring time: the donor profile joined with the
// display/location fields of the user profile.
type Donor struct {
	UserID           string         `db:"user_id"`
	BloodType        bloodtype.Type `db:"blood_type"`
	IsAvailable      bool           `db:"is_available"`
	ReliabilityScore *float64       `db:"reliability_score"`
	TotalDonations   int            `db:"total_donations"`
	LastDonationDate *time.Time     `db:"last_donation_date"`
	EligibilityScore float64        `db:"eligibility_score"`
	FullName         string         `db:"full_name"`
	Phone            *string        `db:"phone"`
	City             *string        `db:"city"`
	State            *string        `db:"state"`
	Latitude         *float64       `db:"latitude"`
	Longitude        *float64       `db:"longitude"`
}

// MatchQuery describes one matching invocation.
type MatchQuery struct {
	RequestID  *string
	BloodType  bloodtype.Type
	Latitude   *float64
	Longitude  *float64
	Urgency    Urgency
	MaxResults int
	UseAI      bool
}

// MatchRecord is one persisted (request, donor) pairing.
type MatchRecord struct {
	RequestID  string   `db:"request_id"`
	DonorID    string   `db:"donor_id"`
	MatchScore int      `db:"match_score"`
	DistanceKm *float64 `db:"distance_km"`
	Status     string   `db:"status"`
}

type BloodRequest struct {
	ID           string         `db:"id"`
	RequesterID  string         `db:"requester_id"`
	PatientName  string         `db:"patient_name"`
	BloodType    bloodtype.Type `db:"blood_type"`
	UnitsNeeded  int            `db:"units_needed"`
	Urgency      Urgency        `db:"urgency"`
	Status       RequestStatus  `db:"status"`
	HospitalName *string        `db:"hospital_name"`
	City         string         `db:"city"`
	State        string         `db:"state"`
	ContactPhone string         `db:"contact_phone"`
	Latitude     *float64       `db:"latitude"`
	Longitude    *float64       `db:"longitude"`
	Notes        *string        `db:"notes"`
	RequiredBy   *time.Time     `db:"required_by"`
	CreatedAt    time.Time      `db:"created_at"`
	FulfilledAt  *time.Time     `db:"fulfilled_at"`
}

type BloodBank struct {
	ID         string   `db:"id"`
	Name       string   `db:"name"`
	Address    string   `db:"address"`
	City       string   `db:"city"`
	State      string   `db:"state"`
	Phone      string   `db:"phone"`
	Latitude   float64  `db:"latitude"`
	Longitude  float64  `db:"longitude"`
	IsVerified bool     `db:"is_verified"`
	Is24x7     bool     `db:"is_24x7"`
	Rating     *float64 `db:"rating"`
}

// ParseUrgency maps a raw string to an Urgency, defaulting to normal.
func ParseUrgency(s string) Urgency {
	switch Urgency(s) {
	case UrgencyUrgent:
		return UrgencyUrgent
	case UrgencyEmergency:
		return UrgencyEmergency
	default:
		return UrgencyNormal
	}
}
