// package repository defines the interfaces for the data persistence layer.
// These interfaces abstract the underlying database implementation from the service layer.
package repository

import (
	"context"

	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/bloodbridge/matching-service/internal/domain"
)

// DonorRepository defines the contract for donor candidate and availability data.
type DonorRepository interface {
	// ListAvailableByBloodTypes retrieves every available donor whose blood
	// type is one of the given types, joined with their profile fields.
	ListAvailableByBloodTypes(ctx context.Context, types []bloodtype.Type) ([]domain.Donor, error)

	// SetAvailability flips a donor's availability flag.
	// It returns apperrors.ErrNotFound if the donor does not exist.
	SetAvailability(ctx context.Context, userID string, isAvailable bool) (*domain.Donor, error)
}

// MatchRepository defines the contract for persisted match records.
type MatchRepository interface {
	// UpsertMatches writes the given match records, updating score and
	// distance on (request_id, donor_id) conflicts.
	UpsertMatches(ctx context.Context, records []domain.MatchRecord) error
}

// BloodRequestRepository defines the contract for blood request lifecycle operations.
type BloodRequestRepository interface {
	// Create inserts a new blood request and returns it with generated fields.
	Create(ctx context.Context, req domain.BloodRequest) (*domain.BloodRequest, error)

	// ListRecent returns the newest requests, capped at limit.
	ListRecent(ctx context.Context, limit uint64) ([]domain.BloodRequest, error)

	// UpdateStatus transitions a request to the given status, stamping
	// fulfilled_at when the status is fulfilled.
	// It returns apperrors.ErrNotFound if the request does not exist.
	UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*domain.BloodRequest, error)
}

// BloodBankRepository defines the contract for blood bank lookups.
type BloodBankRepository interface {
	// List returns all blood banks, optionally restricted to verified ones.
	List(ctx context.Context, onlyVerified bool) ([]domain.BloodBank, error)
}
