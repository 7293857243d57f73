package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/bloodbridge/matching-service/internal/apperrors"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type BloodRequestRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewBloodRequestRepository(db *sqlx.DB, log *slog.Logger) *BloodRequestRepository {
	return &BloodRequestRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var bloodRequestColumns = []string{
	"id", "requester_id", "patient_name", "blood_type", "units_needed",
	"urgency", "status", "hospital_name", "city", "state", "contact_phone",
	"latitude", "longitude", "notes", "required_by", "created_at", "fulfilled_at",
}

func (br *BloodRequestRepository) Create(ctx context.Context, req domain.BloodRequest) (*domain.BloodRequest, error) {
	const op = "internal.repository.postgres.CreateBloodRequest"

	br.log.Info("creating blood request",
		slog.String("op", op),
		slog.String("bloodType", string(req.BloodType)),
		slog.String("urgency", string(req.Urgency)),
	)

	query, args, err := br.sq.Insert("blood_requests").
		Columns("id", "requester_id", "patient_name", "blood_type", "units_needed",
			"urgency", "status", "hospital_name", "city", "state", "contact_phone",
			"latitude", "longitude", "notes", "required_by").
		Values(req.ID, req.RequesterID, req.PatientName, req.BloodType, req.UnitsNeeded,
			req.Urgency, domain.RequestStatusActive, req.HospitalName, req.City, req.State,
			req.ContactPhone, req.Latitude, req.Longitude, req.Notes, req.RequiredBy).
		Suffix("RETURNING " + joinColumns(bloodRequestColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	var created domain.BloodRequest
	if err := br.db.QueryRowxContext(ctx, query, args...).StructScan(&created); err != nil {
		return nil, fmt.Errorf("%s: failed to execute insert: %w", op, err)
	}

	return &created, nil
}

func (br *BloodRequestRepository) ListRecent(ctx context.Context, limit uint64) ([]domain.BloodRequest, error) {
	const op = "internal.repository.postgres.ListRecentBloodRequests"

	query, args, err := br.sq.Select(bloodRequestColumns...).
		From("blood_requests").
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	var requests []domain.BloodRequest
	if err := br.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute select: %w", op, err)
	}

	return requests, nil
}

func (br *BloodRequestRepository) UpdateStatus(ctx context.Context, requestID string, status domain.RequestStatus) (*domain.BloodRequest, error) {
	const op = "internal.repository.postgres.UpdateBloodRequestStatus"

	builder := br.sq.Update("blood_requests").
		Set("status", status).
		Where(sq.Eq{"id": requestID})

	if status == domain.RequestStatusFulfilled {
		builder = builder.Set("fulfilled_at", sq.Expr("now()"))
	}

	query, args, err := builder.
		Suffix("RETURNING " + joinColumns(bloodRequestColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var updated domain.BloodRequest
	if err := br.db.QueryRowxContext(ctx, query, args...).StructScan(&updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: blood request with id '%s'", apperrors.ErrNotFound, requestID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &updated, nil
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
