package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/bloodbridge/matching-service/internal/apperrors"
	"github.com/bloodbridge/matching-service/internal/bloodtype"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type DonorRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewDonorRepository(db *sqlx.DB, log *slog.Logger) *DonorRepository {
	return &DonorRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// donorColumns is the joined projection of donor_profiles and profiles used
// for candidate scoring. Nullable counters are coalesced so the scorer only
// deals with pointers where absence is meaningful.
var donorColumns = []string{
	"dp.user_id",
	"dp.blood_type",
	"dp.is_available",
	"dp.reliability_score",
	"COALESCE(dp.total_donations, 0) AS total_donations",
	"dp.last_donation_date",
	"COALESCE(dp.eligibility_score, 0) AS eligibility_score",
	"COALESCE(p.full_name, 'Anonymous Donor') AS full_name",
	"p.phone",
	"p.city",
	"p.state",
	"p.latitude",
	"p.longitude",
}

func (dr *DonorRepository) ListAvailableByBloodTypes(ctx context.Context, types []bloodtype.Type) ([]domain.Donor, error) {
	const op = "internal.repository.postgres.ListAvailableByBloodTypes"

	typeStrings := make([]string, 0, len(types))
	for _, t := range types {
		typeStrings = append(typeStrings, string(t))
	}

	query, args, err := dr.sq.Select(donorColumns...).
		From("donor_profiles dp").
		Join("profiles p ON p.user_id = dp.user_id").
		Where(sq.Eq{"dp.blood_type": typeStrings, "dp.is_available": true}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	var donors []domain.Donor
	if err := dr.db.SelectContext(ctx, &donors, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute select: %w", op, err)
	}

	return donors, nil
}

func (dr *DonorRepository) SetAvailability(ctx context.Context, userID string, isAvailable bool) (*domain.Donor, error) {
	const op = "internal.repository.postgres.SetAvailability"

	dr.log.Info("setting donor availability",
		slog.String("op", op),
		slog.String("userID", userID),
		slog.Bool("isAvailable", isAvailable),
	)

	query, args, err := dr.sq.Update("donor_profiles").
		Set("is_available", isAvailable).
		Where(sq.Eq{"user_id": userID}).
		Suffix("RETURNING user_id, blood_type, is_available, reliability_score, " +
			"COALESCE(total_donations, 0) AS total_donations, last_donation_date, " +
			"COALESCE(eligibility_score, 0) AS eligibility_score").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build update query: %w", op, err)
	}

	var donor domain.Donor
	if err = dr.db.QueryRowxContext(ctx, query, args...).StructScan(&donor); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: donor with id '%s'", apperrors.ErrNotFound, userID)
		}

		return nil, fmt.Errorf("%s: failed to execute update: %w", op, err)
	}

	return &donor, nil
}
