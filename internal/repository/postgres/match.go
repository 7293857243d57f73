package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type MatchRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewMatchRepository(db *sqlx.DB, log *slog.Logger) *MatchRepository {
	return &MatchRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (mr *MatchRepository) UpsertMatches(ctx context.Context, records []domain.MatchRecord) error {
	const op = "internal.repository.postgres.UpsertMatches"

	if len(records) == 0 {
		return nil
	}

	builder := mr.sq.Insert("donor_matches").
		Columns("request_id", "donor_id", "match_score", "distance_km", "status")

	for _, r := range records {
		builder = builder.Values(r.RequestID, r.DonorID, r.MatchScore, r.DistanceKm, r.Status)
	}

	query, args, err := builder.
		Suffix(`ON CONFLICT (request_id, donor_id) DO UPDATE SET
            match_score = EXCLUDED.match_score,
            distance_km = EXCLUDED.distance_km,
            status = EXCLUDED.status`).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: failed to build insert query: %w", op, err)
	}

	if _, err := mr.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: failed to execute upsert: %w", op, err)
	}

	mr.log.Info("matches persisted",
		slog.String("op", op),
		slog.Int("count", len(records)),
	)

	return nil
}
