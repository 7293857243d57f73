package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/bloodbridge/matching-service/internal/domain"
	"github.com/jmoiron/sqlx"
)

type BloodBankRepository struct {
	db  *sqlx.DB
	log *slog.Logger
	sq  sq.StatementBuilderType
}

func NewBloodBankRepository(db *sqlx.DB, log *slog.Logger) *BloodBankRepository {
	return &BloodBankRepository{
		db:  db,
		log: log,
		sq:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (bb *BloodBankRepository) List(ctx context.Context, onlyVerified bool) ([]domain.BloodBank, error) {
	const op = "internal.repository.postgres.ListBloodBanks"

	builder := bb.sq.Select("id", "name", "address", "city", "state", "phone",
		"latitude", "longitude", "is_verified", "is_24x7", "rating").
		From("blood_banks")

	if onlyVerified {
		builder = builder.Where(sq.Eq{"is_verified": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build select query: %w", op, err)
	}

	var banks []domain.BloodBank
	if err := bb.db.SelectContext(ctx, &banks, query, args...); err != nil {
		return nil, fmt.Errorf("%s: failed to execute select: %w", op, err)
	}

	return banks, nil
}
