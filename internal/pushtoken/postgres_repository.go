package pushtoken

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository stores registrations in the push_tokens table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL push token repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Upsert implements Repository.
func (r *PostgresRepository) Upsert(ctx context.Context, reg *Registration) (bool, error) {
	query := `
		INSERT INTO push_tokens (id, user_id, token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (token) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at, (xmax = 0) AS inserted
	`

	var inserted bool
	err := r.pool.QueryRow(ctx, query,
		reg.ID,
		reg.UserID,
		reg.Token,
		reg.CreatedAt,
		reg.UpdatedAt,
	).Scan(&reg.ID, &reg.CreatedAt, &inserted)
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Delete implements Repository.
func (r *PostgresRepository) Delete(ctx context.Context, userID, token string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM push_tokens WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUser implements Repository.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*Registration, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, token, created_at, updated_at
		FROM push_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Registration
	for rows.Next() {
		var reg Registration
		if err := rows.Scan(&reg.ID, &reg.UserID, &reg.Token, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &reg)
	}
	return out, rows.Err()
}

var _ Repository = (*PostgresRepository)(nil)
