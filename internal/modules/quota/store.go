// README: Quota store backed by PostgreSQL.
package quota

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles api_usage persistence.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// UseCall atomically checks the daily budget and deducts one call.
// The counter is reset to budget when last_reset_day is behind today.
// Returns ErrQuotaExhausted when 0 rows are updated (budget spent or provider absent).
func (s *Store) UseCall(ctx context.Context, provider string, budget int) error {
	today := time.Now().UTC().Format(dayLayout)

	tag, err := s.db.Exec(ctx, `
		UPDATE api_usage SET
			calls_remaining = CASE WHEN last_reset_day != $1 THEN $2 - 1 ELSE calls_remaining - 1 END,
			last_reset_day = $1
		WHERE provider = $3 AND (last_reset_day < $1 OR calls_remaining > 0)
	`, today, budget, provider)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExhausted
	}
	return nil
}

// EnsureProvider inserts a fresh budget row; existing rows are left untouched.
func (s *Store) EnsureProvider(ctx context.Context, provider string, budget int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO api_usage (provider, calls_remaining, last_reset_day)
		VALUES ($1, $2, $3)
		ON CONFLICT (provider) DO NOTHING
	`, provider, budget, time.Now().UTC().Format(dayLayout))
	return err
}

// Remaining returns today's remaining calls for provider.
func (s *Store) Remaining(ctx context.Context, provider string, budget int) (int, error) {
	var remaining int
	var day string
	err := s.db.QueryRow(ctx, `SELECT calls_remaining, last_reset_day FROM api_usage WHERE provider = $1`, provider).
		Scan(&remaining, &day)
	if err != nil {
		return 0, err
	}
	if day < time.Now().UTC().Format(dayLayout) {
		return budget, nil
	}
	return remaining, nil
}
