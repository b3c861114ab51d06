// README: Vehicle registry backed by PostgreSQL.
package vehicle

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ecoroute/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Upsert(ctx context.Context, v *Vehicle) error {
	row := s.db.QueryRow(ctx, `
		INSERT INTO vehicles (
			id, type, fuel_type, fuel_efficiency, cargo_capacity, current_load, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type,
			fuel_type = EXCLUDED.fuel_type,
			fuel_efficiency = EXCLUDED.fuel_efficiency,
			cargo_capacity = EXCLUDED.cargo_capacity,
			current_load = EXCLUDED.current_load,
			updated_at = NOW()
		RETURNING updated_at`,
		string(v.ID), v.Type, v.FuelType, v.FuelEfficiency, v.CargoCapacity, v.CurrentLoad,
	)
	return row.Scan(&v.UpdatedAt)
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Vehicle, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, type, fuel_type, fuel_efficiency, cargo_capacity, current_load, updated_at
		FROM vehicles
		WHERE id = $1`, string(id),
	)
	v, err := scanVehicle(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Store) List(ctx context.Context) ([]*Vehicle, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, type, fuel_type, fuel_efficiency, cargo_capacity, current_load, updated_at
		FROM vehicles
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// UpdateLoad sets current_load only when it fits the stored capacity.
// It reports false when no row matched.
func (s *Store) UpdateLoad(ctx context.Context, id types.ID, load float64) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE vehicles
		SET current_load = $1, updated_at = NOW()
		WHERE id = $2 AND $1 <= cargo_capacity`,
		load, string(id),
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanVehicle(row pgx.Row) (*Vehicle, error) {
	var v Vehicle
	var id string
	if err := row.Scan(&id, &v.Type, &v.FuelType, &v.FuelEfficiency, &v.CargoCapacity, &v.CurrentLoad, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.ID = types.ID(id)
	return &v, nil
}
