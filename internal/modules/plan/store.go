// README: Plan store backed by PostgreSQL; routes, summaries and advice are JSONB documents.
package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

const planColumns = `vehicle_id, strategy, start_location, destinations, routes, summaries, advice,
	total_distance_km, total_duration_mins, total_emissions_kg, created_at`

const selectPlan = `SELECT id::text, ` + planColumns + ` FROM plans`

func (s *Store) Create(ctx context.Context, p *Plan) error {
	docs, err := marshalDocs(p)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO plans (id, `+planColumns+`)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		string(p.ID), string(p.VehicleID), p.Strategy,
		docs[0], docs[1], docs[2], docs[3], docs[4],
		p.TotalDistanceKm, p.TotalDurationMins, p.TotalEmissionsKg, p.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Plan, error) {
	row := s.db.QueryRow(ctx, selectPlan+` WHERE id = $1::uuid`, string(id))
	p, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) ListByVehicle(ctx context.Context, vehicleID types.ID, limit int) ([]*Plan, error) {
	rows, err := s.db.Query(ctx, `
		`+selectPlan+`
		WHERE vehicle_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, string(vehicleID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func marshalDocs(p *Plan) ([5][]byte, error) {
	var docs [5][]byte
	for i, v := range []any{p.Start, p.Destinations, p.Routes, p.Summaries, p.Advice} {
		b, err := json.Marshal(v)
		if err != nil {
			return docs, fmt.Errorf("marshal plan document: %w", err)
		}
		docs[i] = b
	}
	return docs, nil
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	var id, vehicleID string
	var start, dests, routes, summaries, advice []byte
	err := row.Scan(
		&id, &vehicleID, &p.Strategy,
		&start, &dests, &routes, &summaries, &advice,
		&p.TotalDistanceKm, &p.TotalDurationMins, &p.TotalEmissionsKg, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.ID = types.ID(id)
	p.VehicleID = types.ID(vehicleID)

	for _, d := range []struct {
		raw []byte
		dst any
	}{
		{start, &p.Start},
		{dests, &p.Destinations},
		{routes, &p.Routes},
		{summaries, &p.Summaries},
		{advice, &p.Advice},
	} {
		if err := json.Unmarshal(d.raw, d.dst); err != nil {
			return nil, fmt.Errorf("decode plan %s: %w", id, err)
		}
	}
	return &p, nil
}
