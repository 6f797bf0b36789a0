package gym

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, name, address string, latitude, longitude, radiusM float64) (*Gym, error) {
	query := `
		INSERT INTO gyms (name, address, latitude, longitude, geofence_radius_m)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, address, latitude, longitude, geofence_radius_m, created_at
	`

	var g Gym
	err := r.db.GetContext(ctx, &g, query, name, address, latitude, longitude, radiusM)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Gym, error) {
	query := `
		SELECT id, name, address, latitude, longitude, geofence_radius_m, created_at
		FROM gyms
		ORDER BY created_at DESC
	`

	var gyms []Gym
	err := r.db.SelectContext(ctx, &gyms, query)
	if err != nil {
		return nil, err
	}

	return gyms, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Gym, error) {
	query := `
		SELECT id, name, address, latitude, longitude, geofence_radius_m, created_at
		FROM gyms
		WHERE id = $1
	`

	var g Gym
	err := r.db.GetContext(ctx, &g, query, id)
	if err != nil {
		return nil, err
	}

	return &g, nil
}
