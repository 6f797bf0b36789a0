package gym

import "context"

type Repository interface {
	Create(ctx context.Context, name, address string, latitude, longitude, radiusM float64) (*Gym, error)
	GetAll(ctx context.Context) ([]Gym, error)
	GetByID(ctx context.Context, id int) (*Gym, error)
}
