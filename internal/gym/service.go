package gym

import (
	"context"
	"errors"
)

var ErrGymNotFound = errors.New("gym not found")

// DefaultGeofenceRadiusM is applied when a gym is created without an explicit
// radius. It matches the radius the check-in endpoint enforces.
const DefaultGeofenceRadiusM = 15

type Service interface {
	Create(ctx context.Context, req CreateGymRequest) (*Gym, error)
	GetAll(ctx context.Context) ([]Gym, error)
	GetByID(ctx context.Context, id int) (*Gym, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateGymRequest) (*Gym, error) {
	radius := req.GeofenceRadiusM
	if radius <= 0 {
		radius = DefaultGeofenceRadiusM
	}
	return s.repo.Create(ctx, req.Name, req.Address, req.Latitude, req.Longitude, radius)
}

func (s *service) GetAll(ctx context.Context) ([]Gym, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetByID(ctx context.Context, id int) (*Gym, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrGymNotFound
	}
	return g, nil
}
