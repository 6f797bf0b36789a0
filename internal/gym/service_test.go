package gym

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, name, address string, latitude, longitude, radiusM float64) (*Gym, error) {
	args := m.Called(ctx, name, address, latitude, longitude, radiusM)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func (m *MockRepository) GetAll(ctx context.Context) ([]Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Gym), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id int) (*Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Gym), args.Error(1)
}

func TestService_Create_DefaultsRadius(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)

	req := CreateGymRequest{
		Name:      "Iron Temple",
		Address:   "MG Road",
		Latitude:  12.9716,
		Longitude: 77.5946,
	}

	mockRepo.On("Create", mock.Anything, "Iron Temple", "MG Road", 12.9716, 77.5946, float64(DefaultGeofenceRadiusM)).
		Return(&Gym{ID: 1, Name: "Iron Temple", GeofenceRadiusM: DefaultGeofenceRadiusM}, nil)

	g, err := svc.Create(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, float64(DefaultGeofenceRadiusM), g.GeofenceRadiusM)
	mockRepo.AssertExpectations(t)
}

func TestService_Create_ExplicitRadius(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)

	req := CreateGymRequest{
		Name:            "Flex Factory",
		Address:         "Indiranagar",
		Latitude:        12.9719,
		Longitude:       77.6412,
		GeofenceRadiusM: 25,
	}

	mockRepo.On("Create", mock.Anything, "Flex Factory", "Indiranagar", 12.9719, 77.6412, 25.0).
		Return(&Gym{ID: 2, GeofenceRadiusM: 25}, nil)

	_, err := svc.Create(context.Background(), req)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestService_GetByID_NotFound(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)

	mockRepo.On("GetByID", mock.Anything, 999).Return(nil, errors.New("sql: no rows in result set"))

	_, err := svc.GetByID(context.Background(), 999)

	assert.ErrorIs(t, err, ErrGymNotFound)
	mockRepo.AssertExpectations(t)
}
