package location

import (
	"context"
	"testing"
	"time"

	"gympresence/internal/gym"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Append(ctx context.Context, memberID, gymID int, recordedAt time.Time, within bool) (*HistoryRecord, error) {
	args := m.Called(ctx, memberID, gymID, recordedAt, within)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*HistoryRecord), args.Error(1)
}

func (m *MockRepository) RecentForMemberAndGym(ctx context.Context, memberID, gymID int, since time.Time) ([]HistoryRecord, error) {
	args := m.Called(ctx, memberID, gymID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]HistoryRecord), args.Error(1)
}

type MockGymRepository struct {
	mock.Mock
}

func (m *MockGymRepository) Create(ctx context.Context, name, address string, latitude, longitude, radiusM float64) (*gym.Gym, error) {
	args := m.Called(ctx, name, address, latitude, longitude, radiusM)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

func (m *MockGymRepository) GetAll(ctx context.Context) ([]gym.Gym, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gym.Gym), args.Error(1)
}

func (m *MockGymRepository) GetByID(ctx context.Context, id int) (*gym.Gym, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gym.Gym), args.Error(1)
}

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo Repository, gyms gym.Repository) Service {
	return NewServiceWithClock(repo, gyms, Config{AccuracyToleranceM: 50}, func() time.Time { return testNow })
}

func testGym() *gym.Gym {
	return &gym.Gym{ID: 5, Latitude: 12.9716, Longitude: 77.5946, GeofenceRadiusM: 15}
}

func TestRecordSample_WithinGeofence(t *testing.T) {
	repo := new(MockRepository)
	gyms := new(MockGymRepository)
	svc := newTestService(repo, gyms)

	gyms.On("GetByID", mock.Anything, 5).Return(testGym(), nil)
	repo.On("Append", mock.Anything, 1, 5, testNow, true).
		Return(&HistoryRecord{ID: 1, MemberID: 1, GymID: 5, RecordedAt: testNow, IsWithinGeofence: true}, nil)

	resp, err := svc.RecordSample(context.Background(), 1, ReportSampleRequest{
		GymID:     5,
		Latitude:  12.97161,
		Longitude: 77.59461,
		AccuracyM: 10,
	})

	assert.NoError(t, err)
	assert.True(t, resp.IsWithinGeofence)
	assert.Less(t, resp.DistanceM, 15.0)
	repo.AssertExpectations(t)
}

func TestRecordSample_OutsideGeofence(t *testing.T) {
	repo := new(MockRepository)
	gyms := new(MockGymRepository)
	svc := newTestService(repo, gyms)

	gyms.On("GetByID", mock.Anything, 5).Return(testGym(), nil)
	repo.On("Append", mock.Anything, 1, 5, testNow, false).
		Return(&HistoryRecord{ID: 2, IsWithinGeofence: false}, nil)

	// ~50 m north of the gym.
	resp, err := svc.RecordSample(context.Background(), 1, ReportSampleRequest{
		GymID:     5,
		Latitude:  12.97205,
		Longitude: 77.5946,
		AccuracyM: 10,
	})

	assert.NoError(t, err)
	assert.False(t, resp.IsWithinGeofence)
	assert.InDelta(t, 50, resp.DistanceM, 2)
}

func TestRecordSample_AccuracyTooLow(t *testing.T) {
	repo := new(MockRepository)
	gyms := new(MockGymRepository)
	svc := newTestService(repo, gyms)

	_, err := svc.RecordSample(context.Background(), 1, ReportSampleRequest{
		GymID:     5,
		Latitude:  12.9716,
		Longitude: 77.5946,
		AccuracyM: 80,
	})

	assert.ErrorIs(t, err, ErrAccuracyTooLow)
	repo.AssertNotCalled(t, "Append")
}

func TestRecordSample_GymNotFound(t *testing.T) {
	repo := new(MockRepository)
	gyms := new(MockGymRepository)
	svc := newTestService(repo, gyms)

	gyms.On("GetByID", mock.Anything, 999).Return(nil, gym.ErrGymNotFound)

	_, err := svc.RecordSample(context.Background(), 1, ReportSampleRequest{
		GymID:     999,
		Latitude:  12.9716,
		Longitude: 77.5946,
	})

	assert.ErrorIs(t, err, gym.ErrGymNotFound)
}

func TestRecordSample_PastClientTimestampKept(t *testing.T) {
	repo := new(MockRepository)
	gyms := new(MockGymRepository)
	svc := newTestService(repo, gyms)

	reported := testNow.Add(-2 * time.Minute)
	gyms.On("GetByID", mock.Anything, 5).Return(testGym(), nil)
	repo.On("Append", mock.Anything, 1, 5, reported, true).
		Return(&HistoryRecord{ID: 3}, nil)

	_, err := svc.RecordSample(context.Background(), 1, ReportSampleRequest{
		GymID:      5,
		Latitude:   12.9716,
		Longitude:  77.5946,
		AccuracyM:  10,
		RecordedAt: reported.Format(time.RFC3339),
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRecordSample_FutureClientTimestampClamped(t *testing.T) {
	repo := new(MockRepository)
	gyms := new(MockGymRepository)
	svc := newTestService(repo, gyms)

	gyms.On("GetByID", mock.Anything, 5).Return(testGym(), nil)
	repo.On("Append", mock.Anything, 1, 5, testNow, true).
		Return(&HistoryRecord{ID: 4}, nil)

	_, err := svc.RecordSample(context.Background(), 1, ReportSampleRequest{
		GymID:      5,
		Latitude:   12.9716,
		Longitude:  77.5946,
		AccuracyM:  10,
		RecordedAt: testNow.Add(10 * time.Minute).Format(time.RFC3339),
	})

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}
