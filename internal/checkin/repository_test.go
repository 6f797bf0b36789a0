package checkin

import (
	"context"
	"testing"
	"time"

	"gympresence/internal/coins"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var repoNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)

func checkInColumns() []string {
	return []string{
		"id", "member_id", "gym_id", "check_in_time", "check_in_day", "latitude", "longitude",
		"coins_earned", "presence_duration_min", "check_in_type", "created_at",
	}
}

func coinColumns() []string {
	return []string{"id", "member_id", "gym_id", "type", "amount", "description", "reference_id", "created_at"}
}

func TestRepositoryExistsForDay(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, coins.NewRepository(db))

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(1, 5, "2025-06-01").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForDay(context.Background(), 1, 5, "2025-06-01")

	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateWithReward(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, coins.NewRepository(db))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO check_ins`).
		WithArgs(1, 5, repoNow, "2025-06-01", nil, nil, 100, 22, "geofence").
		WillReturnRows(sqlmock.NewRows(checkInColumns()).
			AddRow(12, 1, 5, repoNow, "2025-06-01", nil, nil, 100, 22, "geofence", repoNow))
	mock.ExpectQuery(`INSERT INTO coin_transactions`).
		WithArgs(1, 5, "earned", 100, "geofence check-in reward", 12).
		WillReturnRows(sqlmock.NewRows(coinColumns()).
			AddRow(44, 1, 5, "earned", 100, "geofence check-in reward", 12, repoNow))
	mock.ExpectCommit()

	inserted, err := repo.CreateWithReward(context.Background(), &CheckIn{
		MemberID:            1,
		GymID:               5,
		CheckInTime:         repoNow,
		CheckInDay:          "2025-06-01",
		CoinsEarned:         100,
		PresenceDurationMin: 22,
		CheckInType:         "geofence",
	})

	require.NoError(t, err)
	assert.Equal(t, 12, inserted.ID)
	assert.Equal(t, 100, inserted.CoinsEarned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateWithReward_DuplicateDay(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, coins.NewRepository(db))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO check_ins`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "check_ins_member_gym_day_key"})
	mock.ExpectRollback()

	_, err := repo.CreateWithReward(context.Background(), &CheckIn{
		MemberID: 1, GymID: 5, CheckInTime: repoNow, CheckInDay: "2025-06-01",
		CoinsEarned: 100, CheckInType: "geofence",
	})

	assert.ErrorIs(t, err, ErrDuplicateCheckIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed reward write must take the check-in row down with it.
func TestRepositoryCreateWithReward_RewardFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, coins.NewRepository(db))

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO check_ins`).
		WillReturnRows(sqlmock.NewRows(checkInColumns()).
			AddRow(12, 1, 5, repoNow, "2025-06-01", nil, nil, 100, 22, "geofence", repoNow))
	mock.ExpectQuery(`INSERT INTO coin_transactions`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	_, err := repo.CreateWithReward(context.Background(), &CheckIn{
		MemberID: 1, GymID: 5, CheckInTime: repoNow, CheckInDay: "2025-06-01",
		CoinsEarned: 100, PresenceDurationMin: 22, CheckInType: "geofence",
	})

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListRecent(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, coins.NewRepository(db))

	mock.ExpectQuery(`SELECT (.+) FROM check_ins`).
		WithArgs(1, 2).
		WillReturnRows(sqlmock.NewRows(checkInColumns()).
			AddRow(13, 1, 5, repoNow, "2025-06-01", nil, nil, 100, 25, "geofence", repoNow).
			AddRow(12, 1, 5, repoNow.AddDate(0, 0, -1), "2025-05-31", nil, nil, 100, 21, "geofence", repoNow))

	checkIns, err := repo.ListRecent(context.Background(), 1, 2)

	require.NoError(t, err)
	require.Len(t, checkIns, 2)
	assert.Equal(t, "2025-06-01", checkIns[0].CheckInDay)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCountForMonth(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRepository(db, coins.NewRepository(db))

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs(1, 5, start, start.AddDate(0, 1, 0)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(8))

	count, err := repo.CountForMonth(context.Background(), 1, 5, repoNow)

	require.NoError(t, err)
	assert.Equal(t, 8, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
