package gym

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

func gymColumns() []string {
	return []string{"id", "name", "address", "latitude", "longitude", "geofence_radius_m", "created_at"}
}

func TestCreateGym(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`INSERT INTO gyms.*`).
		WithArgs("Iron Temple", "MG Road, Bengaluru", 12.9716, 77.5946, 15.0).
		WillReturnRows(sqlmock.NewRows(gymColumns()).
			AddRow(1, "Iron Temple", "MG Road, Bengaluru", 12.9716, 77.5946, 15.0, time.Now()))

	g, err := repo.Create(context.Background(), "Iron Temple", "MG Road, Bengaluru", 12.9716, 77.5946, 15.0)
	assert.NoError(t, err)
	assert.Equal(t, 1, g.ID)
	assert.Equal(t, 12.9716, g.Latitude)
	assert.Equal(t, 15.0, g.GeofenceRadiusM)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAllGyms(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT id, name, address, latitude, longitude, geofence_radius_m, created_at FROM gyms.*`).
		WillReturnRows(sqlmock.NewRows(gymColumns()).
			AddRow(1, "Iron Temple", "MG Road", 12.9716, 77.5946, 15.0, time.Now()).
			AddRow(2, "Flex Factory", "Indiranagar", 12.9719, 77.6412, 25.0, time.Now()))

	gyms, err := repo.GetAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, gyms, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetGymByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	dbx := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(dbx)

	mock.ExpectQuery(`SELECT id, name, address, latitude, longitude, geofence_radius_m, created_at\s+FROM gyms\s+WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(gymColumns()).
			AddRow(1, "Iron Temple", "MG Road", 12.9716, 77.5946, 15.0, time.Now()))

	g, err := repo.GetByID(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, g.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
