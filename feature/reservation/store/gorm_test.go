package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/models"
	"github.com/blindermanupwork/property-management-automation-sub007/feature/reservation/store"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func reservationRows(uids ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"uid", "source", "property_id", "checkin", "checkout", "status"})
	for _, uid := range uids {
		rows.AddRow(uid, "itrip", "p1",
			time.Date(2025, 6, 1, 16, 0, 0, 0, time.UTC),
			time.Date(2025, 6, 5, 11, 0, 0, 0, time.UTC),
			"Unchanged")
	}
	return rows
}

func TestList_ScopedBySourceAndProperties(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	mock.ExpectQuery("SELECT \\* FROM `reservations` WHERE source = \\? AND property_id IN \\(\\?,\\?\\)").
		WithArgs("itrip", "p1", "p2").
		WillReturnRows(reservationRows("itrip_p1_2025-06-01_2025-06-05_smith"))

	records, err := s.List(context.Background(), models.Scope{
		Source:      models.SourceITrip,
		PropertyIDs: []string{"p1", "p2"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "itrip_p1_2025-06-01_2025-06-05_smith", records[0].UID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptySourceSpansAllSources(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	// No source predicate: the query filters on properties only.
	mock.ExpectQuery("SELECT \\* FROM `reservations` WHERE property_id IN \\(\\?\\)").
		WithArgs("p1").
		WillReturnRows(reservationRows())

	_, err := s.List(context.Background(), models.Scope{PropertyIDs: []string{"p1"}})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	mock.ExpectQuery("SELECT \\* FROM `reservations` WHERE uid = \\?").
		WillReturnRows(reservationRows())

	_, err := s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsert_EnforcesBatchLimit(t *testing.T) {
	db, _ := setupMockDB(t)
	s := store.NewGormStore(db)

	batch := make([]*models.Reservation, store.BatchLimit+1)
	for i := range batch {
		batch[i] = &models.Reservation{UID: "uid" + string(rune('a'+i))}
	}

	err := s.Upsert(context.Background(), batch)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestUpsert_EmptyBatchIsNoop(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	err := s.Upsert(context.Background(), nil)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsert_OnConflictByUID(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `reservations` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.Upsert(context.Background(), []*models.Reservation{
		{UID: "itrip_p1_2025-06-01_2025-06-05_smith", Source: models.SourceITrip, PropertyID: "p1"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRemoved_StatusUpdateOnly(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `reservations` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.MarkRemoved(context.Background(), "itrip_p1_2025-06-01_2025-06-05_smith")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRemoved_MissingRecord(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `reservations` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := s.MarkRemoved(context.Background(), "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no such record")
}

func TestProperties(t *testing.T) {
	db, mock := setupMockDB(t)
	s := store.NewGormStore(db)

	rows := sqlmock.NewRows([]string{"id", "name", "service_name", "checkout_time"}).
		AddRow("p1", "Desert Rose Villa", "Turnover STR Next Guest Unknown", "11:00")

	mock.ExpectQuery("SELECT \\* FROM `properties`").WillReturnRows(rows)

	props, err := s.Properties(context.Background())
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Desert Rose Villa", props[0].Name)
}
