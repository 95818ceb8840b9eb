package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"campus-events-backend/cmd/campus-events/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var eventColumns = []string{
	"id", "faculty_id", "faculty_name", "title", "description", "venue", "date", "info",
	"capacity", "status", "remark", "remark_notified", "create_date", "update_date",
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock database: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})

	if err != nil {
		t.Fatalf("Failed to create GORM instance: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})

	return gormDB, mock
}

func eventRow(rows *sqlmock.Rows, id string, status model.EventStatus, remark string, notified bool) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "f1", "Dr. Rao", "Hack Night", "All night hacking", "Lab 3",
		now.Add(24*time.Hour), "", 0, string(status), remark, notified, now, now)
}

func TestEventRepo_ListPublicEvents_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	rows := sqlmock.NewRows(eventColumns)
	eventRow(rows, "event-1", model.Approved, "", true)
	eventRow(rows, "event-2", model.Approved, "", true)

	mock.ExpectQuery(`SELECT \* FROM "event_requests" WHERE status = \$1 ORDER BY date ASC`).
		WithArgs(model.Approved).
		WillReturnRows(rows)

	events, err := repo.ListPublicEvents(context.Background())

	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, "event-1", events[0].ID)
	assert.Equal(t, model.Approved, events[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_ListEventRequests_DatabaseError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "event_requests" ORDER BY create_date DESC`).
		WillReturnError(errors.New("database connection failed"))

	events, err := repo.ListEventRequests(context.Background())

	assert.Error(t, err)
	assert.Nil(t, events)
	assert.Contains(t, err.Error(), "database connection failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_ListEventRequestsByFaculty_EmptyResult(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "event_requests" WHERE faculty_id = \$1 ORDER BY create_date DESC`).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows(eventColumns))

	events, err := repo.ListEventRequestsByFaculty(context.Background(), "f1")

	assert.NoError(t, err)
	assert.Empty(t, events)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_CreateEventRequest_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	rec := &model.EventRequest{
		ID:             "event-123",
		FacultyID:      "f1",
		Title:          "Hack Night",
		Status:         model.Pending,
		RemarkNotified: true,
		Date:           time.Now().Add(24 * time.Hour),
		CreateDate:     time.Now(),
		UpdateDate:     time.Now(),
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "event_requests"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.CreateEventRequest(context.Background(), rec)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_CreateEventRequest_DatabaseError(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "event_requests"`).
		WillReturnError(errors.New("database insert failed"))
	mock.ExpectRollback()

	err := repo.CreateEventRequest(context.Background(), &model.EventRequest{ID: "event-123"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database insert failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_GetEventRequest_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "event_requests" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(eventColumns))

	rec, err := repo.GetEventRequest(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_UpdateEventRequest_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "event_requests" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(eventRow(sqlmock.NewRows(eventColumns), "event-1", model.Pending, "", true))
	mock.ExpectExec(`UPDATE "event_requests" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := repo.UpdateEventRequest(context.Background(), "event-1", func(rec *model.EventRequest) error {
		rec.Status = model.Approved
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, model.Approved, rec.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_UpdateEventRequest_CallbackErrorRollsBack(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)
	refused := errors.New("refused")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "event_requests" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(eventRow(sqlmock.NewRows(eventColumns), "event-1", model.Rejected, "", true))
	mock.ExpectRollback()

	rec, err := repo.UpdateEventRequest(context.Background(), "event-1", func(*model.EventRequest) error {
		return refused
	})

	assert.ErrorIs(t, err, refused)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_UpdateEventRequest_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "event_requests" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(eventColumns))
	mock.ExpectRollback()

	called := false
	_, err := repo.UpdateEventRequest(context.Background(), "missing", func(*model.EventRequest) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepo_DeleteEventRequest_CascadesRegistrations(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := NewEventRepo(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "event_requests" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(eventRow(sqlmock.NewRows(eventColumns), "event-1", model.Approved, "", true))
	mock.ExpectExec(`DELETE FROM "registrations" WHERE event_id = \$1`).
		WithArgs("event-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "event_requests" WHERE "event_requests"."id" = \$1`).
		WithArgs("event-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec, err := repo.DeleteEventRequest(context.Background(), "event-1", func(*model.EventRequest) error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "event-1", rec.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
