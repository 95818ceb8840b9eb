package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/lifecycle"
	"campus-events-backend/cmd/campus-events/model"
	"campus-events-backend/cmd/campus-events/notify"
	"campus-events-backend/cmd/campus-events/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testDBHost     = "localhost"
	testDBPort     = 5432
	testDBUser     = "postgres"
	testDBPassword = "mypassword"
	testDBName     = "postgres"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Skip integration tests if not in integration test environment
	if os.Getenv("INTEGRATION_TEST") == "" {
		t.Skip("Skipping integration test. Set INTEGRATION_TEST=1 to run.")
	}

	cfg := EnvCfg{
		DBHost:     testDBHost,
		DBPort:     testDBPort,
		DBUser:     testDBUser,
		DBPassword: testDBPassword,
		DBName:     testDBName,
	}
	if host := os.Getenv("CAMPUS_EVENTS_DB_HOST"); host != "" {
		cfg.DBHost = host
	}

	db, err := gorm.Open(postgres.Open(formatConnectionString(cfg)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to connect to test database")

	err = db.AutoMigrate(&model.EventRequest{}, &model.Registration{})
	require.NoError(t, err, "Failed to migrate test database")

	truncate := func() {
		db.Exec("TRUNCATE TABLE registrations, event_requests CASCADE")
	}
	truncate()

	t.Cleanup(func() {
		truncate()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func newIntegrationEngine(db *gorm.DB) *lifecycle.Engine {
	return lifecycle.NewEngine(
		repository.NewEventRepo(db),
		repository.NewRegistrationRepo(db),
		lifecycle.WithLogger(discardLogger()),
	)
}

var (
	itAdmin   = identity.Actor{ID: "a1", Role: identity.RoleAdmin}
	itFaculty = identity.Actor{ID: "f1", Role: identity.RoleFaculty, Name: "Dr. Rao"}
)

func proposal(title string, in time.Duration, capacity int) model.ProposalFields {
	return model.ProposalFields{
		Title:       title,
		Description: "integration",
		Venue:       "Lab 3",
		Date:        time.Now().Add(in).Truncate(time.Microsecond),
		Capacity:    capacity,
	}
}

func TestIntegration_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	engine := newIntegrationEngine(db)
	ctx := context.Background()

	later, err := engine.SubmitProposal(ctx, itFaculty, "f1", proposal("Later", 72*time.Hour, 0))
	require.NoError(t, err)
	sooner, err := engine.SubmitProposal(ctx, itFaculty, "f1", proposal("Sooner", 24*time.Hour, 0))
	require.NoError(t, err)

	_, err = engine.AttachRemark(ctx, itAdmin, later.ID, "please add an agenda")
	require.NoError(t, err)

	rec, err := engine.Get(ctx, itFaculty, later.ID)
	require.NoError(t, err)
	assert.True(t, rec.UnseenRemark())

	_, err = engine.MarkRemarkNotified(ctx, itFaculty, later.ID)
	require.NoError(t, err)
	_, err = engine.MarkRemarkNotified(ctx, itFaculty, later.ID)
	require.NoError(t, err)

	_, err = engine.Approve(ctx, itAdmin, later.ID)
	require.NoError(t, err)
	_, err = engine.Approve(ctx, itAdmin, sooner.ID)
	require.NoError(t, err)

	public, err := engine.ListPublicEvents(ctx)
	require.NoError(t, err)
	require.Len(t, public, 2)
	assert.Equal(t, sooner.ID, public[0].ID)
	assert.Equal(t, later.ID, public[1].ID)
	assert.Equal(t, "please add an agenda", public[1].Remark)

	_, err = engine.Reject(ctx, itAdmin, sooner.ID)
	var guardErr *lifecycle.GuardError
	require.ErrorAs(t, err, &guardErr)
	assert.Equal(t, lifecycle.GuardState, guardErr.Kind)

	_, err = engine.Cancel(ctx, itFaculty, sooner.ID)
	require.NoError(t, err)
	_, err = engine.Get(ctx, itAdmin, sooner.ID)
	assert.ErrorIs(t, err, lifecycle.ErrNotFound)
}

func TestIntegration_EnrollmentUnderContention(t *testing.T) {
	db := setupTestDB(t)
	engine := newIntegrationEngine(db)
	ctx := context.Background()

	rec, err := engine.SubmitProposal(ctx, itFaculty, "f1", proposal("Small room", 24*time.Hour, 5))
	require.NoError(t, err)
	_, err = engine.Approve(ctx, itAdmin, rec.ID)
	require.NoError(t, err)

	var registered, full atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			student := identity.Actor{ID: fmt.Sprintf("s%d", i), Role: identity.RoleStudent}
			_, err := engine.Enroll(ctx, student, rec.ID)
			switch {
			case err == nil:
				registered.Add(1)
			case errors.Is(err, lifecycle.ErrEventFull):
				full.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(5), registered.Load())
	assert.Equal(t, int32(15), full.Load())

	_, err = engine.Cancel(ctx, itAdmin, rec.ID)
	require.NoError(t, err)

	var remaining int64
	require.NoError(t, db.Model(&model.Registration{}).Where("event_id = ?", rec.ID).Count(&remaining).Error)
	assert.Zero(t, remaining, "cancel removes registrations")
}

func TestIntegration_DuplicateRegistration(t *testing.T) {
	db := setupTestDB(t)
	engine := newIntegrationEngine(db)
	ctx := context.Background()

	rec, err := engine.SubmitProposal(ctx, itFaculty, "f1", proposal("Talk", 24*time.Hour, 0))
	require.NoError(t, err)
	_, err = engine.Approve(ctx, itAdmin, rec.ID)
	require.NoError(t, err)

	student := identity.Actor{ID: "s1", Role: identity.RoleStudent}
	_, err = engine.Enroll(ctx, student, rec.ID)
	require.NoError(t, err)
	_, err = engine.Enroll(ctx, student, rec.ID)
	assert.ErrorIs(t, err, lifecycle.ErrAlreadyRegistered)
}

func TestIntegration_WatchSeesApproval(t *testing.T) {
	db := setupTestDB(t)
	engine := newIntegrationEngine(db)
	ctx := context.Background()

	rec, err := engine.SubmitProposal(ctx, itFaculty, "f1", proposal("Watched", 24*time.Hour, 0))
	require.NoError(t, err)

	var got []notify.Notification
	var mu sync.Mutex
	poller := notify.NewPoller(notify.EngineSource{Engine: engine, Actor: itFaculty},
		notify.WithInterval(20*time.Millisecond), notify.WithLogger(discardLogger()))
	w := poller.Start(ctx, rec.ID, func(n notify.Notification) {
		mu.Lock()
		got = append(got, n)
		mu.Unlock()
	})

	_, err = engine.Approve(ctx, itAdmin, rec.ID)
	require.NoError(t, err)

	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not end")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, notify.KindApproved, got[0].Kind)
}

func TestIntegration_HealthCheck(t *testing.T) {
	db := setupTestDB(t)

	err := repository.NewEventRepo(db).Ping(context.Background())
	assert.NoError(t, err)
}
