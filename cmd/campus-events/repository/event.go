package repository

import (
	"context"
	"errors"

	"campus-events-backend/cmd/campus-events/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) *EventRepo {
	return &EventRepo{
		db: db,
	}
}

func (r *EventRepo) Ping(ctx context.Context) error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}

func (r *EventRepo) CreateEventRequest(ctx context.Context, rec *model.EventRequest) error {

	result := r.db.
		WithContext(ctx).
		Create(rec)

	return result.Error
}

func (r *EventRepo) GetEventRequest(ctx context.Context, id string) (*model.EventRequest, error) {

	var rec model.EventRequest

	result := r.db.
		WithContext(ctx).
		First(&rec, "id = ?", id)

	if result.Error != nil {
		return nil, notFound(result.Error)
	}

	return &rec, nil
}

func (r *EventRepo) ListEventRequests(ctx context.Context) ([]model.EventRequest, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Order("create_date DESC")
	})
}

func (r *EventRepo) ListEventRequestsByFaculty(ctx context.Context, facultyID string) ([]model.EventRequest, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("faculty_id = ?", facultyID).Order("create_date DESC")
	})
}

func (r *EventRepo) ListPublicEvents(ctx context.Context) ([]model.EventRequest, error) {
	return r.list(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", model.Approved).Order("date ASC")
	})
}

func (r *EventRepo) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]model.EventRequest, error) {

	var events []model.EventRequest

	result := r.db.
		WithContext(ctx).
		Model(&model.EventRequest{}).
		Scopes(scope).
		Find(&events)

	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// UpdateEventRequest runs fn on the row locked with SELECT ... FOR UPDATE and
// saves it in the same transaction.
func (r *EventRepo) UpdateEventRequest(ctx context.Context, id string, fn func(*model.EventRequest) error) (*model.EventRequest, error) {

	var rec model.EventRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEvent(tx, id, &rec); err != nil {
			return err
		}
		if err := fn(&rec); err != nil {
			return err
		}
		return tx.Save(&rec).Error
	})

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// DeleteEventRequest removes the request and its registrations when check
// passes on the locked row.
func (r *EventRepo) DeleteEventRequest(ctx context.Context, id string, check func(*model.EventRequest) error) (*model.EventRequest, error) {

	var rec model.EventRequest

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockEvent(tx, id, &rec); err != nil {
			return err
		}
		if err := check(&rec); err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&rec).Error
	})

	if err != nil {
		return nil, err
	}

	return &rec, nil
}

func lockEvent(tx *gorm.DB, id string, rec *model.EventRequest) error {
	err := tx.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(rec, "id = ?", id).
		Error
	return notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
