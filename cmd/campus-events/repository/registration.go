package repository

import (
	"context"
	"errors"

	"campus-events-backend/cmd/campus-events/model"

	"gorm.io/gorm"
)

type RegistrationRepo struct {
	db *gorm.DB
}

func NewRegistrationRepo(db *gorm.DB) *RegistrationRepo {
	return &RegistrationRepo{
		db: db,
	}
}

// Register serialises bookings for one event by locking the event row
// before counting its registrations.
func (r *RegistrationRepo) Register(ctx context.Context, reg *model.Registration, check func(*model.EventRequest) error) error {

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.EventRequest
		if err := lockEvent(tx, reg.EventID, &event); err != nil {
			return err
		}
		if err := check(&event); err != nil {
			return err
		}

		var dup int64
		err := tx.Model(&model.Registration{}).
			Where("event_id = ? AND student_id = ?", reg.EventID, reg.StudentID).
			Count(&dup).Error
		if err != nil {
			return err
		}
		if dup > 0 {
			return ErrAlreadyRegistered
		}

		if event.Capacity > 0 {
			var booked int64
			err := tx.Model(&model.Registration{}).
				Where("event_id = ?", reg.EventID).
				Count(&booked).Error
			if err != nil {
				return err
			}
			if booked >= int64(event.Capacity) {
				return ErrEventFull
			}
		}

		return tx.Create(reg).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrAlreadyRegistered
	}
	return err
}

func (r *RegistrationRepo) FindRegistration(ctx context.Context, studentID, eventID string) (*model.Registration, error) {

	var reg model.Registration

	result := r.db.
		WithContext(ctx).
		First(&reg, "student_id = ? AND event_id = ?", studentID, eventID)

	if result.Error != nil {
		return nil, notFound(result.Error)
	}

	return &reg, nil
}

func (r *RegistrationRepo) ListRegistrationsByEvent(ctx context.Context, eventID string) ([]model.Registration, error) {
	return r.list(ctx, "event_id = ?", eventID)
}

func (r *RegistrationRepo) ListRegistrationsByStudent(ctx context.Context, studentID string) ([]model.Registration, error) {
	return r.list(ctx, "student_id = ?", studentID)
}

func (r *RegistrationRepo) list(ctx context.Context, cond string, arg string) ([]model.Registration, error) {

	var regs []model.Registration

	result := r.db.
		WithContext(ctx).
		Model(&model.Registration{}).
		Where(cond, arg).
		Order("create_date ASC").
		Find(&regs)

	if result.Error != nil {
		return nil, result.Error
	}

	return regs, nil
}

func (r *RegistrationRepo) DeleteRegistration(ctx context.Context, id string, check func(*model.Registration) error) (*model.Registration, error) {

	var reg model.Registration

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&reg, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if err := check(&reg); err != nil {
			return err
		}
		return tx.Delete(&reg).Error
	})

	if err != nil {
		return nil, err
	}

	return &reg, nil
}
