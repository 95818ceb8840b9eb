package lifecycle

import (
	"context"
	"fmt"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/model"
)

type IRegistrationRepo interface {
	// Register locks the event row, calls check on it, and inserts reg
	// unless the student is already registered or the event is full.
	Register(ctx context.Context, reg *model.Registration, check func(*model.EventRequest) error) error
	FindRegistration(ctx context.Context, studentID, eventID string) (*model.Registration, error)
	ListRegistrationsByEvent(ctx context.Context, eventID string) ([]model.Registration, error)
	ListRegistrationsByStudent(ctx context.Context, studentID string) ([]model.Registration, error)
	DeleteRegistration(ctx context.Context, id string, check func(*model.Registration) error) (*model.Registration, error)
}

// Enroll registers the acting student for an approved event.
func (e *Engine) Enroll(ctx context.Context, actor identity.Actor, eventID string) (*model.Registration, error) {
	if !actor.Is(identity.RoleStudent) {
		return nil, roleError("register", identity.RoleStudent)
	}
	id, err := e.newID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}
	reg := &model.Registration{
		ID:          id,
		EventID:     eventID,
		StudentID:   actor.ID,
		StudentName: actor.Name,
		Status:      model.RegistrationRegistered,
		CreateDate:  e.now(),
	}
	err = e.registrations.Register(ctx, reg, func(rec *model.EventRequest) error {
		if err := CanEnroll(actor, rec); err != nil {
			return err
		}
		reg.FacultyID = rec.FacultyID
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "student registered", "event_id", eventID, "student_id", actor.ID)
	return reg, nil
}

// Registrations lists who registered for eventID. Only the owner and admins
// may see it.
func (e *Engine) Registrations(ctx context.Context, actor identity.Actor, eventID string) ([]model.Registration, error) {
	rec, err := e.events.GetEventRequest(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := CanSeeRegistrations(actor, rec); err != nil {
		return nil, err
	}
	return e.registrations.ListRegistrationsByEvent(ctx, eventID)
}

func (e *Engine) StudentRegistrations(ctx context.Context, actor identity.Actor, studentID string) ([]model.Registration, error) {
	if err := CanActForStudent("list registrations", actor, studentID); err != nil {
		return nil, err
	}
	return e.registrations.ListRegistrationsByStudent(ctx, studentID)
}

func (e *Engine) CheckRegistration(ctx context.Context, actor identity.Actor, studentID, eventID string) (*model.Registration, error) {
	if err := CanActForStudent("check registration", actor, studentID); err != nil {
		return nil, err
	}
	return e.registrations.FindRegistration(ctx, studentID, eventID)
}

// Withdraw deletes a registration on behalf of its student or an admin.
func (e *Engine) Withdraw(ctx context.Context, actor identity.Actor, registrationID string) (*model.Registration, error) {
	reg, err := e.registrations.DeleteRegistration(ctx, registrationID, func(reg *model.Registration) error {
		return CanActForStudent("withdraw registration", actor, reg.StudentID)
	})
	if err != nil {
		return nil, err
	}
	e.logger.InfoContext(ctx, "registration withdrawn", "registration_id", registrationID, "actor", actor.String())
	return reg, nil
}
