package apis

import (
	"context"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/model"

	"github.com/stretchr/testify/mock"
)

// MockEngine implements IRequestService and IEventService for testing
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) request(args mock.Arguments) (*model.EventRequest, error) {
	rec, _ := args.Get(0).(*model.EventRequest)
	return rec, args.Error(1)
}

func (m *MockEngine) requests(args mock.Arguments) ([]model.EventRequest, error) {
	recs, _ := args.Get(0).([]model.EventRequest)
	return recs, args.Error(1)
}

func (m *MockEngine) registration(args mock.Arguments) (*model.Registration, error) {
	reg, _ := args.Get(0).(*model.Registration)
	return reg, args.Error(1)
}

func (m *MockEngine) registrations(args mock.Arguments) ([]model.Registration, error) {
	regs, _ := args.Get(0).([]model.Registration)
	return regs, args.Error(1)
}

func (m *MockEngine) SubmitProposal(ctx context.Context, actor identity.Actor, facultyID string, fields model.ProposalFields) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, facultyID, fields))
}

func (m *MockEngine) Get(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, id))
}

func (m *MockEngine) ListAll(ctx context.Context, actor identity.Actor) ([]model.EventRequest, error) {
	return m.requests(m.Called(ctx, actor))
}

func (m *MockEngine) ListByFaculty(ctx context.Context, actor identity.Actor, facultyID string) ([]model.EventRequest, error) {
	return m.requests(m.Called(ctx, actor, facultyID))
}

func (m *MockEngine) Approve(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, id))
}

func (m *MockEngine) Reject(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, id))
}

func (m *MockEngine) AttachRemark(ctx context.Context, actor identity.Actor, id, remark string) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, id, remark))
}

func (m *MockEngine) Edit(ctx context.Context, actor identity.Actor, id string, fields model.ProposalFields) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, id, fields))
}

func (m *MockEngine) Cancel(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, id))
}

func (m *MockEngine) MarkRemarkNotified(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return m.request(m.Called(ctx, actor, id))
}

func (m *MockEngine) ListPublicEvents(ctx context.Context) ([]model.EventRequest, error) {
	return m.requests(m.Called(ctx))
}

func (m *MockEngine) Enroll(ctx context.Context, actor identity.Actor, eventID string) (*model.Registration, error) {
	return m.registration(m.Called(ctx, actor, eventID))
}

func (m *MockEngine) Registrations(ctx context.Context, actor identity.Actor, eventID string) ([]model.Registration, error) {
	return m.registrations(m.Called(ctx, actor, eventID))
}

func (m *MockEngine) StudentRegistrations(ctx context.Context, actor identity.Actor, studentID string) ([]model.Registration, error) {
	return m.registrations(m.Called(ctx, actor, studentID))
}

func (m *MockEngine) CheckRegistration(ctx context.Context, actor identity.Actor, studentID, eventID string) (*model.Registration, error) {
	return m.registration(m.Called(ctx, actor, studentID, eventID))
}

func (m *MockEngine) Withdraw(ctx context.Context, actor identity.Actor, registrationID string) (*model.Registration, error) {
	return m.registration(m.Called(ctx, actor, registrationID))
}
