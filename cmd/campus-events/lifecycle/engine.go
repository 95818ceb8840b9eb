// Package lifecycle owns the state machine of an event request.
//
// Every mutation is a single read-modify-write against the repository: the
// guard for the action is evaluated on the freshly loaded record inside the
// repository's transaction, so no client-side copy is ever trusted. When two
// admins decide on the same request at once, the second decision sees the
// first one's status and fails with a state GuardError.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/model"
)

type IEventRepo interface {
	CreateEventRequest(ctx context.Context, rec *model.EventRequest) error
	GetEventRequest(ctx context.Context, id string) (*model.EventRequest, error)
	ListEventRequests(ctx context.Context) ([]model.EventRequest, error)
	ListEventRequestsByFaculty(ctx context.Context, facultyID string) ([]model.EventRequest, error)
	ListPublicEvents(ctx context.Context) ([]model.EventRequest, error)
	// UpdateEventRequest loads id, calls fn on it and persists the result
	// atomically. An error from fn aborts the update and is returned as is.
	UpdateEventRequest(ctx context.Context, id string, fn func(*model.EventRequest) error) (*model.EventRequest, error)
	// DeleteEventRequest loads id, calls check on it and deletes the record
	// together with its registrations unless check fails.
	DeleteEventRequest(ctx context.Context, id string, check func(*model.EventRequest) error) (*model.EventRequest, error)
}

// Command is a transition request. Remark is used by ActionRemark and
// Fields by ActionEdit.
type Command struct {
	Action Action
	Remark string
	Fields model.ProposalFields
}

type Engine struct {
	events        IEventRepo
	registrations IRegistrationRepo
	validate      *validator.Validate
	now           func() time.Time
	newID         func() (string, error)
	logger        *slog.Logger
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func WithIDGenerator(gen func() (string, error)) Option {
	return func(e *Engine) { e.newID = gen }
}

func NewEngine(events IEventRepo, registrations IRegistrationRepo, opts ...Option) *Engine {
	e := &Engine{
		events:        events,
		registrations: registrations,
		validate:      newValidator(),
		now:           time.Now,
		newID:         newUUID,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SubmitProposal creates a Pending request owned by facultyID, which must be
// the acting faculty member.
func (e *Engine) SubmitProposal(ctx context.Context, actor identity.Actor, facultyID string, fields model.ProposalFields) (*model.EventRequest, error) {
	if !actor.Is(identity.RoleFaculty) {
		return nil, roleError("submit proposal", identity.RoleFaculty)
	}
	if facultyID != actor.ID {
		return nil, &GuardError{Action: "submit proposal", Kind: GuardOwnership, Reason: "faculty id does not match the signed-in user"}
	}
	now := e.now()
	fields, err := e.checkFields(fields, now)
	if err != nil {
		return nil, err
	}
	id, err := e.newID()
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	rec := &model.EventRequest{
		ID:             id,
		FacultyID:      actor.ID,
		FacultyName:    actor.Name,
		Status:         model.Pending,
		RemarkNotified: true,
		CreateDate:     now,
		UpdateDate:     now,
	}
	rec.Apply(fields)

	if err := e.events.CreateEventRequest(ctx, rec); err != nil {
		return nil, fmt.Errorf("create event request: %w", err)
	}
	e.logger.InfoContext(ctx, "proposal submitted", "request_id", rec.ID, "faculty_id", rec.FacultyID)
	return rec, nil
}

// Transition applies cmd to request id on behalf of actor. A cancelled
// request is returned as it was just before deletion.
func (e *Engine) Transition(ctx context.Context, id string, cmd Command, actor identity.Actor) (*model.EventRequest, error) {
	now := e.now()

	switch cmd.Action {
	case ActionRemark:
		cmd.Remark = strings.TrimSpace(cmd.Remark)
		if cmd.Remark == "" {
			return nil, &ValidationError{Field: "remark", Reason: "must not be empty"}
		}
	case ActionEdit:
		fields, err := e.checkFields(cmd.Fields, now)
		if err != nil {
			return nil, err
		}
		cmd.Fields = fields
	}

	if cmd.Action == ActionCancel {
		rec, err := e.events.DeleteEventRequest(ctx, id, func(rec *model.EventRequest) error {
			return CanCancel(actor, rec)
		})
		if err != nil {
			return nil, e.failed(ctx, id, cmd.Action, actor, err)
		}
		e.logger.InfoContext(ctx, "request cancelled", "request_id", id, "actor", actor.String())
		return rec, nil
	}

	rec, err := e.events.UpdateEventRequest(ctx, id, func(rec *model.EventRequest) error {
		if err := Guard(cmd.Action, actor, rec); err != nil {
			return err
		}
		apply(cmd, rec, now)
		return nil
	})
	if err != nil {
		return nil, e.failed(ctx, id, cmd.Action, actor, err)
	}
	e.logger.InfoContext(ctx, "request transitioned",
		"request_id", id, "action", cmd.Action.String(), "actor", actor.String(), "status", rec.Status)
	return rec, nil
}

func apply(cmd Command, rec *model.EventRequest, now time.Time) {
	switch cmd.Action {
	case ActionApprove:
		rec.Status = model.Approved
	case ActionReject:
		rec.Status = model.Rejected
	case ActionRemark:
		rec.Remark = cmd.Remark
		rec.RemarkNotified = false
	case ActionEdit:
		rec.Apply(cmd.Fields)
		rec.Status = model.Pending
	case ActionMarkRemarkNotified:
		if rec.RemarkNotified {
			return
		}
		rec.RemarkNotified = true
	}
	rec.UpdateDate = now
}

func (e *Engine) failed(ctx context.Context, id string, action Action, actor identity.Actor, err error) error {
	var guardErr *GuardError
	switch {
	case errors.As(err, &guardErr), errors.Is(err, ErrNotFound):
		e.logger.DebugContext(ctx, "transition refused", "request_id", id, "action", action.String(), "actor", actor.String(), "error", err)
		return err
	}
	return fmt.Errorf("%s request %s: %w", action, id, err)
}

func (e *Engine) Approve(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return e.Transition(ctx, id, Command{Action: ActionApprove}, actor)
}

func (e *Engine) Reject(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return e.Transition(ctx, id, Command{Action: ActionReject}, actor)
}

func (e *Engine) AttachRemark(ctx context.Context, actor identity.Actor, id, remark string) (*model.EventRequest, error) {
	return e.Transition(ctx, id, Command{Action: ActionRemark, Remark: remark}, actor)
}

func (e *Engine) Edit(ctx context.Context, actor identity.Actor, id string, fields model.ProposalFields) (*model.EventRequest, error) {
	return e.Transition(ctx, id, Command{Action: ActionEdit, Fields: fields}, actor)
}

func (e *Engine) Cancel(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return e.Transition(ctx, id, Command{Action: ActionCancel}, actor)
}

// MarkRemarkNotified records that the owner has seen the current remark.
// Calling it again is a no-op.
func (e *Engine) MarkRemarkNotified(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	return e.Transition(ctx, id, Command{Action: ActionMarkRemarkNotified}, actor)
}

// Get returns a single request if actor may see it.
func (e *Engine) Get(ctx context.Context, actor identity.Actor, id string) (*model.EventRequest, error) {
	rec, err := e.events.GetEventRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanView(actor, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPublicEvents returns approved events, earliest first.
func (e *Engine) ListPublicEvents(ctx context.Context) ([]model.EventRequest, error) {
	events, err := e.events.ListPublicEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list public events: %w", err)
	}
	return events, nil
}

func (e *Engine) ListAll(ctx context.Context, actor identity.Actor) ([]model.EventRequest, error) {
	if !actor.Is(identity.RoleAdmin) {
		return nil, roleError("list all requests", identity.RoleAdmin)
	}
	return e.events.ListEventRequests(ctx)
}

func (e *Engine) ListByFaculty(ctx context.Context, actor identity.Actor, facultyID string) ([]model.EventRequest, error) {
	if !actor.Is(identity.RoleAdmin) {
		if !actor.Is(identity.RoleFaculty) {
			return nil, roleError("list faculty requests", identity.RoleFaculty)
		}
		if actor.ID != facultyID {
			return nil, &GuardError{Action: "list faculty requests", Kind: GuardOwnership, Reason: "requests belong to another faculty member"}
		}
	}
	return e.events.ListEventRequestsByFaculty(ctx, facultyID)
}

func (e *Engine) checkFields(f model.ProposalFields, now time.Time) (model.ProposalFields, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Description = strings.TrimSpace(f.Description)
	f.Venue = strings.TrimSpace(f.Venue)
	f.Info = strings.TrimSpace(f.Info)

	if err := e.validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return f, &ValidationError{Field: verrs[0].Field(), Reason: describe(verrs[0])}
		}
		return f, &ValidationError{Reason: err.Error()}
	}
	if !f.Date.After(now) {
		return f, &ValidationError{Field: "date", Reason: "must be in the future"}
	}
	return f, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	}
	return "failed " + fe.Tag()
}
