package lifecycle

import (
	"fmt"

	"campus-events-backend/cmd/campus-events/identity"
	"campus-events-backend/cmd/campus-events/model"
)

type Action int

const (
	ActionApprove Action = iota + 1
	ActionReject
	ActionRemark
	ActionEdit
	ActionCancel
	ActionMarkRemarkNotified
)

func (a Action) String() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionReject:
		return "reject"
	case ActionRemark:
		return "attach remark"
	case ActionEdit:
		return "edit"
	case ActionCancel:
		return "cancel"
	case ActionMarkRemarkNotified:
		return "mark remark notified"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// GuardFunc decides whether actor may perform an action on rec. Guards are
// pure: they only read their arguments.
type GuardFunc func(actor identity.Actor, rec *model.EventRequest) error

var guards = map[Action]GuardFunc{
	ActionApprove:            CanApprove,
	ActionReject:             CanReject,
	ActionRemark:             CanRemark,
	ActionEdit:               CanEdit,
	ActionCancel:             CanCancel,
	ActionMarkRemarkNotified: CanMarkRemarkNotified,
}

// Guard runs the guard registered for action.
func Guard(action Action, actor identity.Actor, rec *model.EventRequest) error {
	g, ok := guards[action]
	if !ok {
		return &GuardError{Action: action.String(), Kind: GuardState, Reason: "unknown action"}
	}
	return g(actor, rec)
}

func CanApprove(actor identity.Actor, rec *model.EventRequest) error {
	return adminOnPending(ActionApprove, actor, rec)
}

func CanReject(actor identity.Actor, rec *model.EventRequest) error {
	return adminOnPending(ActionReject, actor, rec)
}

func CanRemark(actor identity.Actor, rec *model.EventRequest) error {
	return adminOnPending(ActionRemark, actor, rec)
}

func CanEdit(actor identity.Actor, rec *model.EventRequest) error {
	if err := ownerFaculty(ActionEdit.String(), actor, rec); err != nil {
		return err
	}
	if rec.Status != model.Pending {
		return stateError(ActionEdit.String(), rec)
	}
	return nil
}

func CanCancel(actor identity.Actor, rec *model.EventRequest) error {
	if !actor.Is(identity.RoleAdmin) {
		if err := ownerFaculty(ActionCancel.String(), actor, rec); err != nil {
			return err
		}
	}
	if rec.Status != model.Pending && rec.Status != model.Approved {
		return stateError(ActionCancel.String(), rec)
	}
	return nil
}

func CanMarkRemarkNotified(actor identity.Actor, rec *model.EventRequest) error {
	if actor.Is(identity.RoleAdmin) {
		return nil
	}
	return ownerFaculty(ActionMarkRemarkNotified.String(), actor, rec)
}

// CanView allows admins and the owner to see any record, and everyone to see
// approved ones.
func CanView(actor identity.Actor, rec *model.EventRequest) error {
	if rec.IsPublic() || actor.Is(identity.RoleAdmin) {
		return nil
	}
	return ownerFaculty("view request", actor, rec)
}

// CanSeeRegistrations allows admins and the event owner.
func CanSeeRegistrations(actor identity.Actor, rec *model.EventRequest) error {
	if actor.Is(identity.RoleAdmin) {
		return nil
	}
	return ownerFaculty("list registrations", actor, rec)
}

// CanEnroll requires a student and an approved event.
func CanEnroll(actor identity.Actor, rec *model.EventRequest) error {
	if !actor.Is(identity.RoleStudent) {
		return roleError("register", identity.RoleStudent)
	}
	if rec.Status != model.Approved {
		return &GuardError{Action: "register", Kind: GuardState, Reason: "event is not open for registration"}
	}
	return nil
}

// CanActForStudent allows admins and the student themself.
func CanActForStudent(action string, actor identity.Actor, studentID string) error {
	if actor.Is(identity.RoleAdmin) {
		return nil
	}
	if !actor.Is(identity.RoleStudent) {
		return roleError(action, identity.RoleStudent)
	}
	if actor.ID != studentID {
		return &GuardError{Action: action, Kind: GuardOwnership, Reason: "not your registration"}
	}
	return nil
}

func adminOnPending(action Action, actor identity.Actor, rec *model.EventRequest) error {
	if !actor.Is(identity.RoleAdmin) {
		return roleError(action.String(), identity.RoleAdmin)
	}
	if rec.Status != model.Pending {
		return stateError(action.String(), rec)
	}
	return nil
}

func ownerFaculty(action string, actor identity.Actor, rec *model.EventRequest) error {
	if !actor.Is(identity.RoleFaculty) {
		return roleError(action, identity.RoleFaculty)
	}
	if rec.FacultyID != actor.ID {
		return &GuardError{Action: action, Kind: GuardOwnership, Reason: "request belongs to another faculty member"}
	}
	return nil
}

func roleError(action string, want identity.Role) error {
	return &GuardError{Action: action, Kind: GuardRole, Reason: "requires " + want.String() + " role"}
}

func stateError(action string, rec *model.EventRequest) error {
	return &GuardError{Action: action, Kind: GuardState, Reason: "request is " + string(rec.Status)}
}
