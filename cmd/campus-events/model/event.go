package model

import "time"

type EventStatus string

var (
	Pending  EventStatus = "Pending"
	Approved EventStatus = "Approved"
	Rejected EventStatus = "Rejected"
)

func (s EventStatus) Valid() bool {
	switch s {
	case Pending, Approved, Rejected:
		return true
	}
	return false
}

// EventRequest is a faculty proposal and, once approved, the public event.
type EventRequest struct {
	ID             string      `gorm:"column:id;primaryKey" json:"id"`
	FacultyID      string      `gorm:"column:faculty_id;index" json:"faculty_id"`
	FacultyName    string      `gorm:"column:faculty_name" json:"faculty_name,omitempty"`
	Title          string      `gorm:"column:title" json:"title"`
	Description    string      `gorm:"column:description" json:"description"`
	Venue          string      `gorm:"column:venue" json:"venue"`
	Date           time.Time   `gorm:"column:date;index" json:"date"`
	Info           string      `gorm:"column:info" json:"info,omitempty"`
	Capacity       int         `gorm:"column:capacity" json:"capacity,omitempty"`
	Status         EventStatus `gorm:"column:status;index" json:"status"`
	Remark         string      `gorm:"column:remark" json:"remark,omitempty"`
	RemarkNotified bool        `gorm:"column:remark_notified" json:"remark_notified"`
	CreateDate     time.Time   `gorm:"column:create_date" json:"create_date"`
	UpdateDate     time.Time   `gorm:"column:update_date" json:"update_date"`
}

func (m *EventRequest) TableName() string {
	return "event_requests"
}

// UnseenRemark reports whether an admin remark is waiting for the owner.
func (m *EventRequest) UnseenRemark() bool {
	return m.Remark != "" && !m.RemarkNotified
}

func (m *EventRequest) IsPublic() bool {
	return m.Status == Approved
}

// Apply copies the editable content fields onto the record.
func (m *EventRequest) Apply(f ProposalFields) {
	m.Title = f.Title
	m.Description = f.Description
	m.Venue = f.Venue
	m.Date = f.Date
	m.Info = f.Info
	m.Capacity = f.Capacity
}

const RegistrationRegistered = "Registered"

type Registration struct {
	ID          string    `gorm:"column:id;primaryKey" json:"id" csv:"id"`
	EventID     string    `gorm:"column:event_id;uniqueIndex:idx_registration_event_student" json:"event_id" csv:"event_id"`
	StudentID   string    `gorm:"column:student_id;uniqueIndex:idx_registration_event_student;index" json:"student_id" csv:"student_id"`
	StudentName string    `gorm:"column:student_name" json:"student_name,omitempty" csv:"student_name"`
	FacultyID   string    `gorm:"column:faculty_id;index" json:"faculty_id" csv:"-"`
	Status      string    `gorm:"column:status" json:"status" csv:"status"`
	CreateDate  time.Time `gorm:"column:create_date" json:"create_date" csv:"create_date"`
}

func (m *Registration) TableName() string {
	return "registrations"
}

// ProposalFields holds the owner-editable content of an EventRequest.
type ProposalFields struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required,max=4000"`
	Venue       string    `json:"venue" validate:"required,max=200"`
	Date        time.Time `json:"date" validate:"required"`
	Info        string    `json:"info,omitempty" validate:"max=20000"`
	Capacity    int       `json:"capacity,omitempty" validate:"gte=0,lte=100000"`
}
