package repository

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyRegistered = errors.New("student already registered for this event")
	ErrEventFull         = errors.New("event is fully booked")
)
