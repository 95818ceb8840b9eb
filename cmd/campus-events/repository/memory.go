package repository

import (
	"context"
	"sort"
	"sync"

	"campus-events-backend/cmd/campus-events/model"
)

// MemoryStore keeps event requests and registrations in process memory. It
// backs STORE=memory for local runs and tests. A single mutex makes every
// read-modify-write atomic, matching the row locks of the gorm repos.
type MemoryStore struct {
	mu            sync.Mutex
	events        map[string]model.EventRequest
	registrations map[string]model.Registration
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:        make(map[string]model.EventRequest),
		registrations: make(map[string]model.Registration),
	}
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

func (s *MemoryStore) CreateEventRequest(_ context.Context, rec *model.EventRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[rec.ID] = *rec
	return nil
}

func (s *MemoryStore) GetEventRequest(_ context.Context, id string) (*model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *MemoryStore) ListEventRequests(context.Context) ([]model.EventRequest, error) {
	return s.filterEvents(func(*model.EventRequest) bool { return true }, byCreateDesc), nil
}

func (s *MemoryStore) ListEventRequestsByFaculty(_ context.Context, facultyID string) ([]model.EventRequest, error) {
	return s.filterEvents(func(rec *model.EventRequest) bool { return rec.FacultyID == facultyID }, byCreateDesc), nil
}

func (s *MemoryStore) ListPublicEvents(context.Context) ([]model.EventRequest, error) {
	return s.filterEvents(func(rec *model.EventRequest) bool { return rec.IsPublic() }, byDateAsc), nil
}

func byCreateDesc(a, b *model.EventRequest) bool { return a.CreateDate.After(b.CreateDate) }
func byDateAsc(a, b *model.EventRequest) bool    { return a.Date.Before(b.Date) }

func (s *MemoryStore) filterEvents(keep func(*model.EventRequest) bool, less func(a, b *model.EventRequest) bool) []model.EventRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.EventRequest{}
	for _, rec := range s.events {
		if keep(&rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(&out[i], &out[j]) })
	return out
}

func (s *MemoryStore) UpdateEventRequest(_ context.Context, id string, fn func(*model.EventRequest) error) (*model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := fn(&rec); err != nil {
		return nil, err
	}
	s.events[id] = rec
	return &rec, nil
}

func (s *MemoryStore) DeleteEventRequest(_ context.Context, id string, check func(*model.EventRequest) error) (*model.EventRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := check(&rec); err != nil {
		return nil, err
	}
	for regID, reg := range s.registrations {
		if reg.EventID == id {
			delete(s.registrations, regID)
		}
	}
	delete(s.events, id)
	return &rec, nil
}

func (s *MemoryStore) Register(_ context.Context, reg *model.Registration, check func(*model.EventRequest) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	event, ok := s.events[reg.EventID]
	if !ok {
		return ErrNotFound
	}
	if err := check(&event); err != nil {
		return err
	}
	booked := 0
	for _, r := range s.registrations {
		if r.EventID != reg.EventID {
			continue
		}
		if r.StudentID == reg.StudentID {
			return ErrAlreadyRegistered
		}
		booked++
	}
	if event.Capacity > 0 && booked >= event.Capacity {
		return ErrEventFull
	}
	s.registrations[reg.ID] = *reg
	return nil
}

func (s *MemoryStore) FindRegistration(_ context.Context, studentID, eventID string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.registrations {
		if r.StudentID == studentID && r.EventID == eventID {
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListRegistrationsByEvent(_ context.Context, eventID string) ([]model.Registration, error) {
	return s.filterRegistrations(func(r *model.Registration) bool { return r.EventID == eventID }), nil
}

func (s *MemoryStore) ListRegistrationsByStudent(_ context.Context, studentID string) ([]model.Registration, error) {
	return s.filterRegistrations(func(r *model.Registration) bool { return r.StudentID == studentID }), nil
}

func (s *MemoryStore) filterRegistrations(keep func(*model.Registration) bool) []model.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Registration{}
	for _, r := range s.registrations {
		if keep(&r) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreateDate.Before(out[j].CreateDate) })
	return out
}

func (s *MemoryStore) DeleteRegistration(_ context.Context, id string, check func(*model.Registration) error) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg, ok := s.registrations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if err := check(&reg); err != nil {
		return nil, err
	}
	delete(s.registrations, id)
	return &reg, nil
}
