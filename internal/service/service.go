// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the storage layer.
//
// Every operation follows the same cycle: load the full collection(s),
// mutate the in-memory copy, save the whole collection(s) back. Nothing
// coordinates concurrent requests; two racing writers are last-writer-wins
// at whole-file granularity.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eventlite/eventlite/internal/model"
	"github.com/eventlite/eventlite/internal/store"
)

// ErrEventNotFound is returned when no event matches the requested id.
var ErrEventNotFound = errors.New("event not found")

// ErrMissingFields is returned when event creation lacks a required field.
var ErrMissingFields = errors.New("missing required fields")

// ErrAlreadyRegistered is returned when either copy of the attendance
// fact already records this email for the event.
var ErrAlreadyRegistered = errors.New("already registered for this event")

// ErrRegistrationNotFound is returned when a cancellation matches
// nothing in either collection.
var ErrRegistrationNotFound = errors.New("registration not found")

// EventService orchestrates event and registration operations over the
// injected store.
type EventService struct {
	store store.Store
}

// NewEventService constructs an EventService with its storage dependency.
func NewEventService(st store.Store) *EventService {
	return &EventService{store: st}
}

// ListEvents returns the full event collection in storage order.
func (s *EventService) ListEvents(ctx context.Context) ([]model.Event, error) {
	return s.store.LoadEvents(ctx)
}

// ListRegistrations returns the full registrations collection.
func (s *EventService) ListRegistrations(ctx context.Context) ([]model.Registration, error) {
	return s.store.LoadRegistrations(ctx)
}

// CreateEvent validates presence of all four fields, assigns the next
// id, and appends the event to the collection.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	if req.Title == "" || req.Description == "" || req.Date == "" || req.Location == "" {
		return nil, ErrMissingFields
	}

	events, err := s.store.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	event := model.Event{
		ID:          nextEventID(events),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
		Attendees:   []model.Attendee{},
	}
	events = append(events, event)

	if err := s.store.SaveEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("save events: %w", err)
	}
	return &event, nil
}

// UpdateEvent overwrites only the non-empty fields of the request. An
// empty string is indistinguishable from "not provided" and is skipped.
func (s *EventService) UpdateEvent(ctx context.Context, id int, req model.UpdateEventRequest) (*model.Event, error) {
	events, err := s.store.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	idx := findEvent(events, id)
	if idx < 0 {
		return nil, ErrEventNotFound
	}

	event := &events[idx]
	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Date != "" {
		event.Date = req.Date
	}
	if req.Location != "" {
		event.Location = req.Location
	}

	if err := s.store.SaveEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("save events: %w", err)
	}
	return event, nil
}

// Register records attendance in both places: the event's attendee list
// and the registrations collection. The duplicate check consults both
// copies because they can drift; a hit in either one rejects the
// request. The two saves are independent, so a failure on the second
// leaves the collections disagreeing.
func (s *EventService) Register(ctx context.Context, req model.RegisterRequest) (*model.Registration, error) {
	events, err := s.store.LoadEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	regs, err := s.store.LoadRegistrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("load registrations: %w", err)
	}

	idx := findEvent(events, int(req.EventID))
	if idx < 0 {
		return nil, ErrEventNotFound
	}
	event := &events[idx]
	if event.Attendees == nil {
		event.Attendees = []model.Attendee{}
	}

	if hasAttendee(event.Attendees, req.Email) || hasRegistration(regs, event.ID, req.Email) {
		return nil, ErrAlreadyRegistered
	}

	reg := model.Registration{
		ID:               nextRegistrationID(regs),
		EventID:          event.ID,
		EventTitle:       event.Title,
		Name:             req.Name,
		Email:            req.Email,
		RegistrationDate: time.Now().UTC().Format(time.RFC3339),
	}
	event.Attendees = append(event.Attendees, model.Attendee{Name: req.Name, Email: req.Email})
	regs = append(regs, reg)

	if err := s.store.SaveEvents(ctx, events); err != nil {
		return nil, fmt.Errorf("save events: %w", err)
	}
	if err := s.store.SaveRegistrations(ctx, regs); err != nil {
		return nil, fmt.Errorf("save registrations: %w", err)
	}
	return &reg, nil
}

// Cancel removes the matching attendee entries and registration records
// for (eventId, email). It returns the event title for the response
// message. If neither collection shrank the cancellation matched
// nothing.
func (s *EventService) Cancel(ctx context.Context, req model.CancelRequest) (string, error) {
	events, err := s.store.LoadEvents(ctx)
	if err != nil {
		return "", fmt.Errorf("load events: %w", err)
	}
	regs, err := s.store.LoadRegistrations(ctx)
	if err != nil {
		return "", fmt.Errorf("load registrations: %w", err)
	}

	idx := findEvent(events, int(req.EventID))
	if idx < 0 || events[idx].Attendees == nil {
		return "", ErrEventNotFound
	}
	event := &events[idx]

	keptAttendees := event.Attendees[:0:0]
	for _, att := range event.Attendees {
		if att.Email != req.Email {
			keptAttendees = append(keptAttendees, att)
		}
	}
	keptRegs := regs[:0:0]
	for _, reg := range regs {
		if !(reg.EventID == event.ID && reg.Email == req.Email) {
			keptRegs = append(keptRegs, reg)
		}
	}

	if len(keptAttendees) == len(event.Attendees) && len(keptRegs) == len(regs) {
		return "", ErrRegistrationNotFound
	}
	event.Attendees = keptAttendees

	if err := s.store.SaveEvents(ctx, events); err != nil {
		return "", fmt.Errorf("save events: %w", err)
	}
	if err := s.store.SaveRegistrations(ctx, keptRegs); err != nil {
		return "", fmt.Errorf("save registrations: %w", err)
	}
	return event.Title, nil
}

// nextEventID assigns max(existing ids)+1, or 1 for an empty collection.
// IDs are never reused for events because nothing deletes them.
func nextEventID(events []model.Event) int {
	max := 0
	for _, e := range events {
		if e.ID > max {
			max = e.ID
		}
	}
	return max + 1
}

func nextRegistrationID(regs []model.Registration) int {
	max := 0
	for _, r := range regs {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

func findEvent(events []model.Event, id int) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

func hasAttendee(attendees []model.Attendee, email string) bool {
	for _, att := range attendees {
		if att.Email == email {
			return true
		}
	}
	return false
}

func hasRegistration(regs []model.Registration, eventID int, email string) bool {
	for _, reg := range regs {
		if reg.EventID == eventID && reg.Email == email {
			return true
		}
	}
	return false
}
