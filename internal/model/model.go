// Package model defines the core domain types for the event registration service.
package model

import (
	"strings"
)

// EventID is a small integer identifier that also accepts JSON strings,
// since HTML form clients tend to submit numeric fields as strings.
// Coercion keeps the leading digit run and ignores the rest, so "3abc"
// means 3 while a value with no digits at all coerces to 0, which never
// matches a stored event.
type EventID int

// UnmarshalJSON accepts both `3` and `"3"`.
func (id *EventID) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	*id = EventID(leadingInt(s))
	return nil
}

// leadingInt parses an optional sign followed by the leading run of
// digits; anything after the run is ignored. No digits yields 0.
func leadingInt(s string) int {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0
	}
	if neg {
		return -n
	}
	return n
}

// Attendee is one entry in an event's attendee list.
type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Event represents a single event with its denormalized attendee list.
type Event struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Date        string     `json:"date"`
	Location    string     `json:"location"`
	Attendees   []Attendee `json:"attendees"`
}

// Registration is the standalone record kept alongside the event's
// attendee list. EventTitle is a copy captured at registration time and
// is never updated when the event is renamed.
type Registration struct {
	ID               int    `json:"id"`
	EventID          int    `json:"eventId"`
	EventTitle       string `json:"eventTitle"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	RegistrationDate string `json:"registrationDate"`
}

// CreateEventRequest is the payload for creating a new event.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

// UpdateEventRequest is the payload for a partial event update.
// Empty fields are left untouched.
type UpdateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
}

// RegisterRequest is the payload for registering for an event.
type RegisterRequest struct {
	EventID EventID `json:"eventId"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
}

// CancelRequest is the payload for cancelling a registration.
type CancelRequest struct {
	EventID EventID `json:"eventId"`
	Email   string  `json:"email"`
}

// EventResponse is the success envelope for event creation and update.
type EventResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Event   *Event `json:"event"`
}

// RegisterResponse is the success envelope for a registration.
type RegisterResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	RegistrationID int    `json:"registrationId"`
}

// CancelResponse is the success envelope for a cancellation.
type CancelResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorResponse is the standard JSON error envelope.
type ErrorResponse struct {
	Message string `json:"message"`
}
