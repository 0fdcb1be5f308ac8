// Package store defines the persistence contract for the two record
// collections. Every operation works on a whole collection at a time:
// callers load the full array, mutate it in memory, and save it back.
package store

import (
	"context"

	"github.com/eventlite/eventlite/internal/model"
)

// Names of the backing collections.
const (
	EventsCollection        = "events"
	RegistrationsCollection = "registrations"
)

// Store is the injected persistence dependency. Implementations are
// opened at startup and closed at shutdown.
//
// Loads never distinguish "empty" from "unreadable": a failed read
// degrades to an empty collection with a server-side diagnostic.
type Store interface {
	LoadEvents(ctx context.Context) ([]model.Event, error)
	SaveEvents(ctx context.Context, events []model.Event) error
	LoadRegistrations(ctx context.Context) ([]model.Registration, error)
	SaveRegistrations(ctx context.Context, regs []model.Registration) error
	Close() error
}
