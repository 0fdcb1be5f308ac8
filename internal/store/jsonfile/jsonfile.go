// Package jsonfile persists each collection as one pretty-printed JSON
// array file on disk: data/events.json and data/registrations.json.
// It is the default driver.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/eventlite/eventlite/internal/model"
	"github.com/eventlite/eventlite/internal/store"
	"github.com/rs/zerolog"
)

// Store reads and writes the two JSON documents under dir.
type Store struct {
	dir    string
	logger zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// Open prepares the data directory and bootstraps both documents as
// empty arrays if they do not exist yet, so the server never starts
// against missing files.
func Open(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	s := &Store{dir: dir, logger: logger}
	for _, name := range []string{store.EventsCollection, store.RegistrationsCollection} {
		path := s.path(name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
				return nil, fmt.Errorf("bootstrap %s: %w", name, err)
			}
		} else if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
	}
	return s, nil
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// load reads one collection, degrading any read or parse failure to an
// empty collection. The caller cannot tell a genuinely empty file from
// an unreadable one; the diagnostic only goes to the log. It reports
// whether out holds a fully decoded collection: a type mismatch inside
// an otherwise valid document still populates the slice before the
// decoder reports the error, so callers must discard out on false.
func (s *Store) load(collection string, out any) bool {
	data, err := os.ReadFile(s.path(collection))
	if err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).
			Msg("read failed, treating collection as empty")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).
			Msg("parse failed, treating collection as empty")
		return false
	}
	return true
}

// save overwrites the whole document in place. There is no fsync and no
// temp-file rename; a crash mid-write can corrupt the file.
func (s *Store) save(collection string, records any) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", collection, err)
	}
	if err := os.WriteFile(s.path(collection), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", collection, err)
	}
	return nil
}

func (s *Store) LoadEvents(ctx context.Context) ([]model.Event, error) {
	var events []model.Event
	if !s.load(store.EventsCollection, &events) || events == nil {
		return []model.Event{}, nil
	}
	return events, nil
}

func (s *Store) SaveEvents(ctx context.Context, events []model.Event) error {
	return s.save(store.EventsCollection, events)
}

func (s *Store) LoadRegistrations(ctx context.Context) ([]model.Registration, error) {
	var regs []model.Registration
	if !s.load(store.RegistrationsCollection, &regs) || regs == nil {
		return []model.Registration{}, nil
	}
	return regs, nil
}

func (s *Store) SaveRegistrations(ctx context.Context, regs []model.Registration) error {
	return s.save(store.RegistrationsCollection, regs)
}

// Close is part of the store contract; the file driver holds no open
// handles between calls.
func (s *Store) Close() error { return nil }
