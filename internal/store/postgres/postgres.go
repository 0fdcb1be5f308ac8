// Package postgres implements the store contract on PostgreSQL using pgx.
// Each collection lives in one jsonb-document table and keeps the same
// whole-collection load/save semantics as the file driver, so handlers
// and the service layer are untouched by the swap.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eventlite/eventlite/internal/model"
	"github.com/eventlite/eventlite/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Store persists both collections in PostgreSQL.
type Store struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

var _ store.Store = (*Store)(nil)

// Open creates a validated connection pool and ensures both document
// tables exist. It retries the initial connection to accommodate
// containers still starting up.
func Open(ctx context.Context, url string, logger zerolog.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 1
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= 5; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				break
			}
			pool.Close()
			err = fmt.Errorf("ping failed: %w", pingErr)
		}
		logger.Warn().Err(err).Int("attempt", attempt).Msg("database connect failed, retrying in 2s")
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	s := &Store{pool: pool, logger: logger}
	if err := s.ensureTables(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureTables(ctx context.Context) error {
	for _, collection := range []string{store.EventsCollection, store.RegistrationsCollection} {
		_, err := s.pool.Exec(ctx, fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
				id  INTEGER PRIMARY KEY,
				doc JSONB NOT NULL
			)`, collection))
		if err != nil {
			return fmt.Errorf("create %s table: %w", collection, err)
		}
	}
	return nil
}

// load reads every document of one collection in id order. It reports
// whether the read fully succeeded; any failure degrades the whole
// collection to empty, matching the file driver.
func (s *Store) load(ctx context.Context, collection string, add func(doc []byte) error) bool {
	rows, err := s.pool.Query(ctx,
		fmt.Sprintf(`SELECT doc FROM %s ORDER BY id ASC`, collection))
	if err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).
			Msg("read failed, treating collection as empty")
		return false
	}
	defer rows.Close()

	for rows.Next() {
		var doc []byte
		err := rows.Scan(&doc)
		if err == nil {
			err = add(doc)
		}
		if err != nil {
			s.logger.Warn().Err(err).Str("collection", collection).
				Msg("parse failed, treating collection as empty")
			return false
		}
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn().Err(err).Str("collection", collection).
			Msg("read failed, treating collection as empty")
		return false
	}
	return true
}

// replace swaps the full collection content inside one transaction.
// The two collections are still written by independent calls, so a
// registration that saves events but fails on registrations leaves the
// same inconsistency window as the file driver.
func (s *Store) replace(ctx context.Context, collection string, ids []int, docs [][]byte) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s`, collection)); err != nil {
		return fmt.Errorf("clear %s: %w", collection, err)
	}
	for i := range ids {
		if _, err = tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES ($1, $2)`, collection),
			ids[i], docs[i]); err != nil {
			return fmt.Errorf("insert into %s: %w", collection, err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", collection, err)
	}
	return nil
}

func (s *Store) LoadEvents(ctx context.Context) ([]model.Event, error) {
	events := []model.Event{}
	ok := s.load(ctx, store.EventsCollection, func(doc []byte) error {
		var e model.Event
		if err := json.Unmarshal(doc, &e); err != nil {
			return err
		}
		events = append(events, e)
		return nil
	})
	if !ok {
		return []model.Event{}, nil
	}
	return events, nil
}

func (s *Store) SaveEvents(ctx context.Context, events []model.Event) error {
	ids := make([]int, len(events))
	docs := make([][]byte, len(events))
	for i, e := range events {
		doc, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal event %d: %w", e.ID, err)
		}
		ids[i], docs[i] = e.ID, doc
	}
	return s.replace(ctx, store.EventsCollection, ids, docs)
}

func (s *Store) LoadRegistrations(ctx context.Context) ([]model.Registration, error) {
	regs := []model.Registration{}
	ok := s.load(ctx, store.RegistrationsCollection, func(doc []byte) error {
		var r model.Registration
		if err := json.Unmarshal(doc, &r); err != nil {
			return err
		}
		regs = append(regs, r)
		return nil
	})
	if !ok {
		return []model.Registration{}, nil
	}
	return regs, nil
}

func (s *Store) SaveRegistrations(ctx context.Context, regs []model.Registration) error {
	ids := make([]int, len(regs))
	docs := make([][]byte, len(regs))
	for i, r := range regs {
		doc, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal registration %d: %w", r.ID, err)
		}
		ids[i], docs[i] = r.ID, doc
	}
	return s.replace(ctx, store.RegistrationsCollection, ids, docs)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}
