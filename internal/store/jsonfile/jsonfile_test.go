package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/eventlite/eventlite/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)
	return s, dir
}

func TestOpenBootstrapsEmptyDocuments(t *testing.T) {
	_, dir := openTestStore(t)

	for _, name := range []string{"events.json", "registrations.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))
	}
}

func TestOpenKeepsExistingDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.json")
	seed := `[{"id":1,"title":"Meetup","description":"D","date":"2025-01-01","location":"HQ","attendees":[]}]`
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))

	s, err := Open(dir, zerolog.Nop())
	require.NoError(t, err)

	events, err := s.LoadEvents(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Meetup", events[0].Title)
}

func TestLoadEmptyCollections(t *testing.T) {
	s, _ := openTestStore(t)

	events, err := s.LoadEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)

	regs, err := s.LoadRegistrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, regs)
	assert.NotNil(t, regs)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	events := []model.Event{{
		ID:          1,
		Title:       "Meetup",
		Description: "D",
		Date:        "2025-01-01",
		Location:    "HQ",
		Attendees:   []model.Attendee{{Name: "A", Email: "a@x.com"}},
	}}
	require.NoError(t, s.SaveEvents(ctx, events))

	loaded, err := s.LoadEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, events, loaded)
}

func TestSavePrettyPrints(t *testing.T) {
	s, dir := openTestStore(t)

	require.NoError(t, s.SaveEvents(context.Background(), []model.Event{{ID: 1, Title: "Meetup"}}))

	data, err := os.ReadFile(filepath.Join(dir, "events.json"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "\n  "), "document should be indented")
}

func TestCorruptDocumentDegradesToEmpty(t *testing.T) {
	s, dir := openTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte("{not json"), 0o644))

	events, err := s.LoadEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

// A syntactically valid document with a type mismatch decodes records
// up to the bad field before the decoder reports the error; none of the
// partially decoded records may leak out.
func TestTypeMismatchDegradesToEmpty(t *testing.T) {
	s, dir := openTestStore(t)
	seed := `[
  {"id": 1, "title": "A", "description": "D", "date": "2025-01-01", "location": "HQ", "attendees": []},
  {"id": "bad", "title": "B", "description": "D", "date": "2025-01-02", "location": "HQ", "attendees": []}
]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte(seed), 0o644))

	events, err := s.LoadEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestMissingDocumentDegradesToEmpty(t *testing.T) {
	s, dir := openTestStore(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "registrations.json")))

	regs, err := s.LoadRegistrations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, regs)
}
