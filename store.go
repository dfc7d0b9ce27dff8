package philofeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ContentStore owns the four category sequences and mirrors the complete
// state to a Slot after every mutation.
type ContentStore struct {
	mu     sync.RWMutex
	state  State
	slot   Slot
	logger *slog.Logger
}

// NewContentStore creates a store with four empty sequences backed by slot.
// Call Hydrate to load previously persisted content.
func NewContentStore(slot Slot, logger *slog.Logger) *ContentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentStore{
		state:  newState(),
		slot:   slot,
		logger: logger,
	}
}

// Hydrate replaces the in-memory state with the slot's contents. An empty
// slot leaves the default state and is not an error. Unreadable or
// unparseable data also falls back to the default state; the returned error
// wraps ErrStorageRead so the caller can report it.
func (s *ContentStore) Hydrate(ctx context.Context) error {
	data, err := s.slot.Load(ctx)
	if errors.Is(err, ErrSlotEmpty) {
		s.reset()
		return nil
	}
	if err != nil {
		s.reset()
		s.logger.Warn("store: slot read failed, starting empty", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrStorageRead, err)
	}

	loaded, dropped, err := parseState(data)
	if err != nil {
		s.reset()
		s.logger.Warn("store: slot data unparseable, starting empty", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	s.warnDropped(dropped)

	s.mu.Lock()
	s.state = loaded
	s.mu.Unlock()

	s.logger.Info("store: hydrated", slog.Int("records", s.Len()))
	return nil
}

// Restore replaces the whole state with a serialized snapshot, as produced
// by Snapshot or by the browser's userContents key, and persists it. The
// current state is kept if data does not parse.
func (s *ContentStore) Restore(ctx context.Context, data []byte) error {
	loaded, dropped, err := parseState(data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageRead, err)
	}
	s.warnDropped(dropped)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = loaded
	return s.persistLocked(ctx)
}

// parseState decodes a serialized state into exactly the fixed categories:
// missing ones get empty sequences, unknown keys are dropped and returned.
func parseState(data []byte) (State, []string, error) {
	var raw map[string][]ContentRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	loaded := newState()
	var dropped []string
	for key, recs := range raw {
		c := Category(key)
		if !c.Valid() {
			dropped = append(dropped, key)
			continue
		}
		if recs != nil {
			loaded[c] = recs
		}
	}
	sort.Strings(dropped)
	return loaded, dropped, nil
}

func (s *ContentStore) warnDropped(keys []string) {
	if len(keys) > 0 {
		s.logger.Warn("store: ignoring unknown categories", slog.Any("keys", keys))
	}
}

func (s *ContentStore) reset() {
	s.mu.Lock()
	s.state = newState()
	s.mu.Unlock()
}

// Append pushes rec to the end of category's sequence and persists the full
// state. The record stays in memory even if persisting fails.
func (s *ContentStore) Append(ctx context.Context, category Category, rec ContentRecord) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if rec.Category != category {
		return fmt.Errorf("%w: %q into %q", ErrCategoryMismatch, rec.Category, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state[category] {
		if existing.ID == rec.ID {
			return fmt.Errorf("%w: %d in %q", ErrDuplicateID, rec.ID, category)
		}
	}
	s.state[category] = append(s.state[category], rec)
	return s.persistLocked(ctx)
}

// Remove drops every record with id from category's sequence and persists
// the full state, even when nothing matched.
func (s *ContentStore) Remove(ctx context.Context, category Category, id int64) error {
	if !category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	recs := s.state[category]
	kept := make([]ContentRecord, 0, len(recs))
	for _, r := range recs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.state[category] = kept
	return s.persistLocked(ctx)
}

// List returns a copy of category's records in insertion order, or nil for
// an unknown category.
func (s *ContentStore) List(category Category) []ContentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.state[category]
	if !ok {
		return nil
	}
	out := make([]ContentRecord, len(recs))
	copy(out, recs)
	return out
}

// Get returns the record with id in category.
func (s *ContentStore) Get(category Category, id int64) (ContentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.state[category] {
		if r.ID == id {
			return r, nil
		}
	}
	return ContentRecord{}, ErrNotFound
}

// Snapshot returns a deep copy of the whole state.
func (s *ContentStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Len returns the total number of records across categories.
func (s *ContentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, recs := range s.state {
		n += len(recs)
	}
	return n
}

// MaxID returns the largest id held in any category, or 0 when empty.
func (s *ContentStore) MaxID() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var max int64
	for _, recs := range s.state {
		for _, r := range recs {
			if r.ID > max {
				max = r.ID
			}
		}
	}
	return max
}

// persistLocked serializes the complete state into the slot. s.mu must be
// held for writing.
func (s *ContentStore) persistLocked(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrStorageWrite, err)
	}
	if err := s.slot.Save(ctx, data); err != nil {
		s.logger.Error("store: slot write failed", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}
