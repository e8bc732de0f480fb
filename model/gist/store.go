package gist

import "sync"

// Group is the membership group under which a gist was discovered.
type Group string

const (
	// GroupMine is for the gists owned by the authenticated user.
	GroupMine Group = "mine"
	// GroupStarred is for the gists starred by the authenticated user.
	GroupStarred Group = "starred"
	// GroupFollowed is for the gists of a followed user.
	GroupFollowed Group = "followed"
	// GroupOpened is for gists opened explicitly by id.
	GroupOpened Group = "opened"
)

// Record is the in-memory representation of one known gist, with its access
// mode and the group it was listed under.
//
// Records are owned by the Store: holders of a *Record must treat it as
// read-only and go through the Store operations for any mutation, so that a
// single canonical copy exists.
type Record struct {
	Gist     *Gist
	ReadOnly bool
	Group    Group
}

// Store is the in-memory index of the gists known locally. It keeps the last
// known server snapshot of each gist, in a stable order for listing.
//
// The store performs no network calls, and it does not serialize operations
// on a same gist: two concurrent mutations of the same address race at the
// gateway level and the last writer wins (see the adapter documentation).
type Store struct {
	mu      sync.RWMutex
	records []*Record
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Upsert inserts the given records. A record whose gist id is already known
// replaces the existing one in place, keeping its position; new records are
// appended in order.
func (s *Store) Upsert(records ...*Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		if rec.Gist == nil || rec.Gist.ID == "" {
			continue
		}
		if i, ok := s.index(rec.Gist.ID); ok {
			s.records[i] = rec
		} else {
			s.records = append(s.records, rec)
		}
	}
}

// Find returns the record for the given gist id.
func (s *Store) Find(id string) (*Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i, ok := s.index(id); ok {
		return s.records[i], true
	}
	return nil, false
}

// Remove drops the record for the given gist id. Removing an unknown id is
// a no-op.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index(id); ok {
		s.records = append(s.records[:i], s.records[i+1:]...)
	}
}

// UpdateEntries replaces the cached snapshot of a gist wholesale with the
// authoritative state returned by the remote store. It reports whether a
// record with this id was known.
func (s *Store) UpdateEntries(id string, snapshot *Gist) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index(id)
	if !ok {
		return false
	}
	rec := s.records[i]
	s.records[i] = &Record{Gist: snapshot, ReadOnly: rec.ReadOnly, Group: rec.Group}
	return true
}

// Records returns a copy of the record list, in insertion order.
func (s *Store) Records() []*Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of known gists.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// index must be called with the lock held.
func (s *Store) index(id string) (int, bool) {
	for i, rec := range s.records {
		if rec.Gist.ID == id {
			return i, true
		}
	}
	return 0, false
}
