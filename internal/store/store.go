// Package store holds the process-lifetime, bounded in-memory collection of
// resumes. Handles are short random identifiers; at capacity the oldest
// entry is evicted. A record imported from XML keeps its raw document until
// a caller opts into re-derivation.
package store

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/europass-builder/internal/types"
)

// DefaultCapacity bounds the number of resident resumes.
const DefaultCapacity = 50

// Store is safe for concurrent use. Access is effectively single writer per
// handle under the assumption of one active client session; the mutex
// protects the read-modify-write cycles.
type Store struct {
	mu       sync.Mutex
	capacity int
	order    []string
	resumes  map[string]*types.Resume
}

// New creates a store. A non-positive capacity means DefaultCapacity.
func New(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		resumes:  make(map[string]*types.Resume),
	}
}

// Summary is the listing view of a stored resume.
type Summary struct {
	ID        string `json:"resume_id"`
	Name      string `json:"name"`
	Title     string `json:"title,omitempty"`
	Jobs      int    `json:"jobs_count"`
	Studies   int    `json:"education_count"`
	HasRawXML bool   `json:"has_raw_xml"`
}

// Create validates and stores a resume, returning its new handle. At
// capacity the oldest resume is evicted first.
func (s *Store) Create(r *types.Resume) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.order) >= s.capacity {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.resumes, oldest)
		log.Printf("[STORE] evicted oldest resume %s", oldest)
	}

	id := uuid.NewString()[:8]
	s.resumes[id] = r
	s.order = append(s.order, id)
	log.Printf("[STORE] resume created: %s for %s", id, r.FullName())
	return id, nil
}

// Get returns a copy of the resume under the handle.
func (s *Store) Get(id string) (*types.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resumes[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	cp := *r
	return &cp, nil
}

// Update applies a partial update under the handle. Merge semantics are a
// shallow top-level merge: present patch fields replace wholesale. When
// rederive is set, the retained raw XML is cleared so the next export is
// re-derived from the structured fields. A patch that fails validation
// leaves the stored record unchanged.
func (s *Store) Update(id string, patch types.ResumePatch, rederive bool) (*types.Resume, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.resumes[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}

	// The patch is applied to a copy so a rejected update cannot corrupt the
	// stored record. Apply replaces top-level fields wholesale, so a shallow
	// copy is enough.
	next := *r
	patch.Apply(&next)
	if err := next.Validate(); err != nil {
		return nil, err
	}
	if rederive && next.RawXML != "" {
		next.RawXML = ""
		log.Printf("[STORE] cleared raw XML for %s, exports will be re-derived", id)
	}

	s.resumes[id] = &next
	cp := next
	return &cp, nil
}

// Delete removes the resume and its retained raw document.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resumes[id]; !ok {
		return &NotFoundError{ID: id}
	}
	delete(s.resumes, id)
	for i, handle := range s.order {
		if handle == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// List returns summaries in insertion order.
func (s *Store) List() []Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Summary, 0, len(s.order))
	for _, id := range s.order {
		r := s.resumes[id]
		out = append(out, Summary{
			ID:        id,
			Name:      r.FullName(),
			Title:     r.Profile.Title,
			Jobs:      len(r.Jobs),
			Studies:   len(r.Studies),
			HasRawXML: r.RawXML != "",
		})
	}
	return out
}

// Len reports the number of resident resumes.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
