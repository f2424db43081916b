// Package dedup decides whether a record was already published. Two records
// are the same when their dates match exactly and their descriptions match
// case-insensitively; there is no fuzzy matching.
package dedup

import (
	"sync"

	"marketevents/internal/event"
)

type Set struct {
	mu   sync.RWMutex
	keys map[event.Key]struct{}
}

func NewSet(keys ...event.Key) *Set {
	s := &Set{keys: make(map[event.Key]struct{}, len(keys))}
	for _, k := range keys {
		s.keys[k] = struct{}{}
	}
	return s
}

// IsDuplicate reports whether r matches a record in the set.
func (s *Set) IsDuplicate(r event.Record) bool {
	return s.Contains(r.Key())
}

func (s *Set) Contains(k event.Key) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[k]
	return ok
}

// Remember adds r so later records in the same cycle are checked against it.
func (s *Set) Remember(r event.Record) {
	s.Add(r.Key())
}

func (s *Set) Add(k event.Key) {
	s.mu.Lock()
	s.keys[k] = struct{}{}
	s.mu.Unlock()
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Filter returns the records of in that are new, in order, and remembers
// them. A record repeated within in is kept once.
func (s *Set) Filter(in []event.Record) (fresh []event.Record, duplicates int) {
	for _, r := range in {
		if s.IsDuplicate(r) {
			duplicates++
			continue
		}
		s.Remember(r)
		fresh = append(fresh, r)
	}
	return fresh, duplicates
}
