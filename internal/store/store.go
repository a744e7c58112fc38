// Package store holds the current Dataset snapshot and the path that loads it.
package store

import (
	"sync/atomic"
	"time"

	"github.com/gustycube/neoview/internal/neo"
)

// Store provides lock-free access to the current dataset. A published
// dataset is never modified; a load replaces it wholesale.
type Store struct {
	dataset atomic.Pointer[neo.Dataset]
}

func New() *Store {
	return &Store{}
}

// Current returns the current dataset, or nil if none has been loaded.
func (s *Store) Current() *neo.Dataset {
	return s.dataset.Load()
}

// Replace atomically swaps in ds.
func (s *Store) Replace(ds *neo.Dataset) {
	s.dataset.Store(ds)
}

// Info describes the current dataset without exposing it.
type Info struct {
	ID        string
	Source    string
	Records   int
	FetchedAt time.Time
}

// Snapshot describes the current dataset. ok is false before the first load.
func (s *Store) Snapshot() (info Info, ok bool) {
	ds := s.dataset.Load()
	if ds == nil {
		return Info{}, false
	}
	return Info{ID: ds.ID(), Source: ds.Source(), Records: ds.Len(), FetchedAt: ds.FetchedAt()}, true
}

// AgeSeconds returns the age of the current dataset in seconds, or -1 if
// none is loaded.
func (s *Store) AgeSeconds() float64 {
	ds := s.dataset.Load()
	if ds == nil {
		return -1
	}
	return time.Since(ds.FetchedAt()).Seconds()
}
