package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	record  Record
	payload []byte
}

// MemoryStore keeps checkpoints in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]map[int]memoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.runs = make(map[string]map[int]memoryEntry)
	return nil
}

func (s *MemoryStore) SaveCheckpoint(_ context.Context, run string, generation int, payload []byte) (Record, error) {
	if err := validateKey(run, generation); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return Record{}, ErrNotInitialized
	}
	record := Record{
		ID:         uuid.NewString(),
		Run:        run,
		Generation: generation,
		Size:       int64(len(payload)),
		CreatedAt:  time.Now().UTC(),
	}
	gens, ok := s.runs[run]
	if !ok {
		gens = make(map[int]memoryEntry)
		s.runs[run] = gens
	}
	gens[generation] = memoryEntry{record: record, payload: append([]byte(nil), payload...)}
	return record, nil
}

func (s *MemoryStore) LoadCheckpoint(_ context.Context, run string, generation int) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, false, ErrNotInitialized
	}
	entry, ok := s.runs[run][generation]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

func (s *MemoryStore) LatestCheckpoint(_ context.Context, run string) (Record, []byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Record{}, nil, false, ErrNotInitialized
	}
	var (
		latest memoryEntry
		found  bool
	)
	for gen, entry := range s.runs[run] {
		if !found || gen > latest.record.Generation {
			latest = entry
			found = true
		}
	}
	if !found {
		return Record{}, nil, false, nil
	}
	return latest.record, append([]byte(nil), latest.payload...), true, nil
}

func (s *MemoryStore) ListCheckpoints(_ context.Context, run string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	records := make([]Record, 0, len(s.runs[run]))
	for _, entry := range s.runs[run] {
		records = append(records, entry.record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Generation < records[j].Generation
	})
	return records, nil
}
