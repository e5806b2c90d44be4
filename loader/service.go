package loader

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/nathoo/arcanum/types"
)

// Source produces quest definitions by ID. A Library is the usual
// source; network- or archive-backed sources satisfy the same interface.
type Source interface {
	LoadQuest(ctx context.Context, id string) (*types.QuestDef, error)
}

// Service fronts a Source with an in-memory cache and single-flight
// de-duplication: two overlapping fetches for the same not-yet-cached
// quest share one underlying load and both observe the same resolved
// definition. The cache has no TTL - content identifiers are assumed
// immutable once published.
type Service struct {
	source Source
	group  singleflight.Group

	mu    sync.Mutex
	cache map[string]*types.QuestDef
}

// NewService creates a fetch service over the given source.
func NewService(source Source) *Service {
	return &Service{
		source: source,
		cache:  map[string]*types.QuestDef{},
	}
}

// Quest returns the definition for id, cache-first.
func (s *Service) Quest(ctx context.Context, id string) (*types.QuestDef, error) {
	s.mu.Lock()
	if def, ok := s.cache[id]; ok {
		s.mu.Unlock()
		return def, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(id, func() (any, error) {
		def, err := s.source.LoadQuest(ctx, id)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cache[id] = def
		s.mu.Unlock()
		return def, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.QuestDef), nil
}

// Cached reports whether the definition is already in the cache.
func (s *Service) Cached(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.cache[id]
	return ok
}

// LoadQuest makes a Library a Source for the fetch service.
func (lib *Library) LoadQuest(_ context.Context, id string) (*types.QuestDef, error) {
	def, ok := lib.Quests[id]
	if !ok {
		return nil, fmt.Errorf("unknown quest %q", id)
	}
	return def, nil
}
