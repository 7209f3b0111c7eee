package repositories

import (
	"context"
	"sync"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

// MemorySessionRepository is an in-memory SessionRepository used by
// tests and local development. It applies the same optimistic version
// check as the Postgres implementation.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
}

// NewMemorySessionRepository creates an empty in-memory repository.
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]models.Session),
	}
}

func (r *MemorySessionRepository) Create(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session.Version = 1
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func (r *MemorySessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := cloneSession(&stored)
	return &out, nil
}

func (r *MemorySessionRepository) Update(ctx context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.sessions[session.ID]
	if !ok {
		return ErrSessionNotFound
	}
	if stored.Version != session.Version {
		return ErrVersionConflict
	}

	session.Version++
	r.sessions[session.ID] = cloneSession(session)
	return nil
}

func cloneSession(s *models.Session) models.Session {
	out := *s
	out.Responses = make(map[string]models.Response, len(s.Responses))
	for k, v := range s.Responses {
		out.Responses[k] = v
	}
	if s.Result != nil {
		result := *s.Result
		out.Result = &result
	}
	return out
}

// StaticBlueprintProvider serves a fixed set of published blueprints
// from memory.
type StaticBlueprintProvider struct {
	blueprints map[string]*models.Blueprint
}

// NewStaticBlueprintProvider creates a provider over the given blueprints.
func NewStaticBlueprintProvider(blueprints ...*models.Blueprint) *StaticBlueprintProvider {
	byID := make(map[string]*models.Blueprint, len(blueprints))
	for _, b := range blueprints {
		byID[b.ID] = b
	}
	return &StaticBlueprintProvider{blueprints: byID}
}

func (p *StaticBlueprintProvider) GetByID(ctx context.Context, id string) (*models.Blueprint, error) {
	b, ok := p.blueprints[id]
	if !ok {
		return nil, ErrBlueprintNotFound
	}
	return b, nil
}
