package repositories

import (
	"context"
	"errors"

	"github.com/lemartins07/english-assessment-service/internal/models"
)

// Repository-level sentinel errors. Services translate these into the
// domain error taxonomy.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrVersionConflict = errors.New("session version conflict")
)

// SessionRepository persists assessment sessions.
//
// Update performs an optimistic version check: it succeeds only when the
// stored version matches session.Version, bumps the version, and returns
// ErrVersionConflict otherwise. This check is what serializes racing
// submissions for different questions on the same session; the use cases
// themselves do not lock sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
}

// BlueprintProvider is a read-only lookup of published blueprints. The
// same id returns the identical blueprint for the lifetime of the
// process; blueprints are never mutated.
type BlueprintProvider interface {
	GetByID(ctx context.Context, id string) (*models.Blueprint, error)
}

// ErrBlueprintNotFound is returned by BlueprintProvider for unknown ids.
var ErrBlueprintNotFound = errors.New("blueprint not found")

// IsNotFoundError checks if error represents a "not found" condition
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrBlueprintNotFound)
}

// IsConflictError checks if error represents an optimistic version conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
