package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lemartins07/english-assessment-service/internal/models"
	"github.com/lemartins07/english-assessment-service/internal/repositories"
)

const blueprintTTL = time.Hour

// CachedBlueprintProvider decorates a BlueprintProvider with a cache.
// Blueprints are immutable once published, so a long TTL is safe; cache
// failures fall back to the underlying provider and are only logged.
type CachedBlueprintProvider struct {
	provider repositories.BlueprintProvider
	cache    CacheService
	logger   *slog.Logger
}

// NewCachedBlueprintProvider wraps the provider with the cache.
func NewCachedBlueprintProvider(provider repositories.BlueprintProvider, cache CacheService, logger *slog.Logger) *CachedBlueprintProvider {
	return &CachedBlueprintProvider{
		provider: provider,
		cache:    cache,
		logger:   logger,
	}
}

func (p *CachedBlueprintProvider) GetByID(ctx context.Context, id string) (*models.Blueprint, error) {
	key := blueprintKey(id)

	var cached models.Blueprint
	err := p.cache.Get(ctx, key, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		p.logger.Warn("blueprint cache read failed", "blueprint_id", id, "error", err)
	}

	blueprint, err := p.provider.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.cache.Set(ctx, key, blueprint, blueprintTTL); err != nil {
		p.logger.Warn("blueprint cache write failed", "blueprint_id", id, "error", err)
	}

	return blueprint, nil
}

func blueprintKey(id string) string {
	return fmt.Sprintf("blueprint:%s", id)
}
