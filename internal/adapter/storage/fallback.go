package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/port"
)

var _ port.CatalogStore = (*FallbackStore)(nil)

// A FallbackStore reads through the primary backend and falls back
// silently to the secondary (or an empty collection) on transport
// error. Writes go to the primary only.
type FallbackStore struct {
	primary   port.CatalogStore
	secondary port.CatalogStore
}

// NewFallbackStore wraps primary with an optional secondary reader.
func NewFallbackStore(primary, secondary port.CatalogStore) FallbackStore {
	return FallbackStore{primary: primary, secondary: secondary}
}

func (s FallbackStore) FetchAll(ctx context.Context) ([]domain.Product, error) {
	const op = "FallbackStore.FetchAll"
	log := slog.With("op", op)

	ps, err := s.primary.FetchAll(ctx)
	if err == nil {
		return ps, nil
	}
	log.Warn("primary fetch failed", "err", err)

	if s.secondary == nil {
		return []domain.Product{}, nil
	}

	ps, err = s.secondary.FetchAll(ctx)
	if err != nil {
		log.Warn("secondary fetch failed", "err", err)
		return []domain.Product{}, nil
	}
	return ps, nil
}

func (s FallbackStore) Upsert(
	ctx context.Context, p domain.Product,
) ([]domain.Product, error) {
	const op = "FallbackStore.Upsert"

	ps, err := s.primary.Upsert(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s FallbackStore) Remove(
	ctx context.Context, id string,
) ([]domain.Product, error) {
	const op = "FallbackStore.Remove"

	ps, err := s.primary.Remove(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s FallbackStore) ApplyInteraction(
	ctx context.Context, id string, c domain.Counters,
) error {
	const op = "FallbackStore.ApplyInteraction"

	if err := s.primary.ApplyInteraction(ctx, id, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
