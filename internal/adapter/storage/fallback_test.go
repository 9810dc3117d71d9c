package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smartdeal/storefront/internal/adapter/storage"
	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	products []domain.Product
	err      error
}

func (s stubStore) FetchAll(context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s stubStore) Upsert(
	ctx context.Context, p domain.Product,
) ([]domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append(s.products, p), nil
}

func (s stubStore) Remove(
	context.Context, string,
) ([]domain.Product, error) {
	return s.products, s.err
}

func (s stubStore) ApplyInteraction(
	context.Context, string, domain.Counters,
) error {
	return s.err
}

func TestFallbackStoreFetchAll(t *testing.T) {
	primaryList := []domain.Product{{ID: "primary"}}
	secondaryList := []domain.Product{{ID: "secondary"}}
	broken := stubStore{err: errors.New("transport error")}

	t.Run("PrimaryHealthy", func(t *testing.T) {
		s := storage.NewFallbackStore(
			stubStore{products: primaryList},
			stubStore{products: secondaryList},
		)
		got, err := s.FetchAll(t.Context())
		require.NoError(t, err)
		assert.Equal(t, primaryList, got)
	})

	t.Run("FallsBackToSecondary", func(t *testing.T) {
		s := storage.NewFallbackStore(broken, stubStore{products: secondaryList})
		got, err := s.FetchAll(t.Context())
		require.NoError(t, err)
		assert.Equal(t, secondaryList, got)
	})

	t.Run("NoSecondaryYieldsEmptyList", func(t *testing.T) {
		s := storage.NewFallbackStore(broken, nil)
		got, err := s.FetchAll(t.Context())
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
	})

	t.Run("BothBrokenYieldsEmptyList", func(t *testing.T) {
		s := storage.NewFallbackStore(broken, broken)
		got, err := s.FetchAll(t.Context())
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestFallbackStoreWrites(t *testing.T) {
	broken := stubStore{err: errors.New("transport error")}
	healthySecondary := stubStore{products: []domain.Product{{ID: "s"}}}

	t.Run("UpsertDoesNotFallBack", func(t *testing.T) {
		s := storage.NewFallbackStore(broken, healthySecondary)
		_, err := s.Upsert(t.Context(), domain.Product{ID: "p"})
		assert.Error(t, err)
	})

	t.Run("RemoveDoesNotFallBack", func(t *testing.T) {
		s := storage.NewFallbackStore(broken, healthySecondary)
		_, err := s.Remove(t.Context(), "p")
		assert.Error(t, err)
	})

	t.Run("ApplyInteraction", func(t *testing.T) {
		s := storage.NewFallbackStore(broken, healthySecondary)
		err := s.ApplyInteraction(t.Context(), "p", domain.Counters{Likes: 1})
		assert.Error(t, err)
	})
}
