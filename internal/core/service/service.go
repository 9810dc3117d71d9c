package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/port"
)

var _ port.CatalogBrowser = (*Service)(nil)
var _ port.CatalogEditor = (*Service)(nil)
var _ port.Reactor = (*Service)(nil)

var (
	ErrNotFound       = errors.New("product not found")
	ErrInvalidProduct = errors.New("invalid product")

	// ErrStoreDiverged marks a failed store write: the optimistic
	// local collection is kept and served until the next refresh.
	ErrStoreDiverged = errors.New("catalog store write failed")
)

const (
	minImages = 1
	maxImages = 7

	bestOffersShelfSize = 4
	topLikedShelfSize   = 5
)

// Service orchestrates the catalog store and the pure engines. It
// holds the collection snapshot: reads serve the snapshot, writes
// mutate it optimistically and then replace it wholesale with the
// store's authoritative response.
type Service struct {
	store     port.CatalogStore
	reactions port.ReactionsProducer
	suggester domain.Suggester
	now       func() time.Time

	mu     sync.RWMutex
	cache  []domain.Product
	loaded bool
}

// New returns a Service. The reactions producer may be nil when event
// streaming is not configured.
func New(store port.CatalogStore, reactions port.ReactionsProducer) *Service {
	return &Service{
		store:     store,
		reactions: reactions,
		suggester: domain.NewSuggester(),
		now:       time.Now,
	}
}

// Refresh replaces the snapshot with the store's current collection.
func (s *Service) Refresh(ctx context.Context) error {
	const op = "Service.Refresh"

	ps, err := s.store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.cache = ps
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Browse computes the visible ordered subset for the view state.
func (s *Service) Browse(
	ctx context.Context, state domain.ViewState,
) ([]domain.Product, error) {
	const op = "Service.Browse"

	ps, err := s.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.SelectVisible(ps, state), nil
}

// Product returns one product by id.
func (s *Service) Product(
	ctx context.Context, id string,
) (domain.Product, error) {
	const op = "Service.Product"

	ps, err := s.collection(ctx)
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := findProduct(ps, id)
	if !ok {
		return domain.Product{}, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return p, nil
}

// SuggestFor ranks the collection against the focal product.
func (s *Service) SuggestFor(
	ctx context.Context, id string,
) ([]domain.Product, error) {
	const op = "Service.SuggestFor"

	ps, err := s.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	focal, ok := findProduct(ps, id)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return s.suggester.SuggestFor(focal, ps), nil
}

// BestOffers returns the highest-discount shelf.
func (s *Service) BestOffers(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.BestOffers"

	ps, err := s.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.BestOffers(ps, bestOffersShelfSize), nil
}

// TopLiked returns the most liked shelf.
func (s *Service) TopLiked(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.TopLiked"

	ps, err := s.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.TopLiked(ps, topLikedShelfSize), nil
}

// SaveProduct creates or replaces a listing. New listings get
// time-derived identity (id, timestamp, code) and an auto-derived
// offer label when the operator left it empty. The snapshot is
// updated optimistically; when the store write fails the optimistic
// collection is returned together with ErrStoreDiverged.
func (s *Service) SaveProduct(
	ctx context.Context, p domain.Product,
) ([]domain.Product, error) {
	const op = "Service.SaveProduct"
	log := slog.With("op", op)

	if err := validateProduct(p); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p = s.withIdentity(p, ps)

	s.mu.Lock()
	if _, ok := findProduct(s.cache, p.ID); ok {
		for i := range s.cache {
			if s.cache[i].ID == p.ID {
				s.cache[i] = p
			}
		}
	} else {
		s.cache = append([]domain.Product{p}, s.cache...)
	}
	optimistic := snapshotCopy(s.cache)
	s.mu.Unlock()

	fresh, err := s.store.Upsert(ctx, p)
	if err != nil {
		log.Warn("keeping optimistic state", "err", err)
		return optimistic, fmt.Errorf("%s: %w", op, ErrStoreDiverged)
	}

	s.replaceCache(fresh)
	return fresh, nil
}

// DeleteProduct removes a listing by id with the same optimistic
// semantics as SaveProduct.
func (s *Service) DeleteProduct(
	ctx context.Context, id string,
) ([]domain.Product, error) {
	const op = "Service.DeleteProduct"
	log := slog.With("op", op)

	ps, err := s.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, ok := findProduct(ps, id); !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	s.mu.Lock()
	kept := s.cache[:0:0]
	for _, p := range s.cache {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.cache = kept
	optimistic := snapshotCopy(s.cache)
	s.mu.Unlock()

	fresh, err := s.store.Remove(ctx, id)
	if err != nil {
		log.Warn("keeping optimistic state", "err", err)
		return optimistic, fmt.Errorf("%s: %w", op, ErrStoreDiverged)
	}

	s.replaceCache(fresh)
	return fresh, nil
}

// React applies one like/dislike transition and best-effort persists
// the resulting absolute counters: a failed write or stream leaves
// the local state as-is and is only logged.
func (s *Service) React(
	ctx context.Context,
	id string,
	action domain.ReactionAction,
	prior domain.ReactionState,
) (domain.Product, domain.ReactionState, error) {
	const op = "Service.React"
	log := slog.With("op", op)

	if _, err := s.collection(ctx); err != nil {
		return domain.Product{}, prior, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	var (
		updated domain.Product
		next    domain.ReactionState
		found   bool
	)
	for i := range s.cache {
		if s.cache[i].ID != id {
			continue
		}
		c := domain.Counters{
			Likes:    s.cache[i].Likes,
			Dislikes: s.cache[i].Dislikes,
		}
		c, next = domain.ApplyReaction(c, prior, action)
		s.cache[i].Likes = c.Likes
		s.cache[i].Dislikes = c.Dislikes
		updated = s.cache[i]
		found = true
		break
	}
	s.mu.Unlock()

	if !found {
		return domain.Product{}, prior, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	counters := domain.Counters{Likes: updated.Likes, Dislikes: updated.Dislikes}
	if err := s.store.ApplyInteraction(ctx, id, counters); err != nil {
		log.Warn("failed to persist interaction", "err", err)
	}

	if s.reactions != nil {
		r := domain.Reaction{
			ProductID: id,
			Action:    action,
			Likes:     updated.Likes,
			Dislikes:  updated.Dislikes,
			At:        s.now().UnixMilli(),
		}
		if err := s.reactions.ProduceReaction(ctx, r); err != nil {
			log.Warn("failed to stream reaction", "err", err)
		}
	}

	return updated, next, nil
}

func (s *Service) collection(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	if s.loaded {
		ps := snapshotCopy(s.cache)
		s.mu.RUnlock()
		return ps, nil
	}
	s.mu.RUnlock()

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshotCopy(s.cache), nil
}

func (s *Service) replaceCache(ps []domain.Product) {
	s.mu.Lock()
	s.cache = ps
	s.loaded = true
	s.mu.Unlock()
}

// withIdentity assigns id, timestamp and code to new listings and
// preserves them on edits.
func (s *Service) withIdentity(
	p domain.Product, current []domain.Product,
) domain.Product {
	now := s.now()

	if p.ID == "" {
		p.ID = domain.NewID(now)
		p.Timestamp = now.UnixMilli()
		p.Code = domain.NewCode(p.Categories, now)
	} else if existing, ok := findProduct(current, p.ID); ok {
		if p.Timestamp == 0 {
			p.Timestamp = existing.Timestamp
		}
		if p.Code == "" {
			p.Code = existing.Code
		}
	} else if p.Timestamp == 0 {
		p.Timestamp = now.UnixMilli()
	}

	if p.Code == "" {
		p.Code = domain.NewCode(p.Categories, now)
	}

	if p.Offer == "" {
		if d := p.Discount(); d > 0 {
			p.Offer = fmt.Sprintf("%d%% OFF", int(math.Round(d)))
		}
	}
	return p
}

func validateProduct(p domain.Product) error {
	if len(p.Images) < minImages || len(p.Images) > maxImages {
		return fmt.Errorf("%w: product requires 1-7 images", ErrInvalidProduct)
	}
	if len(p.Categories) == 0 {
		return fmt.Errorf("%w: product requires a category", ErrInvalidProduct)
	}
	return nil
}

func findProduct(ps []domain.Product, id string) (domain.Product, bool) {
	for _, p := range ps {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

func snapshotCopy(ps []domain.Product) []domain.Product {
	out := make([]domain.Product, len(ps))
	copy(out, ps)
	return out
}
