package port

import (
	"context"

	"github.com/smartdeal/storefront/internal/core/domain"
)

// A CatalogStore is the durable owner of the product collection.
// Implementations: SQL database, remote sheet endpoint, and the
// primary/secondary fallback composite.
type CatalogStore interface {
	// FetchAll returns the full collection, newest first.
	FetchAll(ctx context.Context) ([]domain.Product, error)
	// Upsert writes one product and returns the refreshed collection.
	Upsert(ctx context.Context, p domain.Product) ([]domain.Product, error)
	// Remove deletes by id and returns the refreshed collection.
	Remove(ctx context.Context, id string) ([]domain.Product, error)
	// ApplyInteraction replaces the counters of one product with
	// absolute values. Best effort, single attempt.
	ApplyInteraction(ctx context.Context, id string, c domain.Counters) error
}

// A ReactionsProducer streams interaction events for the reaction
// tally processor.
type ReactionsProducer interface {
	ProduceReaction(ctx context.Context, r domain.Reaction) error
	Close()
}

// A CatalogBrowser serves the read side of the storefront.
type CatalogBrowser interface {
	Browse(ctx context.Context, state domain.ViewState) ([]domain.Product, error)
	Product(ctx context.Context, id string) (domain.Product, error)
	SuggestFor(ctx context.Context, id string) ([]domain.Product, error)
	BestOffers(ctx context.Context) ([]domain.Product, error)
	TopLiked(ctx context.Context) ([]domain.Product, error)
}

// A CatalogEditor serves operator listing management.
type CatalogEditor interface {
	SaveProduct(ctx context.Context, p domain.Product) ([]domain.Product, error)
	DeleteProduct(ctx context.Context, id string) ([]domain.Product, error)
}

// A Reactor applies like/dislike transitions.
type Reactor interface {
	React(
		ctx context.Context,
		id string,
		action domain.ReactionAction,
		prior domain.ReactionState,
	) (domain.Product, domain.ReactionState, error)
}

// A TallyProvider looks up streamed reaction tallies.
type TallyProvider interface {
	Tally(productID string) (domain.Counters, bool, error)
}
