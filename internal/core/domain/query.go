package domain

import (
	"sort"
	"strings"
)

// A SortMode orders the visible list after filtering.
type SortMode string

const (
	SortDefault  SortMode = "default"
	SortLikes    SortMode = "likes"
	SortDiscount SortMode = "discount"
)

// A PriceRange keeps products whose normalized price falls in
// [Min, Max]. Max < 0 means no upper bound.
type PriceRange struct {
	Min float64
	Max float64
}

// NoUpperBound is the Max sentinel for an open-ended price range.
const NoUpperBound = -1

// Contains reports whether v falls inside the range, bounds inclusive.
func (r PriceRange) Contains(v float64) bool {
	if v < r.Min {
		return false
	}
	return r.Max < 0 || v <= r.Max
}

// A ViewState is the user-selected catalog view: one category, an
// optional free-text query and the optional filters layered on top.
type ViewState struct {
	Category    Category
	SearchQuery string
	PriceRange  *PriceRange
	MinDiscount *float64
	Sort        SortMode
}

const (
	// trendingShelfSize is the fallback slice of the collection shown
	// when no product is tagged Trending. The shelf is never empty
	// while the catalog has products.
	trendingShelfSize = 10

	// offerZoneMinDiscount is the entry bar for the Offer Zone view.
	offerZoneMinDiscount = 55
)

// SelectVisible computes the visible ordered subset of the collection
// for the given view state. Stages run in fixed order: search override,
// category selection, price range, minimum discount, sort. A non-empty
// search query is terminal: it matches name or code case-insensitively
// and ignores every other filter. An empty result is a valid outcome.
func SelectVisible(all []Product, state ViewState) []Product {
	if q := strings.TrimSpace(state.SearchQuery); q != "" {
		return searchProducts(all, q)
	}

	visible := selectCategory(all, state.Category)

	if state.PriceRange != nil {
		visible = filterProducts(visible, func(p Product) bool {
			return state.PriceRange.Contains(p.PriceAmount())
		})
	}

	if state.MinDiscount != nil {
		visible = filterProducts(visible, func(p Product) bool {
			return p.Discount() >= *state.MinDiscount
		})
	}

	switch state.Sort {
	case SortLikes:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Likes > visible[j].Likes
		})
	case SortDiscount:
		sort.SliceStable(visible, func(i, j int) bool {
			return visible[i].Discount() > visible[j].Discount()
		})
	}

	return visible
}

func searchProducts(all []Product, query string) []Product {
	query = strings.ToLower(query)
	return filterProducts(all, func(p Product) bool {
		return strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Code), query)
	})
}

func selectCategory(all []Product, category Category) []Product {
	switch category {
	case CategoryAll, "":
		return copyProducts(all)

	case CategoryOfferZone:
		zone := filterProducts(all, func(p Product) bool {
			return p.Discount() > offerZoneMinDiscount
		})
		sort.SliceStable(zone, func(i, j int) bool {
			return zone[i].Discount() > zone[j].Discount()
		})
		return zone

	case CategoryTrending:
		tagged := filterProducts(all, func(p Product) bool {
			return p.HasCategory(CategoryTrending)
		})
		if len(tagged) > 0 {
			return tagged
		}
		return copyProducts(all[:min(len(all), trendingShelfSize)])

	case CategoryRecentlyUploaded:
		recent := copyProducts(all)
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].Timestamp > recent[j].Timestamp
		})
		return recent

	default:
		return filterProducts(all, func(p Product) bool {
			return p.HasCategory(category)
		})
	}
}

func filterProducts(ps []Product, keep func(Product) bool) []Product {
	kept := make([]Product, 0, len(ps))
	for _, p := range ps {
		if keep(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func copyProducts(ps []Product) []Product {
	out := make([]Product, len(ps))
	copy(out, ps)
	return out
}

// BestOffers returns the n highest-discount products, descending,
// skipping products without a discount.
func BestOffers(all []Product, n int) []Product {
	discounted := filterProducts(all, func(p Product) bool {
		return p.Discount() > 0
	})
	sort.SliceStable(discounted, func(i, j int) bool {
		return discounted[i].Discount() > discounted[j].Discount()
	})
	return discounted[:min(len(discounted), n)]
}

// TopLiked returns the n most liked products, descending.
func TopLiked(all []Product, n int) []Product {
	liked := copyProducts(all)
	sort.SliceStable(liked, func(i, j int) bool {
		return liked[i].Likes > liked[j].Likes
	})
	return liked[:min(len(liked), n)]
}
