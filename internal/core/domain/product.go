package domain

import (
	"strconv"
	"strings"
	"time"
)

// A Category is a catalog tag. Meta categories (Trending, Offer Zone,
// Recently Uploaded) are computed groupings, not curated tags.
type Category string

const (
	CategoryAll              Category = "All"
	CategoryOfferZone        Category = "Offer Zone"
	CategoryTrending         Category = "Trending"
	CategoryRecentlyUploaded Category = "Recently Uploaded"
	CategoryGrocery          Category = "Grocery"
	CategoryMobile           Category = "Mobile"
	CategoryFashion          Category = "Fashion"
	CategoryForGenZ          Category = "For Gen Z"
	CategoryElectronics      Category = "Electronics"
	CategoryHomeAppliances   Category = "Home & Appliances"
	CategoryKitchen          Category = "Kitchen"
	CategoryBeauty           Category = "Beauty"
	CategoryFurniture        Category = "Furniture"
	CategorySports           Category = "Sports"
	CategoryFoodHealth       Category = "Food & Health"
	CategoryAutoAcc          Category = "Auto Acc"
	CategoryToysBaby         Category = "Toys & Baby"
	CategoryOthers           Category = "Others"
)

var metaCategories = map[Category]struct{}{
	CategoryTrending:         {},
	CategoryOfferZone:        {},
	CategoryRecentlyUploaded: {},
}

// categoryAliases maps a selectable category to the legacy tags
// it still matches. Old listings carry the split tags.
var categoryAliases = map[Category][]Category{
	CategoryMobile:         {"Mobiles"},
	CategoryHomeAppliances: {"Home", "Appliances"},
}

// Meta reports whether c is a computed grouping.
func (c Category) Meta() bool {
	_, ok := metaCategories[c]
	return ok
}

// Matches reports whether the tag satisfies the selected category c,
// consulting the legacy alias table.
func (c Category) Matches(tag Category) bool {
	if c == tag {
		return true
	}
	for _, alias := range categoryAliases[c] {
		if alias == tag {
			return true
		}
	}
	return false
}

// A Product is a single affiliate listing.
//
// Price and MRP are display strings and may carry a currency symbol
// and separators. Derived numeric values come from ParseAmount.
type Product struct {
	ID            string
	Code          string
	Name          string
	Description   string
	Highlights    []string
	Images        []string
	AffiliateLink string
	Platform      string
	Categories    []Category
	Price         string
	MRP           string
	Offer         string
	Likes         int
	Dislikes      int
	Timestamp     int64
}

// HasCategory reports whether the product is tagged with c,
// including legacy aliases.
func (p Product) HasCategory(c Category) bool {
	for _, tag := range p.Categories {
		if c.Matches(tag) {
			return true
		}
	}
	return false
}

// RealCategories returns the product tags excluding meta categories.
// When only meta tags remain the full tag set is returned, so a
// tagged product always has a non-empty target set.
func (p Product) RealCategories() []Category {
	var real []Category
	for _, c := range p.Categories {
		if !c.Meta() {
			real = append(real, c)
		}
	}
	if len(real) == 0 {
		return p.Categories
	}
	return real
}

// PriceAmount returns the normalized numeric price, zero when absent
// or unparseable.
func (p Product) PriceAmount() float64 {
	return ParseAmount(p.Price)
}

// MRPAmount returns the normalized pre-discount reference price.
func (p Product) MRPAmount() float64 {
	return ParseAmount(p.MRP)
}

// Discount returns the discount percent: (mrp-price)/mrp*100.
// Zero when either amount is missing, non-positive, or mrp <= price.
func (p Product) Discount() float64 {
	price := p.PriceAmount()
	mrp := p.MRPAmount()
	if price <= 0 || mrp <= 0 || mrp <= price {
		return 0
	}
	return (mrp - price) / mrp * 100
}

// retailerDomains maps an affiliate link substring to the retailer
// display name.
var retailerDomains = []struct {
	substr string
	name   string
}{
	{"amazon", "Amazon"},
	{"flipkart", "Flipkart"},
	{"myntra", "Myntra"},
	{"ajio", "Ajio"},
	{"meesho", "Meesho"},
}

// DefaultPlatform labels listings whose retailer is unknown.
const DefaultPlatform = "Partner Store"

// PlatformName returns the explicit platform when set, otherwise
// infers the retailer from the affiliate link.
func (p Product) PlatformName() string {
	if p.Platform != "" {
		return p.Platform
	}
	link := strings.ToLower(p.AffiliateLink)
	for _, r := range retailerDomains {
		if strings.Contains(link, r.substr) {
			return r.name
		}
	}
	return DefaultPlatform
}

// DisplayImage returns the canonical thumbnail, falling back to the
// placeholder when the product has no usable image.
func (p Product) DisplayImage(placeholder string) string {
	if len(p.Images) > 0 && p.Images[0] != "" {
		return p.Images[0]
	}
	return placeholder
}

// ParseAmount normalizes a display amount string to a number by
// stripping everything except digits and dots. Absent or unparseable
// values yield zero, never an error.
func ParseAmount(s string) float64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// NewID derives a creation identifier from the wall clock.
func NewID(at time.Time) string {
	return strconv.FormatInt(at.UnixMilli(), 10)
}

// NewCode builds the short display code: a prefix from the first
// non-meta category plus a time-derived suffix.
func NewCode(categories []Category, at time.Time) string {
	main := ""
	for _, c := range categories {
		if !c.Meta() {
			main = string(c)
			break
		}
	}
	if main == "" && len(categories) > 0 {
		main = string(categories[0])
	}
	if main == "" {
		main = "GEN"
	}

	prefix := strings.ToUpper(main)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}

	ms := strconv.FormatInt(at.UnixMilli(), 10)
	suffix := ms
	if len(ms) > 6 {
		suffix = ms[len(ms)-6:]
	}
	return prefix + "-" + suffix
}
