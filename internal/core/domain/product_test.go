package domain_test

import (
	"testing"
	"time"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	t.Run("PlainNumber", func(t *testing.T) {
		assert.Equal(t, 999.0, domain.ParseAmount("999"))
	})

	t.Run("CurrencySymbolAndSeparators", func(t *testing.T) {
		assert.Equal(t, 12999.5, domain.ParseAmount("₹12,999.50"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Zero(t, domain.ParseAmount(""))
	})

	t.Run("Garbage", func(t *testing.T) {
		assert.Zero(t, domain.ParseAmount("free!!"))
	})
}

func TestDiscount(t *testing.T) {
	t.Run("HalfOff", func(t *testing.T) {
		p := domain.Product{Price: "999", MRP: "1999"}
		assert.InDelta(t, 50.02, p.Discount(), 0.01)
	})

	t.Run("NeverNegative", func(t *testing.T) {
		products := []domain.Product{
			{Price: "999", MRP: "1999"},
			{Price: "1999", MRP: "999"},
			{Price: "999"},
			{MRP: "1999"},
			{Price: "abc", MRP: "def"},
			{},
		}
		for _, p := range products {
			assert.GreaterOrEqual(t, p.Discount(), 0.0)
		}
	})

	t.Run("ZeroWhenMRPNotGreater", func(t *testing.T) {
		equal := domain.Product{Price: "999", MRP: "999"}
		assert.Zero(t, equal.Discount())

		inverted := domain.Product{Price: "1999", MRP: "999"}
		assert.Zero(t, inverted.Discount())

		missing := domain.Product{Price: "999"}
		assert.Zero(t, missing.Discount())
	})
}

func TestPlatformName(t *testing.T) {
	t.Run("ExplicitWins", func(t *testing.T) {
		p := domain.Product{
			Platform:      "Croma",
			AffiliateLink: "https://www.amazon.in/dp/B0TEST",
		}
		assert.Equal(t, "Croma", p.PlatformName())
	})

	t.Run("InferredFromLink", func(t *testing.T) {
		tests := map[string]string{
			"https://www.amazon.in/dp/B0TEST":  "Amazon",
			"https://www.flipkart.com/p/item":  "Flipkart",
			"https://www.myntra.com/1234":      "Myntra",
			"https://www.ajio.com/p/1234":      "Ajio",
			"https://www.meesho.com/s/p/1234":  "Meesho",
			"https://shop.example.com/p/1234":  domain.DefaultPlatform,
		}
		for link, want := range tests {
			p := domain.Product{AffiliateLink: link}
			assert.Equal(t, want, p.PlatformName(), link)
		}
	})
}

func TestCategoryMatches(t *testing.T) {
	t.Run("LegacyMobiles", func(t *testing.T) {
		p := domain.Product{Categories: []domain.Category{"Mobiles"}}
		assert.True(t, p.HasCategory(domain.CategoryMobile))
	})

	t.Run("LegacyHomeAndAppliances", func(t *testing.T) {
		home := domain.Product{Categories: []domain.Category{"Home"}}
		appliances := domain.Product{Categories: []domain.Category{"Appliances"}}
		assert.True(t, home.HasCategory(domain.CategoryHomeAppliances))
		assert.True(t, appliances.HasCategory(domain.CategoryHomeAppliances))
	})

	t.Run("NoReverseAlias", func(t *testing.T) {
		p := domain.Product{Categories: []domain.Category{domain.CategoryMobile}}
		assert.False(t, p.HasCategory("Mobiles"))
	})
}

func TestRealCategories(t *testing.T) {
	t.Run("ExcludesMeta", func(t *testing.T) {
		p := domain.Product{Categories: []domain.Category{
			domain.CategoryTrending,
			domain.CategoryFashion,
			domain.CategoryOfferZone,
		}}
		assert.Equal(t,
			[]domain.Category{domain.CategoryFashion}, p.RealCategories())
	})

	t.Run("FallbackToAllTags", func(t *testing.T) {
		p := domain.Product{Categories: []domain.Category{
			domain.CategoryTrending,
		}}
		assert.Equal(t, p.Categories, p.RealCategories())
	})
}

func TestNewCode(t *testing.T) {
	at := time.UnixMilli(1700000123456)

	t.Run("SkipsMetaPrefix", func(t *testing.T) {
		code := domain.NewCode([]domain.Category{
			domain.CategoryTrending, domain.CategoryFashion,
		}, at)
		require.Equal(t, "FAS-123456", code)
	})

	t.Run("MetaOnlyFallsBackToFirstTag", func(t *testing.T) {
		code := domain.NewCode([]domain.Category{domain.CategoryTrending}, at)
		require.Equal(t, "TRE-123456", code)
	})

	t.Run("NoCategories", func(t *testing.T) {
		code := domain.NewCode(nil, at)
		require.Equal(t, "GEN-123456", code)
	})
}

func TestDisplayImage(t *testing.T) {
	const placeholder = "https://picsum.photos/400/400"

	withImage := domain.Product{Images: []string{"https://cdn.example.com/a.jpg"}}
	assert.Equal(t, "https://cdn.example.com/a.jpg", withImage.DisplayImage(placeholder))

	empty := domain.Product{}
	assert.Equal(t, placeholder, empty.DisplayImage(placeholder))
}
