package httphandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartdeal/storefront/internal/adapter/httphandler"
	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPlaceholder = "https://cdn.example.com/placeholder.png"

type fakeBrowser struct {
	products  []domain.Product
	lastState domain.ViewState
}

func (f *fakeBrowser) Browse(
	_ context.Context, state domain.ViewState,
) ([]domain.Product, error) {
	f.lastState = state
	return f.products, nil
}

func (f *fakeBrowser) Product(
	_ context.Context, id string,
) (domain.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, service.ErrNotFound
}

func (f *fakeBrowser) SuggestFor(
	_ context.Context, id string,
) ([]domain.Product, error) {
	if _, err := f.Product(context.Background(), id); err != nil {
		return nil, err
	}
	return f.products, nil
}

func (f *fakeBrowser) BestOffers(context.Context) ([]domain.Product, error) {
	return f.products, nil
}

func (f *fakeBrowser) TopLiked(context.Context) ([]domain.Product, error) {
	return f.products, nil
}

type fakeReactor struct {
	product domain.Product
	state   domain.ReactionState
}

func (f *fakeReactor) React(
	_ context.Context,
	id string,
	action domain.ReactionAction,
	prior domain.ReactionState,
) (domain.Product, domain.ReactionState, error) {
	if id != f.product.ID {
		return domain.Product{}, "", service.ErrNotFound
	}
	return f.product, f.state, nil
}

type fakeEditor struct {
	products []domain.Product
	err      error
}

func (f *fakeEditor) SaveProduct(
	context.Context, domain.Product,
) ([]domain.Product, error) {
	return f.products, f.err
}

func (f *fakeEditor) DeleteProduct(
	context.Context, string,
) ([]domain.Product, error) {
	return f.products, f.err
}

func catalogMux(browser *fakeBrowser) *http.ServeMux {
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, browser, testPlaceholder)
	return mux
}

func TestGetProducts(t *testing.T) {
	browser := &fakeBrowser{products: []domain.Product{
		{ID: "1", Name: "Watch", AffiliateLink: "https://amazon.in/x"},
	}}
	mux := catalogMux(browser)

	t.Run("DecoratesView", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp httphandler.ProductsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "Amazon", resp.Products[0].Platform)
		assert.Equal(t, testPlaceholder, resp.Products[0].DisplayImage)
	})

	t.Run("ParsesBrowseQuery", func(t *testing.T) {
		rec := httptest.NewRecorder()
		target := "/v1/products?category=Fashion&q=watch&price=100-500&min_offer=40&sort=likes"
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		state := browser.lastState
		assert.Equal(t, domain.Category("Fashion"), state.Category)
		assert.Equal(t, "watch", state.SearchQuery)
		require.NotNil(t, state.PriceRange)
		assert.Equal(t, domain.PriceRange{Min: 100, Max: 500}, *state.PriceRange)
		require.NotNil(t, state.MinDiscount)
		assert.Equal(t, 40.0, *state.MinDiscount)
		assert.Equal(t, domain.SortLikes, state.Sort)
	})

	t.Run("OpenEndedPrice", func(t *testing.T) {
		rec := httptest.NewRecorder()
		target := "/v1/products?price=1000%2B"
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

		require.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, browser.lastState.PriceRange)
		assert.Equal(t,
			float64(domain.NoUpperBound), browser.lastState.PriceRange.Max)
	})

	t.Run("BadQuery", func(t *testing.T) {
		for _, target := range []string{
			"/v1/products?price=cheap",
			"/v1/products?min_offer=lots",
			"/v1/products?sort=alphabet",
		} {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})
}

func TestGetProduct(t *testing.T) {
	browser := &fakeBrowser{products: []domain.Product{{ID: "1", Name: "Watch"}}}
	mux := catalogMux(browser)

	t.Run("Found", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/1", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/products/9", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPostReaction(t *testing.T) {
	reactor := &fakeReactor{
		product: domain.Product{ID: "1", Likes: 5},
		state:   domain.ReactionLiked,
	}
	mux := http.NewServeMux()
	httphandler.RegisterReactions(mux, reactor, testPlaceholder)

	t.Run("Like", func(t *testing.T) {
		body := strings.NewReader(`{"action": "like", "prior": "none"}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/v1/products/1/reactions", body))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp httphandler.ReactionResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "liked", resp.State)
		assert.Equal(t, 5, resp.Product.Likes)
	})

	t.Run("InvalidAction", func(t *testing.T) {
		body := strings.NewReader(`{"action": "love"}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/v1/products/1/reactions", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnknownProduct", func(t *testing.T) {
		body := strings.NewReader(`{"action": "like"}`)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec,
			httptest.NewRequest(http.MethodPost, "/v1/products/9/reactions", body))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminHandler(t *testing.T) {
	const secret = "s3cret"

	newMux := func(editor *fakeEditor) *http.ServeMux {
		mux := http.NewServeMux()
		httphandler.RegisterAdmin(mux, editor, secret, testPlaceholder)
		return mux
	}

	payload := `{"name": "Watch", "price": "499", "mrp": "999"}`

	t.Run("RequiresSecret", func(t *testing.T) {
		mux := newMux(&fakeEditor{})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(
			http.MethodPost, "/v1/products", strings.NewReader(payload))
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("SavesWithSecret", func(t *testing.T) {
		mux := newMux(&fakeEditor{products: []domain.Product{{ID: "1"}}})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(
			http.MethodPost, "/v1/products", strings.NewReader(payload))
		req.Header.Set("X-Admin-Secret", secret)
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp httphandler.SaveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Stored)
		assert.Len(t, resp.Products, 1)
	})

	t.Run("ReportsDivergedStore", func(t *testing.T) {
		editor := &fakeEditor{
			products: []domain.Product{{ID: "1"}},
			err:      service.ErrStoreDiverged,
		}
		mux := newMux(editor)
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(
			http.MethodPost, "/v1/products", strings.NewReader(payload))
		req.Header.Set("X-Admin-Secret", secret)
		mux.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp httphandler.SaveResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Stored)
	})

	t.Run("RejectsInvalidPayload", func(t *testing.T) {
		mux := newMux(&fakeEditor{err: service.ErrInvalidProduct})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(
			http.MethodPost, "/v1/products", strings.NewReader(payload))
		req.Header.Set("X-Admin-Secret", secret)
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("DeleteUnknown", func(t *testing.T) {
		mux := newMux(&fakeEditor{err: service.ErrNotFound})
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/v1/products/9", nil)
		req.Header.Set("X-Admin-Secret", secret)
		mux.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
