package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/smartdeal/storefront/internal/core/domain"
	"github.com/smartdeal/storefront/internal/core/port"
	"github.com/smartdeal/storefront/internal/core/service"
)

// GET v1/products?category=&q=&price=&min_offer=&sort= (200 OK, 400 Bad request)
// GET v1/products/{id} (200 OK, 404 Not found)
// GET v1/products/{id}/suggestions (200 OK, 404 Not found)
// GET v1/shelves/best-offers (200 OK)
// GET v1/shelves/top-liked (200 OK)
// POST v1/products/{id}/reactions JSON {"action","prior"} (200 OK, 400, 404)

type CatalogHandler struct {
	browser     port.CatalogBrowser
	placeholder string
}

func RegisterCatalog(
	mux *http.ServeMux, browser port.CatalogBrowser, placeholder string,
) {
	h := CatalogHandler{browser, placeholder}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
	mux.HandleFunc("GET /v1/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /v1/products/{id}/suggestions", h.GetSuggestions)
	mux.HandleFunc("GET /v1/shelves/best-offers", h.GetBestOffers)
	mux.HandleFunc("GET /v1/shelves/top-liked", h.GetTopLiked)
}

func (h CatalogHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProducts"
	log := slog.With("op", op)

	state, err := parseViewState(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("bad browse query", "err", err)
		return
	}

	ps, err := h.browser.Browse(r.Context(), state)
	if err != nil {
		http.Error(w, "failed to browse catalog", http.StatusInternalServerError)
		log.Error("failed to browse", "err", err)
		return
	}

	writeJSON(w, log, ProductsResponse{fromDomainList(ps, h.placeholder)})
}

func (h CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetProduct"
	log := slog.With("op", op)

	p, err := h.browser.Product(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to read product", "err", err)
		return
	}

	writeJSON(w, log, fromDomain(p, h.placeholder))
}

func (h CatalogHandler) GetSuggestions(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetSuggestions"
	log := slog.With("op", op)

	ps, err := h.browser.SuggestFor(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to suggest", "err", err)
		return
	}

	writeJSON(w, log, ProductsResponse{fromDomainList(ps, h.placeholder)})
}

func (h CatalogHandler) GetBestOffers(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetBestOffers"
	log := slog.With("op", op)

	ps, err := h.browser.BestOffers(r.Context())
	if err != nil {
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to read best offers", "err", err)
		return
	}

	writeJSON(w, log, ProductsResponse{fromDomainList(ps, h.placeholder)})
}

func (h CatalogHandler) GetTopLiked(w http.ResponseWriter, r *http.Request) {
	const op = "CatalogHandler.GetTopLiked"
	log := slog.With("op", op)

	ps, err := h.browser.TopLiked(r.Context())
	if err != nil {
		http.Error(w, "failed to read catalog", http.StatusInternalServerError)
		log.Error("failed to read top liked", "err", err)
		return
	}

	writeJSON(w, log, ProductsResponse{fromDomainList(ps, h.placeholder)})
}

type ReactionsHandler struct {
	reactor     port.Reactor
	placeholder string
}

func RegisterReactions(
	mux *http.ServeMux, reactor port.Reactor, placeholder string,
) {
	h := ReactionsHandler{reactor, placeholder}
	mux.HandleFunc("POST /v1/products/{id}/reactions", h.PostReaction)
}

func (h ReactionsHandler) PostReaction(w http.ResponseWriter, r *http.Request) {
	const op = "ReactionsHandler.PostReaction"
	log := slog.With("op", op)

	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	action, err := parseAction(req.Action)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prior, err := parsePriorState(req.Prior)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, state, err := h.reactor.React(r.Context(), r.PathValue("id"), action, prior)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to apply reaction", http.StatusInternalServerError)
		log.Error("failed to react", "err", err)
		return
	}

	writeJSON(w, log, ReactionResponse{
		Product: fromDomain(p, h.placeholder),
		State:   string(state),
	})
}

func parseViewState(r *http.Request) (domain.ViewState, error) {
	q := r.URL.Query()

	state := domain.ViewState{
		Category:    domain.Category(q.Get("category")),
		SearchQuery: q.Get("q"),
	}

	pr, err := parsePriceRange(q.Get("price"))
	if err != nil {
		return domain.ViewState{}, err
	}
	state.PriceRange = pr

	if v := q.Get("min_offer"); v != "" {
		minOffer, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.ViewState{}, errors.New("invalid min_offer value")
		}
		state.MinDiscount = &minOffer
	}

	sort, err := parseSortMode(q.Get("sort"))
	if err != nil {
		return domain.ViewState{}, err
	}
	state.Sort = sort

	return state, nil
}

// parsePriceRange reads "100-500" as a bounded range and "500+" as a
// lower bound only.
func parsePriceRange(s string) (*domain.PriceRange, error) {
	if s == "" {
		return nil, nil
	}

	if rest, ok := strings.CutSuffix(s, "+"); ok {
		lo, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return nil, errors.New("invalid price value")
		}
		return &domain.PriceRange{Min: lo, Max: domain.NoUpperBound}, nil
	}

	loS, hiS, ok := strings.Cut(s, "-")
	if !ok {
		return nil, errors.New("invalid price range")
	}
	lo, err := strconv.ParseFloat(loS, 64)
	if err != nil {
		return nil, errors.New("invalid price value")
	}
	hi, err := strconv.ParseFloat(hiS, 64)
	if err != nil {
		return nil, errors.New("invalid price value")
	}
	return &domain.PriceRange{Min: lo, Max: hi}, nil
}

func parseSortMode(s string) (domain.SortMode, error) {
	switch mode := domain.SortMode(s); mode {
	case "", domain.SortDefault:
		return domain.SortDefault, nil
	case domain.SortLikes, domain.SortDiscount:
		return mode, nil
	default:
		return "", errors.New("invalid sort mode")
	}
}

func parseAction(s string) (domain.ReactionAction, error) {
	switch action := domain.ReactionAction(s); action {
	case domain.ActionLike, domain.ActionDislike:
		return action, nil
	default:
		return "", errors.New("invalid reaction action")
	}
}

func parsePriorState(s string) (domain.ReactionState, error) {
	switch state := domain.ReactionState(s); state {
	case "", domain.ReactionNone:
		return domain.ReactionNone, nil
	case domain.ReactionLiked, domain.ReactionDisliked:
		return state, nil
	default:
		return "", errors.New("invalid prior reaction state")
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
