package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/smartdeal/storefront/internal/core/port"
)

// GET v1/products/{id}/tally (200 OK, 404 Not found)

type TallyResponse struct {
	ProductID string `json:"product_id"`
	Likes     int    `json:"likes"`
	Dislikes  int    `json:"dislikes"`
}

type TallyHandler struct {
	provider port.TallyProvider
}

func RegisterTally(mux *http.ServeMux, provider port.TallyProvider) {
	h := TallyHandler{provider}
	mux.HandleFunc("GET /v1/products/{id}/tally", h.GetTally)
}

// GetTally serves the counters materialized from the reaction
// stream, which may lag the catalog itself.
func (h TallyHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	const op = "TallyHandler.GetTally"
	log := slog.With("op", op)

	id := r.PathValue("id")
	c, ok, err := h.provider.Tally(id)
	if err != nil {
		http.Error(w, "failed to read tally", http.StatusInternalServerError)
		log.Error("failed to read tally", "err", err)
		return
	}
	if !ok {
		http.Error(w, "no tally for product", http.StatusNotFound)
		return
	}

	writeJSON(w, log, TallyResponse{
		ProductID: id,
		Likes:     c.Likes,
		Dislikes:  c.Dislikes,
	})
}
