package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/smartdeal/storefront/internal/core/port"
	"github.com/smartdeal/storefront/internal/core/service"
)

// POST v1/products JSON payload (200 OK, 400, 403)
// PUT v1/products/{id} JSON payload (200 OK, 400, 403, 404)
// DELETE v1/products/{id} (200 OK, 403, 404)
//
// Responses carry "stored": false when the durable write failed and
// only the served collection was updated.

type AdminHandler struct {
	editor      port.CatalogEditor
	placeholder string
}

func RegisterAdmin(
	mux *http.ServeMux,
	editor port.CatalogEditor,
	secret string,
	placeholder string,
) {
	h := AdminHandler{editor, placeholder}
	gate := func(next http.HandlerFunc) http.Handler {
		return RequireAdminSecret(secret, next)
	}
	mux.Handle("POST /v1/products", gate(h.PostProduct))
	mux.Handle("PUT /v1/products/{id}", gate(h.PutProduct))
	mux.Handle("DELETE /v1/products/{id}", gate(h.DeleteProduct))
}

func (h AdminHandler) PostProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "")
}

func (h AdminHandler) PutProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, r.PathValue("id"))
}

func (h AdminHandler) saveProduct(
	w http.ResponseWriter, r *http.Request, id string,
) {
	const op = "AdminHandler.saveProduct"
	log := slog.With("op", op)

	var payload ProductPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	ps, err := h.editor.SaveProduct(r.Context(), payload.toDomain(id))
	stored := true
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreDiverged):
			stored = false
			log.Warn("serving unstored collection", "err", err)
		case errors.Is(err, service.ErrInvalidProduct):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
			return
		default:
			http.Error(w, "failed to save product", http.StatusInternalServerError)
			log.Error("failed to save", "err", err)
			return
		}
	}

	writeJSON(w, log, SaveResponse{
		Products: fromDomainList(ps, h.placeholder),
		Stored:   stored,
	})
}

func (h AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	const op = "AdminHandler.DeleteProduct"
	log := slog.With("op", op)

	ps, err := h.editor.DeleteProduct(r.Context(), r.PathValue("id"))
	stored := true
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreDiverged):
			stored = false
			log.Warn("serving unstored collection", "err", err)
		case errors.Is(err, service.ErrNotFound):
			http.Error(w, "product not found", http.StatusNotFound)
			return
		default:
			http.Error(w, "failed to delete product", http.StatusInternalServerError)
			log.Error("failed to delete", "err", err)
			return
		}
	}

	writeJSON(w, log, SaveResponse{
		Products: fromDomainList(ps, h.placeholder),
		Stored:   stored,
	})
}
