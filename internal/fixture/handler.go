package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
)

// DefaultPageSize applies when _page is given without _limit.
const DefaultPageSize = 10

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func intParam(r *http.Request, name string) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, true, fmt.Errorf("invalid %s", name)
	}
	return v, true, nil
}

type Handler struct {
	Store *Store
}

func (h Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", h.products)
	mux.HandleFunc("GET /products/{id}", h.productById)
	return mux
}

func (h Handler) products(w http.ResponseWriter, r *http.Request) {
	page, hasPage, err := intParam(r, "_page")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, hasLimit, err := intParam(r, "_limit")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if hasPage && !hasLimit {
		limit = DefaultPageSize
	}

	products, err := h.Store.List(r.Context(), page, limit)
	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not list products")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h Handler) productById(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	p, err := h.Store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
		writeError(w, http.StatusInternalServerError, "could not read product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
