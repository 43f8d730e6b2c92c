package category

import (
	"context"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, kind Kind) ([]string, error)
	Add(ctx context.Context, kind Kind, dto CategoryDTO) ([]string, error)
	Rename(ctx context.Context, kind Kind, oldName string, dto CategoryDTO) ([]string, error)
	Remove(ctx context.Context, kind Kind, name string) ([]string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) kind(w http.ResponseWriter, r *http.Request) (Kind, bool) {
	kind, err := ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.HandleServiceError(w, err)
		return "", false
	}
	return kind, true
}

func (h *Handler) name(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	categories, err := h.Service.List(r.Context(), kind)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Kind: kind, Categories: categories})
}

func (h *Handler) AddCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	var dto CategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	categories, err := h.Service.Add(r.Context(), kind, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, CategoriesResponse{Kind: kind, Categories: categories})
}

func (h *Handler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	var dto CategoryDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	categories, err := h.Service.Rename(r.Context(), kind, h.name(r), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Kind: kind, Categories: categories})
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	categories, err := h.Service.Remove(r.Context(), kind, h.name(r))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, CategoriesResponse{Kind: kind, Categories: categories})
}
