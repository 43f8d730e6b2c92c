package setting

import (
	"context"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

type ServiceAPI interface {
	Get(ctx context.Context) (Settings, error)
	Update(ctx context.Context, dto SettingsDTO) (Settings, error)
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

func (h *Handler) Routes(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/", h.GetSettings)
	r.With(admin).Put("/", h.UpdateSettings)
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.Get(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if !h.DecodeJSON(w, r, &dto) {
		return
	}

	settings, err := h.Service.Update(r.Context(), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, settings)
}
