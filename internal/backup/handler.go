package backup

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/haingladys/jsdc-accounting/internal/transport"
)

// backups can be much larger than ordinary request bodies
const maxBackupBytes = 64 << 20

type ServiceAPI interface {
	Export(ctx context.Context) (*Document, error)
	Import(ctx context.Context, doc *Document) error
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
	r.Use(admin)
	r.Get("/", h.ExportBackup)
	r.Post("/", h.ImportBackup)
}

func (h *Handler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Export(r.Context())
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		h.Logger.Error("failed to encode backup", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to encode backup")
		return
	}

	filename := fmt.Sprintf("jsdc-backup-%s.json", time.Now().Format("2006-01-02"))
	h.WriteAttachment(w, "application/json", filename, buf.Bytes())
}

func (h *Handler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	doc, err := Decode(http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.Import(r.Context(), doc); err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"version":     doc.Version,
		"exported_at": doc.ExportedAt,
	})
}
