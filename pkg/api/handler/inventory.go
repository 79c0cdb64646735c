package handler

import (
	"encoding/json"
	"net/http"

	"github.com/infrazen/console/pkg/api/response"
	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/export"
	"github.com/infrazen/console/pkg/inventory"
)

type InventoryProvider interface {
	Sections() []domain.ProviderSection
	Toggle(provider string) (domain.ProviderSection, error)
	Chart(cardID string) (*inventory.Chart, error)
}

type inventoryHandler struct {
	inv    InventoryProvider
	writer response.JSONResponseWriter
}

func NewInventory(inv InventoryProvider) *inventoryHandler {
	return &inventoryHandler{inv: inv}
}

func (h *inventoryHandler) Sections(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	h.writer.WriteSuccessResponse(w, h.inv.Sections())
}

func (h *inventoryHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Provider string `json:"provider"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	section, err := h.inv.Toggle(req.Provider)
	if err != nil {
		h.writer.WriteErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	h.writer.WriteSuccessResponse(w, section)
}

func (h *inventoryHandler) Chart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	cardID := r.URL.Query().Get("card_id")
	if cardID == "" {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "card_id parameter is missing or empty")
		return
	}

	chart, err := h.inv.Chart(cardID)
	if err != nil {
		h.writer.WriteErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	h.writer.WriteSuccessResponse(w, chart)
}

// Export streams the inventory as a workbook, or CSV when requested.
func (h *inventoryHandler) Export(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	format := export.FormatXLSX
	if r.URL.Query().Get("format") == string(export.FormatCSV) {
		format = export.FormatCSV
	}

	file, err := export.Export(h.inv.Sections(), format)
	if err != nil {
		h.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.writer.WriteFileResponse(w, file.Name, file.MIME, file.Data)
}
