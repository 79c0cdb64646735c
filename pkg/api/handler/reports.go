package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/infrazen/console/pkg/api/response"
	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/render"
	"github.com/infrazen/console/pkg/reports"
)

type ReportsPanel interface {
	Grouped() []reports.RoleGroup
	Create(ctx context.Context, role string) error
	RequestDelete(id string)
	CancelDelete()
	ConfirmDelete(ctx context.Context, id string) error
	IsBusy(role string) bool
	Refresh(ctx context.Context) error
}

type reportsHandler struct {
	panel  ReportsPanel
	writer response.JSONResponseWriter
}

func NewReports(panel ReportsPanel) *reportsHandler {
	return &reportsHandler{panel: panel}
}

type reportView struct {
	domain.Report
	ContentHTML string `json:"content_html,omitempty"`
}

type groupView struct {
	Role    string       `json:"role"`
	Busy    bool         `json:"busy"`
	Reports []reportView `json:"reports"`
}

// Panel returns the grouped report list the panel renders from.
func (h *reportsHandler) Panel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	groups := h.panel.Grouped()
	views := make([]groupView, 0, len(groups))
	for _, g := range groups {
		view := groupView{Role: g.Role, Busy: h.panel.IsBusy(g.Role), Reports: []reportView{}}
		for _, rep := range g.Reports {
			view.Reports = append(view.Reports, reportView{
				Report:      rep,
				ContentHTML: render.ReportHTML(rep),
			})
		}
		views = append(views, view)
	}
	h.writer.WriteSuccessResponse(w, views)
}

func (h *reportsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Role == "" {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "role is missing")
		return
	}

	if err := h.panel.Create(r.Context(), req.Role); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadGateway, err.Error())
		return
	}
	h.writer.WriteSuccessResponse(w, h.panel.Grouped())
}

// Delete drives the two-step confirmation: "request" arms it, "confirm"
// performs it, "cancel" disarms it.
func (h *reportsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		ID   string `json:"id"`
		Step string `json:"step"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Step {
	case "request":
		h.panel.RequestDelete(req.ID)
		h.writer.WriteSuccessResponse(w, nil)
	case "cancel":
		h.panel.CancelDelete()
		h.writer.WriteSuccessResponse(w, nil)
	case "confirm":
		if err := h.panel.ConfirmDelete(r.Context(), req.ID); err != nil {
			if errors.Is(err, domain.ErrDeleteNotConfirmed) {
				h.writer.WriteErrorResponse(w, http.StatusConflict, err.Error())
				return
			}
			h.writer.WriteErrorResponse(w, http.StatusBadGateway, err.Error())
			return
		}
		h.writer.WriteSuccessResponse(w, h.panel.Grouped())
	default:
		h.writer.WriteErrorResponse(w, http.StatusBadRequest, "unknown step")
	}
}
