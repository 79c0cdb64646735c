package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/infrazen/console/pkg/api/response"
	"github.com/infrazen/console/pkg/domain"
)

type ChatSession interface {
	Send(ctx context.Context, text string) error
	Attach(a domain.Attachment) error
	ClearAttachment()
	Clear()
	Rendered() []domain.RenderedMessage
	Typing() bool
	Status() domain.ConnStatus
}

type chat struct {
	session ChatSession
	writer  response.JSONResponseWriter
}

func NewChat(session ChatSession) *chat {
	return &chat{session: session}
}

// Messages handles GET (widget state) and POST (send) on /api/chat/messages,
// and DELETE for an explicit clear.
func (c *chat) Messages(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		c.writer.WriteSuccessResponse(w, map[string]interface{}{
			"messages": c.session.Rendered(),
			"typing":   c.session.Typing(),
			"status":   c.session.Status(),
		})
	case http.MethodPost:
		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			c.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := c.session.Send(r.Context(), req.Text); err != nil {
			c.writer.WriteErrorResponse(w, http.StatusBadGateway, err.Error())
			return
		}
		c.writer.WriteSuccessResponse(w, map[string]interface{}{
			"messages": c.session.Rendered(),
			"typing":   c.session.Typing(),
		})
	case http.MethodDelete:
		c.session.Clear()
		c.writer.WriteSuccessResponse(w, nil)
	default:
		c.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// Attachment stages the multipart file from POST /api/chat/attachment, or
// drops the staged one on DELETE.
func (c *chat) Attachment(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
	case http.MethodDelete:
		c.session.ClearAttachment()
		c.writer.WriteSuccessResponse(w, nil)
		return
	default:
		c.writer.WriteErrorResponse(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	// Parse limit leaves headroom over the attachment ceiling so an oversized
	// file is rejected by validation, not by a truncated read.
	if err := r.ParseMultipartForm(domain.MaxAttachmentSize + 1<<20); err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "file field is missing")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.writer.WriteErrorResponse(w, http.StatusBadRequest, "reading file")
		return
	}

	attachment := domain.Attachment{
		Name: header.Filename,
		MIME: header.Header.Get("Content-Type"),
		Data: data,
	}
	if err := c.session.Attach(attachment); err != nil {
		if errors.Is(err, domain.ErrUnsupportedImageType) || errors.Is(err, domain.ErrAttachmentTooLarge) {
			c.writer.WriteErrorResponse(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		c.writer.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	c.writer.WriteSuccessResponse(w, map[string]string{"name": attachment.Name})
}
