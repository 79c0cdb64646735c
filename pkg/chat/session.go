// Package chat owns the assistant conversation state: an append-only message
// log, a single pending attachment, and the send pipeline in front of a
// transport.
package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/logger"
	"github.com/infrazen/console/pkg/render"
)

type Uploader interface {
	UploadImage(ctx context.Context, a domain.Attachment) (string, error)
}

type Sender interface {
	Send(ctx context.Context, sessionID, text string) error
}

type Session struct {
	id       string
	sender   Sender
	uploader Uploader

	mu       sync.RWMutex
	messages []domain.Message
	pending  *domain.Attachment
	typing   bool
	status   domain.ConnStatus
}

func NewSession(id string, sender Sender, uploader Uploader) *Session {
	if id == "" {
		id = uuid.NewString()
	}
	return &Session{
		id:       id,
		sender:   sender,
		uploader: uploader,
	}
}

func (s *Session) ID() string { return s.id }

// Attach stages a file for the next send. It validates before anything else
// happens, so an oversized or non-image file never reaches the uploader. A
// new attachment replaces the previous pending one.
func (s *Session) Attach(a domain.Attachment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.pending = &a
	s.mu.Unlock()
	return nil
}

func (s *Session) PendingAttachment() (domain.Attachment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pending == nil {
		return domain.Attachment{}, false
	}
	return *s.pending, true
}

func (s *Session) ClearAttachment() {
	s.mu.Lock()
	s.pending = nil
	s.mu.Unlock()
}

// Send uploads the pending attachment if any, appends the user message and
// hands the text to the transport. An upload failure surfaces as an inline
// system message and aborts the send, leaving the composed input untouched.
func (s *Session) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)

	s.mu.RLock()
	pending := s.pending
	s.mu.RUnlock()

	if text == "" && pending == nil {
		return nil
	}

	msg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.MessageRoleUser,
		Content:   text,
		Timestamp: time.Now(),
	}

	if pending != nil {
		imageID, err := s.uploader.UploadImage(ctx, *pending)
		if err != nil {
			slog.ErrorContext(ctx, "uploading attachment", "sessionID", s.id, logger.Err(err))
			s.appendSystem(domain.UploadFailedMessage)
			return fmt.Errorf("uploading attachment: %w", err)
		}
		msg.ImageID = imageID
		msg.ImageURL = dataURL(*pending)
		if msg.Content != "" {
			msg.Content += "\n"
		}
		msg.Content += "[image:" + imageID + "]"

		s.mu.Lock()
		s.pending = nil
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.messages = append(s.messages, msg)
	s.typing = true
	s.mu.Unlock()

	if err := s.sender.Send(ctx, s.id, text); err != nil {
		s.mu.Lock()
		s.typing = false
		s.mu.Unlock()
		return fmt.Errorf("sending message: %w", err)
	}
	return nil
}

// HandleResponse consumes one event from the response channel.
func (s *Session) HandleResponse(r domain.Response) {
	if r.Status != domain.ConnStatusNone {
		s.mu.Lock()
		s.status = r.Status
		s.mu.Unlock()
		return
	}

	if r.Err != nil {
		slog.Error("assistant response", "sessionID", s.id, logger.Err(r.Err))
		s.mu.Lock()
		s.typing = false
		s.mu.Unlock()
		s.appendSystem(domain.AssistantFailureMessage)
		return
	}

	s.mu.Lock()
	s.typing = false
	s.messages = append(s.messages, domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.MessageRoleAssistant,
		Content:   r.Text,
		Timestamp: time.Now(),
	})
	s.mu.Unlock()
}

func (s *Session) appendSystem(text string) {
	s.mu.Lock()
	s.messages = append(s.messages, domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.MessageRoleSystem,
		Content:   text,
		Timestamp: time.Now(),
	})
	s.mu.Unlock()
}

func (s *Session) Messages() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Rendered returns the message log as widget-safe HTML.
func (s *Session) Rendered() []domain.RenderedMessage {
	messages := s.Messages()
	out := make([]domain.RenderedMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, domain.RenderedMessage{
			ID:        m.ID,
			Role:      m.Role,
			HTML:      render.MessageHTML(m),
			Timestamp: m.Timestamp,
			ImageURL:  m.ImageURL,
		})
	}
	return out
}

func (s *Session) Typing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.typing
}

func (s *Session) Status() domain.ConnStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Clear discards the conversation and leaves a system notice.
func (s *Session) Clear() {
	s.mu.Lock()
	s.messages = nil
	s.pending = nil
	s.typing = false
	s.mu.Unlock()
	s.appendSystem(domain.SessionClearedMessage)
}

func dataURL(a domain.Attachment) string {
	return "data:" + a.MIME + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}
