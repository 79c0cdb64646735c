package workers

import (
	"context"
	"log/slog"

	"github.com/infrazen/console/pkg/domain"
)

type Session interface {
	HandleResponse(r domain.Response)
}

type chatDispatcher struct {
	session    Session
	responseCh <-chan domain.Response
}

// NewChatDispatcher pumps transport events into the widget session.
func NewChatDispatcher(session Session, responseCh <-chan domain.Response) *chatDispatcher {
	return &chatDispatcher{
		session:    session,
		responseCh: responseCh,
	}
}

func (c *chatDispatcher) Name() string { return "chat_dispatcher" }

func (c *chatDispatcher) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", c.Name())
	defer slog.Info("Worker stopped", "name", c.Name())

	for {
		select {
		case <-ctx.Done():
			return nil
		case response := <-c.responseCh:
			c.session.HandleResponse(response)
		}
	}
}
