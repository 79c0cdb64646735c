package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/logger"
)

const telegramSessionPrefix = "tg-"

type Authenticator interface {
	IsAuthorized(userID int64) bool
}

type TelegramClient interface {
	GetUpdates() tgbotapi.UpdatesChannel
	SendText(chatID int64, text string) error
	StartTyping(chatID int64)
}

type Transport interface {
	Send(ctx context.Context, sessionID, text string) error
}

type telegramListener struct {
	client        TelegramClient
	authenticator Authenticator
	transport     Transport
	responseCh    <-chan domain.Response
	wg            sync.WaitGroup
}

// NewTelegramListener routes bot messages through the assistant transport and
// relays the replies back to the originating chat.
func NewTelegramListener(
	client TelegramClient,
	authenticator Authenticator,
	transport Transport,
	responseCh <-chan domain.Response,
) *telegramListener {
	return &telegramListener{
		client:        client,
		authenticator: authenticator,
		transport:     transport,
		responseCh:    responseCh,
	}
}

func (t *telegramListener) Name() string { return "telegram_listener" }

func (t *telegramListener) Start(ctx context.Context) error {
	slog.Info("Starting worker", "name", t.Name())
	defer slog.Info("Worker stopped", "name", t.Name())

	updates := t.client.GetUpdates()

	for {
		select {
		case <-ctx.Done():
			t.wg.Wait()
			return nil
		case update := <-updates:
			t.wg.Add(1)
			go func(update tgbotapi.Update) {
				defer t.wg.Done()
				t.processUpdate(ctx, &update)
			}(update)
		case response := <-t.responseCh:
			t.deliver(response)
		}
	}
}

func (t *telegramListener) processUpdate(ctx context.Context, update *tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}
	ctx = logger.ContextWithRequestID(ctx, int64(update.UpdateID))

	chatID, userID := update.Message.Chat.ID, update.Message.From.ID
	slog.InfoContext(ctx, "Processing update", "chatID", chatID, "userID", userID)

	if !t.authenticator.IsAuthorized(userID) {
		slog.WarnContext(ctx, "Unauthorized access attempt", "userID", userID)
		return
	}

	t.client.StartTyping(chatID)

	sessionID := telegramSessionPrefix + strconv.FormatInt(chatID, 10)
	if err := t.transport.Send(ctx, sessionID, update.Message.Text); err != nil {
		slog.ErrorContext(ctx, "forwarding message to transport", logger.Err(err))
		if sendErr := t.client.SendText(chatID, domain.AssistantFailureMessage); sendErr != nil {
			slog.ErrorContext(ctx, "sending failure notification", logger.Err(sendErr))
		}
	}
}

func (t *telegramListener) deliver(response domain.Response) {
	chatID, err := chatIDFromSession(response.SessionID)
	if err != nil {
		if response.Status == domain.ConnStatusNone {
			slog.Warn("dropping response without telegram session", "sessionID", response.SessionID)
		}
		return
	}

	text := response.Text
	if response.Err != nil {
		slog.Error("assistant response", "sessionID", response.SessionID, logger.Err(response.Err))
		text = domain.AssistantFailureMessage
	}

	if err := t.client.SendText(chatID, text); err != nil {
		slog.Error("delivering response", "chatID", chatID, logger.Err(err))
	}
}

func chatIDFromSession(sessionID string) (int64, error) {
	raw, ok := strings.CutPrefix(sessionID, telegramSessionPrefix)
	if !ok {
		return 0, fmt.Errorf("session %q is not a telegram session", sessionID)
	}
	return strconv.ParseInt(raw, 10, 64)
}
