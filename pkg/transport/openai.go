package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/infrazen/console/pkg/domain"
)

const assistantSystemPrompt = "Ты — ассистент FinOps-платформы InfraZen. " +
	"Отвечай кратко и по делу: облачные расходы, рекомендации по экономии, отчёты."

type openAITransport struct {
	api        *openai.Client
	model      string
	responseCh chan<- domain.Response

	mu        sync.Mutex
	connected bool
	history   map[string][]openai.ChatCompletionMessage
}

// NewOpenAI returns a transport backed by the OpenAI chat completions API.
func NewOpenAI(token, model string, responseCh chan<- domain.Response) *openAITransport {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &openAITransport{
		api:        openai.NewClient(token),
		model:      model,
		responseCh: responseCh,
		history:    make(map[string][]openai.ChatCompletionMessage),
	}
}

func (o *openAITransport) Connect(_ context.Context) error {
	o.mu.Lock()
	o.connected = true
	o.mu.Unlock()

	o.responseCh <- domain.Response{Status: domain.ConnStatusConnected}
	return nil
}

func (o *openAITransport) Send(ctx context.Context, sessionID, text string) error {
	o.mu.Lock()
	if !o.connected {
		o.mu.Unlock()
		return nil
	}
	messages := append([]openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: assistantSystemPrompt},
	}, o.history[sessionID]...)
	o.mu.Unlock()

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})

	go func() {
		resp, err := o.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    o.model,
			Messages: messages,
		})
		if err != nil {
			o.responseCh <- domain.Response{SessionID: sessionID, Err: fmt.Errorf("creating completion: %w", err)}
			return
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			o.responseCh <- domain.Response{SessionID: sessionID, Err: fmt.Errorf("no completion response")}
			return
		}
		reply := resp.Choices[0].Message.Content

		o.mu.Lock()
		o.history[sessionID] = append(o.history[sessionID],
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text},
			openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
		)
		o.mu.Unlock()

		o.responseCh <- domain.Response{SessionID: sessionID, Text: reply}
	}()
	return nil
}

func (o *openAITransport) Close() {
	o.mu.Lock()
	o.connected = false
	o.history = make(map[string][]openai.ChatCompletionMessage)
	o.mu.Unlock()
}
