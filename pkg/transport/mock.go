package transport

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/infrazen/console/pkg/domain"
)

type cannedReply struct {
	keyword string
	text    string
}

// cannedReplies is matched top to bottom; the first case-insensitive substring
// hit wins, so insertion order is part of the contract.
var cannedReplies = []cannedReply{
	{"привет", "Здравствуйте! Я ассистент InfraZen. Спросите меня про расходы на облако."},
	{"hello", "Hi! I am the InfraZen assistant. Ask me about your cloud spend."},
	{"сэконом", "По моим данным вы можете сэкономить до **15%** в месяц, если отключите простаивающие ресурсы."},
	{"рекоменд", "Сейчас для вас есть **3 активные рекомендации**. Начните с самой крупной: она покроет большую часть перерасхода."},
	{"расход", "Расходы за текущий месяц растут быстрее обычного.\nПроверьте раздел «Ресурсы» — там видно, какой провайдер даёт прирост."},
	{"отчет", "Отчёт можно сформировать на панели «Отчёты» справа. Генерация занимает около минуты."},
	{"как", "Откройте карточку ресурса и разверните график — там видно динамику потребления по дням."},
	{"help", "I can explain recommendations, spending trends and reports. Try asking about savings."},
}

const defaultReplyTemplate = "Посмотрите рекомендацию %s: в ней есть детали по этому вопросу."

type mock struct {
	responseCh chan<- domain.Response
	recID      string

	connectDelay  time.Duration
	replyDelayMin time.Duration
	replyDelayMax time.Duration
	rng           *rand.Rand

	mu        sync.Mutex
	connected bool
}

// NewMock returns a transport that simulates the assistant backend with
// canned keyword-matched replies and artificial latency. recID is the
// recommendation identifier interpolated into the fallback reply.
func NewMock(recID string, responseCh chan<- domain.Response) *mock {
	return &mock{
		responseCh:    responseCh,
		recID:         recID,
		connectDelay:  500 * time.Millisecond,
		replyDelayMin: 1200 * time.Millisecond,
		replyDelayMax: 2 * time.Second,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (m *mock) Connect(ctx context.Context) error {
	select {
	case <-time.After(m.connectDelay):
	case <-ctx.Done():
		return ctx.Err()
	}

	m.mu.Lock()
	m.connected = true
	m.mu.Unlock()

	m.responseCh <- domain.Response{Status: domain.ConnStatusConnected}
	return nil
}

func (m *mock) Send(ctx context.Context, sessionID, text string) error {
	m.mu.Lock()
	connected := m.connected
	m.mu.Unlock()

	if !connected {
		slog.DebugContext(ctx, "mock transport not connected, dropping message", "sessionID", sessionID)
		return nil
	}

	delay := m.replyDelayMin
	if spread := m.replyDelayMax - m.replyDelayMin; spread > 0 {
		m.mu.Lock()
		delay += time.Duration(m.rng.Int63n(int64(spread)))
		m.mu.Unlock()
	}

	go func() {
		time.Sleep(delay)
		m.responseCh <- domain.Response{SessionID: sessionID, Text: m.replyFor(text)}
	}()
	return nil
}

func (m *mock) replyFor(text string) string {
	lower := strings.ToLower(text)
	for _, r := range cannedReplies {
		if strings.Contains(lower, r.keyword) {
			return r.text
		}
	}
	return fmt.Sprintf(defaultReplyTemplate, m.recID)
}

// SimulateFailure drops the connection, as the widget's debug control does.
func (m *mock) SimulateFailure() {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()

	m.responseCh <- domain.Response{Status: domain.ConnStatusDisconnected}
}

func (m *mock) Reconnect(ctx context.Context) error {
	return m.Connect(ctx)
}

func (m *mock) Close() {
	m.mu.Lock()
	m.connected = false
	m.mu.Unlock()
}
