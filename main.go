package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v9"

	"github.com/infrazen/console/pkg/agent"
	"github.com/infrazen/console/pkg/api/handler"
	"github.com/infrazen/console/pkg/auth"
	"github.com/infrazen/console/pkg/chat"
	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/inventory"
	"github.com/infrazen/console/pkg/logger"
	"github.com/infrazen/console/pkg/reports"
	"github.com/infrazen/console/pkg/telegram"
	"github.com/infrazen/console/pkg/transport"
	"github.com/infrazen/console/pkg/workers"
)

type Config struct {
	HTTPAddr               string        `env:"HTTP_ADDR" envDefault:":8080"`
	PageDataPath           string        `env:"PAGE_DATA_PATH"`
	InventoryPath          string        `env:"INVENTORY_PATH"`
	ReportsRefreshInterval time.Duration `env:"REPORTS_REFRESH_INTERVAL" envDefault:"30s"`
	OpenAIToken            string        `env:"OPEN_AI_TOKEN"`
	OpenAIModel            string        `env:"OPEN_AI_MODEL"`
	DigitalOceanToken      string        `env:"DIGITALOCEAN_TOKEN"`
	TelegramBotToken       string        `env:"TELEGRAM_BOT_TOKEN"`
	TelegramAllowedUserIDs []int64       `env:"TELEGRAM_ALLOWED_USER_IDS" envSeparator:" "`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	pageData, err := loadPageData(cfg.PageDataPath)
	if err != nil {
		return nil, fmt.Errorf("loading page data: %w", err)
	}

	var workerGroup workers.Group

	// Widget chat pipeline.
	responseCh := make(chan domain.Response, 16)
	widgetTransport := newTransport(cfg, pageData.RecommendationID, responseCh)
	agentClient := agent.NewClient(pageData.AgentServiceURL)
	session := chat.NewSession("web", widgetTransport, agentClient)
	workerGroup = append(workerGroup, workers.NewChatDispatcher(session, responseCh))

	go func() {
		if err := widgetTransport.Connect(context.Background()); err != nil {
			slog.Error("connecting widget transport", logger.Err(err))
		}
	}()

	// Resource inventory.
	cards, err := loadCards(cfg.InventoryPath)
	if err != nil {
		return nil, fmt.Errorf("loading inventory: %w", err)
	}
	if cfg.DigitalOceanToken != "" {
		source := inventory.NewDropletSource(cfg.DigitalOceanToken)
		fetched, err := source.FetchCards(context.Background())
		if err != nil {
			slog.Error("fetching digitalocean inventory", logger.Err(err))
		} else {
			cards = append(cards, fetched...)
		}
	}
	inv := inventory.New(cards)

	// Reports panel.
	reportsClient := reports.NewClient(pageData.ReportsAPIBase)
	panel := reports.NewPanel(reportsClient, pageData.ReportRoles, pageData.InitialReports)
	workerGroup = append(workerGroup, workers.NewReportsRefresher(panel, cfg.ReportsRefreshInterval))

	// HTTP surface.
	chatHandler := handler.NewChat(session)
	inventoryHandler := handler.NewInventory(inv)
	reportsHandler := handler.NewReports(panel)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat/messages", chatHandler.Messages)
	mux.HandleFunc("/api/chat/attachment", chatHandler.Attachment)
	mux.HandleFunc("/api/inventory/sections", inventoryHandler.Sections)
	mux.HandleFunc("/api/inventory/toggle", inventoryHandler.Toggle)
	mux.HandleFunc("/api/inventory/chart", inventoryHandler.Chart)
	mux.HandleFunc("/api/inventory/export", inventoryHandler.Export)
	mux.HandleFunc("/api/reports/panel", reportsHandler.Panel)
	mux.HandleFunc("/api/reports/create", reportsHandler.Create)
	mux.HandleFunc("/api/reports/delete", reportsHandler.Delete)
	workerGroup = append(workerGroup, workers.NewHTTPServer(cfg.HTTPAddr, mux))

	// Optional Telegram bridge over its own transport instance.
	if cfg.TelegramBotToken != "" {
		telegramClient, err := telegram.NewClient(cfg.TelegramBotToken)
		if err != nil {
			return nil, fmt.Errorf("creating telegram client: %w", err)
		}
		authenticator := auth.NewAuthenticator(cfg.TelegramAllowedUserIDs)

		telegramCh := make(chan domain.Response, 16)
		telegramTransport := newTransport(cfg, pageData.RecommendationID, telegramCh)
		go func() {
			if err := telegramTransport.Connect(context.Background()); err != nil {
				slog.Error("connecting telegram transport", logger.Err(err))
			}
		}()

		workerGroup = append(workerGroup,
			workers.NewTelegramListener(telegramClient, authenticator, telegramTransport, telegramCh))
	}

	return workerGroup, nil
}

func newTransport(cfg Config, recID string, responseCh chan domain.Response) transport.Transport {
	if cfg.OpenAIToken != "" {
		return transport.NewOpenAI(cfg.OpenAIToken, cfg.OpenAIModel, responseCh)
	}
	return transport.NewMock(recID, responseCh)
}

func loadPageData(path string) (domain.PageData, error) {
	pageData := domain.PageData{
		AgentServiceURL:  "http://localhost:8001",
		ReportsAPIBase:   "http://localhost:8002",
		ReportRoles:      []string{"cfo", "cto", "devops"},
		RecommendationID: "REC-001",
	}
	if path == "" {
		return pageData, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.PageData{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, &pageData); err != nil {
		return domain.PageData{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pageData, nil
}

func loadCards(path string) ([]domain.ResourceCard, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var cards []domain.ResourceCard
	if err := json.Unmarshal(raw, &cards); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cards, nil
}
