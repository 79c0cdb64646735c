// Package reports keeps the reports panel: a REST client for the reports API
// and a client-side cache grouped by role.
package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/logger"
)

type client struct {
	baseURL string
	hc      *http.Client
}

func NewClient(baseURL string) *client {
	return &client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{},
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Reports []domain.Report `json:"reports,omitempty"`
	Report  *domain.Report  `json:"report,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func (c *client) List(ctx context.Context) ([]domain.Report, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/reports", nil)
	if err != nil {
		return nil, err
	}
	return env.Reports, nil
}

func (c *client) Create(ctx context.Context, role string) (domain.Report, error) {
	body, err := json.Marshal(map[string]string{"role": role})
	if err != nil {
		return domain.Report{}, fmt.Errorf("encoding request: %v", err)
	}

	env, err := c.call(ctx, http.MethodPost, "/api/reports", body)
	if err != nil {
		return domain.Report{}, err
	}
	if env.Report == nil {
		return domain.Report{}, fmt.Errorf("create response carries no report")
	}
	return *env.Report, nil
}

func (c *client) Get(ctx context.Context, id string) (domain.Report, error) {
	env, err := c.call(ctx, http.MethodGet, "/api/reports/"+id, nil)
	if err != nil {
		return domain.Report{}, err
	}
	if env.Report == nil {
		return domain.Report{}, domain.ErrReportNotFound
	}
	return *env.Report, nil
}

func (c *client) Delete(ctx context.Context, id string) error {
	_, err := c.call(ctx, http.MethodDelete, "/api/reports/"+id, nil)
	return err
}

func (c *client) call(ctx context.Context, method, path string, body []byte) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %v", err)
	}
	defer func(body io.ReadCloser) {
		if closeErr := body.Close(); closeErr != nil {
			slog.Error("closing body", logger.Err(closeErr))
		}
	}(resp.Body)

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decoding response: %v", err)
	}

	if !env.Success {
		if env.Error != "" {
			return nil, fmt.Errorf("reports api: %s", env.Error)
		}
		return nil, fmt.Errorf("reports api failed with status %d", resp.StatusCode)
	}
	return &env, nil
}
