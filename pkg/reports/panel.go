package reports

import (
	"context"
	"log/slog"
	"sync"

	"github.com/infrazen/console/pkg/domain"
	"github.com/infrazen/console/pkg/logger"
)

type Client interface {
	List(ctx context.Context) ([]domain.Report, error)
	Create(ctx context.Context, role string) (domain.Report, error)
	Delete(ctx context.Context, id string) error
}

// RoleGroup is one rendered group of the panel.
type RoleGroup struct {
	Role    string          `json:"role"`
	Reports []domain.Report `json:"reports"`
}

// Panel caches report records and re-groups them on load, create, delete and
// background refresh. A failed create or delete leaves the cache unchanged.
type Panel struct {
	client Client
	roles  []string

	mu            sync.RWMutex
	reports       []domain.Report
	busy          map[string]bool
	pendingDelete string
}

func NewPanel(client Client, roles []string, initial []domain.Report) *Panel {
	reports := make([]domain.Report, len(initial))
	copy(reports, initial)
	return &Panel{
		client:  client,
		roles:   roles,
		reports: reports,
		busy:    make(map[string]bool),
	}
}

// Refresh replaces the cache with the backend's view. On error the cache is
// kept as is.
func (p *Panel) Refresh(ctx context.Context) error {
	fetched, err := p.client.List(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "refreshing reports", logger.Err(err))
		return err
	}

	p.mu.Lock()
	p.reports = fetched
	p.mu.Unlock()
	return nil
}

// Create requests a new report for the role. The role's trigger stays busy
// for the duration of the request; a concurrent create for the same role is
// ignored.
func (p *Panel) Create(ctx context.Context, role string) error {
	p.mu.Lock()
	if p.busy[role] {
		p.mu.Unlock()
		return nil
	}
	p.busy[role] = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		delete(p.busy, role)
		p.mu.Unlock()
	}()

	report, err := p.client.Create(ctx, role)
	if err != nil {
		slog.ErrorContext(ctx, "creating report", "role", role, logger.Err(err))
		return err
	}

	p.mu.Lock()
	p.reports = append(p.reports, report)
	p.mu.Unlock()
	return nil
}

func (p *Panel) IsBusy(role string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.busy[role]
}

// RequestDelete arms the inline confirmation for one report.
func (p *Panel) RequestDelete(id string) {
	p.mu.Lock()
	p.pendingDelete = id
	p.mu.Unlock()
}

func (p *Panel) CancelDelete() {
	p.mu.Lock()
	p.pendingDelete = ""
	p.mu.Unlock()
}

// ConfirmDelete performs the armed delete and drops exactly one cached entry
// with the matching id.
func (p *Panel) ConfirmDelete(ctx context.Context, id string) error {
	p.mu.Lock()
	if p.pendingDelete != id {
		p.mu.Unlock()
		return domain.ErrDeleteNotConfirmed
	}
	p.pendingDelete = ""
	p.mu.Unlock()

	if err := p.client.Delete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "deleting report", "id", id, logger.Err(err))
		return err
	}

	p.mu.Lock()
	for i, r := range p.reports {
		if r.ID == id {
			p.reports = append(p.reports[:i], p.reports[i+1:]...)
			break
		}
	}
	p.mu.Unlock()
	return nil
}

func (p *Panel) Reports() []domain.Report {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.Report, len(p.reports))
	copy(out, p.reports)
	return out
}

// Grouped returns the cache grouped by role, known roles first in configured
// order, unknown roles after in first-seen order.
func (p *Panel) Grouped() []RoleGroup {
	p.mu.RLock()
	defer p.mu.RUnlock()

	index := make(map[string]int, len(p.roles))
	groups := make([]RoleGroup, 0, len(p.roles))
	for _, role := range p.roles {
		index[role] = len(groups)
		groups = append(groups, RoleGroup{Role: role})
	}

	for _, r := range p.reports {
		i, ok := index[r.Role]
		if !ok {
			i = len(groups)
			index[r.Role] = i
			groups = append(groups, RoleGroup{Role: r.Role})
		}
		groups[i].Reports = append(groups[i].Reports, r)
	}
	return groups
}
