// Package inventory models the resource page: cards grouped into provider
// sections, their expand/collapse state, and per-card usage charts.
package inventory

import (
	"fmt"
	"sync"

	"github.com/infrazen/console/pkg/domain"
)

type Inventory struct {
	mu       sync.RWMutex
	sections []domain.ProviderSection
	charts   map[string]*Chart
}

// New groups cards into provider sections, collapsed, in first-seen provider
// order.
func New(cards []domain.ResourceCard) *Inventory {
	inv := &Inventory{charts: make(map[string]*Chart)}

	index := make(map[string]int)
	for _, card := range cards {
		i, ok := index[card.Provider]
		if !ok {
			i = len(inv.sections)
			index[card.Provider] = i
			inv.sections = append(inv.sections, domain.ProviderSection{Provider: card.Provider})
		}
		inv.sections[i].Cards = append(inv.sections[i].Cards, card)
	}
	return inv
}

func (inv *Inventory) Sections() []domain.ProviderSection {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]domain.ProviderSection, len(inv.sections))
	copy(out, inv.sections)
	return out
}

// Toggle flips a provider section's detail panel and chevron.
func (inv *Inventory) Toggle(provider string) (domain.ProviderSection, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i := range inv.sections {
		if inv.sections[i].Provider != provider {
			continue
		}
		inv.sections[i].Expanded = !inv.sections[i].Expanded
		if inv.sections[i].Expanded {
			inv.sections[i].ChevronDegree = 180
		} else {
			inv.sections[i].ChevronDegree = 0
		}
		return inv.sections[i], nil
	}
	return domain.ProviderSection{}, fmt.Errorf("unknown provider section %q", provider)
}

// Chart returns the usage chart for a card, building it at most once.
func (inv *Inventory) Chart(cardID string) (*Chart, error) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if chart, ok := inv.charts[cardID]; ok {
		return chart, nil
	}

	for _, section := range inv.sections {
		for _, card := range section.Cards {
			if card.ID != cardID {
				continue
			}
			chart := buildChart(card)
			inv.charts[cardID] = chart
			return chart, nil
		}
	}
	return nil, fmt.Errorf("unknown resource card %q", cardID)
}
