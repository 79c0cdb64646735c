package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/digitalocean/godo"

	"github.com/infrazen/console/pkg/domain"
)

type dropletSource struct {
	api *godo.Client
}

// NewDropletSource lists a DigitalOcean account's droplets as resource cards.
func NewDropletSource(token string) *dropletSource {
	return &dropletSource{
		api: godo.NewFromToken(token),
	}
}

func (s *dropletSource) FetchCards(ctx context.Context) ([]domain.ResourceCard, error) {
	var cards []domain.ResourceCard

	opt := &godo.ListOptions{PerPage: 200}
	for {
		droplets, resp, err := s.api.Droplets.List(ctx, opt)
		if err != nil {
			return nil, fmt.Errorf("listing droplets: %v", err)
		}

		for _, d := range droplets {
			card := domain.ResourceCard{
				ID:       "do-" + strconv.Itoa(d.ID),
				Provider: "DigitalOcean",
				Name:     d.Name,
				Status:   d.Status,
				RAMMB:    d.Memory,
			}
			if d.Region != nil {
				card.Region = d.Region.Slug
			}
			if d.Size != nil {
				card.MonthlyCost = d.Size.PriceMonthly
			}
			cards = append(cards, card)
		}

		if resp.Links == nil || resp.Links.IsLastPage() {
			break
		}
		page, err := resp.Links.CurrentPage()
		if err != nil {
			return nil, fmt.Errorf("reading page link: %v", err)
		}
		opt.Page = page + 1
	}

	return cards, nil
}
