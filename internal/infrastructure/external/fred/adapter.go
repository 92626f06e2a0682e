package fred

import (
	"context"
	"fmt"
	"time"

	"market-events-bot/internal/domain/series"

	"github.com/shopspring/decimal"
)

// ProviderAdapter implements the SeriesProvider interfaces declared by the
// events and query use cases.
type ProviderAdapter struct {
	client *Client
}

func NewProviderAdapter(client *Client) *ProviderAdapter {
	return &ProviderAdapter{client: client}
}

func (a *ProviderAdapter) SeriesInfo(ctx context.Context, seriesID string) (series.Meta, error) {
	info, err := a.client.GetSeriesInfo(ctx, seriesID)
	if err != nil {
		return series.Meta{}, err
	}
	return toMeta(info), nil
}

func (a *ProviderAdapter) RecentObservations(ctx context.Context, seriesID string, start, end time.Time) ([]series.Observation, error) {
	raw, err := a.client.GetObservations(ctx, seriesID, start, end, 0)
	if err != nil {
		return nil, err
	}
	out := make([]series.Observation, 0, len(raw))
	for _, o := range raw {
		obs, err := toObservation(o)
		if err != nil {
			continue
		}
		out = append(out, obs)
	}
	return out, nil
}

func (a *ProviderAdapter) LatestObservation(ctx context.Context, seriesID string) (series.Observation, error) {
	raw, err := a.client.GetLatestObservation(ctx, seriesID)
	if err != nil {
		return series.Observation{}, err
	}
	return toObservation(raw)
}

func (a *ProviderAdapter) Search(ctx context.Context, text string, limit int) ([]series.Meta, error) {
	raw, err := a.client.SearchSeries(ctx, text, limit)
	if err != nil {
		return nil, err
	}
	out := make([]series.Meta, 0, len(raw))
	for _, info := range raw {
		out = append(out, toMeta(info))
	}
	return out, nil
}

func toMeta(info SeriesInfo) series.Meta {
	return series.Meta{
		ID:         info.ID,
		Title:      info.Title,
		Units:      info.Units,
		Frequency:  info.Frequency,
		Popularity: info.Popularity,
	}
}

func toObservation(o Observation) (series.Observation, error) {
	date, err := time.Parse("2006-01-02", o.Date)
	if err != nil {
		return series.Observation{}, fmt.Errorf("fred: parse date %q: %w", o.Date, err)
	}
	value, err := decimal.NewFromString(o.Value)
	if err != nil {
		return series.Observation{}, fmt.Errorf("fred: parse value %q: %w", o.Value, err)
	}
	return series.Observation{Date: date, Value: value}, nil
}
