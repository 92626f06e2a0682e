package finviz

import (
	"context"
	"fmt"

	"market-events-bot/internal/domain/stock"
)

// QuoteAdapter implements the chart use case's QuoteProvider interface.
type QuoteAdapter struct {
	client *Client
}

func NewQuoteAdapter(client *Client) *QuoteAdapter {
	return &QuoteAdapter{client: client}
}

func (a *QuoteAdapter) ChartURL(_ context.Context, ticker string, tf stock.Timeframe) (string, error) {
	var period string
	switch tf {
	case stock.TimeframeDaily:
		period = "d"
	case stock.TimeframeWeekly:
		period = "w"
	case stock.TimeframeMonthly:
		period = "m"
	default:
		return "", fmt.Errorf("finviz: unsupported timeframe %q", tf)
	}
	return a.client.ChartURL(ticker, period), nil
}

func (a *QuoteAdapter) Fundamentals(ctx context.Context, ticker string) ([]stock.Fundamental, error) {
	doc, err := a.client.FetchQuotePage(ctx, ticker)
	if err != nil {
		return nil, err
	}
	rows := ParseSnapshot(doc)
	if len(rows) == 0 {
		return nil, fmt.Errorf("finviz: no fundamentals for %s", ticker)
	}
	out := make([]stock.Fundamental, 0, len(rows))
	for _, kv := range rows {
		out = append(out, stock.Fundamental{Key: kv.Key, Value: kv.Value})
	}
	return out, nil
}

func (a *QuoteAdapter) InsiderTrades(ctx context.Context, ticker string) ([]stock.InsiderTrade, error) {
	doc, err := a.client.FetchQuotePage(ctx, ticker)
	if err != nil {
		return nil, err
	}
	rows := ParseInsiderTable(doc)
	out := make([]stock.InsiderTrade, 0, len(rows))
	for _, r := range rows {
		out = append(out, stock.InsiderTrade{
			Owner:        r.Owner,
			Relationship: r.Relationship,
			Date:         r.Date,
			Transaction:  r.Transaction,
			Cost:         r.Cost,
			Shares:       r.Shares,
			Value:        r.Value,
		})
	}
	return out, nil
}
