package chart

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"market-events-bot/internal/domain/stock"
)

type fakeQuoteProvider struct {
	fundamentals []stock.Fundamental
	trades       []stock.InsiderTrade
	err          error
	lastTicker   string
}

func (f *fakeQuoteProvider) ChartURL(_ context.Context, ticker string, tf stock.Timeframe) (string, error) {
	f.lastTicker = ticker
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://example.com/chart?t=%s&p=%s", ticker, tf), nil
}

func (f *fakeQuoteProvider) Fundamentals(_ context.Context, ticker string) ([]stock.Fundamental, error) {
	f.lastTicker = ticker
	return f.fundamentals, f.err
}

func (f *fakeQuoteProvider) InsiderTrades(_ context.Context, ticker string) ([]stock.InsiderTrade, error) {
	f.lastTicker = ticker
	return f.trades, f.err
}

func TestService_Chart(t *testing.T) {
	provider := &fakeQuoteProvider{}
	svc := NewService(provider)

	res, err := svc.Chart(context.Background(), " aapl ", stock.TimeframeDaily)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ticker != "AAPL" {
		t.Errorf("ticker = %q, want normalized AAPL", res.Ticker)
	}
	if provider.lastTicker != "AAPL" {
		t.Errorf("provider received %q", provider.lastTicker)
	}
	if res.URL == "" || res.Timeframe != stock.TimeframeDaily {
		t.Errorf("unexpected result: %+v", res)
	}

	if _, err := svc.Chart(context.Background(), "", stock.TimeframeDaily); err == nil {
		t.Error("empty ticker must error")
	}
}

func TestService_InsiderCapsRows(t *testing.T) {
	provider := &fakeQuoteProvider{}
	for i := 0; i < 12; i++ {
		provider.trades = append(provider.trades, stock.InsiderTrade{Owner: fmt.Sprintf("owner-%d", i)})
	}
	svc := NewService(provider)

	trades, err := svc.Insider(context.Background(), "msft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(trades) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(trades))
	}
	if trades[0].Owner != "owner-0" {
		t.Errorf("rows must keep provider order, got %q first", trades[0].Owner)
	}
}

func TestService_ProviderErrorPropagates(t *testing.T) {
	provider := &fakeQuoteProvider{err: errors.New("scrape failed")}
	svc := NewService(provider)

	if _, err := svc.Fundamentals(context.Background(), "aapl"); err == nil {
		t.Error("expected fundamentals error")
	}
	if _, err := svc.Insider(context.Background(), "aapl"); err == nil {
		t.Error("expected insider error")
	}
}

func TestParseTimeframe(t *testing.T) {
	cases := []struct {
		letter   string
		want     stock.Timeframe
		intraday bool
		ok       bool
	}{
		{"d", stock.TimeframeDaily, false, true},
		{"w", stock.TimeframeWeekly, false, true},
		{"m", stock.TimeframeMonthly, false, true},
		{"3", "", true, false},
		{"5", "", true, false},
		{"15", "", true, false},
		{"x", "", false, false},
		{"", "", false, false},
	}
	for _, tc := range cases {
		tf, intraday, ok := stock.ParseTimeframe(tc.letter)
		if tf != tc.want || intraday != tc.intraday || ok != tc.ok {
			t.Errorf("ParseTimeframe(%q) = (%q,%v,%v), want (%q,%v,%v)",
				tc.letter, tf, intraday, ok, tc.want, tc.intraday, tc.ok)
		}
	}
}
