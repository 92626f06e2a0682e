package chart

import (
	"context"
	"fmt"
	"strings"

	"market-events-bot/internal/domain/stock"
)

// QuoteProvider 定義圖表與個股查詢需要的資料源介面。
type QuoteProvider interface {
	ChartURL(ctx context.Context, ticker string, tf stock.Timeframe) (string, error)
	Fundamentals(ctx context.Context, ticker string) ([]stock.Fundamental, error)
	InsiderTrades(ctx context.Context, ticker string) ([]stock.InsiderTrade, error)
}

const maxInsiderRows = 5

// Service 提供圖表、基本面與內部人交易三種個股查詢。
type Service struct {
	provider QuoteProvider
}

// NewService 建立個股查詢服務。
func NewService(provider QuoteProvider) *Service {
	return &Service{provider: provider}
}

// ChartResult 為單張圖表查詢結果。
type ChartResult struct {
	Ticker    string
	Timeframe stock.Timeframe
	URL       string
}

// Chart 取得指定週期的圖表網址。
func (s *Service) Chart(ctx context.Context, ticker string, tf stock.Timeframe) (ChartResult, error) {
	t := normalizeTicker(ticker)
	if t == "" {
		return ChartResult{}, fmt.Errorf("ticker required")
	}
	url, err := s.provider.ChartURL(ctx, t, tf)
	if err != nil {
		return ChartResult{}, err
	}
	return ChartResult{Ticker: t, Timeframe: tf, URL: url}, nil
}

// Fundamentals 取得個股基本面鍵值表。
func (s *Service) Fundamentals(ctx context.Context, ticker string) ([]stock.Fundamental, error) {
	t := normalizeTicker(ticker)
	if t == "" {
		return nil, fmt.Errorf("ticker required")
	}
	return s.provider.Fundamentals(ctx, t)
}

// Insider 取得個股最近的內部人交易，最多回傳五筆。
func (s *Service) Insider(ctx context.Context, ticker string) ([]stock.InsiderTrade, error) {
	t := normalizeTicker(ticker)
	if t == "" {
		return nil, fmt.Errorf("ticker required")
	}
	trades, err := s.provider.InsiderTrades(ctx, t)
	if err != nil {
		return nil, err
	}
	if len(trades) > maxInsiderRows {
		trades = trades[:maxInsiderRows]
	}
	return trades, nil
}

func normalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
