package query

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"market-events-bot/internal/domain/series"
)

// SeriesProvider 定義查詢指令需要的資料源介面。
type SeriesProvider interface {
	SeriesInfo(ctx context.Context, seriesID string) (series.Meta, error)
	LatestObservation(ctx context.Context, seriesID string) (series.Observation, error)
	RecentObservations(ctx context.Context, seriesID string, start, end time.Time) ([]series.Observation, error)
	Search(ctx context.Context, text string, limit int) ([]series.Meta, error)
}

const (
	searchLimit            = 5
	defaultCorrelationDays = 90
	minCorrelationPoints   = 3
)

// Service 提供 getdata / search / correlation 三個即時查詢。
type Service struct {
	provider SeriesProvider
	now      func() time.Time
}

// NewService 建立查詢服務。
func NewService(provider SeriesProvider) *Service {
	return &Service{provider: provider, now: time.Now}
}

// LatestResult 為單一系列的最新觀測查詢結果。
type LatestResult struct {
	Meta        series.Meta
	Observation series.Observation
}

// Latest 查詢系列最新一筆觀測值與中繼資料。
func (s *Service) Latest(ctx context.Context, seriesID string) (LatestResult, error) {
	id := strings.ToUpper(strings.TrimSpace(seriesID))
	if id == "" {
		return LatestResult{}, fmt.Errorf("series id required")
	}
	meta, err := s.provider.SeriesInfo(ctx, id)
	if err != nil {
		return LatestResult{}, err
	}
	obs, err := s.provider.LatestObservation(ctx, id)
	if err != nil {
		return LatestResult{}, err
	}
	return LatestResult{Meta: meta, Observation: obs}, nil
}

// Search 以關鍵字搜尋系列，回傳前五筆。
func (s *Service) Search(ctx context.Context, keywords string) ([]series.Meta, error) {
	text := strings.TrimSpace(keywords)
	if text == "" {
		return nil, fmt.Errorf("search keywords required")
	}
	return s.provider.Search(ctx, text, searchLimit)
}

// CorrelationResult 為兩個系列在指定窗口內的皮爾森相關係數。
type CorrelationResult struct {
	SeriesA     series.Meta
	SeriesB     series.Meta
	Days        int
	Points      int
	Coefficient float64
}

// Correlation 取兩系列過去 days 天內日期對齊的觀測值並計算相關係數。
// days <= 0 時使用預設 90 天。
func (s *Service) Correlation(ctx context.Context, idA, idB string, days int) (CorrelationResult, error) {
	if days <= 0 {
		days = defaultCorrelationDays
	}
	a := strings.ToUpper(strings.TrimSpace(idA))
	b := strings.ToUpper(strings.TrimSpace(idB))
	if a == "" || b == "" {
		return CorrelationResult{}, fmt.Errorf("two series ids required")
	}

	metaA, err := s.provider.SeriesInfo(ctx, a)
	if err != nil {
		return CorrelationResult{}, err
	}
	metaB, err := s.provider.SeriesInfo(ctx, b)
	if err != nil {
		return CorrelationResult{}, err
	}

	end := s.now()
	start := end.AddDate(0, 0, -days)
	obsA, err := s.provider.RecentObservations(ctx, a, start, end)
	if err != nil {
		return CorrelationResult{}, err
	}
	obsB, err := s.provider.RecentObservations(ctx, b, start, end)
	if err != nil {
		return CorrelationResult{}, err
	}

	xs, ys := alignByDate(obsA, obsB)
	if len(xs) < minCorrelationPoints {
		return CorrelationResult{}, fmt.Errorf("not enough overlapping observations (%d) in %d days", len(xs), days)
	}

	coeff, err := pearson(xs, ys)
	if err != nil {
		return CorrelationResult{}, err
	}
	return CorrelationResult{
		SeriesA:     metaA,
		SeriesB:     metaB,
		Days:        days,
		Points:      len(xs),
		Coefficient: coeff,
	}, nil
}

// alignByDate 取兩序列日期相同的觀測值配對。
func alignByDate(a, b []series.Observation) (xs, ys []float64) {
	byDate := make(map[string]series.Observation, len(b))
	for _, o := range b {
		byDate[o.Date.Format("2006-01-02")] = o
	}
	for _, o := range a {
		match, ok := byDate[o.Date.Format("2006-01-02")]
		if !ok {
			continue
		}
		xs = append(xs, o.Value.InexactFloat64())
		ys = append(ys, match.Value.InexactFloat64())
	}
	return xs, ys
}

func pearson(xs, ys []float64) (float64, error) {
	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0, fmt.Errorf("series has zero variance over the window")
	}
	return cov / math.Sqrt(varX*varY), nil
}
