package events

import (
	"context"
	"log"
	"sort"
	"time"

	"market-events-bot/internal/domain/econcal"
	"market-events-bot/internal/domain/series"
	"market-events-bot/internal/infrastructure/metrics"
)

// SeriesProvider 定義抓取器需要的資料源介面，具體實作由 infrastructure 提供。
type SeriesProvider interface {
	SeriesInfo(ctx context.Context, seriesID string) (series.Meta, error)
	RecentObservations(ctx context.Context, seriesID string, start, end time.Time) ([]series.Observation, error)
	LatestObservation(ctx context.Context, seriesID string) (series.Observation, error)
}

const (
	releaseHour   = 8
	releaseMinute = 30
	cutoffHour    = 16
	cutoffMinute  = 30
)

// Fetcher 依市場日曆規則計算下一個公布時點，並為每個追蹤指標組出事件紀錄。
//
// 資料源不提供各系列真正的公布時刻表，因此所有事件共用同一個
// 次一營業日 08:30（參考時區）的估計時點。這是沿用的已知簡化。
type Fetcher struct {
	provider    SeriesProvider
	indicators  []econcal.Indicator
	location    *time.Location
	lookback    time.Duration
	callTimeout time.Duration
	now         func() time.Time
}

// NewFetcher 建立抓取器。lookbackDays 為回看觀測值的天數上限。
func NewFetcher(provider SeriesProvider, indicators []econcal.Indicator, loc *time.Location, lookbackDays int, callTimeout time.Duration) *Fetcher {
	if lookbackDays <= 0 {
		lookbackDays = 30
	}
	if callTimeout <= 0 {
		callTimeout = 10 * time.Second
	}
	return &Fetcher{
		provider:    provider,
		indicators:  indicators,
		location:    loc,
		lookback:    time.Duration(lookbackDays) * 24 * time.Hour,
		callTimeout: callTimeout,
		now:         time.Now,
	}
}

// Fetch 回傳依公布時間遞增排序的事件清單。
// 個別指標失敗只跳過該指標；全部失敗時回傳空清單，不回傳錯誤。
func (f *Fetcher) Fetch(ctx context.Context) []econcal.Event {
	anchor := f.nextReleaseAnchor(f.now())
	events := make([]econcal.Event, 0, len(f.indicators))

	for _, ind := range f.indicators {
		previous, err := f.previousValue(ctx, ind.SeriesID)
		if err != nil {
			log.Printf("[Fetcher] skip %s: %v", ind.SeriesID, err)
			metrics.FetchFailures.WithLabelValues(ind.SeriesID).Inc()
			continue
		}
		events = append(events, econcal.Event{
			SeriesID:    ind.SeriesID,
			Title:       ind.Description + " Release",
			Impact:      ind.Impact,
			ReleaseTime: anchor,
			Previous:    previous,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].ReleaseTime.Before(events[j].ReleaseTime)
	})
	return events
}

// nextReleaseAnchor 計算下一個公布時點：
// 參考時區當地時間已過 16:30 則從隔日起算，再逐日後移直到落在
// 未來的平日 08:30 為止（假日與已成過去的同日時點都要跳過）。
func (f *Fetcher) nextReleaseAnchor(now time.Time) time.Time {
	local := now.In(f.location)

	day := local
	cutoff := time.Date(local.Year(), local.Month(), local.Day(), cutoffHour, cutoffMinute, 0, 0, f.location)
	if !local.Before(cutoff) {
		day = day.AddDate(0, 0, 1)
	}

	anchor := time.Date(day.Year(), day.Month(), day.Day(), releaseHour, releaseMinute, 0, 0, f.location)
	for !anchor.After(local) || anchor.Weekday() == time.Saturday || anchor.Weekday() == time.Sunday {
		anchor = anchor.AddDate(0, 0, 1)
	}
	return anchor
}

// previousValue 取得指標最近一筆觀測值並格式化。
// 回看區間內沒有資料時退回「最近單筆」；連退回都沒有資料時以
// 佔位字串呈現而不丟棄事件。任何 provider 錯誤則回傳錯誤由呼叫端跳過。
func (f *Fetcher) previousValue(ctx context.Context, seriesID string) (string, error) {
	infoCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()
	meta, err := f.provider.SeriesInfo(infoCtx, seriesID)
	if err != nil {
		return "", err
	}

	end := f.now()
	start := end.Add(-f.lookback)
	obsCtx, cancelObs := context.WithTimeout(ctx, f.callTimeout)
	defer cancelObs()
	obs, err := f.provider.RecentObservations(obsCtx, seriesID, start, end)
	if err != nil {
		return "", err
	}

	latest, ok := series.Latest(obs)
	if !ok {
		latestCtx, cancelLatest := context.WithTimeout(ctx, f.callTimeout)
		defer cancelLatest()
		latest, err = f.provider.LatestObservation(latestCtx, seriesID)
		if err != nil {
			log.Printf("[Fetcher] %s: no observation available: %v", seriesID, err)
			return econcal.PreviousUnavailable, nil
		}
	}
	return FormatValue(seriesID, meta.Units, latest.Value), nil
}
