package events

import (
	"context"
	"log"
	"time"

	"market-events-bot/internal/domain/econcal"
	"market-events-bot/internal/infrastructure/metrics"

	"github.com/go-co-op/gocron"
)

// Cache 為工作者寫入抓取結果的快取介面。
type Cache interface {
	ReplaceEvents(events []econcal.Event)
	EventCount() int
}

// Worker 以兩個週期任務驅動排程：長週期重抓事件、短週期掃描通知窗口。
type Worker struct {
	fetcher       *Fetcher
	notifier      *Notifier
	cache         Cache
	fetchInterval time.Duration
	scanInterval  time.Duration
	scheduler     *gocron.Scheduler
}

// NewWorker 建立排程工作者。
func NewWorker(fetcher *Fetcher, notifier *Notifier, cache Cache, fetchInterval, scanInterval time.Duration) *Worker {
	if fetchInterval <= 0 {
		fetchInterval = 24 * time.Hour
	}
	if scanInterval <= 0 {
		scanInterval = time.Minute
	}
	return &Worker{
		fetcher:       fetcher,
		notifier:      notifier,
		cache:         cache,
		fetchInterval: fetchInterval,
		scanInterval:  scanInterval,
	}
}

// Start 啟動兩個週期任務；重抓任務啟動後立即先跑一次。
func (w *Worker) Start() error {
	log.Printf("[Worker] starting scheduler (fetch=%v scan=%v)", w.fetchInterval, w.scanInterval)
	s := gocron.NewScheduler(time.UTC)
	if _, err := s.Every(w.fetchInterval).StartImmediately().Do(w.RefreshOnce); err != nil {
		return err
	}
	if _, err := s.Every(w.scanInterval).Do(w.ScanOnce); err != nil {
		return err
	}
	s.StartAsync()
	w.scheduler = s
	return nil
}

// Stop 停止所有週期任務。
func (w *Worker) Stop() {
	if w.scheduler != nil {
		w.scheduler.Stop()
	}
}

// RefreshOnce 執行一次事件重抓並整批更新快取。
// 抓取全空而快取仍有內容時保留舊快照，避免一次供應端故障清光行事曆。
func (w *Worker) RefreshOnce() {
	events := w.fetcher.Fetch(context.Background())
	metrics.FetchCycles.Inc()

	if len(events) == 0 && w.cache.EventCount() > 0 {
		log.Printf("[Worker] fetch returned no events; keeping previous snapshot (%d events)", w.cache.EventCount())
		return
	}
	w.cache.ReplaceEvents(events)
	metrics.CachedEvents.Set(float64(len(events)))
	log.Printf("[Worker] event cache refreshed (%d events)", len(events))
}

// ScanOnce 執行一輪通知掃描。
func (w *Worker) ScanOnce() {
	if sent := w.notifier.Check(context.Background()); sent > 0 {
		log.Printf("[Worker] dispatched %d release notifications", sent)
	}
}
