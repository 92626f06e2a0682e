package events

import (
	"context"
	"log"
	"sync"
	"time"

	"market-events-bot/internal/domain/econcal"
	"market-events-bot/internal/infrastructure/metrics"
)

// EventSource 提供通知掃描需要的快取與訂閱視圖。
type EventSource interface {
	Events() []econcal.Event
	Destinations() []string
	MarkDelivered(key econcal.ReleaseKey, destination string) bool
}

// Messenger 將公布提醒送往單一目的頻道。
type Messenger interface {
	SendEventAlert(ctx context.Context, destination string, ev econcal.Event) error
}

// Notifier 在每次掃描時找出進入提醒窗口的事件並對訂閱頻道發送通知。
// 同一 (系列, 公布時間, 頻道) 組合至多送出一次；個別頻道送失敗
// 不影響其他頻道，也不在同一輪重試。
type Notifier struct {
	source      EventSource
	messenger   Messenger
	leadMin     time.Duration
	leadMax     time.Duration
	sendTimeout time.Duration
	now         func() time.Time
}

// NewNotifier 建立掃描器。窗口為公布前 [leadMin, leadMax] 的閉區間。
func NewNotifier(source EventSource, messenger Messenger, leadMin, leadMax time.Duration) *Notifier {
	if leadMin <= 0 {
		leadMin = 14 * time.Minute
	}
	if leadMax <= leadMin {
		leadMax = leadMin + time.Minute
	}
	return &Notifier{
		source:      source,
		messenger:   messenger,
		leadMin:     leadMin,
		leadMax:     leadMax,
		sendTimeout: 10 * time.Second,
		now:         time.Now,
	}
}

// Check 執行一輪掃描。回傳本輪實際嘗試送出的筆數，掃描本身不會失敗。
func (n *Notifier) Check(ctx context.Context) int {
	now := n.now()
	events := n.source.Events()
	destinations := n.source.Destinations()
	if len(events) == 0 || len(destinations) == 0 {
		return 0
	}

	dispatched := 0
	var wg sync.WaitGroup
	for _, ev := range events {
		until := ev.ReleaseTime.Sub(now)
		if until < n.leadMin || until > n.leadMax {
			continue
		}
		for _, dest := range destinations {
			// 先標記再送出：寧可漏送也不重複吵頻道
			if !n.source.MarkDelivered(ev.Key(), dest) {
				continue
			}
			dispatched++
			wg.Add(1)
			go func(dest string, ev econcal.Event) {
				defer wg.Done()
				sendCtx, cancel := context.WithTimeout(ctx, n.sendTimeout)
				defer cancel()
				if err := n.messenger.SendEventAlert(sendCtx, dest, ev); err != nil {
					log.Printf("[Notifier] deliver %s to %s failed: %v", ev.SeriesID, dest, err)
					metrics.NotificationFailures.Inc()
					return
				}
				metrics.NotificationsSent.Inc()
			}(dest, ev)
		}
	}
	wg.Wait()
	return dispatched
}
