package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"market-events-bot/internal/domain/econcal"
	"market-events-bot/internal/infra/memory"
)

type fakeMessenger struct {
	mu      sync.Mutex
	sent    []string // "series@destination"
	failFor map[string]error
}

func (f *fakeMessenger) SendEventAlert(_ context.Context, destination string, ev econcal.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[destination]; err != nil {
		return err
	}
	f.sent = append(f.sent, ev.SeriesID+"@"+destination)
	return nil
}

func (f *fakeMessenger) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func notifierFixture(release time.Time, destinations ...string) (*memory.Store, *fakeMessenger, *Notifier) {
	store := memory.NewStore()
	store.ReplaceEvents([]econcal.Event{{
		SeriesID:    "UNRATE",
		Title:       "Unemployment Rate Release",
		Impact:      econcal.ImpactHigh,
		ReleaseTime: release,
		Previous:    "4.1%",
	}})
	for _, d := range destinations {
		store.AddDestination(d)
	}
	messenger := &fakeMessenger{failFor: map[string]error{}}
	notifier := NewNotifier(store, messenger, 14*time.Minute, 15*time.Minute)
	return store, messenger, notifier
}

func TestNotifier_TriggerWindow(t *testing.T) {
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		until  time.Duration
		expect int
	}{
		{"outside_above", 15*time.Minute + time.Second, 0},
		{"upper_bound", 15 * time.Minute, 1},
		{"inside", 14*time.Minute + 30*time.Second, 1},
		{"lower_bound", 14 * time.Minute, 1},
		{"outside_below", 13*time.Minute + 59*time.Second, 0},
		{"already_released", -time.Minute, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, messenger, notifier := notifierFixture(release, "chan-1")
			notifier.now = func() time.Time { return release.Add(-tc.until) }

			if got := notifier.Check(context.Background()); got != tc.expect {
				t.Errorf("dispatched = %d, want %d", got, tc.expect)
			}
			if messenger.sentCount() != tc.expect {
				t.Errorf("sent = %d, want %d", messenger.sentCount(), tc.expect)
			}
		})
	}
}

func TestNotifier_IdempotentAcrossScans(t *testing.T) {
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	_, messenger, notifier := notifierFixture(release, "chan-1")
	now := release.Add(-14*time.Minute - 30*time.Second)
	notifier.now = func() time.Time { return now }

	// 窗口內連掃三次只能送一次
	for i := 0; i < 3; i++ {
		notifier.Check(context.Background())
	}
	if messenger.sentCount() != 1 {
		t.Fatalf("expected exactly 1 delivery, got %d", messenger.sentCount())
	}
}

func TestNotifier_WindowEntryNotified(t *testing.T) {
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	_, messenger, notifier := notifierFixture(release, "chan-1")

	// 前一刻還在窗口外，下一刻進入窗口
	notifier.now = func() time.Time { return release.Add(-16 * time.Minute) }
	if notifier.Check(context.Background()) != 0 {
		t.Fatalf("scan outside window must not dispatch")
	}
	notifier.now = func() time.Time { return release.Add(-15 * time.Minute) }
	if notifier.Check(context.Background()) != 1 {
		t.Fatalf("first in-window scan must dispatch")
	}
	if messenger.sentCount() != 1 {
		t.Fatalf("expected 1 delivery, got %d", messenger.sentCount())
	}
}

func TestNotifier_PerDestinationIsolation(t *testing.T) {
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	store, messenger, notifier := notifierFixture(release, "chan-bad", "chan-good")
	messenger.failFor["chan-bad"] = errors.New("send failed")
	notifier.now = func() time.Time { return release.Add(-14*time.Minute - 30*time.Second) }

	notifier.Check(context.Background())

	if messenger.sentCount() != 1 || messenger.sent[0] != "UNRATE@chan-good" {
		t.Fatalf("expected delivery to healthy destination only, got %v", messenger.sent)
	}

	// 失敗的頻道已標記送出，同窗口內不得重試
	if notifier.Check(context.Background()) != 0 {
		t.Fatalf("failed destination must not be retried within the window")
	}
	key := econcal.ReleaseKey{SeriesID: "UNRATE", ReleaseUnix: release.Unix()}
	if !store.Delivered(key, "chan-bad") {
		t.Fatalf("failed destination must stay marked")
	}
}

func TestNotifier_NoDestinations(t *testing.T) {
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	_, messenger, notifier := notifierFixture(release)
	notifier.now = func() time.Time { return release.Add(-14*time.Minute - 30*time.Second) }

	if got := notifier.Check(context.Background()); got != 0 {
		t.Fatalf("no destinations, expected 0 dispatched, got %d", got)
	}
	if messenger.sentCount() != 0 {
		t.Fatalf("unexpected deliveries: %v", messenger.sent)
	}
}

func TestNotifier_FanOutAllDestinations(t *testing.T) {
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	_, messenger, notifier := notifierFixture(release, "chan-1", "chan-2", "chan-3")
	notifier.now = func() time.Time { return release.Add(-14*time.Minute - 30*time.Second) }

	if got := notifier.Check(context.Background()); got != 3 {
		t.Fatalf("expected 3 dispatches, got %d", got)
	}
	if messenger.sentCount() != 3 {
		t.Fatalf("expected 3 deliveries, got %d", messenger.sentCount())
	}
}
