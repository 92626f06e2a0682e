package memory

import (
	"sync"
	"testing"
	"time"

	"market-events-bot/internal/domain/econcal"
)

func eventAt(seriesID string, release time.Time) econcal.Event {
	return econcal.Event{SeriesID: seriesID, Title: seriesID + " Release", Impact: econcal.ImpactHigh, ReleaseTime: release}
}

func TestStore_ReplaceEventsSnapshot(t *testing.T) {
	s := NewStore()
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)

	first := []econcal.Event{eventAt("GDP", release), eventAt("UNRATE", release)}
	s.ReplaceEvents(first)

	snapshot := s.Events()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 events, got %d", len(snapshot))
	}

	// 舊快照不受後續取代影響
	s.ReplaceEvents([]econcal.Event{eventAt("CPIAUCSL", release)})
	if len(snapshot) != 2 || snapshot[0].SeriesID != "GDP" {
		t.Fatalf("previously returned snapshot mutated by replacement")
	}
	if got := s.EventCount(); got != 1 {
		t.Fatalf("expected 1 event after replacement, got %d", got)
	}

	// 呼叫端改原始輸入也不影響快取
	first[0].SeriesID = "MUTATED"
	if s.Events()[0].SeriesID == "MUTATED" {
		t.Fatalf("cache aliases caller slice")
	}
}

func TestStore_Destinations(t *testing.T) {
	s := NewStore()
	s.AddDestination("chan-b")
	s.AddDestination("chan-a")
	s.AddDestination("chan-a")

	got := s.Destinations()
	if len(got) != 2 || got[0] != "chan-a" || got[1] != "chan-b" {
		t.Fatalf("unexpected destinations: %v", got)
	}

	// 移除不存在的頻道是 no-op
	s.RemoveDestination("chan-x")
	if len(s.Destinations()) != 2 {
		t.Fatalf("removing unknown destination must not change the set")
	}

	s.RemoveDestination("chan-a")
	got = s.Destinations()
	if len(got) != 1 || got[0] != "chan-b" {
		t.Fatalf("unexpected destinations after remove: %v", got)
	}
}

func TestStore_MarkDelivered(t *testing.T) {
	s := NewStore()
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	ev := eventAt("UNRATE", release)
	s.ReplaceEvents([]econcal.Event{ev})

	if !s.MarkDelivered(ev.Key(), "chan-1") {
		t.Fatalf("first mark must report newly delivered")
	}
	if s.MarkDelivered(ev.Key(), "chan-1") {
		t.Fatalf("second mark for same pair must be suppressed")
	}
	if !s.MarkDelivered(ev.Key(), "chan-2") {
		t.Fatalf("other destination must be independent")
	}
	if !s.Delivered(ev.Key(), "chan-1") {
		t.Fatalf("delivered lookup mismatch")
	}
}

func TestStore_DeliveredSurvivesUnchangedRefetch(t *testing.T) {
	s := NewStore()
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)
	ev := eventAt("UNRATE", release)

	s.ReplaceEvents([]econcal.Event{ev})
	s.MarkDelivered(ev.Key(), "chan-1")

	// 重抓後 anchor 沒變：不得重新觸發
	s.ReplaceEvents([]econcal.Event{eventAt("UNRATE", release)})
	if s.MarkDelivered(ev.Key(), "chan-1") {
		t.Fatalf("unchanged anchor after refetch must stay delivered")
	}

	// anchor 變了：視為新事件
	moved := eventAt("UNRATE", release.Add(24*time.Hour))
	s.ReplaceEvents([]econcal.Event{moved})
	if !s.MarkDelivered(moved.Key(), "chan-1") {
		t.Fatalf("new anchor must be deliverable again")
	}
	if s.Delivered(ev.Key(), "chan-1") {
		t.Fatalf("stale delivered key must be pruned on replacement")
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	release := time.Date(2026, 9, 1, 12, 30, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.ReplaceEvents([]econcal.Event{eventAt("GDP", release)})
				s.AddDestination("chan-1")
				s.Events()
				s.Destinations()
				s.MarkDelivered(econcal.ReleaseKey{SeriesID: "GDP", ReleaseUnix: release.Unix()}, "chan-1")
				s.RemoveDestination("chan-1")
			}
		}()
	}
	wg.Wait()

	for _, ev := range s.Events() {
		if ev.SeriesID != "GDP" {
			t.Fatalf("scan observed mixed snapshot: %+v", ev)
		}
	}
}
