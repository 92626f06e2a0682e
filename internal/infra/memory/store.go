package memory

import (
	"sort"
	"sync"

	"market-events-bot/internal/domain/econcal"
)

// Store 為行程內的事件快取與訂閱狀態，所有資料僅存在記憶體，重啟即清空。
type Store struct {
	mu           sync.RWMutex
	events       []econcal.Event
	destinations map[string]struct{}
	delivered    map[deliveryKey]struct{}
}

type deliveryKey struct {
	release     econcal.ReleaseKey
	destination string
}

// NewStore 建立空的 Store 實例。
func NewStore() *Store {
	return &Store{
		destinations: make(map[string]struct{}),
		delivered:    make(map[deliveryKey]struct{}),
	}
}

// ReplaceEvents 以新抓取結果整批取代快取內容。
// 已送出紀錄僅保留鍵仍存在於新快照者，避免跨越公布日後集合無限增長。
func (s *Store) ReplaceEvents(events []econcal.Event) {
	snapshot := make([]econcal.Event, len(events))
	copy(snapshot, events)

	keep := make(map[econcal.ReleaseKey]struct{}, len(snapshot))
	for _, ev := range snapshot {
		keep[ev.Key()] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = snapshot
	for dk := range s.delivered {
		if _, ok := keep[dk.release]; !ok {
			delete(s.delivered, dk)
		}
	}
}

// Events 回傳目前快照的複本，呼叫端可任意讀取不受後續取代影響。
func (s *Store) Events() []econcal.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]econcal.Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventCount 回傳目前快取的事件數。
func (s *Store) EventCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events)
}

// AddDestination 將頻道加入通知訂閱集合。
func (s *Store) AddDestination(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.destinations[id] = struct{}{}
}

// RemoveDestination 將頻道自訂閱集合移除，不存在時為 no-op。
func (s *Store) RemoveDestination(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.destinations, id)
}

// Destinations 回傳訂閱頻道清單（排序後複本）。
func (s *Store) Destinations() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.destinations))
	for id := range s.destinations {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// MarkDelivered 原子性地檢查並標記某事件對某頻道已送出。
// 回傳 true 表示此次為首次標記，呼叫端應執行實際送出。
func (s *Store) MarkDelivered(key econcal.ReleaseKey, destination string) bool {
	dk := deliveryKey{release: key, destination: destination}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.delivered[dk]; ok {
		return false
	}
	s.delivered[dk] = struct{}{}
	return true
}

// Delivered 回報某事件對某頻道是否已送出過。
func (s *Store) Delivered(key econcal.ReleaseKey, destination string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.delivered[deliveryKey{release: key, destination: destination}]
	return ok
}
