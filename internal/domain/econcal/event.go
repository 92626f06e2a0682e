package econcal

import "time"

// PreviousUnavailable 在抓不到最新觀測值時作為顯示用的替代字串。
const PreviousUnavailable = "N/A"

// Event 為單一指標在下一次公布的事件紀錄，建立後不再修改。
type Event struct {
	SeriesID    string
	Title       string
	Impact      Impact
	ReleaseTime time.Time
	Previous    string
}

// Key 回傳事件的穩定識別鍵（系列 + 公布時間）。
// 快取整批換新後，鍵相同的事件視為同一事件，不得重複通知。
func (e Event) Key() ReleaseKey {
	return ReleaseKey{SeriesID: e.SeriesID, ReleaseUnix: e.ReleaseTime.Unix()}
}

// ReleaseKey 以系列與公布時間組成的複合鍵，可直接作為 map key。
type ReleaseKey struct {
	SeriesID    string
	ReleaseUnix int64
}

// SortedByRelease 回報事件序列是否依公布時間遞增排列。
func SortedByRelease(events []Event) bool {
	for i := 1; i < len(events); i++ {
		if events[i].ReleaseTime.Before(events[i-1].ReleaseTime) {
			return false
		}
	}
	return true
}
