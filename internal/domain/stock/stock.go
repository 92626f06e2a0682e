package stock

// Timeframe 為圖表週期。
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// ParseTimeframe 將使用者輸入的週期字母轉為 Timeframe。
// intraday 回報輸入是否為付費版限定的分鐘線（3/5/15）。
func ParseTimeframe(letter string) (tf Timeframe, intraday bool, ok bool) {
	switch letter {
	case "d":
		return TimeframeDaily, false, true
	case "w":
		return TimeframeWeekly, false, true
	case "m":
		return TimeframeMonthly, false, true
	case "3", "5", "15":
		return "", true, false
	default:
		return "", false, false
	}
}

// Fundamental 為個股基本面表格中的一筆鍵值。
type Fundamental struct {
	Key   string
	Value string
}

// InsiderTrade 為一筆內部人交易紀錄。
type InsiderTrade struct {
	Owner        string
	Relationship string
	Date         string
	Transaction  string
	Cost         string
	Shares       string
	Value        string
}
