package econcal

// Impact 表示指標公布的重要性分級。
type Impact string

const (
	ImpactHigh   Impact = "High"
	ImpactMedium Impact = "Medium"
)

// Indicator 為追蹤中的總經數據系列，程序啟動時定義後不再變動。
type Indicator struct {
	SeriesID    string
	Description string
	Impact      Impact
}

// TrackedIndicators 為預設追蹤清單。
var TrackedIndicators = []Indicator{
	{SeriesID: "GDP", Description: "Gross Domestic Product", Impact: ImpactHigh},
	{SeriesID: "UNRATE", Description: "Unemployment Rate", Impact: ImpactHigh},
	{SeriesID: "CPIAUCSL", Description: "Consumer Price Index", Impact: ImpactHigh},
	{SeriesID: "FEDFUNDS", Description: "Federal Funds Rate", Impact: ImpactHigh},
	{SeriesID: "INDPRO", Description: "Industrial Production Index", Impact: ImpactMedium},
	{SeriesID: "HOUST", Description: "Housing Starts", Impact: ImpactMedium},
	{SeriesID: "RSXFS", Description: "Retail Sales", Impact: ImpactMedium},
	{SeriesID: "PAYEMS", Description: "Nonfarm Payroll", Impact: ImpactHigh},
}
