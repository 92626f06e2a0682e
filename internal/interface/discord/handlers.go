package discord

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"market-events-bot/internal/application/events"
	"market-events-bot/internal/domain/econcal"
	"market-events-bot/internal/domain/stock"
)

const (
	usageText = "Invalid command. Use format: ;ticker timeframe (e.g., ;aapl d, ;aapl w, ;aapl m)"

	invalidTimeframeText = "Invalid timeframe. Use 'd' for daily, 'w' for weekly, or 'm' for monthly."

	intradayText = "Intraday charts (3, 5, 15 minutes) are only available for FINVIZ*Elite users. " +
		"Please use 'd' for daily, 'w' for weekly, or 'm' for monthly charts."
)

func (r *Router) handleSetChannel(ctx context.Context, msg Message) {
	if !r.requireAdmin(ctx, msg) {
		return
	}
	r.subscriptions.AddDestination(msg.ChannelID)
	r.reply(ctx, msg, "✅ This channel will now receive economic event notifications!")
}

func (r *Router) handleRemoveChannel(ctx context.Context, msg Message) {
	if !r.requireAdmin(ctx, msg) {
		return
	}
	// 未訂閱的頻道移除視為 no-op，一樣回覆確認
	r.subscriptions.RemoveDestination(msg.ChannelID)
	r.reply(ctx, msg, "❌ This channel will no longer receive economic event notifications!")
}

func (r *Router) handleEvents(ctx context.Context, msg Message) {
	cached := r.cache.Events()
	if len(cached) == 0 {
		r.reply(ctx, msg, "No economic events scheduled.")
		return
	}

	embed := Embed{
		Title: "📅 Upcoming Economic Releases",
		Color: colorGreen,
	}
	for _, impact := range []econcal.Impact{econcal.ImpactHigh, econcal.ImpactMedium} {
		var lines []string
		for _, ev := range cached {
			if ev.Impact != impact {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s — %s (Previous: %s)",
				ev.ReleaseTime.UTC().Format("2006-01-02 15:04 UTC"), ev.Title, ev.Previous))
		}
		if len(lines) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, EmbedField{
			Name:  string(impact) + " Impact",
			Value: strings.Join(lines, "\n"),
		})
	}
	r.replyEmbed(ctx, msg, embed)
}

func (r *Router) handleGetData(ctx context.Context, msg Message, args []string) {
	if len(args) != 1 {
		r.reply(ctx, msg, "Usage: "+r.prefix+"getdata <series_id> (e.g., "+r.prefix+"getdata UNRATE)")
		return
	}
	res, err := r.queries.Latest(ctx, args[0])
	if err != nil {
		r.replyError(ctx, msg, err)
		return
	}
	value := events.FormatValue(res.Meta.ID, res.Meta.Units, res.Observation.Value)
	r.reply(ctx, msg, fmt.Sprintf("%s — %s\nLatest (%s): %s [%s, %s]",
		res.Meta.ID, res.Meta.Title,
		res.Observation.Date.Format("2006-01-02"), value,
		res.Meta.Units, res.Meta.Frequency))
}

func (r *Router) handleSearch(ctx context.Context, msg Message, args []string) {
	if len(args) == 0 {
		r.reply(ctx, msg, "Usage: "+r.prefix+"search <keywords>")
		return
	}
	results, err := r.queries.Search(ctx, strings.Join(args, " "))
	if err != nil {
		r.replyError(ctx, msg, err)
		return
	}
	if len(results) == 0 {
		r.reply(ctx, msg, "No series found.")
		return
	}
	var b strings.Builder
	b.WriteString("Top matches:\n")
	for i, m := range results {
		fmt.Fprintf(&b, "%d. %s — %s (%s, %s)\n", i+1, m.ID, m.Title, m.Frequency, m.Units)
	}
	r.reply(ctx, msg, strings.TrimRight(b.String(), "\n"))
}

func (r *Router) handleCorrelation(ctx context.Context, msg Message, args []string) {
	if len(args) < 2 || len(args) > 3 {
		r.reply(ctx, msg, "Usage: "+r.prefix+"correlation <series1> <series2> [days=90]")
		return
	}
	days := 0
	if len(args) == 3 {
		parsed, err := strconv.Atoi(args[2])
		if err != nil || parsed <= 0 {
			r.reply(ctx, msg, "Usage: "+r.prefix+"correlation <series1> <series2> [days=90]")
			return
		}
		days = parsed
	}
	res, err := r.queries.Correlation(ctx, args[0], args[1], days)
	if err != nil {
		r.replyError(ctx, msg, err)
		return
	}
	r.reply(ctx, msg, fmt.Sprintf("Correlation between %s and %s over %d days (%d points): %.4f",
		res.SeriesA.ID, res.SeriesB.ID, res.Days, res.Points, res.Coefficient))
}

// handleTicker 處理 `;<ticker> <d|w|m|i|f|3|5|15>` 形式的指令。
func (r *Router) handleTicker(ctx context.Context, msg Message, parts []string) {
	if len(parts) != 2 {
		r.reply(ctx, msg, usageText)
		return
	}
	ticker := parts[0]
	letter := strings.ToLower(parts[1])

	switch letter {
	case "i":
		r.handleInsider(ctx, msg, ticker)
		return
	case "f":
		r.handleFundamentals(ctx, msg, ticker)
		return
	}

	tf, intraday, ok := stock.ParseTimeframe(letter)
	if intraday {
		r.reply(ctx, msg, intradayText)
		return
	}
	if !ok {
		r.reply(ctx, msg, invalidTimeframeText)
		return
	}

	res, err := r.charts.Chart(ctx, ticker, tf)
	if err != nil {
		r.replyError(ctx, msg, err)
		return
	}
	r.replyEmbed(ctx, msg, Embed{
		Title:    fmt.Sprintf("%s %s Chart", res.Ticker, res.Timeframe),
		Color:    colorGreen,
		ImageURL: res.URL,
	})
}

func (r *Router) handleInsider(ctx context.Context, msg Message, ticker string) {
	trades, err := r.charts.Insider(ctx, ticker)
	if err != nil {
		r.replyError(ctx, msg, err)
		return
	}
	upper := strings.ToUpper(ticker)
	if len(trades) == 0 {
		r.reply(ctx, msg, "No recent insider transactions for "+upper+".")
		return
	}
	embed := Embed{
		Title: upper + " Insider Trading",
		Color: colorGreen,
	}
	for _, t := range trades {
		embed.Fields = append(embed.Fields, EmbedField{
			Name: fmt.Sprintf("%s (%s)", t.Owner, t.Relationship),
			Value: fmt.Sprintf("%s %s — %s shares @ %s ($%s)",
				t.Date, t.Transaction, t.Shares, t.Cost, t.Value),
		})
	}
	r.replyEmbed(ctx, msg, embed)
}

// 基本面摘要只挑常看的欄位，完整表格塞不進一則訊息
var fundamentalKeys = []string{
	"Market Cap", "P/E", "Forward P/E", "EPS (ttm)", "Dividend %",
	"Sales", "Income", "Debt/Eq", "ROE", "Perf Year",
}

func (r *Router) handleFundamentals(ctx context.Context, msg Message, ticker string) {
	rows, err := r.charts.Fundamentals(ctx, ticker)
	if err != nil {
		r.replyError(ctx, msg, err)
		return
	}
	byKey := make(map[string]string, len(rows))
	for _, row := range rows {
		byKey[row.Key] = row.Value
	}
	embed := Embed{
		Title: strings.ToUpper(ticker) + " Fundamentals",
		Color: colorGreen,
	}
	for _, key := range fundamentalKeys {
		if value, ok := byKey[key]; ok {
			embed.Fields = append(embed.Fields, EmbedField{Name: key, Value: value, Inline: true})
		}
	}
	if len(embed.Fields) == 0 {
		r.reply(ctx, msg, "No fundamentals found for "+strings.ToUpper(ticker)+".")
		return
	}
	r.replyEmbed(ctx, msg, embed)
}
