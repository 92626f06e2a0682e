package finviz

import (
	"context"
	"strings"
	"testing"
	"time"

	"market-events-bot/internal/domain/stock"

	"github.com/PuerkitoBio/goquery"
)

func TestClient_ChartURL(t *testing.T) {
	c := NewClient(time.Second)

	got := c.ChartURL("aapl", "d")
	if !strings.HasPrefix(got, "https://finviz.com/chart.ashx?") {
		t.Errorf("unexpected base: %s", got)
	}
	for _, param := range []string{"t=AAPL", "p=d", "ty=c"} {
		if !strings.Contains(got, param) {
			t.Errorf("url missing %s: %s", param, got)
		}
	}
}

func TestQuoteAdapter_ChartURLTimeframes(t *testing.T) {
	adapter := NewQuoteAdapter(NewClient(time.Second))

	cases := map[stock.Timeframe]string{
		stock.TimeframeDaily:   "p=d",
		stock.TimeframeWeekly:  "p=w",
		stock.TimeframeMonthly: "p=m",
	}
	for tf, param := range cases {
		url, err := adapter.ChartURL(context.Background(), "msft", tf)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tf, err)
		}
		if !strings.Contains(url, param) {
			t.Errorf("%s url missing %s: %s", tf, param, url)
		}
	}

	if _, err := adapter.ChartURL(context.Background(), "msft", "hourly"); err == nil {
		t.Error("unknown timeframe must error")
	}
}

const snapshotHTML = `<html><body>
<table class="snapshot-table2">
<tr><td>Index</td><td>DJIA S&amp;P500</td><td>P/E</td><td>28.50</td></tr>
<tr><td>Market Cap</td><td>2950.00B</td><td>EPS (ttm)</td><td>6.42</td></tr>
</table>
</body></html>`

func TestParseSnapshot(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshotHTML))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	rows := ParseSnapshot(doc)
	if len(rows) != 4 {
		t.Fatalf("expected 4 key/value pairs, got %d", len(rows))
	}
	byKey := make(map[string]string)
	for _, kv := range rows {
		byKey[kv.Key] = kv.Value
	}
	if byKey["P/E"] != "28.50" {
		t.Errorf("P/E = %q", byKey["P/E"])
	}
	if byKey["Market Cap"] != "2950.00B" {
		t.Errorf("Market Cap = %q", byKey["Market Cap"])
	}
}

const insiderHTML = `<html><body>
<table class="body-table">
<tr><td>Owner</td><td>Relationship</td><td>Date</td><td>Transaction</td><td>Cost</td><td>#Shares</td><td>Value ($)</td></tr>
<tr><td>COOK TIM</td><td>CEO</td><td>Aug 20</td><td>Sale</td><td>225.10</td><td>50,000</td><td>11,255,000</td></tr>
<tr><td>short row</td><td>ignored</td></tr>
</table>
</body></html>`

func TestParseInsiderTable(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(insiderHTML))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}

	rows := ParseInsiderTable(doc)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row (header and short rows skipped), got %d", len(rows))
	}
	row := rows[0]
	if row.Owner != "COOK TIM" || row.Transaction != "Sale" || row.Shares != "50,000" {
		t.Errorf("unexpected row: %+v", row)
	}
}
