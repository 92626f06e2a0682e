package finviz

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client 封裝 finviz 的圖表網址產生與個股頁面抓取。
// finviz 沒有公開 JSON API，基本面與內部人資料需解析 quote 頁面 HTML。
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:   "https://finviz.com",
		userAgent: "Mozilla/5.0 (X11; Linux x86_64) market-events-bot",
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ChartURL 組出指定週期的圖表圖片網址，不需發出請求。
// p=d/w/m 對應日線、週線、月線。
func (c *Client) ChartURL(ticker, period string) string {
	params := url.Values{}
	params.Set("t", strings.ToUpper(ticker))
	params.Set("ty", "c")
	params.Set("ta", "1")
	params.Set("p", period)
	return c.baseURL + "/chart.ashx?" + params.Encode()
}

// FetchQuotePage 下載個股 quote 頁並回傳解析後的文件。
func (c *Client) FetchQuotePage(ctx context.Context, ticker string) (*goquery.Document, error) {
	target := c.baseURL + "/quote.ashx?t=" + url.QueryEscape(strings.ToUpper(ticker))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("finviz: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("finviz: quote %s: %w", ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("finviz: quote %s status=%d", ticker, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("finviz: parse quote %s: %w", ticker, err)
	}
	return doc, nil
}

// ParseSnapshot 解析 quote 頁的 snapshot 表格為鍵值序列。
// 表格為兩欄一組（鍵、值）橫向排列。
func ParseSnapshot(doc *goquery.Document) []KV {
	var out []KV
	doc.Find("table.snapshot-table2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			key := strings.TrimSpace(cells.Eq(i).Text())
			value := strings.TrimSpace(cells.Eq(i + 1).Text())
			if key == "" {
				continue
			}
			out = append(out, KV{Key: key, Value: value})
		}
	})
	return out
}

// KV 為 snapshot 表格中的一組鍵值。
type KV struct {
	Key   string
	Value string
}

// InsiderRow 為內部人交易表的一列原始欄位。
type InsiderRow struct {
	Owner        string
	Relationship string
	Date         string
	Transaction  string
	Cost         string
	Shares       string
	Value        string
}

// ParseInsiderTable 解析 quote 頁的內部人交易表格。
func ParseInsiderTable(doc *goquery.Document) []InsiderRow {
	var out []InsiderRow
	doc.Find("table.body-table tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return // 表頭
		}
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}
		out = append(out, InsiderRow{
			Owner:        strings.TrimSpace(cells.Eq(0).Text()),
			Relationship: strings.TrimSpace(cells.Eq(1).Text()),
			Date:         strings.TrimSpace(cells.Eq(2).Text()),
			Transaction:  strings.TrimSpace(cells.Eq(3).Text()),
			Cost:         strings.TrimSpace(cells.Eq(4).Text()),
			Shares:       strings.TrimSpace(cells.Eq(5).Text()),
			Value:        strings.TrimSpace(cells.Eq(6).Text()),
		})
	})
	return out
}
