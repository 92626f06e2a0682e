package fred

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const missingValue = "."

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    "https://api.stlouisfed.org",
		httpClient: &http.Client{Timeout: timeout},
	}
}

type seriesResponse struct {
	Seriess []SeriesInfo `json:"seriess"`
}

type SeriesInfo struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Units      string `json:"units"`
	Frequency  string `json:"frequency"`
	Popularity int    `json:"popularity"`
}

type observationsResponse struct {
	Observations []Observation `json:"observations"`
}

type Observation struct {
	Date  string `json:"date"`
	Value string `json:"value"`
}

// GetSeriesInfo 取得單一系列的中繼資料（標題、單位、頻率）。
func (c *Client) GetSeriesInfo(ctx context.Context, seriesID string) (SeriesInfo, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)

	var res seriesResponse
	if err := c.get(ctx, "/fred/series", params, &res); err != nil {
		return SeriesInfo{}, err
	}
	if len(res.Seriess) == 0 {
		return SeriesInfo{}, fmt.Errorf("fred: series %s not found", seriesID)
	}
	return res.Seriess[0], nil
}

// GetObservations 取得指定區間的觀測值，依日期遞增排列。
// 區間任一端為零值時不帶該參數；limit <= 0 時不限筆數。
func (c *Client) GetObservations(ctx context.Context, seriesID string, start, end time.Time, limit int) ([]Observation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "asc")
	if !start.IsZero() {
		params.Set("observation_start", start.Format("2006-01-02"))
	}
	if !end.IsZero() {
		params.Set("observation_end", end.Format("2006-01-02"))
	}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var res observationsResponse
	if err := c.get(ctx, "/fred/series/observations", params, &res); err != nil {
		return nil, err
	}

	// FRED 以 "." 表示缺值，直接濾除
	out := make([]Observation, 0, len(res.Observations))
	for _, o := range res.Observations {
		if o.Value == missingValue {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

// GetLatestObservation 取得最近一筆有效觀測值。
func (c *Client) GetLatestObservation(ctx context.Context, seriesID string) (Observation, error) {
	params := url.Values{}
	params.Set("series_id", seriesID)
	params.Set("sort_order", "desc")
	params.Set("limit", "10")

	var res observationsResponse
	if err := c.get(ctx, "/fred/series/observations", params, &res); err != nil {
		return Observation{}, err
	}
	for _, o := range res.Observations {
		if o.Value != missingValue {
			return o, nil
		}
	}
	return Observation{}, fmt.Errorf("fred: no observations for %s", seriesID)
}

// SearchSeries 以關鍵字搜尋系列，依熱門度排序。
func (c *Client) SearchSeries(ctx context.Context, text string, limit int) ([]SeriesInfo, error) {
	params := url.Values{}
	params.Set("search_text", text)
	params.Set("order_by", "popularity")
	params.Set("sort_order", "desc")
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var res seriesResponse
	if err := c.get(ctx, "/fred/series/search", params, &res); err != nil {
		return nil, err
	}
	return res.Seriess, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	params.Set("api_key", c.apiKey)
	params.Set("file_type", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("fred: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fred: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("fred: %s status=%d body=%s", path, resp.StatusCode, string(raw))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("fred: decode %s: %w", path, err)
	}
	return nil
}
