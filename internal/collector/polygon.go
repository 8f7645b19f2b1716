package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"RSIRelative/internal/model"
)

// DefaultPolygonBaseURL is the production Polygon.io API host.
const DefaultPolygonBaseURL = "https://api.polygon.io"

// PolygonFetcher implements Fetcher using the Polygon.io aggregates API.
type PolygonFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Now     func() time.Time
}

// NewPolygonFetcher creates a new fetcher with optional proxy support.
func NewPolygonFetcher(baseURL, apiKey, proxyURL string) *PolygonFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultPolygonBaseURL
	}
	return &PolygonFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Now: time.Now,
	}
}

func (f *PolygonFetcher) Name() string { return "polygon" }

// polygonAggs is the response shape of /v2/aggs/ticker/{ticker}/range/...
type polygonAggs struct {
	Status  string `json:"status"`
	Results []struct {
		Close     float64 `json:"c"`
		Timestamp int64   `json:"t"` // epoch milliseconds
	} `json:"results"`
}

// FetchDailyCloses requests daily bars over [today-days, today] and drops
// today's bar, which is still forming while the market is open.
func (f *PolygonFetcher) FetchDailyCloses(ctx context.Context, symbol string, days int) ([]model.PricePoint, error) {
	today := dayOf(f.Now())
	from := today.AddDate(0, 0, -days)
	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s?adjusted=true&sort=asc&apiKey=%s",
		f.BaseURL, url.PathEscape(symbol), from.Format(time.DateOnly), today.Format(time.DateOnly), url.QueryEscape(f.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polygon fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("polygon fetch %s: status %d, body: %s", symbol, resp.StatusCode, string(body))
	}

	var aggs polygonAggs
	if err := json.NewDecoder(resp.Body).Decode(&aggs); err != nil {
		return nil, fmt.Errorf("polygon decode %s: %w", symbol, err)
	}
	if len(aggs.Results) == 0 {
		return nil, fmt.Errorf("polygon %s (status %q): %w", symbol, aggs.Status, ErrNoData)
	}

	byDate := make(map[time.Time]float64, len(aggs.Results))
	for _, r := range aggs.Results {
		d := dayOf(time.UnixMilli(r.Timestamp).UTC())
		if !d.Before(today) {
			continue
		}
		byDate[d] = r.Close
	}
	points := make([]model.PricePoint, 0, len(byDate))
	for d, c := range byDate {
		points = append(points, model.PricePoint{Date: d, Close: c})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

// dayOf truncates t to its calendar date, expressed as midnight UTC.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
