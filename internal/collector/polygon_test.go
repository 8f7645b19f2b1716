package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2025, 11, 5, 15, 30, 0, 0, time.UTC)

func newTestPolygon(t *testing.T, handler http.HandlerFunc) *PolygonFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewPolygonFetcher(srv.URL, "secret", "")
	f.Now = func() time.Time { return fixedNow }
	return f
}

func ms(y int, m time.Month, d int) int64 {
	// Polygon stamps daily bars at the session start in New York, i.e. early UTC.
	return time.Date(y, m, d, 5, 0, 0, 0, time.UTC).UnixMilli()
}

func TestPolygonFetcher_RequestAndFiltering(t *testing.T) {
	var gotPath, gotQuery string
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprintf(w, `{"status":"OK","results":[
			{"c":103,"t":%d},
			{"c":101,"t":%d},
			{"c":102,"t":%d},
			{"c":102.5,"t":%d},
			{"c":999,"t":%d}
		]}`, ms(2025, 11, 4), ms(2025, 11, 1), ms(2025, 11, 3), ms(2025, 11, 3), ms(2025, 11, 5))
	})

	points, err := f.FetchDailyCloses(context.Background(), "AAPL", 365)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/v2/aggs/ticker/AAPL/range/1/day/2024-11-05/2025-11-05" {
		t.Errorf("unexpected path %s", gotPath)
	}
	for _, want := range []string{"adjusted=true", "sort=asc", "apiKey=secret"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}

	if len(points) != 3 {
		t.Fatalf("expected 3 points (today dropped, duplicate merged), got %d: %+v", len(points), points)
	}
	wantCloses := []float64{101, 102.5, 103}
	for i, p := range points {
		if p.Close != wantCloses[i] {
			t.Errorf("point %d: expected close %v, got %v", i, wantCloses[i], p.Close)
		}
		if i > 0 && !points[i-1].Date.Before(p.Date) {
			t.Errorf("points not strictly ascending at %d", i)
		}
	}
	last := points[len(points)-1].Date
	if last.Format(time.DateOnly) != "2025-11-04" {
		t.Errorf("expected last date 2025-11-04, got %s", last.Format(time.DateOnly))
	}
}

func TestPolygonFetcher_NonSuccessStatus(t *testing.T) {
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"ERROR"}`, http.StatusForbidden)
	})
	if _, err := f.FetchDailyCloses(context.Background(), "AAPL", 365); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestPolygonFetcher_MissingResults(t *testing.T) {
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"OK","resultsCount":0}`)
	})
	_, err := f.FetchDailyCloses(context.Background(), "ZZZZ", 365)
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestPolygonFetcher_MalformedBody(t *testing.T) {
	f := newTestPolygon(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	})
	if _, err := f.FetchDailyCloses(context.Background(), "AAPL", 365); err == nil {
		t.Fatal("expected decode error")
	}
}
