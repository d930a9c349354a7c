package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestListParamsFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=25&cursor=abc", nil)
	params, err := listParamsFromQuery(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if params.Limit != 25 || params.Cursor != "abc" {
		t.Fatalf("unexpected params: %+v", params)
	}
}

func TestListParamsRejectsBadLimit(t *testing.T) {
	for _, q := range []string{"limit=0", "limit=-3", "limit=ten"} {
		req := httptest.NewRequest(http.MethodGet, "/?"+q, nil)
		if _, err := listParamsFromQuery(req); err == nil {
			t.Fatalf("%s: expected error", q)
		}
	}
}

func TestDateRangeFromQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start=2026-08-01&end=2026-08-30T12:00:00Z", nil)
	dateRange, err := dateRangeFromQuery(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dateRange.Start == nil || dateRange.End == nil {
		t.Fatal("expected both bounds parsed")
	}
	wantStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !dateRange.Start.Equal(wantStart) {
		t.Fatalf("unexpected start: %s", dateRange.Start)
	}
}

func TestDateRangeRejectsInvertedBounds(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start=2026-08-30&end=2026-08-01", nil)
	if _, err := dateRangeFromQuery(req); err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestDateRangeRejectsGarbage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?start=yesterday", nil)
	if _, err := dateRangeFromQuery(req); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestDateRangeEmptyIsZero(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	dateRange, err := dateRangeFromQuery(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dateRange.IsZero() {
		t.Fatal("expected zero range when no params set")
	}
}
