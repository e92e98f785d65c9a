package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

const moneywayPage = `<html><body><table><tbody>
<tr><td>Premier League</td><td>28 Oct</td><td>20:00</td><td>Arsenal FC</td><td>1.85</td><td>3.60</td><td>4.20</td><td>92%</td><td>5%</td><td>3%</td><td>Chelsea</td><td>£120,000</td></tr>
</tbody></table></body></html>`

func TestFetchMoneyway(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"timeZone": r.URL.Query().Get("timeZone"),
			"day":      r.URL.Query().Get("day"),
			"order":    r.URL.Query().Get("order"),
		}
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("User-Agent = %q, want test-agent", ua)
		}
		w.Write([]byte(moneywayPage)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, 5*time.Second, ClientConfig{UserAgent: "test-agent"})
	entities, err := c.FetchMoneyway(context.Background(), Query{TimeZone: "+07:00", Day: "Today", RefreshSec: 60})
	if err != nil {
		t.Fatalf("FetchMoneyway failed: %v", err)
	}

	if len(entities) != 1 {
		t.Fatalf("expected 1 entity, got %d", len(entities))
	}
	if entities[0].SmartOutcome != models.OutcomeHome {
		t.Errorf("SmartOutcome = %q, want %q", entities[0].SmartOutcome, models.OutcomeHome)
	}
	if gotQuery["timeZone"] != "+07:00" || gotQuery["day"] != "Today" {
		t.Errorf("query = %v", gotQuery)
	}
	if gotQuery["order"] != "Percentage on sign" {
		t.Errorf("order = %q, want %q", gotQuery["order"], "Percentage on sign")
	}
}

func TestFetchDroppingEmptyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html><body><p>no events</p></body></html>")) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, 5*time.Second, ClientConfig{})
	entities, err := c.FetchDropping(context.Background(), Query{TimeZone: "+07:00", Day: "Today", RefreshSec: 60})
	if err != nil {
		t.Fatalf("FetchDropping failed: %v", err)
	}
	if len(entities) != 0 {
		t.Errorf("expected no entities, got %d", len(entities))
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(moneywayPage)) //nolint:errcheck
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, 5*time.Second, ClientConfig{MaxRetries: 3, RetryDelayBase: time.Millisecond})
	entities, err := c.FetchMoneyway(context.Background(), Query{TimeZone: "+07:00", Day: "Today", RefreshSec: 60})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 requests, got %d", calls)
	}
	if len(entities) != 1 {
		t.Errorf("expected 1 entity, got %d", len(entities))
	}
}

func TestFetchFailsAfterMaxRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL, 5*time.Second, ClientConfig{MaxRetries: 2, RetryDelayBase: time.Millisecond})
	if _, err := c.FetchMoneyway(context.Background(), Query{TimeZone: "+07:00", Day: "Today", RefreshSec: 60}); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
}
