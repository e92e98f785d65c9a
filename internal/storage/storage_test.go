package storage

import (
	"fmt"
	"testing"
	"time"

	"github.com/rutsinsao/smart-money-alert/internal/models"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(100, ":memory:")
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testAlert(home, away string, detectedAt time.Time) *models.Alert {
	return &models.Alert{
		Key:        models.MatchKey{Date: "2025-10-28", Home: home, Away: away},
		League:     "Premier League",
		Date:       "28 Oct",
		Time:       "20:00",
		Home:       home,
		Away:       away,
		Outcome:    models.OutcomeHome,
		SmartPct:   92.0,
		DropPct:    9.0,
		DetectedAt: detectedAt,
	}
}

func TestStorage_RecordAndQueryAlert(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now()

	if err := s.RecordAlert(testAlert("arsenal", "chelsea", now)); err != nil {
		t.Fatalf("RecordAlert failed: %v", err)
	}

	alerts, err := s.RecentAlerts(10)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	a := alerts[0]
	if a.Home != "arsenal" || a.Away != "chelsea" {
		t.Errorf("teams = %q / %q", a.Home, a.Away)
	}
	if a.Outcome != models.OutcomeHome {
		t.Errorf("outcome = %q, want %q", a.Outcome, models.OutcomeHome)
	}
	if a.SmartPct != 92.0 || a.DropPct != 9.0 {
		t.Errorf("pcts = %v / %v", a.SmartPct, a.DropPct)
	}
	if !a.DetectedAt.Equal(now) {
		t.Errorf("detected_at = %v, want %v", a.DetectedAt, now)
	}
}

func TestStorage_RejectsInvalidAlert(t *testing.T) {
	s := newTestStorage(t)
	a := testAlert("arsenal", "chelsea", time.Now())
	a.Outcome = "Z"
	if err := s.RecordAlert(a); err == nil {
		t.Error("expected validation error for unknown outcome")
	}
}

func TestStorage_EnforcesAlertCap(t *testing.T) {
	s, err := New(3, ":memory:")
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	base := time.Now()
	for i := 0; i < 5; i++ {
		a := testAlert(fmt.Sprintf("home-%d", i), "away", base.Add(time.Duration(i)*time.Second))
		if err := s.RecordAlert(a); err != nil {
			t.Fatalf("RecordAlert %d failed: %v", i, err)
		}
	}

	n, err := s.CountAlerts()
	if err != nil {
		t.Fatalf("CountAlerts failed: %v", err)
	}
	if n != 3 {
		t.Errorf("journal size = %d, want 3", n)
	}

	alerts, err := s.RecentAlerts(10)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(alerts) != 3 || alerts[0].Home != "home-4" {
		t.Errorf("expected newest 3 kept with home-4 first, got %d (%v)", len(alerts), alerts)
	}
}

func TestStorage_RecentAlertsOrder(t *testing.T) {
	s := newTestStorage(t)
	base := time.Now()
	for i := 0; i < 3; i++ {
		a := testAlert(fmt.Sprintf("home-%d", i), "away", base.Add(time.Duration(i)*time.Minute))
		if err := s.RecordAlert(a); err != nil {
			t.Fatalf("RecordAlert failed: %v", err)
		}
	}

	alerts, err := s.RecentAlerts(2)
	if err != nil {
		t.Fatalf("RecentAlerts failed: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Home != "home-2" || alerts[1].Home != "home-1" {
		t.Errorf("order = %q, %q; want home-2, home-1", alerts[0].Home, alerts[1].Home)
	}
}
