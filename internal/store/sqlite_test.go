package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"premarket-screener/internal/models"
)

func newTestJournal(t *testing.T) *SQLiteJournal {
	t.Helper()
	j, err := NewSQLiteJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("NewSQLiteJournal() = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournalAlertRoundTrip(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	rv := 3.0
	res := models.ScreenResult{
		Symbol:            "SNDL",
		Price:             3.00,
		PreviousClose:     2.50,
		PercentChange:     20,
		Volume:            150000,
		RelativeVolume:    &rv,
		MarketCapMillions: 50,
	}
	at := time.Date(2024, 3, 5, 12, 3, 0, 0, time.UTC)

	if err := j.RecordAlert(ctx, res, at); err != nil {
		t.Fatalf("RecordAlert() = %v", err)
	}

	records, err := j.RecentAlerts(ctx, 10)
	if err != nil {
		t.Fatalf("RecentAlerts() = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("want 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Symbol != "SNDL" || rec.Price != 3.00 || rec.Volume != 150000 {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.RelativeVolume == nil || *rec.RelativeVolume != 3.0 {
		t.Errorf("RelativeVolume = %v, want 3.0", rec.RelativeVolume)
	}
	if !rec.SentAt.UTC().Equal(at) {
		t.Errorf("SentAt = %v, want %v", rec.SentAt, at)
	}
}

func TestJournalNullRelativeVolume(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	res := models.ScreenResult{Symbol: "XYZ", Price: 4.20, PercentChange: 40, Volume: 250000, MarketCapMillions: 120}
	if err := j.RecordAlert(ctx, res, time.Now()); err != nil {
		t.Fatalf("RecordAlert() = %v", err)
	}

	records, err := j.RecentAlerts(ctx, 1)
	if err != nil {
		t.Fatalf("RecentAlerts() = %v", err)
	}
	if records[0].RelativeVolume != nil {
		t.Errorf("RelativeVolume = %v, want nil", *records[0].RelativeVolume)
	}
}

func TestJournalRecentAlertsOrderAndLimit(t *testing.T) {
	j := newTestJournal(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	for i, sym := range []string{"AAA", "BBB", "CCC"} {
		res := models.ScreenResult{Symbol: sym, Price: 1, PercentChange: 25, Volume: 100000, MarketCapMillions: 10}
		if err := j.RecordAlert(ctx, res, base.Add(time.Duration(i)*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}

	records, err := j.RecentAlerts(ctx, 2)
	if err != nil {
		t.Fatalf("RecentAlerts() = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("want 2 records, got %d", len(records))
	}
	if records[0].Symbol != "CCC" || records[1].Symbol != "BBB" {
		t.Errorf("want newest first [CCC BBB], got [%s %s]", records[0].Symbol, records[1].Symbol)
	}

	// Non-positive limit falls back to the default.
	all, err := j.RecentAlerts(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("default limit must return all 3, got %d", len(all))
	}
}

func TestJournalRecordSummary(t *testing.T) {
	j := newTestJournal(t)
	if err := j.RecordSummary(context.Background(), time.Now(), 5); err != nil {
		t.Fatalf("RecordSummary() = %v", err)
	}

	var count, matchCount int
	row := j.db.QueryRow(`SELECT COUNT(*), COALESCE(MAX(match_count), 0) FROM summaries`)
	if err := row.Scan(&count, &matchCount); err != nil {
		t.Fatal(err)
	}
	if count != 1 || matchCount != 5 {
		t.Errorf("summaries table: count=%d matchCount=%d", count, matchCount)
	}
}
