package history

import (
	"math"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(DriverPure, filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDBRejectsUnknownDriver(t *testing.T) {
	if _, err := OpenDB("postgres", filepath.Join(t.TempDir(), "h.db")); err == nil {
		t.Error("expected an error for an unknown driver")
	}
}

func TestRecordAndRecent(t *testing.T) {
	db := openTestDB(t)

	picks := []Selection{
		{Meters: 500, Label: "500 m", MarkIndex: 4, Metric: true, Source: "fling"},
		{Meters: 1500, Label: "1.5 km", MarkIndex: 9, Metric: true, Source: "key"},
		{Unbounded: true, Meters: 12345, Label: "∞", MarkIndex: 19, Metric: true, Source: "fling"},
	}
	for i := range picks {
		if err := db.RecordSelection(&picks[i]); err != nil {
			t.Fatalf("RecordSelection: %v", err)
		}
		if picks[i].ID == 0 {
			t.Errorf("pick %d: ID not set", i)
		}
	}

	recent, err := db.Recent(2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent(2) returned %d rows", len(recent))
	}
	if recent[0].Label != "∞" || !recent[0].Unbounded || recent[0].Meters != 0 {
		t.Errorf("newest = %+v, want the unbounded pick with zero meters", recent[0])
	}
	if recent[1].Label != "1.5 km" || recent[1].Source != "key" || recent[1].MarkIndex != 9 {
		t.Errorf("second = %+v", recent[1])
	}
	if recent[1].CreatedAt.IsZero() {
		t.Error("CreatedAt should round trip")
	}

	all, err := db.Recent(0)
	if err != nil {
		t.Fatalf("Recent(0): %v", err)
	}
	if len(all) != 3 {
		t.Errorf("Recent(0) returned %d rows, want 3", len(all))
	}

	if err := db.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if all, _ := db.Recent(0); len(all) != 0 {
		t.Errorf("after Clear got %d rows", len(all))
	}
}

func TestRecorderSessionLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	r, err := NewRecorder(DriverPure, path)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}
	if err := r.StartSession("tui"); err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	sessionID := r.CurrentSession().ID

	for _, m := range []float64{100, 200} {
		if err := r.Record(Selection{Meters: m, Label: "x", Metric: true}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if r.CurrentSession().Selections != 2 {
		t.Errorf("Selections = %d, want 2", r.CurrentSession().Selections)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := OpenDB(DriverPure, path)
	if err != nil {
		t.Fatalf("OpenDB: %v", err)
	}
	defer db.Close()

	s, err := db.GetSession(sessionID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if s.Host != "tui" || s.Selections != 2 || s.CompletedAt == nil {
		t.Errorf("session = %+v, want completed tui session with 2 selections", s)
	}

	picks, err := db.SelectionsForSession(sessionID)
	if err != nil {
		t.Fatalf("SelectionsForSession: %v", err)
	}
	if len(picks) != 2 || picks[0].Meters != 100 || picks[1].Meters != 200 {
		t.Errorf("session picks = %+v", picks)
	}
}

func TestSummarize(t *testing.T) {
	sum := Summarize([]Selection{
		{Meters: 100},
		{Meters: 300},
		{Unbounded: true},
		{Meters: 200},
	})
	if sum.Count != 4 || sum.Unbounded != 1 {
		t.Errorf("Count/Unbounded = %d/%d, want 4/1", sum.Count, sum.Unbounded)
	}
	if sum.Mean != 200 {
		t.Errorf("Mean = %v, want 200", sum.Mean)
	}
	if math.Abs(sum.StdDev-100) > 1e-9 {
		t.Errorf("StdDev = %v, want 100", sum.StdDev)
	}
	if sum.Median != 200 || sum.Min != 100 || sum.Max != 300 {
		t.Errorf("Median/Min/Max = %v/%v/%v", sum.Median, sum.Min, sum.Max)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	if sum := Summarize(nil); sum.Count != 0 || sum.Mean != 0 {
		t.Errorf("empty summary = %+v", sum)
	}
	sum := Summarize([]Selection{{Meters: 42}})
	if sum.Mean != 42 || sum.StdDev != 0 || sum.Median != 42 {
		t.Errorf("single summary = %+v", sum)
	}
	sum = Summarize([]Selection{{Unbounded: true}, {Unbounded: true}})
	if sum.Unbounded != 2 || sum.Max != 0 {
		t.Errorf("unbounded summary = %+v", sum)
	}
}

func TestMostPicked(t *testing.T) {
	// Newest first.
	selections := []Selection{
		{Label: "1 km"},
		{Label: "500 m"},
		{Label: "1 km"},
		{Label: "500 m"},
	}
	label, count := MostPicked(selections)
	if label != "500 m" || count != 2 {
		t.Errorf("MostPicked = %q x%d, want 500 m x2", label, count)
	}
	if label, count := MostPicked(nil); label != "" || count != 0 {
		t.Errorf("MostPicked(nil) = %q x%d", label, count)
	}
}
