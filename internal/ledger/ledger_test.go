package ledger

import (
	"os"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestRecordCostAndWeeklySpend(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)

	if err := l.RecordCost("2", "execute", 1.50); err != nil {
		t.Fatalf("RecordCost: %v", err)
	}
	if err := l.RecordCost("3", "plan", 0.25); err != nil {
		t.Fatalf("RecordCost: %v", err)
	}

	spend := l.WeeklySpend(time.Now())
	if spend != 1.75 {
		t.Fatalf("WeeklySpend = %v, want 1.75", spend)
	}
}

func TestWeeklySpendExcludesOldEntries(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)

	now := time.Now()
	doc := document{Entries: []UsageEntry{
		{Date: now.AddDate(0, 0, -30).Format("2006-01-02"), Phase: "1", Action: "execute", CostUSD: 5.0},
	}}
	if err := l.write(doc); err != nil {
		t.Fatal(err)
	}

	if spend := l.WeeklySpend(now); spend != 0 {
		t.Fatalf("expected 0 spend excluding old entry, got %v", spend)
	}
}

func TestEmptyLedgerHasZeroSpend(t *testing.T) {
	l := Open(t.TempDir())
	if spend := l.WeeklySpend(time.Now()); spend != 0 {
		t.Fatalf("expected 0 spend for empty ledger, got %v", spend)
	}
}

func TestLedgerRoundtrip(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)
	if err := l.RecordCost("1", "verify", 0.10); err != nil {
		t.Fatal(err)
	}

	reopened := Open(dir)
	entries := reopened.Entries()
	if len(entries) != 1 || entries[0].Phase != "1" || entries[0].Action != "verify" {
		t.Fatalf("unexpected entries after roundtrip: %+v", entries)
	}
}

func TestUnparseableLedgerTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)
	if err := l.write(document{}); err != nil {
		t.Fatal(err)
	}
	// Corrupt the file directly.
	if err := os.WriteFile(l.path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if spend := l.WeeklySpend(time.Now()); spend != 0 {
		t.Fatalf("expected 0 spend from corrupt ledger, got %v", spend)
	}
}

func TestRecentEntriesOrderedAndCapped(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)
	doc := document{Entries: []UsageEntry{
		{Date: "2026-01-03", Phase: "3", Action: "execute", CostUSD: 1},
		{Date: "2026-01-01", Phase: "1", Action: "execute", CostUSD: 1},
		{Date: "2026-01-02", Phase: "2", Action: "execute", CostUSD: 1},
	}}
	if err := l.write(doc); err != nil {
		t.Fatal(err)
	}

	recent := l.RecentEntries(2)
	if len(recent) != 2 || recent[0].Phase != "2" || recent[1].Phase != "3" {
		t.Fatalf("unexpected recent entries: %+v", recent)
	}
}

func TestIsBudgetExhausted(t *testing.T) {
	dir := t.TempDir()
	l := Open(dir)
	if err := l.RecordCost("1", "execute", 0.80); err != nil {
		t.Fatal(err)
	}
	if l.IsBudgetExhausted(1.00, time.Now()) {
		t.Fatalf("0.80 < 1.00 budget should not be exhausted")
	}
	if err := l.RecordCost("2", "execute", 0.30); err != nil {
		t.Fatal(err)
	}
	if !l.IsBudgetExhausted(1.00, time.Now()) {
		t.Fatalf("1.10 >= 1.00 budget should be exhausted")
	}
}

// property: record_cost followed by weekly_spend monotonically increases
// spend by the recorded cost, for costs recorded today.
func TestRecordCostMonotonicProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("weekly spend increases by exactly the recorded cost", prop.ForAll(
		func(costCents int) bool {
			cost := float64(costCents) / 100.0
			dir := t.TempDir()
			l := Open(dir)
			before := l.WeeklySpend(time.Now())
			if err := l.RecordCost("1", "execute", cost); err != nil {
				return false
			}
			after := l.WeeklySpend(time.Now())
			delta := after - before
			return delta > cost-0.0001 && delta < cost+0.0001
		},
		gen.IntRange(0, 100000),
	))

	properties.TestingRun(t)
}

// property: within(t) periodicity is exercised in the window package; here
// we check isoWeekBounds always produces a 7-day span regardless of day.
func TestISOWeekBoundsAlwaysSevenDays(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("week bounds span exactly 7 days", prop.ForAll(
		func(daysFromEpoch int) bool {
			now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, daysFromEpoch)
			start, end := isoWeekBounds(now)
			return end.Sub(start) == 7*24*time.Hour && start.Weekday() == time.Monday
		},
		gen.IntRange(0, 3650),
	))

	properties.TestingRun(t)
}
