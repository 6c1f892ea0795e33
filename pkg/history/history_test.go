package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ecomwatch/restock/pkg/watch"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "restock.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func obsAt(inStock bool, reason string, at time.Time) watch.Observation {
	return watch.Observation{
		InStock:     inStock,
		Reason:      reason,
		ResolvedURL: "https://shop.test/p/1",
		CheckedAt:   at,
	}
}

func TestRecordAndListRecent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := "https://shop.test/p/1 | color=* | size=*"
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for i, inStock := range []bool{false, false, true} {
		if err := db.Record(ctx, key, obsAt(inStock, "r", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	rows, err := db.ListRecent(ctx, key, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if !rows[0].InStock {
		t.Fatal("newest row should be the in-stock one")
	}
	if !rows[0].CheckedAt.Equal(base.Add(2 * time.Minute)) {
		t.Fatalf("wrong timestamp on newest row: %v", rows[0].CheckedAt)
	}
}

func TestListRecentFiltersByKey(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	if err := db.Record(ctx, "key-a", obsAt(true, "enabled", at)); err != nil {
		t.Fatal(err)
	}
	if err := db.Record(ctx, "key-b", obsAt(false, "disabled", at)); err != nil {
		t.Fatal(err)
	}

	rows, err := db.ListRecent(ctx, "key-a", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].WatchKey != "key-a" {
		t.Fatalf("expected only key-a rows, got %+v", rows)
	}
}

func TestListTransitions(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	key := "https://shop.test/p/1 | color=* | size=*"
	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	// out, out, in, in, out: three transitions counting the first row.
	seq := []bool{false, false, true, true, false}
	for i, inStock := range seq {
		if err := db.Record(ctx, key, obsAt(inStock, "r", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	rows, err := db.ListTransitions(ctx, key, 0)
	if err != nil {
		t.Fatalf("list transitions: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 transitions, got %d: %+v", len(rows), rows)
	}
	// Newest first: the final out-of-stock flip, then the restock,
	// then the very first observation.
	if rows[0].InStock || !rows[1].InStock || rows[2].InStock {
		t.Fatalf("unexpected transition order: %+v", rows)
	}
}
