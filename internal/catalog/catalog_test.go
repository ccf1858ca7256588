package catalog

import (
	"path/filepath"
	"testing"

	"sld-editor/internal/model"
	"sld-editor/pkg/apperrors"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInsertAndLookup(t *testing.T) {
	db := openTestDB(t)

	ref, err := db.Insert(Entry{
		Kind:         model.KindLoad,
		Manufacturer: "Acme",
		ModelName:    "Bilge pump",
		RatedAmps:    8,
		RatedVolts:   12,
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if ref == "" {
		t.Fatal("Insert returned empty ref")
	}

	got, err := db.Lookup(ref)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got.ModelName != "Bilge pump" || got.RatedAmps != 8 {
		t.Errorf("got %+v", got)
	}
}

func TestInsertRejectsMissingKind(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Insert(Entry{ModelName: "no kind"}); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("got err %v, want INVALID_INPUT", err)
	}
}

func TestLookupMissing(t *testing.T) {
	db := openTestDB(t)
	if _, err := db.Lookup("no-such-ref"); !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		t.Errorf("got err %v, want NOT_FOUND", err)
	}
}

func TestByKindOrdering(t *testing.T) {
	db := openTestDB(t)
	for _, e := range []Entry{
		{Kind: model.KindConductor, Manufacturer: "Zeta", ModelName: "Z-1"},
		{Kind: model.KindConductor, Manufacturer: "Alpha", ModelName: "A-2"},
		{Kind: model.KindConductor, Manufacturer: "Alpha", ModelName: "A-1"},
		{Kind: model.KindLoad, Manufacturer: "Other", ModelName: "unrelated"},
	} {
		if _, err := db.Insert(e); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	entries, err := db.ByKind(model.KindConductor)
	if err != nil {
		t.Fatalf("ByKind: %v", err)
	}
	want := []string{"A-1", "A-2", "Z-1"}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i, e := range entries {
		if e.ModelName != want[i] {
			t.Errorf("entry %d = %q, want %q", i, e.ModelName, want[i])
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := db.Seed(); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	first, err := db.Kinds()
	if err != nil {
		t.Fatalf("Kinds: %v", err)
	}
	if len(first) == 0 {
		t.Fatal("Seed inserted nothing")
	}

	if err := db.Seed(); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	conductors, err := db.ByKind(model.KindConductor)
	if err != nil {
		t.Fatalf("ByKind: %v", err)
	}
	if len(conductors) != 2 {
		t.Errorf("got %d conductors after double seed, want 2", len(conductors))
	}
}
