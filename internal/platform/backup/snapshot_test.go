package backup

import (
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snap.db")

	snap, err := createSnapshot(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	records := []Record{
		{ID: 1, Payload: `{"id":1,"name":"Ali Raza"}`},
		{ID: 2, Payload: `{"id":2,"name":"Sana Tariq"}`},
	}
	for _, rec := range records {
		if err := snap.Add("patients", rec); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	if err := snap.Add("finance", Record{ID: 1, Payload: `{"id":1,"type":"Income"}`}); err != nil {
		t.Fatalf("add finance: %v", err)
	}
	if err := snap.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := openSnapshot(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Records("patients")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 patient records, got %d", len(got))
	}
	if got[0].ID != 1 || got[0].Payload != records[0].Payload {
		t.Fatalf("unexpected first record: %+v", got[0])
	}

	empty, err := reopened.Records("visits")
	if err != nil {
		t.Fatalf("records empty table: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no visit records, got %d", len(empty))
	}
}

func TestOpenSnapshotRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.db")

	// A valid SQLite file without the records table is not a snapshot.
	snap, err := createSnapshot(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := snap.db.Exec(`DROP TABLE records`); err != nil {
		t.Fatalf("drop: %v", err)
	}
	snap.Close()

	if _, err := openSnapshot(path); err == nil {
		t.Fatal("expected error for file without records table")
	}
}
