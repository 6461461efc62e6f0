package redis

import (
	"encoding/json"
	"testing"
)

// window builds a newest-first raw list holding the given seqs.
func window(t *testing.T, seqs ...int64) []string {
	t.Helper()
	raw := make([]string, 0, len(seqs))
	for i := len(seqs) - 1; i >= 0; i-- {
		data, err := json.Marshal(&StreamEntry{Seq: seqs[i], Type: "BID_PLACED"})
		if err != nil {
			t.Fatalf("marshal entry: %v", err)
		}
		raw = append(raw, string(data))
	}
	return raw
}

func TestEntriesAfter_CursorInsideWindow(t *testing.T) {
	entries, ok, err := entriesAfter(window(t, 1, 2, 3, 4, 5), 2)
	if err != nil || !ok {
		t.Fatalf("expected covered window, ok=%v err=%v", ok, err)
	}
	if len(entries) != 3 || entries[0].Seq != 3 || entries[2].Seq != 5 {
		t.Errorf("expected seqs 3..5 oldest-first, got %+v", entries)
	}
}

func TestEntriesAfter_CursorAtHead(t *testing.T) {
	entries, ok, err := entriesAfter(window(t, 1, 2, 3), 3)
	if err != nil || !ok {
		t.Fatalf("expected covered window, ok=%v err=%v", ok, err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries past the cursor, got %+v", entries)
	}
}

func TestEntriesAfter_FreshCursorOnFullHistory(t *testing.T) {
	entries, ok, err := entriesAfter(window(t, 1, 2), 0)
	if err != nil || !ok {
		t.Fatalf("expected window starting at seq 1 to cover a fresh cursor, ok=%v err=%v", ok, err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

func TestEntriesAfter_RecreatedWindowDoesNotCoverCursor(t *testing.T) {
	// The key expired with seqs 1-3 in it, then a later append recreated it
	// holding only seq 4. Seqs 2 and 3 exist solely in Postgres now, so the
	// window must not claim coverage for a cursor at 1.
	_, ok, err := entriesAfter(window(t, 4), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected recreated window with a gap to force the database fallback")
	}
}

func TestEntriesAfter_RecreatedWindowDoesNotCoverFreshCursor(t *testing.T) {
	// Same expiry shape with a client that has seen nothing: a window
	// starting past seq 1 cannot prove it holds the full history.
	_, ok, err := entriesAfter(window(t, 4, 5), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected window starting past seq 1 to force the database fallback")
	}
}

func TestEntriesAfter_ContiguousWindowCoversCursor(t *testing.T) {
	// The oldest retained entry sits right after the cursor, so nothing
	// between them was lost even though no entry <= cursor survived.
	entries, ok, err := entriesAfter(window(t, 4, 5), 3)
	if err != nil || !ok {
		t.Fatalf("expected contiguous window to cover the cursor, ok=%v err=%v", ok, err)
	}
	if len(entries) != 2 || entries[0].Seq != 4 {
		t.Errorf("expected seqs 4,5 oldest-first, got %+v", entries)
	}
}

func TestEntriesAfter_TrimmedWindowDoesNotCoverOldCursor(t *testing.T) {
	// A window trimmed down to recent entries cannot serve a cursor from
	// before its oldest survivor.
	_, ok, err := entriesAfter(window(t, 50, 51, 52), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Error("expected trimmed window to force the database fallback")
	}
}

func TestEntriesAfter_EmptyWindow(t *testing.T) {
	if _, ok, _ := entriesAfter(nil, 0); ok {
		t.Error("expected empty window to force the database fallback")
	}
}
