package state

import (
	"context"
	"testing"
	"time"
)

func TestFileRepository_RoundTrip(t *testing.T) {
	repo := NewFileRepository(t.TempDir())

	want := State{
		InputPath:  "/var/log/spans.ndjson",
		Offset:     4096,
		LastShipAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := repo.Save(context.Background(), want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.InputPath != want.InputPath {
		t.Errorf("InputPath = %v, want %v", got.InputPath, want.InputPath)
	}
	if got.Offset != want.Offset {
		t.Errorf("Offset = %d, want %d", got.Offset, want.Offset)
	}
	if !got.LastShipAt.Equal(want.LastShipAt) {
		t.Errorf("LastShipAt = %v, want %v", got.LastShipAt, want.LastShipAt)
	}
}

func TestFileRepository_LoadMissing(t *testing.T) {
	repo := NewFileRepository(t.TempDir())

	st, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !st.IsEmpty() {
		t.Errorf("state = %+v, want empty", st)
	}
}

func TestState_UpdateAfterShip(t *testing.T) {
	var st State
	st.UpdateAfterShip("/tmp/spans.ndjson", 128)

	if st.InputPath != "/tmp/spans.ndjson" {
		t.Errorf("InputPath = %v, want /tmp/spans.ndjson", st.InputPath)
	}
	if st.Offset != 128 {
		t.Errorf("Offset = %d, want 128", st.Offset)
	}
	if st.LastShipAt.IsZero() {
		t.Error("LastShipAt not set")
	}
}
