package blobstore

import (
	"bytes"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	data := []byte{1, 2, 3, 4, 5}

	if err := store.Write(data, 42, 7); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := store.Read(7, 42)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round-tripped bytes = %v, want %v", got, data)
	}
}

func TestWriteOverwritesExisting(t *testing.T) {
	store := New(t.TempDir())

	if err := store.Write([]byte("first"), 1, 0); err != nil {
		t.Fatalf("write first: %v", err)
	}
	if err := store.Write([]byte("second"), 1, 0); err != nil {
		t.Fatalf("write second: %v", err)
	}

	got, err := store.Read(0, 1)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("read = %q, want %q", got, "second")
	}
}

func TestReadMissingBlobErrors(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Read(0, 999); err == nil {
		t.Fatalf("expected error reading nonexistent blob")
	}
}
