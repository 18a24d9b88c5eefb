package extractor

import "testing"

func TestGuessMimeFromExtension(t *testing.T) {
	if m := guessMime("/lib/song.mp3"); m != "audio/mpeg" {
		t.Fatalf("guessMime(.mp3) = %q, want audio/mpeg", m)
	}
}

func TestProbeTagFieldFallsBackOnEmpty(t *testing.T) {
	tag := probeTag{fields: map[string]string{"title": "A Title", "artist": ""}}
	if v, ok := tag.Title(); !ok || v != "A Title" {
		t.Fatalf("Title() = (%q, %v), want (A Title, true)", v, ok)
	}
	if _, ok := tag.Artist(); ok {
		t.Fatalf("Artist() should report absent for empty string value")
	}
}
