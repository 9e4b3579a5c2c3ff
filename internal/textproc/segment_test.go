package textproc

import (
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	got := Normalize("  Hello,\t\tworld!  How   are you?  ")
	if got != "Hello, world! How are you?" {
		t.Fatalf("unexpected normalize result: %q", got)
	}
	if Normalize("a @#$% b") != "a  b" {
		t.Fatalf("special characters not stripped: %q", Normalize("a @#$% b"))
	}
}

func TestRemoveCitations(t *testing.T) {
	got := RemoveCitations("As shown (Smith, 2020) and in [3], results hold.")
	if strings.Contains(got, "Smith") || strings.Contains(got, "[3]") {
		t.Fatalf("citations not removed: %q", got)
	}
}

func TestChunkWordsCoversAllWords(t *testing.T) {
	words := make([]string, 95)
	for i := range words {
		words[i] = "w"
	}
	text := strings.Join(words, " ")

	chunks, err := ChunkWords(text, 30, 10)
	if err != nil {
		t.Fatal(err)
	}
	covered := make(map[int]bool)
	for _, c := range chunks {
		if c.End-c.Start != len(strings.Fields(c.Text)) {
			t.Fatalf("chunk %d offsets disagree with text", c.Index)
		}
		for p := c.Start; p < c.End; p++ {
			covered[p] = true
		}
	}
	// 95 words with stride 20: windows start at 0,20,40,60,80; all positions covered.
	for p := 0; p < 95; p++ {
		if !covered[p] {
			t.Fatalf("position %d not covered by any chunk", p)
		}
	}
}

func TestChunkWordsIdempotent(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 20)
	a, err := ChunkWords(text, 25, 5)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ChunkWords(text, 25, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != len(b) {
		t.Fatalf("chunk counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs across runs", i)
		}
	}
}

func TestChunkWordsRejectsInvalidOverlap(t *testing.T) {
	if _, err := ChunkWords("some text", 10, 10); err != ErrInvalidChunking {
		t.Fatalf("expected ErrInvalidChunking, got %v", err)
	}
	if _, err := ChunkWords("some text", 10, 15); err != ErrInvalidChunking {
		t.Fatalf("expected ErrInvalidChunking, got %v", err)
	}
}

func TestChunkWordsDropsShortTail(t *testing.T) {
	words := make([]string, 25)
	for i := range words {
		words[i] = "w"
	}
	chunks, err := ChunkWords(strings.Join(words, " "), 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	// Tail window would hold 5 words, below the 10-word minimum.
	if len(chunks) != 1 {
		t.Fatalf("expected short tail to be dropped, got %d chunks", len(chunks))
	}
}

func TestFingerprintStability(t *testing.T) {
	a := Fingerprint("The Quick   Brown Fox")
	b := Fingerprint("the quick brown fox")
	if a != b {
		t.Fatal("fingerprints should be case and whitespace insensitive")
	}
	if a != Fingerprint("The Quick   Brown Fox") {
		t.Fatal("fingerprint is not deterministic")
	}
	if a == Fingerprint("the quick brown cat") {
		t.Fatal("different content should not collide")
	}
}

func TestExtractKeywords(t *testing.T) {
	text := "the cat sat on the mat. the cat chased a dog. dog ran."
	kws := ExtractKeywords(text, 3)
	if len(kws) != 3 {
		t.Fatalf("expected 3 keywords, got %v", kws)
	}
	if kws[0] != "cat" || kws[1] != "dog" {
		t.Fatalf("unexpected ranking: %v", kws)
	}
	// Frequency ties resolve by first occurrence.
	if kws[2] != "sat" {
		t.Fatalf("expected first-seen tie break, got %v", kws)
	}
}

func TestSanitizeStripsControls(t *testing.T) {
	got := Sanitize("abc\x00def\x01\n\tok")
	if strings.ContainsRune(got, 0) || strings.ContainsRune(got, 1) {
		t.Fatalf("control bytes remain: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Fatal("newlines should survive sanitization")
	}
}
