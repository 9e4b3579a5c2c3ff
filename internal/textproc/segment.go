package textproc

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidChunking is returned when overlap >= size.
var ErrInvalidChunking = errors.New("chunk overlap must be smaller than chunk size")

// Chunks shorter than this many words are dropped entirely.
const minChunkWords = 10

var (
	whitespaceRe   = regexp.MustCompile(`\s+`)
	specialCharsRe = regexp.MustCompile(`[^\w\s.,!?;:-]`)
	parenCiteRe    = regexp.MustCompile(`\([A-Za-z]+,\s*\d{4}\)`)
	bracketCiteRe  = regexp.MustCompile(`\[\d+\]`)
)

// Chunk is an overlapping window of a document's normalized word sequence.
// Start/End are word offsets (inclusive-exclusive) in the parent document.
type Chunk struct {
	Index int    `json:"index"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

func (c Chunk) WordCount() int {
	return c.End - c.Start
}

// Normalize collapses whitespace runs, strips characters outside word
// characters, whitespace and basic punctuation, and trims the ends.
func Normalize(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = specialCharsRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// RemoveCitations strips (Author, 2020) and [3] style citation markers.
func RemoveCitations(text string) string {
	text = parenCiteRe.ReplaceAllString(text, "")
	return bracketCiteRe.ReplaceAllString(text, "")
}

// ChunkWords splits normalized text into overlapping fixed-size word windows
// with stride size-overlap. The final short window is dropped when it has
// fewer than ten words.
func ChunkWords(text string, size, overlap int) ([]Chunk, error) {
	if size <= 0 {
		return nil, ErrInvalidChunking
	}
	if overlap < 0 || overlap >= size {
		return nil, ErrInvalidChunking
	}
	words := strings.Fields(text)
	step := size - overlap
	chunks := make([]Chunk, 0, (len(words)+step-1)/step)
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		if end-i < minChunkWords {
			break
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Start: i,
			End:   end,
			Text:  strings.Join(words[i:end], " "),
		})
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}

// Fingerprint hashes the lower-cased normalized text. Two documents with the
// same fingerprint are treated as identical content for caching and dedup.
func Fingerprint(text string) string {
	normalized := Normalize(strings.ToLower(text))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

func WordCount(text string) int {
	return len(strings.Fields(text))
}
