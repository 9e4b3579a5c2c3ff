package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlainFile(t *testing.T) {
	got, err := Text("essay.txt", []byte("An essay about something.\x00"))
	require.NoError(t, err)
	assert.Equal(t, "An essay about something.", got)
}

func TestTextMarkdownFile(t *testing.T) {
	got, err := Text("notes.MD", []byte("# Heading\n\nbody text"))
	require.NoError(t, err)
	assert.Contains(t, got, "body text")
}

func TestTextEmptyFile(t *testing.T) {
	_, err := Text("empty.txt", []byte("   \n  "))
	assert.ErrorIs(t, err, ErrNoExtractableText)
}

func TestTextUnsupportedFormat(t *testing.T) {
	_, err := Text("image.png", []byte{0x89, 0x50})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestTextCorruptPDF(t *testing.T) {
	_, err := Text("broken.pdf", []byte("not a pdf at all"))
	assert.Error(t, err)
}
