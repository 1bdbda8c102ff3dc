package extraction

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitTextShortTextSingleChunk(t *testing.T) {
	chunks := SplitText("short", 100, 10)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestSplitTextOverlap(t *testing.T) {
	text := "0123456789abcdefghij"
	chunks := SplitText(text, 10, 2)

	require.Len(t, chunks, 3)
	assert.Equal(t, "0123456789", chunks[0])
	assert.Equal(t, "89abcdefgh", chunks[1])
	assert.Equal(t, "ghij", chunks[2])

	// Consecutive chunks share the overlap region.
	assert.True(t, strings.HasPrefix(chunks[1], chunks[0][8:]))
}

func TestSplitTextDeterministic(t *testing.T) {
	text := strings.Repeat("lorem ipsum ", 1000)
	a := SplitText(text, 500, 50)
	b := SplitText(text, 500, 50)
	assert.Equal(t, a, b)
}

func TestSplitTextNeverTearsRunes(t *testing.T) {
	// 3-byte runes with a limit that does not divide evenly, so a naive
	// byte split would cut through a character.
	text := strings.Repeat("契約書類", 100) // 1200 bytes
	chunks := SplitText(text, 1000, 100)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.True(t, utf8.ValidString(c), "chunk %d is not valid UTF-8", i)
	}
	// The final chunk still reaches the end of the text.
	assert.True(t, strings.HasSuffix(text, chunks[len(chunks)-1]))
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	// Overlap >= max would loop forever; it is ignored.
	chunks := SplitText("0123456789abcdefghij", 10, 10)
	require.Len(t, chunks, 2)
	assert.Equal(t, "0123456789", chunks[0])
	assert.Equal(t, "abcdefghij", chunks[1])
}
