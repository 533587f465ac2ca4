package splitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_ShortTextYieldsOneWindow(t *testing.T) {
	chunks := Split("short text", 800, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplit_ExactSizeYieldsOneWindow(t *testing.T) {
	text := strings.Repeat("a", 800)
	chunks := Split(text, 800, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_StrideAndOverlap(t *testing.T) {
	// 20 chars, size 10, overlap 4 -> stride 6
	text := "abcdefghijklmnopqrst"
	chunks := Split(text, 10, 4)

	require.Len(t, chunks, 3)
	assert.Equal(t, "abcdefghij", chunks[0])
	assert.Equal(t, "ghijklmnop", chunks[1])
	assert.Equal(t, "mnopqrst", chunks[2])

	// Adjacent windows share exactly the overlap region
	assert.Equal(t, chunks[0][6:], chunks[1][:4])
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("maintenance manual text ", 200)
	first := Split(text, 800, 100)
	second := Split(text, 800, 100)
	assert.Equal(t, first, second)
}

func TestSplit_CoversAllText(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := Split(text, 800, 100)

	// Reassemble by dropping each window's overlap prefix
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		if len(c) > 100 {
			rebuilt.WriteString(c[100:])
		}
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_EmptyText(t *testing.T) {
	chunks := Split("", 800, 100)
	require.Len(t, chunks, 1)
	assert.Equal(t, "", chunks[0])
}

func TestSplit_MultibyteRunesNotTruncated(t *testing.T) {
	text := strings.Repeat("日本語の整備マニュアル", 50)
	chunks := Split(text, 100, 20)
	for _, c := range chunks {
		assert.True(t, strings.HasPrefix(text, c) || strings.Contains(text, c))
	}
}
