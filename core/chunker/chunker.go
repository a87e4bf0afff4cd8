package chunker

import (
	"strings"
)

const (
	// DefaultChunkSize is the default character window for prose chunking.
	DefaultChunkSize = 900
	// DefaultOverlap is the default overlap between consecutive windows.
	DefaultOverlap = 120
)

// ChunkText splits text into fixed-size character windows with overlap.
// The input is trimmed first; empty input yields no chunks. Windows
// advance by chunkSize-overlap characters, floored at 1 so the loop
// cannot stall when overlap >= chunkSize. The final window is clipped
// to the end of the text, guaranteeing full coverage.
func ChunkText(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}

	step := chunkSize - overlap
	if step < 1 {
		step = 1
	}

	runes := []rune(text)
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
