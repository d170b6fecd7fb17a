// Package chunker groups consecutive extracted segments into fixed-size
// chunks, one chunk per translation call. Chunks partition the segment
// sequence contiguously and exhaustively; only the last chunk may be smaller.
package chunker

import "strings"

// Size is the number of segments merged into one chunk.
const Size = 2

// Separator joins segment texts inside a chunk.
const Separator = "\n"

// Chunk is a group of consecutive segments merged into one translation unit.
type Chunk struct {
	Text string
	// Index is the 0-based chunk position.
	Index int
	// First is the index of the first segment in the chunk.
	First int
	// Count is the number of segments merged into the chunk.
	Count int
}

// Position returns the 1-based chunk position used in progress labels.
func (c Chunk) Position() int {
	return c.Index + 1
}

// Split groups segments into chunks of size segments each, preserving order.
// If size ≤ 0, Size is used. An empty input yields no chunks.
func Split(segments []string, size int) []Chunk {
	if size <= 0 {
		size = Size
	}
	if len(segments) == 0 {
		return nil
	}

	chunks := make([]Chunk, 0, Count(len(segments), size))
	for i := 0; i < len(segments); i += size {
		end := i + size
		if end > len(segments) {
			end = len(segments)
		}
		chunks = append(chunks, Chunk{
			Text:  strings.Join(segments[i:end], Separator),
			Index: len(chunks),
			First: i,
			Count: end - i,
		})
	}
	return chunks
}

// Count returns ceil(n/size), the number of chunks Split produces for n
// segments.
func Count(n, size int) int {
	if size <= 0 {
		size = Size
	}
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
