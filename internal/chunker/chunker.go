// Package chunker splits cleaned document text into bounded-size pieces
// suitable for the embedding service's input limits.
package chunker

import "errors"

// ErrInvalidSize is returned when the requested chunk size is not positive.
var ErrInvalidSize = errors.New("chunk size must be positive")

// Split partitions text into consecutive, non-overlapping substrings of at
// most maxSize characters each, preserving character order. Slicing is purely
// fixed-width: no sentence or word boundary detection. The last chunk may be
// shorter than maxSize. Empty text yields no chunks.
//
// Splitting mid-sentence is an accepted trade-off; fixed-width slicing is the
// simplest policy that keeps every chunk under the service's input ceiling.
func Split(text string, maxSize int) ([]string, error) {
	if maxSize <= 0 {
		return nil, ErrInvalidSize
	}
	if text == "" {
		return nil, nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxSize-1)/maxSize)
	for start := 0; start < len(runes); start += maxSize {
		end := start + maxSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks, nil
}
