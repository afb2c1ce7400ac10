package chunker

import (
	"errors"
	"fmt"

	"document-qa/internal/models"
)

var ErrInvalidConfig = errors.New("invalid chunk config")

const (
	DefaultSize    = 1000
	DefaultOverlap = 100
)

// Split cuts each block into rune-counted windows of at most size runes,
// each window starting size-overlap runes after the previous one. Chunk
// order follows block order; boundaries are purely positional and may fall
// mid-sentence.
func Split(blocks []models.TextBlock, size, overlap int) ([]models.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size must be positive, got %d", ErrInvalidConfig, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: overlap must be in [0, size), got size=%d overlap=%d", ErrInvalidConfig, size, overlap)
	}

	stride := size - overlap
	var chunks []models.Chunk
	id := 0
	for _, block := range blocks {
		runes := []rune(block.Content)
		if len(runes) == 0 {
			continue
		}
		for start := 0; ; start += stride {
			end := start + size
			if end > len(runes) {
				end = len(runes)
			}
			id++
			chunks = append(chunks, models.Chunk{
				Content: string(runes[start:end]),
				Source:  block.Source,
				ChunkID: id,
			})
			if end == len(runes) {
				break
			}
		}
	}
	return chunks, nil
}
