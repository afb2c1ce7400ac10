package index

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

var ErrEmbedding = errors.New("embedding failed")

// DefaultTopK is the retrieval depth used when no k is configured.
const DefaultTopK = 4

// Embedder converts text into an embedding vector. Satisfied by
// langchaingo's embeddings.EmbedderImpl.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Index is a similarity index over one document's chunks. It is immutable
// after Build; a new upload builds a fresh Index rather than mutating one.
type Index struct {
	collection *chromem.Collection
	chunks     []models.Chunk
}

// Build embeds every chunk and assembles the similarity index. Construction
// is all-or-nothing: any embedding failure aborts the build and no partial
// index is returned.
func Build(ctx context.Context, embedder Embedder, chunks []models.Chunk) (*Index, error) {
	db := chromem.NewDB()
	collection, err := db.GetOrCreateCollection("doc-"+uuid.NewString(), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := embedder.EmbedQuery(ctx, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %v", ErrEmbedding, chunk.ChunkID, err)
		}
		docs = append(docs, chromem.Document{
			ID:      "chunk-" + strconv.Itoa(chunk.ChunkID),
			Content: chunk.Content,
			Metadata: map[string]string{
				"source":   chunk.Source,
				"chunk_id": strconv.Itoa(chunk.ChunkID),
			},
			Embedding: embedding,
		})
	}
	if len(docs) > 0 {
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("failed to add documents: %w", err)
		}
	}

	log.Debug().Int("chunks", len(docs)).Msg("Built similarity index")
	return &Index{collection: collection, chunks: chunks}, nil
}

// Len reports the number of indexed chunks.
func (idx *Index) Len() int {
	return len(idx.chunks)
}

// Sample returns up to n chunks in document order.
func (idx *Index) Sample(n int) []models.Chunk {
	if n > len(idx.chunks) {
		n = len(idx.chunks)
	}
	return idx.chunks[:n]
}

// Search returns up to k chunks ranked by descending similarity to the
// query embedding. An empty index yields an empty result, not an error.
func (idx *Index) Search(ctx context.Context, queryEmbedding []float32, k int) ([]models.ScoredChunk, error) {
	if k <= 0 {
		k = DefaultTopK
	}
	if count := idx.collection.Count(); k > count {
		k = count
	}
	if k == 0 {
		return nil, nil
	}

	results, err := idx.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: queryEmbedding,
		NResults:       k,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %w", err)
	}

	scored := make([]models.ScoredChunk, 0, len(results))
	for _, res := range results {
		chunkID, _ := strconv.Atoi(res.Metadata["chunk_id"])
		scored = append(scored, models.ScoredChunk{
			Chunk: models.Chunk{
				Content: res.Content,
				Source:  res.Metadata["source"],
				ChunkID: chunkID,
			},
			Similarity: res.Similarity,
		})
	}
	return scored, nil
}
