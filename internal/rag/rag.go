package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"document-qa/internal/index"
	"document-qa/internal/models"
)

// Generator produces text from the inference backend. Implemented by
// llm.Client; faked in tests.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithHistory(ctx context.Context, turns []models.Turn, prompt string) (string, error)
}

// RAG drives retrieval and answer synthesis over a document index.
type RAG struct {
	embedder  index.Embedder
	generator Generator
	topK      int
}

func New(embedder index.Embedder, generator Generator, topK int) *RAG {
	if topK <= 0 {
		topK = index.DefaultTopK
	}
	return &RAG{embedder: embedder, generator: generator, topK: topK}
}

// Retrieve embeds the question and returns the top-k most similar chunks.
func (r *RAG) Retrieve(ctx context.Context, idx *index.Index, question string) ([]models.ScoredChunk, error) {
	queryEmbedding, err := r.embedder.EmbedQuery(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", index.ErrEmbedding, err)
	}
	return idx.Search(ctx, queryEmbedding, r.topK)
}

// Answer retrieves context for the question and synthesizes a reply.
// Retrieval always runs against the raw question; follow-up resolution is
// delegated to the history-conditioned generation call. Empty retrieval and
// blank generations yield fixed fallback strings rather than errors.
func (r *RAG) Answer(ctx context.Context, idx *index.Index, question string, turns []models.Turn) (string, error) {
	scored, err := r.Retrieve(ctx, idx, question)
	if err != nil {
		return "", err
	}
	if len(scored) == 0 {
		return models.NoRelevantContentAnswer, nil
	}
	log.Debug().Int("chunks", len(scored)).Msg("Retrieved relevant chunks")

	var contextText strings.Builder
	for _, sc := range scored {
		contextText.WriteString(sc.Chunk.Content)
		contextText.WriteString("\n\n")
	}
	prompt := fmt.Sprintf(models.QAPromptTemplate, contextText.String(), question)

	answer, err := r.generator.GenerateWithHistory(ctx, turns, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(answer) == "" {
		return models.NoMeaningfulAnswer, nil
	}
	return answer, nil
}
