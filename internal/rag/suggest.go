package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"document-qa/internal/index"
	"document-qa/internal/models"
)

const (
	suggestSampleSize   = 5
	suggestContextLimit = 2000
	suggestCount        = 3
)

// SuggestQuestions samples chunks from the index and asks the backend for
// three candidate questions. It never fails outward: any problem, including
// an empty index or a backend error, yields the static fallback list, and
// short responses are padded to exactly three entries.
func (r *RAG) SuggestQuestions(ctx context.Context, idx *index.Index) []string {
	samples := idx.Sample(suggestSampleSize)
	if len(samples) == 0 {
		return fallbackQuestions()
	}

	contents := make([]string, 0, len(samples))
	for _, chunk := range samples {
		contents = append(contents, chunk.Content)
	}
	snippet := strings.Join(contents, "\n")
	if runes := []rune(snippet); len(runes) > suggestContextLimit {
		snippet = string(runes[:suggestContextLimit])
	}

	response, err := r.generator.Generate(ctx, fmt.Sprintf(models.SuggestPromptTemplate, snippet))
	if err != nil {
		log.Error().Err(err).Msg("Error generating suggested questions")
		return fallbackQuestions()
	}

	questions := make([]string, 0, suggestCount)
	for _, line := range strings.Split(response, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			questions = append(questions, line)
		}
	}
	if len(questions) < suggestCount {
		questions = append(questions, models.PadQuestions...)
	}
	return questions[:suggestCount]
}

func fallbackQuestions() []string {
	return append([]string(nil), models.FallbackQuestions...)
}
