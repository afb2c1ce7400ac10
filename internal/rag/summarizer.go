package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"document-qa/internal/models"
)

// Summarize produces a document-level summary with a map-reduce pass: each
// block is summarized on its own, then the partial summaries are distilled
// into one. Failures never propagate; the caller gets a descriptive string
// instead, so a bad summary cannot sink an upload.
func (r *RAG) Summarize(ctx context.Context, blocks []models.TextBlock) string {
	partials := make([]string, 0, len(blocks))
	for _, block := range blocks {
		if strings.TrimSpace(block.Content) == "" {
			continue
		}
		partial, err := r.generator.Generate(ctx, fmt.Sprintf(models.MapSummaryPromptTemplate, block.Content))
		if err != nil {
			log.Error().Err(err).Msg("Error generating summary")
			return fmt.Sprintf("Could not generate summary: %v", err)
		}
		partials = append(partials, strings.TrimSpace(partial))
	}
	if len(partials) == 0 {
		return "No content available to summarize."
	}
	if len(partials) == 1 {
		return partials[0]
	}

	summary, err := r.generator.Generate(ctx, fmt.Sprintf(models.ReduceSummaryPromptTemplate, strings.Join(partials, "\n\n")))
	if err != nil {
		log.Error().Err(err).Msg("Error generating summary")
		return fmt.Sprintf("Could not generate summary: %v", err)
	}
	return strings.TrimSpace(summary)
}
