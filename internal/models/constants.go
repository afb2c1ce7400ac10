package models

const (
	QASystemPrompt = "You are a helpful assistant. Use the provided context to answer the query."

	NoRelevantContentAnswer = "I couldn't find any relevant information in the document to answer your question."
	NoMeaningfulAnswer      = "I couldn't generate a meaningful answer to your question."
)

var (
	QAPromptTemplate = `Context:
%s
Query: %s`

	MapSummaryPromptTemplate = `Write a concise summary of the following:

%s

CONCISE SUMMARY:`

	ReduceSummaryPromptTemplate = `The following is a set of partial summaries of one document:

%s

Distill them into a single consolidated summary of the document.

CONSOLIDATED SUMMARY:`

	SuggestPromptTemplate = `Based on the following document content, generate 3 relevant and interesting questions that someone might ask about this document.
Make the questions specific and insightful. Return only the questions, one per line, without numbering.

Document content:
%s

Generate 3 questions:`
)

// PadQuestions tops up the suggested-question list when the backend returns
// fewer than three usable lines.
var PadQuestions = []string{
	"What are the main conclusions?",
	"What are the key findings?",
	"Can you explain the important concepts?",
}

// FallbackQuestions is returned whenever suggestion generation fails outright.
var FallbackQuestions = []string{
	"What is this document about?",
	"What are the main topics discussed?",
	"Can you summarize the key points?",
}
