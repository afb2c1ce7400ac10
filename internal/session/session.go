package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"document-qa/internal/chunker"
	"document-qa/internal/extractor"
	"document-qa/internal/index"
	"document-qa/internal/models"
)

var (
	ErrNoDocument    = errors.New("no document loaded")
	ErrEmptyQuestion = errors.New("question cannot be empty")
	ErrStaleSession  = errors.New("document was replaced while the question was being answered")
)

// State of the single conversation slot.
type State string

const (
	StateEmpty      State = "EMPTY"
	StateReady      State = "READY"
	StateConversing State = "CONVERSING"
)

// Document is the immutable snapshot installed by a successful upload.
type Document struct {
	ID       string
	Filename string
	FileType string
	Summary  string
	Index    *index.Index
}

// Pipeline is the retrieval and generation engine the manager drives.
// Implemented by rag.RAG.
type Pipeline interface {
	Answer(ctx context.Context, idx *index.Index, question string, turns []models.Turn) (string, error)
	Summarize(ctx context.Context, blocks []models.TextBlock) string
	SuggestQuestions(ctx context.Context, idx *index.Index) []string
}

// Manager owns the single active document and its conversation memory.
// The lock guards only the slot itself; extraction, embedding, and
// generation all run outside it.
type Manager struct {
	mu    sync.Mutex
	doc   *Document
	turns []models.Turn

	embedder     index.Embedder
	pipeline     Pipeline
	chunkSize    int
	chunkOverlap int
}

func NewManager(embedder index.Embedder, pipeline Pipeline, chunkSize, chunkOverlap int) *Manager {
	if chunkSize <= 0 {
		chunkSize = chunker.DefaultSize
		chunkOverlap = chunker.DefaultOverlap
	}
	return &Manager{
		embedder:     embedder,
		pipeline:     pipeline,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Upload extracts, chunks, indexes, and summarizes the file, then swaps the
// new document into the slot and resets the conversation memory. Any failure
// before the swap leaves the previous document and its memory untouched.
func (m *Manager) Upload(ctx context.Context, filename string, data []byte) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	blocks, err := extractor.Extract(data, ext)
	if err != nil {
		return nil, err
	}
	chunks, err := chunker.Split(blocks, m.chunkSize, m.chunkOverlap)
	if err != nil {
		return nil, err
	}
	idx, err := index.Build(ctx, m.embedder, chunks)
	if err != nil {
		return nil, err
	}

	// summary failure is downgraded inside Summarize, never aborts the upload
	summary := m.pipeline.Summarize(ctx, blocks)

	doc := &Document{
		ID:       uuid.NewString(),
		Filename: filename,
		FileType: strings.ToUpper(strings.TrimPrefix(ext, ".")),
		Summary:  summary,
		Index:    idx,
	}

	m.mu.Lock()
	m.doc = doc
	m.turns = nil
	m.mu.Unlock()

	log.Info().Str("filename", filename).Int("chunks", idx.Len()).Msg("Document processed and stored")
	return doc, nil
}

// Ask answers a question against the active document and appends the turn to
// memory. External calls run outside the lock against a snapshot; if a
// concurrent upload replaced the document meanwhile, the in-flight answer is
// discarded and ErrStaleSession reported instead of appending to the wrong
// conversation.
func (m *Manager) Ask(ctx context.Context, question string) (string, error) {
	m.mu.Lock()
	doc := m.doc
	turns := append([]models.Turn(nil), m.turns...)
	m.mu.Unlock()

	if doc == nil {
		return "", ErrNoDocument
	}
	if strings.TrimSpace(question) == "" {
		return "", ErrEmptyQuestion
	}

	answer, err := m.pipeline.Answer(ctx, doc.Index, question, turns)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.doc == nil || m.doc.ID != doc.ID {
		return "", ErrStaleSession
	}
	m.turns = append(m.turns, models.Turn{Question: question, Answer: answer})
	return answer, nil
}

// Document returns the active document snapshot, or nil when the slot is
// empty.
func (m *Manager) Document() *Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc
}

// History returns the conversation as ordered messages alternating
// user/assistant, starting with user.
func (m *Manager) History() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.Messages(m.turns)
}

// SuggestedQuestions returns three candidate questions for the active
// document.
func (m *Manager) SuggestedQuestions(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	doc := m.doc
	m.mu.Unlock()

	if doc == nil {
		return nil, ErrNoDocument
	}
	return m.pipeline.SuggestQuestions(ctx, doc.Index), nil
}

// State reports the slot's lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.doc == nil:
		return StateEmpty
	case len(m.turns) == 0:
		return StateReady
	default:
		return StateConversing
	}
}
