package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"document-qa/internal/index"
	"document-qa/internal/models"
)

type fakeEmbedder struct{}

func (f *fakeEmbedder) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 27)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	vec[26] = 0.01
	return vec, nil
}

type fakePipeline struct {
	answer    string
	answerErr error
	onAnswer  func()
	summary   string
}

func (p *fakePipeline) Answer(_ context.Context, _ *index.Index, _ string, _ []models.Turn) (string, error) {
	if p.onAnswer != nil {
		p.onAnswer()
	}
	return p.answer, p.answerErr
}

func (p *fakePipeline) Summarize(_ context.Context, _ []models.TextBlock) string {
	return p.summary
}

func (p *fakePipeline) SuggestQuestions(_ context.Context, _ *index.Index) []string {
	return append([]string(nil), models.FallbackQuestions...)
}

func newTestManager(pipeline *fakePipeline) *Manager {
	return NewManager(&fakeEmbedder{}, pipeline, 1000, 100)
}

func uploadText(t *testing.T, m *Manager, filename, text string) *Document {
	t.Helper()
	doc, err := m.Upload(context.Background(), filename, []byte(text))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	return doc
}

func TestAsk_NoDocument(t *testing.T) {
	m := newTestManager(&fakePipeline{answer: "unused"})

	for _, question := range []string{"What is this?", "", "   "} {
		if _, err := m.Ask(context.Background(), question); !errors.Is(err, ErrNoDocument) {
			t.Errorf("Ask(%q) error = %v, want ErrNoDocument", question, err)
		}
	}
}

func TestUpload_SetsReadyState(t *testing.T) {
	m := newTestManager(&fakePipeline{summary: "a summary"})

	doc := uploadText(t, m, "notes.txt", "Hello world. This is a test document about cats.")
	if m.State() != StateReady {
		t.Errorf("State() = %v, want READY", m.State())
	}
	if doc.FileType != "TXT" {
		t.Errorf("FileType = %q, want TXT", doc.FileType)
	}
	if doc.Summary != "a summary" {
		t.Errorf("Summary = %q", doc.Summary)
	}
	if doc.Index == nil || doc.Index.Len() == 0 {
		t.Error("document has no index entries")
	}
	if len(m.History()) != 0 {
		t.Error("fresh upload should have empty history")
	}
}

func TestAsk_EmptyQuestion(t *testing.T) {
	m := newTestManager(&fakePipeline{answer: "unused"})
	uploadText(t, m, "notes.txt", "Some document content here.")

	for _, question := range []string{"", "   ", "\n\t"} {
		if _, err := m.Ask(context.Background(), question); !errors.Is(err, ErrEmptyQuestion) {
			t.Errorf("Ask(%q) error = %v, want ErrEmptyQuestion", question, err)
		}
	}
}

func TestAsk_AppendsTurns(t *testing.T) {
	m := newTestManager(&fakePipeline{answer: "the answer"})
	uploadText(t, m, "notes.txt", "Some document content here.")

	const n = 3
	for i := 0; i < n; i++ {
		answer, err := m.Ask(context.Background(), fmt.Sprintf("question %d", i))
		if err != nil {
			t.Fatalf("Ask() error = %v", err)
		}
		if answer != "the answer" {
			t.Errorf("answer = %q", answer)
		}
	}

	if m.State() != StateConversing {
		t.Errorf("State() = %v, want CONVERSING", m.State())
	}
	history := m.History()
	if len(history) != 2*n {
		t.Fatalf("history has %d messages, want %d", len(history), 2*n)
	}
	for i, msg := range history {
		wantRole := models.RoleUser
		if i%2 == 1 {
			wantRole = models.RoleAssistant
		}
		if msg.Role != wantRole {
			t.Errorf("message %d role = %q, want %q", i, msg.Role, wantRole)
		}
	}
	if history[0].Content != "question 0" {
		t.Errorf("history[0] = %q, want the first question", history[0].Content)
	}
}

func TestAsk_GenerationErrorNotRecorded(t *testing.T) {
	genErr := errors.New("backend down")
	m := newTestManager(&fakePipeline{answerErr: genErr})
	uploadText(t, m, "notes.txt", "Some document content here.")

	if _, err := m.Ask(context.Background(), "question"); !errors.Is(err, genErr) {
		t.Fatalf("Ask() error = %v, want backend error", err)
	}
	if len(m.History()) != 0 {
		t.Error("failed ask must not append a turn")
	}
}

func TestUpload_ReplacesSessionAndMemory(t *testing.T) {
	m := newTestManager(&fakePipeline{answer: "answer"})

	first := uploadText(t, m, "first.txt", "First document content.")
	if _, err := m.Ask(context.Background(), "question"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	second := uploadText(t, m, "second.txt", "Second document content.")
	if second.ID == first.ID {
		t.Error("second upload reused the first document ID")
	}
	if m.State() != StateReady {
		t.Errorf("State() = %v, want READY after replacement", m.State())
	}
	if len(m.History()) != 0 {
		t.Error("memory not reset by replacement upload")
	}
	if m.Document().Filename != "second.txt" {
		t.Errorf("active document = %q, want second.txt", m.Document().Filename)
	}
}

func TestUpload_FailureLeavesSessionIntact(t *testing.T) {
	m := newTestManager(&fakePipeline{answer: "answer"})

	doc := uploadText(t, m, "first.txt", "First document content.")
	if _, err := m.Ask(context.Background(), "question"); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if _, err := m.Upload(context.Background(), "bad.xyz", []byte("data")); err == nil {
		t.Fatal("Upload() expected error for unsupported extension")
	}
	if m.Document().ID != doc.ID {
		t.Error("failed upload replaced the active document")
	}
	if len(m.History()) != 2 {
		t.Error("failed upload disturbed the conversation memory")
	}
}

func TestAsk_StaleSession(t *testing.T) {
	pipeline := &fakePipeline{answer: "stale answer"}
	m := newTestManager(pipeline)
	uploadText(t, m, "first.txt", "First document content.")

	// replace the document while the answer is in flight
	pipeline.onAnswer = func() {
		pipeline.onAnswer = nil
		uploadText(t, m, "second.txt", "Second document content.")
	}

	if _, err := m.Ask(context.Background(), "question"); !errors.Is(err, ErrStaleSession) {
		t.Fatalf("Ask() error = %v, want ErrStaleSession", err)
	}
	if len(m.History()) != 0 {
		t.Error("stale answer must not be appended to the new conversation")
	}
}

func TestSuggestedQuestions(t *testing.T) {
	m := newTestManager(&fakePipeline{})

	if _, err := m.SuggestedQuestions(context.Background()); !errors.Is(err, ErrNoDocument) {
		t.Fatalf("SuggestedQuestions() error = %v, want ErrNoDocument", err)
	}

	uploadText(t, m, "notes.txt", "Some document content here.")
	questions, err := m.SuggestedQuestions(context.Background())
	if err != nil {
		t.Fatalf("SuggestedQuestions() error = %v", err)
	}
	if len(questions) != 3 {
		t.Errorf("got %d questions, want 3", len(questions))
	}
}
