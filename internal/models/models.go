package models

// TextBlock is one ordered unit of extracted document text. Order of blocks
// matches document order.
type TextBlock struct {
	Content string
	Source  string
}

// Chunk is a fixed-size slice of a TextBlock with metadata
type Chunk struct {
	Content string
	Source  string
	ChunkID int
}

// ScoredChunk is a retrieved chunk ranked by similarity to a query.
type ScoredChunk struct {
	Chunk      Chunk
	Similarity float32
}

// Turn is one question/answer exchange in a conversation.
type Turn struct {
	Question string
	Answer   string
}

// Message is a single chat message as exposed over the history endpoint.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Messages flattens turns into positional user/assistant alternation:
// N turns yield 2N messages, even positions user, odd positions assistant.
func Messages(turns []Turn) []Message {
	msgs := make([]Message, 0, 2*len(turns))
	for _, t := range turns {
		msgs = append(msgs, Message{Role: RoleUser, Content: t.Question})
		msgs = append(msgs, Message{Role: RoleAssistant, Content: t.Answer})
	}
	return msgs
}
