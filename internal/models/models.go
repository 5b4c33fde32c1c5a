package models

// Chunk represents one bounded-size piece of an uploaded document
type Chunk struct {
	Content string
	Index   int
	Start   int
}

// HistoryEntry is one recorded question/answer exchange
type HistoryEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ChatMessage is the transport-level message used when a client replays the
// conversation for display
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// UploadSummary reports the outcome of a successful ingestion
type UploadSummary struct {
	Filename   string `json:"filename"`
	ChunkCount int    `json:"chunks"`
}
