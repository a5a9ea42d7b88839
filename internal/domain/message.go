package domain

import "context"

// Message is one chat line on a job thread. From is the sender's role, so every
// seeker writing on the same job shares one thread.
type Message struct {
	JobID     string      `json:"job_id"`
	From      AccountType `json:"from"`
	Text      string      `json:"text"`
	Timestamp int64       `json:"timestamp"` // epoch milliseconds
	Read      bool        `json:"is_read"`
}

type MessageRepository interface {
	Fetch(ctx context.Context) (messages []Message, found bool, err error)
	Store(ctx context.Context, messages []Message) error
}

type MessageUsecase interface {
	AddMessage(ctx context.Context, jobID string, from AccountType, text string) (*Message, error)
	// MessagesForJob is sorted ascending by timestamp.
	MessagesForJob(ctx context.Context, jobID string) []Message
	// MarkMessagesAsRead flags the counterparty's messages on the job as read
	// and returns how many changed.
	MarkMessagesAsRead(ctx context.Context, jobID string) (int, error)
	Messages(ctx context.Context) []Message
}
