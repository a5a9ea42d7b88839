package domain

import "context"

type ConversationPartner struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Fallback string `json:"fallback"`
}

// Conversation summarizes one job thread for the current viewer. It is derived
// on every read and never stored.
type Conversation struct {
	JobID       string              `json:"job_id"`
	JobTitle    string              `json:"job_title"`
	Partner     ConversationPartner `json:"partner"`
	LastMessage string              `json:"last_message"`
	UnreadCount int                 `json:"unread_count"`
	Timestamp   int64               `json:"timestamp"`
}

type ConversationUsecase interface {
	Conversations(ctx context.Context) []Conversation
}
