package usecase

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"koryob-backend/internal/domain"
	"koryob-backend/pkg/logger"
)

type messageUsecase struct {
	repo   domain.MessageRepository
	authUC domain.AuthUsecase
	now    func() time.Time

	mu       sync.Mutex
	messages []domain.Message
}

// NewMessageUsecase loads the message list. Like jobs, only a missing or
// corrupt list is reset to empty.
func NewMessageUsecase(ctx context.Context, repo domain.MessageRepository, authUC domain.AuthUsecase) (domain.MessageUsecase, error) {
	messages, found, err := repo.Fetch(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		logger.Log.Error("Failed to parse messages from storage", "error", err)
		messages, found = nil, false
	case err != nil:
		return nil, fmt.Errorf("load messages: %w", err)
	}
	if !found {
		if err := repo.Store(ctx, []domain.Message{}); err != nil {
			logger.Log.Error("Failed to initialize message storage", "error", err)
		}
	}

	return &messageUsecase{
		repo:     repo,
		authUC:   authUC,
		now:      time.Now,
		messages: messages,
	}, nil
}

// AddMessage does not check that the job exists or that from matches the session.
func (u *messageUsecase) AddMessage(ctx context.Context, jobID string, from domain.AccountType, text string) (*domain.Message, error) {
	msg := domain.Message{
		JobID:     jobID,
		From:      from,
		Text:      text,
		Timestamp: u.now().UnixMilli(),
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	messages := append(slices.Clone(u.messages), msg)
	if err := u.repo.Store(ctx, messages); err != nil {
		return nil, fmt.Errorf("save messages: %w", err)
	}
	u.messages = messages
	return &msg, nil
}

func (u *messageUsecase) MessagesForJob(ctx context.Context, jobID string) []domain.Message {
	u.mu.Lock()
	thread := make([]domain.Message, 0)
	for _, m := range u.messages {
		if m.JobID == jobID {
			thread = append(thread, m)
		}
	}
	u.mu.Unlock()

	slices.SortStableFunc(thread, func(a, b domain.Message) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	return thread
}

func (u *messageUsecase) MarkMessagesAsRead(ctx context.Context, jobID string) (int, error) {
	viewer := u.authUC.CurrentUser(ctx)
	if viewer == nil {
		return 0, nil
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	messages := slices.Clone(u.messages)
	changed := 0
	for i := range messages {
		m := &messages[i]
		if m.JobID == jobID && m.From != viewer.AccountType && !m.Read {
			m.Read = true
			changed++
		}
	}
	if changed == 0 {
		return 0, nil
	}

	if err := u.repo.Store(ctx, messages); err != nil {
		return 0, fmt.Errorf("save messages: %w", err)
	}
	u.messages = messages
	return changed, nil
}

func (u *messageUsecase) Messages(ctx context.Context) []domain.Message {
	u.mu.Lock()
	defer u.mu.Unlock()
	return slices.Clone(u.messages)
}
