package usecase

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"koryob-backend/internal/domain"
)

// Placeholder identity shown to employers; threads do not record which seeker wrote.
const (
	ApplicantName      = "Random applicant"
	applicantAvatarURL = "https://i.pravatar.cc/150?u=applicant%s"
	defaultEmployer    = "Employer"
	unknownJobTitle    = "Unknown job"
)

type conversationUsecase struct {
	authUC    domain.AuthUsecase
	jobUC     domain.JobUsecase
	messageUC domain.MessageUsecase
}

func NewConversationUsecase(authUC domain.AuthUsecase, jobUC domain.JobUsecase, messageUC domain.MessageUsecase) domain.ConversationUsecase {
	return &conversationUsecase{authUC: authUC, jobUC: jobUC, messageUC: messageUC}
}

// Conversations is recomputed from the current snapshots on every call.
func (u *conversationUsecase) Conversations(ctx context.Context) []domain.Conversation {
	conversations := make([]domain.Conversation, 0)

	user := u.authUC.CurrentUser(ctx)
	if user == nil {
		return conversations
	}

	jobs := u.jobUC.Jobs(ctx)
	byJob := make(map[string][]domain.Message)
	for _, m := range u.messageUC.Messages(ctx) {
		byJob[m.JobID] = append(byJob[m.JobID], m)
	}

	for _, job := range jobs {
		if user.AccountType == domain.AccountEmployer && job.OwnerID != user.ID {
			continue
		}
		thread := byJob[job.ID]
		if len(thread) == 0 {
			continue
		}

		last := thread[0]
		unread := 0
		for _, m := range thread {
			if m.Timestamp > last.Timestamp {
				last = m
			}
			if !m.Read && m.From != user.AccountType {
				unread++
			}
		}

		title := job.Title
		if title == "" {
			title = unknownJobTitle
		}

		conversations = append(conversations, domain.Conversation{
			JobID:       job.ID,
			JobTitle:    title,
			Partner:     partnerFor(user.AccountType, job),
			LastMessage: last.Text,
			UnreadCount: unread,
			Timestamp:   last.Timestamp,
		})
	}

	slices.SortStableFunc(conversations, func(a, b domain.Conversation) int {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	})
	return conversations
}

func partnerFor(viewer domain.AccountType, job domain.Job) domain.ConversationPartner {
	if viewer == domain.AccountEmployer {
		return domain.ConversationPartner{
			Name:     ApplicantName,
			Avatar:   fmt.Sprintf(applicantAvatarURL, job.ID),
			Fallback: firstRune(ApplicantName),
		}
	}

	name := job.CompanyName
	if name == "" {
		name = defaultEmployer
	}
	return domain.ConversationPartner{
		Name:     name,
		Avatar:   job.CompanyLogo.ImageURL,
		Fallback: firstRune(name),
	}
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
