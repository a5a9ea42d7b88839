package usecase_test

import (
	"context"
	"testing"

	"koryob-backend/internal/domain"
	"koryob-backend/internal/repository/kv"
	"koryob-backend/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessages(t *testing.T, storage kvstore.Storage, messages ...domain.Message) {
	t.Helper()
	require.NoError(t, storage.Save(context.Background(), kv.KeyMessages, messages))
}

func TestAddMessage(t *testing.T) {
	storage := kvstore.NewMemory()
	s := newStores(t, storage)
	ctx := clientCtx("c1")

	for _, text := range []string{"hello", "is it open?", "yes"} {
		msg, err := s.messages.AddMessage(ctx, "job-1", domain.AccountSeeker, text)
		require.NoError(t, err)
		assert.Equal(t, "job-1", msg.JobID)
		assert.False(t, msg.Read)
		assert.Positive(t, msg.Timestamp)
	}
	_, err := s.messages.AddMessage(ctx, "job-2", domain.AccountEmployer, "other thread")
	require.NoError(t, err)

	thread := s.messages.MessagesForJob(ctx, "job-1")
	require.Len(t, thread, 3)
	assert.Equal(t, "hello", thread[0].Text)
	assert.Equal(t, "yes", thread[2].Text)

	assert.Len(t, s.messages.Messages(ctx), 4)
	assert.Empty(t, s.messages.MessagesForJob(ctx, "job-unknown"))

	restarted := newStores(t, storage)
	assert.Equal(t, s.messages.Messages(ctx), restarted.messages.Messages(ctx))
}

func TestMessagesForJobSortsByTimestamp(t *testing.T) {
	storage := kvstore.NewMemory()
	seedMessages(t, storage,
		domain.Message{JobID: "job-1", From: domain.AccountSeeker, Text: "third", Timestamp: 300},
		domain.Message{JobID: "job-1", From: domain.AccountEmployer, Text: "first", Timestamp: 100},
		domain.Message{JobID: "job-2", From: domain.AccountSeeker, Text: "elsewhere", Timestamp: 50},
		domain.Message{JobID: "job-1", From: domain.AccountSeeker, Text: "second", Timestamp: 200},
		domain.Message{JobID: "job-1", From: domain.AccountEmployer, Text: "second-tie", Timestamp: 200},
	)
	s := newStores(t, storage)

	thread := s.messages.MessagesForJob(context.Background(), "job-1")
	texts := make([]string, 0, len(thread))
	for _, m := range thread {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"first", "second", "second-tie", "third"}, texts)
}

func TestMarkMessagesAsRead(t *testing.T) {
	storage := kvstore.NewMemory()
	seedMessages(t, storage,
		domain.Message{JobID: "job-1", From: domain.AccountSeeker, Text: "hi", Timestamp: 100},
		domain.Message{JobID: "job-1", From: domain.AccountEmployer, Text: "hello", Timestamp: 200},
		domain.Message{JobID: "job-1", From: domain.AccountSeeker, Text: "still open?", Timestamp: 300},
		domain.Message{JobID: "job-2", From: domain.AccountSeeker, Text: "other", Timestamp: 400},
	)
	s := newStores(t, storage)

	t.Run("Should do nothing for anonymous clients", func(t *testing.T) {
		n, err := s.messages.MarkMessagesAsRead(clientCtx("anon"), "job-1")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	ctx := clientCtx("emp")
	register(t, s, ctx, "hr@somon.tj", domain.AccountEmployer)

	t.Run("Should mark only the counterparty's messages on that job", func(t *testing.T) {
		n, err := s.messages.MarkMessagesAsRead(ctx, "job-1")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		for _, m := range s.messages.Messages(ctx) {
			switch {
			case m.JobID == "job-1" && m.From == domain.AccountSeeker:
				assert.True(t, m.Read, m.Text)
			default:
				assert.False(t, m.Read, m.Text)
			}
		}
	})

	t.Run("Should report zero the second time", func(t *testing.T) {
		n, err := s.messages.MarkMessagesAsRead(ctx, "job-1")
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("Should persist the read flags", func(t *testing.T) {
		restarted := newStores(t, storage)
		thread := restarted.messages.MessagesForJob(ctx, "job-1")
		require.Len(t, thread, 3)
		assert.True(t, thread[0].Read)
		assert.False(t, thread[1].Read)
		assert.True(t, thread[2].Read)
	})
}
