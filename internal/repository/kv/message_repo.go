package kv

import (
	"context"

	"koryob-backend/internal/domain"
	"koryob-backend/internal/metrics"
	"koryob-backend/pkg/kvstore"
)

type messageRepo struct {
	storage  kvstore.Storage
	recorder metrics.Recorder
}

func NewMessageRepository(storage kvstore.Storage, recorder metrics.Recorder) domain.MessageRepository {
	return &messageRepo{storage: storage, recorder: recorder}
}

func (r *messageRepo) Fetch(ctx context.Context) ([]domain.Message, bool, error) {
	r.recorder.RecordStoreOperation("messages", opLoad)
	var messages []domain.Message
	found, err := r.storage.Load(ctx, KeyMessages, &messages)
	if err != nil {
		r.recorder.RecordStorageError("messages", opLoad)
		return nil, found, loadErr(err)
	}
	return messages, found, nil
}

func (r *messageRepo) Store(ctx context.Context, messages []domain.Message) error {
	r.recorder.RecordStoreOperation("messages", opSave)
	if messages == nil {
		messages = []domain.Message{}
	}
	if err := r.storage.Save(ctx, KeyMessages, messages); err != nil {
		r.recorder.RecordStorageError("messages", opSave)
		return err
	}
	return nil
}
