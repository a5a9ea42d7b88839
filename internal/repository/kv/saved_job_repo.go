package kv

import (
	"context"

	"koryob-backend/internal/domain"
	"koryob-backend/internal/metrics"
	"koryob-backend/pkg/kvstore"
)

type savedJobRepo struct {
	storage  kvstore.Storage
	recorder metrics.Recorder
}

func NewSavedJobRepository(storage kvstore.Storage, recorder metrics.Recorder) domain.SavedJobRepository {
	return &savedJobRepo{storage: storage, recorder: recorder}
}

func (r *savedJobRepo) Fetch(ctx context.Context, clientID string) ([]string, error) {
	r.recorder.RecordStoreOperation("saved_jobs", opLoad)
	var ids []string
	if _, err := r.storage.Load(ctx, clientKey(KeySavedJobs, clientID), &ids); err != nil {
		r.recorder.RecordStorageError("saved_jobs", opLoad)
		return nil, loadErr(err)
	}
	return ids, nil
}

func (r *savedJobRepo) Store(ctx context.Context, clientID string, jobIDs []string) error {
	r.recorder.RecordStoreOperation("saved_jobs", opSave)
	if jobIDs == nil {
		jobIDs = []string{}
	}
	if err := r.storage.Save(ctx, clientKey(KeySavedJobs, clientID), jobIDs); err != nil {
		r.recorder.RecordStorageError("saved_jobs", opSave)
		return err
	}
	return nil
}
