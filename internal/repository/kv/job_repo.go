package kv

import (
	"context"

	"koryob-backend/internal/domain"
	"koryob-backend/internal/metrics"
	"koryob-backend/pkg/kvstore"
)

type jobRepo struct {
	storage  kvstore.Storage
	recorder metrics.Recorder
}

func NewJobRepository(storage kvstore.Storage, recorder metrics.Recorder) domain.JobRepository {
	return &jobRepo{storage: storage, recorder: recorder}
}

func (r *jobRepo) Fetch(ctx context.Context) ([]domain.Job, bool, error) {
	r.recorder.RecordStoreOperation("jobs", opLoad)
	var jobs []domain.Job
	found, err := r.storage.Load(ctx, KeyJobs, &jobs)
	if err != nil {
		r.recorder.RecordStorageError("jobs", opLoad)
		return nil, found, loadErr(err)
	}
	return jobs, found, nil
}

func (r *jobRepo) Store(ctx context.Context, jobs []domain.Job) error {
	r.recorder.RecordStoreOperation("jobs", opSave)
	if jobs == nil {
		jobs = []domain.Job{}
	}
	if err := r.storage.Save(ctx, KeyJobs, jobs); err != nil {
		r.recorder.RecordStorageError("jobs", opSave)
		return err
	}
	return nil
}
