package kv

import (
	"context"

	"koryob-backend/internal/domain"
	"koryob-backend/internal/metrics"
	"koryob-backend/pkg/kvstore"
)

type userRepo struct {
	storage  kvstore.Storage
	recorder metrics.Recorder
}

func NewUserRepository(storage kvstore.Storage, recorder metrics.Recorder) domain.UserRepository {
	return &userRepo{storage: storage, recorder: recorder}
}

func (r *userRepo) FetchUsers(ctx context.Context) ([]domain.StoredUser, error) {
	r.recorder.RecordStoreOperation("users", opLoad)
	var users []domain.StoredUser
	if _, err := r.storage.Load(ctx, KeyUsers, &users); err != nil {
		r.recorder.RecordStorageError("users", opLoad)
		return nil, loadErr(err)
	}
	return users, nil
}

func (r *userRepo) StoreUsers(ctx context.Context, users []domain.StoredUser) error {
	r.recorder.RecordStoreOperation("users", opSave)
	if err := r.storage.Save(ctx, KeyUsers, users); err != nil {
		r.recorder.RecordStorageError("users", opSave)
		return err
	}
	return nil
}

func (r *userRepo) FetchSession(ctx context.Context, clientID string) (*domain.User, error) {
	r.recorder.RecordStoreOperation("session", opLoad)
	var user domain.User
	found, err := r.storage.Load(ctx, clientKey(KeySession, clientID), &user)
	if err != nil {
		r.recorder.RecordStorageError("session", opLoad)
		return nil, loadErr(err)
	}
	if !found {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepo) StoreSession(ctx context.Context, clientID string, user *domain.User) error {
	r.recorder.RecordStoreOperation("session", opSave)
	if err := r.storage.Save(ctx, clientKey(KeySession, clientID), user); err != nil {
		r.recorder.RecordStorageError("session", opSave)
		return err
	}
	return nil
}

func (r *userRepo) DeleteSession(ctx context.Context, clientID string) error {
	r.recorder.RecordStoreOperation("session", opDelete)
	if err := r.storage.Delete(ctx, clientKey(KeySession, clientID)); err != nil {
		r.recorder.RecordStorageError("session", opDelete)
		return err
	}
	return nil
}
