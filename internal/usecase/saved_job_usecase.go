package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"koryob-backend/internal/domain"
	"koryob-backend/pkg/logger"
)

// savedJobUsecase keeps no per-client state; storage is read on every call,
// so any number of clients costs no memory.
type savedJobUsecase struct {
	repo domain.SavedJobRepository

	// mu serializes read-modify-write cycles against storage.
	mu sync.Mutex
}

func NewSavedJobUsecase(repo domain.SavedJobRepository) domain.SavedJobUsecase {
	return &savedJobUsecase{repo: repo}
}

func (u *savedJobUsecase) SavedJobs(ctx context.Context) []string {
	ids, err := u.load(ctx)
	if err != nil {
		logger.Log.Error("Failed to read saved jobs from storage", "client_id", domain.ClientIDFromContext(ctx), "error", err)
		return nil
	}
	return ids
}

func (u *savedJobUsecase) IsSaved(ctx context.Context, jobID string) bool {
	return slices.Contains(u.SavedJobs(ctx), jobID)
}

func (u *savedJobUsecase) Save(ctx context.Context, jobID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	ids, err := u.load(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, jobID) {
		return nil
	}
	return u.store(ctx, append(ids, jobID))
}

func (u *savedJobUsecase) Remove(ctx context.Context, jobID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	ids, err := u.load(ctx)
	if err != nil {
		return err
	}
	if !slices.Contains(ids, jobID) {
		return nil
	}
	return u.store(ctx, slices.DeleteFunc(ids, func(id string) bool { return id == jobID }))
}

func (u *savedJobUsecase) Toggle(ctx context.Context, jobID string) (bool, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	ids, err := u.load(ctx)
	if err != nil {
		return false, err
	}
	if slices.Contains(ids, jobID) {
		next := slices.DeleteFunc(ids, func(id string) bool { return id == jobID })
		return false, u.store(ctx, next)
	}
	if err := u.store(ctx, append(ids, jobID)); err != nil {
		return false, err
	}
	return true, nil
}

// load reads the client's list. A corrupt record reads as empty; any other
// error is returned so callers never write over a list they could not read.
func (u *savedJobUsecase) load(ctx context.Context) ([]string, error) {
	clientID := domain.ClientIDFromContext(ctx)
	ids, err := u.repo.Fetch(ctx, clientID)
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		logger.Log.Error("Failed to parse saved jobs from storage", "client_id", clientID, "error", err)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return ids, nil
}

func (u *savedJobUsecase) store(ctx context.Context, ids []string) error {
	if err := u.repo.Store(ctx, domain.ClientIDFromContext(ctx), ids); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	return nil
}
