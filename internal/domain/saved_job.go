package domain

import "context"

type SavedJobRepository interface {
	Fetch(ctx context.Context, clientID string) ([]string, error)
	Store(ctx context.Context, clientID string, jobIDs []string) error
}

// SavedJobUsecase manages the bookmark list of the client in ctx.
type SavedJobUsecase interface {
	SavedJobs(ctx context.Context) []string
	IsSaved(ctx context.Context, jobID string) bool
	Save(ctx context.Context, jobID string) error
	Remove(ctx context.Context, jobID string) error
	// Toggle returns whether the job is saved afterwards.
	Toggle(ctx context.Context, jobID string) (bool, error)
}
