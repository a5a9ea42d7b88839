package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"koryob-backend/internal/domain"
	"koryob-backend/pkg/logger"

	"github.com/google/uuid"
)

type jobUsecase struct {
	repo   domain.JobRepository
	authUC domain.AuthUsecase

	now      func() time.Time
	pickLogo func() domain.CompanyLogo

	mu   sync.Mutex
	jobs []domain.Job // most recent first
}

// NewJobUsecase loads the job list. A missing or corrupt list is replaced by
// an empty one, which is written back. Any other read error is returned and
// nothing is written.
func NewJobUsecase(ctx context.Context, repo domain.JobRepository, authUC domain.AuthUsecase) (domain.JobUsecase, error) {
	jobs, found, err := repo.Fetch(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		logger.Log.Error("Failed to parse jobs from storage", "error", err)
		jobs, found = nil, false
	case err != nil:
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	if !found {
		if err := repo.Store(ctx, []domain.Job{}); err != nil {
			logger.Log.Error("Failed to initialize job storage", "error", err)
		}
	}

	return &jobUsecase{
		repo:   repo,
		authUC: authUC,
		now:    time.Now,
		pickLogo: func() domain.CompanyLogo {
			return domain.StockCompanyLogos[rand.IntN(len(domain.StockCompanyLogos))]
		},
		jobs: jobs,
	}, nil
}

func (u *jobUsecase) AddJob(ctx context.Context, in domain.JobInput) (*domain.Job, error) {
	user := u.authUC.CurrentUser(ctx)
	if user == nil {
		logger.Log.Error("Cannot add job. User is not authenticated.")
		return nil, nil
	}

	job := domain.Job{
		ID:               uuid.NewString(),
		OwnerID:          user.ID,
		Title:            in.Title,
		CompanyName:      in.CompanyName,
		Location:         in.Location,
		Salary:           in.Salary,
		Type:             domain.JobFullTime,
		Description:      in.Description,
		Responsibilities: slices.Clone(domain.DefaultResponsibilities),
		Qualifications:   slices.Clone(domain.DefaultQualifications),
		CompanyLogo:      u.pickLogo(),
		PostedDate:       u.now().UTC().Format(time.RFC3339),
		Views:            0,
		Status:           domain.JobOpen,
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	jobs := append([]domain.Job{job}, u.jobs...)
	if err := u.repo.Store(ctx, jobs); err != nil {
		return nil, fmt.Errorf("save jobs: %w", err)
	}
	u.jobs = jobs

	created := job.Clone()
	return &created, nil
}

func (u *jobUsecase) IncrementViews(ctx context.Context, jobID string) error {
	return u.update(ctx, jobID, func(j *domain.Job) {
		j.Views++
	})
}

func (u *jobUsecase) ToggleJobStatus(ctx context.Context, jobID string) error {
	return u.update(ctx, jobID, func(j *domain.Job) {
		if j.Status == domain.JobOpen {
			j.Status = domain.JobFilled
		} else {
			j.Status = domain.JobOpen
		}
	})
}

// DeleteJob has no ownership check; callers enforce who may delete.
func (u *jobUsecase) DeleteJob(ctx context.Context, jobID string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.indexOf(jobID) < 0 {
		return nil
	}
	jobs := slices.DeleteFunc(slices.Clone(u.jobs), func(j domain.Job) bool { return j.ID == jobID })
	if err := u.repo.Store(ctx, jobs); err != nil {
		return fmt.Errorf("save jobs: %w", err)
	}
	u.jobs = jobs
	return nil
}

func (u *jobUsecase) Jobs(ctx context.Context) []domain.Job {
	u.mu.Lock()
	defer u.mu.Unlock()
	return cloneJobs(u.jobs, nil)
}

func (u *jobUsecase) JobsByOwner(ctx context.Context, ownerID string) []domain.Job {
	u.mu.Lock()
	defer u.mu.Unlock()
	return cloneJobs(u.jobs, func(j domain.Job) bool { return j.OwnerID == ownerID })
}

func (u *jobUsecase) GetJob(ctx context.Context, jobID string) (*domain.Job, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := u.indexOf(jobID)
	if idx < 0 {
		return nil, domain.ErrJobNotFound
	}
	job := u.jobs[idx].Clone()
	return &job, nil
}

// update applies fn to the matching job and persists. Unknown ids are a no-op.
func (u *jobUsecase) update(ctx context.Context, jobID string, fn func(*domain.Job)) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := u.indexOf(jobID)
	if idx < 0 {
		return nil
	}
	jobs := slices.Clone(u.jobs)
	fn(&jobs[idx])
	if err := u.repo.Store(ctx, jobs); err != nil {
		return fmt.Errorf("save jobs: %w", err)
	}
	u.jobs = jobs
	return nil
}

// Caller holds u.mu.
func (u *jobUsecase) indexOf(jobID string) int {
	return slices.IndexFunc(u.jobs, func(j domain.Job) bool { return j.ID == jobID })
}

func cloneJobs(jobs []domain.Job, keep func(domain.Job) bool) []domain.Job {
	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		if keep == nil || keep(j) {
			out = append(out, j.Clone())
		}
	}
	return out
}
