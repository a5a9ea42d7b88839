package usecase_test

import (
	"context"
	"testing"
	"time"

	"koryob-backend/internal/domain"
	"koryob-backend/internal/repository/kv"
	"koryob-backend/pkg/kvstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedJobs(t *testing.T, storage kvstore.Storage) []domain.Job {
	t.Helper()
	var jobs []domain.Job
	found, err := storage.Load(context.Background(), kv.KeyJobs, &jobs)
	require.NoError(t, err)
	require.True(t, found)
	return jobs
}

func TestNewJobUsecaseInitializesStorage(t *testing.T) {
	storage := kvstore.NewMemory()
	s := newStores(t, storage)

	assert.Empty(t, s.jobs.Jobs(context.Background()))
	assert.Empty(t, storedJobs(t, storage), "an empty list is written on first start")
}

func TestAddJob(t *testing.T) {
	t.Run("Should refuse anonymous clients without persisting", func(t *testing.T) {
		storage := kvstore.NewMemory()
		s := newStores(t, storage)

		job, err := s.jobs.AddJob(clientCtx("anon"), sampleJob("Go Developer"))
		assert.NoError(t, err)
		assert.Nil(t, job)
		assert.Empty(t, storedJobs(t, storage))
	})

	t.Run("Should fill defaults and put the newest job first", func(t *testing.T) {
		storage := kvstore.NewMemory()
		s := newStores(t, storage)
		ctx := clientCtx("emp")
		owner := register(t, s, ctx, "hr@somon.tj", domain.AccountEmployer)

		titles := []string{"First", "Second", "Third"}
		for _, title := range titles {
			job, err := s.jobs.AddJob(ctx, sampleJob(title))
			require.NoError(t, err)
			require.NotNil(t, job)

			assert.NotEmpty(t, job.ID)
			assert.Equal(t, owner.ID, job.OwnerID)
			assert.Equal(t, domain.JobFullTime, job.Type)
			assert.Equal(t, domain.JobOpen, job.Status)
			assert.Zero(t, job.Views)
			assert.Equal(t, domain.DefaultResponsibilities, job.Responsibilities)
			assert.Equal(t, domain.DefaultQualifications, job.Qualifications)
			assert.Contains(t, domain.StockCompanyLogos, job.CompanyLogo)

			_, err = time.Parse(time.RFC3339, job.PostedDate)
			assert.NoError(t, err)
		}

		jobs := s.jobs.Jobs(ctx)
		require.Len(t, jobs, len(titles))
		assert.Equal(t, "Third", jobs[0].Title)
		assert.Equal(t, "First", jobs[2].Title)
		assert.Len(t, storedJobs(t, storage), len(titles))

		ids := map[string]bool{}
		for _, j := range jobs {
			ids[j.ID] = true
		}
		assert.Len(t, ids, len(titles), "ids are unique")
	})
}

func TestJobMutations(t *testing.T) {
	storage := kvstore.NewMemory()
	s := newStores(t, storage)
	ctx := clientCtx("emp")
	register(t, s, ctx, "hr@somon.tj", domain.AccountEmployer)
	job, err := s.jobs.AddJob(ctx, sampleJob("Backend Engineer"))
	require.NoError(t, err)

	t.Run("Should count every view", func(t *testing.T) {
		for range 5 {
			require.NoError(t, s.jobs.IncrementViews(ctx, job.ID))
		}
		got, err := s.jobs.GetJob(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, got.Views)
		assert.Equal(t, 5, storedJobs(t, storage)[0].Views)
	})

	t.Run("Should flip status and return on the second toggle", func(t *testing.T) {
		require.NoError(t, s.jobs.ToggleJobStatus(ctx, job.ID))
		got, _ := s.jobs.GetJob(ctx, job.ID)
		assert.Equal(t, domain.JobFilled, got.Status)

		require.NoError(t, s.jobs.ToggleJobStatus(ctx, job.ID))
		got, _ = s.jobs.GetJob(ctx, job.ID)
		assert.Equal(t, domain.JobOpen, got.Status)
	})

	t.Run("Should ignore unknown ids", func(t *testing.T) {
		before := s.jobs.Jobs(ctx)
		assert.NoError(t, s.jobs.IncrementViews(ctx, "missing"))
		assert.NoError(t, s.jobs.ToggleJobStatus(ctx, "missing"))
		assert.NoError(t, s.jobs.DeleteJob(ctx, "missing"))
		assert.Equal(t, before, s.jobs.Jobs(ctx))
	})

	t.Run("Should not leak internal state through returned jobs", func(t *testing.T) {
		got, _ := s.jobs.GetJob(ctx, job.ID)
		got.Responsibilities[0] = "changed"
		again, _ := s.jobs.GetJob(ctx, job.ID)
		assert.Equal(t, domain.DefaultResponsibilities[0], again.Responsibilities[0])
	})

	t.Run("Should delete the job", func(t *testing.T) {
		require.NoError(t, s.jobs.DeleteJob(ctx, job.ID))
		_, err := s.jobs.GetJob(ctx, job.ID)
		assert.ErrorIs(t, err, domain.ErrJobNotFound)
		assert.Empty(t, storedJobs(t, storage))
	})
}

func TestJobsByOwner(t *testing.T) {
	s := newStores(t, kvstore.NewMemory())
	a, b := clientCtx("a"), clientCtx("b")
	ownerA := register(t, s, a, "a@koryob.tj", domain.AccountEmployer)
	register(t, s, b, "b@koryob.tj", domain.AccountEmployer)

	_, err := s.jobs.AddJob(a, sampleJob("A1"))
	require.NoError(t, err)
	_, err = s.jobs.AddJob(b, sampleJob("B1"))
	require.NoError(t, err)
	_, err = s.jobs.AddJob(a, sampleJob("A2"))
	require.NoError(t, err)

	owned := s.jobs.JobsByOwner(a, ownerA.ID)
	require.Len(t, owned, 2)
	assert.Equal(t, "A2", owned[0].Title)
	assert.Equal(t, "A1", owned[1].Title)
	assert.Empty(t, s.jobs.JobsByOwner(a, "user-99"))
}

func TestJobsSurviveRestart(t *testing.T) {
	storage := kvstore.NewMemory()
	s := newStores(t, storage)
	ctx := clientCtx("emp")
	register(t, s, ctx, "hr@somon.tj", domain.AccountEmployer)
	_, err := s.jobs.AddJob(ctx, sampleJob("Old"))
	require.NoError(t, err)
	_, err = s.jobs.AddJob(ctx, sampleJob("New"))
	require.NoError(t, err)

	restarted := newStores(t, storage)
	assert.Equal(t, s.jobs.Jobs(ctx), restarted.jobs.Jobs(ctx))
}

func TestCorruptJobListStartsEmpty(t *testing.T) {
	backend := kvstore.NewMemoryBackend()
	require.NoError(t, backend.Put(context.Background(), kv.KeyJobs, []byte(`{"not":"a list"}`)))
	storage := kvstore.New(backend)

	s := newStores(t, storage)
	assert.Empty(t, s.jobs.Jobs(context.Background()))
	assert.Empty(t, storedJobs(t, storage), "the corrupt list is overwritten")
}
