package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"koryob-backend/internal/domain"
	"koryob-backend/internal/metrics"
	"koryob-backend/internal/repository/kv"
	"koryob-backend/internal/usecase"
	"koryob-backend/pkg/kvstore"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stores struct {
	storage  kvstore.Storage
	auth     domain.AuthUsecase
	jobs     domain.JobUsecase
	messages domain.MessageUsecase
	convos   domain.ConversationUsecase
	saved    domain.SavedJobUsecase
}

// newStores builds every store over storage, the way main wires them.
func newStores(t *testing.T, storage kvstore.Storage) *stores {
	t.Helper()
	ctx := context.Background()
	authUC, err := usecase.NewAuthUsecase(ctx, kv.NewUserRepository(storage, metrics.Nop{}), bcrypt.MinCost)
	require.NoError(t, err)
	jobUC, err := usecase.NewJobUsecase(ctx, kv.NewJobRepository(storage, metrics.Nop{}), authUC)
	require.NoError(t, err)
	messageUC, err := usecase.NewMessageUsecase(ctx, kv.NewMessageRepository(storage, metrics.Nop{}), authUC)
	require.NoError(t, err)
	return &stores{
		storage:  storage,
		auth:     authUC,
		jobs:     jobUC,
		messages: messageUC,
		convos:   usecase.NewConversationUsecase(authUC, jobUC, messageUC),
		saved:    usecase.NewSavedJobUsecase(kv.NewSavedJobRepository(storage, metrics.Nop{})),
	}
}

func clientCtx(clientID string) context.Context {
	return domain.WithClientID(context.Background(), clientID)
}

func registerInput(email string, accountType domain.AccountType) domain.RegisterInput {
	return domain.RegisterInput{
		Name:        "Test User",
		Email:       email,
		Password:    "password123",
		AccountType: accountType,
		Phone:       "+992900000000",
		BirthDate:   "1995-04-01",
	}
}

func register(t *testing.T, s *stores, ctx context.Context, email string, accountType domain.AccountType) *domain.User {
	t.Helper()
	user, err := s.auth.Register(ctx, registerInput(email, accountType))
	require.NoError(t, err)
	return user
}

func storedUsers(t *testing.T, storage kvstore.Storage) []domain.StoredUser {
	t.Helper()
	var users []domain.StoredUser
	_, err := storage.Load(context.Background(), kv.KeyUsers, &users)
	require.NoError(t, err)
	return users
}

func sampleJob(title string) domain.JobInput {
	return domain.JobInput{
		Title:       title,
		CompanyName: "Somon Tech",
		Location:    "Dushanbe",
		Salary:      domain.Salary{Min: 4000, Max: 7000, Currency: "TJS"},
		Description: "Build and run services.",
	}
}

var errTimeout = errors.New("i/o timeout")

// flakyBackend fails the next failGets reads of keys starting with prefix,
// then behaves like the memory backend.
type flakyBackend struct {
	*kvstore.MemoryBackend

	mu       sync.Mutex
	prefix   string
	failGets int
}

func newFlakyBackend(prefix string, failGets int) *flakyBackend {
	return &flakyBackend{MemoryBackend: kvstore.NewMemoryBackend(), prefix: prefix, failGets: failGets}
}

func (b *flakyBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	fail := b.failGets > 0 && strings.HasPrefix(key, b.prefix)
	if fail {
		b.failGets--
	}
	b.mu.Unlock()

	if fail {
		return nil, errTimeout
	}
	return b.MemoryBackend.Get(ctx, key)
}

// seed writes value under key as JSON.
func seed(t *testing.T, backend kvstore.Backend, key string, value any) {
	t.Helper()
	require.NoError(t, kvstore.New(backend).Save(context.Background(), key, value))
}
