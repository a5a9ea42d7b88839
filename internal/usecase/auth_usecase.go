package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"koryob-backend/internal/domain"
	"koryob-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type authUsecase struct {
	repo       domain.UserRepository
	bcryptCost int

	mu    sync.Mutex
	users []domain.StoredUser
	// sessions caches authenticated clients only. A nil value marks a logout
	// whose durable delete failed.
	sessions map[string]*domain.User
}

// NewAuthUsecase loads the registered users once. A corrupt list starts empty;
// any other read error fails construction so the list is never overwritten.
func NewAuthUsecase(ctx context.Context, repo domain.UserRepository, bcryptCost int) (domain.AuthUsecase, error) {
	users, err := repo.FetchUsers(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		logger.Log.Error("Failed to parse users from storage", "error", err)
		users = nil
	case err != nil:
		return nil, fmt.Errorf("load users: %w", err)
	}
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &authUsecase{
		repo:       repo,
		bcryptCost: bcryptCost,
		users:      users,
		sessions:   make(map[string]*domain.User),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) indexByEmail(email string) int {
	return slices.IndexFunc(u.users, func(s domain.StoredUser) bool { return s.Email == email })
}

func (u *authUsecase) indexByID(id string) int {
	return slices.IndexFunc(u.users, func(s domain.StoredUser) bool { return s.ID == id })
}

func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	email := normalizeEmail(in.Email)

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.indexByEmail(email) >= 0 {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Users are never deleted, so the count-derived id stays unique.
	stored := domain.StoredUser{
		User: domain.User{
			ID:          fmt.Sprintf("user-%d", len(u.users)+1),
			Name:        strings.TrimSpace(in.Name),
			Email:       email,
			AccountType: in.AccountType,
			Phone:       in.Phone,
			BirthDate:   in.BirthDate,
		},
		PasswordHash: string(hash),
	}

	users := append(slices.Clone(u.users), stored)
	if err := u.repo.StoreUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}
	u.users = users

	// The account exists from here on. A session failure still returns the
	// user so the caller can ask for a fresh sign-in.
	user := stored.User
	if err := u.setSession(ctx, &user); err != nil {
		return &user, err
	}
	return &user, nil
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	idx := u.indexByEmail(normalizeEmail(email))
	if idx < 0 {
		return nil, domain.ErrUserNotFound
	}
	stored := u.users[idx]
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	user := stored.User
	if err := u.setSession(ctx, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout forgets the session locally even when the durable delete fails.
func (u *authUsecase) Logout(ctx context.Context) error {
	clientID := domain.ClientIDFromContext(ctx)

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := u.repo.DeleteSession(ctx, clientID); err != nil {
		u.sessions[clientID] = nil
		return fmt.Errorf("delete session: %w", err)
	}
	delete(u.sessions, clientID)
	return nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, patch domain.ProfilePatch) (*domain.User, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, _ := u.session(ctx)
	if current == nil {
		return nil, nil
	}

	updated := *current
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		updated.Email = normalizeEmail(*patch.Email)
		if idx := u.indexByEmail(updated.Email); idx >= 0 && u.users[idx].ID != updated.ID {
			return nil, domain.ErrDuplicateEmail
		}
	}
	if patch.Phone != nil {
		updated.Phone = *patch.Phone
	}
	if patch.BirthDate != nil {
		updated.BirthDate = *patch.BirthDate
	}

	if idx := u.indexByID(updated.ID); idx >= 0 {
		users := slices.Clone(u.users)
		users[idx].User = updated
		if err := u.repo.StoreUsers(ctx, users); err != nil {
			return nil, fmt.Errorf("save users: %w", err)
		}
		u.users = users
	}

	if err := u.setSession(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	current, _ := u.session(ctx)
	if current == nil {
		return domain.ErrNotAuthenticated
	}

	idx := u.indexByID(current.ID)
	if idx < 0 {
		return domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.users[idx].PasswordHash), []byte(currentPassword)); err != nil {
		return domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), u.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	users := slices.Clone(u.users)
	users[idx].PasswordHash = string(hash)
	if err := u.repo.StoreUsers(ctx, users); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	u.users = users
	return nil
}

func (u *authUsecase) CurrentSession(ctx context.Context) domain.Session {
	u.mu.Lock()
	defer u.mu.Unlock()

	user, known := u.session(ctx)
	switch {
	case !known:
		return domain.Session{Status: domain.SessionUnknown}
	case user == nil:
		return domain.Session{Status: domain.SessionAnonymous}
	default:
		cp := *user
		return domain.Session{Status: domain.SessionAuthenticated, User: &cp}
	}
}

func (u *authUsecase) CurrentUser(ctx context.Context) *domain.User {
	return u.CurrentSession(ctx).User
}

// session returns the client's user, rehydrating it from storage until the
// client is authenticated. Anonymous results are re-read on every call, so
// clients that never sign in leave nothing behind. known is false when storage
// could not be read. Caller holds u.mu.
func (u *authUsecase) session(ctx context.Context) (user *domain.User, known bool) {
	clientID := domain.ClientIDFromContext(ctx)
	if cached, ok := u.sessions[clientID]; ok {
		return cached, true
	}

	stored, err := u.repo.FetchSession(ctx, clientID)
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		logger.Log.Error("Failed to parse session from storage", "client_id", clientID, "error", err)
		return nil, true
	case err != nil:
		logger.Log.Error("Failed to read session from storage", "client_id", clientID, "error", err)
		return nil, false
	}

	if stored != nil {
		u.sessions[clientID] = stored
	}
	return stored, true
}

// Caller holds u.mu.
func (u *authUsecase) setSession(ctx context.Context, user *domain.User) error {
	clientID := domain.ClientIDFromContext(ctx)
	if err := u.repo.StoreSession(ctx, clientID, user); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}
	cp := *user
	u.sessions[clientID] = &cp
	return nil
}
