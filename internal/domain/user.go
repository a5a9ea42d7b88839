package domain

import "context"

type AccountType string

const (
	AccountSeeker   AccountType = "seeker"
	AccountEmployer AccountType = "employer"
)

type User struct {
	ID          string      `json:"id"` // user-<n>
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	AccountType AccountType `json:"account_type"`
	Phone       string      `json:"phone"`
	BirthDate   string      `json:"birth_date"` // ISO date
}

// StoredUser is the registered-users record. The session record never carries
// the password hash.
type StoredUser struct {
	User
	PasswordHash string `json:"password_hash"`
}

type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	AccountType AccountType
	Phone       string
	BirthDate   string
}

// ProfilePatch holds the fields to merge; nil fields are left untouched.
type ProfilePatch struct {
	Name      *string
	Email     *string
	Phone     *string
	BirthDate *string
}

type SessionStatus string

const (
	// SessionUnknown means the session record could not be read yet.
	SessionUnknown       SessionStatus = "unknown"
	SessionAnonymous     SessionStatus = "anonymous"
	SessionAuthenticated SessionStatus = "authenticated"
)

type Session struct {
	Status SessionStatus `json:"status"`
	User   *User         `json:"user,omitempty"`
}

func (s Session) IsAuthenticated() bool {
	return s.Status == SessionAuthenticated && s.User != nil
}

type UserRepository interface {
	FetchUsers(ctx context.Context) ([]StoredUser, error)
	StoreUsers(ctx context.Context, users []StoredUser) error
	// FetchSession returns nil without error when the client has no session.
	FetchSession(ctx context.Context, clientID string) (*User, error)
	StoreSession(ctx context.Context, clientID string, user *User) error
	DeleteSession(ctx context.Context, clientID string) error
}

type AuthUsecase interface {
	// Register returns the new user together with ErrSessionUnavailable when
	// the account was saved but the session was not.
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, patch ProfilePatch) (*User, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
	CurrentSession(ctx context.Context) Session
	// CurrentUser is the authenticated user of the client in ctx, or nil.
	CurrentUser(ctx context.Context) *User
}
