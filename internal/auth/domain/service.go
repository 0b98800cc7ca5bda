package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateUserRequest struct {
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email"`
	Password    string   `json:"password"`
	Roles       []string `json:"roles"`
}

type LoginRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	UserAgent string `json:"-"`
	IPAddress string `json:"-"`
}

// LoginResult carries the raw session token exactly once, for the cookie.
type LoginResult struct {
	User      *User
	SessionID snowflake.ID
	RawToken  string
	ExpiresAt time.Time
}

type Service interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	UserByID(ctx context.Context, id snowflake.ID) (*User, error)
}

type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
}

type SessionRepository interface {
	CreateSession(ctx context.Context, session *Session) error
	GetSessionByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	RevokeSession(ctx context.Context, id snowflake.ID, at time.Time) error
	UpdateLastSeen(ctx context.Context, id snowflake.ID, at time.Time) error
	PurgeSessions(ctx context.Context, before time.Time) (int64, error)
}
