package identity

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/validation"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Service struct {
	users    Repository
	sessions *auth.Sessions
}

func NewService(users Repository, sessions *auth.Sessions) *Service {
	return &Service{users: users, sessions: sessions}
}

// Login verifies the credentials and issues a session token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	hash := auth.HashPassword(creds.Password)
	if subtle.ConstantTimeCompare([]byte(hash), []byte(u.PasswordHash)) != 1 {
		return nil, ErrInvalidCredentials
	}
	token, err := s.sessions.Issue(auth.Identity{
		UserID:   u.ID,
		Username: u.Username,
		FullName: u.FullName,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, User: u}, nil
}

func (s *Service) CreateUser(ctx context.Context, username, password, fullName string) (*User, error) {
	if username == "" {
		return nil, validation.Newf("username is required")
	}
	if len(password) < 3 {
		return nil, validation.Newf("password must be at least 3 characters")
	}
	u := &User{
		Username:     username,
		PasswordHash: auth.HashPassword(password),
		FullName:     fullName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*User, error) {
	return s.users.GetByID(ctx, id)
}
