package services

import (
	"context"
	"errors"

	"invdash/internal/domain"
	"invdash/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrBadCreds = errors.New("invalid username or password")
	// ErrAuthAbsent means no session is bound to the request; callers redirect to sign-in.
	ErrAuthAbsent = errors.New("not signed in")
)

// SessionStore persists the sid -> session binding.
type SessionStore interface {
	Bind(ctx context.Context, sid string, sess *domain.Session) error
	Lookup(ctx context.Context, sid string) (*domain.Session, error)
	Unbind(ctx context.Context, sid string) error
}

type AuthService struct {
	Users    *repos.UserRepo
	Sessions SessionStore
}

func NewAuthService(users *repos.UserRepo, sessions SessionStore) *AuthService {
	return &AuthService{Users: users, Sessions: sessions}
}

func (s *AuthService) Login(ctx context.Context, sid, username, password string) (*domain.Session, error) {
	u, err := s.Users.ByUsername(ctx, username)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	sess := u.Session()
	if err := s.Sessions.Bind(ctx, sid, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return s.Sessions.Unbind(ctx, sid)
}

// Resolve returns the session bound to sid. A missing binding is ErrAuthAbsent;
// store failures are returned as is.
func (s *AuthService) Resolve(ctx context.Context, sid string) (*domain.Session, error) {
	if sid == "" {
		return nil, ErrAuthAbsent
	}
	sess, err := s.Sessions.Lookup(ctx, sid)
	if errors.Is(err, repos.ErrNoSession) {
		return nil, ErrAuthAbsent
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}
