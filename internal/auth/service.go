package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"rinklog/internal/models"
	"rinklog/internal/repo"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotInvited gates registration: the instance is invite-only.
	ErrNotInvited = errors.New("registration requires an invite")
)

// Service handles credential sign-up/sign-in and session issuance.
type Service struct {
	users     *repo.UserStore
	invites   *repo.InviteStore
	tokens    *TokenIssuer
	allowlist map[string]struct{}
}

func NewService(users *repo.UserStore, invites *repo.InviteStore, tokens *TokenIssuer, allowlist []string) *Service {
	allowed := make(map[string]struct{}, len(allowlist))
	for _, e := range allowlist {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			allowed[e] = struct{}{}
		}
	}
	return &Service{users: users, invites: invites, tokens: tokens, allowlist: allowed}
}

func (s *Service) allowed(ctx context.Context, email string) (bool, error) {
	if _, ok := s.allowlist[email]; ok {
		return true, nil
	}
	return s.invites.HasPending(ctx, email)
}

// Register creates an account iff the email is allowlisted or holds a live
// invite, then issues a session token.
func (s *Service) Register(ctx context.Context, email, password, name string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	ok, err := s.allowed(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", ErrNotInvited
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	u, err := s.users.Create(ctx, repo.CreateUserInput{
		Email:        email,
		PasswordHash: hash,
		Name:         name,
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials, refreshes profile fields when the client sent
// fresh values, and issues a session token.
func (s *Service) Login(ctx context.Context, email, password, name, image string) (*models.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword(u.Password, []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	if name != "" || image != "" {
		if err := s.users.RefreshProfile(ctx, u.ID, name, image); err != nil {
			return nil, "", err
		}
		if name != "" {
			u.Name = name
		}
		if image != "" {
			u.Image = image
		}
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
