package service

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"

	"userauth/internal/cache"
	apperrors "userauth/internal/errors"
	"userauth/internal/metrics"
	"userauth/internal/model"
	"userauth/internal/repository"
)

const profileCacheTTL = 5 * time.Minute

// Client-facing failure messages.
const (
	MsgUserExists         = "User already exists"
	MsgInvalidCredentials = "Invalid credentials"
	MsgPasswordIncorrect  = "Password is incorrect"
)

// AuthService handles authentication operations.
type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (token string, user *model.UserView, err error)
	Login(ctx context.Context, email, password string) (token string, user *model.UserView, err error)
	CurrentUser(ctx context.Context, userID string) (*model.UserView, error)
}

type authService struct {
	users   repository.UserRepository
	signer  model.TokenSigner
	cache   *cache.Client
	metrics *metrics.Metrics
}

// NewAuthService creates a new authentication service. cache and m may be nil.
func NewAuthService(users repository.UserRepository, signer model.TokenSigner, cache *cache.Client, m *metrics.Metrics) AuthService {
	return &authService{
		users:   users,
		signer:  signer,
		cache:   cache,
		metrics: m,
	}
}

// Signup creates a new user and issues a token for it.
func (s *authService) Signup(ctx context.Context, name, email, password string) (string, *model.UserView, error) {
	token, user, err := s.signup(ctx, name, email, password)
	s.metrics.RecordAuth(metrics.OpSignup, outcome(err))
	return token, user, err
}

func (s *authService) signup(ctx context.Context, name, email, password string) (string, *model.UserView, error) {
	// Fast path only; the unique email index is authoritative.
	existing, err := s.users.FindByEmail(ctx, email, false)
	if err == nil && existing != nil {
		return "", nil, apperrors.BadRequest(MsgUserExists)
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", nil, apperrors.Unexpected(pkgerrors.Wrap(err, "check user existence"))
	}

	user := model.NewUser(name, email, password)
	if err := user.Validate(); err != nil {
		return "", nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return "", nil, apperrors.BadRequest(MsgUserExists)
		}
		return "", nil, apperrors.Unexpected(pkgerrors.Wrap(err, "create user"))
	}

	token, err := user.IssueToken(s.signer)
	if err != nil {
		return "", nil, apperrors.Unexpected(pkgerrors.Wrap(err, "issue token"))
	}
	return token, user.View(), nil
}

// Login authenticates a user by email and password.
func (s *authService) Login(ctx context.Context, email, password string) (string, *model.UserView, error) {
	token, user, err := s.login(ctx, email, password)
	s.metrics.RecordAuth(metrics.OpLogin, outcome(err))
	return token, user, err
}

func (s *authService) login(ctx context.Context, email, password string) (string, *model.UserView, error) {
	user, err := s.users.FindByEmail(ctx, email, true)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, apperrors.BadRequest(MsgInvalidCredentials)
		}
		return "", nil, apperrors.Unexpected(pkgerrors.Wrap(err, "find user by email"))
	}

	matched, err := user.ComparePassword(password)
	if err != nil {
		return "", nil, apperrors.Unexpected(pkgerrors.Wrap(err, "verify password"))
	}
	if !matched {
		return "", nil, apperrors.BadRequest(MsgPasswordIncorrect)
	}

	token, err := user.IssueToken(s.signer)
	if err != nil {
		return "", nil, apperrors.Unexpected(pkgerrors.Wrap(err, "issue token"))
	}
	return token, user.View(), nil
}

// CurrentUser returns the user a verified token belongs to, reading through
// the profile cache. Returns repository.ErrNotFound if the user is gone.
func (s *authService) CurrentUser(ctx context.Context, userID string) (*model.UserView, error) {
	key := profileCacheKey(userID)

	var cached model.UserView
	if err := s.cache.GetJSON(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		return nil, apperrors.Unexpected(pkgerrors.Wrap(err, "find user by id"))
	}

	view := user.View()
	_ = s.cache.SetJSON(ctx, key, view, profileCacheTTL)
	return view, nil
}

func profileCacheKey(userID string) string {
	return "user:" + userID
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if appErr, ok := apperrors.As(err); ok && appErr.StatusCode < 500 {
		return metrics.OutcomeRejected
	}
	return metrics.OutcomeError
}
