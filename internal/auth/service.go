// Package auth manages accounts, password login, bearer sessions and the
// free trial window attached to each account.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Noor7086/Obyyo-sub002/internal/events"
	"github.com/Noor7086/Obyyo-sub002/internal/metrics"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/models"
	"github.com/Noor7086/Obyyo-sub002/internal/storage/repository"
)

// Login outcomes used as metric labels.
const (
	LoginOK          = "ok"
	LoginInvalid     = "invalid"
	LoginRateLimited = "rate_limited"
	LoginError       = "error"
)

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	SessionTTL        time.Duration
	TrialPeriod       time.Duration
	MinPasswordLength int
	Params            PasswordParams

	// Optional collaborators.
	Limiter    *LoginLimiter
	Dispatcher *events.Dispatcher
	Metrics    *metrics.GeneratorMetrics
	Logger     *slog.Logger

	Now func() time.Time
}

// ClientInfo identifies where a request came from.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Service implements registration, login and session checks.
type Service struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	opts     Options
	logger   *slog.Logger
}

// NewService creates an auth service over the given repositories.
func NewService(users repository.UserRepository, sessions repository.SessionRepository, opts Options) *Service {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 7 * 24 * time.Hour
	}
	if opts.TrialPeriod <= 0 {
		opts.TrialPeriod = 72 * time.Hour
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 8
	}
	if opts.Params == (PasswordParams{}) {
		opts.Params = DefaultPasswordParams()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		opts:     opts,
		logger:   logger.With("component", "auth"),
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", fmt.Errorf("%w: email %q is not valid", ErrInvalidInput, email)
	}
	return strings.ToLower(email), nil
}

// Register creates an account, starts its trial and opens a session.
func (s *Service) Register(ctx context.Context, in RegisterInput, client ClientInfo) (*models.User, *models.Session, error) {
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(in.Password) < s.opts.MinPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, s.opts.MinPasswordLength)
	}

	hash, err := HashPassword(in.Password, s.opts.Params)
	if err != nil {
		return nil, nil, err
	}

	now := s.opts.Now()
	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		TrialEndsAt:  now.Add(s.opts.TrialPeriod),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, ErrEmailTaken
		}
		return nil, nil, err
	}

	session, err := s.openSession(ctx, user.ID, client)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Account registered", "user_id", user.ID)
	s.dispatch(ctx, events.TypeUserRegistered, user)
	return user, session, nil
}

// Login checks credentials and opens a new session.
func (s *Service) Login(ctx context.Context, email, password string, client ClientInfo) (*models.User, *models.Session, error) {
	if s.opts.Limiter != nil && !s.opts.Limiter.Allow(client.IP) {
		s.recordLogin(LoginRateLimited)
		return nil, nil, ErrRateLimited
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		s.recordLogin(LoginInvalid)
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordLogin(LoginInvalid)
			return nil, nil, ErrInvalidCredentials
		}
		s.recordLogin(LoginError)
		return nil, nil, err
	}

	ok, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		s.recordLogin(LoginError)
		return nil, nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		s.recordLogin(LoginInvalid)
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID, client)
	if err != nil {
		s.recordLogin(LoginError)
		return nil, nil, err
	}

	s.recordLogin(LoginOK)
	s.logger.Info("User logged in", "user_id", user.ID)
	s.dispatch(ctx, events.TypeUserLoggedIn, user)
	return user, session, nil
}

// Logout revokes the session. Unknown tokens are not an error.
func (s *Service) Logout(ctx context.Context, token string) error {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}

	if user, err := s.users.GetByID(ctx, session.UserID); err == nil {
		s.dispatch(ctx, events.TypeUserLoggedOut, user)
	}
	return nil
}

// Authenticate returns the user owning a live session token.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	if session.Expired(s.opts.Now()) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// TrialStatus returns the remaining trial time for user.
func (s *Service) TrialStatus(user *models.User) TrialStatus {
	return NewTrialStatus(user.TrialEndsAt, s.opts.Now())
}

// PurgeExpiredSessions deletes every session past its expiry.
func (s *Service) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.opts.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Debug("Purged expired sessions", "count", n)
	}
	return n, nil
}

// RunJanitor purges expired sessions and idle limiter entries every interval until ctx ends.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.PurgeExpiredSessions(ctx); err != nil {
				s.logger.Warn("Failed to purge sessions", "error", err)
			}
			if s.opts.Limiter != nil {
				s.opts.Limiter.Prune(interval)
			}
		}
	}
}

func (s *Service) openSession(ctx context.Context, userID string, client ClientInfo) (*models.Session, error) {
	now := s.opts.Now()
	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		IP:        client.IP,
		UserAgent: client.UserAgent,
		CreatedAt: now,
		ExpiresAt: now.Add(s.opts.SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Service) recordLogin(outcome string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.RecordLogin(outcome)
	}
}

func (s *Service) dispatch(ctx context.Context, eventType string, user *models.User) {
	if s.opts.Dispatcher == nil {
		return
	}
	s.opts.Dispatcher.Dispatch(events.NewTypedEvent(ctx, eventType, user.ID, events.UserEvent{
		UserID: user.ID,
		Email:  user.Email,
	}))
}
