package service

import (
	"context"
	"sync"
	"time"

	"gameon/internal/metrics"
	"gameon/internal/model"
	"gameon/internal/repository"
	"gameon/internal/util"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthService signs users in and out and turns bearer tokens back into
// sessions.
type AuthService interface {
	Login(ctx context.Context, username, password string) (string, *model.User, error)
	Logout(ctx context.Context, sess *model.Session) error
	Resolve(ctx context.Context, token string) (*model.Session, error)
}

type authService struct {
	users   repository.UserRepository
	secret  string
	ttl     time.Duration
	metrics *metrics.Recorder
	now     func() time.Time
	logger  zerolog.Logger

	mu     sync.Mutex
	active map[string]string // token id -> user id
}

func NewAuthService(
	users repository.UserRepository,
	secret string,
	ttl time.Duration,
	recorder *metrics.Recorder,
	logger zerolog.Logger,
) AuthService {
	return &authService{
		users:   users,
		secret:  secret,
		ttl:     ttl,
		metrics: recorder,
		now:     time.Now,
		logger:  logger.With().Str("service", "AuthService").Logger(),
		active:  make(map[string]string),
	}
}

// Login checks the credentials verbatim against the stored users and issues
// a token for the first match.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.User, error) {
	users, err := s.users.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to load users")
		return "", nil, err
	}

	user := Authenticate(username, password, users)
	if user == nil {
		s.metrics.LoginAttempt(false)
		s.logger.Warn().Str("username", username).Msg("Login failed")
		return "", nil, ErrInvalidCredentials
	}

	tokenID := uuid.NewString()
	token, err := util.SignJWT(s.secret, user.ID, string(user.Role), tokenID, s.now(), s.ttl)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to sign session token")
		return "", nil, err
	}

	s.mu.Lock()
	s.active[tokenID] = user.ID
	s.mu.Unlock()

	s.metrics.LoginAttempt(true)
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("User logged in")
	return token, user, nil
}

// Logout ends the session. Logging out twice is harmless.
func (s *authService) Logout(_ context.Context, sess *model.Session) error {
	if sess == nil {
		return nil
	}
	s.mu.Lock()
	delete(s.active, sess.TokenID)
	s.mu.Unlock()
	s.logger.Info().Str("user_id", sess.UserID()).Msg("User logged out")
	return nil
}

// Resolve validates token and reloads its user, so role changes and
// deletions apply to sessions that are already open.
func (s *authService) Resolve(ctx context.Context, token string) (*model.Session, error) {
	claims, err := util.ValidateJWT(token, s.secret)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	s.mu.Lock()
	userID, ok := s.active[claims.ID]
	s.mu.Unlock()
	if !ok || userID != claims.Subject {
		return nil, ErrUnauthenticated
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == userID {
			return &model.Session{User: u, TokenID: claims.ID}, nil
		}
	}

	// The account was deleted while signed in.
	s.mu.Lock()
	delete(s.active, claims.ID)
	s.mu.Unlock()
	return nil, ErrUnauthenticated
}
