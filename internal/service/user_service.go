package service

import (
	"context"
	"strings"
	"sync"

	"gameon/internal/model"
	"gameon/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UserInput carries the editable fields of an account.
type UserInput struct {
	Username string
	Password string
	Role     model.Role
}

// UserService manages staff accounts. Every operation requires an admin
// session.
type UserService interface {
	List(ctx context.Context, sess *model.Session) ([]model.User, error)
	Add(ctx context.Context, sess *model.Session, in UserInput) (*model.User, error)
	Update(ctx context.Context, sess *model.Session, id string, in UserInput) (*model.User, error)
	Delete(ctx context.Context, sess *model.Session, id string) error
}

type userService struct {
	mu     sync.Mutex
	repo   repository.UserRepository
	logger zerolog.Logger
}

func NewUserService(repo repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger.With().Str("service", "UserService").Logger(),
	}
}

func (s *userService) List(ctx context.Context, sess *model.Session) ([]model.User, error) {
	if err := checkAccess(sess, ActionManageUsers); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.repo.Load(ctx)
}

// Add appends a new account. Usernames are not required to be unique.
func (s *userService) Add(ctx context.Context, sess *model.Session, in UserInput) (*model.User, error) {
	if err := checkAccess(sess, ActionManageUsers); err != nil {
		return nil, err
	}
	in, err := normalizeUserInput(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	user := model.User{
		ID:       "user-" + uuid.NewString(),
		Username: in.Username,
		Password: in.Password,
		Role:     in.Role,
	}
	if err := s.repo.Save(ctx, append(users, user)); err != nil {
		s.logger.Error().Err(err).Msg("Failed to save users")
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Str("added_by", sess.UserID()).Msg("User added")
	return &user, nil
}

// Update replaces an account's credentials and role. Demoting the only
// remaining admin fails with ErrLastAdmin and changes nothing.
func (s *userService) Update(ctx context.Context, sess *model.Session, id string, in UserInput) (*model.User, error) {
	if err := checkAccess(sess, ActionManageUsers); err != nil {
		return nil, err
	}
	in, err := normalizeUserInput(in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range users {
		if users[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	if users[idx].IsAdmin() && in.Role != model.RoleAdmin {
		others := 0
		for i := range users {
			if i != idx && users[i].IsAdmin() {
				others++
			}
		}
		if others == 0 {
			return nil, ErrLastAdmin
		}
	}

	updated := make([]model.User, len(users))
	copy(updated, users)
	updated[idx] = model.User{ID: id, Username: in.Username, Password: in.Password, Role: in.Role}
	if err := s.repo.Save(ctx, updated); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to save users")
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Str("role", string(in.Role)).Str("updated_by", sess.UserID()).Msg("User updated")
	u := updated[idx]
	return &u, nil
}

// Delete removes an account. Admins cannot delete themselves; an unknown id
// is a no-op.
func (s *userService) Delete(ctx context.Context, sess *model.Session, id string) error {
	if err := checkAccess(sess, ActionManageUsers); err != nil {
		return err
	}
	if id == sess.UserID() {
		return ErrSelfDelete
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	kept := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(users) {
		return nil
	}
	if err := s.repo.Save(ctx, kept); err != nil {
		s.logger.Error().Err(err).Str("user_id", id).Msg("Failed to save users")
		return err
	}
	s.logger.Info().Str("user_id", id).Str("deleted_by", sess.UserID()).Msg("User deleted")
	return nil
}

func normalizeUserInput(in UserInput) (UserInput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Password = strings.TrimSpace(in.Password)
	if in.Username == "" || in.Password == "" {
		return in, ErrEmptyCredentials
	}
	if !in.Role.Valid() {
		return in, ErrInvalidRole
	}
	return in, nil
}
