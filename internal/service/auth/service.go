package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"critique/internal/domain"
	"critique/internal/model"
	"critique/internal/util"
	"critique/pkg/logger"
)

// SessionTTL 登录 token 有效期
const SessionTTL = 24 * time.Hour

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id int) (*model.User, error)
	MarkEmailVerified(ctx context.Context, id int) error
}

// Enqueuer is the producer hook invoked after signup and verification.
type Enqueuer interface {
	EnqueueVerification(ctx context.Context, email string) error
	EnqueueWelcome(ctx context.Context, email, name string) error
}

type Service struct {
	users     UserStore
	queue     Enqueuer
	jwtSecret string
	logger    *zap.Logger
}

func NewService(users UserStore, queue Enqueuer, jwtSecret string, logger *zap.Logger) *Service {
	return &Service{
		users:     users,
		queue:     queue,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// Register creates a new user and enqueues the verification email.
// The user row is not rolled back if the enqueue fails.
func (s *Service) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.ErrUserExists
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	logger.WithTrace(ctx, s.logger).Info("User registered", zap.Int("user_id", u.ID))

	if err := s.queue.EnqueueVerification(ctx, u.Email); err != nil {
		return u, fmt.Errorf("enqueue verification email: %w", err)
	}
	return u, nil
}

// Login checks user credentials and returns a session JWT.
// Unknown email yields domain.ErrUserNotFound, a wrong password domain.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	return util.GenerateJWT(u.ID, s.jwtSecret, SessionTTL)
}

// VerifyEmail marks the token's user as verified and enqueues the welcome email.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*model.User, error) {
	email, err := util.ParseVerificationToken(token, s.jwtSecret)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if err := s.users.MarkEmailVerified(ctx, u.ID); err != nil {
		return nil, err
	}
	u.EmailVerified = true

	if err := s.queue.EnqueueWelcome(ctx, u.Email, u.Name); err != nil {
		return u, fmt.Errorf("enqueue welcome email: %w", err)
	}
	return u, nil
}

func (s *Service) CurrentUser(ctx context.Context, id int) (*model.User, error) {
	return s.users.FindByID(ctx, id)
}
