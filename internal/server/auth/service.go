package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/g0c0de0rd1e/audiomagister/internal/crypto"
	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
)

// TokenType is reported to clients alongside every access token
const TokenType = "bearer"

// TokenResult is returned by a successful login
type TokenResult struct {
	ExpiresAt   time.Time
	AccessToken string
	TokenType   string
	TTL         time.Duration
}

// Запасные хеши для несуществующих email, если сгенерировать свой не удалось.
// Каждый хешер полностью проверяет только хеш своего алгоритма.
const (
	fallbackBcryptHash   = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	fallbackArgon2idHash = "$argon2id$v=19$m=65536,t=1,p=4$cQFSHAnH5sduXA7S9WVEhw$otNPdYh7Qb1fqHfLm2ven+8kyvsMhGAiQS+L0ByvMaU"
)

// dummyHash lazily hashes a random password; failures are not cached
type dummyHash struct {
	hasher crypto.PasswordHasher
	hash   string
	mu     sync.Mutex
}

func (d *dummyHash) get() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hash != "" {
		return d.hash, nil
	}
	h, err := d.hasher.Hash(uuid.NewString())
	if err != nil {
		return "", err
	}
	d.hash = h
	return h, nil
}

// Service orchestrates registration and login
type Service struct {
	users    storage.UserStorage
	hasher   crypto.PasswordHasher
	issuer   *TokenIssuer
	dummy    *dummyHash
	loginTTL time.Duration
}

// NewService creates a new auth service. loginTTL <= 0 means LoginTokenTTL.
func NewService(users storage.UserStorage, hasher crypto.PasswordHasher, issuer *TokenIssuer, loginTTL time.Duration) *Service {
	if loginTTL <= 0 {
		loginTTL = LoginTokenTTL
	}

	return &Service{
		users:    users,
		hasher:   hasher,
		issuer:   issuer,
		loginTTL: loginTTL,
		// хеш для несуществующих email, чтобы обе ветки Authenticate стоили одну проверку
		dummy: &dummyHash{hasher: hasher},
	}
}

// Register creates a new active user with a hashed password
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, storage.ErrUserNotFound):
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    s.issuer.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate checks email and password. Unknown email and wrong password both yield ErrAuthFailure.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.verifyDummy(password)
			return nil, ErrAuthFailure
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrAuthFailure
	}

	return user, nil
}

func (s *Service) verifyDummy(password string) {
	if h, err := s.dummy.get(); err == nil {
		s.hasher.Verify(password, h)
		return
	}
	s.hasher.Verify(password, fallbackBcryptHash)
	s.hasher.Verify(password, fallbackArgon2idHash)
}

// LoginForToken authenticates the credentials and issues an access token
func (s *Service) LoginForToken(ctx context.Context, email, password string) (*TokenResult, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.issuer.issue(user.Email, s.loginTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &TokenResult{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresAt:   expiresAt,
		TTL:         s.loginTTL,
	}, nil
}
