// Package account выдаёт мобильному приложению API-ключи по логину и паролю
// и проверяет их на каждом запросе.
package account

import (
	"broker-app/internal/storage"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"io"
	"log/slog"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid login credentials")
)

const (
	apiKeyBytes    = 8
	apiSecretBytes = 16
)

type UserStorage interface {
	CreateUser(ctx context.Context, u *storage.User) error
	GetUser(ctx context.Context, name string) (*storage.User, error)
	GetUserByAPIKey(ctx context.Context, apiKey string) (*storage.User, error)
	SetAPICredentials(ctx context.Context, name, apiKey, secretHash string) error
}

type Service struct {
	log      *slog.Logger
	storage  UserStorage
	validate *validator.Validate
	cost     int
	random   io.Reader
}

func NewService(log *slog.Logger, storage UserStorage) *Service {
	return &Service{
		log:      log,
		storage:  storage,
		validate: validator.New(),
		cost:     bcrypt.DefaultCost,
		random:   rand.Reader,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Credentials struct {
	User      string `json:"user"`
	FullName  string `json:"full_name"`
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name"`
	Password string `json:"password" validate:"required,min=8"`
}

// Login проверяет пароль и выдаёт новый api_secret. api_key создаётся один
// раз и дальше не меняется; прежний секрет после входа недействителен.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*Credentials, error) {
	const op = "service.account.Login"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrValidation, err)
	}

	u, err := s.storage.GetUser(ctx, req.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !u.Enabled || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		s.log.Warn("login failed", slog.String("user", req.Email))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	apiKey := u.APIKey
	if apiKey == "" {
		if apiKey, err = s.token(apiKeyBytes); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	secret, err := s.token(apiSecretBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.storage.SetAPICredentials(ctx, u.Name, apiKey, hashSecret(secret)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("user", u.Name))

	return &Credentials{
		User:      u.Name,
		FullName:  u.FullName,
		APIKey:    apiKey,
		APISecret: secret,
	}, nil
}

// Authenticate находит пользователя по паре ключ/секрет.
func (s *Service) Authenticate(ctx context.Context, apiKey, apiSecret string) (*storage.User, error) {
	const op = "service.account.Authenticate"

	if apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	u, err := s.storage.GetUserByAPIKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !u.Enabled || subtle.ConstantTimeCompare([]byte(hashSecret(apiSecret)), []byte(u.APISecretHash)) != 1 {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return u, nil
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*storage.User, error) {
	const op = "service.account.CreateUser"

	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u := &storage.User{
		Name:         req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Enabled:      true,
	}
	if u.FullName == "" {
		u.FullName = req.Email
	}

	if err := s.storage.CreateUser(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user created", slog.String("user", u.Name))

	return u, nil
}

func (s *Service) token(n int) (string, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(s.random, b); err != nil {
		return "", fmt.Errorf("генерация ключа: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
