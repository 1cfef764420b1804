package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"accountbook/internal/core"
	"accountbook/internal/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired session token")
	ErrInvalidAccount     = errors.New("invalid account details")
)

const (
	maxNameLength     = 50
	maxPasswordLength = 72 // bcrypt input limit
	tokenIssuer       = "accountbook"
)

type sessionClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AccountService manages users and their session tokens.
type AccountService struct {
	users  storage.UserStore
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAccountService(users storage.UserStore, secret string, ttl time.Duration) *AccountService {
	return &AccountService{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Register creates a user with default settings and returns a session token.
func (s *AccountService) Register(ctx context.Context, name, email, password string) (core.User, string, error) {
	name = strings.TrimSpace(name)
	email, err := normalizeEmail(email)
	if err != nil {
		return core.User{}, "", err
	}
	if name == "" || len(name) > maxNameLength {
		return core.User{}, "", fmt.Errorf("%w: name must be 1 to %d characters", ErrInvalidAccount, maxNameLength)
	}
	if strings.TrimSpace(password) == "" || len(password) > maxPasswordLength {
		return core.User{}, "", fmt.Errorf("%w: password must be 1 to %d bytes", ErrInvalidAccount, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return core.User{}, "", fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.CreateUser(ctx, core.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Settings:     core.DefaultSettings(),
	})
	if err != nil {
		return core.User{}, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.issue(u)
	if err != nil {
		return core.User{}, "", err
	}
	slog.InfoContext(ctx, "User registered", "owner", u.ID)
	return u, token, nil
}

// Login checks the password and returns a fresh token. Unknown emails and
// wrong passwords fail the same way.
func (s *AccountService) Login(ctx context.Context, email, password string) (core.User, string, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return core.User{}, "", ErrInvalidCredentials
	}
	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return core.User{}, "", ErrInvalidCredentials
		}
		return core.User{}, "", fmt.Errorf("lookup user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		slog.WarnContext(ctx, "Login failed", "owner", u.ID)
		return core.User{}, "", ErrInvalidCredentials
	}

	token, err := s.issue(u)
	if err != nil {
		return core.User{}, "", err
	}
	return u, token, nil
}

// ParseToken validates a token and returns the session it was issued for.
func (s *AccountService) ParseToken(token string) (core.Session, error) {
	claims := &sessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return core.Session{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return core.Session{}, ErrInvalidToken
	}
	return core.Session{Owner: core.OwnerID(id), Name: claims.Name, Email: claims.Email}, nil
}

func (s *AccountService) issue(u core.User) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Name:  u.Name,
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(int64(u.ID), 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AccountService) Profile(ctx context.Context, sess core.Session) (core.User, error) {
	u, err := s.users.UserByID(ctx, sess.Owner)
	if err != nil {
		return core.User{}, fmt.Errorf("load profile: %w", err)
	}
	return u, nil
}

func (s *AccountService) Settings(ctx context.Context, sess core.Session) (core.Settings, error) {
	u, err := s.Profile(ctx, sess)
	if err != nil {
		return core.Settings{}, err
	}
	return u.Settings, nil
}

func (s *AccountService) UpdateSettings(ctx context.Context, sess core.Session, settings core.Settings) (core.Settings, error) {
	settings.Currency = strings.TrimSpace(settings.Currency)
	if err := settings.Validate(); err != nil {
		return core.Settings{}, err
	}
	if err := s.users.UpdateSettings(ctx, sess.Owner, settings); err != nil {
		return core.Settings{}, fmt.Errorf("update settings: %w", err)
	}
	return settings, nil
}

// Rename changes the display name. Names are unique across users.
func (s *AccountService) Rename(ctx context.Context, sess core.Session, name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return fmt.Errorf("%w: name must be 1 to %d characters", ErrInvalidAccount, maxNameLength)
	}
	if err := s.users.RenameUser(ctx, sess.Owner, name); err != nil {
		return fmt.Errorf("rename user: %w", err)
	}
	return nil
}

// DeleteAccount removes the user together with every row they own.
func (s *AccountService) DeleteAccount(ctx context.Context, sess core.Session) error {
	if err := s.users.DeleteUser(ctx, sess.Owner); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	slog.InfoContext(ctx, "Account deleted", "owner", sess.Owner)
	return nil
}

func normalizeEmail(email string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil {
		return "", fmt.Errorf("%w: invalid email", ErrInvalidAccount)
	}
	return strings.ToLower(addr.Address), nil
}
