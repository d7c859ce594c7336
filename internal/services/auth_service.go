package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"laundrypoint/internal/models"
	"laundrypoint/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Account errors.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidInput       = errors.New("invalid sign-up input")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AuthService is the account directory: it registers accounts, validates
// credentials, and owns the single current-user session pointer. Auth
// state is explicit (CurrentUser plus Subscribe), never ambient globals.
//
// Credentials are bcrypt-hashed before they reach the store; the local
// credential store never holds plaintext passwords.
type AuthService struct {
	users      repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration

	mu          sync.RWMutex
	current     *models.User
	subscribers []func(*models.User)
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// LoadSession restores the persisted session at startup.
func (s *AuthService) LoadSession(ctx context.Context) error {
	user, err := s.users.LoadSession(ctx)
	if err != nil {
		return err
	}
	s.setCurrent(user)
	return nil
}

// SignUpRequest carries the registration form fields.
type SignUpRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Mobile   string `json:"mobile" validate:"required,min=7,max=15"`
	Address  string `json:"address" validate:"required"`
}

// SignUp registers a new account, hashes the password, and signs the user
// in. Emails are stored lowercased so lookups stay case-insensitive.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*models.User, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" ||
		req.Password == "" || strings.TrimSpace(req.Mobile) == "" ||
		strings.TrimSpace(req.Address) == "" {
		return nil, ErrInvalidInput
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrEmailExists, email)
	} else if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
		Mobile:   req.Mobile,
		Address:  req.Address,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	if err := s.users.SaveSession(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	s.setCurrent(user)

	signedIn := *user
	signedIn.Password = ""
	return &signedIn, nil
}

// SignIn authenticates a user and returns the user plus a session token.
// The error never reveals whether the email or the password was wrong.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(s.tokenDurat).Unix(),
		"iat":     time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.users.SaveSession(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to persist session: %w", err)
	}
	s.setCurrent(user)

	signedIn := *user
	signedIn.Password = ""
	return &signedIn, tokenString, nil
}

// SignOut clears the persisted session and notifies subscribers.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.users.ClearSession(ctx); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	s.setCurrent(nil)
	return nil
}

// CurrentUser returns the signed-in user, or nil.
func (s *AuthService) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	user := *s.current
	user.Password = ""
	return &user
}

// Subscribe registers a callback invoked on every auth-state change with
// the new current user (nil on sign-out).
func (s *AuthService) Subscribe(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.subscribers = append(s.subscribers, fn)
}

func (s *AuthService) setCurrent(user *models.User) {
	s.mu.Lock()
	s.current = user
	subscribers := make([]func(*models.User), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	for _, fn := range subscribers {
		fn(user)
	}
}

// ValidateToken parses and validates a session token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}
