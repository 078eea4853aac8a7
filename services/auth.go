package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpupo63/designer-portfolio-backend/database"
	"github.com/rpupo63/designer-portfolio-backend/errs"
	"github.com/rpupo63/designer-portfolio-backend/models"
)

const tokenIssuer = "designer-portfolio"

// bcrypt rejects longer inputs
const maxPasswordBytes = 72

type AuthConfig struct {
	Secret            string
	TTL               time.Duration
	AllowRegistration bool
}

// AuthService owns user accounts and session tokens. Tokens are HS256 JWTs
// whose subject is the user id.
type AuthService struct {
	store             database.Storage
	secret            []byte
	ttl               time.Duration
	allowRegistration bool
	now               func() time.Time
	logger            zerolog.Logger

	// serializes username checks with inserts
	registerMu sync.Mutex
}

func NewAuthService(store database.Storage, cfg AuthConfig) (*AuthService, error) {
	if cfg.Secret == "" {
		return nil, errs.NewEnvironmentVariableError("JWT_SECRET")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	return &AuthService{
		store:             store,
		secret:            []byte(cfg.Secret),
		ttl:               cfg.TTL,
		allowRegistration: cfg.AllowRegistration,
		now:               time.Now,
		logger:            log.With().Str("service", "auth").Logger(),
	}, nil
}

type RegisterInput struct {
	Username  string
	Password  string
	Name      string
	AvatarURL *string
}

// TTL is how long issued tokens stay valid.
func (s *AuthService) TTL() time.Duration {
	return s.ttl
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !s.allowRegistration {
		return nil, errs.NewRegistrationClosedError()
	}
	return s.createUser(ctx, in)
}

// SeedOwner creates the owner account unless the username is already taken.
// It ignores the registration switch.
func (s *AuthService) SeedOwner(ctx context.Context, in RegisterInput) (*models.User, error) {
	existing, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return existing, nil
	}
	user, err := s.createUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("userId", user.ID).Str("username", user.Username).Msg("Seeded owner account")
	return user, nil
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" {
		return nil, errs.NewMissingRequiredFieldError("username")
	}
	if in.Password == "" {
		return nil, errs.NewMissingRequiredFieldError("password")
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, errs.NewInvalidFieldError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	if in.Name == "" {
		in.Name = in.Username
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	existing, err := s.store.GetUserByUsername(ctx, in.Username)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if existing != nil {
		return nil, errs.NewAlreadyExists("user " + in.Username)
	}

	user, err := s.store.CreateUser(ctx, models.User{
		Username:  in.Username,
		Password:  string(hash),
		Name:      in.Name,
		AvatarURL: in.AvatarURL,
	})
	if err != nil {
		return nil, errs.NewDatabaseError("create", "user", err)
	}
	return user, nil
}

// Login checks the credentials and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, errs.NewDatabaseError("find", "user", err)
	}
	if user == nil {
		return "", nil, errs.NewInvalidCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, errs.NewInvalidCredentialsError()
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) IssueToken(userID int) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ParseToken validates a session token and returns the user id it carries.
func (s *AuthService) ParseToken(token string) (int, error) {
	if token == "" {
		return 0, errs.NewMissingTokenError()
	}

	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return 0, errs.NewInvalidTokenError(err)
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil || userID <= 0 {
		return 0, errs.NewInvalidTokenError(errors.New("subject is not a user id"))
	}
	return userID, nil
}

// CurrentUser returns nil when the id no longer resolves.
func (s *AuthService) CurrentUser(ctx context.Context, userID int) (*models.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return user, nil
}
