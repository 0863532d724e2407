package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auth_portal/internal/models"
	"auth_portal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Domain errors for auth flows.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
)

// TokenConfig controls JWT signing and token lifetimes.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// TokenPair is returned by a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	UserID       int    `json:"user_id"`
	Username     string `json:"username"`
}

// AuthService handles user auth logic
type AuthService struct {
	authRepo  repository.Authorization
	tokenRepo repository.RefreshTokens
	cfg       TokenConfig
	now       func() time.Time
}

func NewAuthService(authRepo repository.Authorization, tokenRepo repository.RefreshTokens, cfg TokenConfig) *AuthService {
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &AuthService{
		authRepo:  authRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Register validates the input, rejects taken emails/usernames and creates the user.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (int, error) {
	in = in.normalize()
	if err := ValidateRegistration(in); err != nil {
		return 0, err
	}

	existing, err := s.authRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrEmailTaken
	}
	existing, err = s.authRepo.GetByUsername(ctx, in.Username)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrUsernameTaken
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return 0, err
	}

	id, err := s.authRepo.Create(ctx, models.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, repository.ErrDuplicateUser) {
		// lost a race with a concurrent registration
		return 0, ErrEmailTaken
	}
	return id, err
}

// Login accepts a username or an email and returns a fresh token pair.
func (s *AuthService) Login(ctx context.Context, login, password string) (TokenPair, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return TokenPair{}, ErrInvalidCredentials
	}

	u, err := s.authRepo.GetByUsername(ctx, login)
	if err != nil {
		return TokenPair{}, err
	}
	if u == nil && strings.Contains(login, "@") {
		if u, err = s.authRepo.GetByEmail(ctx, login); err != nil {
			return TokenPair{}, err
		}
	}
	if u == nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return TokenPair{}, ErrInvalidCredentials
	}

	return s.issuePair(ctx, u)
}

// Refresh exchanges a live refresh token for a new pair; the old token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrInvalidToken
	}
	stored, err := s.tokenRepo.Find(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if stored == nil {
		return TokenPair{}, ErrInvalidToken
	}
	if err := s.tokenRepo.Delete(ctx, refreshToken); err != nil {
		return TokenPair{}, err
	}
	if stored.Expired(s.now()) {
		return TokenPair{}, ErrInvalidToken
	}

	u, err := s.authRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if u == nil {
		return TokenPair{}, ErrInvalidToken
	}
	return s.issuePair(ctx, u)
}

// Logout revokes the refresh token. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.tokenRepo.Delete(ctx, refreshToken)
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
}

// ExpiresIn is the time left before the access token expires.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// ParseToken parses an access JWT and returns its claims.
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be redeemed.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.tokenRepo.DeleteExpired(ctx, s.now())
}

func (s *AuthService) issuePair(ctx context.Context, u *models.User) (TokenPair, error) {
	now := s.now()
	access, err := s.issueAccessToken(u, now)
	if err != nil {
		return TokenPair{}, err
	}

	refresh := uuid.NewString()
	if err := s.tokenRepo.Create(ctx, models.RefreshToken{
		Token:     refresh,
		UserID:    u.ID,
		ExpiresAt: now.Add(s.cfg.RefreshTTL),
		CreatedAt: now,
	}); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.AccessTTL.Seconds()),
		UserID:       u.ID,
		Username:     u.Username,
	}, nil
}

// issueAccessToken signs a short-lived HS256 JWT for u.
func (s *AuthService) issueAccessToken(u *models.User, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
	})
	return token.SignedString([]byte(s.cfg.Secret))
}

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
