package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/murmur-social/murmur/internal/apperrors"
	"github.com/murmur-social/murmur/internal/store"
)

const (
	credentialsPath = "credentials"
	resetsPath      = "password_resets"

	defaultTokenTTL = 24 * time.Hour
	resetTokenTTL   = time.Hour
)

// Service is the JWT-based identity provider. Credentials live in the
// document store; revoked token ids live in redis so sign-out invalidates
// tokens that are still within their validity window.
type Service struct {
	store     store.Store
	redis     *redis.Client
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewService creates the identity service
func NewService(st store.Store, rdb *redis.Client, jwtSecret []byte) *Service {
	return &Service{
		store:     st,
		redis:     rdb,
		jwtSecret: jwtSecret,
		tokenTTL:  defaultTokenTTL,
	}
}

// SignUp creates a credential record and signs the new user in
func (s *Service) SignUp(ctx context.Context, email, password string) (*Session, error) {
	existing, err := s.findCredential(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID := uuid.NewString()
	err = s.store.Set(ctx, credentialsPath, userID, map[string]any{
		"email":        email,
		"passwordHash": string(hash),
		"createdAt":    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create credentials: %w", err)
	}

	return s.issueSession(userID)
}

// SignIn verifies credentials and issues a session
func (s *Service) SignIn(ctx context.Context, email, password string) (*Session, error) {
	cred, err := s.findCredential(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	hash, _ := cred.Data["passwordHash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(cred.ID)
}

// SignOut revokes the token for the remainder of its validity window
func (s *Service) SignOut(ctx context.Context, token string) error {
	claims, err := s.parseToken(token)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)
	ttl := time.Until(time.Unix(int64(exp), 0))
	if jti == "" || ttl <= 0 {
		return nil
	}

	if err := s.redis.Set(ctx, revocationKey(jti), "1", ttl).Err(); err != nil {
		return apperrors.Unavailable("token revocation", err)
	}
	return nil
}

// RequestPasswordReset issues a one-time reset token for the account
func (s *Service) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	cred, err := s.findCredential(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	token := uuid.NewString()
	err = s.store.Set(ctx, resetsPath, token, map[string]any{
		"userId":    cred.ID,
		"expiresAt": time.Now().UTC().Add(resetTokenTTL).Format(time.RFC3339),
	})
	if err != nil {
		return "", fmt.Errorf("failed to record password reset: %w", err)
	}
	return token, nil
}

// ResetPassword consumes a reset token and replaces the password hash
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	doc, err := s.store.Get(ctx, resetsPath, resetToken)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return ErrResetInvalid
		}
		return err
	}

	expires, _ := doc.Data["expiresAt"].(string)
	if t, err := time.Parse(time.RFC3339, expires); err != nil || time.Now().After(t) {
		return ErrResetInvalid
	}

	userID, _ := doc.Data["userId"].(string)
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = s.store.Update(ctx, credentialsPath, userID, map[string]any{
		"passwordHash": string(hash),
	})
	if err != nil {
		return fmt.Errorf("failed to update credentials: %w", err)
	}

	// One-time use
	return s.store.Delete(ctx, resetsPath, resetToken)
}

// ValidateToken resolves a token to its user id, rejecting revoked tokens
func (s *Service) ValidateToken(ctx context.Context, token string) (string, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return "", err
	}

	jti, _ := claims["jti"].(string)
	if jti != "" {
		revoked, err := s.redis.Exists(ctx, revocationKey(jti)).Result()
		if err != nil {
			return "", apperrors.Unavailable("token validation", err)
		}
		if revoked > 0 {
			return "", ErrTokenInvalid
		}
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", ErrTokenInvalid
	}
	return sub, nil
}

func (s *Service) issueSession(userID string) (*Session, error) {
	expiresAt := time.Now().Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"jti": uuid.NewString(),
		"exp": expiresAt.Unix(),
		"iat": time.Now().Unix(),
	})

	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{UserID: userID, Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *Service) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (s *Service) findCredential(ctx context.Context, email string) (*store.Document, error) {
	docs, err := s.store.Query(ctx, credentialsPath, store.Filter{Field: "email", Value: email})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, apperrors.NotFound("credentials")
	}
	return &docs[0], nil
}

func revocationKey(jti string) string {
	return "identity:revoked:" + jti
}
