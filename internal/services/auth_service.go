package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kitchen/internal/models"
	"kitchen/internal/repositories"
	"kitchen/internal/validation"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Session lifetimes.
const (
	RememberedSessionTTL = 30 * 24 * time.Hour
	TabSessionTTL        = 24 * time.Hour
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrSessionExpired   = errors.New("session expired")
)

// AuthService simulates sign-in and keeps the account records in client
// storage. No credentials are checked against a server.
type AuthService struct {
	storage   *Storage
	validate  *validator.Validate
	jwtSecret []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(storage *Storage, validate *validator.Validate, jwtSecret string) *AuthService {
	return &AuthService{
		storage:   storage,
		validate:  validate,
		jwtSecret: []byte(jwtSecret),
	}
}

// SignIn always succeeds for a well-formed request. The stored profile is
// used when its email matches; otherwise a placeholder user is signed in.
// A remembered session lasts 30 days in durable storage, otherwise one day
// in the tab.
func (s *AuthService) SignIn(ctx context.Context, c Client, req models.SignInRequest) (*models.Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	unlock := s.storage.Lock(c)
	defer unlock()

	now := s.storage.Now()
	user := models.User{Email: req.Email, Name: "User"}
	var stored models.User
	ok, err := s.storage.Durable(c).Load(ctx, KeyUser, &stored)
	if err != nil {
		return nil, err
	}
	if ok && stored.Email == req.Email {
		user = stored
	}

	ttl, scope := TabSessionTTL, s.storage.Tab(c)
	if req.RememberMe {
		ttl, scope = RememberedSessionTTL, s.storage.Durable(c)
	}
	expires := now.Add(ttl)
	token, err := s.mintToken(user, now, expires)
	if err != nil {
		return nil, err
	}
	sess := &models.Session{User: user, Token: token, ExpiresAt: expires}
	if err := scope.Save(ctx, KeySession, sess); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	log.Info().Str("client", c.ID).Bool("remember", req.RememberMe).Msg("signed in")
	return sess, nil
}

// SignUp validates the form and stores a pending verification record. No
// session is created.
func (s *AuthService) SignUp(ctx context.Context, c Client, req models.SignUpRequest) (*models.PendingVerification, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.Join(strings.Fields(req.Phone), "")
	if err := validateStruct(s.validate, req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	unlock := s.storage.Lock(c)
	defer unlock()

	pending := &models.PendingVerification{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    s.storage.Now(),
	}
	if err := s.storage.Durable(c).Save(ctx, KeyPendingVerification, pending); err != nil {
		return nil, fmt.Errorf("failed to save pending verification: %w", err)
	}
	return pending, nil
}

// CurrentSession returns the live session from durable storage or the tab.
// An expired session, or one whose token does not verify, signs the client
// out.
func (s *AuthService) CurrentSession(ctx context.Context, c Client) (*models.Session, error) {
	unlock := s.storage.Lock(c)
	defer unlock()

	now := s.storage.Now()
	var sess models.Session
	found := false
	for _, scope := range []repositories.Scope{s.storage.Durable(c), s.storage.Tab(c)} {
		ok, err := scope.Load(ctx, KeySession, &sess)
		if err != nil {
			return nil, err
		}
		if ok {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotAuthenticated
	}

	if sess.Expired(now) {
		return nil, s.expire(ctx, c, ErrSessionExpired)
	}
	if _, err := s.ValidateToken(sess.Token); err != nil {
		return nil, s.expire(ctx, c, fmt.Errorf("%w: %w", ErrNotAuthenticated, err))
	}
	return &sess, nil
}

func (s *AuthService) expire(ctx context.Context, c Client, cause error) error {
	log.Info().Str("client", c.ID).Err(cause).Msg("signing out stale session")
	if err := s.signOut(ctx, c); err != nil {
		return err
	}
	return cause
}

// IsAuthenticated reports whether the client has a live session.
func (s *AuthService) IsAuthenticated(ctx context.Context, c Client) bool {
	_, err := s.CurrentSession(ctx, c)
	return err == nil
}

// SignOut removes the session from both scopes and the stored profile.
func (s *AuthService) SignOut(ctx context.Context, c Client) error {
	unlock := s.storage.Lock(c)
	defer unlock()
	return s.signOut(ctx, c)
}

func (s *AuthService) signOut(ctx context.Context, c Client) error {
	if err := s.storage.Durable(c).Remove(ctx, KeySession, KeyUser); err != nil {
		return err
	}
	return s.storage.Tab(c).Remove(ctx, KeySession)
}

// DeleteAccount clears everything stored for the client and this tab.
func (s *AuthService) DeleteAccount(ctx context.Context, c Client) error {
	unlock := s.storage.Lock(c)
	defer unlock()

	if err := s.storage.Durable(c).Clear(ctx); err != nil {
		return err
	}
	if err := s.storage.Tab(c).Clear(ctx); err != nil {
		return err
	}
	log.Info().Str("client", c.ID).Msg("account deleted")
	return nil
}

// Profile returns the stored profile, falling back to the session's user.
func (s *AuthService) Profile(ctx context.Context, c Client, sess *models.Session) (models.User, error) {
	unlock := s.storage.Lock(c)
	defer unlock()

	var user models.User
	ok, err := s.storage.Durable(c).Load(ctx, KeyUser, &user)
	if err != nil {
		return models.User{}, err
	}
	if !ok && sess != nil {
		return sess.User, nil
	}
	return user, nil
}

// UpdateProfile stores the profile.
func (s *AuthService) UpdateProfile(ctx context.Context, c Client, user models.User) (models.User, error) {
	user.Email = strings.TrimSpace(user.Email)
	user.Phone = strings.Join(strings.Fields(user.Phone), "")
	if err := validateStruct(s.validate, user); err != nil {
		return models.User{}, err
	}

	unlock := s.storage.Lock(c)
	defer unlock()

	var existing models.User
	if _, err := s.storage.Durable(c).Load(ctx, KeyUser, &existing); err != nil {
		return models.User{}, err
	}
	user.CreatedAt = existing.CreatedAt
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.storage.Now()
	}
	if err := s.storage.Durable(c).Save(ctx, KeyUser, user); err != nil {
		return models.User{}, fmt.Errorf("failed to save profile: %w", err)
	}
	return user, nil
}

// PasswordStrength scores a password against the sign-up checks.
func (s *AuthService) PasswordStrength(password string) models.PasswordStrength {
	return validation.CheckPassword(password)
}

func (s *AuthService) mintToken(user models.User, issued, expires time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": user.Email,
		"name":  user.Name,
		"iat":   issued.Unix(),
		"exp":   expires.Unix(),
	})
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks a session token's signature. Expiry is enforced by
// the session record against the service clock, not here.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	parser := &jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
