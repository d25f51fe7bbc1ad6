package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/domain"
	"github.com/hansonlew0803/online-ticket-booking-system/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type AuthUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (int64, error)
}

// TokenDenylist revokes JWTs by jti until their natural expiry.
type TokenDenylist interface {
	DenyToken(ctx context.Context, jti string, ttl time.Duration) error
	IsTokenDenied(ctx context.Context, jti string) (bool, error)
}

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type AuthService struct {
	users      repository.UserRepository
	denylist   TokenDenylist
	secret     []byte
	accessTTL  time.Duration
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, denylist TokenDenylist, secret string, accessTTL time.Duration, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		users:      users,
		denylist:   denylist,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.New("email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	exp := time.Now().Add(s.accessTTL)
	claims := jwt.MapClaims{
		"sub": user.ID,
		"jti": uuid.NewString(),
		"exp": exp.Unix(),
		"iat": time.Now().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{AccessToken: signed, ExpiresAt: exp}, nil
}

// Logout denylists the token's jti for its remaining lifetime, so the token
// stops authenticating immediately while expired tokens cost nothing to track.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	claims, err := s.parse(rawToken)
	if err != nil {
		return err
	}

	jti, _ := claims["jti"].(string)
	if jti == "" {
		return errors.New("token has no jti claim")
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return errors.New("token has no expiry")
	}
	return s.denylist.DenyToken(ctx, jti, time.Until(exp.Time))
}

// Authenticate resolves the user id from a bearer token, rejecting tokens
// that were logged out.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (int64, error) {
	claims, err := s.parse(rawToken)
	if err != nil {
		return 0, err
	}

	if jti, _ := claims["jti"].(string); jti != "" && s.denylist != nil {
		denied, err := s.denylist.IsTokenDenied(ctx, jti)
		if err != nil {
			return 0, err
		}
		if denied {
			return 0, domain.ErrInvalidCredentials
		}
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		return 0, errors.New("token has no subject")
	}
	return int64(sub), nil
}

func (s *AuthService) parse(rawToken string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, domain.ErrInvalidCredentials
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return claims, nil
}

var _ AuthUseCase = (*AuthService)(nil)
