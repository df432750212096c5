package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"bookstore-api/internal/core/auth"
	"bookstore-api/internal/domain"
	"bookstore-api/pkg/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRevocationDisabled = errors.New("token revocation disabled")
)

var loginAttempts = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "bookstore_login_attempts_total", Help: "Login attempts by result"},
	[]string{"result"},
)

func init() { prometheus.MustRegister(loginAttempts) }

// SignInResult 登录结果。判断成败看 Succeeded，不看返回值是否为空
type SignInResult struct {
	Succeeded bool
	User      *domain.User
}

type Token struct {
	Value  string
	Claims *auth.Claims
}

type AuthService struct {
	users    domain.UserRepository
	jwt      *auth.JWTer
	denylist auth.Denylist // 可为空
	log      *zap.Logger
}

func NewAuthService(users domain.UserRepository, jwter *auth.JWTer, denylist auth.Denylist, l *zap.Logger) *AuthService {
	return &AuthService{users: users, jwt: jwter, denylist: denylist, log: l}
}

func (s *AuthService) PasswordSignIn(ctx context.Context, username, password string) (SignInResult, error) {
	u, err := s.users.WithContext(ctx).FindByUsername(username)
	if err != nil {
		return SignInResult{}, err
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return SignInResult{}, nil
	}
	return SignInResult{Succeeded: true, User: u}, nil
}

// Authenticate 校验口令并签发令牌；用户名或密码错误统一返回 ErrInvalidCredentials
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*Token, error) {
	res, err := s.PasswordSignIn(ctx, username, password)
	if err != nil {
		loginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}
	if !res.Succeeded {
		loginAttempts.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	roles, err := s.users.WithContext(ctx).Roles(res.User)
	if err != nil {
		loginAttempts.WithLabelValues("error").Inc()
		return nil, err
	}
	tok, claims, err := s.jwt.Issue(res.User.Email, res.User.ID, roles)
	if err != nil {
		loginAttempts.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("issue token: %w", err)
	}
	loginAttempts.WithLabelValues("success").Inc()
	return &Token{Value: tok, Claims: claims}, nil
}

func (s *AuthService) RevocationEnabled() bool { return s.denylist != nil }

// Logout 吊销令牌直到其自然过期
func (s *AuthService) Logout(ctx context.Context, c *auth.Claims) error {
	if s.denylist == nil {
		return ErrRevocationDisabled
	}
	if c.ExpiresAt == nil {
		return auth.ErrInvalidToken
	}
	if err := s.denylist.Revoke(ctx, c.ID, c.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke %s: %w", c.ID, err)
	}
	s.log.Info("token revoked", zap.String("jti", c.ID), zap.String("sub", c.Subject))
	return nil
}
