package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bookstore-api/internal/domain"
	"bookstore-api/internal/dto"
	"bookstore-api/internal/service"
	"bookstore-api/internal/transport/http/ez"
	mdw "bookstore-api/internal/transport/http/middleware"
)

type UserHandler struct {
	svc   *service.AuthService
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserHandler(svc *service.AuthService, users domain.UserRepository, l *zap.Logger) *UserHandler {
	return &UserHandler{svc: svc, users: users, log: l}
}

func (h *UserHandler) Priority() int { return 30 }

func (h *UserHandler) MountAPI(api *gin.RouterGroup) {
	// 登录按 IP 限速
	e := ez.New(api.Group("/users", mdw.RateLimitPerIP(rate.Limit(5), 10)), h.log)

	ez.RegisterAction(e, ez.Action[dto.Login, dto.Token]{
		Name:    "Users - Login",
		Method:  http.MethodPost,
		Path:    "",
		Binder:  ez.BindJSON,
		Handler: h.login,
	})
	if h.svc.RevocationEnabled() {
		ez.RegisterAction(e, ez.Action[struct{}, struct{}]{
			Name:    "Users - Logout",
			Method:  http.MethodPost,
			Path:    "/logout",
			Auth:    true,
			Status:  http.StatusNoContent,
			Handler: h.logout,
		})
	}
}

// MountAdmin 管理端：分组已要求 Administrator
func (h *UserHandler) MountAdmin(admin *gin.RouterGroup) {
	ez.RegisterAction(ez.New(admin, h.log), ez.Action[dto.UserListQuery, dto.UserList]{
		Name:    "Admin - ListUsers",
		Method:  http.MethodGet,
		Path:    "/users",
		Binder:  ez.BindQuery,
		Roles:   []string{domain.RoleAdministrator},
		Handler: h.list,
	})
}

func (h *UserHandler) login(c *gin.Context, in *dto.Login) (dto.Token, error) {
	const loc = "Users - Login"
	h.log.Info(loc+": login attempted", zap.String("username", in.Username))

	tok, err := h.svc.Authenticate(c.Request.Context(), in.Username, in.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.log.Warn(loc+": invalid credentials", zap.String("username", in.Username))
		return dto.Token{}, ez.Unauthorized("invalid username or password", gin.H{"username": in.Username})
	}
	if err != nil {
		return dto.Token{}, ez.Internal(loc+": authentication failed", err)
	}
	h.log.Info(loc+": token issued", zap.String("username", in.Username), zap.String("jti", tok.Claims.ID))
	return dto.Token{Token: tok.Value, ExpiresAt: tok.Claims.ExpiresAt.Unix()}, nil
}

func (h *UserHandler) logout(c *gin.Context, _ *struct{}) (struct{}, error) {
	claims, _ := mdw.ClaimsFrom(c)
	if err := h.svc.Logout(c.Request.Context(), claims); err != nil {
		return struct{}{}, ez.Internal("Users - Logout: revoke failed", err)
	}
	return struct{}{}, nil
}

func (h *UserHandler) list(c *gin.Context, in *dto.UserListQuery) (dto.UserList, error) {
	limit := in.Limit
	if limit == 0 {
		limit = 20
	}
	users, total, err := h.users.WithContext(c.Request.Context()).List(in.Offset, limit)
	if err != nil {
		return dto.UserList{}, ez.Internal("Admin - ListUsers: list users failed", err)
	}
	out := dto.UserList{Total: total, Items: make([]dto.User, 0, len(users))}
	for i := range users {
		out.Items = append(out.Items, dto.UserFromEntity(&users[i]))
	}
	return out, nil
}
