package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"bookstore-api/internal/core/auth"
	"bookstore-api/internal/core/config"
	"bookstore-api/internal/core/server"
	"bookstore-api/internal/domain"
	"bookstore-api/internal/repo"
	"bookstore-api/internal/service"
	"bookstore-api/internal/transport/http/handler"
	mdw "bookstore-api/internal/transport/http/middleware"
)

type Deps struct {
	Log      *zap.Logger
	DB       *gorm.DB
	JWT      *auth.JWTer
	Denylist auth.Denylist // 为空则不挂 /api/users/logout
	HTTP     config.HTTP
	Mode     string
}

func NewAPIEngine(d Deps) *gin.Engine {
	h := withDefaults(d.HTTP)
	r := server.NewRouter(d.Log, server.Options{
		Name:        "http",
		Mode:        d.Mode,
		CORSOrigins: h.CORSOrigins,
		Recovery:    mdw.RecoveryJSON,
	})

	// 中间件
	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(h.RateLimitRPS), h.RateLimitBurst),
		mdw.ConcurrencyLimit(h.MaxConcurrent),
		mdw.MaxBodyBytes(h.MaxBodyMB<<20),
		mdw.Timeout(time.Duration(h.RequestTimeoutS)*time.Second),
		mdw.Metrics(),
		mdw.AccessLog(d.Log),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api", mdw.OptionalJWT(d.JWT, d.Denylist))
	admin := api.Group("/admin", mdw.AuthJWT(d.JWT, d.Denylist, domain.RoleAdministrator))

	users := repo.NewUserRepo(d.DB)
	authSvc := service.NewAuthService(users, d.JWT, d.Denylist, d.Log)

	reg := &Registry{}
	reg.Register(
		handler.NewAuthorHandler(repo.NewAuthorRepo(d.DB), d.Log),
		handler.NewBookHandler(repo.NewBookRepo(d.DB), d.Log),
		handler.NewUserHandler(authSvc, users, d.Log),
	)
	reg.MountAllAPI(api)
	reg.MountAllAdmin(admin)

	return r
}

func withDefaults(h config.HTTP) config.HTTP {
	if h.RateLimitRPS <= 0 {
		h.RateLimitRPS = 200
	}
	if h.RateLimitBurst <= 0 {
		h.RateLimitBurst = 400
	}
	if h.MaxConcurrent <= 0 {
		h.MaxConcurrent = 300
	}
	if h.MaxBodyMB <= 0 {
		h.MaxBodyMB = 16
	}
	if h.RequestTimeoutS <= 0 {
		h.RequestTimeoutS = 10
	}
	return h
}
