package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-api/internal/core/auth"
	resp "bookstore-api/internal/transport/http/response"
)

const (
	KeyClaims = "claims"
	KeyUserID = "userId"
)

// OptionalJWT 有合法 Bearer 令牌就挂上 claims，否则按匿名放行；
// 是否必须登录由具体路由决定
func OptionalJWT(j *auth.JWTer, dl auth.Denylist) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := authenticate(c, j, dl); err == nil && claims != nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

// AuthJWT 强制登录；roles 非空时要求命中其一
func AuthJWT(j *auth.JWTer, dl auth.Denylist, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, j, dl)
		if err != nil || claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, resp.Error(resp.CodeUnauthorized, ""))
			return
		}
		if !claims.HasAnyRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, resp.Error(resp.CodeForbidden, ""))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

func ClaimsFrom(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(KeyClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok && claims != nil
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(KeyClaims, claims)
	c.Set(KeyUserID, claims.NameID)
}

// 无 Authorization 头时返回 nil, nil
func authenticate(c *gin.Context, j *auth.JWTer, dl auth.Denylist) (*auth.Claims, error) {
	ah := c.GetHeader("Authorization")
	if ah == "" {
		return nil, nil
	}
	if !strings.HasPrefix(ah, "Bearer ") {
		return nil, auth.ErrInvalidToken
	}
	claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
	if err != nil {
		return nil, err
	}
	if dl != nil {
		revoked, err := dl.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, auth.ErrInvalidToken
		}
	}
	return claims, nil
}
