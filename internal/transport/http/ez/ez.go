package ez

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mdw "bookstore-api/internal/transport/http/middleware"
	resp "bookstore-api/internal/transport/http/response"
)

type Binder int

const (
	BindNone Binder = iota
	BindJSON
	BindQuery
)

// Action 一个路由 = 输入绑定 + 鉴权 + 业务函数 + 状态码
type Action[I any, O any] struct {
	Name    string // 日志定位，如 "Authors - Create"
	Method  string
	Path    string
	Binder  Binder
	Auth    bool     // 需要登录
	Roles   []string // 任一角色即可；非空时隐含 Auth
	Status  int      // 成功状态码，默认 200；204 不写 body
	Handler func(c *gin.Context, in *I) (O, error)
}

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

func (e EZ) Group(path string, h ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, h...), log: e.log}
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	if a.Status == 0 {
		a.Status = http.StatusOK
	}
	needAuth := a.Auth || len(a.Roles) > 0

	e.g.Handle(a.Method, a.Path, func(c *gin.Context) {
		if needAuth {
			claims, ok := mdw.ClaimsFrom(c)
			if !ok {
				e.fail(c, a.Name, Unauthorized("", nil))
				return
			}
			if !claims.HasAnyRole(a.Roles...) {
				e.fail(c, a.Name, Forbidden())
				return
			}
		}

		in := new(I)
		var err error
		switch a.Binder {
		case BindJSON:
			err = c.ShouldBindJSON(in)
		case BindQuery:
			err = c.ShouldBindQuery(in)
		}
		if err != nil {
			e.fail(c, a.Name, Invalid(err))
			return
		}

		out, err := a.Handler(c, in)
		if err != nil {
			e.fail(c, a.Name, err)
			return
		}
		if a.Status == http.StatusNoContent {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(a.Status, out)
	})
}

func (e EZ) fail(c *gin.Context, name string, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = Internal("unhandled error", err)
	}
	if ae.Code >= http.StatusInternalServerError {
		e.log.Error(name+": "+ae.Msg,
			zap.String("rid", c.GetString(mdw.KeyRequestID)),
			zap.Error(ae.Err),
		)
		c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, resp.MsgContactAdmin))
		return
	}
	e.log.Warn(name+": request rejected",
		zap.Int("status", ae.Code),
		zap.String("reason", ae.Error()),
	)
	c.AbortWithStatusJSON(ae.Code, resp.New(ae.Code, ae.Error(), ae.Data))
}

// ParamID 解析路径上的 :id，必须为正整数
func ParamID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return 0, BadRequest("id must be a positive integer")
	}
	return id, nil
}
