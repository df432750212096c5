package ez

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	resp "bookstore-api/internal/transport/http/response"
)

// AErr 带 HTTP 状态码的业务错误；Code >= 500 时 Msg 只进日志
type AErr struct {
	Code int
	Msg  string
	Err  error
	Data any
}

func (e *AErr) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	return e.Msg
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) *AErr { return &AErr{Code: http.StatusBadRequest, Msg: msg} }

func Unauthorized(msg string, data any) *AErr {
	if msg == "" {
		msg = resp.CodeMsgMap[resp.CodeUnauthorized]
	}
	return &AErr{Code: http.StatusUnauthorized, Msg: msg, Data: data}
}

func Forbidden() *AErr {
	return &AErr{Code: http.StatusForbidden, Msg: resp.CodeMsgMap[resp.CodeForbidden]}
}

func NotFound(msg string) *AErr { return &AErr{Code: http.StatusNotFound, Msg: msg} }

func Internal(msg string, err error) *AErr {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Invalid 绑定/校验失败 → 400，字段级明细放 data
func Invalid(err error) *AErr {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return &AErr{Code: http.StatusRequestEntityTooLarge, Msg: "request body too large", Err: err}
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = friendlyMessage(fe)
		}
		return &AErr{Code: http.StatusBadRequest, Msg: "validation failed", Err: err, Data: map[string]any{"errors": fields}}
	}
	if errors.Is(err, io.EOF) {
		return &AErr{Code: http.StatusBadRequest, Msg: "request body is empty", Err: err}
	}
	return &AErr{Code: http.StatusBadRequest, Msg: "malformed request body", Err: err}
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", fe.Param())
	case "lte":
		return fmt.Sprintf("must be %s or less", fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

// 校验错误里用 json 字段名而非 Go 字段名
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
