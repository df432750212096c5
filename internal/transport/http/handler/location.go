package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// setLocation 201 响应带上新资源地址，如 /api/authors/7
func setLocation(c *gin.Context, id int) {
	c.Header("Location", strings.TrimSuffix(c.Request.URL.Path, "/")+"/"+strconv.Itoa(id))
}
