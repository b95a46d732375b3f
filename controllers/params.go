package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

var nowFunc = time.Now

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return uint(v), true
}
