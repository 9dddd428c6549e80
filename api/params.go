package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses a numeric path parameter. On failure it writes the 400
// response itself and returns false.
func pathID(c *gin.Context, name string) (uint, bool) {
	requestID := c.MustGet("requestID").(string)

	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid " + name + " provided",
			"requestID": requestID,
		})
		return 0, false
	}

	return uint(id), true
}
