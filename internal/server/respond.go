package server

import (
	"github.com/gin-gonic/gin"
)

// respond writes the success envelope; fields are merged at the top level.
func respond(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}
