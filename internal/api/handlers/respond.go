package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexconsult/autofill-api/internal/models"
)

func respondSuccess(c *gin.Context, status int, message string, data interface{}, start time.Time) {
	response := models.NewSuccessResponse(message, data)
	response.SetRequestID(c.GetString("request_id"))
	response.SetExecutionTime(time.Since(start))
	c.JSON(status, response)
}

func respondError(c *gin.Context, status int, code, message string, details interface{}, start time.Time) {
	response := models.NewErrorResponse(code, message, details)
	response.SetRequestID(c.GetString("request_id"))
	response.SetExecutionTime(time.Since(start))
	c.JSON(status, response)
}
