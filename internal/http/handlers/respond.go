package handlers

import (
	"net/http"

	"garageclient/internal/domain"

	"github.com/gin-gonic/gin"
)

func okList[T any](c *gin.Context, data []T, count, page, limit int) {
	pages := 1
	if limit > 0 {
		pages = (count + limit - 1) / limit
	}
	if pages < 1 {
		pages = 1
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
		"count":   count,
		"page":    page,
		"pages":   pages,
	})
}

func okData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func failFields(c *gin.Context, errs []domain.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": errs})
}
