package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Krishnachaitanya-dev/madmax/models"
)

// ListServices handles GET /api/v1/services - returns the fixed laundry
// service catalog. Public within the API: no profile is required.
func ListServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    models.Services,
	})
}
