package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const RunningMessage = "Builder Studio backend is running"

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": RunningMessage})
}
