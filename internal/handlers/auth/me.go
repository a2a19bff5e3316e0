package auth

import (
	"net/http"

	"github.com/Jeomhps/touravels/api-go/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Me returns the subject of the presented token.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": c.GetString(middleware.UserKey)})
}
