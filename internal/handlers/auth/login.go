package auth

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"golang.org/x/crypto/bcrypt"
)

// Login issues a short-lived access token for the operator credentials.
func (h *Handler) Login(c *gin.Context) {
	var in struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&in); err != nil || in.Username == "" || in.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "username and password are required"})
		return
	}

	if h.passwordHash == nil ||
		subtle.ConstantTimeCompare([]byte(in.Username), []byte(h.username)) != 1 ||
		bcrypt.CompareHashAndPassword(h.passwordHash, []byte(in.Password)) != nil {
		grip.Info(message.Fields{
			"message":  "login rejected",
			"username": in.Username,
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_grant", "message": "invalid credentials"})
		return
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"iss": "touravels-api",
		"sub": h.username,
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"exp": now.Add(TokenTTL * time.Second).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.jwtSecret))
	if err != nil {
		grip.Error(message.WrapError(err, message.Fields{"message": "signing token"}))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   TokenTTL,
	})
}
