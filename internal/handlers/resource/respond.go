package resource

import (
	"net/http"

	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/Jeomhps/touravels/api-go/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
	"github.com/pkg/errors"
)

// fail logs err and answers 500 with a free-text message and the error detail.
func (h *Handler) fail(c *gin.Context, msg string, err error) {
	h.logError(c, err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": msg, "error": err.Error()})
}

func (h *Handler) logError(c *gin.Context, err error) {
	grip.Error(message.WrapError(err, message.Fields{
		"message":       "request failed",
		"method":        c.Request.Method,
		"route":         c.FullPath(),
		"collection":    h.opts.Collection,
		"request_id":    middleware.GetRequestID(c),
		"not_connected": errors.Is(err, db.ErrNotConnected),
		"invalid_id":    errors.Is(err, db.ErrInvalidID),
	}))
}

// bindDocument decodes the body as a single JSON object. Arrays, scalars and
// malformed JSON are rejected with 400.
func bindDocument(c *gin.Context) (db.Document, bool) {
	var doc db.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request body must be a JSON object", "error": err.Error()})
		return nil, false
	}
	if doc == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Request body must be a JSON object", "error": "empty body"})
		return nil, false
	}
	return doc, true
}
