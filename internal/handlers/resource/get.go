package resource

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Get returns a single record by id, or {} when there is none.
// Failures, including a malformed id, answer 500 with an empty object.
func (h *Handler) Get(c *gin.Context) {
	coll, err := h.collection()
	if err != nil {
		h.logError(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}
	doc, err := coll.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logError(c, err)
		c.JSON(http.StatusInternalServerError, gin.H{})
		return
	}
	if doc == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, doc)
}
