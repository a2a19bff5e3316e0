package resource

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Update merges the body's fields into the record with the given id.
// The record is not required to exist: a miss is acknowledged with
// matchedCount 0.
func (h *Handler) Update(c *gin.Context) {
	fields, ok := bindDocument(c)
	if !ok {
		return
	}

	coll, err := h.collection()
	if err != nil {
		h.fail(c, "Error updating "+h.opts.Noun, err)
		return
	}
	res, err := coll.UpdateByID(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		h.fail(c, "Error updating "+h.opts.Noun, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
