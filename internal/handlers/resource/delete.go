package resource

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Delete removes the record with the given id. Deleting a missing record is
// acknowledged with deletedCount 0.
func (h *Handler) Delete(c *gin.Context) {
	coll, err := h.collection()
	if err != nil {
		h.fail(c, "Error deleting "+h.opts.Noun, err)
		return
	}
	res, err := coll.DeleteByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Error deleting "+h.opts.Noun, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
