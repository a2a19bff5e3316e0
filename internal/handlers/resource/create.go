package resource

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Create inserts the body as a new record and returns the store's
// acknowledgment with the generated id.
func (h *Handler) Create(c *gin.Context) {
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	coll, err := h.collection()
	if err != nil {
		h.fail(c, "Error adding "+h.opts.Noun, err)
		return
	}
	res, err := coll.Insert(c.Request.Context(), doc)
	if err != nil {
		h.fail(c, "Error adding "+h.opts.Noun, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
