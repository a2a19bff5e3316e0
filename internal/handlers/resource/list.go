package resource

import (
	"net/http"

	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/gin-gonic/gin"
)

// List returns every record, narrowed by any configured filter present in the
// query string. No pagination. An empty result is [] rather than null.
func (h *Handler) List(c *gin.Context) {
	filter := db.Document{}
	for _, f := range h.opts.Filters {
		if v, ok := c.GetQuery(f); ok && v != "" {
			filter[f] = v
		}
	}

	coll, err := h.collection()
	if err != nil {
		h.fail(c, "Server error", err)
		return
	}
	docs, err := coll.Find(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, "Server error", err)
		return
	}
	if docs == nil {
		docs = []db.Document{}
	}
	c.JSON(http.StatusOK, docs)
}
