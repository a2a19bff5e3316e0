package health

import (
	"net/http"

	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

// RootMessage is the liveness text served at /.
const RootMessage = "TourAvels server is running"

// Handler reports process and store liveness.
type Handler struct{ store db.Store }

// New returns a new health handler.
func New(s db.Store) *Handler { return &Handler{store: s} }

// Root answers with plain text while the process is up.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, RootMessage)
}

// Health pings the store on every call, connecting first when the startup
// connection failed or never happened.
func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message": "health check failed",
		}))
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "DB not connected", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Server & DB connected"})
}
