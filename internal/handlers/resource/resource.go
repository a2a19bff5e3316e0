package resource

import (
	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/gin-gonic/gin"
)

// Package resource provides the CRUD handlers shared by every collection the
// API exposes. Each record is an opaque JSON object; only _id is interpreted.
//
// This file defines the handler type and constructor only.
// The HTTP methods are split into dedicated, focused files:
// - list.go:   Handler.List
// - get.go:    Handler.Get
// - create.go: Handler.Create
// - update.go: Handler.Update
// - delete.go: Handler.Delete

// Options describe one resource.
type Options struct {
	// Collection is the store collection backing the resource.
	Collection string
	// Noun names one record in error messages ("spot", "plan").
	Noun string
	// Filters are query parameters List turns into equality filters on the
	// field of the same name.
	Filters []string
}

// Handler wires one resource's endpoints to the store.
type Handler struct {
	store db.Store
	opts  Options
}

// New returns a handler for the resource described by opts.
func New(s db.Store, opts Options) *Handler { return &Handler{store: s, opts: opts} }

// Register mounts the five CRUD routes under g.
func (h *Handler) Register(g gin.IRoutes) {
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

func (h *Handler) collection() (db.Collection, error) {
	return h.store.Collection(h.opts.Collection)
}
