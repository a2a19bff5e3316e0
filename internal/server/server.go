package server

import (
	"github.com/Jeomhps/touravels/api-go/internal/config"
	"github.com/Jeomhps/touravels/api-go/internal/db"
	"github.com/Jeomhps/touravels/api-go/internal/handlers"
	"github.com/Jeomhps/touravels/api-go/internal/handlers/auth"
	"github.com/Jeomhps/touravels/api-go/internal/handlers/health"
	"github.com/Jeomhps/touravels/api-go/internal/middleware"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the HTTP surface over store. Handlers receive the store
// explicitly; nothing here holds connection state of its own.
func NewRouter(cfg config.Config, store db.Store) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	healthH := health.New(store)
	spotH := handlers.NewSpots(store)
	planH := handlers.NewPlans(store)

	// Public
	r.GET("/", healthH.Root)
	r.GET("/health", healthH.Health)

	spots := r.Group("/touristsSpot")
	plans := r.Group("/tourPlans")

	if cfg.AuthEnabled() {
		authH, err := auth.New(cfg.AdminUser, cfg.AdminPass, cfg.JWTSecret)
		if err != nil {
			return nil, err
		}
		jwtAuth := middleware.JWTAuth(cfg.JWTSecret)
		r.POST("/auth/login", authH.Login)
		r.GET("/auth/me", jwtAuth, authH.Me)

		// Reads stay public; writes need a token
		spots.Use(middleware.Writes(jwtAuth))
		plans.Use(middleware.Writes(jwtAuth))
	}

	spotH.Register(spots)
	planH.Register(plans)

	return r, nil
}
