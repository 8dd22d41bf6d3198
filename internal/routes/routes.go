package routes

import (
	"github.com/BradenHooton/userservice/internal/auth"
	"github.com/BradenHooton/userservice/internal/handlers"
	"github.com/BradenHooton/userservice/internal/middleware"
	pkghttp "github.com/BradenHooton/userservice/pkg/http"
	"github.com/go-chi/chi/v5"
)

// Handlers groups the HTTP handlers mounted under /v1
type Handlers struct {
	Users        *handlers.UserHandler
	Pictures     *handlers.PictureHandler
	Availability *handlers.AvailabilityHandler
	Blocks       *handlers.BlockHandler
	Favorites    *handlers.FavoriteHandler
	Preferences  *handlers.PreferenceHandler
}

// RegisterRoutes registers all application routes. Every /v1 route needs a bearer token;
// block and favorite mutations are additionally limited per caller.
func RegisterRoutes(
	router chi.Router,
	h *Handlers,
	tokenManager *auth.TokenManager,
	ipConfig *pkghttp.IPConfig,
	graphRequestsPerMin int,
) {
	router.Route("/v1", func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager))

		graphWriteLimit := middleware.RateLimitByUser(graphRequestsPerMin, ipConfig)
		h.Blocks.RegisterRoutes(r, graphWriteLimit)
		h.Favorites.RegisterRoutes(r, graphWriteLimit)

		r.Route("/users", func(r chi.Router) {
			h.Users.RegisterRoutes(r)
			h.Pictures.RegisterRoutes(r)
			h.Availability.RegisterRoutes(r)
		})

		h.Preferences.RegisterRoutes(r)
	})
}
