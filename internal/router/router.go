package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-pos/internal/config"
	"github.com/iliyamo/restaurant-pos/internal/handler"
	"github.com/iliyamo/restaurant-pos/internal/middleware"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check, used by
// load balancers and monitoring to verify the service is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication routes and the protected /v1
// group.  Unauthenticated operations (register, login) live under /v1/auth;
// everything else requires a valid access token and a known staff role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) *echo.Group {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)

	// Protected group.  Every terminal endpoint requires a signed token and
	// one of the staff roles; finer-grained restrictions are applied per
	// route where needed.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole(model.RoleManager, model.RoleServer))
	auth.GET("/me", a.Me)
	return auth
}

// RegisterOrders registers the seat-balance and split-session endpoints on
// the protected group.  Seat balances are read-heavy (the floor plan polls
// them), so GETs run behind the Redis response cache when one is configured.
func RegisterOrders(auth *echo.Group, seats *handler.SeatHandler, splits *handler.SplitHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	auth.GET("/orders/:id/seats", seats.GetSeatBalances, middleware.NewRedisCache(cacheCfg, rdb))

	// Split-session lifecycle.  One live session per order; operations act on
	// the in-memory session and return the refreshed view.
	auth.POST("/orders/:id/split", splits.StartSession)
	auth.GET("/orders/:id/split", splits.GetSession)
	auth.DELETE("/orders/:id/split", splits.CancelSession)

	auth.POST("/orders/:id/split/select", splits.SelectShare)
	auth.POST("/orders/:id/split/move", splits.MoveSelected)
	auth.POST("/orders/:id/split/move-new", splits.MoveSelectedToNew)
	auth.POST("/orders/:id/split/share", splits.SplitShare)
	auth.POST("/orders/:id/split/mode", splits.ApplyMode)
	auth.POST("/orders/:id/split/ways", splits.SetWays)
	auth.POST("/orders/:id/split/reset", splits.ResetSession)
	auth.POST("/orders/:id/split/commit", splits.Commit)
}
