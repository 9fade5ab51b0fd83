// Package router registers the HTTP routes of the API.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/handler"
	"github.com/iliyamo/movie-rental/internal/middleware"
	"github.com/iliyamo/movie-rental/internal/model"
)

// Catalog write and staff routes accept these roles.
var (
	employeeOnly = []string{model.RoleEmployee}
	staff        = []string{model.RoleEmployee, model.RoleAdmin}
	adminOnly    = []string{model.RoleAdmin}
)

// RegisterRoutes registers the unauthenticated operational endpoints.
// metrics may be nil.
func RegisterRoutes(e *echo.Echo, db handler.Pinger, metrics http.Handler) {
	e.GET("/healthz", handler.Health)
	if db != nil {
		e.GET("/readyz", handler.Ready(db))
	}
	if metrics != nil {
		e.GET("/metrics", echo.WrapHandler(metrics))
	}
}

// RegisterAuth registers the authentication routes. Register, login,
// refresh and logout need no session; /v1/me does.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// CatalogMiddleware are the extra middlewares for catalog routes: Cache
// wraps public reads, Invalidate wraps successful writes. Either may be
// nil.
type CatalogMiddleware struct {
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc
}

func (m CatalogMiddleware) read() []echo.MiddlewareFunc {
	if m.Cache == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m.Cache}
}

func (m CatalogMiddleware) write(jwtSecret string, roles []string) []echo.MiddlewareFunc {
	mw := []echo.MiddlewareFunc{middleware.JWTAuth(jwtSecret), middleware.RequireRole(roles...)}
	if m.Invalidate != nil {
		mw = append(mw, m.Invalidate)
	}
	return mw
}

// RegisterCatalog registers genre and movie routes. Reads are public;
// creates and edits need EMPLOYEE, deletes EMPLOYEE or ADMIN.
func RegisterCatalog(e *echo.Echo, g *handler.GenreHandler, mv *handler.MovieHandler, jwtSecret string, mw CatalogMiddleware) {
	read := mw.read()
	edit := mw.write(jwtSecret, employeeOnly)
	del := mw.write(jwtSecret, staff)

	e.GET("/v1/genres", g.List, read...)
	e.GET("/v1/genres/:id", g.Get, read...)
	e.GET("/v1/genres/name/:name", g.GetByName, read...)
	e.POST("/v1/genres", g.Create, edit...)
	e.PUT("/v1/genres/:id", g.Update, edit...)
	e.DELETE("/v1/genres/:id", g.Delete, del...)

	e.GET("/v1/movies", mv.List, read...)
	e.GET("/v1/movies/:id", mv.Get, read...)
	e.GET("/v1/movies/genres/:id", mv.ListByGenre, read...)
	e.GET("/v1/movies/genres/name/:name", mv.ListByGenreName, read...)
	e.POST("/v1/movies", mv.Create, edit...)
	e.PUT("/v1/movies/:id", mv.Update, edit...)
	e.DELETE("/v1/movies/:id", mv.Delete, del...)
}

// RegisterCustomers registers customer account routes. Every route needs
// a session; listing and name lookup are staff only, role changes admin
// only, and self-service routes check ownership in the service.
func RegisterCustomers(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group("/v1/customers", middleware.JWTAuth(jwtSecret))
	g.GET("", h.List, middleware.RequireRole(staff...))
	g.GET("/name/:name", h.GetByName, middleware.RequireRole(staff...))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/role", h.ChangeRole, middleware.RequireRole(adminOnly...))
}

// RegisterRentals registers rental routes. Every route needs a session;
// the unscoped listings are staff only.
func RegisterRentals(e *echo.Echo, h *handler.RentalHandler, jwtSecret string) {
	g := e.Group("/v1/rentals", middleware.JWTAuth(jwtSecret))
	g.GET("", h.List, middleware.RequireRole(staff...))
	g.GET("/customers/:id", h.ListByCustomer, middleware.RequireRole(staff...))
	g.GET("/mine", h.ListMine)
	g.GET("/:id", h.Get)
	g.POST("/:movieId", h.Create)
}
