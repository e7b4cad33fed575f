package api

import (
	"log"
	stdhttp "net/http"
	"time"

	"garageclient/internal/config"
	h "garageclient/internal/http/handlers"
	"garageclient/internal/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter assembles the garage API over an in-memory state.
func NewRouter(env config.Env, g *h.Garage) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     env.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"message": "route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		auth := api.Group("/auth")
		auth.POST("/login", g.Login)
		auth.POST("/register", g.Register)

		secured := api.Group("")
		var adminOnly []gin.HandlerFunc
		if !env.AuthDisabled {
			secured.Use(middleware.Auth([]byte(env.JWTSecret)))
			adminOnly = []gin.HandlerFunc{middleware.RequireRoles("admin", "owner")}
		}

		g.Categories.Mount(secured.Group("/categories"))
		g.Suppliers.Mount(secured.Group("/suppliers"))
		g.Items.Mount(secured.Group("/items"))
		g.Vehicles.Mount(secured.Group("/vehicles"))
		g.Repairs.Mount(secured.Group("/repairs"))
		g.Services.Mount(secured.Group("/services"))
		g.Stock.Mount(secured.Group("/stock-transactions"))
		g.Users.Mount(secured.Group("/users"), adminOnly...)

		secured.GET("/repairs/:id/invoice", g.RepairInvoice)
	}

	return r
}
