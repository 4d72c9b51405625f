package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gachwala/storefront/internal/auth"
	"github.com/gachwala/storefront/internal/handler"
	"github.com/gachwala/storefront/internal/middleware"
	"github.com/gachwala/storefront/internal/service"
)

// Services are the dependencies the HTTP surface is built from.
type Services struct {
	Tokens     *auth.TokenManager
	Auth       *service.AuthService
	Users      *service.UserService
	Admins     *service.AdminService
	Categories *service.CategoryService
	Products   *service.ProductService
	Orders     *service.OrderService
	Health     *handler.HealthHandler
}

// NewRouter mounts every route on a fresh engine. allowedOrigins feeds CORS;
// an empty list allows any origin.
func NewRouter(svc Services, allowedOrigins []string) *gin.Engine {
	router := gin.Default()
	router.Use(newCORS(allowedOrigins))

	health := svc.Health
	if health == nil {
		health = handler.NewHealthHandler()
	}
	authH := handler.NewAuthHandler(svc.Auth)
	userH := handler.NewUserHandler(svc.Users)
	adminH := handler.NewAdminHandler(svc.Admins)
	categoryH := handler.NewCategoryHandler(svc.Categories)
	productH := handler.NewProductHandler(svc.Products)
	orderH := handler.NewOrderHandler(svc.Orders)

	authenticated := middleware.AuthMiddleware(svc.Tokens)

	router.GET("/healthz", health.Healthz)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.GET("/verify", authenticated, authH.Verify)

		categories := api.Group("/categories")
		categories.GET("", categoryH.List)
		categories.GET("/:id", categoryH.GetByID)

		products := api.Group("/products")
		products.GET("", productH.List)
		products.GET("/:id", productH.GetByID)

		orders := api.Group("/orders", authenticated)
		orders.POST("", orderH.CreateOrder)
		orders.GET("/my-orders", orderH.ListMine)
		orders.GET("/:id", orderH.GetOrder)
		orders.GET("/:id/history", orderH.History)
		orders.PATCH("/:id/status", middleware.AdminOnly(), orderH.UpdateStatus)

		users := api.Group("/users", authenticated)
		users.GET("/profile", userH.Profile)
		users.PUT("/profile", userH.UpdateProfile)
		users.PUT("/change-password", userH.ChangePassword)
		users.GET("/orders", orderH.ListMine)

		api.POST("/admin/login", authH.AdminLogin)

		admin := api.Group("/admin", authenticated, middleware.AdminOnly())
		admin.GET("/profile", userH.Profile)
		admin.PUT("/profile", userH.UpdateProfile)
		admin.PUT("/change-password", userH.ChangePassword)

		admin.GET("/orders", orderH.ListAll)
		admin.PATCH("/orders/:id/status", orderH.UpdateStatus)

		admin.POST("/products", productH.Create)
		admin.PUT("/products/:id", productH.Update)
		admin.DELETE("/products/:id", productH.Delete)

		admin.POST("/categories", categoryH.Create)
		admin.PUT("/categories/:id", categoryH.Update)
		admin.DELETE("/categories/:id", categoryH.Delete)

		admin.GET("/admins", adminH.List)

		master := admin.Group("", middleware.MasterAdminOnly())
		master.POST("/admins", adminH.Create)
		master.POST("/create-admin", adminH.Create)
		master.DELETE("/admins/:id", adminH.Delete)
	}

	return router
}

func newCORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
