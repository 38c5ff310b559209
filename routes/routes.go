package routes

import (
	"time"

	"storefront/controllers"
	"storefront/handler"
	"storefront/middleware"
	"storefront/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Deps struct {
	Catalog   *services.CatalogService
	Sessions  *services.SessionService
	Currency  string
	KeepAlive time.Duration
}

func SetupRoutes(router *gin.Engine, deps Deps) {
	productCtrl := controllers.NewProductController(deps.Catalog, deps.Currency)
	sessionCtrl := controllers.NewSessionController(deps.Sessions, deps.KeepAlive)
	cartCtrl := controllers.NewCartController(deps.Sessions)
	searchCtrl := &controllers.SearchController{}

	router.GET("/", gin.WrapF(handler.Handler))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "ok"}) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/products", productCtrl.GetAllProducts)
	router.GET("/products/:id", productCtrl.GetProductByID)
	router.POST("/sessions", sessionCtrl.CreateSession)

	session := router.Group("/session")
	session.Use(middleware.SessionMiddleware(deps.Sessions))
	{
		session.GET("", sessionCtrl.GetSession)
		session.DELETE("", sessionCtrl.EndSession)
		session.POST("/token", sessionCtrl.RenewToken)
		session.PUT("/name", sessionCtrl.SetName)
		session.PUT("/selection", sessionCtrl.SelectItem)
		session.DELETE("/selection", sessionCtrl.ClearSelection)
		session.GET("/events", sessionCtrl.StreamEvents)

		session.GET("/cart", cartCtrl.GetCart)
		session.POST("/cart", cartCtrl.AddToCart)

		session.POST("/search", searchCtrl.Search)
		session.GET("/search", searchCtrl.GetSearch)
	}
}
