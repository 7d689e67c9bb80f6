package routes

import (
	"net/http"

	"storefront/controllers"
	"storefront/middleware"
	"storefront/services"
	"storefront/utils"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Dependencies struct {
	Registry     *services.SessionRegistry
	Tokens       *utils.TokenIssuer
	SecureCookie bool
	Logger       *zap.Logger
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	sessionCtrl := &controllers.SessionController{}
	productCtrl := &controllers.ProductController{}
	cartCtrl := &controllers.CartController{}
	authCtrl := &controllers.AuthController{}
	checkoutCtrl := &controllers.CheckoutController{}
	notificationCtrl := &controllers.NotificationController{}
	devCtrl := &controllers.DevController{}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	api := router.Group("/")
	api.Use(middleware.SessionMiddleware(deps.Registry, deps.Tokens, deps.SecureCookie, deps.Logger))
	{
		api.GET("/session", sessionCtrl.GetSession)

		api.GET("/products", productCtrl.GetAllProducts)
		api.GET("/products/:id", productCtrl.GetProductByID)
		api.GET("/catalog", productCtrl.GetCatalog)
		api.GET("/categories", productCtrl.GetAllCategories)
		api.GET("/categories/:name/products", productCtrl.GetProductsByCategory)

		api.GET("/cart", cartCtrl.GetCart)
		api.POST("/cart/items", cartCtrl.AddItem)
		api.PATCH("/cart/items/:id", cartCtrl.UpdateItem)
		api.DELETE("/cart/items/:id", cartCtrl.RemoveItem)
		api.DELETE("/cart", cartCtrl.ClearCart)

		api.POST("/auth/login", authCtrl.Login)
		api.POST("/auth/signup", authCtrl.Signup)
		api.POST("/auth/logout", authCtrl.Logout)
		api.GET("/auth/me", middleware.RequireUser(), authCtrl.GetProfile)

		api.GET("/checkout", checkoutCtrl.GetCheckout)
		api.PUT("/checkout/shipping", checkoutCtrl.UpdateShipping)
		api.PUT("/checkout/payment", checkoutCtrl.UpdatePayment)
		api.POST("/checkout/next", checkoutCtrl.Next)
		api.POST("/checkout/back", checkoutCtrl.Back)
		api.POST("/checkout/reset", checkoutCtrl.Reset)
		api.GET("/checkout/confirmation", checkoutCtrl.GetConfirmation)

		api.GET("/notifications", notificationCtrl.GetNotifications)
		api.GET("/notifications/stream", notificationCtrl.StreamNotifications)
		api.DELETE("/notifications/:id", notificationCtrl.DismissNotification)
	}

	dev := api.Group("/dev")
	{
		dev.GET("/fail-mode", devCtrl.GetFailMode)
		dev.PUT("/fail-mode", devCtrl.SetFailMode)
	}
}
