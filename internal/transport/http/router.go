package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/medkala/medstore/internal/handlers"
	"github.com/medkala/medstore/internal/service/token"
)

type Deps struct {
	DB              *gorm.DB
	Tokens          *token.Service
	AuthHandler     *handlers.AuthHandler
	ProductHandler  *handlers.ProductHandler
	ContentHandler  *handlers.ContentHandler
	DiscountHandler *handlers.DiscountHandler
	CartHandler     *handlers.CartHandler
	OrderHandler    *handlers.OrderHandler
	SearchHandler   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.Logout)

	v1.GET("/search", d.SearchHandler.Search)

	products := v1.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/categories", d.ProductHandler.GetCategories)
	products.GET("/featured", d.ProductHandler.GetFeatured)
	products.GET("/discounted", d.ProductHandler.GetDiscounted)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/:id/reviews", d.ContentHandler.ListReviews)
	products.POST("/:id/reviews", d.ContentHandler.CreateReview, d.Tokens.AutoRefreshMiddleware)

	v1.GET("/articles", d.ContentHandler.ListArticles)
	v1.GET("/articles/:id", d.ContentHandler.GetArticle)
	v1.GET("/services", d.ContentHandler.ListStoreServices)

	v1.GET("/discounts", d.DiscountHandler.ListActive)
	v1.POST("/discounts/preview", d.DiscountHandler.Preview, d.Tokens.AutoRefreshMiddleware)

	cart := v1.Group("/cart", d.Tokens.AutoRefreshMiddleware)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("/:product_id", d.CartHandler.RemoveOne)
	cart.DELETE("/:product_id/all", d.CartHandler.RemoveAll)

	orders := v1.Group("/orders", d.Tokens.AutoRefreshMiddleware)
	orders.POST("", d.OrderHandler.Submit)
	orders.GET("", d.OrderHandler.MyOrders)

	admin := v1.Group("/admin", d.Tokens.RequireAdmin)
	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)
	admin.POST("/articles", d.ContentHandler.CreateArticle)
	admin.GET("/orders", d.OrderHandler.AdminOrders)
}
