package routes

import (
	"dokan/auth"
	"dokan/cart"
	"dokan/checkout"
	"dokan/inventory"
	"dokan/middleware"
	"dokan/orders"
	"dokan/pay"
	"dokan/products"
	"dokan/ratelim"
	"dokan/users"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddUserRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/users/:userid", rl.Limit(users.GetUser))
}

func AddProductRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/products/:productid", rl.Limit(products.GetProduct))
	router.POST("/api/products", middleware.Authenticate(products.CreateProduct))
	router.PUT("/api/products/:productid", middleware.Authenticate(products.UpdateProduct))
	router.GET("/api/seller/products", middleware.Authenticate(products.GetSellerProducts))
	router.PUT("/api/products/:productid/stock", middleware.Authenticate(inventory.SetProductStock))
}

func AddCartRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/cart", middleware.Authenticate(cart.GetCart))
	router.POST("/api/cart/items", rl.Limit(middleware.Authenticate(cart.AddToCart)))
	router.PUT("/api/cart/items/:productid", rl.Limit(middleware.Authenticate(cart.UpdateQuantity)))
	router.DELETE("/api/cart/items/:productid", middleware.Authenticate(cart.RemoveFromCart))
	router.DELETE("/api/cart", middleware.Authenticate(cart.ClearCart))
}

func AddCheckoutRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/checkout", rl.Limit(middleware.Authenticate(pay.Idempotent(checkout.Checkout))))
}

func AddOrderRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/orders", middleware.Authenticate(orders.GetUserOrders))
	router.GET("/api/orders/:orderid", middleware.Authenticate(orders.GetOrder))
	router.GET("/api/orders/:orderid/invoice", middleware.Authenticate(orders.PrintInvoice))
	router.PATCH("/api/orders/:orderid/status", middleware.Authenticate(orders.UpdateStatus))
	router.POST("/api/orders/:orderid/payment", middleware.Authenticate(orders.UpdatePayment))
	router.POST("/api/orders/:orderid/timeline", middleware.Authenticate(orders.AddTimeline))

	router.GET("/api/seller/orders", middleware.Authenticate(orders.GetSellerOrders))
	router.GET("/api/seller/dashboard", rl.Limit(middleware.Authenticate(orders.Dashboard)))
}

// RoutesWrapper registers every route group on the router.
func RoutesWrapper(router *httprouter.Router, rl *ratelim.RateLimiter) {
	AddAuthRoutes(router, rl)
	AddUserRoutes(router, rl)
	AddProductRoutes(router, rl)
	AddCartRoutes(router, rl)
	AddCheckoutRoutes(router, rl)
	AddOrderRoutes(router, rl)
}
